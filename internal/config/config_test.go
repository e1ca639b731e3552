package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.HTTPListenAddr)
	assert.Equal(t, "text-embedding-3-small", cfg.EmbedModel)
	assert.Equal(t, "data/user_profiles.json", cfg.UsersFile)
	assert.Equal(t, int64(20), cfg.QuestionRateLimit)
	assert.Equal(t, 10*time.Minute, cfg.QuestionRateWindow)
	assert.False(t, cfg.GenerateAnswers)
}

func TestLoadRequiresAPIKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsBadDuration(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("EMBED_TIMEOUT", "soon")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadTrimsBaseURL(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("OPENAI_BASE_URL", "http://localhost:11434/v1/")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:11434/v1", cfg.OpenAIBaseURL)
}
