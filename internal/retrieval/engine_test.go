package retrieval

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fitpro/internal/kb"
)

const (
	hydrationFact = "Drink water around your workouts."
	proteinFact   = "Protein helps muscles recover."
	sleepFact     = "Sleep drives recovery."
)

// fixedEmbedder returns a preset vector for every query.
type fixedEmbedder struct {
	vec   []float64
	calls int
}

func (f *fixedEmbedder) Embed(context.Context, string) ([]float64, error) {
	f.calls++
	return f.vec, nil
}

func (f *fixedEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float64, error) {
	out := make([][]float64, len(texts))
	for i := range texts {
		out[i] = f.vec
	}
	return out, nil
}

func testEngine(t *testing.T, queryVec []float64) *Engine {
	t.Helper()
	index, err := kb.New(
		[]string{hydrationFact, proteinFact, sleepFact},
		[][]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}},
	)
	require.NoError(t, err)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(index, &fixedEmbedder{vec: queryVec}, nil, nil, logger)
}

func TestRetrieveBestMatch(t *testing.T) {
	e := testEngine(t, []float64{0.9, 0.5, 0.1})

	ans, err := e.Retrieve(context.Background(), "should I drink water?", nil)
	require.NoError(t, err)
	assert.Equal(t, hydrationFact, ans.Text)
	assert.Equal(t, hydrationFact, ans.Fact)
	assert.InDelta(t, 0.9, ans.Confidence, 1e-9)
}

// A query below the threshold against every entry must never return a
// knowledge entry.
func TestRetrieveBelowThreshold(t *testing.T) {
	e := testEngine(t, []float64{0.1, 0.2, 0.05})

	ans, err := e.Retrieve(context.Background(), "what about gardening", nil)
	require.NoError(t, err)
	assert.Equal(t, genericFallback, ans.Text)
	assert.Zero(t, ans.Confidence)
}

func TestRetrieveKeywordFallbacks(t *testing.T) {
	tests := []struct {
		name     string
		question string
		want     string
	}{
		{"cardio", "any cardio tips", cardioFallback},
		{"workout", "best workout plan", workoutFallback},
		{"exercise", "which exercise is easiest", workoutFallback},
		{"lose weight", "help me lose weight fast", weightFallback},
		{"cardio beats workout", "cardio workout ideas", cardioFallback},
		{"generic", "what about gardening", genericFallback},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := testEngine(t, []float64{0, 0, 0})
			ans, err := e.Retrieve(context.Background(), tt.question, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ans.Text)
			assert.Zero(t, ans.Confidence)
		})
	}
}

// When the top entry was recently shown and a second entry also clears the
// threshold, the second is preferred.
func TestRetrieveRecencyDedup(t *testing.T) {
	e := testEngine(t, []float64{0.9, 0.5, 0.1})

	history := []string{hydrationFact}
	ans, err := e.Retrieve(context.Background(), "should I drink water?", history)
	require.NoError(t, err)
	assert.Equal(t, proteinFact, ans.Text)
	assert.InDelta(t, 0.5, ans.Confidence, 1e-9)
}

// Dedup is best-effort: if every candidate was recently shown, the top one is
// repeated rather than degrading to a fallback.
func TestRetrieveDedupBestEffort(t *testing.T) {
	e := testEngine(t, []float64{0.9, 0.5, 0.1})

	history := []string{hydrationFact, proteinFact}
	ans, err := e.Retrieve(context.Background(), "should I drink water?", history)
	require.NoError(t, err)
	assert.Equal(t, hydrationFact, ans.Text)
}

// Only the last five history entries participate in dedup.
func TestRetrieveDedupWindow(t *testing.T) {
	e := testEngine(t, []float64{0.9, 0.5, 0.1})

	history := []string{hydrationFact, "a", "b", "c", "d", "e"}
	ans, err := e.Retrieve(context.Background(), "should I drink water?", history)
	require.NoError(t, err)
	assert.Equal(t, hydrationFact, ans.Text, "entry outside the window is eligible again")
}
