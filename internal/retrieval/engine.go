package retrieval

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"fitpro/internal/ai"
	"fitpro/internal/kb"
	"fitpro/internal/metrics"
)

const (
	// relevanceThreshold is the minimum similarity required to trust a
	// knowledge-base match over fallback text.
	relevanceThreshold = 0.35
	topK               = 3
	// historyWindow is how many recent replies are checked when avoiding a
	// repeated tip.
	historyWindow = 5
)

const (
	cardioFallback  = "For cardio, aim for at least 150 minutes of moderate activity a week. Brisk walking, cycling, and swimming all count."
	workoutFallback = "If you're just getting started, try three full-body workouts a week with a rest day in between each session."
	weightFallback  = "To lose weight, aim for a steady calorie deficit: slightly smaller portions plus regular activity, kept up over weeks."
	genericFallback = "I'm not sure about that one. Ask me about workouts, nutrition, hydration, sleep, or recovery!"
)

// Answer is the outcome of a retrieval. Fact is the knowledge-base text used
// for history de-duplication; Text is what gets shown to the user and only
// differs from Fact when a generator rephrases it.
type Answer struct {
	Text       string
	Fact       string
	Confidence float64
}

// Engine answers questions by ranking the knowledge base against a query
// embedding, with thresholding, recency de-duplication, and keyword fallback.
type Engine struct {
	index     *kb.Index
	embedder  ai.Embedder
	generator ai.Generator
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

// New creates a retrieval engine. generator may be nil; answers are then the
// raw knowledge-base text.
func New(index *kb.Index, embedder ai.Embedder, generator ai.Generator, m *metrics.Metrics, logger *slog.Logger) *Engine {
	return &Engine{
		index:     index,
		embedder:  embedder,
		generator: generator,
		metrics:   m,
		logger:    logger.With("component", "retrieval"),
	}
}

// Retrieve answers a question given the replies recently shown to the user.
// Queries below the relevance threshold never return a knowledge entry; they
// fall through to keyword rules and then a generic answer, all at confidence
// zero.
func (e *Engine) Retrieve(ctx context.Context, question string, history []string) (Answer, error) {
	normalized := strings.ToLower(strings.TrimSpace(question))

	vec, err := e.embedder.Embed(ctx, normalized)
	if err != nil {
		return Answer{}, fmt.Errorf("embed question: %w", err)
	}

	ranked := e.index.Rank(vec, topK)
	if len(ranked) > 0 && e.metrics != nil {
		e.metrics.RetrievalScore.Observe(ranked[0].Score)
	}

	var relevant []kb.Scored
	for _, hit := range ranked {
		if hit.Score >= relevanceThreshold {
			relevant = append(relevant, hit)
		}
	}

	if len(relevant) > 0 {
		recent := history
		if len(recent) > historyWindow {
			recent = recent[len(recent)-historyWindow:]
		}
		chosen := relevant[0]
		for _, hit := range relevant {
			if !slices.Contains(recent, hit.Text) {
				chosen = hit
				break
			}
		}
		e.logger.Debug("knowledge hit", "score", chosen.Score, "index", chosen.Index)
		return Answer{Text: e.compose(ctx, chosen.Text, question), Fact: chosen.Text, Confidence: chosen.Score}, nil
	}

	if text, ok := keywordFallback(normalized); ok {
		return Answer{Text: text, Fact: text}, nil
	}
	return Answer{Text: genericFallback, Fact: genericFallback}, nil
}

// compose optionally rephrases a fact through the generator. Generation
// failures fall back to the fact itself.
func (e *Engine) compose(ctx context.Context, fact, question string) string {
	if e.generator == nil {
		return fact
	}
	prompt := fmt.Sprintf("Answer based on context: %s\nQuestion: %s", fact, question)
	text, err := e.generator.Generate(ctx, prompt)
	if err != nil || strings.TrimSpace(text) == "" {
		e.logger.Warn("answer generation failed, returning fact", "error", err)
		return fact
	}
	return strings.TrimSpace(text)
}

// keywordFallback applies the ordered substring rules used when no knowledge
// entry clears the threshold.
func keywordFallback(question string) (string, bool) {
	switch {
	case strings.Contains(question, "cardio"):
		return cardioFallback, true
	case strings.Contains(question, "workout"), strings.Contains(question, "exercise"):
		return workoutFallback, true
	case strings.Contains(question, "lose weight"):
		return weightFallback, true
	}
	return "", false
}
