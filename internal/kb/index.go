package kb

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"fitpro/internal/ai"
)

// Entry is one knowledge-base fact with its embedding.
type Entry struct {
	Text   string
	Vector []float64
}

// Scored is a ranked entry with its inner-product similarity to a query.
type Scored struct {
	Index int
	Text  string
	Score float64
}

// Index holds the embedded knowledge base and ranks entries against queries.
type Index struct {
	entries []Entry
}

// New builds an index from parallel fact and vector slices.
func New(texts []string, vectors [][]float64) (*Index, error) {
	if len(texts) != len(vectors) {
		return nil, fmt.Errorf("kb: %d facts but %d vectors", len(texts), len(vectors))
	}
	entries := make([]Entry, len(texts))
	for i := range texts {
		entries[i] = Entry{Text: texts[i], Vector: vectors[i]}
	}
	return &Index{entries: entries}, nil
}

// Load embeds the fixed fact list and returns a ready index. Vectors already
// present in the cache for this model are reused; only misses go through the
// embedder, in a single batch call.
func Load(ctx context.Context, embedder ai.Embedder, cache *Cache, model string, logger *slog.Logger) (*Index, error) {
	texts := Facts()
	vectors := make([][]float64, len(texts))

	var missing []int
	for i, text := range texts {
		if vec, ok := cache.Get(model, text); ok {
			vectors[i] = vec
			continue
		}
		missing = append(missing, i)
	}

	if len(missing) > 0 {
		inputs := make([]string, 0, len(missing))
		for _, i := range missing {
			inputs = append(inputs, texts[i])
		}
		embedded, err := embedder.EmbedBatch(ctx, inputs)
		if err != nil {
			return nil, fmt.Errorf("embed knowledge base: %w", err)
		}
		for j, i := range missing {
			vectors[i] = embedded[j]
			cache.Put(model, texts[i], embedded[j])
		}
	}

	logger.Info("knowledge base loaded", "facts", len(texts), "embedded", len(missing), "cached", len(texts)-len(missing))
	return New(texts, vectors)
}

// Len reports the number of entries in the index.
func (ix *Index) Len() int {
	return len(ix.entries)
}

// Entry returns the entry at the given index.
func (ix *Index) Entry(i int) Entry {
	return ix.entries[i]
}

// Rank scores every entry against the query vector by inner product and
// returns the top k in descending-score order.
func (ix *Index) Rank(query []float64, k int) []Scored {
	scored := make([]Scored, 0, len(ix.entries))
	for i, e := range ix.entries {
		if len(e.Vector) != len(query) {
			continue
		}
		scored = append(scored, Scored{Index: i, Text: e.Text, Score: dot(query, e.Vector)})
	}
	sort.SliceStable(scored, func(a, b int) bool {
		return scored[a].Score > scored[b].Score
	})
	if len(scored) > k {
		scored = scored[:k]
	}
	return scored
}

func dot(a, b []float64) float64 {
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}
