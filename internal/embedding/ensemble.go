package embedding

import (
	"context"
	"fmt"
)

// Ensemble measures document similarity as the mean cosine similarity
// across one or more providers. Averaging smooths out single-model quirks
// on long documents.
type Ensemble struct {
	providers []Provider
}

// NewEnsemble wraps the given providers. At least one is required.
func NewEnsemble(providers ...Provider) (*Ensemble, error) {
	if len(providers) == 0 {
		return nil, fmt.Errorf("ensemble requires at least one provider")
	}
	return &Ensemble{providers: providers}, nil
}

// Similarity embeds both texts with every provider and averages the
// per-provider cosine similarities. The result is in [0, 1].
func (e *Ensemble) Similarity(ctx context.Context, a, b string) (float64, error) {
	var total float64
	for _, p := range e.providers {
		vecs, err := p.EmbedBatch(ctx, []string{a, b})
		if err != nil {
			return 0, fmt.Errorf("provider %s: %w", p.Name(), err)
		}
		total += Cosine(vecs[0], vecs[1])
	}
	return total / float64(len(e.providers)), nil
}
