package ranking

import (
	"fmt"
	"math"
	"sort"
	"sync"

	"callpilot/models"
)

// Scoring weights. Rating must outweigh the other two factors combined so a
// clearly better-rated provider wins even when it loses on both distance and
// availability; availability matters more than distance. These are fixed so
// ranking stays deterministic across calls.
const (
	RatingWeight       = 0.55
	AvailabilityWeight = 0.25
	DistanceWeight     = 0.20

	// Scores within this distance of each other are treated as tied.
	scoreEpsilon = 1e-9
)

// Engine ranks a provider pool by weighted score.
type Engine interface {
	Rank(providers []models.Provider) ([]models.ScoredProvider, error)
}

// DefaultEngine implements Engine.
type DefaultEngine struct{}

// Rank validates the pool, scores every provider and returns them ordered by
// descending score. The output is a permutation of the input; an empty pool
// yields an empty result. Ties (within epsilon) are broken by ascending
// distance, then by provider ID, so the order is total and reproducible.
func (e *DefaultEngine) Rank(providers []models.Provider) ([]models.ScoredProvider, error) {
	if len(providers) == 0 {
		return []models.ScoredProvider{}, nil
	}

	for _, p := range providers {
		if err := validateProvider(p); err != nil {
			return nil, err
		}
	}

	ratingNorm := newFactorNorm(providers, func(p models.Provider) float64 { return p.Rating })
	distanceNorm := newFactorNorm(providers, func(p models.Provider) float64 { return p.DistanceMi })
	availNorm := newFactorNorm(providers, func(p models.Provider) float64 { return p.Availability })

	type scoreData struct {
		Provider models.Provider
		Score    float64
	}

	resultsCh := make(chan scoreData, len(providers))
	var wg sync.WaitGroup

	for _, p := range providers {
		wg.Add(1)
		go func(p models.Provider) {
			defer wg.Done()
			// Distance is inverted: closer providers score higher.
			score := RatingWeight*ratingNorm.normalize(p.Rating) +
				DistanceWeight*distanceNorm.normalizeInverted(p.DistanceMi) +
				AvailabilityWeight*availNorm.normalize(p.Availability)
			resultsCh <- scoreData{Provider: p, Score: score}
		}(p)
	}

	wg.Wait()
	close(resultsCh)

	scores := make([]scoreData, 0, len(providers))
	for s := range resultsCh {
		scores = append(scores, s)
	}

	sort.Slice(scores, func(i, j int) bool {
		if math.Abs(scores[i].Score-scores[j].Score) > scoreEpsilon {
			return scores[i].Score > scores[j].Score
		}
		if scores[i].Provider.DistanceMi != scores[j].Provider.DistanceMi {
			return scores[i].Provider.DistanceMi < scores[j].Provider.DistanceMi
		}
		return scores[i].Provider.ID < scores[j].Provider.ID
	})

	ranked := make([]models.ScoredProvider, 0, len(scores))
	for i, sd := range scores {
		ranked = append(ranked, models.ScoredProvider{
			Provider: sd.Provider,
			Score:    sd.Score,
			Rank:     i + 1,
		})
	}

	return ranked, nil
}

// FilterByPreferences drops providers outside the caller's rating and
// distance bounds. Applied before ranking in the swarm flow.
func FilterByPreferences(providers []models.Provider, prefs models.UserPreferences) []models.Provider {
	filtered := make([]models.Provider, 0, len(providers))
	for _, p := range providers {
		if p.Rating >= prefs.MinRating && p.DistanceMi <= prefs.MaxDistance {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

func validateProvider(p models.Provider) error {
	if p.ID == "" {
		return NewInvalidProviderError("provider is missing an id")
	}
	if p.Rating < 0 || p.Rating > 5 {
		return NewInvalidProviderError(fmt.Sprintf("provider %s has rating %.2f outside [0,5]", p.ID, p.Rating))
	}
	if p.DistanceMi < 0 {
		return NewInvalidProviderError(fmt.Sprintf("provider %s has negative distance %.2f", p.ID, p.DistanceMi))
	}
	if p.Availability < 0 || p.Availability > 1 {
		return NewInvalidProviderError(fmt.Sprintf("provider %s has availability %.2f outside [0,1]", p.ID, p.Availability))
	}
	return nil
}

// factorNorm min-max normalizes one scoring factor over the pool.
type factorNorm struct {
	min, max float64
}

func newFactorNorm(providers []models.Provider, value func(models.Provider) float64) factorNorm {
	n := factorNorm{min: value(providers[0]), max: value(providers[0])}
	for _, p := range providers[1:] {
		v := value(p)
		n.min = math.Min(n.min, v)
		n.max = math.Max(n.max, v)
	}
	return n
}

// normalize maps v into [0,1]. When every provider shares the same value the
// factor carries no signal, so everyone gets the full contribution of 1.0
// rather than dividing by zero.
func (n factorNorm) normalize(v float64) float64 {
	if n.max == n.min {
		return 1.0
	}
	return (v - n.min) / (n.max - n.min)
}

// normalizeInverted is normalize for lower-is-better factors; the smallest
// value maps to 1. The degenerate case still yields 1.0 for everyone.
func (n factorNorm) normalizeInverted(v float64) float64 {
	if n.max == n.min {
		return 1.0
	}
	return (n.max - v) / (n.max - n.min)
}
