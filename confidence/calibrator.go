// Package confidence turns raw retrieval similarity scores into a bounded,
// user-facing confidence value.
package confidence

import "sort"

// Calibration constants, chosen empirically against re-ranked store scores.
const (
	// DefaultScoreThreshold discards noise-level matches.
	DefaultScoreThreshold = 0.20
	// DefaultExpectedMin is the score that maps to confidence 0.
	DefaultExpectedMin = 0.20
	// DefaultExpectedMax is the score that maps to confidence 1.
	DefaultExpectedMax = 0.70
)

// defaultWeights emphasizes the single best match while letting secondary
// evidence boost or dilute the result.
var defaultWeights = []float64{0.6, 0.3, 0.1}

// Calibrator maps a set of similarity scores to a single value in [0,1].
// The zero-configuration Calibrator from New is safe for concurrent use.
type Calibrator struct {
	scoreThreshold float64
	expectedMin    float64
	expectedMax    float64
	weights        []float64
}

// Option configures a Calibrator.
type Option func(*Calibrator)

// WithScoreThreshold sets the minimum score a match must have to count.
func WithScoreThreshold(threshold float64) Option {
	return func(c *Calibrator) {
		c.scoreThreshold = threshold
	}
}

// WithExpectedRange sets the two anchor points of the linear rescale. Scores
// averaging at min map to 0, at max to 1. These are tunable calibration
// constants, not hard thresholds.
func WithExpectedRange(min, max float64) Option {
	return func(c *Calibrator) {
		c.expectedMin = min
		c.expectedMax = max
	}
}

// WithWeights sets the descending weights applied to the top scores.
func WithWeights(weights []float64) Option {
	return func(c *Calibrator) {
		if len(weights) > 0 {
			c.weights = weights
		}
	}
}

// New creates a Calibrator with the default anchors.
func New(opts ...Option) *Calibrator {
	c := &Calibrator{
		scoreThreshold: DefaultScoreThreshold,
		expectedMin:    DefaultExpectedMin,
		expectedMax:    DefaultExpectedMax,
		weights:        defaultWeights,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Calibrate computes the confidence for a set of similarity scores.
//
// Scores below the threshold are discarded. The top scores (at most one per
// configured weight, sorted descending) are combined into a weighted average
// normalized by the weights actually used, so fewer matches are not penalized
// for missing slots. The average is then linearly rescaled from the expected
// range to [0,1] and clamped.
func (c *Calibrator) Calibrate(scores []float64) float64 {
	if len(scores) == 0 {
		return 0.0
	}

	kept := make([]float64, 0, len(scores))
	for _, s := range scores {
		if s >= c.scoreThreshold {
			kept = append(kept, s)
		}
	}
	if len(kept) == 0 {
		return 0.0
	}

	sort.Sort(sort.Reverse(sort.Float64Slice(kept)))
	if len(kept) > len(c.weights) {
		kept = kept[:len(c.weights)]
	}

	var weightedSum, weightTotal float64
	for i, s := range kept {
		weightedSum += s * c.weights[i]
		weightTotal += c.weights[i]
	}
	weightedAvg := weightedSum / weightTotal

	span := c.expectedMax - c.expectedMin
	if span <= 0 {
		return 0.0
	}
	return clamp((weightedAvg - c.expectedMin) / span)
}

// ScoreThreshold returns the configured score threshold.
func (c *Calibrator) ScoreThreshold() float64 {
	return c.scoreThreshold
}

// ExpectedRange returns the configured anchor points.
func (c *Calibrator) ExpectedRange() (min, max float64) {
	return c.expectedMin, c.expectedMax
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
