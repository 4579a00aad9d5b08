package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/floats"
)

// Riding frequency bounds accepted from callers.
const (
	MinRidesPerWeek = 1
	MaxRidesPerWeek = 21
)

// Confidence margin tiers by sample size. The band is a tunable policy
// constant, not a derived statistical quantity.
const (
	marginLargeSample  = 0.02 // > 10000 trips
	marginMediumSample = 0.05 // > 1000 trips
	marginSmallSample  = 0.10
)

const defaultMaxWindowWeeks = 13

// RiderProfile is the request-scoped description of a hypothetical rider.
type RiderProfile struct {
	StationID    string
	RidesPerWeek int
	Pattern      TimePattern
}

// ProbabilityModel converts rider parameters and station trip statistics
// into a repeat-encounter probability in [0,1]. Pluggable so a simulation
// model can replace the closed-form one without touching the aggregator.
type ProbabilityModel interface {
	Probability(profile RiderProfile, stats *TripStats) float64
}

// BirthdayModel approximates the repeat-encounter chance as a birthday
// collision over the station's effective bike pool. The pool is the
// inverse Simpson index of the per-bike departure distribution, so a
// station dominated by a few heavily reused bikes behaves like a much
// smaller pool than its raw distinct-bike count.
type BirthdayModel struct {
	MaxWindowWeeks int
}

func (m BirthdayModel) Probability(profile RiderProfile, stats *TripStats) float64 {
	k := effectivePool(stats.Departures)
	if k == 0 {
		return 0
	}

	n := profile.RidesPerWeek * m.windowWeeks(stats)
	noRepeat := 1.0
	for i := 0; i < n; i++ {
		factor := 1 - float64(i)/k
		if factor <= 0 {
			return 1
		}
		noRepeat *= factor
	}
	return clamp01(1 - noRepeat)
}

// windowWeeks converts the matched historical window into whole weeks of
// implied riding, at least one and capped so multi-year logs do not imply
// an unbounded number of draws.
func (m BirthdayModel) windowWeeks(stats *TripStats) int {
	maxWeeks := m.MaxWindowWeeks
	if maxWeeks <= 0 {
		maxWeeks = defaultMaxWindowWeeks
	}

	span := stats.LastDeparture.Sub(stats.FirstDeparture)
	weeks := int(math.Ceil(span.Hours() / (24 * 7)))
	if weeks < 1 {
		weeks = 1
	}
	if weeks > maxWeeks {
		weeks = maxWeeks
	}
	return weeks
}

// effectivePool is (Σc)²/Σc² over the departure counts. Uniform counts
// give exactly the distinct-bike count; skewed counts shrink the pool.
func effectivePool(departures []BikeDepartures) float64 {
	counts := make([]float64, 0, len(departures))
	var sumSq float64
	for _, d := range departures {
		if d.Count <= 0 {
			continue
		}
		c := float64(d.Count)
		counts = append(counts, c)
		sumSq += c * c
	}
	if sumSq == 0 {
		return 0
	}
	total := floats.Sum(counts)
	return total * total / sumSq
}

// confidenceInterval widens the point estimate by a margin tiered on how
// much history backs it.
func confidenceInterval(probability float64, totalTrips int) (float64, float64) {
	margin := marginSmallSample
	switch {
	case totalTrips > 10000:
		margin = marginLargeSample
	case totalTrips > 1000:
		margin = marginMediumSample
	}
	return clamp01(probability - margin), clamp01(probability + margin)
}

func clamp01(x float64) float64 {
	return math.Max(0, math.Min(1, x))
}

// Estimator is the synchronous entry point of the estimation core: it
// resolves the station, aggregates its trip history and runs the
// probability model. Stateless; safe for concurrent use.
type Estimator struct {
	directory  *StationDirectory
	aggregator *TripAggregator
	model      ProbabilityModel
}

func NewEstimator(directory *StationDirectory, aggregator *TripAggregator, model ProbabilityModel) *Estimator {
	return &Estimator{
		directory:  directory,
		aggregator: aggregator,
		model:      model,
	}
}

// Estimate computes the repeat-encounter probability for a rider based at
// the referenced station. The reference may be a canonical station id or
// an exact station name.
func (e *Estimator) Estimate(ctx context.Context, stationReference string, ridesPerWeek int, rawPattern string) (*EstimationResult, error) {
	start := time.Now()
	defer func() {
		estimateDuration.Observe(time.Since(start).Seconds())
	}()

	if ridesPerWeek < MinRidesPerWeek || ridesPerWeek > MaxRidesPerWeek {
		estimateFailures.Inc()
		return nil, fmt.Errorf("%w: riding_frequency must be between %d and %d, got %d",
			ErrInvalidParameter, MinRidesPerWeek, MaxRidesPerWeek, ridesPerWeek)
	}
	pattern, err := ParseTimePattern(rawPattern)
	if err != nil {
		estimateFailures.Inc()
		return nil, err
	}

	stationID, err := e.directory.Resolve(ctx, stationReference)
	if err != nil {
		estimateFailures.Inc()
		return nil, err
	}
	info, err := e.directory.Info(ctx, stationID)
	if err != nil {
		estimateFailures.Inc()
		return nil, err
	}
	stats, err := e.aggregator.Aggregate(ctx, stationID, pattern)
	if err != nil {
		estimateFailures.Inc()
		return nil, err
	}

	profile := RiderProfile{
		StationID:    stationID,
		RidesPerWeek: ridesPerWeek,
		Pattern:      pattern,
	}

	var probability, lower, upper float64
	if stats.UniqueBikes > 0 {
		probability = clamp01(e.model.Probability(profile, stats))
		lower, upper = confidenceInterval(probability, stats.TotalTrips)
	}

	estimatesComputed.Inc()
	return formatResult(info, stats, profile, probability, lower, upper), nil
}
