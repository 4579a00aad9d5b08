package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"
	"testing"
	"time"

	"bike-probability-api/models"
)

func newTestEstimator(trips []models.Trip) *Estimator {
	store := &fakeStore{
		stations: []models.Station{
			{StationID: testCanonicalID, Name: "W 21 St & 6 Ave", Latitude: 40.7415, Longitude: -73.9940},
		},
		mappings: map[string]string{testCanonicalID: "6140.05"},
		trips:    trips,
	}
	directory := NewStationDirectory(store)
	aggregator := NewTripAggregator(store, store, nil, 0)
	return NewEstimator(directory, aggregator, BirthdayModel{})
}

// uniformTrips spreads perBike weekday departures across numBikes bikes,
// all within a single week.
func uniformTrips(numBikes, perBike int) []models.Trip {
	var trips []models.Trip
	for b := 0; b < numBikes; b++ {
		for i := 0; i < perBike; i++ {
			trips = append(trips, trip(fmt.Sprintf("bike-%d", b), "6140.05", monday.Add(time.Duration(i)*time.Hour)))
		}
	}
	return trips
}

func TestEstimateInvalidFrequency(t *testing.T) {
	e := newTestEstimator(uniformTrips(10, 2))

	for _, freq := range []int{0, -3, 22, 100} {
		_, err := e.Estimate(context.Background(), "W 21 St & 6 Ave", freq, "weekday")
		if !errors.Is(err, ErrInvalidParameter) {
			t.Errorf("Estimate(freq=%d) error = %v, want ErrInvalidParameter", freq, err)
		}
	}
}

func TestEstimateInvalidPattern(t *testing.T) {
	e := newTestEstimator(uniformTrips(10, 2))

	_, err := e.Estimate(context.Background(), "W 21 St & 6 Ave", 5, "daily")
	if !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("Estimate error = %v, want ErrInvalidParameter", err)
	}
}

func TestEstimateUnknownStation(t *testing.T) {
	e := newTestEstimator(nil)

	_, err := e.Estimate(context.Background(), "Nonexistent Station", 5, "weekday")
	if !errors.Is(err, ErrStationNotFound) {
		t.Errorf("Estimate error = %v, want ErrStationNotFound", err)
	}
}

func TestEstimateZeroActivity(t *testing.T) {
	e := newTestEstimator(nil)

	result, err := e.Estimate(context.Background(), "W 21 St & 6 Ave", 5, "weekday")
	if err != nil {
		t.Fatalf("Estimate failed: %v", err)
	}
	if result.Probability != 0 {
		t.Errorf("Probability = %v, want 0", result.Probability)
	}
	if result.ConfidenceInterval[0] != 0 || result.ConfidenceInterval[1] != 0 {
		t.Errorf("ConfidenceInterval = %v, want [0 0]", result.ConfidenceInterval)
	}
	if result.StationInfo.UniqueBikes != 0 {
		t.Errorf("UniqueBikes = %d, want 0", result.StationInfo.UniqueBikes)
	}
	if !strings.Contains(result.Explanation, "not enough data") {
		t.Errorf("explanation should note insufficient data, got: %s", result.Explanation)
	}
}

func TestEstimateSingleBikeCertainty(t *testing.T) {
	// Only one bike in the pool: two or more rides guarantee a repeat.
	trips := []models.Trip{
		trip("bike-1", "6140.05", monday),
		trip("bike-1", "6140.05", tuesday),
	}
	e := newTestEstimator(trips)

	for _, freq := range []int{2, 5, 21} {
		result, err := e.Estimate(context.Background(), "W 21 St & 6 Ave", freq, "weekday")
		if err != nil {
			t.Fatalf("Estimate failed: %v", err)
		}
		if result.Probability != 1 {
			t.Errorf("Probability(freq=%d) = %v, want 1", freq, result.Probability)
		}
		if result.ConfidenceInterval[1] != 1 {
			t.Errorf("upper bound = %v, want 1", result.ConfidenceInterval[1])
		}
	}
}

func TestEstimateMonotonicInFrequency(t *testing.T) {
	e := newTestEstimator(uniformTrips(40, 3))

	prev := -1.0
	for freq := MinRidesPerWeek; freq <= MaxRidesPerWeek; freq++ {
		result, err := e.Estimate(context.Background(), "W 21 St & 6 Ave", freq, "weekday")
		if err != nil {
			t.Fatalf("Estimate(freq=%d) failed: %v", freq, err)
		}
		if result.Probability < prev {
			t.Errorf("probability decreased from %v to %v at freq=%d", prev, result.Probability, freq)
		}
		prev = result.Probability
	}
}

func TestEstimateBounds(t *testing.T) {
	fixtures := [][]models.Trip{
		uniformTrips(1, 1),
		uniformTrips(5, 10),
		uniformTrips(200, 2),
		nil,
	}
	for i, trips := range fixtures {
		e := newTestEstimator(trips)
		result, err := e.Estimate(context.Background(), "W 21 St & 6 Ave", 5, "both")
		if err != nil {
			t.Fatalf("fixture %d: Estimate failed: %v", i, err)
		}
		p := result.Probability
		lo, hi := result.ConfidenceInterval[0], result.ConfidenceInterval[1]
		if p < 0 || p > 1 {
			t.Errorf("fixture %d: probability %v out of [0,1]", i, p)
		}
		if lo < 0 || hi > 1 || lo > hi {
			t.Errorf("fixture %d: interval [%v, %v] invalid", i, lo, hi)
		}
	}
}

func TestEstimateNameAndIDEquivalent(t *testing.T) {
	e := newTestEstimator(uniformTrips(25, 4))

	byName, err := e.Estimate(context.Background(), "W 21 St & 6 Ave", 7, "weekday")
	if err != nil {
		t.Fatalf("Estimate by name failed: %v", err)
	}
	byID, err := e.Estimate(context.Background(), testCanonicalID, 7, "weekday")
	if err != nil {
		t.Fatalf("Estimate by id failed: %v", err)
	}

	if !reflect.DeepEqual(byName, byID) {
		t.Errorf("name and canonical-id estimates differ:\n%+v\n%+v", byName, byID)
	}
}

func TestEstimateDeterministic(t *testing.T) {
	e := newTestEstimator(uniformTrips(30, 3))

	first, err := e.Estimate(context.Background(), "W 21 St & 6 Ave", 5, "weekday")
	if err != nil {
		t.Fatalf("Estimate failed: %v", err)
	}
	second, err := e.Estimate(context.Background(), "W 21 St & 6 Ave", 5, "weekday")
	if err != nil {
		t.Fatalf("Estimate failed: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("identical requests produced different results:\n%+v\n%+v", first, second)
	}
}

// ── model unit tests ──

func TestEffectivePool(t *testing.T) {
	t.Run("uniform counts equal distinct bikes", func(t *testing.T) {
		departures := []BikeDepartures{
			{BikeID: "a", Count: 3}, {BikeID: "b", Count: 3}, {BikeID: "c", Count: 3},
		}
		if got := effectivePool(departures); math.Abs(got-3) > 1e-9 {
			t.Errorf("effectivePool = %v, want 3", got)
		}
	})

	t.Run("skew shrinks the pool", func(t *testing.T) {
		departures := []BikeDepartures{
			{BikeID: "a", Count: 50}, {BikeID: "b", Count: 1}, {BikeID: "c", Count: 1},
		}
		got := effectivePool(departures)
		if got >= 3 {
			t.Errorf("effectivePool = %v, want < 3 for a skewed distribution", got)
		}
		if got < 1 {
			t.Errorf("effectivePool = %v, cannot be below 1", got)
		}
	})

	t.Run("empty pool", func(t *testing.T) {
		if got := effectivePool(nil); got != 0 {
			t.Errorf("effectivePool(nil) = %v, want 0", got)
		}
	})
}

func TestWindowWeeks(t *testing.T) {
	model := BirthdayModel{MaxWindowWeeks: 4}

	tests := []struct {
		name string
		span time.Duration
		want int
	}{
		{"single day", 0, 1},
		{"two weeks", 14 * 24 * time.Hour, 2},
		{"capped", 20 * 7 * 24 * time.Hour, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stats := &TripStats{
				FirstDeparture: monday,
				LastDeparture:  monday.Add(tt.span),
			}
			if got := model.windowWeeks(stats); got != tt.want {
				t.Errorf("windowWeeks = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestBirthdayModelEmptyPool(t *testing.T) {
	model := BirthdayModel{}
	profile := RiderProfile{RidesPerWeek: 5, Pattern: PatternBoth}

	if p := model.Probability(profile, &TripStats{}); p != 0 {
		t.Errorf("Probability = %v, want 0 for empty pool", p)
	}
}

func TestConfidenceIntervalTiers(t *testing.T) {
	tests := []struct {
		name       string
		p          float64
		totalTrips int
		wantLo     float64
		wantHi     float64
	}{
		{"large sample", 0.5, 20000, 0.48, 0.52},
		{"medium sample", 0.5, 5000, 0.45, 0.55},
		{"small sample", 0.5, 100, 0.40, 0.60},
		{"clamped at zero", 0.05, 100, 0, 0.15},
		{"clamped at one", 0.98, 5000, 0.93, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lo, hi := confidenceInterval(tt.p, tt.totalTrips)
			if math.Abs(lo-tt.wantLo) > 1e-9 || math.Abs(hi-tt.wantHi) > 1e-9 {
				t.Errorf("confidenceInterval(%v, %d) = [%v, %v], want [%v, %v]",
					tt.p, tt.totalTrips, lo, hi, tt.wantLo, tt.wantHi)
			}
		})
	}
}

