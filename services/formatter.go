package services

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// EstimationResult is the response-scoped output of one estimate.
type EstimationResult struct {
	Probability        float64           `json:"probability"`
	ConfidenceInterval []float64         `json:"confidence_interval"`
	Explanation        string            `json:"explanation"`
	StationInfo        ResultStationInfo `json:"station_info"`
}

// ResultStationInfo carries the resolved station's descriptive and
// aggregate fields for display.
type ResultStationInfo struct {
	StationID       string  `json:"station_id"`
	Name            string  `json:"name"`
	Latitude        float64 `json:"latitude"`
	Longitude       float64 `json:"longitude"`
	TotalTrips      int     `json:"total_trips"`
	UniqueBikes     int     `json:"unique_bikes"`
	AvgTripsPerBike float64 `json:"avg_trips_per_bike"`
}

// formatResult assembles the response object. Pure and deterministic:
// rounding to display precision and text generation only.
func formatResult(info *StationInfo, stats *TripStats, profile RiderProfile, probability, lower, upper float64) *EstimationResult {
	return &EstimationResult{
		Probability:        round3(probability),
		ConfidenceInterval: []float64{round3(lower), round3(upper)},
		Explanation:        explain(info.Name, stats, profile, probability),
		StationInfo: ResultStationInfo{
			StationID:       info.StationID,
			Name:            info.Name,
			Latitude:        info.Latitude,
			Longitude:       info.Longitude,
			TotalTrips:      stats.TotalTrips,
			UniqueBikes:     stats.UniqueBikes,
			AvgTripsPerBike: round3(avgTripsPerBike(stats.Departures)),
		},
	}
}

func explain(stationName string, stats *TripStats, profile RiderProfile, probability float64) string {
	if stats.UniqueBikes == 0 {
		return fmt.Sprintf(
			"No departures have been recorded from %s for the selected time pattern, "+
				"so there is not enough data to estimate a repeat encounter.",
			stationName,
		)
	}

	explanation := fmt.Sprintf("Based on %d trips and %d distinct bikes observed at %s, ",
		stats.TotalTrips, stats.UniqueBikes, stationName)

	switch {
	case probability < 0.05:
		explanation += "the probability is quite low. This station draws from a large, " +
			"fast-turning bike pool, so the same bike rarely comes back around."
	case probability < 0.15:
		explanation += "the probability is moderate. Some bikes do circulate back, " +
			"but many different bikes pass through this station."
	case probability < 0.30:
		explanation += "the probability is relatively high. A fairly small pool of bikes " +
			"serves this station, improving your odds of a repeat."
	default:
		explanation += "the probability is quite high. The same bikes keep showing up " +
			"at this station."
	}

	explanation += fmt.Sprintf(" With your %d rides per week on %s, you have approximately "+
		"a %.1f%% chance of riding the same bike twice.",
		profile.RidesPerWeek, patternPhrase(profile.Pattern), probability*100)

	return explanation
}

func patternPhrase(pattern TimePattern) string {
	switch pattern {
	case PatternWeekday:
		return "weekdays"
	case PatternWeekend:
		return "weekends"
	default:
		return "all days"
	}
}

func avgTripsPerBike(departures []BikeDepartures) float64 {
	if len(departures) == 0 {
		return 0
	}
	counts := make([]float64, len(departures))
	for i, d := range departures {
		counts[i] = float64(d.Count)
	}
	return stat.Mean(counts, nil)
}

func round3(x float64) float64 {
	return math.Round(x*1000) / 1000
}
