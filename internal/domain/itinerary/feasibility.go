package itinerary

import (
	"fmt"
	"math"
)

// TravelMatrix holds all-pairs travel metrics over an ordered location list.
// Distances are meters, durations seconds, both indexed by the list's order.
type TravelMatrix struct {
	locations        []Location
	index            map[string]int
	DistancesMeters  [][]float64
	DurationsSeconds [][]float64
}

// NewTravelMatrix builds a TravelMatrix keyed by exact coordinates.
func NewTravelMatrix(locations []Location, distancesMeters, durationsSeconds [][]float64) *TravelMatrix {
	index := make(map[string]int, len(locations))
	for i, loc := range locations {
		index[loc.Key()] = i
	}
	return &TravelMatrix{
		locations:        locations,
		index:            index,
		DistancesMeters:  distancesMeters,
		DurationsSeconds: durationsSeconds,
	}
}

// Locations returns the ordered location list the matrices are indexed by.
func (m *TravelMatrix) Locations() []Location {
	return m.locations
}

func (m *TravelMatrix) indexOf(loc Location) (int, bool) {
	i, ok := m.index[loc.Key()]
	return i, ok
}

// CollectLocations gathers the start location and every distinct leg location
// across all candidates into one ordered, exact-coordinate-deduplicated list.
// This list backs the single batched matrix lookup shared by every candidate.
func CollectLocations(candidates []Candidate, start Location) []Location {
	seen := make(map[string]struct{})
	var out []Location

	add := func(loc Location) {
		key := loc.Key()
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		out = append(out, loc)
	}

	add(start)
	for _, cand := range candidates {
		for _, leg := range cand.Legs {
			add(leg.Venue.Location)
		}
	}
	return out
}

// EnrichedLeg is a candidate leg annotated with travel metrics from the
// previous stop (the start location for the first leg).
type EnrichedLeg struct {
	Category          Category `json:"category"`
	Venue             Venue    `json:"venue"`
	DistanceKm        float64  `json:"distanceKm"`
	TravelTimeMinutes int      `json:"travelTimeMinutes"`
}

// EnrichedItinerary is a candidate that passed the operating-hours simulation.
type EnrichedItinerary struct {
	Legs      []EnrichedLeg `json:"legs"`
	TotalCost float64       `json:"totalCost"`
}

// EnrichFeasible simulates each candidate's timeline leg by leg from the
// start location at startTime (fractional hours) and returns only the
// candidates whose every activity fits its venue's operating window.
// Window boundaries are inclusive. A violated leg marks the candidate
// infeasible but the simulation still walks the remaining legs, so travel
// metrics stay consistent for every leg of every candidate.
//
// A leg location missing from the matrix is an upstream deduplication defect
// and fails the whole batch.
func EnrichFeasible(candidates []Candidate, start Location, startTime float64, matrix *TravelMatrix) ([]EnrichedItinerary, error) {
	feasible := make([]EnrichedItinerary, 0, len(candidates))

	startIdx, ok := matrix.indexOf(start)
	if !ok {
		return nil, fmt.Errorf("start location %s missing from travel matrix", start.Key())
	}

	for _, cand := range candidates {
		prevIdx := startIdx
		currentTime := startTime
		timeValid := true

		legs := make([]EnrichedLeg, len(cand.Legs))
		for i, leg := range cand.Legs {
			currIdx, ok := matrix.indexOf(leg.Venue.Location)
			if !ok {
				return nil, fmt.Errorf("leg location %s missing from travel matrix", leg.Venue.Location.Key())
			}

			distanceKm := math.Round(matrix.DistancesMeters[prevIdx][currIdx]/1000*100) / 100
			travelMinutes := int(math.Ceil(matrix.DurationsSeconds[prevIdx][currIdx] / 60))

			currentTime += float64(travelMinutes) / 60

			activityStart := currentTime
			activityEnd := activityStart + leg.Venue.DurationMinutes/60

			windowStart, windowEnd := leg.Venue.OperatingWindow()
			if activityStart < windowStart || activityEnd > windowEnd {
				timeValid = false
			}

			currentTime = activityEnd
			prevIdx = currIdx

			legs[i] = EnrichedLeg{
				Category:          leg.Category,
				Venue:             leg.Venue,
				DistanceKm:        distanceKm,
				TravelTimeMinutes: travelMinutes,
			}
		}

		if timeValid {
			feasible = append(feasible, EnrichedItinerary{Legs: legs, TotalCost: cand.TotalCost})
		}
	}

	return feasible, nil
}
