package itinerary

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func venueAt(lat, lng float64, open, close, durationMinutes float64) Venue {
	v := makeVenue(CategoryDining, "v", 100)
	v.Location = Location{Lat: lat, Lng: lng}
	v.AvailableTimeStart = open
	v.AvailableTimeEnd = close
	v.DurationMinutes = durationMinutes
	return v
}

// matrixFor builds a symmetric matrix where every pair is the given distance
// in meters and duration in seconds.
func matrixFor(locations []Location, meters, seconds float64) *TravelMatrix {
	n := len(locations)
	dist := make([][]float64, n)
	dur := make([][]float64, n)
	for i := range locations {
		dist[i] = make([]float64, n)
		dur[i] = make([]float64, n)
		for j := range locations {
			if i != j {
				dist[i][j] = meters
				dur[i][j] = seconds
			}
		}
	}
	return NewTravelMatrix(locations, dist, dur)
}

func TestCollectLocations_DedupesExactCoordinates(t *testing.T) {
	start := Location{Lat: 28.70, Lng: 77.10}
	shared := Location{Lat: 28.71, Lng: 77.11}

	v1 := venueAt(shared.Lat, shared.Lng, 0, 24, 60)
	v2 := venueAt(shared.Lat, shared.Lng, 0, 24, 60)
	v3 := venueAt(28.72, 77.12, 0, 24, 60)

	candidates := []Candidate{
		{Legs: []Leg{{Category: CategoryDining, Venue: v1}, {Category: CategoryMovie, Venue: v3}}},
		{Legs: []Leg{{Category: CategoryDining, Venue: v2}, {Category: CategoryMovie, Venue: v3}}},
	}

	locations := CollectLocations(candidates, start)
	require.Len(t, locations, 3)
	assert.Equal(t, start, locations[0], "start location must come first")
}

func TestCollectLocations_NearbyCoordinatesStayDistinct(t *testing.T) {
	start := Location{Lat: 28.70, Lng: 77.10}
	v1 := venueAt(28.710000001, 77.11, 0, 24, 60)
	v2 := venueAt(28.710000002, 77.11, 0, 24, 60)

	candidates := []Candidate{
		{Legs: []Leg{{Venue: v1}}},
		{Legs: []Leg{{Venue: v2}}},
	}

	locations := CollectLocations(candidates, start)
	assert.Len(t, locations, 3)
}

func TestEnrichFeasible_TravelMinutesRoundUp(t *testing.T) {
	start := Location{Lat: 28.70, Lng: 77.10}
	v := venueAt(28.71, 77.11, 0, 24, 60)
	candidates := []Candidate{{Legs: []Leg{{Category: CategoryDining, Venue: v}}, TotalCost: 200}}

	// 125 seconds must become 3 minutes, 2345 meters must become 2.35 km.
	matrix := matrixFor(CollectLocations(candidates, start), 2345, 125)

	enriched, err := EnrichFeasible(candidates, start, 10, matrix)
	require.NoError(t, err)
	require.Len(t, enriched, 1)
	assert.Equal(t, 3, enriched[0].Legs[0].TravelTimeMinutes)
	assert.Equal(t, 2.35, enriched[0].Legs[0].DistanceKm)
}

func TestEnrichFeasible_InclusiveWindowBoundaries(t *testing.T) {
	start := Location{Lat: 28.70, Lng: 77.10}
	// Opens exactly at arrival and closes exactly at activity end:
	// 10:00 start + 60 min travel = 11:00 arrival, + 60 min activity = 12:00.
	v := venueAt(28.71, 77.11, 11, 12, 60)
	candidates := []Candidate{{Legs: []Leg{{Category: CategoryDining, Venue: v}}, TotalCost: 200}}
	matrix := matrixFor(CollectLocations(candidates, start), 1000, 3600)

	enriched, err := EnrichFeasible(candidates, start, 10, matrix)
	require.NoError(t, err)
	assert.Len(t, enriched, 1, "exact boundary fit must be feasible")
}

func TestEnrichFeasible_ArrivingBeforeOpenIsInfeasible(t *testing.T) {
	start := Location{Lat: 28.70, Lng: 77.10}
	v := venueAt(28.71, 77.11, 11.01, 24, 60)
	candidates := []Candidate{{Legs: []Leg{{Category: CategoryDining, Venue: v}}, TotalCost: 200}}
	matrix := matrixFor(CollectLocations(candidates, start), 1000, 3600)

	enriched, err := EnrichFeasible(candidates, start, 10, matrix)
	require.NoError(t, err)
	assert.Empty(t, enriched)
}

func TestEnrichFeasible_RunningPastCloseIsInfeasible(t *testing.T) {
	start := Location{Lat: 28.70, Lng: 77.10}
	v := venueAt(28.71, 77.11, 0, 11.9, 60)
	candidates := []Candidate{{Legs: []Leg{{Category: CategoryDining, Venue: v}}, TotalCost: 200}}
	matrix := matrixFor(CollectLocations(candidates, start), 1000, 3600)

	enriched, err := EnrichFeasible(candidates, start, 10, matrix)
	require.NoError(t, err)
	assert.Empty(t, enriched)
}

func TestEnrichFeasible_ZeroCloseMeansMidnight(t *testing.T) {
	start := Location{Lat: 28.70, Lng: 77.10}
	v := venueAt(28.71, 77.11, 18, 0, 120)
	candidates := []Candidate{{Legs: []Leg{{Category: CategoryDining, Venue: v}}, TotalCost: 200}}
	matrix := matrixFor(CollectLocations(candidates, start), 1000, 600)

	enriched, err := EnrichFeasible(candidates, start, 20, matrix)
	require.NoError(t, err)
	assert.Len(t, enriched, 1)
}

func TestEnrichFeasible_SecondLegTimelineAccumulates(t *testing.T) {
	start := Location{Lat: 28.70, Lng: 77.10}
	dinner := venueAt(28.71, 77.11, 0, 24, 90)
	// Arrival at the second stop: 18:00 + 0.5h travel + 1.5h dinner + 0.5h
	// travel = 20:30. A 20:31 opening must reject the whole candidate.
	late := venueAt(28.72, 77.12, 20.6, 24, 60)
	open := venueAt(28.73, 77.13, 20.5, 24, 60)

	candidates := []Candidate{
		{Legs: []Leg{{Category: CategoryDining, Venue: dinner}, {Category: CategoryMovie, Venue: late}}, TotalCost: 400},
		{Legs: []Leg{{Category: CategoryDining, Venue: dinner}, {Category: CategoryMovie, Venue: open}}, TotalCost: 400},
	}
	matrix := matrixFor(CollectLocations(candidates, start), 5000, 1800)

	enriched, err := EnrichFeasible(candidates, start, 18, matrix)
	require.NoError(t, err)
	require.Len(t, enriched, 1)
	assert.Equal(t, open.ID, enriched[0].Legs[1].Venue.ID)
}

func TestEnrichFeasible_MissingLocationFailsBatch(t *testing.T) {
	start := Location{Lat: 28.70, Lng: 77.10}
	v := venueAt(28.71, 77.11, 0, 24, 60)
	candidates := []Candidate{{Legs: []Leg{{Venue: v}}, TotalCost: 200}}

	// Matrix built without the venue's location.
	matrix := matrixFor([]Location{start}, 1000, 600)

	_, err := EnrichFeasible(candidates, start, 10, matrix)
	assert.Error(t, err)
}

func TestEnrichFeasible_Deterministic(t *testing.T) {
	start := Location{Lat: 28.70, Lng: 77.10}
	v1 := venueAt(28.71, 77.11, 0, 24, 60)
	v2 := venueAt(28.72, 77.12, 0, 24, 60)
	candidates := []Candidate{
		{Legs: []Leg{{Venue: v1}}, TotalCost: 200},
		{Legs: []Leg{{Venue: v2}}, TotalCost: 300},
	}
	matrix := matrixFor(CollectLocations(candidates, start), 1500, 900)

	first, err := EnrichFeasible(candidates, start, 10, matrix)
	require.NoError(t, err)
	second, err := EnrichFeasible(candidates, start, 10, matrix)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
