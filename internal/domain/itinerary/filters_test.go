package itinerary

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func boolPtr(b bool) *bool      { return &b }
func f64Ptr(f float64) *float64 { return &f }

func diningVenue() Venue {
	v := makeVenue(CategoryDining, "bistro", 400)
	v.Rating = 4.2
	v.Amenities = Amenities{Cafe: true, Parking: true}
	v.Attributes = Attributes{
		Kinds:    []string{"restaurant"},
		Cuisines: []string{"north-indian", "chinese"},
	}
	v.CrowdLevels = []string{"moderate"}
	return v
}

func TestSlotFilters_EmptyFiltersMatchEverything(t *testing.T) {
	assert.True(t, SlotFilters{}.Matches(diningVenue()))
}

func TestSlotFilters_ListNeedsOneSharedValue(t *testing.T) {
	v := diningVenue()

	assert.True(t, SlotFilters{Cuisines: []string{"italian", "chinese"}}.Matches(v))
	assert.False(t, SlotFilters{Cuisines: []string{"italian", "thai"}}.Matches(v))
}

func TestSlotFilters_AmenityMustMatchExactly(t *testing.T) {
	v := diningVenue()

	assert.True(t, SlotFilters{Cafe: boolPtr(true)}.Matches(v))
	assert.False(t, SlotFilters{Alcohol: boolPtr(true)}.Matches(v))
	assert.True(t, SlotFilters{Alcohol: boolPtr(false)}.Matches(v))
}

func TestSlotFilters_MinRating(t *testing.T) {
	v := diningVenue()

	assert.True(t, SlotFilters{MinRating: f64Ptr(4.2)}.Matches(v))
	assert.False(t, SlotFilters{MinRating: f64Ptr(4.3)}.Matches(v))
}

func TestSlotFilters_CrowdTolerance(t *testing.T) {
	v := diningVenue()

	assert.True(t, SlotFilters{CrowdTolerance: []string{"quiet", "moderate"}}.Matches(v))
	assert.False(t, SlotFilters{CrowdTolerance: []string{"quiet"}}.Matches(v))
}

func TestSlotFilters_AllSetFiltersMustPass(t *testing.T) {
	v := diningVenue()

	f := SlotFilters{
		Cuisines:  []string{"chinese"},
		Cafe:      boolPtr(true),
		MinRating: f64Ptr(4.0),
	}
	assert.True(t, f.Matches(v))

	f.Cuisines = []string{"thai"}
	assert.False(t, f.Matches(v))
}

func TestPlanRequest_Validate(t *testing.T) {
	valid := func() PlanRequest {
		return PlanRequest{
			StartTime:      18,
			Budget:         4000,
			NumberOfPeople: 2,
			StartLocation:  Location{Lat: 28.70, Lng: 77.10},
			Slots:          []SlotRequest{{Category: CategoryDining}},
		}
	}

	req := valid()
	assert.NoError(t, req.Validate())

	req = valid()
	req.Budget = 0
	assert.Error(t, req.Validate())

	req = valid()
	req.NumberOfPeople = 0
	assert.Error(t, req.Validate())

	req = valid()
	req.StartTime = 24
	assert.Error(t, req.Validate())

	req = valid()
	req.Slots = nil
	assert.Error(t, req.Validate())

	req = valid()
	req.Slots = []SlotRequest{{Category: Category("museum")}}
	assert.Error(t, req.Validate())
}
