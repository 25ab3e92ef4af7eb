package itinerary

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/outingly/service-planner/internal/platform/errs"
)

// SlotRequest is one ordered position of the requested outing. It names
// either a specific venue or a filtered pool for its category. The position
// in PlanRequest.Slots is the mandatory visiting order.
type SlotRequest struct {
	Category Category     `json:"category"`
	VenueID  *uuid.UUID   `json:"venue_id,omitempty"`
	Filters  *SlotFilters `json:"filters,omitempty"`
}

// Fixed reports whether the slot names a specific venue.
func (s SlotRequest) Fixed() bool {
	return s.VenueID != nil
}

// PlanRequest is the full planning input. Slots, budget, party size, start
// location and start time drive the pipeline; the remaining fields only
// inform the scoring constraint digest and the resolver's availability query.
type PlanRequest struct {
	StartTime      float64       `json:"startTime" binding:"required"`
	Budget         float64       `json:"budget" binding:"required"`
	NumberOfPeople int           `json:"numberOfPeople" binding:"required"`
	StartLocation  Location      `json:"startLocation" binding:"required"`
	Slots          []SlotRequest `json:"preferredTypes" binding:"required"`

	EndTime                *float64  `json:"endTime,omitempty"`
	EndLocation            *Location `json:"endLocation,omitempty"`
	ExtraInfo              string    `json:"extraInfo,omitempty"`
	TravelToleranceMinutes *int      `json:"travelTolerance,omitempty"`
	TimeGapMinutes         *int      `json:"timeGapBetweenThings,omitempty"`
	CrowdTolerance         []string  `json:"crowdTolerance,omitempty"`
	ParkingAccessible      *bool     `json:"parkingAccessible,omitempty"`
	MinimumRating          *float64  `json:"minimumRating,omitempty"`
	MaxResults             int       `json:"maxResults,omitempty"`
}

// Validate checks the mandatory planning fields.
func (r *PlanRequest) Validate() error {
	if r.Budget <= 0 {
		return errs.NewValidationError("budget must be positive")
	}
	if r.NumberOfPeople < 1 {
		return errs.NewValidationError("numberOfPeople must be at least 1")
	}
	if r.StartTime < 0 || r.StartTime >= 24 {
		return errs.NewValidationError("startTime must be in [0, 24)")
	}
	if len(r.Slots) == 0 {
		return errs.NewValidationError("at least one preferred type is required")
	}
	for i, slot := range r.Slots {
		if !slot.Category.IsValid() {
			return errs.NewValidationError(fmt.Sprintf("slot %d: invalid category %q", i, slot.Category))
		}
	}
	return nil
}
