package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/outingly/service-planner/internal/domain/itinerary"
)

// Topics this service produces to or consumes from.
const (
	TopicItineraryEvents = "itinerary.events"
	TopicCatalogEvents   = "catalog.events"
)

// Event types.
const (
	ItineraryPlanned = "itinerary.planned"
	VenueUpserted    = "catalog.venue_upserted"
	VenueRemoved     = "catalog.venue_removed"
)

// ItineraryPlannedEvent reports the counters of one completed planning run.
type ItineraryPlannedEvent struct {
	RequestID       uuid.UUID `json:"request_id"`
	UserID          uuid.UUID `json:"user_id"`
	Categories      []string  `json:"categories"`
	Budget          float64   `json:"budget"`
	NumberOfPeople  int       `json:"number_of_people"`
	RawCombinations int       `json:"raw_combinations"`
	WithinBudget    int       `json:"within_budget"`
	Feasible        int       `json:"feasible"`
	Returned        int       `json:"returned"`
	Outcome         string    `json:"outcome"`
	OccurredAt      time.Time `json:"occurred_at"`
}

// VenueUpsertedEvent carries a full venue record from the upstream catalog.
type VenueUpsertedEvent struct {
	Venue      itinerary.Venue `json:"venue"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// VenueRemovedEvent signals a venue was retired from the upstream catalog.
type VenueRemovedEvent struct {
	VenueID    uuid.UUID `json:"venue_id"`
	OccurredAt time.Time `json:"occurred_at"`
}
