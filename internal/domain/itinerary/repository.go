package itinerary

import (
	"context"

	"github.com/google/uuid"
)

// CandidateQuery is the base availability query for one slot's pool.
type CandidateQuery struct {
	Category          Category
	NumberOfPeople    int
	MaxPricePerPerson float64
	// LatestStart is the latest acceptable opening hour: the venue must open
	// at or before it.
	LatestStart float64
	// EarliestEnd, when set, is the earliest acceptable closing hour.
	EarliestEnd *float64
	Limit       int
}

// VenueRepository defines the persistence contract for the venue catalog.
type VenueRepository interface {
	// FindByID retrieves a venue by its unique identifier.
	FindByID(ctx context.Context, id uuid.UUID) (*Venue, error)

	// FindCandidates retrieves venues satisfying the base availability query.
	FindCandidates(ctx context.Context, q CandidateQuery) ([]Venue, error)

	// List retrieves venues with pagination, optionally filtered by category.
	List(ctx context.Context, category *Category, page, limit int) ([]Venue, int64, error)

	// CountByCategory returns venue counts grouped by category.
	CountByCategory(ctx context.Context) (map[string]int64, error)

	// Upsert creates or replaces a venue record.
	Upsert(ctx context.Context, v *Venue) error

	// Delete removes a venue record.
	Delete(ctx context.Context, id uuid.UUID) error
}
