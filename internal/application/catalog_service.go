package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/outingly/service-planner/internal/domain/itinerary"
	"github.com/outingly/service-planner/internal/events"
	"github.com/outingly/service-planner/internal/platform/errs"
	"github.com/outingly/service-planner/internal/platform/kafka"
)

// VenueInput is the admin-facing payload for creating or replacing a venue.
type VenueInput struct {
	ID                 *uuid.UUID           `json:"id,omitempty"`
	Category           string               `json:"category" binding:"required"`
	Name               string               `json:"name" binding:"required"`
	Location           itinerary.Location   `json:"location" binding:"required"`
	PricePerPerson     float64              `json:"pricePerPerson"`
	DurationMinutes    float64              `json:"duration" binding:"required"`
	MinPeople          int                  `json:"minPeople"`
	MaxPeople          int                  `json:"maxPeople"`
	AvailableTimeStart float64              `json:"availableTimeStart"`
	AvailableTimeEnd   float64              `json:"availableTimeEnd"`
	Rating             float64              `json:"rating"`
	Tags               []string             `json:"tags,omitempty"`
	Amenities          itinerary.Amenities  `json:"amenities"`
	Attributes         itinerary.Attributes `json:"attributes"`
	CrowdLevels        []string             `json:"crowdLevels,omitempty"`
}

// toVenue validates the input and builds the domain record. A missing ID
// means a new venue.
func (in *VenueInput) toVenue() (*itinerary.Venue, error) {
	category, err := itinerary.ParseCategory(in.Category)
	if err != nil {
		return nil, errs.NewValidationError(err.Error())
	}
	if in.Name == "" {
		return nil, errs.NewValidationError("name is required")
	}
	if in.PricePerPerson < 0 {
		return nil, errs.NewValidationError("pricePerPerson must not be negative")
	}
	if in.DurationMinutes <= 0 {
		return nil, errs.NewValidationError("duration must be positive")
	}

	minPeople := in.MinPeople
	if minPeople < 1 {
		minPeople = 1
	}
	maxPeople := in.MaxPeople
	if maxPeople < minPeople {
		return nil, errs.NewValidationError("maxPeople must be at least minPeople")
	}

	if in.AvailableTimeStart < 0 || in.AvailableTimeStart >= 24 {
		return nil, errs.NewValidationError("availableTimeStart must be in [0, 24)")
	}
	if in.AvailableTimeEnd < 0 || in.AvailableTimeEnd > 24 {
		return nil, errs.NewValidationError("availableTimeEnd must be in [0, 24]")
	}
	if in.Rating < 0 || in.Rating > 5 {
		return nil, errs.NewValidationError("rating must be in [0, 5]")
	}

	id := uuid.New()
	if in.ID != nil {
		id = *in.ID
	}

	return &itinerary.Venue{
		ID:                 id,
		Category:           category,
		Name:               in.Name,
		Location:           in.Location,
		PricePerPerson:     in.PricePerPerson,
		DurationMinutes:    in.DurationMinutes,
		MinPeople:          minPeople,
		MaxPeople:          maxPeople,
		AvailableTimeStart: in.AvailableTimeStart,
		AvailableTimeEnd:   in.AvailableTimeEnd,
		Rating:             in.Rating,
		Tags:               in.Tags,
		Amenities:          in.Amenities,
		Attributes:         in.Attributes,
		CrowdLevels:        in.CrowdLevels,
	}, nil
}

// CatalogService manages the venue catalog: admin writes, reads, and the
// apply-side of the upstream catalog event stream.
type CatalogService struct {
	venues   itinerary.VenueRepository
	producer *kafka.Producer
	logger   *zap.Logger
}

// NewCatalogService creates a CatalogService.
func NewCatalogService(venues itinerary.VenueRepository, producer *kafka.Producer, logger *zap.Logger) *CatalogService {
	return &CatalogService{
		venues:   venues,
		producer: producer,
		logger:   logger,
	}
}

// Upsert validates and stores a venue from the admin API, then announces the
// change on the catalog topic.
func (s *CatalogService) Upsert(ctx context.Context, input *VenueInput) (*itinerary.Venue, error) {
	venue, err := input.toVenue()
	if err != nil {
		return nil, err
	}

	if err := s.venues.Upsert(ctx, venue); err != nil {
		return nil, fmt.Errorf("failed to store venue: %w", err)
	}

	s.logger.Info("venue upserted",
		zap.String("venue_id", venue.ID.String()),
		zap.String("category", venue.Category.String()),
	)

	s.publish(ctx, events.VenueUpserted, events.VenueUpsertedEvent{
		Venue:      *venue,
		OccurredAt: time.Now().UTC(),
	})
	return venue, nil
}

// Remove deletes a venue from the admin API and announces the removal.
// The venue must exist.
func (s *CatalogService) Remove(ctx context.Context, id uuid.UUID) error {
	if _, err := s.venues.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.venues.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete venue: %w", err)
	}

	s.logger.Info("venue removed", zap.String("venue_id", id.String()))

	s.publish(ctx, events.VenueRemoved, events.VenueRemovedEvent{
		VenueID:    id,
		OccurredAt: time.Now().UTC(),
	})
	return nil
}

// GetVenue retrieves a single venue.
func (s *CatalogService) GetVenue(ctx context.Context, id uuid.UUID) (*itinerary.Venue, error) {
	return s.venues.FindByID(ctx, id)
}

// ListVenues retrieves venues with pagination, optionally by category.
func (s *CatalogService) ListVenues(ctx context.Context, category string, page, limit int) ([]itinerary.Venue, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	var categoryFilter *itinerary.Category
	if category != "" {
		parsed, err := itinerary.ParseCategory(category)
		if err != nil {
			return nil, 0, errs.NewValidationError(err.Error())
		}
		categoryFilter = &parsed
	}

	return s.venues.List(ctx, categoryFilter, page, limit)
}

// VenueStats returns venue counts per category.
func (s *CatalogService) VenueStats(ctx context.Context) (map[string]int64, error) {
	return s.venues.CountByCategory(ctx)
}

// UpsertRecord applies an upstream catalog upsert to local storage. No event
// is re-published; the stream is the source.
func (s *CatalogService) UpsertRecord(ctx context.Context, v itinerary.Venue) error {
	if !v.Category.IsValid() {
		return errs.NewValidationError(fmt.Sprintf("invalid category %q", v.Category))
	}
	return s.venues.Upsert(ctx, &v)
}

// RemoveRecord applies an upstream catalog removal to local storage.
// Removing an unknown venue is a no-op.
func (s *CatalogService) RemoveRecord(ctx context.Context, id uuid.UUID) error {
	return s.venues.Delete(ctx, id)
}

func (s *CatalogService) publish(ctx context.Context, eventType string, payload interface{}) {
	if s.producer == nil {
		return
	}
	event, err := kafka.NewCloudEvent(eventSource, eventType, payload)
	if err != nil {
		s.logger.Error("failed to build catalog event", zap.Error(err))
		return
	}
	if err := s.producer.PublishEvent(ctx, events.TopicCatalogEvents, event); err != nil {
		s.logger.Error("failed to publish catalog event",
			zap.String("type", eventType),
			zap.Error(err),
		)
	}
}
