package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/outingly/service-planner/internal/domain/itinerary"
	"github.com/outingly/service-planner/internal/platform/errs"
)

// VenueModel is the GORM model for the venues table.
type VenueModel struct {
	ID                 uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Category           string          `gorm:"not null;size:20;index"`
	Name               string          `gorm:"not null;size:200"`
	Lat                float64         `gorm:"not null"`
	Lng                float64         `gorm:"not null"`
	PricePerPerson     float64         `gorm:"not null;default:0"`
	DurationMinutes    float64         `gorm:"not null;default:0"`
	MinPeople          int             `gorm:"not null;default:1"`
	MaxPeople          int             `gorm:"not null;default:1"`
	AvailableTimeStart float64         `gorm:"not null;default:0"`
	AvailableTimeEnd   float64         `gorm:"not null;default:24"`
	Rating             float64         `gorm:"not null;default:0"`
	Tags               json.RawMessage `gorm:"type:jsonb"`
	Amenities          json.RawMessage `gorm:"type:jsonb;not null"`
	Attributes         json.RawMessage `gorm:"type:jsonb;not null"`
	CrowdLevels        json.RawMessage `gorm:"type:jsonb"`
	CreatedAt          time.Time       `gorm:"not null"`
	UpdatedAt          time.Time       `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (VenueModel) TableName() string {
	return "venues"
}

// GormVenueRepository is the GORM-based implementation of VenueRepository.
type GormVenueRepository struct {
	db *gorm.DB
}

// NewGormVenueRepository creates a new GormVenueRepository.
func NewGormVenueRepository(db *gorm.DB) *GormVenueRepository {
	return &GormVenueRepository{db: db}
}

// FindByID retrieves a venue by its unique identifier.
func (r *GormVenueRepository) FindByID(ctx context.Context, id uuid.UUID) (*itinerary.Venue, error) {
	var model VenueModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewNotFoundError("Venue", id.String())
		}
		return nil, fmt.Errorf("failed to find venue by ID: %w", err)
	}
	return toDomainVenue(&model)
}

// FindCandidates retrieves venues satisfying the base availability query,
// best-rated first. Category/amenity filters are applied by the caller.
func (r *GormVenueRepository) FindCandidates(ctx context.Context, q itinerary.CandidateQuery) ([]itinerary.Venue, error) {
	query := r.db.WithContext(ctx).
		Where("category = ?", string(q.Category)).
		Where("min_people <= ?", q.NumberOfPeople).
		Where("max_people >= ?", q.NumberOfPeople).
		Where("price_per_person <= ?", q.MaxPricePerPerson).
		Where("available_time_start <= ?", q.LatestStart)

	if q.EarliestEnd != nil {
		query = query.Where("available_time_end >= ?", *q.EarliestEnd)
	}

	limit := q.Limit
	if limit <= 0 {
		limit = 200
	}

	var models []VenueModel
	if err := query.Order("rating DESC").Limit(limit).Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to query candidates: %w", err)
	}

	venues := make([]itinerary.Venue, len(models))
	for i, m := range models {
		v, err := toDomainVenue(&m)
		if err != nil {
			return nil, err
		}
		venues[i] = *v
	}
	return venues, nil
}

// List retrieves venues with pagination, optionally filtered by category.
func (r *GormVenueRepository) List(ctx context.Context, category *itinerary.Category, page, limit int) ([]itinerary.Venue, int64, error) {
	query := r.db.WithContext(ctx).Model(&VenueModel{})
	if category != nil {
		query = query.Where("category = ?", string(*category))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count venues: %w", err)
	}

	var models []VenueModel
	offset := (page - 1) * limit
	if err := query.
		Order("name ASC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list venues: %w", err)
	}

	venues := make([]itinerary.Venue, len(models))
	for i, m := range models {
		v, err := toDomainVenue(&m)
		if err != nil {
			return nil, 0, err
		}
		venues[i] = *v
	}
	return venues, total, nil
}

// CountByCategory returns venue counts grouped by category.
func (r *GormVenueRepository) CountByCategory(ctx context.Context) (map[string]int64, error) {
	type categoryCount struct {
		Category string
		Count    int64
	}
	var results []categoryCount
	if err := r.db.WithContext(ctx).Model(&VenueModel{}).
		Select("category, count(*) as count").
		Group("category").
		Find(&results).Error; err != nil {
		return nil, fmt.Errorf("failed to count by category: %w", err)
	}

	counts := make(map[string]int64)
	for _, cc := range results {
		counts[cc.Category] = cc.Count
	}
	return counts, nil
}

// Upsert creates or replaces a venue record.
func (r *GormVenueRepository) Upsert(ctx context.Context, v *itinerary.Venue) error {
	model, err := toVenueModel(v)
	if err != nil {
		return fmt.Errorf("failed to convert venue to model: %w", err)
	}

	err = r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(model).Error
	if err != nil {
		return fmt.Errorf("failed to upsert venue: %w", err)
	}
	return nil
}

// Delete removes a venue record. Deleting a missing venue is a no-op.
func (r *GormVenueRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.db.WithContext(ctx).Delete(&VenueModel{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to delete venue: %w", err)
	}
	return nil
}

// --- Conversion Helpers ---

func toVenueModel(v *itinerary.Venue) (*VenueModel, error) {
	tagsJSON, err := json.Marshal(v.Tags)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal tags: %w", err)
	}
	amenitiesJSON, err := json.Marshal(v.Amenities)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal amenities: %w", err)
	}
	attributesJSON, err := json.Marshal(v.Attributes)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal attributes: %w", err)
	}
	crowdJSON, err := json.Marshal(v.CrowdLevels)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal crowd levels: %w", err)
	}

	now := time.Now().UTC()
	return &VenueModel{
		ID:                 v.ID,
		Category:           string(v.Category),
		Name:               v.Name,
		Lat:                v.Location.Lat,
		Lng:                v.Location.Lng,
		PricePerPerson:     v.PricePerPerson,
		DurationMinutes:    v.DurationMinutes,
		MinPeople:          v.MinPeople,
		MaxPeople:          v.MaxPeople,
		AvailableTimeStart: v.AvailableTimeStart,
		AvailableTimeEnd:   v.AvailableTimeEnd,
		Rating:             v.Rating,
		Tags:               tagsJSON,
		Amenities:          amenitiesJSON,
		Attributes:         attributesJSON,
		CrowdLevels:        crowdJSON,
		CreatedAt:          now,
		UpdatedAt:          now,
	}, nil
}

func toDomainVenue(m *VenueModel) (*itinerary.Venue, error) {
	category, err := itinerary.ParseCategory(m.Category)
	if err != nil {
		return nil, err
	}

	var tags []string
	if len(m.Tags) > 0 {
		if err := json.Unmarshal(m.Tags, &tags); err != nil {
			return nil, fmt.Errorf("failed to unmarshal tags: %w", err)
		}
	}

	var amenities itinerary.Amenities
	if len(m.Amenities) > 0 {
		if err := json.Unmarshal(m.Amenities, &amenities); err != nil {
			return nil, fmt.Errorf("failed to unmarshal amenities: %w", err)
		}
	}

	var attributes itinerary.Attributes
	if len(m.Attributes) > 0 {
		if err := json.Unmarshal(m.Attributes, &attributes); err != nil {
			return nil, fmt.Errorf("failed to unmarshal attributes: %w", err)
		}
	}

	var crowdLevels []string
	if len(m.CrowdLevels) > 0 {
		if err := json.Unmarshal(m.CrowdLevels, &crowdLevels); err != nil {
			return nil, fmt.Errorf("failed to unmarshal crowd levels: %w", err)
		}
	}

	return &itinerary.Venue{
		ID:                 m.ID,
		Category:           category,
		Name:               m.Name,
		Location:           itinerary.Location{Lat: m.Lat, Lng: m.Lng},
		PricePerPerson:     m.PricePerPerson,
		DurationMinutes:    m.DurationMinutes,
		MinPeople:          m.MinPeople,
		MaxPeople:          m.MaxPeople,
		AvailableTimeStart: m.AvailableTimeStart,
		AvailableTimeEnd:   m.AvailableTimeEnd,
		Rating:             m.Rating,
		Tags:               tags,
		Amenities:          amenities,
		Attributes:         attributes,
		CrowdLevels:        crowdLevels,
	}, nil
}
