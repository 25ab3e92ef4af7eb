package events

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/outingly/service-planner/internal/domain/itinerary"
	"github.com/outingly/service-planner/internal/platform/kafka"
)

// CatalogWriter applies upstream catalog changes to local venue storage.
type CatalogWriter interface {
	UpsertRecord(ctx context.Context, v itinerary.Venue) error
	RemoveRecord(ctx context.Context, id uuid.UUID) error
}

// CatalogEventConsumer keeps the local venue catalog in sync with the
// upstream catalog service's event stream.
type CatalogEventConsumer struct {
	consumer *kafka.Consumer
	writer   CatalogWriter
	logger   *zap.Logger
}

// NewCatalogEventConsumer creates a consumer on the catalog topic.
func NewCatalogEventConsumer(
	brokers []string,
	groupID string,
	writer CatalogWriter,
	logger *zap.Logger,
) *CatalogEventConsumer {
	consumer := kafka.NewConsumer(brokers, groupID, TopicCatalogEvents, logger)
	return &CatalogEventConsumer{
		consumer: consumer,
		writer:   writer,
		logger:   logger,
	}
}

// Start begins consuming catalog events. This blocks until the context is cancelled.
func (c *CatalogEventConsumer) Start(ctx context.Context) error {
	return c.consumer.Consume(ctx, c.handleMessage)
}

// Close closes the underlying Kafka consumer.
func (c *CatalogEventConsumer) Close() error {
	return c.consumer.Close()
}

func (c *CatalogEventConsumer) handleMessage(ctx context.Context, msg kafkago.Message) error {
	var cloudEvent kafka.CloudEvent
	if err := json.Unmarshal(msg.Value, &cloudEvent); err != nil {
		c.logger.Error("failed to parse cloud event from catalog topic",
			zap.Error(err),
			zap.String("raw", string(msg.Value)),
		)
		return nil // Don't retry malformed messages
	}

	switch cloudEvent.Type {
	case VenueUpserted:
		return c.handleVenueUpserted(ctx, cloudEvent)
	case VenueRemoved:
		return c.handleVenueRemoved(ctx, cloudEvent)
	default:
		c.logger.Debug("ignoring unhandled catalog event type",
			zap.String("type", cloudEvent.Type),
		)
		return nil
	}
}

func (c *CatalogEventConsumer) handleVenueUpserted(ctx context.Context, cloudEvent kafka.CloudEvent) error {
	var evt VenueUpsertedEvent
	if err := cloudEvent.ParseData(&evt); err != nil {
		c.logger.Error("failed to parse VenueUpsertedEvent data", zap.Error(err))
		return nil // Don't retry malformed data
	}

	if err := c.writer.UpsertRecord(ctx, evt.Venue); err != nil {
		c.logger.Error("failed to apply venue upsert",
			zap.String("venue_id", evt.Venue.ID.String()),
			zap.Error(err),
		)
		return err
	}

	c.logger.Info("venue upserted from catalog stream",
		zap.String("venue_id", evt.Venue.ID.String()),
		zap.String("category", evt.Venue.Category.String()),
	)
	return nil
}

func (c *CatalogEventConsumer) handleVenueRemoved(ctx context.Context, cloudEvent kafka.CloudEvent) error {
	var evt VenueRemovedEvent
	if err := cloudEvent.ParseData(&evt); err != nil {
		c.logger.Error("failed to parse VenueRemovedEvent data", zap.Error(err))
		return nil
	}

	if err := c.writer.RemoveRecord(ctx, evt.VenueID); err != nil {
		c.logger.Error("failed to apply venue removal",
			zap.String("venue_id", evt.VenueID.String()),
			zap.Error(err),
		)
		return err
	}

	c.logger.Info("venue removed from catalog stream",
		zap.String("venue_id", evt.VenueID.String()),
	)
	return nil
}
