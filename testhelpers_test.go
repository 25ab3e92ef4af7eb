//go:build integration

package main_test

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"
	"time"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	kafkamodule "github.com/testcontainers/testcontainers-go/modules/kafka"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/outingly/service-planner/internal/application"
	"github.com/outingly/service-planner/internal/domain/itinerary"
	plannerEvents "github.com/outingly/service-planner/internal/events"
	"github.com/outingly/service-planner/internal/platform/kafka"
	"github.com/outingly/service-planner/internal/repository"
	"github.com/outingly/service-planner/internal/scoring"
)

// testInfra holds shared test infrastructure.
type testInfra struct {
	DB           *gorm.DB
	KafkaBrokers []string
	Cleanup      func()
}

// plannerStack holds wired-up planner service components.
type plannerStack struct {
	Planner         *application.PlannerService
	Catalog         *application.CatalogService
	Repo            *repository.GormVenueRepository
	Consumer        *plannerEvents.CatalogEventConsumer
	GeoClient       *uniformMatrixClient
	CleanupProducer func()
}

// uniformMatrixClient serves a constant all-pairs matrix without any
// external provider.
type uniformMatrixClient struct {
	Meters  float64
	Seconds float64
}

func (c *uniformMatrixClient) FetchMatrix(_ context.Context, locations []itinerary.Location) (*itinerary.TravelMatrix, error) {
	n := len(locations)
	dist := make([][]float64, n)
	dur := make([][]float64, n)
	for i := 0; i < n; i++ {
		dist[i] = make([]float64, n)
		dur[i] = make([]float64, n)
		for j := 0; j < n; j++ {
			if i != j {
				dist[i][j] = c.Meters
				dur[i][j] = c.Seconds
			}
		}
	}
	return itinerary.NewTravelMatrix(locations, dist, dur), nil
}

// fixedScoreModel always answers with the same score payload.
type fixedScoreModel struct{}

func (m *fixedScoreModel) Generate(_ context.Context, _ []*schema.Message, _ ...einomodel.Option) (*schema.Message, error) {
	return schema.AssistantMessage(`{"score": 75, "reasoning": "integration test"}`, nil), nil
}

func (m *fixedScoreModel) Stream(_ context.Context, _ []*schema.Message, _ ...einomodel.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("streaming not supported")
}

// setupContainers starts PostgreSQL and Kafka testcontainers and returns a connected GORM DB.
func setupContainers(t *testing.T) *testInfra {
	t.Helper()
	ctx := context.Background()

	pgReq := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "test_planner",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}
	pgContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: pgReq,
		Started:          true,
	})
	require.NoError(t, err, "failed to start PostgreSQL container")

	pgHost, err := pgContainer.Host(ctx)
	require.NoError(t, err)
	pgPort, err := pgContainer.MappedPort(ctx, "5432")
	require.NoError(t, err)

	dsn := fmt.Sprintf("host=%s port=%s user=test password=test dbname=test_planner sslmode=disable", pgHost, pgPort.Port())

	// Poll until GORM can actually connect and ping.
	var db *gorm.DB
	require.Eventually(t, func() bool {
		var err error
		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
		if err != nil {
			return false
		}
		sqlDB, err := db.DB()
		if err != nil {
			return false
		}
		return sqlDB.Ping() == nil
	}, 30*time.Second, 1*time.Second, "PostgreSQL not ready for connections")

	require.NoError(t, db.AutoMigrate(&repository.VenueModel{}))

	// Start Kafka container using confluent-local (supports KRaft natively).
	kafkaContainer, err := kafkamodule.Run(ctx, "confluentinc/confluent-local:7.5.0")
	require.NoError(t, err, "failed to start Kafka container")

	kafkaBrokers, err := kafkaContainer.Brokers(ctx)
	require.NoError(t, err, "failed to get Kafka brokers")

	createTopics(t, kafkaBrokers, plannerEvents.TopicItineraryEvents, plannerEvents.TopicCatalogEvents)

	cleanup := func() {
		if err := kafkaContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate Kafka container: %v", err)
		}
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate PostgreSQL container: %v", err)
		}
	}

	return &testInfra{
		DB:           db,
		KafkaBrokers: kafkaBrokers,
		Cleanup:      cleanup,
	}
}

// setupPlannerStack wires up the full planner service stack.
func setupPlannerStack(t *testing.T, db *gorm.DB, brokers []string) *plannerStack {
	t.Helper()
	logger, _ := zap.NewDevelopment()

	venueRepo := repository.NewGormVenueRepository(db)
	producer := kafka.NewProducer(brokers, logger)
	catalogSvc := application.NewCatalogService(venueRepo, producer, logger)

	geoClient := &uniformMatrixClient{Meters: 2000, Seconds: 600}
	engine := scoring.NewEngine(&fixedScoreModel{}, scoring.Config{BatchSize: 5}, logger)
	plannerSvc := application.NewPlannerService(venueRepo, geoClient, engine, producer, 4, logger)

	groupID := fmt.Sprintf("test-planner-%s", uuid.New().String()[:8])
	consumer := plannerEvents.NewCatalogEventConsumer(brokers, groupID, catalogSvc, logger)

	return &plannerStack{
		Planner:         plannerSvc,
		Catalog:         catalogSvc,
		Repo:            venueRepo,
		Consumer:        consumer,
		GeoClient:       geoClient,
		CleanupProducer: func() { _ = producer.Close() },
	}
}

// seedVenue inserts a venue directly through the repository.
func seedVenue(t *testing.T, repo *repository.GormVenueRepository, category itinerary.Category, name string, price float64, lat, lng float64) itinerary.Venue {
	t.Helper()
	venue := itinerary.Venue{
		ID:                 uuid.New(),
		Category:           category,
		Name:               name,
		Location:           itinerary.Location{Lat: lat, Lng: lng},
		PricePerPerson:     price,
		DurationMinutes:    90,
		MinPeople:          1,
		MaxPeople:          10,
		AvailableTimeStart: 10,
		AvailableTimeEnd:   23.5,
		Rating:             4.0,
	}
	require.NoError(t, repo.Upsert(context.Background(), &venue), "failed to seed venue")
	return venue
}

// publishTestEvent publishes a CloudEvent to Kafka.
func publishTestEvent(t *testing.T, brokers []string, topic, source, eventType string, data interface{}) {
	t.Helper()
	logger, _ := zap.NewDevelopment()
	producer := kafka.NewProducer(brokers, logger)
	defer func() { _ = producer.Close() }()

	ce, err := kafka.NewCloudEvent(source, eventType, data)
	require.NoError(t, err, "failed to create cloud event")

	err = producer.PublishEvent(context.Background(), topic, ce)
	require.NoError(t, err, "failed to publish event")
}

// waitForVenue polls the venues table until a row with the given ID exists.
func waitForVenue(t *testing.T, db *gorm.DB, venueID uuid.UUID, timeout time.Duration) repository.VenueModel {
	t.Helper()
	var result repository.VenueModel
	require.Eventually(t, func() bool {
		var model repository.VenueModel
		if err := db.Where("id = ?", venueID).First(&model).Error; err != nil {
			return false
		}
		result = model
		return true
	}, timeout, 200*time.Millisecond, "venue %s never appeared", venueID)
	return result
}

// waitForVenueGone polls the venues table until the row disappears.
func waitForVenueGone(t *testing.T, db *gorm.DB, venueID uuid.UUID, timeout time.Duration) {
	t.Helper()
	require.Eventually(t, func() bool {
		var count int64
		if err := db.Model(&repository.VenueModel{}).Where("id = ?", venueID).Count(&count).Error; err != nil {
			return false
		}
		return count == 0
	}, timeout, 200*time.Millisecond, "venue %s was never removed", venueID)
}

// consumeOneEvent reads from a Kafka topic until it finds an event of the expected type.
func consumeOneEvent(t *testing.T, brokers []string, topic, expectedType string, timeout time.Duration) kafka.CloudEvent {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	groupID := fmt.Sprintf("test-assert-%s", uuid.New().String()[:8])
	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     brokers,
		GroupID:     groupID,
		Topic:       topic,
		MinBytes:    1,
		MaxBytes:    10e6,
		StartOffset: kafkago.FirstOffset,
	})
	defer func() { _ = reader.Close() }()

	for {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				t.Fatalf("timed out waiting for event type %q on topic %q", expectedType, topic)
			}
			continue
		}
		ce, err := kafka.ParseCloudEvent(msg.Value)
		if err != nil {
			continue
		}
		if ce.Type == expectedType {
			return ce
		}
	}
}

// createTopics pre-creates Kafka topics so producers don't fail with "Unknown Topic".
func createTopics(t *testing.T, brokers []string, topics ...string) {
	t.Helper()
	conn, err := kafkago.Dial("tcp", brokers[0])
	require.NoError(t, err, "failed to dial Kafka for topic creation")
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err, "failed to get Kafka controller")

	controllerConn, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, fmt.Sprintf("%d", controller.Port)))
	require.NoError(t, err, "failed to connect to Kafka controller")
	defer controllerConn.Close()

	topicConfigs := make([]kafkago.TopicConfig, len(topics))
	for i, topic := range topics {
		topicConfigs[i] = kafkago.TopicConfig{
			Topic:             topic,
			NumPartitions:     1,
			ReplicationFactor: 1,
		}
	}
	err = controllerConn.CreateTopics(topicConfigs...)
	require.NoError(t, err, "failed to create Kafka topics")

	// Give Kafka a moment to propagate topic metadata.
	time.Sleep(1 * time.Second)
}
