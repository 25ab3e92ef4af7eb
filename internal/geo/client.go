package geo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/outingly/service-planner/internal/domain/itinerary"
)

// MatrixClient fetches all-pairs travel metrics for an ordered location list.
type MatrixClient interface {
	FetchMatrix(ctx context.Context, locations []itinerary.Location) (*itinerary.TravelMatrix, error)
}

// Config holds the OpenRouteService connection settings.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// OpenRouteClient calls the OpenRouteService matrix endpoint.
type OpenRouteClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewOpenRouteClient creates a client with a timeout-bounded http.Client.
func NewOpenRouteClient(cfg Config, logger *zap.Logger) *OpenRouteClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &OpenRouteClient{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

type matrixRequest struct {
	Locations [][]float64 `json:"locations"`
	Metrics   []string    `json:"metrics"`
}

type matrixResponse struct {
	Distances [][]float64 `json:"distances"`
	Durations [][]float64 `json:"durations"`
}

// FetchMatrix requests distance and duration matrices for the given ordered
// locations in one call. The response matrices are meters and seconds,
// indexed by the input order. Any transport, status or shape problem is
// returned as an error; the caller decides what a failed lookup means.
func (c *OpenRouteClient) FetchMatrix(ctx context.Context, locations []itinerary.Location) (*itinerary.TravelMatrix, error) {
	if len(locations) == 0 {
		return nil, fmt.Errorf("no locations to look up")
	}

	// OpenRouteService expects [lng, lat] pairs.
	coords := make([][]float64, len(locations))
	for i, loc := range locations {
		coords[i] = []float64{loc.Lng, loc.Lat}
	}

	payload, err := json.Marshal(matrixRequest{
		Locations: coords,
		Metrics:   []string{"distance", "duration"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal matrix request: %w", err)
	}

	url := c.baseURL + "/v2/matrix/driving-car"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build matrix request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", c.apiKey)

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("matrix request failed: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read matrix response: %w", err)
	}

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		c.logger.Warn("matrix lookup returned non-success status",
			zap.Int("status", res.StatusCode),
			zap.Int("locations", len(locations)),
		)
		return nil, fmt.Errorf("matrix lookup status %d", res.StatusCode)
	}

	var decoded matrixResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("failed to decode matrix response: %w", err)
	}
	if len(decoded.Distances) != len(locations) || len(decoded.Durations) != len(locations) {
		return nil, fmt.Errorf("matrix response size mismatch: want %d rows", len(locations))
	}

	return itinerary.NewTravelMatrix(locations, decoded.Distances, decoded.Durations), nil
}
