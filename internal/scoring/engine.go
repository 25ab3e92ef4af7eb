package scoring

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"go.uber.org/zap"

	"github.com/outingly/service-planner/internal/domain/itinerary"
)

// FallbackScore is the neutral score substituted when a scoring call fails
// or its output cannot be parsed. An itinerary is never dropped by scoring.
const FallbackScore = 50

const defaultBatchSize = 5

// ScoredItinerary is a feasible itinerary with its quality score attached.
type ScoredItinerary struct {
	Itinerary itinerary.EnrichedItinerary `json:"itinerary"`
	Score     int                         `json:"score"`
	Reasoning string                      `json:"reasoning,omitempty"`
}

// Config holds the engine's tunables, injected at construction.
type Config struct {
	// BatchSize bounds concurrent scoring calls; batches run one after
	// another with a full join barrier between them.
	BatchSize int
}

// Engine scores itineraries against the request's constraints through an
// external chat model and ranks them by descending score.
type Engine struct {
	chatModel model.BaseChatModel
	batchSize int
	logger    *zap.Logger
}

// NewEngine creates a scoring Engine around the given chat model.
func NewEngine(chatModel model.BaseChatModel, cfg Config, logger *zap.Logger) *Engine {
	batchSize := cfg.BatchSize
	if batchSize < 1 {
		batchSize = defaultBatchSize
	}
	return &Engine{
		chatModel: chatModel,
		batchSize: batchSize,
		logger:    logger,
	}
}

// ScoreAndRank scores every itinerary and returns them sorted by descending
// score. The constraint digest is built once; itineraries are scored in
// fixed-size batches, concurrently within a batch, each batch awaited in
// full before the next starts. Scoring faults degrade the affected
// itinerary to the fallback score instead of failing the pipeline. Ties
// keep their insertion order.
func (e *Engine) ScoreAndRank(ctx context.Context, itineraries []itinerary.EnrichedItinerary, req *itinerary.PlanRequest) []ScoredItinerary {
	if len(itineraries) == 0 {
		return nil
	}

	systemPrompt := BuildSystemPrompt(req)
	results := make([]ScoredItinerary, len(itineraries))

	for start := 0; start < len(itineraries); start += e.batchSize {
		end := start + e.batchSize
		if end > len(itineraries) {
			end = len(itineraries)
		}

		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				score, reasoning := e.scoreOne(ctx, systemPrompt, itineraries[i])
				results[i] = ScoredItinerary{
					Itinerary: itineraries[i],
					Score:     score,
					Reasoning: reasoning,
				}
			}(i)
		}
		wg.Wait()
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	return results
}

func (e *Engine) scoreOne(ctx context.Context, systemPrompt string, itin itinerary.EnrichedItinerary) (int, string) {
	payload, err := json.MarshalIndent(itin, "", "  ")
	if err != nil {
		e.logger.Error("failed to serialize itinerary for scoring", zap.Error(err))
		return FallbackScore, ""
	}

	messages := []*schema.Message{
		schema.SystemMessage(systemPrompt),
		schema.UserMessage(fmt.Sprintf("Itinerary:\n```json\n%s\n```\n\nScore this plan.", payload)),
	}

	resp, err := e.chatModel.Generate(ctx, messages)
	if err != nil {
		e.logger.Warn("scoring call failed, using fallback score", zap.Error(err))
		return FallbackScore, ""
	}

	score, reasoning, ok := parseScore(resp.Content)
	if !ok {
		e.logger.Warn("unparsable scoring response, using fallback score",
			zap.String("raw", truncate(resp.Content, 200)),
		)
		return FallbackScore, ""
	}
	return score, reasoning
}

type scorePayload struct {
	Score     interface{} `json:"score"`
	Reasoning string      `json:"reasoning"`
}

// parseScore extracts an integer score in [0,100] and a reasoning string
// from the model output: structured JSON first, then a bare leading integer.
func parseScore(raw string) (int, string, bool) {
	content := stripCodeFence(strings.TrimSpace(raw))

	var parsed scorePayload
	if err := json.Unmarshal([]byte(content), &parsed); err == nil {
		score, ok := coerceScore(parsed.Score)
		if !ok || score < 0 || score > 100 {
			return 0, "", false
		}
		reasoning := parsed.Reasoning
		if reasoning == "" {
			reasoning = "No reasoning provided"
		}
		return score, reasoning, true
	}

	score, ok := parseLeadingInt(content)
	if !ok || score < 0 || score > 100 {
		return 0, "", false
	}
	return score, "", true
}

func coerceScore(v interface{}) (int, bool) {
	switch s := v.(type) {
	case float64:
		return int(s), true
	case string:
		return parseLeadingInt(s)
	default:
		return 0, false
	}
}

// parseLeadingInt reads an optionally signed integer prefix of s.
func parseLeadingInt(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	neg := false
	i := 0
	if s[0] == '+' || s[0] == '-' {
		neg = s[0] == '-'
		i = 1
	}

	n := 0
	digits := 0
	for ; i < len(s) && s[i] >= '0' && s[i] <= '9'; i++ {
		n = n*10 + int(s[i]-'0')
		digits++
		if digits > 9 {
			return 0, false
		}
	}
	if digits == 0 {
		return 0, false
	}
	if neg {
		n = -n
	}
	return n, true
}

func stripCodeFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
