package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/outingly/service-planner/internal/domain/itinerary"
	"github.com/outingly/service-planner/internal/events"
	"github.com/outingly/service-planner/internal/geo"
	"github.com/outingly/service-planner/internal/platform/errs"
	"github.com/outingly/service-planner/internal/platform/kafka"
	"github.com/outingly/service-planner/internal/scoring"
)

const (
	// defaultMaxResults caps the ranked itineraries returned to the caller.
	defaultMaxResults = 4

	// maxPoolSize caps each slot's candidate pool after filtering. Pools are
	// rating-ordered, so the cap keeps the best candidates.
	maxPoolSize = 50

	// poolQueryLimit bounds the base availability query before in-memory
	// slot filters are applied.
	poolQueryLimit = 200

	// budgetHeadroom widens the per-person price ceiling of the pool query.
	// A pricier venue can still fit when combined with cheaper ones; the
	// exact budget check happens on whole combinations.
	budgetHeadroom = 1.25

	// hourBuffer loosens the operating-hours pre-filter by one hour on each
	// side. Travel time is unknown at query time, so the resolver only drops
	// venues that could not possibly fit; the simulation decides exactly.
	hourBuffer = 1.0
)

// eventSource identifies this service in published CloudEvents.
const eventSource = "planner-service"

// PlanResult is the ranked outcome of one planning run.
type PlanResult struct {
	Itineraries []scoring.ScoredItinerary `json:"itineraries"`
	// TotalScored counts the feasible itineraries that entered scoring,
	// before truncation to the result cap.
	TotalScored int    `json:"totalCombinations"`
	Outcome     string `json:"outcome"`
}

// Planning outcomes reported in PlanResult and the planned event.
const (
	OutcomeRanked         = "ranked"
	OutcomeNoBudgetFit    = "no_combination_within_budget"
	OutcomeNoFeasibleSlot = "no_feasible_schedule"
)

// PlannerService orchestrates the planning pipeline: resolve slot pools,
// expand combinations, filter by budget, enrich with travel metrics,
// simulate operating hours, then score and rank.
type PlannerService struct {
	venues     itinerary.VenueRepository
	geoClient  geo.MatrixClient
	engine     *scoring.Engine
	producer   *kafka.Producer
	logger     *zap.Logger
	maxResults int
}

// NewPlannerService creates a PlannerService.
func NewPlannerService(
	venues itinerary.VenueRepository,
	geoClient geo.MatrixClient,
	engine *scoring.Engine,
	producer *kafka.Producer,
	maxResults int,
	logger *zap.Logger,
) *PlannerService {
	if maxResults < 1 {
		maxResults = defaultMaxResults
	}
	return &PlannerService{
		venues:     venues,
		geoClient:  geoClient,
		engine:     engine,
		producer:   producer,
		logger:     logger,
		maxResults: maxResults,
	}
}

// PlanItinerary runs the full pipeline for one request. Slot pools that
// resolve empty abort planning with a NoCandidatesError; an empty result
// after the budget or feasibility stage is a normal outcome, not an error.
func (s *PlannerService) PlanItinerary(ctx context.Context, userID uuid.UUID, req *itinerary.PlanRequest) (*PlanResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	slots, err := s.resolveSlots(ctx, req)
	if err != nil {
		return nil, err
	}

	var empty []string
	for _, slot := range slots {
		if len(slot.Venues) == 0 {
			empty = append(empty, slot.Category.String())
		}
	}
	if len(empty) > 0 {
		return nil, &errs.NoCandidatesError{Categories: empty}
	}

	combinations := itinerary.Combinations(slots, req.NumberOfPeople)
	withinBudget := itinerary.FilterByBudget(combinations, req.Budget)

	s.logger.Info("candidate generation complete",
		zap.String("user_id", userID.String()),
		zap.Int("combinations", len(combinations)),
		zap.Int("within_budget", len(withinBudget)),
	)

	if len(withinBudget) == 0 {
		result := &PlanResult{Outcome: OutcomeNoBudgetFit}
		s.publishPlanned(ctx, userID, req, len(combinations), 0, 0, result)
		return result, nil
	}

	feasible := s.enrich(ctx, withinBudget, req)
	if len(feasible) == 0 {
		result := &PlanResult{Outcome: OutcomeNoFeasibleSlot}
		s.publishPlanned(ctx, userID, req, len(combinations), len(withinBudget), 0, result)
		return result, nil
	}

	ranked := s.engine.ScoreAndRank(ctx, feasible, req)

	maxResults := s.maxResults
	if req.MaxResults > 0 {
		maxResults = req.MaxResults
	}
	totalScored := len(ranked)
	if len(ranked) > maxResults {
		ranked = ranked[:maxResults]
	}

	result := &PlanResult{
		Itineraries: ranked,
		TotalScored: totalScored,
		Outcome:     OutcomeRanked,
	}
	s.publishPlanned(ctx, userID, req, len(combinations), len(withinBudget), totalScored, result)
	return result, nil
}

// resolveSlots materializes each slot's candidate pool. Fixed slots resolve
// to their single venue; missing fixed venues resolve to an empty pool so
// they surface through the same precondition failure as empty categories.
func (s *PlannerService) resolveSlots(ctx context.Context, req *itinerary.PlanRequest) ([]itinerary.ResolvedSlot, error) {
	resolved := make([]itinerary.ResolvedSlot, len(req.Slots))

	for i, slot := range req.Slots {
		resolved[i] = itinerary.ResolvedSlot{Category: slot.Category}

		if slot.Fixed() {
			venue, err := s.venues.FindByID(ctx, *slot.VenueID)
			if err != nil {
				if kind, ok := errs.KindOf(err); ok && kind == errs.KindNotFound {
					continue
				}
				return nil, err
			}
			if venue.Category != slot.Category {
				return nil, errs.NewValidationError("venue " + venue.ID.String() + " is not a " + slot.Category.String() + " venue")
			}
			resolved[i].Venues = []itinerary.Venue{*venue}
			continue
		}

		pool, err := s.venues.FindCandidates(ctx, s.candidateQuery(slot.Category, req))
		if err != nil {
			return nil, err
		}

		if slot.Filters != nil {
			filtered := pool[:0]
			for _, v := range pool {
				if slot.Filters.Matches(v) {
					filtered = append(filtered, v)
				}
			}
			pool = filtered
		}
		if len(pool) > maxPoolSize {
			pool = pool[:maxPoolSize]
		}
		resolved[i].Venues = pool
	}

	return resolved, nil
}

// candidateQuery derives the base availability query for one slot. The price
// ceiling carries headroom and the hour bounds carry a one-hour buffer; both
// are deliberately loose pre-filters ahead of the exact pipeline checks.
func (s *PlannerService) candidateQuery(category itinerary.Category, req *itinerary.PlanRequest) itinerary.CandidateQuery {
	q := itinerary.CandidateQuery{
		Category:          category,
		NumberOfPeople:    req.NumberOfPeople,
		MaxPricePerPerson: req.Budget * budgetHeadroom / float64(req.NumberOfPeople),
		LatestStart:       req.StartTime - hourBuffer,
		Limit:             poolQueryLimit,
	}
	if req.EndTime != nil {
		earliestEnd := *req.EndTime + hourBuffer
		q.EarliestEnd = &earliestEnd
	}
	return q
}

// enrich runs the batched matrix lookup and the operating-hours simulation.
// Both failure modes are fail-closed: without trustworthy travel metrics no
// itinerary is declared feasible.
func (s *PlannerService) enrich(ctx context.Context, candidates []itinerary.Candidate, req *itinerary.PlanRequest) []itinerary.EnrichedItinerary {
	locations := itinerary.CollectLocations(candidates, req.StartLocation)

	matrix, err := s.geoClient.FetchMatrix(ctx, locations)
	if err != nil {
		s.logger.Warn("travel matrix lookup failed, declaring no feasible itineraries",
			zap.Int("locations", len(locations)),
			zap.Error(err),
		)
		return nil
	}

	feasible, err := itinerary.EnrichFeasible(candidates, req.StartLocation, req.StartTime, matrix)
	if err != nil {
		s.logger.Error("feasibility simulation failed", zap.Error(err))
		return nil
	}
	return feasible
}

// publishPlanned reports the planning run's counters. Publishing failures
// are logged and swallowed: the caller already has the result.
func (s *PlannerService) publishPlanned(
	ctx context.Context,
	userID uuid.UUID,
	req *itinerary.PlanRequest,
	rawCombinations, withinBudget, feasible int,
	result *PlanResult,
) {
	if s.producer == nil {
		return
	}

	categories := make([]string, len(req.Slots))
	for i, slot := range req.Slots {
		categories[i] = slot.Category.String()
	}

	event, err := kafka.NewCloudEvent(eventSource, events.ItineraryPlanned, events.ItineraryPlannedEvent{
		RequestID:       uuid.New(),
		UserID:          userID,
		Categories:      categories,
		Budget:          req.Budget,
		NumberOfPeople:  req.NumberOfPeople,
		RawCombinations: rawCombinations,
		WithinBudget:    withinBudget,
		Feasible:        feasible,
		Returned:        len(result.Itineraries),
		Outcome:         result.Outcome,
		OccurredAt:      time.Now().UTC(),
	})
	if err != nil {
		s.logger.Error("failed to build planned event", zap.Error(err))
		return
	}
	if err := s.producer.PublishEvent(ctx, events.TopicItineraryEvents, event); err != nil {
		s.logger.Error("failed to publish planned event", zap.Error(err))
	}
}
