package scoring

import (
	"fmt"
	"strings"

	"github.com/outingly/service-planner/internal/domain/itinerary"
)

const scoringGuidelines = `EVALUATION GUIDELINES:

1. BUDGET COMPLIANCE (0-25 points):
   - Calculate total cost vs budget (pricePerPerson x numberOfPeople for all legs)
   - Deduct points for exceeding budget
   - Reward optimal use of budget without overspending

2. TRAVEL & LOGISTICS (0-25 points):
   - Evaluate distanceKm and travelTimeMinutes between consecutive legs
   - If a travel time limit is specified: penalize heavily if any leg exceeds it
   - Consider cumulative travel time impact on the experience
   - Check that any preferred gap between activities is respected
   - Validate activities fit within venue operating hours (availableTimeStart to availableTimeEnd)

3. QUALITY & PREFERENCES (0-25 points):
   - Check minimum rating compliance (rating field)
   - Match user preferences with the tags field
   - Evaluate crowd tolerance alignment
   - Verify parking requirement if specified
   - Assess category-specific filters (cuisines, venues, kinds, genres, etc.)

4. EXPERIENCE FLOW (0-25 points):
   - Logical sequence of stops
   - Variety and balance in the itinerary
   - Duration appropriateness for each stop
   - Overall coherence and quality of the experience

SCORING RULES:
- Use the FULL granular range 0-100 (e.g. 67, 73, 82, 91)
- Do NOT round to multiples of 5 or 10
- Be precise based on constraint violations/matches
- Penalize each constraint violation proportionally

OUTPUT FORMAT:
Return ONLY valid JSON with this exact structure:
{
  "score": <integer 0-100>,
  "reasoning": "<detailed explanation of score with specific constraint analysis>"
}`

// BuildSystemPrompt derives the constraint digest from the request and
// embeds it in the fixed scoring instructions. It is built once per request
// and shared by every scoring call.
func BuildSystemPrompt(req *itinerary.PlanRequest) string {
	var constraints []string

	if req.Budget > 0 {
		constraints = append(constraints, fmt.Sprintf("budget (%.0f total for %d people)", req.Budget, req.NumberOfPeople))
	}
	if req.MinimumRating != nil {
		constraints = append(constraints, fmt.Sprintf("minimum rating (%.1f+)", *req.MinimumRating))
	}
	if req.TravelToleranceMinutes != nil {
		constraints = append(constraints, fmt.Sprintf("travel time limit (max %d min per leg, check distanceKm and travelTimeMinutes)", *req.TravelToleranceMinutes))
	}
	if req.TimeGapMinutes != nil {
		constraints = append(constraints, fmt.Sprintf("preferred gap between activities (%d min)", *req.TimeGapMinutes))
	}
	if len(req.CrowdTolerance) > 0 {
		constraints = append(constraints, fmt.Sprintf("crowd tolerance (%s)", strings.Join(req.CrowdTolerance, ",")))
	}
	if req.ParkingAccessible != nil && *req.ParkingAccessible {
		constraints = append(constraints, "parking required")
	}
	if req.ExtraInfo != "" {
		constraints = append(constraints, fmt.Sprintf("user preferences: %q (match with tags field)", req.ExtraInfo))
	}

	for _, slot := range req.Slots {
		if clause := slotClause(slot); clause != "" {
			constraints = append(constraints, clause)
		}
	}

	constraintsText := "Evaluate all aspects."
	if len(constraints) > 0 {
		constraintsText = fmt.Sprintf("Evaluate based on: %s.", strings.Join(constraints, ", "))
	}

	return fmt.Sprintf("You are a precise itinerary scoring engine. %s\n\n%s", constraintsText, scoringGuidelines)
}

// slotClause renders one slot's filters as a single digest clause, or ""
// when the slot is fixed or unfiltered.
func slotClause(slot itinerary.SlotRequest) string {
	f := slot.Filters
	if f == nil {
		return ""
	}

	var parts []string
	addList := func(name string, values []string) {
		if len(values) > 0 {
			parts = append(parts, fmt.Sprintf("%s: %s", name, strings.Join(values, ",")))
		}
	}
	addBool := func(name string, value *bool) {
		if value != nil {
			parts = append(parts, fmt.Sprintf("%s: %t", name, *value))
		}
	}

	addList("kinds", f.Kinds)
	addList("cuisines", f.Cuisines)
	addList("venues", f.Venues)
	addList("genres", f.Genres)
	addList("languages", f.Languages)
	addList("formats", f.Formats)
	addList("cast", f.Cast)
	addList("intensities", f.Intensities)
	addBool("alcohol", f.Alcohol)
	addBool("cafe", f.Cafe)

	if len(parts) == 0 {
		return ""
	}
	return fmt.Sprintf("%s (%s)", slot.Category, strings.Join(parts, "; "))
}
