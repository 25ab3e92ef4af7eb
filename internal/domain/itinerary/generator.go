package itinerary

// ResolvedSlot is a request slot whose candidate pool has been materialized.
// A fixed-venue slot carries exactly one venue.
type ResolvedSlot struct {
	Category Category
	Venues   []Venue
}

// Leg is one stop of a candidate itinerary, tagged with its slot's category.
type Leg struct {
	Category Category `json:"category"`
	Venue    Venue    `json:"venue"`
}

// Candidate is an ordered selection of one venue per slot. TotalCost is the
// whole-party cost, fixed before enrichment.
type Candidate struct {
	Legs      []Leg   `json:"legs"`
	TotalCost float64 `json:"totalCost"`
}

// Combinations expands the ordered slots into every ordered selection of one
// venue per slot, preserving slot order as the visiting order. Slots with an
// empty pool are skipped; if none remain, the result is empty. The expansion
// walks an index odometer rather than recursing, so slot count does not
// affect stack depth.
func Combinations(slots []ResolvedSlot, numberOfPeople int) []Candidate {
	populated := make([]ResolvedSlot, 0, len(slots))
	for _, s := range slots {
		if len(s.Venues) > 0 {
			populated = append(populated, s)
		}
	}
	if len(populated) == 0 {
		return nil
	}

	total := 1
	for _, s := range populated {
		total *= len(s.Venues)
	}

	out := make([]Candidate, 0, total)
	odometer := make([]int, len(populated))
	for {
		legs := make([]Leg, len(populated))
		var cost float64
		for i, s := range populated {
			v := s.Venues[odometer[i]]
			legs[i] = Leg{Category: s.Category, Venue: v}
			cost += v.PricePerPerson * float64(numberOfPeople)
		}
		out = append(out, Candidate{Legs: legs, TotalCost: cost})

		// Advance the rightmost digit, carrying left.
		pos := len(odometer) - 1
		for pos >= 0 {
			odometer[pos]++
			if odometer[pos] < len(populated[pos].Venues) {
				break
			}
			odometer[pos] = 0
			pos--
		}
		if pos < 0 {
			return out
		}
	}
}

// FilterByBudget keeps only candidates whose total cost is within budget.
func FilterByBudget(candidates []Candidate, budget float64) []Candidate {
	out := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		if c.TotalCost <= budget {
			out = append(out, c)
		}
	}
	return out
}

// Generate produces all budget-feasible ordered combinations. An empty
// result is a normal outcome, not an error.
func Generate(slots []ResolvedSlot, budget float64, numberOfPeople int) []Candidate {
	return FilterByBudget(Combinations(slots, numberOfPeople), budget)
}
