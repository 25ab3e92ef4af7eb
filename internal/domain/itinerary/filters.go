package itinerary

// SlotFilters narrows a candidate pool beyond the base availability query.
// List filters pass when the venue shares at least one value; pointer fields
// are ignored when nil.
type SlotFilters struct {
	Kinds       []string `json:"kinds,omitempty"`
	Cuisines    []string `json:"cuisines,omitempty"`
	Venues      []string `json:"venues,omitempty"`
	Genres      []string `json:"genres,omitempty"`
	Languages   []string `json:"languages,omitempty"`
	Formats     []string `json:"formats,omitempty"`
	Cast        []string `json:"cast,omitempty"`
	Intensities []string `json:"intensities,omitempty"`

	Alcohol    *bool `json:"alcohol,omitempty"`
	Cafe       *bool `json:"cafe,omitempty"`
	Wifi       *bool `json:"wifi,omitempty"`
	Washroom   *bool `json:"washroom,omitempty"`
	Wheelchair *bool `json:"wheelchair,omitempty"`
	Parking    *bool `json:"parking,omitempty"`

	MinRating      *float64 `json:"rating,omitempty"`
	CrowdTolerance []string `json:"crowdTolerance,omitempty"`
}

// Matches reports whether the venue satisfies every set filter.
func (f SlotFilters) Matches(v Venue) bool {
	if !anyOverlap(f.Kinds, v.Attributes.Kinds) ||
		!anyOverlap(f.Cuisines, v.Attributes.Cuisines) ||
		!anyOverlap(f.Venues, v.Attributes.Venues) ||
		!anyOverlap(f.Genres, v.Attributes.Genres) ||
		!anyOverlap(f.Languages, v.Attributes.Languages) ||
		!anyOverlap(f.Formats, v.Attributes.Formats) ||
		!anyOverlap(f.Cast, v.Attributes.Cast) ||
		!anyOverlap(f.Intensities, v.Attributes.Intensities) {
		return false
	}

	if f.Alcohol != nil && v.Amenities.Alcohol != *f.Alcohol {
		return false
	}
	if f.Cafe != nil && v.Amenities.Cafe != *f.Cafe {
		return false
	}
	if f.Wifi != nil && v.Amenities.Wifi != *f.Wifi {
		return false
	}
	if f.Washroom != nil && v.Amenities.Washroom != *f.Washroom {
		return false
	}
	if f.Wheelchair != nil && v.Amenities.Wheelchair != *f.Wheelchair {
		return false
	}
	if f.Parking != nil && v.Amenities.Parking != *f.Parking {
		return false
	}

	if f.MinRating != nil && v.Rating < *f.MinRating {
		return false
	}
	if !anyOverlap(f.CrowdTolerance, v.CrowdLevels) {
		return false
	}

	return true
}

// anyOverlap is vacuously true when the filter list is empty.
func anyOverlap(filter, values []string) bool {
	if len(filter) == 0 {
		return true
	}
	for _, f := range filter {
		for _, v := range values {
			if f == v {
				return true
			}
		}
	}
	return false
}
