package itinerary

import (
	"strconv"

	"github.com/google/uuid"
)

// Location is a WGS84 coordinate pair. Two locations are the same stop only
// when both coordinates match exactly; no tolerance or clustering is applied.
type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Key returns the exact-coordinate identity used for deduplication.
func (l Location) Key() string {
	return strconv.FormatFloat(l.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(l.Lng, 'f', -1, 64)
}

// Amenities are the boolean venue facilities used by filtering and scoring.
type Amenities struct {
	Wifi       bool `json:"wifi"`
	Washroom   bool `json:"washroom"`
	Wheelchair bool `json:"wheelchair"`
	Parking    bool `json:"parking"`
	Cafe       bool `json:"cafe"`
	Alcohol    bool `json:"alcohol"`
}

// Attributes hold the category-specific descriptors of a venue. Only the
// lists relevant to the venue's category are populated; the rest stay empty.
type Attributes struct {
	Kinds       []string `json:"kinds,omitempty"`       // e.g. cafe/restaurant, concert/exhibition
	Cuisines    []string `json:"cuisines,omitempty"`    // dining
	Venues      []string `json:"venues,omitempty"`      // event/activity/play venue kinds
	Genres      []string `json:"genres,omitempty"`      // movie
	Languages   []string `json:"languages,omitempty"`   // movie
	Formats     []string `json:"formats,omitempty"`     // movie (2D/3D/IMAX)
	Cast        []string `json:"cast,omitempty"`        // movie
	Intensities []string `json:"intensities,omitempty"` // activity/play
}

// Venue is a bookable catalog record: a restaurant, showing, event, activity
// or play that can occupy one itinerary slot.
type Venue struct {
	ID              uuid.UUID `json:"id"`
	Category        Category  `json:"category"`
	Name            string    `json:"name"`
	Location        Location  `json:"location"`
	PricePerPerson  float64   `json:"pricePerPerson"`
	DurationMinutes float64   `json:"duration"`
	MinPeople       int       `json:"minPeople"`
	MaxPeople       int       `json:"maxPeople"`
	// Operating window in fractional hours on a 24-hour scale.
	AvailableTimeStart float64    `json:"availableTimeStart"`
	AvailableTimeEnd   float64    `json:"availableTimeEnd"`
	Rating             float64    `json:"rating"`
	Tags               []string   `json:"tags,omitempty"`
	Amenities          Amenities  `json:"amenities"`
	Attributes         Attributes `json:"attributes"`
	CrowdLevels        []string   `json:"crowdLevels,omitempty"`
}

// OperatingWindow returns the venue's operating hours, applying the default
// full-day window when the record carries none.
func (v Venue) OperatingWindow() (start, end float64) {
	start = v.AvailableTimeStart
	end = v.AvailableTimeEnd
	if end == 0 {
		end = 24
	}
	return start, end
}
