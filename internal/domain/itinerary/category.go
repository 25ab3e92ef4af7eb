package itinerary

import "fmt"

// Category identifies the kind of venue occupying an itinerary slot.
type Category string

const (
	CategoryDining   Category = "dining"
	CategoryEvent    Category = "event"
	CategoryActivity Category = "activity"
	CategoryMovie    Category = "movie"
	CategoryPlay     Category = "play"
)

// AllCategories lists every recognized category.
var AllCategories = []Category{
	CategoryDining,
	CategoryEvent,
	CategoryActivity,
	CategoryMovie,
	CategoryPlay,
}

// IsValid returns true if the category is recognized.
func (c Category) IsValid() bool {
	switch c {
	case CategoryDining, CategoryEvent, CategoryActivity, CategoryMovie, CategoryPlay:
		return true
	}
	return false
}

// String returns the string representation of the category.
func (c Category) String() string {
	return string(c)
}

// ParseCategory converts a string to a Category, returning an error if invalid.
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !c.IsValid() {
		return "", fmt.Errorf("invalid category: %s", s)
	}
	return c, nil
}
