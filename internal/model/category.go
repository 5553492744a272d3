package model

import "strings"

type Category string

const (
	CategoryWork      Category = "work"
	CategoryPersonal  Category = "personal"
	CategoryProject   Category = "project"
	CategoryRecurring Category = "recurring"
	CategoryMeeting   Category = "meeting"
	CategoryFocus     Category = "focus"
	CategoryHealth    Category = "health"
	CategoryOther     Category = "other"
)

var categoryColors = map[Category]string{
	CategoryWork:      "#3b82f6",
	CategoryPersonal:  "#22c55e",
	CategoryProject:   "#a855f7",
	CategoryRecurring: "#f59e0b",
	CategoryMeeting:   "#ef4444",
	CategoryFocus:     "#06b6d4",
	CategoryHealth:    "#ec4899",
	CategoryOther:     "#6b7280",
}

// Categories lists the known categories in display order.
func Categories() []Category {
	return []Category{
		CategoryWork, CategoryPersonal, CategoryProject, CategoryRecurring,
		CategoryMeeting, CategoryFocus, CategoryHealth, CategoryOther,
	}
}

func (c Category) IsKnown() bool {
	_, ok := categoryColors[c]
	return ok
}

// ColorFor derives an event colour from its category label. Matching is
// case-insensitive; anything unknown gets the "other" colour.
func ColorFor(category string) string {
	c := Category(strings.ToLower(strings.TrimSpace(category)))
	if color, ok := categoryColors[c]; ok {
		return color
	}
	return categoryColors[CategoryOther]
}

// DefaultCategoryFor is the category given to events scheduled from a source
// task that carries no category label of its own.
func DefaultCategoryFor(s Source) Category {
	switch s {
	case SourceWork:
		return CategoryWork
	case SourcePersonal:
		return CategoryPersonal
	case SourceProject:
		return CategoryProject
	case SourceRecurring:
		return CategoryRecurring
	default:
		return CategoryOther
	}
}
