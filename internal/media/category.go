package media

import "strings"

// Category identifies one of the supported content kinds.
type Category string

const (
	CategoryMovie  Category = "movie"
	CategorySeries Category = "series"
	CategoryAnime  Category = "anime"
	CategoryComic  Category = "comic"
)

var allCategories = []Category{
	CategoryMovie,
	CategorySeries,
	CategoryAnime,
	CategoryComic,
}

// Categories returns the ordered list of supported categories.
func Categories() []Category {
	cp := make([]Category, len(allCategories))
	copy(cp, allCategories)
	return cp
}

// ParseCategory converts a string into a known Category.
func ParseCategory(value string) (Category, bool) {
	normalized := Category(strings.ToLower(strings.TrimSpace(value)))
	switch normalized {
	case CategoryMovie, CategorySeries, CategoryAnime, CategoryComic:
		return normalized, true
	default:
		return "", false
	}
}

// Tag returns the fixed hashtag appended to every post of this category.
func (c Category) Tag() string {
	switch c {
	case CategoryMovie:
		return "#Movie"
	case CategorySeries:
		return "#TVShow"
	case CategoryAnime:
		return "#Anime"
	case CategoryComic:
		return "#Manhwa"
	default:
		return ""
	}
}

// DisplayName returns the human-readable category label.
func (c Category) DisplayName() string {
	switch c {
	case CategoryMovie:
		return "Movie"
	case CategorySeries:
		return "TV Show"
	case CategoryAnime:
		return "Anime"
	case CategoryComic:
		return "Manhwa"
	default:
		return string(c)
	}
}

// ExampleQuery returns a sample search shown in command usage hints.
func (c Category) ExampleQuery() string {
	switch c {
	case CategoryMovie:
		return "Inception"
	case CategorySeries:
		return "Breaking Bad"
	case CategoryAnime:
		return "Attack on Titan"
	case CategoryComic:
		return "Solo Leveling"
	default:
		return "title"
	}
}

// UsesPercentRating reports whether the category expresses ratings as an
// integer percentage rather than a 0-10 score.
func (c Category) UsesPercentRating() bool {
	return c == CategoryAnime || c == CategoryComic
}
