package media

import "strings"

// Slim is the minimal search-result summary used for listing.
type Slim struct {
	ID        int64   `json:"id"`
	Title     string  `json:"title"`
	Year      string  `json:"year,omitempty"`
	PosterURL string  `json:"posterUrl,omitempty"`
	Rating    float64 `json:"rating,omitempty"`
}

// Record is the full metadata for a selected item. Shared fields are always
// populated; category extras are additive and left zero for other categories.
// Percent-rated categories (anime, comic) store the integer percentage in
// Rating.
type Record struct {
	ID          int64    `json:"id"`
	Category    Category `json:"category"`
	Title       string   `json:"title"`
	Year        string   `json:"year,omitempty"`
	PosterURL   string   `json:"posterUrl,omitempty"`
	BackdropURL string   `json:"backdropUrl,omitempty"`
	Rating      float64  `json:"rating,omitempty"`
	Genres      []string `json:"genres,omitempty"`
	Overview    string   `json:"overview,omitempty"`

	// Movie / series
	ReleaseDate    string `json:"releaseDate,omitempty"`
	RuntimeMinutes int    `json:"runtimeMinutes,omitempty"`
	Status         string `json:"status,omitempty"`
	Tagline        string `json:"tagline,omitempty"`
	Language       string `json:"language,omitempty"`
	Seasons        int    `json:"seasons,omitempty"`
	Episodes       int    `json:"episodes,omitempty"`
	Network        string `json:"network,omitempty"`

	// Anime
	TitleJapanese string `json:"titleJapanese,omitempty"`
	Type          string `json:"type,omitempty"`
	Aired         string `json:"aired,omitempty"`
	Studio        string `json:"studio,omitempty"`
	Source        string `json:"source,omitempty"`
	Season        string `json:"season,omitempty"`

	// Comic
	TitleNative string `json:"titleNative,omitempty"`
	Chapters    int    `json:"chapters,omitempty"`
	Volumes     int    `json:"volumes,omitempty"`
	Published   string `json:"published,omitempty"`

	// Rating enrichment (movie/series, optional)
	RatingSource  string `json:"ratingSource,omitempty"`
	Votes         string `json:"votes,omitempty"`
	IMDbID        string `json:"imdbId,omitempty"`
	IMDbURL       string `json:"imdbUrl,omitempty"`
	ContentRating string `json:"contentRating,omitempty"`
	BoxOffice     string `json:"boxOffice,omitempty"`
	Awards        string `json:"awards,omitempty"`
	Metacritic    string `json:"metacritic,omitempty"`
}

// GenresJoined returns the genre list as a comma-separated display string.
func (r *Record) GenresJoined() string {
	if r == nil || len(r.Genres) == 0 {
		return ""
	}
	return strings.Join(r.Genres, ", ")
}

// SplitGenres converts a comma-separated genre string into an ordered list,
// dropping empty entries.
func SplitGenres(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
