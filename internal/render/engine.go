package render

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"marquee/internal/media"
	"marquee/internal/services"
)

var (
	unresolvedToken  = regexp.MustCompile(`\{[^}]+\}`)
	excessiveNewline = regexp.MustCompile(`\n{3,}`)
)

// Preferences carries the per-user strings substituted into {quality} and
// {audio}. Empty fields fall back to the engine defaults.
type Preferences struct {
	Quality string
	Audio   string
}

// Engine renders captions from metadata records.
type Engine struct {
	defaultQuality string
	defaultAudio   string
}

// NewEngine builds an Engine with the given fallback preference strings.
func NewEngine(defaultQuality, defaultAudio string) *Engine {
	return &Engine{defaultQuality: defaultQuality, defaultAudio: defaultAudio}
}

// Render produces the caption for a record. templateBody overrides the
// category default when non-empty. Output never contains unresolved {token}
// placeholders and is deterministic for identical inputs.
func (e *Engine) Render(rec *media.Record, templateBody string, prefs Preferences) string {
	body := templateBody
	if strings.TrimSpace(body) == "" {
		body = DefaultTemplate(rec.Category)
	}

	tokens := e.buildTokens(rec, prefs)
	// Single left-to-right pass over the template body. Substituted values are
	// never rescanned, so brace text inside metadata cannot expand as a token.
	// Unknown tokens resolve to the map zero value and disappear.
	result := unresolvedToken.ReplaceAllStringFunc(body, func(match string) string {
		return tokens[match[1:len(match)-1]]
	})
	// Brace text carried in by a value is data, not a token; strip it so the
	// output never contains placeholder-shaped substrings.
	result = unresolvedToken.ReplaceAllString(result, "")
	result = excessiveNewline.ReplaceAllString(result, "\n\n")
	return strings.TrimSpace(result)
}

// ValidateTemplate rejects template bodies that cannot render a usable
// caption. Bodies must reference {title}.
func ValidateTemplate(body string) error {
	if !strings.Contains(body, "{title}") {
		return services.Wrap(services.ErrTemplateInvalid, "render", "validate", "missing {title} token", nil)
	}
	return nil
}

func (e *Engine) buildTokens(rec *media.Record, prefs Preferences) map[string]string {
	quality := prefs.Quality
	if quality == "" {
		quality = e.defaultQuality
	}
	audio := prefs.Audio
	if audio == "" {
		audio = e.defaultAudio
	}

	title := rec.Title
	if title == "" {
		title = "Unknown"
	}

	tokens := map[string]string{
		"title":          title,
		"year":           rec.Year,
		"rating":         formatRating(rec),
		"imdb_rating":    formatScore(rec.Rating),
		"imdb_votes":     orNA(rec.Votes),
		"imdb_url":       rec.IMDbURL,
		"content_rating": orNA(rec.ContentRating),
		"box_office":     orNA(rec.BoxOffice),
		"awards":         orNA(rec.Awards),
		"metacritic":     orNA(rec.Metacritic),
		"genres":         rec.GenresJoined(),
		"quality":        quality,
		"audio":          audio,
		"hashtags":       Hashtags(title, rec.Category, rec.Genres),
	}

	switch rec.Category {
	case media.CategoryMovie:
		tokens["release_date"] = orNA(rec.ReleaseDate)
		tokens["overview"] = orNA(rec.Overview)
		tokens["runtime"] = formatRuntime(rec.RuntimeMinutes)
		tokens["status"] = orNA(rec.Status)
		tokens["tagline"] = rec.Tagline
		tokens["language"] = orNA(rec.Language)
	case media.CategorySeries:
		tokens["release_date"] = orNA(rec.ReleaseDate)
		tokens["overview"] = orNA(rec.Overview)
		tokens["status"] = orNA(rec.Status)
		tokens["seasons"] = orNAInt(rec.Seasons)
		tokens["episodes"] = orNAInt(rec.Episodes)
		tokens["network"] = orNA(rec.Network)
		tokens["language"] = orNA(rec.Language)
	case media.CategoryAnime:
		tokens["title_jp"] = rec.TitleJapanese
		tokens["synopsis"] = orNA(rec.Overview)
		tokens["status"] = orNA(rec.Status)
		tokens["episodes"] = intOr(rec.Episodes, "?")
		tokens["type"] = or(rec.Type, "TV")
		tokens["aired"] = orNA(rec.Aired)
		tokens["studio"] = orNA(rec.Studio)
		tokens["source"] = orNA(rec.Source)
		tokens["season"] = orNA(rec.Season)
	case media.CategoryComic:
		tokens["title_native"] = rec.TitleNative
		tokens["synopsis"] = orNA(rec.Overview)
		tokens["status"] = orNA(rec.Status)
		tokens["chapters"] = intOr(rec.Chapters, "Ongoing")
		tokens["volumes"] = orNAInt(rec.Volumes)
		tokens["type"] = or(rec.Type, "MANHWA")
		tokens["published"] = orNA(rec.Published)
	}

	return tokens
}

// formatRating renders the {rating} token per category: integer percent for
// anime and comics, one-decimal score for movies and series.
func formatRating(rec *media.Record) string {
	if rec.Rating <= 0 {
		return "N/A"
	}
	if rec.Category.UsesPercentRating() {
		return fmt.Sprintf("%d%%", int(rec.Rating+0.5))
	}
	return formatScore(rec.Rating)
}

func formatScore(rating float64) string {
	if rating <= 0 {
		return "N/A"
	}
	return strconv.FormatFloat(rating, 'f', 1, 64)
}

func formatRuntime(minutes int) string {
	if minutes <= 0 {
		return "N/A"
	}
	hours := minutes / 60
	mins := minutes % 60
	if hours == 0 {
		return fmt.Sprintf("%dm", mins)
	}
	return fmt.Sprintf("%dh %dm", hours, mins)
}

func orNA(value string) string {
	return or(value, "N/A")
}

func orNAInt(value int) string {
	return intOr(value, "N/A")
}

func intOr(value int, fallback string) string {
	if value <= 0 {
		return fallback
	}
	return strconv.Itoa(value)
}

func or(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
