package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"marquee/internal/media"
)

const anilistSearchQuery = `
query ($search: String, $type: MediaType, $format: MediaFormat, $perPage: Int) {
  Page(perPage: $perPage) {
    media(search: $search, type: $type, format: $format, sort: POPULARITY_DESC) {
      id
      title { romaji english native }
      coverImage { extraLarge }
      averageScore
      startDate { year }
    }
  }
}`

const anilistDetailQuery = `
query ($id: Int) {
  Media(id: $id, type: MANGA) {
    id
    title { romaji english native }
    coverImage { extraLarge }
    bannerImage
    averageScore
    status
    genres
    chapters
    volumes
    startDate { year }
    endDate { year }
    description(asHtml: false)
    format
    countryOfOrigin
  }
}`

var (
	htmlTag       = regexp.MustCompile(`<[^>]+>`)
	statusCaser   = cases.Title(language.English)
	anilistOrigin = map[string]string{"KR": "MANHWA", "JP": "MANGA", "CN": "MANHUA"}
)

// AniListClient looks up comics (manhwa, manga, manhua) via the AniList
// GraphQL API. Searches prefer the MANHWA format and widen to all MANGA when
// nothing matches.
type AniListClient struct {
	url        string
	maxResults int
	httpClient *http.Client
	logger     *slog.Logger
}

// NewAniListClient creates an AniList client.
func NewAniListClient(endpoint string, maxResults int, logger *slog.Logger) (*AniListClient, error) {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return nil, errors.New("anilist url required")
	}
	if maxResults <= 0 {
		maxResults = 5
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AniListClient{
		url:        endpoint,
		maxResults: maxResults,
		httpClient: &http.Client{Timeout: 12 * time.Second},
		logger:     logger,
	}, nil
}

type anilistTitle struct {
	Romaji  string `json:"romaji"`
	English string `json:"english"`
	Native  string `json:"native"`
}

type anilistDate struct {
	Year int `json:"year"`
}

type anilistMedia struct {
	ID         int64        `json:"id"`
	Title      anilistTitle `json:"title"`
	CoverImage struct {
		ExtraLarge string `json:"extraLarge"`
	} `json:"coverImage"`
	BannerImage     string      `json:"bannerImage"`
	AverageScore    float64     `json:"averageScore"`
	Status          string      `json:"status"`
	Genres          []string    `json:"genres"`
	Chapters        int         `json:"chapters"`
	Volumes         int         `json:"volumes"`
	StartDate       anilistDate `json:"startDate"`
	EndDate         anilistDate `json:"endDate"`
	Description     string      `json:"description"`
	Format          string      `json:"format"`
	CountryOfOrigin string      `json:"countryOfOrigin"`
}

type anilistResponse struct {
	Data struct {
		Page struct {
			Media []anilistMedia `json:"media"`
		} `json:"Page"`
		Media *anilistMedia `json:"Media"`
	} `json:"data"`
}

func (c *AniListClient) query(ctx context.Context, query string, variables map[string]any) (*anilistResponse, error) {
	body, err := json.Marshal(map[string]any{"query": query, "variables": variables})
	if err != nil {
		return nil, fmt.Errorf("encode graphql request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return nil, fmt.Errorf("execute request (latency=%v): %w", latency, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("anilist returned %d (latency=%v)", resp.StatusCode, latency)
	}

	var payload anilistResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode anilist response: %w", err)
	}
	return &payload, nil
}

// Search finds comics matching the query, preferring the MANHWA format.
func (c *AniListClient) Search(ctx context.Context, query string) ([]media.Slim, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.New("query must not be empty")
	}

	variables := map[string]any{
		"search": query, "type": "MANGA", "format": "MANHWA", "perPage": c.maxResults,
	}
	payload, err := c.query(ctx, anilistSearchQuery, variables)
	if err != nil {
		return nil, err
	}
	results := payload.Data.Page.Media

	if len(results) == 0 {
		delete(variables, "format")
		payload, err = c.query(ctx, anilistSearchQuery, variables)
		if err != nil {
			return nil, err
		}
		results = payload.Data.Page.Media
	}

	if len(results) > c.maxResults {
		results = results[:c.maxResults]
	}
	out := make([]media.Slim, 0, len(results))
	for _, r := range results {
		out = append(out, media.Slim{
			ID:        r.ID,
			Title:     comicTitle(r.Title),
			Year:      intYear(r.StartDate.Year),
			PosterURL: r.CoverImage.ExtraLarge,
			Rating:    r.AverageScore,
		})
	}
	return out, nil
}

// Detail fetches the full comic record by AniList ID.
func (c *AniListClient) Detail(ctx context.Context, id int64) (*media.Record, error) {
	if id <= 0 {
		return nil, errors.New("comic id must be positive")
	}
	payload, err := c.query(ctx, anilistDetailQuery, map[string]any{"id": id})
	if err != nil {
		return nil, err
	}
	r := payload.Data.Media
	if r == nil {
		return nil, fmt.Errorf("comic %d not found", id)
	}

	mediaType := anilistOrigin[r.CountryOfOrigin]
	if mediaType == "" {
		mediaType = r.Format
	}

	return &media.Record{
		ID:          r.ID,
		Category:    media.CategoryComic,
		Title:       comicTitle(r.Title),
		TitleNative: r.Title.Native,
		Year:        intYear(r.StartDate.Year),
		PosterURL:   r.CoverImage.ExtraLarge,
		BackdropURL: r.BannerImage,
		Rating:      r.AverageScore,
		Genres:      r.Genres,
		Overview:    cleanDescription(r.Description),
		Status:      statusCaser.String(strings.ReplaceAll(r.Status, "_", " ")),
		Chapters:    r.Chapters,
		Volumes:     r.Volumes,
		Published:   publishedRange(r.StartDate.Year, r.EndDate.Year),
		Type:        mediaType,
	}, nil
}

func comicTitle(title anilistTitle) string {
	if title.English != "" {
		return title.English
	}
	return orUnknown(title.Romaji)
}

// cleanDescription strips AniList's HTML-ish markup from descriptions.
func cleanDescription(description string) string {
	description = htmlTag.ReplaceAllString(description, "")
	description = excessiveBlankLines.ReplaceAllString(description, "\n\n")
	return orSynopsis(strings.TrimSpace(description))
}

var excessiveBlankLines = regexp.MustCompile(`\n{3,}`)

func publishedRange(startYear, endYear int) string {
	if startYear <= 0 {
		return "N/A"
	}
	if endYear > 0 {
		return fmt.Sprintf("%d–%d", startYear, endYear)
	}
	return strconv.Itoa(startYear)
}
