package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"marquee/internal/media"
)

// jikanRetryDelay is the wait before the single retry after a 429.
var jikanRetryDelay = 2 * time.Second

// JikanClient looks up anime via the Jikan v4 API (MyAnimeList data, no key
// required). A rate-limit response is retried once after a short wait.
type JikanClient struct {
	baseURL    string
	maxResults int
	httpClient *http.Client
	logger     *slog.Logger
}

// NewJikanClient creates a Jikan client.
func NewJikanClient(baseURL string, maxResults int, logger *slog.Logger) (*JikanClient, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("jikan base url required")
	}
	if maxResults <= 0 {
		maxResults = 5
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &JikanClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		maxResults: maxResults,
		httpClient: &http.Client{Timeout: 12 * time.Second},
		logger:     logger,
	}, nil
}

type jikanImages struct {
	JPG struct {
		LargeImageURL string `json:"large_image_url"`
	} `json:"jpg"`
}

type jikanNamed struct {
	Name string `json:"name"`
}

type jikanAnime struct {
	MalID         int64        `json:"mal_id"`
	Title         string       `json:"title"`
	TitleEnglish  string       `json:"title_english"`
	TitleJapanese string       `json:"title_japanese"`
	Year          int          `json:"year"`
	Images        jikanImages  `json:"images"`
	Score         float64      `json:"score"`
	Genres        []jikanNamed `json:"genres"`
	Themes        []jikanNamed `json:"themes"`
	Synopsis      string       `json:"synopsis"`
	Status        string       `json:"status"`
	Episodes      int          `json:"episodes"`
	Type          string       `json:"type"`
	Aired         struct {
		String string `json:"string"`
	} `json:"aired"`
	Studios []jikanNamed `json:"studios"`
	Source  string       `json:"source"`
	Season  string       `json:"season"`
}

type jikanListResponse struct {
	Data []jikanAnime `json:"data"`
}

type jikanDetailResponse struct {
	Data jikanAnime `json:"data"`
}

func (c *JikanClient) get(ctx context.Context, path string, params url.Values, out any) error {
	endpoint, err := url.Parse(c.baseURL + path)
	if err != nil {
		return fmt.Errorf("parse jikan url: %w", err)
	}
	endpoint.RawQuery = params.Encode()

	resp, latency, err := c.do(ctx, endpoint.String())
	if err != nil {
		return err
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		resp.Body.Close()
		c.logger.Warn("jikan rate limited, retrying once", "path", path)
		select {
		case <-time.After(jikanRetryDelay):
		case <-ctx.Done():
			return ctx.Err()
		}
		resp, latency, err = c.do(ctx, endpoint.String())
		if err != nil {
			return err
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("jikan %s returned %d (latency=%v)", path, resp.StatusCode, latency)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode jikan response: %w", err)
	}
	return nil
}

func (c *JikanClient) do(ctx context.Context, rawURL string) (*http.Response, time.Duration, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("build request: %w", err)
	}
	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return nil, latency, fmt.Errorf("execute request (latency=%v): %w", latency, err)
	}
	return resp, latency, nil
}

// Search finds anime matching the query.
func (c *JikanClient) Search(ctx context.Context, query string) ([]media.Slim, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.New("query must not be empty")
	}
	params := url.Values{}
	params.Set("q", query)
	params.Set("limit", strconv.Itoa(c.maxResults))

	var payload jikanListResponse
	if err := c.get(ctx, "/anime", params, &payload); err != nil {
		return nil, err
	}

	out := make([]media.Slim, 0, len(payload.Data))
	for _, r := range payload.Data {
		if len(out) == c.maxResults {
			break
		}
		out = append(out, media.Slim{
			ID:        r.MalID,
			Title:     animeTitle(r),
			Year:      intYear(r.Year),
			PosterURL: r.Images.JPG.LargeImageURL,
			Rating:    percentScore(r.Score),
		})
	}
	return out, nil
}

// Detail fetches the full anime record by MyAnimeList ID.
func (c *JikanClient) Detail(ctx context.Context, id int64) (*media.Record, error) {
	if id <= 0 {
		return nil, errors.New("anime id must be positive")
	}
	var payload jikanDetailResponse
	if err := c.get(ctx, fmt.Sprintf("/anime/%d/full", id), url.Values{}, &payload); err != nil {
		return nil, err
	}
	r := payload.Data
	if r.MalID == 0 {
		return nil, fmt.Errorf("anime %d not found", id)
	}

	genres := namedList(r.Genres)
	genres = append(genres, namedList(r.Themes)...)

	return &media.Record{
		ID:            r.MalID,
		Category:      media.CategoryAnime,
		Title:         animeTitle(r),
		TitleJapanese: r.TitleJapanese,
		Year:          intYear(r.Year),
		PosterURL:     r.Images.JPG.LargeImageURL,
		Rating:        percentScore(r.Score),
		Genres:        genres,
		Overview:      orSynopsis(r.Synopsis),
		Status:        r.Status,
		Episodes:      r.Episodes,
		Type:          r.Type,
		Aired:         r.Aired.String,
		Studio:        strings.Join(namedList(r.Studios), ", "),
		Source:        r.Source,
		Season:        capitalize(r.Season),
	}, nil
}

func animeTitle(r jikanAnime) string {
	if r.TitleEnglish != "" {
		return r.TitleEnglish
	}
	return orUnknown(r.Title)
}

// percentScore converts a 0-10 MAL score to the integer percent the anime
// templates render.
func percentScore(score float64) float64 {
	return math.Round(score * 10)
}

func intYear(year int) string {
	if year <= 0 {
		return ""
	}
	return strconv.Itoa(year)
}

func namedList(items []jikanNamed) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item.Name != "" {
			out = append(out, item.Name)
		}
	}
	return out
}

func capitalize(value string) string {
	if value == "" {
		return ""
	}
	return strings.ToUpper(value[:1]) + value[1:]
}
