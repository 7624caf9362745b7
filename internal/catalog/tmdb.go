package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"marquee/internal/media"
)

// TMDBOptions configures a TMDBClient.
type TMDBOptions struct {
	BaseURL         string
	APIKey          string
	Language        string
	ImageBaseURL    string
	BackdropBaseURL string
	MaxResults      int
	Enricher        *OMDBClient
	HTTPClient      *http.Client
	Logger          *slog.Logger
}

// TMDBClient provides access to The Movie Database API for movie and series
// lookups.
type TMDBClient struct {
	baseURL         string
	apiKey          string
	language        string
	imageBaseURL    string
	backdropBaseURL string
	maxResults      int
	enricher        *OMDBClient
	httpClient      *http.Client
	logger          *slog.Logger
}

// NewTMDBClient creates a TMDB client.
func NewTMDBClient(opts TMDBOptions) (*TMDBClient, error) {
	apiKey := strings.TrimSpace(opts.APIKey)
	if apiKey == "" {
		return nil, errors.New("tmdb api key required")
	}
	baseURL := strings.TrimSpace(opts.BaseURL)
	if baseURL == "" {
		return nil, errors.New("tmdb base url required")
	}
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = 5
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &TMDBClient{
		baseURL:         strings.TrimRight(baseURL, "/"),
		apiKey:          apiKey,
		language:        strings.TrimSpace(opts.Language),
		imageBaseURL:    strings.TrimSpace(opts.ImageBaseURL),
		backdropBaseURL: strings.TrimSpace(opts.BackdropBaseURL),
		maxResults:      maxResults,
		enricher:        opts.Enricher,
		httpClient:      httpClient,
		logger:          logger,
	}, nil
}

type tmdbSearchResult struct {
	ID           int64   `json:"id"`
	Title        string  `json:"title"`
	Name         string  `json:"name"`
	ReleaseDate  string  `json:"release_date"`
	FirstAirDate string  `json:"first_air_date"`
	PosterPath   string  `json:"poster_path"`
	VoteAverage  float64 `json:"vote_average"`
}

type tmdbSearchResponse struct {
	Results []tmdbSearchResult `json:"results"`
}

type tmdbGenre struct {
	Name string `json:"name"`
}

type tmdbNetwork struct {
	Name string `json:"name"`
}

type tmdbExternalIDs struct {
	IMDbID string `json:"imdb_id"`
}

type tmdbDetail struct {
	ID               int64           `json:"id"`
	Title            string          `json:"title"`
	Name             string          `json:"name"`
	ReleaseDate      string          `json:"release_date"`
	FirstAirDate     string          `json:"first_air_date"`
	PosterPath       string          `json:"poster_path"`
	BackdropPath     string          `json:"backdrop_path"`
	VoteAverage      float64         `json:"vote_average"`
	Genres           []tmdbGenre     `json:"genres"`
	Overview         string          `json:"overview"`
	Runtime          int             `json:"runtime"`
	Status           string          `json:"status"`
	Tagline          string          `json:"tagline"`
	OriginalLanguage string          `json:"original_language"`
	NumberOfSeasons  int             `json:"number_of_seasons"`
	NumberOfEpisodes int             `json:"number_of_episodes"`
	Networks         []tmdbNetwork   `json:"networks"`
	IMDbID           string          `json:"imdb_id"`
	ExternalIDs      tmdbExternalIDs `json:"external_ids"`
}

func (c *TMDBClient) get(ctx context.Context, path string, extra url.Values, out any) error {
	endpoint, err := url.Parse(c.baseURL + path)
	if err != nil {
		return fmt.Errorf("parse tmdb url: %w", err)
	}
	params := url.Values{}
	params.Set("api_key", c.apiKey)
	if c.language != "" {
		params.Set("language", c.language)
	}
	for key, values := range extra {
		for _, value := range values {
			params.Add(key, value)
		}
	}
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return fmt.Errorf("execute request (latency=%v): %w", latency, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("tmdb %s returned %d (latency=%v)", path, resp.StatusCode, latency)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode tmdb response: %w", err)
	}
	return nil
}

// SearchMovies searches TMDB movies for the supplied title.
func (c *TMDBClient) SearchMovies(ctx context.Context, query string) ([]media.Slim, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.New("query must not be empty")
	}
	var payload tmdbSearchResponse
	params := url.Values{}
	params.Set("query", query)
	if err := c.get(ctx, "/search/movie", params, &payload); err != nil {
		return nil, err
	}
	return c.slimResults(payload.Results, false), nil
}

// SearchSeries searches TMDB TV shows for the supplied title.
func (c *TMDBClient) SearchSeries(ctx context.Context, query string) ([]media.Slim, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.New("query must not be empty")
	}
	var payload tmdbSearchResponse
	params := url.Values{}
	params.Set("query", query)
	if err := c.get(ctx, "/search/tv", params, &payload); err != nil {
		return nil, err
	}
	return c.slimResults(payload.Results, true), nil
}

func (c *TMDBClient) slimResults(results []tmdbSearchResult, tv bool) []media.Slim {
	if len(results) > c.maxResults {
		results = results[:c.maxResults]
	}
	out := make([]media.Slim, 0, len(results))
	for _, r := range results {
		title, date := r.Title, r.ReleaseDate
		if tv {
			title, date = r.Name, r.FirstAirDate
		}
		if title == "" {
			title = "Unknown"
		}
		out = append(out, media.Slim{
			ID:        r.ID,
			Title:     title,
			Year:      yearOf(date),
			PosterURL: c.posterURL(r.PosterPath),
			Rating:    r.VoteAverage,
		})
	}
	return out
}

// MovieDetail fetches full movie metadata by TMDB ID, enriched with IMDb
// data when an enricher is configured.
func (c *TMDBClient) MovieDetail(ctx context.Context, movieID int64) (*media.Record, error) {
	if movieID <= 0 {
		return nil, errors.New("movie id must be positive")
	}
	var payload tmdbDetail
	params := url.Values{}
	params.Set("append_to_response", "credits,videos,release_dates,external_ids")
	if err := c.get(ctx, fmt.Sprintf("/movie/%d", movieID), params, &payload); err != nil {
		return nil, err
	}

	rec := &media.Record{
		ID:             payload.ID,
		Category:       media.CategoryMovie,
		Title:          orUnknown(payload.Title),
		Year:           yearOf(payload.ReleaseDate),
		PosterURL:      c.posterURL(payload.PosterPath),
		BackdropURL:    c.backdropURL(payload.BackdropPath),
		Rating:         payload.VoteAverage,
		RatingSource:   "TMDb",
		Genres:         genreNames(payload.Genres),
		Overview:       orSynopsis(payload.Overview),
		ReleaseDate:    payload.ReleaseDate,
		RuntimeMinutes: payload.Runtime,
		Status:         payload.Status,
		Tagline:        payload.Tagline,
		Language:       strings.ToUpper(payload.OriginalLanguage),
	}
	rec.IMDbID = firstNonEmpty(payload.IMDbID, payload.ExternalIDs.IMDbID)
	if rec.IMDbID != "" {
		rec.IMDbURL = fmt.Sprintf("https://www.imdb.com/title/%s/", rec.IMDbID)
	}

	c.enrich(ctx, rec)
	return rec, nil
}

// SeriesDetail fetches full TV show metadata by TMDB ID.
func (c *TMDBClient) SeriesDetail(ctx context.Context, showID int64) (*media.Record, error) {
	if showID <= 0 {
		return nil, errors.New("show id must be positive")
	}
	var payload tmdbDetail
	params := url.Values{}
	params.Set("append_to_response", "credits,content_ratings,external_ids")
	if err := c.get(ctx, fmt.Sprintf("/tv/%d", showID), params, &payload); err != nil {
		return nil, err
	}

	rec := &media.Record{
		ID:           payload.ID,
		Category:     media.CategorySeries,
		Title:        orUnknown(payload.Name),
		Year:         yearOf(payload.FirstAirDate),
		PosterURL:    c.posterURL(payload.PosterPath),
		BackdropURL:  c.backdropURL(payload.BackdropPath),
		Rating:       payload.VoteAverage,
		RatingSource: "TMDb",
		Genres:       genreNames(payload.Genres),
		Overview:     orSynopsis(payload.Overview),
		ReleaseDate:  payload.FirstAirDate,
		Status:       payload.Status,
		Seasons:      payload.NumberOfSeasons,
		Episodes:     payload.NumberOfEpisodes,
		Network:      networkNames(payload.Networks),
		Language:     strings.ToUpper(payload.OriginalLanguage),
	}
	rec.IMDbID = payload.ExternalIDs.IMDbID
	if rec.IMDbID != "" {
		rec.IMDbURL = fmt.Sprintf("https://www.imdb.com/title/%s/", rec.IMDbID)
	}

	c.enrich(ctx, rec)
	return rec, nil
}

// enrich merges IMDb data into a record. Enrichment failures are logged and
// never fail the lookup.
func (c *TMDBClient) enrich(ctx context.Context, rec *media.Record) {
	if c.enricher == nil {
		return
	}
	if err := c.enricher.Enrich(ctx, rec); err != nil {
		c.logger.Warn("imdb enrichment failed", "title", rec.Title, "error", err)
	}
}

func (c *TMDBClient) posterURL(path string) string {
	if path == "" {
		return ""
	}
	return c.imageBaseURL + path
}

func (c *TMDBClient) backdropURL(path string) string {
	if path == "" {
		return ""
	}
	return c.backdropBaseURL + path
}

// movieProvider and seriesProvider adapt the shared TMDB client to the
// per-category Provider interface.
type movieProvider struct {
	client *TMDBClient
}

func (p *movieProvider) Search(ctx context.Context, query string) ([]media.Slim, error) {
	return p.client.SearchMovies(ctx, query)
}

func (p *movieProvider) Detail(ctx context.Context, id int64) (*media.Record, error) {
	return p.client.MovieDetail(ctx, id)
}

type seriesProvider struct {
	client *TMDBClient
}

func (p *seriesProvider) Search(ctx context.Context, query string) ([]media.Slim, error) {
	return p.client.SearchSeries(ctx, query)
}

func (p *seriesProvider) Detail(ctx context.Context, id int64) (*media.Record, error) {
	return p.client.SeriesDetail(ctx, id)
}

func yearOf(date string) string {
	if len(date) >= 4 {
		return date[:4]
	}
	return ""
}

func orUnknown(title string) string {
	if strings.TrimSpace(title) == "" {
		return "Unknown"
	}
	return title
}

func orSynopsis(overview string) string {
	if strings.TrimSpace(overview) == "" {
		return "No synopsis available."
	}
	return overview
}

func genreNames(genres []tmdbGenre) []string {
	out := make([]string, 0, len(genres))
	for _, g := range genres {
		if g.Name != "" {
			out = append(out, g.Name)
		}
	}
	return out
}

func networkNames(networks []tmdbNetwork) string {
	names := make([]string, 0, len(networks))
	for _, n := range networks {
		if n.Name != "" {
			names = append(names, n.Name)
		}
	}
	return strings.Join(names, ", ")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
