package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"marquee/internal/media"
)

// OMDBClient enriches movie and series records with IMDb ratings, votes,
// box office, and awards via the OMDb API.
type OMDBClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewOMDBClient creates an OMDb client.
func NewOMDBClient(baseURL, apiKey string, logger *slog.Logger) (*OMDBClient, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("omdb api key required")
	}
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("omdb base url required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &OMDBClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 8 * time.Second},
		logger:     logger,
	}, nil
}

type omdbRating struct {
	Source string `json:"Source"`
	Value  string `json:"Value"`
}

type omdbResponse struct {
	Response   string       `json:"Response"`
	IMDbID     string       `json:"imdbID"`
	IMDbRating string       `json:"imdbRating"`
	IMDbVotes  string       `json:"imdbVotes"`
	Rated      string       `json:"Rated"`
	BoxOffice  string       `json:"BoxOffice"`
	Awards     string       `json:"Awards"`
	Ratings    []omdbRating `json:"Ratings"`
}

// Enrich merges IMDb data into rec. Lookups go by IMDb ID when known, else
// by title and year. A failed or empty lookup leaves rec unchanged.
func (c *OMDBClient) Enrich(ctx context.Context, rec *media.Record) error {
	params := url.Values{}
	params.Set("plot", "short")
	if rec.IMDbID != "" {
		params.Set("i", rec.IMDbID)
	} else {
		if rec.Title == "" {
			return nil
		}
		params.Set("t", rec.Title)
		if rec.Year != "" {
			params.Set("y", rec.Year)
		}
	}

	payload, err := c.get(ctx, params)
	if err != nil {
		return err
	}
	if payload == nil {
		return nil
	}

	if rating, err := strconv.ParseFloat(payload.IMDbRating, 64); err == nil && rating > 0 {
		rec.Rating = rating
		rec.RatingSource = "IMDb"
	}
	if payload.IMDbID != "" {
		rec.IMDbID = payload.IMDbID
		rec.IMDbURL = fmt.Sprintf("https://www.imdb.com/title/%s/", payload.IMDbID)
	}
	if v := cleanNA(payload.IMDbVotes); v != "" {
		rec.Votes = v
	}
	if v := cleanNA(payload.Rated); v != "" {
		rec.ContentRating = v
	}
	if v := cleanNA(payload.BoxOffice); v != "" {
		rec.BoxOffice = v
	}
	if v := cleanNA(payload.Awards); v != "" {
		rec.Awards = v
	}
	for _, r := range payload.Ratings {
		if strings.Contains(r.Source, "Metacritic") {
			rec.Metacritic = strings.TrimSuffix(r.Value, "/100")
		}
	}
	return nil
}

func (c *OMDBClient) get(ctx context.Context, params url.Values) (*omdbResponse, error) {
	endpoint, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse omdb url: %w", err)
	}
	params.Set("apikey", c.apiKey)
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return nil, fmt.Errorf("execute request (latency=%v): %w", latency, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("omdb returned %d (latency=%v)", resp.StatusCode, latency)
	}

	var payload omdbResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode omdb response: %w", err)
	}
	if payload.Response != "True" {
		return nil, nil
	}
	return &payload, nil
}

func cleanNA(value string) string {
	value = strings.TrimSpace(value)
	if value == "" || value == "N/A" {
		return ""
	}
	return value
}
