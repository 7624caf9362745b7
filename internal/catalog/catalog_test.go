package catalog_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"marquee/internal/catalog"
	"marquee/internal/media"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTMDB(t *testing.T, serverURL string, enricher *catalog.OMDBClient) *catalog.TMDBClient {
	t.Helper()
	client, err := catalog.NewTMDBClient(catalog.TMDBOptions{
		BaseURL:         serverURL,
		APIKey:          "test-key",
		Language:        "en-US",
		ImageBaseURL:    "https://image.test/w500",
		BackdropBaseURL: "https://image.test/w1280",
		MaxResults:      5,
		Enricher:        enricher,
		Logger:          discard(),
	})
	if err != nil {
		t.Fatalf("NewTMDBClient: %v", err)
	}
	return client
}

func TestTMDBSearchMoviesCapsAndMaps(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search/movie" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("api_key") != "test-key" {
			t.Error("missing api key")
		}
		results := make([]map[string]any, 0, 8)
		for i := 0; i < 8; i++ {
			results = append(results, map[string]any{
				"id": i + 1, "title": "The Matrix", "release_date": "1999-03-31",
				"poster_path": "/poster.jpg", "vote_average": 8.7,
			})
		}
		json.NewEncoder(w).Encode(map[string]any{"results": results})
	}))
	defer server.Close()

	client := newTMDB(t, server.URL, nil)
	results, err := client.SearchMovies(context.Background(), "matrix")
	if err != nil {
		t.Fatalf("SearchMovies: %v", err)
	}
	if len(results) != 5 {
		t.Fatalf("expected 5 results, got %d", len(results))
	}
	first := results[0]
	if first.Title != "The Matrix" || first.Year != "1999" {
		t.Fatalf("unexpected slim record: %+v", first)
	}
	if first.PosterURL != "https://image.test/w500/poster.jpg" {
		t.Fatalf("unexpected poster URL %q", first.PosterURL)
	}
}

func TestTMDBMovieDetailWithEnrichment(t *testing.T) {
	omdbServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("i") != "tt0133093" {
			t.Errorf("expected lookup by imdb id, got %v", r.URL.Query())
		}
		json.NewEncoder(w).Encode(map[string]any{
			"Response": "True", "imdbID": "tt0133093",
			"imdbRating": "8.7", "imdbVotes": "2,034,485", "Rated": "R",
			"BoxOffice": "$172,076,928", "Awards": "Won 4 Oscars.",
			"Ratings": []map[string]string{{"Source": "Metacritic", "Value": "73/100"}},
		})
	}))
	defer omdbServer.Close()

	enricher, err := catalog.NewOMDBClient(omdbServer.URL, "omdb-key", discard())
	if err != nil {
		t.Fatalf("NewOMDBClient: %v", err)
	}

	tmdbServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/movie/603" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"id": 603, "title": "The Matrix", "release_date": "1999-03-31",
			"poster_path": "/p.jpg", "backdrop_path": "/b.jpg",
			"vote_average": 8.2,
			"genres":       []map[string]any{{"name": "Action"}, {"name": "Science Fiction"}},
			"overview":     "A hacker discovers reality is a simulation.",
			"runtime":      136, "status": "Released",
			"original_language": "en", "imdb_id": "tt0133093",
		})
	}))
	defer tmdbServer.Close()

	client := newTMDB(t, tmdbServer.URL, enricher)
	rec, err := client.MovieDetail(context.Background(), 603)
	if err != nil {
		t.Fatalf("MovieDetail: %v", err)
	}
	if rec.Category != media.CategoryMovie {
		t.Fatalf("unexpected category %q", rec.Category)
	}
	if rec.Rating != 8.7 || rec.RatingSource != "IMDb" {
		t.Fatalf("expected IMDb rating 8.7, got %v from %q", rec.Rating, rec.RatingSource)
	}
	if rec.Votes != "2,034,485" || rec.ContentRating != "R" {
		t.Fatalf("enrichment fields missing: %+v", rec)
	}
	if rec.Metacritic != "73" {
		t.Fatalf("expected metacritic 73, got %q", rec.Metacritic)
	}
	if rec.RuntimeMinutes != 136 || rec.Language != "EN" {
		t.Fatalf("unexpected detail mapping: %+v", rec)
	}
	if rec.BackdropURL != "https://image.test/w1280/b.jpg" {
		t.Fatalf("unexpected backdrop %q", rec.BackdropURL)
	}
}

func TestTMDBEnrichmentFailureIsNonFatal(t *testing.T) {
	omdbServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer omdbServer.Close()

	enricher, err := catalog.NewOMDBClient(omdbServer.URL, "omdb-key", discard())
	if err != nil {
		t.Fatalf("NewOMDBClient: %v", err)
	}

	tmdbServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"id": 603, "title": "The Matrix", "vote_average": 8.2,
		})
	}))
	defer tmdbServer.Close()

	client := newTMDB(t, tmdbServer.URL, enricher)
	rec, err := client.MovieDetail(context.Background(), 603)
	if err != nil {
		t.Fatalf("MovieDetail should not fail on enrichment error: %v", err)
	}
	if rec.Rating != 8.2 || rec.RatingSource != "TMDb" {
		t.Fatalf("expected TMDb rating preserved, got %+v", rec)
	}
}

func TestJikanSearchMapsPercentRating(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/anime" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{{
				"mal_id": 37521, "title": "Vinland Saga", "title_english": "Vinland Saga",
				"year": 2019, "score": 8.75,
				"images": map[string]any{"jpg": map[string]any{"large_image_url": "https://cdn.test/vs.jpg"}},
			}},
		})
	}))
	defer server.Close()

	client, err := catalog.NewJikanClient(server.URL, 5, discard())
	if err != nil {
		t.Fatalf("NewJikanClient: %v", err)
	}
	results, err := client.Search(context.Background(), "vinland")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Rating != 88 {
		t.Fatalf("expected percent rating 88, got %v", results[0].Rating)
	}
}

func TestJikanDetailMapsRecord(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/anime/37521/full" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{
				"mal_id": 37521, "title": "Vinland Saga", "title_japanese": "ヴィンランド・サガ",
				"year": 2019, "score": 8.75, "status": "Finished Airing",
				"episodes": 24, "type": "TV", "season": "summer",
				"aired":   map[string]any{"string": "Jul 8, 2019 to Dec 30, 2019"},
				"genres":  []map[string]any{{"name": "Action"}},
				"themes":  []map[string]any{{"name": "Historical"}},
				"studios": []map[string]any{{"name": "Wit Studio"}},
				"source":  "Manga",
			},
		})
	}))
	defer server.Close()

	client, err := catalog.NewJikanClient(server.URL, 5, discard())
	if err != nil {
		t.Fatalf("NewJikanClient: %v", err)
	}
	rec, err := client.Detail(context.Background(), 37521)
	if err != nil {
		t.Fatalf("Detail: %v", err)
	}
	if rec.Category != media.CategoryAnime || rec.Rating != 88 {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if rec.Studio != "Wit Studio" || rec.Season != "Summer" {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if got := rec.GenresJoined(); got != "Action, Historical" {
		t.Fatalf("expected genres and themes merged, got %q", got)
	}
}

func TestAniListSearchFallsBackToManga(t *testing.T) {
	var formats []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Variables map[string]any `json:"variables"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		format, _ := body.Variables["format"].(string)
		formats = append(formats, format)

		medias := []map[string]any{}
		if format == "" {
			medias = append(medias, map[string]any{
				"id": 105398, "averageScore": 84,
				"title":      map[string]any{"english": "Solo Leveling", "romaji": "Na Honjaman Level Up"},
				"coverImage": map[string]any{"extraLarge": "https://cdn.test/sl.jpg"},
				"startDate":  map[string]any{"year": 2018},
			})
		}
		json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{"Page": map[string]any{"media": medias}},
		})
	}))
	defer server.Close()

	client, err := catalog.NewAniListClient(server.URL, 5, discard())
	if err != nil {
		t.Fatalf("NewAniListClient: %v", err)
	}
	results, err := client.Search(context.Background(), "solo leveling")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(formats) != 2 || formats[0] != "MANHWA" || formats[1] != "" {
		t.Fatalf("expected MANHWA then unfiltered query, got %v", formats)
	}
	if len(results) != 1 || results[0].Title != "Solo Leveling" {
		t.Fatalf("unexpected results: %+v", results)
	}
}

func TestAniListDetailCleansDescriptionAndType(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{"Media": map[string]any{
				"id":           105398,
				"title":        map[string]any{"english": "Solo Leveling", "native": "나 혼자만 레벨업"},
				"averageScore": 84, "status": "FINISHED",
				"genres": []string{"Action", "Fantasy"}, "chapters": 179,
				"startDate":       map[string]any{"year": 2018},
				"endDate":         map[string]any{"year": 2021},
				"description":     "<b>Hunters</b> rise.<br><br><br>The weakest becomes the strongest.",
				"format":          "MANHWA",
				"countryOfOrigin": "KR",
			}},
		})
	}))
	defer server.Close()

	client, err := catalog.NewAniListClient(server.URL, 5, discard())
	if err != nil {
		t.Fatalf("NewAniListClient: %v", err)
	}
	rec, err := client.Detail(context.Background(), 105398)
	if err != nil {
		t.Fatalf("Detail: %v", err)
	}
	if rec.Type != "MANHWA" || rec.Status != "Finished" {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if rec.Published != "2018–2021" {
		t.Fatalf("unexpected published range %q", rec.Published)
	}
	if rec.TitleNative != "나 혼자만 레벨업" {
		t.Fatalf("unexpected native title %q", rec.TitleNative)
	}
	if got := rec.Overview; got != "Hunters rise.The weakest becomes the strongest." {
		t.Fatalf("expected HTML stripped, got %q", got)
	}
}
