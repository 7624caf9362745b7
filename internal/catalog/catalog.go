package catalog

import (
	"context"
	"fmt"
	"log/slog"

	"marquee/internal/config"
	"marquee/internal/logging"
	"marquee/internal/media"
)

// Provider searches a catalog and resolves full metadata for one item.
// Search returns at most the configured result cap; an empty slice with a
// nil error means the query genuinely matched nothing.
type Provider interface {
	Search(ctx context.Context, query string) ([]media.Slim, error)
	Detail(ctx context.Context, id int64) (*media.Record, error)
}

// Registry maps categories to their providers.
type Registry struct {
	providers map[media.Category]Provider
}

// NewRegistry wires the configured providers for every category.
func NewRegistry(cfg *config.Config, logger *slog.Logger) (*Registry, error) {
	logger = logging.WithComponent(logger, "catalog")

	var enricher *OMDBClient
	if cfg.OMDB.APIKey != "" {
		var err error
		enricher, err = NewOMDBClient(cfg.OMDB.BaseURL, cfg.OMDB.APIKey, logger)
		if err != nil {
			return nil, fmt.Errorf("omdb client: %w", err)
		}
	}

	tmdb, err := NewTMDBClient(TMDBOptions{
		BaseURL:         cfg.TMDB.BaseURL,
		APIKey:          cfg.TMDB.APIKey,
		Language:        cfg.TMDB.Language,
		ImageBaseURL:    cfg.TMDB.ImageBaseURL,
		BackdropBaseURL: cfg.TMDB.BackdropBaseURL,
		MaxResults:      cfg.Limits.MaxSearchResults,
		Enricher:        enricher,
		Logger:          logger,
	})
	if err != nil {
		return nil, fmt.Errorf("tmdb client: %w", err)
	}

	jikan, err := NewJikanClient(cfg.Jikan.BaseURL, cfg.Limits.MaxSearchResults, logger)
	if err != nil {
		return nil, fmt.Errorf("jikan client: %w", err)
	}

	anilist, err := NewAniListClient(cfg.AniList.URL, cfg.Limits.MaxSearchResults, logger)
	if err != nil {
		return nil, fmt.Errorf("anilist client: %w", err)
	}

	return &Registry{providers: map[media.Category]Provider{
		media.CategoryMovie:  &movieProvider{client: tmdb},
		media.CategorySeries: &seriesProvider{client: tmdb},
		media.CategoryAnime:  jikan,
		media.CategoryComic:  anilist,
	}}, nil
}

// NewRegistryWith builds a Registry from explicit providers, used in tests
// and for partial deployments.
func NewRegistryWith(providers map[media.Category]Provider) *Registry {
	return &Registry{providers: providers}
}

// For returns the provider for a category.
func (r *Registry) For(category media.Category) (Provider, bool) {
	provider, ok := r.providers[category]
	return provider, ok
}
