// Package catalog looks up media metadata from external services.
//
// Each category has a Provider: TMDb for movies and series, Jikan
// (MyAnimeList) for anime, and AniList for comics. Movie and series details
// are optionally enriched with IMDb ratings through OMDb; enrichment is
// best-effort and never fails a detail lookup.
package catalog
