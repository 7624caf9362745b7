package render

import "marquee/internal/media"

const defaultMovieTemplate = `🎬 {title} ({year})

┌─ 🌐 Audio        » {audio}
├─ 🎞️ Quality      » {quality}
├─ ⭐ IMDb          » {imdb_rating}/10 ({imdb_votes} votes)
├─ 🎭 Genre        » {genres}
├─ 🔞 Rating       » {content_rating}
├─ ⏱️ Runtime      » {runtime}
└─ 🗓️ Released     » {release_date}

📝 {overview}

{hashtags}`

const defaultSeriesTemplate = `📺 {title} ({year})

┌─ 🌐 Audio        » {audio}
├─ 🎞️ Quality      » {quality}
├─ ⭐ IMDb          » {imdb_rating}/10 ({imdb_votes} votes)
├─ 🎭 Genre        » {genres}
├─ 📡 Status       » {status}
├─ 🗓️ Seasons      » {seasons}
├─ 📋 Episodes     » {episodes}
└─ 🏢 Network      » {network}

📝 {overview}

{hashtags}`

const defaultAnimeTemplate = `🌸 {title}

┌─ 📌 Type         » {type}
├─ ⭐ MAL Rating    » {rating}
├─ 📡 Status       » {status}
├─ 📋 Episodes     » {episodes}
├─ 🎭 Genre        » {genres}
├─ 🎙️ Studio       » {studio}
└─ 🗓️ Aired        » {aired}

📝 {synopsis}

{hashtags}`

const defaultComicTemplate = `📖 {title}

┌─ 📌 Type         » {type}
├─ ⭐ Rating        » {rating}
├─ 📡 Status       » {status}
├─ 📚 Chapters     » {chapters}
├─ 🎭 Genre        » {genres}
└─ 🗓️ Published    » {published}

📝 {synopsis}

{hashtags}`

// DefaultTemplate returns the built-in template body for a category.
func DefaultTemplate(category media.Category) string {
	switch category {
	case media.CategoryMovie:
		return defaultMovieTemplate
	case media.CategorySeries:
		return defaultSeriesTemplate
	case media.CategoryAnime:
		return defaultAnimeTemplate
	case media.CategoryComic:
		return defaultComicTemplate
	default:
		return "{title}"
	}
}

var tokenDocs = map[media.Category][]string{
	media.CategoryMovie: {
		"{title}", "{year}", "{release_date}", "{runtime}", "{language}",
		"{rating}", "{imdb_rating}", "{imdb_votes}", "{imdb_url}",
		"{content_rating}", "{box_office}", "{awards}", "{metacritic}",
		"{genres}", "{overview}", "{status}", "{tagline}",
		"{audio}", "{quality}", "{hashtags}",
	},
	media.CategorySeries: {
		"{title}", "{year}", "{release_date}", "{language}",
		"{rating}", "{imdb_rating}", "{imdb_votes}", "{imdb_url}",
		"{content_rating}", "{awards}", "{metacritic}",
		"{genres}", "{overview}", "{status}",
		"{seasons}", "{episodes}", "{network}",
		"{audio}", "{quality}", "{hashtags}",
	},
	media.CategoryAnime: {
		"{title}", "{title_jp}", "{year}", "{rating}",
		"{genres}", "{synopsis}", "{status}", "{episodes}",
		"{type}", "{aired}", "{studio}", "{source}", "{season}",
		"{hashtags}",
	},
	media.CategoryComic: {
		"{title}", "{title_native}", "{year}", "{rating}",
		"{genres}", "{synopsis}", "{status}", "{chapters}",
		"{volumes}", "{type}", "{published}", "{hashtags}",
	},
}

// TokenList returns the documented tokens for a category, space-separated,
// for display in the template editing flow.
func TokenList(category media.Category) string {
	tokens, ok := tokenDocs[category]
	if !ok {
		return "{title}"
	}
	out := ""
	for i, token := range tokens {
		if i > 0 {
			out += "  "
		}
		out += token
	}
	return out
}
