package render_test

import (
	"regexp"
	"strings"
	"testing"

	"marquee/internal/media"
	"marquee/internal/render"
	"marquee/internal/services"
)

func movieRecord() *media.Record {
	return &media.Record{
		ID:             603,
		Category:       media.CategoryMovie,
		Title:          "The Matrix",
		Year:           "1999",
		Rating:         8.7,
		Votes:          "1,234,567",
		Genres:         []string{"Action", "Science Fiction"},
		Overview:       "A hacker discovers reality is a simulation.",
		ReleaseDate:    "1999-03-31",
		RuntimeMinutes: 136,
		ContentRating:  "R",
	}
}

func newEngine() *render.Engine {
	return render.NewEngine("480p | 720p | 1080p", "Hindi | English")
}

func TestRenderDefaultMovieTemplate(t *testing.T) {
	engine := newEngine()
	out := engine.Render(movieRecord(), "", render.Preferences{})

	for _, want := range []string{
		"🎬 The Matrix (1999)",
		"8.7/10 (1,234,567 votes)",
		"Action, Science Fiction",
		"2h 16m",
		"1999-03-31",
		"#TheMatrix #Movie #Action #ScienceFiction",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestRenderLeavesNoUnresolvedTokens(t *testing.T) {
	engine := newEngine()
	placeholder := regexp.MustCompile(`\{[^}]+\}`)

	records := []*media.Record{
		movieRecord(),
		{Category: media.CategorySeries, Title: "Dark"},
		{Category: media.CategoryAnime, Title: "Vinland Saga", Rating: 87},
		{Category: media.CategoryComic, Title: "Solo Leveling"},
	}
	for _, rec := range records {
		out := engine.Render(rec, "", render.Preferences{})
		if match := placeholder.FindString(out); match != "" {
			t.Fatalf("category %s: unresolved token %q in output:\n%s", rec.Category, match, out)
		}
	}
}

func TestRenderUnknownTokensStripped(t *testing.T) {
	engine := newEngine()
	out := engine.Render(movieRecord(), "{title} {bogus_token} end", render.Preferences{})
	if out != "The Matrix  end" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestRenderCollapsesNewlines(t *testing.T) {
	engine := newEngine()
	out := engine.Render(movieRecord(), "{title}\n\n\n\n{year}", render.Preferences{})
	if out != "The Matrix\n\n1999" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestRenderIsDeterministic(t *testing.T) {
	engine := newEngine()
	rec := movieRecord()
	first := engine.Render(rec, "", render.Preferences{})
	for i := 0; i < 5; i++ {
		if again := engine.Render(rec, "", render.Preferences{}); again != first {
			t.Fatalf("render not deterministic:\n%s\nvs\n%s", first, again)
		}
	}
}

func TestRenderDeterministicWhenMetadataCarriesBraces(t *testing.T) {
	engine := newEngine()
	rec := movieRecord()
	rec.Title = "A {year} B"

	first := engine.Render(rec, "{title}", render.Preferences{})
	if first != "A  B" {
		t.Fatalf("brace text in metadata must not expand as a token, got %q", first)
	}
	for i := 0; i < 200; i++ {
		if again := engine.Render(rec, "{title}", render.Preferences{}); again != first {
			t.Fatalf("render not deterministic:\n%q\nvs\n%q", first, again)
		}
	}
}

func TestRenderUsesPreferences(t *testing.T) {
	engine := newEngine()
	out := engine.Render(movieRecord(), "{quality} / {audio}", render.Preferences{Quality: "4K", Audio: "Japanese"})
	if out != "4K / Japanese" {
		t.Fatalf("unexpected output %q", out)
	}
	out = engine.Render(movieRecord(), "{quality}", render.Preferences{})
	if out != "480p | 720p | 1080p" {
		t.Fatalf("expected default quality, got %q", out)
	}
}

func TestPercentRatingForAnimeAndComic(t *testing.T) {
	engine := newEngine()

	anime := &media.Record{Category: media.CategoryAnime, Title: "Vinland Saga", Rating: 87}
	if out := engine.Render(anime, "{rating}", render.Preferences{}); out != "87%" {
		t.Fatalf("anime rating: got %q", out)
	}

	comic := &media.Record{Category: media.CategoryComic, Title: "Solo Leveling", Rating: 91}
	if out := engine.Render(comic, "{rating}", render.Preferences{}); out != "91%" {
		t.Fatalf("comic rating: got %q", out)
	}

	movie := movieRecord()
	if out := engine.Render(movie, "{rating}", render.Preferences{}); out != "8.7" {
		t.Fatalf("movie rating: got %q", out)
	}
}

func TestHashtagDerivation(t *testing.T) {
	got := render.Hashtags("Dr. Strange!", media.CategoryMovie,
		[]string{"Action", "Adventure", "Fantasy", "Drama"})
	want := "#DrStrange #Movie #Action #Adventure #Fantasy"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestHashtagGenreSpacesRemoved(t *testing.T) {
	got := render.Hashtags("Dark", media.CategorySeries, []string{"Science Fiction"})
	want := "#Dark #TVShow #ScienceFiction"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestValidateTemplate(t *testing.T) {
	if err := render.ValidateTemplate("🎬 {title} ({year})"); err != nil {
		t.Fatalf("valid template rejected: %v", err)
	}
	err := render.ValidateTemplate("{year} only")
	if err == nil {
		t.Fatal("expected rejection for template without {title}")
	}
	if !strings.Contains(services.UserMessage(err), "{title}") {
		t.Fatalf("expected guidance in user message, got %q", services.UserMessage(err))
	}
}

func TestFormatRuntime(t *testing.T) {
	engine := newEngine()
	rec := movieRecord()
	rec.RuntimeMinutes = 45
	if out := engine.Render(rec, "{runtime}", render.Preferences{}); out != "45m" {
		t.Fatalf("got %q", out)
	}
	rec.RuntimeMinutes = 0
	if out := engine.Render(rec, "{runtime}", render.Preferences{}); out != "N/A" {
		t.Fatalf("got %q", out)
	}
}
