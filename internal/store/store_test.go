package store_test

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"marquee/internal/media"
	"marquee/internal/store"
)

func openStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.OpenPath(filepath.Join(t.TempDir(), "marquee.db"))
	if err != nil {
		t.Fatalf("OpenPath: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestUpsertUserReportsNew(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	isNew, err := s.UpsertUser(ctx, 42, "neo", "Thomas")
	if err != nil {
		t.Fatalf("UpsertUser: %v", err)
	}
	if !isNew {
		t.Fatal("expected first contact to be new")
	}

	isNew, err = s.UpsertUser(ctx, 42, "neo_updated", "Thomas")
	if err != nil {
		t.Fatalf("UpsertUser: %v", err)
	}
	if isNew {
		t.Fatal("expected second contact to be known")
	}

	user, err := s.GetUser(ctx, 42)
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if user == nil || user.Username != "neo_updated" {
		t.Fatalf("unexpected user: %+v", user)
	}
}

func TestConcurrentFirstContactReportsNewOnce(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	const workers = 8
	results := make(chan bool, workers)
	errs := make(chan error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			isNew, err := s.UpsertUser(ctx, 77, "trinity", "Tiff")
			if err != nil {
				errs <- err
				return
			}
			results <- isNew
		}()
	}
	wg.Wait()
	close(results)
	close(errs)

	for err := range errs {
		t.Fatalf("concurrent UpsertUser: %v", err)
	}
	newCount := 0
	for isNew := range results {
		if isNew {
			newCount++
		}
	}
	if newCount != 1 {
		t.Fatalf("expected exactly one new report, got %d", newCount)
	}

	user, err := s.GetUser(ctx, 77)
	if err != nil || user == nil {
		t.Fatalf("GetUser: user=%+v err=%v", user, err)
	}
}

func TestGetUnknownUserIsNil(t *testing.T) {
	s := openStore(t)
	user, err := s.GetUser(context.Background(), 999)
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if user != nil {
		t.Fatalf("expected nil for unknown user, got %+v", user)
	}
}

func TestBanAndPremiumFlags(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	if _, err := s.UpsertUser(ctx, 42, "neo", ""); err != nil {
		t.Fatal(err)
	}
	if err := s.SetBanned(ctx, 42, true); err != nil {
		t.Fatalf("SetBanned: %v", err)
	}
	banned, err := s.IsBanned(ctx, 42)
	if err != nil || !banned {
		t.Fatalf("expected banned, got %v err=%v", banned, err)
	}
	if err := s.SetBanned(ctx, 42, false); err != nil {
		t.Fatalf("SetBanned: %v", err)
	}
	if banned, _ := s.IsBanned(ctx, 42); banned {
		t.Fatal("expected unbanned")
	}

	if err := s.SetPremium(ctx, 42, true); err != nil {
		t.Fatalf("SetPremium: %v", err)
	}
	user, _ := s.GetUser(ctx, 42)
	if !user.Premium {
		t.Fatal("expected premium flag set")
	}
}

func TestDailyQuota(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	if _, err := s.UpsertUser(ctx, 42, "neo", ""); err != nil {
		t.Fatal(err)
	}

	ok, err := s.CanPostToday(ctx, 42, 2, 999)
	if err != nil || !ok {
		t.Fatalf("fresh user should have quota: %v err=%v", ok, err)
	}

	for i := 0; i < 2; i++ {
		if err := s.IncrementPostCount(ctx, 42); err != nil {
			t.Fatalf("IncrementPostCount: %v", err)
		}
	}

	ok, err = s.CanPostToday(ctx, 42, 2, 999)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatal("expected quota exhausted at free limit")
	}

	// Premium users get the higher limit.
	if err := s.SetPremium(ctx, 42, true); err != nil {
		t.Fatal(err)
	}
	ok, err = s.CanPostToday(ctx, 42, 2, 999)
	if err != nil || !ok {
		t.Fatalf("premium user should have quota: %v err=%v", ok, err)
	}

	count, err := s.PostsToday(ctx, 42)
	if err != nil || count != 2 {
		t.Fatalf("expected 2 posts today, got %d err=%v", count, err)
	}

	user, _ := s.GetUser(ctx, 42)
	if user.TotalPosts != 2 {
		t.Fatalf("expected lifetime total 2, got %d", user.TotalPosts)
	}
}

func TestUserSettings(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	if _, err := s.UpsertUser(ctx, 42, "neo", ""); err != nil {
		t.Fatal(err)
	}
	if err := s.SetWatermark(ctx, 42, "@mychannel"); err != nil {
		t.Fatal(err)
	}
	if err := s.SetChannel(ctx, 42, "@posts"); err != nil {
		t.Fatal(err)
	}
	if err := s.SetQuality(ctx, 42, "4K"); err != nil {
		t.Fatal(err)
	}
	if err := s.SetAudio(ctx, 42, "Japanese"); err != nil {
		t.Fatal(err)
	}

	user, err := s.GetUser(ctx, 42)
	if err != nil {
		t.Fatal(err)
	}
	if user.Watermark != "@mychannel" || user.Channel != "@posts" ||
		user.Quality != "4K" || user.Audio != "Japanese" {
		t.Fatalf("unexpected settings: %+v", user)
	}
}

func TestTemplateLifecycle(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	if err := s.SaveTemplate(ctx, 42, media.CategoryMovie, "minimal", "{title} ({year})"); err != nil {
		t.Fatalf("SaveTemplate: %v", err)
	}
	if err := s.SaveTemplate(ctx, 42, media.CategoryMovie, "rich", "{title}\n{overview}"); err != nil {
		t.Fatalf("SaveTemplate: %v", err)
	}

	// No active template yet: the built-in default applies.
	if _, ok, err := s.ActiveTemplateBody(ctx, 42, media.CategoryMovie); err != nil || ok {
		t.Fatalf("expected no active template, ok=%v err=%v", ok, err)
	}

	if err := s.SetActiveTemplate(ctx, 42, media.CategoryMovie, "minimal"); err != nil {
		t.Fatalf("SetActiveTemplate: %v", err)
	}
	body, ok, err := s.ActiveTemplateBody(ctx, 42, media.CategoryMovie)
	if err != nil || !ok || body != "{title} ({year})" {
		t.Fatalf("unexpected active body %q ok=%v err=%v", body, ok, err)
	}

	// Switching the active template deactivates the previous one.
	if err := s.SetActiveTemplate(ctx, 42, media.CategoryMovie, "rich"); err != nil {
		t.Fatal(err)
	}
	templates, err := s.ListTemplates(ctx, 42, media.CategoryMovie)
	if err != nil {
		t.Fatal(err)
	}
	if len(templates) != 2 {
		t.Fatalf("expected 2 templates, got %d", len(templates))
	}
	for _, tpl := range templates {
		if tpl.Name == "minimal" && tpl.Active {
			t.Fatal("minimal should be inactive after switch")
		}
		if tpl.Name == "rich" && !tpl.Active {
			t.Fatal("rich should be active after switch")
		}
	}

	// Reverting to the default clears the active flag.
	if err := s.SetActiveTemplate(ctx, 42, media.CategoryMovie, ""); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := s.ActiveTemplateBody(ctx, 42, media.CategoryMovie); ok {
		t.Fatal("expected default after revert")
	}

	if err := s.DeleteTemplate(ctx, 42, media.CategoryMovie, "rich"); err != nil {
		t.Fatalf("DeleteTemplate: %v", err)
	}
	tpl, err := s.GetTemplate(ctx, 42, media.CategoryMovie, "rich")
	if err != nil || tpl != nil {
		t.Fatalf("expected template gone, got %+v err=%v", tpl, err)
	}
}

func TestAllUserIDsAndTotals(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	for _, id := range []int64{3, 1, 2} {
		if _, err := s.UpsertUser(ctx, id, "", ""); err != nil {
			t.Fatal(err)
		}
	}
	ids, err := s.AllUserIDs(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 3 || ids[0] != 1 || ids[2] != 3 {
		t.Fatalf("unexpected ids %v", ids)
	}

	// Banned users drop out of the broadcast list.
	if err := s.SetBanned(ctx, 2, true); err != nil {
		t.Fatal(err)
	}
	ids, err = s.AllUserIDs(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 2 || ids[0] != 1 || ids[1] != 3 {
		t.Fatalf("expected banned user excluded, got %v", ids)
	}

	total, err := s.TotalUsers(ctx)
	if err != nil || total != 3 {
		t.Fatalf("expected 3 users, got %d err=%v", total, err)
	}
	posts, err := s.TotalPosts(ctx)
	if err != nil || posts != 0 {
		t.Fatalf("expected 0 posts, got %d err=%v", posts, err)
	}
}
