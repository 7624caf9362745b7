package session_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"marquee/internal/media"
	"marquee/internal/session"
)

func newTestStore(primary session.Backend, ttl time.Duration) *session.Store {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return session.NewStore(primary, session.NewMemoryBackend(), ttl, logger)
}

func TestGetReturnsFreshStateWhenAbsent(t *testing.T) {
	store := newTestStore(nil, time.Minute)

	state := store.Get(context.Background(), 42)
	if state.Phase != session.PhaseIdle {
		t.Fatalf("expected idle phase, got %q", state.Phase)
	}
	if state.AwaitingText() {
		t.Fatal("fresh state should not await text input")
	}
}

func TestSetGetRoundTrip(t *testing.T) {
	store := newTestStore(nil, time.Minute)
	ctx := context.Background()

	state := session.NewState()
	state.Phase = session.PhaseSelecting
	state.Category = media.CategoryAnime
	state.SearchResults = []media.Slim{{ID: 1, Title: "Vinland Saga", Year: "2019"}}
	store.Set(ctx, 42, state)

	got := store.Get(ctx, 42)
	if got.Phase != session.PhaseSelecting {
		t.Fatalf("expected SELECTING, got %q", got.Phase)
	}
	if got.Category != media.CategoryAnime {
		t.Fatalf("expected anime category, got %q", got.Category)
	}
	if len(got.SearchResults) != 1 || got.SearchResults[0].Title != "Vinland Saga" {
		t.Fatalf("unexpected search results: %+v", got.SearchResults)
	}
}

func TestUpdateMergesSuccessiveMutations(t *testing.T) {
	store := newTestStore(nil, time.Minute)
	ctx := context.Background()

	store.Update(ctx, 42, func(s *session.State) {
		s.Phase = session.PhaseSearching
		s.Category = media.CategoryMovie
	})
	store.Update(ctx, 42, func(s *session.State) {
		s.Caption = "hello"
	})

	got := store.Get(ctx, 42)
	if got.Category != media.CategoryMovie {
		t.Fatalf("first mutation lost: %+v", got)
	}
	if got.Caption != "hello" {
		t.Fatalf("second mutation lost: %+v", got)
	}
}

func TestSessionExpires(t *testing.T) {
	store := newTestStore(nil, 10*time.Millisecond)
	ctx := context.Background()

	state := session.NewState()
	state.Phase = session.PhasePreview
	store.Set(ctx, 42, state)

	time.Sleep(25 * time.Millisecond)

	got := store.Get(ctx, 42)
	if got.Phase != session.PhaseIdle {
		t.Fatalf("expected expired session to reset to idle, got %q", got.Phase)
	}
}

func TestClearRemovesSession(t *testing.T) {
	store := newTestStore(nil, time.Minute)
	ctx := context.Background()

	store.Update(ctx, 42, func(s *session.State) { s.Phase = session.PhasePreview })
	store.Clear(ctx, 42)

	if got := store.Get(ctx, 42); got.Phase != session.PhaseIdle {
		t.Fatalf("expected idle after clear, got %q", got.Phase)
	}
}

type failingBackend struct{}

func (failingBackend) Get(context.Context, string) ([]byte, error) {
	return nil, errors.New("connection refused")
}

func (failingBackend) Set(context.Context, string, []byte, time.Duration) error {
	return errors.New("connection refused")
}

func (failingBackend) Delete(context.Context, string) error {
	return errors.New("connection refused")
}

func TestFailingPrimaryDegradesToFallback(t *testing.T) {
	store := newTestStore(failingBackend{}, time.Minute)
	ctx := context.Background()

	state := session.NewState()
	state.Phase = session.PhaseSearching
	state.Category = media.CategorySeries
	store.Set(ctx, 42, state)

	got := store.Get(ctx, 42)
	if got.Phase != session.PhaseSearching || got.Category != media.CategorySeries {
		t.Fatalf("expected state preserved via fallback, got %+v", got)
	}
}

func TestSessionsAreIsolatedPerUser(t *testing.T) {
	store := newTestStore(nil, time.Minute)
	ctx := context.Background()

	store.Update(ctx, 1, func(s *session.State) { s.Caption = "one" })
	store.Update(ctx, 2, func(s *session.State) { s.Caption = "two" })

	if got := store.Get(ctx, 1); got.Caption != "one" {
		t.Fatalf("user 1 state clobbered: %+v", got)
	}
	if got := store.Get(ctx, 2); got.Caption != "two" {
		t.Fatalf("user 2 state clobbered: %+v", got)
	}
}
