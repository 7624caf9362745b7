package services_test

import (
	"errors"
	"strings"
	"testing"

	"marquee/internal/services"
)

func TestWrapTagsMarker(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrDetailFetch, "catalog", "detail", "tmdb id 42", base)
	if !errors.Is(err, services.ErrDetailFetch) {
		t.Fatalf("expected wrapped error to match marker, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to retain cause, got %v", err)
	}
	if !strings.Contains(err.Error(), "catalog: detail: tmdb id 42") {
		t.Fatalf("unexpected detail: %v", err)
	}
}

func TestWrapDefaultsToTransient(t *testing.T) {
	err := services.Wrap(nil, "session", "get", "", nil)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient marker, got %v", err)
	}
}

func TestUserMessageByMarker(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		expect string
	}{
		{"no results", services.Wrap(services.ErrNoResults, "catalog", "search", "", nil), "No results"},
		{"detail", services.Wrap(services.ErrDetailFetch, "catalog", "detail", "", nil), "fetch details"},
		{"template", services.Wrap(services.ErrTemplateInvalid, "render", "validate", "", nil), "{title}"},
		{"distribution", services.Wrap(services.ErrDistribution, "transport", "post", "", nil), "admin in your channel"},
		{"unknown", errors.New("weird"), "Something went wrong"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if msg := services.UserMessage(tc.err); !strings.Contains(msg, tc.expect) {
				t.Fatalf("expected %q in message, got %q", tc.expect, msg)
			}
		})
	}
}
