package card_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"marquee/internal/card"
)

func TestFetchReturnsBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("image-bytes"))
	}))
	defer server.Close()

	fetcher := card.NewFetcher(time.Second, slog.New(slog.NewTextHandler(io.Discard, nil)))
	data := fetcher.Fetch(context.Background(), server.URL)
	if string(data) != "image-bytes" {
		t.Fatalf("unexpected body %q", data)
	}
}

func TestFetchFailureModesReturnNil(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	fetcher := card.NewFetcher(time.Second, slog.New(slog.NewTextHandler(io.Discard, nil)))

	if data := fetcher.Fetch(context.Background(), ""); data != nil {
		t.Fatal("expected nil for empty URL")
	}
	if data := fetcher.Fetch(context.Background(), server.URL); data != nil {
		t.Fatal("expected nil for non-200 response")
	}
	if data := fetcher.Fetch(context.Background(), "http://127.0.0.1:1/nothing"); data != nil {
		t.Fatal("expected nil for connection failure")
	}
}

func TestFetchHonorsTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	fetcher := card.NewFetcher(20*time.Millisecond, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if data := fetcher.Fetch(context.Background(), server.URL); data != nil {
		t.Fatal("expected nil on timeout")
	}
}
