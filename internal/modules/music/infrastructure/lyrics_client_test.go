package infrastructure

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Mocretion/WlanBotV4/internal/modules/music/application/ports"
)

func TestLyricsClient_Fetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/Rick Astley/Never Gonna Give You Up" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"lyrics":"Never gonna give you up"}`))
	}))
	defer server.Close()

	client := NewLyricsClient(server.URL)

	lyrics, err := client.Fetch(context.Background(), "Rick Astley", "Never Gonna Give You Up")
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if lyrics != "Never gonna give you up" {
		t.Errorf("unexpected lyrics: %q", lyrics)
	}
}

func TestLyricsClient_FetchNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"No lyrics found"}`, http.StatusNotFound)
	}))
	defer server.Close()

	client := NewLyricsClient(server.URL)

	_, err := client.Fetch(context.Background(), "Unknown", "Unknown")
	if !errors.Is(err, ports.ErrLyricsNotFound) {
		t.Errorf("expected ErrLyricsNotFound, got %v", err)
	}
}

func TestLyricsClient_FetchEmptyBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"lyrics":""}`))
	}))
	defer server.Close()

	client := NewLyricsClient(server.URL)

	// An empty lyrics body counts as not found
	_, err := client.Fetch(context.Background(), "Artist", "Title")
	if !errors.Is(err, ports.ErrLyricsNotFound) {
		t.Errorf("expected ErrLyricsNotFound, got %v", err)
	}
}

func TestLyricsClient_FetchServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewLyricsClient(server.URL)

	_, err := client.Fetch(context.Background(), "Artist", "Title")
	if err == nil {
		t.Fatal("expected error for server failure")
	}
	if errors.Is(err, ports.ErrLyricsNotFound) {
		t.Error("server failure must not be reported as not found")
	}
}
