package search

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestDuckDuckGoSearch(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("q"); got != "ai agents" {
			t.Errorf("unexpected query: %q", got)
		}
		if got := r.URL.Query().Get("format"); got != "json" {
			t.Errorf("unexpected format: %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"Heading": "AI Agents",
			"AbstractText": "Agents act autonomously.",
			"AbstractURL": "http://example.com/abstract",
			"RelatedTopics": [
				{"Text": "Planning - details", "FirstURL": "http://example.com/planning"}
			]
		}`))
	}))
	defer srv.Close()

	d := NewDuckDuckGo(5 * time.Second)
	d.endpoint = srv.URL + "/"

	got, err := d.Search(context.Background(), "ai agents")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	if !strings.Contains(got, "Title: AI Agents") {
		t.Fatalf("result missing abstract block: %q", got)
	}
	if !strings.Contains(got, "URL: http://example.com/planning") {
		t.Fatalf("result missing topic block: %q", got)
	}
	if !strings.Contains(got, "\n---\n") {
		t.Fatalf("blocks not separated: %q", got)
	}
}

func TestDuckDuckGoSearchNoResults(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Heading": "", "AbstractText": "", "RelatedTopics": []}`))
	}))
	defer srv.Close()

	d := NewDuckDuckGo(5 * time.Second)
	d.endpoint = srv.URL + "/"

	got, err := d.Search(context.Background(), "zzzz")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if got != "No results found." {
		t.Fatalf("unexpected result: %q", got)
	}
}

func TestDuckDuckGoSearchBadStatus(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	d := NewDuckDuckGo(5 * time.Second)
	d.endpoint = srv.URL + "/"

	if _, err := d.Search(context.Background(), "q"); err == nil {
		t.Fatal("expected error for non-200 status")
	}
}
