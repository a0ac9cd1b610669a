package scripture

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestNewClientDefaults(t *testing.T) {
	t.Parallel()

	c := NewClient(Config{})
	if c.cfg.BaseURL != "https://bible-api.com" {
		t.Fatalf("unexpected base url: %q", c.cfg.BaseURL)
	}
	if c.cfg.Translation != "kjv" {
		t.Fatalf("unexpected translation: %q", c.cfg.Translation)
	}
}

func TestLookupSuccessNormalizesText(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.RawQuery, "translation=kjv") {
			t.Errorf("expected kjv translation query, got %q", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"reference":"John 3:16","text":"For God so loved the world,\nthat he gave his only begotten Son\n"}`))
	}))
	defer server.Close()

	c := NewClient(Config{BaseURL: server.URL})
	passage, err := c.Lookup(context.Background(), "john 3:16")
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if passage.Reference != "John 3:16" {
		t.Fatalf("unexpected reference: %q", passage.Reference)
	}
	if strings.Contains(passage.Text, "\n") {
		t.Fatalf("expected newlines collapsed, got %q", passage.Text)
	}
	if passage.Text != "For God so loved the world, that he gave his only begotten Son" {
		t.Fatalf("unexpected text: %q", passage.Text)
	}
}

func TestLookupEscapesReference(t *testing.T) {
	t.Parallel()

	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		_, _ = w.Write([]byte(`{"reference":"Genesis 1:1-5","text":"In the beginning"}`))
	}))
	defer server.Close()

	c := NewClient(Config{BaseURL: server.URL})
	if _, err := c.Lookup(context.Background(), "Genesis 1:1-5"); err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if !strings.Contains(gotPath, "Genesis%201:1-5") {
		t.Fatalf("expected escaped reference in path, got %q", gotPath)
	}
}

func TestLookupNonSuccessStatus(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer server.Close()

	c := NewClient(Config{BaseURL: server.URL})
	_, err := c.Lookup(context.Background(), "Fake 99:99")
	if err == nil || !strings.Contains(err.Error(), "404") {
		t.Fatalf("expected status error, got %v", err)
	}
}

func TestLookupEmptyReference(t *testing.T) {
	t.Parallel()

	c := NewClient(Config{})
	if _, err := c.Lookup(context.Background(), "   "); err == nil {
		t.Fatalf("expected empty reference error")
	}
}

func TestLookupEmptyBodyText(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"reference":"John 3:16","text":"  "}`))
	}))
	defer server.Close()

	c := NewClient(Config{BaseURL: server.URL})
	if _, err := c.Lookup(context.Background(), "John 3:16"); err == nil {
		t.Fatalf("expected missing text error")
	}
}

func TestLookupTransportFailure(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	c := NewClient(Config{BaseURL: server.URL, Timeout: time.Second})
	if _, err := c.Lookup(context.Background(), "John 3:16"); err == nil {
		t.Fatalf("expected transport error")
	}
}

func TestNormalizeText(t *testing.T) {
	t.Parallel()

	if got := normalizeText("verse one\nverse two\n"); got != "verse one verse two" {
		t.Fatalf("unexpected normalized text: %q", got)
	}
	// Only newlines are rewritten; spacing already in the text stays.
	if got := normalizeText(" a\nb\n\nc "); got != "a b  c" {
		t.Fatalf("unexpected normalized text: %q", got)
	}
}
