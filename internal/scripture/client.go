// Package scripture retrieves canonical King James Version passage text from
// the bible-api.com lookup service.
package scripture

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"selah/internal/domain"
	"selah/internal/ports"
)

// Config controls the lookup service settings.
type Config struct {
	BaseURL     string
	Translation string
	Timeout     time.Duration
}

// Client implements ports.ScriptureSource against bible-api.com.
type Client struct {
	cfg  Config
	http *http.Client
}

var _ ports.ScriptureSource = (*Client)(nil)

func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://bible-api.com"
	}
	if cfg.Translation == "" {
		cfg.Translation = "kjv"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
	}
}

type lookupResponse struct {
	Reference string `json:"reference"`
	Text      string `json:"text"`
}

// Lookup fetches the passage for a human-readable reference string. The
// returned text has embedded newlines collapsed to spaces.
func (c *Client) Lookup(ctx context.Context, reference string) (domain.Passage, error) {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return domain.Passage{}, fmt.Errorf("empty scripture reference")
	}

	lookupURL := strings.TrimRight(c.cfg.BaseURL, "/") + "/" + url.PathEscape(reference) +
		"?translation=" + url.QueryEscape(c.cfg.Translation)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, lookupURL, nil)
	if err != nil {
		return domain.Passage{}, fmt.Errorf("build scripture request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return domain.Passage{}, fmt.Errorf("fetch scripture: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return domain.Passage{}, fmt.Errorf("scripture API error: %d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return domain.Passage{}, fmt.Errorf("read scripture response: %w", err)
	}

	var parsed lookupResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return domain.Passage{}, fmt.Errorf("parse scripture response: %w", err)
	}
	if strings.TrimSpace(parsed.Text) == "" {
		return domain.Passage{}, fmt.Errorf("scripture response contained no text for %q", reference)
	}

	passage := domain.Passage{
		Reference: parsed.Reference,
		Text:      normalizeText(parsed.Text),
	}
	if passage.Reference == "" {
		passage.Reference = reference
	}
	return passage, nil
}

// normalizeText collapses embedded newlines to single spaces and trims.
// Interior spacing is otherwise preserved as served.
func normalizeText(text string) string {
	return strings.TrimSpace(strings.ReplaceAll(text, "\n", " "))
}
