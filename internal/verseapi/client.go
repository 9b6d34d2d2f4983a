// Package verseapi looks up verse text from a bible-api.com compatible service.
package verseapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const requestTimeout = 10 * time.Second

// ErrNotFound is returned when the service has no verse for a reference.
var ErrNotFound = errors.New("verse not found")

// Result is a looked-up verse.
type Result struct {
	Reference       string
	Text            string
	Translation     string
	TranslationName string
}

type lookupResponse struct {
	Reference       string `json:"reference"`
	Text            string `json:"text"`
	TranslationID   string `json:"translation_id"`
	TranslationName string `json:"translation_name"`
	Error           string `json:"error"`
}

// Client talks to the verse service.
type Client struct {
	baseURL     string
	translation string
	httpc       *http.Client
}

// NewClient creates a client for baseURL returning verses in translation.
func NewClient(baseURL, translation string) *Client {
	return &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		translation: translation,
		httpc:       &http.Client{Timeout: requestTimeout},
	}
}

// Translation is the translation the client requests.
func (c *Client) Translation() string {
	return c.translation
}

// Lookup fetches the text of reference. The returned text has its line
// breaks and repeated spaces collapsed.
func (c *Client) Lookup(ctx context.Context, reference string) (*Result, error) {
	endpoint := c.baseURL + "/" + url.PathEscape(reference)
	if c.translation != "" {
		endpoint += "?" + url.Values{"translation": {c.translation}}.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("verse lookup: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("verse lookup %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var out lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("verse lookup: bad JSON: %w", err)
	}
	if out.Error != "" {
		return nil, ErrNotFound
	}

	text := strings.Join(strings.Fields(out.Text), " ")
	if text == "" {
		return nil, ErrNotFound
	}

	translation := out.TranslationID
	if translation == "" {
		translation = c.translation
	}

	return &Result{
		Reference:       out.Reference,
		Text:            text,
		Translation:     translation,
		TranslationName: out.TranslationName,
	}, nil
}
