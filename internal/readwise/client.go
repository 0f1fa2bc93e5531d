package readwise

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mrlokans/weread-readwise/internal/entities"
)

const (
	DefaultAPIURL = "https://readwise.io/api/v2"

	defaultTimeout = 60 * time.Second
	maxErrorBody   = 1024

	userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) " +
		"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	highlightedAtLayout = "2006-01-02T15:04:05Z"
)

// Config holds what the client needs to talk to Readwise.
type Config struct {
	Token   string
	APIURL  string
	Timeout time.Duration
}

// Client writes highlights to the Readwise API
type Client struct {
	httpClient *http.Client
	apiURL     string
	token      string
}

// NewClient creates a new Readwise API client
func NewClient(cfg Config) *Client {
	if cfg.APIURL == "" {
		cfg.APIURL = DefaultAPIURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		apiURL:     strings.TrimRight(cfg.APIURL, "/"),
		token:      cfg.Token,
	}
}

// HighlightPayload is one element of the highlights array accepted by
// POST /highlights/. Readwise dedupes on (external_id, external_source).
type HighlightPayload struct {
	Text           string  `json:"text"`
	Title          string  `json:"title"`
	Author         string  `json:"author"`
	SourceURL      string  `json:"source_url"`
	HighlightedAt  string  `json:"highlighted_at"`
	Note           *string `json:"note"`
	Location       *string `json:"location"`
	LocationType   string  `json:"location_type"`
	ExternalID     string  `json:"external_id"`
	ExternalSource string  `json:"external_source"`
}

// CreateRequest is the body of POST /highlights/.
type CreateRequest struct {
	Highlights []HighlightPayload `json:"highlights"`
}

// NewCreateRequest maps highlights to the Readwise wire shape. Empty notes
// and locations are sent as null.
func NewCreateRequest(highlights []entities.Highlight) CreateRequest {
	req := CreateRequest{Highlights: make([]HighlightPayload, 0, len(highlights))}
	for _, h := range highlights {
		req.Highlights = append(req.Highlights, HighlightPayload{
			Text:           h.Text,
			Title:          h.Title,
			Author:         h.Author,
			SourceURL:      h.SourceURL,
			HighlightedAt:  h.HighlightedAt.UTC().Format(highlightedAtLayout),
			Note:           optional(h.Note),
			Location:       optional(h.Location),
			LocationType:   h.LocationType,
			ExternalID:     h.ExternalID,
			ExternalSource: h.ExternalSource,
		})
	}
	return req
}

// CreatedBook is one book entry in the POST /highlights/ response.
type CreatedBook struct {
	ID                 int    `json:"id"`
	Title              string `json:"title"`
	Author             string `json:"author"`
	Category           string `json:"category"`
	Source             string `json:"source"`
	NumHighlights      int    `json:"num_highlights"`
	ModifiedHighlights []int  `json:"modified_highlights"`
}

// CreateResult is the decoded response of POST /highlights/. Books stays
// empty when Readwise answers with an object or an empty body.
type CreateResult struct {
	Books []CreatedBook
}

// ModifiedCount returns how many highlights Readwise created or updated.
func (r *CreateResult) ModifiedCount() int {
	if r == nil {
		return 0
	}
	n := 0
	for _, b := range r.Books {
		n += len(b.ModifiedHighlights)
	}
	return n
}

// ValidateToken checks the token against the auth endpoint
func (c *Client) ValidateToken(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL+"/auth/", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent || resp.StatusCode == http.StatusOK {
		return nil
	}
	return statusError(resp)
}

// PostHighlights sends one batch in a single request. Any non-success status
// fails the whole batch; nothing is retried or split.
func (c *Client) PostHighlights(ctx context.Context, highlights []entities.Highlight) (*CreateResult, error) {
	body, err := json.Marshal(NewCreateRequest(highlights))
	if err != nil {
		return nil, fmt.Errorf("failed to encode highlights: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL+"/highlights/", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, statusError(resp)
	}

	return decodeCreateResult(resp.Body)
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Token "+c.token)
	req.Header.Set("User-Agent", userAgent)
}

func statusError(resp *http.Response) error {
	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return ErrInvalidToken
	case resp.StatusCode == http.StatusTooManyRequests:
		return ErrRateLimited
	case resp.StatusCode >= 500:
		return &ServerError{StatusCode: resp.StatusCode}
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return &RequestError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
}

func decodeCreateResult(r io.Reader) (*CreateResult, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	raw = bytes.TrimSpace(raw)

	result := &CreateResult{}
	if len(raw) == 0 {
		return result, nil
	}
	if !json.Valid(raw) {
		return nil, fmt.Errorf("failed to decode response: invalid JSON")
	}
	if raw[0] == '[' {
		if err := json.Unmarshal(raw, &result.Books); err != nil {
			return nil, fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return result, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
