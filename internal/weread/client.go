package weread

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mrlokans/weread-readwise/internal/entities"
)

const (
	DefaultAPIURL = "https://i.weread.qq.com"
	DefaultWebURL = "https://weread.qq.com"

	defaultTimeout = 30 * time.Second
	maxErrorBody   = 512

	userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) " +
		"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// shelfLists are the bookshelf sub-lists merged into one listing, in order.
var shelfLists = []string{"finishReadBooks", "recentBooks", "allBooks"}

// Config holds what the client needs to talk to WeRead.
type Config struct {
	Cookie  string
	APIURL  string
	WebURL  string
	Timeout time.Duration
}

// Client reads the bookshelf, highlights and notes of one WeRead account.
// It never retries: every transport error or non-2xx status is returned.
type Client struct {
	httpClient *http.Client
	apiURL     string
	webURL     string
	cookie     string
}

// NewClient creates a WeRead API client authenticated by a browser cookie.
func NewClient(cfg Config) *Client {
	if cfg.APIURL == "" {
		cfg.APIURL = DefaultAPIURL
	}
	if cfg.WebURL == "" {
		cfg.WebURL = DefaultWebURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		apiURL:     strings.TrimRight(cfg.APIURL, "/"),
		webURL:     strings.TrimRight(cfg.WebURL, "/"),
		cookie:     cfg.Cookie,
	}
}

// WebURL returns the web base used for Origin/Referer and reader links.
func (c *Client) WebURL() string {
	return c.webURL
}

// ListBooks fetches the merged bookshelf of userVID. Books are deduplicated by
// id in first-seen order and entries whose id is not purely numeric (linked
// public accounts and the like) are dropped.
func (c *Client) ListBooks(ctx context.Context, userVID string) ([]entities.Book, error) {
	data, err := c.get(ctx, "/shelf/friendCommon", url.Values{"userVid": {userVID}})
	if err != nil {
		return nil, fmt.Errorf("fetch bookshelf: %w", err)
	}

	seen := make(map[string]bool)
	var books []entities.Book
	for _, key := range shelfLists {
		items, ok := data.Records(key)
		if !ok {
			continue
		}
		for _, item := range items {
			id := Scalar(item["bookId"])
			if !isNumericID(id) || seen[id] {
				continue
			}
			seen[id] = true

			books = append(books, entities.Book{
				ID:     id,
				Title:  Scalar(item["title"]),
				Author: Scalar(item["author"]),
				Cover:  Scalar(item["cover"]),
			})
		}
	}
	return books, nil
}

// Bookmarks fetches the highlight list of a book together with its chapters.
// Many items also carry the comment the reader attached to the highlight.
func (c *Client) Bookmarks(ctx context.Context, bookID string) (Record, error) {
	data, err := c.get(ctx, "/book/bookmarklist", url.Values{"bookId": {bookID}})
	if err != nil {
		return nil, fmt.Errorf("fetch bookmarks for %s: %w", bookID, err)
	}
	return data, nil
}

// Reviews fetches the reader's own standalone notes ("thoughts") on a book.
func (c *Client) Reviews(ctx context.Context, bookID string) (Record, error) {
	params := url.Values{
		"bookId":   {bookID},
		"listType": {"11"},
		"mine":     {"1"},
		"synckey":  {"0"},
		"listMode": {"0"},
	}
	data, err := c.get(ctx, "/review/list", params)
	if err != nil {
		return nil, fmt.Errorf("fetch reviews for %s: %w", bookID, err)
	}
	return data, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values) (Record, error) {
	u := c.apiURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json, text/plain, */*")
	req.Header.Set("Cookie", c.cookie)
	req.Header.Set("Origin", c.webURL)
	req.Header.Set("Referer", c.webURL+"/")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, ErrUnauthorized
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	var data Record
	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	if err := dec.Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if apiErr := errorFromBody(data); apiErr != nil {
		return nil, apiErr
	}
	return data, nil
}

// errorFromBody detects the errcode/errmsg envelope WeRead uses for
// application errors such as an expired session.
func errorFromBody(data Record) error {
	for _, key := range []string{"errcode", "errCode"} {
		code, ok := Int64(data[key])
		if !ok || code == 0 {
			continue
		}
		msg := Scalar(data["errmsg"])
		if msg == "" {
			msg = Scalar(data["errMsg"])
		}
		return &APIError{Code: code, Message: msg}
	}
	return nil
}

func isNumericID(id string) bool {
	if id == "" {
		return false
	}
	for _, r := range id {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
