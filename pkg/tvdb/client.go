package tvdb

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"
)

const defaultBaseURL = "https://api4.thetvdb.com/v4"

// Sentinel errors for TVDB API responses.
var (
	ErrNotFound     = errors.New("series not found")
	ErrUnauthorized = errors.New("unauthorized: invalid or expired API key")
	ErrRateLimited  = errors.New("rate limited: too many requests")
)

// Client is a TVDB API v4 client with JWT authentication.
// It never retries a failed request; the only repeated call is a single
// re-login when the token has expired.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	log        *slog.Logger

	mu    sync.RWMutex
	token string
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(url, "/")
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger sets a logger for debug output.
func WithLogger(log *slog.Logger) Option {
	return func(c *Client) {
		c.log = log.With("component", "tvdb")
	}
}

// New creates a new TVDB API v4 client.
func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) debug(msg string, args ...any) {
	if c.log != nil {
		c.log.Debug(msg, args...)
	}
}

// login authenticates with TVDB and stores the JWT token.
func (c *Client) login(ctx context.Context) error {
	body, err := json.Marshal(map[string]string{"apikey": c.apiKey})
	if err != nil {
		return fmt.Errorf("marshal login body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/login", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute login request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("login failed: %s", resp.Status)
	}

	var loginResp loginResponse
	if err := json.NewDecoder(resp.Body).Decode(&loginResp); err != nil {
		return fmt.Errorf("decode login response: %w", err)
	}
	if loginResp.Data.Token == "" {
		return errors.New("login response missing token")
	}

	c.mu.Lock()
	c.token = loginResp.Data.Token
	c.mu.Unlock()

	c.debug("authenticated with TVDB")
	return nil
}

func (c *Client) currentToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// get performs an authenticated GET and decodes a 200 response into out.
func (c *Client) get(ctx context.Context, endpoint string, out any) error {
	if c.currentToken() == "" {
		if err := c.login(ctx); err != nil {
			return err
		}
	}

	resp, err := c.doAuthenticated(ctx, endpoint)
	if err != nil {
		return err
	}

	if resp.StatusCode == http.StatusUnauthorized {
		resp.Body.Close()
		c.debug("token expired, refreshing")

		c.mu.Lock()
		c.token = ""
		c.mu.Unlock()

		if err := c.login(ctx); err != nil {
			return err
		}
		if resp, err = c.doAuthenticated(ctx, endpoint); err != nil {
			return err
		}
	}
	defer resp.Body.Close()

	if err := checkResponse(resp); err != nil {
		return err
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", endpoint, err)
	}
	return nil
}

func (c *Client) doAuthenticated(ctx context.Context, endpoint string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.currentToken())
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	return resp, nil
}

// Search searches for series by name. Results keep TVDB's ranking.
// No matches is an empty slice, not an error.
func (c *Client) Search(ctx context.Context, query string) ([]SearchResult, error) {
	start := time.Now()

	var searchResp searchResponse
	endpoint := "/search?query=" + url.QueryEscape(query) + "&type=series"
	if err := c.get(ctx, endpoint, &searchResp); err != nil {
		if errors.Is(err, ErrNotFound) {
			return []SearchResult{}, nil
		}
		return nil, err
	}

	results := make([]SearchResult, 0, len(searchResp.Data))
	for _, item := range searchResp.Data {
		year, _ := strconv.Atoi(item.Year)
		results = append(results, SearchResult{
			ID:       searchItemID(item),
			Name:     item.Name,
			Year:     year,
			Status:   item.Status,
			Overview: item.Overview,
			Network:  item.Network,
		})
	}

	c.debug("search completed", "query", query, "results", len(results), "duration_ms", time.Since(start).Milliseconds())
	return results, nil
}

// searchItemID reads tvdb_id, falling back to objectID ("series-12345").
func searchItemID(item searchItem) int {
	if id, err := strconv.Atoi(item.TVDBID); err == nil && id != 0 {
		return id
	}
	if rest, ok := strings.CutPrefix(item.ObjectID, "series-"); ok {
		id, _ := strconv.Atoi(rest)
		return id
	}
	return 0
}

// GetSeries fetches the full series record by TVDB ID.
// Returns ErrNotFound if TVDB has no such series.
func (c *Client) GetSeries(ctx context.Context, id int) (*Series, error) {
	start := time.Now()

	var seriesResp seriesResponse
	if err := c.get(ctx, fmt.Sprintf("/series/%d", id), &seriesResp); err != nil {
		if errors.Is(err, ErrNotFound) {
			c.debug("series not found", "id", id)
		}
		return nil, err
	}

	data := seriesResp.Data
	var year int
	if len(data.FirstAired) >= 4 {
		year, _ = strconv.Atoi(data.FirstAired[:4])
	}

	series := &Series{
		ID:       data.ID,
		Name:     data.Name,
		Year:     year,
		Status:   data.Status.Name,
		Overview: data.Overview,
		Network:  data.OriginalNetwork.Name,
	}

	c.debug("fetched series", "id", id, "name", series.Name, "duration_ms", time.Since(start).Milliseconds())
	return series, nil
}

// checkResponse maps HTTP status codes to sentinel errors.
func checkResponse(resp *http.Response) error {
	switch resp.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusTooManyRequests:
		return ErrRateLimited
	default:
		return fmt.Errorf("TVDB API error: %s", resp.Status)
	}
}
