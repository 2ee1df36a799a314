// Package libre talks to a LibreTranslate server, the HTTP front end of
// Argos Translate.
package libre

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"sync"
	"time"
)

const (
	DefaultBaseURL = "http://localhost:5000"

	defaultTimeout    = 30 * time.Second
	defaultRetryDelay = 500 * time.Millisecond
)

// ErrUnsupportedPair is returned by Install when the server has no model for
// the configured language pair.
var ErrUnsupportedPair = errors.New("language pair not available")

// Client translates single words or short phrases through LibreTranslate.
type Client struct {
	baseURL    string
	apiKey     string
	from, to   string
	httpClient *http.Client
	retryDelay time.Duration
	log        *slog.Logger

	mu        sync.Mutex
	installed bool
}

// Option customizes a Client.
type Option func(*Client)

// WithAPIKey sets the api_key sent with every translation.
func WithAPIKey(key string) Option {
	return func(c *Client) { c.apiKey = key }
}

// WithHTTPClient replaces the default client (30s timeout).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithRetryDelay sets the pause before the single retry.
func WithRetryDelay(d time.Duration) Option {
	return func(c *Client) { c.retryDelay = d }
}

// NewClient creates a client translating from -> to. An empty baseURL means
// DefaultBaseURL.
func NewClient(baseURL, from, to string, logger *slog.Logger, opts ...Option) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		from:       from,
		to:         to,
		httpClient: &http.Client{Timeout: defaultTimeout},
		retryDelay: defaultRetryDelay,
		log:        logger.With("adapter", "libretranslate"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type language struct {
	Code    string   `json:"code"`
	Name    string   `json:"name"`
	Targets []string `json:"targets"`
}

// Install makes sure the server can translate the configured pair. Models are
// installed server side, so this only verifies availability. Once it has
// succeeded further calls return immediately.
func (c *Client) Install(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.installed {
		return nil
	}

	resp, err := c.doWithRetry(ctx, "languages", func() (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/languages", nil)
	})
	if err != nil {
		return fmt.Errorf("libretranslate: list languages: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("libretranslate: list languages: unexpected status %d", resp.StatusCode)
	}

	var langs []language
	if err := json.NewDecoder(resp.Body).Decode(&langs); err != nil {
		return fmt.Errorf("libretranslate: decode languages: %w", err)
	}
	if !supports(langs, c.from, c.to) {
		return fmt.Errorf("libretranslate: %s -> %s: %w", c.from, c.to, ErrUnsupportedPair)
	}

	c.log.DebugContext(ctx, "language pair available", slog.String("from", c.from), slog.String("to", c.to))
	c.installed = true
	return nil
}

// supports checks the targets list when the server reports one and falls back
// to plain presence of both codes for servers that don't.
func supports(langs []language, from, to string) bool {
	var hasFrom, hasTo bool
	for _, l := range langs {
		switch l.Code {
		case from:
			hasFrom = true
			if l.Targets != nil {
				return slices.Contains(l.Targets, to)
			}
		case to:
			hasTo = true
		}
	}
	return hasFrom && hasTo
}

type translateRequest struct {
	Q      string `json:"q"`
	Source string `json:"source"`
	Target string `json:"target"`
	Format string `json:"format"`
	APIKey string `json:"api_key,omitempty"`
}

type translateResponse struct {
	TranslatedText string `json:"translatedText"`
	Error          string `json:"error"`
}

// Translate returns the server's translation of text. The result is absent
// only when the server answers with an empty translation.
func (c *Client) Translate(ctx context.Context, text string) (string, bool, error) {
	body, err := json.Marshal(translateRequest{
		Q:      text,
		Source: c.from,
		Target: c.to,
		Format: "text",
		APIKey: c.apiKey,
	})
	if err != nil {
		return "", false, fmt.Errorf("libretranslate: encode request: %w", err)
	}

	c.log.DebugContext(ctx, "libretranslate request", slog.String("text", text))

	resp, err := c.doWithRetry(ctx, text, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/translate", bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	})
	if err != nil {
		c.log.ErrorContext(ctx, "libretranslate request failed", slog.String("text", text), slog.String("error", err.Error()))
		return "", false, fmt.Errorf("libretranslate: request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", false, fmt.Errorf("libretranslate: read body: %w", err)
	}

	var out translateResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		if resp.StatusCode != http.StatusOK {
			return "", false, fmt.Errorf("libretranslate: unexpected status %d", resp.StatusCode)
		}
		return "", false, fmt.Errorf("libretranslate: decode json: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		if out.Error != "" {
			return "", false, fmt.Errorf("libretranslate: status %d: %s", resp.StatusCode, out.Error)
		}
		return "", false, fmt.Errorf("libretranslate: unexpected status %d", resp.StatusCode)
	}

	res := strings.TrimSpace(out.TranslatedText)
	return res, res != "", nil
}

// doWithRetry executes the request with a single retry on 5xx or network errors.
// newReq is called per attempt so request bodies can be replayed.
func (c *Client) doWithRetry(ctx context.Context, subject string, newReq func() (*http.Request, error)) (*http.Response, error) {
	req, err := newReq()
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	resp, err := c.httpClient.Do(req)

	shouldRetry := err != nil || (resp != nil && resp.StatusCode >= 500)
	if !shouldRetry || ctx.Err() != nil {
		return resp, err
	}

	reason := "network error"
	if err == nil && resp != nil {
		reason = fmt.Sprintf("status %d", resp.StatusCode)
	}
	c.log.WarnContext(ctx, "libretranslate retry", slog.String("subject", subject), slog.String("reason", reason))

	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(c.retryDelay):
	}

	req, err = newReq()
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	return c.httpClient.Do(req)
}
