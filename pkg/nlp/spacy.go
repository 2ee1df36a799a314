package nlp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/japaniel/vocabbuilder/pkg/lemma"
)

const (
	DefaultSpacyURL   = "http://localhost:8080"
	DefaultSpacyModel = "de_core_news_sm"
)

// SpacyClient calls a small HTTP wrapper around spaCy:
//
//	POST {url}/parse {"text": "...", "model": "..."}
//	-> {"tokens": [{"text", "lemma", "pos", "head"}]}
type SpacyClient struct {
	baseURL    string
	model      string
	httpClient *http.Client
	retryDelay time.Duration
	log        *slog.Logger
}

// NewSpacyClient creates a client; empty arguments fall back to the defaults
// and a nil logger to slog.Default.
func NewSpacyClient(baseURL, model string, logger *slog.Logger) *SpacyClient {
	if logger == nil {
		logger = slog.Default()
	}
	if baseURL == "" {
		baseURL = DefaultSpacyURL
	}
	if model == "" {
		model = DefaultSpacyModel
	}
	return &SpacyClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      model,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		retryDelay: 500 * time.Millisecond,
		log:        logger.With("adapter", "spacy"),
	}
}

type parseRequest struct {
	Text  string `json:"text"`
	Model string `json:"model"`
}

type parseToken struct {
	Text  string `json:"text"`
	Lemma string `json:"lemma"`
	POS   string `json:"pos"`
	Head  int    `json:"head"`
}

type parseResponse struct {
	Tokens []parseToken `json:"tokens"`
}

// Tokenize implements Engine.
func (c *SpacyClient) Tokenize(ctx context.Context, sentence string) ([]lemma.Token, error) {
	body, err := json.Marshal(parseRequest{Text: sentence, Model: c.model})
	if err != nil {
		return nil, fmt.Errorf("spacy: encode request: %w", err)
	}

	resp, err := c.doWithRetry(ctx, body)
	if err != nil {
		return nil, fmt.Errorf("spacy: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("spacy: unexpected status %d", resp.StatusCode)
	}

	var parsed parseResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("spacy: decode json: %w", err)
	}

	tokens := make([]lemma.Token, len(parsed.Tokens))
	for i, t := range parsed.Tokens {
		tokens[i] = lemma.Token{
			Index: i,
			Text:  t.Text,
			Lemma: t.Lemma,
			POS:   strings.ToUpper(t.POS),
			Head:  t.Head,
		}
	}

	c.log.DebugContext(ctx, "spacy parse", slog.Int("tokens", len(tokens)))
	return tokens, nil
}

// doWithRetry posts body with a single retry on 5xx or network errors.
func (c *SpacyClient) doWithRetry(ctx context.Context, body []byte) (*http.Response, error) {
	do := func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/parse", bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		return c.httpClient.Do(req)
	}

	resp, err := do()
	shouldRetry := err != nil || (resp != nil && resp.StatusCode >= 500)
	if !shouldRetry || ctx.Err() != nil {
		return resp, err
	}

	reason := "network error"
	if err == nil && resp != nil {
		reason = fmt.Sprintf("status %d", resp.StatusCode)
	}
	c.log.WarnContext(ctx, "spacy retry", slog.String("reason", reason))

	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(c.retryDelay):
	}
	return do()
}
