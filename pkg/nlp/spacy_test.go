package nlp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/japaniel/vocabbuilder/internal/testutil"
	"github.com/japaniel/vocabbuilder/pkg/lemma"
)

// "Der Zug kommt an." as a German spaCy model parses it.
const ankommenBody = `{"tokens": [
  {"text": "Der",   "lemma": "der",    "pos": "DET",   "head": 1},
  {"text": "Zug",   "lemma": "Zug",    "pos": "NOUN",  "head": 2},
  {"text": "kommt", "lemma": "kommen", "pos": "VERB",  "head": 2},
  {"text": "an",    "lemma": "an",     "pos": "adp",   "head": 2},
  {"text": ".",     "lemma": "--",     "pos": "PUNCT", "head": 2}
]}`

func newSpacy(t *testing.T, h http.HandlerFunc) *SpacyClient {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c := NewSpacyClient(srv.URL, "", testutil.NewTestLogger())
	c.retryDelay = time.Millisecond
	return c
}

func TestSpacyClient_Tokenize(t *testing.T) {
	t.Parallel()

	c := newSpacy(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/parse", r.URL.Path)
		var req parseRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Der Zug kommt an.", req.Text)
		assert.Equal(t, DefaultSpacyModel, req.Model)
		w.Write([]byte(ankommenBody))
	})

	tokens, err := c.Tokenize(context.Background(), "Der Zug kommt an.")
	require.NoError(t, err)
	require.Len(t, tokens, 5)
	assert.Equal(t, lemma.Token{Index: 3, Text: "an", Lemma: "an", POS: "ADP", Head: 2}, tokens[3])
	assert.True(t, tokens[2].IsRoot(len(tokens)))

	got := lemma.ForLanguage("de", nil).Normalize(tokens)
	assert.Equal(t, []string{"Zug", "ankommen"}, got.Sorted())
}

func TestSpacyClient_NilLogger(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(ankommenBody))
	}))
	t.Cleanup(srv.Close)

	c := NewSpacyClient(srv.URL, "", nil)
	require.NotNil(t, c.log)
	tokens, err := c.Tokenize(context.Background(), "Der Zug kommt an.")
	require.NoError(t, err)
	assert.Len(t, tokens, 5)
}

func TestSpacyClient_Retry(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	c := newSpacy(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"tokens": []}`))
	})

	tokens, err := c.Tokenize(context.Background(), "x")
	require.NoError(t, err)
	assert.Empty(t, tokens)
	assert.Equal(t, int32(2), calls.Load())
}

func TestSpacyClient_Errors(t *testing.T) {
	t.Parallel()

	c := newSpacy(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
	})
	_, err := c.Tokenize(context.Background(), "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "422")

	c = newSpacy(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	})
	_, err = c.Tokenize(context.Background(), "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode")
}

func TestNew(t *testing.T) {
	e, err := New(Options{Engine: "spacy", URL: "http://nlp:9000/"}, testutil.NewTestLogger())
	require.NoError(t, err)
	sc, ok := e.(*SpacyClient)
	require.True(t, ok)
	assert.Equal(t, "http://nlp:9000", sc.baseURL)

	_, err = New(Options{Engine: "stanza"}, testutil.NewTestLogger())
	assert.Error(t, err)
}
