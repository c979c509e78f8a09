package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/robalobadob/scrambler/internal/catalog"
	"github.com/robalobadob/scrambler/internal/round"
	"github.com/robalobadob/scrambler/internal/scramble"
	"github.com/robalobadob/scrambler/internal/store"
)

func TestMain(m *testing.M) {
	log.Logger = zerolog.Nop()
	goleak.VerifyTestMain(m)
}

var fixedNow = time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cat, err := catalog.Load("")
	require.NoError(t, err)

	eng := round.NewEngine(cat, scramble.Seeded(7))
	eng.DailySalt = "test-salt"
	eng.Now = func() time.Time { return fixedNow }
	n := 0
	eng.NewID = func() string {
		n++
		return fmt.Sprintf("round-%d", n)
	}

	return New(Options{
		Store:          store.NewMemoryStore(),
		Engine:         eng,
		ClientOrigin:   "http://localhost:5175",
		HistoryDisplay: 5,
	})
}

// client replays the session cookie like a browser would.
type client struct {
	t       *testing.T
	h       http.Handler
	cookies []*http.Cookie
}

func newClient(t *testing.T, s *Server) *client {
	return &client{t: t, h: s.Handler()}
}

func (c *client) do(method, path string, body any) *httptest.ResponseRecorder {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, ck := range c.cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	c.h.ServeHTTP(rec, req)
	if set := rec.Result().Cookies(); len(set) > 0 {
		c.cookies = set
	}
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[map[string]string](t, rec)["error"]
}

func TestHealth(t *testing.T) {
	c := newClient(t, newTestServer(t))
	rec := c.do(http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]bool{"ok": true}, decode[map[string]bool](t, rec))
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")
}

func TestNotFoundIsJSON(t *testing.T) {
	c := newClient(t, newTestServer(t))
	rec := c.do(http.MethodGet, "/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	body := decode[map[string]string](t, rec)
	assert.Equal(t, "not_found", body["error"])
	assert.Equal(t, "/nope", body["path"])
}

func TestDebugCatalog(t *testing.T) {
	c := newClient(t, newTestServer(t))
	rec := c.do(http.MethodGet, "/debug/catalog", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]int{"easy": 10, "medium": 10, "hard": 10}, decode[map[string]int](t, rec))
}

func TestCatalogEndpoint(t *testing.T) {
	c := newClient(t, newTestServer(t))
	rec := c.do(http.MethodGet, "/api/catalog", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	res := decode[catalogRes](t, rec)
	require.Len(t, res.Tiers, 3)
	assert.Equal(t, catalog.Easy, res.Tiers[0].Tier)
	assert.Equal(t, "Easy (3-5 words)", res.Tiers[0].Label)
	assert.Equal(t, "The cat is sleeping.", res.Tiers[0].Sentences[0])
	assert.Equal(t, catalog.Hard, res.Tiers[2].Tier)
}

func TestRoundFlow(t *testing.T) {
	c := newClient(t, newTestServer(t))

	rec := c.do(http.MethodGet, "/api/round", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, c.cookies, 1, "first request sets the session cookie")
	assert.Equal(t, "scrambler_session", c.cookies[0].Name)
	view := decode[roundView](t, rec)
	assert.Equal(t, round.PhaseIdle, view.Phase)
	assert.Empty(t, view.Words)

	rec = c.do(http.MethodPost, "/api/round/new", newRoundReq{Mode: "catalog", Tier: "easy", Index: 0})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	view = decode[roundView](t, rec)
	assert.Equal(t, round.PhaseScrambled, view.Phase)
	assert.Equal(t, "round-1", view.RoundID)
	assert.Equal(t, "Easy (3-5 words)", view.TierLabel)
	assert.ElementsMatch(t, []string{"The", "cat", "is", "sleeping"}, view.Words)
	assert.Equal(t, []string{"."}, view.Punctuation)
	assert.Empty(t, view.Original, "answer stays hidden until revealed")

	rec = c.do(http.MethodPost, "/api/round/answer", answerReq{Answer: "the cat is sleeping"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[answerRes](t, rec).Correct)

	rec = c.do(http.MethodPost, "/api/round/answer", answerReq{Answer: "cat the is sleeping"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decode[answerRes](t, rec).Correct)

	// Checking an answer does not change the round.
	rec = c.do(http.MethodGet, "/api/round", nil)
	assert.Equal(t, round.PhaseScrambled, decode[roundView](t, rec).Phase)

	rec = c.do(http.MethodPost, "/api/round/reveal", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	view = decode[roundView](t, rec)
	assert.Equal(t, round.PhaseRevealed, view.Phase)
	assert.Equal(t, "The cat is sleeping.", view.Original)

	rec = c.do(http.MethodGet, "/api/round/worksheet", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	ws := decode[worksheetRes](t, rec)
	assert.Equal(t, "Easy (3-5 words)", ws.Difficulty)
	assert.Equal(t, "The cat is sleeping.", ws.Answer)
	assert.Contains(t, ws.Text, "Print Version\n")
	assert.Contains(t, ws.Text, "Generated on: 2026-10-18 09:30:00\n")

	// A new sentence goes back to Scrambled.
	rec = c.do(http.MethodPost, "/api/round/new", newRoundReq{Mode: "random", Tier: "hard"})
	require.Equal(t, http.StatusOK, rec.Code)
	view = decode[roundView](t, rec)
	assert.Equal(t, round.PhaseScrambled, view.Phase)
	assert.Equal(t, catalog.Hard, view.Tier)
	assert.Equal(t, "round-2", view.RoundID)
}

func TestNewRoundDefaults(t *testing.T) {
	c := newClient(t, newTestServer(t))

	// Empty body: random pick from the session tier (easy).
	rec := c.do(http.MethodPost, "/api/round/new", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	view := decode[roundView](t, rec)
	assert.Equal(t, catalog.Easy, view.Tier)
	assert.NotEmpty(t, view.Words)

	rec = c.do(http.MethodPost, "/api/round/new", newRoundReq{Mode: "daily", Tier: "Medium"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, catalog.Medium, decode[roundView](t, rec).Tier)

	// The tier sticks to the session.
	rec = c.do(http.MethodPost, "/api/round/new", newRoundReq{})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, catalog.Medium, decode[roundView](t, rec).Tier)
}

func TestNewRoundErrors(t *testing.T) {
	tests := []struct {
		name   string
		req    newRoundReq
		status int
		code   string
	}{
		{"blank custom", newRoundReq{Mode: "custom", Text: "  \n\t"}, http.StatusBadRequest, "empty_sentence"},
		{"unknown tier", newRoundReq{Mode: "random", Tier: "impossible"}, http.StatusBadRequest, "bad_tier"},
		{"tier with trailing words", newRoundReq{Mode: "random", Tier: "easy peasy nonsense"}, http.StatusBadRequest, "bad_tier"},
		{"catalog index", newRoundReq{Mode: "catalog", Tier: "easy", Index: 10}, http.StatusBadRequest, "out_of_range"},
		{"negative index", newRoundReq{Mode: "catalog", Tier: "easy", Index: -1}, http.StatusBadRequest, "out_of_range"},
		{"empty history", newRoundReq{Mode: "history", Index: 0}, http.StatusBadRequest, "out_of_range"},
		{"unknown mode", newRoundReq{Mode: "lottery"}, http.StatusBadRequest, "bad_mode"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := newClient(t, newTestServer(t))
			rec := c.do(http.MethodPost, "/api/round/new", tc.req)
			assert.Equal(t, tc.status, rec.Code)
			assert.Equal(t, tc.code, errorCode(t, rec))

			// Failed selections leave the session idle.
			rec = c.do(http.MethodGet, "/api/round", nil)
			assert.Equal(t, round.PhaseIdle, decode[roundView](t, rec).Phase)
		})
	}
}

func TestBadJSON(t *testing.T) {
	s := newTestServer(t)
	for _, path := range []string{"/api/round/new", "/api/round/answer"} {
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader("{nope"))
		rec := httptest.NewRecorder()
		s.Handler().ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code, path)
		assert.Equal(t, "bad_json", errorCode(t, rec), path)
	}
}

func TestActionsNeedRound(t *testing.T) {
	c := newClient(t, newTestServer(t))

	rec := c.do(http.MethodPost, "/api/round/answer", answerReq{Answer: "hello"})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "no_round", errorCode(t, rec))

	rec = c.do(http.MethodPost, "/api/round/reveal", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "no_round", errorCode(t, rec))

	rec = c.do(http.MethodGet, "/api/round/worksheet", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "no_round", errorCode(t, rec))
}

func TestEmptyAnswer(t *testing.T) {
	c := newClient(t, newTestServer(t))
	rec := c.do(http.MethodPost, "/api/round/new", newRoundReq{Mode: "catalog", Tier: "easy", Index: 1})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = c.do(http.MethodPost, "/api/round/answer", answerReq{Answer: "   "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "empty_answer", errorCode(t, rec))
}

func TestCustomHistory(t *testing.T) {
	c := newClient(t, newTestServer(t))
	long := "This is a rather long custom sentence for the class."

	for _, text := range []string{"We read books.", long, "We read books."} {
		rec := c.do(http.MethodPost, "/api/round/new", newRoundReq{Mode: "custom", Text: text})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}

	rec := c.do(http.MethodGet, "/api/round", nil)
	view := decode[roundView](t, rec)
	require.Len(t, view.History, 2, "duplicates are remembered once")
	assert.Equal(t, historyItem{Index: 0, Text: "We read books.", Short: "We read books."}, view.History[0])
	assert.Equal(t, long, view.History[1].Text)
	assert.Equal(t, "This is a rather long custom s...", view.History[1].Short)

	rec = c.do(http.MethodPost, "/api/round/new", newRoundReq{Mode: "history", Index: 1})
	require.Equal(t, http.StatusOK, rec.Code)
	rec = c.do(http.MethodPost, "/api/round/reveal", nil)
	assert.Equal(t, long, decode[roundView](t, rec).Original)
}

func TestSessionsAreIsolated(t *testing.T) {
	s := newTestServer(t)
	alice := newClient(t, s)
	bob := newClient(t, s)

	rec := alice.do(http.MethodPost, "/api/round/new", newRoundReq{Mode: "custom", Text: "Alice has a cat."})
	require.Equal(t, http.StatusOK, rec.Code)
	rec = bob.do(http.MethodGet, "/api/round", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	require.NotEqual(t, alice.cookies[0].Value, bob.cookies[0].Value)

	view := decode[roundView](t, bob.do(http.MethodGet, "/api/round", nil))
	assert.Equal(t, round.PhaseIdle, view.Phase)
	assert.Empty(t, view.History)

	rec = alice.do(http.MethodPost, "/api/round/reveal", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Alice has a cat.", decode[roundView](t, rec).Original)
}

func TestPages(t *testing.T) {
	c := newClient(t, newTestServer(t))

	rec := c.do(http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "Welcome to Sentence Scrambler!")
	assert.Contains(t, rec.Body.String(), "Easy (3-5 words)")
	assert.Contains(t, rec.Body.String(), "Generated on: 2026-10-18 09:30:00")

	rec = c.do(http.MethodGet, "/print", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = c.do(http.MethodPost, "/api/round/new", newRoundReq{Mode: "custom", Text: "Bob & Sue <3 recess."})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = c.do(http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `<span class="word-card">recess</span>`)
	assert.Contains(t, body, "Teaching Tips")
	assert.NotContains(t, body, "Original Sentence:")

	c.do(http.MethodPost, "/api/round/reveal", nil)
	rec = c.do(http.MethodGet, "/", nil)
	assert.Contains(t, rec.Body.String(), "Bob &amp; Sue &lt;3 recess.", "sentences are HTML-escaped")

	rec = c.do(http.MethodGet, "/print", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body = rec.Body.String()
	assert.Contains(t, body, "Scrambled Words:")
	assert.Contains(t, body, "Generated on: 2026-10-18 09:30:00")
}

func TestStatic(t *testing.T) {
	c := newClient(t, newTestServer(t))
	rec := c.do(http.MethodGet, "/static/app.js", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/api/round/new")
}

func TestCORSPreflight(t *testing.T) {
	c := newClient(t, newTestServer(t))
	rec := c.do(http.MethodOptions, "/api/round/new", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:5175", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
}

func TestRunStopsOnCancel(t *testing.T) {
	s := newTestServer(t)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx, "127.0.0.1:0") }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestIdleSessionsAreEvicted(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	// Every cookie-less request starts a new session.
	for i := 0; i < 50; i++ {
		rec := newClient(t, s).do(http.MethodPost, "/api/round/new", nil)
		require.Equal(t, http.StatusOK, rec.Code)
	}
	c := newClient(t, s)
	rec := c.do(http.MethodPost, "/api/round/new", newRoundReq{Mode: "custom", Text: "Keep me."})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = c.do(http.MethodGet, "/debug/sessions", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]int{"sessions": 51}, decode[map[string]int](t, rec))

	assert.Zero(t, s.evictIdle(ctx, time.Now()), "recent sessions stay")
	assert.Equal(t, 51, s.evictIdle(ctx, time.Now().Add(defaultSessionTTL+time.Minute)))
	assert.Zero(t, s.store.Len())

	rec = c.do(http.MethodGet, "/api/round", nil)
	view := decode[roundView](t, rec)
	assert.Equal(t, round.PhaseIdle, view.Phase, "an evicted visitor starts over")
	assert.Empty(t, view.History)
}

func TestSessionTTLOption(t *testing.T) {
	s := newTestServer(t)
	assert.Equal(t, defaultSessionTTL, s.opts.SessionTTL)

	cat, err := catalog.Load("")
	require.NoError(t, err)
	short := New(Options{Store: store.NewMemoryStore(), Engine: round.NewEngine(cat, nil), SessionTTL: time.Minute})
	rec := newClient(t, short).do(http.MethodPost, "/api/round/new", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Zero(t, short.evictIdle(context.Background(), time.Now().Add(30*time.Second)))
	assert.Equal(t, 1, short.evictIdle(context.Background(), time.Now().Add(2*time.Minute)))
}
