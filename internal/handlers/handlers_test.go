package handlers

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aaronzipp/distance-resistance/internal/render"
	"github.com/aaronzipp/distance-resistance/internal/sse"
	"github.com/aaronzipp/distance-resistance/internal/store"
)

func newTestContext() *Context {
	return &Context{
		Registry:      store.NewRegistry(store.Options{}),
		Hub:           sse.NewHub(8, 50*time.Millisecond),
		PublicBaseURL: "http://example.test",
	}
}

func do(t *testing.T, h http.Handler, method, path, key string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if key != "" {
		req.Header.Set(playerKeyHeader, key)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

// createAndJoin creates a session and joins every seat; keys are in seat order
func createAndJoin(t *testing.T, h http.Handler, headcount int) (string, []string) {
	t.Helper()
	rec := do(t, h, http.MethodPost, "/sessions", "", map[string]int{"headcount": headcount})
	require.Equal(t, http.StatusCreated, rec.Code)
	id := decodeBody[map[string]string](t, rec)["id"]

	keys := make([]string, headcount)
	for i := range keys {
		rec := do(t, h, http.MethodPost, "/sessions/"+id+"/join", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		joined := decodeBody[struct {
			Key  string `json:"key"`
			Seat int    `json:"seat"`
		}](t, rec)
		require.Equal(t, i, joined.Seat)
		keys[i] = joined.Key
	}
	return id, keys
}

func TestCreateSessionValidation(t *testing.T) {
	h := newTestContext().Routes()

	rec := do(t, h, http.MethodPost, "/sessions", "", map[string]int{"headcount": 4})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_headcount", decodeBody[map[string]string](t, rec)["kind"])

	rec = do(t, h, http.MethodPost, "/sessions", "", map[string]string{"players": "five"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodGet, "/sessions/NOPE00", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "session_not_found", decodeBody[map[string]string](t, rec)["kind"])
}

func TestJoinSetsCookieAndFillsSeats(t *testing.T) {
	h := newTestContext().Routes()
	id, _ := createAndJoin(t, h, 5)

	rec := do(t, h, http.MethodPost, "/sessions/"+id+"/join", "", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "no_spots_available", decodeBody[map[string]string](t, rec)["kind"])

	rec = do(t, h, http.MethodGet, "/sessions/"+id, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	view := decodeBody[render.Session](t, rec)
	assert.Len(t, view.Seats, 5)
	for _, seat := range view.Seats {
		assert.True(t, seat.Claimed)
	}
}

func TestLowercaseIDRedirectsToCanonicalPath(t *testing.T) {
	tc := newTestContext()
	tc.Registry = store.NewRegistry(store.Options{NewID: func(int) string { return "ABC234" }})
	h := tc.Routes()
	rec := do(t, h, http.MethodPost, "/sessions", "", map[string]int{"headcount": 5})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, h, http.MethodPost, "/sessions/abc234/join", "", nil)
	assert.Equal(t, http.StatusPermanentRedirect, rec.Code)
	assert.Equal(t, "/sessions/ABC234/join", rec.Header().Get("Location"))
	assert.Empty(t, rec.Result().Cookies())
	snap, err := tc.Registry.Get("ABC234")
	require.NoError(t, err)
	assert.Zero(t, snap.Joined())

	rec = do(t, h, http.MethodGet, "/sessions/abc234?view=public", "", nil)
	assert.Equal(t, http.StatusPermanentRedirect, rec.Code)
	assert.Equal(t, "/sessions/ABC234?view=public", rec.Header().Get("Location"))

	rec = do(t, h, http.MethodGet, "/sessions/zzz999/me", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "session_not_found", decodeBody[map[string]string](t, rec)["kind"])
}

func TestCookieIdentifiesPlayer(t *testing.T) {
	h := newTestContext().Routes()
	rec := do(t, h, http.MethodPost, "/sessions", "", map[string]int{"headcount": 5})
	id := decodeBody[map[string]string](t, rec)["id"]

	rec = do(t, h, http.MethodPost, "/sessions/"+id+"/join", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, playerKeyCookie, cookies[0].Name)
	assert.Equal(t, "/sessions/"+id, cookies[0].Path)

	req := httptest.NewRequest(http.MethodGet, "/sessions/"+id+"/me", nil)
	req.AddCookie(cookies[0])
	me := httptest.NewRecorder()
	h.ServeHTTP(me, req)
	require.Equal(t, http.StatusOK, me.Code)
	assert.Equal(t, 0, decodeBody[render.Player](t, me).Seat)
}

func TestFullRoundOverHTTP(t *testing.T) {
	h := newTestContext().Routes()
	id, keys := createAndJoin(t, h, 5)
	base := "/sessions/" + id

	rec := do(t, h, http.MethodPut, base+"/name", keys[0], map[string]string{"name": "Alice"})
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, h, http.MethodPost, base+"/start", "", nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, h, http.MethodPut, base+"/name", keys[1], map[string]string{"name": "Bob"})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "name_change_after_start", decodeBody[map[string]string](t, rec)["kind"])

	rec = do(t, h, http.MethodPost, base+"/approvals", keys[0], map[string]bool{"approve": true})
	assert.Equal(t, "wrong_phase", decodeBody[map[string]string](t, rec)["kind"])

	rec = do(t, h, http.MethodPost, base+"/operatives", keys[1], map[string][]int{"seats": {0, 1}})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = do(t, h, http.MethodPost, base+"/operatives", keys[0], map[string][]int{"seats": {0}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPost, base+"/operatives", keys[0], map[string][]int{"seats": {0, 1}})
	require.Equal(t, http.StatusNoContent, rec.Code)

	for i, k := range keys {
		rec = do(t, h, http.MethodPost, base+"/approvals", k, map[string]bool{"approve": i < 2})
		require.Equal(t, http.StatusNoContent, rec.Code)
	}

	rec = do(t, h, http.MethodGet, base, "", nil)
	view := decodeBody[render.Session](t, rec)
	assert.Equal(t, "Alice", view.Seats[0].Name)
	assert.Equal(t, 1, view.Rejections)

	rec = do(t, h, http.MethodPost, base+"/mission", keys[4], map[string]bool{"passed": true})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = do(t, h, http.MethodPost, base+"/mission", keys[0], map[string]any{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	for _, k := range keys[:2] {
		rec = do(t, h, http.MethodPost, base+"/mission", k, map[string]bool{"passed": true})
		require.Equal(t, http.StatusNoContent, rec.Code)
	}

	rec = do(t, h, http.MethodGet, base+"/me", keys[1], nil)
	require.Equal(t, http.StatusOK, rec.Code)
	me := decodeBody[render.Player](t, rec)
	assert.Equal(t, 1, me.Wins)
	assert.Equal(t, 1, me.Round)
	assert.Equal(t, 1, me.Leader)
	assert.Equal(t, 1, me.Seat)
}

func TestUnknownKeyIsUnauthorized(t *testing.T) {
	h := newTestContext().Routes()
	id, _ := createAndJoin(t, h, 5)

	rec := do(t, h, http.MethodGet, "/sessions/"+id+"/me", "forged", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	rec = do(t, h, http.MethodGet, "/sessions/"+id+"/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestQRCode(t *testing.T) {
	h := newTestContext().Routes()
	id, _ := createAndJoin(t, h, 5)

	rec := do(t, h, http.MethodGet, "/sessions/"+id+"/qr", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("\x89PNG")))
}

func TestHealthAndMetrics(t *testing.T) {
	h := newTestContext().Routes()
	rec := do(t, h, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "resistance_sessions_created_total")
}

func TestRateLimit(t *testing.T) {
	ctx := newTestContext()
	ctx.RateLimitPerMinute = 2
	h := ctx.Routes()

	codes := make([]int, 3)
	for i := range codes {
		codes[i] = do(t, h, http.MethodPost, "/sessions", "", map[string]int{"headcount": 5}).Code
	}
	assert.Equal(t, []int{http.StatusCreated, http.StatusCreated, http.StatusTooManyRequests}, codes)
}

func TestEventsStreamUpdates(t *testing.T) {
	tc := newTestContext()
	srv := httptest.NewServer(tc.Routes())
	defer srv.Close()
	defer tc.Hub.Close()

	id, keys := createAndJoin(t, tc.Routes(), 5)

	reqCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, srv.URL+"/sessions/"+id+"/events", nil)
	require.NoError(t, err)
	req.Header.Set(playerKeyHeader, keys[2])
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	readEvent := func() (string, string) {
		var event, data string
		for {
			line, err := reader.ReadString('\n')
			require.NoError(t, err)
			line = strings.TrimRight(line, "\n")
			switch {
			case strings.HasPrefix(line, "event: "):
				event = strings.TrimPrefix(line, "event: ")
			case strings.HasPrefix(line, "data: "):
				data = strings.TrimPrefix(line, "data: ")
			case line == "":
				return event, data
			}
		}
	}

	event, data := readEvent()
	assert.Equal(t, sse.EventStateUpdate, event)
	assert.Contains(t, data, `"seat":2`)

	require.Eventually(t, func() bool { return tc.Hub.ClientCount(id) == 1 }, time.Second, 10*time.Millisecond)

	rec := do(t, tc.Routes(), http.MethodPost, fmt.Sprintf("/sessions/%s/start", id), "", nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	event, data = readEvent()
	assert.Equal(t, sse.EventStateUpdate, event)
	assert.Contains(t, data, `"started":true`)
	assert.Contains(t, data, `"role":`)
}
