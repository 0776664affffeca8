package sse

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/partyscore/internal/model"
	"github.com/mcoot/partyscore/internal/testutil"
)

func TestFormatSSEMessage(t *testing.T) {
	tests := []struct {
		name      string
		eventName string
		data      string
		expected  string
	}{
		{"single line data", "test-event", "hello world", "event: test-event\ndata: hello world\n\n"},
		{"multi-line data", "scoreboard-update", "{\n  \"a\": 1\n}", "event: scoreboard-update\ndata: {\ndata:   \"a\": 1\ndata: }\n\n"},
		{"empty data", "ping", "", "event: ping\ndata: \n\n"},
		{"data with carriage returns", "test", "line1\r\nline2", "event: test\ndata: line1\ndata: line2\n\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, string(formatSSEMessage(tt.eventName, tt.data)))
		})
	}
}

func TestHubBroadcastReachesClients(t *testing.T) {
	hub := NewHub(testutil.NopLogger())
	go hub.Run()
	defer hub.Close()

	a, b := NewClient(), NewClient()
	hub.Register(a)
	hub.Register(b)
	require.Eventually(t, func() bool { return hub.ClientCount() == 2 }, time.Second, 5*time.Millisecond)

	hub.BroadcastEvent("scoreboard-update", "{}")

	for _, c := range []*Client{a, b} {
		select {
		case msg := <-c.send:
			assert.Equal(t, "event: scoreboard-update\ndata: {}\n\n", string(msg))
		case <-time.After(time.Second):
			t.Fatal("client did not receive broadcast")
		}
	}

	hub.Unregister(a)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)
	_, open := <-a.send
	assert.False(t, open)
}

func TestHubCloseDisconnectsClients(t *testing.T) {
	hub := NewHub(testutil.NopLogger())
	go hub.Run()

	c := NewClient()
	hub.Register(c)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	hub.Close()
	hub.Close()

	select {
	case _, open := <-c.send:
		assert.False(t, open)
	case <-time.After(time.Second):
		t.Fatal("client channel was not closed")
	}
}

type fakeSource struct {
	standings []model.Standing
	history   []model.Event
}

func (f *fakeSource) Leaderboard(context.Context) ([]model.Standing, error) {
	return f.standings, nil
}

func (f *fakeSource) RecentHistory(context.Context, int) ([]model.Event, error) {
	return f.history, nil
}

func TestBroadcasterSnapshot(t *testing.T) {
	src := &fakeSource{
		standings: []model.Standing{{Rank: 1, Player: "Ada", Score: 10}},
	}
	b := NewBroadcaster(NewHub(testutil.NopLogger()), src, testutil.NopLogger())

	msg, err := b.Snapshot(context.Background())
	require.NoError(t, err)

	text := string(msg)
	require.True(t, strings.HasPrefix(text, "event: scoreboard-update\ndata: "))

	var payload UpdatePayload
	data := strings.TrimSuffix(strings.TrimPrefix(text, "event: scoreboard-update\ndata: "), "\n\n")
	require.NoError(t, json.Unmarshal([]byte(data), &payload))
	assert.Equal(t, []StandingPayload{{Rank: 1, Player: "Ada", Score: 10}}, payload.Leaderboard)
	assert.NotNil(t, payload.History)
}

// flushRecorder is an httptest.ResponseRecorder that is safe to read while
// ServeSSE is still writing
type flushRecorder struct {
	mu  sync.Mutex
	rec *httptest.ResponseRecorder
}

func (f *flushRecorder) Header() http.Header { return f.rec.Header() }

func (f *flushRecorder) Write(b []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rec.Write(b)
}

func (f *flushRecorder) WriteHeader(code int) { f.rec.WriteHeader(code) }

func (f *flushRecorder) Flush() {}

func (f *flushRecorder) body() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rec.Body.String()
}

func TestServeSSEStreamsBroadcasts(t *testing.T) {
	hub := NewHub(testutil.NopLogger())
	go hub.Run()
	defer hub.Close()

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/events", nil).WithContext(ctx)
	w := &flushRecorder{rec: httptest.NewRecorder()}

	done := make(chan struct{})
	go func() {
		ServeSSE(w, req, hub, []byte("event: scoreboard-update\ndata: initial\n\n"))
		close(done)
	}()

	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)
	hub.BroadcastEvent(EventScoreboardUpdate, "next")

	require.Eventually(t, func() bool {
		return strings.Contains(w.body(), "data: next")
	}, time.Second, 5*time.Millisecond)

	cancel()
	<-done

	body := w.body()
	assert.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))
	assert.Contains(t, body, "event: connected")
	assert.Less(t, strings.Index(body, "data: initial"), strings.Index(body, "data: next"))
}
