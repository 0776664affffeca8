package api_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mcoot/partyscore/internal/web/sse"
)

// streamRecorder captures an SSE stream and can be read while it is written
type streamRecorder struct {
	header http.Header
	mu     sync.Mutex
	buf    strings.Builder
	read   int
}

func (s *streamRecorder) Header() http.Header { return s.header }

func (s *streamRecorder) WriteHeader(int) {}

func (s *streamRecorder) Flush() {}

func (s *streamRecorder) Write(b []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.Write(b)
}

// next returns the next scoreboard-update message written after the last call
func (s *streamRecorder) next(t *testing.T) string {
	t.Helper()
	var msg string
	require.Eventually(t, func() bool {
		s.mu.Lock()
		defer s.mu.Unlock()
		rest := s.buf.String()[s.read:]
		idx := strings.Index(rest, "event: "+sse.EventScoreboardUpdate)
		if idx < 0 {
			return false
		}
		end := strings.Index(rest[idx:], "\n\n")
		if end < 0 {
			return false
		}
		msg = rest[idx : idx+end]
		s.read += idx + end + 2
		return true
	}, 2*time.Second, 10*time.Millisecond)
	return msg
}

// subscribe attaches a streaming client to the hub for the rest of the test
func subscribe(t *testing.T, hub *sse.Hub) *streamRecorder {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	rec := &streamRecorder{header: http.Header{}}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/events", nil).WithContext(ctx)

	before := hub.ClientCount()
	done := make(chan struct{})
	go func() {
		sse.ServeSSE(rec, req, hub, nil)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	require.Eventually(t, func() bool { return hub.ClientCount() > before }, time.Second, 5*time.Millisecond)
	return rec
}
