package sse

import (
	"net/http"
	"time"

	"github.com/google/uuid"
)

const (
	// Time between keepalive pings
	pingPeriod = 30 * time.Second

	// Buffer size for outgoing messages
	sendBufferSize = 256
)

// Client represents a connected SSE client
type Client struct {
	id          string
	send        chan []byte
	connectedAt time.Time
}

// NewClient creates a new SSE client with a random id
func NewClient() *Client {
	return &Client{
		id:          uuid.NewString(),
		send:        make(chan []byte, sendBufferSize),
		connectedAt: time.Now(),
	}
}

// ID returns the client's id
func (c *Client) ID() string {
	return c.id
}

// ServeSSE streams hub events to the client until it disconnects. initial,
// when non-nil, is written straight after the connected event so a fresh
// client does not wait for the next change.
func ServeSSE(w http.ResponseWriter, r *http.Request, hub *Hub, initial []byte) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("X-Accel-Buffering", "no") // Disable nginx buffering

	client := NewClient()
	hub.Register(client)
	defer hub.Unregister(client)

	_, _ = w.Write([]byte("retry: 3000\n\nevent: connected\ndata: {\"status\":\"connected\"}\n\n"))
	if initial != nil {
		_, _ = w.Write(initial)
	}
	flusher.Flush()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case message, ok := <-client.send:
			if !ok {
				return
			}
			if _, err := w.Write(message); err != nil {
				return
			}
			flusher.Flush()

		case <-ticker.C:
			if _, err := w.Write([]byte(": keepalive\n\n")); err != nil {
				return
			}
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}
