// Package sse provides Server-Sent Events streaming: response setup, the
// wire format, a poll loop for cursor-based sources, and a registry of open
// streams.
package sse

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/skillsenselab/funcbox/logger"
)

// DefaultPollInterval is how often a poll-driven stream checks its source
// for new events.
const DefaultPollInterval = 500 * time.Millisecond

// keepAliveInterval must stay below typical proxy idle timeouts (60s).
const keepAliveInterval = 15 * time.Second

// Event is a single SSE event. ID is echoed on the wire so clients can
// resume with Last-Event-ID after a reconnect.
type Event struct {
	ID   int
	Data []byte
}

// Stream wraps an http.ResponseWriter prepared for SSE output.
type Stream struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

// NewStream prepares w for SSE: it verifies flushing support, clears the
// server write deadline (SSE connections are long-lived and must outlive
// WriteTimeout), and sends the SSE headers.
func NewStream(w http.ResponseWriter) (*Stream, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, fmt.Errorf("sse: streaming not supported by response writer")
	}

	rc := http.NewResponseController(w)
	if err := rc.SetWriteDeadline(time.Time{}); err != nil {
		logger.Warn("[SSE] Could not clear write deadline", map[string]interface{}{
			"error": err.Error(),
		})
		// Keep going, keep-alives may still get through before the deadline.
	}

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no") // disable nginx buffering

	return &Stream{w: w, flusher: flusher}, nil
}

// Send writes one event with an id line and flushes.
func (s *Stream) Send(ev Event) {
	_, _ = fmt.Fprintf(s.w, "id: %d\ndata: %s\n\n", ev.ID, ev.Data)
	s.flusher.Flush()
}

// SendData writes a bare data event without an id line and flushes.
func (s *Stream) SendData(data []byte) {
	_, _ = fmt.Fprintf(s.w, "data: %s\n\n", data)
	s.flusher.Flush()
}

// Comment writes an SSE comment line (ignored by clients) and flushes.
func (s *Stream) Comment(text string) {
	_, _ = fmt.Fprintf(s.w, ": %s\n\n", text)
	s.flusher.Flush()
}

// Poll streams events from fetch until ctx is done. Every interval tick it
// asks fetch for events newer than the cursor and advances the cursor past
// whatever it sent. Keep-alive comments are emitted while the source is idle.
func (s *Stream) Poll(ctx context.Context, interval time.Duration, since int, fetch func(sinceID int) []Event) {
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	// Deliver the backlog before the first tick.
	since = s.sendBatch(fetch(since), since)

	poll := time.NewTicker(interval)
	defer poll.Stop()
	keepAlive := time.NewTicker(keepAliveInterval)
	defer keepAlive.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-poll.C:
			since = s.sendBatch(fetch(since), since)
		case <-keepAlive.C:
			s.Comment("keepalive " + strconv.FormatInt(time.Now().Unix(), 10))
		}
	}
}

func (s *Stream) sendBatch(events []Event, since int) int {
	for _, ev := range events {
		s.Send(ev)
		if ev.ID > since {
			since = ev.ID
		}
	}
	return since
}

// LastEventID parses the Last-Event-ID request header, returning 0 when the
// header is absent or malformed.
func LastEventID(r *http.Request) int {
	id, err := strconv.Atoi(r.Header.Get("Last-Event-ID"))
	if err != nil || id < 0 {
		return 0
	}
	return id
}
