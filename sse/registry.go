package sse

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/skillsenselab/funcbox/logger"
	"github.com/skillsenselab/funcbox/telemetry"
)

// Conn describes one open stream.
type Conn struct {
	ID         string    `json:"id"`
	RemoteAddr string    `json:"remote_addr"`
	StartedAt  time.Time `json:"started_at"`
}

// Stats is a snapshot of the registry.
type Stats struct {
	ActiveStreams int    `json:"active_streams"`
	TotalStreams  int    `json:"total_streams"`
	Connections   []Conn `json:"connections"`
}

// Registry tracks open SSE streams so they can be counted and inspected.
type Registry struct {
	mu    sync.Mutex
	conns map[string]Conn
	total int
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{conns: make(map[string]Conn)}
}

// Register records a newly opened stream and returns a release function the
// caller must invoke when the stream closes.
func (r *Registry) Register(remoteAddr string) func() {
	conn := Conn{
		ID:         uuid.New().String(),
		RemoteAddr: remoteAddr,
		StartedAt:  time.Now().UTC(),
	}

	r.mu.Lock()
	r.conns[conn.ID] = conn
	r.total++
	r.mu.Unlock()

	telemetry.StreamOpened()
	logger.Debug("[SSE] Stream opened", map[string]interface{}{
		"conn_id":     conn.ID,
		"remote_addr": remoteAddr,
	})

	var once sync.Once
	return func() {
		once.Do(func() {
			r.mu.Lock()
			delete(r.conns, conn.ID)
			r.mu.Unlock()

			telemetry.StreamClosed()
			logger.Debug("[SSE] Stream closed", map[string]interface{}{
				"conn_id":  conn.ID,
				"duration": time.Since(conn.StartedAt).String(),
			})
		})
	}
}

// Stats returns a snapshot of the open and lifetime stream counts.
func (r *Registry) Stats() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()

	conns := make([]Conn, 0, len(r.conns))
	for _, c := range r.conns {
		conns = append(conns, c)
	}
	return Stats{
		ActiveStreams: len(r.conns),
		TotalStreams:  r.total,
		Connections:   conns,
	}
}
