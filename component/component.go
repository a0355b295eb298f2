// Package component defines the contracts demo applications implement and a
// registry the CLI uses to look them up by name.
package component

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/gin-gonic/gin"
)

// HealthStatus represents the health state of an app or one of its dependencies.
type HealthStatus string

const (
	StatusHealthy   HealthStatus = "healthy"
	StatusUnhealthy HealthStatus = "unhealthy"
	StatusDegraded  HealthStatus = "degraded"
)

// Health holds health information for a component.
type Health struct {
	Name    string       `json:"name"`
	Status  HealthStatus `json:"status"`
	Message string       `json:"message,omitempty"`
}

// App is a self-contained demo application that mounts its routes on a
// shared Gin engine.
type App interface {
	// Name returns the unique name used by `funcbox serve <name>`.
	Name() string

	// Description is a one-liner shown by `funcbox apps`.
	Description() string

	// Register mounts the app's routes.
	Register(r gin.IRouter)
}

// Lifecycle is optionally implemented by apps that hold resources
// (database connections, background goroutines).
type Lifecycle interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

// HealthReporter is optionally implemented by apps whose health depends on
// external state. Apps without dependencies are assumed healthy.
type HealthReporter interface {
	Health(ctx context.Context) Health
}

// Registry is a thread-safe registry of named apps.
type Registry struct {
	mu   sync.RWMutex
	apps map[string]App
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{apps: make(map[string]App)}
}

// Register adds an app. Registering a duplicate name is a programmer error.
func (r *Registry) Register(app App) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.apps[app.Name()]; exists {
		return fmt.Errorf("component: app %q already registered", app.Name())
	}
	r.apps[app.Name()] = app
	return nil
}

// Get returns the app registered under name.
func (r *Registry) Get(name string) (App, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	app, ok := r.apps[name]
	return app, ok
}

// Names returns all registered app names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.apps))
	for name := range r.apps {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// All returns all registered apps in name order.
func (r *Registry) All() []App {
	r.mu.RLock()
	defer r.mu.RUnlock()
	apps := make([]App, 0, len(r.apps))
	for _, app := range r.apps {
		apps = append(apps, app)
	}
	sort.Slice(apps, func(i, j int) bool { return apps[i].Name() < apps[j].Name() })
	return apps
}
