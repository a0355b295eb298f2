// Package chat is an SSE chat demo: messages go into a mutex-guarded
// in-memory store and connected clients receive them over a polled
// Server-Sent Events stream.
package chat

import (
	"github.com/gin-gonic/gin"
	json "github.com/goccy/go-json"

	"github.com/skillsenselab/funcbox/errors"
	"github.com/skillsenselab/funcbox/logger"
	"github.com/skillsenselab/funcbox/server"
	"github.com/skillsenselab/funcbox/sse"
	"github.com/skillsenselab/funcbox/validation"
)

type messageCreateRequest struct {
	Username string `json:"username" validate:"required,max=50"`
	Content  string `json:"content" validate:"required,max=1000"`
}

// streamEvent is the payload pushed to SSE clients.
type streamEvent struct {
	Type    string  `json:"type"`
	Message Message `json:"message"`
}

// App serves the chat demo.
type App struct {
	messages *MessageStore
	streams  *sse.Registry
	log      *logger.Logger
}

// New creates the app with an empty message store.
func New(log *logger.Logger) *App {
	return &App{
		messages: NewMessageStore(),
		streams:  sse.NewRegistry(),
		log:      log.WithComponent("chat"),
	}
}

func (a *App) Name() string        { return "chat" }
func (a *App) Description() string { return "SSE chat with a polled in-memory message store" }

// Register mounts the app's routes.
func (a *App) Register(r gin.IRouter) {
	r.GET("/", a.welcome)
	r.GET("/api", a.welcome)

	r.GET("/api/messages", a.listMessages)
	r.POST("/api/messages", a.createMessage)
	r.GET("/api/stream", a.stream)
	r.GET("/api/stream/stats", a.streamStats)
}

func (a *App) welcome(c *gin.Context) {
	server.RespondOK(c, gin.H{
		"message": "SSE Chat API",
		"endpoints": gin.H{
			"/api/messages":     "List and post chat messages",
			"/api/stream":       "Server-Sent Events message stream",
			"/api/stream/stats": "Open stream statistics",
		},
	})
}

func (a *App) listMessages(c *gin.Context) {
	server.RespondOK(c, gin.H{"messages": a.messages.All()})
}

func (a *App) createMessage(c *gin.Context) {
	var req messageCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		server.RespondWithError(c, errors.InvalidJSON())
		return
	}
	if err := validation.Struct(req); err != nil {
		server.RespondWithError(c, err)
		return
	}

	msg := a.messages.Add(req.Username, req.Content)
	a.log.Debug("Message posted", map[string]interface{}{
		"message_id": msg.ID,
		"username":   msg.Username,
	})
	server.RespondOK(c, gin.H{"message": msg})
}

// stream pushes chat messages as SSE events. The message id doubles as the
// event id, so clients reconnecting with Last-Event-ID pick up where they
// left off.
func (a *App) stream(c *gin.Context) {
	stream, err := sse.NewStream(c.Writer)
	if err != nil {
		server.RespondWithError(c, errors.Internal(err))
		return
	}

	release := a.streams.Register(c.Request.RemoteAddr)
	defer release()

	since := sse.LastEventID(c.Request)
	stream.Poll(c.Request.Context(), sse.DefaultPollInterval, since, func(sinceID int) []sse.Event {
		pending := a.messages.Since(sinceID)
		events := make([]sse.Event, 0, len(pending))
		for _, msg := range pending {
			data, err := json.Marshal(streamEvent{Type: "message", Message: msg})
			if err != nil {
				a.log.WithError(err).Error("Failed to encode stream event", map[string]interface{}{
					"message_id": msg.ID,
				})
				continue
			}
			events = append(events, sse.Event{ID: msg.ID, Data: data})
		}
		return events
	})
}

func (a *App) streamStats(c *gin.Context) {
	server.RespondOK(c, a.streams.Stats())
}
