// Package simple is the introductory demo app: a welcome endpoint, a JSON
// echo, a greeting route, and query-parameter driven CRUD on an in-memory
// user list.
package simple

import (
	"fmt"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/skillsenselab/funcbox/errors"
	"github.com/skillsenselab/funcbox/logger"
	"github.com/skillsenselab/funcbox/server"
	"github.com/skillsenselab/funcbox/store"
	"github.com/skillsenselab/funcbox/util"
	"github.com/skillsenselab/funcbox/version"
)

// User is a demo user record.
type User struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

func (u User) GetID() int         { return u.ID }
func (u User) WithID(id int) User { u.ID = id; return u }

// App serves the simple demo.
type App struct {
	users *store.Store[User]
	log   *logger.Logger
}

// New creates the app with its seed users.
func New(log *logger.Logger) *App {
	return &App{
		users: store.NewSeeded([]User{
			{ID: 1, Name: "Alice Johnson", Email: "alice@example.com", CreatedAt: "2024-01-01T10:00:00Z"},
			{ID: 2, Name: "Bob Smith", Email: "bob@example.com", CreatedAt: "2024-01-02T11:30:00Z"},
			{ID: 3, Name: "Charlie Brown", Email: "charlie@example.com", CreatedAt: "2024-01-03T14:15:00Z"},
		}),
		log: log.WithComponent("simple"),
	}
}

func (a *App) Name() string        { return "simple" }
func (a *App) Description() string { return "Welcome, echo, greetings and in-memory user CRUD" }

// Register mounts the app's routes.
func (a *App) Register(r gin.IRouter) {
	r.GET("/", a.welcome)
	r.GET("/api", a.welcome)
	r.POST("/api/echo", a.echo)
	r.GET("/api/hello/:name", a.hello)

	r.GET("/api/users", a.getUsers)
	r.POST("/api/users", a.createUser)
	r.PUT("/api/users", a.updateUser)
	r.DELETE("/api/users", a.deleteUser)
}

func (a *App) welcome(c *gin.Context) {
	server.RespondOK(c, gin.H{
		"message":   "Welcome to funcbox!",
		"status":    "healthy",
		"timestamp": now(),
		"endpoints": gin.H{
			"/api":             "This endpoint (health check)",
			"/api/echo":        "JSON echo",
			"/api/hello/:name": "Personalized greeting",
			"/api/users":       "User CRUD operations",
		},
		"runtime_info": gin.H{
			"runtime":  runtime.Version(),
			"platform": runtime.GOOS + "/" + runtime.GOARCH,
			"version":  version.Version,
			"app":      a.Name(),
		},
	})
}

func (a *App) echo(c *gin.Context) {
	var data map[string]interface{}
	if err := c.ShouldBindJSON(&data); err != nil {
		server.RespondWithError(c, errors.InvalidJSON())
		return
	}
	server.RespondOK(c, gin.H{
		"message":       "Data received successfully",
		"received_data": data,
		"timestamp":     now(),
	})
}

func (a *App) hello(c *gin.Context) {
	server.RespondOK(c, gin.H{
		"message":   fmt.Sprintf("Hello, %s!", c.Param("name")),
		"timestamp": now(),
	})
}

func (a *App) getUsers(c *gin.Context) {
	// Exact lookup by id.
	if rawID, ok := c.GetQuery("id"); ok {
		id, err := strconv.Atoi(rawID)
		if err != nil {
			server.RespondWithError(c, errors.Validation("Invalid id parameter"))
			return
		}
		user, found := a.users.Get(id)
		if !found {
			server.RespondWithError(c, errors.NotFound("User", id))
			return
		}
		server.RespondOK(c, user)
		return
	}

	// Case-insensitive substring filter by name.
	if nameFilter, ok := c.GetQuery("name"); ok {
		needle := strings.ToLower(nameFilter)
		matched := a.users.Filter(func(u User) bool {
			return strings.Contains(strings.ToLower(u.Name), needle)
		})
		server.RespondOK(c, gin.H{
			"users":  util.NonNilSlice(matched),
			"count":  len(matched),
			"filter": needle,
		})
		return
	}

	all := a.users.List()
	server.RespondOK(c, gin.H{
		"users":     all,
		"count":     len(all),
		"timestamp": now(),
	})
}

type createUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (a *App) createUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		server.RespondWithError(c, errors.InvalidJSON())
		return
	}
	if req.Name == "" || req.Email == "" {
		server.RespondWithError(c, errors.Validation("Missing required fields: name, email"))
		return
	}

	user := a.users.Add(User{
		Name:      req.Name,
		Email:     req.Email,
		CreatedAt: now(),
	})
	a.log.Info("User created", map[string]interface{}{"user_id": user.ID})

	server.RespondCreated(c, gin.H{
		"message": "User created successfully",
		"user":    user,
	})
}

type updateUserRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
}

func (a *App) updateUser(c *gin.Context) {
	id, appErr := requiredID(c)
	if appErr != nil {
		server.RespondWithError(c, appErr)
		return
	}

	existing, found := a.users.Get(id)
	if !found {
		server.RespondWithError(c, errors.NotFound("User", id))
		return
	}

	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		server.RespondWithError(c, errors.InvalidJSON())
		return
	}

	if req.Name != nil {
		existing.Name = *req.Name
	}
	if req.Email != nil {
		existing.Email = *req.Email
	}
	existing.UpdatedAt = now()

	updated, _ := a.users.Update(id, existing)
	server.RespondOK(c, gin.H{
		"message": "User updated successfully",
		"user":    updated,
	})
}

func (a *App) deleteUser(c *gin.Context) {
	id, appErr := requiredID(c)
	if appErr != nil {
		server.RespondWithError(c, appErr)
		return
	}

	deleted, found := a.users.Delete(id)
	if !found {
		server.RespondWithError(c, errors.NotFound("User", id))
		return
	}

	server.RespondOK(c, gin.H{
		"message":      "User deleted successfully",
		"deleted_user": deleted,
	})
}

func requiredID(c *gin.Context) (int, *errors.AppError) {
	rawID, ok := c.GetQuery("id")
	if !ok {
		return 0, errors.MissingParam("id")
	}
	id, err := strconv.Atoi(rawID)
	if err != nil {
		return 0, errors.Validation("Invalid id parameter")
	}
	return id, nil
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}
