// Package arcade is the game-backend demo app: GitHub OAuth login with JWT
// session cookies and a gorm-backed high-score table.
package arcade

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/skillsenselab/funcbox/auth"
	"github.com/skillsenselab/funcbox/component"
	"github.com/skillsenselab/funcbox/database"
	"github.com/skillsenselab/funcbox/errors"
	"github.com/skillsenselab/funcbox/logger"
	"github.com/skillsenselab/funcbox/server"
	"github.com/skillsenselab/funcbox/util"
	"github.com/skillsenselab/funcbox/validation"
)

const (
	defaultScoreLimit = 10
	maxScoreLimit     = 100
)

// Config wires the app's database, session and OAuth settings.
type Config struct {
	Database database.Config    `yaml:"database" mapstructure:"database"`
	Session  auth.SessionConfig `yaml:"session" mapstructure:"session"`
	GitHub   auth.GitHubConfig  `yaml:"github" mapstructure:"github"`

	// BaseURL is where the browser lands after login and logout.
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// ApplyDefaults fills in missing configuration values.
func (c *Config) ApplyDefaults() {
	c.Database.ApplyDefaults()
	if c.BaseURL == "" {
		c.BaseURL = "http://localhost:8080"
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if err := c.Database.Validate(); err != nil {
		return err
	}
	if c.Session.Secret == "" {
		return fmt.Errorf("arcade: session secret is required")
	}
	return c.GitHub.Validate()
}

// App serves the arcade demo.
type App struct {
	cfg      Config
	db       *database.DB
	sessions *auth.Sessions
	github   *auth.GitHubProvider
	log      *logger.Logger
}

// New creates the app. The database opens on Start.
func New(cfg Config, log *logger.Logger) (*App, error) {
	sessions, err := auth.NewSessions(cfg.Session)
	if err != nil {
		return nil, err
	}
	return &App{
		cfg:      cfg,
		sessions: sessions,
		github:   auth.NewGitHubProvider(cfg.GitHub),
		log:      log.WithComponent("arcade"),
	}, nil
}

// NewWithDB creates the app around an already-open database. Used by tests.
func NewWithDB(cfg Config, db *database.DB, log *logger.Logger) (*App, error) {
	a, err := New(cfg, log)
	if err != nil {
		return nil, err
	}
	a.db = db
	return a, a.migrate()
}

func (a *App) Name() string        { return "arcade" }
func (a *App) Description() string { return "GitHub OAuth sessions and a persistent scoreboard" }

// Start opens the database connection and runs migrations.
func (a *App) Start(ctx context.Context) error {
	db, err := database.Open(ctx, a.cfg.Database, a.log)
	if err != nil {
		return err
	}
	a.db = db
	return a.migrate()
}

// Stop closes the database connection.
func (a *App) Stop(ctx context.Context) error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}

func (a *App) migrate() error {
	return a.db.AutoMigrate(&HighScore{})
}

// Health reports database connectivity.
func (a *App) Health(ctx context.Context) component.Health {
	h := component.Health{Name: "database", Status: component.StatusHealthy}
	if a.db == nil {
		h.Status = component.StatusUnhealthy
		h.Message = "database not started"
		return h
	}
	if err := a.db.PingContext(ctx); err != nil {
		h.Status = component.StatusUnhealthy
		h.Message = err.Error()
	}
	return h
}

// Register mounts the app's routes.
func (a *App) Register(r gin.IRouter) {
	r.GET("/", a.welcome)

	r.GET("/api/auth/login", a.login)
	r.GET("/api/auth/callback", a.callback)
	r.GET("/api/auth/logout", a.logout)
	r.GET("/api/auth/me", a.me)

	r.GET("/api/high-scores", a.listHighScores)
	r.POST("/api/high-scores", a.sessions.Require(), a.submitHighScore)
}

func (a *App) welcome(c *gin.Context) {
	server.RespondOK(c, gin.H{
		"message":   "Arcade API",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"endpoints": gin.H{
			"/api/auth/login":  "Start GitHub OAuth login",
			"/api/auth/me":     "Current session",
			"/api/high-scores": "Scoreboard (POST requires login)",
		},
	})
}

func (a *App) login(c *gin.Context) {
	state := auth.NewState()
	auth.SetStateCookie(c, state, a.cfg.Session.Secure)

	url := a.github.AuthCodeURL(state)
	a.log.Debug("Redirecting to GitHub authorize URL")
	c.Redirect(http.StatusFound, url)
}

func (a *App) callback(c *gin.Context) {
	if !auth.ConsumeStateCookie(c, c.Query("state"), a.cfg.Session.Secure) {
		a.log.Warn("OAuth state mismatch", map[string]interface{}{
			"remote_addr": c.Request.RemoteAddr,
		})
		c.Redirect(http.StatusFound, a.cfg.BaseURL+"?error=auth_failed")
		return
	}

	token, err := a.github.Exchange(c.Request.Context(), c.Query("code"))
	if err != nil {
		a.log.WithError(err).Warn("OAuth code exchange failed")
		c.Redirect(http.StatusFound, a.cfg.BaseURL+"?error=auth_failed")
		return
	}

	user, err := a.github.FetchUser(c.Request.Context(), token)
	if err != nil {
		a.log.WithError(err).Warn("Could not load GitHub profile")
		c.Redirect(http.StatusFound, a.cfg.BaseURL+"?error=auth_failed")
		return
	}

	session, err := a.sessions.Issue(user)
	if err != nil {
		a.log.WithError(err).Error("Could not issue session token")
		c.Redirect(http.StatusFound, a.cfg.BaseURL+"?error=auth_failed")
		return
	}

	a.sessions.SetCookie(c, session)
	a.log.Info("User logged in", map[string]interface{}{"username": user.Login})
	c.Redirect(http.StatusFound, a.cfg.BaseURL)
}

func (a *App) logout(c *gin.Context) {
	a.sessions.ClearCookie(c)
	c.Redirect(http.StatusFound, a.cfg.BaseURL)
}

func (a *App) me(c *gin.Context) {
	claims, ok := a.sessions.FromRequest(c)
	if !ok {
		server.RespondOK(c, gin.H{"authenticated": false})
		return
	}
	server.RespondOK(c, gin.H{
		"authenticated": true,
		"user": gin.H{
			"username": claims.Username,
			"name":     claims.Name,
			"avatar":   claims.AvatarURL,
		},
	})
}

func (a *App) listHighScores(c *gin.Context) {
	limit := defaultScoreLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			server.RespondWithError(c, errors.Validation("Invalid limit parameter"))
			return
		}
		limit = parsed
	}
	if limit > maxScoreLimit {
		limit = maxScoreLimit
	}

	var scores []HighScore
	err := a.db.WithContext(c.Request.Context()).
		Order("score desc").
		Limit(limit).
		Find(&scores).Error
	if err != nil {
		server.RespondWithError(c, errors.DatabaseError(err))
		return
	}
	server.RespondOK(c, scores)
}

func (a *App) submitHighScore(c *gin.Context) {
	claims, ok := auth.Current(c)
	if !ok {
		server.RespondWithError(c, errors.Unauthorized("Authentication required"))
		return
	}

	var req highScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		server.RespondWithError(c, errors.InvalidJSON())
		return
	}
	if err := validation.Struct(req); err != nil {
		server.RespondWithError(c, err)
		return
	}

	score := HighScore{
		PlayerName: claims.Username,
		Score:      util.Deref(req.Score),
		Level:      util.Deref(req.Level),
		Lines:      util.Deref(req.Lines),
	}
	if err := a.db.WithContext(c.Request.Context()).Create(&score).Error; err != nil {
		server.RespondWithError(c, errors.DatabaseError(err))
		return
	}

	a.log.Info("High score submitted", map[string]interface{}{
		"player": score.PlayerName,
		"score":  score.Score,
	})
	server.RespondCreated(c, score)
}
