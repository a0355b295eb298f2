// Package tasks is the database demo app: task and product CRUD persisted
// through gorm, with pagination, filters and a DB-backed health endpoint.
package tasks

import (
	"context"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/skillsenselab/funcbox/component"
	"github.com/skillsenselab/funcbox/database"
	"github.com/skillsenselab/funcbox/errors"
	"github.com/skillsenselab/funcbox/logger"
	"github.com/skillsenselab/funcbox/server"
	"github.com/skillsenselab/funcbox/validation"
)

// App serves the tasks demo.
type App struct {
	cfg database.Config
	db  *database.DB
	log *logger.Logger
}

// New creates the app. The database opens on Start.
func New(cfg database.Config, log *logger.Logger) *App {
	return &App{cfg: cfg, log: log.WithComponent("tasks")}
}

// NewWithDB creates the app around an already-open database. Used by tests.
func NewWithDB(db *database.DB, log *logger.Logger) (*App, error) {
	a := &App{db: db, log: log.WithComponent("tasks")}
	return a, a.migrate()
}

func (a *App) Name() string        { return "tasks" }
func (a *App) Description() string { return "Task and product CRUD backed by a SQL database" }

// Start opens the database connection and runs migrations.
func (a *App) Start(ctx context.Context) error {
	db, err := database.Open(ctx, a.cfg, a.log)
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
	return a.db.AutoMigrate(&Task{}, &Product{})
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
	r.GET("/api/health", a.dbHealth)

	r.GET("/api/tasks", a.listTasks)
	r.GET("/api/tasks/:id", a.getTask)
	r.POST("/api/tasks", a.createTask)
	r.PUT("/api/tasks/:id", a.updateTask)
	r.DELETE("/api/tasks/:id", a.deleteTask)

	r.GET("/api/products", a.listProducts)
	r.GET("/api/products/:id", a.getProduct)
	r.POST("/api/products", a.createProduct)
	r.PUT("/api/products/:id", a.updateProduct)
	r.DELETE("/api/products/:id", a.deleteProduct)
}

func (a *App) welcome(c *gin.Context) {
	server.RespondOK(c, gin.H{
		"message":   "Welcome to the funcbox tasks API",
		"database":  a.cfg.Driver,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"endpoints": gin.H{
			"/":             "This endpoint",
			"/api/health":   "Database health check",
			"/api/tasks":    "Task management (CRUD)",
			"/api/products": "Product management (CRUD)",
		},
	})
}

func (a *App) dbHealth(c *gin.Context) {
	ctx := c.Request.Context()

	if err := a.db.PingContext(ctx); err != nil {
		server.RespondWithError(c, errors.ServiceUnavailable("Health check failed: "+err.Error()))
		return
	}

	var taskCount, productCount int64
	if err := a.db.WithContext(ctx).Model(&Task{}).Count(&taskCount).Error; err != nil {
		server.RespondWithError(c, errors.ServiceUnavailable("Health check failed: "+err.Error()))
		return
	}
	if err := a.db.WithContext(ctx).Model(&Product{}).Count(&productCount).Error; err != nil {
		server.RespondWithError(c, errors.ServiceUnavailable("Health check failed: "+err.Error()))
		return
	}

	server.RespondOK(c, gin.H{
		"status":             "healthy",
		"database_connected": true,
		"timestamp":          time.Now().UTC().Format(time.RFC3339),
		"total_tasks":        taskCount,
		"total_products":     productCount,
	})
}

// --- tasks ---

func (a *App) listTasks(c *gin.Context) {
	skip, limit, appErr := pagination(c)
	if appErr != nil {
		server.RespondWithError(c, appErr)
		return
	}

	query := a.db.WithContext(c.Request.Context()).Model(&Task{})
	if raw, ok := c.GetQuery("completed"); ok {
		completed, err := strconv.ParseBool(raw)
		if err != nil {
			server.RespondWithError(c, errors.Validation("Invalid completed parameter"))
			return
		}
		query = query.Where("completed = ?", completed)
	}
	if priority := c.Query("priority"); priority != "" {
		query = query.Where("priority = ?", priority)
	}

	var tasks []Task
	if err := query.Order("created_at desc").Offset(skip).Limit(limit).Find(&tasks).Error; err != nil {
		server.RespondWithError(c, errors.DatabaseError(err))
		return
	}
	server.RespondOK(c, tasks)
}

func (a *App) getTask(c *gin.Context) {
	id, appErr := pathID(c)
	if appErr != nil {
		server.RespondWithError(c, appErr)
		return
	}

	task, appErr := a.findTask(c, id)
	if appErr != nil {
		server.RespondWithError(c, appErr)
		return
	}
	server.RespondOK(c, task)
}

func (a *App) createTask(c *gin.Context) {
	var req taskCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		server.RespondWithError(c, errors.InvalidJSON())
		return
	}
	if err := validation.Struct(req); err != nil {
		server.RespondWithError(c, err)
		return
	}

	priority := req.Priority
	if priority == "" {
		priority = "medium"
	}
	task := Task{Title: req.Title, Description: req.Description, Priority: priority}
	if err := a.db.WithContext(c.Request.Context()).Create(&task).Error; err != nil {
		server.RespondWithError(c, errors.DatabaseError(err))
		return
	}

	a.log.Info("Task created", map[string]interface{}{
		"task_id": task.ID,
		"title":   task.Title,
	})
	server.RespondCreated(c, task)
}

func (a *App) updateTask(c *gin.Context) {
	id, appErr := pathID(c)
	if appErr != nil {
		server.RespondWithError(c, appErr)
		return
	}

	task, appErr := a.findTask(c, id)
	if appErr != nil {
		server.RespondWithError(c, appErr)
		return
	}

	var req taskUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		server.RespondWithError(c, errors.InvalidJSON())
		return
	}
	if err := validation.Struct(req); err != nil {
		server.RespondWithError(c, err)
		return
	}

	if req.Title != nil {
		task.Title = *req.Title
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.Completed != nil {
		task.Completed = *req.Completed
	}
	if req.Priority != nil {
		task.Priority = *req.Priority
	}

	if err := a.db.WithContext(c.Request.Context()).Save(&task).Error; err != nil {
		server.RespondWithError(c, errors.DatabaseError(err))
		return
	}
	server.RespondOK(c, task)
}

func (a *App) deleteTask(c *gin.Context) {
	id, appErr := pathID(c)
	if appErr != nil {
		server.RespondWithError(c, appErr)
		return
	}

	task, appErr := a.findTask(c, id)
	if appErr != nil {
		server.RespondWithError(c, appErr)
		return
	}

	if err := a.db.WithContext(c.Request.Context()).Delete(&task).Error; err != nil {
		server.RespondWithError(c, errors.DatabaseError(err))
		return
	}
	a.log.Info("Task deleted", map[string]interface{}{"task_id": id})
	server.RespondNoContent(c)
}

func (a *App) findTask(c *gin.Context, id int) (Task, *errors.AppError) {
	var task Task
	result := a.db.WithContext(c.Request.Context()).First(&task, id)
	if result.Error != nil {
		if isNotFound(result.Error) {
			return task, errors.NotFound("Task", id)
		}
		return task, errors.DatabaseError(result.Error)
	}
	return task, nil
}

// --- shared handler helpers ---

func pathID(c *gin.Context) (int, *errors.AppError) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return 0, errors.Validation("Invalid id parameter")
	}
	return id, nil
}

func pagination(c *gin.Context) (skip, limit int, appErr *errors.AppError) {
	skip = 0
	limit = 100

	if raw, ok := c.GetQuery("skip"); ok {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			return 0, 0, errors.Validation("Invalid skip parameter")
		}
		skip = v
	}
	if raw, ok := c.GetQuery("limit"); ok {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 || v > 1000 {
			return 0, 0, errors.Validation("Invalid limit parameter")
		}
		limit = v
	}
	return skip, limit, nil
}
