// Package catalog is the product-catalog demo app: item CRUD with filters
// and search, products with partial updates, and user accounts with hashed
// passwords.
package catalog

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/skillsenselab/funcbox/auth/password"
	"github.com/skillsenselab/funcbox/errors"
	"github.com/skillsenselab/funcbox/logger"
	"github.com/skillsenselab/funcbox/server"
	"github.com/skillsenselab/funcbox/server/middleware"
	"github.com/skillsenselab/funcbox/store"
	"github.com/skillsenselab/funcbox/util"
	"github.com/skillsenselab/funcbox/validation"
	"github.com/skillsenselab/funcbox/version"
)

// App serves the catalog demo.
type App struct {
	items    *store.Store[Item]
	products *store.Store[Product]
	users    *store.Store[User]
	hasher   password.Hasher
	log      *logger.Logger
}

// New creates the app with its seed data.
func New(log *logger.Logger) *App {
	seedTime := time.Now().UTC().Format(time.RFC3339)
	return &App{
		items: store.NewSeeded([]Item{
			{ID: 1, Name: "Laptop", Description: "High-performance laptop", Price: 999.99, InStock: true, CreatedAt: "2024-01-01T10:00:00Z"},
			{ID: 2, Name: "Mouse", Description: "Wireless mouse", Price: 29.99, InStock: true, CreatedAt: "2024-01-02T11:00:00Z"},
			{ID: 3, Name: "Keyboard", Description: "Mechanical keyboard", Price: 79.99, InStock: false, CreatedAt: "2024-01-03T12:00:00Z"},
		}),
		products: store.NewSeeded([]Product{
			{ID: 1, Name: "Wireless Keyboard", Description: "Mechanical keyboard with RGB lighting", Price: 89.99, Category: "Electronics", InStock: true, CreatedAt: seedTime, UpdatedAt: seedTime},
			{ID: 2, Name: "USB-C Hub", Description: "7-in-1 USB-C adapter", Price: 49.99, Category: "Electronics", InStock: true, CreatedAt: seedTime, UpdatedAt: seedTime},
			{ID: 3, Name: "Desk Lamp", Description: "LED desk lamp with adjustable brightness", Price: 34.99, Category: "Furniture", InStock: false, CreatedAt: seedTime, UpdatedAt: seedTime},
		}),
		users: store.NewSeeded([]User{
			{ID: 1, Username: "demo_user", Email: "demo@example.com", FullName: "Demo User", IsActive: true, CreatedAt: seedTime},
		}),
		hasher: password.NewBcryptHasher(),
		log:    log.WithComponent("catalog"),
	}
}

func (a *App) Name() string        { return "catalog" }
func (a *App) Description() string { return "Items, products and users with filters and search" }

// Register mounts the app's routes.
func (a *App) Register(r gin.IRouter) {
	r.Use(middleware.ProcessTime())
	r.Use(middleware.APIKeyAudit(a.log))

	r.GET("/", a.root)
	r.GET("/api", a.apiInfo)
	r.GET("/api/health", a.health)

	r.GET("/api/items", a.listItems)
	r.GET("/api/items/search", a.searchItems)
	r.GET("/api/items/:id", a.getItem)
	r.POST("/api/items", a.createItem)
	r.PUT("/api/items/:id", a.updateItem)
	r.DELETE("/api/items/:id", a.deleteItem)

	r.GET("/api/products", a.listProducts)
	r.GET("/api/products/search/query", a.searchProducts)
	r.GET("/api/products/:id", a.getProduct)
	r.POST("/api/products", a.createProduct)
	r.PUT("/api/products/:id", a.updateProduct)
	r.DELETE("/api/products/:id", a.deleteProduct)

	r.GET("/api/users", a.listUsers)
	r.GET("/api/users/:id", a.getUser)
	r.POST("/api/users", a.createUser)
	r.DELETE("/api/users/:id", a.deleteUser)
}

func (a *App) root(c *gin.Context) {
	server.RespondOK(c, gin.H{
		"message":   "Welcome to the funcbox catalog API",
		"timestamp": now(),
	})
}

func (a *App) apiInfo(c *gin.Context) {
	server.RespondOK(c, gin.H{
		"name":    "funcbox catalog",
		"version": version.Version,
		"app":     a.Name(),
		"endpoints": gin.H{
			"/":                          "Welcome message",
			"/api":                       "This endpoint",
			"/api/health":                "Health check",
			"/api/items":                 "Item CRUD with filters",
			"/api/items/search":          "Search items",
			"/api/products":              "Product CRUD with partial updates",
			"/api/products/search/query": "Search products",
			"/api/users":                 "User accounts",
		},
	})
}

func (a *App) health(c *gin.Context) {
	server.RespondOK(c, gin.H{
		"status":      "healthy",
		"timestamp":   now(),
		"items_count": a.items.Len(),
	})
}

// --- items ---

func (a *App) listItems(c *gin.Context) {
	inStock, hasInStock, appErr := boolQuery(c, "in_stock")
	if appErr != nil {
		server.RespondWithError(c, appErr)
		return
	}
	minPrice, hasMin, appErr := floatQuery(c, "min_price")
	if appErr != nil {
		server.RespondWithError(c, appErr)
		return
	}
	maxPrice, hasMax, appErr := floatQuery(c, "max_price")
	if appErr != nil {
		server.RespondWithError(c, appErr)
		return
	}

	filtered := a.items.Filter(func(i Item) bool {
		if hasInStock && i.InStock != inStock {
			return false
		}
		if hasMin && i.Price < minPrice {
			return false
		}
		if hasMax && i.Price > maxPrice {
			return false
		}
		return true
	})
	server.RespondOK(c, util.NonNilSlice(filtered))
}

func (a *App) getItem(c *gin.Context) {
	id, appErr := pathID(c)
	if appErr != nil {
		server.RespondWithError(c, appErr)
		return
	}
	item, found := a.items.Get(id)
	if !found {
		server.RespondWithError(c, errors.NotFound("Item", id))
		return
	}
	server.RespondOK(c, item)
}

func (a *App) searchItems(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		server.RespondWithError(c, errors.MissingParam("q"))
		return
	}
	needle := strings.ToLower(q)
	results := a.items.Filter(func(i Item) bool {
		return strings.Contains(strings.ToLower(i.Name), needle) ||
			strings.Contains(strings.ToLower(i.Description), needle)
	})
	server.RespondOK(c, util.NonNilSlice(results))
}

func (a *App) createItem(c *gin.Context) {
	var req itemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		server.RespondWithError(c, errors.InvalidJSON())
		return
	}
	if err := validation.Struct(req); err != nil {
		server.RespondWithError(c, err)
		return
	}

	item := a.items.Add(Item{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		InStock:     util.DerefOr(req.InStock, true),
		CreatedAt:   now(),
	})
	server.RespondCreated(c, item)
}

func (a *App) updateItem(c *gin.Context) {
	id, appErr := pathID(c)
	if appErr != nil {
		server.RespondWithError(c, appErr)
		return
	}

	existing, found := a.items.Get(id)
	if !found {
		server.RespondWithError(c, errors.NotFound("Item", id))
		return
	}

	var req itemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		server.RespondWithError(c, errors.InvalidJSON())
		return
	}
	if err := validation.Struct(req); err != nil {
		server.RespondWithError(c, err)
		return
	}

	existing.Name = req.Name
	existing.Description = req.Description
	existing.Price = req.Price
	existing.InStock = util.DerefOr(req.InStock, true)

	updated, _ := a.items.Update(id, existing)
	server.RespondOK(c, updated)
}

func (a *App) deleteItem(c *gin.Context) {
	id, appErr := pathID(c)
	if appErr != nil {
		server.RespondWithError(c, appErr)
		return
	}
	if _, found := a.items.Delete(id); !found {
		server.RespondWithError(c, errors.NotFound("Item", id))
		return
	}
	server.RespondOK(c, gin.H{
		"message":   "Item " + strconv.Itoa(id) + " deleted successfully",
		"timestamp": now(),
	})
}

// --- shared handler helpers ---

func pathID(c *gin.Context) (int, *errors.AppError) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return 0, errors.Validation("Invalid id parameter")
	}
	return id, nil
}

func boolQuery(c *gin.Context, name string) (value, present bool, appErr *errors.AppError) {
	raw, ok := c.GetQuery(name)
	if !ok {
		return false, false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false, errors.Validation("Invalid " + name + " parameter")
	}
	return v, true, nil
}

func floatQuery(c *gin.Context, name string) (value float64, present bool, appErr *errors.AppError) {
	raw, ok := c.GetQuery(name)
	if !ok {
		return 0, false, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 {
		return 0, false, errors.Validation("Invalid " + name + " parameter")
	}
	return v, true, nil
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}
