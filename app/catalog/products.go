package catalog

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/skillsenselab/funcbox/errors"
	"github.com/skillsenselab/funcbox/server"
	"github.com/skillsenselab/funcbox/util"
	"github.com/skillsenselab/funcbox/validation"
)

func (a *App) listProducts(c *gin.Context) {
	category := c.Query("category")
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

	filtered := a.products.Filter(func(p Product) bool {
		if category != "" && !strings.EqualFold(p.Category, category) {
			return false
		}
		if hasInStock && p.InStock != inStock {
			return false
		}
		if hasMin && p.Price < minPrice {
			return false
		}
		if hasMax && p.Price > maxPrice {
			return false
		}
		return true
	})
	server.RespondOK(c, util.NonNilSlice(filtered))
}

func (a *App) getProduct(c *gin.Context) {
	id, appErr := pathID(c)
	if appErr != nil {
		server.RespondWithError(c, appErr)
		return
	}
	product, found := a.products.Get(id)
	if !found {
		server.RespondWithError(c, errors.NotFound("Product", id))
		return
	}
	server.RespondOK(c, product)
}

func (a *App) createProduct(c *gin.Context) {
	var req productCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		server.RespondWithError(c, errors.InvalidJSON())
		return
	}
	if err := validation.Struct(req); err != nil {
		server.RespondWithError(c, err)
		return
	}

	ts := now()
	product := a.products.Add(Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		InStock:     util.DerefOr(req.InStock, true),
		CreatedAt:   ts,
		UpdatedAt:   ts,
	})
	server.RespondCreated(c, product)
}

// updateProduct applies a partial update: only fields present in the payload
// change, and updated_at is bumped.
func (a *App) updateProduct(c *gin.Context) {
	id, appErr := pathID(c)
	if appErr != nil {
		server.RespondWithError(c, appErr)
		return
	}

	existing, found := a.products.Get(id)
	if !found {
		server.RespondWithError(c, errors.NotFound("Product", id))
		return
	}

	var req productUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		server.RespondWithError(c, errors.InvalidJSON())
		return
	}
	if err := validation.Struct(req); err != nil {
		server.RespondWithError(c, err)
		return
	}

	if req.Name != nil {
		existing.Name = *req.Name
	}
	if req.Description != nil {
		existing.Description = *req.Description
	}
	if req.Price != nil {
		existing.Price = *req.Price
	}
	if req.Category != nil {
		existing.Category = *req.Category
	}
	if req.InStock != nil {
		existing.InStock = *req.InStock
	}
	existing.UpdatedAt = now()

	updated, _ := a.products.Update(id, existing)
	server.RespondOK(c, updated)
}

func (a *App) deleteProduct(c *gin.Context) {
	id, appErr := pathID(c)
	if appErr != nil {
		server.RespondWithError(c, appErr)
		return
	}
	if _, found := a.products.Delete(id); !found {
		server.RespondWithError(c, errors.NotFound("Product", id))
		return
	}
	server.RespondNoContent(c)
}

func (a *App) searchProducts(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		server.RespondWithError(c, errors.MissingParam("q"))
		return
	}
	needle := strings.ToLower(q)
	results := a.products.Filter(func(p Product) bool {
		return strings.Contains(strings.ToLower(p.Name), needle) ||
			strings.Contains(strings.ToLower(p.Description), needle)
	})
	server.RespondOK(c, util.NonNilSlice(results))
}
