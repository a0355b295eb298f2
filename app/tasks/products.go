package tasks

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	apperrors "github.com/skillsenselab/funcbox/errors"
	"github.com/skillsenselab/funcbox/server"
	"github.com/skillsenselab/funcbox/validation"
)

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

func (a *App) listProducts(c *gin.Context) {
	skip, limit, appErr := pagination(c)
	if appErr != nil {
		server.RespondWithError(c, appErr)
		return
	}

	activeOnly := true
	if raw, ok := c.GetQuery("active_only"); ok {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			server.RespondWithError(c, apperrors.Validation("Invalid active_only parameter"))
			return
		}
		activeOnly = v
	}

	query := a.db.WithContext(c.Request.Context()).Model(&Product{})
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	if raw, ok := c.GetQuery("in_stock"); ok {
		inStock, err := strconv.ParseBool(raw)
		if err != nil {
			server.RespondWithError(c, apperrors.Validation("Invalid in_stock parameter"))
			return
		}
		if inStock {
			query = query.Where("stock_quantity > 0")
		} else {
			query = query.Where("stock_quantity = 0")
		}
	}

	var products []Product
	if err := query.Order("created_at desc").Offset(skip).Limit(limit).Find(&products).Error; err != nil {
		server.RespondWithError(c, apperrors.DatabaseError(err))
		return
	}
	server.RespondOK(c, products)
}

func (a *App) getProduct(c *gin.Context) {
	id, appErr := pathID(c)
	if appErr != nil {
		server.RespondWithError(c, appErr)
		return
	}

	product, appErr := a.findProduct(c, id)
	if appErr != nil {
		server.RespondWithError(c, appErr)
		return
	}
	server.RespondOK(c, product)
}

func (a *App) createProduct(c *gin.Context) {
	var req productCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		server.RespondWithError(c, apperrors.InvalidJSON())
		return
	}
	if err := validation.Struct(req); err != nil {
		server.RespondWithError(c, err)
		return
	}

	ctx := c.Request.Context()

	var count int64
	if err := a.db.WithContext(ctx).Model(&Product{}).Where("sku = ?", req.SKU).Count(&count).Error; err != nil {
		server.RespondWithError(c, apperrors.DatabaseError(err))
		return
	}
	if count > 0 {
		server.RespondWithError(c, apperrors.AlreadyExists(fmt.Sprintf("Product with SKU '%s' already exists", req.SKU)))
		return
	}

	product := Product{
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		SKU:           req.SKU,
		StockQuantity: req.StockQuantity,
		Category:      req.Category,
		IsActive:      true,
	}
	if err := a.db.WithContext(ctx).Create(&product).Error; err != nil {
		server.RespondWithError(c, apperrors.DatabaseError(err))
		return
	}

	a.log.Info("Product created", map[string]interface{}{
		"product_id": product.ID,
		"sku":        product.SKU,
	})
	server.RespondCreated(c, product)
}

func (a *App) updateProduct(c *gin.Context) {
	id, appErr := pathID(c)
	if appErr != nil {
		server.RespondWithError(c, appErr)
		return
	}

	product, appErr := a.findProduct(c, id)
	if appErr != nil {
		server.RespondWithError(c, appErr)
		return
	}

	var req productUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		server.RespondWithError(c, apperrors.InvalidJSON())
		return
	}
	if err := validation.Struct(req); err != nil {
		server.RespondWithError(c, err)
		return
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.StockQuantity != nil {
		product.StockQuantity = *req.StockQuantity
	}
	if req.Category != nil {
		product.Category = *req.Category
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}

	if err := a.db.WithContext(c.Request.Context()).Save(&product).Error; err != nil {
		server.RespondWithError(c, apperrors.DatabaseError(err))
		return
	}
	server.RespondOK(c, product)
}

func (a *App) deleteProduct(c *gin.Context) {
	id, appErr := pathID(c)
	if appErr != nil {
		server.RespondWithError(c, appErr)
		return
	}

	product, appErr := a.findProduct(c, id)
	if appErr != nil {
		server.RespondWithError(c, appErr)
		return
	}

	if err := a.db.WithContext(c.Request.Context()).Delete(&product).Error; err != nil {
		server.RespondWithError(c, apperrors.DatabaseError(err))
		return
	}
	a.log.Info("Product deleted", map[string]interface{}{"product_id": id})
	server.RespondNoContent(c)
}

func (a *App) findProduct(c *gin.Context, id int) (Product, *apperrors.AppError) {
	var product Product
	result := a.db.WithContext(c.Request.Context()).First(&product, id)
	if result.Error != nil {
		if isNotFound(result.Error) {
			return product, apperrors.NotFound("Product", id)
		}
		return product, apperrors.DatabaseError(result.Error)
	}
	return product, nil
}
