package tasks

import "time"

// Task is a gorm-backed task record.
type Task struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	Title       string    `gorm:"size:200;index" json:"title"`
	Description string    `json:"description,omitempty"`
	Completed   bool      `gorm:"index;default:false" json:"completed"`
	Priority    string    `gorm:"size:10;default:medium" json:"priority"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Product is a gorm-backed product record with a unique SKU.
type Product struct {
	ID            uint      `gorm:"primarykey" json:"id"`
	Name          string    `gorm:"size:200" json:"name"`
	Description   string    `json:"description,omitempty"`
	Price         float64   `json:"price"`
	SKU           string    `gorm:"size:50;uniqueIndex" json:"sku"`
	StockQuantity int       `json:"stock_quantity"`
	Category      string    `gorm:"size:100" json:"category"`
	IsActive      bool      `gorm:"default:true" json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type taskCreateRequest struct {
	Title       string `json:"title" validate:"required,min=1,max=200"`
	Description string `json:"description"`
	Priority    string `json:"priority" validate:"omitempty,oneof=low medium high"`
}

type taskUpdateRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description"`
	Completed   *bool   `json:"completed"`
	Priority    *string `json:"priority" validate:"omitempty,oneof=low medium high"`
}

type productCreateRequest struct {
	Name          string  `json:"name" validate:"required,min=1,max=200"`
	Description   string  `json:"description"`
	Price         float64 `json:"price" validate:"required,gt=0"`
	SKU           string  `json:"sku" validate:"required,min=1,max=50"`
	StockQuantity int     `json:"stock_quantity" validate:"gte=0"`
	Category      string  `json:"category" validate:"required,min=1,max=100"`
}

type productUpdateRequest struct {
	Name          *string  `json:"name" validate:"omitempty,min=1,max=200"`
	Description   *string  `json:"description"`
	Price         *float64 `json:"price" validate:"omitempty,gt=0"`
	StockQuantity *int     `json:"stock_quantity" validate:"omitempty,gte=0"`
	Category      *string  `json:"category" validate:"omitempty,min=1,max=100"`
	IsActive      *bool    `json:"is_active"`
}
