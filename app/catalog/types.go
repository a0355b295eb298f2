package catalog

// Item is the basic catalog record.
type Item struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
	InStock     bool    `json:"in_stock"`
	CreatedAt   string  `json:"created_at"`
}

func (i Item) GetID() int         { return i.ID }
func (i Item) WithID(id int) Item { i.ID = id; return i }

// Product is the richer record with category and update tracking.
type Product struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	InStock     bool    `json:"in_stock"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

func (p Product) GetID() int            { return p.ID }
func (p Product) WithID(id int) Product { p.ID = id; return p }

// User is an account record. The password hash never serializes.
type User struct {
	ID           int    `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	FullName     string `json:"full_name,omitempty"`
	IsActive     bool   `json:"is_active"`
	CreatedAt    string `json:"created_at"`
	PasswordHash string `json:"-"`
}

func (u User) GetID() int         { return u.ID }
func (u User) WithID(id int) User { u.ID = id; return u }

type itemRequest struct {
	Name        string  `json:"name" validate:"required,min=1,max=100"`
	Description string  `json:"description" validate:"omitempty,max=500"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	InStock     *bool   `json:"in_stock"`
}

type productCreateRequest struct {
	Name        string  `json:"name" validate:"required,min=1,max=200"`
	Description string  `json:"description" validate:"omitempty,max=1000"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	Category    string  `json:"category" validate:"required,min=1,max=50"`
	InStock     *bool   `json:"in_stock"`
}

type productUpdateRequest struct {
	Name        *string  `json:"name" validate:"omitempty,min=1,max=200"`
	Description *string  `json:"description" validate:"omitempty,max=1000"`
	Price       *float64 `json:"price" validate:"omitempty,gt=0"`
	Category    *string  `json:"category" validate:"omitempty,min=1,max=50"`
	InStock     *bool    `json:"in_stock"`
}

type userCreateRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email,max=100"`
	FullName string `json:"full_name" validate:"omitempty,max=100"`
	Password string `json:"password" validate:"required,min=8,max=100"`
}
