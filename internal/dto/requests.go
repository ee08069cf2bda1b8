package dto

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignupRequest represents a signup request
type SignupRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// CreateCategoryRequest represents a category creation request
type CreateCategoryRequest struct {
	Name string `json:"name" binding:"required"`
}

// UpdateCategoryRequest represents a partial category update
type UpdateCategoryRequest struct {
	Name *string `json:"name"`
}

// CreateProductRequest carries the multipart form fields of a product
// creation request; image files travel separately.
type CreateProductRequest struct {
	Title       string   `form:"title" binding:"required"`
	Description string   `form:"description" binding:"required"`
	Price       float64  `form:"price" binding:"required"`
	Discount    *float64 `form:"discount"`
	Tag         *string  `form:"tag"`
	Published   *bool    `form:"published"`
	Category    []string `form:"category"`
	Sizes       []string `form:"sizes"`
	// Colors is a JSON-encoded array of {name, hex} objects.
	Colors string `form:"colors"`
}

// UpdateProductRequest carries a partial product update; nil fields
// are left untouched.
type UpdateProductRequest struct {
	Title       *string  `form:"title"`
	Description *string  `form:"description"`
	Price       *float64 `form:"price"`
	Discount    *float64 `form:"discount"`
	Tag         *string  `form:"tag"`
	Published   *bool    `form:"published"`
	Sales       *int     `form:"sales"`
	Rating      *float64 `form:"rating"`
	Category    []string `form:"category"`
	Sizes       []string `form:"sizes"`
	Colors      *string  `form:"colors"`
}

// UpdateUserRequest carries a partial user update. There is no
// password field: the admin user PATCH never accepts one.
type UpdateUserRequest struct {
	Email     *string `json:"email"`
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Role      *string `json:"role"`
	Active    *bool   `json:"active"`
}
