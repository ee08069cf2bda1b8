package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Category is a catalog category. The slug is derived from the name
// and recomputed whenever the name changes.
type Category struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Slug      string    `json:"slug" db:"slug"`
	Revision  int       `json:"revision" db:"revision"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// CategoryRef is the expanded category reference attached to products.
type CategoryRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Color is a named product color.
type Color struct {
	Name string `json:"name"`
	Hex  string `json:"hex"`
}

// Colors stores a product's color list as a JSONB column.
type Colors []Color

// Value implements driver.Valuer
func (c Colors) Value() (driver.Value, error) {
	if c == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(c)
}

// Scan implements sql.Scanner
func (c *Colors) Scan(value any) error {
	if value == nil {
		*c = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, c)
	case string:
		return json.Unmarshal([]byte(v), c)
	default:
		return fmt.Errorf("colors scan: unsupported type %T", value)
	}
}

// Product is a catalog product. Images and ImagePublicIDs are parallel
// lists: ImagePublicIDs[i] is the media-host id of Images[i] and is
// what the image cleanup cascades operate on.
type Product struct {
	ID             string        `json:"id" db:"id"`
	Title          string        `json:"title" db:"title"`
	Slug           string        `json:"slug" db:"slug"`
	Description    string        `json:"description" db:"description"`
	Published      bool          `json:"published" db:"published"`
	Sales          int           `json:"sales" db:"sales"`
	Rating         float64       `json:"rating" db:"rating"`
	Price          float64       `json:"price" db:"price"`
	Discount       *float64      `json:"discount,omitempty" db:"discount"`
	Tag            *string       `json:"tag,omitempty" db:"tag"`
	Categories     []CategoryRef `json:"category"`
	Images         []string      `json:"images,omitempty" db:"images"`
	ImagePublicIDs []string      `json:"images_public_ids,omitempty" db:"images_public_ids"`
	Sizes          []string      `json:"sizes,omitempty" db:"sizes"`
	Colors         Colors        `json:"colors,omitempty" db:"colors"`
	Revision       int           `json:"revision" db:"revision"`
	CreatedAt      time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at" db:"updated_at"`
}

// ValidSizes is the accepted size enum for products.
var ValidSizes = []string{"XXS", "XS", "S", "M", "L", "XL", "XXL", "XXXL", "XXXXL"}

// MainImage returns the first image, if any.
func (p *Product) MainImage() string {
	if len(p.Images) > 0 {
		return p.Images[0]
	}
	return ""
}

// CategoryIDs returns the ids of the product's categories.
func (p *Product) CategoryIDs() []string {
	ids := make([]string, 0, len(p.Categories))
	for _, c := range p.Categories {
		ids = append(ids, c.ID)
	}
	return ids
}
