package repository

import (
	"context"

	"github.com/chesterOps/salem-server/internal/domain"
	"github.com/chesterOps/salem-server/internal/query"
)

// UserRepository defines methods for user operations
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id string) error
	FindMany(ctx context.Context, plan *query.Plan) ([]*domain.User, error)

	// SetRefreshToken overwrites the user's single refresh-token slot.
	SetRefreshToken(ctx context.Context, userID, token string) error
	// RotateRefreshToken swaps oldToken for newToken atomically;
	// returns ErrTokenMismatch if the stored token is no longer oldToken.
	RotateRefreshToken(ctx context.Context, userID, oldToken, newToken string) error
	// ClearRefreshToken empties the refresh-token slot.
	ClearRefreshToken(ctx context.Context, userID string) error
}

// CategoryRepository defines methods for category operations
type CategoryRepository interface {
	Create(ctx context.Context, category *domain.Category) error
	GetByID(ctx context.Context, id string) (*domain.Category, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Category, error)
	Update(ctx context.Context, category *domain.Category) error
	Delete(ctx context.Context, id string) error
	FindMany(ctx context.Context, plan *query.Plan) ([]*domain.Category, error)
	// CountExisting reports how many of the given ids exist.
	CountExisting(ctx context.Context, ids []string) (int, error)
}

// ProductRepository defines methods for product operations
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Product, error)
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id string) error
	FindMany(ctx context.Context, plan *query.Plan) ([]*domain.Product, error)
	// FindByCategory returns the products linked to a category, newest first.
	FindByCategory(ctx context.Context, categoryID string) ([]*domain.Product, error)
	// FindRelated returns up to limit products sharing any of the given
	// category ids or the same tag, excluding excludeID.
	FindRelated(ctx context.Context, excludeID string, categoryIDs []string, tag *string, limit int) ([]*domain.Product, error)
	// FindAnyExcept returns up to limit arbitrary products excluding excludeID.
	FindAnyExcept(ctx context.Context, excludeID string, limit int) ([]*domain.Product, error)
	// UnlinkCategory removes a category id from every product's
	// category list.
	UnlinkCategory(ctx context.Context, categoryID string) error
}
