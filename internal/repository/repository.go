package repository

import (
	"github.com/chesterOps/salem-server/pkg/database"
)

// Repositories holds all repository interfaces
type Repositories struct {
	User     UserRepository
	Category CategoryRepository
	Product  ProductRepository
}

// NewRepositories creates all repositories
func NewRepositories(db *database.Postgres) *Repositories {
	return &Repositories{
		User:     NewUserRepository(db),
		Category: NewCategoryRepository(db),
		Product:  NewProductRepository(db),
	}
}
