package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/chesterOps/salem-server/internal/domain"
	"github.com/chesterOps/salem-server/internal/dto"
	"github.com/chesterOps/salem-server/internal/query"
	"github.com/chesterOps/salem-server/internal/repository"
	"github.com/chesterOps/salem-server/internal/utils"
)

// CategoryService owns category CRUD, slug maintenance and the
// category→product unlink cascade.
type CategoryService struct {
	categories repository.CategoryRepository
	products   repository.ProductRepository
	logger     *zap.Logger
}

// NewCategoryService creates a new category service
func NewCategoryService(categories repository.CategoryRepository, products repository.ProductRepository, logger *zap.Logger) *CategoryService {
	return &CategoryService{
		categories: categories,
		products:   products,
		logger:     logger,
	}
}

// Create creates a category with a slug derived from its name.
func (s *CategoryService) Create(ctx context.Context, req *dto.CreateCategoryRequest) (*domain.Category, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("%w: category name is required", ErrValidation)
	}

	category := &domain.Category{
		Name: req.Name,
		Slug: utils.Slugify(req.Name),
	}

	if err := s.categories.Create(ctx, category); err != nil {
		return nil, err
	}

	return category, nil
}

// Get fetches a category by id or, failing a uuid parse, by slug.
func (s *CategoryService) Get(ctx context.Context, idOrSlug string) (*domain.Category, error) {
	var category *domain.Category
	var err error

	if _, parseErr := uuid.Parse(idOrSlug); parseErr == nil {
		category, err = s.categories.GetByID(ctx, idOrSlug)
	} else {
		category, err = s.categories.GetBySlug(ctx, idOrSlug)
	}

	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: category does not exist", ErrNotFound)
		}
		return nil, err
	}

	return category, nil
}

// List executes a query-string read plan against categories.
func (s *CategoryService) List(ctx context.Context, values url.Values) ([]map[string]any, error) {
	plan, err := query.Parse(values, repository.CategorySchema)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	categories, err := s.categories.FindMany(ctx, plan)
	if err != nil {
		return nil, err
	}

	return plan.Project(categories)
}

// Update applies a partial update, recomputing the slug when the name
// changes. Slug maintenance is explicit here rather than hidden in a
// persistence hook.
func (s *CategoryService) Update(ctx context.Context, id string, req *dto.UpdateCategoryRequest) (*domain.Category, error) {
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: category does not exist", ErrNotFound)
		}
		return nil, err
	}

	if req.Name != nil && *req.Name != "" {
		category.Name = *req.Name
		category.Slug = utils.Slugify(*req.Name)
	}

	if err := s.categories.Update(ctx, category); err != nil {
		return nil, err
	}

	return category, nil
}

// Delete removes a category and then unlinks it from every product.
// The unlink cascade is best-effort and runs independently of the
// response; a category referenced by zero products is a no-op success.
func (s *CategoryService) Delete(ctx context.Context, id string) error {
	if err := s.categories.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: category does not exist", ErrNotFound)
		}
		return err
	}

	go func() {
		if err := s.products.UnlinkCategory(context.Background(), id); err != nil {
			s.logger.Warn("failed to unlink deleted category from products",
				zap.String("category_id", id), zap.Error(err))
		}
	}()

	return nil
}
