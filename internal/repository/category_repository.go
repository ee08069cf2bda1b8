package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/chesterOps/salem-server/internal/domain"
	"github.com/chesterOps/salem-server/internal/query"
	"github.com/chesterOps/salem-server/pkg/database"
)

const categoryColumns = `id, name, slug, revision, created_at, updated_at`

// categoryRepository implements CategoryRepository interface
type categoryRepository struct {
	db *database.Postgres
}

// NewCategoryRepository creates a new category repository
func NewCategoryRepository(db *database.Postgres) CategoryRepository {
	return &categoryRepository{db: db}
}

// Create creates a new category
func (r *categoryRepository) Create(ctx context.Context, category *domain.Category) error {
	stmt := `
		INSERT INTO categories (id, name, slug, revision, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	if category.ID == "" {
		category.ID = uuid.New().String()
	}

	now := time.Now()
	if category.CreatedAt.IsZero() {
		category.CreatedAt = now
	}
	if category.UpdatedAt.IsZero() {
		category.UpdatedAt = now
	}

	_, err := r.db.DB.ExecContext(ctx, stmt,
		category.ID,
		category.Name,
		category.Slug,
		category.Revision,
		category.CreatedAt,
		category.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create category: %w", err)
	}

	return nil
}

// GetByID retrieves a category by ID
func (r *categoryRepository) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	return r.getBy(ctx, "id", id)
}

// GetBySlug retrieves a category by slug
func (r *categoryRepository) GetBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	return r.getBy(ctx, "slug", slug)
}

func (r *categoryRepository) getBy(ctx context.Context, column, value string) (*domain.Category, error) {
	category := &domain.Category{}

	err := r.db.DB.QueryRowContext(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE `+column+` = $1`, value).Scan(
		&category.ID,
		&category.Name,
		&category.Slug,
		&category.Revision,
		&category.CreatedAt,
		&category.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("category with %s %s not found: %w", column, value, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get category by %s: %w", column, err)
	}

	return category, nil
}

// Update updates an existing category and bumps its revision.
func (r *categoryRepository) Update(ctx context.Context, category *domain.Category) error {
	stmt := `
		UPDATE categories
		SET name = $2, slug = $3, revision = revision + 1, updated_at = $4
		WHERE id = $1
	`

	category.UpdatedAt = time.Now()

	result, err := r.db.DB.ExecContext(ctx, stmt,
		category.ID,
		category.Name,
		category.Slug,
		category.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update category: %w", err)
	}

	return checkAffected(result, "category", category.ID)
}

// Delete deletes a category by ID
func (r *categoryRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.DB.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	return checkAffected(result, "category", id)
}

// FindMany executes a read plan against the category collection.
func (r *categoryRepository) FindMany(ctx context.Context, plan *query.Plan) ([]*domain.Category, error) {
	where, args := plan.WhereSQL()
	page, pageArgs := plan.PageSQL(len(args) + 1)
	args = append(args, pageArgs...)

	stmt := `SELECT ` + categoryColumns + ` FROM categories` + where + plan.OrderSQL() + page

	rows, err := r.db.DB.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	var categories []*domain.Category
	for rows.Next() {
		category := &domain.Category{}
		err := rows.Scan(
			&category.ID,
			&category.Name,
			&category.Slug,
			&category.Revision,
			&category.CreatedAt,
			&category.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, category)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate categories: %w", err)
	}

	return categories, nil
}

// CountExisting reports how many of the given category ids exist.
func (r *categoryRepository) CountExisting(ctx context.Context, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	var count int
	err := r.db.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM categories WHERE id = ANY($1)`, pq.Array(ids)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count categories: %w", err)
	}

	return count, nil
}
