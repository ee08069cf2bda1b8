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

const productColumns = `id, title, slug, description, published, sales, rating, price, discount, tag, images, images_public_ids, sizes, colors, revision, created_at, updated_at`

// productRepository implements ProductRepository interface
type productRepository struct {
	db *database.Postgres
}

// NewProductRepository creates a new product repository
func NewProductRepository(db *database.Postgres) ProductRepository {
	return &productRepository{db: db}
}

// Create creates a new product and its category links in one transaction.
func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	if product.ID == "" {
		product.ID = uuid.New().String()
	}

	now := time.Now()
	if product.CreatedAt.IsZero() {
		product.CreatedAt = now
	}
	if product.UpdatedAt.IsZero() {
		product.UpdatedAt = now
	}

	tx, err := r.db.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt := `
		INSERT INTO products (id, title, slug, description, published, sales, rating, price, discount, tag,
		                      images, images_public_ids, sizes, colors, revision, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`

	_, err = tx.ExecContext(ctx, stmt,
		product.ID,
		product.Title,
		product.Slug,
		product.Description,
		product.Published,
		product.Sales,
		product.Rating,
		product.Price,
		product.Discount,
		product.Tag,
		pq.Array(product.Images),
		pq.Array(product.ImagePublicIDs),
		pq.Array(product.Sizes),
		product.Colors,
		product.Revision,
		product.CreatedAt,
		product.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}

	if err := linkCategories(ctx, tx, product.ID, product.CategoryIDs()); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit product: %w", err)
	}

	return nil
}

// GetByID retrieves a product by ID, with categories expanded.
func (r *productRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	return r.getBy(ctx, "id", id)
}

// GetBySlug retrieves a product by slug, with categories expanded.
func (r *productRepository) GetBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	return r.getBy(ctx, "slug", slug)
}

func (r *productRepository) getBy(ctx context.Context, column, value string) (*domain.Product, error) {
	row := r.db.DB.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE `+column+` = $1`, value)

	product, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("product with %s %s not found: %w", column, value, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get product by %s: %w", column, err)
	}

	if err := r.attachCategories(ctx, []*domain.Product{product}); err != nil {
		return nil, err
	}

	return product, nil
}

// Update updates a product and replaces its category links, bumping
// the revision.
func (r *productRepository) Update(ctx context.Context, product *domain.Product) error {
	tx, err := r.db.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt := `
		UPDATE products
		SET title = $2, slug = $3, description = $4, published = $5, sales = $6, rating = $7,
		    price = $8, discount = $9, tag = $10, images = $11, images_public_ids = $12,
		    sizes = $13, colors = $14, revision = revision + 1, updated_at = $15
		WHERE id = $1
	`

	product.UpdatedAt = time.Now()

	result, err := tx.ExecContext(ctx, stmt,
		product.ID,
		product.Title,
		product.Slug,
		product.Description,
		product.Published,
		product.Sales,
		product.Rating,
		product.Price,
		product.Discount,
		product.Tag,
		pq.Array(product.Images),
		pq.Array(product.ImagePublicIDs),
		pq.Array(product.Sizes),
		product.Colors,
		product.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}

	if err := checkAffected(result, "product", product.ID); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM product_categories WHERE product_id = $1`, product.ID); err != nil {
		return fmt.Errorf("failed to unlink product categories: %w", err)
	}
	if err := linkCategories(ctx, tx, product.ID, product.CategoryIDs()); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit product update: %w", err)
	}

	return nil
}

// Delete deletes a product by ID; category links go with it.
func (r *productRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.DB.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return checkAffected(result, "product", id)
}

// FindMany executes a read plan against the product collection,
// expanding category references on the result.
func (r *productRepository) FindMany(ctx context.Context, plan *query.Plan) ([]*domain.Product, error) {
	where, args := plan.WhereSQL()
	page, pageArgs := plan.PageSQL(len(args) + 1)
	args = append(args, pageArgs...)

	stmt := `SELECT ` + productColumns + ` FROM products` + where + plan.OrderSQL() + page

	products, err := r.queryProducts(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}

	if err := r.attachCategories(ctx, products); err != nil {
		return nil, err
	}

	return products, nil
}

// FindByCategory returns the products linked to a category, newest first.
func (r *productRepository) FindByCategory(ctx context.Context, categoryID string) ([]*domain.Product, error) {
	stmt := `
		SELECT ` + productColumns + ` FROM products
		WHERE id IN (SELECT product_id FROM product_categories WHERE category_id = $1)
		ORDER BY created_at DESC
	`

	products, err := r.queryProducts(ctx, stmt, categoryID)
	if err != nil {
		return nil, err
	}

	if err := r.attachCategories(ctx, products); err != nil {
		return nil, err
	}

	return products, nil
}

// FindRelated returns up to limit products sharing any of the category
// ids or the exact tag, never the excluded product itself.
func (r *productRepository) FindRelated(ctx context.Context, excludeID string, categoryIDs []string, tag *string, limit int) ([]*domain.Product, error) {
	stmt := `
		SELECT ` + productColumns + ` FROM products p
		WHERE p.id <> $1
		  AND (
		    EXISTS (
		      SELECT 1 FROM product_categories pc
		      WHERE pc.product_id = p.id AND pc.category_id = ANY($2)
		    )
		    OR ($3::text IS NOT NULL AND p.tag = $3)
		  )
		ORDER BY p.created_at DESC
		LIMIT $4
	`

	products, err := r.queryProducts(ctx, stmt, excludeID, pq.Array(categoryIDs), tag, limit)
	if err != nil {
		return nil, err
	}

	if err := r.attachCategories(ctx, products); err != nil {
		return nil, err
	}

	return products, nil
}

// FindAnyExcept returns up to limit arbitrary products excluding one id.
func (r *productRepository) FindAnyExcept(ctx context.Context, excludeID string, limit int) ([]*domain.Product, error) {
	stmt := `
		SELECT ` + productColumns + ` FROM products
		WHERE id <> $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	products, err := r.queryProducts(ctx, stmt, excludeID, limit)
	if err != nil {
		return nil, err
	}

	if err := r.attachCategories(ctx, products); err != nil {
		return nil, err
	}

	return products, nil
}

// UnlinkCategory removes a category from every product's category list.
func (r *productRepository) UnlinkCategory(ctx context.Context, categoryID string) error {
	_, err := r.db.DB.ExecContext(ctx,
		`DELETE FROM product_categories WHERE category_id = $1`, categoryID)
	if err != nil {
		return fmt.Errorf("failed to unlink category: %w", err)
	}
	return nil
}

func (r *productRepository) queryProducts(ctx context.Context, stmt string, args ...any) ([]*domain.Product, error) {
	rows, err := r.db.DB.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []*domain.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate products: %w", err)
	}

	return products, nil
}

// attachCategories expands the category references (id + name) of the
// given products with a single batch query.
func (r *productRepository) attachCategories(ctx context.Context, products []*domain.Product) error {
	if len(products) == 0 {
		return nil
	}

	ids := make([]string, 0, len(products))
	byID := make(map[string]*domain.Product, len(products))
	for _, p := range products {
		ids = append(ids, p.ID)
		byID[p.ID] = p
		p.Categories = []domain.CategoryRef{}
	}

	stmt := `
		SELECT pc.product_id, c.id, c.name
		FROM product_categories pc
		JOIN categories c ON c.id = pc.category_id
		WHERE pc.product_id = ANY($1)
	`

	rows, err := r.db.DB.QueryContext(ctx, stmt, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("failed to query product categories: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var productID string
		var ref domain.CategoryRef
		if err := rows.Scan(&productID, &ref.ID, &ref.Name); err != nil {
			return fmt.Errorf("failed to scan product category: %w", err)
		}
		if p, ok := byID[productID]; ok {
			p.Categories = append(p.Categories, ref)
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate product categories: %w", err)
	}

	return nil
}

func linkCategories(ctx context.Context, tx *sql.Tx, productID string, categoryIDs []string) error {
	for _, categoryID := range categoryIDs {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO product_categories (product_id, category_id) VALUES ($1, $2)`,
			productID, categoryID)
		if err != nil {
			return fmt.Errorf("failed to link category %s: %w", categoryID, err)
		}
	}
	return nil
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	product := &domain.Product{}
	var discount sql.NullFloat64
	var tag sql.NullString

	err := row.Scan(
		&product.ID,
		&product.Title,
		&product.Slug,
		&product.Description,
		&product.Published,
		&product.Sales,
		&product.Rating,
		&product.Price,
		&discount,
		&tag,
		pq.Array(&product.Images),
		pq.Array(&product.ImagePublicIDs),
		pq.Array(&product.Sizes),
		&product.Colors,
		&product.Revision,
		&product.CreatedAt,
		&product.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if discount.Valid {
		product.Discount = &discount.Float64
	}
	if tag.Valid {
		product.Tag = &tag.String
	}

	return product, nil
}
