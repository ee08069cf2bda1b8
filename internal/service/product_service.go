package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/url"
	"slices"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/chesterOps/salem-server/internal/domain"
	"github.com/chesterOps/salem-server/internal/dto"
	"github.com/chesterOps/salem-server/internal/media"
	"github.com/chesterOps/salem-server/internal/query"
	"github.com/chesterOps/salem-server/internal/repository"
	"github.com/chesterOps/salem-server/internal/utils"
)

// relatedLimit caps the related-products list.
const relatedLimit = 4

// ProductService owns product CRUD, slug maintenance, hosted-image
// lifecycle and the related-products query.
type ProductService struct {
	products   repository.ProductRepository
	categories repository.CategoryRepository
	media      media.Client
	logger     *zap.Logger
}

// NewProductService creates a new product service
func NewProductService(products repository.ProductRepository, categories repository.CategoryRepository, mediaClient media.Client, logger *zap.Logger) *ProductService {
	return &ProductService{
		products:   products,
		categories: categories,
		media:      mediaClient,
		logger:     logger,
	}
}

// Create validates the payload, uploads any images and creates the
// product. All uploads must succeed before anything is written: the
// images array is committed together or not at all.
func (s *ProductService) Create(ctx context.Context, req *dto.CreateProductRequest, files []*multipart.FileHeader) (*domain.Product, error) {
	if err := validateSizes(req.Sizes); err != nil {
		return nil, err
	}

	colors, err := parseColors(req.Colors)
	if err != nil {
		return nil, err
	}

	if err := s.checkCategories(ctx, req.Category); err != nil {
		return nil, err
	}

	images, publicIDs, err := s.uploadImages(ctx, files)
	if err != nil {
		return nil, err
	}

	published := true
	if req.Published != nil {
		published = *req.Published
	}

	product := &domain.Product{
		Title:          req.Title,
		Slug:           utils.Slugify(req.Title),
		Description:    req.Description,
		Published:      published,
		Price:          req.Price,
		Discount:       req.Discount,
		Tag:            req.Tag,
		Images:         images,
		ImagePublicIDs: publicIDs,
		Sizes:          req.Sizes,
		Colors:         colors,
	}
	for _, id := range req.Category {
		product.Categories = append(product.Categories, domain.CategoryRef{ID: id})
	}

	if err := s.products.Create(ctx, product); err != nil {
		return nil, err
	}

	return s.products.GetByID(ctx, product.ID)
}

// Get fetches a product by id or, failing a uuid parse, by slug.
func (s *ProductService) Get(ctx context.Context, idOrSlug string) (*domain.Product, error) {
	var product *domain.Product
	var err error

	if _, parseErr := uuid.Parse(idOrSlug); parseErr == nil {
		product, err = s.products.GetByID(ctx, idOrSlug)
	} else {
		product, err = s.products.GetBySlug(ctx, idOrSlug)
	}

	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: product does not exist", ErrNotFound)
		}
		return nil, err
	}

	return product, nil
}

// List executes a query-string read plan against products.
func (s *ProductService) List(ctx context.Context, values url.Values) ([]map[string]any, error) {
	plan, err := query.Parse(values, repository.ProductSchema)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	products, err := s.products.FindMany(ctx, plan)
	if err != nil {
		return nil, err
	}

	return plan.Project(products)
}

// Update applies a partial update. The slug is recomputed when the
// title changes, including on partial updates. When new images are
// supplied the old hosted images are deleted only after the update
// write succeeds; a failed cleanup is logged, never surfaced.
func (s *ProductService) Update(ctx context.Context, id string, req *dto.UpdateProductRequest, files []*multipart.FileHeader) (*domain.Product, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: product does not exist", ErrNotFound)
		}
		return nil, err
	}

	if err := validateSizes(req.Sizes); err != nil {
		return nil, err
	}

	if req.Title != nil && *req.Title != "" {
		product.Title = *req.Title
		product.Slug = utils.Slugify(*req.Title)
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.Discount != nil {
		product.Discount = req.Discount
	}
	if req.Tag != nil {
		product.Tag = req.Tag
	}
	if req.Published != nil {
		product.Published = *req.Published
	}
	if req.Sales != nil {
		product.Sales = *req.Sales
	}
	if req.Rating != nil {
		product.Rating = *req.Rating
	}
	if len(req.Sizes) > 0 {
		product.Sizes = req.Sizes
	}
	if req.Colors != nil {
		colors, err := parseColors(*req.Colors)
		if err != nil {
			return nil, err
		}
		product.Colors = colors
	}
	if len(req.Category) > 0 {
		if err := s.checkCategories(ctx, req.Category); err != nil {
			return nil, err
		}
		product.Categories = nil
		for _, categoryID := range req.Category {
			product.Categories = append(product.Categories, domain.CategoryRef{ID: categoryID})
		}
	}

	oldPublicIDs := product.ImagePublicIDs
	if len(files) > 0 {
		images, publicIDs, err := s.uploadImages(ctx, files)
		if err != nil {
			return nil, err
		}
		product.Images = images
		product.ImagePublicIDs = publicIDs
	}

	if err := s.products.Update(ctx, product); err != nil {
		return nil, err
	}

	if len(files) > 0 && len(oldPublicIDs) > 0 {
		s.deleteImagesAsync(oldPublicIDs)
	}

	return s.products.GetByID(ctx, product.ID)
}

// Delete removes a product and then deletes its hosted images. The
// image cleanup runs independently of the response and is never
// retried or surfaced.
func (s *ProductService) Delete(ctx context.Context, id string) error {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: product does not exist", ErrNotFound)
		}
		return err
	}

	if err := s.products.Delete(ctx, id); err != nil {
		return err
	}

	if len(product.ImagePublicIDs) > 0 {
		s.deleteImagesAsync(product.ImagePublicIDs)
	}

	return nil
}

// ByCategorySlug returns the products of the category with the given
// slug, newest first.
func (s *ProductService) ByCategorySlug(ctx context.Context, slug string) ([]*domain.Product, error) {
	category, err := s.categories.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: category not found", ErrNotFound)
		}
		return nil, err
	}

	return s.products.FindByCategory(ctx, category.ID)
}

// Related returns up to four products sharing a category or tag with
// the given one. When nothing matches it falls back to arbitrary other
// products rather than an empty list.
func (s *ProductService) Related(ctx context.Context, idOrSlug string) ([]*domain.Product, error) {
	product, err := s.Get(ctx, idOrSlug)
	if err != nil {
		return nil, err
	}

	related, err := s.products.FindRelated(ctx, product.ID, product.CategoryIDs(), product.Tag, relatedLimit)
	if err != nil {
		return nil, err
	}

	if len(related) == 0 {
		related, err = s.products.FindAnyExcept(ctx, product.ID, relatedLimit)
		if err != nil {
			return nil, err
		}
	}

	return related, nil
}

// uploadImages pushes all files to the media host in parallel. Either
// every upload succeeds or the whole batch fails; images that did land
// before a failure are cleaned up best-effort.
func (s *ProductService) uploadImages(ctx context.Context, files []*multipart.FileHeader) ([]string, []string, error) {
	if len(files) == 0 {
		return nil, nil, nil
	}

	type result struct {
		index int
		image *media.Image
		err   error
	}

	results := make(chan result, len(files))
	for i, fh := range files {
		go func(i int, fh *multipart.FileHeader) {
			image, err := s.uploadOne(ctx, fh)
			results <- result{index: i, image: image, err: err}
		}(i, fh)
	}

	urls := make([]string, len(files))
	publicIDs := make([]string, len(files))
	var firstErr error
	for range files {
		r := <-results
		if r.err != nil {
			if firstErr == nil {
				firstErr = r.err
			}
			continue
		}
		urls[r.index] = r.image.URL
		publicIDs[r.index] = r.image.PublicID
	}

	if firstErr != nil {
		var uploaded []string
		for _, id := range publicIDs {
			if id != "" {
				uploaded = append(uploaded, id)
			}
		}
		if len(uploaded) > 0 {
			s.deleteImagesAsync(uploaded)
		}
		return nil, nil, fmt.Errorf("failed to upload images: %w", firstErr)
	}

	return urls, publicIDs, nil
}

func (s *ProductService) uploadOne(ctx context.Context, fh *multipart.FileHeader) (*media.Image, error) {
	file, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", fh.Filename, err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", fh.Filename, err)
	}

	return s.media.Upload(ctx, data, fh.Filename)
}

func (s *ProductService) deleteImagesAsync(publicIDs []string) {
	go func() {
		if err := s.media.BulkDelete(context.Background(), publicIDs); err != nil {
			s.logger.Warn("failed to delete hosted images",
				zap.Strings("public_ids", publicIDs), zap.Error(err))
		}
	}()
}

func (s *ProductService) checkCategories(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	count, err := s.categories.CountExisting(ctx, ids)
	if err != nil {
		return err
	}
	if count != len(ids) {
		return fmt.Errorf("%w: one or more provided categories do not exist", ErrValidation)
	}

	return nil
}

func validateSizes(sizes []string) error {
	for _, size := range sizes {
		if !slices.Contains(domain.ValidSizes, size) {
			return fmt.Errorf("%w: invalid size %q", ErrValidation, size)
		}
	}
	return nil
}

func parseColors(raw string) (domain.Colors, error) {
	if raw == "" {
		return nil, nil
	}

	var colors domain.Colors
	if err := json.Unmarshal([]byte(raw), &colors); err != nil {
		return nil, fmt.Errorf("%w: colors must be a JSON array of {name, hex}", ErrValidation)
	}

	return colors, nil
}
