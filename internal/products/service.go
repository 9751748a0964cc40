package product

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	"gorm.io/gorm"

	"github.com/wrapnest/storefront-backend/pkg/db/models"
	"github.com/wrapnest/storefront-backend/pkg/enums"
	pkgerrors "github.com/wrapnest/storefront-backend/pkg/errors"
	"github.com/wrapnest/storefront-backend/pkg/media"
	"github.com/wrapnest/storefront-backend/pkg/pagination"
	"github.com/wrapnest/storefront-backend/pkg/types"
)

// Service exposes the product catalog to the storefront and the admin panel.
type Service interface {
	GetByID(ctx context.Context, id uuid.UUID) (*ProductDTO, error)
	GetBySlug(ctx context.Context, slug string) (*ProductDTO, error)
	List(ctx context.Context, query ListQuery) (*ProductPage, error)

	Create(ctx context.Context, input CreateProductInput) (*ProductDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*ProductDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error

	CreateReview(ctx context.Context, input CreateReviewInput) (*ReviewDTO, error)
	ListReviews(ctx context.Context, productID uuid.UUID, params pagination.Params) (*ReviewPage, error)
	ApproveReview(ctx context.Context, id uuid.UUID) (*ReviewDTO, error)
	DeleteReview(ctx context.Context, id uuid.UUID) error

	ProductExists(ctx context.Context, id uuid.UUID) (bool, error)
}

// CreateProductInput holds the validated payload to create a product.
type CreateProductInput struct {
	Slug                string
	Name                string
	Description         *string
	Kind                enums.ProductKind
	CategoryID          *uuid.UUID
	PriceCents          int
	CompareAtPriceCents *int
	Images              []string
	VideoURLs           []string
	VariantOptions      types.VariantOptions
	InStock             bool
	IsFeatured          bool
}

// UpdateProductInput holds optional mutation values for a product.
type UpdateProductInput struct {
	Slug                *string
	Name                *string
	Description         *string
	Kind                *enums.ProductKind
	CategoryID          *uuid.UUID
	PriceCents          *int
	CompareAtPriceCents *int
	Images              *[]string
	VideoURLs           *[]string
	VariantOptions      *types.VariantOptions
	InStock             *bool
	IsFeatured          *bool
}

// CreateReviewInput holds the validated payload to submit a review. Reviews
// start in pending status until moderated.
type CreateReviewInput struct {
	ProductID uuid.UUID
	Author    string
	Rating    int
	Comment   *string
}

type service struct {
	repo      *Repository
	ingestor  *media.Ingestor
	slugCache *gocache.Cache
}

// SlugCacheConfig tunes the read-through cache on slug lookups.
type SlugCacheConfig struct {
	TTL     time.Duration
	Cleanup time.Duration
}

// NewService constructs a product service instance.
func NewService(repo *Repository, ingestor *media.Ingestor, cacheCfg SlugCacheConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if ingestor == nil {
		return nil, fmt.Errorf("media ingestor required")
	}
	if cacheCfg.TTL <= 0 {
		cacheCfg.TTL = 5 * time.Minute
	}
	if cacheCfg.Cleanup <= 0 {
		cacheCfg.Cleanup = 10 * time.Minute
	}
	return &service{
		repo:      repo,
		ingestor:  ingestor,
		slugCache: gocache.New(cacheCfg.TTL, cacheCfg.Cleanup),
	}, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*ProductDTO, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapProductLookupErr(err)
	}
	return s.withRating(ctx, product)
}

// GetBySlug resolves the slug through an in-process cache. The cache maps
// slug to product id so a stale entry can never serve stale product data.
func (s *service) GetBySlug(ctx context.Context, slug string) (*ProductDTO, error) {
	slug = strings.ToLower(strings.TrimSpace(slug))

	if cached, ok := s.slugCache.Get(slug); ok {
		if id, ok := cached.(uuid.UUID); ok {
			dto, err := s.GetByID(ctx, id)
			if err == nil {
				return dto, nil
			}
			// fall through on a stale mapping
			s.slugCache.Delete(slug)
		}
	}

	product, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, mapProductLookupErr(err)
	}
	s.slugCache.SetDefault(slug, product.ID)
	return s.withRating(ctx, product)
}

func (s *service) List(ctx context.Context, query ListQuery) (*ProductPage, error) {
	result, err := s.repo.ListProducts(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list products")
	}

	page := &ProductPage{
		Products:   make([]ProductDTO, 0, len(result.Products)),
		NextCursor: result.NextCursor,
	}
	for i := range result.Products {
		dto, err := s.withRating(ctx, &result.Products[i])
		if err != nil {
			return nil, err
		}
		page.Products = append(page.Products, *dto)
	}
	return page, nil
}

func (s *service) Create(ctx context.Context, input CreateProductInput) (*ProductDTO, error) {
	slug := strings.ToLower(strings.TrimSpace(input.Slug))
	if slug == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "slug is required")
	}
	if !input.Kind.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid product kind")
	}
	if err := validateVariantOptions(input.Kind, input.VariantOptions); err != nil {
		return nil, err
	}

	images, err := s.ingestor.IngestAll(input.Images)
	if err != nil {
		return nil, err
	}

	product := &models.Product{
		Slug:                slug,
		Name:                strings.TrimSpace(input.Name),
		Description:         input.Description,
		Kind:                input.Kind,
		CategoryID:          input.CategoryID,
		PriceCents:          input.PriceCents,
		CompareAtPriceCents: input.CompareAtPriceCents,
		Images:              images,
		VideoURLs:           input.VideoURLs,
		VariantOptions:      input.VariantOptions,
		InStock:             input.InStock,
		IsFeatured:          input.IsFeatured,
	}
	created, err := s.repo.CreateProduct(ctx, product)
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "product slug already in use")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert product")
	}
	return s.withRating(ctx, created)
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*ProductDTO, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapProductLookupErr(err)
	}
	oldSlug := product.Slug

	if input.Slug != nil {
		slug := strings.ToLower(strings.TrimSpace(*input.Slug))
		if slug == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "slug is required")
		}
		product.Slug = slug
	}
	if input.Name != nil {
		product.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		product.Description = input.Description
	}
	if input.Kind != nil {
		if !input.Kind.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid product kind")
		}
		product.Kind = *input.Kind
	}
	if input.CategoryID != nil {
		product.CategoryID = input.CategoryID
	}
	if input.PriceCents != nil {
		product.PriceCents = *input.PriceCents
	}
	if input.CompareAtPriceCents != nil {
		product.CompareAtPriceCents = input.CompareAtPriceCents
	}
	if input.Images != nil {
		images, err := s.ingestor.IngestAll(*input.Images)
		if err != nil {
			return nil, err
		}
		product.Images = images
	}
	if input.VideoURLs != nil {
		product.VideoURLs = append([]string(nil), (*input.VideoURLs)...)
	}
	if input.VariantOptions != nil {
		product.VariantOptions = *input.VariantOptions
	}
	if input.InStock != nil {
		product.InStock = *input.InStock
	}
	if input.IsFeatured != nil {
		product.IsFeatured = *input.IsFeatured
	}

	if err := validateVariantOptions(product.Kind, product.VariantOptions); err != nil {
		return nil, err
	}

	updated, err := s.repo.UpdateProduct(ctx, product)
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "product slug already in use")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update product")
	}

	s.slugCache.Delete(oldSlug)
	s.slugCache.Delete(updated.Slug)
	return s.withRating(ctx, updated)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return mapProductLookupErr(err)
	}
	if err := s.repo.DeleteProduct(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete product")
	}
	s.slugCache.Delete(product.Slug)
	return nil
}

func (s *service) CreateReview(ctx context.Context, input CreateReviewInput) (*ReviewDTO, error) {
	if input.Rating < 1 || input.Rating > 5 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rating must be between 1 and 5")
	}
	author := strings.TrimSpace(input.Author)
	if author == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "author is required")
	}

	if _, err := s.repo.FindByID(ctx, input.ProductID); err != nil {
		return nil, mapProductLookupErr(err)
	}

	review := &models.Review{
		ProductID: input.ProductID,
		Author:    author,
		Rating:    input.Rating,
		Comment:   input.Comment,
		Status:    enums.ReviewStatusPending,
	}
	created, err := s.repo.CreateReview(ctx, review)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert review")
	}
	return NewReviewDTO(created), nil
}

// ListReviews returns the approved reviews for a product; pending reviews are
// never exposed to the storefront.
func (s *service) ListReviews(ctx context.Context, productID uuid.UUID, params pagination.Params) (*ReviewPage, error) {
	rows, nextCursor, err := s.repo.ListReviews(ctx, productID, enums.ReviewStatusApproved, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list reviews")
	}

	page := &ReviewPage{
		Reviews:    make([]ReviewDTO, 0, len(rows)),
		NextCursor: nextCursor,
	}
	for i := range rows {
		page.Reviews = append(page.Reviews, *NewReviewDTO(&rows[i]))
	}
	return page, nil
}

func (s *service) ApproveReview(ctx context.Context, id uuid.UUID) (*ReviewDTO, error) {
	review, err := s.repo.FindReview(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "review not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load review")
	}

	review.Status = enums.ReviewStatusApproved
	updated, err := s.repo.UpdateReview(ctx, review)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update review")
	}
	return NewReviewDTO(updated), nil
}

func (s *service) DeleteReview(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindReview(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "review not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load review")
	}
	if err := s.repo.DeleteReview(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete review")
	}
	return nil
}

func (s *service) ProductExists(ctx context.Context, id uuid.UUID) (bool, error) {
	return s.repo.ProductExists(ctx, id)
}

func (s *service) withRating(ctx context.Context, product *models.Product) (*ProductDTO, error) {
	average, count, err := s.repo.RatingSummary(ctx, product.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: rating summary")
	}
	return NewProductDTO(product, types.RatingSummary{Average: average, Count: count}), nil
}

func validateVariantOptions(kind enums.ProductKind, opts types.VariantOptions) error {
	if kind == enums.ProductKindDeviceSkin {
		if len(opts.DeviceCatalog) == 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "device skins need a device catalog")
		}
		return nil
	}
	if len(opts.DeviceCatalog) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "only device skins carry a device catalog")
	}
	return nil
}

func mapProductLookupErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
}
