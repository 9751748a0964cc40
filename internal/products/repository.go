package product

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wrapnest/storefront-backend/internal/repo"
	"github.com/wrapnest/storefront-backend/pkg/db/models"
	"github.com/wrapnest/storefront-backend/pkg/enums"
	"github.com/wrapnest/storefront-backend/pkg/pagination"
)

// Repository wires together product and review persistence.
type Repository struct {
	repo.Base
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return NewRepository(tx)
}

// CreateProduct inserts a new product row.
func (r *Repository) CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.DB(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// UpdateProduct saves the full product row.
func (r *Repository) UpdateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.DB(ctx).Save(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// DeleteProduct removes a product and its reviews.
func (r *Repository) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	tx := r.DB(ctx)
	if err := tx.Where("product_id = ?", id).Delete(&models.Review{}).Error; err != nil {
		return err
	}
	return tx.Where("id = ?", id).Delete(&models.Product{}).Error
}

// FindByID loads one product.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.DB(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// FindBySlug loads one product by its URL slug.
func (r *Repository) FindBySlug(ctx context.Context, slug string) (*models.Product, error) {
	var product models.Product
	if err := r.DB(ctx).First(&product, "slug = ?", slug).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// ProductExists reports whether a product row exists without loading it.
func (r *Repository) ProductExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := r.DB(ctx).Model(&models.Product{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// ListFilters narrows the storefront product listing.
type ListFilters struct {
	CategoryID *uuid.UUID
	Kind       *enums.ProductKind
	Featured   *bool
	InStock    *bool
	Query      string
}

// ListQuery combines filters with cursor pagination.
type ListQuery struct {
	Pagination pagination.Params
	Filters    ListFilters
}

// ListResult is one page of products plus the cursor for the next page.
type ListResult struct {
	Products   []models.Product
	NextCursor string
}

// ListProducts returns a page ordered by newest first.
func (r *Repository) ListProducts(ctx context.Context, query ListQuery) (*ListResult, error) {
	pageSize := pagination.NormalizeLimit(query.Pagination.Limit)
	cursor, err := pagination.Parse(query.Pagination.Cursor)
	if err != nil {
		return nil, err
	}

	qb := r.DB(ctx).Model(&models.Product{})

	filter := query.Filters
	if filter.CategoryID != nil {
		qb = qb.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.Kind != nil {
		qb = qb.Where("kind = ?", *filter.Kind)
	}
	if filter.Featured != nil {
		qb = qb.Where("is_featured = ?", *filter.Featured)
	}
	if filter.InStock != nil {
		qb = qb.Where("in_stock = ?", *filter.InStock)
	}
	if search := strings.TrimSpace(filter.Query); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		qb = qb.Where("(LOWER(name) LIKE ? OR LOWER(slug) LIKE ?)", pattern, pattern)
	}

	if cursor != nil {
		qb = qb.Where("(created_at < ?) OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}

	var rows []models.Product
	err = qb.Order("created_at DESC").Order("id DESC").
		Limit(pagination.LimitWithBuffer(query.Pagination.Limit)).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	nextCursor := ""
	if len(rows) > pageSize {
		rows = rows[:pageSize]
		last := rows[len(rows)-1]
		nextCursor = pagination.Encode(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return &ListResult{Products: rows, NextCursor: nextCursor}, nil
}

// CreateReview inserts a review row.
func (r *Repository) CreateReview(ctx context.Context, review *models.Review) (*models.Review, error) {
	if err := r.DB(ctx).Create(review).Error; err != nil {
		return nil, err
	}
	return review, nil
}

// FindReview loads one review.
func (r *Repository) FindReview(ctx context.Context, id uuid.UUID) (*models.Review, error) {
	var review models.Review
	if err := r.DB(ctx).First(&review, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

// UpdateReview saves the full review row.
func (r *Repository) UpdateReview(ctx context.Context, review *models.Review) (*models.Review, error) {
	if err := r.DB(ctx).Save(review).Error; err != nil {
		return nil, err
	}
	return review, nil
}

// DeleteReview removes a review by id.
func (r *Repository) DeleteReview(ctx context.Context, id uuid.UUID) error {
	return r.DB(ctx).Where("id = ?", id).Delete(&models.Review{}).Error
}

// ListReviews returns a page of a product's reviews, newest first. When
// status is non-empty only reviews in that status are returned.
func (r *Repository) ListReviews(ctx context.Context, productID uuid.UUID, status enums.ReviewStatus, params pagination.Params) ([]models.Review, string, error) {
	pageSize := pagination.NormalizeLimit(params.Limit)
	cursor, err := pagination.Parse(params.Cursor)
	if err != nil {
		return nil, "", err
	}

	qb := r.DB(ctx).Where("product_id = ?", productID)
	if status != "" {
		qb = qb.Where("status = ?", status)
	}
	if cursor != nil {
		qb = qb.Where("(created_at < ?) OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}

	var rows []models.Review
	err = qb.Order("created_at DESC").Order("id DESC").
		Limit(pagination.LimitWithBuffer(params.Limit)).
		Find(&rows).Error
	if err != nil {
		return nil, "", err
	}

	nextCursor := ""
	if len(rows) > pageSize {
		rows = rows[:pageSize]
		last := rows[len(rows)-1]
		nextCursor = pagination.Encode(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return rows, nextCursor, nil
}

type ratingRow struct {
	Average float64
	Count   int64
}

// RatingSummary aggregates approved review scores for a product.
func (r *Repository) RatingSummary(ctx context.Context, productID uuid.UUID) (float64, int, error) {
	var row ratingRow
	err := r.DB(ctx).Model(&models.Review{}).
		Select("COALESCE(AVG(rating), 0) AS average, COUNT(*) AS count").
		Where("product_id = ? AND status = ?", productID, enums.ReviewStatusApproved).
		Scan(&row).Error
	if err != nil {
		return 0, 0, err
	}
	return row.Average, int(row.Count), nil
}
