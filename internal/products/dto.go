package product

import (
	"time"

	"github.com/google/uuid"

	"github.com/wrapnest/storefront-backend/pkg/db/models"
	"github.com/wrapnest/storefront-backend/pkg/enums"
	"github.com/wrapnest/storefront-backend/pkg/types"
)

// ProductDTO is the product shape returned to storefront clients.
type ProductDTO struct {
	ID                  uuid.UUID            `json:"id"`
	Slug                string               `json:"slug"`
	Name                string               `json:"name"`
	Description         *string              `json:"description,omitempty"`
	Kind                enums.ProductKind    `json:"kind"`
	CategoryID          *uuid.UUID           `json:"category_id,omitempty"`
	PriceCents          int                  `json:"price_cents"`
	CompareAtPriceCents *int                 `json:"compare_at_price_cents,omitempty"`
	Images              []string             `json:"images"`
	VideoURLs           []string             `json:"video_urls,omitempty"`
	VariantOptions      types.VariantOptions `json:"variant_options"`
	InStock             bool                 `json:"in_stock"`
	IsFeatured          bool                 `json:"is_featured"`
	Rating              types.RatingSummary  `json:"rating"`
	CreatedAt           time.Time            `json:"created_at"`
	UpdatedAt           time.Time            `json:"updated_at"`
}

// NewProductDTO maps a product row plus its rating summary.
func NewProductDTO(product *models.Product, rating types.RatingSummary) *ProductDTO {
	return &ProductDTO{
		ID:                  product.ID,
		Slug:                product.Slug,
		Name:                product.Name,
		Description:         product.Description,
		Kind:                product.Kind,
		CategoryID:          product.CategoryID,
		PriceCents:          product.PriceCents,
		CompareAtPriceCents: product.CompareAtPriceCents,
		Images:              product.Images,
		VideoURLs:           product.VideoURLs,
		VariantOptions:      product.VariantOptions,
		InStock:             product.InStock,
		IsFeatured:          product.IsFeatured,
		Rating:              rating,
		CreatedAt:           product.CreatedAt,
		UpdatedAt:           product.UpdatedAt,
	}
}

// ReviewDTO is the review shape returned to storefront clients.
type ReviewDTO struct {
	ID        uuid.UUID          `json:"id"`
	ProductID uuid.UUID          `json:"product_id"`
	Author    string             `json:"author"`
	Rating    int                `json:"rating"`
	Comment   *string            `json:"comment,omitempty"`
	Status    enums.ReviewStatus `json:"status"`
	CreatedAt time.Time          `json:"created_at"`
}

// NewReviewDTO maps a review row.
func NewReviewDTO(review *models.Review) *ReviewDTO {
	return &ReviewDTO{
		ID:        review.ID,
		ProductID: review.ProductID,
		Author:    review.Author,
		Rating:    review.Rating,
		Comment:   review.Comment,
		Status:    review.Status,
		CreatedAt: review.CreatedAt,
	}
}

// ReviewPage is one page of reviews.
type ReviewPage struct {
	Reviews    []ReviewDTO `json:"reviews"`
	NextCursor string      `json:"next_cursor,omitempty"`
}

// ProductPage is one page of products.
type ProductPage struct {
	Products   []ProductDTO `json:"products"`
	NextCursor string       `json:"next_cursor,omitempty"`
}
