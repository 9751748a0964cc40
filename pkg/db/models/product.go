package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wrapnest/storefront-backend/pkg/enums"
	"github.com/wrapnest/storefront-backend/pkg/types"
)

// Product is the canonical catalog listing. Gallery images are stored inline
// as base64 data URIs, mirroring the document-database layout this storefront
// was built on.
type Product struct {
	ID                  uuid.UUID            `gorm:"column:id;type:uuid;primaryKey"`
	Slug                string               `gorm:"column:slug;not null;uniqueIndex:products_slug_key"`
	Name                string               `gorm:"column:name;not null"`
	Description         *string              `gorm:"column:description"`
	Kind                enums.ProductKind    `gorm:"column:kind;not null"`
	CategoryID          *uuid.UUID           `gorm:"column:category_id;type:uuid;index:products_category_id_idx"`
	PriceCents          int                  `gorm:"column:price_cents;not null"`
	CompareAtPriceCents *int                 `gorm:"column:compare_at_price_cents"`
	Images              []string             `gorm:"column:images;serializer:json"`
	VideoURLs           []string             `gorm:"column:video_urls;serializer:json"`
	VariantOptions      types.VariantOptions `gorm:"column:variant_options;serializer:json"`
	InStock             bool                 `gorm:"column:in_stock;not null"`
	IsFeatured          bool                 `gorm:"column:is_featured;not null"`
	CreatedAt           time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt           time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}

// BeforeCreate assigns an id when the caller did not. Keeps the sqlite test
// path working where gen_random_uuid() is unavailable.
func (p *Product) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
