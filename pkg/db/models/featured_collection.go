package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FeaturedCollection groups hand-picked products for a storefront section.
type FeaturedCollection struct {
	ID          uuid.UUID   `gorm:"column:id;type:uuid;primaryKey"`
	Title       string      `gorm:"column:title;not null"`
	Handle      string      `gorm:"column:handle;not null;uniqueIndex:featured_collections_handle_key"`
	Description *string     `gorm:"column:description"`
	Image       *string     `gorm:"column:image"`
	ProductIDs  []uuid.UUID `gorm:"column:product_ids;serializer:json"`
	Position    int         `gorm:"column:position;not null;default:0"`
	IsActive    bool        `gorm:"column:is_active;not null"`
	CreatedAt   time.Time   `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time   `gorm:"column:updated_at;autoUpdateTime"`
}

func (f *FeaturedCollection) BeforeCreate(*gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}
