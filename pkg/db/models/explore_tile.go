package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ExploreTile is a merchandising tile pointing at a single product.
type ExploreTile struct {
	ID        uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	Title     string     `gorm:"column:title;not null"`
	Image     string     `gorm:"column:image;not null"`
	ProductID *uuid.UUID `gorm:"column:product_id;type:uuid;index:explore_tiles_product_id_idx"`
	Position  int        `gorm:"column:position;not null;default:0"`
	IsActive  bool       `gorm:"column:is_active;not null"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (e *ExploreTile) BeforeCreate(*gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
