package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wrapnest/storefront-backend/pkg/enums"
)

// Review is a customer product review awaiting or past moderation.
type Review struct {
	ID        uuid.UUID          `gorm:"column:id;type:uuid;primaryKey"`
	ProductID uuid.UUID          `gorm:"column:product_id;type:uuid;not null;index:reviews_product_id_idx"`
	Author    string             `gorm:"column:author;not null"`
	Rating    int                `gorm:"column:rating;not null"`
	Comment   *string            `gorm:"column:comment"`
	Status    enums.ReviewStatus `gorm:"column:status;not null;default:'pending'"`
	CreatedAt time.Time          `gorm:"column:created_at;autoCreateTime"`
}

func (r *Review) BeforeCreate(*gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
