package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wrapnest/storefront-backend/internal/repo"
	"github.com/wrapnest/storefront-backend/pkg/db/models"
)

// Repository persists the merchandising resources rendered on the storefront
// home page: hero sliders, explore tiles, featured collections and categories.
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

// CreateHeroSlider inserts a new slide.
func (r *Repository) CreateHeroSlider(ctx context.Context, slide *models.HeroSlider) (*models.HeroSlider, error) {
	if err := r.DB(ctx).Create(slide).Error; err != nil {
		return nil, err
	}
	return slide, nil
}

// UpdateHeroSlider saves the full slide row.
func (r *Repository) UpdateHeroSlider(ctx context.Context, slide *models.HeroSlider) (*models.HeroSlider, error) {
	if err := r.DB(ctx).Save(slide).Error; err != nil {
		return nil, err
	}
	return slide, nil
}

// DeleteHeroSlider removes a slide by id.
func (r *Repository) DeleteHeroSlider(ctx context.Context, id uuid.UUID) error {
	return r.DB(ctx).Where("id = ?", id).Delete(&models.HeroSlider{}).Error
}

// FindHeroSlider loads one slide.
func (r *Repository) FindHeroSlider(ctx context.Context, id uuid.UUID) (*models.HeroSlider, error) {
	var slide models.HeroSlider
	if err := r.DB(ctx).First(&slide, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &slide, nil
}

// ListHeroSliders returns slides ordered by position. When activeOnly is set,
// inactive slides are filtered out.
func (r *Repository) ListHeroSliders(ctx context.Context, activeOnly bool) ([]models.HeroSlider, error) {
	var rows []models.HeroSlider
	qb := r.DB(ctx).Order("position ASC").Order("created_at ASC")
	if activeOnly {
		qb = qb.Where("is_active = ?", true)
	}
	return rows, qb.Find(&rows).Error
}

// CreateExploreTile inserts a new tile.
func (r *Repository) CreateExploreTile(ctx context.Context, tile *models.ExploreTile) (*models.ExploreTile, error) {
	if err := r.DB(ctx).Create(tile).Error; err != nil {
		return nil, err
	}
	return tile, nil
}

// UpdateExploreTile saves the full tile row.
func (r *Repository) UpdateExploreTile(ctx context.Context, tile *models.ExploreTile) (*models.ExploreTile, error) {
	if err := r.DB(ctx).Save(tile).Error; err != nil {
		return nil, err
	}
	return tile, nil
}

// DeleteExploreTile removes a tile by id.
func (r *Repository) DeleteExploreTile(ctx context.Context, id uuid.UUID) error {
	return r.DB(ctx).Where("id = ?", id).Delete(&models.ExploreTile{}).Error
}

// FindExploreTile loads one tile.
func (r *Repository) FindExploreTile(ctx context.Context, id uuid.UUID) (*models.ExploreTile, error) {
	var tile models.ExploreTile
	if err := r.DB(ctx).First(&tile, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &tile, nil
}

// ListExploreTiles returns tiles ordered by position.
func (r *Repository) ListExploreTiles(ctx context.Context, activeOnly bool) ([]models.ExploreTile, error) {
	var rows []models.ExploreTile
	qb := r.DB(ctx).Order("position ASC").Order("created_at ASC")
	if activeOnly {
		qb = qb.Where("is_active = ?", true)
	}
	return rows, qb.Find(&rows).Error
}

// CreateFeaturedCollection inserts a new collection.
func (r *Repository) CreateFeaturedCollection(ctx context.Context, collection *models.FeaturedCollection) (*models.FeaturedCollection, error) {
	if err := r.DB(ctx).Create(collection).Error; err != nil {
		return nil, err
	}
	return collection, nil
}

// UpdateFeaturedCollection saves the full collection row.
func (r *Repository) UpdateFeaturedCollection(ctx context.Context, collection *models.FeaturedCollection) (*models.FeaturedCollection, error) {
	if err := r.DB(ctx).Save(collection).Error; err != nil {
		return nil, err
	}
	return collection, nil
}

// DeleteFeaturedCollection removes a collection by id.
func (r *Repository) DeleteFeaturedCollection(ctx context.Context, id uuid.UUID) error {
	return r.DB(ctx).Where("id = ?", id).Delete(&models.FeaturedCollection{}).Error
}

// FindFeaturedCollection loads one collection by id.
func (r *Repository) FindFeaturedCollection(ctx context.Context, id uuid.UUID) (*models.FeaturedCollection, error) {
	var collection models.FeaturedCollection
	if err := r.DB(ctx).First(&collection, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &collection, nil
}

// FindFeaturedCollectionByHandle loads one collection by its URL handle.
func (r *Repository) FindFeaturedCollectionByHandle(ctx context.Context, handle string) (*models.FeaturedCollection, error) {
	var collection models.FeaturedCollection
	if err := r.DB(ctx).First(&collection, "handle = ?", handle).Error; err != nil {
		return nil, err
	}
	return &collection, nil
}

// ListFeaturedCollections returns collections ordered by position.
func (r *Repository) ListFeaturedCollections(ctx context.Context, activeOnly bool) ([]models.FeaturedCollection, error) {
	var rows []models.FeaturedCollection
	qb := r.DB(ctx).Order("position ASC").Order("created_at ASC")
	if activeOnly {
		qb = qb.Where("is_active = ?", true)
	}
	return rows, qb.Find(&rows).Error
}

// CreateCategory inserts a new category.
func (r *Repository) CreateCategory(ctx context.Context, category *models.Category) (*models.Category, error) {
	if err := r.DB(ctx).Create(category).Error; err != nil {
		return nil, err
	}
	return category, nil
}

// UpdateCategory saves the full category row.
func (r *Repository) UpdateCategory(ctx context.Context, category *models.Category) (*models.Category, error) {
	if err := r.DB(ctx).Save(category).Error; err != nil {
		return nil, err
	}
	return category, nil
}

// DeleteCategory removes a category by id.
func (r *Repository) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return r.DB(ctx).Where("id = ?", id).Delete(&models.Category{}).Error
}

// FindCategory loads one category by id.
func (r *Repository) FindCategory(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	var category models.Category
	if err := r.DB(ctx).First(&category, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// FindCategoryBySlug loads one category by slug.
func (r *Repository) FindCategoryBySlug(ctx context.Context, slug string) (*models.Category, error) {
	var category models.Category
	if err := r.DB(ctx).First(&category, "slug = ?", slug).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// ListCategories returns categories ordered by position.
func (r *Repository) ListCategories(ctx context.Context, activeOnly bool) ([]models.Category, error) {
	var rows []models.Category
	qb := r.DB(ctx).Order("position ASC").Order("created_at ASC")
	if activeOnly {
		qb = qb.Where("is_active = ?", true)
	}
	return rows, qb.Find(&rows).Error
}
