package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wrapnest/storefront-backend/pkg/db/models"
	pkgerrors "github.com/wrapnest/storefront-backend/pkg/errors"
	"github.com/wrapnest/storefront-backend/pkg/media"
)

// Service exposes the merchandising resources behind the admin panel and the
// storefront home page.
type Service interface {
	CreateHeroSlider(ctx context.Context, input CreateHeroSliderInput) (*models.HeroSlider, error)
	UpdateHeroSlider(ctx context.Context, id uuid.UUID, input UpdateHeroSliderInput) (*models.HeroSlider, error)
	DeleteHeroSlider(ctx context.Context, id uuid.UUID) error
	ListHeroSliders(ctx context.Context, includeInactive bool) ([]models.HeroSlider, error)

	CreateExploreTile(ctx context.Context, input CreateExploreTileInput) (*models.ExploreTile, error)
	UpdateExploreTile(ctx context.Context, id uuid.UUID, input UpdateExploreTileInput) (*models.ExploreTile, error)
	DeleteExploreTile(ctx context.Context, id uuid.UUID) error
	ListExploreTiles(ctx context.Context, includeInactive bool) ([]models.ExploreTile, error)

	CreateFeaturedCollection(ctx context.Context, input CreateFeaturedCollectionInput) (*models.FeaturedCollection, error)
	UpdateFeaturedCollection(ctx context.Context, id uuid.UUID, input UpdateFeaturedCollectionInput) (*models.FeaturedCollection, error)
	DeleteFeaturedCollection(ctx context.Context, id uuid.UUID) error
	GetFeaturedCollectionByHandle(ctx context.Context, handle string) (*models.FeaturedCollection, error)
	ListFeaturedCollections(ctx context.Context, includeInactive bool) ([]models.FeaturedCollection, error)

	CreateCategory(ctx context.Context, input CreateCategoryInput) (*models.Category, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, input UpdateCategoryInput) (*models.Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error
	GetCategoryBySlug(ctx context.Context, slug string) (*models.Category, error)
	ListCategories(ctx context.Context, includeInactive bool) ([]models.Category, error)
}

// CreateHeroSliderInput holds the validated payload to create a slide.
type CreateHeroSliderInput struct {
	Title    string
	Subtitle *string
	Image    string
	LinkURL  *string
	Position int
	IsActive bool
}

// UpdateHeroSliderInput holds optional mutation values for a slide.
type UpdateHeroSliderInput struct {
	Title    *string
	Subtitle *string
	Image    *string
	LinkURL  *string
	Position *int
	IsActive *bool
}

// CreateExploreTileInput holds the validated payload to create a tile.
type CreateExploreTileInput struct {
	Title     string
	Image     string
	ProductID *uuid.UUID
	Position  int
	IsActive  bool
}

// UpdateExploreTileInput holds optional mutation values for a tile.
type UpdateExploreTileInput struct {
	Title     *string
	Image     *string
	ProductID *uuid.UUID
	Position  *int
	IsActive  *bool
}

// CreateFeaturedCollectionInput holds the validated payload to create a collection.
type CreateFeaturedCollectionInput struct {
	Title       string
	Handle      string
	Description *string
	Image       *string
	ProductIDs  []uuid.UUID
	Position    int
	IsActive    bool
}

// UpdateFeaturedCollectionInput holds optional mutation values for a collection.
type UpdateFeaturedCollectionInput struct {
	Title       *string
	Handle      *string
	Description *string
	Image       *string
	ProductIDs  *[]uuid.UUID
	Position    *int
	IsActive    *bool
}

// CreateCategoryInput holds the validated payload to create a category.
type CreateCategoryInput struct {
	Name     string
	Slug     string
	Image    *string
	Position int
	IsActive bool
}

// UpdateCategoryInput holds optional mutation values for a category.
type UpdateCategoryInput struct {
	Name     *string
	Slug     *string
	Image    *string
	Position *int
	IsActive *bool
}

type productChecker interface {
	ProductExists(ctx context.Context, id uuid.UUID) (bool, error)
}

type service struct {
	repo     *Repository
	ingestor *media.Ingestor
	products productChecker
}

// NewService constructs a catalog service instance.
func NewService(repo *Repository, ingestor *media.Ingestor, products productChecker) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if ingestor == nil {
		return nil, fmt.Errorf("media ingestor required")
	}
	if products == nil {
		return nil, fmt.Errorf("product checker required")
	}
	return &service{repo: repo, ingestor: ingestor, products: products}, nil
}

func (s *service) CreateHeroSlider(ctx context.Context, input CreateHeroSliderInput) (*models.HeroSlider, error) {
	img, err := s.ingestor.Ingest(input.Image)
	if err != nil {
		return nil, err
	}

	slide := &models.HeroSlider{
		Title:    strings.TrimSpace(input.Title),
		Subtitle: input.Subtitle,
		Image:    img.DataURI,
		LinkURL:  input.LinkURL,
		Position: input.Position,
		IsActive: input.IsActive,
	}
	created, err := s.repo.CreateHeroSlider(ctx, slide)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert hero slider")
	}
	return created, nil
}

func (s *service) UpdateHeroSlider(ctx context.Context, id uuid.UUID, input UpdateHeroSliderInput) (*models.HeroSlider, error) {
	slide, err := s.repo.FindHeroSlider(ctx, id)
	if err != nil {
		return nil, mapLookupErr(err, "hero slider")
	}

	if input.Title != nil {
		slide.Title = strings.TrimSpace(*input.Title)
	}
	if input.Subtitle != nil {
		slide.Subtitle = input.Subtitle
	}
	if input.Image != nil {
		img, err := s.ingestor.Ingest(*input.Image)
		if err != nil {
			return nil, err
		}
		slide.Image = img.DataURI
	}
	if input.LinkURL != nil {
		slide.LinkURL = input.LinkURL
	}
	if input.Position != nil {
		slide.Position = *input.Position
	}
	if input.IsActive != nil {
		slide.IsActive = *input.IsActive
	}

	updated, err := s.repo.UpdateHeroSlider(ctx, slide)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update hero slider")
	}
	return updated, nil
}

func (s *service) DeleteHeroSlider(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindHeroSlider(ctx, id); err != nil {
		return mapLookupErr(err, "hero slider")
	}
	if err := s.repo.DeleteHeroSlider(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete hero slider")
	}
	return nil
}

func (s *service) ListHeroSliders(ctx context.Context, includeInactive bool) ([]models.HeroSlider, error) {
	rows, err := s.repo.ListHeroSliders(ctx, !includeInactive)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list hero sliders")
	}
	return rows, nil
}

func (s *service) CreateExploreTile(ctx context.Context, input CreateExploreTileInput) (*models.ExploreTile, error) {
	img, err := s.ingestor.Ingest(input.Image)
	if err != nil {
		return nil, err
	}
	if err := s.ensureProduct(ctx, input.ProductID); err != nil {
		return nil, err
	}

	tile := &models.ExploreTile{
		Title:     strings.TrimSpace(input.Title),
		Image:     img.DataURI,
		ProductID: input.ProductID,
		Position:  input.Position,
		IsActive:  input.IsActive,
	}
	created, err := s.repo.CreateExploreTile(ctx, tile)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert explore tile")
	}
	return created, nil
}

func (s *service) UpdateExploreTile(ctx context.Context, id uuid.UUID, input UpdateExploreTileInput) (*models.ExploreTile, error) {
	tile, err := s.repo.FindExploreTile(ctx, id)
	if err != nil {
		return nil, mapLookupErr(err, "explore tile")
	}

	if input.Title != nil {
		tile.Title = strings.TrimSpace(*input.Title)
	}
	if input.Image != nil {
		img, err := s.ingestor.Ingest(*input.Image)
		if err != nil {
			return nil, err
		}
		tile.Image = img.DataURI
	}
	if input.ProductID != nil {
		if err := s.ensureProduct(ctx, input.ProductID); err != nil {
			return nil, err
		}
		tile.ProductID = input.ProductID
	}
	if input.Position != nil {
		tile.Position = *input.Position
	}
	if input.IsActive != nil {
		tile.IsActive = *input.IsActive
	}

	updated, err := s.repo.UpdateExploreTile(ctx, tile)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update explore tile")
	}
	return updated, nil
}

func (s *service) DeleteExploreTile(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindExploreTile(ctx, id); err != nil {
		return mapLookupErr(err, "explore tile")
	}
	if err := s.repo.DeleteExploreTile(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete explore tile")
	}
	return nil
}

func (s *service) ListExploreTiles(ctx context.Context, includeInactive bool) ([]models.ExploreTile, error) {
	rows, err := s.repo.ListExploreTiles(ctx, !includeInactive)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list explore tiles")
	}
	return rows, nil
}

func (s *service) CreateFeaturedCollection(ctx context.Context, input CreateFeaturedCollectionInput) (*models.FeaturedCollection, error) {
	handle := normalizeHandle(input.Handle)
	if handle == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "handle is required")
	}
	if err := s.ensureProducts(ctx, input.ProductIDs); err != nil {
		return nil, err
	}

	collection := &models.FeaturedCollection{
		Title:       strings.TrimSpace(input.Title),
		Handle:      handle,
		Description: input.Description,
		ProductIDs:  input.ProductIDs,
		Position:    input.Position,
		IsActive:    input.IsActive,
	}
	if input.Image != nil {
		img, err := s.ingestor.Ingest(*input.Image)
		if err != nil {
			return nil, err
		}
		collection.Image = &img.DataURI
	}

	created, err := s.repo.CreateFeaturedCollection(ctx, collection)
	if err != nil {
		return nil, mapWriteErr(err, "featured collection handle already in use", "db: insert featured collection")
	}
	return created, nil
}

func (s *service) UpdateFeaturedCollection(ctx context.Context, id uuid.UUID, input UpdateFeaturedCollectionInput) (*models.FeaturedCollection, error) {
	collection, err := s.repo.FindFeaturedCollection(ctx, id)
	if err != nil {
		return nil, mapLookupErr(err, "featured collection")
	}

	if input.Title != nil {
		collection.Title = strings.TrimSpace(*input.Title)
	}
	if input.Handle != nil {
		handle := normalizeHandle(*input.Handle)
		if handle == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "handle is required")
		}
		collection.Handle = handle
	}
	if input.Description != nil {
		collection.Description = input.Description
	}
	if input.Image != nil {
		img, err := s.ingestor.Ingest(*input.Image)
		if err != nil {
			return nil, err
		}
		collection.Image = &img.DataURI
	}
	if input.ProductIDs != nil {
		if err := s.ensureProducts(ctx, *input.ProductIDs); err != nil {
			return nil, err
		}
		collection.ProductIDs = append([]uuid.UUID(nil), (*input.ProductIDs)...)
	}
	if input.Position != nil {
		collection.Position = *input.Position
	}
	if input.IsActive != nil {
		collection.IsActive = *input.IsActive
	}

	updated, err := s.repo.UpdateFeaturedCollection(ctx, collection)
	if err != nil {
		return nil, mapWriteErr(err, "featured collection handle already in use", "db: update featured collection")
	}
	return updated, nil
}

func (s *service) DeleteFeaturedCollection(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindFeaturedCollection(ctx, id); err != nil {
		return mapLookupErr(err, "featured collection")
	}
	if err := s.repo.DeleteFeaturedCollection(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete featured collection")
	}
	return nil
}

func (s *service) GetFeaturedCollectionByHandle(ctx context.Context, handle string) (*models.FeaturedCollection, error) {
	collection, err := s.repo.FindFeaturedCollectionByHandle(ctx, normalizeHandle(handle))
	if err != nil {
		return nil, mapLookupErr(err, "featured collection")
	}
	return collection, nil
}

func (s *service) ListFeaturedCollections(ctx context.Context, includeInactive bool) ([]models.FeaturedCollection, error) {
	rows, err := s.repo.ListFeaturedCollections(ctx, !includeInactive)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list featured collections")
	}
	return rows, nil
}

func (s *service) CreateCategory(ctx context.Context, input CreateCategoryInput) (*models.Category, error) {
	slug := normalizeHandle(input.Slug)
	if slug == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "slug is required")
	}

	category := &models.Category{
		Name:     strings.TrimSpace(input.Name),
		Slug:     slug,
		Position: input.Position,
		IsActive: input.IsActive,
	}
	if input.Image != nil {
		img, err := s.ingestor.Ingest(*input.Image)
		if err != nil {
			return nil, err
		}
		category.Image = &img.DataURI
	}

	created, err := s.repo.CreateCategory(ctx, category)
	if err != nil {
		return nil, mapWriteErr(err, "category slug already in use", "db: insert category")
	}
	return created, nil
}

func (s *service) UpdateCategory(ctx context.Context, id uuid.UUID, input UpdateCategoryInput) (*models.Category, error) {
	category, err := s.repo.FindCategory(ctx, id)
	if err != nil {
		return nil, mapLookupErr(err, "category")
	}

	if input.Name != nil {
		category.Name = strings.TrimSpace(*input.Name)
	}
	if input.Slug != nil {
		slug := normalizeHandle(*input.Slug)
		if slug == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "slug is required")
		}
		category.Slug = slug
	}
	if input.Image != nil {
		img, err := s.ingestor.Ingest(*input.Image)
		if err != nil {
			return nil, err
		}
		category.Image = &img.DataURI
	}
	if input.Position != nil {
		category.Position = *input.Position
	}
	if input.IsActive != nil {
		category.IsActive = *input.IsActive
	}

	updated, err := s.repo.UpdateCategory(ctx, category)
	if err != nil {
		return nil, mapWriteErr(err, "category slug already in use", "db: update category")
	}
	return updated, nil
}

func (s *service) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindCategory(ctx, id); err != nil {
		return mapLookupErr(err, "category")
	}
	if err := s.repo.DeleteCategory(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete category")
	}
	return nil
}

func (s *service) GetCategoryBySlug(ctx context.Context, slug string) (*models.Category, error) {
	category, err := s.repo.FindCategoryBySlug(ctx, normalizeHandle(slug))
	if err != nil {
		return nil, mapLookupErr(err, "category")
	}
	return category, nil
}

func (s *service) ListCategories(ctx context.Context, includeInactive bool) ([]models.Category, error) {
	rows, err := s.repo.ListCategories(ctx, !includeInactive)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list categories")
	}
	return rows, nil
}

func (s *service) ensureProduct(ctx context.Context, id *uuid.UUID) error {
	if id == nil {
		return nil
	}
	ok, err := s.products.ProductExists(ctx, *id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: check product")
	}
	if !ok {
		return pkgerrors.New(pkgerrors.CodeValidation, "linked product not found")
	}
	return nil
}

func (s *service) ensureProducts(ctx context.Context, ids []uuid.UUID) error {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			return pkgerrors.New(pkgerrors.CodeValidation, "duplicate product ids")
		}
		seen[id] = struct{}{}
		pid := id
		if err := s.ensureProduct(ctx, &pid); err != nil {
			return err
		}
	}
	return nil
}

func normalizeHandle(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func mapLookupErr(err error, resource string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, resource+" not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load "+resource)
}

func mapWriteErr(err error, conflictMsg, wrapMsg string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return pkgerrors.New(pkgerrors.CodeConflict, conflictMsg)
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, wrapMsg)
}
