package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/wrapnest/storefront-backend/api/responses"
	"github.com/wrapnest/storefront-backend/api/validators"
	"github.com/wrapnest/storefront-backend/internal/catalog"
	pkgerrors "github.com/wrapnest/storefront-backend/pkg/errors"
	"github.com/wrapnest/storefront-backend/pkg/logger"
)

func parseResourceID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid "+name+" id")
	}
	return id, nil
}

// includeInactive honours the admin-only include_inactive toggle; the public
// listings always pass false.
func includeInactive(r *http.Request) (bool, error) {
	flag, err := validators.ParseQueryBool(r, "include_inactive")
	if err != nil {
		return false, err
	}
	return flag != nil && *flag, nil
}

// ListHeroSliders serves the home page hero carousel.
func ListHeroSliders(svc catalog.Service, logg *logger.Logger, admin bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		withInactive := false
		if admin {
			var err error
			if withInactive, err = includeInactive(r); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}
		slides, err := svc.ListHeroSliders(r.Context(), withInactive)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, slides)
	}
}

type createHeroSliderRequest struct {
	Title    string  `json:"title" validate:"required,max=200"`
	Subtitle *string `json:"subtitle,omitempty" validate:"omitempty,max=400"`
	Image    string  `json:"image" validate:"required"`
	LinkURL  *string `json:"link_url,omitempty" validate:"omitempty,max=2048"`
	Position int     `json:"position" validate:"min=0"`
	IsActive *bool   `json:"is_active,omitempty"`
}

func AdminCreateHeroSlider(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createHeroSliderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := catalog.CreateHeroSliderInput{
			Title:    payload.Title,
			Subtitle: payload.Subtitle,
			Image:    payload.Image,
			LinkURL:  payload.LinkURL,
			Position: payload.Position,
			IsActive: true,
		}
		if payload.IsActive != nil {
			input.IsActive = *payload.IsActive
		}

		slide, err := svc.CreateHeroSlider(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, slide)
	}
}

type updateHeroSliderRequest struct {
	Title    *string `json:"title,omitempty" validate:"omitempty,max=200"`
	Subtitle *string `json:"subtitle,omitempty" validate:"omitempty,max=400"`
	Image    *string `json:"image,omitempty"`
	LinkURL  *string `json:"link_url,omitempty" validate:"omitempty,max=2048"`
	Position *int    `json:"position,omitempty" validate:"omitempty,min=0"`
	IsActive *bool   `json:"is_active,omitempty"`
}

func AdminUpdateHeroSlider(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseResourceID(r, "hero slider")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateHeroSliderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		slide, err := svc.UpdateHeroSlider(r.Context(), id, catalog.UpdateHeroSliderInput{
			Title:    payload.Title,
			Subtitle: payload.Subtitle,
			Image:    payload.Image,
			LinkURL:  payload.LinkURL,
			Position: payload.Position,
			IsActive: payload.IsActive,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, slide)
	}
}

func AdminDeleteHeroSlider(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseResourceID(r, "hero slider")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.DeleteHeroSlider(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// ListExploreTiles serves the explore grid.
func ListExploreTiles(svc catalog.Service, logg *logger.Logger, admin bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		withInactive := false
		if admin {
			var err error
			if withInactive, err = includeInactive(r); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}
		tiles, err := svc.ListExploreTiles(r.Context(), withInactive)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, tiles)
	}
}

type createExploreTileRequest struct {
	Title     string  `json:"title" validate:"required,max=200"`
	Image     string  `json:"image" validate:"required"`
	ProductID *string `json:"product_id,omitempty" validate:"omitempty,uuid"`
	Position  int     `json:"position" validate:"min=0"`
	IsActive  *bool   `json:"is_active,omitempty"`
}

func AdminCreateExploreTile(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createExploreTileRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := catalog.CreateExploreTileInput{
			Title:    payload.Title,
			Image:    payload.Image,
			Position: payload.Position,
			IsActive: true,
		}
		if payload.ProductID != nil {
			pid, err := uuid.Parse(*payload.ProductID)
			if err != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
				return
			}
			input.ProductID = &pid
		}
		if payload.IsActive != nil {
			input.IsActive = *payload.IsActive
		}

		tile, err := svc.CreateExploreTile(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, tile)
	}
}

type updateExploreTileRequest struct {
	Title     *string `json:"title,omitempty" validate:"omitempty,max=200"`
	Image     *string `json:"image,omitempty"`
	ProductID *string `json:"product_id,omitempty" validate:"omitempty,uuid"`
	Position  *int    `json:"position,omitempty" validate:"omitempty,min=0"`
	IsActive  *bool   `json:"is_active,omitempty"`
}

func AdminUpdateExploreTile(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseResourceID(r, "explore tile")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateExploreTileRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := catalog.UpdateExploreTileInput{
			Title:    payload.Title,
			Image:    payload.Image,
			Position: payload.Position,
			IsActive: payload.IsActive,
		}
		if payload.ProductID != nil {
			pid, err := uuid.Parse(*payload.ProductID)
			if err != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
				return
			}
			input.ProductID = &pid
		}

		tile, err := svc.UpdateExploreTile(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, tile)
	}
}

func AdminDeleteExploreTile(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseResourceID(r, "explore tile")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.DeleteExploreTile(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// ListFeaturedCollections serves the curated collections strip.
func ListFeaturedCollections(svc catalog.Service, logg *logger.Logger, admin bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		withInactive := false
		if admin {
			var err error
			if withInactive, err = includeInactive(r); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}
		collections, err := svc.ListFeaturedCollections(r.Context(), withInactive)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, collections)
	}
}

// GetFeaturedCollectionByHandle resolves one collection by its URL handle.
func GetFeaturedCollectionByHandle(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		handle := chi.URLParam(r, "handle")
		if strings.TrimSpace(handle) == "" {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "handle is required"))
			return
		}
		collection, err := svc.GetFeaturedCollectionByHandle(r.Context(), handle)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, collection)
	}
}

type createFeaturedCollectionRequest struct {
	Title       string   `json:"title" validate:"required,max=200"`
	Handle      string   `json:"handle" validate:"required,max=120"`
	Description *string  `json:"description,omitempty" validate:"omitempty,max=2000"`
	Image       *string  `json:"image,omitempty"`
	ProductIDs  []string `json:"product_ids,omitempty" validate:"omitempty,dive,uuid"`
	Position    int      `json:"position" validate:"min=0"`
	IsActive    *bool    `json:"is_active,omitempty"`
}

func AdminCreateFeaturedCollection(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createFeaturedCollectionRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ids, err := parseUUIDs(payload.ProductIDs)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := catalog.CreateFeaturedCollectionInput{
			Title:       payload.Title,
			Handle:      payload.Handle,
			Description: payload.Description,
			Image:       payload.Image,
			ProductIDs:  ids,
			Position:    payload.Position,
			IsActive:    true,
		}
		if payload.IsActive != nil {
			input.IsActive = *payload.IsActive
		}

		collection, err := svc.CreateFeaturedCollection(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, collection)
	}
}

type updateFeaturedCollectionRequest struct {
	Title       *string   `json:"title,omitempty" validate:"omitempty,max=200"`
	Handle      *string   `json:"handle,omitempty" validate:"omitempty,max=120"`
	Description *string   `json:"description,omitempty" validate:"omitempty,max=2000"`
	Image       *string   `json:"image,omitempty"`
	ProductIDs  *[]string `json:"product_ids,omitempty" validate:"omitempty,dive,uuid"`
	Position    *int      `json:"position,omitempty" validate:"omitempty,min=0"`
	IsActive    *bool     `json:"is_active,omitempty"`
}

func AdminUpdateFeaturedCollection(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseResourceID(r, "featured collection")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateFeaturedCollectionRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := catalog.UpdateFeaturedCollectionInput{
			Title:       payload.Title,
			Handle:      payload.Handle,
			Description: payload.Description,
			Image:       payload.Image,
			Position:    payload.Position,
			IsActive:    payload.IsActive,
		}
		if payload.ProductIDs != nil {
			ids, err := parseUUIDs(*payload.ProductIDs)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			input.ProductIDs = &ids
		}

		collection, err := svc.UpdateFeaturedCollection(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, collection)
	}
}

func AdminDeleteFeaturedCollection(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseResourceID(r, "featured collection")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.DeleteFeaturedCollection(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// ListCategories serves the category navigation.
func ListCategories(svc catalog.Service, logg *logger.Logger, admin bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		withInactive := false
		if admin {
			var err error
			if withInactive, err = includeInactive(r); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}
		categories, err := svc.ListCategories(r.Context(), withInactive)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, categories)
	}
}

// GetCategoryBySlug resolves one category by its URL slug.
func GetCategoryBySlug(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := chi.URLParam(r, "slug")
		if strings.TrimSpace(slug) == "" {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "slug is required"))
			return
		}
		category, err := svc.GetCategoryBySlug(r.Context(), slug)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, category)
	}
}

type createCategoryRequest struct {
	Name     string  `json:"name" validate:"required,max=200"`
	Slug     string  `json:"slug" validate:"required,max=120"`
	Image    *string `json:"image,omitempty"`
	Position int     `json:"position" validate:"min=0"`
	IsActive *bool   `json:"is_active,omitempty"`
}

func AdminCreateCategory(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createCategoryRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := catalog.CreateCategoryInput{
			Name:     payload.Name,
			Slug:     payload.Slug,
			Image:    payload.Image,
			Position: payload.Position,
			IsActive: true,
		}
		if payload.IsActive != nil {
			input.IsActive = *payload.IsActive
		}

		category, err := svc.CreateCategory(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, category)
	}
}

type updateCategoryRequest struct {
	Name     *string `json:"name,omitempty" validate:"omitempty,max=200"`
	Slug     *string `json:"slug,omitempty" validate:"omitempty,max=120"`
	Image    *string `json:"image,omitempty"`
	Position *int    `json:"position,omitempty" validate:"omitempty,min=0"`
	IsActive *bool   `json:"is_active,omitempty"`
}

func AdminUpdateCategory(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseResourceID(r, "category")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateCategoryRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		category, err := svc.UpdateCategory(r.Context(), id, catalog.UpdateCategoryInput{
			Name:     payload.Name,
			Slug:     payload.Slug,
			Image:    payload.Image,
			Position: payload.Position,
			IsActive: payload.IsActive,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, category)
	}
}

func AdminDeleteCategory(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseResourceID(r, "category")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.DeleteCategory(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

func parseUUIDs(values []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(values))
	for _, v := range values {
		id, err := uuid.Parse(v)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id")
		}
		ids = append(ids, id)
	}
	return ids, nil
}
