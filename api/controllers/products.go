package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/wrapnest/storefront-backend/api/responses"
	"github.com/wrapnest/storefront-backend/api/validators"
	productsvc "github.com/wrapnest/storefront-backend/internal/products"
	"github.com/wrapnest/storefront-backend/pkg/enums"
	pkgerrors "github.com/wrapnest/storefront-backend/pkg/errors"
	"github.com/wrapnest/storefront-backend/pkg/logger"
	"github.com/wrapnest/storefront-backend/pkg/types"
)

// ListProducts serves the storefront product listing with filters and cursor
// pagination.
func ListProducts(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filters := productsvc.ListFilters{
			Query: strings.TrimSpace(r.URL.Query().Get("q")),
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("category_id")); raw != "" {
			id, err := uuid.Parse(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category id"))
				return
			}
			filters.CategoryID = &id
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("kind")); raw != "" {
			kind, err := enums.ParseProductKind(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product kind"))
				return
			}
			filters.Kind = &kind
		}
		featured, err := validators.ParseQueryBool(r, "featured")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		filters.Featured = featured
		inStock, err := validators.ParseQueryBool(r, "in_stock")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		filters.InStock = inStock

		page, err := svc.List(r.Context(), productsvc.ListQuery{
			Pagination: params,
			Filters:    filters,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

// GetProduct serves one product by id.
func GetProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}

		product, err := svc.GetByID(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

// GetProductBySlug serves one product by its URL slug.
func GetProductBySlug(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := chi.URLParam(r, "slug")
		if strings.TrimSpace(slug) == "" {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "slug is required"))
			return
		}

		product, err := svc.GetBySlug(r.Context(), slug)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

type createProductRequest struct {
	Slug                string               `json:"slug" validate:"required"`
	Name                string               `json:"name" validate:"required"`
	Description         *string              `json:"description,omitempty"`
	Kind                string               `json:"kind" validate:"required"`
	CategoryID          *string              `json:"category_id,omitempty" validate:"omitempty,uuid"`
	PriceCents          int                  `json:"price_cents" validate:"required,min=0"`
	CompareAtPriceCents *int                 `json:"compare_at_price_cents,omitempty" validate:"omitempty,min=0"`
	Images              []string             `json:"images,omitempty"`
	VideoURLs           []string             `json:"video_urls,omitempty"`
	VariantOptions      types.VariantOptions `json:"variant_options"`
	InStock             *bool                `json:"in_stock,omitempty"`
	IsFeatured          *bool                `json:"is_featured,omitempty"`
}

func (p createProductRequest) toCreateInput() (productsvc.CreateProductInput, error) {
	kind, err := enums.ParseProductKind(p.Kind)
	if err != nil {
		return productsvc.CreateProductInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product kind")
	}

	input := productsvc.CreateProductInput{
		Slug:                p.Slug,
		Name:                p.Name,
		Description:         p.Description,
		Kind:                kind,
		PriceCents:          p.PriceCents,
		CompareAtPriceCents: p.CompareAtPriceCents,
		Images:              p.Images,
		VideoURLs:           p.VideoURLs,
		VariantOptions:      p.VariantOptions,
		InStock:             true,
	}
	if p.CategoryID != nil {
		id, err := uuid.Parse(*p.CategoryID)
		if err != nil {
			return productsvc.CreateProductInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category id")
		}
		input.CategoryID = &id
	}
	if p.InStock != nil {
		input.InStock = *p.InStock
	}
	if p.IsFeatured != nil {
		input.IsFeatured = *p.IsFeatured
	}
	return input, nil
}

// AdminCreateProduct handles product creation from the admin panel.
func AdminCreateProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toCreateInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

type updateProductRequest struct {
	Slug                *string               `json:"slug,omitempty"`
	Name                *string               `json:"name,omitempty"`
	Description         *string               `json:"description,omitempty"`
	Kind                *string               `json:"kind,omitempty"`
	CategoryID          *string               `json:"category_id,omitempty" validate:"omitempty,uuid"`
	PriceCents          *int                  `json:"price_cents,omitempty" validate:"omitempty,min=0"`
	CompareAtPriceCents *int                  `json:"compare_at_price_cents,omitempty" validate:"omitempty,min=0"`
	Images              *[]string             `json:"images,omitempty"`
	VideoURLs           *[]string             `json:"video_urls,omitempty"`
	VariantOptions      *types.VariantOptions `json:"variant_options,omitempty"`
	InStock             *bool                 `json:"in_stock,omitempty"`
	IsFeatured          *bool                 `json:"is_featured,omitempty"`
}

// AdminUpdateProduct applies a partial update to a product.
func AdminUpdateProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}

		var payload updateProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := productsvc.UpdateProductInput{
			Slug:                payload.Slug,
			Name:                payload.Name,
			Description:         payload.Description,
			PriceCents:          payload.PriceCents,
			CompareAtPriceCents: payload.CompareAtPriceCents,
			Images:              payload.Images,
			VideoURLs:           payload.VideoURLs,
			VariantOptions:      payload.VariantOptions,
			InStock:             payload.InStock,
			IsFeatured:          payload.IsFeatured,
		}
		if payload.Kind != nil {
			kind, err := enums.ParseProductKind(*payload.Kind)
			if err != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product kind"))
				return
			}
			input.Kind = &kind
		}
		if payload.CategoryID != nil {
			cid, err := uuid.Parse(*payload.CategoryID)
			if err != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category id"))
				return
			}
			input.CategoryID = &cid
		}

		product, err := svc.Update(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

// AdminDeleteProduct removes a product and its reviews.
func AdminDeleteProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
