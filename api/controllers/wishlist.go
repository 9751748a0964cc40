package controllers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wrapnest/storefront-backend/api/middleware"
	"github.com/wrapnest/storefront-backend/api/responses"
	"github.com/wrapnest/storefront-backend/api/validators"
	productsvc "github.com/wrapnest/storefront-backend/internal/products"
	"github.com/wrapnest/storefront-backend/internal/wishlist"
	pkgerrors "github.com/wrapnest/storefront-backend/pkg/errors"
	"github.com/wrapnest/storefront-backend/pkg/kv"
	"github.com/wrapnest/storefront-backend/pkg/logger"
	"github.com/wrapnest/storefront-backend/pkg/metrics"
)

// WishlistDeps groups the dependencies shared by the wishlist handlers.
type WishlistDeps struct {
	Snapshots kv.Snapshots
	Products  productsvc.Service
	Logger    *logger.Logger
	Metrics   *metrics.StoreMetrics
}

type wishlistView struct {
	Entries []wishlist.Entry `json:"entries"`
	Count   int              `json:"count"`
}

func (d WishlistDeps) storeForRequest(ctx context.Context) (*wishlist.Store, error) {
	token := middleware.GuestTokenFromContext(ctx)
	if token == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "guest identity missing")
	}
	return wishlist.NewStore(ctx, wishlist.StoreParams{
		Snapshots: d.Snapshots,
		Key:       kv.WishlistKey(token),
		Logger:    d.Logger,
		Metrics:   d.Metrics,
	})
}

func newWishlistView(store *wishlist.Store) wishlistView {
	return wishlistView{
		Entries: store.Entries(),
		Count:   store.Count(),
	}
}

// GetWishlist returns the guest's current wishlist.
func GetWishlist(deps WishlistDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, err := deps.storeForRequest(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), deps.Logger, w, err)
			return
		}
		responses.WriteSuccess(w, newWishlistView(store))
	}
}

type addWishlistRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
}

// AddWishlistItem snapshots the product into the wishlist. Adding a product
// already present is a no-op.
func AddWishlistItem(deps WishlistDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload addWishlistRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), deps.Logger, w, err)
			return
		}

		productID, err := uuid.Parse(payload.ProductID)
		if err != nil {
			responses.WriteError(r.Context(), deps.Logger, w,
				pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}

		product, err := deps.Products.GetByID(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), deps.Logger, w, err)
			return
		}

		price, err := json.Marshal(decimal.New(int64(product.PriceCents), -2))
		if err != nil {
			responses.WriteError(r.Context(), deps.Logger, w,
				pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encoding price"))
			return
		}
		image := ""
		if len(product.Images) > 0 {
			image = product.Images[0]
		}

		store, err := deps.storeForRequest(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), deps.Logger, w, err)
			return
		}
		entry := wishlist.Entry{
			ProductID: product.ID.String(),
			Slug:      product.Slug,
			Name:      product.Name,
			Price:     price,
			Image:     image,
			InStock:   product.InStock,
		}
		if err := store.Add(r.Context(), entry); err != nil {
			responses.WriteError(r.Context(), deps.Logger, w,
				pkgerrors.Wrap(pkgerrors.CodeDependency, err, "wishlist snapshot write failed"))
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, newWishlistView(store))
	}
}

// RemoveWishlistItem drops the entry for the product. No-op when absent.
func RemoveWishlistItem(deps WishlistDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := uuid.Parse(chi.URLParam(r, "productId"))
		if err != nil {
			responses.WriteError(r.Context(), deps.Logger, w,
				pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}

		store, err := deps.storeForRequest(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), deps.Logger, w, err)
			return
		}
		if err := store.Remove(r.Context(), productID.String()); err != nil {
			responses.WriteError(r.Context(), deps.Logger, w,
				pkgerrors.Wrap(pkgerrors.CodeDependency, err, "wishlist snapshot write failed"))
			return
		}
		responses.WriteSuccess(w, newWishlistView(store))
	}
}

// ClearWishlist empties the guest's wishlist.
func ClearWishlist(deps WishlistDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, err := deps.storeForRequest(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), deps.Logger, w, err)
			return
		}
		if err := store.Clear(r.Context()); err != nil {
			responses.WriteError(r.Context(), deps.Logger, w,
				pkgerrors.Wrap(pkgerrors.CodeDependency, err, "wishlist snapshot write failed"))
			return
		}
		responses.WriteSuccess(w, newWishlistView(store))
	}
}
