package controllers_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/wrapnest/storefront-backend/api/controllers"
	"github.com/wrapnest/storefront-backend/api/middleware"
	productsvc "github.com/wrapnest/storefront-backend/internal/products"
	"github.com/wrapnest/storefront-backend/pkg/kv"
)

type wishlistViewBody struct {
	Entries []struct {
		ProductID string `json:"product_id"`
		Slug      string `json:"slug"`
		Name      string `json:"name"`
		InStock   bool   `json:"in_stock"`
	} `json:"entries"`
	Count int `json:"count"`
}

func newWishlistRouter(deps controllers.WishlistDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(middleware.WithGuestToken(req.Context(), "guest-1")))
		})
	})
	r.Get("/wishlist", controllers.GetWishlist(deps))
	r.Delete("/wishlist", controllers.ClearWishlist(deps))
	r.Post("/wishlist/items", controllers.AddWishlistItem(deps))
	r.Delete("/wishlist/items/{productId}", controllers.RemoveWishlistItem(deps))
	return r
}

func TestWishlistAddIsIdempotent(t *testing.T) {
	productID := uuid.New()
	deps := controllers.WishlistDeps{
		Snapshots: kv.NewMemory(),
		Products:  &stubProducts{byID: map[uuid.UUID]*productsvc.ProductDTO{productID: apparelProduct(productID)}},
	}
	router := newWishlistRouter(deps)

	for i := 0; i < 2; i++ {
		rec := doJSON(t, router, http.MethodPost, "/wishlist/items", map[string]any{
			"product_id": productID.String(),
		})
		if rec.Code != http.StatusCreated {
			t.Fatalf("add %d: expected 201, got %d: %s", i, rec.Code, rec.Body.String())
		}
	}

	rec := doJSON(t, router, http.MethodGet, "/wishlist", nil)
	var view wishlistViewBody
	decodeData(t, rec, &view)
	if view.Count != 1 || len(view.Entries) != 1 {
		t.Fatalf("expected a single entry, got count=%d entries=%d", view.Count, len(view.Entries))
	}
	if view.Entries[0].Slug != "logo-tee" {
		t.Fatalf("unexpected entry %+v", view.Entries[0])
	}
}

func TestWishlistAddUnknownProduct(t *testing.T) {
	deps := controllers.WishlistDeps{
		Snapshots: kv.NewMemory(),
		Products:  &stubProducts{byID: map[uuid.UUID]*productsvc.ProductDTO{}},
	}
	router := newWishlistRouter(deps)

	rec := doJSON(t, router, http.MethodPost, "/wishlist/items", map[string]any{
		"product_id": uuid.NewString(),
	})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestWishlistRemoveAndClear(t *testing.T) {
	first := uuid.New()
	second := uuid.New()
	snapshots := kv.NewMemory()
	deps := controllers.WishlistDeps{
		Snapshots: snapshots,
		Products: &stubProducts{byID: map[uuid.UUID]*productsvc.ProductDTO{
			first:  apparelProduct(first),
			second: deviceSkinProduct(second),
		}},
	}
	router := newWishlistRouter(deps)

	for _, id := range []uuid.UUID{first, second} {
		rec := doJSON(t, router, http.MethodPost, "/wishlist/items", map[string]any{
			"product_id": id.String(),
		})
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d", rec.Code)
		}
	}

	rec := doJSON(t, router, http.MethodDelete, "/wishlist/items/"+first.String(), nil)
	var view wishlistViewBody
	decodeData(t, rec, &view)
	if view.Count != 1 || view.Entries[0].ProductID != second.String() {
		t.Fatalf("expected only the second product, got %+v", view)
	}

	// removing an absent product is a no-op, not an error
	rec = doJSON(t, router, http.MethodDelete, "/wishlist/items/"+first.String(), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for absent removal, got %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodDelete, "/wishlist", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if _, err := snapshots.Get(context.Background(), kv.WishlistKey("guest-1")); err != kv.ErrNotFound {
		t.Fatalf("expected purged snapshot, got err=%v", err)
	}
}
