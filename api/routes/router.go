package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wrapnest/storefront-backend/api/controllers"
	"github.com/wrapnest/storefront-backend/api/middleware"
	"github.com/wrapnest/storefront-backend/internal/catalog"
	productsvc "github.com/wrapnest/storefront-backend/internal/products"
	"github.com/wrapnest/storefront-backend/pkg/config"
	"github.com/wrapnest/storefront-backend/pkg/kv"
	"github.com/wrapnest/storefront-backend/pkg/logger"
	"github.com/wrapnest/storefront-backend/pkg/metrics"
)

// Deps carries everything the router mounts.
type Deps struct {
	Config    *config.Config
	Logger    *logger.Logger
	Snapshots kv.Snapshots
	Products  productsvc.Service
	Catalog   catalog.Service
	Metrics   *metrics.StoreMetrics

	// Pingers feed the readiness probe, keyed by dependency name.
	Pingers map[string]controllers.Pinger
	// MetricsHandler serves /metrics when set.
	MetricsHandler http.Handler
}

// New assembles the HTTP surface: health probes, the public storefront API
// and the admin API.
func New(deps Deps) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer(deps.Logger))
	r.Use(middleware.RequestID(deps.Logger))
	r.Use(middleware.Logging(deps.Logger))
	r.Use(middleware.CORS(deps.Config.CORS.AllowedOrigins))

	r.Get("/health/live", controllers.HealthLive(deps.Config))
	r.Get("/health/ready", controllers.HealthReady(deps.Config, deps.Logger, deps.Pingers))
	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}

	cartDeps := controllers.CartDeps{
		Snapshots: deps.Snapshots,
		Products:  deps.Products,
		Logger:    deps.Logger,
		Metrics:   deps.Metrics,
	}
	wishlistDeps := controllers.WishlistDeps{
		Snapshots: deps.Snapshots,
		Products:  deps.Products,
		Logger:    deps.Logger,
		Metrics:   deps.Metrics,
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.GuestToken(deps.Logger, deps.Config.App.IsProd()))

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ListProducts(deps.Products, deps.Logger))
			r.Get("/slug/{slug}", controllers.GetProductBySlug(deps.Products, deps.Logger))
			r.Get("/{id}", controllers.GetProduct(deps.Products, deps.Logger))
			r.Get("/{productId}/reviews", controllers.ListReviews(deps.Products, deps.Logger))
			r.Post("/{productId}/reviews", controllers.CreateReview(deps.Products, deps.Logger))
		})

		r.Get("/hero-sliders", controllers.ListHeroSliders(deps.Catalog, deps.Logger, false))
		r.Get("/explore-tiles", controllers.ListExploreTiles(deps.Catalog, deps.Logger, false))
		r.Get("/collections", controllers.ListFeaturedCollections(deps.Catalog, deps.Logger, false))
		r.Get("/collections/{handle}", controllers.GetFeaturedCollectionByHandle(deps.Catalog, deps.Logger))
		r.Get("/categories", controllers.ListCategories(deps.Catalog, deps.Logger, false))
		r.Get("/categories/slug/{slug}", controllers.GetCategoryBySlug(deps.Catalog, deps.Logger))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.GetCart(cartDeps))
			r.Delete("/", controllers.ClearCart(cartDeps))
			r.Post("/items", controllers.AddCartItem(cartDeps))
			r.Patch("/items/{id}", controllers.UpdateCartItem(cartDeps))
			r.Delete("/items/{id}", controllers.RemoveCartItem(cartDeps))
			r.Delete("/products/{productId}", controllers.RemoveCartProduct(cartDeps))
		})

		r.Route("/wishlist", func(r chi.Router) {
			r.Get("/", controllers.GetWishlist(wishlistDeps))
			r.Delete("/", controllers.ClearWishlist(wishlistDeps))
			r.Post("/items", controllers.AddWishlistItem(wishlistDeps))
			r.Delete("/items/{productId}", controllers.RemoveWishlistItem(wishlistDeps))
		})

		r.Route("/admin", func(r chi.Router) {
			r.Route("/products", func(r chi.Router) {
				r.Post("/", controllers.AdminCreateProduct(deps.Products, deps.Logger))
				r.Put("/{id}", controllers.AdminUpdateProduct(deps.Products, deps.Logger))
				r.Delete("/{id}", controllers.AdminDeleteProduct(deps.Products, deps.Logger))
			})

			r.Route("/reviews", func(r chi.Router) {
				r.Post("/{id}/approve", controllers.AdminApproveReview(deps.Products, deps.Logger))
				r.Delete("/{id}", controllers.AdminDeleteReview(deps.Products, deps.Logger))
			})

			r.Route("/hero-sliders", func(r chi.Router) {
				r.Get("/", controllers.ListHeroSliders(deps.Catalog, deps.Logger, true))
				r.Post("/", controllers.AdminCreateHeroSlider(deps.Catalog, deps.Logger))
				r.Put("/{id}", controllers.AdminUpdateHeroSlider(deps.Catalog, deps.Logger))
				r.Delete("/{id}", controllers.AdminDeleteHeroSlider(deps.Catalog, deps.Logger))
			})

			r.Route("/explore-tiles", func(r chi.Router) {
				r.Get("/", controllers.ListExploreTiles(deps.Catalog, deps.Logger, true))
				r.Post("/", controllers.AdminCreateExploreTile(deps.Catalog, deps.Logger))
				r.Put("/{id}", controllers.AdminUpdateExploreTile(deps.Catalog, deps.Logger))
				r.Delete("/{id}", controllers.AdminDeleteExploreTile(deps.Catalog, deps.Logger))
			})

			r.Route("/collections", func(r chi.Router) {
				r.Get("/", controllers.ListFeaturedCollections(deps.Catalog, deps.Logger, true))
				r.Post("/", controllers.AdminCreateFeaturedCollection(deps.Catalog, deps.Logger))
				r.Put("/{id}", controllers.AdminUpdateFeaturedCollection(deps.Catalog, deps.Logger))
				r.Delete("/{id}", controllers.AdminDeleteFeaturedCollection(deps.Catalog, deps.Logger))
			})

			r.Route("/categories", func(r chi.Router) {
				r.Get("/", controllers.ListCategories(deps.Catalog, deps.Logger, true))
				r.Post("/", controllers.AdminCreateCategory(deps.Catalog, deps.Logger))
				r.Put("/{id}", controllers.AdminUpdateCategory(deps.Catalog, deps.Logger))
				r.Delete("/{id}", controllers.AdminDeleteCategory(deps.Catalog, deps.Logger))
			})
		})
	})

	return r
}
