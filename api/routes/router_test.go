package routes

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/wrapnest/storefront-backend/internal/catalog"
	product "github.com/wrapnest/storefront-backend/internal/products"
	"github.com/wrapnest/storefront-backend/pkg/config"
	"github.com/wrapnest/storefront-backend/pkg/db/models"
	"github.com/wrapnest/storefront-backend/pkg/kv"
	"github.com/wrapnest/storefront-backend/pkg/media"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(
		&models.Product{},
		&models.Review{},
		&models.HeroSlider{},
		&models.ExploreTile{},
		&models.FeaturedCollection{},
		&models.Category{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	ingestor := media.NewIngestor(8)
	productService, err := product.NewService(product.NewRepository(conn), ingestor, product.SlugCacheConfig{})
	if err != nil {
		t.Fatalf("product service: %v", err)
	}
	catalogService, err := catalog.NewService(catalog.NewRepository(conn), ingestor, productService)
	if err != nil {
		t.Fatalf("catalog service: %v", err)
	}

	return New(Deps{
		Config: &config.Config{
			App: config.AppConfig{Env: "test", Port: "0"},
		},
		Snapshots: kv.NewMemory(),
		Products:  productService,
		Catalog:   catalogService,
	})
}

func TestHealthLive(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if env := rec.Header().Get("X-Wrapnest-Env"); env != "test" {
		t.Fatalf("expected env header, got %q", env)
	}
}

func TestGuestCookieIssuedOnAPIRoutes(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/products", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var guest *http.Cookie
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == "wn_guest" {
			guest = cookie
		}
	}
	if guest == nil {
		t.Fatal("expected a wn_guest cookie")
	}
	if !guest.HttpOnly {
		t.Fatal("guest cookie must be http-only")
	}

	// the same cookie is kept on the next request
	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.AddCookie(guest)
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == "wn_guest" && cookie.Value != guest.Value {
			t.Fatalf("guest token replaced: %q != %q", cookie.Value, guest.Value)
		}
	}
}

func TestPublicListingsEmpty(t *testing.T) {
	router := newTestRouter(t)

	for _, path := range []string{
		"/api/v1/hero-sliders",
		"/api/v1/explore-tiles",
		"/api/v1/collections",
		"/api/v1/categories",
	} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d: %s", path, rec.Code, rec.Body.String())
		}
	}
}

func TestUnknownRouteIs404(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/nope", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
