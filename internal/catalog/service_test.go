package catalog

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/wrapnest/storefront-backend/pkg/db/models"
	pkgerrors "github.com/wrapnest/storefront-backend/pkg/errors"
	"github.com/wrapnest/storefront-backend/pkg/media"
)

var pngBytes = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a,
	0x00, 0x00, 0x00, 0x0d, 0x49, 0x48, 0x44, 0x52,
	0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4,
	0x89, 0x00, 0x00, 0x00, 0x00, 0x49, 0x45, 0x4e,
	0x44, 0xae, 0x42, 0x60, 0x82,
}

func pngDataURI() string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngBytes)
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(
		&models.HeroSlider{},
		&models.ExploreTile{},
		&models.FeaturedCollection{},
		&models.Category{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return conn
}

type stubProducts struct {
	known map[uuid.UUID]bool
}

func (s *stubProducts) ProductExists(_ context.Context, id uuid.UUID) (bool, error) {
	return s.known[id], nil
}

func newTestService(t *testing.T, known ...uuid.UUID) Service {
	t.Helper()
	checker := &stubProducts{known: map[uuid.UUID]bool{}}
	for _, id := range known {
		checker.known[id] = true
	}
	svc, err := NewService(NewRepository(openTestDB(t)), media.NewIngestor(8), checker)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestHeroSliderCRUD(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateHeroSlider(ctx, CreateHeroSliderInput{
		Title:    "Summer Drop",
		Image:    pngDataURI(),
		Position: 2,
		IsActive: true,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == uuid.Nil {
		t.Fatal("expected generated id")
	}
	if !strings.HasPrefix(created.Image, "data:image/png;base64,") {
		t.Fatalf("image was not canonicalized: %s", created.Image[:40])
	}

	second, err := svc.CreateHeroSlider(ctx, CreateHeroSliderInput{
		Title:    "Winter Drop",
		Image:    pngDataURI(),
		Position: 1,
		IsActive: false,
	})
	if err != nil {
		t.Fatalf("create second: %v", err)
	}

	active, err := svc.ListHeroSliders(ctx, false)
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	if len(active) != 1 || active[0].ID != created.ID {
		t.Fatalf("expected only the active slide, got %d", len(active))
	}

	all, err := svc.ListHeroSliders(ctx, true)
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 2 || all[0].ID != second.ID {
		t.Fatalf("expected position ordering with the inactive slide first, got %d rows", len(all))
	}

	newTitle := "Summer Drop 2.0"
	updated, err := svc.UpdateHeroSlider(ctx, created.ID, UpdateHeroSliderInput{Title: &newTitle})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Title != newTitle {
		t.Fatalf("title not applied: %s", updated.Title)
	}

	if err := svc.DeleteHeroSlider(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.DeleteHeroSlider(ctx, created.ID); code(err) != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found on double delete, got %v", err)
	}
}

func TestHeroSliderRejectsBadImage(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.CreateHeroSlider(context.Background(), CreateHeroSliderInput{
		Title: "Bad",
		Image: "https://cdn.example.com/banner.png",
	})
	if code(err) != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestExploreTileProductLink(t *testing.T) {
	productID := uuid.New()
	svc := newTestService(t, productID)
	ctx := context.Background()

	unknown := uuid.New()
	_, err := svc.CreateExploreTile(ctx, CreateExploreTileInput{
		Title:     "Skins",
		Image:     pngDataURI(),
		ProductID: &unknown,
	})
	if code(err) != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for unknown product, got %v", err)
	}

	tile, err := svc.CreateExploreTile(ctx, CreateExploreTileInput{
		Title:     "Skins",
		Image:     pngDataURI(),
		ProductID: &productID,
		IsActive:  true,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if tile.ProductID == nil || *tile.ProductID != productID {
		t.Fatal("product link not stored")
	}
}

func TestFeaturedCollectionHandleConflict(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.CreateFeaturedCollection(ctx, CreateFeaturedCollectionInput{
		Title:    "Best Sellers",
		Handle:   "Best-Sellers",
		IsActive: true,
	}); err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err := svc.CreateFeaturedCollection(ctx, CreateFeaturedCollectionInput{
		Title:  "Duplicate",
		Handle: "best-sellers",
	})
	if code(err) != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict on the normalized handle, got %v", err)
	}

	found, err := svc.GetFeaturedCollectionByHandle(ctx, "BEST-SELLERS ")
	if err != nil {
		t.Fatalf("get by handle: %v", err)
	}
	if found.Title != "Best Sellers" {
		t.Fatalf("unexpected collection %q", found.Title)
	}

	if _, err := svc.GetFeaturedCollectionByHandle(ctx, "missing"); code(err) != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestFeaturedCollectionProductMembership(t *testing.T) {
	p1, p2 := uuid.New(), uuid.New()
	svc := newTestService(t, p1, p2)
	ctx := context.Background()

	created, err := svc.CreateFeaturedCollection(ctx, CreateFeaturedCollectionInput{
		Title:      "Staff Picks",
		Handle:     "staff-picks",
		ProductIDs: []uuid.UUID{p1, p2},
		IsActive:   true,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(created.ProductIDs) != 2 {
		t.Fatalf("expected 2 product ids, got %d", len(created.ProductIDs))
	}

	_, err = svc.UpdateFeaturedCollection(ctx, created.ID, UpdateFeaturedCollectionInput{
		ProductIDs: &[]uuid.UUID{p1, p1},
	})
	if code(err) != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for duplicate ids, got %v", err)
	}

	roundTripped, err := svc.GetFeaturedCollectionByHandle(ctx, "staff-picks")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(roundTripped.ProductIDs) != 2 || roundTripped.ProductIDs[0] != p1 {
		t.Fatalf("product ids did not round trip: %v", roundTripped.ProductIDs)
	}
}

func TestCategorySlugLifecycle(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateCategory(ctx, CreateCategoryInput{
		Name:     "Phone Skins",
		Slug:     " Phone-Skins ",
		IsActive: true,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Slug != "phone-skins" {
		t.Fatalf("slug not normalized: %s", created.Slug)
	}

	if _, err := svc.CreateCategory(ctx, CreateCategoryInput{
		Name: "Dup", Slug: "phone-skins",
	}); code(err) != pkgerrors.CodeConflict {
		t.Fatalf("expected slug conflict, got %v", err)
	}

	found, err := svc.GetCategoryBySlug(ctx, "phone-skins")
	if err != nil || found.Name != "Phone Skins" {
		t.Fatalf("get by slug: %v / %+v", err, found)
	}

	inactive := false
	if _, err := svc.UpdateCategory(ctx, created.ID, UpdateCategoryInput{IsActive: &inactive}); err != nil {
		t.Fatalf("update: %v", err)
	}
	active, err := svc.ListCategories(ctx, false)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(active) != 0 {
		t.Fatalf("deactivated category still listed: %d", len(active))
	}
}

func code(err error) pkgerrors.Code {
	if typed := pkgerrors.As(err); typed != nil {
		return typed.Code()
	}
	return ""
}
