package product

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/wrapnest/storefront-backend/pkg/db/models"
	"github.com/wrapnest/storefront-backend/pkg/enums"
	"github.com/wrapnest/storefront-backend/pkg/pagination"
)

func openRepoTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&models.Product{}, &models.Review{}))
	return conn
}

func seedProduct(t *testing.T, repo *Repository, slug string, createdAt time.Time, mutate func(*models.Product)) *models.Product {
	t.Helper()
	product := &models.Product{
		Slug:       slug,
		Name:       strings.ReplaceAll(slug, "-", " "),
		Kind:       enums.ProductKindApparel,
		PriceCents: 1999,
		InStock:    true,
	}
	if mutate != nil {
		mutate(product)
	}
	created, err := repo.CreateProduct(context.Background(), product)
	require.NoError(t, err)

	// pin created_at for deterministic cursor ordering
	require.NoError(t, repo.DB(context.Background()).
		Model(created).Update("created_at", createdAt).Error)
	created.CreatedAt = createdAt
	return created
}

func TestListProductsCursorWalksAllRows(t *testing.T) {
	repo := NewRepository(openRepoTestDB(t))
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		seedProduct(t, repo, fmt.Sprintf("tee-%d", i), base.Add(time.Duration(i)*time.Minute), nil)
	}

	seen := map[string]bool{}
	cursor := ""
	for page := 0; page < 4; page++ {
		result, err := repo.ListProducts(context.Background(), ListQuery{
			Pagination: pagination.Params{Limit: 2, Cursor: cursor},
		})
		require.NoError(t, err)
		for _, row := range result.Products {
			assert.False(t, seen[row.Slug], "slug %s repeated across pages", row.Slug)
			seen[row.Slug] = true
		}
		if result.NextCursor == "" {
			break
		}
		cursor = result.NextCursor
	}
	assert.Len(t, seen, 5)
}

func TestListProductsFilters(t *testing.T) {
	repo := NewRepository(openRepoTestDB(t))
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	seedProduct(t, repo, "carbon-skin", base, func(p *models.Product) {
		p.Kind = enums.ProductKindDeviceSkin
		p.IsFeatured = true
	})
	seedProduct(t, repo, "logo-tee", base.Add(time.Minute), nil)
	seedProduct(t, repo, "sold-out-tee", base.Add(2*time.Minute), func(p *models.Product) {
		p.InStock = false
	})

	kind := enums.ProductKindDeviceSkin
	result, err := repo.ListProducts(context.Background(), ListQuery{
		Filters: ListFilters{Kind: &kind},
	})
	require.NoError(t, err)
	require.Len(t, result.Products, 1)
	assert.Equal(t, "carbon-skin", result.Products[0].Slug)

	inStock := true
	result, err = repo.ListProducts(context.Background(), ListQuery{
		Filters: ListFilters{InStock: &inStock},
	})
	require.NoError(t, err)
	assert.Len(t, result.Products, 2)

	result, err = repo.ListProducts(context.Background(), ListQuery{
		Filters: ListFilters{Query: "TEE"},
	})
	require.NoError(t, err)
	assert.Len(t, result.Products, 2)
}

func TestCreateProductPersistsFalseFlags(t *testing.T) {
	repo := NewRepository(openRepoTestDB(t))

	created := seedProduct(t, repo, "sold-out-skin", time.Now().UTC(), func(p *models.Product) {
		p.InStock = false
		p.IsFeatured = false
	})

	found, err := repo.FindByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.False(t, found.InStock)
	assert.False(t, found.IsFeatured)
}

func TestDeleteProductCascadesReviews(t *testing.T) {
	repo := NewRepository(openRepoTestDB(t))
	product := seedProduct(t, repo, "carbon-skin", time.Now().UTC(), nil)

	_, err := repo.CreateReview(context.Background(), &models.Review{
		ProductID: product.ID,
		Author:    "dana",
		Rating:    5,
		Status:    enums.ReviewStatusApproved,
	})
	require.NoError(t, err)

	require.NoError(t, repo.DeleteProduct(context.Background(), product.ID))

	var count int64
	require.NoError(t, repo.DB(context.Background()).
		Model(&models.Review{}).Where("product_id = ?", product.ID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestRatingSummaryIgnoresPending(t *testing.T) {
	repo := NewRepository(openRepoTestDB(t))
	product := seedProduct(t, repo, "carbon-skin", time.Now().UTC(), nil)

	for _, review := range []models.Review{
		{ProductID: product.ID, Author: "a", Rating: 4, Status: enums.ReviewStatusApproved},
		{ProductID: product.ID, Author: "b", Rating: 2, Status: enums.ReviewStatusApproved},
		{ProductID: product.ID, Author: "c", Rating: 5, Status: enums.ReviewStatusPending},
	} {
		r := review
		_, err := repo.CreateReview(context.Background(), &r)
		require.NoError(t, err)
	}

	average, count, err := repo.RatingSummary(context.Background(), product.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.InDelta(t, 3.0, average, 0.001)
}
