package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

		"mfi-backoffice/internal/core/domain"
	"mfi-backoffice/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestProductRepository_ListByStatus(t *testing.T) {
	db := testutil.OpenDB(t)
	repo := NewProductRepository(db)
	ctx := context.Background()

	testutil.SeedProduct(t, db, "Micro Business")
	retired := testutil.SeedProduct(t, db, "Agri Seasonal")
	retired.Status = domain.ProductInactive
	require.NoError(t, repo.Update(ctx, retired))

	all, err := repo.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Agri Seasonal", all[0].Name, "ordered by name")

	active, err := repo.List(ctx, domain.ProductActive)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "Micro Business", active[0].Name)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestProductRepository_ExistsByName(t *testing.T) {
	db := testutil.OpenDB(t)
	repo := NewProductRepository(db)
	ctx := context.Background()
	p := testutil.SeedProduct(t, db, "Micro Business")

	exists, err := repo.ExistsByName(ctx, "  micro business ", 0)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByName(ctx, "Micro Business", p.ID)
	require.NoError(t, err)
	assert.False(t, exists, "a product does not collide with itself")

	exists, err = repo.ExistsByName(ctx, "Housing", 0)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestProductRepository_Delete(t *testing.T) {
	db := testutil.OpenDB(t)
	repo := NewProductRepository(db)
	ctx := context.Background()
	p := testutil.SeedProduct(t, db, "Micro Business")

	require.NoError(t, repo.Delete(ctx, p.ID))
	_, err := repo.GetByID(ctx, p.ID)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
	assert.True(t, errors.Is(repo.Delete(ctx, p.ID), gorm.ErrRecordNotFound))
}

func TestProductRepository_DeleteKeepsApplicationSnapshot(t *testing.T) {
	db := testutil.OpenDB(t)
	products := NewProductRepository(db)
	apps := NewApplicationRepository(db)
	ctx := context.Background()
	p := testutil.SeedProduct(t, db, "Micro Business")
	app := testutil.SeedApplication(t, db, p, "Amina", 2_000_000, domain.StatusPending, time.Now().UTC())

	require.NoError(t, products.Delete(ctx, p.ID))

	got, err := apps.GetByID(ctx, app.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.Product.ProductID)
	assert.Equal(t, "Micro Business", got.Product.ProductName)
}
