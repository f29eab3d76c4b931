package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sydneykevadiya/groundnut-backend/internal/kv"
	"github.com/sydneykevadiya/groundnut-backend/internal/models"
	"github.com/sydneykevadiya/groundnut-backend/internal/pkg/apperror"
)

func newTestListing(farmerID uuid.UUID, quantity float64) *models.Listing {
	return &models.Listing{
		ID:                uuid.New(),
		FarmerID:          farmerID,
		FarmerName:        "рамеш",
		Quantity:          quantity,
		AvailableQuantity: quantity,
		PricePerKg:        80,
		TotalValue:        quantity * 80 * models.TonnesToKg,
		Status:            models.ListingStatusActive,
		CreatedAt:         time.Now(),
	}
}

func TestListingRepository_AdjustAvailableQuantity(t *testing.T) {
	store := kv.NewMemoryStore()
	repo := NewListingRepository(store)
	ctx := context.Background()
	farmerID := uuid.New()

	listing := newTestListing(farmerID, 10)
	require.NoError(t, repo.Create(ctx, listing))

	// Резервирование уменьшает остаток.
	updated, err := repo.AdjustAvailableQuantity(ctx, listing.ID, -7)
	require.NoError(t, err)
	assert.Equal(t, float64(3), updated.AvailableQuantity)
	assert.Equal(t, models.ListingStatusActive, updated.Status)

	// Остаток 0 переводит объявление в sold.
	updated, err = repo.AdjustAvailableQuantity(ctx, listing.ID, -3)
	require.NoError(t, err)
	assert.Equal(t, float64(0), updated.AvailableQuantity)
	assert.Equal(t, models.ListingStatusSold, updated.Status)

	// Возврат из sold реактивирует объявление.
	updated, err = repo.AdjustAvailableQuantity(ctx, listing.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, float64(3), updated.AvailableQuantity)
	assert.Equal(t, models.ListingStatusActive, updated.Status)
}

func TestListingRepository_AdjustAvailableQuantity_Negative(t *testing.T) {
	store := kv.NewMemoryStore()
	repo := NewListingRepository(store)
	ctx := context.Background()

	listing := newTestListing(uuid.New(), 5)
	require.NoError(t, repo.Create(ctx, listing))

	_, err := repo.AdjustAvailableQuantity(ctx, listing.ID, -6)
	appErr := apperror.AsAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperror.ErrCodeQuantityExceeded, appErr.Code)

	// Неудачная попытка ничего не меняет.
	stored, _, err := repo.GetByID(ctx, listing.ID)
	require.NoError(t, err)
	assert.Equal(t, float64(5), stored.AvailableQuantity)
}

func TestListingRepository_AdjustAvailableQuantity_ClampsAtQuantity(t *testing.T) {
	store := kv.NewMemoryStore()
	repo := NewListingRepository(store)
	ctx := context.Background()

	listing := newTestListing(uuid.New(), 10)
	require.NoError(t, repo.Create(ctx, listing))

	_, err := repo.AdjustAvailableQuantity(ctx, listing.ID, -4)
	require.NoError(t, err)

	// Возврат больше списанного не раздувает остаток выше исходного.
	updated, err := repo.AdjustAvailableQuantity(ctx, listing.ID, 100)
	require.NoError(t, err)
	assert.Equal(t, float64(10), updated.AvailableQuantity)
}

func TestListingRepository_GetByFarmer_SkipsDangling(t *testing.T) {
	store := kv.NewMemoryStore()
	repo := NewListingRepository(store)
	ctx := context.Background()
	farmerID := uuid.New()

	first := newTestListing(farmerID, 5)
	second := newTestListing(farmerID, 7)
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))

	require.NoError(t, repo.Delete(ctx, first.ID))

	listings, err := repo.GetByFarmer(ctx, farmerID)
	require.NoError(t, err)
	require.Len(t, listings, 1)
	assert.Equal(t, second.ID, listings[0].ID)
}

func TestListingRepository_GetActive_EmptyStore(t *testing.T) {
	store := kv.NewMemoryStore()
	repo := NewListingRepository(store)

	listings, err := repo.GetActive(context.Background())
	require.NoError(t, err)
	assert.Empty(t, listings)
}

func TestListingRepository_SetStatus_OwnerOnly(t *testing.T) {
	store := kv.NewMemoryStore()
	repo := NewListingRepository(store)
	ctx := context.Background()
	farmerID := uuid.New()

	listing := newTestListing(farmerID, 5)
	require.NoError(t, repo.Create(ctx, listing))

	_, err := repo.SetStatus(ctx, listing.ID, uuid.New(), models.ListingStatusClosed)
	assert.True(t, apperror.IsForbidden(err))

	updated, err := repo.SetStatus(ctx, listing.ID, farmerID, models.ListingStatusClosed)
	require.NoError(t, err)
	assert.Equal(t, models.ListingStatusClosed, updated.Status)
}
