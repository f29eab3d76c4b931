package repository

import (
	"context"
	"errors"
	"sort"

	"github.com/google/uuid"

	"github.com/sydneykevadiya/groundnut-backend/internal/kv"
	"github.com/sydneykevadiya/groundnut-backend/internal/logger"
	"github.com/sydneykevadiya/groundnut-backend/internal/models"
	"github.com/sydneykevadiya/groundnut-backend/internal/pkg/apperror"
)

// ListingRepository хранит объявления и индекс объявлений по фермеру.
type ListingRepository struct {
	store kv.Store
}

func NewListingRepository(store kv.Store) *ListingRepository {
	return &ListingRepository{store: store}
}

// Create сохраняет новое объявление и регистрирует его в индексе фермера.
func (r *ListingRepository) Create(ctx context.Context, listing *models.Listing) error {
	if err := setJSON(ctx, r.store, listingKey(listing.ID), listing); err != nil {
		return err
	}
	return appendToIndex(ctx, r.store, farmerListingsKey(listing.FarmerID), listing.ID.String())
}

// GetByID возвращает объявление и версию его записи.
func (r *ListingRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Listing, int64, error) {
	var listing models.Listing
	version, err := getJSON(ctx, r.store, listingKey(id), &listing)
	if errors.Is(err, kv.ErrKeyNotFound) {
		return nil, 0, apperror.ErrListingNotFound
	}
	if err != nil {
		return nil, 0, err
	}
	return &listing, version, nil
}

// Save безусловно перезаписывает объявление.
func (r *ListingRepository) Save(ctx context.Context, listing *models.Listing) error {
	return setJSON(ctx, r.store, listingKey(listing.ID), listing)
}

// GetActive возвращает активные объявления, новые первыми.
// Пустое хранилище — пустой срез, не ошибка.
func (r *ListingRepository) GetActive(ctx context.Context) ([]models.Listing, error) {
	return r.list(ctx, func(l *models.Listing) bool { return l.Status == models.ListingStatusActive })
}

// GetAll возвращает все объявления без фильтра (админ-панель).
func (r *ListingRepository) GetAll(ctx context.Context) ([]models.Listing, error) {
	return r.list(ctx, nil)
}

func (r *ListingRepository) list(ctx context.Context, keep func(*models.Listing) bool) ([]models.Listing, error) {
	entries, err := r.store.GetByPrefix(ctx, prefixListing)
	if err != nil {
		return nil, err
	}

	listings := make([]models.Listing, 0, len(entries))
	for _, entry := range entries {
		var listing models.Listing
		if _, err := getJSON(ctx, r.store, entry.Key, &listing); err != nil {
			logger.WithComponent("listing_repository").WithField("key", entry.Key).
				Warnf("пропускаем повреждённую запись: %v", err)
			continue
		}
		if keep == nil || keep(&listing) {
			listings = append(listings, listing)
		}
	}

	sort.Slice(listings, func(i, j int) bool {
		return listings[i].CreatedAt.After(listings[j].CreatedAt)
	})
	return listings, nil
}

// GetByFarmer возвращает объявления фермера по его индексу.
// Висячие id (запись удалена, индекс остался) молча пропускаются.
func (r *ListingRepository) GetByFarmer(ctx context.Context, farmerID uuid.UUID) ([]models.Listing, error) {
	ids, err := readIndex(ctx, r.store, farmerListingsKey(farmerID))
	if err != nil {
		return nil, err
	}

	listings := make([]models.Listing, 0, len(ids))
	for _, raw := range ids {
		id, err := uuid.Parse(raw)
		if err != nil {
			continue
		}
		listing, _, err := r.GetByID(ctx, id)
		if apperror.IsNotFound(err) {
			continue
		}
		if err != nil {
			return nil, err
		}
		listings = append(listings, *listing)
	}

	sort.Slice(listings, func(i, j int) bool {
		return listings[i].CreatedAt.After(listings[j].CreatedAt)
	})
	return listings, nil
}

// SetStatus меняет статус объявления с проверкой владельца.
func (r *ListingRepository) SetStatus(ctx context.Context, listingID, farmerID uuid.UUID, status string) (*models.Listing, error) {
	listing, _, err := r.GetByID(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if listing.FarmerID != farmerID {
		return nil, apperror.ErrForbidden
	}

	listing.Status = status
	if err := r.Save(ctx, listing); err != nil {
		return nil, err
	}
	return listing, nil
}

// AdjustAvailableQuantity применяет дельту к остатку (отрицательная —
// резервирование, положительная — возврат) и пересчитывает статус:
// остаток 0 превращает объявление в sold, возврат из 0 возвращает active.
// Пересчёт выполняется при каждом вызове и никогда не оставляется
// вызывающему. Запись условная: при гонке возвращается kv.ErrVersionConflict.
func (r *ListingRepository) AdjustAvailableQuantity(ctx context.Context, listingID uuid.UUID, delta float64) (*models.Listing, error) {
	listing, version, err := r.GetByID(ctx, listingID)
	if err != nil {
		return nil, err
	}

	next := listing.AvailableQuantity + delta
	if next < 0 {
		return nil, apperror.ErrQuantityExceeded
	}
	if next > listing.Quantity {
		next = listing.Quantity
	}
	listing.AvailableQuantity = next

	if listing.AvailableQuantity <= 0 {
		listing.Status = models.ListingStatusSold
	} else if listing.Status == models.ListingStatusSold {
		listing.Status = models.ListingStatusActive
	}

	if err := setJSONVersioned(ctx, r.store, listingKey(listingID), listing, version); err != nil {
		return nil, err
	}
	return listing, nil
}

// Delete удаляет объявление (админ). Индексы не чистятся: чтения
// терпимы к висячим id, а история предложений должна сохраниться.
func (r *ListingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, _, err := r.GetByID(ctx, id); err != nil {
		return err
	}
	return r.store.Delete(ctx, listingKey(id))
}
