package repository

import (
	"context"
	"errors"
	"sort"

	"github.com/google/uuid"

	"github.com/sydneykevadiya/groundnut-backend/internal/kv"
	"github.com/sydneykevadiya/groundnut-backend/internal/models"
	"github.com/sydneykevadiya/groundnut-backend/internal/pkg/apperror"
)

// OfferRepository хранит предложения и индекс предложений по объявлению.
type OfferRepository struct {
	store kv.Store
}

func NewOfferRepository(store kv.Store) *OfferRepository {
	return &OfferRepository{store: store}
}

// Create сохраняет предложение и регистрирует его в индексе объявления.
func (r *OfferRepository) Create(ctx context.Context, offer *models.Offer) error {
	if err := setJSON(ctx, r.store, offerKey(offer.ID), offer); err != nil {
		return err
	}
	return appendToIndex(ctx, r.store, listingOffersKey(offer.ListingID), offer.ID.String())
}

// GetByID возвращает предложение по идентификатору.
func (r *OfferRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Offer, error) {
	var offer models.Offer
	_, err := getJSON(ctx, r.store, offerKey(id), &offer)
	if errors.Is(err, kv.ErrKeyNotFound) {
		return nil, apperror.ErrOfferNotFound
	}
	if err != nil {
		return nil, err
	}
	return &offer, nil
}

// Save перезаписывает предложение.
func (r *OfferRepository) Save(ctx context.Context, offer *models.Offer) error {
	return setJSON(ctx, r.store, offerKey(offer.ID), offer)
}

// ListByListing возвращает предложения по объявлению, новые первыми.
// Висячие id из индекса пропускаются.
func (r *OfferRepository) ListByListing(ctx context.Context, listingID uuid.UUID) ([]models.Offer, error) {
	ids, err := readIndex(ctx, r.store, listingOffersKey(listingID))
	if err != nil {
		return nil, err
	}

	offers := make([]models.Offer, 0, len(ids))
	for _, raw := range ids {
		id, err := uuid.Parse(raw)
		if err != nil {
			continue
		}
		offer, err := r.GetByID(ctx, id)
		if apperror.IsNotFound(err) {
			continue
		}
		if err != nil {
			return nil, err
		}
		offers = append(offers, *offer)
	}

	sort.Slice(offers, func(i, j int) bool {
		return offers[i].CreatedAt.After(offers[j].CreatedAt)
	})
	return offers, nil
}

// ListAll возвращает все предложения (админ-панель).
func (r *OfferRepository) ListAll(ctx context.Context) ([]models.Offer, error) {
	entries, err := r.store.GetByPrefix(ctx, prefixOffer)
	if err != nil {
		return nil, err
	}

	offers := make([]models.Offer, 0, len(entries))
	for _, entry := range entries {
		var offer models.Offer
		if _, err := getJSON(ctx, r.store, entry.Key, &offer); err != nil {
			continue
		}
		offers = append(offers, offer)
	}

	sort.Slice(offers, func(i, j int) bool {
		return offers[i].CreatedAt.After(offers[j].CreatedAt)
	})
	return offers, nil
}
