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

// ProfileRepository хранит профили фермеров и компаний.
type ProfileRepository struct {
	store kv.Store
}

func NewProfileRepository(store kv.Store) *ProfileRepository {
	return &ProfileRepository{store: store}
}

// SaveFarmer записывает профиль фермера.
func (r *ProfileRepository) SaveFarmer(ctx context.Context, profile *models.FarmerProfile) error {
	return setJSON(ctx, r.store, farmerKey(profile.ID), profile)
}

// GetFarmer возвращает профиль фермера.
func (r *ProfileRepository) GetFarmer(ctx context.Context, id uuid.UUID) (*models.FarmerProfile, error) {
	var profile models.FarmerProfile
	_, err := getJSON(ctx, r.store, farmerKey(id), &profile)
	if errors.Is(err, kv.ErrKeyNotFound) {
		return nil, apperror.ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// SaveCompany записывает профиль компании.
func (r *ProfileRepository) SaveCompany(ctx context.Context, profile *models.CompanyProfile) error {
	return setJSON(ctx, r.store, companyKey(profile.ID), profile)
}

// GetCompany возвращает профиль компании.
func (r *ProfileRepository) GetCompany(ctx context.Context, id uuid.UUID) (*models.CompanyProfile, error) {
	var profile models.CompanyProfile
	_, err := getJSON(ctx, r.store, companyKey(id), &profile)
	if errors.Is(err, kv.ErrKeyNotFound) {
		return nil, apperror.ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// ListFarmers возвращает все профили фермеров, новые первыми.
func (r *ProfileRepository) ListFarmers(ctx context.Context) ([]models.FarmerProfile, error) {
	entries, err := r.store.GetByPrefix(ctx, prefixFarmer)
	if err != nil {
		return nil, err
	}

	farmers := make([]models.FarmerProfile, 0, len(entries))
	for _, entry := range entries {
		var profile models.FarmerProfile
		if _, err := getJSON(ctx, r.store, entry.Key, &profile); err != nil {
			continue
		}
		farmers = append(farmers, profile)
	}

	sort.Slice(farmers, func(i, j int) bool {
		return farmers[i].CreatedAt.After(farmers[j].CreatedAt)
	})
	return farmers, nil
}

// ListCompanies возвращает все профили компаний, новые первыми.
func (r *ProfileRepository) ListCompanies(ctx context.Context) ([]models.CompanyProfile, error) {
	entries, err := r.store.GetByPrefix(ctx, prefixCompany)
	if err != nil {
		return nil, err
	}

	companies := make([]models.CompanyProfile, 0, len(entries))
	for _, entry := range entries {
		var profile models.CompanyProfile
		if _, err := getJSON(ctx, r.store, entry.Key, &profile); err != nil {
			continue
		}
		companies = append(companies, profile)
	}

	sort.Slice(companies, func(i, j int) bool {
		return companies[i].CreatedAt.After(companies[j].CreatedAt)
	})
	return companies, nil
}

// DeleteUser удаляет оба возможных профиля пользователя.
// Пользователь хранится либо как farmer:<id>, либо как company:<id>,
// поэтому удаляются оба ключа без проверки типа.
func (r *ProfileRepository) DeleteUser(ctx context.Context, id uuid.UUID) error {
	if err := r.store.Delete(ctx, farmerKey(id)); err != nil {
		return err
	}
	return r.store.Delete(ctx, companyKey(id))
}
