package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/sydneykevadiya/groundnut-backend/internal/models"
	"github.com/sydneykevadiya/groundnut-backend/internal/pkg/apperror"
	"github.com/sydneykevadiya/groundnut-backend/internal/repository"
	"github.com/sydneykevadiya/groundnut-backend/internal/validation"
)

// ListingService управляет объявлениями о продаже.
type ListingService struct {
	listings *repository.ListingRepository
	profiles *repository.ProfileRepository
}

func NewListingService(listings *repository.ListingRepository, profiles *repository.ProfileRepository) *ListingService {
	return &ListingService{listings: listings, profiles: profiles}
}

// CreateListingInput — параметры нового объявления.
type CreateListingInput struct {
	Quantity   float64
	PricePerKg float64
	ImageURL   string
	Quality    models.QualityAssessment
}

// Create публикует объявление от имени фермера. Имя и локация фермера
// снимаются с профиля в момент публикации и дальше не обновляются.
func (s *ListingService) Create(ctx context.Context, farmerID uuid.UUID, in CreateListingInput) (*models.Listing, error) {
	if err := validation.ValidateQuantity(in.Quantity); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInvalidInput, err.Error())
	}
	if err := validation.ValidatePrice(in.PricePerKg); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInvalidInput, err.Error())
	}

	farmer, err := s.profiles.GetFarmer(ctx, farmerID)
	if err != nil {
		return nil, err
	}

	listing := &models.Listing{
		ID:             uuid.New(),
		FarmerID:       farmerID,
		FarmerName:     farmer.Name,
		FarmerLocation: farmer.Region,
		ImageURL:       in.ImageURL,

		Quality:    in.Quality.Quality,
		Grade:      in.Quality.Grade,
		Moisture:   in.Quality.Moisture,
		Color:      in.Quality.Color,
		Size:       in.Quality.Size,
		Defects:    in.Quality.Defects,
		Confidence: in.Quality.Confidence,

		Quantity:          in.Quantity,
		AvailableQuantity: in.Quantity,
		PricePerKg:        in.PricePerKg,
		TotalValue:        in.Quantity * in.PricePerKg * models.TonnesToKg,

		Status:    models.ListingStatusActive,
		CreatedAt: time.Now(),
	}

	if err := s.listings.Create(ctx, listing); err != nil {
		return nil, err
	}
	return listing, nil
}

// GetActive возвращает активные объявления для витрины компаний.
func (s *ListingService) GetActive(ctx context.Context) ([]models.Listing, error) {
	return s.listings.GetActive(ctx)
}

// GetMine возвращает объявления фермера, включая sold и closed.
func (s *ListingService) GetMine(ctx context.Context, farmerID uuid.UUID) ([]models.Listing, error) {
	return s.listings.GetByFarmer(ctx, farmerID)
}

// GetByID возвращает объявление по идентификатору.
func (s *ListingService) GetByID(ctx context.Context, id uuid.UUID) (*models.Listing, error) {
	listing, _, err := s.listings.GetByID(ctx, id)
	return listing, err
}

// SetStatus меняет статус объявления вручную (active/sold/closed).
// Только владелец; произвольные строки статуса отклоняются.
func (s *ListingService) SetStatus(ctx context.Context, farmerID, listingID uuid.UUID, status string) (*models.Listing, error) {
	if _, ok := models.ValidListingStatuses[status]; !ok {
		return nil, apperror.New(apperror.ErrCodeInvalidInput, "недопустимый статус объявления")
	}
	return s.listings.SetStatus(ctx, listingID, farmerID, status)
}
