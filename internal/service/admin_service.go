package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/sydneykevadiya/groundnut-backend/internal/logger"
	"github.com/sydneykevadiya/groundnut-backend/internal/models"
	"github.com/sydneykevadiya/groundnut-backend/internal/pkg/apperror"
	"github.com/sydneykevadiya/groundnut-backend/internal/repository"
)

// AdminService — операции панели модерации.
// Проверка роли admin выполняется в middleware, сервис ей доверяет.
type AdminService struct {
	profiles *repository.ProfileRepository
	auth     *repository.AuthRepository
	listings *repository.ListingRepository
	offers   *repository.OfferRepository
}

func NewAdminService(profiles *repository.ProfileRepository, auth *repository.AuthRepository, listings *repository.ListingRepository, offers *repository.OfferRepository) *AdminService {
	return &AdminService{profiles: profiles, auth: auth, listings: listings, offers: offers}
}

// UserList — пользователи платформы, сгруппированные по типу.
type UserList struct {
	Farmers   []models.FarmerProfile  `json:"farmers"`
	Companies []models.CompanyProfile `json:"companies"`
}

// ListUsers возвращает всех фермеров и все компании.
func (s *AdminService) ListUsers(ctx context.Context) (*UserList, error) {
	farmers, err := s.profiles.ListFarmers(ctx)
	if err != nil {
		return nil, err
	}
	companies, err := s.profiles.ListCompanies(ctx)
	if err != nil {
		return nil, err
	}
	return &UserList{Farmers: farmers, Companies: companies}, nil
}

// DeleteUser удаляет профиль пользователя и его учётные данные.
// Объявления и предложения остаются: история сделок не стирается.
func (s *AdminService) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	cred, credErr := s.auth.FindCredentialsByUserID(ctx, userID)
	if credErr == nil && cred.Role == models.RoleAdmin {
		return apperror.ErrForbidden
	}

	// Пользователь существует, если есть хотя бы профиль или учётные данные.
	_, farmerErr := s.profiles.GetFarmer(ctx, userID)
	_, companyErr := s.profiles.GetCompany(ctx, userID)
	if credErr != nil && farmerErr != nil && companyErr != nil {
		return apperror.ErrProfileNotFound
	}

	if credErr == nil {
		if err := s.auth.DeleteCredentials(ctx, cred.Email); err != nil {
			return err
		}
	}

	if err := s.profiles.DeleteUser(ctx, userID); err != nil {
		return err
	}

	logger.WithComponent("admin_service").WithField("user_id", userID).
		Info("пользователь удалён администратором")
	return nil
}

// VerifyCompany выставляет флаг verified компании.
// Флаг информационный: на создание предложений он не влияет.
func (s *AdminService) VerifyCompany(ctx context.Context, companyID uuid.UUID, verified bool) (*models.CompanyProfile, error) {
	company, err := s.profiles.GetCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}

	company.Verified = verified
	if err := s.profiles.SaveCompany(ctx, company); err != nil {
		return nil, err
	}

	logger.WithComponent("admin_service").WithFields(logrus.Fields{
		"company_id": companyID,
		"verified":   verified,
	}).Info("статус проверки компании изменён")
	return company, nil
}

// ListListings возвращает все объявления, включая sold и closed.
func (s *AdminService) ListListings(ctx context.Context) ([]models.Listing, error) {
	return s.listings.GetAll(ctx)
}

// DeleteListing удаляет объявление с платформы.
func (s *AdminService) DeleteListing(ctx context.Context, listingID uuid.UUID) error {
	return s.listings.Delete(ctx, listingID)
}

// ListOffers возвращает все предложения платформы.
func (s *AdminService) ListOffers(ctx context.Context) ([]models.Offer, error) {
	return s.offers.ListAll(ctx)
}
