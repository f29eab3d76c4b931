package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sydneykevadiya/groundnut-backend/internal/pkg/apperror"
)

func TestAdminService_VerifyCompany(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	companyID := env.createCompany(t, "agro")

	company, err := env.adminSvc.VerifyCompany(ctx, companyID, true)
	require.NoError(t, err)
	assert.True(t, company.Verified)

	// Флаг можно снять обратно.
	company, err = env.adminSvc.VerifyCompany(ctx, companyID, false)
	require.NoError(t, err)
	assert.False(t, company.Verified)
}

func TestAdminService_VerifiedFlagDoesNotGateOffers(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	farmerID := env.createFarmer(t, "рамеш")
	companyID := env.createCompany(t, "agro")
	listing := env.createListing(t, farmerID, 10, 80)

	// Непроверенная компания свободно делает предложения:
	// verified — информационный флаг, а не допуск.
	_, err := env.offerSvc.CreateOffer(ctx, companyID, CreateOfferInput{
		ListingID:  listing.ID,
		Quantity:   3,
		PricePerKg: 80,
	})
	assert.NoError(t, err)
}

func TestAdminService_DeleteUser(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	reg, err := env.authSvc.RegisterFarmer(ctx, validFarmerInput())
	require.NoError(t, err)

	require.NoError(t, env.adminSvc.DeleteUser(ctx, reg.UserID))

	// Профиль и учётные данные удалены.
	_, err = env.profiles.GetFarmer(ctx, reg.UserID)
	assert.True(t, apperror.IsNotFound(err))
	_, err = env.authSvc.Login(ctx, "ramesh@example.com", "secret-pass-123")
	assert.Error(t, err)
}

func TestAdminService_DeleteUser_UnknownUser(t *testing.T) {
	env := newTestEnv()

	// Несуществующий пользователь — NOT_FOUND, а не тихий успех.
	err := env.adminSvc.DeleteUser(context.Background(), uuid.New())
	assert.True(t, apperror.IsNotFound(err))
}

func TestAdminService_DeleteUser_KeepsHistory(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	farmerID := env.createFarmer(t, "рамеш")
	companyID := env.createCompany(t, "agro")
	listing := env.createListing(t, farmerID, 10, 80)
	offer := env.createOffer(t, companyID, listing.ID, 5, 80)

	require.NoError(t, env.adminSvc.DeleteUser(ctx, companyID))

	// История сделок сохраняется после удаления пользователя.
	stored, err := env.offers.GetByID(ctx, offer.ID)
	require.NoError(t, err)
	assert.Equal(t, companyID, stored.CompanyID)
}

func TestAdminService_DeleteAdminForbidden(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	require.NoError(t, env.authSvc.EnsureAdmin(ctx, "admin@example.com", "admin-password-long"))
	login, err := env.authSvc.Login(ctx, "admin@example.com", "admin-password-long")
	require.NoError(t, err)

	err = env.adminSvc.DeleteUser(ctx, login.UserID)
	assert.True(t, apperror.IsForbidden(err))
}

func TestAdminService_ListUsers(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	env.createFarmer(t, "рамеш")
	env.createFarmer(t, "суреш")
	env.createCompany(t, "agro")

	users, err := env.adminSvc.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users.Farmers, 2)
	assert.Len(t, users.Companies, 1)
}

func TestAdminService_DeleteListing(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	farmerID := env.createFarmer(t, "рамеш")
	listing := env.createListing(t, farmerID, 10, 80)

	require.NoError(t, env.adminSvc.DeleteListing(ctx, listing.ID))

	_, _, err := env.listings.GetByID(ctx, listing.ID)
	assert.True(t, apperror.IsNotFound(err))

	// Висячий id в индексе фермера не ломает выборку.
	mine, err := env.listingSvc.GetMine(ctx, farmerID)
	require.NoError(t, err)
	assert.Empty(t, mine)
}
