package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sydneykevadiya/groundnut-backend/internal/kv"
	"github.com/sydneykevadiya/groundnut-backend/internal/models"
	"github.com/sydneykevadiya/groundnut-backend/internal/pkg/apperror"
	"github.com/sydneykevadiya/groundnut-backend/internal/repository"
)

// testEnv собирает сервисы поверх хранилища в памяти.
type testEnv struct {
	store    *kv.MemoryStore
	auth     *repository.AuthRepository
	profiles *repository.ProfileRepository
	listings *repository.ListingRepository
	offers   *repository.OfferRepository
	reports  *repository.ReportRepository

	authSvc    *AuthService
	otpSvc     *OtpService
	listingSvc *ListingService
	offerSvc   *OfferService
	reportSvc  *ReportService
	adminSvc   *AdminService
}

func newTestEnv() *testEnv {
	store := kv.NewMemoryStore()
	auth := repository.NewAuthRepository(store)
	profiles := repository.NewProfileRepository(store)
	listings := repository.NewListingRepository(store)
	offers := repository.NewOfferRepository(store)
	reports := repository.NewReportRepository(store)

	tokens := NewTokenManager("test-access-secret", "test-refresh-secret", 15*time.Minute, 720*time.Hour)

	return &testEnv{
		store:    store,
		auth:     auth,
		profiles: profiles,
		listings: listings,
		offers:   offers,
		reports:  reports,

		authSvc:    NewAuthService(auth, profiles, tokens),
		otpSvc:     NewOtpService(auth, profiles),
		listingSvc: NewListingService(listings, profiles),
		offerSvc:   NewOfferService(offers, listings, profiles),
		reportSvc:  NewReportService(reports, profiles),
		adminSvc:   NewAdminService(profiles, auth, listings, offers),
	}
}

func (e *testEnv) createFarmer(t *testing.T, name string) uuid.UUID {
	t.Helper()
	id := uuid.New()
	err := e.profiles.SaveFarmer(context.Background(), &models.FarmerProfile{
		ID:        id,
		Email:     name + "@example.com",
		Name:      name,
		Phone:     "9876543210",
		Region:    "Гуджарат",
		Address:   "деревня Н.",
		UserType:  models.RoleFarmer,
		CreatedAt: time.Now(),
	})
	require.NoError(t, err)
	return id
}

func (e *testEnv) createCompany(t *testing.T, name string) uuid.UUID {
	t.Helper()
	id := uuid.New()
	err := e.profiles.SaveCompany(context.Background(), &models.CompanyProfile{
		ID:            id,
		Email:         name + "@corp.example.com",
		CompanyName:   name,
		ContactPerson: "Закупщик",
		Phone:         "9123456789",
		Address:       "Ахмадабад",
		UserType:      models.RoleCompany,
		CreatedAt:     time.Now(),
	})
	require.NoError(t, err)
	return id
}

func (e *testEnv) createListing(t *testing.T, farmerID uuid.UUID, quantity, price float64) *models.Listing {
	t.Helper()
	listing, err := e.listingSvc.Create(context.Background(), farmerID, CreateListingInput{
		Quantity:   quantity,
		PricePerKg: price,
	})
	require.NoError(t, err)
	return listing
}

func (e *testEnv) createOffer(t *testing.T, companyID, listingID uuid.UUID, quantity, price float64) *models.Offer {
	t.Helper()
	offer, err := e.offerSvc.CreateOffer(context.Background(), companyID, CreateOfferInput{
		ListingID:  listingID,
		Quantity:   quantity,
		PricePerKg: price,
	})
	require.NoError(t, err)
	return offer
}

func TestOfferService_CreateOffer_TotalAmount(t *testing.T) {
	env := newTestEnv()
	farmerID := env.createFarmer(t, "рамеш")
	companyID := env.createCompany(t, "agro")
	listing := env.createListing(t, farmerID, 10, 80)

	offer := env.createOffer(t, companyID, listing.ID, 3, 75)

	// Количество в тоннах, цена за килограмм.
	assert.Equal(t, float64(3*75*1000), offer.TotalAmount)
	assert.Equal(t, models.OfferStatusPending, offer.Status)
	assert.Nil(t, offer.FarmerContact)
	assert.Nil(t, offer.CompanyContact)
}

func TestOfferService_CreateOffer_QuantityExceeded(t *testing.T) {
	env := newTestEnv()
	farmerID := env.createFarmer(t, "рамеш")
	companyID := env.createCompany(t, "agro")
	listing := env.createListing(t, farmerID, 10, 80)

	_, err := env.offerSvc.CreateOffer(context.Background(), companyID, CreateOfferInput{
		ListingID:  listing.ID,
		Quantity:   11,
		PricePerKg: 80,
	})
	appErr := apperror.AsAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperror.ErrCodeQuantityExceeded, appErr.Code)
}

func TestOfferService_CreateOffer_ListingUnavailable(t *testing.T) {
	env := newTestEnv()
	farmerID := env.createFarmer(t, "рамеш")
	companyID := env.createCompany(t, "agro")
	listing := env.createListing(t, farmerID, 10, 80)

	_, err := env.listingSvc.SetStatus(context.Background(), farmerID, listing.ID, models.ListingStatusClosed)
	require.NoError(t, err)

	_, err = env.offerSvc.CreateOffer(context.Background(), companyID, CreateOfferInput{
		ListingID:  listing.ID,
		Quantity:   1,
		PricePerKg: 80,
	})
	appErr := apperror.AsAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperror.ErrCodeListingUnavailable, appErr.Code)

	// Несуществующее объявление даёт тот же код, не NOT_FOUND.
	_, err = env.offerSvc.CreateOffer(context.Background(), companyID, CreateOfferInput{
		ListingID:  uuid.New(),
		Quantity:   1,
		PricePerKg: 80,
	})
	appErr = apperror.AsAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperror.ErrCodeListingUnavailable, appErr.Code)
}

func TestOfferService_AcceptOffer_PartialQuantity(t *testing.T) {
	env := newTestEnv()
	farmerID := env.createFarmer(t, "рамеш")
	companyID := env.createCompany(t, "agro")
	listing := env.createListing(t, farmerID, 10, 80)
	offer := env.createOffer(t, companyID, listing.ID, 7, 80)

	accepted, err := env.offerSvc.AcceptOffer(context.Background(), farmerID, offer.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OfferStatusAccepted, accepted.Status)
	require.NotNil(t, accepted.StatusChangedAt)

	// Остаток уменьшился, объявление осталось активным.
	updated, _, err := env.listings.GetByID(context.Background(), listing.ID)
	require.NoError(t, err)
	assert.Equal(t, float64(3), updated.AvailableQuantity)
	assert.Equal(t, models.ListingStatusActive, updated.Status)
}

func TestOfferService_AcceptOffer_FullQuantityMarksSold(t *testing.T) {
	env := newTestEnv()
	farmerID := env.createFarmer(t, "рамеш")
	companyID := env.createCompany(t, "agro")
	listing := env.createListing(t, farmerID, 10, 80)
	offer := env.createOffer(t, companyID, listing.ID, 10, 80)

	_, err := env.offerSvc.AcceptOffer(context.Background(), farmerID, offer.ID)
	require.NoError(t, err)

	updated, _, err := env.listings.GetByID(context.Background(), listing.ID)
	require.NoError(t, err)
	assert.Equal(t, float64(0), updated.AvailableQuantity)
	assert.Equal(t, models.ListingStatusSold, updated.Status)
}

func TestOfferService_AcceptOffer_ContactSnapshot(t *testing.T) {
	env := newTestEnv()
	farmerID := env.createFarmer(t, "рамеш")
	companyID := env.createCompany(t, "agro")
	listing := env.createListing(t, farmerID, 10, 80)
	offer := env.createOffer(t, companyID, listing.ID, 5, 80)

	accepted, err := env.offerSvc.AcceptOffer(context.Background(), farmerID, offer.ID)
	require.NoError(t, err)

	require.NotNil(t, accepted.FarmerContact)
	require.NotNil(t, accepted.CompanyContact)
	assert.Equal(t, "рамеш", accepted.FarmerContact.Name)
	assert.Equal(t, "9876543210", accepted.FarmerContact.Phone)
	assert.Equal(t, "Закупщик", accepted.CompanyContact.Name)

	// Изменение профиля после принятия не трогает снимок.
	farmer, err := env.profiles.GetFarmer(context.Background(), farmerID)
	require.NoError(t, err)
	farmer.Phone = "0000000000"
	require.NoError(t, env.profiles.SaveFarmer(context.Background(), farmer))

	stored, err := env.offers.GetByID(context.Background(), accepted.ID)
	require.NoError(t, err)
	assert.Equal(t, "9876543210", stored.FarmerContact.Phone)
}

func TestOfferService_AcceptOffer_RejectsCompetingPending(t *testing.T) {
	env := newTestEnv()
	farmerID := env.createFarmer(t, "рамеш")
	companyA := env.createCompany(t, "agro-a")
	companyB := env.createCompany(t, "agro-b")
	companyC := env.createCompany(t, "agro-c")
	listing := env.createListing(t, farmerID, 10, 80)

	// Предложение companyC отклоняется вручную ещё до принятия.
	offerA := env.createOffer(t, companyA, listing.ID, 10, 80)
	offerB := env.createOffer(t, companyB, listing.ID, 4, 85)
	offerC := env.createOffer(t, companyC, listing.ID, 2, 70)

	_, err := env.offerSvc.RejectOffer(context.Background(), farmerID, offerC.ID)
	require.NoError(t, err)
	rejectedC, err := env.offers.GetByID(context.Background(), offerC.ID)
	require.NoError(t, err)
	manualRejectTime := rejectedC.StatusChangedAt

	_, err = env.offerSvc.AcceptOffer(context.Background(), farmerID, offerA.ID)
	require.NoError(t, err)

	// Конкурирующее pending предложение автоотклонено.
	storedB, err := env.offers.GetByID(context.Background(), offerB.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OfferStatusRejected, storedB.Status)

	// Ранее решённое предложение не перезаписано.
	storedC, err := env.offers.GetByID(context.Background(), offerC.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OfferStatusRejected, storedC.Status)
	assert.Equal(t, manualRejectTime, storedC.StatusChangedAt)
}

func TestOfferService_AcceptOffer_OnlyOwner(t *testing.T) {
	env := newTestEnv()
	farmerID := env.createFarmer(t, "рамеш")
	strangerID := env.createFarmer(t, "чужой")
	companyID := env.createCompany(t, "agro")
	listing := env.createListing(t, farmerID, 10, 80)
	offer := env.createOffer(t, companyID, listing.ID, 5, 80)

	_, err := env.offerSvc.AcceptOffer(context.Background(), strangerID, offer.ID)
	assert.True(t, apperror.IsForbidden(err))
}

func TestOfferService_AcceptOffer_NonPending(t *testing.T) {
	env := newTestEnv()
	farmerID := env.createFarmer(t, "рамеш")
	companyID := env.createCompany(t, "agro")
	listing := env.createListing(t, farmerID, 10, 80)
	offer := env.createOffer(t, companyID, listing.ID, 5, 80)

	_, err := env.offerSvc.RejectOffer(context.Background(), farmerID, offer.ID)
	require.NoError(t, err)

	// Повторное решение по отклонённому предложению невозможно.
	_, err = env.offerSvc.AcceptOffer(context.Background(), farmerID, offer.ID)
	assert.True(t, apperror.IsInvalidTransition(err))
}

func TestOfferService_AcceptOffer_ConcurrentOversell(t *testing.T) {
	env := newTestEnv()
	farmerID := env.createFarmer(t, "рамеш")
	companyA := env.createCompany(t, "agro-a")
	companyB := env.createCompany(t, "agro-b")
	listing := env.createListing(t, farmerID, 10, 80)

	offerA := env.createOffer(t, companyA, listing.ID, 7, 80)
	offerB := env.createOffer(t, companyB, listing.ID, 5, 80)

	// Оба принятия стартуют одновременно: суммарно 12 тонн при остатке 10.
	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, offerID := range []uuid.UUID{offerA.ID, offerB.ID} {
		wg.Add(1)
		go func(i int, id uuid.UUID) {
			defer wg.Done()
			_, errs[i] = env.offerSvc.AcceptOffer(context.Background(), farmerID, id)
		}(i, offerID)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		}
	}
	require.Equal(t, 1, succeeded, "принято должно быть ровно одно предложение")

	// Остаток соответствует единственному победителю, перепродажи нет.
	updated, _, err := env.listings.GetByID(context.Background(), listing.ID)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, updated.AvailableQuantity, float64(0))
	assert.True(t, updated.AvailableQuantity == 3 || updated.AvailableQuantity == 5)
}

func TestOfferService_CancelAcceptedOffer_RestoresInventory(t *testing.T) {
	env := newTestEnv()
	farmerID := env.createFarmer(t, "рамеш")
	companyID := env.createCompany(t, "agro")
	adminID := uuid.New()
	listing := env.createListing(t, farmerID, 10, 80)
	offer := env.createOffer(t, companyID, listing.ID, 10, 80)

	_, err := env.offerSvc.AcceptOffer(context.Background(), farmerID, offer.ID)
	require.NoError(t, err)

	sold, _, err := env.listings.GetByID(context.Background(), listing.ID)
	require.NoError(t, err)
	require.Equal(t, models.ListingStatusSold, sold.Status)

	cancelled, err := env.offerSvc.CancelAcceptedOffer(context.Background(), adminID, offer.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OfferStatusCancelled, cancelled.Status)
	require.NotNil(t, cancelled.CancelledAt)

	// Остаток вернулся, объявление снова активно.
	restored, _, err := env.listings.GetByID(context.Background(), listing.ID)
	require.NoError(t, err)
	assert.Equal(t, float64(10), restored.AvailableQuantity)
	assert.Equal(t, models.ListingStatusActive, restored.Status)
}

func TestOfferService_CancelAcceptedOffer_RequiresAccepted(t *testing.T) {
	env := newTestEnv()
	farmerID := env.createFarmer(t, "рамеш")
	companyID := env.createCompany(t, "agro")
	adminID := uuid.New()
	listing := env.createListing(t, farmerID, 10, 80)
	offer := env.createOffer(t, companyID, listing.ID, 5, 80)

	// Pending предложение отменять нельзя: только принятые сделки.
	_, err := env.offerSvc.CancelAcceptedOffer(context.Background(), adminID, offer.ID)
	assert.True(t, apperror.IsInvalidTransition(err))

	// Остаток не изменился.
	updated, _, err := env.listings.GetByID(context.Background(), listing.ID)
	require.NoError(t, err)
	assert.Equal(t, float64(10), updated.AvailableQuantity)
}

func TestOfferService_AcceptedTotalsNeverExceedQuantity(t *testing.T) {
	env := newTestEnv()
	farmerID := env.createFarmer(t, "рамеш")
	listing := env.createListing(t, farmerID, 10, 80)

	// Последовательно принимаем 4+3, затем 5 уже не влезает.
	companies := []uuid.UUID{
		env.createCompany(t, "agro-a"),
		env.createCompany(t, "agro-b"),
		env.createCompany(t, "agro-c"),
	}
	quantities := []float64{4, 3, 5}

	acceptedTotal := 0.0
	for i, companyID := range companies {
		offer, err := env.offerSvc.CreateOffer(context.Background(), companyID, CreateOfferInput{
			ListingID:  listing.ID,
			Quantity:   quantities[i],
			PricePerKg: 80,
		})
		if err != nil {
			// Создание уже отсечено по остатку.
			continue
		}
		if _, err := env.offerSvc.AcceptOffer(context.Background(), farmerID, offer.ID); err == nil {
			acceptedTotal += quantities[i]
		}
	}

	updated, _, err := env.listings.GetByID(context.Background(), listing.ID)
	require.NoError(t, err)
	assert.LessOrEqual(t, acceptedTotal, updated.Quantity)
	assert.Equal(t, updated.Quantity-acceptedTotal, updated.AvailableQuantity)
}

func TestOfferService_ListForListing_OnlyOwner(t *testing.T) {
	env := newTestEnv()
	farmerID := env.createFarmer(t, "рамеш")
	strangerID := env.createFarmer(t, "чужой")
	companyID := env.createCompany(t, "agro")
	listing := env.createListing(t, farmerID, 10, 80)
	env.createOffer(t, companyID, listing.ID, 5, 80)

	offers, err := env.offerSvc.ListForListing(context.Background(), farmerID, listing.ID)
	require.NoError(t, err)
	assert.Len(t, offers, 1)

	_, err = env.offerSvc.ListForListing(context.Background(), strangerID, listing.ID)
	assert.True(t, apperror.IsForbidden(err))
}
