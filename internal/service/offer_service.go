package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/sydneykevadiya/groundnut-backend/internal/kv"
	"github.com/sydneykevadiya/groundnut-backend/internal/logger"
	"github.com/sydneykevadiya/groundnut-backend/internal/models"
	"github.com/sydneykevadiya/groundnut-backend/internal/pkg/apperror"
	"github.com/sydneykevadiya/groundnut-backend/internal/repository"
	"github.com/sydneykevadiya/groundnut-backend/internal/validation"
)

// Параметры повторов при конфликте версий записи объявления.
const (
	acceptRetryAttempts = 3
	acceptRetryBackoff  = 25 * time.Millisecond
)

// Notifier доставляет событие пользователю (WebSocket hub).
type Notifier interface {
	NotifyUser(userID uuid.UUID, event string, data interface{}) error
}

// listingLocks выдаёт мьютекс на объявление. Принятие предложения
// затрагивает несколько ключей хранилища без общей транзакции, поэтому
// решения по одному объявлению сериализуются внутри процесса.
type listingLocks struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

func newListingLocks() *listingLocks {
	return &listingLocks{locks: make(map[uuid.UUID]*sync.Mutex)}
}

func (l *listingLocks) get(listingID uuid.UUID) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()

	lock, ok := l.locks[listingID]
	if !ok {
		lock = &sync.Mutex{}
		l.locks[listingID] = lock
	}
	return lock
}

// OfferService реализует жизненный цикл предложений:
// pending -> accepted | rejected | cancelled, accepted -> cancelled (админ).
type OfferService struct {
	offers   *repository.OfferRepository
	listings *repository.ListingRepository
	profiles *repository.ProfileRepository
	locks    *listingLocks
	hub      Notifier
}

func NewOfferService(offers *repository.OfferRepository, listings *repository.ListingRepository, profiles *repository.ProfileRepository) *OfferService {
	return &OfferService{
		offers:   offers,
		listings: listings,
		profiles: profiles,
		locks:    newListingLocks(),
	}
}

// SetHub подключает доставку уведомлений. Без hub сервис работает молча.
func (s *OfferService) SetHub(hub Notifier) {
	s.hub = hub
}

// CreateOfferInput — параметры нового предложения.
type CreateOfferInput struct {
	ListingID  uuid.UUID
	Quantity   float64
	PricePerKg float64
}

// CreateOffer создаёт предложение компании по активному объявлению.
// Остаток объявления при этом не резервируется: несколько pending
// предложений могут в сумме превышать остаток, принято будет одно.
func (s *OfferService) CreateOffer(ctx context.Context, companyID uuid.UUID, in CreateOfferInput) (*models.Offer, error) {
	if err := validation.ValidateQuantity(in.Quantity); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInvalidInput, err.Error())
	}
	if err := validation.ValidatePrice(in.PricePerKg); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInvalidInput, err.Error())
	}

	listing, _, err := s.listings.GetByID(ctx, in.ListingID)
	if apperror.IsNotFound(err) {
		return nil, apperror.ErrListingUnavailable
	}
	if err != nil {
		return nil, err
	}
	if listing.Status != models.ListingStatusActive {
		return nil, apperror.ErrListingUnavailable
	}
	if in.Quantity > listing.AvailableQuantity {
		return nil, apperror.ErrQuantityExceeded
	}

	company, err := s.profiles.GetCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}

	offer := &models.Offer{
		ID:              uuid.New(),
		ListingID:       listing.ID,
		CompanyID:       companyID,
		CompanyName:     company.CompanyName,
		CompanyLocation: company.Address,
		FarmerID:        listing.FarmerID,
		FarmerName:      listing.FarmerName,
		Quantity:        in.Quantity,
		PricePerKg:      in.PricePerKg,
		// Сумма фиксируется при создании: последующие изменения цены
		// объявления не пересчитывают существующие предложения.
		TotalAmount: in.Quantity * in.PricePerKg * models.TonnesToKg,
		Status:      models.OfferStatusPending,
		CreatedAt:   time.Now(),
	}

	if err := s.offers.Create(ctx, offer); err != nil {
		return nil, err
	}

	s.notify(listing.FarmerID, "offers.new", offer)
	return offer, nil
}

// ListForListing возвращает предложения по объявлению.
// Видит их только фермер-владелец объявления.
func (s *OfferService) ListForListing(ctx context.Context, userID, listingID uuid.UUID) ([]models.Offer, error) {
	listing, _, err := s.listings.GetByID(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if listing.FarmerID != userID {
		return nil, apperror.ErrForbidden
	}
	return s.offers.ListByListing(ctx, listingID)
}

// AcceptOffer принимает предложение от имени фермера-владельца.
// Четыре шага (перепроверка остатка, принятие с обменом контактами,
// списание остатка, автоотклонение конкурентов) выполняются под
// мьютексом объявления; списание идёт условной записью с повторами.
func (s *OfferService) AcceptOffer(ctx context.Context, farmerID, offerID uuid.UUID) (*models.Offer, error) {
	offer, err := s.offers.GetByID(ctx, offerID)
	if err != nil {
		return nil, err
	}
	if offer.FarmerID != farmerID {
		return nil, apperror.ErrForbidden
	}
	if offer.Status != models.OfferStatusPending {
		return nil, apperror.ErrInvalidTransition
	}

	lock := s.locks.get(offer.ListingID)
	lock.Lock()
	defer lock.Unlock()

	// Пока ждали мьютекс, предложение могло быть автоотклонено
	// принятием конкурента. Перечитываем и перепроверяем статус.
	offer, err = s.offers.GetByID(ctx, offerID)
	if err != nil {
		return nil, err
	}
	if offer.Status != models.OfferStatusPending {
		return nil, apperror.ErrInvalidTransition
	}

	if _, err := s.reserveInventory(ctx, offer.ListingID, offer.Quantity); err != nil {
		return nil, err
	}

	// Остаток списан: дальнейшие шаги фиксируют решение.
	now := time.Now()
	offer.Status = models.OfferStatusAccepted
	offer.StatusChangedAt = &now
	s.attachContacts(ctx, offer)

	if err := s.offers.Save(ctx, offer); err != nil {
		// Возвращаем списанный остаток, чтобы не потерять инвентарь.
		s.restoreInventory(ctx, offer.ListingID, offer.Quantity)
		return nil, err
	}

	s.rejectCompeting(ctx, offer)

	s.notify(offer.CompanyID, "offers.accepted", offer)
	return offer, nil
}

// RejectOffer отклоняет pending предложение от имени фермера-владельца.
func (s *OfferService) RejectOffer(ctx context.Context, farmerID, offerID uuid.UUID) (*models.Offer, error) {
	offer, err := s.offers.GetByID(ctx, offerID)
	if err != nil {
		return nil, err
	}
	if offer.FarmerID != farmerID {
		return nil, apperror.ErrForbidden
	}
	if offer.Status != models.OfferStatusPending {
		return nil, apperror.ErrInvalidTransition
	}

	now := time.Now()
	offer.Status = models.OfferStatusRejected
	offer.StatusChangedAt = &now
	if err := s.offers.Save(ctx, offer); err != nil {
		return nil, err
	}

	s.notify(offer.CompanyID, "offers.rejected", offer)
	return offer, nil
}

// CancelAcceptedOffer отменяет принятую сделку (только администратор).
// Возвращает остаток объявлению; sold объявление снова становится active.
func (s *OfferService) CancelAcceptedOffer(ctx context.Context, adminID, offerID uuid.UUID) (*models.Offer, error) {
	offer, err := s.offers.GetByID(ctx, offerID)
	if err != nil {
		return nil, err
	}
	if offer.Status != models.OfferStatusAccepted {
		return nil, apperror.ErrInvalidTransition
	}

	lock := s.locks.get(offer.ListingID)
	lock.Lock()
	defer lock.Unlock()

	if err := s.restoreInventory(ctx, offer.ListingID, offer.Quantity); err != nil {
		return nil, err
	}

	now := time.Now()
	offer.Status = models.OfferStatusCancelled
	offer.CancelledAt = &now
	offer.StatusChangedAt = &now
	if err := s.offers.Save(ctx, offer); err != nil {
		return nil, err
	}

	logger.WithComponent("offer_service").WithFields(logrus.Fields{
		"offer_id": offer.ID,
		"admin_id": adminID,
	}).Info("сделка отменена администратором")

	s.notify(offer.CompanyID, "offers.cancelled", offer)
	s.notify(offer.FarmerID, "offers.cancelled", offer)
	return offer, nil
}

// reserveInventory списывает quantity с остатка объявления.
// При конфликте версий повторяет решение целиком; после исчерпания
// попыток возвращает CONFLICT_RETRY.
func (s *OfferService) reserveInventory(ctx context.Context, listingID uuid.UUID, quantity float64) (*models.Listing, error) {
	for attempt := 0; attempt < acceptRetryAttempts; attempt++ {
		listing, _, err := s.listings.GetByID(ctx, listingID)
		if err != nil {
			return nil, err
		}
		if quantity > listing.AvailableQuantity {
			return nil, apperror.ErrQuantityExceeded
		}

		updated, err := s.listings.AdjustAvailableQuantity(ctx, listingID, -quantity)
		if errors.Is(err, kv.ErrVersionConflict) {
			time.Sleep(acceptRetryBackoff << attempt)
			continue
		}
		if err != nil {
			return nil, err
		}
		return updated, nil
	}
	return nil, apperror.ErrConflictRetry
}

// restoreInventory возвращает quantity объявлению, с теми же повторами.
func (s *OfferService) restoreInventory(ctx context.Context, listingID uuid.UUID, quantity float64) error {
	for attempt := 0; attempt < acceptRetryAttempts; attempt++ {
		_, err := s.listings.AdjustAvailableQuantity(ctx, listingID, quantity)
		if errors.Is(err, kv.ErrVersionConflict) {
			time.Sleep(acceptRetryBackoff << attempt)
			continue
		}
		if err != nil {
			logger.WithComponent("offer_service").WithField("listing_id", listingID).
				Errorf("не удалось вернуть остаток: %v", err)
		}
		return err
	}
	return apperror.ErrConflictRetry
}

// rejectCompeting переводит все остальные pending предложения по тому же
// объявлению в rejected. Уже accepted/rejected предложения не трогаются.
func (s *OfferService) rejectCompeting(ctx context.Context, accepted *models.Offer) {
	siblings, err := s.offers.ListByListing(ctx, accepted.ListingID)
	if err != nil {
		logger.WithComponent("offer_service").WithField("listing_id", accepted.ListingID).
			Warnf("не удалось получить конкурирующие предложения: %v", err)
		return
	}

	now := time.Now()
	for i := range siblings {
		sibling := &siblings[i]
		if sibling.ID == accepted.ID || sibling.Status != models.OfferStatusPending {
			continue
		}
		sibling.Status = models.OfferStatusRejected
		sibling.StatusChangedAt = &now
		if err := s.offers.Save(ctx, sibling); err != nil {
			logger.WithComponent("offer_service").WithField("offer_id", sibling.ID).
				Warnf("не удалось отклонить конкурирующее предложение: %v", err)
			continue
		}
		s.notify(sibling.CompanyID, "offers.rejected", sibling)
	}
}

// attachContacts снимает контакты сторон в момент принятия.
// Снимок сохраняет исторические данные даже после изменения профилей.
func (s *OfferService) attachContacts(ctx context.Context, offer *models.Offer) {
	if farmer, err := s.profiles.GetFarmer(ctx, offer.FarmerID); err == nil {
		offer.FarmerContact = &models.Contact{
			Name:     farmer.Name,
			Phone:    farmer.Phone,
			Email:    farmer.Email,
			Location: farmer.Address + ", " + farmer.Region,
		}
	}
	if company, err := s.profiles.GetCompany(ctx, offer.CompanyID); err == nil {
		offer.CompanyContact = &models.Contact{
			Name:     company.ContactPerson,
			Phone:    company.Phone,
			Email:    company.Email,
			Location: company.Address,
		}
	}
}

func (s *OfferService) notify(userID uuid.UUID, event string, data interface{}) {
	if s.hub == nil {
		return
	}
	if err := s.hub.NotifyUser(userID, event, data); err != nil {
		logger.WithComponent("offer_service").WithField("user_id", userID).
			Debugf("уведомление не доставлено: %v", err)
	}
}
