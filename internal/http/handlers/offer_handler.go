package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sydneykevadiya/groundnut-backend/internal/dto"
	"github.com/sydneykevadiya/groundnut-backend/internal/http/handlers/common"
	"github.com/sydneykevadiya/groundnut-backend/internal/models"
	"github.com/sydneykevadiya/groundnut-backend/internal/service"
)

// OfferHandler — HTTP слой предложений.
type OfferHandler struct {
	offers *service.OfferService
}

// NewOfferHandler создаёт хэндлер.
func NewOfferHandler(offers *service.OfferService) *OfferHandler {
	return &OfferHandler{offers: offers}
}

// Create обрабатывает POST /offers (только компания).
func (h *OfferHandler) Create(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	var req dto.CreateOfferRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	listingID, err := uuid.Parse(req.ListingID)
	if err != nil {
		common.RespondBadRequest(c, "listingId должен быть валидным UUID")
		return
	}

	offer, err := h.offers.CreateOffer(c.Request.Context(), userID, service.CreateOfferInput{
		ListingID:  listingID,
		Quantity:   req.Quantity,
		PricePerKg: req.PricePerKg,
	})
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	common.RespondJSON(c, http.StatusCreated, offer)
}

// Decide обрабатывает PUT /offers/:id/decision (только фермер).
// Тело {"decision": "accepted"} или {"decision": "rejected"}.
func (h *OfferHandler) Decide(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	offerID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	var req dto.OfferDecisionRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	var offer *models.Offer
	switch req.Decision {
	case models.OfferStatusAccepted:
		offer, err = h.offers.AcceptOffer(c.Request.Context(), userID, offerID)
	case models.OfferStatusRejected:
		offer, err = h.offers.RejectOffer(c.Request.Context(), userID, offerID)
	default:
		common.RespondBadRequest(c, "решение должно быть accepted или rejected")
		return
	}
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	common.RespondJSON(c, http.StatusOK, offer)
}
