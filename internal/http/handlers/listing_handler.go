package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sydneykevadiya/groundnut-backend/internal/dto"
	"github.com/sydneykevadiya/groundnut-backend/internal/http/handlers/common"
	"github.com/sydneykevadiya/groundnut-backend/internal/models"
	"github.com/sydneykevadiya/groundnut-backend/internal/service"
)

// ListingHandler — HTTP слой объявлений.
type ListingHandler struct {
	listings *service.ListingService
	offers   *service.OfferService
}

// NewListingHandler создаёт хэндлер.
func NewListingHandler(listings *service.ListingService, offers *service.OfferService) *ListingHandler {
	return &ListingHandler{listings: listings, offers: offers}
}

// Create обрабатывает POST /listings (только фермер).
func (h *ListingHandler) Create(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	var req dto.CreateListingRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	listing, err := h.listings.Create(c.Request.Context(), userID, service.CreateListingInput{
		Quantity:   req.Quantity,
		PricePerKg: req.PricePerKg,
		ImageURL:   req.ImageURL,
		Quality: models.QualityAssessment{
			Quality:    req.Quality.Quality,
			Grade:      req.Quality.Grade,
			Moisture:   req.Quality.Moisture,
			Color:      req.Quality.Color,
			Size:       req.Quality.Size,
			Defects:    req.Quality.Defects,
			Confidence: req.Quality.Confidence,
		},
	})
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	common.RespondJSON(c, http.StatusCreated, listing)
}

// ListActive обрабатывает GET /listings — витрина активных объявлений.
func (h *ListingHandler) ListActive(c *gin.Context) {
	listings, err := h.listings.GetActive(c.Request.Context())
	if err != nil {
		common.RespondAppError(c, err)
		return
	}
	common.RespondJSON(c, http.StatusOK, listings)
}

// ListMine обрабатывает GET /listings/my (только фермер).
func (h *ListingHandler) ListMine(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	listings, err := h.listings.GetMine(c.Request.Context(), userID)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}
	common.RespondJSON(c, http.StatusOK, listings)
}

// Get обрабатывает GET /listings/:id.
func (h *ListingHandler) Get(c *gin.Context) {
	listingID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	listing, err := h.listings.GetByID(c.Request.Context(), listingID)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}
	common.RespondJSON(c, http.StatusOK, listing)
}

// UpdateStatus обрабатывает PUT /listings/:id/status (только владелец).
func (h *ListingHandler) UpdateStatus(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	listingID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	var req dto.UpdateListingStatusRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	listing, err := h.listings.SetStatus(c.Request.Context(), userID, listingID, req.Status)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}
	common.RespondJSON(c, http.StatusOK, listing)
}

// ListOffers обрабатывает GET /listings/:id/offers (только владелец).
func (h *ListingHandler) ListOffers(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	listingID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	offers, err := h.offers.ListForListing(c.Request.Context(), userID, listingID)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}
	common.RespondJSON(c, http.StatusOK, offers)
}
