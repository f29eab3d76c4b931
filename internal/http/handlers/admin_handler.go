package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sydneykevadiya/groundnut-backend/internal/dto"
	"github.com/sydneykevadiya/groundnut-backend/internal/http/handlers/common"
	"github.com/sydneykevadiya/groundnut-backend/internal/service"
)

// AdminHandler — HTTP слой панели модерации.
// Все маршруты защищены middleware.RequireAdmin.
type AdminHandler struct {
	admin   *service.AdminService
	offers  *service.OfferService
	reports *service.ReportService
}

// NewAdminHandler создаёт хэндлер.
func NewAdminHandler(admin *service.AdminService, offers *service.OfferService, reports *service.ReportService) *AdminHandler {
	return &AdminHandler{admin: admin, offers: offers, reports: reports}
}

// ListUsers обрабатывает GET /admin/users.
func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.admin.ListUsers(c.Request.Context())
	if err != nil {
		common.RespondAppError(c, err)
		return
	}
	common.RespondJSON(c, http.StatusOK, users)
}

// DeleteUser обрабатывает DELETE /admin/users/:id.
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	userID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	if err := h.admin.DeleteUser(c.Request.Context(), userID); err != nil {
		common.RespondAppError(c, err)
		return
	}
	common.RespondSuccess(c, http.StatusOK, "пользователь удалён", nil)
}

// VerifyCompany обрабатывает PUT /admin/companies/:id/verify.
func (h *AdminHandler) VerifyCompany(c *gin.Context) {
	companyID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	var req dto.VerifyCompanyRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	company, err := h.admin.VerifyCompany(c.Request.Context(), companyID, req.Verified)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}
	common.RespondJSON(c, http.StatusOK, company)
}

// ListListings обрабатывает GET /admin/listings.
func (h *AdminHandler) ListListings(c *gin.Context) {
	listings, err := h.admin.ListListings(c.Request.Context())
	if err != nil {
		common.RespondAppError(c, err)
		return
	}
	common.RespondJSON(c, http.StatusOK, listings)
}

// DeleteListing обрабатывает DELETE /admin/listings/:id.
func (h *AdminHandler) DeleteListing(c *gin.Context) {
	listingID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	if err := h.admin.DeleteListing(c.Request.Context(), listingID); err != nil {
		common.RespondAppError(c, err)
		return
	}
	common.RespondSuccess(c, http.StatusOK, "объявление удалено", nil)
}

// ListOffers обрабатывает GET /admin/offers.
func (h *AdminHandler) ListOffers(c *gin.Context) {
	offers, err := h.admin.ListOffers(c.Request.Context())
	if err != nil {
		common.RespondAppError(c, err)
		return
	}
	common.RespondJSON(c, http.StatusOK, offers)
}

// CancelDeal обрабатывает POST /admin/offers/:id/cancel.
// Отменяет принятую сделку и возвращает остаток объявлению.
func (h *AdminHandler) CancelDeal(c *gin.Context) {
	adminID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	offerID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	offer, err := h.offers.CancelAcceptedOffer(c.Request.Context(), adminID, offerID)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}
	common.RespondJSON(c, http.StatusOK, offer)
}

// ListReports обрабатывает GET /admin/reports.
func (h *AdminHandler) ListReports(c *gin.Context) {
	reports, err := h.reports.ListAll(c.Request.Context())
	if err != nil {
		common.RespondAppError(c, err)
		return
	}
	common.RespondJSON(c, http.StatusOK, reports)
}

// ResolveReport обрабатывает PUT /admin/reports/:id/resolve.
func (h *AdminHandler) ResolveReport(c *gin.Context) {
	reportID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	var req dto.ResolveReportRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	report, err := h.reports.Resolve(c.Request.Context(), reportID, req.Action)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}
	common.RespondJSON(c, http.StatusOK, report)
}
