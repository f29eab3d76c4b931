package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sydneykevadiya/groundnut-backend/internal/dto"
	"github.com/sydneykevadiya/groundnut-backend/internal/http/handlers/common"
	"github.com/sydneykevadiya/groundnut-backend/internal/service"
)

// ReportHandler — HTTP слой жалоб.
type ReportHandler struct {
	reports *service.ReportService
}

// NewReportHandler создаёт хэндлер.
func NewReportHandler(reports *service.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// Create обрабатывает POST /reports.
func (h *ReportHandler) Create(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	var req dto.CreateReportRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	reportedID, err := uuid.Parse(req.ReportedUserID)
	if err != nil {
		common.RespondBadRequest(c, "reportedUserId должен быть валидным UUID")
		return
	}

	report, err := h.reports.Create(c.Request.Context(), userID, service.CreateReportInput{
		ReportedUserID: reportedID,
		Reason:         req.Reason,
		Description:    req.Description,
	})
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	common.RespondJSON(c, http.StatusCreated, report)
}
