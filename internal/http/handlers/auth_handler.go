package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sydneykevadiya/groundnut-backend/internal/dto"
	"github.com/sydneykevadiya/groundnut-backend/internal/http/handlers/common"
	"github.com/sydneykevadiya/groundnut-backend/internal/service"
)

// AuthHandler — HTTP слой регистрации, входа и подтверждения контактов.
type AuthHandler struct {
	auth *service.AuthService
	otp  *service.OtpService
}

// NewAuthHandler создаёт хэндлер.
func NewAuthHandler(auth *service.AuthService, otp *service.OtpService) *AuthHandler {
	return &AuthHandler{auth: auth, otp: otp}
}

// RegisterFarmer обрабатывает POST /auth/register/farmer.
func (h *AuthHandler) RegisterFarmer(c *gin.Context) {
	var req dto.RegisterFarmerRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	result, err := h.auth.RegisterFarmer(c.Request.Context(), service.RegisterFarmerInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Phone:    req.Phone,
		Aadhaar:  req.Aadhaar,
		Pincode:  req.Pincode,
		Region:   req.Region,
		Address:  req.Address,
	})
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	common.RespondJSON(c, http.StatusCreated, result)
}

// RegisterCompany обрабатывает POST /auth/register/company.
func (h *AuthHandler) RegisterCompany(c *gin.Context) {
	var req dto.RegisterCompanyRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	result, err := h.auth.RegisterCompany(c.Request.Context(), service.RegisterCompanyInput{
		Email:              req.Email,
		Password:           req.Password,
		CompanyName:        req.CompanyName,
		RegistrationNumber: req.RegistrationNumber,
		GSTNumber:          req.GSTNumber,
		ContactPerson:      req.ContactPerson,
		Phone:              req.Phone,
		Address:            req.Address,
	})
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	common.RespondJSON(c, http.StatusCreated, result)
}

// Login обрабатывает POST /auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	result, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	common.RespondJSON(c, http.StatusOK, result)
}

// Refresh обрабатывает POST /auth/refresh.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	result, err := h.auth.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	common.RespondJSON(c, http.StatusOK, result)
}

// Logout обрабатывает POST /auth/logout.
func (h *AuthHandler) Logout(c *gin.Context) {
	var req dto.RefreshRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	if err := h.auth.Logout(c.Request.Context(), req.RefreshToken); err != nil {
		common.RespondAppError(c, err)
		return
	}

	common.RespondSuccess(c, http.StatusOK, "выход выполнен", nil)
}

// Profile обрабатывает GET /auth/profile.
func (h *AuthHandler) Profile(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}
	role, err := common.CurrentUserRole(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	profile, err := h.auth.Profile(c.Request.Context(), userID, role)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	common.RespondJSON(c, http.StatusOK, profile)
}

// SendOTP обрабатывает POST /auth/otp/send.
func (h *AuthHandler) SendOTP(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	var req dto.SendOTPRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	if err := h.otp.SendVerification(c.Request.Context(), userID, req.Type); err != nil {
		common.RespondAppError(c, err)
		return
	}

	common.RespondSuccess(c, http.StatusOK, "код отправлен", nil)
}

// VerifyOTP обрабатывает POST /auth/otp/verify.
func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	var req dto.VerifyOTPRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	if err := h.otp.VerifyOTP(c.Request.Context(), userID, req.Type, req.Code); err != nil {
		common.RespondAppError(c, err)
		return
	}

	common.RespondSuccess(c, http.StatusOK, "подтверждено", nil)
}

// ForgotPassword обрабатывает POST /auth/forgot-password.
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req dto.ForgotPasswordRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	if err := h.otp.SendResetOTP(c.Request.Context(), req.Identifier); err != nil {
		common.RespondAppError(c, err)
		return
	}

	common.RespondSuccess(c, http.StatusOK, "если пользователь существует, код отправлен", nil)
}

// VerifyResetOTP обрабатывает POST /auth/forgot-password/verify.
func (h *AuthHandler) VerifyResetOTP(c *gin.Context) {
	var req dto.VerifyResetOTPRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	if err := h.otp.VerifyResetOTP(c.Request.Context(), req.Identifier, req.Code); err != nil {
		common.RespondAppError(c, err)
		return
	}

	common.RespondSuccess(c, http.StatusOK, "код верен", nil)
}

// ResetPassword обрабатывает POST /auth/reset-password.
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req dto.ResetPasswordRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	if err := h.otp.ResetPassword(c.Request.Context(), req.Identifier, req.Code, req.NewPassword); err != nil {
		common.RespondAppError(c, err)
		return
	}

	common.RespondSuccess(c, http.StatusOK, "пароль обновлён", nil)
}
