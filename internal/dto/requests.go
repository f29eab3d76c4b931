package dto

// Тела запросов API. Имена полей следуют контракту фронтенда (camelCase).

// RegisterFarmerRequest — регистрация фермера.
type RegisterFarmerRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Phone    string `json:"phone" binding:"required"`
	Aadhaar  string `json:"aadhaar" binding:"required"`
	Pincode  string `json:"pincode" binding:"required"`
	Region   string `json:"region"`
	Address  string `json:"address"`
}

// RegisterCompanyRequest — регистрация компании-закупщика.
type RegisterCompanyRequest struct {
	Email              string `json:"email" binding:"required"`
	Password           string `json:"password" binding:"required"`
	CompanyName        string `json:"companyName" binding:"required"`
	RegistrationNumber string `json:"registrationNumber"`
	GSTNumber          string `json:"gstNumber"`
	ContactPerson      string `json:"contactPerson"`
	Phone              string `json:"phone" binding:"required"`
	Address            string `json:"address"`
}

// LoginRequest — вход по email и паролю.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest — обновление пары токенов.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// SendOTPRequest — запрос кода подтверждения телефона или email.
type SendOTPRequest struct {
	Type string `json:"type" binding:"required"`
}

// VerifyOTPRequest — проверка кода подтверждения.
type VerifyOTPRequest struct {
	Type string `json:"type" binding:"required"`
	Code string `json:"code" binding:"required"`
}

// ForgotPasswordRequest — запрос кода восстановления пароля.
// Identifier — email или телефон.
type ForgotPasswordRequest struct {
	Identifier string `json:"identifier" binding:"required"`
}

// VerifyResetOTPRequest — проверка кода восстановления.
type VerifyResetOTPRequest struct {
	Identifier string `json:"identifier" binding:"required"`
	Code       string `json:"code" binding:"required"`
}

// ResetPasswordRequest — установка нового пароля по коду.
type ResetPasswordRequest struct {
	Identifier  string `json:"identifier" binding:"required"`
	Code        string `json:"code" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required"`
}

// CreateListingRequest — публикация объявления.
type CreateListingRequest struct {
	Quantity   float64        `json:"quantity" binding:"required"`
	PricePerKg float64        `json:"pricePerKg" binding:"required"`
	ImageURL   string         `json:"imageUrl"`
	Quality    QualityPayload `json:"quality"`
}

// QualityPayload — результат внешней оценки качества.
type QualityPayload struct {
	Quality    string  `json:"quality"`
	Grade      string  `json:"grade"`
	Moisture   string  `json:"moisture"`
	Color      string  `json:"color"`
	Size       string  `json:"size"`
	Defects    string  `json:"defects"`
	Confidence float64 `json:"confidence"`
}

// UpdateListingStatusRequest — ручная смена статуса объявления.
type UpdateListingStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// CreateOfferRequest — новое предложение компании.
type CreateOfferRequest struct {
	ListingID  string  `json:"listingId" binding:"required"`
	Quantity   float64 `json:"quantity" binding:"required"`
	PricePerKg float64 `json:"pricePerKg" binding:"required"`
}

// OfferDecisionRequest — решение фермера по предложению.
type OfferDecisionRequest struct {
	Decision string `json:"decision" binding:"required"`
}

// CreateReportRequest — жалоба на пользователя.
type CreateReportRequest struct {
	ReportedUserID string `json:"reportedUserId" binding:"required"`
	Reason         string `json:"reason" binding:"required"`
	Description    string `json:"description"`
}

// ResolveReportRequest — решение администратора по жалобе.
type ResolveReportRequest struct {
	Action string `json:"action" binding:"required"`
}

// VerifyCompanyRequest — смена флага проверки компании.
type VerifyCompanyRequest struct {
	Verified bool `json:"verified"`
}
