package models

import (
	"time"

	"github.com/google/uuid"
)

// Credentials хранит учётные данные пользователя (ключ cred:<email>).
type Credentials struct {
	UserID       uuid.UUID `json:"userId"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"passwordHash"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}

// FarmerProfile описывает профиль фермера (ключ farmer:<id>).
type FarmerProfile struct {
	ID            uuid.UUID `json:"id"`
	Email         string    `json:"email"`
	Name          string    `json:"name"`
	Phone         string    `json:"phone"`
	Aadhaar       string    `json:"aadhaar"`
	Pincode       string    `json:"pincode"`
	Region        string    `json:"region"`
	Address       string    `json:"address"`
	UserType      string    `json:"userType"`
	PhoneVerified bool      `json:"phoneVerified"`
	EmailVerified bool      `json:"emailVerified"`
	CreatedAt     time.Time `json:"createdAt"`
}

// CompanyProfile описывает профиль компании-закупщика (ключ company:<id>).
// Verified выставляется администратором вручную и при создании всегда false.
type CompanyProfile struct {
	ID                 uuid.UUID `json:"id"`
	Email              string    `json:"email"`
	CompanyName        string    `json:"companyName"`
	RegistrationNumber string    `json:"registrationNumber"`
	GSTNumber          string    `json:"gstNumber"`
	ContactPerson      string    `json:"contactPerson"`
	Phone              string    `json:"phone"`
	Address            string    `json:"address"`
	UserType           string    `json:"userType"`
	Verified           bool      `json:"verified"`
	CreatedAt          time.Time `json:"createdAt"`
}

// Contact — контактные данные, раскрываемые сторонам после принятия
// предложения. Снимок на момент принятия, без повторного join к профилю.
type Contact struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	Location string `json:"location"`
}

// Session хранит refresh-сессию (ключ session:<jti>).
type Session struct {
	UserID       uuid.UUID `json:"userId"`
	Role         string    `json:"role"`
	RefreshToken string    `json:"refreshToken"`
	ExpiresAt    time.Time `json:"expiresAt"`
	CreatedAt    time.Time `json:"createdAt"`
}
