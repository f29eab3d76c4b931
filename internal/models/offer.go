package models

import (
	"time"

	"github.com/google/uuid"
)

// Offer описывает предложение компании по конкретному объявлению.
// CompanyName/CompanyLocation и FarmerID/FarmerName фиксируются при
// создании; TotalAmount замораживается и не пересчитывается при
// последующих изменениях цены объявления.
type Offer struct {
	ID              uuid.UUID `json:"id"`
	ListingID       uuid.UUID `json:"listingId"`
	CompanyID       uuid.UUID `json:"companyId"`
	CompanyName     string    `json:"companyName"`
	CompanyLocation string    `json:"companyLocation"`
	FarmerID        uuid.UUID `json:"farmerId"`
	FarmerName      string    `json:"farmerName"`

	Quantity    float64 `json:"quantity"`
	PricePerKg  float64 `json:"pricePerKg"`
	TotalAmount float64 `json:"totalAmount"`

	Status string `json:"status"`

	// Контакты заполняются только после принятия предложения.
	FarmerContact  *Contact `json:"farmerContact,omitempty"`
	CompanyContact *Contact `json:"companyContact,omitempty"`

	CreatedAt       time.Time  `json:"createdAt"`
	StatusChangedAt *time.Time `json:"statusChangedAt,omitempty"`
	CancelledAt     *time.Time `json:"cancelledAt,omitempty"`
}
