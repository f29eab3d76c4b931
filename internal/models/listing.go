package models

import (
	"time"

	"github.com/google/uuid"
)

// TonnesToKg — коэффициент пересчёта тонн в килограммы.
// Количество в объявлениях и предложениях указывается в тоннах,
// цена — за килограмм, поэтому суммы считаются как q * price * 1000.
const TonnesToKg = 1000

// Listing описывает объявление фермера о продаже партии арахиса.
// Поля качества приходят из внешнего шага оценки и хранятся как есть.
type Listing struct {
	ID             uuid.UUID `json:"id"`
	FarmerID       uuid.UUID `json:"farmerId"`
	FarmerName     string    `json:"farmerName"`
	FarmerLocation string    `json:"farmerLocation"`
	ImageURL       string    `json:"imageUrl,omitempty"`

	Quality    string  `json:"quality"`
	Grade      string  `json:"grade"`
	Moisture   string  `json:"moisture"`
	Color      string  `json:"color"`
	Size       string  `json:"size"`
	Defects    string  `json:"defects"`
	Confidence float64 `json:"confidence,omitempty"`

	// Quantity — исходный объём в тоннах, AvailableQuantity — остаток,
	// не зарезервированный принятыми предложениями.
	Quantity          float64 `json:"quantity"`
	AvailableQuantity float64 `json:"availableQuantity"`
	PricePerKg        float64 `json:"pricePerKg"`
	TotalValue        float64 `json:"totalValue"`

	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// QualityAssessment — результат внешней оценки качества партии.
type QualityAssessment struct {
	Quality    string  `json:"quality"`
	Grade      string  `json:"grade"`
	Moisture   string  `json:"moisture"`
	Color      string  `json:"color"`
	Size       string  `json:"size"`
	Defects    string  `json:"defects"`
	Confidence float64 `json:"confidence"`
}
