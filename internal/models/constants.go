package models

// Роли пользователей
const (
	RoleFarmer  = "farmer"
	RoleCompany = "company"
	RoleAdmin   = "admin"
)

// ListingStatus константы статусов объявлений
const (
	ListingStatusActive = "active"
	ListingStatusSold   = "sold"
	ListingStatusClosed = "closed"
)

// OfferStatus константы статусов предложений
const (
	OfferStatusPending   = "pending"
	OfferStatusAccepted  = "accepted"
	OfferStatusRejected  = "rejected"
	OfferStatusCancelled = "cancelled"
)

// ReportStatus константы статусов жалоб
const (
	ReportStatusPending   = "pending"
	ReportStatusResolved  = "resolved"
	ReportStatusDismissed = "dismissed"
)

// ValidListingStatuses список валидных статусов объявлений
var ValidListingStatuses = map[string]struct{}{
	ListingStatusActive: {},
	ListingStatusSold:   {},
	ListingStatusClosed: {},
}

// ValidOfferDecisions статусы, которые фермер может выставить предложению
var ValidOfferDecisions = map[string]struct{}{
	OfferStatusAccepted: {},
	OfferStatusRejected: {},
}

// ValidReportActions терминальные статусы жалоб, доступные администратору
var ValidReportActions = map[string]struct{}{
	ReportStatusResolved:  {},
	ReportStatusDismissed: {},
}

// ValidReportReasons фиксированный перечень причин жалоб
var ValidReportReasons = map[string]struct{}{
	"Fraudulent Activity":   {},
	"Fake Profile":          {},
	"Poor Quality Products": {},
	"Non-Payment":           {},
	"Harassment":            {},
	"Spam":                  {},
	"Other":                 {},
}
