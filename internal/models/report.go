package models

import (
	"time"

	"github.com/google/uuid"
)

// Report — жалоба одного пользователя на другого (ключ report:<id>).
type Report struct {
	ID               uuid.UUID  `json:"id"`
	ReporterID       uuid.UUID  `json:"reporterId"`
	ReportedUserID   uuid.UUID  `json:"reportedUserId"`
	ReportedUserName string     `json:"reportedUserName"`
	ReportedUserType string     `json:"reportedUserType"`
	Reason           string     `json:"reason"`
	Description      string     `json:"description"`
	Status           string     `json:"status"`
	ResolvedAt       *time.Time `json:"resolvedAt,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
}
