package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/sydneykevadiya/groundnut-backend/internal/models"
	"github.com/sydneykevadiya/groundnut-backend/internal/pkg/apperror"
	"github.com/sydneykevadiya/groundnut-backend/internal/repository"
	"github.com/sydneykevadiya/groundnut-backend/internal/validation"
)

// ReportService управляет жалобами пользователей друг на друга.
type ReportService struct {
	reports  *repository.ReportRepository
	profiles *repository.ProfileRepository
}

func NewReportService(reports *repository.ReportRepository, profiles *repository.ProfileRepository) *ReportService {
	return &ReportService{reports: reports, profiles: profiles}
}

// CreateReportInput — параметры новой жалобы.
type CreateReportInput struct {
	ReportedUserID uuid.UUID
	Reason         string
	Description    string
}

// Create регистрирует жалобу. Причина — строго из списка допустимых,
// имя и тип нарушителя снимаются с его профиля в момент подачи.
func (s *ReportService) Create(ctx context.Context, reporterID uuid.UUID, in CreateReportInput) (*models.Report, error) {
	if reporterID == in.ReportedUserID {
		return nil, apperror.New(apperror.ErrCodeInvalidInput, "нельзя пожаловаться на самого себя")
	}

	if _, ok := models.ValidReportReasons[in.Reason]; !ok {
		return nil, apperror.New(apperror.ErrCodeInvalidInput, "недопустимая причина жалобы")
	}

	if err := validation.ValidateLength("описание", in.Description, 0, validation.MaxDescriptionLength); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInvalidInput, err.Error())
	}

	reportedName, reportedType, err := s.resolveReportedUser(ctx, in.ReportedUserID)
	if err != nil {
		return nil, err
	}

	report := &models.Report{
		ID:               uuid.New(),
		ReporterID:       reporterID,
		ReportedUserID:   in.ReportedUserID,
		ReportedUserName: reportedName,
		ReportedUserType: reportedType,
		Reason:           in.Reason,
		Description:      in.Description,
		Status:           models.ReportStatusPending,
		CreatedAt:        time.Now(),
	}

	if err := s.reports.Create(ctx, report); err != nil {
		return nil, err
	}
	return report, nil
}

// ListAll возвращает все жалобы (админ-панель).
func (s *ReportService) ListAll(ctx context.Context) ([]models.Report, error) {
	return s.reports.ListAll(ctx)
}

// Resolve закрывает жалобу решением resolved или dismissed.
// Повторное решение по уже закрытой жалобе отклоняется.
func (s *ReportService) Resolve(ctx context.Context, reportID uuid.UUID, action string) (*models.Report, error) {
	if _, ok := models.ValidReportActions[action]; !ok {
		return nil, apperror.New(apperror.ErrCodeInvalidInput, "недопустимое решение по жалобе")
	}

	report, err := s.reports.GetByID(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if report.Status != models.ReportStatusPending {
		return nil, apperror.ErrInvalidTransition
	}

	now := time.Now()
	report.Status = action
	report.ResolvedAt = &now
	if err := s.reports.Save(ctx, report); err != nil {
		return nil, err
	}
	return report, nil
}

// resolveReportedUser находит имя и тип пользователя, на которого жалуются.
func (s *ReportService) resolveReportedUser(ctx context.Context, userID uuid.UUID) (string, string, error) {
	if farmer, err := s.profiles.GetFarmer(ctx, userID); err == nil {
		return farmer.Name, models.RoleFarmer, nil
	}
	if company, err := s.profiles.GetCompany(ctx, userID); err == nil {
		return company.CompanyName, models.RoleCompany, nil
	}
	return "", "", apperror.ErrProfileNotFound
}
