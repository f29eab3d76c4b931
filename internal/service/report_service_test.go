package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sydneykevadiya/groundnut-backend/internal/models"
	"github.com/sydneykevadiya/groundnut-backend/internal/pkg/apperror"
)

func TestReportService_Create(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	farmerID := env.createFarmer(t, "рамеш")
	companyID := env.createCompany(t, "agro")

	report, err := env.reportSvc.Create(ctx, farmerID, CreateReportInput{
		ReportedUserID: companyID,
		Reason:         "Non-Payment",
		Description:    "не оплатили партию",
	})
	require.NoError(t, err)

	assert.Equal(t, models.ReportStatusPending, report.Status)
	// Имя и тип нарушителя снимаются с профиля.
	assert.Equal(t, "agro", report.ReportedUserName)
	assert.Equal(t, models.RoleCompany, report.ReportedUserType)
	assert.Nil(t, report.ResolvedAt)
}

func TestReportService_Create_InvalidReason(t *testing.T) {
	env := newTestEnv()
	farmerID := env.createFarmer(t, "рамеш")
	companyID := env.createCompany(t, "agro")

	_, err := env.reportSvc.Create(context.Background(), farmerID, CreateReportInput{
		ReportedUserID: companyID,
		Reason:         "Просто не нравится",
	})
	appErr := apperror.AsAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperror.ErrCodeInvalidInput, appErr.Code)
}

func TestReportService_Create_SelfReport(t *testing.T) {
	env := newTestEnv()
	farmerID := env.createFarmer(t, "рамеш")

	_, err := env.reportSvc.Create(context.Background(), farmerID, CreateReportInput{
		ReportedUserID: farmerID,
		Reason:         "Spam",
	})
	appErr := apperror.AsAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperror.ErrCodeInvalidInput, appErr.Code)
}

func TestReportService_Create_UnknownUser(t *testing.T) {
	env := newTestEnv()
	farmerID := env.createFarmer(t, "рамеш")

	_, err := env.reportSvc.Create(context.Background(), farmerID, CreateReportInput{
		ReportedUserID: uuid.New(),
		Reason:         "Spam",
	})
	assert.True(t, apperror.IsNotFound(err))
}

func TestReportService_Resolve(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	farmerID := env.createFarmer(t, "рамеш")
	companyID := env.createCompany(t, "agro")

	report, err := env.reportSvc.Create(ctx, farmerID, CreateReportInput{
		ReportedUserID: companyID,
		Reason:         "Harassment",
	})
	require.NoError(t, err)

	resolved, err := env.reportSvc.Resolve(ctx, report.ID, models.ReportStatusResolved)
	require.NoError(t, err)
	assert.Equal(t, models.ReportStatusResolved, resolved.Status)
	require.NotNil(t, resolved.ResolvedAt)

	// Повторное решение по закрытой жалобе невозможно.
	_, err = env.reportSvc.Resolve(ctx, report.ID, models.ReportStatusDismissed)
	assert.True(t, apperror.IsInvalidTransition(err))
}

func TestReportService_Resolve_InvalidAction(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	farmerID := env.createFarmer(t, "рамеш")
	companyID := env.createCompany(t, "agro")

	report, err := env.reportSvc.Create(ctx, farmerID, CreateReportInput{
		ReportedUserID: companyID,
		Reason:         "Other",
	})
	require.NoError(t, err)

	// pending не является терминальным решением.
	_, err = env.reportSvc.Resolve(ctx, report.ID, models.ReportStatusPending)
	appErr := apperror.AsAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperror.ErrCodeInvalidInput, appErr.Code)
}
