package repository

import (
	"context"
	"errors"
	"sort"

	"github.com/google/uuid"

	"github.com/sydneykevadiya/groundnut-backend/internal/kv"
	"github.com/sydneykevadiya/groundnut-backend/internal/models"
	"github.com/sydneykevadiya/groundnut-backend/internal/pkg/apperror"
)

// ReportRepository хранит жалобы пользователей.
type ReportRepository struct {
	store kv.Store
}

func NewReportRepository(store kv.Store) *ReportRepository {
	return &ReportRepository{store: store}
}

func (r *ReportRepository) Create(ctx context.Context, report *models.Report) error {
	return setJSON(ctx, r.store, reportKey(report.ID), report)
}

func (r *ReportRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Report, error) {
	var report models.Report
	_, err := getJSON(ctx, r.store, reportKey(id), &report)
	if errors.Is(err, kv.ErrKeyNotFound) {
		return nil, apperror.ErrReportNotFound
	}
	if err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *ReportRepository) Save(ctx context.Context, report *models.Report) error {
	return setJSON(ctx, r.store, reportKey(report.ID), report)
}

// ListAll возвращает все жалобы, новые первыми.
func (r *ReportRepository) ListAll(ctx context.Context) ([]models.Report, error) {
	entries, err := r.store.GetByPrefix(ctx, prefixReport)
	if err != nil {
		return nil, err
	}

	reports := make([]models.Report, 0, len(entries))
	for _, entry := range entries {
		var report models.Report
		if _, err := getJSON(ctx, r.store, entry.Key, &report); err != nil {
			continue
		}
		reports = append(reports, report)
	}

	sort.Slice(reports, func(i, j int) bool {
		return reports[i].CreatedAt.After(reports[j].CreatedAt)
	})
	return reports, nil
}
