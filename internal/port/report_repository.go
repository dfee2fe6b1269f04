package port

import (
	"context"

	"github.com/google/uuid"

	"invoiceqc/internal/domain"
)

// ReportRepository stores and retrieves validation reports.
type ReportRepository interface {
	Save(ctx context.Context, report *domain.Report) (*domain.StoredReport, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.StoredReport, error)
	List(ctx context.Context, limit, offset int) ([]domain.StoredReport, int, error)
}
