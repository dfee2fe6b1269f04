package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"invoiceqc/internal/domain"
	"invoiceqc/internal/port"
)

type reportRepo struct {
	db *sqlx.DB
}

// NewReportRepo creates a new PostgreSQL-backed ReportRepository.
func NewReportRepo(db *sqlx.DB) port.ReportRepository {
	return &reportRepo{db: db}
}

func (r *reportRepo) Save(ctx context.Context, report *domain.Report) (*domain.StoredReport, error) {
	payload, err := json.Marshal(report)
	if err != nil {
		return nil, fmt.Errorf("reportRepo.Save marshal: %w", err)
	}

	stored := &domain.StoredReport{}
	query := `INSERT INTO validation_reports (id, total_invoices, valid_invoices, invalid_invoices, payload)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, total_invoices, valid_invoices, invalid_invoices, payload, created_at`
	err = r.db.GetContext(ctx, stored, query,
		uuid.New(),
		report.Summary.TotalInvoices,
		report.Summary.ValidInvoices,
		report.Summary.InvalidInvoices,
		payload,
	)
	if err != nil {
		return nil, fmt.Errorf("reportRepo.Save insert: %w", err)
	}
	return stored, nil
}

func (r *reportRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.StoredReport, error) {
	stored := &domain.StoredReport{}
	query := `SELECT id, total_invoices, valid_invoices, invalid_invoices, payload, created_at
		FROM validation_reports WHERE id = $1`
	if err := r.db.GetContext(ctx, stored, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrReportNotFound
		}
		return nil, fmt.Errorf("reportRepo.GetByID: %w", err)
	}
	return stored, nil
}

func (r *reportRepo) List(ctx context.Context, limit, offset int) ([]domain.StoredReport, int, error) {
	query := `SELECT id, total_invoices, valid_invoices, invalid_invoices, payload, created_at
		FROM validation_reports
		ORDER BY created_at DESC
		OFFSET $1 LIMIT $2`

	var rows []domain.StoredReport
	if err := sqlx.SelectContext(ctx, r.db, &rows, query, offset, limit); err != nil {
		return nil, 0, fmt.Errorf("reportRepo.List data: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM validation_reports`); err != nil {
		return nil, 0, fmt.Errorf("reportRepo.List count: %w", err)
	}

	return rows, total, nil
}
