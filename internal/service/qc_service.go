package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"invoiceqc/internal/domain"
	"invoiceqc/internal/extract"
	"invoiceqc/internal/logger"
	"invoiceqc/internal/port"
	"invoiceqc/internal/validator"
)

// QCService runs extraction and validation over invoice documents and
// records. A nil report repository disables persistence; validation itself
// never needs the database.
type QCService interface {
	Extract(ctx context.Context, docs []domain.Document) []domain.ExtractedDocument
	ValidateBatch(ctx context.Context, records []domain.Record) (*domain.Report, *domain.StoredReport, error)
	Run(ctx context.Context, docs []domain.Document) (*domain.QCResult, *domain.StoredReport, error)
	GetReport(ctx context.Context, id uuid.UUID) (*domain.StoredReport, error)
	ListReports(ctx context.Context, limit, offset int) ([]domain.StoredReport, int, error)
}

type qcService struct {
	extractor  *extract.Extractor
	engine     *validator.Engine
	reportRepo port.ReportRepository
}

// NewQCService wires the extractor and validation engine together.
// reportRepo may be nil when persistence is disabled.
func NewQCService(extractor *extract.Extractor, engine *validator.Engine, reportRepo port.ReportRepository) QCService {
	return &qcService{
		extractor:  extractor,
		engine:     engine,
		reportRepo: reportRepo,
	}
}

// Extract runs the extractor over every document independently. A document
// that fails extraction carries its error message and does not stop the rest
// of the batch.
func (s *qcService) Extract(_ context.Context, docs []domain.Document) []domain.ExtractedDocument {
	log := logger.WithComponent("qc_service")

	out := make([]domain.ExtractedDocument, 0, len(docs))
	for _, doc := range docs {
		extracted := domain.ExtractedDocument{Name: doc.Name}
		inv, err := s.extractor.Extract(doc.Text, doc.Grids)
		if err != nil {
			extracted.Error = err.Error()
			log.Warn().Str("document", doc.Name).Err(err).Msg("extraction skipped")
		} else {
			extracted.Invoice = inv
		}
		out = append(out, extracted)
	}
	return out
}

// ValidateBatch validates records in input order and persists the report
// when a repository is configured.
func (s *qcService) ValidateBatch(ctx context.Context, records []domain.Record) (*domain.Report, *domain.StoredReport, error) {
	report := s.engine.Validate(records)

	stored, err := s.persist(ctx, report)
	if err != nil {
		return nil, nil, err
	}
	return report, stored, nil
}

// Run extracts every document and validates the successfully extracted
// invoices as one batch.
func (s *qcService) Run(ctx context.Context, docs []domain.Document) (*domain.QCResult, *domain.StoredReport, error) {
	extracted := s.Extract(ctx, docs)

	records := make([]domain.Record, 0, len(extracted))
	for _, e := range extracted {
		if e.Invoice != nil {
			records = append(records, e.Invoice.Record())
		}
	}

	report := s.engine.Validate(records)
	stored, err := s.persist(ctx, report)
	if err != nil {
		return nil, nil, err
	}

	return &domain.QCResult{Extracted: extracted, Validation: report}, stored, nil
}

func (s *qcService) persist(ctx context.Context, report *domain.Report) (*domain.StoredReport, error) {
	if s.reportRepo == nil {
		return nil, nil
	}
	stored, err := s.reportRepo.Save(ctx, report)
	if err != nil {
		return nil, err
	}
	svcLog := logger.WithComponent("qc_service")
	svcLog.Info().
		Str("report_id", stored.ID.String()).
		Int("total_invoices", stored.TotalInvoices).
		Msg("validation report stored")
	return stored, nil
}

func (s *qcService) GetReport(ctx context.Context, id uuid.UUID) (*domain.StoredReport, error) {
	if s.reportRepo == nil {
		return nil, domain.ErrReportNotFound
	}
	return s.reportRepo.GetByID(ctx, id)
}

func (s *qcService) ListReports(ctx context.Context, limit, offset int) ([]domain.StoredReport, int, error) {
	if s.reportRepo == nil {
		return nil, 0, errors.New("report persistence is not configured")
	}
	return s.reportRepo.List(ctx, limit, offset)
}
