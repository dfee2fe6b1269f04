package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"invoiceqc/internal/domain"
	"invoiceqc/internal/export"
	"invoiceqc/internal/service"
)

// QCHandler handles extraction and validation endpoints.
type QCHandler struct {
	qc service.QCService
}

// NewQCHandler creates a new QCHandler.
func NewQCHandler(qc service.QCService) *QCHandler {
	return &QCHandler{qc: qc}
}

// documentsRequest carries detector output for a batch of documents.
type documentsRequest struct {
	Documents []domain.Document `json:"documents" binding:"required"`
}

// validateResponse pairs the report with its storage ID when persistence is
// on.
type validateResponse struct {
	ReportID *uuid.UUID     `json:"report_id,omitempty"`
	Report   *domain.Report `json:"report"`
}

// ValidateInvoices handles POST /api/v1/invoices/validate. The body is a
// JSON array of invoice mappings.
func (h *QCHandler) ValidateInvoices(c *gin.Context) {
	var records []domain.Record
	if err := c.ShouldBindJSON(&records); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_BODY", "request body must be a JSON array of invoice objects")
		return
	}

	report, stored, err := h.qc.ValidateBatch(c.Request.Context(), records)
	if err != nil {
		HandleError(c, err)
		return
	}

	resp := validateResponse{Report: report}
	if stored != nil {
		resp.ReportID = &stored.ID
	}
	RespondOK(c, resp)
}

// ExtractDocuments handles POST /api/v1/documents/extract. Documents that
// fail extraction are reported inline and never abort the batch.
func (h *QCHandler) ExtractDocuments(c *gin.Context) {
	var req documentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_BODY", "request body must contain a documents array")
		return
	}

	extracted := h.qc.Extract(c.Request.Context(), req.Documents)
	RespondOK(c, gin.H{"documents": extracted})
}

// RunQC handles POST /api/v1/documents/qc: extract every document, then
// validate the successfully extracted invoices as one batch.
func (h *QCHandler) RunQC(c *gin.Context) {
	var req documentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_BODY", "request body must contain a documents array")
		return
	}

	result, stored, err := h.qc.Run(c.Request.Context(), req.Documents)
	if err != nil {
		HandleError(c, err)
		return
	}

	resp := gin.H{"extracted": result.Extracted, "validation": result.Validation}
	if stored != nil {
		resp["report_id"] = stored.ID
	}
	RespondOK(c, resp)
}

// ListReports handles GET /api/v1/reports.
func (h *QCHandler) ListReports(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 || limit > 100 {
		limit = 20
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}

	reports, total, err := h.qc.ListReports(c.Request.Context(), limit, offset)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondPaginated(c, reports, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// GetReport handles GET /api/v1/reports/:id.
func (h *QCHandler) GetReport(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "report id must be a UUID")
		return
	}

	stored, err := h.qc.GetReport(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, stored)
}

// ExportReport handles GET /api/v1/reports/:id/export, streaming the stored
// report as an XLSX attachment.
func (h *QCHandler) ExportReport(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "report id must be a UUID")
		return
	}

	stored, err := h.qc.GetReport(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	var report domain.Report
	if err := json.Unmarshal(stored.Payload, &report); err != nil {
		HandleError(c, err)
		return
	}

	data, err := export.ReportWorkbook(&report)
	if err != nil {
		HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+export.Filename(id.String())+`"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
