package router

import (
	"github.com/gin-gonic/gin"

	"invoiceqc/internal/config"
	"invoiceqc/internal/handler"
	"invoiceqc/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(cfg *config.Config, qcH *handler.QCHandler, healthH *handler.HealthHandler) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	v1 := r.Group("/api/v1")

	invoices := v1.Group("/invoices")
	invoices.POST("/validate", qcH.ValidateInvoices)

	documents := v1.Group("/documents")
	documents.POST("/extract", qcH.ExtractDocuments)
	documents.POST("/qc", qcH.RunQC)

	reports := v1.Group("/reports")
	reports.GET("", qcH.ListReports)
	reports.GET("/:id", qcH.GetReport)
	reports.GET("/:id/export", qcH.ExportReport)

	return r
}
