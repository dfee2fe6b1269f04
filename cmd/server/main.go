package main

import (
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"invoiceqc/internal/config"
	"invoiceqc/internal/extract"
	"invoiceqc/internal/handler"
	"invoiceqc/internal/logger"
	"invoiceqc/internal/port"
	"invoiceqc/internal/repository/postgres"
	"invoiceqc/internal/router"
	"invoiceqc/internal/service"
	"invoiceqc/internal/validator"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := logger.Setup(logger.Config(cfg.Log)); err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	log := logger.WithComponent("server")

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Report persistence is optional. Without a database the service still
	// extracts and validates, it just cannot store or list reports.
	var db *sqlx.DB
	var reportRepo port.ReportRepository
	if cfg.DB.Enabled {
		db, err = postgres.NewDB(&cfg.DB)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer db.Close()
		reportRepo = postgres.NewReportRepo(db)
	} else {
		log.Info().Msg("report persistence disabled")
	}

	qcSvc := service.NewQCService(extract.NewExtractor(), validator.NewEngine(), reportRepo)

	qcH := handler.NewQCHandler(qcSvc)
	healthH := handler.NewHealthHandler(db)

	r := router.Setup(cfg, qcH, healthH)

	log.Info().Str("addr", cfg.Server.Port).Msg("server starting")
	if err := r.Run(cfg.Server.Port); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}
