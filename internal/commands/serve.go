package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/amcjunkshop/scrapledger/internal/catalog"
	"github.com/amcjunkshop/scrapledger/internal/config"
	"github.com/amcjunkshop/scrapledger/internal/repository/mongodb"
	"github.com/amcjunkshop/scrapledger/internal/repository/sheets"
	"github.com/amcjunkshop/scrapledger/internal/scheduler"
	"github.com/amcjunkshop/scrapledger/internal/server/handlers"
	"github.com/amcjunkshop/scrapledger/internal/server/router"
	recordssvc "github.com/amcjunkshop/scrapledger/internal/service/records"
	reportingsvc "github.com/amcjunkshop/scrapledger/internal/service/reporting"
	"github.com/amcjunkshop/scrapledger/pkg/clients/anthropic"
	"github.com/amcjunkshop/scrapledger/pkg/logger"
)

func newServeCommand(envFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the ledger HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(*envFile)
		},
	}
}

func runServe(envFile string) error {
	cfg, err := config.Load(envFile)
	if err != nil {
		return err
	}

	baseLogger := logger.Must(logger.New())
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	repo, err := mongodb.New(context.Background(), cfg.MongoDB.URI, cfg.MongoDB.DBName, baseLogger.Named("repo.mongodb"))
	if err != nil {
		return fmt.Errorf("initializing mongodb repository: %w", err)
	}
	defer func() {
		if err := repo.Close(context.Background()); err != nil {
			baseLogger.Error("failed to close mongodb connection", zap.Error(err))
		}
	}()

	var mirror sheets.Mirror
	if cfg.Sheets.SpreadsheetID != "" {
		mirror, err = sheets.NewMirror(context.Background(), cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			return fmt.Errorf("initializing sheets mirror: %w", err)
		}
		baseLogger.Info("sheets mirror enabled")
	}

	var aiClient anthropic.Client
	if cfg.AI.AnthropicKey != "" {
		aiClient = anthropic.NewClient(cfg.AI.AnthropicKey)
		baseLogger.Info("anthropic ai client enabled")
	} else {
		baseLogger.Warn("anthropic api key missing, spending advice disabled")
	}

	cat, err := catalog.Load(cfg.Shop.CatalogPath)
	if err != nil {
		return fmt.Errorf("loading material catalog: %w", err)
	}

	recordsSvc := recordssvc.NewService(repo, mirror, cfg.Shop.CompanyName, cfg.Shop.UnlockCode, baseLogger.Named("svc.records"))
	stopWatch, err := recordsSvc.Watch()
	if err != nil {
		return fmt.Errorf("watching record store: %w", err)
	}
	defer stopWatch()

	reportingSvc := reportingsvc.NewService(recordsSvc, aiClient, baseLogger.Named("svc.reporting"))

	handler := handlers.NewRecordsHandler(recordsSvc, reportingSvc, cat, cfg.Shop.CompanyName, cfg.Shop.DefaultLanguage, baseLogger.Named("handlers.records"))
	engine := router.New(handler, baseLogger.Named("router"))

	sched := scheduler.NewScheduler(cfg.Summary, reportingSvc, repo, baseLogger.Named("scheduler"))
	sched.Start()
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}

	return nil
}
