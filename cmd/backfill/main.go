// Command backfill maps legacy free-text salesperson fields on invoices to
// users and, with -recompute, rebuilds the commission ledger afterwards.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/imranmdl/tile-granite-management-sub002/internal/application/service"
	"github.com/imranmdl/tile-granite-management-sub002/internal/config"
	"github.com/imranmdl/tile-granite-management-sub002/internal/infrastructure/database"
	"github.com/imranmdl/tile-granite-management-sub002/internal/infrastructure/repository"
	"github.com/imranmdl/tile-granite-management-sub002/pkg/logger"
)

func main() {
	recompute := flag.Bool("recompute", false, "Recompute commissions after the backfill")
	from := flag.String("from", "", "Optional: recompute start date (YYYY-MM-DD)")
	to := flag.String("to", "", "Optional: recompute end date (YYYY-MM-DD)")
	flag.Parse()

	cfg := config.Load()
	logger.Setup(cfg.Log.Level, cfg.Log.Pretty)

	fromDate, err := parseFlagDate(*from)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid -from: %v\n", err)
		os.Exit(2)
	}
	toDate, err := parseFlagDate(*to)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid -to: %v\n", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgresDB(&cfg.Database, false)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := database.NewSchemaInspector(db, cfg.Schema.ExpectedVersion).Verify(ctx); err != nil {
		log.Fatal().Err(err).Msg("database schema does not match")
	}

	repos := repository.NewRepositories(db)
	uow := repository.NewUnitOfWork(db)

	result, err := service.NewSalesUserResolver(uow, repos).BackfillSalesUsers(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("backfill failed")
	}
	log.Info().
		Int("scanned", result.Scanned).
		Int("resolved", result.Resolved).
		Ints64("unresolved_invoice_ids", result.Unresolved).
		Msg("sales user backfill done")

	if !*recompute {
		return
	}

	settings := service.NewSettingsService(cfg.Engine, repos.Settings)
	rc, err := service.NewCommissionService(uow, repos, settings).RecomputeCommissions(ctx, fromDate, toDate)
	if err != nil {
		log.Fatal().Err(err).Msg("recompute failed")
	}
	log.Info().Int("synced", rc.Synced).Int("total", rc.Total).Int("failed", len(rc.Failures)).Msg("commission recompute done")
}

func parseFlagDate(v string) (*time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
