// Command reconcile runs the reconciliation engine from the command line,
// without the service's scheduler, cache, or API surfaces. Useful for
// one-off runs, audits via --dry-run, and re-running a single phase.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fortuna/crossice/internal/config"
	"github.com/fortuna/crossice/internal/reconciliation"
	"github.com/fortuna/crossice/internal/store"
	"github.com/fortuna/crossice/internal/store/repository"
)

var (
	flagSeason  string
	flagDSN     string
	flagDryRun  bool
	flagVerbose bool
)

func main() {
	root := &cobra.Command{
		Use:   "reconcile",
		Short: "Cross-source entity reconciliation for youth hockey stats",
		Long: `Matches club-scraped teams and players against anonymized league
records and backfills recovered player names into league-side tables.
All phases are idempotent: completed links are never revisited and only
blank name fields are filled.`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&flagSeason, "season", "", "season id (defaults to SEASON_ID)")
	root.PersistentFlags().StringVar(&flagDSN, "dsn", "", "Postgres DSN (defaults to DATABASE_URL)")
	root.PersistentFlags().BoolVar(&flagDryRun, "dry-run", false, "report what would change without writing")
	root.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "debug logging")

	root.AddCommand(
		phaseCommand("run", "Run all three phases in order", nil),
		phaseCommand("teams", "Match club teams to league teams", []reconciliation.Phase{reconciliation.PhaseTeams}),
		phaseCommand("players", "Link club players within matched teams", []reconciliation.Phase{reconciliation.PhasePlayers}),
		phaseCommand("backfill", "Fill blank league-side name fields", []reconciliation.Phase{reconciliation.PhaseBackfill}),
	)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func phaseCommand(use, short string, phases []reconciliation.Phase) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return execute(cmd.Context(), phases)
		},
	}
}

func execute(ctx context.Context, phases []reconciliation.Phase) error {
	cfg, err := config.Load()
	if err != nil && (flagSeason == "" || flagDSN == "") {
		return err
	}

	seasonID := flagSeason
	dsn := flagDSN
	engineCfg := reconciliation.DefaultConfig()
	if cfg != nil {
		if seasonID == "" {
			seasonID = cfg.SeasonID
		}
		if dsn == "" {
			dsn = cfg.DatabaseURL
		}
		engineCfg.OverlapThreshold = cfg.OverlapThreshold
		engineCfg.MinRosterJerseys = cfg.MinRosterJerseys
	}

	logger := newLogger(flagVerbose)
	defer logger.Sync()

	db, err := store.NewDatabase(dsn)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	source := repository.NewSourceRepository(db)
	links := repository.NewLinkRepository(db)
	names := repository.NewNameBackfillRepository(db)
	runs := repository.NewRunRepository(db)

	engine := reconciliation.NewEngine(source, links, names, engineCfg, logger)

	report, err := engine.Run(ctx, reconciliation.Options{
		SeasonID: seasonID,
		Phases:   phases,
		DryRun:   flagDryRun,
	})
	if err != nil {
		return err
	}

	if err := runs.SaveRun(ctx, report); err != nil {
		logger.Warn("persist run report failed", zap.Error(err))
	}

	out, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	fmt.Println(string(out))
	return nil
}

func newLogger(verbose bool) *zap.Logger {
	cfg := zap.NewDevelopmentConfig()
	if !verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}
	logger, _ := cfg.Build()
	return logger
}
