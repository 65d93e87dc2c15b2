package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jockelind/lagerkoll/internal/config"
	"github.com/jockelind/lagerkoll/internal/engine"
	"github.com/jockelind/lagerkoll/internal/store"
	"github.com/jockelind/lagerkoll/pkg/logger"
)

var checkUserID int64

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Run one batch check over active items and exit",
	Long: "Connects to the database, checks every active item against the " +
		"availability source, records snapshots, fires alerts, and exits. " +
		"Useful for cron-driven setups without the long-running server.",
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().Int64Var(&checkUserID, "user", 0, "limit the batch to one owner's items")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)

	ctx := cmd.Context()

	st, err := store.NewPostgresStore(ctx, cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer st.Close()

	source, err := buildSource(cfg)
	if err != nil {
		return err
	}

	checker := engine.NewChecker(st, source, buildNotifier(cfg, log), engine.WithLogger(log))
	runner := engine.NewRunner(checker, engine.NewRunTracker())

	var ownerID *int64
	if checkUserID != 0 {
		ownerID = &checkUserID
	}

	report, err := runner.Run(ctx, ownerID)
	if err != nil {
		return fmt.Errorf("running batch: %w", err)
	}

	fmt.Printf("Checked %d items: %d ok, %d failed\n", report.Checked(), report.OK, report.Failed)
	return nil
}
