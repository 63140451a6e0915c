package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/portlink/streetturn/app/plugins"
	"github.com/portlink/streetturn/config"
	"github.com/portlink/streetturn/core/matching/journal"
	"github.com/portlink/streetturn/jobs/ecokpi"
)

var (
	backfillOrg   string
	backfillStart string
	backfillEnd   string
)

var backfillCmd = &cobra.Command{
	Use:   "backfill",
	Short: "Rebuild the savings KPI store from the run journal",
	RunE:  runBackfill,
}

func init() {
	backfillCmd.Flags().StringVar(&backfillOrg, "org", "", "only replay runs of this organization")
	backfillCmd.Flags().StringVar(&backfillStart, "start", "", "replay runs from this RFC3339 time")
	backfillCmd.Flags().StringVar(&backfillEnd, "end", "", "replay runs up to this RFC3339 time")
	rootCmd.AddCommand(backfillCmd)
}

func runBackfill(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cfg.KPI.Backend == "memory" {
		return fmt.Errorf("backfill needs a persistent kpi backend, got %q", cfg.KPI.Backend)
	}
	q := journal.Query{OrgID: backfillOrg}
	if q.Start, err = parseOptionalTime(backfillStart); err != nil {
		return fmt.Errorf("start: %w", err)
	}
	if q.End, err = parseOptionalTime(backfillEnd); err != nil {
		return fmt.Errorf("end: %w", err)
	}

	src, err := plugins.NewJournal(cfg.Journal)
	if err != nil {
		return fmt.Errorf("journal: %w", err)
	}
	defer func() { _ = src.Close() }()
	store, closer, err := plugins.NewKPIStore(cfg.KPI)
	if err != nil {
		return fmt.Errorf("kpi store: %w", err)
	}
	if closer != nil {
		defer func() { _ = closer.Close() }()
	}

	n, err := ecokpi.BackfillFromJournal(cmd.Context(), src, store, q)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "replayed %d runs into %s\n", n, cfg.KPI.Path)
	return err
}

func parseOptionalTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339, s)
}
