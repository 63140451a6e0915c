package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/portlink/streetturn/config"
	"github.com/portlink/streetturn/core/matching"
	"github.com/portlink/streetturn/core/source"
	"github.com/portlink/streetturn/infra/fixture"
	"github.com/portlink/streetturn/infra/logger"
	"github.com/portlink/streetturn/infra/postgres"
	"github.com/portlink/streetturn/pkg/export"
)

type matchOptions struct {
	poolPath       string
	orgID          string
	format         string
	maxDistanceKM  float64
	maxTimeHours   float64
	minScore       float64
	containerType  string
	shippingLineID string
}

var matchOpts matchOptions

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Print match suggestions for a pool file or an organization",
	Long: `Runs the engine once and prints the ranked suggestions.

With --pool the candidates are read from a JSON or YAML file; the file holds
either a bare {containers, bookings} pool or an organizations map, in which
case --org selects the pool. Without --pool the configured source is queried
for --org.`,
	RunE: runMatch,
}

func init() {
	f := matchCmd.Flags()
	f.StringVar(&matchOpts.poolPath, "pool", "", "pool file (json or yaml)")
	f.StringVar(&matchOpts.orgID, "org", "", "organization id")
	f.StringVar(&matchOpts.format, "format", "json", "output format: json or csv")
	f.Float64Var(&matchOpts.maxDistanceKM, "max-distance-km", 0, "maximum container to pickup distance")
	f.Float64Var(&matchOpts.maxTimeHours, "max-time-hours", 0, "maximum time gap in hours")
	f.Float64Var(&matchOpts.minScore, "min-score", 0, "minimum total score")
	f.StringVar(&matchOpts.containerType, "container-type", "", "required container type")
	f.StringVar(&matchOpts.shippingLineID, "shipping-line", "", "shipping line id")
	rootCmd.AddCommand(matchCmd)
}

func runMatch(cmd *cobra.Command, args []string) error {
	opts := matchOpts
	if opts.format != "json" && opts.format != "csv" {
		return fmt.Errorf("unsupported format %q", opts.format)
	}
	filters := matchFilters(cmd, opts)
	log := logger.New("match")

	engineCfg := matching.Config{}
	var pool source.Pool
	var err error
	if opts.poolPath != "" {
		pool, err = loadPoolFile(cmd.Context(), opts.poolPath, opts.orgID)
	} else {
		if opts.orgID == "" {
			return fmt.Errorf("--org is required without --pool")
		}
		var cfg *config.Config
		if cfg, err = config.Load(cfgPath); err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		engineCfg = cfg.Matching
		pool, err = loadConfiguredPool(cmd.Context(), cfg, opts.orgID, log)
	}
	if err != nil {
		return err
	}

	res, err := matching.NewEngine(engineCfg, log).Match(pool.Containers, pool.Bookings, filters)
	if err != nil {
		return err
	}
	log.Infof("%d containers, %d bookings: %d suggestions, %d rejected, %d skipped",
		len(pool.Containers), len(pool.Bookings), len(res.Suggestions), res.Rejected, res.Skipped)
	return writeSuggestions(cmd.OutOrStdout(), opts.format, res.Suggestions)
}

func matchFilters(cmd *cobra.Command, opts matchOptions) matching.Filters {
	f := matching.Filters{ContainerType: opts.containerType, ShippingLineID: opts.shippingLineID}
	if cmd.Flags().Changed("max-distance-km") {
		f.MaxDistanceKM = matching.Float(opts.maxDistanceKM)
	}
	if cmd.Flags().Changed("max-time-hours") {
		f.MaxTimeHours = matching.Float(opts.maxTimeHours)
	}
	if cmd.Flags().Changed("min-score") {
		f.MinScore = matching.Float(opts.minScore)
	}
	return f
}

func loadPoolFile(ctx context.Context, path, orgID string) (source.Pool, error) {
	if orgID != "" {
		src, err := fixture.NewSource(path)
		if err != nil {
			return source.Pool{}, fmt.Errorf("load pool: %w", err)
		}
		return src.Pool(ctx, orgID)
	}
	p, err := fixture.LoadPool(path)
	if err != nil {
		return source.Pool{}, fmt.Errorf("load pool: %w", err)
	}
	return source.FilterEligible(p), nil
}

func loadConfiguredPool(ctx context.Context, cfg *config.Config, orgID string, log logger.Logger) (source.Pool, error) {
	if cfg.Source.Type != "postgres" {
		return loadPoolFile(ctx, cfg.Source.Path, orgID)
	}
	db, err := postgres.NewPool(ctx, cfg.Postgres, log)
	if err != nil {
		return source.Pool{}, err
	}
	defer db.Close()
	return postgres.NewSource(db, cfg.Postgres.QueryTimeout).Pool(ctx, orgID)
}

func writeSuggestions(w io.Writer, format string, suggestions []matching.Suggestion) error {
	if format == "csv" {
		return export.WriteCSV(w, suggestions)
	}
	return export.WriteJSON(w, suggestions)
}
