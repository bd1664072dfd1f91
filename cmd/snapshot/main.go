package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"market-value-dashboard/internal/config"
	"market-value-dashboard/internal/format"
	"market-value-dashboard/internal/logger"
	"market-value-dashboard/internal/pipeline"
	"market-value-dashboard/internal/players"
	"market-value-dashboard/internal/source"
)

func main() {
	configDir := pflag.String("config", "./configs", "directory holding config.yml")
	n := pflag.IntP("top", "n", 20, "number of players in the leaderboard")
	club := pflag.String("club", "", "show the roster of this club instead of the leaderboard")
	position := pflag.String("position", "", "only players with this position or sub-position (roster mode)")
	trend := pflag.String("trend", "", "only players with this trend: increase, decrease, no_change, unknown (roster mode)")
	pflag.Parse()

	// Load application configuration
	cfg, err := config.LoadConfig(*configDir)
	if err != nil {
		// We can't use the logger here because it's not initialized yet.
		fmt.Fprintf(os.Stderr, "could not load config: %v\n", err)
		os.Exit(1)
	}

	wantTrend, err := players.ParseTrend(*trend)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(2)
	}

	log, err := logger.NewLogger(&cfg.Logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fetcher := source.NewFetcher(&cfg.Fetch, log, nil)
	result, err := pipeline.New(log, &cfg, fetcher, nil, nil).Run(ctx)
	if err != nil {
		log.Fatal("Failed to load player data", zap.Error(err))
	}

	if *club != "" || *position != "" || wantTrend != players.NoSelection {
		records := result.Store.Filter(
			players.ByClub(*club),
			players.ByPosition(*position),
			players.ByTrend(wantTrend),
		)
		if len(records) == 0 {
			fmt.Fprintln(os.Stderr, "No players match the selection.")
			return
		}
		writeRoster(os.Stdout, records)
		return
	}

	writeLeaderboard(os.Stdout, result.Store.TopN(*n))
}

func writeLeaderboard(out io.Writer, records []players.Record) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tPLAYER\tCLUB\tPOSITION\tPREDICTED 2026")
	for i, r := range records {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
			i+1,
			r.Name,
			format.OrPlaceholder(r.Club),
			format.OrPlaceholder(r.SubPosition),
			format.NullMillions(r.Predicted2026, 1),
		)
	}
	w.Flush()
}

func writeRoster(out io.Writer, records []players.Record) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PLAYER\tCLUB\tPOSITION\tVALUE 2024\tPREDICTED 2026\tTREND")
	for _, r := range records {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			format.OrPlaceholder(r.Name),
			format.OrPlaceholder(r.Club),
			format.OrPlaceholder(r.SubPosition),
			format.NullMillions(r.Value2024(), 1),
			format.NullMillions(r.Predicted2026, 1),
			r.Trend,
		)
	}
	w.Flush()
}
