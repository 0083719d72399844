package main

import (
	"context"
	"fmt"
	"os"

	"github.com/bobmcallan/folio/internal/app"
	"github.com/bobmcallan/folio/internal/common"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "usage: folio <positions-file.csv> [more files...]\n")
		os.Exit(2)
	}

	a, err := app.NewApp(os.Getenv("FOLIO_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize app: %v\n", err)
		os.Exit(1)
	}

	common.PrintBanner(a.Config, a.Logger)

	ctx := context.Background()
	failed := 0
	for _, path := range os.Args[1:] {
		result, err := a.SnapshotService.ProcessFile(ctx, path)
		if err != nil {
			a.Logger.Error().Err(err).Str("file", path).Msg("Snapshot processing failed")
			failed++
			continue
		}
		a.Logger.Info().
			Str("file", path).
			Str("snapshot_at", result.Meta.SnapshotAt.Format("2006-01-02 15:04:05")).
			Int("positions", len(result.Positions)).
			Int("candidates", len(result.Drift.Candidates)).
			Msg("Snapshot complete")
	}

	a.Close()
	if failed > 0 {
		os.Exit(1)
	}
}
