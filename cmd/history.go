package main

import (
	"context"
	"fmt"

	"github.com/Brandand88/mirror/internal/history"
	"github.com/Brandand88/mirror/internal/shared"
	"github.com/urfave/cli/v3"
)

// HistoryList prints the most recent playback journal records.
func (r *Runner) HistoryList(ctx context.Context, cmd *cli.Command) error {
	if r.config.Database.Path == "" {
		return fmt.Errorf("%w: database path not configured", shared.ErrMissingConfig)
	}

	store, err := history.Open(r.config.Database)
	if err != nil {
		return err
	}
	defer store.Close()

	records, err := store.List(int(cmd.Int("limit")))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(records, cmd.Bool("pretty"))
	}

	if len(records) == 0 {
		r.writePlain("No playback events recorded yet.\n")
		return nil
	}

	for _, rec := range records {
		line := fmt.Sprintf("%s  %-18s", rec.CreatedAt.Local().Format("2006-01-02 15:04:05"), rec.Kind)
		if rec.Detail != "" {
			line += "  " + rec.Detail
		}
		if rec.PositionMS > 0 {
			line += fmt.Sprintf("  @%dms", rec.PositionMS)
		}
		r.writePlain("%s\n", line)
	}

	return nil
}
