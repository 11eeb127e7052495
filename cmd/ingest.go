package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/spx/internal/formatter"
	"github.com/desertthunder/spx/internal/ingest"
	"github.com/desertthunder/spx/internal/shared"
	"github.com/urfave/cli/v3"
)

// Ingest parses a playlist export file (json or csv) and prints the
// recovered playlists.
func (r *Runner) Ingest(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")
	if path == "" {
		return fmt.Errorf("%w: path to an export file is required", shared.ErrMissingArgument)
	}

	table, err := ingest.ProcessFile(path)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(table, cmd.Bool("pretty"))
	}

	return r.writePlain("%s", formatter.TableToText(table))
}
