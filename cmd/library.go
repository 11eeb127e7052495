package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/spx/internal/formatter"
	"github.com/desertthunder/spx/internal/models"
	"github.com/desertthunder/spx/internal/repositories"
	"github.com/desertthunder/spx/internal/shared"
	"github.com/desertthunder/spx/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Playlists fetches the user's entire playlist collection.
func (r *Runner) Playlists(ctx context.Context, cmd *cli.Command) error {
	if err := r.ensureLogin(ctx); err != nil {
		return err
	}

	progress := make(chan tasks.ProgressUpdate, 50)
	done := r.reportProgress(progress)

	result, err := r.engine.AllPlaylists(ctx, progress)
	close(progress)
	<-done
	if err != nil {
		return err
	}

	if cmd.Bool("cache") {
		if err := r.cachePlaylists(result.Playlists); err != nil {
			r.logger.Warn("failed to cache playlists", "error", err)
		}
	}

	if path := cmd.String("output"); path != "" || cmd.String("format") != "" {
		written, err := formatter.WritePlaylistsExport(result.Playlists, cmd.String("format"), path)
		if err != nil {
			return err
		}
		return r.writePlain("✓ Exported %d playlists to %s\n", len(result.Playlists), written)
	}

	if cmd.Bool("json") {
		return r.writeJSON(result.Playlists, cmd.Bool("pretty"))
	}

	return r.writePlain("%s", formatter.PlaylistsToText(result.Playlists))
}

// Tracks fetches the user's entire saved track library.
func (r *Runner) Tracks(ctx context.Context, cmd *cli.Command) error {
	if err := r.ensureLogin(ctx); err != nil {
		return err
	}

	progress := make(chan tasks.ProgressUpdate, 50)
	done := r.reportProgress(progress)

	result, err := r.engine.AllSavedTracks(ctx, progress)
	close(progress)
	<-done
	if err != nil {
		return err
	}

	if cmd.Bool("cache") {
		if err := r.cacheTracks(result.Tracks); err != nil {
			r.logger.Warn("failed to cache tracks", "error", err)
		}
	}

	if path := cmd.String("output"); path != "" || cmd.String("format") != "" {
		written, err := formatter.WriteTracksExport(result.Tracks, cmd.String("format"), path)
		if err != nil {
			return err
		}
		return r.writePlain("✓ Exported %d tracks to %s\n", len(result.Tracks), written)
	}

	if cmd.Bool("json") {
		return r.writeJSON(result.Tracks, cmd.Bool("pretty"))
	}

	return r.writePlain("%s", formatter.TracksToText(result.Tracks))
}

// reportProgress drains a progress channel into the logger until it closes.
func (r *Runner) reportProgress(progress <-chan tasks.ProgressUpdate) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progress {
			r.logger.Info(update.Message, "phase", update.Phase.String())
		}
	}()
	return done
}

// cachePlaylists upserts a fetched collection into the local database.
func (r *Runner) cachePlaylists(playlists []models.Playlist) error {
	user, err := r.provider.CurrentUser(context.Background())
	if err != nil {
		return fmt.Errorf("failed to resolve owner: %w", err)
	}

	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	repo := repositories.NewPlaylistRepository(db)
	for _, playlist := range playlists {
		if _, err := repo.Upsert(user.ID, playlist); err != nil {
			return fmt.Errorf("failed to cache playlist %s: %w", playlist.ID, err)
		}
	}

	r.logger.Info("cached playlists", "count", len(playlists))
	return nil
}

// cacheTracks upserts a fetched saved track collection into the local database.
func (r *Runner) cacheTracks(tracks []models.SavedTrack) error {
	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	repo := repositories.NewTrackRepository(db)
	for _, saved := range tracks {
		if _, err := repo.Upsert(saved); err != nil {
			return fmt.Errorf("failed to cache track %s: %w", saved.Track.ID, err)
		}
	}

	r.logger.Info("cached tracks", "count", len(tracks))
	return nil
}
