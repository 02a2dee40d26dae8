package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/desertthunder/soundtrack/internal/formatter"
	"github.com/desertthunder/soundtrack/internal/models"
	"github.com/desertthunder/soundtrack/internal/repositories"
	"github.com/desertthunder/soundtrack/internal/shared"
	"github.com/desertthunder/soundtrack/internal/ui"
	"github.com/urfave/cli/v3"
)

// History lists playlists recorded by the relay, newest first.
//
// Text output to stdout is rendered as a table; every other combination goes through the formatter.
func (r *Runner) History(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	limit := cmd.Int("limit")
	if limit < 0 {
		return fmt.Errorf("%w: limit must not be negative", shared.ErrInvalidArgument)
	}

	config, err := r.loadConfig(cmd.String("config"), false)
	if err != nil {
		return err
	}
	if !config.Database.Enabled() {
		return fmt.Errorf("%w: database.path is empty, playlist history is disabled", shared.ErrMissingConfig)
	}

	db, err := shared.OpenDatabase(config.Database)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	repo := repositories.NewPlaylistHistoryRepository(db)
	if id := cmd.String("id"); id != "" {
		record, err := repo.Get(ctx, id)
		if err != nil {
			return err
		}
		return r.writeHistoryEntry(record, format)
	}

	opts := repositories.ListOptions{UserID: cmd.String("user"), Limit: limit}
	records, err := repo.List(ctx, opts)
	if err != nil {
		return err
	}

	r.logger.Debug("loaded playlist history", "count", len(records))

	if output := cmd.String("output"); output != "" {
		path, err := formatter.WriteExportFile(records, format, output)
		if err != nil {
			return err
		}
		return r.writePlain("%s Exported %d playlists to %s\n", ui.Styles().OK("✓"), len(records), path)
	}

	if format != formatter.FormatText {
		return formatter.WriteExport(r.output, records, format)
	}

	if len(records) == 0 {
		return r.writePlain("%s\n", ui.Styles().Help("No playlists recorded yet"))
	}
	total, err := repo.Count(ctx, opts)
	if err != nil {
		return err
	}

	r.writePlain("%s\n", historyTable(records))
	return r.writePlain("%s\n", ui.Styles().Help(fmt.Sprintf("Showing %d of %d playlists", len(records), total)))
}

// writeHistoryEntry prints one record as key/value detail, or through the formatter for other formats.
func (r *Runner) writeHistoryEntry(record *models.PlaylistRecord, format formatter.Format) error {
	if format != formatter.FormatText {
		return formatter.WriteExport(r.output, []*models.PlaylistRecord{record}, format)
	}

	return r.writePlain("%s\n", ui.KeyValues([][2]string{
		{"ID", record.ID},
		{"Name", record.Name},
		{"Description", record.Description},
		{"Owner", record.UserID},
		{"Tracks", strconv.Itoa(record.TrackCount)},
		{"Playlist", record.PlaylistID},
		{"URL", record.URL},
		{"Created", record.CreatedAt.Local().Format("2006-01-02 15:04")},
	}))
}

func historyTable(records []*models.PlaylistRecord) string {
	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		rows = append(rows, []string{
			rec.CreatedAt.Local().Format("2006-01-02 15:04"),
			rec.Name,
			strconv.Itoa(rec.TrackCount),
			rec.URL,
		})
	}
	return ui.Table([]string{"Created", "Name", "Tracks", "URL"}, rows)
}
