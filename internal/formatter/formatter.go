// package formatter exports playlist history to various formats (CSV, Markdown, JSON, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/soundtrack/internal/models"
	"github.com/desertthunder/soundtrack/internal/shared"
)

// Format names an export format.
type Format string

const (
	FormatText     Format = "text"
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
)

// Formats lists every supported [Format].
var Formats = []Format{FormatText, FormatCSV, FormatMarkdown, FormatJSON}

const timeLayout = "2006-01-02 15:04"

// ParseFormat resolves a format name, accepting "md" and "txt" as aliases.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text", "txt":
		return FormatText, nil
	case "csv":
		return FormatCSV, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, s)
	}
}

// Extension returns the file extension used for f.
func (f Format) Extension() string {
	switch f {
	case FormatCSV:
		return ".csv"
	case FormatMarkdown:
		return ".md"
	case FormatJSON:
		return ".json"
	default:
		return ".txt"
	}
}

// ExportToCSV converts records to CSV with columns: ID, Created, Name, Tracks, Playlist ID, URL, Owner
func ExportToCSV(records []*models.PlaylistRecord) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Created", "Name", "Tracks", "Playlist ID", "URL", "Owner"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, r := range records {
		row := []string{
			r.ID,
			r.CreatedAt.UTC().Format(time.RFC3339),
			r.Name,
			strconv.Itoa(r.TrackCount),
			r.PlaylistID,
			r.URL,
			r.UserID,
		}
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts records to a Markdown document with one list item per playlist
func ExportToMarkdown(records []*models.PlaylistRecord) []byte {
	var buf bytes.Buffer

	buf.WriteString("# Playlist History\n\n")
	buf.WriteString(fmt.Sprintf("**Playlists**: %d\n\n", len(records)))

	for i, r := range records {
		name := r.Name
		if r.URL != "" {
			name = fmt.Sprintf("[%s](%s)", r.Name, r.URL)
		}
		buf.WriteString(fmt.Sprintf("%d. %s, %s [%s]\n", i+1, name, trackCount(r.TrackCount), r.CreatedAt.UTC().Format(timeLayout)))
		if r.Description != "" {
			buf.WriteString(fmt.Sprintf("   > %s\n", r.Description))
		}
	}

	return buf.Bytes()
}

// ExportToText converts records to plain text
func ExportToText(records []*models.PlaylistRecord) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Playlists: %d\n\n", len(records)))
	for i, r := range records {
		buf.WriteString(fmt.Sprintf("%d. %s (%s) %s\n", i+1, r.Name, trackCount(r.TrackCount), r.CreatedAt.UTC().Format(timeLayout)))
		if r.URL != "" {
			buf.WriteString(fmt.Sprintf("   %s\n", r.URL))
		}
	}

	return buf.Bytes()
}

// historyJSON is the JSON shape of a [models.PlaylistRecord].
type historyJSON struct {
	ID          string    `json:"id"`
	Owner       string    `json:"owner"`
	PlaylistID  string    `json:"playlistId"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	URL         string    `json:"playlistUrl,omitempty"`
	TrackCount  int       `json:"trackCount"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ExportToJSON converts records to an indented JSON array
func ExportToJSON(records []*models.PlaylistRecord) ([]byte, error) {
	out := make([]historyJSON, 0, len(records))
	for _, r := range records {
		out = append(out, historyJSON{
			ID:          r.ID,
			Owner:       r.UserID,
			PlaylistID:  r.PlaylistID,
			Name:        r.Name,
			Description: r.Description,
			URL:         r.URL,
			TrackCount:  r.TrackCount,
			CreatedAt:   r.CreatedAt.UTC(),
		})
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return append(data, '\n'), nil
}

// Export renders records in format.
func Export(records []*models.PlaylistRecord, format Format) ([]byte, error) {
	switch format {
	case FormatCSV:
		return ExportToCSV(records)
	case FormatMarkdown:
		return ExportToMarkdown(records), nil
	case FormatJSON:
		return ExportToJSON(records)
	case FormatText:
		return ExportToText(records), nil
	default:
		return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, format)
	}
}

// WriteExport renders records in format and writes them to w.
func WriteExport(w io.Writer, records []*models.PlaylistRecord, format Format) error {
	data, err := Export(records, format)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	return nil
}

// WriteExportFile renders records to a file.
//
// Defaults to playlist_history{ext} as the filename.
func WriteExportFile(records []*models.PlaylistRecord, format Format, path string) (string, error) {
	if path == "" {
		path = "playlist_history" + format.Extension()
	}

	data, err := Export(records, format)
	if err != nil {
		return "", err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}

	return path, nil
}

func trackCount(n int) string {
	if n == 1 {
		return "1 track"
	}
	return fmt.Sprintf("%d tracks", n)
}
