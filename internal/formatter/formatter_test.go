package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/soundtrack/internal/models"
	"github.com/desertthunder/soundtrack/internal/shared"
	th "github.com/desertthunder/soundtrack/internal/testing"
)

func sampleRecords() []*models.PlaylistRecord {
	return []*models.PlaylistRecord{
		{
			ID:          "h2",
			UserID:      "user-1",
			PlaylistID:  "pl-2",
			Name:        "Night, Happy",
			Description: "Late mix",
			URL:         "https://open.spotify.com/playlist/pl-2",
			TrackCount:  20,
			CreatedAt:   time.Date(2025, 6, 2, 22, 30, 0, 0, time.UTC),
		},
		{
			ID:         "h1",
			UserID:     "user-1",
			PlaylistID: "pl-1",
			Name:       "Focus",
			TrackCount: 1,
			CreatedAt:  time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC),
		},
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input string
		want  Format
	}{
		{"", FormatText},
		{"text", FormatText},
		{"TXT", FormatText},
		{"csv", FormatCSV},
		{"md", FormatMarkdown},
		{"Markdown", FormatMarkdown},
		{"json", FormatJSON},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}

	t.Run("Unknown", func(t *testing.T) {
		if _, err := ParseFormat("yaml"); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})
}

func TestExporters(t *testing.T) {
	t.Run("ExportToCSV", func(t *testing.T) {
		data, err := ExportToCSV(sampleRecords())
		if err != nil {
			t.Fatalf("ExportToCSV failed: %v", err)
		}

		rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
		if err != nil {
			t.Fatalf("failed to parse CSV output: %v", err)
		}

		if len(rows) != 3 {
			t.Fatalf("expected header plus 2 rows, got %d", len(rows))
		}
		if strings.Join(rows[0], ",") != "ID,Created,Name,Tracks,Playlist ID,URL,Owner" {
			t.Errorf("unexpected headers %v", rows[0])
		}
		if rows[1][2] != "Night, Happy" {
			t.Errorf("expected quoted name to round trip, got %q", rows[1][2])
		}
		if rows[1][1] != "2025-06-02T22:30:00Z" || rows[1][3] != "20" || rows[1][6] != "user-1" {
			t.Errorf("unexpected row %v", rows[1])
		}
	})

	t.Run("ExportToMarkdown", func(t *testing.T) {
		output := string(ExportToMarkdown(sampleRecords()))

		for _, want := range []string{
			"# Playlist History",
			"**Playlists**: 2",
			"1. [Night, Happy](https://open.spotify.com/playlist/pl-2), 20 tracks [2025-06-02 22:30]",
			"   > Late mix",
			"2. Focus, 1 track [2025-06-01 09:00]",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("Markdown missing %q, got:\n%s", want, output)
			}
		}
	})

	t.Run("ExportToText", func(t *testing.T) {
		output := string(ExportToText(sampleRecords()))

		if !strings.HasPrefix(output, "Playlists: 2\n\n") {
			t.Errorf("unexpected header, got:\n%s", output)
		}
		if !strings.Contains(output, "1. Night, Happy (20 tracks) 2025-06-02 22:30\n   https://open.spotify.com/playlist/pl-2\n") {
			t.Errorf("unexpected first entry, got:\n%s", output)
		}
	})

	t.Run("ExportToJSON", func(t *testing.T) {
		data, err := ExportToJSON(sampleRecords())
		if err != nil {
			t.Fatalf("ExportToJSON failed: %v", err)
		}

		var decoded []map[string]any
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if len(decoded) != 2 {
			t.Fatalf("expected 2 entries, got %d", len(decoded))
		}
		if decoded[0]["playlistId"] != "pl-2" || decoded[0]["playlistUrl"] != "https://open.spotify.com/playlist/pl-2" {
			t.Errorf("unexpected entry %v", decoded[0])
		}
		if decoded[0]["owner"] != "user-1" {
			t.Errorf("expected owner user-1, got %v", decoded[0]["owner"])
		}
		if _, ok := decoded[0]["state"]; ok {
			t.Error("expected no session state in export")
		}
		if _, ok := decoded[1]["description"]; ok {
			t.Error("expected empty description to be omitted")
		}
	})

	t.Run("Empty", func(t *testing.T) {
		data, err := ExportToJSON(nil)
		if err != nil {
			t.Fatalf("ExportToJSON failed: %v", err)
		}
		if strings.TrimSpace(string(data)) != "[]" {
			t.Errorf("expected empty array, got %s", data)
		}

		if !strings.Contains(string(ExportToText(nil)), "Playlists: 0") {
			t.Error("expected zero count in text export")
		}
	})
}

func TestWriteExport(t *testing.T) {
	t.Run("Writer", func(t *testing.T) {
		var buf bytes.Buffer
		if err := WriteExport(&buf, sampleRecords(), FormatCSV); err != nil {
			t.Fatalf("WriteExport failed: %v", err)
		}
		if !strings.HasPrefix(buf.String(), "ID,Created") {
			t.Errorf("expected CSV output, got %s", buf.String())
		}
	})

	t.Run("Writer Error", func(t *testing.T) {
		if err := WriteExport(&th.FWriter{}, sampleRecords(), FormatText); err == nil {
			t.Error("expected write error")
		}
	})

	t.Run("Unknown Format", func(t *testing.T) {
		var buf bytes.Buffer
		if err := WriteExport(&buf, sampleRecords(), Format("yaml")); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("File", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "history.md")

		written, err := WriteExportFile(sampleRecords(), FormatMarkdown, path)
		if err != nil {
			t.Fatalf("WriteExportFile failed: %v", err)
		}

		th.AssertFileExists(t, written)
		if content := th.MustReadFile(t, written); !strings.Contains(content, "# Playlist History") {
			t.Errorf("unexpected file content:\n%s", content)
		}
	})

	t.Run("Default File Name", func(t *testing.T) {
		wd := th.MustGetwd(t)
		th.MustChdir(t, t.TempDir())
		defer th.MustChdir(t, wd)

		written, err := WriteExportFile(sampleRecords(), FormatJSON, "")
		if err != nil {
			t.Fatalf("WriteExportFile failed: %v", err)
		}
		if written != "playlist_history.json" {
			t.Errorf("expected default name, got %s", written)
		}
		th.AssertFileExists(t, written)
	})
}
