package formatter

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/ytm/internal/models"
	"github.com/desertthunder/ytm/internal/shared"
	tu "github.com/desertthunder/ytm/internal/testing"
)

func testExport() *models.PlaylistExport {
	playlist := models.NewPlaylist("Test Playlist", "A test playlist")
	playlist.Songs = []models.Song{
		{
			Title:    "Song One",
			Artist:   "Artist One",
			Album:    "Album One",
			Duration: "3:00",
			VideoID:  "vid1",
			AddedAt:  models.Now(),
		},
		{
			Title:    "Song Two",
			Artist:   "Artist Two",
			Duration: "4:00",
			VideoID:  "vid2",
		},
	}

	return &models.PlaylistExport{Playlist: *playlist, ExportedAt: models.Now()}
}

func TestExporters(t *testing.T) {
	export := testExport()

	t.Run("ExportToCSV", func(t *testing.T) {
		data, err := ExportToCSV(export)
		if err != nil {
			t.Fatalf("ExportToCSV failed: %v", err)
		}

		output := string(data)
		if !strings.Contains(output, "Title,Artist,Album,Duration,VideoID,AddedAt") {
			t.Errorf("CSV missing headers, got: %s", output)
		}
		if !strings.Contains(output, "Song One") {
			t.Error("CSV missing first song title")
		}
		if !strings.Contains(output, "vid2") {
			t.Error("CSV missing second song id")
		}

		lines := strings.Split(strings.TrimSpace(output), "\n")
		if len(lines) != 3 {
			t.Errorf("expected header plus 2 records, got %d lines", len(lines))
		}
	})

	t.Run("ExportToMarkdown", func(t *testing.T) {
		data, err := ExportToMarkdown(export)
		if err != nil {
			t.Fatalf("ExportToMarkdown failed: %v", err)
		}

		output := string(data)
		if !strings.Contains(output, "# Test Playlist") {
			t.Error("Markdown missing title heading")
		}
		if !strings.Contains(output, "**Description**: A test playlist") {
			t.Error("Markdown missing description")
		}
		if !strings.Contains(output, "**Songs**: 2") {
			t.Error("Markdown missing song count")
		}
		if !strings.Contains(output, "1. Artist One - Song One (Album One) [3:00]") {
			t.Errorf("Markdown missing first entry, got: %s", output)
		}
		if !strings.Contains(output, "2. Artist Two - Song Two [4:00]") {
			t.Errorf("Markdown album part should be absent, got: %s", output)
		}
	})

	t.Run("ExportToText", func(t *testing.T) {
		data, err := ExportToText(export)
		if err != nil {
			t.Fatalf("ExportToText failed: %v", err)
		}

		output := string(data)
		if !strings.Contains(output, "Playlist: Test Playlist") {
			t.Error("text missing playlist name")
		}
		if !strings.Contains(output, "Songs: 2") {
			t.Error("text missing song count")
		}
		if !strings.Contains(output, "1. Artist One - Song One") {
			t.Error("text missing first entry")
		}
	})

	t.Run("ExportToJSON", func(t *testing.T) {
		data, err := ExportToJSON(export)
		if err != nil {
			t.Fatalf("ExportToJSON failed: %v", err)
		}

		output := string(data)
		if !strings.Contains(output, `"name": "Test Playlist"`) {
			t.Error("JSON missing playlist name")
		}
		if !strings.Contains(output, `"videoId": "vid1"`) {
			t.Error("JSON missing song id")
		}
		if !strings.Contains(output, `"exported_at"`) {
			t.Error("JSON missing export stamp")
		}
	})

	t.Run("ExportToYAML", func(t *testing.T) {
		data, err := ExportToYAML(export)
		if err != nil {
			t.Fatalf("ExportToYAML failed: %v", err)
		}

		output := string(data)
		if !strings.Contains(output, "name: Test Playlist") {
			t.Errorf("YAML missing playlist name, got: %s", output)
		}
		if !strings.Contains(output, "videoId: vid1") {
			t.Error("YAML missing song id")
		}
		if !strings.Contains(output, "songs:") {
			t.Error("YAML missing songs key")
		}
		if strings.Contains(output, "album") && !strings.Contains(output, "album: Album One") {
			t.Error("YAML album should only appear when set")
		}
	})

	t.Run("empty playlist still renders", func(t *testing.T) {
		empty := &models.PlaylistExport{Playlist: *models.NewPlaylist("Empty", "")}

		for _, format := range Formats {
			if _, err := Export(empty, format); err != nil {
				t.Errorf("format %s failed on empty playlist: %v", format, err)
			}
		}
	})
}

func TestParseFormat(t *testing.T) {
	tc := []struct {
		input   string
		want    Format
		wantErr bool
	}{
		{input: "csv", want: FormatCSV},
		{input: "markdown", want: FormatMarkdown},
		{input: "txt", want: FormatText},
		{input: "json", want: FormatJSON},
		{input: "yaml", want: FormatYAML},
		{input: "xml", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, c := range tc {
		t.Run("input "+c.input, func(t *testing.T) {
			format, err := ParseFormat(c.input)
			if c.wantErr {
				if !errors.Is(err, shared.ErrInvalidFlag) {
					t.Errorf("expected ErrInvalidFlag, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if format != c.want {
				t.Errorf("expected %s, got %s", c.want, format)
			}
		})
	}
}

func TestExportFilename(t *testing.T) {
	tc := []struct {
		name   string
		format Format
		want   string
	}{
		{name: "Road Trip", format: FormatCSV, want: "Road Trip.csv"},
		{name: "Road Trip", format: FormatMarkdown, want: "Road Trip.md"},
		{name: "a/b", format: FormatJSON, want: "a_b.json"},
		{name: "chill", format: FormatYAML, want: "chill.yaml"},
	}

	for _, c := range tc {
		if got := ExportFilename(c.name, c.format); got != c.want {
			t.Errorf("ExportFilename(%q, %s) = %q, want %q", c.name, c.format, got, c.want)
		}
	}
}

func TestWriteToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")

	if err := WriteToFile(path, []byte("Title,Artist\n")); err != nil {
		t.Fatalf("WriteToFile failed: %v", err)
	}

	tu.AssertFileExists(t, path)
	if got := tu.MustReadFile(t, path); got != "Title,Artist\n" {
		t.Errorf("unexpected file contents %q", got)
	}
}
