// package formatter renders playlist exports in the formats the export
// command offers (CSV, Markdown, plain text, JSON, YAML)
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/desertthunder/ytm/internal/models"
	"github.com/desertthunder/ytm/internal/shared"
	"gopkg.in/yaml.v3"
)

// Format names one supported export format.
type Format string

const (
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
	FormatText     Format = "txt"
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
)

// Formats lists every supported format in flag help order.
var Formats = []Format{FormatCSV, FormatMarkdown, FormatText, FormatJSON, FormatYAML}

// extensions maps formats to output file extensions.
var extensions = map[Format]string{
	FormatCSV:      "csv",
	FormatMarkdown: "md",
	FormatText:     "txt",
	FormatJSON:     "json",
	FormatYAML:     "yaml",
}

// ParseFormat validates a --format flag value.
func ParseFormat(value string) (Format, error) {
	format := Format(value)
	if _, ok := extensions[format]; !ok {
		return "", fmt.Errorf("%w: unknown format %q (choose from csv, markdown, txt, json, yaml)", shared.ErrInvalidFlag, value)
	}
	return format, nil
}

// Export renders a playlist export in the requested format.
func Export(export *models.PlaylistExport, format Format) ([]byte, error) {
	switch format {
	case FormatCSV:
		return ExportToCSV(export)
	case FormatMarkdown:
		return ExportToMarkdown(export)
	case FormatText:
		return ExportToText(export)
	case FormatJSON:
		return ExportToJSON(export)
	case FormatYAML:
		return ExportToYAML(export)
	default:
		return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidFlag, format)
	}
}

// ExportToCSV converts a PlaylistExport to CSV with columns: Title, Artist, Album, Duration, VideoID, AddedAt
func ExportToCSV(export *models.PlaylistExport) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Title", "Artist", "Album", "Duration", "VideoID", "AddedAt"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, song := range export.Playlist.Songs {
		addedAt := ""
		if !song.AddedAt.IsZero() {
			addedAt = song.AddedAt.Format(time.RFC3339)
		}

		record := []string{
			song.Title,
			song.Artist,
			song.Album,
			song.Duration,
			song.VideoID,
			addedAt,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a PlaylistExport to a Markdown document
func ExportToMarkdown(export *models.PlaylistExport) ([]byte, error) {
	var buf bytes.Buffer
	playlist := export.Playlist

	buf.WriteString(fmt.Sprintf("# %s\n\n", playlist.Name))

	if playlist.Description != "" {
		buf.WriteString(fmt.Sprintf("**Description**: %s\n\n", playlist.Description))
	}

	buf.WriteString(fmt.Sprintf("**Songs**: %d\n", len(playlist.Songs)))
	if !export.ExportedAt.IsZero() {
		buf.WriteString(fmt.Sprintf("**Exported**: %s\n", export.ExportedAt.Format("2006-01-02 15:04")))
	}
	buf.WriteString("\n## Songs\n\n")

	for i, song := range playlist.Songs {
		albumPart := ""
		if song.Album != "" {
			albumPart = fmt.Sprintf(" (%s)", song.Album)
		}
		durationPart := ""
		if song.Duration != "" {
			durationPart = fmt.Sprintf(" [%s]", song.Duration)
		}
		buf.WriteString(fmt.Sprintf("%d. %s%s%s\n", i+1, song.Label(), albumPart, durationPart))
	}

	return buf.Bytes(), nil
}

// ExportToText converts a PlaylistExport to plain text
func ExportToText(export *models.PlaylistExport) ([]byte, error) {
	var buf bytes.Buffer
	playlist := export.Playlist

	buf.WriteString(fmt.Sprintf("Playlist: %s\n", playlist.Name))
	if playlist.Description != "" {
		buf.WriteString(fmt.Sprintf("Description: %s\n", playlist.Description))
	}
	buf.WriteString(fmt.Sprintf("Songs: %d\n\n", len(playlist.Songs)))

	for i, song := range playlist.Songs {
		buf.WriteString(fmt.Sprintf("%d. %s\n", i+1, song.Label()))
	}

	return buf.Bytes(), nil
}

// ExportToJSON renders the export as indented JSON, the same shape the
// playlist store files use plus the export stamp.
func ExportToJSON(export *models.PlaylistExport) ([]byte, error) {
	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to generate JSON: %w", err)
	}
	return append(data, '\n'), nil
}

// yamlSong is the YAML view of one song.
type yamlSong struct {
	Title    string `yaml:"title"`
	Artist   string `yaml:"artist"`
	Album    string `yaml:"album,omitempty"`
	Duration string `yaml:"duration,omitempty"`
	VideoID  string `yaml:"videoId"`
}

// yamlExport is the YAML view of a playlist export.
type yamlExport struct {
	Name        string     `yaml:"name"`
	Description string     `yaml:"description,omitempty"`
	ExportedAt  string     `yaml:"exported_at,omitempty"`
	Songs       []yamlSong `yaml:"songs"`
}

// ExportToYAML renders the export as YAML.
func ExportToYAML(export *models.PlaylistExport) ([]byte, error) {
	view := yamlExport{
		Name:        export.Playlist.Name,
		Description: export.Playlist.Description,
		Songs:       make([]yamlSong, 0, len(export.Playlist.Songs)),
	}
	if !export.ExportedAt.IsZero() {
		view.ExportedAt = export.ExportedAt.Format(time.RFC3339)
	}

	for _, song := range export.Playlist.Songs {
		view.Songs = append(view.Songs, yamlSong{
			Title:    song.Title,
			Artist:   song.Artist,
			Album:    song.Album,
			Duration: song.Duration,
			VideoID:  song.VideoID,
		})
	}

	data, err := yaml.Marshal(view)
	if err != nil {
		return nil, fmt.Errorf("failed to generate YAML: %w", err)
	}

	return data, nil
}

// ExportFilename builds the default output filename for a playlist and format.
func ExportFilename(name string, format Format) string {
	return shared.SafeFilename(name) + "." + extensions[format]
}

// WriteToFile writes rendered export data to disk.
func WriteToFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write export file: %w", err)
	}
	return nil
}
