package tasks

import (
	"github.com/charmbracelet/log"
	"github.com/desertthunder/ytm/internal/formatter"
	"github.com/desertthunder/ytm/internal/models"
	"github.com/desertthunder/ytm/internal/shared"
)

// Library is the slice of the playlist store the exporter needs.
type Library interface {
	Get(name string) (*models.Playlist, error)
}

// ExportOpts configures a bulk export run.
type ExportOpts struct {
	Format     formatter.Format // Output format, default json
	OutputDir  string           // Output directory, default ytm_export_{epoch}
	NumWorkers int              // Concurrent workers, default 5, capped at 10
}

// ExportOutcome is the result of exporting one playlist. Error is a message
// rather than an error value so the manifest serializes cleanly.
type ExportOutcome struct {
	Name  string `json:"name"`
	File  string `json:"file,omitempty"`
	Songs int    `json:"songs"`
	Error string `json:"error,omitempty"`
}

// BulkResult summarizes a bulk export run and doubles as the manifest body.
type BulkResult struct {
	Total        int              `json:"total"`
	Succeeded    int              `json:"succeeded"`
	Failed       int              `json:"failed"`
	OutputDir    string           `json:"output_dir"`
	Format       formatter.Format `json:"format"`
	ExportedAt   models.Timestamp `json:"exported_at"`
	Results      []ExportOutcome  `json:"results"`
	ManifestPath string           `json:"-"`
}

// Exporter walks the playlist library with a worker pool.
type Exporter struct {
	store  Library
	logger *log.Logger
}

// NewExporter creates an Exporter over the given store.
func NewExporter(store Library, logger *log.Logger) *Exporter {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Exporter{
		store:  store,
		logger: logger,
	}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks a worker.
func (e *Exporter) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
		// Sent successfully
	default:
		// Channel full or closed, skip this update
	}
}
