package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/desertthunder/ytm/internal/formatter"
	"github.com/desertthunder/ytm/internal/models"
	"github.com/desertthunder/ytm/internal/shared"
)

// ExportAll exports the named playlists concurrently and writes a manifest
// summarizing the run.
//
// This method implements a worker pool over the local store. Per-playlist
// failures are collected in the result rather than aborting the run.
func (e *Exporter) ExportAll(
	ctx context.Context,
	prog chan<- ProgressUpdate,
	names []string,
	opts ExportOpts,
) (*BulkResult, error) {
	if e.store == nil {
		return nil, fmt.Errorf("%w: playlist store not initialized", shared.ErrServiceUnavailable)
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: no playlists to export", shared.ErrInvalidInput)
	}

	if opts.Format == "" {
		opts.Format = formatter.FormatJSON
	}
	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("ytm_export_%d", time.Now().Unix())
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 5
	}
	if opts.NumWorkers > 10 {
		opts.NumWorkers = 10
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	result := &BulkResult{
		Total:      len(names),
		OutputDir:  opts.OutputDir,
		Format:     opts.Format,
		ExportedAt: models.Now(),
		Results:    make([]ExportOutcome, 0, len(names)),
	}

	jobs := make(chan string, len(names))
	outcomes := make(chan ExportOutcome, len(names))

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go e.exportWorker(ctx, &wg, jobs, outcomes, opts)
	}

	for _, name := range names {
		jobs <- name
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(outcomes)
	}()

	completed := 0
	for outcome := range outcomes {
		completed++
		result.Results = append(result.Results, outcome)

		if outcome.Error == "" {
			result.Succeeded++
			e.sendProgress(prog, exportCompletedUpdate(completed, len(names), outcome))
		} else {
			result.Failed++
			e.sendProgress(prog, exportFailedUpdate(completed, len(names), outcome))
		}
	}

	manifestPath := filepath.Join(opts.OutputDir, "export_manifest.json")
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return result, fmt.Errorf("export completed but failed to encode manifest: %w", err)
	}
	if err := formatter.WriteToFile(manifestPath, data); err != nil {
		return result, fmt.Errorf("export completed but failed to write manifest: %w", err)
	}

	result.ManifestPath = manifestPath
	e.sendProgress(prog, manifestUpdate(len(names), manifestPath))
	return result, nil
}

// exportWorker drains playlist names from the jobs channel.
func (e *Exporter) exportWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	jobs <-chan string,
	outcomes chan<- ExportOutcome,
	opts ExportOpts,
) {
	defer wg.Done()

	for name := range jobs {
		select {
		case <-ctx.Done():
			return
		default:
		}

		outcomes <- e.exportOne(name, opts)
	}
}

// exportOne renders a single playlist to disk in the requested format.
func (e *Exporter) exportOne(name string, opts ExportOpts) ExportOutcome {
	outcome := ExportOutcome{Name: name}

	playlist, err := e.store.Get(name)
	if err != nil {
		outcome.Error = err.Error()
		return outcome
	}

	export := &models.PlaylistExport{Playlist: *playlist, ExportedAt: models.Now()}
	data, err := formatter.Export(export, opts.Format)
	if err != nil {
		outcome.Error = err.Error()
		return outcome
	}

	path := filepath.Join(opts.OutputDir, formatter.ExportFilename(playlist.Name, opts.Format))
	if err := formatter.WriteToFile(path, data); err != nil {
		outcome.Error = err.Error()
		return outcome
	}

	outcome.File = path
	outcome.Songs = len(playlist.Songs)
	e.logger.Debug("exported playlist", "name", playlist.Name, "path", path)
	return outcome
}
