package main

import (
	"bufio"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ytm/internal/library"
	"github.com/desertthunder/ytm/internal/models"
	"github.com/desertthunder/ytm/internal/repositories"
	"github.com/desertthunder/ytm/internal/services"
	"github.com/desertthunder/ytm/internal/shared"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	catalog    services.Catalog
	lyrics     services.LyricsProvider
	api        *services.APIService
	playlists  *library.PlaylistStore
	dislikes   *library.DislikeStore
	db         *sql.DB
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
	input      io.Reader
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Catalog    services.Catalog
	Lyrics     services.LyricsProvider
	API        *services.APIService
	Playlists  *library.PlaylistStore
	Dislikes   *library.DislikeStore
	DB         *sql.DB
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
	Input      io.Reader
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.ConfigPath == "" {
		opts.ConfigPath = "config.toml"
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Input == nil {
		opts.Input = os.Stdin
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Playlists == nil {
		opts.Playlists = library.NewPlaylistStore(opts.Config.Storage.PlaylistsDir)
	}
	if opts.Dislikes == nil {
		opts.Dislikes = library.NewDislikeStore(opts.Config.Storage.DislikesFile)
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		catalog:    opts.Catalog,
		lyrics:     opts.Lyrics,
		api:        opts.API,
		playlists:  opts.Playlists,
		dislikes:   opts.Dislikes,
		db:         opts.DB,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
		input:      opts.Input,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		playCommand, searchCommand, playlistCommand, dislikesCommand, lyricsCommand, authCommand, cacheCommand, setupCommand, apiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// database opens the response cache database on first use and memoizes it.
// The caller must not close the returned handle; Close releases it.
func (r *Runner) database() (*sql.DB, error) {
	if r.db != nil {
		return r.db, nil
	}

	db, err := shared.NewDatabase(r.config.Storage.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	r.db = db
	return db, nil
}

// Close releases resources held by the runner.
func (r *Runner) Close() {
	if r.db != nil {
		r.db.Close()
		r.db = nil
	}
}

// searchSongs queries the catalog, refreshing the response cache on success.
// When the catalog is unreachable the cached result set for the query is
// served instead; fromCache reports which path produced the tracks.
func (r *Runner) searchSongs(ctx context.Context, query string, limit int) (tracks []models.Track, fromCache bool, err error) {
	if r.catalog == nil {
		return nil, false, fmt.Errorf("%w: catalog service not initialized", shared.ErrServiceUnavailable)
	}

	tracks, err = r.catalog.Search(ctx, query, limit)
	if err == nil {
		if db, dbErr := r.database(); dbErr == nil {
			if cacheErr := repositories.NewSearchCache(db).Put(query, tracks); cacheErr != nil {
				r.logger.Warn("failed to refresh search cache", "error", cacheErr)
			}
		} else {
			r.logger.Warn("cache database unavailable", "error", dbErr)
		}
		return tracks, false, nil
	}

	if !errors.Is(err, shared.ErrServiceUnavailable) {
		return nil, false, err
	}

	r.logger.Warn("catalog unreachable, trying the response cache", "query", query, "error", err)

	db, dbErr := r.database()
	if dbErr != nil {
		return nil, false, err
	}

	cached, cacheErr := repositories.NewSearchCache(db).Get(query)
	if cacheErr != nil {
		r.logger.Debug("no cached results", "query", query, "error", cacheErr)
		return nil, false, err
	}

	return cached, true, nil
}

// promptLine writes a prompt and reads one line from the runner's input.
func (r *Runner) promptLine(prompt string) (string, error) {
	if err := r.writePlain("%s", prompt); err != nil {
		return "", err
	}

	reader := bufio.NewReader(r.input)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read input: %w", err)
	}

	return strings.TrimSpace(line), nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}

// renderTable renders rows under headers with the shared rounded style.
func renderTable(headers []string, rows [][]string) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i := range headers {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		tr := make(table.Row, columns)
		for i := 0; i < columns; i++ {
			if i < len(row) {
				tr[i] = row[i]
			} else {
				tr[i] = ""
			}
		}
		tw.AppendRow(tr)
	}

	return tw.Render()
}

// queryFromArgs joins a declared query argument with any trailing positional
// args, so unquoted multi-word queries work the way users type them.
func queryFromArgs(cmd *cli.Command) string {
	parts := []string{cmd.StringArg("query")}
	parts = append(parts, cmd.Args().Slice()...)
	return strings.TrimSpace(strings.Join(parts, " "))
}
