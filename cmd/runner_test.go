package main

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/ytm/internal/library"
	"github.com/desertthunder/ytm/internal/models"
	"github.com/desertthunder/ytm/internal/repositories"
	"github.com/desertthunder/ytm/internal/services"
	"github.com/desertthunder/ytm/internal/shared"
	tu "github.com/desertthunder/ytm/internal/testing"
	"github.com/urfave/cli/v3"
)

// testConfig returns a config whose storage paths live under a per-test
// temp directory, so runners never touch the working directory.
func testConfig(t *testing.T) *shared.Config {
	t.Helper()

	dir := t.TempDir()
	config := shared.DefaultConfig()
	config.Storage.PlaylistsDir = filepath.Join(dir, "playlists")
	config.Storage.DislikesFile = filepath.Join(dir, "dislikes.json")
	config.Storage.Database = filepath.Join(dir, "cache.db")
	return config
}

// testDB creates an in-memory SQLite database with migrations applied
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	return db
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := testConfig(t)
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			input := strings.NewReader("")
			httpClient := &http.Client{}
			catalog := &tu.MockCatalog{}
			api := &services.APIService{}
			playlists := library.NewPlaylistStore(config.Storage.PlaylistsDir)
			dislikes := library.NewDislikeStore(config.Storage.DislikesFile)

			runner := NewRunner(RunnerOpts{
				Config:     config,
				Logger:     logger,
				Output:     output,
				Input:      input,
				HTTPClient: httpClient,
				Catalog:    catalog,
				API:        api,
				Playlists:  playlists,
				Dislikes:   dislikes,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.input != input {
				t.Error("expected input to be set")
			}
			if runner.httpClient != httpClient {
				t.Error("expected httpClient to be set")
			}
			if runner.catalog != catalog {
				t.Error("expected catalog to be set")
			}
			if runner.api != api {
				t.Error("expected api to be set")
			}
			if runner.playlists != playlists {
				t.Error("expected playlists to be set")
			}
			if runner.dislikes != dislikes {
				t.Error("expected dislikes to be set")
			}
		})

		t.Run("with nil config uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{
				Config: nil,
			})

			if runner.config == nil {
				t.Error("expected default config to be set")
			}
		})

		t.Run("with nil logger uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{
				Logger: nil,
			})

			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
		})

		t.Run("with nil output uses stdout", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{
				Output: nil,
			})

			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
		})

		t.Run("with nil input uses stdin", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{
				Input: nil,
			})

			if runner.input != os.Stdin {
				t.Error("expected input to default to os.Stdin")
			}
		})

		t.Run("with nil httpClient uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{
				HTTPClient: nil,
			})

			if runner.httpClient != http.DefaultClient {
				t.Error("expected httpClient to default to http.DefaultClient")
			}
		})

		t.Run("with configPath sets field", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{
				ConfigPath: "/test/path/config.toml",
			})

			if runner.configPath != "/test/path/config.toml" {
				t.Errorf("expected configPath to be set, got %s", runner.configPath)
			}
		})

		t.Run("with empty configPath uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{
				ConfigPath: "",
			})

			if runner.configPath != "config.toml" {
				t.Errorf("expected default configPath, got %s", runner.configPath)
			}
		})

		t.Run("with nil stores builds them from config paths", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{
				Config: testConfig(t),
			})

			if runner.playlists == nil {
				t.Error("expected playlist store to be constructed")
			}
			if runner.dislikes == nil {
				t.Error("expected dislike store to be constructed")
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("pretty output is indented and newline terminated", func(t *testing.T) {
			var buf bytes.Buffer
			runner := NewRunner(RunnerOpts{Output: &buf})

			if err := runner.writeJSON(map[string]int{"count": 2}, true); err != nil {
				t.Fatalf("writeJSON: %v", err)
			}

			got := buf.String()
			if !strings.Contains(got, `"count": 2`) {
				t.Errorf("expected indented JSON, got %s", got)
			}
			if !strings.HasSuffix(got, "\n") {
				t.Error("expected a trailing newline")
			}
		})

		t.Run("compact output is a single line", func(t *testing.T) {
			var buf bytes.Buffer
			runner := NewRunner(RunnerOpts{Output: &buf})

			if err := runner.writeJSON(map[string]int{"count": 2}, false); err != nil {
				t.Fatalf("writeJSON: %v", err)
			}

			if got, want := buf.String(), `{"count":2}`+"\n"; got != want {
				t.Errorf("got %q, want %q", got, want)
			}
		})

		t.Run("unmarshalable values fail", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}})

			err := runner.writeJSON(func() {}, false)
			if err == nil || !strings.Contains(err.Error(), "failed to marshal JSON") {
				t.Errorf("expected a marshal error, got %v", err)
			}
		})

		t.Run("write failures surface", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writeJSON(map[string]int{"count": 2}, false)
			if err == nil || !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected a write error, got %v", err)
			}
		})

		t.Run("trailing newline failures surface", func(t *testing.T) {
			lw := tu.NewLimitedWriter(1, 0, &bytes.Buffer{})
			runner := NewRunner(RunnerOpts{Output: &lw})

			err := runner.writeJSON(map[string]int{"count": 2}, false)
			if err == nil || !strings.Contains(err.Error(), "failed to write newline") {
				t.Errorf("expected a newline error, got %v", err)
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		t.Run("formats into the output writer", func(t *testing.T) {
			var buf bytes.Buffer
			runner := NewRunner(RunnerOpts{Output: &buf})

			if err := runner.writePlain("queued %d tracks", 4); err != nil {
				t.Fatalf("writePlain: %v", err)
			}
			if buf.String() != "queued 4 tracks" {
				t.Errorf("unexpected output %q", buf.String())
			}
		})

		t.Run("write failures surface", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writePlain("queued")
			if err == nil || !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected a write error, got %v", err)
			}
		})
	})

	t.Run("writePlainln", func(t *testing.T) {
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Output: output})

		if err := runner.writePlainln("done: %d", 3); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if output.String() != "\ndone: 3\n" {
			t.Errorf("expected surrounding newlines, got %q", output.String())
		}
	})

	t.Run("register", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{})
		commands := runner.register()

		if len(commands) == 0 {
			t.Error("expected at least one command to be registered")
		}

		names := make(map[string]bool, len(commands))
		for i, cmd := range commands {
			if cmd == nil {
				t.Errorf("command at index %d is nil", i)
				continue
			}
			names[cmd.Name] = true
		}

		for _, want := range []string{"play", "search", "playlist", "dislikes", "lyrics", "auth", "cache", "setup", "api"} {
			if !names[want] {
				t.Errorf("expected %q command to be registered", want)
			}
		}
	})

	t.Run("database", func(t *testing.T) {
		t.Run("returns the injected handle", func(t *testing.T) {
			db := testDB(t)
			runner := NewRunner(RunnerOpts{Config: testConfig(t), DB: db})

			got, err := runner.database()
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if got != db {
				t.Error("expected the injected database handle")
			}
		})

		t.Run("opens and memoizes the configured database", func(t *testing.T) {
			config := testConfig(t)
			runner := NewRunner(RunnerOpts{Config: config})
			defer runner.Close()

			first, err := runner.database()
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			second, err := runner.database()
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if first != second {
				t.Error("expected the database handle to be memoized")
			}

			tu.AssertFileExists(t, config.Storage.Database)
		})

		t.Run("Close is idempotent", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Config: testConfig(t)})
			if _, err := runner.database(); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			runner.Close()
			runner.Close()
		})
	})
}

func TestSearchSongs(t *testing.T) {
	ctx := context.Background()

	t.Run("returns catalog results and refreshes the cache", func(t *testing.T) {
		db := testDB(t)
		catalog := &tu.MockCatalog{
			SearchFunc: func(ctx context.Context, query string, limit int) ([]models.Track, error) {
				return []models.Track{
					tu.Track("vid1", "First Song", "Artist A"),
					tu.Track("vid2", "Second Song", "Artist B"),
				}, nil
			},
		}
		runner := NewRunner(RunnerOpts{Config: testConfig(t), Catalog: catalog, DB: db})

		tracks, fromCache, err := runner.searchSongs(ctx, "test query", 5)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if fromCache {
			t.Error("expected a live result, not a cached one")
		}
		if len(tracks) != 2 {
			t.Fatalf("expected 2 tracks, got %d", len(tracks))
		}

		cached, err := repositories.NewSearchCache(db).Get("test query")
		if err != nil {
			t.Fatalf("expected the result set to be cached, got %v", err)
		}
		if len(cached) != 2 {
			t.Errorf("expected 2 cached tracks, got %d", len(cached))
		}
	})

	t.Run("serves cached results when the catalog is unreachable", func(t *testing.T) {
		db := testDB(t)
		seeded := []models.Track{tu.Track("vid1", "Cached Song", "Artist A")}
		if err := repositories.NewSearchCache(db).Put("test query", seeded); err != nil {
			t.Fatalf("failed to seed cache: %v", err)
		}

		catalog := &tu.MockCatalog{
			SearchFunc: func(ctx context.Context, query string, limit int) ([]models.Track, error) {
				return nil, fmt.Errorf("%w: connection refused", shared.ErrServiceUnavailable)
			},
		}
		runner := NewRunner(RunnerOpts{Config: testConfig(t), Catalog: catalog, DB: db})

		tracks, fromCache, err := runner.searchSongs(ctx, "test query", 5)
		if err != nil {
			t.Fatalf("expected cached results, got error %v", err)
		}
		if !fromCache {
			t.Error("expected the result to come from the cache")
		}
		if len(tracks) != 1 || tracks[0].VideoID != "vid1" {
			t.Errorf("expected the seeded track, got %+v", tracks)
		}
	})

	t.Run("returns the catalog error when nothing is cached", func(t *testing.T) {
		db := testDB(t)
		catalog := &tu.MockCatalog{
			SearchFunc: func(ctx context.Context, query string, limit int) ([]models.Track, error) {
				return nil, fmt.Errorf("%w: connection refused", shared.ErrServiceUnavailable)
			},
		}
		runner := NewRunner(RunnerOpts{Config: testConfig(t), Catalog: catalog, DB: db})

		_, _, err := runner.searchSongs(ctx, "never searched", 5)
		if err == nil {
			t.Fatal("expected an error when the catalog is down and the cache is empty")
		}
		if !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected ErrServiceUnavailable, got %v", err)
		}
	})

	t.Run("propagates non-availability errors without a cache lookup", func(t *testing.T) {
		db := testDB(t)
		seeded := []models.Track{tu.Track("vid1", "Cached Song", "Artist A")}
		if err := repositories.NewSearchCache(db).Put("bad query", seeded); err != nil {
			t.Fatalf("failed to seed cache: %v", err)
		}

		catalog := &tu.MockCatalog{
			SearchFunc: func(ctx context.Context, query string, limit int) ([]models.Track, error) {
				return nil, errors.New("malformed query")
			},
		}
		runner := NewRunner(RunnerOpts{Config: testConfig(t), Catalog: catalog, DB: db})

		_, fromCache, err := runner.searchSongs(ctx, "bad query", 5)
		if err == nil {
			t.Fatal("expected the catalog error to propagate")
		}
		if fromCache {
			t.Error("cached results should not mask a request error")
		}
	})

	t.Run("fails when no catalog is configured", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{Config: testConfig(t)})

		_, _, err := runner.searchSongs(ctx, "anything", 5)
		if err == nil {
			t.Fatal("expected an error without a catalog")
		}
		if !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected ErrServiceUnavailable, got %v", err)
		}
	})
}

func TestAuthStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("reports a healthy authenticated proxy", func(t *testing.T) {
		output := &bytes.Buffer{}
		catalog := &tu.MockCatalog{
			HealthFunc: func(ctx context.Context) (*models.HealthStatus, error) {
				return &models.HealthStatus{Status: "ok", Authenticated: true}, nil
			},
		}
		config := testConfig(t)
		config.Auth.Enabled = true
		config.Auth.Method = "browser"
		runner := NewRunner(RunnerOpts{Config: config, Catalog: catalog, Output: output})

		if err := runner.AuthStatus(ctx, &cli.Command{}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		for _, want := range []string{"Auth: enabled (browser)", "✓ Proxy is healthy", "Status: ok", "✓ Authenticated"} {
			if !strings.Contains(output.String(), want) {
				t.Errorf("expected output to contain %q, got:\n%s", want, output.String())
			}
		}
	})

	t.Run("reports an unauthenticated proxy", func(t *testing.T) {
		output := &bytes.Buffer{}
		catalog := &tu.MockCatalog{
			HealthFunc: func(ctx context.Context) (*models.HealthStatus, error) {
				return &models.HealthStatus{Status: "ok"}, nil
			},
		}
		runner := NewRunner(RunnerOpts{Config: testConfig(t), Catalog: catalog, Output: output})

		if err := runner.AuthStatus(ctx, &cli.Command{}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if !strings.Contains(output.String(), "Auth: disabled") {
			t.Errorf("expected the disabled auth line, got:\n%s", output.String())
		}
		if !strings.Contains(output.String(), "✗ Not authenticated") {
			t.Errorf("expected the unauthenticated line, got:\n%s", output.String())
		}
	})

	t.Run("fails when the proxy is unreachable", func(t *testing.T) {
		catalog := &tu.MockCatalog{
			HealthFunc: func(ctx context.Context) (*models.HealthStatus, error) {
				return nil, fmt.Errorf("%w: connection refused", shared.ErrServiceUnavailable)
			},
		}
		runner := NewRunner(RunnerOpts{Config: testConfig(t), Catalog: catalog, Output: &bytes.Buffer{}})

		err := runner.AuthStatus(ctx, &cli.Command{})
		if err == nil {
			t.Fatal("expected an error when the proxy is down")
		}
		if !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected ErrServiceUnavailable, got %v", err)
		}
	})
}

func TestPromptLine(t *testing.T) {
	t.Run("reads a trimmed line", func(t *testing.T) {
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{
			Output: output,
			Input:  strings.NewReader("  hello world  \n"),
		})

		line, err := runner.promptLine("Search for a song: ")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if line != "hello world" {
			t.Errorf("expected trimmed input, got %q", line)
		}
		if output.String() != "Search for a song: " {
			t.Errorf("expected the prompt to be written, got %q", output.String())
		}
	})

	t.Run("tolerates a missing trailing newline", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{
			Output: &bytes.Buffer{},
			Input:  strings.NewReader("partial"),
		})

		line, err := runner.promptLine("> ")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if line != "partial" {
			t.Errorf("expected %q, got %q", "partial", line)
		}
	})

	t.Run("fails on empty input", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{
			Output: &bytes.Buffer{},
			Input:  strings.NewReader(""),
		})

		_, err := runner.promptLine("> ")
		if err == nil {
			t.Fatal("expected an error for exhausted input")
		}
		if !strings.Contains(err.Error(), "failed to read input") {
			t.Errorf("expected read error, got %v", err)
		}
	})
}

func TestQueryFromArgs(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"no query", []string{"search"}, ""},
		{"single word", []string{"search", "daydreaming"}, "daydreaming"},
		{"unquoted multi-word query", []string{"search", "no", "surprises", "radiohead"}, "no surprises radiohead"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			cmd := &cli.Command{
				Name:      "search",
				Arguments: []cli.Argument{&cli.StringArg{Name: "query"}},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					got = queryFromArgs(cmd)
					return nil
				},
			}

			if err := cmd.Run(context.Background(), tt.args); err != nil {
				t.Fatalf("command failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("queryFromArgs() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderTable(t *testing.T) {
	t.Run("renders headers and rows", func(t *testing.T) {
		out := renderTable(
			[]string{"NAME", "SONGS"},
			[][]string{
				{"road trip", "12"},
				{"focus", "30"},
			},
		)

		for _, want := range []string{"NAME", "SONGS", "road trip", "focus", "12", "30"} {
			if !strings.Contains(out, want) {
				t.Errorf("expected table to contain %q, got:\n%s", want, out)
			}
		}
	})

	t.Run("pads short rows", func(t *testing.T) {
		out := renderTable(
			[]string{"NAME", "SONGS", "UPDATED"},
			[][]string{{"solo"}},
		)

		if !strings.Contains(out, "solo") {
			t.Errorf("expected table to contain the row value, got:\n%s", out)
		}
	})

	t.Run("returns empty string without headers", func(t *testing.T) {
		if out := renderTable(nil, nil); out != "" {
			t.Errorf("expected empty output, got %q", out)
		}
	})
}
