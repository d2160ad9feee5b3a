// package testing holds fakes and helpers used by tests across packages:
// a scriptable [MockCatalog], failing writers and readers for error paths,
// and filesystem assertions.
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"testing"

	"github.com/desertthunder/ytm/internal/models"
)

// MockCatalog is a configurable test double for [services.Catalog].
// Zero value returns empty results; set the function fields to script
// behavior per test.
type MockCatalog struct {
	SearchFunc     func(ctx context.Context, query string, limit int) ([]models.Track, error)
	WatchQueueFunc func(ctx context.Context, videoID string) (*models.WatchQueue, error)
	LyricsFunc     func(ctx context.Context, browseID string) (*models.Lyrics, error)
	HealthFunc     func(ctx context.Context) (*models.HealthStatus, error)
}

func (m *MockCatalog) Search(ctx context.Context, query string, limit int) ([]models.Track, error) {
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, query, limit)
	}
	return []models.Track{}, nil
}

func (m *MockCatalog) WatchQueue(ctx context.Context, videoID string) (*models.WatchQueue, error) {
	if m.WatchQueueFunc != nil {
		return m.WatchQueueFunc(ctx, videoID)
	}
	return &models.WatchQueue{}, nil
}

func (m *MockCatalog) Lyrics(ctx context.Context, browseID string) (*models.Lyrics, error) {
	if m.LyricsFunc != nil {
		return m.LyricsFunc(ctx, browseID)
	}
	return nil, errors.New("no lyrics")
}

func (m *MockCatalog) Health(ctx context.Context) (*models.HealthStatus, error) {
	if m.HealthFunc != nil {
		return m.HealthFunc(ctx)
	}
	return &models.HealthStatus{Status: "ok"}, nil
}

func (m *MockCatalog) Name() string { return "mock catalog" }

// Track builds a catalog track with the fields tests care about.
func Track(id, title, artist string) models.Track {
	track := models.Track{VideoID: id, Title: title, Duration: "3:00", DurationSeconds: 180}
	if artist != "" {
		track.Artists = []models.Artist{{Name: artist}}
	}
	return track
}

// FWriter is an [io.Writer] that fails every write.
type FWriter struct{}

func (f *FWriter) Write([]byte) (int, error) {
	return 0, errors.New("write failed")
}

// LimitedWriter forwards to target until maxWrites writes have happened,
// then fails. Exercises error paths that need a partial write first.
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

func (l *LimitedWriter) Write(p []byte) (int, error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

// MockRoundTripper returns one scripted response to every request.
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser is an [io.ReadCloser] whose reads fail.
type FCloser struct{}

func (f *FCloser) Read([]byte) (int, error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error { return nil }

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("failed to change directory to %s: %v", dir, err)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	return string(content)
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected a file at %s: %v", path, err)
	}
}

func AssertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		t.Errorf("expected a directory at %s: %v", path, err)
		return
	}
	if !info.IsDir() {
		t.Errorf("expected %s to be a directory", path)
	}
}
