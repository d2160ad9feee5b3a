// LRCLIB [LyricsProvider] implementation
//
// LRCLIB (lrclib.net) serves community lyrics keyed by track metadata, with
// synced LRC bodies where available. Lookup tries an exact /get first, then
// falls back to /search.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/desertthunder/ytm/internal/models"
	"github.com/desertthunder/ytm/internal/shared"
	"golang.org/x/time/rate"
)

const defaultLyricsBaseURL = "https://lrclib.net/api"

// lyricsUserAgent identifies the tool per LRCLIB's usage guidance.
const lyricsUserAgent = "ytm/" + shared.Version

// LyricsService implements [LyricsProvider] against LRCLIB.
type LyricsService struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewLyricsService creates a lyrics client. An empty baseURL falls back to
// the public LRCLIB instance.
func NewLyricsService(baseURL string) *LyricsService {
	if baseURL == "" {
		baseURL = defaultLyricsBaseURL
	}

	return &LyricsService{
		baseURL:    baseURL,
		httpClient: http.DefaultClient,
		// LRCLIB is a free community service; one lookup per track is the
		// expected load, so keep the ceiling low.
		limiter: rate.NewLimiter(rate.Limit(2), 1),
	}
}

// lrclibRecord is LRCLIB's track payload for both /get and /search.
type lrclibRecord struct {
	ID           int     `json:"id"`
	TrackName    string  `json:"trackName"`
	ArtistName   string  `json:"artistName"`
	AlbumName    string  `json:"albumName"`
	Duration     float64 `json:"duration"`
	PlainLyrics  string  `json:"plainLyrics"`
	SyncedLyrics string  `json:"syncedLyrics"`
}

// Find fetches lyrics for a track, preferring synced lines.
//
// Returns [shared.ErrNoLyrics] when neither the exact lookup nor the search
// fallback produces anything usable.
func (l *LyricsService) Find(ctx context.Context, title, artist, album string, durationSeconds int) (*models.Lyrics, error) {
	record, err := l.get(ctx, title, artist, album, durationSeconds)
	if err != nil {
		return nil, err
	}

	if record == nil {
		record, err = l.search(ctx, title, artist)
		if err != nil {
			return nil, err
		}
	}

	if record == nil {
		return nil, shared.ErrNoLyrics
	}

	return record.lyrics()
}

// get performs the exact /get lookup. A 404 is not an error, just a miss.
func (l *LyricsService) get(ctx context.Context, title, artist, album string, durationSeconds int) (*lrclibRecord, error) {
	params := url.Values{}
	params.Set("track_name", title)
	params.Set("artist_name", artist)
	if album != "" {
		params.Set("album_name", album)
	}
	if durationSeconds > 0 {
		params.Set("duration", strconv.Itoa(durationSeconds))
	}

	var record lrclibRecord
	found, err := l.doRequest(ctx, "/get?"+params.Encode(), &record)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}

	return &record, nil
}

// search performs the /search fallback, preferring results with synced lyrics.
func (l *LyricsService) search(ctx context.Context, title, artist string) (*lrclibRecord, error) {
	params := url.Values{}
	params.Set("track_name", title)
	if artist != "" {
		params.Set("artist_name", artist)
	}

	var records []lrclibRecord
	found, err := l.doRequest(ctx, "/search?"+params.Encode(), &records)
	if err != nil {
		return nil, err
	}
	if !found || len(records) == 0 {
		return nil, nil
	}

	for _, record := range records {
		if record.SyncedLyrics != "" {
			return &record, nil
		}
	}
	for _, record := range records {
		if record.PlainLyrics != "" {
			return &record, nil
		}
	}

	return nil, nil
}

// doRequest performs a GET against the LRCLIB API. The found return is
// false for 404 responses, which the API uses for ordinary misses.
func (l *LyricsService) doRequest(ctx context.Context, endpoint string, result any) (found bool, err error) {
	if err := l.limiter.Wait(ctx); err != nil {
		return false, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.baseURL+endpoint, nil)
	if err != nil {
		return false, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", lyricsUserAgent)

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("%w: %v", shared.ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return false, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return false, fmt.Errorf("%w: status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return false, fmt.Errorf("failed to decode response: %w", err)
	}

	return true, nil
}

// lyrics converts an LRCLIB record to the domain shape.
func (r *lrclibRecord) lyrics() (*models.Lyrics, error) {
	lyrics := &models.Lyrics{Source: "LRCLIB"}

	if r.SyncedLyrics != "" {
		lyrics.Lines = ParseLRC(r.SyncedLyrics)
	}

	switch {
	case r.PlainLyrics != "":
		lyrics.Plain = r.PlainLyrics
	case len(lyrics.Lines) > 0:
		texts := make([]string, len(lyrics.Lines))
		for i, line := range lyrics.Lines {
			texts[i] = line.Text
		}
		lyrics.Plain = strings.Join(texts, "\n")
	default:
		return nil, shared.ErrNoLyrics
	}

	return lyrics, nil
}

// lrcLine matches one "[mm:ss.xx] text" lyric line. Centisecond and
// millisecond precision both appear in the wild.
var lrcLine = regexp.MustCompile(`^\[(\d{2}):(\d{2})\.(\d{2,3})\]\s?(.*)$`)

// ParseLRC parses an LRC body into timestamped lines sorted by time.
// Lines without a timestamp (metadata tags, blanks) are dropped.
func ParseLRC(body string) []models.LyricLine {
	var lines []models.LyricLine

	for _, raw := range strings.Split(body, "\n") {
		match := lrcLine.FindStringSubmatch(strings.TrimRight(raw, "\r"))
		if match == nil {
			continue
		}

		minutes, _ := strconv.Atoi(match[1])
		seconds, _ := strconv.Atoi(match[2])
		frac, _ := strconv.Atoi(match[3])

		divisor := 100.0
		if len(match[3]) == 3 {
			divisor = 1000.0
		}

		lines = append(lines, models.LyricLine{
			Time: float64(minutes*60+seconds) + float64(frac)/divisor,
			Text: strings.TrimSpace(match[4]),
		})
	}

	sort.SliceStable(lines, func(i, j int) bool {
		return lines[i].Time < lines[j].Time
	})

	return lines
}
