// YouTube Music [Catalog] implementation
//
// Communicates with the FastAPI proxy wrapping the ytmusicapi Python
// library. Search, watch queues, and lyrics all go through the proxy; an
// auth file uploaded during setup is referenced per-request by header.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/desertthunder/ytm/internal/models"
	"github.com/desertthunder/ytm/internal/shared"
	"golang.org/x/time/rate"
)

const defaultCatalogBaseURL string = "http://127.0.0.1:8000"

// YTMService implements [Catalog] against the ytmusicapi proxy.
type YTMService struct {
	baseURL    string
	authFile   string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewYTMService creates a catalog client. An empty baseURL falls back to
// the local proxy default.
func NewYTMService(baseURL string) *YTMService {
	if baseURL == "" {
		baseURL = defaultCatalogBaseURL
	}

	return &YTMService{
		baseURL:    baseURL,
		httpClient: http.DefaultClient,
		// The proxy fronts an unofficial API; keep request bursts polite.
		limiter: rate.NewLimiter(rate.Limit(4), 2),
	}
}

// Name returns the catalog name.
func (y *YTMService) Name() string {
	return "YouTube Music"
}

// SetAuthFile stores the auth file path forwarded to the proxy on each request.
func (y *YTMService) SetAuthFile(path string) {
	y.authFile = path
}

func (y *YTMService) doRequest(ctx context.Context, method, endpoint string, result any) error {
	if err := y.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, y.baseURL+endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if y.authFile != "" {
		req.Header.Set("X-Auth-File", y.authFile)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := y.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp struct {
			Detail string `json:"detail"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil && errResp.Detail != "" {
			return fmt.Errorf("%w: status %d: %s", shared.ErrAPIRequest, resp.StatusCode, errResp.Detail)
		}
		return fmt.Errorf("%w: status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// Health checks the proxy's /health endpoint.
func (y *YTMService) Health(ctx context.Context) (*models.HealthStatus, error) {
	var status models.HealthStatus
	if err := y.doRequest(ctx, http.MethodGet, "/health", &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// Search finds songs matching the query.
//
// Calls GET /api/search?q={query}&filter=songs on the proxy.
func (y *YTMService) Search(ctx context.Context, query string, limit int) ([]models.Track, error) {
	endpoint := fmt.Sprintf("/api/search?q=%s&filter=songs", url.QueryEscape(query))
	if limit > 0 {
		endpoint += fmt.Sprintf("&limit=%d", limit)
	}

	var tracks []models.Track
	if err := y.doRequest(ctx, http.MethodGet, endpoint, &tracks); err != nil {
		return nil, err
	}

	return tracks, nil
}

// WatchQueue fetches the radio continuation for a seed track.
//
// Calls GET /api/watch?video_id={id} on the proxy, which wraps
// get_watch_playlist. The response's first track is the seed itself and its
// "lyrics" field is a browse id for [YTMService.Lyrics].
func (y *YTMService) WatchQueue(ctx context.Context, videoID string) (*models.WatchQueue, error) {
	if videoID == "" {
		return nil, fmt.Errorf("%w: video id", shared.ErrMissingArgument)
	}

	endpoint := fmt.Sprintf("/api/watch?video_id=%s", url.QueryEscape(videoID))

	var queue models.WatchQueue
	if err := y.doRequest(ctx, http.MethodGet, endpoint, &queue); err != nil {
		return nil, err
	}

	return &queue, nil
}

// Lyrics fetches the catalog's plain lyric sheet by browse id.
//
// Calls GET /api/lyrics/{browseId} on the proxy.
func (y *YTMService) Lyrics(ctx context.Context, browseID string) (*models.Lyrics, error) {
	if browseID == "" {
		return nil, fmt.Errorf("%w: lyrics browse id", shared.ErrMissingArgument)
	}

	var resp struct {
		Lyrics string `json:"lyrics"`
		Source string `json:"source"`
	}
	if err := y.doRequest(ctx, http.MethodGet, "/api/lyrics/"+url.PathEscape(browseID), &resp); err != nil {
		return nil, err
	}

	if resp.Lyrics == "" {
		return nil, shared.ErrNoLyrics
	}

	source := resp.Source
	if source == "" {
		source = y.Name()
	}

	return &models.Lyrics{Plain: resp.Lyrics, Source: source}, nil
}
