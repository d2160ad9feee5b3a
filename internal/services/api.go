// Raw HTTP access to the FastAPI proxy
//
// Used by the api and auth commands, which deal in raw status codes and
// bodies rather than the typed [Catalog] operations.
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// APIService performs raw requests against the proxy, leaving status
// handling to the caller.
type APIService struct {
	baseURL    string
	httpClient *http.Client
}

// NewAPIService creates a raw proxy client. An empty baseURL falls back to
// the local proxy default; a nil client uses http.DefaultClient.
func NewAPIService(baseURL string, client *http.Client) *APIService {
	if baseURL == "" {
		baseURL = defaultCatalogBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &APIService{baseURL: baseURL, httpClient: client}
}

// APIResponse carries a raw proxy response. When the body parses as JSON,
// IsJSON is set and JSONData holds the decoded value.
type APIResponse struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	IsJSON     bool
	JSONData   any
}

// Get performs a GET request against path.
func (a *APIService) Get(ctx context.Context, path string) (*APIResponse, error) {
	return a.roundTrip(ctx, http.MethodGet, path, nil)
}

// Post sends data as a JSON body to path.
func (a *APIService) Post(ctx context.Context, path string, data []byte) (*APIResponse, error) {
	return a.roundTrip(ctx, http.MethodPost, path, data)
}

// UploadJSON uploads JSON content, such as an auth file, to path.
func (a *APIService) UploadJSON(ctx context.Context, path string, jsonData []byte) (*APIResponse, error) {
	return a.Post(ctx, path, jsonData)
}

func (a *APIService) roundTrip(ctx context.Context, method, path string, data []byte) (*APIResponse, error) {
	var body io.Reader
	if data != nil {
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if data != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	apiResp := &APIResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       raw,
	}

	var decoded any
	if err := json.Unmarshal(raw, &decoded); err == nil {
		apiResp.IsJSON = true
		apiResp.JSONData = decoded
	}

	return apiResp, nil
}
