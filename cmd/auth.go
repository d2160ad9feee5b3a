package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/desertthunder/ytm/internal/server"
	"github.com/desertthunder/ytm/internal/shared"
	"github.com/urfave/cli/v3"
	"golang.org/x/oauth2"
)

// youtubeScope is the Google OAuth scope the catalog proxy needs.
const youtubeScope = "https://www.googleapis.com/auth/youtube"

// googleEndpoint is Google's OAuth2 endpoint pair. Credentials travel as
// form parameters, which is what Google's token server expects.
var googleEndpoint = oauth2.Endpoint{
	AuthURL:   "https://accounts.google.com/o/oauth2/auth",
	TokenURL:  "https://oauth2.googleapis.com/token",
	AuthStyle: oauth2.AuthStyleInParams,
}

// oauthWait bounds how long setup-oauth waits for the browser callback.
const oauthWait = 5 * time.Minute

// AuthStatus reports the configured auth method and the proxy's health.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	if r.config.Auth.Enabled {
		r.writePlain("Auth: enabled (%s)\n", r.config.Auth.Method)
		if r.config.Catalog.AuthFile != "" {
			r.writePlain("Auth file: %s\n", r.config.Catalog.AuthFile)
		}
	} else {
		r.writePlain("Auth: disabled\n")
	}

	if r.catalog == nil {
		return fmt.Errorf("%w: catalog service not initialized", shared.ErrServiceUnavailable)
	}

	r.logger.Info("checking proxy health", "url", r.config.Catalog.BaseURL)

	status, err := r.catalog.Health(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrServiceUnavailable, err)
	}

	r.writePlain("✓ Proxy is healthy\n")
	r.writePlain("Status: %s\n", status.Status)
	if status.Authenticated {
		r.writePlain("Authentication: ✓ Authenticated\n")
	} else {
		r.writePlain("Authentication: ✗ Not authenticated\n")
	}
	return nil
}

// AuthSetupBrowser configures browser authentication from a cURL command
// copied out of the browser's network inspector.
func (r *Runner) AuthSetupBrowser(ctx context.Context, cmd *cli.Command) error {
	curlCmd := cmd.String("curl")
	curlFile := cmd.String("curl-file")
	outputPath := cmd.String("output")

	if curlCmd == "" && curlFile == "" {
		return fmt.Errorf("%w: either --curl or --curl-file must be provided", shared.ErrMissingArgument)
	}
	if curlCmd != "" && curlFile != "" {
		return fmt.Errorf("%w: cannot specify both --curl and --curl-file", shared.ErrInvalidArgument)
	}

	var headers *shared.CurlHeaders
	var err error

	if curlFile != "" {
		headers, err = shared.ParseCurlFile(curlFile)
		if err != nil {
			return fmt.Errorf("failed to parse cURL file: %w", err)
		}
		r.logger.Info("parsed cURL from file", "file", curlFile)
	} else {
		headers, err = shared.ParseCurlCommand(curlCmd)
		if err != nil {
			return fmt.Errorf("failed to parse cURL command: %w", err)
		}
		r.logger.Info("parsed cURL command")
	}

	warnings, err := headers.Validate()
	if err != nil {
		return err
	}
	for _, warning := range warnings {
		r.logger.Warn(warning)
	}

	authJSON, err := headers.ToBrowserJSON()
	if err != nil {
		return fmt.Errorf("failed to build auth file: %w", err)
	}

	if dir := filepath.Dir(outputPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(outputPath, authJSON, 0600); err != nil {
		return fmt.Errorf("failed to write auth file: %w", err)
	}
	r.logger.Info("auth file saved", "path", outputPath)

	r.uploadAuthFile(ctx, authJSON)

	if err := r.enableAuth("browser", outputPath); err != nil {
		return err
	}

	r.writePlain("✓ Browser authentication configured\n")
	r.writePlain("Auth file saved to: %s\n", outputPath)
	r.writePlain("Try it with: ytm search \"your song\"\n")
	return nil
}

// AuthSetupOAuth runs the OAuth authorization-code flow against Google and
// saves the token for the catalog proxy.
func (r *Runner) AuthSetupOAuth(ctx context.Context, cmd *cli.Command) error {
	clientID, clientSecret, err := r.clientCredentials(cmd)
	if err != nil {
		return err
	}

	addr := r.config.Server.Addr()
	conf := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     googleEndpoint,
		RedirectURL:  fmt.Sprintf("http://%s/callback", addr),
		Scopes:       []string{youtubeScope},
	}

	state := shared.GenerateID()
	handler := server.NewOAuthHandler(conf, state)

	router := server.NewBasicRouter()
	router.Use(server.Logging(r.logger))
	router.Handler(handler)

	srv := &http.Server{Addr: addr, Handler: router}
	serverErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	authURL := conf.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
	r.writePlain("Visit this URL to authorize ytm:\n%s\n", authURL)

	if !cmd.Bool("no-browser") {
		if err := shared.OpenBrowser(authURL); err != nil {
			r.logger.Warn("could not open browser", "error", err)
		}
	}

	r.writePlain("Waiting for authorization...\n")

	var result server.OAuthResult
	select {
	case result = <-handler.Result():
	case err := <-serverErr:
		return fmt.Errorf("callback server failed: %w", err)
	case <-time.After(oauthWait):
		return fmt.Errorf("%w: no authorization after %s", shared.ErrTimeout, oauthWait)
	case <-ctx.Done():
		return ctx.Err()
	}

	if err := result.Error(); err != nil {
		return err
	}

	outputPath := cmd.String("output")
	tokenJSON, err := marshalOAuthToken(result.Token, youtubeScope)
	if err != nil {
		return err
	}
	if err := os.WriteFile(outputPath, tokenJSON, 0600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	r.logger.Info("token saved", "path", outputPath)

	r.uploadAuthFile(ctx, tokenJSON)

	if err := r.enableAuth("oauth", outputPath); err != nil {
		return err
	}

	r.writePlain("✓ OAuth authentication configured\n")
	r.writePlain("Token saved to: %s\n", outputPath)
	return nil
}

// AuthDisable turns authentication off without deleting saved auth files.
func (r *Runner) AuthDisable(ctx context.Context, cmd *cli.Command) error {
	r.config.Auth.Enabled = false
	r.config.Auth.Method = ""

	if err := shared.SaveConfig(r.configPath, r.config); err != nil {
		return err
	}

	r.logger.Info("authentication disabled")
	return r.writePlain("✓ Authentication disabled\n")
}

// enableAuth records the configured method and auth file in the config.
func (r *Runner) enableAuth(method, authFile string) error {
	r.config.Auth.Enabled = true
	r.config.Auth.Method = method
	r.config.Catalog.AuthFile = authFile

	if err := shared.SaveConfig(r.configPath, r.config); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	return nil
}

// uploadAuthFile pushes auth content to the proxy. Failure is non-fatal; the
// auth file path travels with every request anyway.
func (r *Runner) uploadAuthFile(ctx context.Context, authJSON []byte) {
	if r.api == nil {
		return
	}

	resp, err := r.api.UploadJSON(ctx, "/auth/upload", authJSON)
	if err != nil {
		r.logger.Warn("proxy upload failed, continuing with local auth file", "error", err)
		return
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		r.logger.Warn("proxy rejected auth upload", "status", resp.StatusCode)
		return
	}

	r.logger.Info("auth uploaded to proxy")
}

// clientCredentials resolves the Google client id and secret from flags, a
// credentials file, or a scan for client_secret*.json next to the config.
func (r *Runner) clientCredentials(cmd *cli.Command) (string, string, error) {
	clientID := cmd.String("client-id")
	clientSecret := cmd.String("client-secret")
	if clientID != "" && clientSecret != "" {
		return clientID, clientSecret, nil
	}

	if path := cmd.String("credentials"); path != "" {
		return parseClientCredentials(path)
	}

	patterns := []string{
		"client_secret*.json",
		filepath.Join("auth", "client_secret*.json"),
		filepath.Join("credentials", "client_secret*.json"),
	}
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil || len(matches) == 0 {
			continue
		}
		r.logger.Info("found credentials file", "path", matches[0])
		return parseClientCredentials(matches[0])
	}

	return "", "", fmt.Errorf("%w: pass --client-id and --client-secret, or --credentials with a client_secret*.json", shared.ErrMissingConfig)
}

// parseClientCredentials reads a Google client credentials file in the
// installed, web, or flat layout.
func parseClientCredentials(path string) (string, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", "", fmt.Errorf("failed to read credentials file: %w", err)
	}

	type client struct {
		ClientID     string `json:"client_id"`
		ClientSecret string `json:"client_secret"`
	}
	var raw struct {
		Installed *client `json:"installed"`
		Web       *client `json:"web"`
		client
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return "", "", fmt.Errorf("%w: %s is not valid JSON", shared.ErrInvalidConfig, path)
	}

	candidates := []*client{raw.Installed, raw.Web, &raw.client}
	for _, c := range candidates {
		if c != nil && c.ClientID != "" && c.ClientSecret != "" {
			return c.ClientID, c.ClientSecret, nil
		}
	}

	return "", "", fmt.Errorf("%w: %s has no client_id/client_secret", shared.ErrInvalidConfig, path)
}

// marshalOAuthToken renders a token in the shape the proxy's library expects.
func marshalOAuthToken(token *oauth2.Token, scope string) ([]byte, error) {
	payload := map[string]any{
		"access_token":  token.AccessToken,
		"refresh_token": token.RefreshToken,
		"token_type":    token.TokenType,
		"scope":         scope,
		"expires_at":    token.Expiry.Unix(),
		"expires_in":    int64(time.Until(token.Expiry).Seconds()),
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal token: %w", err)
	}
	return data, nil
}
