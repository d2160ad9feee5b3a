package server

import (
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/desertthunder/ytm/internal/shared"
	"golang.org/x/oauth2"
)

const successPage = `<!DOCTYPE html>
<html>
<head>
  <title>ytm</title>
  <style>
    body { font-family: sans-serif; display: grid; place-items: center; height: 100vh; margin: 0; }
    main { text-align: center; }
    h1 { color: #c00; }
  </style>
</head>
<body>
  <main>
    <h1>&#10003; Authorization Successful</h1>
    <p>You can close this tab. ytm finishes setup in the terminal.</p>
  </main>
</body>
</html>
`

// OAuthResult is the outcome of one authorization-code flow.
type OAuthResult struct {
	Token *oauth2.Token
	err   error
}

// Error returns the failure that ended the flow, if any.
func (o *OAuthResult) Error() error {
	return o.err
}

// OAuthHandler serves the authorization-code callback. The first request
// decides the flow's outcome; replays get a 400.
type OAuthHandler struct {
	config *oauth2.Config
	state  string

	claimed atomic.Bool
	once    sync.Once
	results chan OAuthResult
}

// NewOAuthHandler creates a callback handler. The state token must be
// random per flow; it is matched against the callback's state parameter to
// reject forged requests.
func NewOAuthHandler(config *oauth2.Config, state string) *OAuthHandler {
	return &OAuthHandler{
		config:  config,
		state:   state,
		results: make(chan OAuthResult, 1),
	}
}

// Routes returns the patterns this handler serves.
func (h *OAuthHandler) Routes() []string {
	return []string{"GET /callback"}
}

// Result returns the channel carrying the flow outcome. Exactly one value
// is delivered, then the channel closes.
func (h *OAuthHandler) Result() <-chan OAuthResult {
	return h.results
}

// Send delivers result to the waiting caller. Later calls are dropped.
func (h *OAuthHandler) Send(result OAuthResult) {
	h.once.Do(func() {
		h.results <- result
		close(h.results)
	})
}

func (h *OAuthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !h.claimed.CompareAndSwap(false, true) {
		http.Error(w, "Callback already processed", http.StatusBadRequest)
		return
	}

	query := r.URL.Query()
	if query.Get("state") != h.state {
		h.reject(w, http.StatusBadRequest, "Invalid state parameter",
			fmt.Errorf("%w: state mismatch", shared.ErrAuthFailed))
		return
	}

	code := query.Get("code")
	if code == "" {
		h.reject(w, http.StatusBadRequest, "Authorization failed",
			fmt.Errorf("%w: %s - %s", shared.ErrAuthFailed, query.Get("error"), query.Get("error_description")))
		return
	}

	token, err := h.config.Exchange(r.Context(), code)
	if err != nil {
		h.reject(w, http.StatusInternalServerError, "Token exchange failed",
			fmt.Errorf("%w: token exchange: %v", shared.ErrAuthFailed, err))
		return
	}

	h.Send(OAuthResult{Token: token})

	w.Header().Set("Content-Type", "text/html")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, successPage)
}

// reject reports a failed callback to the browser and the waiting CLI.
func (h *OAuthHandler) reject(w http.ResponseWriter, status int, message string, err error) {
	h.Send(OAuthResult{err: err})
	http.Error(w, message, status)
}
