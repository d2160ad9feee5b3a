// Package server provides the loopback HTTP server used during OAuth sign-in.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first),
// following the standard Go pattern. [BasicRouter] delegates routing and
// method filtering to [http.ServeMux] patterns.
//
// # OAuth Callback Handler
//
// [OAuthHandler] implements the OAuth2 authorization code callback flow.
//
// The handler validates the state parameter (CSRF protection), exchanges
// the authorization code for a token, and sends the result through a
// channel. It only processes one callback to prevent replay attacks.
//
// # Usage
//
// The auth setup-oauth command starts a temporary server on the configured
// loopback address, opens the provider's consent page in the browser,
// receives the callback here, and shuts the server down once the result
// channel delivers.
package server
