// Utilities for parsing cURL commands copied from browser dev tools.
package shared

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"
)

// curlFlag matches quoted -H and -b flag values in either quote style.
var curlFlag = regexp.MustCompile(`-([Hb])\s+(?:'([^']*)'|"([^"]*)")`)

// CurlHeaders holds the headers and cookie extracted from a cURL command.
type CurlHeaders struct {
	Headers map[string]string
	Cookie  string
}

// ParseCurlFile reads a file containing a cURL command and extracts headers.
func ParseCurlFile(path string) (*CurlHeaders, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read curl file: %w", err)
	}
	return ParseCurlCommand(string(content))
}

// ParseCurlCommand extracts request headers from a cURL invocation. The
// cookie may arrive as a -b flag or a Cookie header; a -b flag wins.
func ParseCurlCommand(curlCmd string) (*CurlHeaders, error) {
	// Unfold line continuations so flags split across lines still match.
	curlCmd = strings.ReplaceAll(curlCmd, "\\\n", " ")
	curlCmd = strings.ReplaceAll(curlCmd, "\\", "")

	parsed := &CurlHeaders{Headers: make(map[string]string)}

	for _, m := range curlFlag.FindAllStringSubmatch(curlCmd, -1) {
		flag, value := m[1], m[2]
		if value == "" {
			value = m[3]
		}

		if flag == "b" {
			parsed.Cookie = value
			continue
		}

		name, rest, found := strings.Cut(value, ":")
		if !found {
			continue
		}
		name, rest = strings.TrimSpace(name), strings.TrimSpace(rest)
		if strings.EqualFold(name, "cookie") {
			if parsed.Cookie == "" {
				parsed.Cookie = rest
			}
			continue
		}
		parsed.Headers[name] = rest
	}

	if len(parsed.Headers) == 0 && parsed.Cookie == "" {
		return nil, fmt.Errorf("no headers found in curl command")
	}

	return parsed, nil
}

// header returns a header value by case-insensitive name.
func (c *CurlHeaders) header(name string) string {
	for key, value := range c.Headers {
		if strings.EqualFold(key, name) {
			return value
		}
	}
	return ""
}

// Validate checks that the headers carry what YouTube Music browser auth needs.
//
// A cookie is required. The visitor id and client version improve request
// acceptance but requests work without them, so their absence is reported
// as warnings rather than errors.
func (c *CurlHeaders) Validate() (warnings []string, err error) {
	if c.Cookie == "" {
		return nil, fmt.Errorf("curl command has no cookie header; copy the request as cURL from a logged-in music.youtube.com tab")
	}

	for _, name := range []string{"User-Agent", "X-Goog-Visitor-Id", "X-Youtube-Client-Version"} {
		if c.header(name) == "" {
			warnings = append(warnings, fmt.Sprintf("missing %s header", name))
		}
	}

	return warnings, nil
}

// ToBrowserJSON renders the headers as the browser.json document ytmusicapi expects.
func (c *CurlHeaders) ToBrowserJSON() ([]byte, error) {
	doc := make(map[string]string, len(c.Headers)+1)
	for key, value := range c.Headers {
		doc[key] = value
	}
	if c.Cookie != "" {
		doc["Cookie"] = c.Cookie
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode browser auth: %w", err)
	}
	return data, nil
}
