// ABOUTME: Resolves the Slack credentials used by the API facade
// ABOUTME: Environment, config file, ~/.netrc, or a browser cookie exchanged for a token

package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	netrc "github.com/bgentry/go-netrc/netrc"
)

// ErrNoCredentials is returned when no token source produced a token
var ErrNoCredentials = errors.New(`Slack token not found. Set SLACK_API_COOKIE (with SLACK_WORKSPACE_URL when it cannot be derived from the link), SLACK_TOKEN, [auth] token in the config file, or add "machine slack.com login <token>" to ~/.netrc`)

// ErrNoWorkspaceURL is returned when a cookie is set but no workspace page can be fetched
var ErrNoWorkspaceURL = errors.New("a workspace URL is required for cookie authentication (set SLACK_WORKSPACE_URL or use a https://<workspace>.slack.com link)")

var tokenPattern = regexp.MustCompile(`xoxc-[\w-]+`)

// Credentials are what the Slack facade needs to authenticate
type Credentials struct {
	Token  string
	Cookie string // only set for xoxc tokens
	Source string
	// Warnings are non-fatal problems hit while resolving, like a failed cookie exchange
	Warnings []string
}

// CredentialSource describes where credentials may come from
type CredentialSource struct {
	Getenv     func(string) string
	Config     AuthSection
	NetrcPath  string
	HTTPClient *http.Client
	Logger     *log.Logger
	// DerivedWorkspaceURL is the workspace root taken from the message link, if any
	DerivedWorkspaceURL string
}

func (s *CredentialSource) logf(format string, args ...interface{}) {
	if s.Logger != nil {
		s.Logger.Printf(format, args...)
	}
}

func (s *CredentialSource) getenv(key string) string {
	if s.Getenv == nil {
		return os.Getenv(key)
	}
	return s.Getenv(key)
}

// ResolveCredentials tries, in order: a session cookie exchanged for a token,
// SLACK_TOKEN, the config file token and ~/.netrc.
func ResolveCredentials(ctx context.Context, src CredentialSource) (Credentials, error) {
	var warnings []string

	cookie := firstNonEmpty(src.getenv("SLACK_API_COOKIE"), src.Config.Cookie)
	if cookie != "" {
		workspace := firstNonEmpty(src.getenv("SLACK_WORKSPACE_URL"), src.Config.WorkspaceURL, src.DerivedWorkspaceURL)
		token, err := ExchangeCookie(ctx, src.HTTPClient, workspace, cookie)
		if err == nil {
			return Credentials{Token: token, Cookie: cookie, Source: "cookie"}, nil
		}
		src.logf("cookie authentication failed: %v", err)
		warnings = append(warnings, fmt.Sprintf("cookie authentication failed: %v", err))
	}

	if token := src.getenv("SLACK_TOKEN"); token != "" {
		return Credentials{Token: token, Cookie: cookieFor(token, cookie), Source: "SLACK_TOKEN", Warnings: warnings}, nil
	}

	if token := strings.TrimSpace(src.Config.Token); token != "" {
		return Credentials{Token: token, Cookie: cookieFor(token, cookie), Source: "config", Warnings: warnings}, nil
	}

	netrcPath := src.NetrcPath
	if netrcPath == "" {
		if home, err := os.UserHomeDir(); err == nil {
			netrcPath = filepath.Join(home, ".netrc")
		}
	}
	if netrcPath != "" {
		if f, err := os.Open(netrcPath); err == nil {
			defer f.Close()
			if token := ParseNetrc(f, "slack.com"); token != "" {
				return Credentials{Token: token, Cookie: cookieFor(token, cookie), Source: "netrc", Warnings: warnings}, nil
			}
		}
	}

	return Credentials{Warnings: warnings}, ErrNoCredentials
}

// cookieFor keeps the cookie only for browser session tokens
func cookieFor(token, cookie string) string {
	if strings.HasPrefix(token, "xoxc-") {
		return cookie
	}
	return ""
}

// ExchangeCookie loads the workspace page with the d cookie and extracts the
// xoxc token embedded in it
func ExchangeCookie(ctx context.Context, httpClient *http.Client, workspaceURL, cookie string) (string, error) {
	if workspaceURL == "" {
		return "", ErrNoWorkspaceURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, workspaceURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build workspace request: %w", err)
	}
	req.Header.Set("Cookie", "d="+cookie)
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; reactype)")

	resp, err := httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch workspace page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("workspace page returned HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
	if err != nil {
		return "", fmt.Errorf("failed to read workspace page: %w", err)
	}

	token := tokenPattern.Find(body)
	if token == nil {
		return "", errors.New("could not find a Slack token in the workspace page")
	}
	return string(token), nil
}

// ParseNetrc returns the login of the given machine entry, or "" if there is
// none. A default entry is not a match, and a malformed file yields "".
func ParseNetrc(r io.Reader, machine string) string {
	n, err := netrc.Parse(r)
	if err != nil {
		return ""
	}
	m := n.FindMachine(machine)
	if m == nil || m.IsDefault() {
		return ""
	}
	return m.Login
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
