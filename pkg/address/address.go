// ABOUTME: Parses Slack message links into a channel + timestamp address
// ABOUTME: Also derives the workspace root used for cookie token exchange

package address

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

var (
	// ErrInvalidURLFormat is returned for malformed links and bad message ids
	ErrInvalidURLFormat = errors.New("invalid URL format")
	// ErrUnsupportedURLShape is returned when the path matches neither link shape
	ErrUnsupportedURLShape = errors.New("unsupported Slack URL format")
)

// sharedHost serves every workspace, so it says nothing about which one a link belongs to
const sharedHost = "app.slack.com"

// workspaceDomain is the suffix of every hosted workspace
const workspaceDomain = ".slack.com"

// secondsDigits is the length of the whole-seconds part of a message timestamp
const secondsDigits = 10

// Message identifies one message within the remote system
type Message struct {
	ChannelID string
	Timestamp string
	// ThreadTS is the parent's timestamp when the link points into a thread
	ThreadTS string
}

func (m Message) String() string {
	return m.ChannelID + "/" + m.Timestamp
}

// Parse converts a message link into its address. Two shapes are accepted:
//
//	https://<workspace>.slack.com/archives/<channel>/p<digits>
//	https://app.slack.com/client/<team>/<channel>/<ts or p-token>
func Parse(raw string) (Message, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return Message{}, fmt.Errorf("%w: %q", ErrInvalidURLFormat, raw)
	}

	parts := strings.Split(u.Path, "/")

	if i := indexOf(parts, "archives"); i >= 0 {
		if i+2 >= len(parts) {
			return Message{}, fmt.Errorf("%w: incomplete archives link", ErrInvalidURLFormat)
		}
		channel, token := parts[i+1], parts[i+2]
		if channel == "" || !strings.HasPrefix(token, "p") {
			return Message{}, fmt.Errorf("%w: bad message id %q", ErrInvalidURLFormat, token)
		}
		ts, err := DecodeTimestamp(token)
		if err != nil {
			return Message{}, err
		}
		return Message{ChannelID: channel, Timestamp: ts, ThreadTS: threadTS(u, ts)}, nil
	}

	// parts[0] is the empty segment before the leading slash
	if u.Hostname() == sharedHost && len(parts) >= 5 && parts[1] == "client" {
		channel, token := parts[3], parts[4]
		if channel == "" || token == "" {
			return Message{}, fmt.Errorf("%w: incomplete client link", ErrInvalidURLFormat)
		}
		ts := token
		if strings.HasPrefix(token, "p") {
			if ts, err = DecodeTimestamp(token); err != nil {
				return Message{}, err
			}
		}
		return Message{ChannelID: channel, Timestamp: ts, ThreadTS: threadTS(u, ts)}, nil
	}

	return Message{}, ErrUnsupportedURLShape
}

// threadTS reads the thread_ts query of a reply link. A message that is its
// own thread parent gets no ThreadTS.
func threadTS(u *url.URL, ts string) string {
	parent := u.Query().Get("thread_ts")
	if parent == ts {
		return ""
	}
	return parent
}

// DecodeTimestamp turns a link token like p1672534987000200 into 1672534987.000200.
// The token needs at least 10 digits; exactly 10 yields an empty fraction
// ("1672534987.") and fewer is ErrInvalidURLFormat.
func DecodeTimestamp(token string) (string, error) {
	digits, ok := strings.CutPrefix(token, "p")
	if !ok {
		return "", fmt.Errorf("%w: message id %q lacks p prefix", ErrInvalidURLFormat, token)
	}
	if len(digits) < secondsDigits {
		return "", fmt.Errorf("%w: message id %q is too short", ErrInvalidURLFormat, token)
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return "", fmt.Errorf("%w: message id %q is not numeric", ErrInvalidURLFormat, token)
		}
	}
	return digits[:secondsDigits] + "." + digits[secondsDigits:], nil
}

// WorkspaceRoot returns https://host for https links on a workspace's own
// *.slack.com domain. The session cookie is sent to this root, so any other
// scheme or host, the shared client host and anything unparseable report
// false; callers then need a configured workspace URL.
func WorkspaceRoot(raw string) (string, bool) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Scheme != "https" || u.Host == "" {
		return "", false
	}
	host := strings.ToLower(u.Hostname())
	if host == sharedHost || !strings.HasSuffix(host, workspaceDomain) {
		return "", false
	}
	return "https://" + u.Host, true
}

func indexOf(parts []string, want string) int {
	for i, p := range parts {
		if p == want {
			return i
		}
	}
	return -1
}
