// ABOUTME: Facade over the Slack Web API used by the reaction typer
// ABOUTME: Fetches the target message and its author, adds and removes reactions

package slackapi

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/aeolun/reactype/pkg/address"
	"github.com/aeolun/reactype/pkg/emoji"
	"github.com/slack-go/slack"
	"golang.org/x/sync/errgroup"
)

// maxParallelUserFetches bounds concurrent users.info calls
const maxParallelUserFetches = 4

// Message is the part of a Slack message the typer shows and seeds from
type Message struct {
	Text      string
	User      string
	Timestamp string
	Reactions []emoji.Reaction
}

// Time converts the message timestamp into wall-clock time
func (m Message) Time() time.Time {
	var sec, usec int64
	if _, err := fmt.Sscanf(m.Timestamp, "%d.%d", &sec, &usec); err != nil {
		return time.Time{}
	}
	return time.Unix(sec, usec*1000)
}

// User is the author information needed for display
type User struct {
	ID          string
	Name        string
	RealName    string
	DisplayName string
	FirstName   string
	LastName    string
}

// Options configures a Client
type Options struct {
	// Cookie is the "d" cookie required by browser session (xoxc) tokens
	Cookie string
	// APIURL overrides the Slack API base URL, mainly for tests
	APIURL     string
	HTTPClient *http.Client
	Logger     *log.Logger
}

// Client talks to the Slack Web API
type Client struct {
	api    *slack.Client
	logger *log.Logger
}

// New creates a client authenticated with token
func New(token string, opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	if opts.Cookie != "" {
		httpClient = withCookie(httpClient, opts.Cookie)
	}

	slackOpts := []slack.Option{slack.OptionHTTPClient(httpClient)}
	if opts.APIURL != "" {
		slackOpts = append(slackOpts, slack.OptionAPIURL(opts.APIURL))
	}
	if opts.Logger != nil {
		slackOpts = append(slackOpts, slack.OptionLog(opts.Logger))
	}

	return &Client{
		api:    slack.New(token, slackOpts...),
		logger: opts.Logger,
	}
}

// SetLogger sets a logger for debugging API calls
func (c *Client) SetLogger(logger *log.Logger) {
	c.logger = logger
}

func (c *Client) logf(format string, args ...interface{}) {
	if c.logger != nil {
		c.logger.Printf(format, args...)
	}
}

// FetchMessage loads the message at exactly addr. Thread replies are not part of
// channel history, so the thread endpoint is tried when history has no match.
func (c *Client) FetchMessage(ctx context.Context, addr address.Message) (*Message, error) {
	resp, err := c.api.GetConversationHistoryContext(ctx, &slack.GetConversationHistoryParameters{
		ChannelID: addr.ChannelID,
		Latest:    addr.Timestamp,
		Inclusive: true,
		Limit:     1,
	})
	if err != nil {
		return nil, classify("conversations.history", err)
	}
	if msg := findMessage(resp.Messages, addr.Timestamp); msg != nil {
		return msg, nil
	}

	// replies always lead with the thread parent, so no limit is set: the
	// latest/oldest window keeps the page down to the parent and the reply
	parent := addr.ThreadTS
	if parent == "" {
		parent = addr.Timestamp
	}
	c.logf("message %s not in channel history, trying thread %s", addr, parent)
	replies, _, _, err := c.api.GetConversationRepliesContext(ctx, &slack.GetConversationRepliesParameters{
		ChannelID: addr.ChannelID,
		Timestamp: parent,
		Latest:    addr.Timestamp,
		Oldest:    addr.Timestamp,
		Inclusive: true,
	})
	if err != nil {
		classified := classify("conversations.replies", err)
		if Code(classified) == "thread_not_found" {
			return nil, fmt.Errorf("%s: %w", addr, ErrMessageNotFound)
		}
		return nil, classified
	}
	if msg := findMessage(replies, addr.Timestamp); msg != nil {
		return msg, nil
	}

	return nil, fmt.Errorf("%s: %w", addr, ErrMessageNotFound)
}

func findMessage(msgs []slack.Message, ts string) *Message {
	for _, m := range msgs {
		if m.Timestamp != ts {
			continue
		}
		reactions := make([]emoji.Reaction, 0, len(m.Reactions))
		for _, r := range m.Reactions {
			reactions = append(reactions, emoji.Reaction{Name: r.Name, Count: r.Count})
		}
		user := m.User
		if user == "" {
			user = m.BotID
		}
		return &Message{
			Text:      m.Text,
			User:      user,
			Timestamp: m.Timestamp,
			Reactions: reactions,
		}
	}
	return nil
}

// FetchUser loads a single user profile
func (c *Client) FetchUser(ctx context.Context, userID string) (*User, error) {
	u, err := c.api.GetUserInfoContext(ctx, userID)
	if err != nil {
		return nil, classify("users.info", err)
	}
	realName := u.RealName
	if realName == "" {
		realName = u.Profile.RealName
	}
	return &User{
		ID:          u.ID,
		Name:        u.Name,
		RealName:    realName,
		DisplayName: u.Profile.DisplayName,
		FirstName:   u.Profile.FirstName,
		LastName:    u.Profile.LastName,
	}, nil
}

// FetchUsers loads several users in parallel. Users that fail to load are
// skipped; the result keeps the order of ids.
func (c *Client) FetchUsers(ctx context.Context, ids []string) ([]User, error) {
	results := make([]*User, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelUserFetches)
	for i, id := range ids {
		g.Go(func() error {
			u, err := c.FetchUser(gctx, id)
			if err != nil {
				c.logf("failed to fetch user %s: %v", id, err)
				return nil
			}
			results[i] = u
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	users := make([]User, 0, len(ids))
	for _, u := range results {
		if u != nil {
			users = append(users, *u)
		}
	}
	return users, nil
}

// AddReaction attaches the named reaction to the message
func (c *Client) AddReaction(ctx context.Context, addr address.Message, name string) error {
	c.logf("reactions.add %s %s", addr, name)
	err := c.api.AddReactionContext(ctx, name, slack.NewRefToMessage(addr.ChannelID, addr.Timestamp))
	return classify("reactions.add", err)
}

// RemoveReaction detaches the named reaction from the message
func (c *Client) RemoveReaction(ctx context.Context, addr address.Message, name string) error {
	c.logf("reactions.remove %s %s", addr, name)
	err := c.api.RemoveReactionContext(ctx, name, slack.NewRefToMessage(addr.ChannelID, addr.Timestamp))
	return classify("reactions.remove", err)
}

// cookieTransport adds the session cookie to every request
type cookieTransport struct {
	cookie string
	base   http.RoundTripper
}

func (t *cookieTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("Cookie", "d="+t.cookie)
	return t.base.RoundTrip(req)
}

func withCookie(client *http.Client, cookie string) *http.Client {
	base := client.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	cloned := *client
	cloned.Transport = &cookieTransport{cookie: cookie, base: base}
	return &cloned
}
