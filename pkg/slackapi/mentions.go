package slackapi

import (
	"context"
	"regexp"
	"strings"
)

var mentionPattern = regexp.MustCompile(`<@([A-Z0-9]+)>`)

// DisplayName picks the friendliest available name for a user
func DisplayName(u User) string {
	if u.RealName != "" {
		return u.RealName
	}
	if full := strings.TrimSpace(u.FirstName + " " + u.LastName); full != "" {
		return full
	}
	if u.DisplayName != "" {
		return u.DisplayName
	}
	if u.Name != "" {
		return u.Name
	}
	return u.ID
}

// MentionedUserIDs returns the distinct user ids mentioned in text, in order of appearance
func MentionedUserIDs(text string) []string {
	var ids []string
	seen := make(map[string]bool)
	for _, m := range mentionPattern.FindAllStringSubmatch(text, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			ids = append(ids, m[1])
		}
	}
	return ids
}

// UserFetcher loads user profiles in bulk
type UserFetcher interface {
	FetchUsers(ctx context.Context, ids []string) ([]User, error)
}

// ResolveMentions replaces <@U123> tokens with @Display Name and returns the
// names it substituted. Mentions that cannot be resolved are left as they are.
func ResolveMentions(ctx context.Context, fetcher UserFetcher, text string) (string, []string) {
	ids := MentionedUserIDs(text)
	if len(ids) == 0 {
		return text, nil
	}

	users, err := fetcher.FetchUsers(ctx, ids)
	if err != nil {
		return text, nil
	}

	names := make(map[string]string, len(users))
	resolved := make([]string, 0, len(users))
	for _, u := range users {
		names[u.ID] = DisplayName(u)
		resolved = append(resolved, names[u.ID])
	}

	return mentionPattern.ReplaceAllStringFunc(text, func(token string) string {
		id := token[2 : len(token)-1]
		if name, ok := names[id]; ok {
			return "@" + name
		}
		return token
	}), resolved
}
