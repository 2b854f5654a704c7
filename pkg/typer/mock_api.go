package typer

import (
	"context"
	"sync"

	"github.com/aeolun/reactype/pkg/address"
	"github.com/aeolun/reactype/pkg/slackapi"
)

// MockAPI is an in-memory test implementation of ReactionAPI. It behaves like
// Slack for a single identity: a reaction name can be present at most once.
type MockAPI struct {
	mu sync.Mutex

	calls     []string
	reactions []string

	// Error injection
	failNext error
	gate     chan struct{}
}

// NewMockAPI creates a mock holding the given reactions
func NewMockAPI(existing ...string) *MockAPI {
	return &MockAPI{reactions: append([]string(nil), existing...)}
}

// FailNext makes the next call return err without changing any reaction
func (m *MockAPI) FailNext(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failNext = err
}

// Block makes calls wait until the returned channel is closed
func (m *MockAPI) Block() chan struct{} {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gate = make(chan struct{})
	return m.gate
}

// Calls returns every call made so far as "add <name>" or "remove <name>"
func (m *MockAPI) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

// Reactions returns the reactions currently on the message
func (m *MockAPI) Reactions() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.reactions...)
}

// ReactionCount returns how many reactions are on the message
func (m *MockAPI) ReactionCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.reactions)
}

// AddReaction adds name unless it is already present
func (m *MockAPI) AddReaction(ctx context.Context, _ address.Message, name string) error {
	if err := m.enter(ctx, "add "+name); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.indexOf(name) >= 0 {
		return slackapi.NewAPIError("reactions.add", "already_reacted")
	}
	m.reactions = append(m.reactions, name)
	return nil
}

// RemoveReaction removes name if present
func (m *MockAPI) RemoveReaction(ctx context.Context, _ address.Message, name string) error {
	if err := m.enter(ctx, "remove "+name); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.indexOf(name)
	if i < 0 {
		return slackapi.NewAPIError("reactions.remove", "no_reaction")
	}
	m.reactions = append(m.reactions[:i], m.reactions[i+1:]...)
	return nil
}

// enter records the call, waits on the gate and returns any injected failure
func (m *MockAPI) enter(ctx context.Context, call string) error {
	m.mu.Lock()
	m.calls = append(m.calls, call)
	gate := m.gate
	err := m.failNext
	m.failNext = nil
	m.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}

// indexOf must be called with mu held
func (m *MockAPI) indexOf(name string) int {
	for i, r := range m.reactions {
		if r == name {
			return i
		}
	}
	return -1
}
