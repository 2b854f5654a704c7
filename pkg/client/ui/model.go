package ui

import (
	"context"
	"log"
	"time"

	"github.com/aeolun/reactype/pkg/typer"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// MessageInfo is the read-only message the user is reacting to
type MessageInfo struct {
	Author   string
	Text     string // mentions already resolved to display names
	Time     time.Time
	Mentions []string // display names to highlight in Text
}

// Notifier raises an out-of-band alert when a reaction call fails
type Notifier interface {
	Notify(title, message string) error
}

// reactionResultMsg carries the outcome of a remote reaction call back into Update
type reactionResultMsg struct {
	call *typer.Call
	err  error
}

// Model represents the application state
type Model struct {
	ctx     context.Context
	ctrl    *typer.Controller
	message MessageInfo

	keys    keyMap
	help    help.Model
	spinner spinner.Model

	notifier Notifier
	logger   *log.Logger

	width  int
	height int
}

// Option configures a Model
type Option func(*Model)

// WithNotifier raises desktop notifications on failed reaction calls
func WithNotifier(n Notifier) Option {
	return func(m *Model) { m.notifier = n }
}

// WithLogger sets the debug logger
func WithLogger(logger *log.Logger) Option {
	return func(m *Model) { m.logger = logger }
}

// WithContext sets the context reaction calls run under
func WithContext(ctx context.Context) Option {
	return func(m *Model) { m.ctx = ctx }
}

// NewModel creates a new model around a reaction controller
func NewModel(ctrl *typer.Controller, message MessageInfo, opts ...Option) Model {
	s := spinner.New()
	s.Spinner = spinner.MiniDot
	s.Style = MutedTextStyle

	h := help.New()
	h.ShortSeparator = "  "

	m := Model{
		ctx:     context.Background(),
		ctrl:    ctrl,
		message: message,
		keys:    defaultKeyMap(),
		help:    h,
		spinner: s,
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m Model) logf(format string, args ...interface{}) {
	if m.logger != nil {
		m.logger.Printf(format, args...)
	}
}
