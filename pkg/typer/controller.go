// ABOUTME: Reaction sequence controller: turns keystrokes into ordered reaction calls
// ABOUTME: Keeps an optimistic view of the typed word and rolls it back on failure

package typer

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/aeolun/reactype/pkg/address"
	"github.com/aeolun/reactype/pkg/emoji"
	"github.com/aeolun/reactype/pkg/slackapi"
)

var (
	// ErrBusy is returned while a reaction call is still in flight
	ErrBusy = errors.New("busy: a reaction call is still in flight")
	// ErrUnsupportedCharacter is returned for characters without an emoji
	ErrUnsupportedCharacter = errors.New("unsupported character")
	// ErrSessionEnded is returned once the session has been terminated,
	// including by an undo on an empty sequence
	ErrSessionEnded = errors.New("session ended")
	// ErrCallPanicked wraps a panic raised while performing a call
	ErrCallPanicked = errors.New("reaction call panicked")
)

// ReactionAPI is the part of the Slack facade the controller drives
type ReactionAPI interface {
	AddReaction(ctx context.Context, addr address.Message, name string) error
	RemoveReaction(ctx context.Context, addr address.Message, name string) error
}

// State is the observable state of a typing session
type State struct {
	Sequence []emoji.Letter
	Mode     ColorMode
	Busy     bool
	Status   string
	Ended    bool
}

// Word returns the typed characters
func (s State) Word() string {
	return emoji.Word(s.Sequence)
}

type callOp int

const (
	opAdd callOp = iota
	opRemove
)

func (o callOp) String() string {
	if o == opRemove {
		return "remove"
	}
	return "add"
}

// Call is a remote reaction request the controller has committed to.
// Do performs it; the result must be handed back through Controller.Complete.
type Call struct {
	op     callOp
	index  int
	letter emoji.Letter
	addr   address.Message
	api    ReactionAPI
}

// Name is the reaction name the call adds or removes
func (c *Call) Name() string {
	return c.letter.Name
}

// Do performs the remote request. Panics in the API are returned as errors.
func (c *Call) Do(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrCallPanicked, r)
		}
	}()

	if c.op == opRemove {
		return c.api.RemoveReaction(ctx, c.addr, c.letter.Name)
	}
	return c.api.AddReaction(ctx, c.addr, c.letter.Name)
}

// Config configures a Controller
type Config struct {
	Codec   emoji.Codec
	Mode    ColorMode
	Seed    []emoji.Letter // letters already on the message
	Metrics *Metrics
}

// Controller owns the typed sequence for one message. At most one add or
// remove call is in flight at any time; every other operation except Quit is
// rejected with ErrBusy until that call completes.
type Controller struct {
	mu       sync.Mutex
	api      ReactionAPI
	addr     address.Message
	codec    emoji.Codec
	state    State
	inflight *Call
	started  time.Time
	metrics  *Metrics
	logger   *log.Logger
}

// New creates a controller for the message at addr
func New(api ReactionAPI, addr address.Message, cfg Config) *Controller {
	seq := make([]emoji.Letter, len(cfg.Seed))
	copy(seq, cfg.Seed)
	for i := range seq {
		seq[i].Lifecycle = emoji.Confirmed
	}

	c := &Controller{
		api:     api,
		addr:    addr,
		codec:   cfg.Codec,
		metrics: cfg.Metrics,
		state: State{
			Sequence: seq,
			Mode:     cfg.Mode,
		},
	}
	c.metrics.SetSequenceLength(len(seq))
	return c
}

// SetLogger sets a logger for debugging controller transitions
func (c *Controller) SetLogger(logger *log.Logger) {
	c.logger = logger
}

func (c *Controller) logf(format string, args ...interface{}) {
	if c.logger != nil {
		c.logger.Printf(format, args...)
	}
}

// Snapshot returns a copy of the current state for rendering
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.state
	s.Sequence = make([]emoji.Letter, len(c.state.Sequence))
	copy(s.Sequence, c.state.Sequence)
	return s
}

// Address returns the message the controller types onto
func (c *Controller) Address() address.Message {
	return c.addr
}

// TypeCharacter appends ch as a pending letter and returns the add call to perform
func (c *Controller) TypeCharacter(ch rune) (*Call, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.checkIdle(); err != nil {
		return nil, err
	}

	index := len(c.state.Sequence)
	color := c.state.Mode.ColorAt(index)
	name, ok := c.codec.Encode(ch, color)
	if !ok {
		c.metrics.RecordRejected("unsupported")
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedCharacter, ch)
	}

	letter := emoji.Letter{
		Char:      emoji.Upper(ch),
		Color:     color,
		Name:      name,
		Lifecycle: emoji.Pending,
	}
	c.state.Sequence = append(c.state.Sequence, letter)
	c.state.Status = fmt.Sprintf("Adding %c...", letter.Char)

	return c.begin(opAdd, index, letter), nil
}

// UndoLast marks the last letter as removing and returns the remove call to
// perform. On an empty sequence it ends the session and returns ErrSessionEnded
// without any remote call.
func (c *Controller) UndoLast() (*Call, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.checkIdle(); err != nil {
		return nil, err
	}

	if len(c.state.Sequence) == 0 {
		c.state.Ended = true
		c.logf("undo on empty sequence, ending session")
		return nil, ErrSessionEnded
	}

	index := len(c.state.Sequence) - 1
	c.state.Sequence[index].Lifecycle = emoji.Removing
	letter := c.state.Sequence[index]
	c.state.Status = fmt.Sprintf("Removing %c...", letter.Char)

	return c.begin(opRemove, index, letter), nil
}

// CycleColorMode switches to the next color mode. Letters already typed keep their color.
func (c *Controller) CycleColorMode() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.checkIdle(); err != nil {
		return err
	}

	c.state.Mode = c.state.Mode.Next()
	c.state.Status = fmt.Sprintf("Switched to %s mode", c.state.Mode.Label())
	return nil
}

// Quit ends the session. It is allowed while a call is in flight; there is no
// cancellation, so that call still runs to completion.
func (c *Controller) Quit() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state.Ended = true
}

// Complete applies the outcome of call. It always releases the busy flag
// taken by TypeCharacter or UndoLast.
func (c *Controller) Complete(call *Call, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if call == nil || call != c.inflight {
		c.logf("ignoring result for stale call")
		return
	}

	defer func() {
		c.inflight = nil
		c.state.Busy = false
		c.metrics.SetSequenceLength(len(c.state.Sequence))
	}()

	c.metrics.RecordCall(call.op.String(), err, time.Since(c.started))
	c.logf("%s %s -> %v", call.op, call.letter.Name, err)

	if call.index != len(c.state.Sequence)-1 {
		// only the tail can be in flight
		c.logf("in-flight letter %d is not the tail of %d letters", call.index, len(c.state.Sequence))
		return
	}

	switch call.op {
	case opAdd:
		c.completeAdd(call, err)
	case opRemove:
		c.completeRemove(call, err)
	}
}

func (c *Controller) completeAdd(call *Call, err error) {
	ch := call.letter.Char
	if err == nil {
		c.state.Sequence[call.index].Lifecycle = emoji.Confirmed
		c.state.Status = ""
		return
	}

	c.state.Sequence = c.state.Sequence[:call.index]
	switch {
	case errors.Is(err, slackapi.ErrAlreadyReacted):
		c.state.Status = fmt.Sprintf("%c already added. Use backspace to remove or try a different color.", ch)
	case errors.Is(err, slackapi.ErrInvalidReactionName):
		c.state.Status = fmt.Sprintf("Emoji '%s' not found. Check if the alphabet emoji pack is installed.", call.letter.Name)
	default:
		c.state.Status = fmt.Sprintf("Error adding %c: %s", ch, slackapi.Code(err))
	}
}

func (c *Controller) completeRemove(call *Call, err error) {
	ch := call.letter.Char
	switch {
	case err == nil:
		c.state.Sequence = c.state.Sequence[:call.index]
		c.state.Status = ""
	case errors.Is(err, slackapi.ErrNoSuchReaction):
		c.state.Sequence = c.state.Sequence[:call.index]
		c.state.Status = fmt.Sprintf("Reaction %c was already removed.", ch)
	default:
		c.state.Sequence[call.index].Lifecycle = emoji.Confirmed
		c.state.Status = fmt.Sprintf("Error removing %c: %s", ch, slackapi.Code(err))
	}
}

// Type types ch and waits for the remote call to finish
func (c *Controller) Type(ctx context.Context, ch rune) error {
	call, err := c.TypeCharacter(ch)
	if err != nil {
		return err
	}
	return c.run(ctx, call)
}

// Undo removes the last letter and waits for the remote call to finish
func (c *Controller) Undo(ctx context.Context) error {
	call, err := c.UndoLast()
	if err != nil {
		return err
	}
	return c.run(ctx, call)
}

func (c *Controller) run(ctx context.Context, call *Call) (err error) {
	defer func() { c.Complete(call, err) }()
	return call.Do(ctx)
}

// checkIdle must be called with mu held
func (c *Controller) checkIdle() error {
	if c.state.Ended {
		return ErrSessionEnded
	}
	if c.state.Busy {
		c.metrics.RecordRejected("busy")
		return ErrBusy
	}
	return nil
}

// begin must be called with mu held
func (c *Controller) begin(op callOp, index int, letter emoji.Letter) *Call {
	call := &Call{
		op:     op,
		index:  index,
		letter: letter,
		addr:   c.addr,
		api:    c.api,
	}
	c.state.Busy = true
	c.inflight = call
	c.started = time.Now()
	return call
}
