package ui

import (
	"errors"

	"github.com/aeolun/reactype/pkg/typer"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case reactionResultMsg:
		return m.handleReactionResult(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// handleKeyPress translates a keystroke into a controller operation
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	act, ch := m.keys.dispatch(msg)

	switch act {
	case actionQuit:
		m.ctrl.Quit()
		return m, tea.Quit

	case actionUndo:
		call, err := m.ctrl.UndoLast()
		if errors.Is(err, typer.ErrSessionEnded) {
			return m, tea.Quit
		}
		if err != nil {
			m.logf("undo rejected: %v", err)
			return m, nil
		}
		return m, m.perform(call)

	case actionCycle:
		if err := m.ctrl.CycleColorMode(); err != nil {
			m.logf("mode switch rejected: %v", err)
		}
		return m, nil

	case actionType:
		call, err := m.ctrl.TypeCharacter(ch)
		if err != nil {
			m.logf("input %q rejected: %v", ch, err)
			return m, nil
		}
		return m, m.perform(call)
	}

	return m, nil
}

// perform runs a committed reaction call off the update loop
func (m Model) perform(call *typer.Call) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return reactionResultMsg{call: call, err: call.Do(ctx)}
	}
}

func (m Model) handleReactionResult(msg reactionResultMsg) (tea.Model, tea.Cmd) {
	m.ctrl.Complete(msg.call, msg.err)

	state := m.ctrl.Snapshot()
	if msg.err != nil {
		m.logf("%s failed: %v", msg.call.Name(), msg.err)
		if m.notifier != nil {
			return m, m.notifyCmd(state.Status)
		}
	}
	if state.Ended {
		return m, tea.Quit
	}
	return m, nil
}

// notifyCmd raises a desktop notification. A failure only gets logged since
// the status line already shows the error.
func (m Model) notifyCmd(status string) tea.Cmd {
	n := m.notifier
	return func() tea.Msg {
		if err := n.Notify("reactype", status); err != nil {
			m.logf("notification failed: %v", err)
		}
		return nil
	}
}
