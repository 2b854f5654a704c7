package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/76creates/stickers/flexbox"
	"github.com/aeolun/reactype/pkg/emoji"
	"github.com/aeolun/reactype/pkg/typer"
	"github.com/charmbracelet/lipgloss"
)

// View renders the current view
func (m Model) View() string {
	// Don't render until we have dimensions
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	state := m.ctrl.Snapshot()

	// Message card takes 3/5 of the body, the input area the rest
	layout := flexbox.New(m.width, m.height-2) // header(1) + footer(1)
	layout.AddRows([]*flexbox.Row{
		layout.NewRow().AddCells(
			flexbox.NewCell(1, 3).SetContent(m.renderMessageCard()),
		),
		layout.NewRow().AddCells(
			flexbox.NewCell(1, 2).SetContent(m.renderInputArea(state)),
		),
	})

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderHeader(state),
		layout.Render(),
		HelpStyle.Render(m.help.View(m.keys)),
	)
}

func (m Model) renderHeader(state typer.State) string {
	title := HeaderStyle.Render("reactype")
	target := MutedTextStyle.Render(m.ctrl.Address().String())
	busy := ""
	if state.Busy {
		busy = " " + m.spinner.View()
	}
	return title + target + busy
}

func (m Model) renderMessageCard() string {
	header := MessageAuthorStyle.Render(m.message.Author)
	if !m.message.Time.IsZero() {
		header += "  " + MessageTimeStyle.Render(formatMessageTime(m.message.Time, time.Now()))
	}

	width := m.width - 10
	if width < 20 {
		width = 20
	}
	body := lipgloss.NewStyle().Width(width).Render(highlightMentions(m.message.Text, m.message.Mentions))

	return MessageCardStyle.Render(header + "\n\n" + body)
}

// highlightMentions colors each resolved @name occurrence
func highlightMentions(text string, mentions []string) string {
	for _, name := range mentions {
		mention := "@" + name
		text = strings.ReplaceAll(text, mention, MentionStyle.Render(mention))
	}
	return text
}

func (m Model) renderInputArea(state typer.State) string {
	input := InputStyle.
		BorderForeground(modeBorderColor(state.Mode)).
		Width(inputWidth(m.width)).
		Render(PromptStyle.Render("> ") + renderSequence(state.Sequence))

	modeLine := MutedTextStyle.Render(fmt.Sprintf("⏵⏵ %s mode (shift+tab to cycle)", state.Mode))

	lines := []string{input, modeLine}
	if state.Status != "" {
		lines = append(lines, StatusTextStyle.Render(state.Status))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func inputWidth(total int) int {
	w := total - 4
	if w > 60 {
		w = 60
	}
	if w < 10 {
		w = 10
	}
	return w
}

// renderSequence shows the typed word, in-flight letters dimmed
func renderSequence(seq []emoji.Letter) string {
	var b strings.Builder
	for _, l := range seq {
		b.WriteString(letterStyle(l).Render(strings.ToUpper(string(l.Char))))
	}
	return b.String()
}
