// ABOUTME: Full-screen explanation of a broken config file with a reset option
// ABOUTME: Shown before the typer starts; resetting lets the session continue with defaults

package ui

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/aeolun/reactype/pkg/client"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	ErrorColor = lipgloss.Color("196")

	configErrorBoxStyle = BaseStyle.
				Border(lipgloss.RoundedBorder()).
				BorderForeground(PrimaryColor).
				Padding(1, 3).
				Width(70)
)

// ConfigErrorOutcome is what the user chose on the config error screen
type ConfigErrorOutcome int

const (
	ConfigErrorQuit ConfigErrorOutcome = iota
	ConfigErrorReset
	ConfigErrorResetFailed
)

type configErrorKeys struct {
	Reset    key.Binding
	Quit     key.Binding
	Backup   key.Binding
	NoBackup key.Binding
	Cancel   key.Binding
}

type resetDoneMsg struct{ err error }

// ConfigErrorModel shows a config error with the offending lines and offers a reset
type ConfigErrorModel struct {
	err          *client.ConfigError
	fileContent  []string
	askBackup    bool
	keys         configErrorKeys
	outcome      ConfigErrorOutcome
	resetErr     error
	width        int
	height       int
	resetDefault func(path string, backup bool) error
}

// NewConfigErrorModel creates the error screen for err
func NewConfigErrorModel(err *client.ConfigError) ConfigErrorModel {
	m := ConfigErrorModel{
		err:          err,
		width:        80,
		height:       24,
		resetDefault: client.ResetConfigToDefault,
		keys: configErrorKeys{
			Reset:    key.NewBinding(key.WithKeys("r", "R")),
			Quit:     key.NewBinding(key.WithKeys("q", "Q", "esc", "ctrl+c")),
			Backup:   key.NewBinding(key.WithKeys("y", "Y")),
			NoBackup: key.NewBinding(key.WithKeys("n", "N")),
			Cancel:   key.NewBinding(key.WithKeys("c", "C", "esc")),
		},
	}
	if err.LineNumber > 0 {
		m.fileContent = readFileLines(err.Path)
	}
	return m
}

// Outcome reports the user's choice once the program has exited
func (m ConfigErrorModel) Outcome() (ConfigErrorOutcome, error) {
	return m.outcome, m.resetErr
}

func readFileLines(path string) []string {
	file, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	return lines
}

// Init initializes the model
func (m ConfigErrorModel) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model
func (m ConfigErrorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case resetDoneMsg:
		if msg.err != nil {
			m.outcome = ConfigErrorResetFailed
			m.resetErr = msg.err
		} else {
			m.outcome = ConfigErrorReset
		}
		return m, tea.Quit

	case tea.KeyMsg:
		if m.askBackup {
			switch {
			case key.Matches(msg, m.keys.Backup):
				return m, m.reset(true)
			case key.Matches(msg, m.keys.NoBackup):
				return m, m.reset(false)
			case key.Matches(msg, m.keys.Cancel):
				m.askBackup = false
			}
			return m, nil
		}

		switch {
		case key.Matches(msg, m.keys.Reset):
			m.askBackup = true
		case key.Matches(msg, m.keys.Quit):
			m.outcome = ConfigErrorQuit
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m ConfigErrorModel) reset(backup bool) tea.Cmd {
	path, resetDefault := m.err.Path, m.resetDefault
	return func() tea.Msg {
		return resetDoneMsg{err: resetDefault(path, backup)}
	}
}

// View renders the error screen or the backup prompt
func (m ConfigErrorModel) View() string {
	var content string
	if m.askBackup {
		content = lipgloss.JoinVertical(
			lipgloss.Center,
			HeaderStyle.Render("⚠️  Backup Configuration?"),
			"Do you want to backup the current config before resetting?",
			MutedTextStyle.Render(fmt.Sprintf("Backup: %s.backup-%s", m.err.Path, time.Now().Format("2006-01-02"))),
			"",
			MutedTextStyle.Render("[Y] Yes, backup first  [N] No, just reset  [C] Cancel"),
		)
	} else {
		parts := []string{
			BaseStyle.Bold(true).Foreground(ErrorColor).Render("⚠️  Configuration File Error"),
			MutedTextStyle.Render("File: " + m.err.Path),
			"",
			BaseStyle.Foreground(ErrorColor).Width(64).Render(wrapText(m.err.Message, 64)),
		}
		if ctx := m.renderLineContext(); ctx != "" {
			parts = append(parts, "", ctx)
		}
		parts = append(parts, "", MutedTextStyle.Render("[R] Reset to default  [Q] Quit"))
		content = lipgloss.JoinVertical(lipgloss.Center, parts...)
	}

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, configErrorBoxStyle.Render(content))
}

// renderLineContext shows the error line with two lines either side
func (m ConfigErrorModel) renderLineContext() string {
	if m.err.LineNumber <= 0 || len(m.fileContent) == 0 {
		return ""
	}

	lineNumStyle := MutedTextStyle.Width(5)
	errorLineStyle := BaseStyle.Foreground(ErrorColor).Bold(true)

	start := max(0, m.err.LineNumber-3)
	end := min(len(m.fileContent), m.err.LineNumber+2)

	var lines []string
	for i := start; i < end; i++ {
		lineNum := i + 1
		lineText := truncate(m.fileContent[i], 60)
		prefix := lineNumStyle.Render(fmt.Sprintf("%3d│ ", lineNum))
		if lineNum == m.err.LineNumber {
			lines = append(lines, prefix+errorLineStyle.Render(lineText)+" ← Error")
		} else {
			lines = append(lines, prefix+lineText)
		}
	}
	return BaseStyle.Align(lipgloss.Left).Render(strings.Join(lines, "\n"))
}

// RunConfigError shows the error screen and returns the user's choice
func RunConfigError(err *client.ConfigError) (ConfigErrorOutcome, error) {
	final, runErr := tea.NewProgram(NewConfigErrorModel(err), tea.WithAltScreen()).Run()
	if runErr != nil {
		return ConfigErrorQuit, runErr
	}
	return final.(ConfigErrorModel).Outcome()
}
