package ui

import (
	"github.com/aeolun/reactype/pkg/emoji"
	"github.com/aeolun/reactype/pkg/typer"
	"github.com/charmbracelet/lipgloss"
)

var (
	// Color scheme
	PrimaryColor  = lipgloss.Color("39")  // Blue
	SuccessColor  = lipgloss.Color("42")  // Green
	WarningColor  = lipgloss.Color("220") // Yellow
	MutedColor    = lipgloss.Color("243") // Gray
	BorderColor   = lipgloss.Color("238") // Dark gray
	MentionColor  = lipgloss.Color("#5B9BD5")
	WhiteColor    = lipgloss.Color("15")
	OrangeColor   = lipgloss.Color("#FF8800")
	DimWhiteColor = lipgloss.Color("8")
	DimOrange     = lipgloss.Color("#CC6600")
	MagentaColor  = lipgloss.Color("13")

	// Base styles
	BaseStyle = lipgloss.NewStyle()

	HeaderStyle = BaseStyle.
			Bold(true).
			Foreground(PrimaryColor).
			Padding(0, 1)

	MutedTextStyle = BaseStyle.
			Foreground(MutedColor)

	// Message card
	MessageCardStyle = BaseStyle.
				Border(lipgloss.RoundedBorder()).
				BorderForeground(BorderColor).
				Padding(1, 3).
				MarginBottom(1)

	MessageAuthorStyle = BaseStyle.
				Foreground(lipgloss.Color("255")).
				Bold(true)

	MessageTimeStyle = BaseStyle.
				Foreground(MutedColor)

	MentionStyle = BaseStyle.
			Foreground(MentionColor)

	// Input box; the border color follows the color mode
	InputStyle = BaseStyle.
			Border(lipgloss.NormalBorder()).
			Padding(0, 1)

	PromptStyle = BaseStyle.
			Foreground(SuccessColor)

	StatusTextStyle = BaseStyle.
			Foreground(WarningColor).
			MarginTop(1)

	HelpStyle = BaseStyle.
			Foreground(MutedColor).
			Padding(0, 1)
)

// modeBorderColor returns the input border color for a color mode
func modeBorderColor(mode typer.ColorMode) lipgloss.Color {
	switch mode {
	case typer.ModeOrange:
		return OrangeColor
	case typer.ModeAlternating:
		return MagentaColor
	default:
		return WhiteColor
	}
}

// letterStyle renders confirmed letters in full color and in-flight ones dimmed
func letterStyle(l emoji.Letter) lipgloss.Style {
	inFlight := l.Lifecycle != emoji.Confirmed
	color := WhiteColor
	switch {
	case l.Color == emoji.Orange && inFlight:
		color = DimOrange
	case l.Color == emoji.Orange:
		color = OrangeColor
	case inFlight:
		color = DimWhiteColor
	}
	return BaseStyle.Foreground(color).Bold(true)
}
