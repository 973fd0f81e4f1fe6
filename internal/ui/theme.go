package ui

import (
	"github.com/charmbracelet/lipgloss"

	"minidxo/internal/consultation"
)

type theme struct {
	header          lipgloss.Style
	subtitle        lipgloss.Style
	userBubble      lipgloss.Style
	assistantBubble lipgloss.Style
	typing          lipgloss.Style
	typingDot       lipgloss.Style
	typingDotDim    lipgloss.Style
	panel           lipgloss.Style
	reasoningPanel  lipgloss.Style
	summaryPanel    lipgloss.Style
	panelTitle      lipgloss.Style
	label           lipgloss.Style
	text            lipgloss.Style
	muted           lipgloss.Style
	reference       lipgloss.Style
	barFilled       lipgloss.Style
	barEmpty        lipgloss.Style
	tier            map[consultation.Tier]lipgloss.Style
	status          lipgloss.Style
	warning         lipgloss.Style
	errorStatus     lipgloss.Style
	footer          lipgloss.Style
}

func newTheme() theme {
	primary := lipgloss.Color("#0e7490")
	accent := lipgloss.Color("#22d3ee")
	card := lipgloss.Color("#1e293b")
	text := lipgloss.Color("#f1f5f9")
	muted := lipgloss.Color("#94a3b8")
	info := lipgloss.Color("#60a5fa")
	success := lipgloss.Color("#34d399")
	warning := lipgloss.Color("#fbbf24")
	danger := lipgloss.Color("#f87171")

	return theme{
		header: lipgloss.NewStyle().
			Foreground(accent).
			Bold(true),
		subtitle: lipgloss.NewStyle().Foreground(muted),
		userBubble: lipgloss.NewStyle().
			Background(primary).
			Foreground(text).
			Padding(0, 2),
		assistantBubble: lipgloss.NewStyle().
			Background(card).
			Foreground(text).
			Padding(0, 2),
		typing: lipgloss.NewStyle().
			Background(card).
			Padding(0, 2),
		typingDot:    lipgloss.NewStyle().Foreground(accent).Bold(true),
		typingDotDim: lipgloss.NewStyle().Foreground(muted),
		panel: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(primary).
			Padding(0, 1),
		reasoningPanel: lipgloss.NewStyle().
			BorderStyle(lipgloss.ThickBorder()).
			BorderLeft(true).
			BorderTop(false).
			BorderRight(false).
			BorderBottom(false).
			BorderForeground(accent).
			Padding(0, 1),
		summaryPanel: lipgloss.NewStyle().
			BorderStyle(lipgloss.DoubleBorder()).
			BorderForeground(accent).
			Padding(0, 1),
		panelTitle: lipgloss.NewStyle().Foreground(accent).Bold(true),
		label:      lipgloss.NewStyle().Foreground(accent).Bold(true),
		text:       lipgloss.NewStyle().Foreground(text),
		muted:      lipgloss.NewStyle().Foreground(muted),
		reference:  lipgloss.NewStyle().Foreground(info).Bold(true),
		barFilled:  lipgloss.NewStyle().Foreground(accent),
		barEmpty:   lipgloss.NewStyle().Foreground(muted),
		tier: map[consultation.Tier]lipgloss.Style{
			consultation.TierHigh:     lipgloss.NewStyle().Foreground(success).Bold(true),
			consultation.TierModerate: lipgloss.NewStyle().Foreground(warning).Bold(true),
			consultation.TierLow:      lipgloss.NewStyle().Foreground(danger).Bold(true),
		},
		status:      lipgloss.NewStyle().Foreground(info),
		warning:     lipgloss.NewStyle().Foreground(warning).Bold(true),
		errorStatus: lipgloss.NewStyle().Foreground(danger).Bold(true),
		footer:      lipgloss.NewStyle().Foreground(muted).Italic(true),
	}
}

var styles = newTheme()
