// Package ui renders conversation state as styled terminal text. Every
// function is pure: same input, same output.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"minidxo/internal/consultation"
	"minidxo/internal/reference"
)

const (
	Title      = "MiniDxO"
	Subtitle   = "The Transparent AI Diagnostician"
	Disclaimer = "Educational simulation only • Not for medical diagnosis • Consult healthcare professionals"

	summaryDisclaimer = "⚠ This is an AI simulation for educational purposes only. Always consult a qualified healthcare professional for medical advice."
)

func Header() string {
	return styles.header.Render("⚕ "+Title) + "  " + styles.subtitle.Render(Subtitle)
}

func Footer() string {
	return styles.footer.Render(Disclaimer)
}

// MessageBubble renders one turn: user turns right-aligned, assistant turns
// left-aligned, wrapped to 80% of width.
func MessageBubble(role consultation.Role, content string, width int) string {
	maxWidth := width * 8 / 10
	if maxWidth < 10 {
		maxWidth = 10
	}

	style := styles.assistantBubble
	align := lipgloss.Left
	if role == consultation.RoleUser {
		style = styles.userBubble
		align = lipgloss.Right
	}

	frame := style.GetHorizontalFrameSize()
	textWidth := lipgloss.Width(content) + frame
	if textWidth > maxWidth {
		textWidth = maxWidth
	}
	bubble := style.Width(textWidth).Render(content)
	return lipgloss.PlaceHorizontal(width, align, bubble)
}

// TypingIndicator is the placeholder shown while a reply is pending. frame
// advances the highlighted dot.
func TypingIndicator(frame int) string {
	dots := make([]string, 3)
	active := ((frame % 3) + 3) % 3
	for i := range dots {
		if i == active {
			dots[i] = styles.typingDot.Render("●")
		} else {
			dots[i] = styles.typingDotDim.Render("●")
		}
	}
	return styles.typing.Render(strings.Join(dots, " "))
}

// IconGlyph maps an agent icon to its glyph. Unknown icons get a bullet.
func IconGlyph(icon consultation.AgentIcon) string {
	switch icon {
	case consultation.IconSymptom:
		return "♥"
	case consultation.IconResearch:
		return "⌕"
	case consultation.IconDiagnosis:
		return "✦"
	default:
		return "•"
	}
}

// AgentRows returns one plain row per agent.
func AgentRows(agents []consultation.AgentStatus) []string {
	rows := make([]string, 0, len(agents))
	for _, a := range agents {
		rows = append(rows, fmt.Sprintf("%s %s → %s", IconGlyph(a.Icon), a.Name, a.Status))
	}
	return rows
}

// AgentPanel renders the agent-status list with an optional confidence bar.
func AgentPanel(agents []consultation.AgentStatus, confidence *consultation.Percent, width int) string {
	inner := panelInner(styles.panel, width)

	var b strings.Builder
	b.WriteString(styles.panelTitle.Render("✦ AI Agents Collaborating"))
	for _, row := range AgentRows(agents) {
		b.WriteString("\n")
		b.WriteString(styles.text.Width(inner).Render(row))
	}

	if confidence != nil {
		pct := fmt.Sprintf("%d%%", *confidence)
		label := "Diagnosis Confidence"
		gap := inner - lipgloss.Width(label) - lipgloss.Width(pct)
		if gap < 1 {
			gap = 1
		}
		b.WriteString("\n\n")
		b.WriteString(styles.muted.Render(label) + strings.Repeat(" ", gap) + styles.label.Render(pct))
		b.WriteString("\n")
		b.WriteString(ConfidenceBar(*confidence, inner))
	}

	return styles.panel.Width(width - styles.panel.GetHorizontalBorderSize()).Render(b.String())
}

// ConfidenceBar draws p as a bar of the given width.
func ConfidenceBar(p consultation.Percent, width int) string {
	if width < 1 {
		return ""
	}
	filled := int(p) * width / 100
	return styles.barFilled.Render(strings.Repeat("█", filled)) +
		styles.barEmpty.Render(strings.Repeat("░", width-filled))
}

// ReasoningView is the input of the reasoning panel. Related is shown only
// when the reply cites no reference of its own.
type ReasoningView struct {
	Reasoning          string
	Reference          *consultation.Reference
	PossibleConditions []string
	Related            []reference.Reference
}

func ReasoningPanel(v ReasoningView, width int) string {
	inner := panelInner(styles.reasoningPanel, width)
	body := styles.text.Width(inner)

	var b strings.Builder
	b.WriteString(styles.label.Render("AI REASONING"))
	b.WriteString("\n")
	b.WriteString(body.Render(v.Reasoning))

	if len(v.PossibleConditions) > 0 {
		b.WriteString("\n\n")
		b.WriteString(styles.label.Render("DIFFERENTIAL"))
		for _, c := range v.PossibleConditions {
			b.WriteString("\n")
			b.WriteString(body.Render("• " + c))
		}
	}

	switch {
	case v.Reference != nil:
		b.WriteString("\n\n")
		b.WriteString(styles.reference.Render("REFERENCE: " + strings.ToUpper(v.Reference.Source)))
		b.WriteString("\n")
		b.WriteString(styles.muted.Italic(true).Width(inner).Render(`"` + v.Reference.Snippet + `"`))
	case len(v.Related) > 0:
		b.WriteString("\n\n")
		b.WriteString(styles.reference.Render("RELATED REFERENCES"))
		for _, r := range v.Related {
			b.WriteString("\n")
			b.WriteString(styles.muted.Width(inner).Render(fmt.Sprintf("%s (%s)", r.Condition, r.Source)))
		}
	}

	return styles.reasoningPanel.Width(width - styles.reasoningPanel.GetHorizontalBorderSize()).Render(b.String())
}

// ConfidenceTier selects the colour tier of a diagnosis confidence.
func ConfidenceTier(p consultation.Percent) consultation.Tier {
	return p.Tier()
}

// DiagnosisSummary renders the terminal diagnosis card.
func DiagnosisSummary(d consultation.FinalDiagnosis, width int) string {
	inner := panelInner(styles.summaryPanel, width)
	tierStyle := styles.tier[ConfidenceTier(d.Confidence)]

	var b strings.Builder
	b.WriteString(styles.panelTitle.Render("✔ Probable Diagnosis"))
	b.WriteString("\n")
	b.WriteString(styles.header.Width(inner).Render(d.Diagnosis))
	b.WriteString("\n\n")
	b.WriteString(styles.muted.Render("Confidence Score: "))
	b.WriteString(tierStyle.Render(fmt.Sprintf("%d%%", d.Confidence)))
	b.WriteString("\n\n")
	b.WriteString(styles.label.Render("Key Evidence"))
	for _, e := range d.Evidence {
		b.WriteString("\n")
		b.WriteString(styles.text.Width(inner).Render("• " + e))
	}
	b.WriteString("\n\n")
	b.WriteString(styles.status.Render("Press ctrl+r to start a new diagnosis"))
	b.WriteString("\n")
	b.WriteString(styles.footer.Width(inner).Render(summaryDisclaimer))

	return styles.summaryPanel.Width(width - styles.summaryPanel.GetHorizontalBorderSize()).Render(b.String())
}

type StatusKind int

const (
	StatusInfo StatusKind = iota
	StatusWarning
	StatusError
)

// Status renders a transient notification line.
func Status(kind StatusKind, title, description string) string {
	style := styles.status
	switch kind {
	case StatusWarning:
		style = styles.warning
	case StatusError:
		style = styles.errorStatus
	}
	if description == "" {
		return style.Render(title)
	}
	return style.Render(title+":") + " " + styles.text.Render(description)
}

func panelInner(style lipgloss.Style, width int) int {
	inner := width - style.GetHorizontalFrameSize()
	if inner < 10 {
		inner = 10
	}
	return inner
}
