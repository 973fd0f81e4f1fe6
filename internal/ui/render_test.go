package ui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"minidxo/internal/consultation"
	"minidxo/internal/reference"
)

func pct(v int) *consultation.Percent {
	p := consultation.Percent(v)
	return &p
}

func TestAgentRowsSingleAgent(t *testing.T) {
	agents := []consultation.AgentStatus{{Name: "Symptom Analyst", Status: "analyzing", Icon: consultation.IconSymptom}}

	rows := AgentRows(agents)
	require.Len(t, rows, 1)
	assert.Contains(t, rows[0], "Symptom Analyst")
	assert.Contains(t, rows[0], "analyzing")
	assert.True(t, strings.HasPrefix(rows[0], IconGlyph(consultation.IconSymptom)))

	panel := AgentPanel(agents, nil, 60)
	assert.Equal(t, 1, strings.Count(panel, "Symptom Analyst"))
	assert.Equal(t, 1, strings.Count(panel, "→"))
	assert.NotContains(t, panel, "Diagnosis Confidence")
}

func TestAgentPanelWithConfidence(t *testing.T) {
	agents := []consultation.AgentStatus{
		{Name: "Symptom Analyst", Status: "analyzing", Icon: consultation.IconSymptom},
		{Name: "Medical Researcher", Status: "searching", Icon: consultation.IconResearch},
		{Name: "Diagnosis Synthesizer", Status: "waiting", Icon: consultation.IconDiagnosis},
	}

	panel := AgentPanel(agents, pct(42), 60)
	assert.Equal(t, 3, strings.Count(panel, "→"))
	assert.Contains(t, panel, "Diagnosis Confidence")
	assert.Contains(t, panel, "42%")
}

func TestIconGlyphFallback(t *testing.T) {
	seen := map[string]bool{}
	for _, icon := range []consultation.AgentIcon{consultation.IconSymptom, consultation.IconResearch, consultation.IconDiagnosis} {
		seen[IconGlyph(icon)] = true
	}
	assert.Len(t, seen, 3)
	assert.Equal(t, "•", IconGlyph("stethoscope"))
}

func TestConfidenceTier(t *testing.T) {
	assert.Equal(t, consultation.TierModerate, ConfidenceTier(65))
	assert.Equal(t, consultation.TierHigh, ConfidenceTier(70))
	assert.Equal(t, consultation.TierLow, ConfidenceTier(49))
	assert.NotEqual(t, ConfidenceTier(65), ConfidenceTier(70))
	assert.NotEqual(t, ConfidenceTier(65), ConfidenceTier(49))
}

func TestConfidenceBarWidth(t *testing.T) {
	for _, p := range []consultation.Percent{0, 37, 100} {
		assert.Equal(t, 20, lipgloss.Width(ConfidenceBar(p, 20)), "percent %d", p)
	}
	assert.Empty(t, ConfidenceBar(50, 0))
}

func TestMessageBubbleAlignment(t *testing.T) {
	const width = 60

	user := MessageBubble(consultation.RoleUser, "I have a fever", width)
	assistant := MessageBubble(consultation.RoleAssistant, "How long?", width)

	assert.Contains(t, user, "I have a fever")
	assert.Contains(t, assistant, "How long?")
	assert.Equal(t, width, lipgloss.Width(user))
	assert.Greater(t, strings.Index(user, "I have a fever"), width/2, "user bubble should be right-aligned")
	assert.Less(t, strings.Index(assistant, "How long?"), 5, "assistant bubble should be left-aligned")
}

func TestMessageBubbleWrapsLongContent(t *testing.T) {
	long := strings.Repeat("word ", 40)
	bubble := MessageBubble(consultation.RoleAssistant, long, 50)

	assert.Greater(t, lipgloss.Height(bubble), 1)
	for _, line := range strings.Split(bubble, "\n") {
		assert.LessOrEqual(t, lipgloss.Width(strings.TrimRight(line, " ")), 50)
	}
}

func TestTypingIndicatorHasThreeDots(t *testing.T) {
	for frame := 0; frame < 4; frame++ {
		assert.Equal(t, 3, strings.Count(TypingIndicator(frame), "●"))
	}
}

func TestReasoningPanel(t *testing.T) {
	withRef := ReasoningPanel(ReasoningView{
		Reasoning: "Fever with sore throat narrows the differential.",
		Reference: &consultation.Reference{Source: "Mayo Clinic", Snippet: "White patches"},
		Related:   []reference.Reference{{Condition: "Influenza", Source: "NIH"}},
	}, 60)
	assert.Contains(t, withRef, "AI REASONING")
	assert.Contains(t, withRef, "REFERENCE: MAYO CLINIC")
	assert.Contains(t, withRef, `"White patches"`)
	assert.NotContains(t, withRef, "RELATED REFERENCES")

	related := ReasoningPanel(ReasoningView{
		Reasoning:          "Thinking.",
		PossibleConditions: []string{"Influenza", "Common Cold"},
		Related:            []reference.Reference{{Condition: "Influenza", Source: "NIH"}},
	}, 60)
	assert.NotContains(t, related, "REFERENCE:")
	assert.Contains(t, related, "RELATED REFERENCES")
	assert.Contains(t, related, "Influenza (NIH)")
	assert.Contains(t, related, "DIFFERENTIAL")
	assert.Contains(t, related, "Common Cold")
}

func TestDiagnosisSummary(t *testing.T) {
	out := DiagnosisSummary(consultation.FinalDiagnosis{
		Diagnosis:  "Strep Throat",
		Confidence: 65,
		Evidence:   []string{"white patches", "high fever"},
	}, 60)

	assert.Contains(t, out, "Probable Diagnosis")
	assert.Contains(t, out, "Strep Throat")
	assert.Contains(t, out, "65%")
	assert.Contains(t, out, "• white patches")
	assert.Contains(t, out, "• high fever")
	assert.Contains(t, out, "ctrl+r")
}

func TestStatus(t *testing.T) {
	assert.Contains(t, Status(StatusWarning, "Rate Limit Reached", "wait"), "Rate Limit Reached:")
	assert.Equal(t, "Done", strings.TrimSpace(Status(StatusInfo, "Done", "")))
}
