package consultation

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one message of the transcript.
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

type AgentIcon string

const (
	IconSymptom   AgentIcon = "symptom"
	IconResearch  AgentIcon = "research"
	IconDiagnosis AgentIcon = "diagnosis"
)

func (i AgentIcon) Valid() bool {
	switch i {
	case IconSymptom, IconResearch, IconDiagnosis:
		return true
	}
	return false
}

// Percent is a presentation-only percentage in [0, 100].
type Percent int

func (p *Percent) UnmarshalJSON(data []byte) error {
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("percent: %w", err)
	}
	*p = Percent(math.Round(math.Max(0, math.Min(100, f))))
	return nil
}

// Tier buckets a confidence score for display.
type Tier string

const (
	TierHigh     Tier = "high"
	TierModerate Tier = "moderate"
	TierLow      Tier = "low"
)

func (p Percent) Tier() Tier {
	switch {
	case p >= 70:
		return TierHigh
	case p >= 50:
		return TierModerate
	default:
		return TierLow
	}
}

type Reference struct {
	Source  string `json:"source"`
	Snippet string `json:"snippet"`
}

type AgentStatus struct {
	Name   string    `json:"name"`
	Status string    `json:"status"`
	Icon   AgentIcon `json:"icon"`
}

type FinalDiagnosis struct {
	Diagnosis  string   `json:"diagnosis"`
	Confidence Percent  `json:"confidence"`
	Evidence   []string `json:"evidence"`
}

// StructuredReply is the JSON payload the persona answers with on every
// assistant turn.
type StructuredReply struct {
	Message             string          `json:"message"`
	Reasoning           string          `json:"reasoning,omitempty"`
	Reference           *Reference      `json:"reference,omitempty"`
	Agents              []AgentStatus   `json:"agents,omitempty"`
	Confidence          *Percent        `json:"confidence,omitempty"`
	PossibleConditions  []string        `json:"possibleConditions,omitempty"`
	IsDiagnosisComplete bool            `json:"isDiagnosisComplete,omitempty"`
	FinalDiagnosis      *FinalDiagnosis `json:"finalDiagnosis,omitempty"`
}

// Diagnosis returns the final diagnosis only when the reply marks the
// consultation complete.
func (r *StructuredReply) Diagnosis() *FinalDiagnosis {
	if r == nil || !r.IsDiagnosisComplete {
		return nil
	}
	return r.FinalDiagnosis
}

// Consultation is the archived form of a finished session.
type Consultation struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	Transcript  []Turn          `json:"transcript" db:"transcript"`
	Diagnosis   *FinalDiagnosis `json:"diagnosis" db:"diagnosis"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	CompletedAt time.Time       `json:"completed_at" db:"completed_at"`
}
