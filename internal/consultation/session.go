package consultation

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

const Greeting = "Hello! I'm MiniDxO, your AI diagnostic assistant. I'll help analyze your symptoms through a structured conversation. What symptoms are you experiencing today?"

// Relay sends the transcript to the chat relay and returns the raw assistant
// text. Implementations report HTTP 429/402 as ErrRateLimited/ErrQuotaExceeded.
type Relay interface {
	Chat(ctx context.Context, transcript []Turn) (string, error)
}

// Session is the client-side conversation store. At most one exchange is in
// flight at a time.
type Session struct {
	mu sync.Mutex

	relay     Relay
	greeting  string
	now       func() time.Time
	startedAt time.Time

	transcript []Turn
	current    *StructuredReply
	loading    bool
	locked     bool
}

type SessionOption func(*Session)

func WithGreeting(text string) SessionOption {
	return func(s *Session) { s.greeting = text }
}

func WithClock(now func() time.Time) SessionOption {
	return func(s *Session) { s.now = now }
}

func NewSession(relay Relay, opts ...SessionOption) *Session {
	s := &Session{
		relay:    relay,
		greeting: Greeting,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.resetLocked()
	return s
}

// Exchange is a prepared request: the transcript snapshot including the
// user's new turn.
type Exchange struct {
	Transcript []Turn
}

// State is a read-only copy of the session for rendering.
type State struct {
	Transcript []Turn
	Current    *StructuredReply
	Loading    bool
	Locked     bool
}

// Prepare validates the input and appends the user's turn. Rejections leave
// the session unchanged.
func (s *Session) Prepare(text string) (Exchange, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if strings.TrimSpace(text) == "" {
		return Exchange{}, ErrEmptyInput
	}
	if s.loading {
		return Exchange{}, ErrBusy
	}
	if s.locked {
		return Exchange{}, ErrLocked
	}

	s.transcript = append(s.transcript, Turn{Role: RoleUser, Content: text})
	s.current = nil
	s.loading = true
	return Exchange{Transcript: cloneTurns(s.transcript)}, nil
}

// Complete sends a prepared exchange and folds the reply into the session.
// On error only the user's turn from Prepare remains appended.
func (s *Session) Complete(ctx context.Context, ex Exchange) (*StructuredReply, error) {
	text, err := s.relay.Chat(ctx, ex.Transcript)
	var reply *StructuredReply
	if err == nil {
		reply, err = ParseReply(text)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		return nil, err
	}
	s.current = reply
	s.transcript = append(s.transcript, Turn{Role: RoleAssistant, Content: reply.Message})
	if reply.IsDiagnosisComplete {
		s.locked = true
	}
	return reply, nil
}

// Submit prepares and completes one exchange.
func (s *Session) Submit(ctx context.Context, text string) (*StructuredReply, error) {
	ex, err := s.Prepare(text)
	if err != nil {
		return nil, err
	}
	return s.Complete(ctx, ex)
}

// Reset restores the greeting-only transcript and unlocks input. It returns
// ErrBusy while an exchange is in flight.
func (s *Session) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loading {
		return ErrBusy
	}
	s.resetLocked()
	return nil
}

func (s *Session) resetLocked() {
	s.transcript = []Turn{{Role: RoleAssistant, Content: s.greeting}}
	s.current = nil
	s.loading = false
	s.locked = false
	s.startedAt = s.now()
}

func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State{
		Transcript: cloneTurns(s.transcript),
		Current:    s.current,
		Loading:    s.loading,
		Locked:     s.locked,
	}
}

// Record builds the archive record of a concluded session.
func (s *Session) Record() (*Consultation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	diagnosis := s.current.Diagnosis()
	if !s.locked || diagnosis == nil {
		return nil, ErrNotConcluded
	}
	return &Consultation{
		ID:          uuid.New(),
		Transcript:  cloneTurns(s.transcript),
		Diagnosis:   diagnosis,
		CreatedAt:   s.startedAt,
		CompletedAt: s.now(),
	}, nil
}

func cloneTurns(turns []Turn) []Turn {
	out := make([]Turn, len(turns))
	copy(out, turns)
	return out
}
