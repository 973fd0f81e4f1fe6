package report

import (
	"bytes"
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"minidxo/internal/consultation"
)

type fakeTelegram struct {
	messages []string
	docs     []string
	pdf      []byte
}

func (f *fakeTelegram) SendMessage(_ int64, text string) error {
	f.messages = append(f.messages, text)
	return nil
}

func (f *fakeTelegram) SendDocument(_ int64, data []byte, name string) error {
	f.docs = append(f.docs, name)
	f.pdf = data
	return nil
}

func sample() consultation.Consultation {
	return consultation.Consultation{
		ID: uuid.MustParse("6f1c2a9e-3b7d-4c1a-9f3e-2d5b8a7c6e10"),
		Transcript: []consultation.Turn{
			{Role: consultation.RoleAssistant, Content: consultation.Greeting},
			{Role: consultation.RoleUser, Content: "Throbbing headache on one side since yesterday."},
			{Role: consultation.RoleAssistant, Content: "This looks like a migraine."},
		},
		Diagnosis: &consultation.FinalDiagnosis{
			Diagnosis:  "Migraine",
			Confidence: 74,
			Evidence:   []string{"one-sided throbbing pain", "light sensitivity"},
		},
		CreatedAt:   time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
		CompletedAt: time.Date(2026, 3, 1, 9, 5, 0, 0, time.UTC),
	}
}

func installedFont(t *testing.T) string {
	t.Helper()
	for _, p := range DefaultFontPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	t.Skip("no DejaVu font installed")
	return ""
}

func TestRenderWithoutFont(t *testing.T) {
	svc := NewService(nil, 0, "/nonexistent/font.ttf")
	_, err := svc.Render(sample())
	assert.ErrorIs(t, err, ErrNoFont)
}

func TestRender(t *testing.T) {
	svc := NewService(nil, 0, "/nonexistent/font.ttf", installedFont(t))
	pdf, err := svc.Render(sample())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF-")))
}

func TestSendDoctorReportDisabled(t *testing.T) {
	tg := &fakeTelegram{}
	// Rendering would fail on the bogus font, so nothing must be attempted.
	require.NoError(t, NewService(tg, 0, "/nonexistent/font.ttf").SendDoctorReport(context.Background(), sample()))
	require.NoError(t, NewService(nil, 42, "/nonexistent/font.ttf").SendDoctorReport(context.Background(), sample()))
	assert.Empty(t, tg.messages)
	assert.Empty(t, tg.docs)
}

func TestSendDoctorReport(t *testing.T) {
	tg := &fakeTelegram{}
	c := sample()
	svc := NewService(tg, 42, installedFont(t))

	require.NoError(t, svc.SendDoctorReport(context.Background(), c))
	require.Len(t, tg.messages, 1)
	assert.Contains(t, tg.messages[0], "Migraine (74%)")
	assert.Equal(t, []string{"report_" + c.ID.String() + ".pdf"}, tg.docs)
	assert.True(t, bytes.HasPrefix(tg.pdf, []byte("%PDF-")))
}
