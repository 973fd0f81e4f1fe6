package report

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/signintech/gopdf"

	"minidxo/internal/consultation"
	"minidxo/internal/logging"
)

const (
	pageBottom = 780.0
	textWidth  = 500.0
)

// DefaultFontPaths are tried in order when no font is configured.
var DefaultFontPaths = []string{
	"/usr/share/fonts/ttf-dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
}

var ErrNoFont = errors.New("no usable TTF font for PDF report")

type TelegramClient interface {
	SendMessage(chatID int64, text string) error
	SendDocument(chatID int64, fileData []byte, fileName string) error
}

type Service struct {
	tgClient     TelegramClient
	doctorChatID int64
	fontPaths    []string
	log          *slog.Logger
}

// NewService builds the report service. A nil Telegram client or a zero chat
// ID disables delivery; rendering still works.
func NewService(tg TelegramClient, doctorChatID int64, fontPaths ...string) *Service {
	if len(fontPaths) == 0 {
		fontPaths = DefaultFontPaths
	}
	return &Service{
		tgClient:     tg,
		doctorChatID: doctorChatID,
		fontPaths:    fontPaths,
		log:          logging.New("report"),
	}
}

func (s *Service) SendDoctorReport(ctx context.Context, c consultation.Consultation) error {
	if s.tgClient == nil || s.doctorChatID == 0 {
		s.log.Debug("report delivery disabled", "consultation", c.ID)
		return nil
	}

	pdf, err := s.Render(c)
	if err != nil {
		return err
	}

	if c.Diagnosis != nil {
		summary := fmt.Sprintf("MiniDxO consultation %s\nProbable diagnosis: %s (%d%%)", c.ID, c.Diagnosis.Diagnosis, c.Diagnosis.Confidence)
		if err := s.tgClient.SendMessage(s.doctorChatID, summary); err != nil {
			return err
		}
	}

	fileName := fmt.Sprintf("report_%s.pdf", c.ID.String())
	s.log.Info("sending PDF report", "consultation", c.ID, "chat", s.doctorChatID)
	return s.tgClient.SendDocument(s.doctorChatID, pdf, fileName)
}

// Render produces the PDF report of a consultation.
func (s *Service) Render(c consultation.Consultation) ([]byte, error) {
	pdf := &gopdf.GoPdf{}
	pdf.Start(gopdf.Config{PageSize: *gopdf.PageSizeA4})
	pdf.AddPage()

	if err := s.loadFont(pdf); err != nil {
		return nil, err
	}

	w := &writer{pdf: pdf}
	w.line(20, "MiniDxO Diagnostic Report")
	w.br(10)
	w.line(11, fmt.Sprintf("Consultation: %s", c.ID))
	w.line(11, fmt.Sprintf("Completed: %s", c.CompletedAt.Format("02.01.2006 15:04")))
	w.br(10)

	if d := c.Diagnosis; d != nil {
		w.line(14, "Probable Diagnosis")
		w.paragraph(12, d.Diagnosis)
		w.line(11, fmt.Sprintf("Confidence: %d%% (%s)", d.Confidence, d.Confidence.Tier()))
		w.br(8)
		w.line(14, "Key Evidence")
		if len(d.Evidence) == 0 {
			w.line(11, "- No evidence recorded.")
		}
		for _, e := range d.Evidence {
			w.paragraph(11, "- "+e)
		}
		w.br(10)
	}

	w.line(14, "Transcript")
	for _, t := range c.Transcript {
		w.paragraph(10, fmt.Sprintf("%s: %s", strings.ToUpper(string(t.Role)), t.Content))
		w.br(3)
	}

	w.br(10)
	w.paragraph(9, "This is an AI simulation for educational purposes only. Always consult a qualified healthcare professional for medical advice.")

	if w.err != nil {
		return nil, w.err
	}

	var buf bytes.Buffer
	if _, err := pdf.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *Service) loadFont(pdf *gopdf.GoPdf) error {
	var lastErr error
	for _, path := range s.fontPaths {
		if err := pdf.AddTTFFont("DejaVu", path); err != nil {
			lastErr = err
			continue
		}
		s.log.Debug("loaded report font", "path", path)
		return nil
	}
	return fmt.Errorf("%w: last error: %v", ErrNoFont, lastErr)
}

// writer keeps the first error so the layout code stays linear.
type writer struct {
	pdf *gopdf.GoPdf
	err error
}

func (w *writer) setFont(size float64) bool {
	if w.err != nil {
		return false
	}
	w.err = w.pdf.SetFont("DejaVu", "", size)
	return w.err == nil
}

func (w *writer) line(size float64, text string) {
	if !w.setFont(size) {
		return
	}
	w.cell(text, size)
}

func (w *writer) paragraph(size float64, text string) {
	if !w.setFont(size) {
		return
	}
	lines, err := w.pdf.SplitText(text, textWidth)
	if err != nil {
		w.err = err
		return
	}
	for _, l := range lines {
		w.cell(l, size)
	}
}

func (w *writer) cell(text string, size float64) {
	if w.err != nil {
		return
	}
	if w.pdf.GetY() > pageBottom {
		w.pdf.AddPage()
	}
	if err := w.pdf.Cell(nil, text); err != nil {
		w.err = err
		return
	}
	w.pdf.Br(size + 4)
}

func (w *writer) br(h float64) {
	w.pdf.Br(h)
}
