package consultation

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"minidxo/internal/logging"
)

// ReportService renders and delivers diagnosis reports.
// We define it here to decouple from the PDF implementation.
type ReportService interface {
	Render(c Consultation) ([]byte, error)
	SendDoctorReport(ctx context.Context, c Consultation) error
}

// Service is the server-side archive of concluded consultations.
type Service interface {
	Archive(ctx context.Context, c Consultation) (*Consultation, error)
	Get(ctx context.Context, id uuid.UUID) (*Consultation, error)
	Report(ctx context.Context, id uuid.UUID) ([]byte, error)
}

type service struct {
	repo      Repository
	reportSvc ReportService
	log       *slog.Logger
}

func NewService(repo Repository, report ReportService) Service {
	return &service{
		repo:      repo,
		reportSvc: report,
		log:       logging.New("consultation"),
	}
}

func (s *service) Archive(ctx context.Context, c Consultation) (*Consultation, error) {
	if c.Diagnosis == nil {
		return nil, ErrNotConcluded
	}
	// IDs are always assigned here; a client-supplied ID is ignored.
	c.ID = uuid.New()
	if c.CompletedAt.IsZero() {
		c.CompletedAt = time.Now()
	}
	if err := s.repo.Save(ctx, &c); err != nil {
		return nil, fmt.Errorf("save consultation: %w", err)
	}

	// Delivery must not hold up the response.
	go func(c Consultation) {
		bgCtx := context.Background()
		if err := s.reportSvc.SendDoctorReport(bgCtx, c); err != nil {
			s.log.Error("report delivery failed", "consultation", c.ID, "err", err)
			return
		}
		s.log.Info("report delivered", "consultation", c.ID)
	}(c)

	return &c, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*Consultation, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) Report(ctx context.Context, id uuid.UUID) ([]byte, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.reportSvc.Render(*c)
}
