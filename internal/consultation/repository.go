package consultation

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Consultation, error)
	// Save inserts a new record. Existing records are never overwritten.
	Save(ctx context.Context, c *Consultation) error
}

type postgresRepo struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &postgresRepo{db: db}
}

func (r *postgresRepo) GetByID(ctx context.Context, id uuid.UUID) (*Consultation, error) {
	query := `SELECT id, transcript, diagnosis, created_at, completed_at FROM consultations WHERE id = $1`

	row := r.db.QueryRowContext(ctx, query, id)

	var c Consultation
	var transcriptJSON, diagnosisJSON []byte

	err := row.Scan(
		&c.ID,
		&transcriptJSON,
		&diagnosisJSON,
		&c.CreatedAt,
		&c.CompletedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if len(transcriptJSON) > 0 {
		if err := json.Unmarshal(transcriptJSON, &c.Transcript); err != nil {
			return nil, fmt.Errorf("failed to unmarshal transcript: %w", err)
		}
	}
	if len(diagnosisJSON) > 0 {
		if err := json.Unmarshal(diagnosisJSON, &c.Diagnosis); err != nil {
			return nil, fmt.Errorf("failed to unmarshal diagnosis: %w", err)
		}
	}

	return &c, nil
}

func (r *postgresRepo) Save(ctx context.Context, c *Consultation) error {
	transcriptJSON, err := json.Marshal(c.Transcript)
	if err != nil {
		return err
	}
	diagnosisJSON, err := json.Marshal(c.Diagnosis)
	if err != nil {
		return err
	}

	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	if c.CompletedAt.IsZero() {
		c.CompletedAt = time.Now()
	}

	query := `
		INSERT INTO consultations (id, transcript, diagnosis, created_at, completed_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err = r.db.ExecContext(ctx, query,
		c.ID, transcriptJSON, diagnosisJSON, c.CreatedAt, c.CompletedAt)
	return err
}
