package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"presign-backend/internal/domain"
	"presign-backend/internal/repository"
)

type logRepository struct {
	db querier
}

func NewLogRepository(db *sql.DB) repository.LogRepository {
	return &logRepository{db: db}
}

func (r *logRepository) Append(ctx context.Context, entry *domain.ParticipantLogEvent) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	payload, err := json.Marshal(entry.Data)
	if err != nil {
		return err
	}
	query := `INSERT INTO participant_log_events (id, participant_id, event_type, data, created_at)
	          VALUES ($1, $2, $3, $4, $5) RETURNING created_at`
	return r.db.QueryRowContext(ctx, query,
		entry.ID, entry.ParticipantID, entry.EventType, payload, time.Now(),
	).Scan(&entry.CreatedAt)
}

func (r *logRepository) ListByParticipant(ctx context.Context, participantID uuid.UUID) ([]domain.ParticipantLogEvent, error) {
	query := `SELECT id, participant_id, event_type, data, created_at
	          FROM participant_log_events WHERE participant_id = $1 ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, query, participantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.ParticipantLogEvent
	for rows.Next() {
		var entry domain.ParticipantLogEvent
		var payload []byte
		if err := rows.Scan(&entry.ID, &entry.ParticipantID, &entry.EventType, &payload, &entry.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(payload, &entry.Data); err != nil {
			return nil, err
		}
		out = append(out, entry)
	}
	return out, rows.Err()
}
