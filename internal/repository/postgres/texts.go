package postgres

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/google/uuid"

	"presign-backend/internal/domain"
	"presign-backend/internal/repository"
	"presign-backend/internal/scope"
)

type textRepository struct {
	db *sql.DB
}

func NewTextRepository(db *sql.DB) repository.TextRepository {
	return &textRepository{db: db}
}

func (r *textRepository) Set(ctx context.Context, t *domain.StoredText) error {
	if _, _, err := scope.OrganizerID(ctx); err != nil {
		return err
	}
	value, err := json.Marshal(t.Value)
	if err != nil {
		return err
	}
	query := `INSERT INTO stored_texts (owner_kind, owner_id, text_group, text_key, value)
	          VALUES ($1, $2, $3, $4, $5)
	          ON CONFLICT (owner_kind, owner_id, text_group, text_key)
	          DO UPDATE SET value = EXCLUDED.value`
	_, err = r.db.ExecContext(ctx, query, t.Owner, t.OwnerID, t.Group, t.Key, value)
	return err
}

func (r *textRepository) Get(ctx context.Context, owner domain.TextOwner, ownerID uuid.UUID, group domain.TextGroup, key string) (*domain.StoredText, error) {
	if _, _, err := scope.OrganizerID(ctx); err != nil {
		return nil, err
	}
	t := &domain.StoredText{Owner: owner, OwnerID: ownerID, Group: group, Key: key}
	var value []byte
	query := `SELECT value FROM stored_texts
	          WHERE owner_kind = $1 AND owner_id = $2 AND text_group = $3 AND text_key = $4`
	err := r.db.QueryRowContext(ctx, query, owner, ownerID, group, key).Scan(&value)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(value, &t.Value); err != nil {
		return nil, err
	}
	return t, nil
}

// GetWithFallback reads an event-level text and falls back to the organizer
// level when the event has no override for the key.
func (r *textRepository) GetWithFallback(ctx context.Context, eventID, organizerID uuid.UUID, group domain.TextGroup, key string) (*domain.StoredText, error) {
	t, err := r.Get(ctx, domain.TextOwnerEvent, eventID, group, key)
	if err == nil {
		return t, nil
	}
	if err != sql.ErrNoRows {
		return nil, err
	}
	return r.Get(ctx, domain.TextOwnerOrganizer, organizerID, group, key)
}
