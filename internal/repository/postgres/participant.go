package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"presign-backend/internal/domain"
	"presign-backend/internal/repository"
	"presign-backend/internal/scope"
)

type participantRepository struct {
	db querier
}

func NewParticipantRepository(db *sql.DB) repository.ParticipantRepository {
	return &participantRepository{db: db}
}

const participantColumns = `p.id, p.event_id, p.email, p.code, p.secret, p.state,
	p.public_comment, p.internal_comment, p.created_at`

func scanParticipant(row interface{ Scan(...any) error }, p *domain.Participant) error {
	return row.Scan(&p.ID, &p.EventID, &p.Email, &p.Code, &p.Secret, &p.State,
		i18n(&p.PublicComment), i18n(&p.InternalComment), &p.CreatedAt)
}

// scopeFilter returns the organizer/event filter clause for queries aliasing
// participants as p and joining events as e. Both dimensions must be
// declared; either may be declared unconstrained.
func participantScopeFilter(ctx context.Context, args []any) (string, []any, error) {
	orgID, orgConstrained, err := scope.OrganizerID(ctx)
	if err != nil {
		return "", nil, err
	}
	eventID, eventConstrained, err := scope.EventID(ctx)
	if err != nil {
		return "", nil, err
	}
	clause := ""
	if orgConstrained {
		args = append(args, orgID)
		clause += fmt.Sprintf(" AND e.organizer_id = $%d", len(args))
	}
	if eventConstrained {
		args = append(args, eventID)
		clause += fmt.Sprintf(" AND p.event_id = $%d", len(args))
	}
	return clause, args, nil
}

func (r *participantRepository) Create(ctx context.Context, p *domain.Participant) error {
	if _, _, err := scope.OrganizerID(ctx); err != nil {
		return err
	}
	if _, _, err := scope.EventID(ctx); err != nil {
		return err
	}
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.State == "" {
		p.State = domain.StateNew
	}
	query := `INSERT INTO participants (id, event_id, email, code, secret, state,
	              public_comment, internal_comment, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING created_at`
	return r.db.QueryRowContext(ctx, query,
		p.ID, p.EventID, p.Email, p.Code, p.Secret, p.State,
		i18n(&p.PublicComment), i18n(&p.InternalComment), time.Now(),
	).Scan(&p.CreatedAt)
}

func (r *participantRepository) getOne(ctx context.Context, where string, whereArgs ...any) (*domain.Participant, error) {
	clause, args, err := participantScopeFilter(ctx, whereArgs)
	if err != nil {
		return nil, err
	}
	p := &domain.Participant{}
	query := `SELECT ` + participantColumns + `
	          FROM participants p JOIN events e ON e.id = p.event_id
	          WHERE ` + where + clause
	if err := scanParticipant(r.db.QueryRowContext(ctx, query, args...), p); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *participantRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Participant, error) {
	return r.getOne(ctx, "p.id = $1", id)
}

func (r *participantRepository) GetByCode(ctx context.Context, code string) (*domain.Participant, error) {
	return r.getOne(ctx, "p.code = $1", code)
}

func (r *participantRepository) GetByCodeAndSecret(ctx context.Context, code, secret string) (*domain.Participant, error) {
	return r.getOne(ctx, "p.code = $1 AND p.secret = $2", code, secret)
}

func (r *participantRepository) list(ctx context.Context, extra string, extraArgs ...any) ([]domain.Participant, error) {
	clause, args, err := participantScopeFilter(ctx, extraArgs)
	if err != nil {
		return nil, err
	}
	query := `SELECT ` + participantColumns + `
	          FROM participants p JOIN events e ON e.id = p.event_id
	          WHERE 1=1` + extra + clause + ` ORDER BY p.created_at`
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Participant
	for rows.Next() {
		var p domain.Participant
		if err := scanParticipant(rows, &p); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *participantRepository) List(ctx context.Context) ([]domain.Participant, error) {
	return r.list(ctx, "")
}

func (r *participantRepository) ListByStates(ctx context.Context, states []domain.ParticipantState) ([]domain.Participant, error) {
	codes := make([]string, len(states))
	for i, s := range states {
		codes[i] = string(s)
	}
	return r.list(ctx, " AND p.state = ANY($1)", pq.Array(codes))
}

func (r *participantRepository) UpdateComments(ctx context.Context, p *domain.Participant) error {
	clause, args, err := participantScopeFilter(ctx, []any{i18n(&p.PublicComment), i18n(&p.InternalComment), p.ID})
	if err != nil {
		return err
	}
	query := `UPDATE participants p SET public_comment = $1, internal_comment = $2
	          FROM events e
	          WHERE e.id = p.event_id AND p.id = $3` + clause
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *participantRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM participants WHERE code = $1)`, code).Scan(&exists)
	return exists, err
}

func (r *participantRepository) SecretExists(ctx context.Context, secret string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM participants WHERE secret = $1)`, secret).Scan(&exists)
	return exists, err
}

// ChangeState applies the single-field state update and the audit log entry
// as one transaction. The UPDATE is guarded by the expected current state,
// so of two racing transitions exactly one sees its guard hold; the loser
// gets ErrStateConflict and the transaction is rolled back.
func (r *participantRepository) ChangeState(ctx context.Context, id uuid.UUID, from, to domain.ParticipantState, entry *domain.ParticipantLogEvent) error {
	clause, args, err := participantScopeFilter(ctx, []any{to, id, from})
	if err != nil {
		return err
	}

	return runInTx(ctx, r.db, func(tx querier) error {
		query := `UPDATE participants p SET state = $1
		          FROM events e
		          WHERE e.id = p.event_id AND p.id = $2 AND p.state = $3` + clause
		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return domain.ErrStateConflict
		}

		if entry.ID == uuid.Nil {
			entry.ID = uuid.New()
		}
		payload, err := json.Marshal(entry.Data)
		if err != nil {
			return err
		}
		return tx.QueryRowContext(ctx,
			`INSERT INTO participant_log_events (id, participant_id, event_type, data, created_at)
			 VALUES ($1, $2, $3, $4, $5) RETURNING created_at`,
			entry.ID, entry.ParticipantID, entry.EventType, payload, time.Now(),
		).Scan(&entry.CreatedAt)
	})
}
