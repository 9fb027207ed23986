package postgres

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"presign-backend/internal/domain"
	"presign-backend/internal/repository"
	"presign-backend/internal/scope"
)

type eventRepository struct {
	db *sql.DB
}

func NewEventRepository(db *sql.DB) repository.EventRepository {
	return &eventRepository{db: db}
}

const eventColumns = `id, organizer_id, slug, name, description, enabled,
	event_date, signup_start, signup_end, signup_end_shown, lock_date`

func scanEvent(row interface{ Scan(...any) error }, e *domain.Event) error {
	return row.Scan(&e.ID, &e.OrganizerID, &e.Slug, i18n(&e.Name), i18n(&e.Description),
		&e.Enabled, &e.EventDate, &e.SignupStart, &e.SignupEnd, &e.SignupEndShown, &e.LockDate)
}

func (r *eventRepository) Create(ctx context.Context, event *domain.Event) error {
	orgID, constrained, err := scope.OrganizerID(ctx)
	if err != nil {
		return err
	}
	if constrained && event.OrganizerID != orgID {
		return &domain.UnscopedAccessError{Dimension: "organizer"}
	}
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	query := `INSERT INTO events (id, organizer_id, slug, name, description, enabled,
	              event_date, signup_start, signup_end, signup_end_shown, lock_date)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err = r.db.ExecContext(ctx, query,
		event.ID, event.OrganizerID, event.Slug, i18n(&event.Name), i18n(&event.Description),
		event.Enabled, event.EventDate, event.SignupStart, event.SignupEnd,
		event.SignupEndShown, event.LockDate)
	return err
}

func (r *eventRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Event, error) {
	orgID, constrained, err := scope.OrganizerID(ctx)
	if err != nil {
		return nil, err
	}
	event := &domain.Event{}
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`
	args := []any{id}
	if constrained {
		query += ` AND organizer_id = $2`
		args = append(args, orgID)
	}
	if err := scanEvent(r.db.QueryRowContext(ctx, query, args...), event); err != nil {
		return nil, err
	}
	return event, nil
}

func (r *eventRepository) GetBySlug(ctx context.Context, organizerSlug, eventSlug string) (*domain.Event, error) {
	orgID, constrained, err := scope.OrganizerID(ctx)
	if err != nil {
		return nil, err
	}
	event := &domain.Event{}
	query := `SELECT e.id, e.organizer_id, e.slug, e.name, e.description, e.enabled,
	              e.event_date, e.signup_start, e.signup_end, e.signup_end_shown, e.lock_date
	          FROM events e JOIN organizers o ON o.id = e.organizer_id
	          WHERE lower(o.slug) = lower($1) AND lower(e.slug) = lower($2)`
	args := []any{organizerSlug, eventSlug}
	if constrained {
		query += ` AND e.organizer_id = $3`
		args = append(args, orgID)
	}
	if err := scanEvent(r.db.QueryRowContext(ctx, query, args...), event); err != nil {
		return nil, err
	}
	return event, nil
}

func (r *eventRepository) Update(ctx context.Context, event *domain.Event) error {
	orgID, constrained, err := scope.OrganizerID(ctx)
	if err != nil {
		return err
	}
	query := `UPDATE events SET slug = $1, name = $2, description = $3, enabled = $4,
	              event_date = $5, signup_start = $6, signup_end = $7,
	              signup_end_shown = $8, lock_date = $9
	          WHERE id = $10`
	args := []any{event.Slug, i18n(&event.Name), i18n(&event.Description), event.Enabled,
		event.EventDate, event.SignupStart, event.SignupEnd, event.SignupEndShown,
		event.LockDate, event.ID}
	if constrained {
		query += ` AND organizer_id = $11`
		args = append(args, orgID)
	}
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

func (r *eventRepository) List(ctx context.Context) ([]domain.Event, error) {
	orgID, constrained, err := scope.OrganizerID(ctx)
	if err != nil {
		return nil, err
	}
	query := `SELECT ` + eventColumns + ` FROM events`
	var args []any
	if constrained {
		query += ` WHERE organizer_id = $1`
		args = append(args, orgID)
	}
	query += ` ORDER BY event_date`
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []domain.Event
	for rows.Next() {
		var e domain.Event
		if err := scanEvent(rows, &e); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *eventRepository) AssignQuestionnaire(ctx context.Context, eq *domain.EventQuestionnaire) error {
	if _, _, err := scope.OrganizerID(ctx); err != nil {
		return err
	}
	if eq.ID == uuid.Nil {
		eq.ID = uuid.New()
	}
	// One questionnaire per event and role; re-assignment replaces.
	query := `INSERT INTO event_questionnaires (id, event_id, questionnaire_id, role)
	          VALUES ($1, $2, $3, $4)
	          ON CONFLICT (event_id, role) DO UPDATE SET questionnaire_id = EXCLUDED.questionnaire_id`
	_, err := r.db.ExecContext(ctx, query, eq.ID, eq.EventID, eq.QuestionnaireID, eq.Role)
	return err
}

func (r *eventRepository) QuestionnaireForRole(ctx context.Context, eventID uuid.UUID, role domain.QuestionnaireRole) (*domain.Questionnaire, error) {
	orgID, constrained, err := scope.OrganizerID(ctx)
	if err != nil {
		return nil, err
	}
	q := &domain.Questionnaire{}
	query := `SELECT q.id, q.organizer_id, q.name, q.is_public
	          FROM questionnaires q
	          JOIN event_questionnaires eq ON eq.questionnaire_id = q.id
	          JOIN events e ON e.id = eq.event_id
	          WHERE eq.event_id = $1 AND eq.role = $2`
	args := []any{eventID, role}
	if constrained {
		query += ` AND e.organizer_id = $3`
		args = append(args, orgID)
	}
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&q.ID, &q.OrganizerID, i18n(&q.Name), &q.IsPublic)
	if err != nil {
		return nil, err
	}
	return q, nil
}

func (r *eventRepository) ListAssignments(ctx context.Context, eventID uuid.UUID) ([]domain.EventQuestionnaire, error) {
	orgID, constrained, err := scope.OrganizerID(ctx)
	if err != nil {
		return nil, err
	}
	query := `SELECT eq.id, eq.event_id, eq.questionnaire_id, eq.role
	          FROM event_questionnaires eq
	          JOIN events e ON e.id = eq.event_id
	          WHERE eq.event_id = $1`
	args := []any{eventID}
	if constrained {
		query += ` AND e.organizer_id = $2`
		args = append(args, orgID)
	}
	query += ` ORDER BY eq.role`
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var eqs []domain.EventQuestionnaire
	for rows.Next() {
		var eq domain.EventQuestionnaire
		if err := rows.Scan(&eq.ID, &eq.EventID, &eq.QuestionnaireID, &eq.Role); err != nil {
			return nil, err
		}
		eqs = append(eqs, eq)
	}
	return eqs, rows.Err()
}
