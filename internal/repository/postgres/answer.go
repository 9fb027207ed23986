package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"presign-backend/internal/domain"
	"presign-backend/internal/repository"
	"presign-backend/internal/scope"
)

type answerRepository struct {
	db querier
}

func NewAnswerRepository(db *sql.DB) repository.AnswerRepository {
	return &answerRepository{db: db}
}

// answerScopeFilter guards answer queries with the organizer dimension,
// reaching the tenant through participant -> event.
func answerScopeFilter(ctx context.Context, args []any) (string, []any, error) {
	orgID, constrained, err := scope.OrganizerID(ctx)
	if err != nil {
		return "", nil, err
	}
	if !constrained {
		return "", args, nil
	}
	args = append(args, orgID)
	return fmt.Sprintf(` AND ev.organizer_id = $%d`, len(args)), args, nil
}

// Upsert writes the answer row and replaces its option links. The
// (participant, question) pair is unique; a second save overwrites.
func (r *answerRepository) Upsert(ctx context.Context, a *domain.QuestionAnswer) error {
	if _, _, err := scope.OrganizerID(ctx); err != nil {
		return err
	}
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}

	return runInTx(ctx, r.db, func(tx querier) error {
		now := time.Now()
		err := tx.QueryRowContext(ctx,
			`INSERT INTO question_answers (id, participant_id, question_id, answer, file_ref, created_at, changed_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $6)
			 ON CONFLICT (participant_id, question_id)
			 DO UPDATE SET answer = EXCLUDED.answer, file_ref = EXCLUDED.file_ref, changed_at = EXCLUDED.changed_at
			 RETURNING id, created_at, changed_at`,
			a.ID, a.ParticipantID, a.QuestionID, a.Answer, a.FileRef, now,
		).Scan(&a.ID, &a.CreatedAt, &a.ChangedAt)
		if err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx,
			`DELETE FROM answer_options WHERE answer_id = $1`, a.ID); err != nil {
			return err
		}
		for _, optID := range a.OptionIDs {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO answer_options (answer_id, option_id) VALUES ($1, $2)`,
				a.ID, optID); err != nil {
				return err
			}
		}
		return nil
	})
}

const answerColumns = `a.id, a.participant_id, a.question_id, a.answer, a.file_ref,
	a.created_at, a.changed_at,
	COALESCE(array_agg(ao.option_id) FILTER (WHERE ao.option_id IS NOT NULL), '{}')`

func scanAnswer(row interface{ Scan(...any) error }, a *domain.QuestionAnswer) error {
	var optionIDs pq.StringArray
	var fileRef sql.NullString
	if err := row.Scan(&a.ID, &a.ParticipantID, &a.QuestionID, &a.Answer, &fileRef,
		&a.CreatedAt, &a.ChangedAt, &optionIDs); err != nil {
		return err
	}
	a.FileRef = fileRef.String
	a.OptionIDs = nil
	for _, raw := range optionIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return fmt.Errorf("malformed option id %q: %w", raw, err)
		}
		a.OptionIDs = append(a.OptionIDs, id)
	}
	return nil
}

func (r *answerRepository) GetByParticipantAndQuestion(ctx context.Context, participantID, questionID uuid.UUID) (*domain.QuestionAnswer, error) {
	clause, args, err := answerScopeFilter(ctx, []any{participantID, questionID})
	if err != nil {
		return nil, err
	}
	a := &domain.QuestionAnswer{}
	query := `SELECT ` + answerColumns + `
	          FROM question_answers a
	          JOIN participants p ON p.id = a.participant_id
	          JOIN events ev ON ev.id = p.event_id
	          LEFT JOIN answer_options ao ON ao.answer_id = a.id
	          WHERE a.participant_id = $1 AND a.question_id = $2` + clause + `
	          GROUP BY a.id`
	if err := scanAnswer(r.db.QueryRowContext(ctx, query, args...), a); err != nil {
		return nil, err
	}
	return a, nil
}

// ListByParticipant returns the participant's answers ordered by
// questionnaire, block order and question order.
func (r *answerRepository) ListByParticipant(ctx context.Context, participantID uuid.UUID) ([]domain.QuestionAnswer, error) {
	clause, args, err := answerScopeFilter(ctx, []any{participantID})
	if err != nil {
		return nil, err
	}
	query := `SELECT ` + answerColumns + `
	          FROM question_answers a
	          JOIN participants p ON p.id = a.participant_id
	          JOIN events ev ON ev.id = p.event_id
	          JOIN questions q ON q.id = a.question_id
	          JOIN question_blocks b ON b.id = q.block_id
	          LEFT JOIN answer_options ao ON ao.answer_id = a.id
	          WHERE a.participant_id = $1` + clause + `
	          GROUP BY a.id, b.questionnaire_id, b.block_order, q.question_order
	          ORDER BY b.questionnaire_id, b.block_order, q.question_order`
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.QuestionAnswer
	for rows.Next() {
		var a domain.QuestionAnswer
		if err := scanAnswer(rows, &a); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
