package postgres

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"presign-backend/internal/domain"
	"presign-backend/internal/repository"
)

type questionnaireRepository struct {
	db *sql.DB
}

func NewQuestionnaireRepository(db *sql.DB) repository.QuestionnaireRepository {
	return &questionnaireRepository{db: db}
}

func (r *questionnaireRepository) Create(ctx context.Context, q *domain.Questionnaire) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	query := `INSERT INTO questionnaires (id, organizer_id, name, is_public) VALUES ($1, $2, $3, $4)`
	_, err := r.db.ExecContext(ctx, query, q.ID, q.OrganizerID, i18n(&q.Name), q.IsPublic)
	return err
}

func (r *questionnaireRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Questionnaire, error) {
	q := &domain.Questionnaire{}
	query := `SELECT id, organizer_id, name, is_public FROM questionnaires WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&q.ID, &q.OrganizerID, i18n(&q.Name), &q.IsPublic)
	if err != nil {
		return nil, err
	}
	return q, nil
}

func (r *questionnaireRepository) Update(ctx context.Context, q *domain.Questionnaire) error {
	query := `UPDATE questionnaires SET name = $1, is_public = $2 WHERE id = $3`
	_, err := r.db.ExecContext(ctx, query, i18n(&q.Name), q.IsPublic, q.ID)
	return err
}

func (r *questionnaireRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM questionnaires WHERE id = $1`, id)
	return err
}

func (r *questionnaireRepository) listWhere(ctx context.Context, where string, args ...any) ([]domain.Questionnaire, error) {
	query := `SELECT id, organizer_id, name, is_public FROM questionnaires WHERE ` + where
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Questionnaire
	for rows.Next() {
		var q domain.Questionnaire
		if err := rows.Scan(&q.ID, &q.OrganizerID, i18n(&q.Name), &q.IsPublic); err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

func (r *questionnaireRepository) ListByOrganizer(ctx context.Context, organizerID uuid.UUID) ([]domain.Questionnaire, error) {
	return r.listWhere(ctx, `organizer_id = $1`, organizerID)
}

func (r *questionnaireRepository) ListPublic(ctx context.Context) ([]domain.Questionnaire, error) {
	return r.listWhere(ctx, `is_public`)
}

func (r *questionnaireRepository) CreateBlock(ctx context.Context, b *domain.QuestionBlock) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	query := `INSERT INTO question_blocks (id, questionnaire_id, name, block_order) VALUES ($1, $2, $3, $4)`
	_, err := r.db.ExecContext(ctx, query, b.ID, b.QuestionnaireID, i18n(&b.Name), b.Order)
	return err
}

func (r *questionnaireRepository) ListBlocks(ctx context.Context, questionnaireID uuid.UUID) ([]domain.QuestionBlock, error) {
	query := `SELECT id, questionnaire_id, name, block_order FROM question_blocks
	          WHERE questionnaire_id = $1 ORDER BY block_order`
	rows, err := r.db.QueryContext(ctx, query, questionnaireID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.QuestionBlock
	for rows.Next() {
		var b domain.QuestionBlock
		if err := rows.Scan(&b.ID, &b.QuestionnaireID, i18n(&b.Name), &b.Order); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *questionnaireRepository) CreateQuestion(ctx context.Context, q *domain.Question) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	query := `INSERT INTO questions (id, block_id, kind, required, name, help, question_order)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.db.ExecContext(ctx, query, q.ID, q.BlockID, q.Kind, q.Required,
		i18n(&q.Name), i18n(&q.Help), q.Order)
	return err
}

const questionColumns = `q.id, q.block_id, q.kind, q.required, q.name, q.help, q.question_order`

func scanQuestion(row interface{ Scan(...any) error }, q *domain.Question) error {
	return row.Scan(&q.ID, &q.BlockID, &q.Kind, &q.Required, i18n(&q.Name), i18n(&q.Help), &q.Order)
}

func (r *questionnaireRepository) ListQuestions(ctx context.Context, blockID uuid.UUID) ([]domain.Question, error) {
	query := `SELECT ` + questionColumns + ` FROM questions q
	          WHERE q.block_id = $1 ORDER BY q.question_order`
	return r.queryQuestions(ctx, query, blockID)
}

func (r *questionnaireRepository) ListQuestionsByQuestionnaire(ctx context.Context, questionnaireID uuid.UUID) ([]domain.Question, error) {
	query := `SELECT ` + questionColumns + ` FROM questions q
	          JOIN question_blocks b ON b.id = q.block_id
	          WHERE b.questionnaire_id = $1
	          ORDER BY b.block_order, q.question_order`
	return r.queryQuestions(ctx, query, questionnaireID)
}

func (r *questionnaireRepository) queryQuestions(ctx context.Context, query string, args ...any) ([]domain.Question, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Question
	for rows.Next() {
		var q domain.Question
		if err := scanQuestion(rows, &q); err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

func (r *questionnaireRepository) CreateOption(ctx context.Context, o *domain.QuestionOption) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	query := `INSERT INTO question_options (id, question_id, value, option_order) VALUES ($1, $2, $3, $4)`
	_, err := r.db.ExecContext(ctx, query, o.ID, o.QuestionID, i18n(&o.Value), o.Order)
	return err
}

func (r *questionnaireRepository) ListOptions(ctx context.Context, questionID uuid.UUID) ([]domain.QuestionOption, error) {
	query := `SELECT id, question_id, value, option_order FROM question_options
	          WHERE question_id = $1 ORDER BY option_order`
	rows, err := r.db.QueryContext(ctx, query, questionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.QuestionOption
	for rows.Next() {
		var o domain.QuestionOption
		if err := rows.Scan(&o.ID, &o.QuestionID, i18n(&o.Value), &o.Order); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}
