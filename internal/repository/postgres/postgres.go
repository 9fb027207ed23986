package postgres

import (
	"context"
	"database/sql"

	"presign-backend/internal/repository"

	_ "github.com/lib/pq"
)

// querier is the subset of database/sql shared by *sql.DB and *sql.Tx.
// Repositories run on either, so the same statements serve standalone calls
// and calls inside a unit of work.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// runInTx executes fn inside a transaction. When db already is one, fn
// joins it instead of nesting.
func runInTx(ctx context.Context, db querier, fn func(querier) error) error {
	sqlDB, ok := db.(*sql.DB)
	if !ok {
		return fn(db)
	}
	tx, err := sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

type Store struct {
	db *sql.DB
	repository.UserRepository
	repository.OrganizerRepository
	repository.EventRepository
	repository.QuestionnaireRepository
	repository.ParticipantRepository
	repository.AnswerRepository
	repository.LogRepository
	repository.TextRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                      db,
		UserRepository:          NewUserRepository(db),
		OrganizerRepository:     NewOrganizerRepository(db),
		EventRepository:         NewEventRepository(db),
		QuestionnaireRepository: NewQuestionnaireRepository(db),
		ParticipantRepository:   NewParticipantRepository(db),
		AnswerRepository:        NewAnswerRepository(db),
		LogRepository:           NewLogRepository(db),
		TextRepository:          NewTextRepository(db),
	}
}

// WithinTx implements repository.UnitOfWork for the repositories taking
// part in participant writes.
func (s *Store) WithinTx(ctx context.Context, fn func(repository.Repositories) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	repos := repository.Repositories{
		Participants: &participantRepository{db: tx},
		Answers:      &answerRepository{db: tx},
		Logs:         &logRepository{db: tx},
	}
	if err := fn(repos); err != nil {
		return err
	}
	return tx.Commit()
}
