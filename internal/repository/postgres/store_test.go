package postgres_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"presign-backend/internal/domain"
	"presign-backend/internal/repository"
	"presign-backend/internal/repository/postgres"
)

func TestStoreWithinTx(t *testing.T) {
	participantID := uuid.New()

	submittedEntry := func() *domain.ParticipantLogEvent {
		return &domain.ParticipantLogEvent{
			ParticipantID: participantID,
			EventType:     domain.LogEventApplicationSubmitted,
			Data:          map[string]string{"email": "p@test.com"},
		}
	}

	t.Run("CommitsOnSuccess", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		if err != nil {
			t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
		}
		defer db.Close()
		store := postgres.NewStore(db)

		mock.ExpectBegin()
		mock.ExpectQuery("INSERT INTO participant_log_events").
			WithArgs(sqlmock.AnyArg(), participantID, domain.LogEventApplicationSubmitted, sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(time.Now().Format(time.RFC3339)))
		mock.ExpectCommit()

		err = store.WithinTx(context.Background(), func(repos repository.Repositories) error {
			return repos.Logs.Append(context.Background(), submittedEntry())
		})
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("RollsBackOnError", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		if err != nil {
			t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
		}
		defer db.Close()
		store := postgres.NewStore(db)
		boom := errors.New("mid-sequence failure")

		// The write before the failure must be discarded with the
		// transaction, never committed on its own.
		mock.ExpectBegin()
		mock.ExpectQuery("INSERT INTO participant_log_events").
			WithArgs(sqlmock.AnyArg(), participantID, domain.LogEventApplicationSubmitted, sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(time.Now().Format(time.RFC3339)))
		mock.ExpectRollback()

		err = store.WithinTx(context.Background(), func(repos repository.Repositories) error {
			if err := repos.Logs.Append(context.Background(), submittedEntry()); err != nil {
				return err
			}
			return boom
		})
		assert.ErrorIs(t, err, boom)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("ChangeStateJoinsTheSurroundingTransaction", func(t *testing.T) {
		// Inside a unit of work the guarded state update must not open a
		// nested transaction of its own; a single begin/commit pair covers
		// the whole sequence.
		db, mock, err := sqlmock.New()
		if err != nil {
			t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
		}
		defer db.Close()
		store := postgres.NewStore(db)
		orgID := uuid.New()
		eventID := uuid.New()

		mock.ExpectBegin()
		mock.ExpectExec("UPDATE participants p SET state = \\$1").
			WithArgs("NER", participantID, "APP", orgID, eventID).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery("INSERT INTO participant_log_events").
			WithArgs(sqlmock.AnyArg(), participantID, domain.LogEventStateChange, sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(time.Now().Format(time.RFC3339)))
		mock.ExpectCommit()

		ctx := scopedCtx(orgID, eventID)
		err = store.WithinTx(ctx, func(repos repository.Repositories) error {
			entry := &domain.ParticipantLogEvent{
				ParticipantID: participantID,
				EventType:     domain.LogEventStateChange,
				Data:          domain.StateChangePayload(domain.StateApproved, domain.StateNeedsReview, domain.ActionAnswersSaved),
			}
			return repos.Participants.ChangeState(ctx, participantID, domain.StateApproved, domain.StateNeedsReview, entry)
		})
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
