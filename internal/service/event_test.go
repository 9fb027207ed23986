package service_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"presign-backend/internal/domain"
	"presign-backend/internal/service"
)

func TestEnableEvent(t *testing.T) {
	ctx := context.Background()
	eventID := uuid.New()

	t.Run("BothQuestionnairesAssigned", func(t *testing.T) {
		eventRepo := new(MockEventRepo)
		svc := service.NewEventService(eventRepo, new(MockTextRepo))

		eventRepo.On("QuestionnaireForRole", ctx, eventID, domain.RoleDuringSignup).
			Return(&domain.Questionnaire{ID: uuid.New()}, nil)
		eventRepo.On("QuestionnaireForRole", ctx, eventID, domain.RoleAfterApproval).
			Return(&domain.Questionnaire{ID: uuid.New()}, nil)
		eventRepo.On("GetByID", ctx, eventID).
			Return(&domain.Event{ID: eventID, Enabled: false}, nil)
		eventRepo.On("Update", ctx, mock.MatchedBy(func(e *domain.Event) bool {
			return e.Enabled
		})).Return(nil)

		assert.NoError(t, svc.EnableEvent(ctx, eventID))
		eventRepo.AssertExpectations(t)
	})

	t.Run("SignupQuestionnaireMissing", func(t *testing.T) {
		eventRepo := new(MockEventRepo)
		svc := service.NewEventService(eventRepo, new(MockTextRepo))

		eventRepo.On("QuestionnaireForRole", ctx, eventID, domain.RoleDuringSignup).
			Return(nil, sql.ErrNoRows)

		err := svc.EnableEvent(ctx, eventID)
		assert.ErrorIs(t, err, service.ErrQuestionnairesMissing)
		eventRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("AfterApprovalQuestionnaireMissing", func(t *testing.T) {
		eventRepo := new(MockEventRepo)
		svc := service.NewEventService(eventRepo, new(MockTextRepo))

		eventRepo.On("QuestionnaireForRole", ctx, eventID, domain.RoleDuringSignup).
			Return(&domain.Questionnaire{ID: uuid.New()}, nil)
		eventRepo.On("QuestionnaireForRole", ctx, eventID, domain.RoleAfterApproval).
			Return(nil, sql.ErrNoRows)

		err := svc.EnableEvent(ctx, eventID)
		assert.ErrorIs(t, err, service.ErrQuestionnairesMissing)
	})
}

func TestCanBeEnabled(t *testing.T) {
	ctx := context.Background()
	eventID := uuid.New()

	eventRepo := new(MockEventRepo)
	svc := service.NewEventService(eventRepo, new(MockTextRepo))

	eventRepo.On("QuestionnaireForRole", ctx, eventID, domain.RoleDuringSignup).
		Return(nil, sql.ErrNoRows)

	ok, err := svc.CanBeEnabled(ctx, eventID)
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestCreateEvent(t *testing.T) {
	ctx := context.Background()

	t.Run("StartsDisabled", func(t *testing.T) {
		eventRepo := new(MockEventRepo)
		svc := service.NewEventService(eventRepo, new(MockTextRepo))

		eventRepo.On("Create", ctx, mock.MatchedBy(func(e *domain.Event) bool {
			return !e.Enabled
		})).Return(nil)

		err := svc.CreateEvent(ctx, &domain.Event{
			Slug:      "camp-2026",
			EventDate: time.Now().Add(30 * 24 * time.Hour),
			Enabled:   true,
		})
		assert.NoError(t, err)
		eventRepo.AssertExpectations(t)
	})

	t.Run("SlugRequired", func(t *testing.T) {
		eventRepo := new(MockEventRepo)
		svc := service.NewEventService(eventRepo, new(MockTextRepo))

		err := svc.CreateEvent(ctx, &domain.Event{EventDate: time.Now()})
		var validationErr *domain.ValidationError
		assert.ErrorAs(t, err, &validationErr)
		eventRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("SignupWindowValidated", func(t *testing.T) {
		eventRepo := new(MockEventRepo)
		svc := service.NewEventService(eventRepo, new(MockTextRepo))

		eventDate := time.Now().Add(30 * 24 * time.Hour)
		start := eventDate.Add(time.Hour) // starts after it ends
		err := svc.CreateEvent(ctx, &domain.Event{
			Slug:        "camp-2026",
			EventDate:   eventDate,
			SignupStart: &start,
		})
		var validationErr *domain.ValidationError
		assert.ErrorAs(t, err, &validationErr)
	})
}

func TestGetStatusText(t *testing.T) {
	ctx := context.Background()
	event := &domain.Event{ID: uuid.New(), OrganizerID: uuid.New()}

	t.Run("Resolved", func(t *testing.T) {
		textRepo := new(MockTextRepo)
		svc := service.NewEventService(new(MockEventRepo), textRepo)

		textRepo.On("GetWithFallback", ctx, event.ID, event.OrganizerID, domain.TextGroupStatus, "APP").
			Return(&domain.StoredText{
				Group: domain.TextGroupStatus,
				Value: map[string]domain.I18nString{"text": {"en": "You are in!"}},
			}, nil)

		text, err := svc.GetStatusText(ctx, event, domain.StateApproved)
		assert.NoError(t, err)
		assert.Equal(t, "You are in!", text.Resolve("en"))
	})

	t.Run("MissingIsNotAnError", func(t *testing.T) {
		textRepo := new(MockTextRepo)
		svc := service.NewEventService(new(MockEventRepo), textRepo)

		textRepo.On("GetWithFallback", ctx, event.ID, event.OrganizerID, domain.TextGroupStatus, "NEW").
			Return(nil, sql.ErrNoRows)

		text, err := svc.GetStatusText(ctx, event, domain.StateNew)
		assert.NoError(t, err)
		assert.Nil(t, text)
	})
}
