package service_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"presign-backend/internal/domain"
	"presign-backend/internal/service"
)

func storedEmailText(subject, body string) *domain.StoredText {
	return &domain.StoredText{
		Group: domain.TextGroupEmail,
		Value: map[string]domain.I18nString{
			"subject": {"en": subject},
			"body":    {"en": body},
		},
	}
}

func TestRenderStateChangeEmail(t *testing.T) {
	ctx := context.Background()
	event := &domain.Event{ID: uuid.New(), OrganizerID: uuid.New(), Name: domain.I18nString{"en": "Summer Camp"}}
	p := &domain.Participant{ID: uuid.New(), Email: "jo@test.com", Code: "abc123defg"}

	t.Run("SubstitutesPlaceholders", func(t *testing.T) {
		textRepo := new(MockTextRepo)
		svc := service.NewNotificationService(textRepo, new(MockEmailService), "en")

		textRepo.On("GetWithFallback", ctx, event.ID, event.OrganizerID, domain.TextGroupEmail, "approve").
			Return(storedEmailText("Welcome to {event_name}", "Hi {participant_email}, you are in."), nil)

		subject, body, err := svc.RenderStateChangeEmail(ctx, event, p, domain.ActionApprove, nil)
		assert.NoError(t, err)
		assert.Equal(t, "Welcome to Summer Camp", subject)
		assert.Equal(t, "Hi jo@test.com, you are in.", body)
	})

	t.Run("UnknownPlaceholderResolvesEmpty", func(t *testing.T) {
		textRepo := new(MockTextRepo)
		svc := service.NewNotificationService(textRepo, new(MockEmailService), "en")

		textRepo.On("GetWithFallback", ctx, event.ID, event.OrganizerID, domain.TextGroupEmail, "approve").
			Return(storedEmailText("Hello", "Dear {no_such_var}, welcome."), nil)

		_, body, err := svc.RenderStateChangeEmail(ctx, event, p, domain.ActionApprove, nil)
		assert.NoError(t, err)
		assert.Equal(t, "Dear , welcome.", body)
	})

	t.Run("ContextVarsOverride", func(t *testing.T) {
		textRepo := new(MockTextRepo)
		svc := service.NewNotificationService(textRepo, new(MockEmailService), "en")

		textRepo.On("GetWithFallback", ctx, event.ID, event.OrganizerID, domain.TextGroupEmail, "request_changes").
			Return(storedEmailText("Changes needed", "Please fix: {change_request}"), nil)

		_, body, err := svc.RenderStateChangeEmail(ctx, event, p, domain.ActionRequestChanges,
			map[string]string{"change_request": "add your phone number"})
		assert.NoError(t, err)
		assert.Equal(t, "Please fix: add your phone number", body)
	})

	t.Run("MissingTemplate", func(t *testing.T) {
		textRepo := new(MockTextRepo)
		svc := service.NewNotificationService(textRepo, new(MockEmailService), "en")

		textRepo.On("GetWithFallback", ctx, event.ID, event.OrganizerID, domain.TextGroupEmail, "approve").
			Return(nil, sql.ErrNoRows)

		_, _, err := svc.RenderStateChangeEmail(ctx, event, p, domain.ActionApprove, nil)
		assert.ErrorIs(t, err, domain.ErrNotificationNotConfigured)
	})

	t.Run("BodyEmptyAfterSubstitution", func(t *testing.T) {
		textRepo := new(MockTextRepo)
		svc := service.NewNotificationService(textRepo, new(MockEmailService), "en")

		// The template exists but collapses to nothing once substituted.
		textRepo.On("GetWithFallback", ctx, event.ID, event.OrganizerID, domain.TextGroupEmail, "approve").
			Return(storedEmailText("Subject", "{no_such_var}"), nil)

		_, _, err := svc.RenderStateChangeEmail(ctx, event, p, domain.ActionApprove, nil)
		assert.ErrorIs(t, err, domain.ErrNotificationNotConfigured)
	})
}

func TestDispatchStateChangeEmail(t *testing.T) {
	ctx := context.Background()
	event := &domain.Event{ID: uuid.New(), OrganizerID: uuid.New(), Name: domain.I18nString{"en": "Summer Camp"}}
	p := &domain.Participant{ID: uuid.New(), Email: "jo@test.com", Code: "abc123defg"}

	t.Run("SendsRenderedEmail", func(t *testing.T) {
		textRepo := new(MockTextRepo)
		emailSvc := new(MockEmailService)
		svc := service.NewNotificationService(textRepo, emailSvc, "en")

		textRepo.On("GetWithFallback", ctx, event.ID, event.OrganizerID, domain.TextGroupEmail, "approve").
			Return(storedEmailText("Welcome", "Line one\nLine two"), nil)
		emailSvc.On("Send", ctx, "jo@test.com", "Welcome", "Line one\nLine two",
			mock.MatchedBy(func(html string) bool { return html != "" })).Return(nil)

		err := svc.DispatchStateChangeEmail(ctx, event, p, domain.ActionApprove, nil)
		assert.NoError(t, err)
		emailSvc.AssertExpectations(t)
	})

	t.Run("NotConfiguredSkipsSend", func(t *testing.T) {
		textRepo := new(MockTextRepo)
		emailSvc := new(MockEmailService)
		svc := service.NewNotificationService(textRepo, emailSvc, "en")

		textRepo.On("GetWithFallback", ctx, event.ID, event.OrganizerID, domain.TextGroupEmail, "cancel").
			Return(nil, sql.ErrNoRows)

		err := svc.DispatchStateChangeEmail(ctx, event, p, domain.ActionCancel, nil)
		assert.ErrorIs(t, err, domain.ErrNotificationNotConfigured)
		emailSvc.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}
