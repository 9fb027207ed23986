package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"presign-backend/internal/domain"
	"presign-backend/internal/repository"
)

// ErrQuestionnairesMissing is returned when enabling an event that does not
// have both role questionnaires assigned yet.
var ErrQuestionnairesMissing = errors.New("event needs a signup and an after-approval questionnaire before it can be enabled")

type eventService struct {
	eventRepo repository.EventRepository
	textRepo  repository.TextRepository
}

func NewEventService(eventRepo repository.EventRepository, textRepo repository.TextRepository) EventService {
	return &eventService{eventRepo: eventRepo, textRepo: textRepo}
}

func (s *eventService) CreateEvent(ctx context.Context, event *domain.Event) error {
	if event.Slug == "" {
		return &domain.ValidationError{Field: "slug", Message: "slug is required"}
	}
	if err := event.Validate(); err != nil {
		return err
	}
	// Events start disabled until both questionnaires are assigned.
	event.Enabled = false
	return s.eventRepo.Create(ctx, event)
}

func (s *eventService) GetEvent(ctx context.Context, id uuid.UUID) (*domain.Event, error) {
	return s.eventRepo.GetByID(ctx, id)
}

func (s *eventService) GetEventBySlug(ctx context.Context, organizerSlug, eventSlug string) (*domain.Event, error) {
	return s.eventRepo.GetBySlug(ctx, organizerSlug, eventSlug)
}

func (s *eventService) UpdateEvent(ctx context.Context, event *domain.Event) error {
	if err := event.Validate(); err != nil {
		return err
	}
	return s.eventRepo.Update(ctx, event)
}

func (s *eventService) ListEvents(ctx context.Context) ([]domain.Event, error) {
	return s.eventRepo.List(ctx)
}

func (s *eventService) AssignQuestionnaire(ctx context.Context, eventID, questionnaireID uuid.UUID, role domain.QuestionnaireRole) error {
	if role != domain.RoleDuringSignup && role != domain.RoleAfterApproval {
		return &domain.ValidationError{Field: "role", Message: "unknown questionnaire role"}
	}
	eq := &domain.EventQuestionnaire{
		EventID:         eventID,
		QuestionnaireID: questionnaireID,
		Role:            role,
	}
	return s.eventRepo.AssignQuestionnaire(ctx, eq)
}

func (s *eventService) QuestionnaireForRole(ctx context.Context, eventID uuid.UUID, role domain.QuestionnaireRole) (*domain.Questionnaire, error) {
	return s.eventRepo.QuestionnaireForRole(ctx, eventID, role)
}

func (s *eventService) CanBeEnabled(ctx context.Context, eventID uuid.UUID) (bool, error) {
	for _, role := range []domain.QuestionnaireRole{domain.RoleDuringSignup, domain.RoleAfterApproval} {
		_, err := s.eventRepo.QuestionnaireForRole(ctx, eventID, role)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return false, nil
			}
			return false, err
		}
	}
	return true, nil
}

func (s *eventService) EnableEvent(ctx context.Context, eventID uuid.UUID) error {
	ok, err := s.CanBeEnabled(ctx, eventID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrQuestionnairesMissing
	}
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return err
	}
	event.Enabled = true
	return s.eventRepo.Update(ctx, event)
}

func (s *eventService) DisableEvent(ctx context.Context, eventID uuid.UUID) error {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return err
	}
	event.Enabled = false
	return s.eventRepo.Update(ctx, event)
}

func (s *eventService) SetText(ctx context.Context, t *domain.StoredText) error {
	switch t.Group {
	case domain.TextGroupEmail, domain.TextGroupStatus:
	default:
		return &domain.ValidationError{Field: "group", Message: fmt.Sprintf("unknown text group %q", t.Group)}
	}
	return s.textRepo.Set(ctx, t)
}

func (s *eventService) GetText(ctx context.Context, owner domain.TextOwner, ownerID uuid.UUID, group domain.TextGroup, key string) (*domain.StoredText, error) {
	return s.textRepo.Get(ctx, owner, ownerID, group, key)
}

// GetStatusText resolves the status message shown to a participant in the
// given state, event level first, organizer level as fallback.
func (s *eventService) GetStatusText(ctx context.Context, event *domain.Event, state domain.ParticipantState) (domain.I18nString, error) {
	stored, err := s.textRepo.GetWithFallback(ctx, event.ID, event.OrganizerID, domain.TextGroupStatus, string(state))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return stored.Value["text"], nil
}
