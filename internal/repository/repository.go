package repository

import (
	"context"

	"github.com/google/uuid"

	"presign-backend/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
}

type OrganizerRepository interface {
	Create(ctx context.Context, org *domain.Organizer) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Organizer, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Organizer, error)
	Update(ctx context.Context, org *domain.Organizer) error
	ListForUser(ctx context.Context, userID uuid.UUID) ([]domain.Organizer, error)

	AddMember(ctx context.Context, organizerID, userID uuid.UUID) error
	RemoveMember(ctx context.Context, organizerID, userID uuid.UUID) error
	ListMembers(ctx context.Context, organizerID uuid.UUID) ([]domain.User, error)
	IsMember(ctx context.Context, organizerID, userID uuid.UUID) (bool, error)
}

// EventRepository queries require an active organizer scope.
type EventRepository interface {
	Create(ctx context.Context, event *domain.Event) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Event, error)
	GetBySlug(ctx context.Context, organizerSlug, eventSlug string) (*domain.Event, error)
	Update(ctx context.Context, event *domain.Event) error
	List(ctx context.Context) ([]domain.Event, error)

	// Questionnaire assignment (unique per event and role)
	AssignQuestionnaire(ctx context.Context, eq *domain.EventQuestionnaire) error
	QuestionnaireForRole(ctx context.Context, eventID uuid.UUID, role domain.QuestionnaireRole) (*domain.Questionnaire, error)
	ListAssignments(ctx context.Context, eventID uuid.UUID) ([]domain.EventQuestionnaire, error)
}

type QuestionnaireRepository interface {
	Create(ctx context.Context, q *domain.Questionnaire) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Questionnaire, error)
	Update(ctx context.Context, q *domain.Questionnaire) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByOrganizer(ctx context.Context, organizerID uuid.UUID) ([]domain.Questionnaire, error)
	ListPublic(ctx context.Context) ([]domain.Questionnaire, error)

	CreateBlock(ctx context.Context, b *domain.QuestionBlock) error
	ListBlocks(ctx context.Context, questionnaireID uuid.UUID) ([]domain.QuestionBlock, error)
	CreateQuestion(ctx context.Context, q *domain.Question) error
	ListQuestions(ctx context.Context, blockID uuid.UUID) ([]domain.Question, error)
	ListQuestionsByQuestionnaire(ctx context.Context, questionnaireID uuid.UUID) ([]domain.Question, error)
	CreateOption(ctx context.Context, o *domain.QuestionOption) error
	ListOptions(ctx context.Context, questionID uuid.UUID) ([]domain.QuestionOption, error)
}

// ParticipantRepository queries require active organizer and event scopes.
type ParticipantRepository interface {
	Create(ctx context.Context, p *domain.Participant) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Participant, error)
	GetByCode(ctx context.Context, code string) (*domain.Participant, error)
	GetByCodeAndSecret(ctx context.Context, code, secret string) (*domain.Participant, error)
	List(ctx context.Context) ([]domain.Participant, error)
	ListByStates(ctx context.Context, states []domain.ParticipantState) ([]domain.Participant, error)
	UpdateComments(ctx context.Context, p *domain.Participant) error

	// Uniqueness probes for code/secret generation. Run unscoped on purpose:
	// codes and secrets are globally unique.
	CodeExists(ctx context.Context, code string) (bool, error)
	SecretExists(ctx context.Context, secret string) (bool, error)

	// ChangeState updates the state column guarded by the expected current
	// state and appends the log entry, both inside one transaction. A guard
	// miss returns domain.ErrStateConflict and nothing is applied.
	ChangeState(ctx context.Context, id uuid.UUID, from, to domain.ParticipantState, entry *domain.ParticipantLogEvent) error
}

// AnswerRepository queries require an active organizer scope.
type AnswerRepository interface {
	Upsert(ctx context.Context, a *domain.QuestionAnswer) error
	GetByParticipantAndQuestion(ctx context.Context, participantID, questionID uuid.UUID) (*domain.QuestionAnswer, error)
	ListByParticipant(ctx context.Context, participantID uuid.UUID) ([]domain.QuestionAnswer, error)
}

// LogRepository is append-only; there is deliberately no update or delete.
type LogRepository interface {
	Append(ctx context.Context, entry *domain.ParticipantLogEvent) error
	ListByParticipant(ctx context.Context, participantID uuid.UUID) ([]domain.ParticipantLogEvent, error)
}

// Repositories bundles the repositories that can share one transaction.
type Repositories struct {
	Participants ParticipantRepository
	Answers      AnswerRepository
	Logs         LogRepository
}

// UnitOfWork runs fn against transaction-bound repositories. The transaction
// commits when fn returns nil and rolls back otherwise, so a multi-write
// sequence lands completely or not at all.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(Repositories) error) error
}

// TextRepository backs the organizer/event keyed text stores. Reads at event
// level fall back to the organizer level key by key.
type TextRepository interface {
	Set(ctx context.Context, t *domain.StoredText) error
	Get(ctx context.Context, owner domain.TextOwner, ownerID uuid.UUID, group domain.TextGroup, key string) (*domain.StoredText, error)
	GetWithFallback(ctx context.Context, eventID, organizerID uuid.UUID, group domain.TextGroup, key string) (*domain.StoredText, error)
}
