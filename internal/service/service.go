package service

import (
	"context"

	"github.com/google/uuid"

	"presign-backend/internal/domain"
)

type AuthService interface {
	Signup(ctx context.Context, name, email, password, locale string) (*domain.User, string, string, error) // user, access, refresh
	Login(ctx context.Context, email, password string) (string, string, error)                              // access, refresh
	RefreshToken(ctx context.Context, refresh string) (string, string, error)
}

type OrganizerService interface {
	CreateOrganizer(ctx context.Context, userID uuid.UUID, org *domain.Organizer) error
	GetOrganizer(ctx context.Context, id uuid.UUID) (*domain.Organizer, error)
	GetOrganizerBySlug(ctx context.Context, slug string) (*domain.Organizer, error)
	UpdateOrganizer(ctx context.Context, org *domain.Organizer) error
	ListMyOrganizers(ctx context.Context, userID uuid.UUID) ([]domain.Organizer, error)
	ListMembers(ctx context.Context, organizerID uuid.UUID) ([]domain.User, error)
	AddMember(ctx context.Context, organizerID uuid.UUID, email string) error
	RemoveMember(ctx context.Context, organizerID, userID uuid.UUID) error
	IsMember(ctx context.Context, organizerID, userID uuid.UUID) (bool, error)
}

type EventService interface {
	CreateEvent(ctx context.Context, event *domain.Event) error
	GetEvent(ctx context.Context, id uuid.UUID) (*domain.Event, error)
	GetEventBySlug(ctx context.Context, organizerSlug, eventSlug string) (*domain.Event, error)
	UpdateEvent(ctx context.Context, event *domain.Event) error
	ListEvents(ctx context.Context) ([]domain.Event, error)

	AssignQuestionnaire(ctx context.Context, eventID, questionnaireID uuid.UUID, role domain.QuestionnaireRole) error
	QuestionnaireForRole(ctx context.Context, eventID uuid.UUID, role domain.QuestionnaireRole) (*domain.Questionnaire, error)
	// EnableEvent refuses until both role questionnaires are assigned.
	EnableEvent(ctx context.Context, eventID uuid.UUID) error
	DisableEvent(ctx context.Context, eventID uuid.UUID) error
	CanBeEnabled(ctx context.Context, eventID uuid.UUID) (bool, error)

	SetText(ctx context.Context, t *domain.StoredText) error
	GetText(ctx context.Context, owner domain.TextOwner, ownerID uuid.UUID, group domain.TextGroup, key string) (*domain.StoredText, error)
	GetStatusText(ctx context.Context, event *domain.Event, state domain.ParticipantState) (domain.I18nString, error)
}

type QuestionnaireService interface {
	CreateQuestionnaire(ctx context.Context, q *domain.Questionnaire) error
	GetQuestionnaire(ctx context.Context, id uuid.UUID) (*QuestionnaireDetail, error)
	UpdateQuestionnaire(ctx context.Context, q *domain.Questionnaire) error
	DeleteQuestionnaire(ctx context.Context, id uuid.UUID) error
	ListQuestionnaires(ctx context.Context, organizerID uuid.UUID) ([]domain.Questionnaire, error)
	ListPublicQuestionnaires(ctx context.Context) ([]domain.Questionnaire, error)

	AddBlock(ctx context.Context, b *domain.QuestionBlock) error
	AddQuestion(ctx context.Context, q *domain.Question, options []domain.QuestionOption) error

	// CloneQuestionnaire deep-copies a questionnaire with all blocks,
	// questions and options into the target organizer. The source must be
	// owned by the target or be public.
	CloneQuestionnaire(ctx context.Context, sourceID, targetOrganizerID uuid.UUID) (*domain.Questionnaire, error)
}

// QuestionnaireDetail is a questionnaire with its full block/question tree.
type QuestionnaireDetail struct {
	Questionnaire domain.Questionnaire `json:"questionnaire"`
	Blocks        []BlockDetail        `json:"blocks"`
}

type BlockDetail struct {
	Block     domain.QuestionBlock `json:"block"`
	Questions []QuestionDetail     `json:"questions"`
}

type QuestionDetail struct {
	Question domain.Question         `json:"question"`
	Options  []domain.QuestionOption `json:"options,omitempty"`
}

// AnswerInput is one submitted answer keyed by question.
type AnswerInput struct {
	QuestionID uuid.UUID
	Value      domain.AnswerValue
}

type ParticipantService interface {
	// SubmitApplication creates a NEW participant with generated
	// code/secret, validates and stores the stage-1 answers and writes the
	// application_submitted log entry.
	SubmitApplication(ctx context.Context, event *domain.Event, email string, answers []AnswerInput) (*domain.Participant, error)

	GetParticipant(ctx context.Context, id uuid.UUID) (*domain.Participant, error)
	GetParticipantByCode(ctx context.Context, code string) (*domain.Participant, error)
	// GetParticipantByCodeAndSecret authenticates the participant-facing
	// capability URL.
	GetParticipantByCodeAndSecret(ctx context.Context, code, secret string) (*domain.Participant, error)
	ListParticipants(ctx context.Context) ([]domain.Participant, error)
	UpdateComments(ctx context.Context, p *domain.Participant) error

	// ChangeState validates the action against the transition table,
	// persists the single-field state change together with its log entry
	// and mutates p.State on success. It knows nothing about notification
	// delivery.
	ChangeState(ctx context.Context, p *domain.Participant, action domain.ParticipantStateAction) error

	// SaveAnswers validates and stores answer updates, then fires
	// answers_saved when the current state requires it.
	SaveAnswers(ctx context.Context, event *domain.Event, p *domain.Participant, answers []AnswerInput) error

	// EditableQuestionnaires returns the questionnaires the participant may
	// currently edit, stage 1 before stage 2. States outside the two
	// editable sets return domain.ErrAnswersNotEditable.
	EditableQuestionnaires(ctx context.Context, event *domain.Event, p *domain.Participant) ([]domain.Questionnaire, error)

	ListAnswers(ctx context.Context, participantID uuid.UUID) ([]domain.QuestionAnswer, error)

	// LogEventsFor returns the participant's audit trail in order of
	// creation.
	LogEventsFor(ctx context.Context, participantID uuid.UUID) ([]domain.ParticipantLogEvent, error)
}

// NotificationService renders and delivers state change emails from the
// organizer/event text stores.
type NotificationService interface {
	// DispatchStateChangeEmail resolves the action's template, substitutes
	// context variables and sends the mail. A missing or empty body yields
	// domain.ErrNotificationNotConfigured; the caller treats that as
	// non-fatal because the transition is already committed.
	DispatchStateChangeEmail(ctx context.Context, event *domain.Event, p *domain.Participant, action domain.ParticipantStateAction, contextVars map[string]string) error

	// RenderStateChangeEmail is the pure rendering half of dispatch,
	// exposed for previews.
	RenderStateChangeEmail(ctx context.Context, event *domain.Event, p *domain.Participant, action domain.ParticipantStateAction, contextVars map[string]string) (subject, body string, err error)
}

type EmailService interface {
	Send(ctx context.Context, to, subject, textBody, htmlBody string) error
}
