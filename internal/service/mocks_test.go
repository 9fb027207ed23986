package service_test

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"presign-backend/internal/domain"
	"presign-backend/internal/repository"
)

// MockUnitOfWork hands fn the given repositories without a real transaction,
// so expectations set on them keep working across the boundary.
type MockUnitOfWork struct {
	Repos repository.Repositories
}

func (m *MockUnitOfWork) WithinTx(ctx context.Context, fn func(repository.Repositories) error) error {
	return fn(m.Repos)
}

// MockParticipantRepo
type MockParticipantRepo struct {
	mock.Mock
}

func (m *MockParticipantRepo) Create(ctx context.Context, p *domain.Participant) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}
func (m *MockParticipantRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Participant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Participant), args.Error(1)
}
func (m *MockParticipantRepo) GetByCode(ctx context.Context, code string) (*domain.Participant, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Participant), args.Error(1)
}
func (m *MockParticipantRepo) GetByCodeAndSecret(ctx context.Context, code, secret string) (*domain.Participant, error) {
	args := m.Called(ctx, code, secret)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Participant), args.Error(1)
}
func (m *MockParticipantRepo) List(ctx context.Context) ([]domain.Participant, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Participant), args.Error(1)
}
func (m *MockParticipantRepo) ListByStates(ctx context.Context, states []domain.ParticipantState) ([]domain.Participant, error) {
	args := m.Called(ctx, states)
	return args.Get(0).([]domain.Participant), args.Error(1)
}
func (m *MockParticipantRepo) UpdateComments(ctx context.Context, p *domain.Participant) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}
func (m *MockParticipantRepo) CodeExists(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}
func (m *MockParticipantRepo) SecretExists(ctx context.Context, secret string) (bool, error) {
	args := m.Called(ctx, secret)
	return args.Bool(0), args.Error(1)
}
func (m *MockParticipantRepo) ChangeState(ctx context.Context, id uuid.UUID, from, to domain.ParticipantState, entry *domain.ParticipantLogEvent) error {
	args := m.Called(ctx, id, from, to, entry)
	return args.Error(0)
}

// MockAnswerRepo
type MockAnswerRepo struct {
	mock.Mock
}

func (m *MockAnswerRepo) Upsert(ctx context.Context, a *domain.QuestionAnswer) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}
func (m *MockAnswerRepo) GetByParticipantAndQuestion(ctx context.Context, participantID, questionID uuid.UUID) (*domain.QuestionAnswer, error) {
	args := m.Called(ctx, participantID, questionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.QuestionAnswer), args.Error(1)
}
func (m *MockAnswerRepo) ListByParticipant(ctx context.Context, participantID uuid.UUID) ([]domain.QuestionAnswer, error) {
	args := m.Called(ctx, participantID)
	return args.Get(0).([]domain.QuestionAnswer), args.Error(1)
}

// MockLogRepo
type MockLogRepo struct {
	mock.Mock
}

func (m *MockLogRepo) Append(ctx context.Context, entry *domain.ParticipantLogEvent) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}
func (m *MockLogRepo) ListByParticipant(ctx context.Context, participantID uuid.UUID) ([]domain.ParticipantLogEvent, error) {
	args := m.Called(ctx, participantID)
	return args.Get(0).([]domain.ParticipantLogEvent), args.Error(1)
}

// MockEventRepo
type MockEventRepo struct {
	mock.Mock
}

func (m *MockEventRepo) Create(ctx context.Context, event *domain.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}
func (m *MockEventRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Event), args.Error(1)
}
func (m *MockEventRepo) GetBySlug(ctx context.Context, organizerSlug, eventSlug string) (*domain.Event, error) {
	args := m.Called(ctx, organizerSlug, eventSlug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Event), args.Error(1)
}
func (m *MockEventRepo) Update(ctx context.Context, event *domain.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}
func (m *MockEventRepo) List(ctx context.Context) ([]domain.Event, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Event), args.Error(1)
}
func (m *MockEventRepo) AssignQuestionnaire(ctx context.Context, eq *domain.EventQuestionnaire) error {
	args := m.Called(ctx, eq)
	return args.Error(0)
}
func (m *MockEventRepo) QuestionnaireForRole(ctx context.Context, eventID uuid.UUID, role domain.QuestionnaireRole) (*domain.Questionnaire, error) {
	args := m.Called(ctx, eventID, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Questionnaire), args.Error(1)
}
func (m *MockEventRepo) ListAssignments(ctx context.Context, eventID uuid.UUID) ([]domain.EventQuestionnaire, error) {
	args := m.Called(ctx, eventID)
	return args.Get(0).([]domain.EventQuestionnaire), args.Error(1)
}

// MockQuestionnaireRepo
type MockQuestionnaireRepo struct {
	mock.Mock
}

func (m *MockQuestionnaireRepo) Create(ctx context.Context, q *domain.Questionnaire) error {
	args := m.Called(ctx, q)
	return args.Error(0)
}
func (m *MockQuestionnaireRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Questionnaire, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Questionnaire), args.Error(1)
}
func (m *MockQuestionnaireRepo) Update(ctx context.Context, q *domain.Questionnaire) error {
	args := m.Called(ctx, q)
	return args.Error(0)
}
func (m *MockQuestionnaireRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockQuestionnaireRepo) ListByOrganizer(ctx context.Context, organizerID uuid.UUID) ([]domain.Questionnaire, error) {
	args := m.Called(ctx, organizerID)
	return args.Get(0).([]domain.Questionnaire), args.Error(1)
}
func (m *MockQuestionnaireRepo) ListPublic(ctx context.Context) ([]domain.Questionnaire, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Questionnaire), args.Error(1)
}
func (m *MockQuestionnaireRepo) CreateBlock(ctx context.Context, b *domain.QuestionBlock) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}
func (m *MockQuestionnaireRepo) ListBlocks(ctx context.Context, questionnaireID uuid.UUID) ([]domain.QuestionBlock, error) {
	args := m.Called(ctx, questionnaireID)
	return args.Get(0).([]domain.QuestionBlock), args.Error(1)
}
func (m *MockQuestionnaireRepo) CreateQuestion(ctx context.Context, q *domain.Question) error {
	args := m.Called(ctx, q)
	return args.Error(0)
}
func (m *MockQuestionnaireRepo) ListQuestions(ctx context.Context, blockID uuid.UUID) ([]domain.Question, error) {
	args := m.Called(ctx, blockID)
	return args.Get(0).([]domain.Question), args.Error(1)
}
func (m *MockQuestionnaireRepo) ListQuestionsByQuestionnaire(ctx context.Context, questionnaireID uuid.UUID) ([]domain.Question, error) {
	args := m.Called(ctx, questionnaireID)
	return args.Get(0).([]domain.Question), args.Error(1)
}
func (m *MockQuestionnaireRepo) CreateOption(ctx context.Context, o *domain.QuestionOption) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}
func (m *MockQuestionnaireRepo) ListOptions(ctx context.Context, questionID uuid.UUID) ([]domain.QuestionOption, error) {
	args := m.Called(ctx, questionID)
	return args.Get(0).([]domain.QuestionOption), args.Error(1)
}

// MockTextRepo
type MockTextRepo struct {
	mock.Mock
}

func (m *MockTextRepo) Set(ctx context.Context, t *domain.StoredText) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}
func (m *MockTextRepo) Get(ctx context.Context, owner domain.TextOwner, ownerID uuid.UUID, group domain.TextGroup, key string) (*domain.StoredText, error) {
	args := m.Called(ctx, owner, ownerID, group, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StoredText), args.Error(1)
}
func (m *MockTextRepo) GetWithFallback(ctx context.Context, eventID, organizerID uuid.UUID, group domain.TextGroup, key string) (*domain.StoredText, error) {
	args := m.Called(ctx, eventID, organizerID, group, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StoredText), args.Error(1)
}

// MockEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) Send(ctx context.Context, to, subject, textBody, htmlBody string) error {
	args := m.Called(ctx, to, subject, textBody, htmlBody)
	return args.Error(0)
}
