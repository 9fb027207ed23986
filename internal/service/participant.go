package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"

	"presign-backend/internal/domain"
	"presign-backend/internal/logger"
	"presign-backend/internal/repository"
)

const (
	codeLength   = 10
	secretLength = 32
	codeAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
)

type participantService struct {
	participantRepo   repository.ParticipantRepository
	answerRepo        repository.AnswerRepository
	logRepo           repository.LogRepository
	eventRepo         repository.EventRepository
	questionnaireRepo repository.QuestionnaireRepository
	uow               repository.UnitOfWork

	secretRetries int
}

func NewParticipantService(
	participantRepo repository.ParticipantRepository,
	answerRepo repository.AnswerRepository,
	logRepo repository.LogRepository,
	eventRepo repository.EventRepository,
	questionnaireRepo repository.QuestionnaireRepository,
	uow repository.UnitOfWork,
	secretRetries int,
) ParticipantService {
	return &participantService{
		participantRepo:   participantRepo,
		answerRepo:        answerRepo,
		logRepo:           logRepo,
		eventRepo:         eventRepo,
		questionnaireRepo: questionnaireRepo,
		uow:               uow,
		secretRetries:     secretRetries,
	}
}

func randomString(length int) (string, error) {
	out := make([]byte, length)
	max := big.NewInt(int64(len(codeAlphabet)))
	for i := range out {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		out[i] = codeAlphabet[n.Int64()]
	}
	return string(out), nil
}

// generateUnique draws random strings until one passes the uniqueness probe
// or the retry budget is exhausted. Exhaustion means the keyspace is too
// small for the deployment and is a fatal configuration error.
func (s *participantService) generateUnique(ctx context.Context, length int, exists func(context.Context, string) (bool, error)) (string, error) {
	for i := 0; i < s.secretRetries; i++ {
		candidate, err := randomString(length)
		if err != nil {
			return "", err
		}
		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}
	return "", domain.ErrUniquenessExhausted
}

func (s *participantService) SubmitApplication(ctx context.Context, event *domain.Event, email string, answers []AnswerInput) (*domain.Participant, error) {
	code, err := s.generateUnique(ctx, codeLength, s.participantRepo.CodeExists)
	if err != nil {
		return nil, fmt.Errorf("failed to generate participant code: %w", err)
	}
	secret, err := s.generateUnique(ctx, secretLength, s.participantRepo.SecretExists)
	if err != nil {
		return nil, fmt.Errorf("failed to generate participant secret: %w", err)
	}

	p := &domain.Participant{
		EventID: event.ID,
		Email:   email,
		Code:    code,
		Secret:  secret,
		State:   domain.StateNew,
	}

	// Validate every answer before anything is persisted.
	questions, err := s.questionsForRoles(ctx, event, []domain.QuestionnaireRole{domain.RoleDuringSignup})
	if err != nil {
		return nil, err
	}
	prepared, err := prepareAnswers(questions, answers)
	if err != nil {
		return nil, err
	}

	// The participant row, its answers and the audit entry land in one
	// transaction; a failure mid-sequence leaves nothing behind.
	err = s.uow.WithinTx(ctx, func(repos repository.Repositories) error {
		if err := repos.Participants.Create(ctx, p); err != nil {
			return fmt.Errorf("failed to create participant: %w", err)
		}
		for i := range prepared {
			prepared[i].ParticipantID = p.ID
			if err := repos.Answers.Upsert(ctx, &prepared[i]); err != nil {
				return fmt.Errorf("failed to store answer: %w", err)
			}
		}
		entry := &domain.ParticipantLogEvent{
			ParticipantID: p.ID,
			EventType:     domain.LogEventApplicationSubmitted,
			Data:          map[string]string{"email": email},
		}
		if err := repos.Logs.Append(ctx, entry); err != nil {
			return fmt.Errorf("failed to log application: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("application submitted", "participant", p.Code, "event", event.Slug)
	return p, nil
}

func (s *participantService) GetParticipant(ctx context.Context, id uuid.UUID) (*domain.Participant, error) {
	return s.participantRepo.GetByID(ctx, id)
}

func (s *participantService) GetParticipantByCode(ctx context.Context, code string) (*domain.Participant, error) {
	return s.participantRepo.GetByCode(ctx, code)
}

func (s *participantService) GetParticipantByCodeAndSecret(ctx context.Context, code, secret string) (*domain.Participant, error) {
	return s.participantRepo.GetByCodeAndSecret(ctx, code, secret)
}

func (s *participantService) ListParticipants(ctx context.Context) ([]domain.Participant, error) {
	return s.participantRepo.List(ctx)
}

func (s *participantService) UpdateComments(ctx context.Context, p *domain.Participant) error {
	return s.participantRepo.UpdateComments(ctx, p)
}

// ChangeState is the single entry point for state transitions. The state
// column update and the log append happen in one transaction; on any error
// neither is applied and p is left untouched.
func (s *participantService) ChangeState(ctx context.Context, p *domain.Participant, action domain.ParticipantStateAction) error {
	return changeState(ctx, s.participantRepo, p, action)
}

// changeState runs the transition against the given repository, which may be
// bound to a surrounding transaction.
func changeState(ctx context.Context, repo repository.ParticipantRepository, p *domain.Participant, action domain.ParticipantStateAction) error {
	next, err := domain.Transition(p.State, action)
	if err != nil {
		return err
	}

	entry := &domain.ParticipantLogEvent{
		ParticipantID: p.ID,
		EventType:     domain.LogEventStateChange,
		Data:          domain.StateChangePayload(p.State, next, action),
	}
	if err := repo.ChangeState(ctx, p.ID, p.State, next, entry); err != nil {
		return err
	}

	logger.Info("participant state changed",
		"participant", p.Code, "action", action, "from", p.State, "to", next)
	p.State = next
	return nil
}

func (s *participantService) questionsForRoles(ctx context.Context, event *domain.Event, roles []domain.QuestionnaireRole) (map[uuid.UUID]domain.Question, error) {
	questions := make(map[uuid.UUID]domain.Question)
	for _, role := range roles {
		q, err := s.eventRepo.QuestionnaireForRole(ctx, event.ID, role)
		if err != nil {
			return nil, fmt.Errorf("no questionnaire assigned for role %d: %w", role, err)
		}
		qs, err := s.questionnaireRepo.ListQuestionsByQuestionnaire(ctx, q.ID)
		if err != nil {
			return nil, err
		}
		for _, question := range qs {
			questions[question.ID] = question
		}
	}
	return questions, nil
}

// prepareAnswers validates the submitted values against their questions and
// encodes them into storable rows. Required questions must not be falsy;
// answers to unknown questions are rejected.
func prepareAnswers(questions map[uuid.UUID]domain.Question, answers []AnswerInput) ([]domain.QuestionAnswer, error) {
	answered := make(map[uuid.UUID]bool)
	prepared := make([]domain.QuestionAnswer, 0, len(answers))
	for _, in := range answers {
		q, ok := questions[in.QuestionID]
		if !ok {
			return nil, &domain.ValidationError{
				Field:   in.QuestionID.String(),
				Message: "question does not belong to an editable questionnaire",
			}
		}
		a := domain.QuestionAnswer{QuestionID: q.ID}
		if err := a.SetValue(&q, in.Value); err != nil {
			return nil, err
		}
		if err := a.ValidateRequired(&q); err != nil {
			return nil, err
		}
		answered[q.ID] = true
		prepared = append(prepared, a)
	}
	for id, q := range questions {
		if q.Required && !answered[id] {
			return nil, &domain.ValidationError{
				Field:   id.String(),
				Message: "answers to required questions may not be empty",
			}
		}
	}
	return prepared, nil
}

func (s *participantService) SaveAnswers(ctx context.Context, event *domain.Event, p *domain.Participant, answers []AnswerInput) error {
	if !event.CanUpdate(time.Now()) {
		return domain.ErrEventLocked
	}
	roles, err := domain.EditableRoles(p.State)
	if err != nil {
		return err
	}

	questions, err := s.questionsForRoles(ctx, event, roles)
	if err != nil {
		return err
	}
	prepared, err := prepareAnswers(questions, answers)
	if err != nil {
		return err
	}

	// Answer writes and the answers_saved transition share one transaction,
	// so a lost transition race also discards the answer updates.
	return s.uow.WithinTx(ctx, func(repos repository.Repositories) error {
		for i := range prepared {
			prepared[i].ParticipantID = p.ID
			if err := repos.Answers.Upsert(ctx, &prepared[i]); err != nil {
				return fmt.Errorf("failed to store answer: %w", err)
			}
		}
		// Saving answers advances the review workflow only from the states
		// where the organizer is waiting on the participant.
		if domain.TriggersAnswersSaved(p.State) {
			return changeState(ctx, repos.Participants, p, domain.ActionAnswersSaved)
		}
		return nil
	})
}

func (s *participantService) EditableQuestionnaires(ctx context.Context, event *domain.Event, p *domain.Participant) ([]domain.Questionnaire, error) {
	roles, err := domain.EditableRoles(p.State)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Questionnaire, 0, len(roles))
	for _, role := range roles {
		q, err := s.eventRepo.QuestionnaireForRole(ctx, event.ID, role)
		if err != nil {
			return nil, err
		}
		out = append(out, *q)
	}
	return out, nil
}

func (s *participantService) ListAnswers(ctx context.Context, participantID uuid.UUID) ([]domain.QuestionAnswer, error) {
	return s.answerRepo.ListByParticipant(ctx, participantID)
}

func (s *participantService) LogEventsFor(ctx context.Context, participantID uuid.UUID) ([]domain.ParticipantLogEvent, error) {
	return s.logRepo.ListByParticipant(ctx, participantID)
}
