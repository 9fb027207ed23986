package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"presign-backend/internal/domain"
	"presign-backend/internal/repository"
	"presign-backend/internal/service"
)

func newParticipantService(
	participantRepo *MockParticipantRepo,
	answerRepo *MockAnswerRepo,
	logRepo *MockLogRepo,
	eventRepo *MockEventRepo,
	questionnaireRepo *MockQuestionnaireRepo,
) service.ParticipantService {
	uow := &MockUnitOfWork{Repos: repository.Repositories{
		Participants: participantRepo,
		Answers:      answerRepo,
		Logs:         logRepo,
	}}
	return service.NewParticipantService(participantRepo, answerRepo, logRepo, eventRepo, questionnaireRepo, uow, 10)
}

func TestChangeState(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		participantRepo := new(MockParticipantRepo)
		svc := newParticipantService(participantRepo, new(MockAnswerRepo), new(MockLogRepo), new(MockEventRepo), new(MockQuestionnaireRepo))

		p := &domain.Participant{ID: uuid.New(), Code: "abc123defg", State: domain.StateNew}

		participantRepo.On("ChangeState", ctx, p.ID, domain.StateNew, domain.StateApproved, mock.MatchedBy(func(entry *domain.ParticipantLogEvent) bool {
			return entry.EventType == domain.LogEventStateChange &&
				entry.Data["old_state"] == "NEW" &&
				entry.Data["new_state"] == "APP" &&
				entry.Data["action"] == "approve"
		})).Return(nil)

		err := svc.ChangeState(ctx, p, domain.ActionApprove)
		assert.NoError(t, err)
		assert.Equal(t, domain.StateApproved, p.State)
		participantRepo.AssertExpectations(t)
	})

	t.Run("IllegalTransition", func(t *testing.T) {
		participantRepo := new(MockParticipantRepo)
		svc := newParticipantService(participantRepo, new(MockAnswerRepo), new(MockLogRepo), new(MockEventRepo), new(MockQuestionnaireRepo))

		p := &domain.Participant{ID: uuid.New(), State: domain.StateConfirmed}

		err := svc.ChangeState(ctx, p, domain.ActionApprove)
		var transitionErr *domain.IllegalTransitionError
		assert.ErrorAs(t, err, &transitionErr)
		// Nothing may be persisted and the in-memory state stays put.
		assert.Equal(t, domain.StateConfirmed, p.State)
		participantRepo.AssertNotCalled(t, "ChangeState", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("ConcurrentConflict", func(t *testing.T) {
		participantRepo := new(MockParticipantRepo)
		svc := newParticipantService(participantRepo, new(MockAnswerRepo), new(MockLogRepo), new(MockEventRepo), new(MockQuestionnaireRepo))

		p := &domain.Participant{ID: uuid.New(), State: domain.StateNew}
		participantRepo.On("ChangeState", ctx, p.ID, domain.StateNew, domain.StateApproved, mock.Anything).
			Return(domain.ErrStateConflict)

		err := svc.ChangeState(ctx, p, domain.ActionApprove)
		assert.ErrorIs(t, err, domain.ErrStateConflict)
		assert.Equal(t, domain.StateNew, p.State)
	})
}

func TestSubmitApplication(t *testing.T) {
	ctx := context.Background()
	event := &domain.Event{ID: uuid.New(), Slug: "summer-camp"}
	questionnaireID := uuid.New()
	requiredQ := domain.Question{ID: uuid.New(), Kind: domain.KindString, Required: true}

	t.Run("Success", func(t *testing.T) {
		participantRepo := new(MockParticipantRepo)
		answerRepo := new(MockAnswerRepo)
		logRepo := new(MockLogRepo)
		eventRepo := new(MockEventRepo)
		questionnaireRepo := new(MockQuestionnaireRepo)
		svc := newParticipantService(participantRepo, answerRepo, logRepo, eventRepo, questionnaireRepo)

		participantRepo.On("CodeExists", ctx, mock.Anything).Return(false, nil)
		participantRepo.On("SecretExists", ctx, mock.Anything).Return(false, nil)
		eventRepo.On("QuestionnaireForRole", ctx, event.ID, domain.RoleDuringSignup).
			Return(&domain.Questionnaire{ID: questionnaireID}, nil)
		questionnaireRepo.On("ListQuestionsByQuestionnaire", ctx, questionnaireID).
			Return([]domain.Question{requiredQ}, nil)
		participantRepo.On("Create", ctx, mock.MatchedBy(func(p *domain.Participant) bool {
			return p.State == domain.StateNew && len(p.Code) == 10 && len(p.Secret) == 32
		})).Return(nil)
		answerRepo.On("Upsert", ctx, mock.Anything).Return(nil)
		logRepo.On("Append", ctx, mock.MatchedBy(func(entry *domain.ParticipantLogEvent) bool {
			return entry.EventType == domain.LogEventApplicationSubmitted
		})).Return(nil)

		answers := []service.AnswerInput{{QuestionID: requiredQ.ID, Value: domain.StringValue(domain.KindString, "Jo")}}
		p, err := svc.SubmitApplication(ctx, event, "jo@test.com", answers)
		assert.NoError(t, err)
		assert.NotNil(t, p)
		assert.Equal(t, domain.StateNew, p.State)
		participantRepo.AssertExpectations(t)
		logRepo.AssertExpectations(t)
	})

	t.Run("MissingRequiredAnswer", func(t *testing.T) {
		participantRepo := new(MockParticipantRepo)
		eventRepo := new(MockEventRepo)
		questionnaireRepo := new(MockQuestionnaireRepo)
		svc := newParticipantService(participantRepo, new(MockAnswerRepo), new(MockLogRepo), eventRepo, questionnaireRepo)

		participantRepo.On("CodeExists", ctx, mock.Anything).Return(false, nil)
		participantRepo.On("SecretExists", ctx, mock.Anything).Return(false, nil)
		eventRepo.On("QuestionnaireForRole", ctx, event.ID, domain.RoleDuringSignup).
			Return(&domain.Questionnaire{ID: questionnaireID}, nil)
		questionnaireRepo.On("ListQuestionsByQuestionnaire", ctx, questionnaireID).
			Return([]domain.Question{requiredQ}, nil)

		_, err := svc.SubmitApplication(ctx, event, "jo@test.com", nil)
		var validationErr *domain.ValidationError
		assert.ErrorAs(t, err, &validationErr)
		// Validation failed, so the participant was never written.
		participantRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("UnknownQuestionRejected", func(t *testing.T) {
		participantRepo := new(MockParticipantRepo)
		eventRepo := new(MockEventRepo)
		questionnaireRepo := new(MockQuestionnaireRepo)
		svc := newParticipantService(participantRepo, new(MockAnswerRepo), new(MockLogRepo), eventRepo, questionnaireRepo)

		participantRepo.On("CodeExists", ctx, mock.Anything).Return(false, nil)
		participantRepo.On("SecretExists", ctx, mock.Anything).Return(false, nil)
		eventRepo.On("QuestionnaireForRole", ctx, event.ID, domain.RoleDuringSignup).
			Return(&domain.Questionnaire{ID: questionnaireID}, nil)
		questionnaireRepo.On("ListQuestionsByQuestionnaire", ctx, questionnaireID).
			Return([]domain.Question{}, nil)

		answers := []service.AnswerInput{{QuestionID: uuid.New(), Value: domain.StringValue(domain.KindString, "x")}}
		_, err := svc.SubmitApplication(ctx, event, "jo@test.com", answers)
		var validationErr *domain.ValidationError
		assert.ErrorAs(t, err, &validationErr)
	})

	t.Run("CodeSpaceExhausted", func(t *testing.T) {
		participantRepo := new(MockParticipantRepo)
		svc := newParticipantService(participantRepo, new(MockAnswerRepo), new(MockLogRepo), new(MockEventRepo), new(MockQuestionnaireRepo))

		// Every candidate collides; after the retry budget the service gives up.
		participantRepo.On("CodeExists", ctx, mock.Anything).Return(true, nil)

		_, err := svc.SubmitApplication(ctx, event, "jo@test.com", nil)
		assert.ErrorIs(t, err, domain.ErrUniquenessExhausted)
		participantRepo.AssertNumberOfCalls(t, "CodeExists", 10)
	})
}

func TestSaveAnswers(t *testing.T) {
	ctx := context.Background()
	event := &domain.Event{ID: uuid.New(), Slug: "summer-camp", EventDate: time.Now().Add(48 * time.Hour)}
	q1ID := uuid.New()
	q2ID := uuid.New()
	question := domain.Question{ID: uuid.New(), Kind: domain.KindString}

	t.Run("TriggersAnswersSavedFromApproved", func(t *testing.T) {
		participantRepo := new(MockParticipantRepo)
		answerRepo := new(MockAnswerRepo)
		eventRepo := new(MockEventRepo)
		questionnaireRepo := new(MockQuestionnaireRepo)
		svc := newParticipantService(participantRepo, answerRepo, new(MockLogRepo), eventRepo, questionnaireRepo)

		p := &domain.Participant{ID: uuid.New(), State: domain.StateApproved}

		eventRepo.On("QuestionnaireForRole", ctx, event.ID, domain.RoleDuringSignup).
			Return(&domain.Questionnaire{ID: q1ID}, nil)
		eventRepo.On("QuestionnaireForRole", ctx, event.ID, domain.RoleAfterApproval).
			Return(&domain.Questionnaire{ID: q2ID}, nil)
		questionnaireRepo.On("ListQuestionsByQuestionnaire", ctx, q1ID).
			Return([]domain.Question{question}, nil)
		questionnaireRepo.On("ListQuestionsByQuestionnaire", ctx, q2ID).
			Return([]domain.Question{}, nil)
		answerRepo.On("Upsert", ctx, mock.Anything).Return(nil)
		participantRepo.On("ChangeState", ctx, p.ID, domain.StateApproved, domain.StateNeedsReview, mock.Anything).
			Return(nil)

		answers := []service.AnswerInput{{QuestionID: question.ID, Value: domain.StringValue(domain.KindString, "x")}}
		err := svc.SaveAnswers(ctx, event, p, answers)
		assert.NoError(t, err)
		assert.Equal(t, domain.StateNeedsReview, p.State)
		participantRepo.AssertExpectations(t)
	})

	t.Run("NoTransitionFromNew", func(t *testing.T) {
		participantRepo := new(MockParticipantRepo)
		answerRepo := new(MockAnswerRepo)
		eventRepo := new(MockEventRepo)
		questionnaireRepo := new(MockQuestionnaireRepo)
		svc := newParticipantService(participantRepo, answerRepo, new(MockLogRepo), eventRepo, questionnaireRepo)

		p := &domain.Participant{ID: uuid.New(), State: domain.StateNew}

		eventRepo.On("QuestionnaireForRole", ctx, event.ID, domain.RoleDuringSignup).
			Return(&domain.Questionnaire{ID: q1ID}, nil)
		questionnaireRepo.On("ListQuestionsByQuestionnaire", ctx, q1ID).
			Return([]domain.Question{question}, nil)
		answerRepo.On("Upsert", ctx, mock.Anything).Return(nil)

		answers := []service.AnswerInput{{QuestionID: question.ID, Value: domain.StringValue(domain.KindString, "x")}}
		err := svc.SaveAnswers(ctx, event, p, answers)
		assert.NoError(t, err)
		assert.Equal(t, domain.StateNew, p.State)
		participantRepo.AssertNotCalled(t, "ChangeState", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("NotEditable", func(t *testing.T) {
		svc := newParticipantService(new(MockParticipantRepo), new(MockAnswerRepo), new(MockLogRepo), new(MockEventRepo), new(MockQuestionnaireRepo))

		p := &domain.Participant{ID: uuid.New(), State: domain.StateRejected}
		err := svc.SaveAnswers(ctx, event, p, nil)
		assert.ErrorIs(t, err, domain.ErrAnswersNotEditable)
	})

	t.Run("LockedEvent", func(t *testing.T) {
		answerRepo := new(MockAnswerRepo)
		svc := newParticipantService(new(MockParticipantRepo), answerRepo, new(MockLogRepo), new(MockEventRepo), new(MockQuestionnaireRepo))

		// The lock date has passed, so even an editable state refuses writes.
		lock := time.Now().Add(-time.Hour)
		locked := &domain.Event{ID: uuid.New(), EventDate: time.Now().Add(48 * time.Hour), LockDate: &lock}
		p := &domain.Participant{ID: uuid.New(), State: domain.StateApproved}

		err := svc.SaveAnswers(ctx, locked, p, nil)
		assert.ErrorIs(t, err, domain.ErrEventLocked)
		answerRepo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
	})

	t.Run("WritesGoThroughTheUnitOfWork", func(t *testing.T) {
		// The direct repositories and the transaction-bound ones are
		// separate mocks here. Every write must hit the transaction-bound
		// set, so a conflict on the answers_saved transition rolls the
		// answer updates back with it.
		plainParticipants := new(MockParticipantRepo)
		plainAnswers := new(MockAnswerRepo)
		txParticipants := new(MockParticipantRepo)
		txAnswers := new(MockAnswerRepo)
		eventRepo := new(MockEventRepo)
		questionnaireRepo := new(MockQuestionnaireRepo)
		uow := &MockUnitOfWork{Repos: repository.Repositories{
			Participants: txParticipants,
			Answers:      txAnswers,
			Logs:         new(MockLogRepo),
		}}
		svc := service.NewParticipantService(plainParticipants, plainAnswers, new(MockLogRepo), eventRepo, questionnaireRepo, uow, 10)

		p := &domain.Participant{ID: uuid.New(), State: domain.StateApproved}
		eventRepo.On("QuestionnaireForRole", ctx, event.ID, domain.RoleDuringSignup).
			Return(&domain.Questionnaire{ID: q1ID}, nil)
		eventRepo.On("QuestionnaireForRole", ctx, event.ID, domain.RoleAfterApproval).
			Return(&domain.Questionnaire{ID: q2ID}, nil)
		questionnaireRepo.On("ListQuestionsByQuestionnaire", ctx, q1ID).
			Return([]domain.Question{question}, nil)
		questionnaireRepo.On("ListQuestionsByQuestionnaire", ctx, q2ID).
			Return([]domain.Question{}, nil)
		txAnswers.On("Upsert", ctx, mock.Anything).Return(nil)
		txParticipants.On("ChangeState", ctx, p.ID, domain.StateApproved, domain.StateNeedsReview, mock.Anything).
			Return(domain.ErrStateConflict)

		answers := []service.AnswerInput{{QuestionID: question.ID, Value: domain.StringValue(domain.KindString, "x")}}
		err := svc.SaveAnswers(ctx, event, p, answers)
		assert.ErrorIs(t, err, domain.ErrStateConflict)
		assert.Equal(t, domain.StateApproved, p.State)
		txAnswers.AssertExpectations(t)
		plainAnswers.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
		plainParticipants.AssertNotCalled(t, "ChangeState", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestEditableQuestionnaires(t *testing.T) {
	ctx := context.Background()
	event := &domain.Event{ID: uuid.New()}
	q1 := &domain.Questionnaire{ID: uuid.New()}
	q2 := &domain.Questionnaire{ID: uuid.New()}

	eventRepo := new(MockEventRepo)
	svc := newParticipantService(new(MockParticipantRepo), new(MockAnswerRepo), new(MockLogRepo), eventRepo, new(MockQuestionnaireRepo))

	eventRepo.On("QuestionnaireForRole", ctx, event.ID, domain.RoleDuringSignup).Return(q1, nil)
	eventRepo.On("QuestionnaireForRole", ctx, event.ID, domain.RoleAfterApproval).Return(q2, nil)

	t.Run("Stage1Only", func(t *testing.T) {
		p := &domain.Participant{State: domain.StateNew}
		qs, err := svc.EditableQuestionnaires(ctx, event, p)
		assert.NoError(t, err)
		assert.Equal(t, []domain.Questionnaire{*q1}, qs)
	})

	t.Run("BothStagesOrdered", func(t *testing.T) {
		p := &domain.Participant{State: domain.StateNeedsReview}
		qs, err := svc.EditableQuestionnaires(ctx, event, p)
		assert.NoError(t, err)
		assert.Equal(t, []domain.Questionnaire{*q1, *q2}, qs)
	})

	t.Run("Terminal", func(t *testing.T) {
		p := &domain.Participant{State: domain.StateWithdrawn}
		_, err := svc.EditableQuestionnaires(ctx, event, p)
		assert.ErrorIs(t, err, domain.ErrAnswersNotEditable)
	})
}
