package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"presign-backend/internal/domain"
	"presign-backend/internal/logger"
	"presign-backend/internal/service"
)

type wireAnswer struct {
	QuestionID uuid.UUID       `json:"question_id"`
	Value      json.RawMessage `json:"value"`
}

// parseAnswers converts wire answers into typed inputs using the question
// kinds of the given questionnaires. Unknown questions are rejected later by
// the service layer.
func (rt *Router) parseAnswers(r *http.Request, questionnaireIDs []uuid.UUID, wire []wireAnswer) ([]service.AnswerInput, error) {
	kinds := make(map[uuid.UUID]domain.QuestionKind)
	for _, qid := range questionnaireIDs {
		detail, err := rt.questionnaires.GetQuestionnaire(r.Context(), qid)
		if err != nil {
			return nil, err
		}
		for _, block := range detail.Blocks {
			for _, question := range block.Questions {
				kinds[question.Question.ID] = question.Question.Kind
			}
		}
	}

	inputs := make([]service.AnswerInput, 0, len(wire))
	for _, answer := range wire {
		kind, ok := kinds[answer.QuestionID]
		if !ok {
			return nil, &domain.ValidationError{
				Field:   answer.QuestionID.String(),
				Message: "question does not belong to this form",
			}
		}
		value, err := domain.ParseAnswerValue(kind, answer.Value)
		if err != nil {
			return nil, fmt.Errorf("question %s: %w", answer.QuestionID, err)
		}
		inputs = append(inputs, service.AnswerInput{QuestionID: answer.QuestionID, Value: value})
	}
	return inputs, nil
}

type signupEventResponse struct {
	Name           domain.I18nString            `json:"name"`
	Description    domain.I18nString            `json:"description"`
	EventDate      time.Time                    `json:"event_date"`
	SignupEndShown time.Time                    `json:"signup_end_shown"`
	SignupOpen     bool                         `json:"signup_open"`
	Questionnaire  *service.QuestionnaireDetail `json:"questionnaire,omitempty"`
}

func (rt *Router) handleSignupEventInfo(w http.ResponseWriter, r *http.Request) {
	event := eventFrom(r)

	resp := signupEventResponse{
		Name:           event.Name,
		Description:    event.Description,
		EventDate:      event.EventDate,
		SignupEndShown: event.CalculatedSignupEndShown(),
		SignupOpen:     event.CanSignup(time.Now()),
	}
	if resp.SignupOpen {
		q, err := rt.events.QuestionnaireForRole(r.Context(), event.ID, domain.RoleDuringSignup)
		if err != nil {
			respondServiceError(w, err)
			return
		}
		detail, err := rt.questionnaires.GetQuestionnaire(r.Context(), q.ID)
		if err != nil {
			respondServiceError(w, err)
			return
		}
		resp.Questionnaire = detail
	}
	respondJSON(w, http.StatusOK, resp)
}

type applyRequest struct {
	Email   string       `json:"email"`
	Answers []wireAnswer `json:"answers"`
}

type applyResponse struct {
	Code   string `json:"code"`
	Secret string `json:"secret"`
	State  string `json:"state"`
}

func (rt *Router) handleSignupApply(w http.ResponseWriter, r *http.Request) {
	event := eventFrom(r)
	if !event.CanSignup(time.Now()) {
		respondError(w, http.StatusForbidden, "signup for this event is closed")
		return
	}

	var req applyRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Email == "" {
		respondError(w, http.StatusBadRequest, "email is required")
		return
	}

	q, err := rt.events.QuestionnaireForRole(r.Context(), event.ID, domain.RoleDuringSignup)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	inputs, err := rt.parseAnswers(r, []uuid.UUID{q.ID}, req.Answers)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	p, err := rt.participants.SubmitApplication(r.Context(), event, req.Email, inputs)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	// The application is committed; the confirmation email carrying the
	// capability URLs is best effort and must not undo it.
	vars := rt.participantURLs(mux.Vars(r)["organizer"], event, p)
	if err := rt.notifications.DispatchStateChangeEmail(r.Context(), event, p, domain.ActionSubmitApplication, vars); err != nil {
		if !errors.Is(err, domain.ErrNotificationNotConfigured) {
			logger.Error("failed to send application confirmation email", "participant", p.ID, "error", err)
		}
	}
	respondJSON(w, http.StatusCreated, applyResponse{
		Code:   p.Code,
		Secret: p.Secret,
		State:  string(p.State),
	})
}

type signupStatusResponse struct {
	State          string                 `json:"state"`
	StateLabel     string                 `json:"state_label"`
	StatusText     domain.I18nString      `json:"status_text,omitempty"`
	PublicComment  domain.I18nString      `json:"public_comment,omitempty"`
	Questionnaires []domain.Questionnaire `json:"editable_questionnaires"`
	Answers        []answerResponse       `json:"answers"`
}

func (rt *Router) handleSignupStatus(w http.ResponseWriter, r *http.Request) {
	event := eventFrom(r)
	p := participantFrom(r)

	statusText, err := rt.events.GetStatusText(r.Context(), event, p.State)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	editable, err := rt.participants.EditableQuestionnaires(r.Context(), event, p)
	if err != nil {
		if !errors.Is(err, domain.ErrAnswersNotEditable) {
			respondServiceError(w, err)
			return
		}
		editable = nil
	}
	if !event.CanUpdate(time.Now()) {
		editable = nil
	}

	answers, err := rt.participants.ListAnswers(r.Context(), p.ID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, signupStatusResponse{
		State:          string(p.State),
		StateLabel:     p.State.Label(),
		StatusText:     statusText,
		PublicComment:  p.PublicComment,
		Questionnaires: editable,
		Answers:        rt.answersWithFileURLs(answers),
	})
}

func (rt *Router) handleSignupSaveAnswers(w http.ResponseWriter, r *http.Request) {
	event := eventFrom(r)
	p := participantFrom(r)

	var req struct {
		Answers []wireAnswer `json:"answers"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	editable, err := rt.participants.EditableQuestionnaires(r.Context(), event, p)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	ids := make([]uuid.UUID, 0, len(editable))
	for _, q := range editable {
		ids = append(ids, q.ID)
	}
	inputs, err := rt.parseAnswers(r, ids, req.Answers)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	if err := rt.participants.SaveAnswers(r.Context(), event, p, inputs); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"state": string(p.State)})
}

func (rt *Router) handleSignupWithdraw(w http.ResponseWriter, r *http.Request) {
	event := eventFrom(r)
	p := participantFrom(r)

	if err := rt.participants.ChangeState(r.Context(), p, domain.ActionWithdraw); err != nil {
		respondServiceError(w, err)
		return
	}
	vars := rt.participantURLs(mux.Vars(r)["organizer"], event, p)
	if err := rt.notifications.DispatchStateChangeEmail(r.Context(), event, p, domain.ActionWithdraw, vars); err != nil {
		if !errors.Is(err, domain.ErrNotificationNotConfigured) {
			logger.Error("failed to send withdrawal email", "participant", p.ID, "error", err)
		}
	}
	respondJSON(w, http.StatusOK, map[string]string{"state": string(p.State)})
}
