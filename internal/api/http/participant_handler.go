package http

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"presign-backend/internal/domain"
	"presign-backend/internal/logdisplay"
	"presign-backend/internal/logger"
)

func (rt *Router) handleListParticipants(w http.ResponseWriter, r *http.Request) {
	participants, err := rt.participants.ListParticipants(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, participants)
}

func (rt *Router) scopedParticipant(w http.ResponseWriter, r *http.Request) *domain.Participant {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "malformed participant id")
		return nil
	}
	p, err := rt.participants.GetParticipant(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return nil
	}
	return p
}

func (rt *Router) handleGetParticipant(w http.ResponseWriter, r *http.Request) {
	p := rt.scopedParticipant(w, r)
	if p == nil {
		return
	}
	respondJSON(w, http.StatusOK, p)
}

type updateCommentsRequest struct {
	PublicComment   domain.I18nString `json:"public_comment"`
	InternalComment domain.I18nString `json:"internal_comment"`
}

func (rt *Router) handleUpdateComments(w http.ResponseWriter, r *http.Request) {
	p := rt.scopedParticipant(w, r)
	if p == nil {
		return
	}

	var req updateCommentsRequest
	if !decodeBody(w, r, &req) {
		return
	}
	p.PublicComment = req.PublicComment
	p.InternalComment = req.InternalComment
	if err := rt.participants.UpdateComments(r.Context(), p); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

type transitionRequest struct {
	Action  domain.ParticipantStateAction `json:"action"`
	Context map[string]string             `json:"context"`
}

type transitionResponse struct {
	Participant *domain.Participant `json:"participant"`
	EmailSent   bool                `json:"email_sent"`
}

func (rt *Router) handleTransition(w http.ResponseWriter, r *http.Request) {
	event := eventFrom(r)
	p := rt.scopedParticipant(w, r)
	if p == nil {
		return
	}

	var req transitionRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := rt.participants.ChangeState(r.Context(), p, req.Action); err != nil {
		respondServiceError(w, err)
		return
	}

	// The transition is committed at this point. Notification failures must
	// not roll it back or fail the request.
	vars := rt.notificationVars(mux.Vars(r)["organizer"], event, p, req.Context)
	emailSent := true
	if err := rt.notifications.DispatchStateChangeEmail(r.Context(), event, p, req.Action, vars); err != nil {
		emailSent = false
		if errors.Is(err, domain.ErrNotificationNotConfigured) {
			logger.Warn("no notification configured for transition",
				"participant", p.ID, "action", req.Action)
		} else {
			logger.Error("failed to send state change email",
				"participant", p.ID, "action", req.Action, "error", err)
		}
	}
	respondJSON(w, http.StatusOK, transitionResponse{Participant: p, EmailSent: emailSent})
}

type emailPreviewResponse struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

func (rt *Router) handleEmailPreview(w http.ResponseWriter, r *http.Request) {
	event := eventFrom(r)
	p := rt.scopedParticipant(w, r)
	if p == nil {
		return
	}

	action := domain.ParticipantStateAction(r.URL.Query().Get("action"))
	if action == "" {
		respondError(w, http.StatusBadRequest, "action query parameter is required")
		return
	}
	subject, body, err := rt.notifications.RenderStateChangeEmail(r.Context(), event, p, action,
		rt.participantURLs(mux.Vars(r)["organizer"], event, p))
	if err != nil {
		if errors.Is(err, domain.ErrNotificationNotConfigured) {
			respondError(w, http.StatusNotFound, "no email template configured for this action")
			return
		}
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, emailPreviewResponse{Subject: subject, Body: body})
}

type logEntryResponse struct {
	domain.ParticipantLogEvent
	Display string `json:"display"`
}

func (rt *Router) handleParticipantLogs(w http.ResponseWriter, r *http.Request) {
	p := rt.scopedParticipant(w, r)
	if p == nil {
		return
	}
	entries, err := rt.participants.LogEventsFor(r.Context(), p.ID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	out := make([]logEntryResponse, 0, len(entries))
	for _, entry := range entries {
		out = append(out, logEntryResponse{
			ParticipantLogEvent: entry,
			Display:             logdisplay.Display(&entry),
		})
	}
	respondJSON(w, http.StatusOK, out)
}

func (rt *Router) handleParticipantAnswers(w http.ResponseWriter, r *http.Request) {
	p := rt.scopedParticipant(w, r)
	if p == nil {
		return
	}
	answers, err := rt.participants.ListAnswers(r.Context(), p.ID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, rt.answersWithFileURLs(answers))
}
