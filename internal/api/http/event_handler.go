package http

import (
	"net/http"

	"github.com/google/uuid"

	"presign-backend/internal/domain"
	"presign-backend/internal/scope"
)

func (rt *Router) handleListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := rt.events.ListEvents(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, events)
}

func (rt *Router) handleCreateEvent(w http.ResponseWriter, r *http.Request) {
	orgID, _, err := scope.OrganizerID(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	var event domain.Event
	if !decodeBody(w, r, &event) {
		return
	}
	event.OrganizerID = orgID
	if err := rt.events.CreateEvent(r.Context(), &event); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, event)
}

func (rt *Router) handleGetEvent(w http.ResponseWriter, r *http.Request) {
	event := eventFrom(r)

	canEnable, err := rt.events.CanBeEnabled(r.Context(), event.ID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, struct {
		*domain.Event
		CanBeEnabled bool `json:"can_be_enabled"`
	}{Event: event, CanBeEnabled: canEnable})
}

func (rt *Router) handleUpdateEvent(w http.ResponseWriter, r *http.Request) {
	current := eventFrom(r)

	var update domain.Event
	if !decodeBody(w, r, &update) {
		return
	}
	update.ID = current.ID
	update.OrganizerID = current.OrganizerID
	update.Enabled = current.Enabled
	if update.Slug == "" {
		update.Slug = current.Slug
	}
	if err := rt.events.UpdateEvent(r.Context(), &update); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, update)
}

type assignQuestionnaireRequest struct {
	QuestionnaireID uuid.UUID                `json:"questionnaire_id"`
	Role            domain.QuestionnaireRole `json:"role"`
}

func (rt *Router) handleAssignQuestionnaire(w http.ResponseWriter, r *http.Request) {
	event := eventFrom(r)

	var req assignQuestionnaireRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := rt.events.AssignQuestionnaire(r.Context(), event.ID, req.QuestionnaireID, req.Role); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

func (rt *Router) handleEnableEvent(w http.ResponseWriter, r *http.Request) {
	if err := rt.events.EnableEvent(r.Context(), eventFrom(r).ID); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

func (rt *Router) handleDisableEvent(w http.ResponseWriter, r *http.Request) {
	if err := rt.events.DisableEvent(r.Context(), eventFrom(r).ID); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

type setTextRequest struct {
	Group domain.TextGroup             `json:"group"`
	Key   string                       `json:"key"`
	Value map[string]domain.I18nString `json:"value"`
}

func (rt *Router) setText(w http.ResponseWriter, r *http.Request, owner domain.TextOwner, ownerID uuid.UUID) {
	var req setTextRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Key == "" {
		respondError(w, http.StatusBadRequest, "key is required")
		return
	}
	text := &domain.StoredText{
		Owner:   owner,
		OwnerID: ownerID,
		Group:   req.Group,
		Key:     req.Key,
		Value:   req.Value,
	}
	if err := rt.events.SetText(r.Context(), text); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

func (rt *Router) handleSetEventText(w http.ResponseWriter, r *http.Request) {
	rt.setText(w, r, domain.TextOwnerEvent, eventFrom(r).ID)
}

func (rt *Router) handleSetOrganizerText(w http.ResponseWriter, r *http.Request) {
	orgID, _, err := scope.OrganizerID(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	rt.setText(w, r, domain.TextOwnerOrganizer, orgID)
}

func (rt *Router) getText(w http.ResponseWriter, r *http.Request, owner domain.TextOwner, ownerID uuid.UUID) {
	group := domain.TextGroup(r.URL.Query().Get("group"))
	key := r.URL.Query().Get("key")
	if group == "" || key == "" {
		respondError(w, http.StatusBadRequest, "group and key query parameters are required")
		return
	}
	text, err := rt.events.GetText(r.Context(), owner, ownerID, group, key)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, text)
}

func (rt *Router) handleGetEventText(w http.ResponseWriter, r *http.Request) {
	rt.getText(w, r, domain.TextOwnerEvent, eventFrom(r).ID)
}

func (rt *Router) handleGetOrganizerText(w http.ResponseWriter, r *http.Request) {
	orgID, _, err := scope.OrganizerID(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	rt.getText(w, r, domain.TextOwnerOrganizer, orgID)
}
