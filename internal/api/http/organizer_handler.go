package http

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"presign-backend/internal/domain"
	"presign-backend/internal/scope"
)

func (rt *Router) handleListMyOrganizers(w http.ResponseWriter, r *http.Request) {
	userID, ok := scope.UserID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "missing user")
		return
	}
	orgs, err := rt.organizers.ListMyOrganizers(r.Context(), userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, orgs)
}

func (rt *Router) handleCreateOrganizer(w http.ResponseWriter, r *http.Request) {
	userID, ok := scope.UserID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "missing user")
		return
	}

	var org domain.Organizer
	if !decodeBody(w, r, &org) {
		return
	}
	if err := rt.organizers.CreateOrganizer(r.Context(), userID, &org); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, org)
}

func (rt *Router) handleGetOrganizer(w http.ResponseWriter, r *http.Request) {
	org, err := rt.organizers.GetOrganizerBySlug(r.Context(), mux.Vars(r)["organizer"])
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, org)
}

func (rt *Router) handleUpdateOrganizer(w http.ResponseWriter, r *http.Request) {
	current, err := rt.organizers.GetOrganizerBySlug(r.Context(), mux.Vars(r)["organizer"])
	if err != nil {
		respondServiceError(w, err)
		return
	}

	var update domain.Organizer
	if !decodeBody(w, r, &update) {
		return
	}
	update.ID = current.ID
	if update.Slug == "" {
		update.Slug = current.Slug
	}
	if err := rt.organizers.UpdateOrganizer(r.Context(), &update); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, update)
}

func (rt *Router) handleListMembers(w http.ResponseWriter, r *http.Request) {
	orgID, _, err := scope.OrganizerID(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	members, err := rt.organizers.ListMembers(r.Context(), orgID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, members)
}

func (rt *Router) handleAddMember(w http.ResponseWriter, r *http.Request) {
	orgID, _, err := scope.OrganizerID(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	var req struct {
		Email string `json:"email"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Email == "" {
		respondError(w, http.StatusBadRequest, "email is required")
		return
	}
	if err := rt.organizers.AddMember(r.Context(), orgID, req.Email); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

func (rt *Router) handleRemoveMember(w http.ResponseWriter, r *http.Request) {
	orgID, _, err := scope.OrganizerID(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	userID, err := uuid.Parse(mux.Vars(r)["user"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "malformed user id")
		return
	}
	if err := rt.organizers.RemoveMember(r.Context(), orgID, userID); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}
