package http

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"presign-backend/internal/domain"
	"presign-backend/internal/scope"
	"presign-backend/internal/service"
)

func (rt *Router) handleListPublicQuestionnaires(w http.ResponseWriter, r *http.Request) {
	qs, err := rt.questionnaires.ListPublicQuestionnaires(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, qs)
}

func (rt *Router) handleListQuestionnaires(w http.ResponseWriter, r *http.Request) {
	orgID, _, err := scope.OrganizerID(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	qs, err := rt.questionnaires.ListQuestionnaires(r.Context(), orgID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, qs)
}

func (rt *Router) handleCreateQuestionnaire(w http.ResponseWriter, r *http.Request) {
	orgID, _, err := scope.OrganizerID(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	var q domain.Questionnaire
	if !decodeBody(w, r, &q) {
		return
	}
	q.OrganizerID = orgID
	if err := rt.questionnaires.CreateQuestionnaire(r.Context(), &q); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, q)
}

// ownedQuestionnaire loads the questionnaire detail and checks that the
// current tenant may see it. Questionnaires are organizer-owned but not
// tenant-filtered in storage, so the check lives here.
func (rt *Router) ownedQuestionnaire(w http.ResponseWriter, r *http.Request, allowPublic bool) *service.QuestionnaireDetail {
	orgID, _, err := scope.OrganizerID(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return nil
	}
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "malformed questionnaire id")
		return nil
	}
	detail, err := rt.questionnaires.GetQuestionnaire(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return nil
	}
	if detail.Questionnaire.OrganizerID != orgID && !(allowPublic && detail.Questionnaire.IsPublic) {
		respondError(w, http.StatusNotFound, "not found")
		return nil
	}
	return detail
}

func (rt *Router) handleGetQuestionnaire(w http.ResponseWriter, r *http.Request) {
	detail := rt.ownedQuestionnaire(w, r, true)
	if detail == nil {
		return
	}
	respondJSON(w, http.StatusOK, detail)
}

func (rt *Router) handleUpdateQuestionnaire(w http.ResponseWriter, r *http.Request) {
	detail := rt.ownedQuestionnaire(w, r, false)
	if detail == nil {
		return
	}

	var update domain.Questionnaire
	if !decodeBody(w, r, &update) {
		return
	}
	update.ID = detail.Questionnaire.ID
	update.OrganizerID = detail.Questionnaire.OrganizerID
	if err := rt.questionnaires.UpdateQuestionnaire(r.Context(), &update); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, update)
}

func (rt *Router) handleDeleteQuestionnaire(w http.ResponseWriter, r *http.Request) {
	detail := rt.ownedQuestionnaire(w, r, false)
	if detail == nil {
		return
	}
	if err := rt.questionnaires.DeleteQuestionnaire(r.Context(), detail.Questionnaire.ID); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

func (rt *Router) handleAddBlock(w http.ResponseWriter, r *http.Request) {
	detail := rt.ownedQuestionnaire(w, r, false)
	if detail == nil {
		return
	}

	var block domain.QuestionBlock
	if !decodeBody(w, r, &block) {
		return
	}
	block.QuestionnaireID = detail.Questionnaire.ID
	if err := rt.questionnaires.AddBlock(r.Context(), &block); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, block)
}

type addQuestionRequest struct {
	BlockID  uuid.UUID               `json:"block_id"`
	Question domain.Question         `json:"question"`
	Options  []domain.QuestionOption `json:"options"`
}

func (rt *Router) handleAddQuestion(w http.ResponseWriter, r *http.Request) {
	detail := rt.ownedQuestionnaire(w, r, false)
	if detail == nil {
		return
	}

	var req addQuestionRequest
	if !decodeBody(w, r, &req) {
		return
	}
	owned := false
	for _, block := range detail.Blocks {
		if block.Block.ID == req.BlockID {
			owned = true
			break
		}
	}
	if !owned {
		respondError(w, http.StatusBadRequest, "block does not belong to this questionnaire")
		return
	}

	req.Question.BlockID = req.BlockID
	if err := rt.questionnaires.AddQuestion(r.Context(), &req.Question, req.Options); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, req.Question)
}

func (rt *Router) handleCloneQuestionnaire(w http.ResponseWriter, r *http.Request) {
	orgID, _, err := scope.OrganizerID(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	var req struct {
		SourceID uuid.UUID `json:"source_id"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	clone, err := rt.questionnaires.CloneQuestionnaire(r.Context(), req.SourceID, orgID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, clone)
}
