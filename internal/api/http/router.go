// Package http exposes the REST surface: a control API for organizer
// members behind JWT auth and a public signup API addressed by organizer
// and event slugs, with participant access through capability URLs.
package http

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"presign-backend/internal/security"
	"presign-backend/internal/service"
)

type Router struct {
	auth           service.AuthService
	organizers     service.OrganizerService
	events         service.EventService
	questionnaires service.QuestionnaireService
	participants   service.ParticipantService
	notifications  service.NotificationService

	tokens    security.TokenManager
	signer    *security.URLSigner
	uploadDir string
	baseURL   string
}

func NewRouter(
	auth service.AuthService,
	organizers service.OrganizerService,
	events service.EventService,
	questionnaires service.QuestionnaireService,
	participants service.ParticipantService,
	notifications service.NotificationService,
	tokens security.TokenManager,
	signer *security.URLSigner,
	uploadDir string,
	baseURL string,
) *Router {
	return &Router{
		auth:           auth,
		organizers:     organizers,
		events:         events,
		questionnaires: questionnaires,
		participants:   participants,
		notifications:  notifications,
		tokens:         tokens,
		signer:         signer,
		uploadDir:      uploadDir,
		baseURL:        strings.TrimRight(baseURL, "/"),
	}
}

// Handler builds the full route table.
func (rt *Router) Handler() http.Handler {
	r := mux.NewRouter()
	api := r.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/auth/signup", rt.handleSignup).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", rt.handleLogin).Methods(http.MethodPost)
	api.HandleFunc("/auth/refresh", rt.handleRefresh).Methods(http.MethodPost)

	api.HandleFunc("/organizers", rt.requireUser(rt.handleListMyOrganizers)).Methods(http.MethodGet)
	api.HandleFunc("/organizers", rt.requireUser(rt.handleCreateOrganizer)).Methods(http.MethodPost)

	org := api.PathPrefix("/organizers/{organizer}").Subrouter()
	org.HandleFunc("", rt.requireOrganizer(rt.handleGetOrganizer)).Methods(http.MethodGet)
	org.HandleFunc("", rt.requireOrganizer(rt.handleUpdateOrganizer)).Methods(http.MethodPut)
	org.HandleFunc("/members", rt.requireOrganizer(rt.handleListMembers)).Methods(http.MethodGet)
	org.HandleFunc("/members", rt.requireOrganizer(rt.handleAddMember)).Methods(http.MethodPost)
	org.HandleFunc("/members/{user}", rt.requireOrganizer(rt.handleRemoveMember)).Methods(http.MethodDelete)

	api.HandleFunc("/questionnaires/public", rt.requireUser(rt.handleListPublicQuestionnaires)).Methods(http.MethodGet)
	org.HandleFunc("/questionnaires", rt.requireOrganizer(rt.handleListQuestionnaires)).Methods(http.MethodGet)
	org.HandleFunc("/questionnaires", rt.requireOrganizer(rt.handleCreateQuestionnaire)).Methods(http.MethodPost)
	org.HandleFunc("/questionnaires/clone", rt.requireOrganizer(rt.handleCloneQuestionnaire)).Methods(http.MethodPost)
	org.HandleFunc("/questionnaires/{id}", rt.requireOrganizer(rt.handleGetQuestionnaire)).Methods(http.MethodGet)
	org.HandleFunc("/questionnaires/{id}", rt.requireOrganizer(rt.handleUpdateQuestionnaire)).Methods(http.MethodPut)
	org.HandleFunc("/questionnaires/{id}", rt.requireOrganizer(rt.handleDeleteQuestionnaire)).Methods(http.MethodDelete)
	org.HandleFunc("/questionnaires/{id}/blocks", rt.requireOrganizer(rt.handleAddBlock)).Methods(http.MethodPost)
	org.HandleFunc("/questionnaires/{id}/questions", rt.requireOrganizer(rt.handleAddQuestion)).Methods(http.MethodPost)

	org.HandleFunc("/events", rt.requireOrganizer(rt.handleListEvents)).Methods(http.MethodGet)
	org.HandleFunc("/events", rt.requireOrganizer(rt.handleCreateEvent)).Methods(http.MethodPost)

	event := org.PathPrefix("/events/{event}").Subrouter()
	event.HandleFunc("", rt.requireEvent(rt.handleGetEvent)).Methods(http.MethodGet)
	event.HandleFunc("", rt.requireEvent(rt.handleUpdateEvent)).Methods(http.MethodPut)
	event.HandleFunc("/questionnaires", rt.requireEvent(rt.handleAssignQuestionnaire)).Methods(http.MethodPost)
	event.HandleFunc("/enable", rt.requireEvent(rt.handleEnableEvent)).Methods(http.MethodPost)
	event.HandleFunc("/disable", rt.requireEvent(rt.handleDisableEvent)).Methods(http.MethodPost)
	event.HandleFunc("/texts", rt.requireEvent(rt.handleGetEventText)).Methods(http.MethodGet)
	event.HandleFunc("/texts", rt.requireEvent(rt.handleSetEventText)).Methods(http.MethodPut)
	org.HandleFunc("/texts", rt.requireOrganizer(rt.handleGetOrganizerText)).Methods(http.MethodGet)
	org.HandleFunc("/texts", rt.requireOrganizer(rt.handleSetOrganizerText)).Methods(http.MethodPut)

	event.HandleFunc("/participants", rt.requireEvent(rt.handleListParticipants)).Methods(http.MethodGet)
	event.HandleFunc("/participants/{id}", rt.requireEvent(rt.handleGetParticipant)).Methods(http.MethodGet)
	event.HandleFunc("/participants/{id}/comments", rt.requireEvent(rt.handleUpdateComments)).Methods(http.MethodPut)
	event.HandleFunc("/participants/{id}/transition", rt.requireEvent(rt.handleTransition)).Methods(http.MethodPost)
	event.HandleFunc("/participants/{id}/email-preview", rt.requireEvent(rt.handleEmailPreview)).Methods(http.MethodGet)
	event.HandleFunc("/participants/{id}/logs", rt.requireEvent(rt.handleParticipantLogs)).Methods(http.MethodGet)
	event.HandleFunc("/participants/{id}/answers", rt.requireEvent(rt.handleParticipantAnswers)).Methods(http.MethodGet)

	signup := r.PathPrefix("/signup/{organizer}/{event}").Subrouter()
	signup.HandleFunc("", rt.resolveSignupEvent(rt.handleSignupEventInfo)).Methods(http.MethodGet)
	signup.HandleFunc("/apply", rt.resolveSignupEvent(rt.handleSignupApply)).Methods(http.MethodPost)
	signup.HandleFunc("/{code}/{secret}", rt.resolveSignupParticipant(rt.handleSignupStatus)).Methods(http.MethodGet)
	signup.HandleFunc("/{code}/{secret}/answers", rt.resolveSignupParticipant(rt.handleSignupSaveAnswers)).Methods(http.MethodPut)
	signup.HandleFunc("/{code}/{secret}/withdraw", rt.resolveSignupParticipant(rt.handleSignupWithdraw)).Methods(http.MethodPost)

	r.PathPrefix("/media/").HandlerFunc(rt.handleMedia).Methods(http.MethodGet)

	return r
}
