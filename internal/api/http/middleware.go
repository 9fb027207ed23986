package http

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"presign-backend/internal/scope"
	"presign-backend/internal/security"
)

// requireUser authenticates the request with a Bearer access token and
// declares the acting user on the request scope.
func (rt *Router) requireUser(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			respondError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		claims, err := rt.tokens.ValidateToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			respondServiceError(w, err)
			return
		}
		if claims.Type != security.TokenTypeAccess {
			respondError(w, http.StatusUnauthorized, security.ErrWrongTokenType.Error())
			return
		}

		ctx := scope.With(r.Context(), scope.User(claims.UserID))
		next(w, r.WithContext(ctx))
	}
}

// requireOrganizer resolves the {organizer} slug, checks that the acting
// user is a member and narrows the scope to that tenant.
func (rt *Router) requireOrganizer(next http.HandlerFunc) http.HandlerFunc {
	return rt.requireUser(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := scope.UserID(r.Context())
		if !ok {
			respondError(w, http.StatusUnauthorized, "missing user")
			return
		}
		org, err := rt.organizers.GetOrganizerBySlug(r.Context(), mux.Vars(r)["organizer"])
		if err != nil {
			respondServiceError(w, err)
			return
		}
		member, err := rt.organizers.IsMember(r.Context(), org.ID, userID)
		if err != nil {
			respondServiceError(w, err)
			return
		}
		if !member {
			respondError(w, http.StatusForbidden, "not a member of this organizer")
			return
		}

		ctx := scope.With(r.Context(), scope.Organizer(org.ID))
		next(w, r.WithContext(ctx))
	})
}

// requireEvent resolves the {event} slug inside the organizer scope and
// narrows the scope to that event.
func (rt *Router) requireEvent(next http.HandlerFunc) http.HandlerFunc {
	return rt.requireOrganizer(func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		event, err := rt.events.GetEventBySlug(r.Context(), vars["organizer"], vars["event"])
		if err != nil {
			respondServiceError(w, err)
			return
		}

		ctx := scope.With(r.Context(), scope.Event(event.ID))
		next(w, requestWithEvent(r.WithContext(ctx), event))
	})
}

// resolveSignupEvent resolves the public signup URL's slugs without a user.
// Slug resolution runs across tenants, then the scope narrows to the one
// event the request addresses.
func (rt *Router) resolveSignupEvent(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		ctx := scope.With(r.Context(), scope.AnyOrganizer())
		event, err := rt.events.GetEventBySlug(ctx, vars["organizer"], vars["event"])
		if err != nil {
			respondServiceError(w, err)
			return
		}
		if !event.Enabled {
			respondError(w, http.StatusNotFound, "not found")
			return
		}

		ctx = scope.With(ctx, scope.Organizer(event.OrganizerID), scope.Event(event.ID))
		next(w, requestWithEvent(r.WithContext(ctx), event))
	}
}

// resolveSignupParticipant additionally authenticates the participant by
// code and secret from the capability URL.
func (rt *Router) resolveSignupParticipant(next http.HandlerFunc) http.HandlerFunc {
	return rt.resolveSignupEvent(func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		p, err := rt.participants.GetParticipantByCodeAndSecret(r.Context(), vars["code"], vars["secret"])
		if err != nil {
			// Deliberately the same response for a wrong code and a wrong
			// secret.
			respondError(w, http.StatusNotFound, "not found")
			return
		}

		ctx := scope.With(r.Context(), scope.Participant(p.ID))
		next(w, requestWithParticipant(r.WithContext(ctx), p))
	})
}
