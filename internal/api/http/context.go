package http

import (
	"context"
	"net/http"

	"presign-backend/internal/domain"
)

type eventKey struct{}
type participantKey struct{}

func requestWithEvent(r *http.Request, event *domain.Event) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), eventKey{}, event))
}

func eventFrom(r *http.Request) *domain.Event {
	event, _ := r.Context().Value(eventKey{}).(*domain.Event)
	return event
}

func requestWithParticipant(r *http.Request, p *domain.Participant) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), participantKey{}, p))
}

func participantFrom(r *http.Request) *domain.Participant {
	p, _ := r.Context().Value(participantKey{}).(*domain.Participant)
	return p
}
