package http

import (
	"fmt"

	"presign-backend/internal/domain"
)

// participantURLs builds the capability links handed to participants in
// notification emails. Both carry the code and secret, so they must only
// ever go to the participant's own address.
func (rt *Router) participantURLs(organizerSlug string, event *domain.Event, p *domain.Participant) map[string]string {
	applicationURL := fmt.Sprintf("%s/signup/%s/%s/%s/%s",
		rt.baseURL, organizerSlug, event.Slug, p.Code, p.Secret)
	return map[string]string{
		"application_url":   applicationURL,
		"change_answer_url": applicationURL + "/answers",
	}
}

// notificationVars merges caller-provided context variables over the
// standard capability links.
func (rt *Router) notificationVars(organizerSlug string, event *domain.Event, p *domain.Participant, extra map[string]string) map[string]string {
	vars := rt.participantURLs(organizerSlug, event, p)
	for k, v := range extra {
		vars[k] = v
	}
	return vars
}

type answerResponse struct {
	domain.QuestionAnswer
	FileURL string `json:"file_url,omitempty"`
}

// answersWithFileURLs attaches a signed, expiring media link to every file
// answer.
func (rt *Router) answersWithFileURLs(answers []domain.QuestionAnswer) []answerResponse {
	out := make([]answerResponse, 0, len(answers))
	for _, a := range answers {
		resp := answerResponse{QuestionAnswer: a}
		if a.FileRef != "" {
			resp.FileURL = rt.signer.Sign("/media/" + a.FileRef)
		}
		out = append(out, resp)
	}
	return out
}
