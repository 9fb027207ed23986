package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"html"
	"regexp"
	"strings"

	"presign-backend/internal/domain"
	"presign-backend/internal/logger"
	"presign-backend/internal/repository"
)

type notificationService struct {
	textRepo repository.TextRepository
	emailSvc EmailService
	lang     string
}

// NewNotificationService builds the dispatcher. lang selects the
// translation used when rendering templates.
func NewNotificationService(textRepo repository.TextRepository, emailSvc EmailService, lang string) NotificationService {
	if lang == "" {
		lang = domain.DefaultLanguage
	}
	return &notificationService{textRepo: textRepo, emailSvc: emailSvc, lang: lang}
}

var placeholderPattern = regexp.MustCompile(`\{([a-zA-Z0-9_]+)\}`)

// substitutePlaceholders replaces {name} references with values from vars.
// Unknown placeholders resolve to the empty string rather than failing, so
// organizers can't break delivery with a typo in a template.
func substitutePlaceholders(template string, vars map[string]string) string {
	return placeholderPattern.ReplaceAllStringFunc(template, func(match string) string {
		name := match[1 : len(match)-1]
		return vars[name]
	})
}

// actionEmailTexts resolves the action's template from the event-level text
// store, falling back to the organizer level. A missing row resolves to
// empty texts, not an error; emptiness is judged after substitution.
func (s *notificationService) actionEmailTexts(ctx context.Context, event *domain.Event, action domain.ParticipantStateAction) (domain.ActionEmailTexts, error) {
	stored, err := s.textRepo.GetWithFallback(ctx, event.ID, event.OrganizerID, domain.TextGroupEmail, string(action))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ActionEmailTexts{}, nil
		}
		return domain.ActionEmailTexts{}, err
	}
	return domain.ActionEmailTexts{
		Subject: stored.Value["subject"],
		Body:    stored.Value["body"],
	}, nil
}

func (s *notificationService) RenderStateChangeEmail(ctx context.Context, event *domain.Event, p *domain.Participant, action domain.ParticipantStateAction, contextVars map[string]string) (string, string, error) {
	texts, err := s.actionEmailTexts(ctx, event, action)
	if err != nil {
		return "", "", fmt.Errorf("failed to resolve email texts: %w", err)
	}

	vars := map[string]string{
		"participant_email": p.Email,
		"event_name":        event.Name.Resolve(s.lang),
	}
	for k, v := range contextVars {
		vars[k] = v
	}

	subject := substitutePlaceholders(texts.Subject.Resolve(s.lang), vars)
	body := substitutePlaceholders(texts.Body.Resolve(s.lang), vars)

	if body == "" {
		return "", "", domain.ErrNotificationNotConfigured
	}
	return subject, body, nil
}

func (s *notificationService) DispatchStateChangeEmail(ctx context.Context, event *domain.Event, p *domain.Participant, action domain.ParticipantStateAction, contextVars map[string]string) error {
	subject, body, err := s.RenderStateChangeEmail(ctx, event, p, action, contextVars)
	if err != nil {
		return err
	}

	if err := s.emailSvc.Send(ctx, p.Email, subject, body, renderHTMLBody(subject, body)); err != nil {
		return fmt.Errorf("failed to send state change email: %w", err)
	}
	logger.Info("state change email sent", "participant", p.Code, "action", action)
	return nil
}

// renderHTMLBody produces the HTML alternative of the plain-text body.
func renderHTMLBody(subject, body string) string {
	escaped := html.EscapeString(body)
	escaped = strings.ReplaceAll(escaped, "\n", "<br>\n")
	return fmt.Sprintf(
		"<html><head><title>%s</title></head><body><p>%s</p></body></html>",
		html.EscapeString(subject), escaped)
}
