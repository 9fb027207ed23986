// Package logdisplay renders audit log entries into human readable text.
// Formatters register per event type; unknown types fall back to the raw
// event type tag so new entries never break the timeline view.
package logdisplay

import (
	"fmt"
	"strings"
	"sync"

	"presign-backend/internal/domain"
)

// Formatter turns one log event into a display string. Returning an empty
// string means the formatter cannot render this entry.
type Formatter func(event *domain.ParticipantLogEvent) string

var (
	mu         sync.RWMutex
	formatters = map[string]Formatter{}
)

// Register installs the formatter for an event type, replacing any
// previous one.
func Register(eventType string, f Formatter) {
	mu.Lock()
	defer mu.Unlock()
	formatters[eventType] = f
}

// Display renders the event with its registered formatter. Entries without
// a formatter, and formatters that decline, show the raw event type.
func Display(event *domain.ParticipantLogEvent) string {
	mu.RLock()
	f, ok := formatters[event.EventType]
	mu.RUnlock()
	if ok {
		if text := f(event); text != "" {
			return text
		}
	}
	return event.EventType
}

var actionMessages = map[string]string{
	string(domain.ActionApprove):        "Participant was approved",
	string(domain.ActionReject):         "Participant was rejected",
	string(domain.ActionRequestChanges): "Participant was asked for changes",
	string(domain.ActionUnreject):       "Participant was un-rejected",
	string(domain.ActionCancel):         "Participant was cancelled",
	string(domain.ActionConfirm):        "Participant was confirmed",
	string(domain.ActionWithdraw):       "Participant withdrew their application",
	string(domain.ActionAnswersSaved):   "Participant saved their answers",
}

func formatStateChange(event *domain.ParticipantLogEvent) string {
	action := event.Data["action"]
	text, ok := actionMessages[action]
	if !ok {
		text = titleCase(action)
	}
	oldLabel := domain.ParticipantState(event.Data["old_state"]).Label()
	newLabel := domain.ParticipantState(event.Data["new_state"]).Label()
	return fmt.Sprintf("%s. State changes from '%s' to '%s'", text, oldLabel, newLabel)
}

func formatApplicationSubmitted(event *domain.ParticipantLogEvent) string {
	return "Application was submitted"
}

func titleCase(action string) string {
	words := strings.Split(action, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func init() {
	Register(domain.LogEventStateChange, formatStateChange)
	Register(domain.LogEventApplicationSubmitted, formatApplicationSubmitted)
}
