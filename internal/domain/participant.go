package domain

import "github.com/google/uuid"

// ParticipantState is the review state of one application. The constant
// values are the short codes stored in the database.
type ParticipantState string

const (
	// Step 1: signup, the organizer reviews questionnaire 1 and approves or
	// rejects the application.
	StateNew                ParticipantState = "NEW"
	StateRejected           ParticipantState = "REJ"
	StateQ1ChangesRequested ParticipantState = "Q1C"
	// Step 2: the participant fills out the second questionnaire, the
	// organizer reviews it.
	StateApproved           ParticipantState = "APP"
	StateNeedsReview        ParticipantState = "NER"
	StateQ2ChangesRequested ParticipantState = "Q2C"
	// Step 3a: all duties done, welcome to the event.
	StateConfirmed ParticipantState = "CON"
	// Step 3b: the participant withdrew, or the organizer cancelled. Both
	// are terminal.
	StateWithdrawn ParticipantState = "WIT"
	StateCancelled ParticipantState = "CAN"
)

var participantStateLabels = map[ParticipantState]string{
	StateNew:                "New signup",
	StateRejected:           "Rejected",
	StateQ1ChangesRequested: "Changes requested in questionnaire 1",
	StateApproved:           "Approved",
	StateNeedsReview:        "Needs review",
	StateQ2ChangesRequested: "Changes requested in questionnaire 2",
	StateConfirmed:          "Confirmed",
	StateWithdrawn:          "Withdrawn",
	StateCancelled:          "Cancelled",
}

// Label returns the human-readable name of the state, or the raw code for
// unknown states.
func (s ParticipantState) Label() string {
	if l, ok := participantStateLabels[s]; ok {
		return l
	}
	return string(s)
}

func (s ParticipantState) Valid() bool {
	_, ok := participantStateLabels[s]
	return ok
}

// ParticipantStateAction names a transition request against the state
// machine.
type ParticipantStateAction string

const (
	ActionSubmitApplication ParticipantStateAction = "submit_application"
	ActionApprove           ParticipantStateAction = "approve"
	ActionReject            ParticipantStateAction = "reject"
	ActionRequestChanges    ParticipantStateAction = "request_changes"
	ActionUnreject          ParticipantStateAction = "unreject"
	ActionAnswersSaved      ParticipantStateAction = "answers_saved"
	ActionCancel            ParticipantStateAction = "cancel"
	ActionWithdraw          ParticipantStateAction = "withdraw"
	ActionConfirm           ParticipantStateAction = "confirm"
)

// StateTransitions is the authoritative map of legal state changes. It is
// read-only; Transition is the only consumer.
//
//	                                                     +------------+
//	                                                     |  REJECTED  |
//	                                                     +------------+
//	                      unreject / approve                 ^  |
//	                                        answers_saved    |  v
//	             +------------------------+---------------->+------+
//	             |  Q1_CHANGES_REQUESTED  |                 | NEW  |
//	             +------------------------+<----------------+------+
//	                                       request_changes      | approve
//	                                                            v
//	                                                      +----------+
//	                                                      | APPROVED |
//	                                                      +----------+
//	                                                            | answers_saved
//	          +----------------------+       answers_saved      v
//	          | Q2_CHANGES_REQUESTED |---------------->+--------------+
//	          +----------------------+<----------------+ NEEDS_REVIEW |
//	                                   request_changes +--------------+
//	                                                            | confirm
//	                                                            v
//	                                                      +-----------+
//	                                                      | CONFIRMED |
//	                                                      +-----------+
//
// WITHDRAWN and CANCELLED (not drawn) are reachable per the table below and
// are terminal.
var StateTransitions = map[ParticipantState]map[ParticipantStateAction]ParticipantState{
	StateNew: {
		ActionApprove:        StateApproved,
		ActionReject:         StateRejected,
		ActionRequestChanges: StateQ1ChangesRequested,
		ActionWithdraw:       StateWithdrawn,
	},
	StateRejected: {
		ActionUnreject: StateNew,
		ActionApprove:  StateApproved,
	},
	StateQ1ChangesRequested: {
		ActionAnswersSaved: StateNew,
		ActionCancel:       StateCancelled,
		ActionWithdraw:     StateWithdrawn,
	},
	StateApproved: {
		ActionAnswersSaved: StateNeedsReview,
		ActionWithdraw:     StateWithdrawn,
		ActionCancel:       StateCancelled,
	},
	StateNeedsReview: {
		ActionRequestChanges: StateQ2ChangesRequested,
		ActionConfirm:        StateConfirmed,
		ActionWithdraw:       StateWithdrawn,
		ActionCancel:         StateCancelled,
	},
	StateQ2ChangesRequested: {
		ActionAnswersSaved: StateNeedsReview,
		ActionWithdraw:     StateWithdrawn,
		ActionCancel:       StateCancelled,
	},
	StateConfirmed: {
		ActionWithdraw: StateWithdrawn,
		ActionCancel:   StateCancelled,
	},
}

// Transition resolves the successor state for (state, action). It returns an
// IllegalTransitionError when the pair is not in the table.
func Transition(state ParticipantState, action ParticipantStateAction) (ParticipantState, error) {
	next, ok := StateTransitions[state][action]
	if !ok {
		return "", &IllegalTransitionError{State: state, Action: action}
	}
	return next, nil
}

// States from which the stage-1 questionnaire may be edited.
var CanChangeQ1States = []ParticipantState{
	StateNew,
	StateQ1ChangesRequested,
}

// States from which both questionnaires may be edited.
var CanChangeQ1AndQ2States = []ParticipantState{
	StateApproved,
	StateNeedsReview,
	StateQ2ChangesRequested,
	StateConfirmed,
}

func stateIn(state ParticipantState, set []ParticipantState) bool {
	for _, s := range set {
		if s == state {
			return true
		}
	}
	return false
}

// CanEditAnswers reports whether the participant may change any answers in
// the given state.
func CanEditAnswers(state ParticipantState) bool {
	return stateIn(state, CanChangeQ1States) || stateIn(state, CanChangeQ1AndQ2States)
}

// EditableRoles returns the questionnaire roles the participant may edit,
// ordered stage 1 before stage 2. Asking for a state that permits no edits
// is a caller bug and returns ErrAnswersNotEditable.
func EditableRoles(state ParticipantState) ([]QuestionnaireRole, error) {
	switch {
	case stateIn(state, CanChangeQ1States):
		return []QuestionnaireRole{RoleDuringSignup}, nil
	case stateIn(state, CanChangeQ1AndQ2States):
		return []QuestionnaireRole{RoleDuringSignup, RoleAfterApproval}, nil
	default:
		return nil, ErrAnswersNotEditable
	}
}

// TriggersAnswersSaved reports whether saving answers in the given state
// must fire the answers_saved transition.
func TriggersAnswersSaved(state ParticipantState) bool {
	switch state {
	case StateApproved, StateQ1ChangesRequested, StateQ2ChangesRequested:
		return true
	}
	return false
}

// Participant is one application tied to one event. The code identifies the
// application publicly; the secret is the capability to act on it.
type Participant struct {
	ID              uuid.UUID        `json:"id"`
	EventID         uuid.UUID        `json:"event_id"`
	Email           string           `json:"email"`
	Code            string           `json:"code"`
	Secret          string           `json:"-"`
	State           ParticipantState `json:"state"`
	PublicComment   I18nString       `json:"public_comment"`
	InternalComment I18nString       `json:"internal_comment"`
	CreatedAt       string           `json:"created_at"`
}
