package domain

import "github.com/google/uuid"

// Questionnaire is a reusable form definition owned by one organizer.
// Public questionnaires are readable by other organizers and can be cloned
// into their own account.
type Questionnaire struct {
	ID          uuid.UUID  `json:"id"`
	OrganizerID uuid.UUID  `json:"organizer_id"`
	Name        I18nString `json:"name"`
	IsPublic    bool       `json:"is_public"`
}

// QuestionBlock groups questions inside a questionnaire.
type QuestionBlock struct {
	ID              uuid.UUID  `json:"id"`
	QuestionnaireID uuid.UUID  `json:"questionnaire_id"`
	Name            I18nString `json:"name"`
	Order           int        `json:"order"`
}

// QuestionKind enumerates the value types a question can ask for.
type QuestionKind string

const (
	KindNumber         QuestionKind = "N"
	KindString         QuestionKind = "S"
	KindText           QuestionKind = "TX"
	KindBool           QuestionKind = "B"
	KindChoice         QuestionKind = "C"
	KindMultipleChoice QuestionKind = "M"
	KindFile           QuestionKind = "F"
	KindDate           QuestionKind = "D"
	KindTime           QuestionKind = "TI"
	KindDateTime       QuestionKind = "DT"
	KindPhone          QuestionKind = "PN"
	KindEmail          QuestionKind = "EM"
)

func (k QuestionKind) Valid() bool {
	switch k {
	case KindNumber, KindString, KindText, KindBool, KindChoice,
		KindMultipleChoice, KindFile, KindDate, KindTime, KindDateTime,
		KindPhone, KindEmail:
		return true
	}
	return false
}

// HasOptions reports whether the kind owns a set of question options.
func (k QuestionKind) HasOptions() bool {
	return k == KindChoice || k == KindMultipleChoice
}

// Question belongs to one block.
type Question struct {
	ID       uuid.UUID    `json:"id"`
	BlockID  uuid.UUID    `json:"block_id"`
	Kind     QuestionKind `json:"kind"`
	Required bool         `json:"required"`
	Name     I18nString   `json:"name"`
	Help     I18nString   `json:"help"`
	Order    int64        `json:"order"`
}

// QuestionOption is one selectable value of a choice or multiple-choice
// question.
type QuestionOption struct {
	ID         uuid.UUID  `json:"id"`
	QuestionID uuid.UUID  `json:"question_id"`
	Value      I18nString `json:"value"`
	Order      int        `json:"order"`
}
