package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Storage formats for temporal answer values.
const (
	dateFormat     = "2006-01-02"
	timeFormat     = "15:04:05"
	dateTimeFormat = time.RFC3339
)

// AnswerValue is the typed value of one answer. It is a tagged union over
// the question kinds; the zero value represents "no answer".
type AnswerValue struct {
	kind QuestionKind

	number   int64
	text     string
	boolean  bool
	instant  time.Time
	options  []uuid.UUID
	fileRef  string
	hasValue bool
}

func NumberValue(n int64) AnswerValue {
	return AnswerValue{kind: KindNumber, number: n, hasValue: true}
}

func StringValue(kind QuestionKind, s string) AnswerValue {
	return AnswerValue{kind: kind, text: s, hasValue: true}
}

func BoolValue(b bool) AnswerValue {
	return AnswerValue{kind: KindBool, boolean: b, hasValue: true}
}

func DateValue(t time.Time) AnswerValue {
	return AnswerValue{kind: KindDate, instant: t, hasValue: true}
}

func TimeValue(t time.Time) AnswerValue {
	return AnswerValue{kind: KindTime, instant: t, hasValue: true}
}

func DateTimeValue(t time.Time) AnswerValue {
	return AnswerValue{kind: KindDateTime, instant: t, hasValue: true}
}

func ChoiceValue(optionID uuid.UUID) AnswerValue {
	return AnswerValue{kind: KindChoice, options: []uuid.UUID{optionID}, hasValue: true}
}

func MultipleChoiceValue(optionIDs []uuid.UUID) AnswerValue {
	return AnswerValue{kind: KindMultipleChoice, options: optionIDs, hasValue: true}
}

func FileValue(ref string) AnswerValue {
	return AnswerValue{kind: KindFile, fileRef: ref, hasValue: true}
}

func (v AnswerValue) Kind() QuestionKind { return v.kind }

func (v AnswerValue) Number() int64          { return v.number }
func (v AnswerValue) Text() string           { return v.text }
func (v AnswerValue) Bool() bool             { return v.boolean }
func (v AnswerValue) Instant() time.Time     { return v.instant }
func (v AnswerValue) Options() []uuid.UUID   { return v.options }
func (v AnswerValue) FileRef() string        { return v.fileRef }

// IsFalsy reports whether the value counts as empty for required-question
// validation: no value at all, empty text, zero, false, no selected options
// or a missing file.
func (v AnswerValue) IsFalsy() bool {
	if !v.hasValue {
		return true
	}
	switch v.kind {
	case KindNumber:
		return v.number == 0
	case KindString, KindText, KindPhone, KindEmail:
		return v.text == ""
	case KindBool:
		return !v.boolean
	case KindChoice, KindMultipleChoice:
		return len(v.options) == 0
	case KindFile:
		return v.fileRef == ""
	case KindDate, KindTime, KindDateTime:
		return v.instant.IsZero()
	}
	return true
}

// Display renders the value as plain text, resolving option values in the
// given language.
func (v AnswerValue) Display(optionsByID map[uuid.UUID]QuestionOption, lang string) string {
	if !v.hasValue {
		return ""
	}
	switch v.kind {
	case KindNumber:
		return strconv.FormatInt(v.number, 10)
	case KindString, KindText, KindPhone, KindEmail:
		return v.text
	case KindBool:
		if v.boolean {
			return "yes"
		}
		return "no"
	case KindDate:
		return v.instant.Format(dateFormat)
	case KindTime:
		return v.instant.Format(timeFormat)
	case KindDateTime:
		return v.instant.Format(dateTimeFormat)
	case KindFile:
		return v.fileRef
	case KindChoice, KindMultipleChoice:
		out := ""
		for i, id := range v.options {
			if i > 0 {
				out += ", "
			}
			out += optionsByID[id].Value.Resolve(lang)
		}
		return out
	}
	return ""
}

// ParseAnswerValue decodes a JSON wire value into a typed AnswerValue for
// the given question kind. Numbers arrive as JSON numbers, booleans as JSON
// booleans, choices as option UUID strings (an array for multiple choice)
// and temporal values as formatted strings. JSON null means "no answer".
func ParseAnswerValue(kind QuestionKind, raw json.RawMessage) (AnswerValue, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return AnswerValue{}, nil
	}
	switch kind {
	case KindNumber:
		var n int64
		if err := json.Unmarshal(raw, &n); err != nil {
			return AnswerValue{}, &ValidationError{Field: "value", Message: "expected a number"}
		}
		return NumberValue(n), nil
	case KindString, KindText, KindPhone, KindEmail:
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return AnswerValue{}, &ValidationError{Field: "value", Message: "expected a string"}
		}
		return StringValue(kind, s), nil
	case KindBool:
		var b bool
		if err := json.Unmarshal(raw, &b); err != nil {
			return AnswerValue{}, &ValidationError{Field: "value", Message: "expected a boolean"}
		}
		return BoolValue(b), nil
	case KindChoice:
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return AnswerValue{}, &ValidationError{Field: "value", Message: "expected an option id"}
		}
		id, err := uuid.Parse(s)
		if err != nil {
			return AnswerValue{}, &ValidationError{Field: "value", Message: "malformed option id"}
		}
		return ChoiceValue(id), nil
	case KindMultipleChoice:
		var strs []string
		if err := json.Unmarshal(raw, &strs); err != nil {
			return AnswerValue{}, &ValidationError{Field: "value", Message: "expected an array of option ids"}
		}
		if len(strs) == 0 {
			return AnswerValue{}, nil
		}
		ids := make([]uuid.UUID, 0, len(strs))
		for _, s := range strs {
			id, err := uuid.Parse(s)
			if err != nil {
				return AnswerValue{}, &ValidationError{Field: "value", Message: "malformed option id"}
			}
			ids = append(ids, id)
		}
		return MultipleChoiceValue(ids), nil
	case KindFile:
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return AnswerValue{}, &ValidationError{Field: "value", Message: "expected a file reference"}
		}
		return FileValue(s), nil
	case KindDate:
		return parseWireInstant(raw, dateFormat, DateValue)
	case KindTime:
		return parseWireInstant(raw, timeFormat, TimeValue)
	case KindDateTime:
		return parseWireInstant(raw, dateTimeFormat, DateTimeValue)
	}
	return AnswerValue{}, fmt.Errorf("unknown question kind %q", kind)
}

func parseWireInstant(raw json.RawMessage, layout string, wrap func(time.Time) AnswerValue) (AnswerValue, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return AnswerValue{}, &ValidationError{Field: "value", Message: "expected a formatted time string"}
	}
	if s == "" {
		return AnswerValue{}, nil
	}
	t, err := time.Parse(layout, s)
	if err != nil {
		return AnswerValue{}, &ValidationError{Field: "value", Message: fmt.Sprintf("time must use format %s", layout)}
	}
	return wrap(t), nil
}

// QuestionAnswer ties one participant to one question. The raw columns are
// only touched through Value and SetValue, which interpret them per question
// kind.
type QuestionAnswer struct {
	ID            uuid.UUID   `json:"id"`
	QuestionID    uuid.UUID   `json:"question_id"`
	ParticipantID uuid.UUID   `json:"participant_id"`
	Answer        *string     `json:"answer,omitempty"`
	OptionIDs     []uuid.UUID `json:"option_ids,omitempty"`
	FileRef       string      `json:"file_ref,omitempty"`
	CreatedAt     string      `json:"created_at"`
	ChangedAt     string      `json:"changed_at"`
}

// Value decodes the stored columns into a typed AnswerValue for the given
// question. An unknown question kind is an error, never silent data.
func (a *QuestionAnswer) Value(q *Question) (AnswerValue, error) {
	switch q.Kind {
	case KindNumber:
		if a.Answer == nil {
			return AnswerValue{}, nil
		}
		n, err := strconv.ParseInt(*a.Answer, 10, 64)
		if err != nil {
			return AnswerValue{}, fmt.Errorf("malformed number answer %q: %w", *a.Answer, err)
		}
		return NumberValue(n), nil
	case KindString, KindText, KindPhone, KindEmail:
		if a.Answer == nil {
			return AnswerValue{}, nil
		}
		return StringValue(q.Kind, *a.Answer), nil
	case KindBool:
		if a.Answer == nil {
			return AnswerValue{}, nil
		}
		b, err := strconv.ParseBool(*a.Answer)
		if err != nil {
			return AnswerValue{}, fmt.Errorf("malformed bool answer %q: %w", *a.Answer, err)
		}
		return BoolValue(b), nil
	case KindChoice:
		if len(a.OptionIDs) == 0 {
			return AnswerValue{}, nil
		}
		return ChoiceValue(a.OptionIDs[0]), nil
	case KindMultipleChoice:
		if len(a.OptionIDs) == 0 {
			return AnswerValue{}, nil
		}
		return MultipleChoiceValue(a.OptionIDs), nil
	case KindFile:
		if a.FileRef == "" {
			return AnswerValue{}, nil
		}
		return FileValue(a.FileRef), nil
	case KindDate:
		return a.parseInstant(dateFormat, DateValue)
	case KindTime:
		return a.parseInstant(timeFormat, TimeValue)
	case KindDateTime:
		return a.parseInstant(dateTimeFormat, DateTimeValue)
	}
	return AnswerValue{}, fmt.Errorf("unknown question kind %q", q.Kind)
}

func (a *QuestionAnswer) parseInstant(layout string, wrap func(time.Time) AnswerValue) (AnswerValue, error) {
	if a.Answer == nil {
		return AnswerValue{}, nil
	}
	t, err := time.Parse(layout, *a.Answer)
	if err != nil {
		return AnswerValue{}, fmt.Errorf("malformed temporal answer %q: %w", *a.Answer, err)
	}
	return wrap(t), nil
}

// SetValue encodes the typed value into the stored columns. The value kind
// must match the question kind.
func (a *QuestionAnswer) SetValue(q *Question, v AnswerValue) error {
	if v.hasValue && v.kind != q.Kind {
		return fmt.Errorf("answer value kind %q does not match question kind %q", v.kind, q.Kind)
	}
	a.Answer = nil
	a.OptionIDs = nil
	a.FileRef = ""
	if !v.hasValue {
		return nil
	}
	switch q.Kind {
	case KindNumber:
		a.setText(strconv.FormatInt(v.number, 10))
	case KindString, KindText, KindPhone, KindEmail:
		a.setText(v.text)
	case KindBool:
		a.setText(strconv.FormatBool(v.boolean))
	case KindChoice:
		a.OptionIDs = v.options[:1]
	case KindMultipleChoice:
		a.OptionIDs = v.options
	case KindFile:
		a.FileRef = v.fileRef
	case KindDate:
		a.setText(v.instant.Format(dateFormat))
	case KindTime:
		a.setText(v.instant.Format(timeFormat))
	case KindDateTime:
		a.setText(v.instant.Format(dateTimeFormat))
	default:
		return fmt.Errorf("unknown question kind %q", q.Kind)
	}
	return nil
}

func (a *QuestionAnswer) setText(s string) {
	a.Answer = &s
}

// ValidateRequired rejects falsy answers to required questions. Runs at
// form-validation time; falsy required answers never reach persistence.
func (a *QuestionAnswer) ValidateRequired(q *Question) error {
	if !q.Required {
		return nil
	}
	v, err := a.Value(q)
	if err != nil {
		return err
	}
	if v.IsFalsy() {
		return &ValidationError{
			Field:   q.ID.String(),
			Message: "answers to required questions may not be empty",
		}
	}
	return nil
}
