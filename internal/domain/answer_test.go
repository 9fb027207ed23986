package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestParseAnswerValue(t *testing.T) {
	optionID := uuid.New()

	t.Run("Number", func(t *testing.T) {
		v, err := ParseAnswerValue(KindNumber, json.RawMessage(`42`))
		assert.NoError(t, err)
		assert.Equal(t, int64(42), v.Number())

		_, err = ParseAnswerValue(KindNumber, json.RawMessage(`"forty-two"`))
		assert.Error(t, err)
	})

	t.Run("String", func(t *testing.T) {
		v, err := ParseAnswerValue(KindString, json.RawMessage(`"hello"`))
		assert.NoError(t, err)
		assert.Equal(t, "hello", v.Text())
	})

	t.Run("Bool", func(t *testing.T) {
		v, err := ParseAnswerValue(KindBool, json.RawMessage(`true`))
		assert.NoError(t, err)
		assert.True(t, v.Bool())
	})

	t.Run("Choice", func(t *testing.T) {
		raw, _ := json.Marshal(optionID.String())
		v, err := ParseAnswerValue(KindChoice, raw)
		assert.NoError(t, err)
		assert.Equal(t, []uuid.UUID{optionID}, v.Options())

		_, err = ParseAnswerValue(KindChoice, json.RawMessage(`"not-a-uuid"`))
		assert.Error(t, err)
	})

	t.Run("MultipleChoice", func(t *testing.T) {
		other := uuid.New()
		raw, _ := json.Marshal([]string{optionID.String(), other.String()})
		v, err := ParseAnswerValue(KindMultipleChoice, raw)
		assert.NoError(t, err)
		assert.Equal(t, []uuid.UUID{optionID, other}, v.Options())

		v, err = ParseAnswerValue(KindMultipleChoice, json.RawMessage(`[]`))
		assert.NoError(t, err)
		assert.True(t, v.IsFalsy())
	})

	t.Run("Date", func(t *testing.T) {
		v, err := ParseAnswerValue(KindDate, json.RawMessage(`"2026-08-28"`))
		assert.NoError(t, err)
		assert.Equal(t, 2026, v.Instant().Year())

		_, err = ParseAnswerValue(KindDate, json.RawMessage(`"28.08.2026"`))
		assert.Error(t, err)
	})

	t.Run("Null", func(t *testing.T) {
		v, err := ParseAnswerValue(KindString, json.RawMessage(`null`))
		assert.NoError(t, err)
		assert.True(t, v.IsFalsy())

		v, err = ParseAnswerValue(KindNumber, nil)
		assert.NoError(t, err)
		assert.True(t, v.IsFalsy())
	})

	t.Run("UnknownKind", func(t *testing.T) {
		_, err := ParseAnswerValue(QuestionKind("ZZ"), json.RawMessage(`"x"`))
		assert.Error(t, err)
	})
}

func TestQuestionAnswerRoundTrip(t *testing.T) {
	optionA := uuid.New()
	optionB := uuid.New()

	cases := []struct {
		name  string
		kind  QuestionKind
		value AnswerValue
	}{
		{"Number", KindNumber, NumberValue(7)},
		{"String", KindString, StringValue(KindString, "camp chef")},
		{"Text", KindText, StringValue(KindText, "long\ntext")},
		{"Bool", KindBool, BoolValue(true)},
		{"Choice", KindChoice, ChoiceValue(optionA)},
		{"MultipleChoice", KindMultipleChoice, MultipleChoiceValue([]uuid.UUID{optionA, optionB})},
		{"File", KindFile, FileValue("uploads/abc.pdf")},
		{"Date", KindDate, DateValue(time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC))},
		{"Time", KindTime, TimeValue(time.Date(0, 1, 1, 14, 30, 0, 0, time.UTC))},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			q := &Question{ID: uuid.New(), Kind: tc.kind}
			a := &QuestionAnswer{QuestionID: q.ID}

			assert.NoError(t, a.SetValue(q, tc.value))
			got, err := a.Value(q)
			assert.NoError(t, err)
			assert.Equal(t, tc.value.Display(nil, "en"), got.Display(nil, "en"))
			assert.Equal(t, tc.value.Options(), got.Options())
		})
	}
}

func TestSetValueRejectsKindMismatch(t *testing.T) {
	q := &Question{ID: uuid.New(), Kind: KindNumber}
	a := &QuestionAnswer{QuestionID: q.ID}
	err := a.SetValue(q, BoolValue(true))
	assert.Error(t, err)
}

func TestValidateRequired(t *testing.T) {
	q := &Question{ID: uuid.New(), Kind: KindString, Required: true}

	t.Run("MissingAnswerFails", func(t *testing.T) {
		a := &QuestionAnswer{QuestionID: q.ID}
		err := a.ValidateRequired(q)
		var validationErr *ValidationError
		assert.ErrorAs(t, err, &validationErr)
	})

	t.Run("EmptyStringFails", func(t *testing.T) {
		a := &QuestionAnswer{QuestionID: q.ID}
		assert.NoError(t, a.SetValue(q, StringValue(KindString, "")))
		assert.Error(t, a.ValidateRequired(q))
	})

	t.Run("FalseBoolFails", func(t *testing.T) {
		boolQ := &Question{ID: uuid.New(), Kind: KindBool, Required: true}
		a := &QuestionAnswer{QuestionID: boolQ.ID}
		assert.NoError(t, a.SetValue(boolQ, BoolValue(false)))
		assert.Error(t, a.ValidateRequired(boolQ))
	})

	t.Run("PresentAnswerPasses", func(t *testing.T) {
		a := &QuestionAnswer{QuestionID: q.ID}
		assert.NoError(t, a.SetValue(q, StringValue(KindString, "yes")))
		assert.NoError(t, a.ValidateRequired(q))
	})

	t.Run("OptionalEmptyPasses", func(t *testing.T) {
		optional := &Question{ID: uuid.New(), Kind: KindString}
		a := &QuestionAnswer{QuestionID: optional.ID}
		assert.NoError(t, a.ValidateRequired(optional))
	})
}

func TestAnswerValueDisplay(t *testing.T) {
	optionID := uuid.New()
	options := map[uuid.UUID]QuestionOption{
		optionID: {ID: optionID, Value: I18nString{"en": "Tent", "de": "Zelt"}},
	}

	assert.Equal(t, "Tent", ChoiceValue(optionID).Display(options, "en"))
	assert.Equal(t, "Zelt", ChoiceValue(optionID).Display(options, "de"))
	assert.Equal(t, "yes", BoolValue(true).Display(nil, "en"))
	assert.Equal(t, "", AnswerValue{}.Display(nil, "en"))
}
