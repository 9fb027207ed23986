package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestI18nStringResolve(t *testing.T) {
	s := I18nString{"en": "Camp", "de": "Lager"}

	assert.Equal(t, "Lager", s.Resolve("de"))
	assert.Equal(t, "Camp", s.Resolve("en"))
	// Unknown languages fall back to the default language.
	assert.Equal(t, "Camp", s.Resolve("fr"))

	onlyGerman := I18nString{"de": "Lager"}
	assert.Equal(t, "Lager", onlyGerman.Resolve("fr"))

	assert.Equal(t, "", I18nString{}.Resolve("en"))
	assert.Equal(t, "", I18nString(nil).Resolve("en"))
}

func TestI18nStringIsEmpty(t *testing.T) {
	assert.True(t, I18nString(nil).IsEmpty())
	assert.True(t, I18nString{"en": ""}.IsEmpty())
	assert.False(t, I18nString{"en": "x"}.IsEmpty())
}
