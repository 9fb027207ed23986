package domain

// I18nString maps a language code ("en", "de", ...) to a translation.
// The zero value (nil map) is a valid, empty localized string.
type I18nString map[string]string

// DefaultLanguage is used as the last fallback when resolving translations.
const DefaultLanguage = "en"

// Resolve returns the best-matching translation for lang. It falls back to
// the default language, then to any available translation, and finally to
// the empty string. It never fails.
func (s I18nString) Resolve(lang string) string {
	if len(s) == 0 {
		return ""
	}
	if v, ok := s[lang]; ok && v != "" {
		return v
	}
	if v, ok := s[DefaultLanguage]; ok && v != "" {
		return v
	}
	for _, v := range s {
		if v != "" {
			return v
		}
	}
	return ""
}

// IsEmpty reports whether no translation holds any text.
func (s I18nString) IsEmpty() bool {
	for _, v := range s {
		if v != "" {
			return false
		}
	}
	return true
}
