package postgres

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"presign-backend/internal/domain"
)

// i18nColumn marshals a domain.I18nString to and from a jsonb column.
type i18nColumn struct {
	s *domain.I18nString
}

func i18n(s *domain.I18nString) i18nColumn {
	return i18nColumn{s: s}
}

func (c i18nColumn) Value() (driver.Value, error) {
	if c.s == nil || *c.s == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(*c.s)
}

func (c i18nColumn) Scan(src any) error {
	if src == nil {
		*c.s = nil
		return nil
	}
	var raw []byte
	switch v := src.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into i18n column", src)
	}
	return json.Unmarshal(raw, c.s)
}
