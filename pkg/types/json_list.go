package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JSONList persists a slice as JSON text (jsonb on postgres, TEXT on sqlite).
type JSONList[T any] []T

// Value implements driver.Valuer.
func (l JSONList[T]) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	payload, err := json.Marshal([]T(l))
	if err != nil {
		return nil, err
	}
	return string(payload), nil
}

// Scan implements sql.Scanner.
func (l *JSONList[T]) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*l = JSONList[T]{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("json list: unsupported source %T", src)
	}
	var out []T
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("json list: %w", err)
	}
	if out == nil {
		out = []T{}
	}
	*l = out
	return nil
}
