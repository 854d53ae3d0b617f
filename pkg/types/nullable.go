package types

import (
	"bytes"
	"encoding/json"
)

// Nullable tracks whether a field was present in a JSON body and, if so,
// whether it was explicitly null. Absent fields leave Valid false.
type Nullable[T any] struct {
	Valid bool
	Value *T
}

// Some returns a present, non-null value.
func Some[T any](v T) Nullable[T] {
	return Nullable[T]{Valid: true, Value: &v}
}

// Null returns a present, explicitly null value.
func Null[T any]() Nullable[T] {
	return Nullable[T]{Valid: true}
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *Nullable[T]) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil
	}

	if bytes.Equal(trimmed, []byte("null")) {
		n.Valid = true
		n.Value = nil
		return nil
	}

	var parsed T
	if err := json.Unmarshal(trimmed, &parsed); err != nil {
		return err
	}
	n.Valid = true
	n.Value = &parsed
	return nil
}

// MarshalJSON implements json.Marshaler.
func (n Nullable[T]) MarshalJSON() ([]byte, error) {
	if n.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}

// IsNull reports an explicit JSON null.
func (n Nullable[T]) IsNull() bool {
	return n.Valid && n.Value == nil
}

// Column returns the value to persist: nil for null, the value otherwise.
func (n Nullable[T]) Column() any {
	if n.Value == nil {
		return nil
	}
	return *n.Value
}
