package domain

import (
	"database/sql/driver"
	"fmt"

	"github.com/goccy/go-json"
)

// JSONList is a slice stored as a JSON array in a text column.
type JSONList[T any] []T

func (l JSONList[T]) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]T(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *JSONList[T]) Scan(value any) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
		*l = JSONList[T]{}
		return nil
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("json list: unsupported source %T", value)
	}
	if len(raw) == 0 {
		*l = JSONList[T]{}
		return nil
	}
	var out []T
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("json list: %w", err)
	}
	*l = out
	return nil
}
