// Package validation holds the field-level checks applied to request payloads
// before they are turned into models.
package validation

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/yukikurage/project-task-api/internal/constants"
)

// FieldError reports a single rejected field.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return e.Message
}

func newFieldError(field, format string, args ...interface{}) *FieldError {
	return &FieldError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// DateFormats lists the accepted input layouts, tried in order. Day and
// month may be written without a leading zero.
var DateFormats = []string{
	"2006-01-02",
	"02/01/2006",
	"02-01-2006",
	"2006/01/02",
	"02.01.2006",
	"2006-1-2",
	"2/1/2006",
	"2-1-2006",
	"2006/1/2",
	"2.1.2006",
}

// PositiveID validates an identifier. nil is accepted only when nullable.
// JSON numbers arrive as float64 and must be integral.
func PositiveID(field string, value interface{}, nullable bool) (*uint64, error) {
	if value == nil {
		if nullable {
			return nil, nil
		}
		return nil, newFieldError(field, "O campo %s é obrigatório", field)
	}

	var n int64
	switch v := value.(type) {
	case bool:
		return nil, newFieldError(field, "O campo %s deve ser um número inteiro", field)
	case int:
		n = int64(v)
	case int64:
		n = v
	case uint64:
		if v == 0 || v > math.MaxInt64 {
			return nil, newFieldError(field, "O campo %s deve ser um inteiro positivo", field)
		}
		return &v, nil
	case float64:
		if v != math.Trunc(v) || math.IsInf(v, 0) || v > math.MaxInt64 {
			return nil, newFieldError(field, "O campo %s deve ser um número inteiro", field)
		}
		n = int64(v)
	case json.Number:
		parsed, err := v.Int64()
		if err != nil {
			return nil, newFieldError(field, "O campo %s deve ser um número inteiro", field)
		}
		n = parsed
	case string:
		parsed, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return nil, newFieldError(field, "O campo %s deve ser um número inteiro", field)
		}
		n = parsed
	default:
		return nil, newFieldError(field, "O campo %s deve ser um número inteiro", field)
	}

	if n <= 0 {
		return nil, newFieldError(field, "O campo %s deve ser um inteiro positivo", field)
	}
	id := uint64(n)
	return &id, nil
}

// RequiredString trims value and enforces a minimum length in characters.
func RequiredString(field string, value interface{}, minLen int) (string, error) {
	if value == nil {
		return "", newFieldError(field, "O campo %s é obrigatório", field)
	}
	s, ok := value.(string)
	if !ok {
		return "", newFieldError(field, "O campo %s deve ser um texto", field)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return "", newFieldError(field, "O campo %s é obrigatório", field)
	}
	if len([]rune(s)) < minLen {
		return "", newFieldError(field, "O campo %s deve ter pelo menos %d caracteres", field, minLen)
	}
	return s, nil
}

// Password requires a non-empty string of at most MaxPasswordBytes bytes
// and keeps it untrimmed.
func Password(field string, value interface{}) (string, error) {
	s, ok := value.(string)
	if !ok || s == "" {
		return "", newFieldError(field, "O campo %s é obrigatório", field)
	}
	if len(s) > constants.MaxPasswordBytes {
		return "", newFieldError(field, "O campo %s deve ter no máximo %d bytes", field, constants.MaxPasswordBytes)
	}
	return s, nil
}

// OptionalString returns nil for nil or blank input.
func OptionalString(field string, value interface{}) (*string, error) {
	if value == nil {
		return nil, nil
	}
	s, ok := value.(string)
	if !ok {
		return nil, newFieldError(field, "O campo %s deve ser um texto", field)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	return &s, nil
}

// OneOf checks value against a closed set.
func OneOf(field string, value interface{}, allowed []string) (string, error) {
	s, err := RequiredString(field, value, 1)
	if err != nil {
		return "", err
	}
	for _, a := range allowed {
		if s == a {
			return s, nil
		}
	}
	return "", newFieldError(field, "O campo %s deve ser um dos valores: %s", field, strings.Join(allowed, ", "))
}

// Email requires a non-empty string containing '@'.
func Email(field string, value interface{}) (string, error) {
	s, err := RequiredString(field, value, 1)
	if err != nil {
		return "", err
	}
	if !strings.Contains(s, "@") {
		return "", newFieldError(field, "O campo %s deve ser um email válido", field)
	}
	return s, nil
}

// Date accepts a time value, nil, or a string in one of DateFormats.
// Blank strings are treated as nil; anything unparseable is rejected.
func Date(field string, value interface{}) (*time.Time, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case time.Time:
		d := truncateDay(v)
		return &d, nil
	case *time.Time:
		if v == nil {
			return nil, nil
		}
		d := truncateDay(*v)
		return &d, nil
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return nil, nil
		}
		// Accept full timestamps by keeping the date prefix.
		if len(s) > 10 && (s[10] == 'T' || s[10] == ' ') {
			s = s[:10]
		}
		for _, layout := range DateFormats {
			if t, err := time.Parse(layout, s); err == nil {
				return &t, nil
			}
		}
		return nil, newFieldError(field, "O campo %s possui uma data inválida: %s", field, v)
	default:
		return nil, newFieldError(field, "O campo %s possui uma data inválida", field)
	}
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// FormatDate renders a date as YYYY-MM-DD, or nil.
func FormatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(constants.DateLayout)
	return &s
}

var boolTokens = map[string]bool{
	"true":       true,
	"1":          true,
	"yes":        true,
	"sim":        true,
	"verdadeiro": true,
	"false":      false,
	"0":          false,
	"no":         false,
	"não":        false,
	"nao":        false,
	"falso":      false,
}

// Bool coerces native booleans, numeric 0/1 and a fixed set of string tokens.
func Bool(field string, value interface{}) (bool, error) {
	switch v := value.(type) {
	case bool:
		return v, nil
	case float64:
		if v == 0 || v == 1 {
			return v == 1, nil
		}
	case int:
		if v == 0 || v == 1 {
			return v == 1, nil
		}
	case int64:
		if v == 0 || v == 1 {
			return v == 1, nil
		}
	case json.Number:
		if s := v.String(); s == "0" || s == "1" {
			return s == "1", nil
		}
	case string:
		if b, ok := boolTokens[strings.ToLower(strings.TrimSpace(v))]; ok {
			return b, nil
		}
	}
	return false, newFieldError(field, "O campo %s deve ser um valor booleano", field)
}
