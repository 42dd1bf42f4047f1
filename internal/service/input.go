package service

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/shelterhub/backend/internal/apperr"
)

// Field extraction helpers shared by the account and shelter validators.
// Inputs arrive as decoded JSON objects, so values are string, float64, bool
// or nil. A nil value counts as absent, matching the old API's behavior.

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func validEmail(email string) bool {
	return emailPattern.MatchString(email)
}

func stringField(raw map[string]any, key string) (*string, error) {
	v, ok := raw[key]
	if !ok || v == nil {
		return nil, nil
	}
	s, ok := v.(string)
	if !ok {
		return nil, apperr.BadRequest("%s must be a string", key)
	}
	trimmed := strings.TrimSpace(s)
	return &trimmed, nil
}

func boolField(raw map[string]any, key string) (*bool, error) {
	v, ok := raw[key]
	if !ok || v == nil {
		return nil, nil
	}
	b, ok := v.(bool)
	if !ok {
		return nil, apperr.BadRequest("%s must be a boolean", key)
	}
	return &b, nil
}

// floatField accepts a JSON number or a numeric string and enforces an
// inclusive range. The error message names the field and its bounds rather
// than failing generically.
func floatField(raw map[string]any, key string, min, max float64) (*float64, error) {
	v, ok := raw[key]
	if !ok || v == nil {
		return nil, nil
	}
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return nil, rangeError(key, min, max)
		}
		f = parsed
	default:
		return nil, rangeError(key, min, max)
	}
	if math.IsNaN(f) || f < min || f > max {
		return nil, rangeError(key, min, max)
	}
	return &f, nil
}

func rangeError(key string, min, max float64) error {
	return apperr.BadRequest("%s must be a number between %g and %g", key, min, max)
}

// nonNegativeIntField accepts a JSON number (integral) or numeric string.
func nonNegativeIntField(raw map[string]any, key string) (*int, error) {
	v, ok := raw[key]
	if !ok || v == nil {
		return nil, nil
	}
	badValue := apperr.BadRequest("%s must be a non-negative integer", key)
	var i int
	switch n := v.(type) {
	case float64:
		if n != math.Trunc(n) {
			return nil, badValue
		}
		i = int(n)
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return nil, badValue
		}
		i = parsed
	default:
		return nil, badValue
	}
	if i < 0 {
		return nil, badValue
	}
	return &i, nil
}

func uuidField(raw map[string]any, key string) (*uuid.UUID, error) {
	v, ok := raw[key]
	if !ok || v == nil {
		return nil, nil
	}
	s, ok := v.(string)
	if !ok {
		return nil, apperr.BadRequest("%s must be a valid UUID", key)
	}
	id, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil {
		return nil, apperr.BadRequest("%s must be a valid UUID", key)
	}
	return &id, nil
}

func requiredString(value *string, key string) error {
	if value == nil || *value == "" {
		return apperr.BadRequest("%s is required", key)
	}
	return nil
}

func unknownFieldCheck(raw map[string]any, allowed map[string]struct{}) error {
	for key := range raw {
		if _, ok := allowed[key]; !ok {
			return apperr.BadRequest("unknown field %q", key)
		}
	}
	return nil
}
