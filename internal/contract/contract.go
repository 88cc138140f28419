// Package contract checks the structure of payloads crossing a component
// boundary. Validation accumulates every violation before failing so one
// error lists everything wrong with a payload.
package contract

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Kind is the expected type of a required field.
type Kind string

const (
	KindString         Kind = "string"
	KindNonEmptyString Kind = "non-empty-string"
	KindNumber         Kind = "number"
	KindObject         Kind = "object"
	KindBool           Kind = "bool"
	KindList           Kind = "list"
	// KindPresent only requires the key to exist; the value may be null.
	KindPresent Kind = "present"
)

// Requirement names a field and its expected kind. Field may be a dotted
// path into nested objects ("applicant.age"). When Allowed is set the value
// must also be one of the listed strings.
type Requirement struct {
	Field   string
	Kind    Kind
	Allowed []string
}

// Require builds a plain requirement.
func Require(field string, kind Kind) Requirement {
	return Requirement{Field: field, Kind: kind}
}

// OneOf requires a non-empty string from a closed vocabulary.
func OneOf(field string, values ...string) Requirement {
	return Requirement{Field: field, Kind: KindNonEmptyString, Allowed: values}
}

// Exactly requires a string field to equal value; used for schema versions.
func Exactly(field, value string) Requirement {
	return OneOf(field, value)
}

// ValidationError lists every violation found in one payload.
type ValidationError struct {
	Label     string
	Missing   []string
	Malformed []string
	// Details holds a human readable explanation per malformed field.
	Details map[string]string
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	if e.Label != "" {
		fmt.Fprintf(&b, "[%s] ", e.Label)
	}
	b.WriteString("contract validation failed.")
	if len(e.Missing) > 0 {
		fmt.Fprintf(&b, " missing: [%s].", strings.Join(e.Missing, ", "))
	}
	if len(e.Malformed) > 0 {
		parts := make([]string, 0, len(e.Malformed))
		for _, f := range e.Malformed {
			if d := e.Details[f]; d != "" {
				parts = append(parts, f+": "+d)
			} else {
				parts = append(parts, f)
			}
		}
		fmt.Fprintf(&b, " malformed: [%s].", strings.Join(parts, "; "))
	}
	return b.String()
}

// IsViolation reports whether err wraps a *ValidationError.
func IsViolation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// payloadField is the pseudo field reported when the payload itself is not an object.
const payloadField = "$"

// Validate checks payload against reqs. payload must be a JSON object
// decoded as map[string]any.
func Validate(payload any, reqs []Requirement, label string) error {
	obj, ok := payload.(map[string]any)
	if !ok {
		return &ValidationError{
			Label:     label,
			Malformed: []string{payloadField},
			Details:   map[string]string{payloadField: "payload must be an object, got " + typeName(payload)},
		}
	}

	ve := &ValidationError{Label: label, Details: map[string]string{}}
	for _, req := range reqs {
		v, found := lookup(obj, req.Field)
		if !found {
			ve.Missing = append(ve.Missing, req.Field)
			continue
		}
		if detail := check(v, req); detail != "" {
			ve.Malformed = append(ve.Malformed, req.Field)
			ve.Details[req.Field] = detail
		}
	}
	if len(ve.Missing) == 0 && len(ve.Malformed) == 0 {
		return nil
	}
	return ve
}

// ValidateValue converts v to its JSON object form and validates it. Used
// for payloads produced in-process as Go structs.
func ValidateValue(v any, reqs []Requirement, label string) error {
	obj, err := ToMap(v)
	if err != nil {
		return &ValidationError{
			Label:     label,
			Malformed: []string{payloadField},
			Details:   map[string]string{payloadField: err.Error()},
		}
	}
	return Validate(obj, reqs, label)
}

// Decode validates raw JSON against reqs and decodes it into T.
func Decode[T any](raw []byte, reqs []Requirement, label string) (T, error) {
	var out T
	var payload any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return out, &ValidationError{
			Label:     label,
			Malformed: []string{payloadField},
			Details:   map[string]string{payloadField: "invalid JSON: " + err.Error()},
		}
	}
	if err := Validate(payload, reqs, label); err != nil {
		return out, err
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, &ValidationError{
			Label:     label,
			Malformed: []string{payloadField},
			Details:   map[string]string{payloadField: "decode: " + err.Error()},
		}
	}
	return out, nil
}

// ToMap converts a struct to its JSON object representation.
func ToMap(v any) (map[string]any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("payload is not an object: %w", err)
	}
	return out, nil
}

func lookup(obj map[string]any, path string) (any, bool) {
	parts := strings.Split(path, ".")
	var cur any = obj
	for _, p := range parts {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[p]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

func check(v any, req Requirement) string {
	switch req.Kind {
	case KindPresent:
		return ""
	case KindString:
		if _, ok := v.(string); !ok {
			return "expected string, got " + typeName(v)
		}
	case KindNonEmptyString:
		s, ok := v.(string)
		if !ok || strings.TrimSpace(s) == "" {
			return "expected non-empty string, got " + typeName(v)
		}
		if len(req.Allowed) > 0 && !contains(req.Allowed, s) {
			allowed := append([]string(nil), req.Allowed...)
			sort.Strings(allowed)
			return fmt.Sprintf("expected one of %v, got %q", allowed, s)
		}
	case KindNumber:
		if !isNumber(v) {
			return "expected number, got " + typeName(v)
		}
	case KindObject:
		if _, ok := v.(map[string]any); !ok {
			return "expected object, got " + typeName(v)
		}
	case KindBool:
		if _, ok := v.(bool); !ok {
			return "expected bool, got " + typeName(v)
		}
	case KindList:
		if _, ok := v.([]any); !ok {
			return "expected list, got " + typeName(v)
		}
	default:
		return fmt.Sprintf("unknown check kind %q", req.Kind)
	}
	return ""
}

func isNumber(v any) bool {
	switch v.(type) {
	case float64, float32, int, int32, int64, uint, uint32, uint64, json.Number:
		return true
	default:
		return false
	}
}

func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "bool"
	case map[string]any:
		return "object"
	case []any:
		return "list"
	default:
		if isNumber(v) {
			return "number"
		}
		return fmt.Sprintf("%T", v)
	}
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
