package patient

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidVitals is returned when a present vital sign is not numeric.
var ErrInvalidVitals = errors.New("invalid vital sign")

// truthy reports whether a submitted value counts as filled in: non-null,
// non-empty and non-zero. A string "0" is filled in; a number 0 is not.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return t != ""
	case bool:
		return t
	case json.Number:
		f, err := t.Float64()
		return err != nil || f != 0
	case float64:
		return t != 0
	case int:
		return t != 0
	case map[string]any:
		return len(t) > 0
	case []any:
		return len(t) > 0
	default:
		return true
	}
}

func anyTruthy(m map[string]any) bool {
	for _, v := range m {
		if truthy(v) {
			return true
		}
	}
	return false
}

// Any reports whether at least one vital sign is filled in.
func (vs VitalSigns) Any() bool {
	return anyTruthy(vs)
}

// Int parses the named vital as an integer. A value that is not filled in
// yields nil; a filled-in value that is not numeric is an error. Fractional
// numbers are truncated.
func (vs VitalSigns) Int(key string) (*int, error) {
	v := vs[key]
	if !truthy(v) {
		return nil, nil
	}
	var n int
	switch t := v.(type) {
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(t))
		if err != nil {
			return nil, fmt.Errorf("%w: %s=%q is not an integer", ErrInvalidVitals, key, t)
		}
		n = i
	case json.Number:
		if i, err := t.Int64(); err == nil {
			n = int(i)
			break
		}
		f, err := t.Float64()
		if err != nil || math.IsInf(f, 0) {
			return nil, fmt.Errorf("%w: %s=%s is not an integer", ErrInvalidVitals, key, t)
		}
		n = int(f)
	case float64:
		n = int(t)
	case bool:
		n = 1
	default:
		return nil, fmt.Errorf("%w: %s has unsupported type %T", ErrInvalidVitals, key, v)
	}
	return &n, nil
}

// Float parses the named vital as a floating-point number, with the same
// rules as Int.
func (vs VitalSigns) Float(key string) (*float64, error) {
	v := vs[key]
	if !truthy(v) {
		return nil, nil
	}
	var f float64
	switch t := v.(type) {
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %s=%q is not a number", ErrInvalidVitals, key, t)
		}
		f = parsed
	case json.Number:
		parsed, err := t.Float64()
		if err != nil {
			return nil, fmt.Errorf("%w: %s=%s is not a number", ErrInvalidVitals, key, t)
		}
		f = parsed
	case float64:
		f = t
	case bool:
		f = 1
	default:
		return nil, fmt.Errorf("%w: %s has unsupported type %T", ErrInvalidVitals, key, v)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, fmt.Errorf("%w: %s is not finite", ErrInvalidVitals, key)
	}
	return &f, nil
}

// Any reports whether at least one vision finding is filled in.
func (ve VisionExamination) Any() bool {
	return anyTruthy(ve)
}

// valueOrNA returns the submitted value for key, or "N/A" when the key is
// absent. A present null is kept.
func (ve VisionExamination) valueOrNA(key string) any {
	v, ok := ve[key]
	if !ok {
		return "N/A"
	}
	return v
}

// textOrNA renders a value for a templated note; null and absent both read
// "N/A".
func textOrNA(v any) string {
	switch t := v.(type) {
	case nil:
		return "N/A"
	case *string:
		if t == nil {
			return "N/A"
		}
		return *t
	case string:
		return t
	default:
		return fmt.Sprint(t)
	}
}
