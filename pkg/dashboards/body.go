package dashboards

import (
	"encoding/json"
	"math"
	"strconv"
)

// Body is a full dashboard (or folder) JSON document as Grafana stores it.
// Numbers decoded by this package are kept as json.Number so that large ids
// and float panel settings round-trip without loss.
type Body map[string]any

// Clone returns a deep copy of the body.
func (b Body) Clone() Body {
	if b == nil {
		return nil
	}
	return cloneValue(map[string]any(b)).(map[string]any)
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = cloneValue(val)
		}
		return out
	case Body:
		return Body(cloneValue(map[string]any(t)).(map[string]any))
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = cloneValue(val)
		}
		return out
	default:
		return v
	}
}

// UID returns the body's "uid" field, or "" if absent or not a string.
func (b Body) UID() UID {
	s, _ := b["uid"].(string)
	return UID(s)
}

// Title returns the body's "title" field, or "" if absent or not a string.
func (b Body) Title() string {
	s, _ := b["title"].(string)
	return s
}

// ID returns the body's numeric "id" field.
func (b Body) ID() (ID, bool) {
	return asID(b["id"])
}

// Object returns the nested object stored under key, if any.
func (b Body) Object(key string) (Body, bool) {
	switch t := b[key].(type) {
	case map[string]any:
		return Body(t), true
	case Body:
		return t, true
	default:
		return nil, false
	}
}

// asID converts a decoded JSON number into an ID. Fractional values and
// non-numbers are rejected.
func asID(v any) (ID, bool) {
	switch n := v.(type) {
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return ID(i), true
		}
		f, err := strconv.ParseFloat(string(n), 64)
		if err != nil || f != math.Trunc(f) {
			return 0, false
		}
		return ID(f), true
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		return ID(n), true
	case int:
		return ID(n), true
	case int64:
		return ID(n), true
	case ID:
		return n, true
	default:
		return 0, false
	}
}
