package listing

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Form is the raw key/value input of a create or update request. Multipart
// bodies and JSON bodies both reduce to it.
type Form interface {
	// Value returns the first value for key and whether the key was sent.
	Value(key string) (string, bool)
	// Values returns every value sent for key.
	Values(key string) []string
}

type Values map[string][]string

func (v Values) Value(key string) (string, bool) {
	vals, ok := v[key]
	if !ok {
		return "", false
	}
	if len(vals) == 0 {
		return "", true
	}
	return vals[0], true
}

func (v Values) Values(key string) []string {
	return v[key]
}

// ValuesFromJSON flattens a JSON object into Values. Arrays become repeated
// values, scalars are formatted as strings and nulls are dropped.
func ValuesFromJSON(body []byte) (Values, error) {
	out := Values{}
	if len(body) == 0 {
		return out, nil
	}

	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("invalid JSON body: %w", err)
	}

	for key, value := range raw {
		switch v := value.(type) {
		case nil:
			continue
		case []any:
			vals := make([]string, 0, len(v))
			for _, item := range v {
				if item == nil {
					continue
				}
				vals = append(vals, scalarString(item))
			}
			out[key] = vals
		default:
			out[key] = []string{scalarString(v)}
		}
	}
	return out, nil
}

func scalarString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case bool:
		if s {
			return "yes"
		}
		return "no"
	default:
		b, _ := json.Marshal(s)
		return string(b)
	}
}
