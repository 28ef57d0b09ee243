package utils

import "encoding/json"

// DecodeInto converts a string-keyed document into a typed value by going
// through JSON, the same trick the search result mapping uses. Field names
// must line up with the value's json tags.
func DecodeInto[T any](data map[string]any, out *T) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

// EncodeToMap is the inverse of DecodeInto.
func EncodeToMap(v any) (map[string]any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	out := map[string]any{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}
