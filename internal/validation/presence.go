package validation

import (
	"bytes"
	"encoding/json"
	"strings"
)

// RequiredFields lists the payload keys the legacy endpoint checks for presence
var RequiredFields = []string{"firstName", "lastName", "phone", "email", "pickup", "dropoff", "date", "time", "pax"}

// Missing returns the required keys that are absent or falsy in raw, in
// RequiredFields order. Types and ranges are not checked. A non-object
// payload is missing every field.
func Missing(raw json.RawMessage) []string {
	var fields map[string]json.RawMessage
	if jsonKind(raw) != "object" || json.Unmarshal(raw, &fields) != nil {
		return append([]string(nil), RequiredFields...)
	}

	var missing []string
	for _, name := range RequiredFields {
		value, ok := fields[name]
		if !ok || falsy(value) {
			missing = append(missing, name)
		}
	}
	return missing
}

func falsy(raw json.RawMessage) bool {
	value := bytes.TrimSpace(raw)
	switch jsonKind(value) {
	case "null":
		return true
	case "boolean":
		return string(value) == "false"
	case "number":
		var n float64
		return json.Unmarshal(value, &n) == nil && n == 0
	case "string":
		var s string
		return json.Unmarshal(value, &s) == nil && strings.TrimSpace(s) == ""
	default:
		return false
	}
}
