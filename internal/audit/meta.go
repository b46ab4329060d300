package audit

import "encoding/json"

// Meta serializes action-specific details for Event.Meta.
// Marshal failures degrade to an empty meta rather than blocking the event.
func Meta(m map[string]any) string {
	if len(m) == 0 {
		return ""
	}
	b, err := json.Marshal(m)
	if err != nil {
		return ""
	}
	return string(b)
}
