package logevents

import "encoding/json"

// Encode renders events as the stable wire JSON from spec.md §6: a
// root array of {span, confidence, kind, data} objects. SchemaVersion
// is not embedded in this array (the wire shape is deliberately just
// the array); callers that need to report the schema version alongside
// it (e.g. an LSP capability or a file header) use the constant
// directly.
func Encode(events []Event) ([]byte, error) {
	if events == nil {
		events = []Event{}
	}
	return json.Marshal(events)
}
