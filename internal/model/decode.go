package model

import (
	"encoding/json"
	"slices"
	"strings"
)

// decodeLabel reads a display label that may have been stored as a JSON
// string or a JSON number.
func decodeLabel(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return strings.Trim(string(raw), `"`)
}

// OneOf reports whether v is in the vocabulary.
func OneOf(v string, vocabulary []string) bool {
	return slices.Contains(vocabulary, v)
}
