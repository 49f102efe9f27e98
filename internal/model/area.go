package model

import (
	"encoding/json"

	"github.com/jjenkins/fieldservice/internal/tracker"
)

// AreaDocument is an uploaded PDF map of an area, tracked with the same
// lifecycle as territories.
type AreaDocument struct {
	ID     string `json:"id"`
	Number string `json:"number"`
	Name   string `json:"name"`
	URL    string `json:"url"`

	tracker.Tracking

	UploadedAt string `json:"uploadedAt,omitempty"`
	Checksum   string `json:"checksum,omitempty"`
	Pages      int    `json:"pages,omitempty"`
	Size       int    `json:"size,omitempty"`

	warnings []string
}

// UnmarshalJSON mirrors Territory's tolerant decoding.
func (a *AreaDocument) UnmarshalJSON(b []byte) error {
	type alias AreaDocument
	aux := struct {
		*alias
		Number  json.RawMessage `json:"number"`
		Status  json.RawMessage `json:"status"`
		History json.RawMessage `json:"history"`
	}{alias: (*alias)(a)}

	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}

	a.Number = decodeLabel(aux.Number)
	a.Tracking, a.warnings = tracker.Decode(aux.Status, aux.History, a.LastWorkedDate)
	return nil
}

// DecodeWarnings lists the repairs made while decoding.
func (a AreaDocument) DecodeWarnings() []string { return a.warnings }

// Settings is the free-form settings object.
type Settings map[string]any
