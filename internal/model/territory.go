package model

import (
	"encoding/json"

	"github.com/jjenkins/fieldservice/internal/tracker"
)

// Territory categories used for display grouping.
const (
	CategoryCentro  = "centro"
	CategoryPolanco = "polanco"
	CategoryFuera   = "fuera"
	CategoryEdo     = "edo"
)

// Place types a territory can be tagged with.
const (
	PlaceTienda    = "tienda"
	PlaceCasa      = "casa"
	PlaceComercial = "comercial"
	PlaceAlmacen   = "almacen"
	PlaceCart      = "cart"
)

// TerritoryCategories and PlaceTypes are the fixed vocabularies accepted on input.
var (
	TerritoryCategories = []string{CategoryCentro, CategoryPolanco, CategoryFuera, CategoryEdo}
	PlaceTypes          = []string{PlaceTienda, PlaceCasa, PlaceComercial, PlaceAlmacen, PlaceCart}
)

// Territory is a geographic assignment unit tracked through the three-state
// lifecycle.
type Territory struct {
	ID        string `json:"id"`
	Number    string `json:"number"`
	Name      string `json:"name,omitempty"`
	Category  string `json:"category"`
	PlaceType string `json:"placeType"`

	tracker.Tracking

	// Publisher references by id. Names are projected at render time.
	AssigneeID string `json:"assigneeId,omitempty"`
	CaptainID  string `json:"captainId,omitempty"`

	// Name references written by older clients. Only read by the migration.
	LegacyAssignedTo string `json:"assignedTo,omitempty"`
	LegacyCaptain    string `json:"captain,omitempty"`

	AssignedDate string `json:"assignedDate,omitempty"`
	DueDate      string `json:"dueDate,omitempty"`
	Group        string `json:"group,omitempty"`
	Address      string `json:"address,omitempty"`
	URL          string `json:"url,omitempty"`
	CreatedAt    string `json:"createdAt,omitempty"`

	warnings []string
}

// UnmarshalJSON tolerates the shapes older clients persisted: numeric
// territory numbers, legacy status labels and malformed history.
func (t *Territory) UnmarshalJSON(b []byte) error {
	type alias Territory
	aux := struct {
		*alias
		Number  json.RawMessage `json:"number"`
		Status  json.RawMessage `json:"status"`
		History json.RawMessage `json:"history"`
	}{alias: (*alias)(t)}

	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}

	t.Number = decodeLabel(aux.Number)
	t.Tracking, t.warnings = tracker.Decode(aux.Status, aux.History, t.LastWorkedDate)
	return nil
}

// DecodeWarnings lists the repairs made while decoding.
func (t Territory) DecodeWarnings() []string { return t.warnings }

// IsCart reports whether the territory is a cart location.
func (t Territory) IsCart() bool { return t.PlaceType == PlaceCart }
