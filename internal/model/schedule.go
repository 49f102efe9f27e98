package model

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
)

// ScheduleCategory is the kind of service event.
type ScheduleCategory string

const (
	ScheduleHouse   ScheduleCategory = "house"
	ScheduleRevisit ScheduleCategory = "revisit"
	ScheduleCart    ScheduleCategory = "cart"
	ScheduleLetter  ScheduleCategory = "letter"
)

// ScheduleCategories lists categories in display order.
var ScheduleCategories = []ScheduleCategory{ScheduleHouse, ScheduleRevisit, ScheduleCart, ScheduleLetter}

// Valid reports whether c is a known category.
func (c ScheduleCategory) Valid() bool {
	return slices.Contains(ScheduleCategories, c)
}

// Schedule is a single dated service event.
type Schedule struct {
	ID                string           `json:"id"`
	Date              string           `json:"date"`
	Time              string           `json:"time"`
	Location          string           `json:"location"`
	Category          ScheduleCategory `json:"category"`
	MaxParticipants   int              `json:"maxParticipants"`
	Participants      []Participant    `json:"participants"`
	IsRecurring       bool             `json:"isRecurring"`
	EndDate           string           `json:"endDate,omitempty"`
	TerritoryID       string           `json:"territoryId,omitempty"`
	TerritoryNumber   string           `json:"territoryNumber,omitempty"`
	TerritoryAddress  string           `json:"territoryAddress,omitempty"`
	AllowRegistration bool             `json:"allowRegistration,omitempty"`

	warnings []string
}

// UnmarshalJSON fills defaults missing from older records. An unknown
// category is replaced by house and reported through DecodeWarnings.
func (s *Schedule) UnmarshalJSON(b []byte) error {
	type alias Schedule
	aux := struct {
		*alias
		TerritoryNumber json.RawMessage `json:"territoryNumber"`
	}{alias: (*alias)(s)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	s.TerritoryNumber = decodeLabel(aux.TerritoryNumber)
	s.warnings = nil
	if s.Category == "" {
		s.Category = ScheduleHouse
	} else if !s.Category.Valid() {
		s.warnings = append(s.warnings, fmt.Sprintf("unknown category %q, using %s", string(s.Category), ScheduleHouse))
		s.Category = ScheduleHouse
	}
	if s.Participants == nil {
		s.Participants = []Participant{}
	}
	return nil
}

// DecodeWarnings lists the repairs made while decoding.
func (s Schedule) DecodeWarnings() []string { return s.warnings }

// Clone returns a copy that shares no slices with s.
func (s Schedule) Clone() Schedule {
	out := s
	out.Participants = slices.Clone(s.Participants)
	if out.Participants == nil {
		out.Participants = []Participant{}
	}
	return out
}

// IsFull reports whether the participant list has reached capacity.
func (s Schedule) IsFull() bool {
	return len(s.Participants) >= s.MaxParticipants
}

// Participant is a registered helper on a schedule.
type Participant struct {
	ID        string `json:"id,omitempty"`
	Name      string `json:"name"`
	IsRegular bool   `json:"isRegular"`
}

// UnmarshalJSON accepts both the record shape and a bare name string.
func (p *Participant) UnmarshalJSON(b []byte) error {
	var name string
	if err := json.Unmarshal(b, &name); err == nil {
		*p = Participant{Name: name}
		return nil
	}
	type alias Participant
	var a alias
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	*p = Participant(a)
	return nil
}

// Same reports whether p and o are the same registration: equal ids, or
// equal names when either id is missing.
func (p Participant) Same(o Participant) bool {
	if p.ID != "" && o.ID != "" {
		return p.ID == o.ID
	}
	return strings.EqualFold(strings.TrimSpace(p.Name), strings.TrimSpace(o.Name))
}

// CartItem is a schedule a volunteer saved for later.
type CartItem struct {
	ID       string           `json:"id"`
	Date     string           `json:"date"`
	Time     string           `json:"time"`
	Location string           `json:"location"`
	Category ScheduleCategory `json:"category"`
}
