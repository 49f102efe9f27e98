package model

import (
	"encoding/json"
	"fmt"
)

// Importance ranks notices on the home page.
type Importance string

const (
	ImportanceLow    Importance = "low"
	ImportanceMedium Importance = "medium"
	ImportanceHigh   Importance = "high"
)

// Rank orders importances, high first.
func (i Importance) Rank() int {
	switch i {
	case ImportanceHigh:
		return 0
	case ImportanceMedium:
		return 1
	case ImportanceLow:
		return 2
	}
	return 3
}

// Valid reports whether i is a known importance.
func (i Importance) Valid() bool { return i.Rank() < 3 }

// Notice is an announcement shown until it expires.
type Notice struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	Content    string     `json:"content"`
	Date       string     `json:"date"`
	ExpireDate string     `json:"expireDate,omitempty"`
	Importance Importance `json:"importance"`
	Category   string     `json:"category,omitempty"`
	ImageURL   string     `json:"imageUrl,omitempty"`
	CreatedAt  string     `json:"createdAt,omitempty"`
	UpdatedAt  string     `json:"updatedAt,omitempty"`

	warnings []string
}

// UnmarshalJSON defaults a missing importance to medium. An unknown one is
// replaced the same way and reported through DecodeWarnings.
func (n *Notice) UnmarshalJSON(b []byte) error {
	type alias Notice
	if err := json.Unmarshal(b, (*alias)(n)); err != nil {
		return err
	}
	n.warnings = nil
	if n.Importance == "" {
		n.Importance = ImportanceMedium
	} else if !n.Importance.Valid() {
		n.warnings = append(n.warnings, fmt.Sprintf("unknown importance %q, using %s", string(n.Importance), ImportanceMedium))
		n.Importance = ImportanceMedium
	}
	return nil
}

// DecodeWarnings lists the repairs made while decoding.
func (n Notice) DecodeWarnings() []string { return n.warnings }
