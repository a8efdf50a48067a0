// Package models defines the core data structures and database interaction logic.
// It includes entity definitions and methods for persistence and validation.
package models

// Dataset is an ingested snapshot: the API catalog plus the mashups that
// provide the co-occurrence signal.
type Dataset struct {
	APIs    []APIRecord   `json:"apis"`
	Mashups []MashupGroup `json:"mashups,omitempty"`
}

type APIRecord struct {
	Name                string   `json:"name"`
	PrimaryCategory     string   `json:"primary_category"`
	SecondaryCategories []string `json:"secondary_categories,omitempty"`
}

// MashupGroup lists the APIs used together by one mashup.
type MashupGroup struct {
	Name string   `json:"name,omitempty"`
	APIs []string `json:"apis"`
}
