package model

import (
	"fmt"
	"time"
)

// Difficulty represents a quiz difficulty tier.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyNormal Difficulty = "normal"
	DifficultyHard   Difficulty = "hard"
)

// Valid reports whether d is a known difficulty tier.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyNormal, DifficultyHard:
		return true
	}
	return false
}

// DecoysPerPort returns how many decoy answers are generated for each
// sampled port at this tier. Easy mode has no decoys.
func (d Difficulty) DecoysPerPort() int {
	switch d {
	case DifficultyNormal:
		return 2
	case DifficultyHard:
		return 5
	}
	return 0
}

// Port is one canonical port record from the deduplicated catalog.
// Ports are immutable after catalog construction.
type Port struct {
	ID      int     `json:"id"`
	Name    string  `json:"name"`
	Country string  `json:"country"`
	Region  string  `json:"region"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
}

// Key returns the port's literal identity key.
func (p Port) Key() PortKey {
	return PortKey{Name: p.Name, Country: p.Country}
}

// DisplayName returns the full "Name, Country" form shown to players.
func (p Port) DisplayName() string {
	return p.Name + ", " + p.Country
}

// PortKey identifies a catalog port by its literal name and country.
// The "name-country" string form exists only at serialization boundaries.
type PortKey struct {
	Name    string `json:"name"`
	Country string `json:"country"`
}

// String renders the key in its stored "name-country" form.
func (k PortKey) String() string {
	return k.Name + "-" + k.Country
}

// RawPortRecord is one row of the externally supplied ports dataset.
// Field names follow the upstream CSV-derived JSON.
type RawPortRecord struct {
	City      string  `json:"CITY"`
	Country   string  `json:"COUNTRY"`
	State     string  `json:"STATE"`
	Latitude  float64 `json:"LATITUDE"`
	Longitude float64 `json:"LONGITUDE"`
}

// ReferenceListItem is one row of the curated top-ports reference table.
type ReferenceListItem struct {
	Number   int    `json:"Number"`
	PortName string `json:"Port Name"`
	Country  string `json:"Country"`
	Region   string `json:"Region"`
}

// PortList is a named, ordered subset of catalog ports used to restrict
// quiz sampling. The built-in top-150 list is derived at startup by
// reconciliation; custom lists are user-created and persisted.
type PortList struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	PortKeys  []PortKey `json:"portKeys"`
	IsBuiltIn bool      `json:"isBuiltIn"`
}

// QuizConfig is the filter state a session is built from.
type QuizConfig struct {
	ListID     string     `json:"listId,omitempty"`
	Regions    []string   `json:"regions"`
	Countries  []string   `json:"countries"`
	PortCount  int        `json:"portCount"`
	Difficulty Difficulty `json:"difficulty"`
}

// QuizResult is the graded outcome for a single labeled marker.
// CorrectPort is always the full "name, country" form for review,
// regardless of the difficulty the answer was graded under.
type QuizResult struct {
	Letter       string `json:"letter"`
	SelectedPort string `json:"selectedPort"`
	CorrectPort  string `json:"correctPort"`
	IsCorrect    bool   `json:"isCorrect"`
}

// PortResult is the per-port slice of a history entry: which port was
// asked and whether the answer was correct.
type PortResult struct {
	Port      string `json:"port"`
	IsCorrect bool   `json:"isCorrect"`
}

// QuizHistoryEntry is one append-only record of a completed quiz.
type QuizHistoryEntry struct {
	ID         string       `json:"id"`
	Date       time.Time    `json:"date"`
	Score      int          `json:"score"`
	Total      int          `json:"total"`
	Accuracy   float64      `json:"accuracy"`
	Duration   int          `json:"duration"`
	Difficulty Difficulty   `json:"difficulty"`
	Regions    []string     `json:"regions"`
	Countries  []string     `json:"countries"`
	Results    []PortResult `json:"results"`
}

// DatasetInfo describes the loaded ports dataset, stored as metadata so
// the stats and export commands can report provenance.
type DatasetInfo struct {
	Path        string
	PortCount   int
	ListMatched int
	ListTotal   int
}

// ParsePortKey splits a stored "name-country" key on its last separator.
// Names may themselves contain hyphens; countries in the dataset do not.
func ParsePortKey(s string) (PortKey, error) {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == '-' {
			return PortKey{Name: s[:i], Country: s[i+1:]}, nil
		}
	}
	return PortKey{}, fmt.Errorf("malformed port key %q", s)
}
