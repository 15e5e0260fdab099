package news

import "strings"

// All is the wildcard filter value: the criterion is not applied.
const All = "All"

// Item represents a single news entry from the data document
type Item struct {
	Title        string `json:"title" yaml:"title"`
	Summary      string `json:"summary" yaml:"summary"`
	Source       string `json:"source" yaml:"source"`
	Link         string `json:"link" yaml:"link"`
	SubjectKey   string `json:"subject_key" yaml:"subject_key"`
	SubjectHindi string `json:"subject_hindi" yaml:"subject_hindi"`
	StateName    string `json:"state_name,omitempty" yaml:"state_name,omitempty"`
}

// HasState reports whether the item is region-specific.
func (i Item) HasState() bool {
	return strings.TrimSpace(i.StateName) != ""
}

// Collection is the ordered set of items loaded at startup. It is never
// mutated after load.
type Collection []Item

// Document is the envelope of the data source.
type Document struct {
	TopNews Collection `json:"top_news" yaml:"top_news"`
}

// Subject is a subject key with its display label
type Subject struct {
	Key   string `json:"key" toml:"key"`
	Label string `json:"label" toml:"label"`
}

// Subjects returns the distinct subjects of c in first-seen order.
func Subjects(c Collection) []Subject {
	seen := make(map[string]bool)
	var subjects []Subject
	for _, item := range c {
		if item.SubjectKey == "" || seen[item.SubjectKey] {
			continue
		}
		seen[item.SubjectKey] = true
		subjects = append(subjects, Subject{Key: item.SubjectKey, Label: item.SubjectHindi})
	}
	return subjects
}

// States returns the distinct non-blank state names of c in first-seen order.
func States(c Collection) []string {
	seen := make(map[string]bool)
	var states []string
	for _, item := range c {
		if !item.HasState() || seen[item.StateName] {
			continue
		}
		seen[item.StateName] = true
		states = append(states, item.StateName)
	}
	return states
}
