package news

import "strings"

// Criteria is a subject/state filter pair. Either side may be All.
type Criteria struct {
	Subject string `json:"subject"`
	State   string `json:"state"`
}

// Unfiltered matches every item.
var Unfiltered = Criteria{Subject: All, State: All}

// Matches reports whether item passes both criteria.
func (c Criteria) Matches(item Item) bool {
	subjectMatch := c.Subject == All || item.SubjectKey == c.Subject
	stateMatch := c.State == All || item.StateName == c.State
	return subjectMatch && stateMatch
}

// Visible returns the items of c matching subject and state, in
// collection order. The result never aliases c.
func Visible(c Collection, subject, state string) []Item {
	criteria := Criteria{Subject: subject, State: state}
	visible := make([]Item, 0, len(c))
	for _, item := range c {
		if criteria.Matches(item) {
			visible = append(visible, item)
		}
	}
	return visible
}

// NormalizeQuery lower-cases and trims a search query.
func NormalizeQuery(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}

// SearchVisible returns the items whose search text contains query.
// An empty query matches everything.
func SearchVisible(c Collection, query string) []Item {
	term := NormalizeQuery(query)
	visible := make([]Item, 0, len(c))
	for _, item := range c {
		if term == "" || strings.Contains(searchText(item), term) {
			visible = append(visible, item)
		}
	}
	return visible
}

// searchText joins the searchable fields of item. A missing state name
// contributes nothing.
func searchText(item Item) string {
	return strings.ToLower(strings.Join([]string{
		item.Title,
		item.Summary,
		item.Source,
		item.SubjectHindi,
		item.StateName,
	}, " "))
}
