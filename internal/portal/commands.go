package portal

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"daily-updates/internal/nav"
	"daily-updates/internal/news"
	"daily-updates/internal/render"
)

// ErrUnknownCommand is returned for a wire command with an unrecognised type.
var ErrUnknownCommand = errors.New("unknown command")

// Command is a state transition requested by the viewer. apply reports
// whether the news container must be re-rendered.
type Command interface {
	apply(s *Session) bool
}

// Refresh changes nothing; it only brings the session up to date.
type Refresh struct{}

func (Refresh) apply(*Session) bool { return false }

// SetFilter shows the top-news tab filtered by subject and state.
type SetFilter struct {
	Subject string
	State   string
}

func (c SetFilter) apply(s *Session) bool {
	s.Nav.ActivateTab(nav.TopNews)
	s.Mode = ModeFilter
	s.Query = ""
	s.Criteria = news.Criteria{Subject: orAll(c.Subject), State: orAll(c.State)}
	return true
}

// SetSearch searches the collection. An empty query resets to the
// unfiltered list without switching tabs.
type SetSearch struct {
	Query string
}

func (c SetSearch) apply(s *Session) bool {
	q := news.NormalizeQuery(c.Query)
	s.Criteria = news.Unfiltered
	if q == "" {
		s.Mode = ModeFilter
		s.Query = ""
		return true
	}
	s.Nav.ActivateTab(nav.TopNews)
	s.Mode = ModeSearch
	s.Query = q
	return true
}

// ActivateTab switches tabs.
type ActivateTab struct {
	Tab string
}

func (c ActivateTab) apply(s *Session) bool {
	s.Nav.ActivateTab(c.Tab)
	return false
}

// Scroll recomputes the highlighted section.
type Scroll struct {
	Y        int
	Sections []nav.Section
}

func (c Scroll) apply(s *Session) bool {
	s.Nav.UpdateScrollHighlight(c.Y, c.Sections)
	return false
}

// SelectState follows the state link on a news card: the sidebar link
// is highlighted and the list is filtered by state.
type SelectState struct {
	State string
}

func (c SelectState) apply(s *Session) bool {
	s.Nav.HighlightStateLink(c.State)
	return SetFilter{Subject: news.All, State: c.State}.apply(s)
}

// ToggleMenu opens or closes the navigation menu.
type ToggleMenu struct{}

func (ToggleMenu) apply(s *Session) bool {
	s.Nav.ToggleMenu()
	return false
}

// FollowNavLink jumps to a section from the navigation bar.
type FollowNavLink struct {
	Section string
	Width   int
}

func (c FollowNavLink) apply(s *Session) bool {
	s.Nav.JumpTo(c.Section)
	s.Nav.FollowNavLink(c.Width)
	return false
}

// Subscribe simulates a newsletter subscription. Nothing is sent anywhere.
type Subscribe struct {
	Email string
}

func (Subscribe) apply(s *Session) bool {
	s.Flash = render.SubscribeConfirmation
	return false
}

func orAll(v string) string {
	if strings.TrimSpace(v) == "" {
		return news.All
	}
	return v
}

// wireCommand is the JSON form of a command.
type wireCommand struct {
	Type     string        `json:"type"`
	Subject  string        `json:"subject,omitempty"`
	State    string        `json:"state,omitempty"`
	Query    string        `json:"query,omitempty"`
	Tab      string        `json:"tab,omitempty"`
	Y        int           `json:"y,omitempty"`
	Sections []nav.Section `json:"sections,omitempty"`
	Section  string        `json:"section,omitempty"`
	Width    int           `json:"width,omitempty"`
	Email    string        `json:"email,omitempty"`
}

// DecodeCommand parses a JSON command.
func DecodeCommand(data []byte) (Command, error) {
	var w wireCommand
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("decoding command: %w", err)
	}

	switch w.Type {
	case "refresh":
		return Refresh{}, nil
	case "filter":
		return SetFilter{Subject: w.Subject, State: w.State}, nil
	case "search":
		return SetSearch{Query: w.Query}, nil
	case "tab":
		return ActivateTab{Tab: w.Tab}, nil
	case "scroll":
		return Scroll{Y: w.Y, Sections: w.Sections}, nil
	case "select_state":
		return SelectState{State: w.State}, nil
	case "toggle_menu":
		return ToggleMenu{}, nil
	case "nav":
		return FollowNavLink{Section: w.Section, Width: w.Width}, nil
	case "subscribe":
		return Subscribe{Email: w.Email}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCommand, w.Type)
	}
}
