// Package nav tracks which tab is active and which page section the
// navigation bar highlights.
package nav

const (
	// TopNews is the tab every filter and search action switches to.
	TopNews = "top-news"

	// DailyUpdates is the section highlighted when nothing else is reached.
	DailyUpdates = "daily-updates"

	// DefaultLookAhead is how far below the viewport top a section counts
	// as entered.
	DefaultLookAhead = 150

	// DefaultMenuBreakpoint is the widest viewport on which following a
	// nav link closes the menu.
	DefaultMenuBreakpoint = 1024
)

// Section is a page section and its vertical offset in document order.
type Section struct {
	ID  string `json:"id"`
	Top int    `json:"top"`
}

// Catalogue lists the tab and section ids the page knows about.
type Catalogue struct {
	Tabs           []string
	Sections       []string
	DefaultTab     string
	DefaultSection string
	LookAhead      int
	MenuBreakpoint int
}

// DefaultCatalogue returns the tabs and sections of the stock page.
func DefaultCatalogue() Catalogue {
	return Catalogue{
		Tabs:           []string{TopNews, "editorial", "schemes"},
		Sections:       []string{DailyUpdates, "state-news", "quiz", "contact"},
		DefaultTab:     TopNews,
		DefaultSection: DailyUpdates,
		LookAhead:      DefaultLookAhead,
		MenuBreakpoint: DefaultMenuBreakpoint,
	}
}

func (c Catalogue) hasTab(id string) bool {
	for _, tab := range c.Tabs {
		if tab == id {
			return true
		}
	}
	return false
}

func (c Catalogue) hasSection(id string) bool {
	for _, section := range c.Sections {
		if section == id {
			return true
		}
	}
	return false
}

// State is the navigation state of one viewer.
type State struct {
	catalogue Catalogue

	ActiveTab       string `json:"active_tab"`
	Section         string `json:"section"`
	MenuOpen        bool   `json:"menu_open"`
	ActiveStateLink string `json:"active_state_link,omitempty"`
}

// NewState returns a state with the default tab active and the default
// section highlighted.
func NewState(c Catalogue) *State {
	s := &State{catalogue: c, Section: c.DefaultSection}
	s.ActivateTab(c.DefaultTab)
	return s
}

// Catalogue returns the known tabs and sections.
func (s *State) Catalogue() Catalogue {
	return s.catalogue
}

// ActivateTab deactivates every tab and then activates id. An unknown id
// leaves no tab active.
func (s *State) ActivateTab(id string) {
	s.ActiveTab = ""
	if s.catalogue.hasTab(id) {
		s.ActiveTab = id
	}
}

// IsActive reports whether tab id is the active tab.
func (s *State) IsActive(id string) bool {
	return s.ActiveTab != "" && s.ActiveTab == id
}

// Highlight returns the last section in document order whose top is at
// or above scrollY+lookAhead, or fallback when none is.
func Highlight(scrollY int, sections []Section, lookAhead int, fallback string) string {
	position := scrollY + lookAhead
	current := fallback
	for _, section := range sections {
		if section.Top <= position {
			current = section.ID
		}
	}
	return current
}

// UpdateScrollHighlight recomputes the highlighted section from the
// scroll offset. Sections the catalogue does not know are ignored.
func (s *State) UpdateScrollHighlight(scrollY int, sections []Section) {
	known := make([]Section, 0, len(sections))
	for _, section := range sections {
		if s.catalogue.hasSection(section.ID) {
			known = append(known, section)
		}
	}
	s.Section = Highlight(scrollY, known, s.catalogue.LookAhead, s.catalogue.DefaultSection)
}

// JumpTo highlights section id directly. Unknown ids are ignored.
func (s *State) JumpTo(id string) {
	if s.catalogue.hasSection(id) {
		s.Section = id
	}
}

// IsCurrent reports whether section id is highlighted.
func (s *State) IsCurrent(id string) bool {
	return s.Section == id
}

// ToggleMenu opens or closes the hamburger menu.
func (s *State) ToggleMenu() {
	s.MenuOpen = !s.MenuOpen
}

// FollowNavLink closes the menu on narrow viewports.
func (s *State) FollowNavLink(viewportWidth int) {
	if viewportWidth <= s.catalogue.MenuBreakpoint {
		s.MenuOpen = false
	}
}

// HighlightStateLink marks the sidebar link of state as active.
func (s *State) HighlightStateLink(state string) {
	s.ActiveStateLink = state
}
