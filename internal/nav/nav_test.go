package nav

import "testing"

func TestActivateTab(t *testing.T) {
	s := NewState(DefaultCatalogue())
	if s.ActiveTab != TopNews {
		t.Fatalf("expected %q active initially, got %q", TopNews, s.ActiveTab)
	}

	s.ActivateTab("editorial")
	if !s.IsActive("editorial") || s.IsActive(TopNews) {
		t.Errorf("expected only editorial active, got %q", s.ActiveTab)
	}

	// Unknown id deactivates everything and activates nothing.
	s.ActivateTab(TopNews)
	s.ActivateTab("unknown")
	if s.ActiveTab != "" {
		t.Errorf("expected no active tab, got %q", s.ActiveTab)
	}
	for _, tab := range s.Catalogue().Tabs {
		if s.IsActive(tab) {
			t.Errorf("tab %q should not be active", tab)
		}
	}
	if s.IsActive("") {
		t.Error("empty id should never be active")
	}
}

func TestHighlight(t *testing.T) {
	sections := []Section{
		{ID: "daily-updates", Top: 0},
		{ID: "state-news", Top: 800},
		{ID: "quiz", Top: 1600},
		{ID: "contact", Top: 2400},
	}

	tests := []struct {
		name    string
		scrollY int
		want    string
	}{
		{"top of page", 0, "daily-updates"},
		{"just before look-ahead reaches", 649, "daily-updates"},
		{"look-ahead enters section early", 650, "state-news"},
		{"middle", 1700, "quiz"},
		{"bottom", 5000, "contact"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Highlight(tt.scrollY, sections, DefaultLookAhead, DailyUpdates)
			if got != tt.want {
				t.Errorf("Highlight(%d) = %q, want %q", tt.scrollY, got, tt.want)
			}
		})
	}
}

func TestHighlightFallback(t *testing.T) {
	sections := []Section{{ID: "quiz", Top: 1000}}
	if got := Highlight(0, sections, DefaultLookAhead, DailyUpdates); got != DailyUpdates {
		t.Errorf("expected fallback, got %q", got)
	}
	if got := Highlight(0, nil, DefaultLookAhead, DailyUpdates); got != DailyUpdates {
		t.Errorf("expected fallback for no sections, got %q", got)
	}
}

func TestHighlightUsesDocumentOrder(t *testing.T) {
	// The last reached section in document order wins even if an earlier
	// one has a larger offset.
	sections := []Section{
		{ID: "quiz", Top: 300},
		{ID: "state-news", Top: 100},
	}
	if got := Highlight(200, sections, 0, DailyUpdates); got != "state-news" {
		t.Errorf("got %q, want state-news", got)
	}
}

func TestUpdateScrollHighlightIgnoresUnknownSections(t *testing.T) {
	s := NewState(DefaultCatalogue())
	s.UpdateScrollHighlight(1000, []Section{
		{ID: "state-news", Top: 500},
		{ID: "footer-ad", Top: 900},
	})
	if !s.IsCurrent("state-news") {
		t.Errorf("expected state-news, got %q", s.Section)
	}
}

func TestMenu(t *testing.T) {
	s := NewState(DefaultCatalogue())
	s.ToggleMenu()
	if !s.MenuOpen {
		t.Fatal("menu should be open")
	}

	s.FollowNavLink(1440)
	if !s.MenuOpen {
		t.Error("wide viewport should keep the menu open")
	}

	s.FollowNavLink(DefaultMenuBreakpoint)
	if s.MenuOpen {
		t.Error("narrow viewport should close the menu")
	}
}
