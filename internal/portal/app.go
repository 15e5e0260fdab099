// Package portal owns the loaded news collection and the per-viewer
// page state, and applies user commands to it.
package portal

import (
	"context"
	"html/template"
	"log"
	"sync"
	"time"

	"daily-updates/internal/config"
	"daily-updates/internal/nav"
	"daily-updates/internal/news"
	"daily-updates/internal/render"
)

// Source provides the news collection.
type Source interface {
	Load(ctx context.Context) (news.Collection, error)
}

// LoadStatus is the progress of the one-time data load.
type LoadStatus int

const (
	StatusLoading LoadStatus = iota
	StatusLoaded
	StatusFailed
)

func (s LoadStatus) String() string {
	switch s {
	case StatusLoaded:
		return "loaded"
	case StatusFailed:
		return "failed"
	default:
		return "loading"
	}
}

const (
	sessionIdle     = 24 * time.Hour
	sessionSweepGap = time.Hour
)

// App is the top-level application state.
type App struct {
	cfg      *config.Config
	source   Source
	renderer *render.Renderer
	sessions *Sessions

	mu         sync.RWMutex
	collection news.Collection
	status     LoadStatus
	loadErr    error
	generation int
	listeners  []func()

	startOnce sync.Once
	done      chan struct{}
}

// New creates an app that will read its collection from source.
func New(cfg *config.Config, source Source, renderer *render.Renderer) *App {
	return &App{
		cfg:      cfg,
		source:   source,
		renderer: renderer,
		sessions: NewSessions(),
		done:     make(chan struct{}),
	}
}

// Start loads the collection in the background. Only the first call has
// any effect; the load is never retried.
func (a *App) Start(ctx context.Context) {
	a.startOnce.Do(func() {
		go a.load(ctx)
		go a.sweep(ctx)
	})
}

func (a *App) load(ctx context.Context) {
	collection, err := a.source.Load(ctx)

	a.mu.Lock()
	if err != nil {
		log.Printf("Error loading news data: %v", err)
		a.status = StatusFailed
		a.loadErr = err
	} else {
		log.Printf("Loaded %d news items", len(collection))
		a.collection = collection
		a.status = StatusLoaded
	}
	a.generation++
	listeners := append([]func(){}, a.listeners...)
	a.mu.Unlock()

	close(a.done)
	for _, fn := range listeners {
		fn()
	}
}

func (a *App) sweep(ctx context.Context) {
	ticker := time.NewTicker(sessionSweepGap)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if n := a.sessions.Prune(sessionIdle); n > 0 {
				log.Printf("Pruned %d idle sessions", n)
			}
		case <-ctx.Done():
			return
		}
	}
}

// Done is closed once the load has finished, successfully or not.
func (a *App) Done() <-chan struct{} {
	return a.done
}

// OnLoad registers fn to run after the load finishes.
func (a *App) OnLoad(fn func()) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.listeners = append(a.listeners, fn)
}

// Status returns the load status and the load error, if any.
func (a *App) Status() (LoadStatus, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.status, a.loadErr
}

// Collection returns the loaded collection. It must not be modified.
func (a *App) Collection() news.Collection {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.collection
}

func (a *App) snapshot() (news.Collection, LoadStatus, int) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.collection, a.status, a.generation
}

// Sessions returns the session store.
func (a *App) Sessions() *Sessions {
	return a.sessions
}

// Session returns the session with id, creating a fresh one when id is
// unknown.
func (a *App) Session(id string) (*Session, error) {
	if s, ok := a.sessions.Get(id); ok {
		return s, nil
	}
	s := newSession(nav.NewState(a.cfg.Catalogue()))
	s.mu.Lock()
	defer s.mu.Unlock()
	_, _, gen := a.snapshot()
	s.generation = gen
	if err := a.loadRenderLocked(s); err != nil {
		return nil, err
	}
	a.sessions.Add(s)
	return s, nil
}

// Dispatch applies cmd to s and re-renders the news container when the
// command changes what is visible.
func (a *App) Dispatch(s *Session, cmd Command) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	// The load finished since this session last rendered.
	_, _, gen := a.snapshot()
	reset := s.generation != gen
	if reset {
		s.Mode = ModeFilter
		s.Criteria = news.Unfiltered
		s.Query = ""
		s.generation = gen
	}

	if cmd.apply(s) {
		if err := a.renderLocked(s); err != nil {
			return View{}, err
		}
	} else if reset {
		if err := a.loadRenderLocked(s); err != nil {
			return View{}, err
		}
	}

	view := s.viewLocked()
	s.Flash = ""
	return view, nil
}

// loadRenderLocked renders what the page shows right after the load:
// a notice while loading or on failure, otherwise everything.
func (a *App) loadRenderLocked(s *Session) error {
	collection, status, _ := a.snapshot()
	switch status {
	case StatusLoading:
		return a.renderer.RenderMessage(&s.container, render.Loading)
	case StatusFailed:
		return a.renderer.RenderMessage(&s.container, render.LoadFailed)
	default:
		return a.renderer.Render(&s.container, news.Visible(collection, news.All, news.All), render.NoFilterResults)
	}
}

func (a *App) renderLocked(s *Session) error {
	collection, _, _ := a.snapshot()
	if s.Mode == ModeSearch {
		return a.renderer.Render(&s.container, news.SearchVisible(collection, s.Query), render.NoSearchResults(s.Query))
	}
	return a.renderer.Render(&s.container, news.Visible(collection, s.Criteria.Subject, s.Criteria.State), render.NoFilterResults)
}

// Subjects returns the subject links for the sidebar.
func (a *App) Subjects() []news.Subject {
	if len(a.cfg.Page.Subjects) > 0 {
		return a.cfg.Page.Subjects
	}
	return news.Subjects(a.Collection())
}

// States returns the state links for the sidebar.
func (a *App) States() []string {
	if len(a.cfg.Page.States) > 0 {
		return a.cfg.Page.States
	}
	return news.States(a.Collection())
}

// PageData assembles the full page for view.
func (a *App) PageData(view View) render.PageData {
	data := render.PageData{
		SiteTitle: a.cfg.Server.SiteTitle,
		Nav:       &view.Nav,
		Subjects:  a.Subjects(),
		States:    a.States(),
		Criteria:  view.Criteria,
		Query:     view.Query,
		Container: view.Container,
		Flash:     view.Flash,
	}
	for _, tab := range a.cfg.Page.Tabs {
		data.Tabs = append(data.Tabs, render.Tab{ID: tab.ID, Label: tab.Label, Body: tab.Body})
	}
	for _, section := range a.cfg.Page.Sections {
		data.NavLinks = append(data.NavLinks, render.NavLink{ID: section.ID, Label: section.Label})
	}
	return data
}

// Catalogue returns the configured tabs and sections.
func (a *App) Catalogue() nav.Catalogue {
	return a.cfg.Catalogue()
}

// Renderer returns the page renderer.
func (a *App) Renderer() *render.Renderer {
	return a.renderer
}

// View is a snapshot of one session's page state.
type View struct {
	Container template.HTML `json:"container"`
	Nav       nav.State     `json:"nav"`
	Mode      string        `json:"mode"`
	Criteria  news.Criteria `json:"criteria"`
	Query     string        `json:"query,omitempty"`
	Flash     string        `json:"flash,omitempty"`
}
