package server

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"daily-updates/internal/news"
	"daily-updates/internal/portal"
)

const (
	sessionCookie    = "news_session"
	sessionCookieAge = 30 * 24 * 60 * 60
)

// PortalService serves the news page and its JSON API
type PortalService struct {
	app *portal.App
}

// NewPortalService creates a service over app
func NewPortalService(app *portal.App) *PortalService {
	return &PortalService{app: app}
}

// session returns the viewer's session, issuing a cookie for new ones
func (ps *PortalService) session(c *gin.Context) (*portal.Session, error) {
	id, _ := c.Cookie(sessionCookie)
	s, err := ps.app.Session(id)
	if err != nil {
		return nil, err
	}
	if s.ID != id {
		c.SetCookie(sessionCookie, s.ID, sessionCookieAge, "/", "", false, true)
	}
	return s, nil
}

// Page renders the news page after applying any commands carried in the
// query string
func (ps *PortalService) Page(c *gin.Context) {
	ps.renderPage(c, pageCommands(c))
}

// Subscribe handles the footer subscribe form. No subscription is made.
func (ps *PortalService) Subscribe(c *gin.Context) {
	email := c.PostForm("email")
	log.Printf("Subscribe form submitted")
	ps.renderPage(c, []portal.Command{portal.Subscribe{Email: email}})
}

func (ps *PortalService) renderPage(c *gin.Context, cmds []portal.Command) {
	s, err := ps.session(c)
	if err != nil {
		ps.pageError(c, err)
		return
	}

	var view portal.View
	for _, cmd := range cmds {
		if view, err = ps.app.Dispatch(s, cmd); err != nil {
			ps.pageError(c, err)
			return
		}
	}

	var buf bytes.Buffer
	if err := ps.app.Renderer().Page(&buf, ps.app.PageData(view)); err != nil {
		ps.pageError(c, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

func (ps *PortalService) pageError(c *gin.Context, err error) {
	log.Printf("Error rendering page: %v", err)
	c.String(http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
}

// pageCommands maps page links to commands. A refresh is always last so
// a page view with no parameters still brings the session up to date.
func pageCommands(c *gin.Context) []portal.Command {
	var cmds []portal.Command
	if c.Query("menu") == "toggle" {
		cmds = append(cmds, portal.ToggleMenu{})
	}
	if section, ok := c.GetQuery("section"); ok {
		cmds = append(cmds, portal.FollowNavLink{Section: section})
	}
	if tab, ok := c.GetQuery("tab"); ok {
		cmds = append(cmds, portal.ActivateTab{Tab: tab})
	}
	subject, hasSubject := c.GetQuery("subject")
	state, hasState := c.GetQuery("state")
	if hasSubject || hasState {
		cmds = append(cmds, portal.SetFilter{Subject: subject, State: state})
	}
	if state, ok := c.GetQuery("anchor_state"); ok {
		cmds = append(cmds, portal.SelectState{State: state})
	}
	if q, ok := c.GetQuery("q"); ok {
		cmds = append(cmds, portal.SetSearch{Query: q})
	}
	return append(cmds, portal.Refresh{})
}

// GetNews returns the visible items for the given filters or query.
// It does not touch any session.
func (ps *PortalService) GetNews(c *gin.Context) {
	if !ps.loaded(c) {
		return
	}
	collection := ps.app.Collection()

	response := NewsResponse{Success: true}
	if q := news.NormalizeQuery(c.Query("q")); q != "" {
		response.Mode = portal.ModeSearch.String()
		response.Query = q
		response.Criteria = news.Unfiltered
		response.Data = news.SearchVisible(collection, q)
	} else {
		response.Mode = portal.ModeFilter.String()
		response.Criteria = news.Criteria{
			Subject: c.DefaultQuery("subject", news.All),
			State:   c.DefaultQuery("state", news.All),
		}
		response.Data = news.Visible(collection, response.Criteria.Subject, response.Criteria.State)
	}
	response.Count = len(response.Data)

	c.JSON(http.StatusOK, response)
}

// GetFilters returns the subject and state links and navigation targets
func (ps *PortalService) GetFilters(c *gin.Context) {
	cat := ps.app.Catalogue()
	c.JSON(http.StatusOK, FiltersResponse{
		Success:  true,
		Subjects: ps.app.Subjects(),
		States:   ps.app.States(),
		Tabs:     cat.Tabs,
		Sections: cat.Sections,
	})
}

// PostCommand applies a JSON command to the caller's session and returns
// the resulting view
func (ps *PortalService) PostCommand(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Success: false,
			Error:   "read_error",
			Message: fmt.Sprintf("Failed to read command: %v", err),
		})
		return
	}
	cmd, err := portal.DecodeCommand(body)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Success: false,
			Error:   "invalid_command",
			Message: err.Error(),
		})
		return
	}

	s, err := ps.session(c)
	if err != nil {
		ps.internalError(c, err)
		return
	}
	view, err := ps.app.Dispatch(s, cmd)
	if err != nil {
		ps.internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// Health reports service and load status
func (ps *PortalService) Health(c *gin.Context) {
	status, _ := ps.app.Status()
	c.JSON(http.StatusOK, HealthResponse{
		Status:    "healthy",
		Load:      status.String(),
		Items:     len(ps.app.Collection()),
		Sessions:  ps.app.Sessions().Len(),
		Timestamp: time.Now(),
	})
}

func (ps *PortalService) loaded(c *gin.Context) bool {
	status, err := ps.app.Status()
	switch status {
	case portal.StatusLoaded:
		return true
	case portal.StatusFailed:
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{
			Success: false,
			Error:   "load_failed",
			Message: fmt.Sprintf("Failed to load news: %v", err),
		})
	default:
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{
			Success: false,
			Error:   "loading",
			Message: "News data is still loading",
		})
	}
	return false
}

func (ps *PortalService) internalError(c *gin.Context, err error) {
	log.Printf("Error handling command: %v", err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{
		Success: false,
		Error:   "internal_error",
		Message: http.StatusText(http.StatusInternalServerError),
	})
}
