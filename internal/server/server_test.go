package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"daily-updates/internal/config"
	"daily-updates/internal/loader"
	"daily-updates/internal/portal"
	"daily-updates/internal/render"
)

const dataDoc = `{"top_news": [
  {"title": "A", "summary": "GDP growth", "source": "PIB", "link": "https://example.com/a",
   "subject_key": "eco", "subject_hindi": "अर्थव्यवस्था", "state_name": ""},
  {"title": "B", "summary": "Assembly session", "source": "ECI", "link": "https://example.com/b",
   "subject_key": "pol", "subject_hindi": "राजनीति", "state_name": "Bihar"}
]}`

func init() {
	gin.SetMode(gin.TestMode)
}

func setup(t *testing.T, content string) (*gin.Engine, *portal.App) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := config.Default()
	cfg.Data.Source = path

	renderer, err := render.New()
	if err != nil {
		t.Fatal(err)
	}
	app := portal.New(cfg, loader.New(path, cfg.Data.UserAgent, cfg.Timeout()), renderer)
	router := NewRouter(cfg, app)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	app.Start(ctx)
	select {
	case <-app.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("load did not finish")
	}
	return router, app
}

// browser replays the session cookie like a real browser would.
type browser struct {
	t      *testing.T
	router *gin.Engine
	cookie *http.Cookie
}

func (b *browser) do(req *http.Request) *httptest.ResponseRecorder {
	if b.cookie != nil {
		req.AddCookie(b.cookie)
	}
	w := httptest.NewRecorder()
	b.router.ServeHTTP(w, req)
	for _, c := range w.Result().Cookies() {
		if c.Name == sessionCookie {
			b.cookie = c
		}
	}
	return w
}

func (b *browser) page(query string) *goquery.Document {
	b.t.Helper()
	w := b.do(httptest.NewRequest(http.MethodGet, "/"+query, nil))
	if w.Code != http.StatusOK {
		b.t.Fatalf("GET /%s: status %d", query, w.Code)
	}
	doc, err := goquery.NewDocumentFromReader(w.Body)
	if err != nil {
		b.t.Fatal(err)
	}
	return doc
}

func cardTitles(doc *goquery.Document) []string {
	var titles []string
	doc.Find("#top-news-container article.news-card h4").Each(func(i int, s *goquery.Selection) {
		titles = append(titles, s.Text())
	})
	return titles
}

func messageKind(doc *goquery.Document) string {
	kind, _ := doc.Find("#top-news-container .news-message").Attr("data-kind")
	return kind
}

func TestPageFlow(t *testing.T) {
	router, app := setup(t, dataDoc)
	b := &browser{t: t, router: router}

	doc := b.page("")
	if got := strings.Join(cardTitles(doc), ","); got != "A,B" {
		t.Errorf("initial cards = %q", got)
	}
	if b.cookie == nil {
		t.Fatal("session cookie not issued")
	}
	if doc.Find(".state-link").Length() != 1 {
		t.Errorf("expected 1 state link derived from the data")
	}

	doc = b.page("?subject=pol")
	if got := strings.Join(cardTitles(doc), ","); got != "B" {
		t.Errorf("subject filter cards = %q", got)
	}
	if doc.Find(".subject-filter-link.active").AttrOr("data-subject", "") != "pol" {
		t.Error("active subject link not marked")
	}

	doc = b.page("?subject=eco&state=Bihar")
	if len(cardTitles(doc)) != 0 || messageKind(doc) != render.KindNoFilterResults {
		t.Errorf("expected no-filter-results, got %v / %q", cardTitles(doc), messageKind(doc))
	}

	doc = b.page("?q=" + url.QueryEscape("क्रिकेट"))
	if messageKind(doc) != render.KindNoSearchResults {
		t.Errorf("expected no-search-results, got %q", messageKind(doc))
	}
	if doc.Find("#search-input").AttrOr("value", "") != "क्रिकेट" {
		t.Error("search box should keep the query")
	}

	doc = b.page("?anchor_state=Bihar")
	if got := strings.Join(cardTitles(doc), ","); got != "B" {
		t.Errorf("anchor state cards = %q", got)
	}
	if doc.Find(".state-link.active-state").AttrOr("data-state", "") != "Bihar" {
		t.Error("sidebar state link not highlighted")
	}

	b.page("?tab=top-news")
	doc = b.page("?tab=unknown")
	if doc.Find(".tab-button.active").Length() != 0 || doc.Find(".tab-content.active").Length() != 0 {
		t.Error("unknown tab should leave nothing active")
	}

	doc = b.page("?menu=toggle")
	if !doc.Find("#main-nav-bar").HasClass("active") {
		t.Error("menu should be open")
	}

	if app.Sessions().Len() != 1 {
		t.Errorf("expected a single session, got %d", app.Sessions().Len())
	}
}

func TestSubscribe(t *testing.T) {
	router, _ := setup(t, dataDoc)
	b := &browser{t: t, router: router}

	form := url.Values{"email": {"reader@example.com"}}
	req := httptest.NewRequest(http.MethodPost, "/subscribe", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := b.do(req)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}
	doc, _ := goquery.NewDocumentFromReader(w.Body)
	if doc.Find(".flash").Text() != render.SubscribeConfirmation {
		t.Error("confirmation not shown")
	}
	if doc.Find("#footer-subscribe-form input[name=email]").AttrOr("value", "") != "" {
		t.Error("form should be cleared")
	}

	if b.page("").Find(".flash").Length() != 0 {
		t.Error("confirmation should only be shown once")
	}
}

func TestGetNews(t *testing.T) {
	router, _ := setup(t, dataDoc)

	tests := []struct {
		query string
		count int
		mode  string
	}{
		{"", 2, "filter"},
		{"?subject=pol", 1, "filter"},
		{"?subject=eco&state=Bihar", 0, "filter"},
		{"?q=ASSEMBLY", 1, "search"},
		{"?q=%20%20&subject=eco", 1, "filter"},
	}

	for _, tt := range tests {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/news"+tt.query, nil))
		if w.Code != http.StatusOK {
			t.Fatalf("%s: status %d", tt.query, w.Code)
		}
		var resp NewsResponse
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatal(err)
		}
		if resp.Count != tt.count || len(resp.Data) != tt.count || resp.Mode != tt.mode {
			t.Errorf("%s: count=%d mode=%s, want %d %s", tt.query, resp.Count, resp.Mode, tt.count, tt.mode)
		}
	}
}

func TestPostCommand(t *testing.T) {
	router, _ := setup(t, dataDoc)
	b := &browser{t: t, router: router}

	post := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/commands", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		return b.do(req)
	}

	w := post(`{"type":"filter","subject":"pol"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}
	var view portal.View
	if err := json.Unmarshal(w.Body.Bytes(), &view); err != nil {
		t.Fatal(err)
	}
	if strings.Count(string(view.Container), "<article") != 1 || view.Criteria.Subject != "pol" {
		t.Errorf("unexpected view: %+v", view)
	}

	// The command applied to the same session the page uses.
	if got := strings.Join(cardTitles(b.page("")), ","); got != "B" {
		t.Errorf("page after command = %q", got)
	}

	for _, body := range []string{`{"type":"explode"}`, `nope`} {
		if w := post(body); w.Code != http.StatusBadRequest {
			t.Errorf("%s: status %d", body, w.Code)
		}
	}
}

func TestLoadFailurePage(t *testing.T) {
	router, _ := setup(t, `{"top_news": [`)
	b := &browser{t: t, router: router}

	if kind := messageKind(b.page("")); kind != render.KindLoadFailed {
		t.Errorf("expected load-failed message, got %q", kind)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/news", nil))
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("news API status %d", w.Code)
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	var health HealthResponse
	json.Unmarshal(w.Body.Bytes(), &health)
	if w.Code != http.StatusOK || health.Load != "failed" {
		t.Errorf("health: %d %+v", w.Code, health)
	}
}

func TestFilters(t *testing.T) {
	router, _ := setup(t, dataDoc)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/filters", nil))

	var resp FiltersResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Subjects) != 2 || len(resp.States) != 1 || len(resp.Tabs) != 3 || len(resp.Sections) != 4 {
		t.Errorf("unexpected filters: %+v", resp)
	}
}

func TestWebSocket(t *testing.T) {
	router, _ := setup(t, dataDoc)
	srv := httptest.NewServer(router)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	defer conn.Close()
	if len(resp.Cookies()) == 0 {
		t.Error("expected a session cookie on the upgrade response")
	}

	send := func(cmd string) map[string]json.RawMessage {
		t.Helper()
		if err := conn.WriteMessage(websocket.TextMessage, []byte(cmd)); err != nil {
			t.Fatal(err)
		}
		conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		_, data, err := conn.ReadMessage()
		if err != nil {
			t.Fatal(err)
		}
		var out map[string]json.RawMessage
		if err := json.Unmarshal(data, &out); err != nil {
			t.Fatal(err)
		}
		return out
	}

	out := send(`{"type":"scroll","y":700,"sections":[{"id":"daily-updates","top":0},{"id":"state-news","top":800}]}`)
	var state struct {
		Section string `json:"section"`
	}
	json.Unmarshal(out["nav"], &state)
	if state.Section != "state-news" {
		t.Errorf("section = %q", state.Section)
	}

	out = send(`{"type":"search","query":"growth"}`)
	var container string
	json.Unmarshal(out["container"], &container)
	if strings.Count(container, "<article") != 1 || !strings.Contains(container, "GDP growth") {
		t.Errorf("unexpected container: %s", container)
	}

	out = send(`{"type":"explode"}`)
	if _, ok := out["error"]; !ok {
		t.Error("expected error reply for unknown command")
	}
}
