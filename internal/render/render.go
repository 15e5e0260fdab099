// Package render turns news items into page markup.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"sync"

	"github.com/yuin/goldmark"

	"daily-updates/internal/nav"
	"daily-updates/internal/news"
)

//go:embed templates/*.html
var templateFS embed.FS

// Container holds the current contents of the news container.
type Container struct {
	html template.HTML
}

// Replace discards the previous contents.
func (c *Container) Replace(html template.HTML) {
	c.html = html
}

// HTML returns the current contents.
func (c *Container) HTML() template.HTML {
	return c.html
}

// Tab is a tab button and its content pane.
type Tab struct {
	ID    string
	Label string
	Body  string
}

// NavLink is a main navigation link pointing at a page section.
type NavLink struct {
	ID    string
	Label string
}

// PageData is everything the page template needs.
type PageData struct {
	SiteTitle string
	Nav       *nav.State
	Tabs      []Tab
	NavLinks  []NavLink
	Subjects  []news.Subject
	States    []string
	Criteria  news.Criteria
	Query     string
	Container template.HTML
	Flash     string
}

// Renderer renders news cards, empty-state messages and the page.
type Renderer struct {
	templates *template.Template
	markdown  goldmark.Markdown

	mu       sync.Mutex
	messages map[string]template.HTML
}

// New parses the embedded templates.
func New() (*Renderer, error) {
	tmpl, err := template.New("").ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}
	return &Renderer{
		templates: tmpl,
		markdown:  goldmark.New(),
		messages:  make(map[string]template.HTML),
	}, nil
}

// Render replaces the contents of dst with one card per item, or with
// empty when items is empty.
func (r *Renderer) Render(dst *Container, items []news.Item, empty Message) error {
	var buf bytes.Buffer
	if len(items) == 0 {
		msg, err := r.message(empty)
		if err != nil {
			return err
		}
		dst.Replace(msg)
		return nil
	}
	for _, item := range items {
		if err := r.templates.ExecuteTemplate(&buf, "card.html", item); err != nil {
			return fmt.Errorf("rendering card %q: %w", item.Title, err)
		}
	}
	dst.Replace(template.HTML(buf.String()))
	return nil
}

// RenderMessage replaces the contents of dst with msg alone.
func (r *Renderer) RenderMessage(dst *Container, msg Message) error {
	return r.Render(dst, nil, msg)
}

func (r *Renderer) message(msg Message) (template.HTML, error) {
	key := msg.Kind + "\x00" + msg.Text
	r.mu.Lock()
	defer r.mu.Unlock()
	if html, ok := r.messages[key]; ok {
		return html, nil
	}

	var body bytes.Buffer
	if err := r.markdown.Convert([]byte(msg.Text), &body); err != nil {
		return "", fmt.Errorf("converting message: %w", err)
	}
	var buf bytes.Buffer
	data := struct {
		Kind string
		Body template.HTML
	}{msg.Kind, template.HTML(body.String())}
	if err := r.templates.ExecuteTemplate(&buf, "message.html", data); err != nil {
		return "", fmt.Errorf("rendering message: %w", err)
	}

	html := template.HTML(buf.String())
	// search messages carry user text; only cache the fixed ones
	if msg.Kind != KindNoSearchResults {
		r.messages[key] = html
	}
	return html, nil
}

// Page writes the full page.
func (r *Renderer) Page(w io.Writer, data PageData) error {
	if err := r.templates.ExecuteTemplate(w, "page.html", data); err != nil {
		return fmt.Errorf("rendering page: %w", err)
	}
	return nil
}
