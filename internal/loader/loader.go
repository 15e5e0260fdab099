// Package loader reads the news collection from its data source.
package loader

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"strings"
	"time"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"daily-updates/internal/news"
)

var (
	// ErrStatus is returned when an HTTP source answers with a non-2xx status.
	ErrStatus = errors.New("unexpected status")

	// ErrMissingNews is returned when the document has no top_news field.
	ErrMissingNews = errors.New("document has no top_news field")
)

// Loader fetches the news document from a file path or URL.
type Loader struct {
	source    string
	userAgent string
	client    *http.Client
}

// New creates a loader for source. A zero timeout means no timeout.
func New(source, userAgent string, timeout time.Duration) *Loader {
	return &Loader{
		source:    source,
		userAgent: userAgent,
		client:    &http.Client{Timeout: timeout},
	}
}

// Source returns the configured source.
func (l *Loader) Source() string {
	return l.source
}

// Load reads and decodes the whole collection. Nothing is returned on
// error.
func (l *Loader) Load(ctx context.Context) (news.Collection, error) {
	var (
		data []byte
		err  error
	)
	if isURL(l.source) {
		data, err = l.fetch(ctx)
	} else {
		data, err = os.ReadFile(l.source)
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", l.source, err)
	}

	collection, err := Decode(data, formatOf(l.source))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", l.source, err)
	}
	return collection, nil
}

func (l *Loader) fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.source, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if l.userAgent != "" {
		req.Header.Set("User-Agent", l.userAgent)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %d", ErrStatus, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// Format is the encoding of a data document.
type Format int

const (
	// JSON documents may contain comments and trailing commas.
	JSON Format = iota
	YAML
)

// Decode parses a data document and returns its news collection.
func Decode(data []byte, format Format) (news.Collection, error) {
	var doc news.Document
	switch format {
	case YAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parsing yaml: %w", err)
		}
	default:
		if err := json.Unmarshal(jsonc.ToJSON(data), &doc); err != nil {
			return nil, fmt.Errorf("parsing json: %w", err)
		}
	}
	if doc.TopNews == nil {
		return nil, ErrMissingNews
	}
	return doc.TopNews, nil
}

func isURL(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

func formatOf(source string) Format {
	p := source
	if isURL(source) {
		// drop query and fragment
		if i := strings.IndexAny(p, "?#"); i >= 0 {
			p = p[:i]
		}
	}
	switch strings.ToLower(path.Ext(p)) {
	case ".yaml", ".yml":
		return YAML
	default:
		return JSON
	}
}
