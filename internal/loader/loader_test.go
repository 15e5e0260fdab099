package loader

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"
)

const jsonDoc = `{
  // hand-edited data file
  "top_news": [
    {"title": "A", "summary": "s", "source": "PIB", "link": "https://example.com/a",
     "subject_key": "eco", "subject_hindi": "अर्थव्यवस्था", "state_name": ""},
    {"title": "B", "summary": "s", "source": "ECI", "link": "https://example.com/b",
     "subject_key": "pol", "subject_hindi": "राजनीति", "state_name": "Bihar"},
  ]
}`

const yamlDoc = `top_news:
  - title: A
    subject_key: eco
    subject_hindi: अर्थव्यवस्था
  - title: B
    subject_key: pol
    subject_hindi: राजनीति
    state_name: Bihar
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return p
}

func TestLoadFile(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"jsonc", "data.json", jsonDoc},
		{"yaml", "data.yaml", yamlDoc},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := New(writeFile(t, tt.file, tt.content), "", time.Second)
			c, err := l.Load(context.Background())
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			if len(c) != 2 {
				t.Fatalf("expected 2 items, got %d", len(c))
			}
			if c[0].Title != "A" || c[1].StateName != "Bihar" {
				t.Errorf("unexpected items: %+v", c)
			}
			if c[0].HasState() {
				t.Error("first item should not be region-specific")
			}
		})
	}
}

func TestLoadFileErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{"malformed", `{"top_news": [`, nil},
		{"missing field", `{"news": []}`, ErrMissingNews},
		{"null field", `{"top_news": null}`, ErrMissingNews},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := New(writeFile(t, "data.json", tt.content), "", time.Second)
			c, err := l.Load(context.Background())
			if err == nil {
				t.Fatal("expected error")
			}
			if c != nil {
				t.Errorf("expected no partial load, got %d items", len(c))
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}

	l := New(filepath.Join(t.TempDir(), "missing.json"), "", time.Second)
	if _, err := l.Load(context.Background()); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}

func TestLoadEmptyList(t *testing.T) {
	l := New(writeFile(t, "data.json", `{"top_news": []}`), "", time.Second)
	c, err := l.Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(c) != 0 {
		t.Errorf("expected empty collection, got %d", len(c))
	}
}

func TestLoadHTTP(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		switch r.URL.Path {
		case "/data.json":
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(jsonDoc))
		case "/data.yml":
			w.Write([]byte(yamlDoc))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	for _, p := range []string{"/data.json", "/data.yml?v=2"} {
		l := New(srv.URL+p, "daily-updates-test", time.Second)
		c, err := l.Load(context.Background())
		if err != nil {
			t.Fatalf("%s: Load failed: %v", p, err)
		}
		if len(c) != 2 {
			t.Errorf("%s: expected 2 items, got %d", p, len(c))
		}
	}
	if gotUA != "daily-updates-test" {
		t.Errorf("User-Agent = %q", gotUA)
	}

	l := New(srv.URL+"/nope.json", "", time.Second)
	if _, err := l.Load(context.Background()); !errors.Is(err, ErrStatus) {
		t.Errorf("expected ErrStatus, got %v", err)
	}
}

func TestLoadHTTPUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL + "/data.json"
	srv.Close()

	l := New(url, "", time.Second)
	if _, err := l.Load(context.Background()); err == nil {
		t.Error("expected error for closed server")
	}
}

func TestFormatOf(t *testing.T) {
	tests := map[string]Format{
		"data.json":                        JSON,
		"data.YAML":                        YAML,
		"/srv/news/data.yml":               YAML,
		"https://example.com/data.yml?x=1": YAML,
		"https://example.com/feed":         JSON,
	}
	for source, want := range tests {
		if got := formatOf(source); got != want {
			t.Errorf("formatOf(%q) = %v, want %v", source, got, want)
		}
	}
}
