// Package config provides configuration loading for the news portal
// using TOML with environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"

	"daily-updates/internal/nav"
	"daily-updates/internal/news"
)

// Server settings
type Server struct {
	Addr         string   `toml:"addr"`
	SiteTitle    string   `toml:"site_title"`
	AllowOrigins []string `toml:"allow_origins"` // empty allows all
}

// Data source settings
type Data struct {
	Source         string `toml:"source"` // file path or http(s) URL
	UserAgent      string `toml:"user_agent"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Tab is a tab button and its pane text
type Tab struct {
	ID    string `toml:"id"`
	Label string `toml:"label"`
	Body  string `toml:"body"`
}

// Section is a main navigation link
type Section struct {
	ID    string `toml:"id"`
	Label string `toml:"label"`
}

// Page layout settings
type Page struct {
	Tabs            []Tab          `toml:"tabs"`
	DefaultTab      string         `toml:"default_tab"`
	Sections        []Section      `toml:"sections"`
	DefaultSection  string         `toml:"default_section"`
	Subjects        []news.Subject `toml:"subjects"` // empty: derived from the data
	States          []string       `toml:"states"`   // empty: derived from the data
	ScrollLookAhead int            `toml:"scroll_look_ahead"`
	MenuBreakpoint  int            `toml:"menu_breakpoint"`
}

// Config is the main configuration struct
type Config struct {
	Server Server `toml:"server"`
	Data   Data   `toml:"data"`
	Page   Page   `toml:"page"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Server: Server{
			Addr:      ":8080",
			SiteTitle: "दैनिक अपडेट",
		},
		Data: Data{
			Source:         "data.json",
			UserAgent:      "daily-updates/1.0",
			TimeoutSeconds: 30,
		},
		Page: Page{
			Tabs: []Tab{
				{ID: nav.TopNews, Label: "प्रमुख समाचार"},
				{ID: "editorial", Label: "संपादकीय", Body: "आज के प्रमुख संपादकीय का विश्लेषण जल्द उपलब्ध होगा।"},
				{ID: "schemes", Label: "सरकारी योजनाएँ", Body: "केंद्र और राज्य सरकार की योजनाओं की जानकारी।"},
			},
			DefaultTab: nav.TopNews,
			Sections: []Section{
				{ID: nav.DailyUpdates, Label: "दैनिक अपडेट"},
				{ID: "state-news", Label: "राज्य समाचार"},
				{ID: "quiz", Label: "क्विज़"},
				{ID: "contact", Label: "संपर्क"},
			},
			DefaultSection:  nav.DailyUpdates,
			ScrollLookAhead: nav.DefaultLookAhead,
			MenuBreakpoint:  nav.DefaultMenuBreakpoint,
		},
	}
}

// Load layers the TOML file at path (if any) and then the environment
// on top of the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv("NEWS_CONFIG")
	}
	if path != "" {
		fileCfg, err := loadFromTOML(path)
		if err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", path, err)
		}
		cfg = merge(cfg, fileCfg)
	}

	cfg.Server.Addr = getEnv("NEWS_ADDR", cfg.Server.Addr)
	cfg.Data.Source = getEnv("NEWS_DATA_SOURCE", cfg.Data.Source)
	cfg.Data.TimeoutSeconds = getEnvAsInt("NEWS_FETCH_TIMEOUT", cfg.Data.TimeoutSeconds)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadFromTOML loads a TOML config file and returns the config.
func loadFromTOML(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config TOML: %w", err)
	}
	return &cfg, nil
}

// merge layers user config on top of defaults.
// Only non-zero values from user config override defaults.
func merge(defaults, user *Config) *Config {
	result := *defaults

	mergeString(&result.Server.Addr, user.Server.Addr)
	mergeString(&result.Server.SiteTitle, user.Server.SiteTitle)
	if len(user.Server.AllowOrigins) > 0 {
		result.Server.AllowOrigins = user.Server.AllowOrigins
	}

	mergeString(&result.Data.Source, user.Data.Source)
	mergeString(&result.Data.UserAgent, user.Data.UserAgent)
	if user.Data.TimeoutSeconds > 0 {
		result.Data.TimeoutSeconds = user.Data.TimeoutSeconds
	}

	if len(user.Page.Tabs) > 0 {
		result.Page.Tabs = user.Page.Tabs
	}
	mergeString(&result.Page.DefaultTab, user.Page.DefaultTab)
	if len(user.Page.Sections) > 0 {
		result.Page.Sections = user.Page.Sections
	}
	mergeString(&result.Page.DefaultSection, user.Page.DefaultSection)
	if len(user.Page.Subjects) > 0 {
		result.Page.Subjects = user.Page.Subjects
	}
	if len(user.Page.States) > 0 {
		result.Page.States = user.Page.States
	}
	if user.Page.ScrollLookAhead > 0 {
		result.Page.ScrollLookAhead = user.Page.ScrollLookAhead
	}
	if user.Page.MenuBreakpoint > 0 {
		result.Page.MenuBreakpoint = user.Page.MenuBreakpoint
	}

	return &result
}

func mergeString(dst *string, src string) {
	if src != "" {
		*dst = src
	}
}

// Validate checks that the page layout is self-consistent.
func (c *Config) Validate() error {
	if len(c.Page.Tabs) == 0 {
		return errors.New("config: at least one tab is required")
	}
	if !hasTab(c.Page.Tabs, nav.TopNews) {
		return fmt.Errorf("config: the %q tab is required", nav.TopNews)
	}
	if !hasTab(c.Page.Tabs, c.Page.DefaultTab) {
		return fmt.Errorf("config: default tab %q is not a configured tab", c.Page.DefaultTab)
	}
	if c.Data.Source == "" {
		return errors.New("config: data source is required")
	}
	return nil
}

func hasTab(tabs []Tab, id string) bool {
	for _, tab := range tabs {
		if tab.ID == id {
			return true
		}
	}
	return false
}

// Timeout returns the data fetch timeout.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.Data.TimeoutSeconds) * time.Second
}

// Catalogue returns the tab and section ids for navigation state.
func (c *Config) Catalogue() nav.Catalogue {
	cat := nav.Catalogue{
		DefaultTab:     c.Page.DefaultTab,
		DefaultSection: c.Page.DefaultSection,
		LookAhead:      c.Page.ScrollLookAhead,
		MenuBreakpoint: c.Page.MenuBreakpoint,
	}
	for _, tab := range c.Page.Tabs {
		cat.Tabs = append(cat.Tabs, tab.ID)
	}
	for _, section := range c.Page.Sections {
		cat.Sections = append(cat.Sections, section.ID)
	}
	return cat
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
