package server

import (
	"time"

	"daily-updates/internal/news"
)

// NewsResponse represents the API response for news
type NewsResponse struct {
	Success  bool          `json:"success"`
	Data     []news.Item   `json:"data"`
	Count    int           `json:"count"`
	Mode     string        `json:"mode"`
	Criteria news.Criteria `json:"criteria"`
	Query    string        `json:"query,omitempty"`
}

// FiltersResponse lists the filters and navigation targets of the page
type FiltersResponse struct {
	Success  bool           `json:"success"`
	Subjects []news.Subject `json:"subjects"`
	States   []string       `json:"states"`
	Tabs     []string       `json:"tabs"`
	Sections []string       `json:"sections"`
}

// HealthResponse reports the service and data load status
type HealthResponse struct {
	Status    string    `json:"status"`
	Load      string    `json:"load"`
	Items     int       `json:"items"`
	Sessions  int       `json:"sessions"`
	Timestamp time.Time `json:"timestamp"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message"`
}
