package main

import (
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"

	"daily-updates/internal/news"
)

// options configures one scrape run
type options struct {
	URL          string
	Domains      []string
	Selector     string
	SourceName   string
	SubjectKey   string
	SubjectLabel string
	State        string
	Limit        int
	Delay        time.Duration
	Summaries    bool
	UserAgent    string
}

const maxSummaryRunes = 300

// scraper builds news items from a listing page
type scraper struct {
	opts   options
	client *http.Client
}

func newScraper(opts options) *scraper {
	return &scraper{
		opts:   opts,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// scrape collects up to Limit items from the listing page
func (s *scraper) scrape() ([]news.Item, error) {
	items := []news.Item{}
	seen := make(map[string]bool)

	collectorOpts := []colly.CollectorOption{
		colly.UserAgent(s.opts.UserAgent),
		colly.MaxDepth(1),
	}
	if len(s.opts.Domains) > 0 {
		collectorOpts = append(collectorOpts, colly.AllowedDomains(s.opts.Domains...))
	}
	c := colly.NewCollector(collectorOpts...)

	// Add rate limiting to avoid server blocks
	if s.opts.Delay > 0 {
		if err := c.Limit(&colly.LimitRule{
			DomainGlob:  "*",
			Delay:       s.opts.Delay,
			RandomDelay: s.opts.Delay / 2,
		}); err != nil {
			return nil, fmt.Errorf("setting rate limit: %w", err)
		}
	}

	c.OnHTML(s.opts.Selector, func(e *colly.HTMLElement) {
		if s.opts.Limit > 0 && len(items) >= s.opts.Limit {
			return
		}

		// Extract title - get only the first/main title
		var title string
		for _, selector := range []string{"h1", "h2", "h3", "h4", ".title", ".headline"} {
			title = cleanText(e.ChildText(selector))
			if title != "" {
				break
			}
		}
		if title == "" {
			return
		}

		link := e.ChildAttr("a", "href")
		if link == "" {
			return
		}
		link = e.Request.AbsoluteURL(link)
		if link == "" || seen[link] {
			return
		}
		seen[link] = true

		summary := cleanText(e.ChildText("p, .summary, .intro, .excerpt, .description"))

		items = append(items, news.Item{
			Title:        title,
			Summary:      truncate(summary, maxSummaryRunes),
			Source:       s.opts.SourceName,
			Link:         link,
			SubjectKey:   s.opts.SubjectKey,
			SubjectHindi: s.opts.SubjectLabel,
			StateName:    s.opts.State,
		})
	})

	c.OnError(func(r *colly.Response, err error) {
		log.Printf("Error: %v, Status Code: %d", err, r.StatusCode)
	})

	if err := c.Visit(s.opts.URL); err != nil {
		return nil, fmt.Errorf("failed to visit: %w", err)
	}
	c.Wait()

	if s.opts.Summaries {
		s.fillSummaries(items)
	}
	return items, nil
}

// fillSummaries fetches the article page for items without a summary
func (s *scraper) fillSummaries(items []news.Item) {
	for i := range items {
		if items[i].Summary != "" {
			continue
		}
		summary, err := s.summaryFromURL(items[i].Link)
		if err != nil {
			log.Printf("Error scraping summary: %v", err)
			continue
		}
		items[i].Summary = truncate(summary, maxSummaryRunes)
		if s.opts.Delay > 0 {
			time.Sleep(s.opts.Delay)
		}
	}
}

// summaryFromURL extracts a description from the given webpage
func (s *scraper) summaryFromURL(url string) (string, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", s.opts.UserAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch URL %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	for _, selector := range []string{"meta[name='description']", "meta[property='og:description']"} {
		if content, ok := doc.Find(selector).First().Attr("content"); ok {
			if content = cleanText(content); content != "" {
				return content, nil
			}
		}
	}

	// Fallback: the first paragraph of the article body
	if text := cleanText(doc.Find("article p").First().Text()); text != "" {
		return text, nil
	}
	return "", fmt.Errorf("no summary found on page: %s", url)
}

// cleanText collapses whitespace and newlines
func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
