// Command scrape builds a news data document from a listing page.
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	flag "github.com/spf13/pflag"

	"daily-updates/internal/news"
)

func main() {
	var (
		opts options
		out  string
	)
	flag.StringVar(&opts.URL, "url", "", "listing page to scrape (required)")
	flag.StringSliceVar(&opts.Domains, "domain", nil, "allowed domains (repeatable; default any)")
	flag.StringVar(&opts.Selector, "selector", "article, .story, .news-item, .card, .teaser", "article container selector")
	flag.StringVar(&opts.SourceName, "source", "", "source name shown on every card")
	flag.StringVar(&opts.SubjectKey, "subject-key", "", "subject key for every item (required)")
	flag.StringVar(&opts.SubjectLabel, "subject-label", "", "subject display label")
	flag.StringVar(&opts.State, "state", "", "state name for region-specific items")
	flag.IntVar(&opts.Limit, "limit", 10, "maximum number of items (0 for no limit)")
	flag.DurationVar(&opts.Delay, "delay", 2*time.Second, "delay between requests")
	flag.BoolVar(&opts.Summaries, "summaries", true, "fetch article pages for missing summaries")
	flag.StringVar(&opts.UserAgent, "user-agent", "Mozilla/5.0 (compatible; daily-updates-scraper/1.0)", "HTTP User-Agent")
	flag.StringVarP(&out, "out", "o", "-", "output file, - for stdout")
	flag.Parse()

	if opts.URL == "" || opts.SubjectKey == "" {
		flag.Usage()
		os.Exit(2)
	}
	if opts.SubjectLabel == "" {
		opts.SubjectLabel = opts.SubjectKey
	}

	items, err := newScraper(opts).scrape()
	if err != nil {
		log.Fatalf("Scrape failed: %v", err)
	}

	// Output JSON document
	jsonData, err := json.MarshalIndent(news.Document{TopNews: items}, "", "  ")
	if err != nil {
		log.Fatalf("Error marshaling JSON: %v", err)
	}

	if out == "-" {
		fmt.Println(string(jsonData))
		return
	}
	if err := os.WriteFile(out, append(jsonData, '\n'), 0o644); err != nil {
		log.Fatalf("Error writing %s: %v", out, err)
	}
	log.Printf("Wrote %d items to %s", len(items), out)
}
