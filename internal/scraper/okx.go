package scraper

import "time"

// NewOKXScraper 抓取 OKX 新币上线公告区
func NewOKXScraper() *SiteScraper {
	return NewSiteScraper(SiteConfig{
		Name:          "OKX",
		URL:           "https://www.okx.com/help/section/announcements-new-listings",
		BaseURL:       "https://www.okx.com",
		WaitSelector:  "li.index_articleItem__d-8iK",
		ListSelector:  "li.index_articleItem__d-8iK",
		TitleSelector: "div.index_title__iTmos",
		LinkSelector:  "a[href]",
		TimeSelector:  "span[data-testid='DateDisplay']",
		Timeout:       60 * time.Second,
	})
}
