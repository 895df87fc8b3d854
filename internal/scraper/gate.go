package scraper

import "time"

// NewGateScraper 抓取 Gate.io 新币上线公告。启动与加载都慢，超时放宽到 120s。
func NewGateScraper() *SiteScraper {
	return NewSiteScraper(SiteConfig{
		Name:          "Gate.io",
		URL:           "https://www.gate.io/announcements/newlisted",
		BaseURL:       "https://www.gate.io",
		WaitSelector:  "div.article-list-box",
		ListSelector:  "div.article-list-item",
		TitleSelector: "span.overflow-ellipsis.article-list-item-title-con",
		LinkSelector:  "a[href]",
		TimeSelector:  "span.article-list-info-timer",
		Timeout:       120 * time.Second,
		Stealth:       true,
		ExtraWait:     5 * time.Second,
	})
}
