package scraper

import "time"

// NewKuCoinScraper 抓取 KuCoin 新币上线公告
func NewKuCoinScraper() *SiteScraper {
	return NewSiteScraper(SiteConfig{
		Name:          "KuCoin",
		URL:           "https://www.kucoin.com/announcement/new-listings",
		BaseURL:       "https://www.kucoin.com",
		WaitSelector:  "ul.kux-e8uvvx",
		ListSelector:  "ul.kux-e8uvvx > li",
		TitleSelector: "a span",
		LinkSelector:  "a[href]",
		TimeSelector:  "p.kux-q65diy",
		Timeout:       60 * time.Second,
	})
}
