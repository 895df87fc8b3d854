package scraper

import "time"

// NewBitgetScraper 抓取 Bitget 上币公告（现货与合约混排在同一列表）。
// 页面加载偏慢，等待放宽到 90s。
func NewBitgetScraper() *SiteScraper {
	return NewSiteScraper(SiteConfig{
		Name:          "Bitget",
		URL:           "https://www.bitget.com/support/categories/11865590960081",
		BaseURL:       "https://www.bitget.com",
		WaitSelector:  "section.ArticleList_item_pair__vmMrx",
		ListSelector:  "section.ArticleList_item_pair__vmMrx",
		TitleSelector: "span.ArticleList_item_title__u3fLL",
		LinkSelector:  "span.ArticleList_item_title__u3fLL a",
		TimeSelector:  "div.ArticleList_item_date__nEqio",
		Timeout:       90 * time.Second,
	})
}
