package scraper

import "time"

// NewBinanceScraper 抓取 Binance 新币公告列表页。
// Binance 带验证码延迟加载，超时放宽到 120s，且需要反自动化检测处理。
func NewBinanceScraper() *SiteScraper {
	return NewSiteScraper(SiteConfig{
		Name:          "Binance",
		URL:           "https://www.binance.com/en/support/announcement/c-48",
		BaseURL:       "https://www.binance.com",
		WaitSelector:  "div.bn-flex.flex-col.py-6",
		ListSelector:  "div.bn-flex a.text-PrimaryText",
		TitleSelector: "h3.typography-body1-1",
		TimeSelector:  "div.typography-caption1",
		Timeout:       120 * time.Second,
		Stealth:       true,
		ExtraWait:     5 * time.Second,
	})
}
