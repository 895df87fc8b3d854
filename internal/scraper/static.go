package scraper

import (
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"
)

const staticFetchTimeout = 20 * time.Second

// fetchStaticHTML 不经浏览器直接 GET 页面 HTML，作为渲染会话失败后的备用路径。
// 拿不到内容时返回空串，由调用方决定放弃本轮。
func fetchStaticHTML(cfg SiteConfig) string {
	host := hostOf(cfg.URL)
	if host == "" {
		return ""
	}

	bare := strings.TrimPrefix(host, "www.")
	c := colly.NewCollector(
		colly.AllowedDomains(bare, "www."+bare),
		colly.UserAgent(browserUserAgent),
	)
	c.SetRequestTimeout(staticFetchTimeout)

	var html string
	c.OnResponse(func(r *colly.Response) {
		html = string(r.Body)
	})

	if err := c.Visit(cfg.URL); err != nil {
		log.Printf("%s: static fetch: %v", cfg.Name, err)
		return ""
	}
	return html
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Hostname()
}
