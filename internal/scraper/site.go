package scraper

import (
	"context"
	"log"
)

// SiteScraper 基于声明式 SiteConfig 的渲染页抓取器，各交易所只差配置不差流程
type SiteScraper struct {
	cfg SiteConfig
}

func NewSiteScraper(cfg SiteConfig) *SiteScraper {
	return &SiteScraper{cfg: cfg}
}

func (s *SiteScraper) Name() string {
	return s.cfg.Name
}

// Fetch 渲染页面并按配置提取公告。渲染失败时退回无头 HTTP 抓取
// （部分站点对普通请求也返回服务端渲染的列表），仍失败则返回空列表。
func (s *SiteScraper) Fetch(ctx context.Context) ([]Announcement, error) {
	log.Printf("fetch %s announcements...", s.cfg.Name)

	html, err := fetchRenderedHTML(ctx, s.cfg)
	if err != nil {
		log.Printf("%s: render page: %v, trying static fetch", s.cfg.Name, err)
		html = fetchStaticHTML(s.cfg)
	}
	if html == "" {
		log.Printf("%s: no page content, giving up this round", s.cfg.Name)
		return nil, nil
	}

	items := ExtractAnnouncements(html, s.cfg)
	unique := uniqueByTitle(items)
	log.Printf("%s: fetched %d items, %d after title dedupe", s.cfg.Name, len(items), len(unique))
	return unique, nil
}
