package scraper

import (
	"log"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// SiteConfig 描述一个需要渲染页面的交易所：入口地址、等待条件与各字段的选择器。
// TitleSelector / LinkSelector 为空时退回条目自身（取条目文本 / 条目 href）。
type SiteConfig struct {
	Name          string
	URL           string
	BaseURL       string
	WaitSelector  string
	ListSelector  string
	TitleSelector string
	LinkSelector  string
	TimeSelector  string
	// 页面加载 + 选择器等待的总超时，各站点差异很大（观测范围 60s~240s）
	Timeout time.Duration
	// Stealth 为 true 时注入反自动化检测脚本并模拟少量用户行为
	Stealth bool
	// ExtraWait 首屏渲染后的额外等待时间，部分站点异步填充列表
	ExtraWait time.Duration
}

// 时间缺失时的占位文本，与下游展示约定一致
const noDateFound = "No date found"

// ExtractAnnouncements 按 SiteConfig 的选择器从渲染后的 HTML 中提取公告列表。
// 缺标题或缺链接的条目直接丢弃；时间文本交给 FormatNewsTime 统一规范化。
func ExtractAnnouncements(html string, cfg SiteConfig) []Announcement {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		log.Printf("%s: parse html: %v", cfg.Name, err)
		return nil
	}

	var items []Announcement
	doc.Find(cfg.ListSelector).Each(func(_ int, s *goquery.Selection) {
		title := itemTitle(s, cfg)
		link := itemLink(s, cfg)
		if title == "" || link == "" {
			log.Printf("%s: skip invalid item: title=%q link=%q", cfg.Name, title, link)
			return
		}

		rawTime := noDateFound
		if cfg.TimeSelector != "" {
			if t := strings.TrimSpace(s.Find(cfg.TimeSelector).First().Text()); t != "" {
				rawTime = t
			}
		}

		items = append(items, Announcement{
			Title:  title,
			Link:   link,
			Time:   FormatNewsTime(rawTime),
			Source: cfg.Name,
		})
	})
	return items
}

func itemTitle(s *goquery.Selection, cfg SiteConfig) string {
	sel := s
	if cfg.TitleSelector != "" {
		sel = s.Find(cfg.TitleSelector).First()
	}
	return strings.TrimSpace(sel.Text())
}

func itemLink(s *goquery.Selection, cfg SiteConfig) string {
	sel := s
	if cfg.LinkSelector != "" {
		sel = s.Find(cfg.LinkSelector).First()
	}
	href, ok := sel.Attr("href")
	if !ok {
		return ""
	}
	return resolveLink(strings.TrimSpace(href), cfg.BaseURL)
}

// resolveLink 相对路径拼上站点根地址，绝对地址原样返回
func resolveLink(href, baseURL string) string {
	if href == "" {
		return ""
	}
	if strings.HasPrefix(href, "http") {
		return href
	}
	return baseURL + href
}
