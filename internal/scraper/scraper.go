package scraper

import (
	"context"

	"github.com/samber/lo"
)

// Announcement 统一抓取后的上币公告结构
type Announcement struct {
	Title       string
	Link        string
	// Time 为规范化后的时间文本 "YYYY-MM-DD HH:MM:SS UTC"，解析失败时为空
	Time        string
	Source      string
	Description string
	Raw         map[string]any
}

// Scraper 抽象每一个交易所数据源
type Scraper interface {
	Name() string
	Fetch(ctx context.Context) ([]Announcement, error)
}

// uniqueByTitle 按标题去重，同标题保留最后一条（同一轮内后抓到的覆盖先抓到的）
func uniqueByTitle(items []Announcement) []Announcement {
	if len(items) == 0 {
		return items
	}
	last := lo.KeyBy(items, func(a Announcement) string { return a.Title })

	out := make([]Announcement, 0, len(last))
	seen := make(map[string]struct{}, len(last))
	for _, it := range items {
		if _, ok := seen[it.Title]; ok {
			continue
		}
		seen[it.Title] = struct{}{}
		out = append(out, last[it.Title])
	}
	return out
}
