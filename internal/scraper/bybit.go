package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const (
	bybitAPIURL    = "https://api.bybit.com/v5/announcements/index"
	bybitMirrorURL = "https://api.bytick.com/v5/announcements/index"

	bybitClientTimeout    = 60 * time.Second
	bybitMaxResponseBytes = 1 << 20 // 1MB
	bybitPageLimit        = 20
)

// BybitScraper 走 Bybit 官方公告 API（网页版反爬过于激进，API 更稳定）。
// 主站超时或网络错误时改走 bytick 镜像域名重试一次；两边都失败再退回
// 反检测渲染抓取，最终仍失败则返回空列表。
type BybitScraper struct {
	endpoints []string
	client    *http.Client
	// pageFallback 为 nil 时跳过渲染兜底（测试里关闭）
	pageFallback *bybitPageScraper
}

func NewBybitScraper() *BybitScraper {
	return &BybitScraper{
		endpoints:    []string{bybitAPIURL, bybitMirrorURL},
		client:       &http.Client{Timeout: bybitClientTimeout},
		pageFallback: newBybitPageScraper(),
	}
}

func (b *BybitScraper) Name() string {
	return "Bybit"
}

func (b *BybitScraper) Fetch(ctx context.Context) ([]Announcement, error) {
	log.Println("fetch Bybit announcements via official API...")

	var items []Announcement
	for i, endpoint := range b.endpoints {
		list, err := b.fetchFrom(ctx, endpoint)
		if err == nil {
			items = list
			break
		}
		if i < len(b.endpoints)-1 {
			log.Printf("Bybit: endpoint %s failed: %v, trying mirror", endpoint, err)
			continue
		}
		log.Printf("Bybit: all API endpoints failed: %v", err)
	}

	if len(items) == 0 && b.pageFallback != nil {
		items = b.pageFallback.fetch(ctx)
	}

	unique := uniqueByTitle(items)
	log.Printf("Bybit: fetched %d items, %d after title dedupe", len(items), len(unique))
	return unique, nil
}

// v5/announcements/index 响应结构（官方文档）
type bybitAPIResp struct {
	RetCode int    `json:"retCode"`
	RetMsg  string `json:"retMsg"`
	Result  struct {
		Total int `json:"total"`
		List  []struct {
			Title       string `json:"title"`
			Description string `json:"description"`
			URL         string `json:"url"`
			PublishTime int64  `json:"publishTime"`
		} `json:"list"`
	} `json:"result"`
}

func (b *BybitScraper) fetchFrom(ctx context.Context, endpoint string) ([]Announcement, error) {
	q := url.Values{}
	q.Set("locale", "en-US")
	q.Set("type", "new_crypto")
	q.Set("page", "1")
	q.Set("limit", strconv.Itoa(bybitPageLimit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", browserUserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bybit: unexpected status %d", resp.StatusCode)
	}

	var data bybitAPIResp
	if err := json.NewDecoder(io.LimitReader(resp.Body, bybitMaxResponseBytes)).Decode(&data); err != nil {
		return nil, fmt.Errorf("bybit: decode response: %w", err)
	}
	if data.RetCode != 0 {
		return nil, fmt.Errorf("bybit: api error: %s", data.RetMsg)
	}

	items := make([]Announcement, 0, len(data.Result.List))
	for _, it := range data.Result.List {
		if it.Title == "" {
			continue
		}
		items = append(items, Announcement{
			Title:       it.Title,
			Link:        it.URL,
			Time:        formatBybitPublishTime(it.PublishTime),
			Source:      "Bybit",
			Description: it.Description,
			Raw: map[string]any{
				"publishTime": it.PublishTime,
			},
		})
	}
	return items, nil
}

// formatBybitPublishTime API 返回毫秒级时间戳，统一格式化为 UTC 文本；
// 缺失时退回当前时间，保证下游总有可展示的时间
func formatBybitPublishTime(ms int64) string {
	if ms <= 0 {
		return timeNow().UTC().Format(newsTimeLayout) + " UTC"
	}
	return time.UnixMilli(ms).UTC().Format(newsTimeLayout) + " UTC"
}
