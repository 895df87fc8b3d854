package scraper

import (
	"context"
	"errors"
	"log"
	"regexp"
	"strings"
	"time"

	"github.com/chromedp/cdproto/input"
	"github.com/chromedp/chromedp"
)

const (
	bybitPageURL     = "https://announcements.bybit.com/?category=new_crypto&page=1"
	bybitPageBaseURL = "https://announcements.bybit.com"

	bybitPageAttempts   = 5
	bybitPageNavTimeout = 90 * time.Second
	bybitBackoffInitial = 3 * time.Second
	bybitBackoffMax     = 15 * time.Second
)

// bybitPageScraper 渲染抓取 Bybit 公告页。Bybit 的反爬会直接拦截默认的
// 无头会话，这里关掉 headless、注入反检测脚本并模拟少量指针/滚动行为，
// 配合有限次数的递增退避重试，保证在有界时间内结束。
type bybitPageScraper struct {
	url      string
	attempts int
}

func newBybitPageScraper() *bybitPageScraper {
	return &bybitPageScraper{url: bybitPageURL, attempts: bybitPageAttempts}
}

// fetch 任何失败都只记日志并返回空列表，不向上层抛错
func (p *bybitPageScraper) fetch(ctx context.Context) []Announcement {
	log.Println("Bybit: falling back to stealth page scraping...")

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", false),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-setuid-sandbox", true),
		chromedp.Flag("disable-http2", true),
		chromedp.Flag("disable-cache", true),
		chromedp.Flag("disable-web-security", true),
		chromedp.Flag("hide-scrollbars", true),
		chromedp.Flag("disable-infobars", true),
		chromedp.UserAgent(browserUserAgent),
		chromedp.WindowSize(1920, 1080),
	)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	var html string
	var jsItems []bybitJSItem

	err := retryWithBackoff(ctx, p.attempts, bybitBackoffInitial, bybitBackoffMax, func(attempt int) error {
		log.Printf("Bybit: loading announcements page (attempt %d/%d)...", attempt+1, p.attempts)

		runCtx, cancel := context.WithTimeout(browserCtx, bybitPageNavTimeout)
		defer cancel()

		var pageHTML string
		var extracted []bybitJSItem
		if err := chromedp.Run(runCtx,
			injectStealthScript(),
			chromedp.Navigate(p.url),
			simulatePointer(),
			scrollDown(3),
			chromedp.Sleep(5*time.Second),
			chromedp.Evaluate(bybitExtractJS, &extracted),
			chromedp.OuterHTML("html", &pageHTML, chromedp.ByQuery),
		); err != nil {
			return err
		}
		if !strings.Contains(pageHTML, "article-list") {
			return errors.New("page loaded without article list")
		}
		html = pageHTML
		jsItems = extracted
		return nil
	})
	if err != nil {
		log.Printf("Bybit: stealth page scraping failed: %v", err)
		return nil
	}

	// 优先使用页面内 JS 提取的结果，失败时退回 DOM 解析，再退回正则匹配
	items := p.fromJSItems(jsItems)
	if len(items) == 0 {
		items = ExtractAnnouncements(html, bybitPageConfig())
	}
	if len(items) == 0 {
		items = p.extractWithRegexp(html)
	}
	return items
}

type bybitJSItem struct {
	Title string `json:"title"`
	Link  string `json:"link"`
	Time  string `json:"time"`
}

// bybitExtractJS 在页面内直接取列表数据，绕开部分混淆的 class 名
const bybitExtractJS = `(() => {
	const items = Array.from(document.querySelectorAll('div.article-list a'));
	return items.map(item => {
		const titleEl = item.querySelector('span');
		const timeEl = item.querySelector('div.article-item-date');
		return {
			title: titleEl ? titleEl.textContent.trim() : '',
			link: item.href || '',
			time: timeEl ? timeEl.textContent.trim() : 'No date found',
		};
	});
})()`

func (p *bybitPageScraper) fromJSItems(jsItems []bybitJSItem) []Announcement {
	items := make([]Announcement, 0, len(jsItems))
	for _, it := range jsItems {
		if it.Title == "" || it.Link == "" {
			continue
		}
		items = append(items, Announcement{
			Title:  it.Title,
			Link:   resolveLink(it.Link, bybitPageBaseURL),
			Time:   FormatNewsTime(it.Time),
			Source: "Bybit",
		})
	}
	return items
}

func bybitPageConfig() SiteConfig {
	return SiteConfig{
		Name:          "Bybit",
		BaseURL:       bybitPageBaseURL,
		ListSelector:  "div.article-list a",
		TitleSelector: "span",
		TimeSelector:  "div.article-item-date",
	}
}

// 正则兜底：DOM 结构被改名时按链接 + 首个 span 文本粗提取
var bybitAnchorRe = regexp.MustCompile(`(?s)<a[^>]+href="([^"]+)"[^>]*>(.*?)</a>`)
var bybitSpanRe = regexp.MustCompile(`(?s)<span[^>]*>([^<]+)</span>`)

func (p *bybitPageScraper) extractWithRegexp(html string) []Announcement {
	idx := strings.Index(html, "article-list")
	if idx < 0 {
		return nil
	}
	section := html[idx:]

	var items []Announcement
	for _, m := range bybitAnchorRe.FindAllStringSubmatch(section, -1) {
		if len(m) != 3 {
			continue
		}
		link := strings.TrimSpace(m[1])
		sm := bybitSpanRe.FindStringSubmatch(m[2])
		if sm == nil || link == "" {
			continue
		}
		title := strings.TrimSpace(sm[1])
		if title == "" {
			continue
		}
		items = append(items, Announcement{
			Title:  title,
			Link:   resolveLink(link, bybitPageBaseURL),
			Time:   FormatNewsTime(noDateFound),
			Source: "Bybit",
		})
	}
	return items
}

// simulatePointer 发送几个鼠标移动事件，规避行为检测
func simulatePointer() chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		points := [][2]float64{{100, 100}, {160, 140}, {200, 200}}
		for _, pt := range points {
			if err := input.DispatchMouseEvent(input.MouseMoved, pt[0], pt[1]).Do(ctx); err != nil {
				return err
			}
		}
		return nil
	})
}

// scrollDown 分段向下滚动页面，触发懒加载
func scrollDown(times int) chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		for i := 0; i < times; i++ {
			if err := chromedp.Evaluate(`window.scrollBy(0, 300)`, nil).Do(ctx); err != nil {
				return err
			}
			if err := chromedp.Sleep(time.Second).Do(ctx); err != nil {
				return err
			}
		}
		return nil
	})
}
