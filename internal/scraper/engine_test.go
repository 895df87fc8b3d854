package scraper

import (
	"testing"
)

const sampleListHTML = `
<html><body>
  <ul class="news">
    <li class="item">
      <h3 class="t">Binance Will List Foo (FOO)</h3>
      <a href="/en/support/announcement/foo">more</a>
      <span class="d">2025-02-27</span>
    </li>
    <li class="item">
      <h3 class="t">Binance Will List Bar (BAR)</h3>
      <a href="https://www.binance.com/en/support/announcement/bar">more</a>
      <span class="d">some unparsable date</span>
    </li>
    <li class="item">
      <h3 class="t"></h3>
      <a href="/en/support/announcement/empty">more</a>
    </li>
    <li class="item">
      <h3 class="t">No link here</h3>
    </li>
  </ul>
</body></html>`

func TestExtractAnnouncements(t *testing.T) {
	cfg := SiteConfig{
		Name:          "Binance",
		BaseURL:       "https://www.binance.com",
		ListSelector:  "li.item",
		TitleSelector: "h3.t",
		LinkSelector:  "a[href]",
		TimeSelector:  "span.d",
	}

	items := ExtractAnnouncements(sampleListHTML, cfg)
	if len(items) != 2 {
		t.Fatalf("items = %d, want 2 (invalid entries dropped)", len(items))
	}

	first := items[0]
	if first.Title != "Binance Will List Foo (FOO)" {
		t.Errorf("title = %q", first.Title)
	}
	if first.Link != "https://www.binance.com/en/support/announcement/foo" {
		t.Errorf("relative link not resolved: %q", first.Link)
	}
	if first.Time != "2025-02-27 00:00:00 UTC" {
		t.Errorf("time = %q", first.Time)
	}
	if first.Source != "Binance" {
		t.Errorf("source = %q", first.Source)
	}

	second := items[1]
	if second.Link != "https://www.binance.com/en/support/announcement/bar" {
		t.Errorf("absolute link rewritten: %q", second.Link)
	}
	if second.Time != "" {
		t.Errorf("unparsable date should yield empty time, got %q", second.Time)
	}
}

func TestExtractAnnouncementsFallbackSelectors(t *testing.T) {
	// 标题/链接选择器为空时退回条目自身
	html := `<div><a class="row" href="/n/1">Listing Baz</a></div>`
	cfg := SiteConfig{
		Name:         "OKX",
		BaseURL:      "https://www.okx.com",
		ListSelector: "a.row",
	}

	items := ExtractAnnouncements(html, cfg)
	if len(items) != 1 {
		t.Fatalf("items = %d, want 1", len(items))
	}
	if items[0].Title != "Listing Baz" {
		t.Errorf("title = %q", items[0].Title)
	}
	if items[0].Link != "https://www.okx.com/n/1" {
		t.Errorf("link = %q", items[0].Link)
	}
	if items[0].Time != "" {
		t.Errorf("no time selector should yield empty time, got %q", items[0].Time)
	}
}

func TestExtractAnnouncementsEmptyDocument(t *testing.T) {
	items := ExtractAnnouncements("<html></html>", SiteConfig{Name: "Gate", ListSelector: "div.x"})
	if len(items) != 0 {
		t.Fatalf("items = %d, want 0", len(items))
	}
}

func TestResolveLink(t *testing.T) {
	cases := []struct {
		href, base, want string
	}{
		{"/a/b", "https://x.com", "https://x.com/a/b"},
		{"https://y.com/z", "https://x.com", "https://y.com/z"},
		{"http://y.com/z", "https://x.com", "http://y.com/z"},
		{"", "https://x.com", ""},
	}
	for _, tc := range cases {
		if got := resolveLink(tc.href, tc.base); got != tc.want {
			t.Errorf("resolveLink(%q, %q) = %q, want %q", tc.href, tc.base, got, tc.want)
		}
	}
}

func TestUniqueByTitle(t *testing.T) {
	items := []Announcement{
		{Title: "A", Link: "first"},
		{Title: "B", Link: "only"},
		{Title: "A", Link: "last"},
	}

	out := uniqueByTitle(items)
	if len(out) != 2 {
		t.Fatalf("unique items = %d, want 2", len(out))
	}
	// 顺序按首次出现，内容取最后一次
	if out[0].Title != "A" || out[0].Link != "last" {
		t.Errorf("out[0] = %+v, want title A with last link", out[0])
	}
	if out[1].Title != "B" {
		t.Errorf("out[1] = %+v", out[1])
	}
}
