package notify

import (
	"strings"
	"testing"

	"github.com/xifengxx/tg-crypto-bot/internal/storage"
)

func TestBuildMessagesEmpty(t *testing.T) {
	if got := BuildMessages(nil); got != nil {
		t.Fatalf("expected no messages, got %d", len(got))
	}
}

func TestBuildMessagesSingle(t *testing.T) {
	items := []storage.Announcement{
		{Title: "Binance Will List Foo (FOO)", Link: "https://binance.com/foo", NewsTime: "2025-02-27 00:00:00 UTC", Source: "Binance"},
		{Title: "OKX to list BAR", Link: "https://okx.com/bar", Source: "OKX"},
	}

	msgs := BuildMessages(items)
	if len(msgs) != 1 {
		t.Fatalf("messages = %d, want 1", len(msgs))
	}

	msg := msgs[0]
	if !strings.HasPrefix(msg, "🔔 最新加密货币新闻 (2条):\n\n") {
		t.Fatalf("missing count header: %q", msg[:50])
	}
	for _, want := range []string{
		"📌 Binance Will List Foo (FOO)",
		"🔗 https://binance.com/foo",
		"📅 2025-02-27 00:00:00 UTC",
		"📰 来源: Binance",
		"📅 未知时间", // 第二条没有时间
		"📰 来源: OKX",
	} {
		if !strings.Contains(msg, want) {
			t.Fatalf("message missing %q", want)
		}
	}
}

func TestBuildMessagesChunking(t *testing.T) {
	longTitle := strings.Repeat("x", 500)
	var items []storage.Announcement
	for i := 0; i < 20; i++ {
		items = append(items, storage.Announcement{
			Title:  longTitle,
			Link:   "https://example.com/a",
			Source: "Binance",
		})
	}

	msgs := BuildMessages(items)
	if len(msgs) < 2 {
		t.Fatalf("messages = %d, want at least 2", len(msgs))
	}

	for i, msg := range msgs {
		if n := len([]rune(msg)); n > 4000 {
			t.Fatalf("message %d has %d runes, want <= 4000", i, n)
		}
	}

	if !strings.HasPrefix(msgs[0], "🔔 最新加密货币新闻 (20条):\n\n") {
		t.Fatalf("first message header wrong")
	}
	for i, msg := range msgs[1:] {
		if !strings.HasPrefix(msg, "🔔 最新加密货币新闻 (续):\n\n") {
			t.Fatalf("continuation message %d missing header", i+1)
		}
	}

	// 拆分不丢公告
	total := 0
	for _, msg := range msgs {
		total += strings.Count(msg, "📌 ")
	}
	if total != len(items) {
		t.Fatalf("entries across messages = %d, want %d", total, len(items))
	}
}

func TestBuildMessagesOversizedSingleEntry(t *testing.T) {
	// 单条公告自身超出消息上限：截断而不是发出超长消息
	items := []storage.Announcement{{
		Title:  strings.Repeat("很", 5000),
		Link:   "https://example.com/a",
		Source: "Binance",
	}}

	msgs := BuildMessages(items)
	if len(msgs) != 1 {
		t.Fatalf("messages = %d, want 1", len(msgs))
	}
	if n := len([]rune(msgs[0])); n > 4000 {
		t.Fatalf("message has %d runes, want <= 4000", n)
	}
	if !strings.Contains(msgs[0], "📌 ") {
		t.Fatal("truncated message lost its entry")
	}
}
