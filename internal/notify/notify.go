package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/xifengxx/tg-crypto-bot/internal/storage"
)

// Notifier 通知渠道抽象，Telegram 和飞书各自实现
type Notifier interface {
	Name() string
	SendBatch(ctx context.Context, items []storage.Announcement) error
}

// 单条消息的最大长度（按 rune 计），超出则拆成多条续发
const maxMessageRunes = 4000

const (
	batchHeaderFmt = "🔔 最新加密货币新闻 (%d条):\n\n"
	contHeader     = "🔔 最新加密货币新闻 (续):\n\n"
)

// BuildMessages 把一批公告渲染成若干条待发送的文本消息。
// 第一条带条数头，超长时按整条公告为边界拆分，续发消息带"续"头。
func BuildMessages(items []storage.Announcement) []string {
	if len(items) == 0 {
		return nil
	}

	var messages []string
	var b strings.Builder
	b.WriteString(fmt.Sprintf(batchHeaderFmt, len(items)))

	entriesInChunk := 0
	for _, it := range items {
		entry := formatEntry(it)
		if entriesInChunk > 0 && runeLen(b.String())+runeLen(entry) > maxMessageRunes {
			messages = append(messages, b.String())
			b.Reset()
			b.WriteString(contHeader)
			entriesInChunk = 0
		}
		// 单条公告自身就超长时硬截断，保证每条消息都在限制之内
		if room := maxMessageRunes - runeLen(b.String()); runeLen(entry) > room {
			entry = truncateRunes(entry, room)
		}
		b.WriteString(entry)
		entriesInChunk++
	}
	messages = append(messages, b.String())
	return messages
}

func formatEntry(it storage.Announcement) string {
	newsTime := it.NewsTime
	if newsTime == "" {
		newsTime = "未知时间"
	}
	source := it.Source
	if source == "" {
		source = storage.UnknownSource
	}
	return fmt.Sprintf("📌 %s\n🔗 %s\n📅 %s\n📰 来源: %s\n\n", it.Title, it.Link, newsTime, source)
}

func runeLen(s string) int {
	return len([]rune(s))
}

func truncateRunes(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	rs := []rune(s)
	if len(rs) <= limit {
		return s
	}
	return string(rs[:limit])
}
