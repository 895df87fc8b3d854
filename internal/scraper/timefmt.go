package scraper

import (
	"log"
	"strconv"
	"strings"
	"time"
)

// 统一输出的时间格式："YYYY-MM-DD HH:MM:SS UTC"
const newsTimeLayout = "2006-01-02 15:04:05"

// timeNow 可在测试中替换，用于固定相对时间的基准
var timeNow = time.Now

// FormatNewsTime 统一处理各交易所的时间文本，支持：
//  1. "2025-02-27"
//  2. "Published on Feb 20, 2025"
//  3. "2025-03-03 10:41"
//  4. "Feb 26, 2025"
//  5. "03/12/2025, 03:12:02"
//  6. "1 hours 6 min 16 sec ago" / "2 days ago" / "3 minutes ago"
//
// 解析失败返回空字符串，调用方保留该条新闻（时间未知也是合法状态）
func FormatNewsTime(newsTime string) string {
	newsTime = strings.TrimSpace(newsTime)
	if newsTime == "" {
		return ""
	}

	if strings.Contains(strings.ToLower(newsTime), "ago") {
		if out, ok := parseRelativeTime(newsTime); ok {
			return out
		}
		// 畸形的相对时间继续尝试其余规则
	}

	// 格式1: 2025-02-27
	if len(newsTime) == 10 {
		if t, err := time.Parse("2006-01-02", newsTime); err == nil {
			return t.Format("2006-01-02") + " 00:00:00 UTC"
		}
	}

	// 格式2: Published on Feb 20, 2025
	if strings.HasPrefix(newsTime, "Published on") {
		rest := strings.TrimSpace(strings.TrimPrefix(newsTime, "Published on"))
		if t, err := time.Parse("Jan 2, 2006", rest); err == nil {
			return t.Format("2006-01-02") + " 00:00:00 UTC"
		}
	}

	// 格式3: 2025-03-03 10:41
	if len(newsTime) > 10 {
		if t, err := time.Parse("2006-01-02 15:04", newsTime); err == nil {
			return t.Format("2006-01-02 15:04") + ":00 UTC"
		}
	}

	// 格式4: Feb 26, 2025
	if len(strings.Fields(newsTime)) == 3 {
		if t, err := time.Parse("Jan 2, 2006", newsTime); err == nil {
			return t.Format("2006-01-02") + " 00:00:00 UTC"
		}
	}

	// 格式5: 03/12/2025, 03:12:02
	if strings.Contains(newsTime, "/") && strings.Contains(newsTime, ",") {
		if t, err := time.Parse("01/02/2006, 15:04:05", newsTime); err == nil {
			return t.Format(newsTimeLayout) + " UTC"
		}
	}

	log.Printf("cannot parse news time: %q", newsTime)
	return ""
}

// parseRelativeTime 解析 "N <unit> ... ago" 形式的相对时间。
// 单词取前两个 token：数字 + 单位；"hours" 分支额外取 "N hours M min" 里的分钟数。
// 任何越界或非数字都返回 ok=false，交给后续规则处理。
func parseRelativeTime(newsTime string) (string, bool) {
	now := timeNow()
	parts := strings.Fields(strings.ToLower(newsTime))
	if len(parts) < 2 {
		return "", false
	}

	n, err := strconv.Atoi(parts[0])
	if err != nil {
		return "", false
	}

	var d time.Duration
	switch unit := parts[1]; {
	case strings.Contains(unit, "day"):
		d = time.Duration(n) * 24 * time.Hour
	case strings.Contains(unit, "hour"):
		d = time.Duration(n) * time.Hour
		// "1 hours 6 min 16 sec ago" 形式附带分钟，分钟位不是数字按畸形输入处理
		if len(parts) > 4 && strings.Contains(parts[3], "min") {
			m, err := strconv.Atoi(parts[2])
			if err != nil {
				return "", false
			}
			d += time.Duration(m) * time.Minute
		}
	case strings.Contains(unit, "minute"), strings.Contains(unit, "min"):
		d = time.Duration(n) * time.Minute
	case strings.Contains(unit, "second"), strings.Contains(unit, "sec"):
		d = time.Duration(n) * time.Second
	default:
		// 单位无法识别时退回当前时间
		return now.Format(newsTimeLayout) + " UTC", true
	}

	return now.Add(-d).Format(newsTimeLayout) + " UTC", true
}
