package storage

import (
	"log"
	"sort"
	"sync"
	"time"

	"gorm.io/datatypes"

	"github.com/xifengxx/tg-crypto-bot/internal/scraper"
)

// Memory 进程内存储：数据库不可用时的兜底实现，进程退出即失效。
// 写入语义与 Store 保持一致，保证上层逻辑无需区分两种后端。
type Memory struct {
	mu     sync.Mutex
	rows   map[string]*Announcement
	nextID uint
}

var _ Backend = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{rows: make(map[string]*Announcement)}
}

func (m *Memory) SaveAnnouncements(items []scraper.Announcement) (int, error) {
	if len(items) == 0 {
		log.Println("no announcements to store")
		return 0, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	newCount := 0
	seen := make(map[string]struct{}, len(items))
	now := time.Now()

	for _, it := range items {
		title := truncateRunesDB(toValidUTF8(it.Title), 512)
		if title == "" {
			log.Printf("skip announcement without title (source=%s)", it.Source)
			continue
		}
		source := it.Source
		if source == "" {
			source = UnknownSource
		}

		id := UniqueID(source, title)
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}

		if row, ok := m.rows[id]; ok {
			row.Title = title
			row.Link = it.Link
			row.Source = source
			row.NewsTime = it.Time
			row.Description = truncateRunesDB(toValidUTF8(it.Description), 2048)
			row.UpdatedAt = now
			continue
		}

		m.nextID++
		m.rows[id] = &Announcement{
			ID:          m.nextID,
			UniqueID:    id,
			Title:       title,
			Link:        it.Link,
			Source:      source,
			NewsTime:    it.Time,
			Description: truncateRunesDB(toValidUTF8(it.Description), 2048),
			ExtraData:   datatypes.JSONMap(it.Raw),
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		newCount++
	}

	log.Printf("store done: %d new announcements", newCount)
	return newCount, nil
}

func (m *Memory) ListUpdatedSince(since time.Time) ([]Announcement, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var list []Announcement
	for _, row := range m.rows {
		if !row.UpdatedAt.Before(since) {
			list = append(list, *row)
		}
	}
	sortByUpdatedDesc(list)
	return list, nil
}

func (m *Memory) ListNews(source string, limit int) ([]Announcement, error) {
	if limit <= 0 || limit > 1000 {
		limit = 20
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	var list []Announcement
	for _, row := range m.rows {
		if source != "" && row.Source != source {
			continue
		}
		list = append(list, *row)
	}
	sortByUpdatedDesc(list)
	if len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

func sortByUpdatedDesc(list []Announcement) {
	sort.Slice(list, func(i, j int) bool {
		if list[i].UpdatedAt.Equal(list[j].UpdatedAt) {
			return list[i].ID > list[j].ID
		}
		return list[i].UpdatedAt.After(list[j].UpdatedAt)
	})
}
