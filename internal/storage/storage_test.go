package storage

import (
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/xifengxx/tg-crypto-bot/internal/scraper"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	store, err := NewStoreWithDB(db, nil)
	if err != nil {
		t.Fatalf("init store: %v", err)
	}
	if err := db.Exec("DELETE FROM announcements").Error; err != nil {
		t.Fatalf("reset table: %v", err)
	}
	return store
}

// 两种后端共用同一组语义用例
func forEachBackend(t *testing.T, run func(t *testing.T, b Backend)) {
	t.Run("store", func(t *testing.T) {
		run(t, newTestStore(t))
	})
	t.Run("memory", func(t *testing.T) {
		run(t, NewMemory())
	})
}

func TestSaveAnnouncementsIdempotent(t *testing.T) {
	forEachBackend(t, func(t *testing.T, b Backend) {
		items := []scraper.Announcement{
			{Title: "Binance Will List Foo (FOO)", Link: "https://a/1", Source: "Binance", Time: "2025-02-27 00:00:00 UTC"},
			{Title: "OKX to list BAR", Link: "https://a/2", Source: "OKX", Time: "2025-02-26 12:00:00 UTC"},
		}

		n, err := b.SaveAnnouncements(items)
		if err != nil {
			t.Fatalf("first save: %v", err)
		}
		if n != 2 {
			t.Fatalf("first save newCount = %d, want 2", n)
		}

		n, err = b.SaveAnnouncements(items)
		if err != nil {
			t.Fatalf("second save: %v", err)
		}
		if n != 0 {
			t.Fatalf("second save newCount = %d, want 0", n)
		}

		list, err := b.ListNews("", 10)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(list) != 2 {
			t.Fatalf("stored rows = %d, want 2", len(list))
		}
	})
}

func TestSaveAnnouncementsBatchDedup(t *testing.T) {
	forEachBackend(t, func(t *testing.T, b Backend) {
		items := []scraper.Announcement{
			{Title: "Listing X", Source: "Binance", Link: "https://a/1"},
			{Title: "Listing X", Source: "Binance", Link: "https://a/1-dup"},
		}
		n, err := b.SaveAnnouncements(items)
		if err != nil {
			t.Fatalf("save: %v", err)
		}
		if n != 1 {
			t.Fatalf("newCount = %d, want 1", n)
		}
	})
}

func TestSaveAnnouncementsSkipsMissingTitle(t *testing.T) {
	forEachBackend(t, func(t *testing.T, b Backend) {
		items := []scraper.Announcement{
			{Title: "  ", Source: "Binance", Link: "https://a/1"},
			{Title: "Real title", Source: "Binance", Link: "https://a/2"},
		}
		n, err := b.SaveAnnouncements(items)
		if err != nil {
			t.Fatalf("save: %v", err)
		}
		if n != 1 {
			t.Fatalf("newCount = %d, want 1", n)
		}
	})
}

func TestSaveAnnouncementsDefaultsSource(t *testing.T) {
	forEachBackend(t, func(t *testing.T, b Backend) {
		if _, err := b.SaveAnnouncements([]scraper.Announcement{{Title: "no source here"}}); err != nil {
			t.Fatalf("save: %v", err)
		}
		list, err := b.ListNews("", 10)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(list) != 1 {
			t.Fatalf("rows = %d, want 1", len(list))
		}
		if list[0].Source != UnknownSource {
			t.Fatalf("source = %q, want %q", list[0].Source, UnknownSource)
		}
		if list[0].UniqueID != "Unknown_no source here" {
			t.Fatalf("uniqueId = %q", list[0].UniqueID)
		}
	})
}

func TestSaveAnnouncementsRefreshKeepsCreatedAt(t *testing.T) {
	forEachBackend(t, func(t *testing.T, b Backend) {
		item := scraper.Announcement{Title: "Listing Y", Source: "Bybit", Link: "https://a/old"}
		if _, err := b.SaveAnnouncements([]scraper.Announcement{item}); err != nil {
			t.Fatalf("save: %v", err)
		}
		before, err := b.ListNews("Bybit", 1)
		if err != nil || len(before) != 1 {
			t.Fatalf("list before: %v (%d rows)", err, len(before))
		}

		time.Sleep(10 * time.Millisecond)

		item.Link = "https://a/new"
		item.Time = "2025-03-01 08:00:00 UTC"
		n, err := b.SaveAnnouncements([]scraper.Announcement{item})
		if err != nil {
			t.Fatalf("resave: %v", err)
		}
		if n != 0 {
			t.Fatalf("resave newCount = %d, want 0", n)
		}

		after, err := b.ListNews("Bybit", 1)
		if err != nil || len(after) != 1 {
			t.Fatalf("list after: %v (%d rows)", err, len(after))
		}
		if after[0].Link != "https://a/new" {
			t.Fatalf("link not refreshed: %q", after[0].Link)
		}
		if after[0].NewsTime != "2025-03-01 08:00:00 UTC" {
			t.Fatalf("news_time not refreshed: %q", after[0].NewsTime)
		}
		if !after[0].CreatedAt.Equal(before[0].CreatedAt) {
			t.Fatalf("created_at changed: %v -> %v", before[0].CreatedAt, after[0].CreatedAt)
		}
		if !after[0].UpdatedAt.After(before[0].UpdatedAt) {
			t.Fatalf("updated_at not bumped: %v -> %v", before[0].UpdatedAt, after[0].UpdatedAt)
		}
	})
}

func TestListUpdatedSince(t *testing.T) {
	forEachBackend(t, func(t *testing.T, b Backend) {
		if _, err := b.SaveAnnouncements([]scraper.Announcement{
			{Title: "fresh one", Source: "Binance"},
			{Title: "fresh two", Source: "OKX"},
		}); err != nil {
			t.Fatalf("save: %v", err)
		}

		list, err := b.ListUpdatedSince(time.Now().Add(-time.Hour))
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(list) != 2 {
			t.Fatalf("rows = %d, want 2", len(list))
		}

		list, err = b.ListUpdatedSince(time.Now().Add(time.Hour))
		if err != nil {
			t.Fatalf("list future: %v", err)
		}
		if len(list) != 0 {
			t.Fatalf("future rows = %d, want 0", len(list))
		}
	})
}

func TestListNewsFilterAndLimit(t *testing.T) {
	forEachBackend(t, func(t *testing.T, b Backend) {
		if _, err := b.SaveAnnouncements([]scraper.Announcement{
			{Title: "bn one", Source: "Binance"},
			{Title: "bn two", Source: "Binance"},
			{Title: "okx one", Source: "OKX"},
		}); err != nil {
			t.Fatalf("save: %v", err)
		}

		list, err := b.ListNews("Binance", 10)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(list) != 2 {
			t.Fatalf("binance rows = %d, want 2", len(list))
		}
		for _, row := range list {
			if row.Source != "Binance" {
				t.Fatalf("unexpected source %q", row.Source)
			}
		}

		list, err = b.ListNews("", 1)
		if err != nil {
			t.Fatalf("list limited: %v", err)
		}
		if len(list) != 1 {
			t.Fatalf("limited rows = %d, want 1", len(list))
		}
	})
}

func TestUniqueIDDistinctAcrossSources(t *testing.T) {
	a := UniqueID("Binance", "Listing X")
	b := UniqueID("OKX", "Listing X")
	if a == b {
		t.Fatalf("uniqueId collision across sources: %q", a)
	}
	if a != "Binance_Listing X" {
		t.Fatalf("uniqueId = %q", a)
	}
}
