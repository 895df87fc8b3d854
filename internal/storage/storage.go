package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/xifengxx/tg-crypto-bot/internal/scraper"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Announcement 持久化的上币公告
type Announcement struct {
	ID uint `gorm:"primaryKey" json:"id"`
	// UniqueID = source + "_" + title，时间刻意不参与：同一标题刷新时间只算更新
	UniqueID    string            `gorm:"size:600;uniqueIndex" json:"uniqueId"`
	Title       string            `gorm:"size:512" json:"title"`
	Link        string            `gorm:"size:1024" json:"link"`
	Source      string            `gorm:"size:64;index" json:"source"`
	NewsTime    string            `gorm:"size:32" json:"newsTime"` // "YYYY-MM-DD HH:MM:SS UTC"，空表示未知
	Description string            `gorm:"size:2048" json:"description"`
	ExtraData   datatypes.JSONMap `gorm:"type:jsonb" json:"extraData"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `gorm:"index" json:"updatedAt"`
}

// Backend 存储端抽象：正常走 Postgres，连不上时启动期换成内存实现降级运行
type Backend interface {
	// SaveAnnouncements 幂等入库，返回本次真正新增的条数
	SaveAnnouncements(items []scraper.Announcement) (int, error)
	// ListUpdatedSince 返回 since 之后有过更新的记录，按更新时间倒序
	ListUpdatedSince(since time.Time) ([]Announcement, error)
	// ListNews 按来源返回最近更新的记录，source 为空表示全部
	ListNews(source string, limit int) ([]Announcement, error)
}

// UnknownSource 缺来源字段时的默认值
const UnknownSource = "Unknown"

// UniqueID 计算公告的幂等键
func UniqueID(source, title string) string {
	if source == "" {
		source = UnknownSource
	}
	return source + "_" + title
}

type Store struct {
	DB    *gorm.DB
	Redis *redis.Client
}

var _ Backend = (*Store)(nil)

func NewStore(dsn, redisAddr string) (*Store, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	var rdb *redis.Client
	if redisAddr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: redisAddr})
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Printf("warn: redis ping failed: %v", err)
		}
	}

	return NewStoreWithDB(db, rdb)
}

// NewStoreWithDB 直接用现成的 gorm 连接建 Store，测试里配合 SQLite 使用
func NewStoreWithDB(db *gorm.DB, rdb *redis.Client) (*Store, error) {
	if err := db.AutoMigrate(&Announcement{}); err != nil {
		return nil, err
	}
	return &Store{DB: db, Redis: rdb}, nil
}

// SaveAnnouncements 把一批公告幂等写入存储：
//   - 同一批内按 unique_id 先行去重（不同抓取器可能抓到同一条）
//   - 不存在则插入（created_at 只在这里设置），已存在只刷新可变字段
//   - 单条失败只记日志，不中断整批
func (s *Store) SaveAnnouncements(items []scraper.Announcement) (int, error) {
	if len(items) == 0 {
		log.Println("no announcements to store")
		return 0, nil
	}

	newCount := 0
	seen := make(map[string]struct{}, len(items))

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

		row := &Announcement{
			UniqueID:    id,
			Title:       title,
			Link:        it.Link,
			Source:      source,
			NewsTime:    it.Time,
			Description: truncateRunesDB(toValidUTF8(it.Description), 2048),
			ExtraData:   datatypes.JSONMap(it.Raw),
		}

		// unique_id 上的唯一索引保证"不存在才插入"是原子的，
		// 并发或重复批次不会为同一 (source, title) 落两行
		res := s.DB.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "unique_id"}},
			DoNothing: true,
		}).Create(row)
		if res.Error != nil {
			log.Printf("save announcement %q: %v", id, res.Error)
			continue
		}
		if res.RowsAffected > 0 {
			newCount++
			continue
		}

		// 已存在：刷新可变字段，created_at 不动
		err := s.DB.Model(&Announcement{}).Where("unique_id = ?", id).Updates(map[string]any{
			"title":       row.Title,
			"link":        row.Link,
			"source":      row.Source,
			"news_time":   row.NewsTime,
			"description": row.Description,
			"updated_at":  time.Now(),
		}).Error
		if err != nil {
			log.Printf("refresh announcement %q: %v", id, err)
		}
	}

	log.Printf("store done: %d new announcements", newCount)
	return newCount, nil
}

func (s *Store) ListUpdatedSince(since time.Time) ([]Announcement, error) {
	var list []Announcement
	err := s.DB.Where("updated_at >= ?", since).Order("updated_at DESC").Find(&list).Error
	return list, err
}

// ListNews 按来源返回最近更新的公告，并用 Redis 做短 TTL 缓存
func (s *Store) ListNews(source string, limit int) ([]Announcement, error) {
	if limit <= 0 || limit > 1000 {
		limit = 20
	}

	ctx := context.Background()
	cacheKey := fmt.Sprintf("news:list:%s:%d", source, limit)

	if s.Redis != nil {
		if bs, err := s.Redis.Get(ctx, cacheKey).Bytes(); err == nil {
			var cached []Announcement
			if err := json.Unmarshal(bs, &cached); err == nil {
				return cached, nil
			}
		}
	}

	db := s.DB.Model(&Announcement{})
	if source != "" {
		db = db.Where("source = ?", source)
	}

	var list []Announcement
	if err := db.Order("updated_at DESC").Limit(limit).Find(&list).Error; err != nil {
		return nil, err
	}

	// 回写缓存，减轻轮询类客户端的 DB 压力
	const listCacheTTL = 5 * time.Minute
	if s.Redis != nil && len(list) > 0 {
		if bs, err := json.Marshal(list); err == nil {
			_ = s.Redis.Set(ctx, cacheKey, bs, listCacheTTL).Err()
		}
	}

	return list, nil
}

// toValidUTF8 规范为合法 UTF-8，避免 PostgreSQL invalid byte sequence 错误
func toValidUTF8(s string) string {
	return strings.ToValidUTF8(strings.TrimSpace(s), "�")
}

// truncateRunesDB 按 rune 截断，保证不超过数据库字段长度
func truncateRunesDB(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	rs := []rune(s)
	if len(rs) <= limit {
		return s
	}
	return string(rs[:limit])
}
