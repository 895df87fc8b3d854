package scheduler

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/xifengxx/tg-crypto-bot/internal/metrics"
	"github.com/xifengxx/tg-crypto-bot/internal/notify"
	"github.com/xifengxx/tg-crypto-bot/internal/scraper"
	"github.com/xifengxx/tg-crypto-bot/internal/storage"
)

const (
	// 单轮采集的硬超时，必须小于调度间隔
	defaultRunTimeout = 25 * time.Minute
	// 推送时回看窗口：这段时间内有更新的公告都会进入消息
	defaultLookback = time.Hour
)

// Scheduler 驱动完整的采集-入库-推送流水线
type Scheduler struct {
	scrapers  []scraper.Scraper
	backend   storage.Backend
	notifiers []notify.Notifier

	runTimeout time.Duration
	lookback   time.Duration

	// 上一轮没结束就不开新一轮
	running sync.Mutex
	cron    *cron.Cron
}

func New(scrapers []scraper.Scraper, backend storage.Backend, notifiers []notify.Notifier) *Scheduler {
	return &Scheduler{
		scrapers:   scrapers,
		backend:    backend,
		notifiers:  notifiers,
		runTimeout: defaultRunTimeout,
		lookback:   defaultLookback,
	}
}

// SetTimings 覆盖默认的单轮超时和推送回看窗口
func (s *Scheduler) SetTimings(runTimeout, lookback time.Duration) {
	if runTimeout > 0 {
		s.runTimeout = runTimeout
	}
	if lookback > 0 {
		s.lookback = lookback
	}
}

// Start 先立即跑一轮，再按 cron 表达式周期执行，阻塞直到 ctx 取消
func (s *Scheduler) Start(ctx context.Context, cronSpec string) error {
	s.RunOnce(ctx)

	c := cron.New()
	_, err := c.AddFunc(cronSpec, func() {
		s.RunOnce(ctx)
	})
	if err != nil {
		return err
	}
	s.cron = c
	c.Start()

	<-ctx.Done()
	stopCtx := c.Stop()
	<-stopCtx.Done()
	return nil
}

// RunOnce 执行一轮采集。上一轮还在跑则直接跳过，避免浏览器抓取拖慢后堆积。
func (s *Scheduler) RunOnce(ctx context.Context) {
	if !s.running.TryLock() {
		log.Println("previous collection run still in progress, skipping this cycle")
		metrics.CollectCycles.WithLabelValues("skipped").Inc()
		return
	}
	defer s.running.Unlock()

	runCtx, cancel := context.WithTimeout(ctx, s.runTimeout)
	defer cancel()

	start := time.Now()
	log.Println("collection run started")

	items := s.collect(runCtx)

	newCount, err := s.backend.SaveAnnouncements(items)
	if err != nil {
		log.Printf("save announcements: %v", err)
		metrics.CollectCycles.WithLabelValues("error").Inc()
		return
	}
	metrics.NewAnnouncements.Add(float64(newCount))

	if newCount > 0 {
		s.notifyRecent(runCtx)
	} else {
		log.Println("no new announcements, skipping notification")
	}

	metrics.CollectCycles.WithLabelValues("ok").Inc()
	log.Printf("collection run finished in %s: %d fetched, %d new", time.Since(start).Round(time.Millisecond), len(items), newCount)
}

// collect 并发跑完所有抓取器，单个失败不影响其余来源
func (s *Scheduler) collect(ctx context.Context) []scraper.Announcement {
	var (
		mu    sync.Mutex
		items []scraper.Announcement
		wg    sync.WaitGroup
	)

	for _, sc := range s.scrapers {
		wg.Add(1)
		go func(sc scraper.Scraper) {
			defer wg.Done()
			got, err := sc.Fetch(ctx)
			if err != nil {
				log.Printf("fetch %s: %v", sc.Name(), err)
				metrics.FetchErrors.WithLabelValues(sc.Name()).Inc()
				return
			}
			metrics.ItemsFetched.WithLabelValues(sc.Name()).Add(float64(len(got)))
			mu.Lock()
			items = append(items, got...)
			mu.Unlock()
		}(sc)
	}
	wg.Wait()

	return items
}

// notifyRecent 把回看窗口内有更新的公告推给所有渠道。
// 从存储读而不是用内存里的抓取结果，保证时间字段等是入库后的权威值。
func (s *Scheduler) notifyRecent(ctx context.Context) {
	recent, err := s.backend.ListUpdatedSince(time.Now().Add(-s.lookback))
	if err != nil {
		log.Printf("list recent announcements: %v", err)
		return
	}
	if len(recent) == 0 {
		return
	}

	for _, n := range s.notifiers {
		if err := n.SendBatch(ctx, recent); err != nil {
			log.Printf("notify via %s: %v", n.Name(), err)
			metrics.NotifyErrors.WithLabelValues(n.Name()).Inc()
		}
	}
}
