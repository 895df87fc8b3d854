package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/xifengxx/tg-crypto-bot/internal/config"
	"github.com/xifengxx/tg-crypto-bot/internal/notify"
	"github.com/xifengxx/tg-crypto-bot/internal/scheduler"
	"github.com/xifengxx/tg-crypto-bot/internal/scraper"
	"github.com/xifengxx/tg-crypto-bot/internal/storage"
)

// 一次性采集：跑一轮完整的抓取-入库-推送后退出，方便调试和 crontab 部署
func main() {
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var backend storage.Backend
	store, err := storage.NewStore(cfg.PostgresDSN, cfg.RedisAddr)
	if err != nil {
		log.Printf("WARNING: postgres unavailable, falling back to in-memory store: %v", err)
		backend = storage.NewMemory()
	} else {
		backend = store
	}

	scrapers := []scraper.Scraper{
		scraper.NewBinanceScraper(),
		scraper.NewOKXScraper(),
		scraper.NewBitgetScraper(),
		scraper.NewKuCoinScraper(),
		scraper.NewGateScraper(),
		scraper.NewBybitScraper(),
	}

	var notifiers []notify.Notifier
	if cfg.TelegramToken != "" && len(cfg.TelegramChatIDs) > 0 {
		if tg, err := notify.NewTelegram(cfg.TelegramToken, cfg.TelegramChatIDs); err == nil {
			notifiers = append(notifiers, tg)
		} else {
			log.Printf("telegram disabled: %v", err)
		}
	}
	if cfg.LarkWebhookURL != "" {
		if lark, err := notify.NewLark(cfg.LarkWebhookURL); err == nil {
			notifiers = append(notifiers, lark)
		} else {
			log.Printf("lark disabled: %v", err)
		}
	}

	sched := scheduler.New(scrapers, backend, notifiers)
	sched.SetTimings(cfg.RunTimeout, cfg.Lookback)
	sched.RunOnce(ctx)
}
