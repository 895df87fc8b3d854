package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/xifengxx/tg-crypto-bot/internal/api"
	"github.com/xifengxx/tg-crypto-bot/internal/config"
	"github.com/xifengxx/tg-crypto-bot/internal/notify"
	"github.com/xifengxx/tg-crypto-bot/internal/scheduler"
	"github.com/xifengxx/tg-crypto-bot/internal/scraper"
	"github.com/xifengxx/tg-crypto-bot/internal/storage"
)

func main() {
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 数据库连不上时降级到内存存储，进程不退出但数据不持久
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
		tg, err := notify.NewTelegram(cfg.TelegramToken, cfg.TelegramChatIDs)
		if err != nil {
			log.Printf("telegram disabled: %v", err)
		} else {
			notifiers = append(notifiers, tg)
			go tg.Start(ctx)
			log.Printf("telegram notifier enabled for %d chats", len(cfg.TelegramChatIDs))
		}
	}
	if cfg.LarkWebhookURL != "" {
		lark, err := notify.NewLark(cfg.LarkWebhookURL)
		if err != nil {
			log.Printf("lark disabled: %v", err)
		} else {
			notifiers = append(notifiers, lark)
			log.Println("lark notifier enabled")
		}
	}
	if len(notifiers) == 0 {
		log.Println("WARNING: no notifier configured, announcements will only be stored")
	}

	sched := scheduler.New(scrapers, backend, notifiers)
	sched.SetTimings(cfg.RunTimeout, cfg.Lookback)

	router := api.NewRouter(backend, sched)
	go func() {
		log.Printf("api listening on :%s", cfg.AppPort)
		if err := router.Run(":" + cfg.AppPort); err != nil {
			log.Fatalf("api server: %v", err)
		}
	}()

	log.Printf("starting collection loop (cron %q)", cfg.CronSpec)
	if err := sched.Start(ctx, cfg.CronSpec); err != nil {
		log.Fatalf("scheduler: %v", err)
	}
	log.Println("shutdown complete")
}
