package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CollectCycles 采集轮次计数，按结果区分
	CollectCycles = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "crypto_bot",
		Name:      "collect_cycles_total",
		Help:      "Number of collection cycles, partitioned by result.",
	}, []string{"result"})

	// ItemsFetched 各来源抓到的公告条数
	ItemsFetched = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "crypto_bot",
		Name:      "items_fetched_total",
		Help:      "Number of announcements fetched, partitioned by source.",
	}, []string{"source"})

	// FetchErrors 各来源抓取失败次数
	FetchErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "crypto_bot",
		Name:      "fetch_errors_total",
		Help:      "Number of failed fetches, partitioned by source.",
	}, []string{"source"})

	// NewAnnouncements 入库后确认为新增的公告条数
	NewAnnouncements = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "crypto_bot",
		Name:      "new_announcements_total",
		Help:      "Number of announcements stored for the first time.",
	})

	// NotifyErrors 各通知渠道推送失败次数
	NotifyErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "crypto_bot",
		Name:      "notify_errors_total",
		Help:      "Number of failed notification deliveries, partitioned by channel.",
	}, []string{"channel"})
)
