package config

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config 全部来自环境变量，容器和裸机部署都只需要改 env
type Config struct {
	TelegramToken   string
	TelegramChatIDs []string
	LarkWebhookURL  string

	PostgresDSN string
	RedisAddr   string

	CronSpec   string
	RunTimeout time.Duration
	Lookback   time.Duration

	AppPort string
}

// Load 读取 .env（存在的话）再取环境变量，未设置的项用默认值
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment variables")
	}

	return &Config{
		TelegramToken:   getEnv("TELEGRAM_BOT_TOKEN", ""),
		TelegramChatIDs: splitList(getEnv("TELEGRAM_CHAT_IDS", "")),
		LarkWebhookURL:  getEnv("LARK_WEBHOOK_URL", ""),

		PostgresDSN: getEnv("POSTGRES_DSN", "host=localhost user=postgres password=postgres dbname=crypto_bot port=5432 sslmode=disable"),
		RedisAddr:   getEnv("REDIS_ADDR", ""),

		CronSpec:   getEnv("CRON_SPEC", "*/30 * * * *"),
		RunTimeout: getDuration("RUN_TIMEOUT", 25*time.Minute),
		Lookback:   getDuration("NOTIFY_LOOKBACK", time.Hour),

		AppPort: getEnv("APP_PORT", "8080"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		log.Printf("invalid duration for %s: %q, using default %s", key, raw, defaultValue)
		return defaultValue
	}
	return d
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
