package notify

import (
	"context"
	"fmt"
	"log"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/xifengxx/tg-crypto-bot/internal/storage"
)

// Telegram 通过 Bot API 推送公告，支持同时发往多个会话
type Telegram struct {
	bot     *bot.Bot
	chatIDs []string
}

var _ Notifier = (*Telegram)(nil)

func NewTelegram(token string, chatIDs []string) (*Telegram, error) {
	if token == "" {
		return nil, fmt.Errorf("telegram token is empty")
	}
	if len(chatIDs) == 0 {
		return nil, fmt.Errorf("telegram chat ids are empty")
	}

	b, err := bot.New(token, bot.WithDefaultHandler(handleStart))
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	return &Telegram{bot: b, chatIDs: chatIDs}, nil
}

func (t *Telegram) Name() string { return "telegram" }

// Start 启动长轮询，处理 /start 等入站消息，阻塞直到 ctx 取消
func (t *Telegram) Start(ctx context.Context) {
	t.bot.Start(ctx)
}

func (t *Telegram) SendBatch(ctx context.Context, items []storage.Announcement) error {
	messages := BuildMessages(items)
	if len(messages) == 0 {
		return nil
	}

	var firstErr error
	for _, chatID := range t.chatIDs {
		for _, text := range messages {
			_, err := t.bot.SendMessage(ctx, &bot.SendMessageParams{
				ChatID: chatID,
				Text:   text,
				LinkPreviewOptions: &models.LinkPreviewOptions{
					IsDisabled: bot.True(),
				},
			})
			if err != nil {
				log.Printf("telegram send to %s failed: %v", chatID, err)
				if firstErr == nil {
					firstErr = err
				}
				// 这个会话发不出去，剩余分片大概率也失败，换下一个会话
				break
			}
		}
	}
	return firstErr
}

func handleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	if update.Message.Text != "/start" {
		return
	}
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: update.Message.Chat.ID,
		Text:   "👋 欢迎使用加密货币上币公告机器人！\n\n每 30 分钟抓取各大交易所公告，有新币上线会第一时间推送。\n\n你的 Chat ID: " + fmt.Sprint(update.Message.Chat.ID),
	})
	if err != nil {
		log.Printf("telegram reply /start failed: %v", err)
	}
}
