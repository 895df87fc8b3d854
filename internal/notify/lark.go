package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/xifengxx/tg-crypto-bot/internal/storage"
)

// Lark 飞书群机器人 webhook 推送
type Lark struct {
	webhookURL string
	client     *http.Client
}

var _ Notifier = (*Lark)(nil)

func NewLark(webhookURL string) (*Lark, error) {
	if webhookURL == "" {
		return nil, fmt.Errorf("lark webhook url is empty")
	}
	return &Lark{
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: 15 * time.Second},
	}, nil
}

func (l *Lark) Name() string { return "lark" }

type larkTextMessage struct {
	MsgType string `json:"msg_type"`
	Content struct {
		Text string `json:"text"`
	} `json:"content"`
}

type larkResponse struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}

func (l *Lark) SendBatch(ctx context.Context, items []storage.Announcement) error {
	messages := BuildMessages(items)

	var firstErr error
	for _, text := range messages {
		if err := l.sendText(ctx, text); err != nil {
			log.Printf("lark send failed: %v", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func (l *Lark) sendText(ctx context.Context, text string) error {
	var msg larkTextMessage
	msg.MsgType = "text"
	msg.Content.Text = text

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal lark message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, l.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build lark request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := l.client.Do(req)
	if err != nil {
		return fmt.Errorf("post lark webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("lark webhook status %d", resp.StatusCode)
	}

	var lr larkResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&lr); err != nil {
		return fmt.Errorf("decode lark response: %w", err)
	}
	if lr.Code != 0 {
		return fmt.Errorf("lark webhook error %d: %s", lr.Code, lr.Msg)
	}
	return nil
}
