package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/xifengxx/tg-crypto-bot/internal/storage"
)

func TestLarkSendBatch(t *testing.T) {
	var got []larkTextMessage
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content-type = %q", ct)
		}
		var msg larkTextMessage
		if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
			t.Errorf("decode body: %v", err)
		}
		got = append(got, msg)
		w.Write([]byte(`{"code":0,"msg":"success"}`))
	}))
	defer srv.Close()

	l, err := NewLark(srv.URL)
	if err != nil {
		t.Fatalf("new lark: %v", err)
	}

	items := []storage.Announcement{
		{Title: "Listing X", Link: "https://a/1", NewsTime: "2025-02-27 00:00:00 UTC", Source: "Binance"},
	}
	if err := l.SendBatch(context.Background(), items); err != nil {
		t.Fatalf("send: %v", err)
	}

	if len(got) != 1 {
		t.Fatalf("requests = %d, want 1", len(got))
	}
	if got[0].MsgType != "text" {
		t.Fatalf("msg_type = %q, want text", got[0].MsgType)
	}
	if !strings.Contains(got[0].Content.Text, "Listing X") {
		t.Fatalf("text missing announcement: %q", got[0].Content.Text)
	}
}

func TestLarkSendBatchAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code":19001,"msg":"param invalid"}`))
	}))
	defer srv.Close()

	l, err := NewLark(srv.URL)
	if err != nil {
		t.Fatalf("new lark: %v", err)
	}

	err = l.SendBatch(context.Background(), []storage.Announcement{{Title: "x", Source: "Binance"}})
	if err == nil {
		t.Fatal("expected error from non-zero code")
	}
	if !strings.Contains(err.Error(), "19001") {
		t.Fatalf("error = %v, want code 19001", err)
	}
}

func TestNewLarkRequiresURL(t *testing.T) {
	if _, err := NewLark(""); err == nil {
		t.Fatal("expected error for empty webhook url")
	}
}
