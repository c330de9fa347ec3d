package service

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gorilla/websocket"
	"go.uber.org/zap/zaptest"

	"signal_bot/internal/models"
)

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readSignal(t *testing.T, conn *websocket.Conn) models.Signal {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, b, err := conn.ReadMessage()
	if err != nil {
		t.Fatal(err)
	}
	var s models.Signal
	if err := sonic.Unmarshal(b, &s); err != nil {
		t.Fatal(err)
	}
	return s
}

func waitClients(t *testing.T, h *Hub, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for h.Clients() != n {
		if time.Now().After(deadline) {
			t.Fatalf("expected %d clients, have %d", n, h.Clients())
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestHubBroadcast(t *testing.T) {
	h := NewHub(zaptest.NewLogger(t))
	srv := httptest.NewServer(h)
	defer srv.Close()
	defer h.Close()

	a, b := dial(t, srv), dial(t, srv)
	waitClients(t, h, 2)

	sig := models.NewWaitSignal("BTC-USDT-SWAP", "momentum", 100, "no momentum")
	if err := h.Accept(context.Background(), sig); err != nil {
		t.Fatal(err)
	}
	for _, c := range []*websocket.Conn{a, b} {
		got := readSignal(t, c)
		if got.Symbol != "BTC-USDT-SWAP" || got.Action != models.ActionWait || got.Reason != "no momentum" {
			t.Fatalf("unexpected signal %+v", got)
		}
	}
}

func TestHubReplaysLatestToNewClient(t *testing.T) {
	h := NewHub(zaptest.NewLogger(t))
	srv := httptest.NewServer(h)
	defer srv.Close()
	defer h.Close()

	_ = h.Accept(context.Background(), models.NewWaitSignal("ETH", "momentum", 1, "old"))
	_ = h.Accept(context.Background(), models.NewWaitSignal("ETH", "momentum", 2, "new"))
	_ = h.Accept(context.Background(), models.NewWaitSignal("BTC", "momentum", 3, "btc"))

	c := dial(t, srv)
	first, second := readSignal(t, c), readSignal(t, c)
	if first.Symbol != "BTC" || second.Symbol != "ETH" || second.Reason != "new" {
		t.Fatalf("unexpected replay: %+v, %+v", first, second)
	}
}

func TestHubDropsDisconnected(t *testing.T) {
	h := NewHub(zaptest.NewLogger(t))
	srv := httptest.NewServer(h)
	defer srv.Close()

	c := dial(t, srv)
	waitClients(t, h, 1)
	_ = c.Close()
	waitClients(t, h, 0)
}
