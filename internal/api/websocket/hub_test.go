package websocket

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ramonehamilton/draft-advisor/internal/advisor"
	"github.com/ramonehamilton/draft-advisor/internal/battle"
)

func dial(t *testing.T, server *httptest.Server) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Failed to connect to WebSocket: %v", err)
	}
	return conn
}

func waitForClients(t *testing.T, hub *Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if hub.ClientCount() == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("Expected %d clients, got %d", want, hub.ClientCount())
}

func readEvent(t *testing.T, conn *websocket.Conn) Event {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(time.Second))
	_, message, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("Failed to read message: %v", err)
	}
	var event Event
	if err := json.Unmarshal(message, &event); err != nil {
		t.Fatalf("Failed to unmarshal message: %v", err)
	}
	return event
}

func TestHub_BroadcastWithoutClients(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	if !hub.BroadcastEvent(Event{Type: "test:event"}) {
		t.Error("Expected broadcast to succeed on a running hub")
	}
	if count := hub.ClientCount(); count != 0 {
		t.Errorf("Expected 0 clients, got %d", count)
	}
}

func TestHub_MultipleClients(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	server := httptest.NewServer(http.HandlerFunc(hub.ServeWs))
	defer server.Close()

	var conns []*websocket.Conn
	for i := 0; i < 3; i++ {
		conns = append(conns, dial(t, server))
	}
	defer func() {
		for _, conn := range conns {
			conn.Close()
		}
	}()
	waitForClients(t, hub, 3)

	hub.BroadcastEvent(Event{Type: "broadcast:test", Data: map[string]int{"value": 42}})

	for i, conn := range conns {
		if got := readEvent(t, conn); got.Type != "broadcast:test" {
			t.Errorf("Client %d expected type broadcast:test, got %s", i, got.Type)
		}
	}
}

func TestHub_ClientDisconnect(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	server := httptest.NewServer(http.HandlerFunc(hub.ServeWs))
	defer server.Close()

	conn := dial(t, server)
	waitForClients(t, hub, 1)

	conn.Close()
	waitForClients(t, hub, 0)
}

func TestHub_Stop(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	hub.Stop()
	hub.Stop()

	deadline := time.Now().Add(time.Second)
	for !hub.IsStopped() && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if !hub.IsStopped() {
		t.Fatal("Expected hub to be stopped")
	}
	if hub.BroadcastEvent(Event{Type: "late"}) {
		t.Error("Expected broadcast to fail after stop")
	}

	rec := httptest.NewRecorder()
	hub.ServeWs(rec, httptest.NewRequest(http.MethodGet, "/ws", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected 503 after stop, got %d", rec.Code)
	}
}

func TestReloadObserver(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	server := httptest.NewServer(http.HandlerFunc(hub.ServeWs))
	defer server.Close()

	conn := dial(t, server)
	defer conn.Close()
	waitForClients(t, hub, 1)

	snap := advisor.NewSnapshot([]battle.Record{{
		Team1:  []battle.HeroEntry{{Name: "A", Skills: []string{"sa"}}},
		Team2:  []battle.HeroEntry{{Name: "B", Skills: []string{"sb"}}},
		Winner: battle.WinnerTeam1,
	}}, nil, nil)
	snap.Version = 7
	snap.Source = "test"

	ReloadObserver(hub)(snap)

	event := readEvent(t, conn)
	if event.Type != EventCorpusReloaded {
		t.Fatalf("Expected %s, got %s", EventCorpusReloaded, event.Type)
	}
	data, ok := event.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("Expected object payload, got %T", event.Data)
	}
	if data["version"].(float64) != 7 || data["total_battles"].(float64) != 1 || data["heroes"].(float64) != 2 {
		t.Errorf("Unexpected payload: %v", data)
	}

	// A nil hub is ignored.
	ReloadObserver(nil)(snap)
}

func TestHub_ReplaysLatestEvent(t *testing.T) {
	hub := NewHub()
	if err := hub.Prime(Event{Type: "primed"}); err != nil {
		t.Fatalf("Prime failed: %v", err)
	}
	go hub.Run()
	defer hub.Stop()

	server := httptest.NewServer(http.HandlerFunc(hub.ServeWs))
	defer server.Close()

	first := dial(t, server)
	defer first.Close()
	if event := readEvent(t, first); event.Type != "primed" {
		t.Fatalf("Expected primed event on connect, got %s", event.Type)
	}

	hub.BroadcastEvent(Event{Type: "second"})
	if event := readEvent(t, first); event.Type != "second" {
		t.Fatalf("Expected second, got %s", event.Type)
	}

	late := dial(t, server)
	defer late.Close()
	if event := readEvent(t, late); event.Type != "second" {
		t.Errorf("Late client should receive the latest broadcast, got %s", event.Type)
	}
}
