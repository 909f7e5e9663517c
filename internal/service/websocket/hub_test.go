package websocket

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"faceoverlay/internal/logger"

	"github.com/gorilla/websocket"
)

func startHub(t *testing.T) (*HubService, *httptest.Server) {
	t.Helper()

	log := logger.New(t.TempDir(), io.Discard, io.Discard)
	t.Cleanup(func() { log.Close() })

	hub := NewHubService(log)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)

	upgrader := websocket.Upgrader{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		hub.Register(conn)
	}))
	t.Cleanup(server.Close)

	return hub, server
}

func dial(t *testing.T, server *httptest.Server) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitForClients(t *testing.T, hub *HubService, n int) {
	t.Helper()

	deadline := time.Now().Add(5 * time.Second)
	for hub.GetClientCount() != n {
		if time.Now().After(deadline) {
			t.Fatalf("Expected %d clients, got %d", n, hub.GetClientCount())
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestHubService_BroadcastFrame(t *testing.T) {
	hub, server := startHub(t)
	a := dial(t, server)
	b := dial(t, server)
	waitForClients(t, hub, 2)

	if err := hub.BroadcastFrame([]byte{0xFF, 0xD8, 0xFF, 0xD9}, "door", 1); err != nil {
		t.Fatalf("BroadcastFrame failed: %v", err)
	}

	for _, conn := range []*websocket.Conn{a, b} {
		conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		_, data, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("ReadMessage failed: %v", err)
		}

		var msg FrameMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			t.Fatalf("Invalid frame message: %v", err)
		}
		if msg.Camera != "door" || msg.Faces != 1 {
			t.Errorf("Unexpected message %+v", msg)
		}
		raw, err := base64.StdEncoding.DecodeString(msg.Image)
		if err != nil || len(raw) != 4 {
			t.Errorf("Unexpected image payload %q: %v", msg.Image, err)
		}
	}
}

func TestHubService_Unregister(t *testing.T) {
	hub, server := startHub(t)
	dial(t, server)
	waitForClients(t, hub, 1)

	hub.mutex.RLock()
	var client *websocket.Conn
	for c := range hub.clients {
		client = c
	}
	hub.mutex.RUnlock()

	hub.Unregister(client)
	waitForClients(t, hub, 0)
}

func TestHubService_StoppedHubDoesNotBlock(t *testing.T) {
	log := logger.New(t.TempDir(), io.Discard, io.Discard)
	defer log.Close()

	hub := NewHubService(log)
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()
	cancel()
	<-stopped

	done := make(chan struct{})
	go func() {
		hub.Unregister(nil)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Unregister blocked on a stopped hub")
	}
}
