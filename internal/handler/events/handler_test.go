package events

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/zhouzirui/z-shelf/backend/internal/service/feed"
)

func setupServer(t *testing.T) (*httptest.Server, *feed.Hub) {
	t.Helper()
	hub := feed.NewHub(8)
	r := chi.NewRouter()
	New(hub).RegisterRoutes(r)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, hub
}

func waitForSubscribers(t *testing.T, hub *feed.Hub, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for hub.Subscribers() < n {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %d subscribers", n)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestWebSocketReceivesEvents(t *testing.T) {
	srv, hub := setupServer(t)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/events"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial err: %v", err)
	}
	defer conn.Close()

	waitForSubscribers(t, hub, 1)
	hub.Publish(feed.Event{Type: feed.EventDeleted, BookID: "B1"})

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var ev feed.Event
	if err := conn.ReadJSON(&ev); err != nil {
		t.Fatalf("read err: %v", err)
	}
	if ev.Type != feed.EventDeleted || ev.BookID != "B1" {
		t.Fatalf("unexpected event: %+v", ev)
	}
}

func TestStreamReceivesEvents(t *testing.T) {
	srv, hub := setupServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/events/stream", nil)
	if err != nil {
		t.Fatalf("new request err: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request err: %v", err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("unexpected content type: %s", ct)
	}

	waitForSubscribers(t, hub, 1)
	hub.Publish(feed.Event{Type: feed.EventCreated, BookID: "B7"})

	scanner := bufio.NewScanner(resp.Body)
	var sawEvent bool
	for scanner.Scan() {
		line := scanner.Text()
		if line == "event: created" {
			sawEvent = true
			continue
		}
		if sawEvent && strings.HasPrefix(line, "data: ") {
			if !strings.Contains(line, `"book_id":"B7"`) {
				t.Fatalf("unexpected data line: %s", line)
			}
			return
		}
	}
	t.Fatalf("stream ended before event arrived: %v", scanner.Err())
}
