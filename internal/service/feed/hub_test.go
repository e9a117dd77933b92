package feed

import (
	"testing"
)

func TestHubDeliversToAllSubscribers(t *testing.T) {
	hub := NewHub(4)
	a := hub.Subscribe()
	b := hub.Subscribe()
	defer a.Close()
	defer b.Close()

	hub.Publish(Event{Type: EventCreated, BookID: "B1"})

	for _, sub := range []*Subscription{a, b} {
		select {
		case ev := <-sub.C:
			if ev.Type != EventCreated || ev.BookID != "B1" {
				t.Fatalf("unexpected event: %+v", ev)
			}
			if ev.ID == "" || ev.At.IsZero() {
				t.Fatalf("expected id and timestamp to be filled: %+v", ev)
			}
		default:
			t.Fatal("expected event to be buffered")
		}
	}
}

func TestHubDropsWhenBufferFull(t *testing.T) {
	hub := NewHub(1)
	sub := hub.Subscribe()
	defer sub.Close()

	hub.Publish(Event{Type: EventCreated, BookID: "B1"})
	hub.Publish(Event{Type: EventDeleted, BookID: "B1"})

	ev := <-sub.C
	if ev.Type != EventCreated {
		t.Fatalf("expected first event to survive, got %s", ev.Type)
	}
	select {
	case ev := <-sub.C:
		t.Fatalf("expected second event to be dropped, got %+v", ev)
	default:
	}
}

func TestSubscriptionCloseIsIdempotent(t *testing.T) {
	hub := NewHub(1)
	sub := hub.Subscribe()

	sub.Close()
	sub.Close()

	if hub.Subscribers() != 0 {
		t.Fatalf("expected no subscribers, got %d", hub.Subscribers())
	}
	if _, ok := <-sub.C; ok {
		t.Fatal("expected closed channel")
	}

	hub.Publish(Event{Type: EventUpdated, BookID: "B1"})
}
