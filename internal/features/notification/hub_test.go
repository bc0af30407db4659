package notification

import (
	"sync"
	"testing"
	"time"
)

func drain(c *Client) []Event {
	var events []Event
	for {
		select {
		case e, ok := <-c.Events():
			if !ok {
				return events
			}
			events = append(events, e)
		default:
			return events
		}
	}
}

func TestPublishRoutesAddressedEventsToRecipientOnly(t *testing.T) {
	hub := NewHub(nil)

	alice := hub.Register("alice")
	bobFirst := hub.Register("bob")
	bobSecond := hub.Register("bob")
	defer hub.Unregister(alice)
	defer hub.Unregister(bobFirst)
	defer hub.Unregister(bobSecond)

	if got := hub.ClientCount(); got != 3 {
		t.Fatalf("expected 3 registered clients, got %d", got)
	}

	hub.Publish(Event{Type: EventLeadAssigned, RecipientID: "bob"})
	hub.Publish(Event{Type: EventLeadCreated})

	aliceEvents := drain(alice)
	if len(aliceEvents) != 1 || aliceEvents[0].Type != EventLeadCreated {
		t.Errorf("alice should only see the broadcast, got %v", aliceEvents)
	}

	for _, c := range []*Client{bobFirst, bobSecond} {
		events := drain(c)
		if len(events) != 2 {
			t.Fatalf("each of bob's connections should see both events, got %v", events)
		}
		if events[0].Type != EventLeadAssigned {
			t.Errorf("addressed event should arrive first, got %v", events)
		}
	}
}

func TestPublishStampsEventTime(t *testing.T) {
	hub := NewHub(nil)
	client := hub.Register("user")
	defer hub.Unregister(client)

	hub.Publish(Event{Type: EventMeetingScheduled, RecipientID: "user"})

	select {
	case e := <-client.Events():
		if e.At.IsZero() {
			t.Error("published event should carry a timestamp")
		}
	default:
		t.Fatal("addressed event was not delivered")
	}
}

func TestPublishDropsEventsForSlowConsumers(t *testing.T) {
	hub := NewHub(nil)
	client := hub.Register("user")
	defer hub.Unregister(client)

	for i := 0; i < sendBufferSize*2; i++ {
		hub.Publish(Event{Type: EventLeadCreated})
	}

	if got := len(drain(client)); got != sendBufferSize {
		t.Errorf("full buffer should drop the overflow, got %d events", got)
	}
}

func TestConcurrentPublishAndChurn(t *testing.T) {
	hub := NewHub(nil)

	stable := hub.Register("stable")
	go func() {
		for range stable.Events() {
		}
	}()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 500; j++ {
				hub.Publish(Event{Type: EventLeadCreated, At: time.Now()})
			}
		}()
	}
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c := hub.Register("churn")
				hub.Publish(Event{Type: EventMeetingReminder, RecipientID: "churn"})
				hub.Unregister(c)
			}
		}()
	}
	wg.Wait()

	hub.Unregister(stable)
	if got := hub.ClientCount(); got != 0 {
		t.Errorf("all clients should be unregistered, got %d", got)
	}
}
