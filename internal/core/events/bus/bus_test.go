package bus

import (
	"errors"
	"testing"
)

func TestPublishReachesSubscribers(t *testing.T) {
	b := New()
	got := 0
	b.Subscribe("caught_player", func(e Event) error {
		got++
		if e.Source != "monster-1" {
			t.Errorf("source = %q", e.Source)
		}
		return nil
	})
	b.Subscribe("caught_player", func(Event) error { got++; return nil })
	b.Subscribe("other", func(Event) error { t.Error("wrong type delivered"); return nil })

	if err := b.Publish(NewEvent("caught_player", "monster-1", nil)); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if got != 2 {
		t.Fatalf("delivered to %d handlers, want 2", got)
	}
}

func TestPublishWithoutSubscribersIsNil(t *testing.T) {
	b := New()
	if err := b.Publish(NewEvent("nobody", "test", nil)); err != nil {
		t.Fatalf("publish to empty bus: %v", err)
	}
}

func TestHandlerErrorsAreJoined(t *testing.T) {
	b := New()
	e1 := errors.New("one")
	e2 := errors.New("two")
	b.Subscribe("t", func(Event) error { return e1 })
	b.Subscribe("t", func(Event) error { return nil })
	b.Subscribe("t", func(Event) error { return e2 })

	err := b.Publish(NewEvent("t", "test", nil))
	if !errors.Is(err, e1) || !errors.Is(err, e2) {
		t.Fatalf("joined error %v is missing a handler error", err)
	}
}

func TestCancelStopsDelivery(t *testing.T) {
	b := New()
	calls := 0
	sub := b.Subscribe("t", func(Event) error { calls++; return nil })

	b.Publish(NewEvent("t", "test", nil))
	sub.Cancel()
	sub.Cancel() // repeated cancel is safe
	b.Publish(NewEvent("t", "test", nil))

	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}
	if n := b.Subscribers("t"); n != 0 {
		t.Fatalf("subscribers = %d after cancel", n)
	}
}

func TestPublishBatchAggregates(t *testing.T) {
	b := New()
	seen := []string{}
	b.Subscribe("a", func(e Event) error { seen = append(seen, e.Type); return nil })
	b.Subscribe("b", func(e Event) error { seen = append(seen, e.Type); return errors.New("b failed") })

	err := b.PublishBatch(NewEvent("a", "s", nil), NewEvent("b", "s", nil))
	if err == nil {
		t.Fatal("expected aggregated error")
	}
	if len(seen) != 2 || seen[0] != "a" || seen[1] != "b" {
		t.Fatalf("delivery order = %v", seen)
	}
}

func TestEventsCarryUniqueIDs(t *testing.T) {
	a := NewEvent("t", "s", nil)
	b := NewEvent("t", "s", nil)
	if a.ID == "" || a.ID == b.ID {
		t.Fatalf("ids not unique: %q vs %q", a.ID, b.ID)
	}
}
