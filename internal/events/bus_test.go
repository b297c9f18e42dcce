package events

import (
	"sync"
	"testing"
	"time"

	"github.com/invictuslabs/pcbstock-backend/pkg/enums"
)

func TestBusDeliversToSubscribers(t *testing.T) {
	bus := NewBus(nil)

	var mu sync.Mutex
	var got []Change
	done := make(chan struct{}, 1)
	bus.Subscribe(func(c Change) {
		mu.Lock()
		got = append(got, c)
		mu.Unlock()
		done <- struct{}{}
	})

	bus.Publish(enums.ChangeComponentCreated, map[string]any{"componentId": "c1"})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("change was not delivered")
	}

	mu.Lock()
	defer mu.Unlock()
	if len(got) != 1 {
		t.Fatalf("expected 1 change, got %d", len(got))
	}
	if got[0].Action != enums.ChangeComponentCreated {
		t.Fatalf("unexpected action %s", got[0].Action)
	}
	if got[0].Metadata["componentId"] != "c1" {
		t.Fatalf("unexpected metadata %v", got[0].Metadata)
	}
	if got[0].At.IsZero() {
		t.Fatal("expected publish timestamp")
	}
}

func TestBusUnsubscribeStopsDelivery(t *testing.T) {
	bus := NewBus(nil)

	delivered := make(chan Change, 4)
	unsubscribe := bus.Subscribe(func(c Change) {
		delivered <- c
	})
	unsubscribe()

	bus.Publish(enums.ChangePcbCreated, nil)

	select {
	case c := <-delivered:
		t.Fatalf("unexpected delivery after unsubscribe: %+v", c)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestBusContainsHandlerPanic(t *testing.T) {
	bus := NewBus(nil)

	bus.Subscribe(func(Change) {
		panic("listener bug")
	})
	ok := make(chan struct{}, 1)
	bus.Subscribe(func(Change) {
		ok <- struct{}{}
	})

	bus.Publish(enums.ChangeImportCompleted, nil)

	select {
	case <-ok:
	case <-time.After(time.Second):
		t.Fatal("second handler should still receive the change")
	}
}
