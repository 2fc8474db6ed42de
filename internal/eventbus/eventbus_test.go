package eventbus

import (
	"testing"
	"time"

	"github.com/lessonbird/timetable/core/events"
	"github.com/lessonbird/timetable/core/model"
)

func TestBus_FanOut(t *testing.T) {
	b := New()
	defer b.Close()
	a := b.Subscribe()
	c := b.Subscribe()

	ev := events.AdmittedEvent{Placement: model.Placement{ID: "p1"}, Time: time.Now()}
	b.Publish(ev)

	for _, ch := range []<-chan Event{a, c} {
		select {
		case got := <-ch:
			adm, ok := got.(events.AdmittedEvent)
			if !ok || adm.Placement.ID != "p1" {
				t.Fatalf("unexpected event: %#v", got)
			}
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for event")
		}
	}
}

func TestBus_UnsubscribeClosesChannel(t *testing.T) {
	b := New()
	defer b.Close()
	ch := b.Subscribe()
	b.Unsubscribe(ch)
	if _, ok := <-ch; ok {
		t.Fatal("expected closed channel")
	}
}

func TestBus_PublishAfterClose(t *testing.T) {
	b := New()
	ch := b.Subscribe()
	b.Close()
	b.Publish(events.RemovedEvent{})
	if _, ok := <-ch; ok {
		t.Fatal("expected closed channel")
	}
}

func TestBus_SlowSubscriberDoesNotBlock(t *testing.T) {
	b := New()
	defer b.Close()
	_ = b.Subscribe()
	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			b.Publish(events.RemovedEvent{})
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on slow subscriber")
	}
}
