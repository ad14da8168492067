package sitemap

import (
	"context"
	"testing"
	"time"

	"github.com/romangod6/catalog-sitemap/internal/artifact"
)

func TestRefresherFinishesRunningRefreshBeforeReturning(t *testing.T) {
	store := artifact.NewMemoryStore()
	b := &countingBuilder{gate: make(chan struct{}), entered: make(chan struct{}, 1)}
	c := NewController(store, b, WithClock(fixedClock(testNow)))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		NewRefresher(c, 5*time.Millisecond, nil).Run(ctx)
		close(done)
	}()

	<-b.entered
	cancel()

	select {
	case <-done:
		t.Fatal("Run returned while a refresh was still building")
	case <-time.After(30 * time.Millisecond):
	}

	close(b.gate)
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after the refresh finished")
	}

	if names := store.Names(); len(names) != 1 {
		t.Errorf("expected the refreshed artifact to be stored, got %v", names)
	}
}

func TestRefresherStopsWhenIdle(t *testing.T) {
	c := NewController(artifact.NewMemoryStore(), &countingBuilder{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan struct{})
	go func() {
		NewRefresher(c, time.Hour, nil).Run(ctx)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return on a cancelled context")
	}
}
