package console

import (
	"context"
	"testing"
	"time"
)

func TestDebounceEmitsOnlyFinalValue(t *testing.T) {
	d := NewDebouncer(50 * time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go d.Run(ctx)

	d.Set("h")
	d.Set("he")
	d.Set("hello")

	select {
	case v := <-d.Out():
		if v != "hello" {
			t.Fatalf("expected final value %q, got %q", "hello", v)
		}
	case <-time.After(time.Second):
		t.Fatal("no emission after quiescence window")
	}

	// A single burst must produce exactly one emission.
	select {
	case v := <-d.Out():
		t.Fatalf("unexpected second emission %q", v)
	case <-time.After(150 * time.Millisecond):
	}
}

func TestDebounceRestartsOnEachChange(t *testing.T) {
	d := NewDebouncer(60 * time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go d.Run(ctx)

	start := time.Now()
	d.Set("a")
	time.Sleep(30 * time.Millisecond)
	d.Set("b")

	select {
	case v := <-d.Out():
		if v != "b" {
			t.Fatalf("expected %q, got %q", "b", v)
		}
		if elapsed := time.Since(start); elapsed < 80*time.Millisecond {
			t.Fatalf("emission after %s, wait was not restarted by second value", elapsed)
		}
	case <-time.After(time.Second):
		t.Fatal("no emission after quiescence window")
	}
}

func TestDebounceCancelDiscardsPending(t *testing.T) {
	d := NewDebouncer(50 * time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	go d.Run(ctx)

	d.Set("doomed")
	cancel()

	select {
	case v := <-d.Out():
		t.Fatalf("emission %q after shutdown", v)
	case <-time.After(150 * time.Millisecond):
	}
}

func TestDebounceSetAfterShutdownDoesNotBlock(t *testing.T) {
	d := NewDebouncer(10 * time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	go d.Run(ctx)
	cancel()

	done := make(chan struct{})
	go func() {
		d.Set("late")
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Set blocked after Run shut down")
	}
}
