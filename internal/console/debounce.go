package console

import (
	"context"
	"time"
)

// Debouncer holds back a rapidly changing value until it has been stable for
// a full quiescence window, then delivers the latest value on Out. Each new
// value restarts the wait, so no emission happens while changes keep arriving
// faster than the window. A pending emission is discarded when the context
// driving Run is cancelled.
type Debouncer struct {
	window  time.Duration
	in      chan string
	out     chan string
	stopped chan struct{}
}

func NewDebouncer(window time.Duration) *Debouncer {
	return &Debouncer{
		window:  window,
		in:      make(chan string),
		out:     make(chan string),
		stopped: make(chan struct{}),
	}
}

// Set feeds a new raw value. Values arriving after Run has shut down are
// dropped.
func (d *Debouncer) Set(value string) {
	select {
	case d.in <- value:
	case <-d.stopped:
	}
}

// Out delivers stabilized values.
func (d *Debouncer) Out() <-chan string {
	return d.out
}

// Run pumps values until ctx is cancelled. Call in its own goroutine; run at
// most once per Debouncer.
func (d *Debouncer) Run(ctx context.Context) {
	defer close(d.stopped)

	timer := time.NewTimer(d.window)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	var pending string
	armed := false

	rearm := func(value string) {
		pending = value
		if armed && !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		armed = true
		timer.Reset(d.window)
	}

	for {
		select {
		case <-ctx.Done():
			return
		case v := <-d.in:
			rearm(v)
		case <-timer.C:
			armed = false
			select {
			case d.out <- pending:
			case v := <-d.in:
				// Value changed while the consumer was busy, start over.
				rearm(v)
			case <-ctx.Done():
				return
			}
		}
	}
}
