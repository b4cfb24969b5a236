package input

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/log"
)

// DefaultTick is the capture loop period when none is configured.
const DefaultTick = 200 * time.Millisecond

// ErrSourceClosed is returned by a Source that will produce no more events.
var ErrSourceClosed = errors.New("input source closed")

// Source waits up to timeout for the next key event. ok is false when the
// timeout expired without one.
type Source interface {
	Poll(timeout time.Duration) (ev Event, ok bool, err error)
}

// Stopper reports whether the session is shutting down.
type Stopper interface {
	Quitting() bool
}

// Capture polls src and forwards key events to out, sending a Tick every
// period. It stops once stop reports quitting, ctx is done or src is closed,
// and closes out before returning.
type Capture struct {
	Source Source
	Stop   Stopper
	Tick   time.Duration
	Logger *log.Logger
}

func (c *Capture) Run(ctx context.Context, out chan<- Event) error {
	defer close(out)

	tick := c.Tick
	if tick <= 0 {
		tick = DefaultTick
	}
	deadline := time.Now().Add(tick)
	for {
		if c.Stop.Quitting() || ctx.Err() != nil {
			return nil
		}

		budget := time.Until(deadline)
		if budget < 0 {
			budget = 0
		}
		ev, ok, err := c.Source.Poll(budget)
		if err != nil {
			if errors.Is(err, ErrSourceClosed) {
				return nil
			}
			return err
		}
		if ok {
			c.send(ctx, out, ev)
		}

		if !time.Now().Before(deadline) {
			c.send(ctx, out, Event{Kind: Tick})
			deadline = time.Now().Add(tick)
		}
	}
}

// send delivers ev unless ctx ends first. A dropped event is expected while
// the session is shutting down and only logged.
func (c *Capture) send(ctx context.Context, out chan<- Event, ev Event) {
	select {
	case out <- ev:
	case <-ctx.Done():
		if c.Logger != nil {
			c.Logger.Debug("dropped input event", "event", ev, "reason", ctx.Err())
		}
	}
}
