package trace

import (
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
)

// Heartbeat emits a liveness event with memory and goroutine counts every
// interval, so a run stuck on a huge document or a slow Gotenberg still
// shows up in the trace.
type Heartbeat struct {
	stop chan struct{}
	done chan struct{}
	once sync.Once
}

// StartHeartbeat returns nil when t is disabled or interval is not positive;
// Stop on nil is a no-op.
func StartHeartbeat(t Tracer, interval time.Duration) *Heartbeat {
	if t == nil || !t.Enabled() || interval <= 0 {
		return nil
	}
	h := &Heartbeat{stop: make(chan struct{}), done: make(chan struct{})}
	go h.loop(t, interval)
	return h
}

func (h *Heartbeat) loop(t Tracer, interval time.Duration) {
	defer close(h.done)
	tick := time.NewTicker(interval)
	defer tick.Stop()

	started := time.Now()
	var beat int
	for {
		select {
		case <-h.stop:
			return
		case now := <-tick.C:
			beat++
			t.Emit(&Event{
				Time:   now,
				Seq:    next(),
				Kind:   KindHeartbeat,
				Scope:  ScopeDriver,
				Name:   "heartbeat",
				Detail: "#" + strconv.Itoa(beat),
				Extra:  runtimeStats(now.Sub(started)),
			})
		}
	}
}

func runtimeStats(uptime time.Duration) map[string]string {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	return map[string]string{
		"uptime":     uptime.Round(time.Millisecond).String(),
		"heap":       humanize.Bytes(ms.HeapAlloc),
		"goroutines": strconv.Itoa(runtime.NumGoroutine()),
	}
}

// Stop ends the loop and waits for it. Safe to call more than once.
func (h *Heartbeat) Stop() {
	if h == nil {
		return
	}
	h.once.Do(func() { close(h.stop) })
	<-h.done
}
