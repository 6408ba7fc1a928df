package realtime

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// Pinger writes one WebSocket ping control frame.
type Pinger interface {
	Ping() error
}

// PingSchedule decides when a connection is pinged. The hub starts one per
// connection from its write pump; the channel returned by Start closes after
// the first failed ping or after Stop, and the write pump then drops the
// connection.
type PingSchedule interface {
	Start(p Pinger, logger *slog.Logger) <-chan struct{}
	Stop()
}

// IntervalPings pings at a fixed interval. The peer's pong is seen by the read
// pump, which pushes the read deadline out by pong_wait, so the interval must
// stay below pong_wait or healthy connections time out.
type IntervalPings struct {
	interval time.Duration
	stop     chan struct{}
	once     sync.Once
	sent     atomic.Int64
}

func NewIntervalPings(interval time.Duration) *IntervalPings {
	return &IntervalPings{interval: interval, stop: make(chan struct{})}
}

func (s *IntervalPings) Start(p Pinger, logger *slog.Logger) <-chan struct{} {
	exited := make(chan struct{})
	go func() {
		defer close(exited)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-s.stop:
				return
			case <-ticker.C:
			}
			if err := p.Ping(); err != nil {
				logger.Debug("ping failed, dropping connection", "error", err, "pings_sent", s.sent.Load())
				return
			}
			s.sent.Add(1)
		}
	}()
	return exited
}

// Sent counts successful pings.
func (s *IntervalPings) Sent() int64 {
	return s.sent.Load()
}

// Stop may be called more than once.
func (s *IntervalPings) Stop() {
	s.once.Do(func() { close(s.stop) })
}
