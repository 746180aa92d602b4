package poller

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultCount is how many ticks elapse between refreshes.
const DefaultCount = 30

// Poller drives the auto-refresh countdown of a tracking view. It
// counts down from DefaultCount once per interval; at zero it invokes
// the refresh callback and resets. Pausing suspends both the countdown
// and the callback; resuming continues from the last count rather than
// restarting.
type Poller struct {
	interval time.Duration
	refresh  func(context.Context)
	logger   *zap.Logger

	mu     sync.Mutex
	count  int
	active bool

	shutdownCh chan struct{}
	stopOnce   sync.Once
	wg         sync.WaitGroup
}

func New(interval time.Duration, refresh func(context.Context), logger *zap.Logger) *Poller {
	return &Poller{
		interval:   interval,
		refresh:    refresh,
		logger:     logger,
		count:      DefaultCount,
		active:     true,
		shutdownCh: make(chan struct{}),
	}
}

// Run blocks until Stop is called or ctx is cancelled. Ticks are
// strictly sequential: the next tick cannot start before the previous
// one (including its refresh invocation) has returned.
func (p *Poller) Run(ctx context.Context) {
	p.wg.Add(1)
	defer p.wg.Done()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			p.tick(ctx)
		case <-p.shutdownCh:
			return
		case <-ctx.Done():
			return
		}
	}
}

// Stop shuts the poller down and waits for the loop to exit. After it
// returns no further tick fires and no refresh invocation is in flight.
// Safe to call more than once.
func (p *Poller) Stop() {
	p.stopOnce.Do(func() {
		close(p.shutdownCh)
		p.wg.Wait()
		p.logger.Debug("poller stopped")
	})
}

// SetActive pauses (false) or resumes (true) the countdown.
func (p *Poller) SetActive(active bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.active = active
}

// Countdown reports the ticks remaining until the next refresh.
func (p *Poller) Countdown() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.count
}

func (p *Poller) tick(ctx context.Context) {
	p.mu.Lock()
	if !p.active {
		p.mu.Unlock()
		return
	}
	p.count--
	fire := p.count <= 0
	if fire {
		p.count = DefaultCount
	}
	p.mu.Unlock()

	if fire {
		p.logger.Debug("countdown elapsed, refreshing")
		p.refresh(ctx)
	}
}
