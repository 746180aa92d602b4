//go:generate mockgen -source ./controller.go -destination=./mocks/controller.go -package=mock_tracking
package tracking

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ecom-labs/storefront/internal/cache"
	"github.com/ecom-labs/storefront/internal/metrics"
	"github.com/ecom-labs/storefront/internal/model"
	"github.com/ecom-labs/storefront/internal/poller"
	"github.com/ecom-labs/storefront/internal/timeline"
)

// OrderAPI is the slice of the HTTP client the tracking view needs.
type OrderAPI interface {
	GetOrder(ctx context.Context, orderID string) (*model.Order, error)
}

// Snapshot is what the tracking view renders: the order as last seen,
// its derived timeline and the auto-refresh countdown.
type Snapshot struct {
	Order     *model.Order
	Timeline  *timeline.Timeline
	Countdown int
	LastErr   error
}

// Controller owns the state of one mounted tracking view: the fetched
// order, its derived timeline and the auto-refresh poller. The poller
// is created with the controller and released by Close, never leaked
// to view teardown order.
type Controller struct {
	orderID string
	api     OrderAPI
	cache   *cache.OrderCache
	poller  *poller.Poller
	logger  *zap.Logger

	mu       sync.Mutex
	order    *model.Order
	timeline *timeline.Timeline
	lastErr  error
}

func NewController(orderID string, orderAPI OrderAPI, orderCache *cache.OrderCache, interval time.Duration, logger *zap.Logger) *Controller {
	c := &Controller{
		orderID:  orderID,
		api:      orderAPI,
		cache:    orderCache,
		logger:   logger.With(zap.String("order_id", orderID)),
		timeline: timeline.Build(nil),
	}
	c.poller = poller.New(interval, func(ctx context.Context) {
		_ = c.Refresh(ctx)
	}, c.logger)
	return c
}

// Start performs the initial fetch and launches the auto-refresh loop.
func (c *Controller) Start(ctx context.Context) {
	if cached, found := c.cache.Get(c.orderID); found {
		// Render the cached order immediately, then refresh as usual.
		c.mu.Lock()
		c.order = cached
		c.timeline = timeline.Build(cached)
		c.mu.Unlock()
	}

	_ = c.Refresh(ctx)
	go c.poller.Run(ctx)
}

// Close releases the poller. After it returns no refresh is running or
// will run; safe to call more than once.
func (c *Controller) Close() {
	c.poller.Stop()
}

// SetPolling pauses or resumes the auto-refresh countdown.
func (c *Controller) SetPolling(active bool) {
	c.poller.SetActive(active)
}

// Refresh re-fetches the order and re-derives the timeline. On failure
// the previous order is kept and the timeline degrades rather than
// erroring: an unknown or absent order renders as all-upcoming.
func (c *Controller) Refresh(ctx context.Context) error {
	order, err := c.api.GetOrder(ctx, c.orderID)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		c.lastErr = err
		c.logger.Warn("order refresh failed", zap.Error(err))
		return err
	}

	c.cache.Set(order)
	c.order = order
	c.timeline = timeline.Build(order)
	c.lastErr = nil
	metrics.TrackingRefreshesTotal.Inc()
	return nil
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{
		Order:     c.order,
		Timeline:  c.timeline,
		Countdown: c.poller.Countdown(),
		LastErr:   c.lastErr,
	}
}
