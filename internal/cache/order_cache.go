package cache

import (
	"sync"

	"github.com/ecom-labs/storefront/internal/metrics"
	"github.com/ecom-labs/storefront/internal/model"
)

// OrderCache keeps the most recently fetched orders so the tracking
// view and the dashboard can render between refreshes without another
// round trip. Values are copied on the way in and out; callers never
// share memory with the cache.
type OrderCache struct {
	mu    sync.RWMutex
	cache map[string]*model.Order
}

func NewOrderCache() *OrderCache {
	return &OrderCache{cache: make(map[string]*model.Order)}
}

func (c *OrderCache) Get(orderID string) (*model.Order, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	order, found := c.cache[orderID]
	if !found {
		return nil, false
	}
	copied := *order
	return &copied, true
}

func (c *OrderCache) Set(order *model.Order) {
	c.mu.Lock()
	defer c.mu.Unlock()
	copied := *order
	c.cache[order.ID] = &copied
	metrics.OrderCacheItems.Set(float64(len(c.cache)))
}

func (c *OrderCache) SetAll(orders []model.Order) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range orders {
		copied := orders[i]
		c.cache[copied.ID] = &copied
	}
	metrics.OrderCacheItems.Set(float64(len(c.cache)))
}

func (c *OrderCache) Delete(orderID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.cache, orderID)
	metrics.OrderCacheItems.Set(float64(len(c.cache)))
}

func (c *OrderCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.cache)
}
