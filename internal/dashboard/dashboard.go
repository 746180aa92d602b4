//go:generate mockgen -source ./dashboard.go -destination=./mocks/dashboard.go -package=mock_dashboard
package dashboard

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ecom-labs/storefront/internal/cache"
	"github.com/ecom-labs/storefront/internal/model"
)

const lowStockThreshold = 5

// StorefrontAPI is the slice of the HTTP client the dashboard needs.
type StorefrontAPI interface {
	ListOrders(ctx context.Context) ([]model.Order, error)
	ListProducts(ctx context.Context) ([]model.Product, error)
}

// Summary is the seller dashboard's read model, recomputed on every
// load from fresh collections.
type Summary struct {
	Orders         []model.Order
	Products       []model.Product
	OrdersByStatus map[model.Status]int
	Revenue        float64
	LowStock       []model.Product
}

type Service struct {
	api    StorefrontAPI
	cache  *cache.OrderCache
	logger *zap.Logger
}

func NewService(api StorefrontAPI, orderCache *cache.OrderCache, logger *zap.Logger) *Service {
	return &Service{api: api, cache: orderCache, logger: logger}
}

// Load fetches orders and products concurrently and aggregates them.
// Either fetch failing fails the whole load; the dashboard has no
// meaningful partial render.
func (s *Service) Load(ctx context.Context) (*Summary, error) {
	var (
		orders   []model.Order
		products []model.Product
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		orders, err = s.api.ListOrders(gctx)
		if err != nil {
			return fmt.Errorf("failed to load orders: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		products, err = s.api.ListProducts(gctx)
		if err != nil {
			return fmt.Errorf("failed to load products: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.cache.SetAll(orders)

	summary := &Summary{
		Orders:         orders,
		Products:       products,
		OrdersByStatus: make(map[model.Status]int),
	}
	for _, order := range orders {
		summary.OrdersByStatus[order.Status]++
		// Cancelled orders do not count towards revenue.
		if order.Status != model.StatusCancelled {
			summary.Revenue += order.Total
		}
	}
	for _, product := range products {
		if product.Stock < lowStockThreshold {
			summary.LowStock = append(summary.LowStock, product)
		}
	}

	s.logger.Debug("dashboard loaded",
		zap.Int("orders", len(orders)),
		zap.Int("products", len(products)))
	return summary, nil
}
