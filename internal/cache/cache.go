package cache

import (
	"context"
	"time"

	"github.com/angiedazun/Sri-Lanka-Ports-Authority-Inventory-Management-System.-sub000/internal/domain"
)

type StockReportCache interface {
	Get(ctx context.Context, key string) (*domain.StockStatusReport, bool, error)
	Set(ctx context.Context, key string, value *domain.StockStatusReport, ttl time.Duration) error
	Invalidate(ctx context.Context, keys ...string) error
}

type NoopStockReportCache struct{}

func (NoopStockReportCache) Get(_ context.Context, _ string) (*domain.StockStatusReport, bool, error) {
	return nil, false, nil
}

func (NoopStockReportCache) Set(_ context.Context, _ string, _ *domain.StockStatusReport, _ time.Duration) error {
	return nil
}

func (NoopStockReportCache) Invalidate(_ context.Context, _ ...string) error {
	return nil
}
