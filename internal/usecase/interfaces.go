package usecase

import (
	"context"

	"github.com/azizikri/coupon-catalog/internal/catalog"
	"golang.org/x/text/language"
)

// CatalogGateway is what delivery layers call. It is served either in
// process by CatalogService or over Kafka request/reply.
type CatalogGateway interface {
	ViewCatalog(ctx context.Context, query ViewQuery) (*CatalogView, error)
	ViewHistory(ctx context.Context, locale language.Tag) (*CatalogView, error)
	GetCoupon(ctx context.Context, code string, locale language.Tag) (*catalog.DisplayRecord, error)
	FilterOptions() FilterOptions
}
