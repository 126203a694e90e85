package kafka

import (
	"context"

	"github.com/azizikri/coupon-catalog/internal/catalog"
	"github.com/azizikri/coupon-catalog/internal/usecase"
	"golang.org/x/text/language"
)

// DirectGateway calls the catalog service in process, for deployments
// running without Kafka.
type DirectGateway struct {
	service *usecase.CatalogService
}

func NewDirectGateway(service *usecase.CatalogService) usecase.CatalogGateway {
	return &DirectGateway{service: service}
}

func (g *DirectGateway) ViewCatalog(ctx context.Context, query usecase.ViewQuery) (*usecase.CatalogView, error) {
	return g.service.ViewCatalog(ctx, query)
}

func (g *DirectGateway) ViewHistory(ctx context.Context, locale language.Tag) (*usecase.CatalogView, error) {
	return g.service.ViewHistory(ctx, locale)
}

func (g *DirectGateway) GetCoupon(ctx context.Context, code string, locale language.Tag) (*catalog.DisplayRecord, error) {
	return g.service.GetCoupon(ctx, code, locale)
}

func (g *DirectGateway) FilterOptions() usecase.FilterOptions {
	return g.service.FilterOptions()
}
