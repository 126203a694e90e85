package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/azizikri/coupon-catalog/internal/catalog"
	"github.com/azizikri/coupon-catalog/internal/domain"
	"github.com/azizikri/coupon-catalog/internal/repository"
	"github.com/jackc/pgx/v5"
	"golang.org/x/text/language"
)

const (
	EmptyCatalogMessage = "No active coupons found. Create a new one to get started."
	EmptyHistoryMessage = "No historical coupons yet."
)

type ViewQuery struct {
	Filter catalog.Filter
	Locale language.Tag
}

type CatalogView struct {
	Locale       string                  `json:"locale"`
	Filter       catalog.Filter          `json:"filter"`
	LiveCount    int                     `json:"live_count"`
	Coupons      []catalog.DisplayRecord `json:"coupons"`
	Empty        bool                    `json:"empty"`
	EmptyMessage string                  `json:"empty_message,omitempty"`
}

type FilterOptions struct {
	Statuses      []catalog.StatusFilter   `json:"statuses"`
	Categories    []catalog.CategoryFilter `json:"categories"`
	DiscountTypes []domain.DiscountType    `json:"discountTypes"`
	Locales       []string                 `json:"locales"`
}

// NewFilterOptions lists the toolbar vocabularies and the locales the
// formatter can render.
func NewFilterOptions() FilterOptions {
	tags := catalog.SupportedLocales()
	locales := make([]string, 0, len(tags))
	for _, tag := range tags {
		locales = append(locales, tag.String())
	}
	return FilterOptions{
		Statuses:      catalog.StatusFilterOptions(),
		Categories:    catalog.CategoryFilterOptions(),
		DiscountTypes: domain.DiscountTypes(),
		Locales:       locales,
	}
}

type CatalogService struct {
	store    repository.Store
	currency string
}

func NewCatalogService(store repository.Store, currency string) *CatalogService {
	return &CatalogService{store: store, currency: currency}
}

func (s *CatalogService) formatter(locale language.Tag) *catalog.Formatter {
	return catalog.NewFormatter(catalog.FormatOptions{
		Locale:   locale,
		Currency: s.currency,
	})
}

// ViewCatalog runs classify, filter and format over the current snapshot.
func (s *CatalogService) ViewCatalog(ctx context.Context, query ViewQuery) (*CatalogView, error) {
	coupons, err := s.store.ListCoupons(ctx)
	if err != nil {
		return nil, fmt.Errorf("list coupons: %w", err)
	}

	live := catalog.Live(coupons)
	filtered := catalog.FilterCoupons(coupons, query.Filter)
	f := s.formatter(query.Locale)

	view := &CatalogView{
		Locale:    f.Locale().String(),
		Filter:    query.Filter,
		LiveCount: len(live),
		Coupons:   f.FormatAll(filtered),
	}
	if len(view.Coupons) == 0 {
		view.Empty = true
		view.EmptyMessage = EmptyCatalogMessage
	}
	warnOverdrawn(coupons)
	return view, nil
}

// ViewHistory formats the coupons the catalog view hides.
func (s *CatalogService) ViewHistory(ctx context.Context, locale language.Tag) (*CatalogView, error) {
	coupons, err := s.store.ListCoupons(ctx)
	if err != nil {
		return nil, fmt.Errorf("list coupons: %w", err)
	}

	live, history := catalog.Partition(coupons)
	f := s.formatter(locale)

	view := &CatalogView{
		Locale:    f.Locale().String(),
		Filter:    catalog.NoFilter(),
		LiveCount: len(live),
		Coupons:   f.FormatAll(history),
	}
	if len(view.Coupons) == 0 {
		view.Empty = true
		view.EmptyMessage = EmptyHistoryMessage
	}
	return view, nil
}

func (s *CatalogService) GetCoupon(ctx context.Context, code string, locale language.Tag) (*catalog.DisplayRecord, error) {
	coupon, err := s.store.GetCouponByCode(ctx, code)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	rec := s.formatter(locale).Format(coupon)
	if rec.Redemption.Overdrawn {
		warnOverdrawn([]domain.Coupon{coupon})
	}
	return &rec, nil
}

func (s *CatalogService) FilterOptions() FilterOptions {
	return NewFilterOptions()
}

// warnOverdrawn logs coupons whose redemptions exceed their limit. They are
// still served, with the progress clamped to full.
func warnOverdrawn(coupons []domain.Coupon) {
	for _, c := range coupons {
		if !c.Unlimited() && c.UsageCount > c.UsageLimit {
			log.Printf("Warning: coupon %s (%s) has %d redemptions over a limit of %d", c.Code, c.ID, c.UsageCount, c.UsageLimit)
		}
	}
}

var _ CatalogGateway = (*CatalogService)(nil)
