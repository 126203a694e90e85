package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/azizikri/coupon-catalog/internal/catalog"
	"github.com/azizikri/coupon-catalog/internal/domain"
	"github.com/azizikri/coupon-catalog/internal/repository"
	"github.com/azizikri/coupon-catalog/internal/usecase"
	"github.com/go-chi/chi/v5"
	"golang.org/x/text/language"
)

type mockGateway struct {
	viewCatalogFn func(ctx context.Context, query usecase.ViewQuery) (*usecase.CatalogView, error)
	viewHistoryFn func(ctx context.Context, locale language.Tag) (*usecase.CatalogView, error)
	getCouponFn   func(ctx context.Context, code string, locale language.Tag) (*catalog.DisplayRecord, error)
}

func (m *mockGateway) ViewCatalog(ctx context.Context, query usecase.ViewQuery) (*usecase.CatalogView, error) {
	if m.viewCatalogFn != nil {
		return m.viewCatalogFn(ctx, query)
	}
	return &usecase.CatalogView{}, nil
}

func (m *mockGateway) ViewHistory(ctx context.Context, locale language.Tag) (*usecase.CatalogView, error) {
	if m.viewHistoryFn != nil {
		return m.viewHistoryFn(ctx, locale)
	}
	return &usecase.CatalogView{}, nil
}

func (m *mockGateway) GetCoupon(ctx context.Context, code string, locale language.Tag) (*catalog.DisplayRecord, error) {
	if m.getCouponFn != nil {
		return m.getCouponFn(ctx, code, locale)
	}
	return &catalog.DisplayRecord{}, nil
}

func (m *mockGateway) FilterOptions() usecase.FilterOptions {
	return usecase.NewFilterOptions()
}

func newRouter(gateway usecase.CatalogGateway) http.Handler {
	r := chi.NewRouter()
	NewHandler(gateway, catalog.LocaleIndia).Routes(r)
	return r
}

func serve(t *testing.T, h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestViewCatalog_FixtureSnapshot(t *testing.T) {
	service := usecase.NewCatalogService(repository.NewFileStore("../../../testdata/coupons.yaml"), "₹")
	router := newRouter(service)

	rec := serve(t, router, httptest.NewRequest(http.MethodGet, "/api/coupons?status=All&category=All", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected application/json, got %s", ct)
	}

	var view usecase.CatalogView
	if err := json.NewDecoder(rec.Body).Decode(&view); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(view.Coupons) != 3 {
		t.Fatalf("expected 3 live coupons, got %d", len(view.Coupons))
	}
	studio := view.Coupons[1]
	if studio.Discount.Text != "₹150 OFF" || studio.Redemption.Label != "312/∞" || studio.Redemption.Ratio != 0 {
		t.Fatalf("unexpected studio row %+v", studio)
	}
	if studio.Badge != catalog.BadgePositive {
		t.Fatalf("expected positive badge, got %s", studio.Badge)
	}
}

func TestViewCatalog_ParsesQuery(t *testing.T) {
	var got usecase.ViewQuery
	router := newRouter(&mockGateway{
		viewCatalogFn: func(ctx context.Context, query usecase.ViewQuery) (*usecase.CatalogView, error) {
			got = query
			return &usecase.CatalogView{Empty: true, EmptyMessage: usecase.EmptyCatalogMessage}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/coupons?status=draft&category=studio", nil)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	rec := serve(t, router, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got.Filter.Status != "DRAFT" || got.Filter.Category != "STUDIO" {
		t.Fatalf("unexpected filter %+v", got.Filter)
	}
	if got.Locale != catalog.LocaleUS {
		t.Fatalf("expected en-US from Accept-Language, got %s", got.Locale)
	}
}

func TestViewCatalog_LangParamOverridesHeader(t *testing.T) {
	var got language.Tag
	router := newRouter(&mockGateway{
		viewCatalogFn: func(ctx context.Context, query usecase.ViewQuery) (*usecase.CatalogView, error) {
			got = query.Locale
			return &usecase.CatalogView{}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/coupons?lang=en-GB", nil)
	req.Header.Set("Accept-Language", "en-US")
	serve(t, router, req)

	if got != catalog.LocaleBritain {
		t.Fatalf("expected en-GB, got %s", got)
	}
}

func TestViewCatalog_GatewayErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"timeout", domain.ErrTimeout, http.StatusServiceUnavailable},
		{"internal", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newRouter(&mockGateway{
				viewCatalogFn: func(ctx context.Context, query usecase.ViewQuery) (*usecase.CatalogView, error) {
					return nil, tt.err
				},
			})
			rec := serve(t, router, httptest.NewRequest(http.MethodGet, "/api/coupons", nil))
			if rec.Code != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, rec.Code)
			}
		})
	}
}

func TestViewHistory(t *testing.T) {
	called := false
	router := newRouter(&mockGateway{
		viewHistoryFn: func(ctx context.Context, locale language.Tag) (*usecase.CatalogView, error) {
			called = true
			return &usecase.CatalogView{Coupons: []catalog.DisplayRecord{{Code: "OLD", Historical: true}}}, nil
		},
	})

	rec := serve(t, router, httptest.NewRequest(http.MethodGet, "/api/coupons/history", nil))
	if rec.Code != http.StatusOK || !called {
		t.Fatalf("expected history route to be served, got %d", rec.Code)
	}
}

func TestFilterOptions(t *testing.T) {
	router := newRouter(&mockGateway{})
	rec := serve(t, router, httptest.NewRequest(http.MethodGet, "/api/coupons/filters", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var opts usecase.FilterOptions
	if err := json.NewDecoder(rec.Body).Decode(&opts); err != nil {
		t.Fatalf("decode: %v", err)
	}
	for _, s := range opts.Statuses {
		if s == "EXPIRED" || s == "INACTIVE" {
			t.Fatalf("status options must not offer %s", s)
		}
	}
	if len(opts.DiscountTypes) != 2 || len(opts.Locales) != 3 {
		t.Fatalf("expected discount types and locales, got %+v", opts)
	}
}

func TestGetCoupon(t *testing.T) {
	var gotCode string
	router := newRouter(&mockGateway{
		getCouponFn: func(ctx context.Context, code string, locale language.Tag) (*catalog.DisplayRecord, error) {
			gotCode = code
			if code == "MISSING" {
				return nil, domain.ErrNotFound
			}
			return &catalog.DisplayRecord{Code: code}, nil
		},
	})

	rec := serve(t, router, httptest.NewRequest(http.MethodGet, "/api/coupons/GLOW20", nil))
	if rec.Code != http.StatusOK || gotCode != "GLOW20" {
		t.Fatalf("expected 200 for GLOW20, got %d (%s)", rec.Code, gotCode)
	}

	rec = serve(t, router, httptest.NewRequest(http.MethodGet, "/api/coupons/MISSING", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
