package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/azizikri/coupon-catalog/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// Store is a read-only source of coupon snapshots.
type Store interface {
	ListCoupons(ctx context.Context) ([]domain.Coupon, error)
	GetCouponByCode(ctx context.Context, code string) (domain.Coupon, error)
}

const couponColumns = `
	id, code, title, category, discount_type,
	discount_value::text AS discount_value,
	max_discount::text AS max_discount,
	start_date, end_date, usage_limit, usage_count, status,
	service_name, studio_name`

const listCoupons = `SELECT ` + couponColumns + `
FROM coupons
ORDER BY created_at DESC, code`

const getCouponByCode = `SELECT ` + couponColumns + `
FROM coupons
WHERE code = $1`

type couponRow struct {
	ID            string      `db:"id"`
	Code          string      `db:"code"`
	Title         string      `db:"title"`
	Category      string      `db:"category"`
	DiscountType  string      `db:"discount_type"`
	DiscountValue string      `db:"discount_value"`
	MaxDiscount   pgtype.Text `db:"max_discount"`
	StartDate     pgtype.Date `db:"start_date"`
	EndDate       pgtype.Date `db:"end_date"`
	UsageLimit    int32       `db:"usage_limit"`
	UsageCount    int32       `db:"usage_count"`
	Status        string      `db:"status"`
	ServiceName   pgtype.Text `db:"service_name"`
	StudioName    pgtype.Text `db:"studio_name"`
}

type store struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) Store {
	return &store{pool: pool}
}

func (s *store) ListCoupons(ctx context.Context) ([]domain.Coupon, error) {
	rows, err := s.pool.Query(ctx, listCoupons)
	if err != nil {
		return nil, fmt.Errorf("query coupons: %w", err)
	}
	records, err := pgx.CollectRows(rows, pgx.RowToStructByName[couponRow])
	if err != nil {
		return nil, fmt.Errorf("collect coupons: %w", err)
	}

	coupons := make([]domain.Coupon, 0, len(records))
	for _, r := range records {
		c, err := r.toDomain()
		if err != nil {
			return nil, err
		}
		coupons = append(coupons, c)
	}
	return coupons, nil
}

// GetCouponByCode returns pgx.ErrNoRows when no coupon has the code.
func (s *store) GetCouponByCode(ctx context.Context, code string) (domain.Coupon, error) {
	rows, err := s.pool.Query(ctx, getCouponByCode, code)
	if err != nil {
		return domain.Coupon{}, fmt.Errorf("query coupon %s: %w", code, err)
	}
	record, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[couponRow])
	if err != nil {
		return domain.Coupon{}, err
	}
	return record.toDomain()
}

func (r couponRow) toDomain() (domain.Coupon, error) {
	category, err := domain.ParseCouponCategory(r.Category)
	if err != nil {
		return domain.Coupon{}, fmt.Errorf("coupon %s: %w", r.ID, err)
	}
	discountType, err := domain.ParseDiscountType(r.DiscountType)
	if err != nil {
		return domain.Coupon{}, fmt.Errorf("coupon %s: %w", r.ID, err)
	}
	status, err := domain.ParseCouponStatus(r.Status)
	if err != nil {
		return domain.Coupon{}, fmt.Errorf("coupon %s: %w", r.ID, err)
	}
	value, err := decimal.NewFromString(r.DiscountValue)
	if err != nil {
		return domain.Coupon{}, fmt.Errorf("coupon %s: discount value: %w", r.ID, err)
	}

	c := domain.Coupon{
		ID:            r.ID,
		Code:          r.Code,
		Title:         r.Title,
		Category:      category,
		DiscountType:  discountType,
		DiscountValue: value,
		StartDate:     dateOrNil(r.StartDate),
		EndDate:       dateOrNil(r.EndDate),
		UsageLimit:    int(r.UsageLimit),
		UsageCount:    int(r.UsageCount),
		Status:        status,
		ServiceName:   r.ServiceName.String,
		StudioName:    r.StudioName.String,
	}
	if r.MaxDiscount.Valid {
		maxDiscount, err := decimal.NewFromString(r.MaxDiscount.String)
		if err != nil {
			return domain.Coupon{}, fmt.Errorf("coupon %s: max discount: %w", r.ID, err)
		}
		c.MaxDiscount = &maxDiscount
	}
	return c, nil
}

func dateOrNil(d pgtype.Date) *time.Time {
	if !d.Valid {
		return nil
	}
	t := d.Time
	return &t
}
