package repository

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/azizikri/coupon-catalog/internal/domain"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

const snapshotDateLayout = "2006-01-02"

type snapshotFile struct {
	Coupons []snapshotCoupon `yaml:"coupons"`
}

type snapshotCoupon struct {
	ID            string `yaml:"id"`
	Code          string `yaml:"code"`
	Title         string `yaml:"title"`
	Category      string `yaml:"category"`
	DiscountType  string `yaml:"discount_type"`
	DiscountValue string `yaml:"discount_value"`
	MaxDiscount   string `yaml:"max_discount"`
	StartDate     string `yaml:"start_date"`
	EndDate       string `yaml:"end_date"`
	UsageLimit    int    `yaml:"usage_limit"`
	UsageCount    int    `yaml:"usage_count"`
	Status        string `yaml:"status"`
	ServiceName   string `yaml:"service_name"`
	StudioName    string `yaml:"studio_name"`
}

// FileStore serves coupons from a YAML snapshot. The file is re-read on
// every call so edits are picked up without a restart.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) ListCoupons(ctx context.Context) ([]domain.Coupon, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return LoadSnapshot(s.path)
}

func (s *FileStore) GetCouponByCode(ctx context.Context, code string) (domain.Coupon, error) {
	coupons, err := s.ListCoupons(ctx)
	if err != nil {
		return domain.Coupon{}, err
	}
	for _, c := range coupons {
		if c.Code == code {
			return c, nil
		}
	}
	return domain.Coupon{}, fmt.Errorf("code %s: %w", code, domain.ErrNotFound)
}

// LoadSnapshot reads and parses a YAML coupon snapshot.
func LoadSnapshot(path string) ([]domain.Coupon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot %s: %w", path, err)
	}
	return ParseSnapshot(data)
}

func ParseSnapshot(data []byte) ([]domain.Coupon, error) {
	var f snapshotFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing snapshot: %w", err)
	}

	seen := make(map[string]bool, len(f.Coupons))
	coupons := make([]domain.Coupon, 0, len(f.Coupons))
	for i, raw := range f.Coupons {
		if raw.ID == "" || raw.Code == "" {
			return nil, fmt.Errorf("coupon #%d: id and code are required", i)
		}
		if seen[raw.Code] {
			return nil, fmt.Errorf("coupon %s: duplicate code %q", raw.ID, raw.Code)
		}
		seen[raw.Code] = true

		c, err := raw.toDomain()
		if err != nil {
			return nil, fmt.Errorf("coupon %s: %w", raw.ID, err)
		}
		coupons = append(coupons, c)
	}
	return coupons, nil
}

func (r snapshotCoupon) toDomain() (domain.Coupon, error) {
	category, err := domain.ParseCouponCategory(r.Category)
	if err != nil {
		return domain.Coupon{}, err
	}
	discountType, err := domain.ParseDiscountType(r.DiscountType)
	if err != nil {
		return domain.Coupon{}, err
	}
	status, err := domain.ParseCouponStatus(r.Status)
	if err != nil {
		return domain.Coupon{}, err
	}
	value, err := decimal.NewFromString(r.DiscountValue)
	if err != nil {
		return domain.Coupon{}, fmt.Errorf("discount value: %w", err)
	}
	if value.IsNegative() {
		return domain.Coupon{}, fmt.Errorf("discount value %s is negative", value)
	}
	if r.UsageLimit < 0 || r.UsageCount < 0 {
		return domain.Coupon{}, fmt.Errorf("usage fields must be non-negative")
	}

	c := domain.Coupon{
		ID:            r.ID,
		Code:          r.Code,
		Title:         r.Title,
		Category:      category,
		DiscountType:  discountType,
		DiscountValue: value,
		UsageLimit:    r.UsageLimit,
		UsageCount:    r.UsageCount,
		Status:        status,
		ServiceName:   r.ServiceName,
		StudioName:    r.StudioName,
	}

	if r.MaxDiscount != "" {
		maxDiscount, err := decimal.NewFromString(r.MaxDiscount)
		if err != nil {
			return domain.Coupon{}, fmt.Errorf("max discount: %w", err)
		}
		c.MaxDiscount = &maxDiscount
	}
	if c.StartDate, err = parseSnapshotDate(r.StartDate); err != nil {
		return domain.Coupon{}, fmt.Errorf("start date: %w", err)
	}
	if c.EndDate, err = parseSnapshotDate(r.EndDate); err != nil {
		return domain.Coupon{}, fmt.Errorf("end date: %w", err)
	}
	return c, nil
}

func parseSnapshotDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(snapshotDateLayout, value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
