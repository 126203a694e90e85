package catalog

import (
	"strings"

	"github.com/azizikri/coupon-catalog/internal/domain"
)

// All is the wildcard value for either filter dimension.
const All = "All"

// StatusFilter is All or a status that can appear in the live view.
type StatusFilter string

// CategoryFilter is All or one coupon category.
type CategoryFilter string

const (
	AnyStatus   StatusFilter   = All
	AnyCategory CategoryFilter = All
)

type Filter struct {
	Status   StatusFilter   `json:"status"`
	Category CategoryFilter `json:"category"`
}

// NoFilter matches every live coupon.
func NoFilter() Filter {
	return Filter{Status: AnyStatus, Category: AnyCategory}
}

func (f StatusFilter) Matches(c domain.Coupon) bool {
	return f == AnyStatus || f == "" || string(f) == string(c.Status)
}

func (f CategoryFilter) Matches(c domain.Coupon) bool {
	return f == AnyCategory || f == "" || string(f) == string(c.Category)
}

func (f Filter) Matches(c domain.Coupon) bool {
	return f.Status.Matches(c) && f.Category.Matches(c)
}

// ParseStatusFilter normalises caller input. Values outside the vocabulary
// are kept as-is and simply match nothing.
func ParseStatusFilter(value string) StatusFilter {
	if isWildcard(value) {
		return AnyStatus
	}
	return StatusFilter(strings.ToUpper(strings.TrimSpace(value)))
}

func ParseCategoryFilter(value string) CategoryFilter {
	if isWildcard(value) {
		return AnyCategory
	}
	return CategoryFilter(strings.ToUpper(strings.TrimSpace(value)))
}

func isWildcard(value string) bool {
	value = strings.TrimSpace(value)
	return value == "" || strings.EqualFold(value, All)
}

// FilterCoupons classifies the full list, then keeps live coupons matching
// both dimensions of f. Order is preserved and the result is never nil.
func FilterCoupons(coupons []domain.Coupon, f Filter) []domain.Coupon {
	out := make([]domain.Coupon, 0, len(coupons))
	for _, c := range coupons {
		if IsHistorical(c) || !f.Matches(c) {
			continue
		}
		out = append(out, c)
	}
	return out
}

// StatusFilterOptions lists the selectable status values. A status is
// offered only if some coupon carrying it could be live, which leaves out
// EXPIRED and INACTIVE.
func StatusFilterOptions() []StatusFilter {
	out := []StatusFilter{AnyStatus}
	for _, s := range domain.CouponStatuses() {
		if IsLive(domain.Coupon{Status: s}) {
			out = append(out, StatusFilter(s))
		}
	}
	return out
}

func CategoryFilterOptions() []CategoryFilter {
	out := []CategoryFilter{AnyCategory}
	for _, c := range domain.CouponCategories() {
		out = append(out, CategoryFilter(c))
	}
	return out
}
