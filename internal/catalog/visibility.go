// Package catalog decides which coupons belong in the management view,
// narrows them by the caller's filter selection and derives the values a
// renderer needs for each row. Every function here is pure: inputs are
// never mutated and each call returns a fresh slice.
package catalog

import "github.com/azizikri/coupon-catalog/internal/domain"

// IsHistorical reports whether a coupon is hidden from the primary view:
// it is expired, inactive, or its usage limit is exhausted.
func IsHistorical(c domain.Coupon) bool {
	switch c.Status {
	case domain.StatusExpired, domain.StatusInactive:
		return true
	}
	return !c.Unlimited() && c.UsageCount >= c.UsageLimit
}

func IsLive(c domain.Coupon) bool {
	return !IsHistorical(c)
}

// Live returns the live coupons in input order.
func Live(coupons []domain.Coupon) []domain.Coupon {
	live, _ := Partition(coupons)
	return live
}

// History returns the historical coupons in input order.
func History(coupons []domain.Coupon) []domain.Coupon {
	_, history := Partition(coupons)
	return history
}

// Partition splits coupons into live and historical sets in one pass.
// Both results are non-nil.
func Partition(coupons []domain.Coupon) (live, history []domain.Coupon) {
	live = make([]domain.Coupon, 0, len(coupons))
	history = make([]domain.Coupon, 0)
	for _, c := range coupons {
		if IsHistorical(c) {
			history = append(history, c)
			continue
		}
		live = append(live, c)
	}
	return live, history
}
