package catalog

import (
	"testing"

	"github.com/azizikri/coupon-catalog/internal/domain"
)

func TestIsHistorical(t *testing.T) {
	tests := []struct {
		name   string
		coupon domain.Coupon
		want   bool
	}{
		{"active unlimited", domain.Coupon{Status: domain.StatusActive}, false},
		{"draft unlimited", domain.Coupon{Status: domain.StatusDraft, UsageCount: 50}, false},
		{"expired", domain.Coupon{Status: domain.StatusExpired}, true},
		{"inactive", domain.Coupon{Status: domain.StatusInactive}, true},
		{"expired with spare usage", domain.Coupon{Status: domain.StatusExpired, UsageLimit: 100, UsageCount: 1}, true},
		{"active below limit", domain.Coupon{Status: domain.StatusActive, UsageLimit: 100, UsageCount: 99}, false},
		{"active limit exhausted", domain.Coupon{Status: domain.StatusActive, UsageLimit: 100, UsageCount: 100}, true},
		{"draft limit exhausted", domain.Coupon{Status: domain.StatusDraft, UsageLimit: 1, UsageCount: 1}, true},
		{"count beyond limit", domain.Coupon{Status: domain.StatusActive, UsageLimit: 10, UsageCount: 12}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsHistorical(tt.coupon); got != tt.want {
				t.Fatalf("IsHistorical() = %v, want %v", got, tt.want)
			}
			if IsLive(tt.coupon) == tt.want {
				t.Fatalf("IsLive() should be the negation of IsHistorical()")
			}
		})
	}
}

func TestIsHistorical_ClosedStatusesIgnoreUsage(t *testing.T) {
	for _, status := range []domain.CouponStatus{domain.StatusExpired, domain.StatusInactive} {
		for _, usage := range [][2]int{{0, 0}, {0, 10}, {10, 0}, {10, 9}, {10, 10}, {10, 20}} {
			c := domain.Coupon{Status: status, UsageLimit: usage[0], UsageCount: usage[1]}
			if !IsHistorical(c) {
				t.Fatalf("expected %s coupon with usage %v to be historical", status, usage)
			}
		}
	}
}

func TestIsHistorical_UnlimitedDependsOnlyOnStatus(t *testing.T) {
	for _, status := range domain.CouponStatuses() {
		want := IsHistorical(domain.Coupon{Status: status})
		for _, count := range []int{0, 1, 1000, 1 << 20} {
			c := domain.Coupon{Status: status, UsageLimit: 0, UsageCount: count}
			if got := IsHistorical(c); got != want {
				t.Fatalf("status %s count %d: got %v, want %v", status, count, got, want)
			}
		}
	}
}

func TestPartition_PreservesOrder(t *testing.T) {
	coupons := []domain.Coupon{
		{Code: "A", Status: domain.StatusActive},
		{Code: "B", Status: domain.StatusExpired},
		{Code: "C", Status: domain.StatusDraft},
		{Code: "D", Status: domain.StatusActive, UsageLimit: 5, UsageCount: 5},
		{Code: "E", Status: domain.StatusActive, UsageLimit: 5, UsageCount: 2},
	}

	live, history := Partition(coupons)
	if got := codes(live); got != "ACE" {
		t.Fatalf("expected live ACE, got %s", got)
	}
	if got := codes(history); got != "BD" {
		t.Fatalf("expected history BD, got %s", got)
	}
	if codes(Live(coupons)) != "ACE" || codes(History(coupons)) != "BD" {
		t.Fatalf("Live/History disagree with Partition")
	}
}

func TestPartition_EmptyInput(t *testing.T) {
	live, history := Partition(nil)
	if live == nil || history == nil {
		t.Fatalf("expected non-nil slices")
	}
	if len(live) != 0 || len(history) != 0 {
		t.Fatalf("expected empty slices")
	}
}

func codes(coupons []domain.Coupon) string {
	out := ""
	for _, c := range coupons {
		out += c.Code
	}
	return out
}
