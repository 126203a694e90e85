package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound     = errors.New("coupon not found")
	ErrUnknownValue = errors.New("unknown enum value")
	ErrTimeout      = errors.New("timeout waiting for response")
)

type CouponStatus string

const (
	StatusActive   CouponStatus = "ACTIVE"
	StatusExpired  CouponStatus = "EXPIRED"
	StatusDraft    CouponStatus = "DRAFT"
	StatusInactive CouponStatus = "INACTIVE"
)

// CouponStatuses returns the status vocabulary in display order.
func CouponStatuses() []CouponStatus {
	return []CouponStatus{StatusActive, StatusExpired, StatusDraft, StatusInactive}
}

func (s CouponStatus) Valid() bool {
	switch s {
	case StatusActive, StatusExpired, StatusDraft, StatusInactive:
		return true
	}
	return false
}

func ParseCouponStatus(value string) (CouponStatus, error) {
	s := CouponStatus(value)
	if !s.Valid() {
		return "", fmt.Errorf("status %q: %w", value, ErrUnknownValue)
	}
	return s, nil
}

type CouponCategory string

const (
	CategoryGeneral      CouponCategory = "GENERAL"
	CategoryService      CouponCategory = "SERVICE"
	CategoryStudio       CouponCategory = "STUDIO"
	CategoryFirstBooking CouponCategory = "FIRST_BOOKING"
	CategoryFestive      CouponCategory = "FESTIVE"
	CategoryReferral     CouponCategory = "REFERRAL"
)

// CouponCategories returns the category vocabulary in display order.
func CouponCategories() []CouponCategory {
	return []CouponCategory{
		CategoryGeneral,
		CategoryService,
		CategoryStudio,
		CategoryFirstBooking,
		CategoryFestive,
		CategoryReferral,
	}
}

func (c CouponCategory) Valid() bool {
	switch c {
	case CategoryGeneral, CategoryService, CategoryStudio, CategoryFirstBooking, CategoryFestive, CategoryReferral:
		return true
	}
	return false
}

func ParseCouponCategory(value string) (CouponCategory, error) {
	c := CouponCategory(value)
	if !c.Valid() {
		return "", fmt.Errorf("category %q: %w", value, ErrUnknownValue)
	}
	return c, nil
}

type DiscountType string

const (
	DiscountFlat    DiscountType = "FLAT"
	DiscountPercent DiscountType = "PERCENT"
)

func DiscountTypes() []DiscountType {
	return []DiscountType{DiscountFlat, DiscountPercent}
}

func (d DiscountType) Valid() bool {
	return d == DiscountFlat || d == DiscountPercent
}

func ParseDiscountType(value string) (DiscountType, error) {
	d := DiscountType(value)
	if !d.Valid() {
		return "", fmt.Errorf("discount type %q: %w", value, ErrUnknownValue)
	}
	return d, nil
}

// Coupon is a read-only snapshot row. Whether a coupon is historical is
// derived from Status and the usage fields on every read, never stored.
type Coupon struct {
	ID            string           `json:"id"`
	Code          string           `json:"code"`
	Title         string           `json:"title"`
	Category      CouponCategory   `json:"category"`
	DiscountType  DiscountType     `json:"discount_type"`
	DiscountValue decimal.Decimal  `json:"discount_value"`
	MaxDiscount   *decimal.Decimal `json:"max_discount,omitempty"`
	StartDate     *time.Time       `json:"start_date,omitempty"`
	EndDate       *time.Time       `json:"end_date,omitempty"`
	UsageLimit    int              `json:"usage_limit"`
	UsageCount    int              `json:"usage_count"`
	Status        CouponStatus     `json:"status"`
	ServiceName   string           `json:"service_name,omitempty"`
	StudioName    string           `json:"studio_name,omitempty"`
}

// Unlimited reports whether the coupon has no usage cap.
func (c Coupon) Unlimited() bool {
	return c.UsageLimit <= 0
}
