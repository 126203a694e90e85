package catalog

import (
	"math"
	"strconv"

	"github.com/azizikri/coupon-catalog/internal/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const (
	DefaultCurrency = "₹"
	NotAvailable    = "N/A"
	UnlimitedMarker = "∞"
)

type Badge string

const (
	BadgePositive Badge = "positive"
	BadgeNegative Badge = "negative"
	BadgeNeutral  Badge = "neutral"
	BadgeMuted    Badge = "muted"
)

// BadgeStyle maps a status to the display category a renderer colours by.
func BadgeStyle(s domain.CouponStatus) Badge {
	switch s {
	case domain.StatusActive:
		return BadgePositive
	case domain.StatusExpired:
		return BadgeNegative
	case domain.StatusDraft:
		return BadgeNeutral
	case domain.StatusInactive:
		return BadgeMuted
	default:
		return BadgeNeutral
	}
}

type Discount struct {
	Text    string `json:"text"`
	Caption string `json:"caption,omitempty"`
}

type Validity struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Redemption drives a progress bar. Ratio is always within [0,1].
type Redemption struct {
	Ratio     float64 `json:"ratio"`
	Percent   int     `json:"percent"`
	Label     string  `json:"label"`
	Unlimited bool    `json:"unlimited"`
	Overdrawn bool    `json:"overdrawn"`
}

type DisplayRecord struct {
	ID          string                `json:"id"`
	Code        string                `json:"code"`
	Title       string                `json:"title"`
	Category    domain.CouponCategory `json:"category"`
	ServiceName string                `json:"service_name,omitempty"`
	StudioName  string                `json:"studio_name,omitempty"`
	Discount    Discount              `json:"discount"`
	Validity    Validity              `json:"validity"`
	Redemption  Redemption            `json:"redemption"`
	Status      domain.CouponStatus   `json:"status"`
	Badge       Badge                 `json:"badge"`
	Historical  bool                  `json:"historical"`
}

type FormatOptions struct {
	Locale   language.Tag
	Currency string
	Dates    DateFormatter
}

type Formatter struct {
	locale   language.Tag
	currency string
	dates    DateFormatter
	printer  *message.Printer
}

// NewFormatter fills unset options with the default locale, the rupee
// symbol and the locale's date layout.
func NewFormatter(opts FormatOptions) *Formatter {
	if opts.Locale == language.Und {
		opts.Locale = DefaultLocale
	}
	if opts.Currency == "" {
		opts.Currency = DefaultCurrency
	}
	if opts.Dates == nil {
		opts.Dates = LocaleDates(opts.Locale)
	}
	return &Formatter{
		locale:   opts.Locale,
		currency: opts.Currency,
		dates:    opts.Dates,
		printer:  message.NewPrinter(opts.Locale),
	}
}

func (f *Formatter) Locale() language.Tag {
	return f.locale
}

func (f *Formatter) Format(c domain.Coupon) DisplayRecord {
	return DisplayRecord{
		ID:          c.ID,
		Code:        c.Code,
		Title:       c.Title,
		Category:    c.Category,
		ServiceName: c.ServiceName,
		StudioName:  c.StudioName,
		Discount:    f.Discount(c),
		Validity:    f.Validity(c),
		Redemption:  RedemptionOf(c),
		Status:      c.Status,
		Badge:       BadgeStyle(c.Status),
		Historical:  IsHistorical(c),
	}
}

// FormatAll formats coupons in order. The result is never nil.
func (f *Formatter) FormatAll(coupons []domain.Coupon) []DisplayRecord {
	out := make([]DisplayRecord, 0, len(coupons))
	for _, c := range coupons {
		out = append(out, f.Format(c))
	}
	return out
}

func (f *Formatter) Discount(c domain.Coupon) Discount {
	var d Discount
	switch c.DiscountType {
	case domain.DiscountPercent:
		d.Text = f.amount(c.DiscountValue) + "% OFF"
	default:
		d.Text = f.money(c.DiscountValue) + " OFF"
	}
	// A zero cap is treated as no cap.
	if c.MaxDiscount != nil && !c.MaxDiscount.IsZero() {
		d.Caption = "Up to " + f.money(*c.MaxDiscount)
	}
	return d
}

func (f *Formatter) Validity(c domain.Coupon) Validity {
	start, end := NotAvailable, NotAvailable
	if c.StartDate != nil {
		start = f.dates(*c.StartDate)
	}
	if c.EndDate != nil {
		end = f.dates(*c.EndDate)
	}
	return Validity{
		Start: "Start: " + start,
		End:   "End: " + end,
	}
}

// RedemptionOf never divides by an unlimited (zero) usage limit and clamps
// counts beyond the limit to a full bar.
func RedemptionOf(c domain.Coupon) Redemption {
	count := strconv.Itoa(c.UsageCount)
	if c.Unlimited() {
		return Redemption{
			Label:     count + "/" + UnlimitedMarker,
			Unlimited: true,
		}
	}

	r := Redemption{Label: count + "/" + strconv.Itoa(c.UsageLimit)}
	ratio := float64(c.UsageCount) / float64(c.UsageLimit)
	switch {
	case ratio > 1:
		ratio = 1
		r.Overdrawn = true
	case ratio < 0:
		ratio = 0
	}
	r.Ratio = ratio
	r.Percent = int(math.Round(ratio * 100))
	return r
}

func (f *Formatter) money(d decimal.Decimal) string {
	return f.currency + f.amount(d)
}

func (f *Formatter) amount(d decimal.Decimal) string {
	if d.IsInteger() {
		return f.printer.Sprintf("%v", d.IntPart())
	}
	return f.printer.Sprint(number.Decimal(d.InexactFloat64(), number.MaxFractionDigits(2)))
}
