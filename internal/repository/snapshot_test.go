package repository

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/azizikri/coupon-catalog/internal/domain"
)

func writeSnapshot(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "coupons.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write snapshot: %v", err)
	}
	return path
}

func TestLoadSnapshot_Fixture(t *testing.T) {
	coupons, err := LoadSnapshot("../../testdata/coupons.yaml")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(coupons) != 6 {
		t.Fatalf("expected 6 coupons, got %d", len(coupons))
	}

	first := coupons[0]
	if first.Code != "GLOW20" || first.DiscountType != domain.DiscountPercent {
		t.Fatalf("unexpected first coupon: %+v", first)
	}
	if first.MaxDiscount == nil || first.MaxDiscount.String() != "500" {
		t.Fatalf("expected max discount 500, got %v", first.MaxDiscount)
	}
	if first.StartDate == nil || !first.StartDate.Equal(time.Date(2026, time.October, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected start date %v", first.StartDate)
	}

	second := coupons[1]
	if second.MaxDiscount != nil || second.StartDate != nil || second.EndDate != nil {
		t.Fatalf("expected absent optionals, got %+v", second)
	}
	if second.StudioName != "Indiranagar" {
		t.Fatalf("expected studio name, got %q", second.StudioName)
	}
}

func TestParseSnapshot_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "missing code",
			content: "coupons:\n  - id: \"x\"\n",
			want:    "id and code are required",
		},
		{
			name: "duplicate code",
			content: `coupons:
  - {id: "a", code: "DUP", category: "GENERAL", discount_type: "FLAT", discount_value: "1", status: "ACTIVE"}
  - {id: "b", code: "DUP", category: "GENERAL", discount_type: "FLAT", discount_value: "1", status: "ACTIVE"}
`,
			want: "duplicate code",
		},
		{
			name:    "bad date",
			content: `coupons: [{id: "a", code: "A", category: "GENERAL", discount_type: "FLAT", discount_value: "1", status: "ACTIVE", start_date: "31/12/2026"}]`,
			want:    "start date",
		},
		{
			name:    "negative value",
			content: `coupons: [{id: "a", code: "A", category: "GENERAL", discount_type: "FLAT", discount_value: "-5", status: "ACTIVE"}]`,
			want:    "negative",
		},
		{
			name:    "malformed yaml",
			content: "coupons: [",
			want:    "parsing snapshot",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSnapshot([]byte(tt.content))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestParseSnapshot_UnknownEnum(t *testing.T) {
	content := `coupons: [{id: "a", code: "A", category: "GENERAL", discount_type: "FLAT", discount_value: "1", status: "ARCHIVED"}]`
	_, err := ParseSnapshot([]byte(content))
	if !errors.Is(err, domain.ErrUnknownValue) {
		t.Fatalf("expected ErrUnknownValue, got %v", err)
	}
}

func TestFileStore_GetCouponByCode(t *testing.T) {
	path := writeSnapshot(t, `coupons:
  - {id: "a", code: "A", category: "GENERAL", discount_type: "FLAT", discount_value: "10", status: "ACTIVE"}
`)
	s := NewFileStore(path)

	c, err := s.GetCouponByCode(context.Background(), "A")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if c.ID != "a" {
		t.Fatalf("expected id a, got %s", c.ID)
	}

	_, err = s.GetCouponByCode(context.Background(), "missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFileStore_RereadsFile(t *testing.T) {
	path := writeSnapshot(t, "coupons: []\n")
	s := NewFileStore(path)

	coupons, err := s.ListCoupons(context.Background())
	if err != nil || len(coupons) != 0 {
		t.Fatalf("expected empty snapshot, got %v, %v", coupons, err)
	}

	updated := `coupons: [{id: "a", code: "A", category: "GENERAL", discount_type: "FLAT", discount_value: "1", status: "DRAFT"}]`
	if err := os.WriteFile(path, []byte(updated), 0o600); err != nil {
		t.Fatalf("rewrite snapshot: %v", err)
	}

	coupons, err = s.ListCoupons(context.Background())
	if err != nil || len(coupons) != 1 {
		t.Fatalf("expected updated snapshot, got %v, %v", coupons, err)
	}
}

func TestFileStore_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewFileStore("unused.yaml").ListCoupons(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
