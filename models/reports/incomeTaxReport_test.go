package reports

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestSlabTax(t *testing.T) {
	cases := []struct {
		income int64
		want   string
	}{
		{0, "0"},
		{200000, "0"},
		{250000, "0"},
		{300000, "2500"},
		{500000, "12500"},
		{750000, "37500"},
		{1000000, "75000"},
		{1200000, "135000"},
	}
	for _, c := range cases {
		got := SlabTax(decimal.NewFromInt(c.income))
		if got.String() != c.want {
			t.Fatalf("SlabTax(%d): expected %s, got %s", c.income, c.want, got.String())
		}
	}
}

func TestSlabTax_NegativeIncome(t *testing.T) {
	if got := SlabTax(decimal.NewFromInt(-50000)); !got.IsZero() {
		t.Fatalf("loss years owe nothing, got %s", got.String())
	}
}

func TestNetPayable(t *testing.T) {
	got := netPayable(decimal.NewFromInt(1000), decimal.NewFromInt(400))
	if got.String() != "600" {
		t.Fatalf("expected 600, got %s", got.String())
	}
	got = netPayable(decimal.NewFromInt(400), decimal.NewFromInt(1000))
	if !got.IsZero() {
		t.Fatalf("excess credit should floor at zero, got %s", got.String())
	}
}
