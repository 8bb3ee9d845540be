package utils

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestSplitTax_IntraState(t *testing.T) {
	split := SplitTax("Rajasthan", "rajasthan", decimal.NewFromInt(180))
	if split.Cgst.String() != "90" {
		t.Fatalf("expected cgst 90, got %s", split.Cgst.String())
	}
	if split.Sgst.String() != "90" {
		t.Fatalf("expected sgst 90, got %s", split.Sgst.String())
	}
	if !split.Igst.IsZero() {
		t.Fatalf("expected igst 0, got %s", split.Igst.String())
	}
}

func TestSplitTax_InterState(t *testing.T) {
	split := SplitTax("Rajasthan", "Maharashtra", decimal.NewFromInt(180))
	if !split.Cgst.IsZero() || !split.Sgst.IsZero() {
		t.Fatalf("expected zero cgst/sgst, got %s/%s", split.Cgst.String(), split.Sgst.String())
	}
	if split.Igst.String() != "180" {
		t.Fatalf("expected igst 180, got %s", split.Igst.String())
	}
}

func TestSplitTax_EmptyCounterpartDefaultsIntraState(t *testing.T) {
	split := SplitTax("Rajasthan", "", decimal.NewFromInt(100))
	if !split.Igst.IsZero() {
		t.Fatalf("empty counterpart state should split as intra-state, got igst %s", split.Igst.String())
	}
	if split.Cgst.Add(split.Sgst).String() != "100" {
		t.Fatalf("cgst+sgst should equal the tax, got %s", split.Cgst.Add(split.Sgst).String())
	}
}

func TestSplitTax_HalvesSumToWhole(t *testing.T) {
	tax := decimal.RequireFromString("33.3333")
	split := SplitTax("Delhi", "Delhi", tax)
	if !split.Total().Equal(tax) {
		t.Fatalf("split halves must sum back to the tax: %s != %s", split.Total().String(), tax.String())
	}
}

func TestLineTax(t *testing.T) {
	taxable := LineTaxable(decimal.NewFromInt(5), decimal.NewFromInt(200))
	if taxable.String() != "1000" {
		t.Fatalf("expected taxable 1000, got %s", taxable.String())
	}
	tax := LineTax(taxable, decimal.NewFromInt(18))
	if tax.String() != "180" {
		t.Fatalf("expected tax 180, got %s", tax.String())
	}
}

func TestRound2(t *testing.T) {
	cases := []struct {
		in       string
		expected string
	}{
		{"10.005", "10.01"},
		{"10.004", "10"},
		{"0", "0"},
		{"-1.255", "-1.26"},
	}
	for _, tc := range cases {
		got := Round2(decimal.RequireFromString(tc.in))
		if got.String() != tc.expected {
			t.Fatalf("Round2(%s) expected %s, got %s", tc.in, tc.expected, got.String())
		}
	}
}

func TestSameState(t *testing.T) {
	if !SameState("Rajasthan", "  RAJASTHAN ") {
		t.Fatalf("state compare should ignore case and whitespace")
	}
	if SameState("Rajasthan", "Gujarat") {
		t.Fatalf("different states must not match")
	}
	if !SameState("Rajasthan", "") {
		t.Fatalf("empty counterpart state should fall back to the company state")
	}
}
