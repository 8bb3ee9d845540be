package models

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/vyaparlabs/gstbooks_backend/utils"
)

func TestPayableFor(t *testing.T) {
	collected := utils.TaxSplit{
		Cgst: decimal.NewFromInt(900),
		Sgst: decimal.NewFromInt(900),
		Igst: decimal.NewFromInt(500),
	}
	paid := utils.TaxSplit{
		Cgst: decimal.NewFromInt(400),
		Sgst: decimal.NewFromInt(400),
		Igst: decimal.NewFromInt(100),
	}
	got := payableFor(collected, paid)
	if got.String() != "1400" {
		t.Fatalf("expected payable 1400, got %s", got.String())
	}
}

func TestPayableFor_SurplusCreditGoesNegative(t *testing.T) {
	// Credit in any head counts against the period as a whole, so a
	// surplus yields a negative payable and the filing closes itself.
	collected := utils.TaxSplit{Cgst: decimal.NewFromInt(100)}
	paid := utils.TaxSplit{Igst: decimal.NewFromInt(150)}
	got := payableFor(collected, paid)
	if got.String() != "-50" {
		t.Fatalf("expected payable -50, got %s", got.String())
	}
	if got.IsPositive() {
		t.Fatalf("surplus credit must not leave the period pending")
	}
}
