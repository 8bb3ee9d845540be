package models

import (
	"testing"

	"github.com/shopspring/decimal"
)

func saleItems() []*NewSaleItem {
	return []*NewSaleItem{
		{Name: "Widget", Quantity: decimal.NewFromInt(5), Rate: decimal.NewFromInt(200), TaxPercent: decimal.NewFromInt(18)},
		{Name: "Gadget", Quantity: decimal.NewFromInt(2), Rate: decimal.NewFromInt(500), TaxPercent: decimal.NewFromInt(12)},
	}
}

func TestComputeSaleTotals(t *testing.T) {
	totals, err := ComputeSaleTotals(saleItems(), decimal.Zero, decimal.Zero)
	if err != nil {
		t.Fatalf("ComputeSaleTotals error: %v", err)
	}
	// 5*200 + 2*500 = 2000 taxable; 1000*0.18 + 1000*0.12 = 300 tax
	if totals.Subtotal.String() != "2000" {
		t.Fatalf("expected subtotal 2000, got %s", totals.Subtotal.String())
	}
	if totals.TaxTotal.String() != "300" {
		t.Fatalf("expected tax total 300, got %s", totals.TaxTotal.String())
	}
	if totals.TotalAmount.String() != "2300" {
		t.Fatalf("expected total 2300, got %s", totals.TotalAmount.String())
	}
	if totals.Status != PaymentStatusUnpaid {
		t.Fatalf("unpaid invoice should be Unpaid, got %s", totals.Status)
	}
}

func TestComputeSaleTotals_DiscountAndStatus(t *testing.T) {
	discount := decimal.NewFromInt(300)
	paid := decimal.NewFromInt(1000)
	totals, err := ComputeSaleTotals(saleItems(), discount, paid)
	if err != nil {
		t.Fatalf("ComputeSaleTotals error: %v", err)
	}
	if totals.TotalAmount.String() != "2300" {
		t.Fatalf("total must stay gross of the discount, got %s", totals.TotalAmount.String())
	}
	if totals.PendingAmount.String() != "1000" {
		t.Fatalf("expected pending 1000, got %s", totals.PendingAmount.String())
	}
	if totals.Status != PaymentStatusPartial {
		t.Fatalf("part-paid invoice should be Partial, got %s", totals.Status)
	}

	totals, err = ComputeSaleTotals(saleItems(), discount, decimal.NewFromInt(2000))
	if err != nil {
		t.Fatalf("ComputeSaleTotals error: %v", err)
	}
	if totals.Status != PaymentStatusPaid {
		t.Fatalf("fully paid invoice should be Paid, got %s", totals.Status)
	}
}

func TestComputeSaleTotals_DiscountExcludedFromTotal(t *testing.T) {
	items := []*NewSaleItem{
		{Name: "Monitor", Quantity: decimal.NewFromInt(1), Rate: decimal.NewFromInt(1000), TaxPercent: decimal.NewFromInt(18)},
	}
	totals, err := ComputeSaleTotals(items, decimal.NewFromInt(100), decimal.Zero)
	if err != nil {
		t.Fatalf("ComputeSaleTotals error: %v", err)
	}
	if totals.TotalAmount.String() != "1180" {
		t.Fatalf("expected total 1180, got %s", totals.TotalAmount.String())
	}
	if totals.PendingAmount.String() != "1080" {
		t.Fatalf("expected pending 1080, got %s", totals.PendingAmount.String())
	}
}

func TestComputeSaleTotals_Rejections(t *testing.T) {
	if _, err := ComputeSaleTotals(nil, decimal.Zero, decimal.Zero); err == nil {
		t.Fatalf("empty item list should be rejected")
	}
	if _, err := ComputeSaleTotals(saleItems(), decimal.NewFromInt(-1), decimal.Zero); err == nil {
		t.Fatalf("negative discount should be rejected")
	}
	if _, err := ComputeSaleTotals(saleItems(), decimal.NewFromInt(9999), decimal.Zero); err == nil {
		t.Fatalf("discount above total should be rejected")
	}
	if _, err := ComputeSaleTotals(saleItems(), decimal.Zero, decimal.NewFromInt(9999)); err == nil {
		t.Fatalf("overpayment should be rejected")
	}

	bad := saleItems()
	bad[0].Quantity = decimal.Zero
	if _, err := ComputeSaleTotals(bad, decimal.Zero, decimal.Zero); err == nil {
		t.Fatalf("zero quantity should be rejected")
	}

	bad = saleItems()
	bad[1].TaxPercent = decimal.NewFromInt(101)
	if _, err := ComputeSaleTotals(bad, decimal.Zero, decimal.Zero); err == nil {
		t.Fatalf("tax percent above 100 should be rejected")
	}
}

func TestComputePurchaseTotals(t *testing.T) {
	items := []*NewPurchaseItem{
		{Name: "Raw material", Quantity: decimal.NewFromInt(10), Rate: decimal.NewFromInt(100), TaxPercent: decimal.NewFromInt(5)},
	}
	totals, err := ComputePurchaseTotals(items, decimal.NewFromInt(1050))
	if err != nil {
		t.Fatalf("ComputePurchaseTotals error: %v", err)
	}
	if totals.TotalAmount.String() != "1050" {
		t.Fatalf("expected total 1050, got %s", totals.TotalAmount.String())
	}
	if !totals.PendingAmount.IsZero() {
		t.Fatalf("expected zero pending, got %s", totals.PendingAmount.String())
	}
	if totals.Status != PaymentStatusPaid {
		t.Fatalf("settled bill should be Paid, got %s", totals.Status)
	}

	if _, err := ComputePurchaseTotals(items, decimal.NewFromInt(2000)); err == nil {
		t.Fatalf("overpayment should be rejected")
	}
}
