package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vyaparlabs/gstbooks_backend/config"
	"github.com/vyaparlabs/gstbooks_backend/models"
	"github.com/vyaparlabs/gstbooks_backend/utils"
)

type Gstr2Bill struct {
	BillNumber    string          `json:"bill_number"`
	BillDate      time.Time       `json:"bill_date"`
	SupplierName  string          `json:"supplier_name"`
	SupplierGstin string          `json:"supplier_gstin,omitempty"`
	SupplierState string          `json:"supplier_state"`
	TaxableValue  decimal.Decimal `json:"taxable_value"`
	Cgst          decimal.Decimal `json:"cgst"`
	Sgst          decimal.Decimal `json:"sgst"`
	Igst          decimal.Decimal `json:"igst"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	ItcEligible   bool            `json:"itc_eligible"`
}

type Gstr2Report struct {
	Month        int             `json:"month"`
	Year         int             `json:"year"`
	Bills        []Gstr2Bill     `json:"bills"`
	TaxableValue decimal.Decimal `json:"taxable_value"`
	Cgst         decimal.Decimal `json:"cgst"`
	Sgst         decimal.Decimal `json:"sgst"`
	Igst         decimal.Decimal `json:"igst"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	EligibleItc  decimal.Decimal `json:"eligible_itc"`
}

// GetGstr2Report lists the month's inward supplies with the input credit
// actually claimable; ineligible bills appear in the list but not the ITC
// total.
func GetGstr2Report(ctx context.Context, month, year int) (*Gstr2Report, error) {
	key := fmt.Sprintf("Report:Gstr2:%d-%d", year, month)
	return cachedReport(ctx, key, 10*time.Minute, func(ctx context.Context) (*Gstr2Report, error) {
		return buildGstr2Report(ctx, month, year)
	})
}

func buildGstr2Report(ctx context.Context, month, year int) (*Gstr2Report, error) {
	start, end, err := models.MonthRange(month, year)
	if err != nil {
		return nil, err
	}
	companyState, err := models.GetCompanyState(ctx)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	var purchases []*models.Purchase
	err = db.WithContext(ctx).Model(&models.Purchase{}).
		Preload("Supplier").
		Where("bill_date BETWEEN ? AND ?", start, end).
		Order("bill_date ASC, id ASC").
		Find(&purchases).Error
	if err != nil {
		return nil, err
	}

	report := Gstr2Report{Month: month, Year: year}
	for _, purchase := range purchases {
		split := utils.SplitTax(companyState, purchase.SupplierState, purchase.TaxTotal).Round2()
		eligible := utils.DereferencePtr(purchase.ItcEligible)

		bill := Gstr2Bill{
			BillNumber:    purchase.BillNumber,
			BillDate:      purchase.BillDate,
			SupplierState: purchase.SupplierState,
			TaxableValue:  utils.Round2(purchase.Subtotal),
			Cgst:          split.Cgst,
			Sgst:          split.Sgst,
			Igst:          split.Igst,
			TotalAmount:   utils.Round2(purchase.TotalAmount),
			ItcEligible:   eligible,
		}
		if purchase.Supplier != nil {
			bill.SupplierName = purchase.Supplier.Name
			bill.SupplierGstin = purchase.Supplier.Gstin
		}
		report.Bills = append(report.Bills, bill)

		report.TaxableValue = report.TaxableValue.Add(bill.TaxableValue)
		report.Cgst = report.Cgst.Add(bill.Cgst)
		report.Sgst = report.Sgst.Add(bill.Sgst)
		report.Igst = report.Igst.Add(bill.Igst)
		report.TotalAmount = report.TotalAmount.Add(bill.TotalAmount)
		if eligible {
			report.EligibleItc = report.EligibleItc.Add(split.Total())
		}
	}
	report.EligibleItc = utils.Round2(report.EligibleItc)
	return &report, nil
}
