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

type Gstr3bReport struct {
	Month           int             `json:"month"`
	Year            int             `json:"year"`
	OutwardTaxable  decimal.Decimal `json:"outward_taxable"`
	OutwardCgst     decimal.Decimal `json:"outward_cgst"`
	OutwardSgst     decimal.Decimal `json:"outward_sgst"`
	OutwardIgst     decimal.Decimal `json:"outward_igst"`
	ItcCgst         decimal.Decimal `json:"itc_cgst"`
	ItcSgst         decimal.Decimal `json:"itc_sgst"`
	ItcIgst         decimal.Decimal `json:"itc_igst"`
	PayableCgst     decimal.Decimal `json:"payable_cgst"`
	PayableSgst     decimal.Decimal `json:"payable_sgst"`
	PayableIgst     decimal.Decimal `json:"payable_igst"`
	TotalPayable    decimal.Decimal `json:"total_payable"`
}

// GetGstr3bReport produces the monthly summary return: outward liability,
// input credit and the net payable per head. Each head nets independently
// and is floored at zero; excess credit carries forward rather than
// becoming a refund line here.
func GetGstr3bReport(ctx context.Context, month, year int) (*Gstr3bReport, error) {
	key := fmt.Sprintf("Report:Gstr3b:%d-%d", year, month)
	return cachedReport(ctx, key, 10*time.Minute, func(ctx context.Context) (*Gstr3bReport, error) {
		return buildGstr3bReport(ctx, month, year)
	})
}

func buildGstr3bReport(ctx context.Context, month, year int) (*Gstr3bReport, error) {
	start, end, err := models.MonthRange(month, year)
	if err != nil {
		return nil, err
	}
	companyState, err := models.GetCompanyState(ctx)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	var sales []*models.Sale
	err = db.WithContext(ctx).Model(&models.Sale{}).
		Where("invoice_date BETWEEN ? AND ?", start, end).
		Find(&sales).Error
	if err != nil {
		return nil, err
	}
	var purchases []*models.Purchase
	err = db.WithContext(ctx).Model(&models.Purchase{}).
		Where("bill_date BETWEEN ? AND ?", start, end).
		Find(&purchases).Error
	if err != nil {
		return nil, err
	}

	report := Gstr3bReport{Month: month, Year: year}
	outward := utils.TaxSplit{}
	itc := utils.TaxSplit{}
	for _, sale := range sales {
		report.OutwardTaxable = report.OutwardTaxable.Add(sale.Subtotal)
		outward = outward.Add(utils.SplitTax(companyState, sale.CustomerState, sale.TaxTotal))
	}
	for _, purchase := range purchases {
		if !utils.DereferencePtr(purchase.ItcEligible) {
			continue
		}
		itc = itc.Add(utils.SplitTax(companyState, purchase.SupplierState, purchase.TaxTotal))
	}

	report.OutwardTaxable = utils.Round2(report.OutwardTaxable)
	outward = outward.Round2()
	itc = itc.Round2()
	report.OutwardCgst = outward.Cgst
	report.OutwardSgst = outward.Sgst
	report.OutwardIgst = outward.Igst
	report.ItcCgst = itc.Cgst
	report.ItcSgst = itc.Sgst
	report.ItcIgst = itc.Igst
	report.PayableCgst = netPayable(outward.Cgst, itc.Cgst)
	report.PayableSgst = netPayable(outward.Sgst, itc.Sgst)
	report.PayableIgst = netPayable(outward.Igst, itc.Igst)
	report.TotalPayable = report.PayableCgst.Add(report.PayableSgst).Add(report.PayableIgst)
	return &report, nil
}

func netPayable(outward, itc decimal.Decimal) decimal.Decimal {
	net := outward.Sub(itc)
	if net.IsNegative() {
		return decimal.Zero
	}
	return net
}
