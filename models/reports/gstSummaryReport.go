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

// GstSummaryReport is the date-range GST position used by the reports page;
// the month-bound GSTR views cover statutory returns.
type GstSummaryReport struct {
	StartDate      time.Time       `json:"start_date"`
	EndDate        time.Time       `json:"end_date"`
	TotalSales     decimal.Decimal `json:"total_sales"`
	TotalPurchases decimal.Decimal `json:"total_purchases"`
	CgstCollected  decimal.Decimal `json:"cgst_collected"`
	SgstCollected  decimal.Decimal `json:"sgst_collected"`
	IgstCollected  decimal.Decimal `json:"igst_collected"`
	CgstPaid       decimal.Decimal `json:"cgst_paid"`
	SgstPaid       decimal.Decimal `json:"sgst_paid"`
	IgstPaid       decimal.Decimal `json:"igst_paid"`
	NetPayable     decimal.Decimal `json:"net_payable"`
}

func GetGstSummaryReport(ctx context.Context, startDate, endDate string) (*GstSummaryReport, error) {
	key := fmt.Sprintf("Report:GstSummary:%s:%s", startDate, endDate)
	return cachedReport(ctx, key, 10*time.Minute, func(ctx context.Context) (*GstSummaryReport, error) {
		return buildGstSummaryReport(ctx, startDate, endDate)
	})
}

func buildGstSummaryReport(ctx context.Context, startDate, endDate string) (*GstSummaryReport, error) {
	start, end, err := models.ParseDateRange(startDate, endDate)
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

	report := GstSummaryReport{StartDate: start, EndDate: end}
	collected := utils.TaxSplit{}
	paid := utils.TaxSplit{}
	for _, sale := range sales {
		report.TotalSales = report.TotalSales.Add(sale.TotalAmount)
		collected = collected.Add(utils.SplitTax(companyState, sale.CustomerState, sale.TaxTotal))
	}
	for _, purchase := range purchases {
		report.TotalPurchases = report.TotalPurchases.Add(purchase.TotalAmount)
		if !utils.DereferencePtr(purchase.ItcEligible) {
			continue
		}
		paid = paid.Add(utils.SplitTax(companyState, purchase.SupplierState, purchase.TaxTotal))
	}

	collected = collected.Round2()
	paid = paid.Round2()
	report.TotalSales = utils.Round2(report.TotalSales)
	report.TotalPurchases = utils.Round2(report.TotalPurchases)
	report.CgstCollected = collected.Cgst
	report.SgstCollected = collected.Sgst
	report.IgstCollected = collected.Igst
	report.CgstPaid = paid.Cgst
	report.SgstPaid = paid.Sgst
	report.IgstPaid = paid.Igst
	report.NetPayable = netPayable(collected.Cgst, paid.Cgst).
		Add(netPayable(collected.Sgst, paid.Sgst)).
		Add(netPayable(collected.Igst, paid.Igst))
	return &report, nil
}
