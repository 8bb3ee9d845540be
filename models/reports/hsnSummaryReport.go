package reports

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vyaparlabs/gstbooks_backend/config"
	"github.com/vyaparlabs/gstbooks_backend/models"
	"github.com/vyaparlabs/gstbooks_backend/utils"
)

const hsnUnknown = "Unknown"

type HsnSummaryRow struct {
	HsnCode      string          `json:"hsn_code"`
	Description  string          `json:"description"`
	Quantity     decimal.Decimal `json:"quantity"`
	TaxableValue decimal.Decimal `json:"taxable_value"`
	Cgst         decimal.Decimal `json:"cgst"`
	Sgst         decimal.Decimal `json:"sgst"`
	Igst         decimal.Decimal `json:"igst"`
	TotalValue   decimal.Decimal `json:"total_value"`
}

type HsnSummaryReport struct {
	Month int             `json:"month"`
	Year  int             `json:"year"`
	Rows  []HsnSummaryRow `json:"rows"`
}

// GetHsnSummaryReport groups the month's outward lines by HSN code, the way
// the GSTR-1 HSN table wants them. Lines without a code land under a single
// Unknown bucket so the totals still reconcile with GSTR-1.
func GetHsnSummaryReport(ctx context.Context, month, year int) (*HsnSummaryReport, error) {
	key := fmt.Sprintf("Report:HsnSummary:%d-%d", year, month)
	return cachedReport(ctx, key, 10*time.Minute, func(ctx context.Context) (*HsnSummaryReport, error) {
		return buildHsnSummaryReport(ctx, month, year)
	})
}

func buildHsnSummaryReport(ctx context.Context, month, year int) (*HsnSummaryReport, error) {
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
		Preload("Items").
		Where("invoice_date BETWEEN ? AND ?", start, end).
		Find(&sales).Error
	if err != nil {
		return nil, err
	}

	rows := map[string]*HsnSummaryRow{}
	for _, sale := range sales {
		for _, item := range sale.Items {
			code := item.HsnCode
			if code == "" {
				code = hsnUnknown
			}
			row, ok := rows[code]
			if !ok {
				row = &HsnSummaryRow{HsnCode: code, Description: item.Name}
				rows[code] = row
			}
			split := utils.SplitTax(companyState, sale.CustomerState, item.TaxAmount)
			row.Quantity = row.Quantity.Add(item.Quantity)
			row.TaxableValue = row.TaxableValue.Add(item.Taxable)
			row.Cgst = row.Cgst.Add(split.Cgst)
			row.Sgst = row.Sgst.Add(split.Sgst)
			row.Igst = row.Igst.Add(split.Igst)
			row.TotalValue = row.TotalValue.Add(item.Total)
		}
	}

	report := HsnSummaryReport{Month: month, Year: year}
	for _, row := range rows {
		row.TaxableValue = utils.Round2(row.TaxableValue)
		row.Cgst = utils.Round2(row.Cgst)
		row.Sgst = utils.Round2(row.Sgst)
		row.Igst = utils.Round2(row.Igst)
		row.TotalValue = utils.Round2(row.TotalValue)
		report.Rows = append(report.Rows, *row)
	}
	sort.Slice(report.Rows, func(i, j int) bool {
		return report.Rows[i].HsnCode < report.Rows[j].HsnCode
	})
	return &report, nil
}
