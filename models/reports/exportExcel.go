package reports

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

const excelSheet = "Sheet1"

// GstSummaryExcel renders the date-range GST summary as a two-column
// workbook of labelled figures.
func GstSummaryExcel(report *GstSummaryReport) (*excelize.File, error) {
	f := excelize.NewFile()
	if _, err := f.NewSheet(excelSheet); err != nil {
		return nil, err
	}

	rows := []struct {
		label string
		value interface{}
	}{
		{"Period Start", report.StartDate.Format("2006-01-02")},
		{"Period End", report.EndDate.Format("2006-01-02")},
		{"Total Sales", report.TotalSales.InexactFloat64()},
		{"Total Purchases", report.TotalPurchases.InexactFloat64()},
		{"CGST Collected", report.CgstCollected.InexactFloat64()},
		{"SGST Collected", report.SgstCollected.InexactFloat64()},
		{"IGST Collected", report.IgstCollected.InexactFloat64()},
		{"CGST Paid", report.CgstPaid.InexactFloat64()},
		{"SGST Paid", report.SgstPaid.InexactFloat64()},
		{"IGST Paid", report.IgstPaid.InexactFloat64()},
		{"Net Payable", report.NetPayable.InexactFloat64()},
	}

	f.SetCellValue(excelSheet, "A1", "GST Summary")
	for i, row := range rows {
		f.SetCellValue(excelSheet, "A"+fmt.Sprint(i+2), row.label)
		f.SetCellValue(excelSheet, "B"+fmt.Sprint(i+2), row.value)
	}
	return f, nil
}

// ProfitAndLossExcel renders the P&L with one expense category per row.
func ProfitAndLossExcel(report *ProfitAndLossReport) (*excelize.File, error) {
	f := excelize.NewFile()
	if _, err := f.NewSheet(excelSheet); err != nil {
		return nil, err
	}

	f.SetCellValue(excelSheet, "A1", "Profit & Loss")
	f.SetCellValue(excelSheet, "A2", "Period Start")
	f.SetCellValue(excelSheet, "B2", report.StartDate.Format("2006-01-02"))
	f.SetCellValue(excelSheet, "A3", "Period End")
	f.SetCellValue(excelSheet, "B3", report.EndDate.Format("2006-01-02"))
	f.SetCellValue(excelSheet, "A4", "Revenue")
	f.SetCellValue(excelSheet, "B4", report.Revenue.InexactFloat64())
	f.SetCellValue(excelSheet, "A5", "Purchases")
	f.SetCellValue(excelSheet, "B5", report.Purchases.InexactFloat64())
	f.SetCellValue(excelSheet, "A6", "Gross Profit")
	f.SetCellValue(excelSheet, "B6", report.GrossProfit.InexactFloat64())

	row := 8
	f.SetCellValue(excelSheet, "A7", "Expenses")
	for _, line := range report.Expenses {
		f.SetCellValue(excelSheet, "A"+fmt.Sprint(row), line.Category)
		f.SetCellValue(excelSheet, "B"+fmt.Sprint(row), line.Amount.InexactFloat64())
		row++
	}
	f.SetCellValue(excelSheet, "A"+fmt.Sprint(row), "Total Expenses")
	f.SetCellValue(excelSheet, "B"+fmt.Sprint(row), report.TotalExpenses.InexactFloat64())
	row++
	f.SetCellValue(excelSheet, "A"+fmt.Sprint(row), "Net Profit")
	f.SetCellValue(excelSheet, "B"+fmt.Sprint(row), report.NetProfit.InexactFloat64())
	return f, nil
}
