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

type ExpenseLine struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
}

type ProfitAndLossReport struct {
	StartDate     time.Time       `json:"start_date"`
	EndDate       time.Time       `json:"end_date"`
	Revenue       decimal.Decimal `json:"revenue"`
	Purchases     decimal.Decimal `json:"purchases"`
	GrossProfit   decimal.Decimal `json:"gross_profit"`
	Expenses      []ExpenseLine   `json:"expenses"`
	TotalExpenses decimal.Decimal `json:"total_expenses"`
	NetProfit     decimal.Decimal `json:"net_profit"`
}

// GetProfitAndLossReport computes a simple trading P&L over a date range.
// Revenue and purchases are taken ex-tax; GST flows through the filing
// snapshots, not the P&L.
func GetProfitAndLossReport(ctx context.Context, startDate, endDate string) (*ProfitAndLossReport, error) {
	key := fmt.Sprintf("Report:ProfitAndLoss:%s:%s", startDate, endDate)
	return cachedReport(ctx, key, 10*time.Minute, func(ctx context.Context) (*ProfitAndLossReport, error) {
		return buildProfitAndLossReport(ctx, startDate, endDate)
	})
}

func buildProfitAndLossReport(ctx context.Context, startDate, endDate string) (*ProfitAndLossReport, error) {
	start, end, err := models.ParseDateRange(startDate, endDate)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	report := ProfitAndLossReport{StartDate: start, EndDate: end}

	type sumRow struct {
		Total decimal.Decimal
	}
	var revenue sumRow
	err = db.WithContext(ctx).Model(&models.Sale{}).
		Select("COALESCE(SUM(subtotal), 0) AS total").
		Where("invoice_date BETWEEN ? AND ?", start, end).
		Scan(&revenue).Error
	if err != nil {
		return nil, err
	}
	var purchases sumRow
	err = db.WithContext(ctx).Model(&models.Purchase{}).
		Select("COALESCE(SUM(subtotal), 0) AS total").
		Where("bill_date BETWEEN ? AND ?", start, end).
		Scan(&purchases).Error
	if err != nil {
		return nil, err
	}

	type categoryRow struct {
		Category string
		Total    decimal.Decimal
	}
	var categories []categoryRow
	err = db.WithContext(ctx).Model(&models.Expense{}).
		Select("category, COALESCE(SUM(amount), 0) AS total").
		Where("expense_date BETWEEN ? AND ?", start, end).
		Group("category").
		Scan(&categories).Error
	if err != nil {
		return nil, err
	}

	report.Revenue = utils.Round2(revenue.Total)
	report.Purchases = utils.Round2(purchases.Total)
	report.GrossProfit = report.Revenue.Sub(report.Purchases)
	for _, c := range categories {
		report.Expenses = append(report.Expenses, ExpenseLine{
			Category: c.Category,
			Amount:   utils.Round2(c.Total),
		})
		report.TotalExpenses = report.TotalExpenses.Add(c.Total)
	}
	sort.Slice(report.Expenses, func(i, j int) bool {
		return report.Expenses[i].Category < report.Expenses[j].Category
	})
	report.TotalExpenses = utils.Round2(report.TotalExpenses)
	report.NetProfit = report.GrossProfit.Sub(report.TotalExpenses)
	return &report, nil
}
