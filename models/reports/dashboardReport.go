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

type DashboardStats struct {
	MonthSales      decimal.Decimal `json:"month_sales"`
	MonthPurchases  decimal.Decimal `json:"month_purchases"`
	MonthExpenses   decimal.Decimal `json:"month_expenses"`
	Receivable      decimal.Decimal `json:"receivable"`
	Payable         decimal.Decimal `json:"payable"`
	ClientCount     int64           `json:"client_count"`
	SupplierCount   int64           `json:"supplier_count"`
	ProductCount    int64           `json:"product_count"`
	LowStockCount   int64           `json:"low_stock_count"`
	PendingInvoices int64           `json:"pending_invoices"`
}

type ChartPoint struct {
	Month     string          `json:"month"`
	Sales     decimal.Decimal `json:"sales"`
	Purchases decimal.Decimal `json:"purchases"`
}

type DashboardCharts struct {
	Series []ChartPoint `json:"series"`
}

// GetDashboardStats summarizes the current month plus the standing
// receivable/payable position.
func GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	now := time.Now()
	key := fmt.Sprintf("Report:DashboardStats:%d-%d", now.Year(), int(now.Month()))
	return cachedReport(ctx, key, 5*time.Minute, func(ctx context.Context) (*DashboardStats, error) {
		return buildDashboardStats(ctx)
	})
}

func buildDashboardStats(ctx context.Context) (*DashboardStats, error) {
	now := time.Now()
	start, end, err := models.MonthRange(int(now.Month()), now.Year())
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	type sumRow struct {
		Total decimal.Decimal
	}

	stats := DashboardStats{}
	var monthSales sumRow
	err = db.WithContext(ctx).Model(&models.Sale{}).
		Select("COALESCE(SUM(total_amount), 0) AS total").
		Where("invoice_date BETWEEN ? AND ?", start, end).
		Scan(&monthSales).Error
	if err != nil {
		return nil, err
	}
	var monthPurchases sumRow
	err = db.WithContext(ctx).Model(&models.Purchase{}).
		Select("COALESCE(SUM(total_amount), 0) AS total").
		Where("bill_date BETWEEN ? AND ?", start, end).
		Scan(&monthPurchases).Error
	if err != nil {
		return nil, err
	}
	var monthExpenses sumRow
	err = db.WithContext(ctx).Model(&models.Expense{}).
		Select("COALESCE(SUM(amount), 0) AS total").
		Where("expense_date BETWEEN ? AND ?", start, end).
		Scan(&monthExpenses).Error
	if err != nil {
		return nil, err
	}
	var receivable sumRow
	err = db.WithContext(ctx).Model(&models.Sale{}).
		Select("COALESCE(SUM(pending_amount), 0) AS total").
		Scan(&receivable).Error
	if err != nil {
		return nil, err
	}
	var payable sumRow
	err = db.WithContext(ctx).Model(&models.Purchase{}).
		Select("COALESCE(SUM(pending_amount), 0) AS total").
		Scan(&payable).Error
	if err != nil {
		return nil, err
	}

	if err := db.WithContext(ctx).Model(&models.Client{}).Count(&stats.ClientCount).Error; err != nil {
		return nil, err
	}
	if err := db.WithContext(ctx).Model(&models.Supplier{}).Count(&stats.SupplierCount).Error; err != nil {
		return nil, err
	}
	if err := db.WithContext(ctx).Model(&models.Product{}).Count(&stats.ProductCount).Error; err != nil {
		return nil, err
	}
	err = db.WithContext(ctx).Model(&models.Product{}).
		Where("low_stock_threshold > 0 AND stock <= low_stock_threshold").
		Count(&stats.LowStockCount).Error
	if err != nil {
		return nil, err
	}
	err = db.WithContext(ctx).Model(&models.Sale{}).
		Where("status <> ?", models.PaymentStatusPaid).
		Count(&stats.PendingInvoices).Error
	if err != nil {
		return nil, err
	}

	stats.MonthSales = utils.Round2(monthSales.Total)
	stats.MonthPurchases = utils.Round2(monthPurchases.Total)
	stats.MonthExpenses = utils.Round2(monthExpenses.Total)
	stats.Receivable = utils.Round2(receivable.Total)
	stats.Payable = utils.Round2(payable.Total)
	return &stats, nil
}

// GetDashboardCharts returns a rolling 12-month sales/purchase series,
// oldest month first.
func GetDashboardCharts(ctx context.Context) (*DashboardCharts, error) {
	now := time.Now()
	key := fmt.Sprintf("Report:DashboardCharts:%d-%d", now.Year(), int(now.Month()))
	return cachedReport(ctx, key, 5*time.Minute, func(ctx context.Context) (*DashboardCharts, error) {
		return buildDashboardCharts(ctx)
	})
}

func buildDashboardCharts(ctx context.Context) (*DashboardCharts, error) {
	db := config.GetDB()
	type sumRow struct {
		Total decimal.Decimal
	}

	now := time.Now()
	charts := DashboardCharts{}
	for i := 11; i >= 0; i-- {
		ref := now.AddDate(0, -i, 0)
		start, end, err := models.MonthRange(int(ref.Month()), ref.Year())
		if err != nil {
			return nil, err
		}

		var sales sumRow
		err = db.WithContext(ctx).Model(&models.Sale{}).
			Select("COALESCE(SUM(total_amount), 0) AS total").
			Where("invoice_date BETWEEN ? AND ?", start, end).
			Scan(&sales).Error
		if err != nil {
			return nil, err
		}
		var purchases sumRow
		err = db.WithContext(ctx).Model(&models.Purchase{}).
			Select("COALESCE(SUM(total_amount), 0) AS total").
			Where("bill_date BETWEEN ? AND ?", start, end).
			Scan(&purchases).Error
		if err != nil {
			return nil, err
		}

		charts.Series = append(charts.Series, ChartPoint{
			Month:     ref.Format("2006-01"),
			Sales:     utils.Round2(sales.Total),
			Purchases: utils.Round2(purchases.Total),
		})
	}
	return &charts, nil
}
