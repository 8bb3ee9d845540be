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

// slabs is the progressive bracket table applied to estimated income.
// Each entry taxes the income between its floor and the next floor.
var slabs = []struct {
	floor decimal.Decimal
	rate  decimal.Decimal
}{
	{decimal.Zero, decimal.Zero},
	{decimal.NewFromInt(250000), decimal.NewFromFloat(0.05)},
	{decimal.NewFromInt(500000), decimal.NewFromFloat(0.10)},
	{decimal.NewFromInt(750000), decimal.NewFromFloat(0.15)},
	{decimal.NewFromInt(1000000), decimal.NewFromFloat(0.30)},
}

// SlabTax applies the bracket table progressively. Negative income is
// taxed at zero.
func SlabTax(income decimal.Decimal) decimal.Decimal {
	if !income.IsPositive() {
		return decimal.Zero
	}
	tax := decimal.Zero
	for i, slab := range slabs {
		if income.LessThanOrEqual(slab.floor) {
			break
		}
		upper := income
		if i+1 < len(slabs) && income.GreaterThan(slabs[i+1].floor) {
			upper = slabs[i+1].floor
		}
		tax = tax.Add(upper.Sub(slab.floor).Mul(slab.rate))
	}
	return tax
}

type TaxEstimate struct {
	Scheme          string          `json:"scheme"`
	EstimatedIncome decimal.Decimal `json:"estimated_income"`
	EstimatedTax    decimal.Decimal `json:"estimated_tax"`
}

type BalanceSheet struct {
	ClosingStock decimal.Decimal `json:"closing_stock"`
	Debtors      decimal.Decimal `json:"debtors"`
	Cash         decimal.Decimal `json:"cash"`
	TotalAssets  decimal.Decimal `json:"total_assets"`
	Creditors    decimal.Decimal `json:"creditors"`
	Capital      decimal.Decimal `json:"capital"`
}

type IncomeTaxReport struct {
	FiscalYearStart  time.Time       `json:"fiscal_year_start"`
	FiscalYearEnd    time.Time       `json:"fiscal_year_end"`
	Turnover         decimal.Decimal `json:"turnover"`
	Purchases        decimal.Decimal `json:"purchases"`
	Expenses         decimal.Decimal `json:"expenses"`
	NetProfit        decimal.Decimal `json:"net_profit"`
	Presumptive44AD  TaxEstimate     `json:"presumptive_44ad"`
	Presumptive44ADA TaxEstimate     `json:"presumptive_44ada"`
	Regular          TaxEstimate     `json:"regular"`
	BalanceSheet     BalanceSheet    `json:"balance_sheet"`
}

// GetIncomeTaxReport estimates the year's income tax under the presumptive
// schemes and the regular slab computation, over the April-March fiscal
// year starting in the given calendar year. The balance sheet is a rough
// approximation: closing stock is valued at current price across all
// products, and the capital account is the balancing figure.
func GetIncomeTaxReport(ctx context.Context, year int) (*IncomeTaxReport, error) {
	key := fmt.Sprintf("Report:IncomeTax:%d", year)
	return cachedReport(ctx, key, 10*time.Minute, func(ctx context.Context) (*IncomeTaxReport, error) {
		return buildIncomeTaxReport(ctx, year)
	})
}

func buildIncomeTaxReport(ctx context.Context, year int) (*IncomeTaxReport, error) {
	start, end, err := models.FiscalYearRange(year)
	if err != nil {
		return nil, err
	}
	settings, err := models.GetSettings(ctx)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	type sumRow struct {
		Total decimal.Decimal
	}

	var turnover sumRow
	err = db.WithContext(ctx).Model(&models.Sale{}).
		Select("COALESCE(SUM(total_amount), 0) AS total").
		Where("invoice_date BETWEEN ? AND ?", start, end).
		Scan(&turnover).Error
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
	var expenses sumRow
	err = db.WithContext(ctx).Model(&models.Expense{}).
		Select("COALESCE(SUM(amount), 0) AS total").
		Where("expense_date BETWEEN ? AND ?", start, end).
		Scan(&expenses).Error
	if err != nil {
		return nil, err
	}

	// balance-sheet figures are point-in-time, not period-scoped
	var closingStock sumRow
	err = db.WithContext(ctx).Model(&models.Product{}).
		Select("COALESCE(SUM(stock * price), 0) AS total").
		Scan(&closingStock).Error
	if err != nil {
		return nil, err
	}
	var debtors sumRow
	err = db.WithContext(ctx).Model(&models.Sale{}).
		Select("COALESCE(SUM(pending_amount), 0) AS total").
		Scan(&debtors).Error
	if err != nil {
		return nil, err
	}
	var creditors sumRow
	err = db.WithContext(ctx).Model(&models.Purchase{}).
		Select("COALESCE(SUM(pending_amount), 0) AS total").
		Scan(&creditors).Error
	if err != nil {
		return nil, err
	}

	netProfit := turnover.Total.Sub(purchases.Total).Sub(expenses.Total)

	// 44AD allows 6% on digitally received turnover, 8% otherwise
	presumptiveRate := decimal.NewFromFloat(0.08)
	scheme44AD := "44AD (8%)"
	if utils.DereferencePtr(settings.DigitalTurnover) {
		presumptiveRate = decimal.NewFromFloat(0.06)
		scheme44AD = "44AD (6% digital)"
	}
	income44AD := turnover.Total.Mul(presumptiveRate)
	income44ADA := turnover.Total.Mul(decimal.NewFromFloat(0.50))

	cash := turnover.Total.Sub(debtors.Total).Sub(expenses.Total)
	if cash.IsNegative() {
		cash = decimal.Zero
	}
	assets := closingStock.Total.Add(debtors.Total).Add(cash)

	report := IncomeTaxReport{
		FiscalYearStart: start,
		FiscalYearEnd:   end,
		Turnover:        utils.Round2(turnover.Total),
		Purchases:       utils.Round2(purchases.Total),
		Expenses:        utils.Round2(expenses.Total),
		NetProfit:       utils.Round2(netProfit),
		Presumptive44AD: TaxEstimate{
			Scheme:          scheme44AD,
			EstimatedIncome: utils.Round2(income44AD),
			EstimatedTax:    utils.Round2(SlabTax(income44AD)),
		},
		Presumptive44ADA: TaxEstimate{
			Scheme:          "44ADA (50%)",
			EstimatedIncome: utils.Round2(income44ADA),
			EstimatedTax:    utils.Round2(SlabTax(income44ADA)),
		},
		Regular: TaxEstimate{
			Scheme:          "Regular",
			EstimatedIncome: utils.Round2(netProfit),
			EstimatedTax:    utils.Round2(SlabTax(netProfit)),
		},
		BalanceSheet: BalanceSheet{
			ClosingStock: utils.Round2(closingStock.Total),
			Debtors:      utils.Round2(debtors.Total),
			Cash:         utils.Round2(cash),
			TotalAssets:  utils.Round2(assets),
			Creditors:    utils.Round2(creditors.Total),
			Capital:      utils.Round2(assets.Sub(creditors.Total)),
		},
	}
	return &report, nil
}
