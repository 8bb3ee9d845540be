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

// b2cLargeThreshold is the invoice value above which an unregistered sale
// must be reported invoice-wise.
var b2cLargeThreshold = decimal.NewFromInt(250000)

type gstr1Class int

const (
	gstr1B2B gstr1Class = iota
	gstr1B2CLarge
	gstr1B2CSmall
)

// classifyGstr1 buckets an outward supply: any registered counterparty is
// B2B; unregistered sales split on the invoice value alone.
func classifyGstr1(customerGstin string, totalAmount decimal.Decimal) gstr1Class {
	switch {
	case customerGstin != "":
		return gstr1B2B
	case totalAmount.GreaterThan(b2cLargeThreshold):
		return gstr1B2CLarge
	default:
		return gstr1B2CSmall
	}
}

type Gstr1Invoice struct {
	InvoiceNumber string          `json:"invoice_number"`
	InvoiceDate   time.Time       `json:"invoice_date"`
	CustomerName  string          `json:"customer_name"`
	CustomerGstin string          `json:"customer_gstin,omitempty"`
	CustomerState string          `json:"customer_state"`
	TaxableValue  decimal.Decimal `json:"taxable_value"`
	Cgst          decimal.Decimal `json:"cgst"`
	Sgst          decimal.Decimal `json:"sgst"`
	Igst          decimal.Decimal `json:"igst"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
}

type Gstr1Section struct {
	Invoices     []Gstr1Invoice  `json:"invoices"`
	TaxableValue decimal.Decimal `json:"taxable_value"`
	Cgst         decimal.Decimal `json:"cgst"`
	Sgst         decimal.Decimal `json:"sgst"`
	Igst         decimal.Decimal `json:"igst"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
}

type Gstr1Report struct {
	Month        int             `json:"month"`
	Year         int             `json:"year"`
	B2B          Gstr1Section    `json:"b2b"`
	B2CLarge     Gstr1Section    `json:"b2c_large"`
	B2CSmall     Gstr1Section    `json:"b2c_small"`
	TaxableValue decimal.Decimal `json:"taxable_value"`
	TotalTax     decimal.Decimal `json:"total_tax"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
}

func (s *Gstr1Section) add(invoice Gstr1Invoice) {
	s.Invoices = append(s.Invoices, invoice)
	s.TaxableValue = s.TaxableValue.Add(invoice.TaxableValue)
	s.Cgst = s.Cgst.Add(invoice.Cgst)
	s.Sgst = s.Sgst.Add(invoice.Sgst)
	s.Igst = s.Igst.Add(invoice.Igst)
	s.TotalAmount = s.TotalAmount.Add(invoice.TotalAmount)
}

func (s *Gstr1Section) round() {
	s.TaxableValue = utils.Round2(s.TaxableValue)
	s.Cgst = utils.Round2(s.Cgst)
	s.Sgst = utils.Round2(s.Sgst)
	s.Igst = utils.Round2(s.Igst)
	s.TotalAmount = utils.Round2(s.TotalAmount)
}

// GetGstr1Report classifies the month's outward supplies into B2B,
// B2C-Large and B2C-Small the way the GSTR-1 return groups them.
func GetGstr1Report(ctx context.Context, month, year int) (*Gstr1Report, error) {
	key := fmt.Sprintf("Report:Gstr1:%d-%d", year, month)
	return cachedReport(ctx, key, 10*time.Minute, func(ctx context.Context) (*Gstr1Report, error) {
		return buildGstr1Report(ctx, month, year)
	})
}

func buildGstr1Report(ctx context.Context, month, year int) (*Gstr1Report, error) {
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
		Order("invoice_date ASC, id ASC").
		Find(&sales).Error
	if err != nil {
		return nil, err
	}

	report := Gstr1Report{Month: month, Year: year}
	for _, sale := range sales {
		split := utils.SplitTax(companyState, sale.CustomerState, sale.TaxTotal).Round2()
		invoice := Gstr1Invoice{
			InvoiceNumber: sale.InvoiceNumber,
			InvoiceDate:   sale.InvoiceDate,
			CustomerName:  sale.CustomerName,
			CustomerGstin: sale.CustomerGstin,
			CustomerState: sale.CustomerState,
			TaxableValue:  utils.Round2(sale.Subtotal),
			Cgst:          split.Cgst,
			Sgst:          split.Sgst,
			Igst:          split.Igst,
			TotalAmount:   utils.Round2(sale.TotalAmount),
		}

		switch classifyGstr1(sale.CustomerGstin, sale.TotalAmount) {
		case gstr1B2B:
			report.B2B.add(invoice)
		case gstr1B2CLarge:
			report.B2CLarge.add(invoice)
		default:
			report.B2CSmall.add(invoice)
		}
	}

	report.B2B.round()
	report.B2CLarge.round()
	report.B2CSmall.round()
	report.TaxableValue = report.B2B.TaxableValue.
		Add(report.B2CLarge.TaxableValue).Add(report.B2CSmall.TaxableValue)
	totalTax := decimal.Zero
	for _, s := range []*Gstr1Section{&report.B2B, &report.B2CLarge, &report.B2CSmall} {
		totalTax = totalTax.Add(s.Cgst).Add(s.Sgst).Add(s.Igst)
	}
	report.TotalTax = totalTax
	report.TotalAmount = report.B2B.TotalAmount.
		Add(report.B2CLarge.TotalAmount).Add(report.B2CSmall.TotalAmount)
	return &report, nil
}
