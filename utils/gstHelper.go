package utils

import (
	"strings"

	"github.com/shopspring/decimal"
)

var decimalOneHundred = decimal.NewFromInt(100)

// TaxSplit is one GST amount broken into its statutory buckets.
// Intra-state tax splits evenly into CGST+SGST; inter-state tax is all IGST.
type TaxSplit struct {
	Cgst decimal.Decimal `json:"cgst"`
	Sgst decimal.Decimal `json:"sgst"`
	Igst decimal.Decimal `json:"igst"`
}

func (s TaxSplit) Add(o TaxSplit) TaxSplit {
	return TaxSplit{
		Cgst: s.Cgst.Add(o.Cgst),
		Sgst: s.Sgst.Add(o.Sgst),
		Igst: s.Igst.Add(o.Igst),
	}
}

func (s TaxSplit) Total() decimal.Decimal {
	return s.Cgst.Add(s.Sgst).Add(s.Igst)
}

func (s TaxSplit) Round2() TaxSplit {
	return TaxSplit{
		Cgst: Round2(s.Cgst),
		Sgst: Round2(s.Sgst),
		Igst: Round2(s.Igst),
	}
}

// LineTaxable returns quantity * rate for one line item.
func LineTaxable(qty decimal.Decimal, rate decimal.Decimal) decimal.Decimal {
	return qty.Mul(rate)
}

// LineTax returns the GST amount on a taxable value at taxPercent.
func LineTax(taxable decimal.Decimal, taxPercent decimal.Decimal) decimal.Decimal {
	return taxable.Mul(taxPercent).DivRound(decimalOneHundred, 4)
}

// SameState compares place-of-supply states case-insensitively.
// A counterpart with no state recorded is treated as intra-state.
func SameState(companyState string, counterpartState string) bool {
	counterpartState = strings.TrimSpace(counterpartState)
	if counterpartState == "" {
		return true
	}
	return strings.EqualFold(strings.TrimSpace(companyState), counterpartState)
}

// SplitTax is the single source of truth for the intra/inter-state rule.
// Every return calculator (GSTR-1/2/3B, HSN, filing) goes through here.
func SplitTax(companyState string, counterpartState string, tax decimal.Decimal) TaxSplit {
	if SameState(companyState, counterpartState) {
		half := tax.Div(decimal.NewFromInt(2))
		return TaxSplit{Cgst: half, Sgst: half, Igst: decimal.Zero}
	}
	return TaxSplit{Cgst: decimal.Zero, Sgst: decimal.Zero, Igst: tax}
}

// Round2 rounds to 2 decimal places. Applied once, at response edges.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
