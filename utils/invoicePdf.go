package utils

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

// InvoicePdfData is everything the renderer needs; the caller maps its
// records onto this so the PDF layer stays independent of the models package.
type InvoicePdfData struct {
	CompanyName    string
	CompanyAddress string
	CompanyGstin   string
	CompanyState   string
	CompanyPhone   string
	CompanyEmail   string

	InvoiceNumber string
	InvoiceDate   string
	CustomerName  string
	CustomerGstin string
	CustomerState string

	Items []InvoicePdfItem

	Subtotal      decimal.Decimal
	TaxTotal      decimal.Decimal
	Discount      decimal.Decimal
	TotalAmount   decimal.Decimal
	PaidAmount    decimal.Decimal
	PendingAmount decimal.Decimal

	BankName      string
	BankAccountNo string
	BankIfsc      string
	Terms         string
}

type InvoicePdfItem struct {
	Name       string
	HsnCode    string
	Quantity   decimal.Decimal
	Rate       decimal.Decimal
	TaxPercent decimal.Decimal
	Taxable    decimal.Decimal
	Tax        decimal.Decimal
	Total      decimal.Decimal
}

// RenderInvoicePdf produces a tax invoice as PDF bytes.
func RenderInvoicePdf(data InvoicePdfData) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	// Company header
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 8, data.CompanyName, "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	if data.CompanyAddress != "" {
		pdf.CellFormat(0, 5, data.CompanyAddress, "", 1, "C", false, 0, "")
	}
	line := fmt.Sprintf("GSTIN: %s", data.CompanyGstin)
	if data.CompanyPhone != "" {
		line += "  Phone: " + data.CompanyPhone
	}
	if data.CompanyEmail != "" {
		line += "  Email: " + data.CompanyEmail
	}
	pdf.CellFormat(0, 5, line, "", 1, "C", false, 0, "")
	pdf.Ln(2)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 7, "TAX INVOICE", "T", 1, "C", false, 0, "")
	pdf.Ln(2)

	// Invoice + customer block
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(95, 6, "Invoice No: "+data.InvoiceNumber, "", 0, "L", false, 0, "")
	pdf.CellFormat(95, 6, "Date: "+data.InvoiceDate, "", 1, "R", false, 0, "")
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(0, 6, "Bill To:", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 5, data.CustomerName, "", 1, "L", false, 0, "")
	if data.CustomerGstin != "" {
		pdf.CellFormat(0, 5, "GSTIN: "+data.CustomerGstin, "", 1, "L", false, 0, "")
	}
	if data.CustomerState != "" {
		pdf.CellFormat(0, 5, "Place of Supply: "+data.CustomerState, "", 1, "L", false, 0, "")
	}
	pdf.Ln(3)

	// Items table
	headers := []string{"#", "Item", "HSN", "Qty", "Rate", "Tax %", "Taxable", "Tax", "Total"}
	widths := []float64{8, 52, 18, 15, 20, 14, 22, 19, 22}
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(235, 235, 235)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	for i, item := range data.Items {
		pdf.CellFormat(widths[0], 6, fmt.Sprint(i+1), "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[1], 6, item.Name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[2], 6, item.HsnCode, "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[3], 6, item.Quantity.String(), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[4], 6, item.Rate.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[5], 6, item.TaxPercent.String(), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[6], 6, item.Taxable.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[7], 6, item.Tax.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[8], 6, item.Total.StringFixed(2), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(2)

	// Totals
	totals := []struct {
		label string
		value decimal.Decimal
	}{
		{"Subtotal", data.Subtotal},
		{"Tax", data.TaxTotal},
		{"Discount", data.Discount},
		{"Total", data.TotalAmount},
		{"Paid", data.PaidAmount},
		{"Balance Due", data.PendingAmount},
	}
	for _, row := range totals {
		if row.label == "Discount" && row.value.IsZero() {
			continue
		}
		pdf.SetFont("Helvetica", "", 10)
		if row.label == "Total" || row.label == "Balance Due" {
			pdf.SetFont("Helvetica", "B", 10)
		}
		pdf.CellFormat(148, 6, row.label, "", 0, "R", false, 0, "")
		pdf.CellFormat(42, 6, row.value.StringFixed(2), "", 1, "R", false, 0, "")
	}
	pdf.Ln(4)

	// Bank details + terms
	if data.BankName != "" || data.BankAccountNo != "" {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.CellFormat(0, 5, "Bank Details", "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		pdf.CellFormat(0, 5, fmt.Sprintf("%s  A/C: %s  IFSC: %s", data.BankName, data.BankAccountNo, data.BankIfsc), "", 1, "L", false, 0, "")
		pdf.Ln(2)
	}
	if data.Terms != "" {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.CellFormat(0, 5, "Terms & Conditions", "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		pdf.MultiCell(0, 4.5, data.Terms, "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
