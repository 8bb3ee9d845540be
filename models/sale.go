package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/vyaparlabs/gstbooks_backend/config"
	"github.com/vyaparlabs/gstbooks_backend/utils"
)

// Emi captures the optional instalment plan a sale may carry.
type Emi struct {
	Enabled       *bool           `gorm:"default:false" json:"enabled"`
	Months        int             `json:"months"`
	MonthlyAmount decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"monthly_amount"`
	StartDate     *time.Time      `json:"start_date"`
}

type Sale struct {
	ID            int             `gorm:"primary_key" json:"id"`
	InvoiceNumber string          `gorm:"size:64;uniqueIndex;not null" json:"invoice_number"`
	SequenceNo    int             `gorm:"not null;default:0" json:"-"`
	ClientId      int             `gorm:"index" json:"client_id"`
	Client        *Client         `json:"client,omitempty"`
	CustomerName  string          `gorm:"size:255;not null" json:"customer_name"`
	CustomerGstin string          `gorm:"size:16" json:"customer_gstin"`
	CustomerState string          `gorm:"size:64" json:"customer_state"`
	InvoiceDate   time.Time       `gorm:"not null;index" json:"invoice_date"`
	Items         []*SaleItem     `gorm:"constraint:OnDelete:CASCADE" json:"items"`
	Subtotal      decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"subtotal"`
	TaxTotal      decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"tax_total"`
	Discount      decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"discount"`
	TotalAmount   decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"total_amount"`
	PaidAmount    decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"paid_amount"`
	PendingAmount decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"pending_amount"`
	Status        PaymentStatus   `gorm:"type:enum('Paid','Partial','Unpaid');default:'Unpaid'" json:"status"`
	PaymentMode   string          `gorm:"size:32" json:"payment_mode"`
	Notes         string          `gorm:"size:1024" json:"notes"`
	Emi           Emi             `gorm:"embedded;embeddedPrefix:emi_" json:"emi"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type SaleItem struct {
	ID         int             `gorm:"primary_key" json:"id"`
	SaleId     int             `gorm:"not null;index" json:"-"`
	ProductId  int             `gorm:"index" json:"product_id"`
	Name       string          `gorm:"size:255;not null" json:"name"`
	HsnCode    string          `gorm:"size:16" json:"hsn_code"`
	Quantity   decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"quantity"`
	Rate       decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"rate"`
	TaxPercent decimal.Decimal `gorm:"type:decimal(5,2);default:0" json:"tax_percent"`
	Taxable    decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"taxable"`
	TaxAmount  decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"tax_amount"`
	Total      decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"total"`
}

type NewSaleItem struct {
	ProductId  int             `json:"product_id"`
	Name       string          `json:"name"`
	HsnCode    string          `json:"hsn_code"`
	Quantity   decimal.Decimal `json:"quantity" binding:"required"`
	Rate       decimal.Decimal `json:"rate"`
	TaxPercent decimal.Decimal `json:"tax_percent"`
}

type NewSale struct {
	ClientId      int             `json:"client_id"`
	CustomerName  string          `json:"customer_name"`
	CustomerGstin string          `json:"customer_gstin" binding:"omitempty,gstin"`
	CustomerState string          `json:"customer_state"`
	InvoiceDate   time.Time       `json:"invoice_date"`
	Items         []*NewSaleItem  `json:"items" binding:"required"`
	Discount      decimal.Decimal `json:"discount"`
	PaidAmount    decimal.Decimal `json:"paid_amount"`
	PaymentMode   string          `json:"payment_mode"`
	Notes         string          `json:"notes"`
	Emi           *Emi            `json:"emi"`
}

// SaleTotals is the arithmetic of an invoice, separated from persistence so
// it can be computed for previews and verified in isolation.
type SaleTotals struct {
	Subtotal      decimal.Decimal
	TaxTotal      decimal.Decimal
	TotalAmount   decimal.Decimal
	PendingAmount decimal.Decimal
	Status        PaymentStatus
	Items         []*SaleItem
}

// ComputeSaleTotals prices each line, sums the invoice and derives the
// payment status. Amounts stay at full precision; rounding happens at the
// response edge.
func ComputeSaleTotals(items []*NewSaleItem, discount, paidAmount decimal.Decimal) (*SaleTotals, error) {
	if len(items) == 0 {
		return nil, errors.New("sale must have at least one item")
	}
	if discount.IsNegative() {
		return nil, errors.New("discount cannot be negative")
	}
	if paidAmount.IsNegative() {
		return nil, errors.New("paid amount cannot be negative")
	}

	totals := SaleTotals{}
	for i, item := range items {
		if !item.Quantity.IsPositive() {
			return nil, fmt.Errorf("item %d: quantity must be positive", i+1)
		}
		if item.Rate.IsNegative() {
			return nil, fmt.Errorf("item %d: rate cannot be negative", i+1)
		}
		if item.TaxPercent.IsNegative() || item.TaxPercent.GreaterThan(decimal.NewFromInt(100)) {
			return nil, fmt.Errorf("item %d: tax percent must be between 0 and 100", i+1)
		}

		taxable := utils.LineTaxable(item.Quantity, item.Rate)
		tax := utils.LineTax(taxable, item.TaxPercent)
		totals.Items = append(totals.Items, &SaleItem{
			ProductId:  item.ProductId,
			Name:       item.Name,
			HsnCode:    item.HsnCode,
			Quantity:   item.Quantity,
			Rate:       item.Rate,
			TaxPercent: item.TaxPercent,
			Taxable:    taxable,
			TaxAmount:  tax,
			Total:      taxable.Add(tax),
		})
		totals.Subtotal = totals.Subtotal.Add(taxable)
		totals.TaxTotal = totals.TaxTotal.Add(tax)
	}

	// The invoice total stays gross; the discount only reduces what is
	// left to collect.
	totals.TotalAmount = totals.Subtotal.Add(totals.TaxTotal)
	if discount.GreaterThan(totals.TotalAmount) {
		return nil, errors.New("discount exceeds invoice total")
	}
	if paidAmount.Add(discount).GreaterThan(totals.TotalAmount) {
		return nil, errors.New("paid amount exceeds invoice total")
	}

	totals.PendingAmount = totals.TotalAmount.Sub(paidAmount).Sub(discount)
	switch {
	case totals.PendingAmount.IsZero():
		totals.Status = PaymentStatusPaid
	case paidAmount.IsPositive():
		totals.Status = PaymentStatusPartial
	default:
		totals.Status = PaymentStatusUnpaid
	}
	return &totals, nil
}

func (input *NewSale) validate(ctx context.Context) (*Client, error) {
	var client *Client
	if input.ClientId != 0 {
		found, err := utils.FetchModel[Client](ctx, input.ClientId)
		if err != nil {
			return nil, errors.New("client not found")
		}
		client = found
	} else if input.CustomerName == "" {
		return nil, errors.New("customer name is required for walk-in sales")
	}
	if input.CustomerGstin != "" && !IsValidGstin(input.CustomerGstin) {
		return nil, errors.New("invalid customer GSTIN")
	}
	if input.Emi != nil && utils.DereferencePtr(input.Emi.Enabled) {
		if input.Emi.Months <= 0 {
			return nil, errors.New("emi months must be positive")
		}
	}
	return client, nil
}

// snapshotCustomer copies the party details onto the invoice so later edits
// to the client record do not rewrite history.
func (sale *Sale) snapshotCustomer(client *Client, input *NewSale) {
	if client != nil {
		sale.ClientId = client.ID
		sale.CustomerName = client.Name
		sale.CustomerGstin = client.Gstin
		sale.CustomerState = client.State
	}
	if input.CustomerName != "" {
		sale.CustomerName = input.CustomerName
	}
	if input.CustomerGstin != "" {
		sale.CustomerGstin = input.CustomerGstin
	}
	if input.CustomerState != "" {
		sale.CustomerState = input.CustomerState
	}
}

// nextInvoiceNumber allocates the next sequence under the caller's
// transaction. MAX+1 is safe here because invoice_number carries a unique
// index; a rare collision surfaces as a duplicate-key error and the caller
// reallocates.
func nextInvoiceNumber(tx *gorm.DB, ctx context.Context, prefix string) (int, string, error) {
	var maxSeq int
	err := tx.WithContext(ctx).Model(&Sale{}).
		Select("COALESCE(MAX(sequence_no), 0)").Scan(&maxSeq).Error
	if err != nil {
		return 0, "", err
	}
	seq := maxSeq + 1
	return seq, fmt.Sprintf("%s%04d", prefix, seq), nil
}

func CreateSale(ctx context.Context, input *NewSale) (*Sale, error) {
	client, err := input.validate(ctx)
	if err != nil {
		return nil, err
	}
	totals, err := ComputeSaleTotals(input.Items, input.Discount, input.PaidAmount)
	if err != nil {
		return nil, err
	}
	settings, err := GetSettings(ctx)
	if err != nil {
		return nil, err
	}

	invoiceDate := input.InvoiceDate
	if invoiceDate.IsZero() {
		invoiceDate = time.Now()
	}

	sale := Sale{
		InvoiceDate:   invoiceDate,
		Items:         totals.Items,
		Subtotal:      totals.Subtotal,
		TaxTotal:      totals.TaxTotal,
		Discount:      input.Discount,
		TotalAmount:   totals.TotalAmount,
		PaidAmount:    input.PaidAmount,
		PendingAmount: totals.PendingAmount,
		Status:        totals.Status,
		PaymentMode:   input.PaymentMode,
		Notes:         input.Notes,
	}
	sale.snapshotCustomer(client, input)
	if input.Emi != nil {
		sale.Emi = *input.Emi
	}

	lock := obtainStockLock(ctx)
	defer releaseStockLock(ctx, lock)

	db := config.GetDB()
	post := func() error {
		return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			seq, number, err := nextInvoiceNumber(tx, ctx, settings.InvoicePrefix)
			if err != nil {
				return err
			}
			sale.SequenceNo = seq
			sale.InvoiceNumber = number

			for _, item := range sale.Items {
				if item.ProductId == 0 {
					continue
				}
				if err := applyStockDelta(tx, ctx, item.ProductId, item.Quantity.Neg()); err != nil {
					return err
				}
			}
			return tx.WithContext(ctx).Create(&sale).Error
		})
	}
	err = post()
	if utils.IsDuplicateKeyError(err) {
		// Two concurrent invoices picked the same sequence; the unique
		// index caught it, so reallocate once.
		sale.ID = 0
		err = post()
	}
	if err != nil {
		return nil, err
	}
	return utils.FetchModel[Sale](ctx, sale.ID, "Items", "Client")
}

// UpdateSale replaces the invoice lines. Stock is reconciled against the
// previous lines in the same transaction, so the net effect equals deleting
// and re-entering the invoice without losing its number.
func UpdateSale(ctx context.Context, id int, input *NewSale) (*Sale, error) {
	existing, err := utils.FetchModel[Sale](ctx, id, "Items")
	if err != nil {
		return nil, err
	}
	client, err := input.validate(ctx)
	if err != nil {
		return nil, err
	}
	totals, err := ComputeSaleTotals(input.Items, input.Discount, input.PaidAmount)
	if err != nil {
		return nil, err
	}

	invoiceDate := input.InvoiceDate
	if invoiceDate.IsZero() {
		invoiceDate = existing.InvoiceDate
	}

	updated := Sale{
		ID:            existing.ID,
		InvoiceNumber: existing.InvoiceNumber,
		SequenceNo:    existing.SequenceNo,
		InvoiceDate:   invoiceDate,
		Subtotal:      totals.Subtotal,
		TaxTotal:      totals.TaxTotal,
		Discount:      input.Discount,
		TotalAmount:   totals.TotalAmount,
		PaidAmount:    input.PaidAmount,
		PendingAmount: totals.PendingAmount,
		Status:        totals.Status,
		PaymentMode:   input.PaymentMode,
		Notes:         input.Notes,
	}
	updated.snapshotCustomer(client, input)
	if input.Emi != nil {
		updated.Emi = *input.Emi
	}

	lock := obtainStockLock(ctx)
	defer releaseStockLock(ctx, lock)

	db := config.GetDB()
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// return the old lines to stock, then post the new ones
		for _, item := range existing.Items {
			if item.ProductId == 0 {
				continue
			}
			if err := applyStockDelta(tx, ctx, item.ProductId, item.Quantity); err != nil {
				return err
			}
		}
		for _, item := range totals.Items {
			if item.ProductId == 0 {
				continue
			}
			if err := applyStockDelta(tx, ctx, item.ProductId, item.Quantity.Neg()); err != nil {
				return err
			}
		}
		if err := tx.WithContext(ctx).Where("sale_id = ?", id).Delete(&SaleItem{}).Error; err != nil {
			return err
		}
		for _, item := range totals.Items {
			item.SaleId = id
		}
		if err := tx.WithContext(ctx).Create(&totals.Items).Error; err != nil {
			return err
		}
		return tx.WithContext(ctx).Model(&Sale{ID: id}).Updates(map[string]interface{}{
			"ClientId":      updated.ClientId,
			"CustomerName":  updated.CustomerName,
			"CustomerGstin": updated.CustomerGstin,
			"CustomerState": updated.CustomerState,
			"InvoiceDate":   updated.InvoiceDate,
			"Subtotal":      updated.Subtotal,
			"TaxTotal":      updated.TaxTotal,
			"Discount":      updated.Discount,
			"TotalAmount":   updated.TotalAmount,
			"PaidAmount":    updated.PaidAmount,
			"PendingAmount": updated.PendingAmount,
			"Status":        updated.Status,
			"PaymentMode":   updated.PaymentMode,
			"Notes":         updated.Notes,
			"EmiEnabled":    updated.Emi.Enabled,
			"EmiMonths":     updated.Emi.Months,
			"EmiMonthlyAmount": updated.Emi.MonthlyAmount,
			"EmiStartDate":  updated.Emi.StartDate,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return utils.FetchModel[Sale](ctx, id, "Items", "Client")
}

// DeleteSale removes the invoice and its lines. Stock is intentionally not
// restored: a deleted invoice usually means the goods still left the shelf
// and the paperwork was wrong, so corrections go through stock adjustments.
func DeleteSale(ctx context.Context, id int) (*Sale, error) {
	result, err := utils.FetchModel[Sale](ctx, id, "Items")
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.WithContext(ctx).Where("sale_id = ?", id).Delete(&SaleItem{}).Error; err != nil {
			return err
		}
		return tx.WithContext(ctx).Delete(&Sale{ID: id}).Error
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func GetSale(ctx context.Context, id int) (*Sale, error) {
	return utils.FetchModel[Sale](ctx, id, "Items", "Client")
}

type SaleFilter struct {
	ClientId  int
	Status    PaymentStatus
	StartDate string
	EndDate   string
	Search    string
}

func ListSales(ctx context.Context, filter *SaleFilter) ([]*Sale, error) {
	db := config.GetDB()
	dbCtx := db.WithContext(ctx).Model(&Sale{}).
		Preload("Items").Order("invoice_date DESC, id DESC")
	if filter != nil {
		if filter.ClientId != 0 {
			dbCtx = dbCtx.Where("client_id = ?", filter.ClientId)
		}
		if filter.Status != "" {
			dbCtx = dbCtx.Where("status = ?", filter.Status)
		}
		if filter.StartDate != "" || filter.EndDate != "" {
			start, end, err := ParseDateRange(filter.StartDate, filter.EndDate)
			if err != nil {
				return nil, err
			}
			dbCtx = dbCtx.Where("invoice_date BETWEEN ? AND ?", start, end)
		}
		if filter.Search != "" {
			dbCtx = dbCtx.Where("invoice_number LIKE ? OR customer_name LIKE ?",
				"%"+filter.Search+"%", "%"+filter.Search+"%")
		}
	}
	var sales []*Sale
	if err := dbCtx.Find(&sales).Error; err != nil {
		return nil, err
	}
	return sales, nil
}

// RecordSalePayment moves PaidAmount without re-pricing the invoice.
func RecordSalePayment(ctx context.Context, id int, amount decimal.Decimal, paymentMode string) (*Sale, error) {
	if !amount.IsPositive() {
		return nil, errors.New("payment amount must be positive")
	}
	sale, err := utils.FetchModel[Sale](ctx, id)
	if err != nil {
		return nil, err
	}
	if amount.GreaterThan(sale.PendingAmount) {
		return nil, errors.New("payment exceeds pending amount")
	}

	paid := sale.PaidAmount.Add(amount)
	pending := sale.PendingAmount.Sub(amount)
	status := PaymentStatusPartial
	if pending.IsZero() {
		status = PaymentStatusPaid
	}

	update := map[string]interface{}{
		"PaidAmount":    paid,
		"PendingAmount": pending,
		"Status":        status,
	}
	if paymentMode != "" {
		update["PaymentMode"] = paymentMode
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Model(&Sale{ID: id}).Updates(update).Error; err != nil {
		return nil, err
	}
	return utils.FetchModel[Sale](ctx, id, "Items", "Client")
}
