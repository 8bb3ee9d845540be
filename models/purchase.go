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

type Purchase struct {
	ID            int             `gorm:"primary_key" json:"id"`
	BillNumber    string          `gorm:"size:64;not null;index" json:"bill_number"`
	SupplierId    int             `gorm:"not null;index" json:"supplier_id"`
	Supplier      *Supplier       `json:"supplier,omitempty"`
	SupplierState string          `gorm:"size:64" json:"supplier_state"`
	BillDate      time.Time       `gorm:"not null;index" json:"bill_date"`
	Items         []*PurchaseItem `gorm:"constraint:OnDelete:CASCADE" json:"items"`
	Subtotal      decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"subtotal"`
	TaxTotal      decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"tax_total"`
	TotalAmount   decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"total_amount"`
	PaidAmount    decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"paid_amount"`
	PendingAmount decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"pending_amount"`
	Status        PaymentStatus   `gorm:"type:enum('Paid','Partial','Unpaid');default:'Unpaid'" json:"status"`
	ItcEligible   *bool           `gorm:"default:true" json:"itc_eligible"`
	PaymentMode   string          `gorm:"size:32" json:"payment_mode"`
	Notes         string          `gorm:"size:1024" json:"notes"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type PurchaseItem struct {
	ID         int             `gorm:"primary_key" json:"id"`
	PurchaseId int             `gorm:"not null;index" json:"-"`
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

type NewPurchaseItem struct {
	ProductId  int             `json:"product_id"`
	Name       string          `json:"name"`
	HsnCode    string          `json:"hsn_code"`
	Quantity   decimal.Decimal `json:"quantity" binding:"required"`
	Rate       decimal.Decimal `json:"rate"`
	TaxPercent decimal.Decimal `json:"tax_percent"`
}

type NewPurchase struct {
	BillNumber  string             `json:"bill_number" binding:"required"`
	SupplierId  int                `json:"supplier_id" binding:"required"`
	BillDate    time.Time          `json:"bill_date"`
	Items       []*NewPurchaseItem `json:"items" binding:"required"`
	PaidAmount  decimal.Decimal    `json:"paid_amount"`
	ItcEligible *bool              `json:"itc_eligible"`
	PaymentMode string             `json:"payment_mode"`
	Notes       string             `json:"notes"`
}

type PurchaseTotals struct {
	Subtotal      decimal.Decimal
	TaxTotal      decimal.Decimal
	TotalAmount   decimal.Decimal
	PendingAmount decimal.Decimal
	Status        PaymentStatus
	Items         []*PurchaseItem
}

// ComputePurchaseTotals mirrors the sale arithmetic but without a discount
// column; supplier bills are entered as issued.
func ComputePurchaseTotals(items []*NewPurchaseItem, paidAmount decimal.Decimal) (*PurchaseTotals, error) {
	if len(items) == 0 {
		return nil, errors.New("purchase must have at least one item")
	}
	if paidAmount.IsNegative() {
		return nil, errors.New("paid amount cannot be negative")
	}

	totals := PurchaseTotals{}
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
		totals.Items = append(totals.Items, &PurchaseItem{
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

	totals.TotalAmount = totals.Subtotal.Add(totals.TaxTotal)
	if paidAmount.GreaterThan(totals.TotalAmount) {
		return nil, errors.New("paid amount exceeds bill total")
	}

	totals.PendingAmount = totals.TotalAmount.Sub(paidAmount)
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

func (input *NewPurchase) validate(ctx context.Context) (*Supplier, error) {
	supplier, err := utils.FetchModel[Supplier](ctx, input.SupplierId)
	if err != nil {
		return nil, errors.New("supplier not found")
	}
	return supplier, nil
}

func CreatePurchase(ctx context.Context, input *NewPurchase) (*Purchase, error) {
	supplier, err := input.validate(ctx)
	if err != nil {
		return nil, err
	}
	totals, err := ComputePurchaseTotals(input.Items, input.PaidAmount)
	if err != nil {
		return nil, err
	}

	billDate := input.BillDate
	if billDate.IsZero() {
		billDate = time.Now()
	}
	itcEligible := input.ItcEligible
	if itcEligible == nil {
		itcEligible = utils.Ptr(true)
	}

	purchase := Purchase{
		BillNumber:    input.BillNumber,
		SupplierId:    supplier.ID,
		SupplierState: supplier.State,
		BillDate:      billDate,
		Items:         totals.Items,
		Subtotal:      totals.Subtotal,
		TaxTotal:      totals.TaxTotal,
		TotalAmount:   totals.TotalAmount,
		PaidAmount:    input.PaidAmount,
		PendingAmount: totals.PendingAmount,
		Status:        totals.Status,
		ItcEligible:   itcEligible,
		PaymentMode:   input.PaymentMode,
		Notes:         input.Notes,
	}

	lock := obtainStockLock(ctx)
	defer releaseStockLock(ctx, lock)

	db := config.GetDB()
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, item := range purchase.Items {
			if item.ProductId == 0 {
				continue
			}
			if err := applyStockDelta(tx, ctx, item.ProductId, item.Quantity); err != nil {
				return err
			}
		}
		return tx.WithContext(ctx).Create(&purchase).Error
	})
	if err != nil {
		return nil, err
	}
	return utils.FetchModel[Purchase](ctx, purchase.ID, "Items", "Supplier")
}

func UpdatePurchase(ctx context.Context, id int, input *NewPurchase) (*Purchase, error) {
	existing, err := utils.FetchModel[Purchase](ctx, id, "Items")
	if err != nil {
		return nil, err
	}
	supplier, err := input.validate(ctx)
	if err != nil {
		return nil, err
	}
	totals, err := ComputePurchaseTotals(input.Items, input.PaidAmount)
	if err != nil {
		return nil, err
	}

	billDate := input.BillDate
	if billDate.IsZero() {
		billDate = existing.BillDate
	}
	itcEligible := input.ItcEligible
	if itcEligible == nil {
		itcEligible = existing.ItcEligible
	}

	lock := obtainStockLock(ctx)
	defer releaseStockLock(ctx, lock)

	db := config.GetDB()
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// reverse the old receipt, then post the new one
		for _, item := range existing.Items {
			if item.ProductId == 0 {
				continue
			}
			if err := applyStockDelta(tx, ctx, item.ProductId, item.Quantity.Neg()); err != nil {
				return err
			}
		}
		for _, item := range totals.Items {
			if item.ProductId == 0 {
				continue
			}
			if err := applyStockDelta(tx, ctx, item.ProductId, item.Quantity); err != nil {
				return err
			}
		}
		if err := tx.WithContext(ctx).Where("purchase_id = ?", id).Delete(&PurchaseItem{}).Error; err != nil {
			return err
		}
		for _, item := range totals.Items {
			item.PurchaseId = id
		}
		if err := tx.WithContext(ctx).Create(&totals.Items).Error; err != nil {
			return err
		}
		return tx.WithContext(ctx).Model(&Purchase{ID: id}).Updates(map[string]interface{}{
			"BillNumber":    input.BillNumber,
			"SupplierId":    supplier.ID,
			"SupplierState": supplier.State,
			"BillDate":      billDate,
			"Subtotal":      totals.Subtotal,
			"TaxTotal":      totals.TaxTotal,
			"TotalAmount":   totals.TotalAmount,
			"PaidAmount":    input.PaidAmount,
			"PendingAmount": totals.PendingAmount,
			"Status":        totals.Status,
			"ItcEligible":   itcEligible,
			"PaymentMode":   input.PaymentMode,
			"Notes":         input.Notes,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return utils.FetchModel[Purchase](ctx, id, "Items", "Supplier")
}

// DeletePurchase removes the bill without reversing stock, matching the
// sale-side policy; physical corrections go through stock adjustments.
func DeletePurchase(ctx context.Context, id int) (*Purchase, error) {
	result, err := utils.FetchModel[Purchase](ctx, id, "Items")
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.WithContext(ctx).Where("purchase_id = ?", id).Delete(&PurchaseItem{}).Error; err != nil {
			return err
		}
		return tx.WithContext(ctx).Delete(&Purchase{ID: id}).Error
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func GetPurchase(ctx context.Context, id int) (*Purchase, error) {
	return utils.FetchModel[Purchase](ctx, id, "Items", "Supplier")
}

type PurchaseFilter struct {
	SupplierId int
	Status     PaymentStatus
	StartDate  string
	EndDate    string
	Search     string
}

func ListPurchases(ctx context.Context, filter *PurchaseFilter) ([]*Purchase, error) {
	db := config.GetDB()
	dbCtx := db.WithContext(ctx).Model(&Purchase{}).
		Preload("Items").Order("bill_date DESC, id DESC")
	if filter != nil {
		if filter.SupplierId != 0 {
			dbCtx = dbCtx.Where("supplier_id = ?", filter.SupplierId)
		}
		if filter.Status != "" {
			dbCtx = dbCtx.Where("status = ?", filter.Status)
		}
		if filter.StartDate != "" || filter.EndDate != "" {
			start, end, err := ParseDateRange(filter.StartDate, filter.EndDate)
			if err != nil {
				return nil, err
			}
			dbCtx = dbCtx.Where("bill_date BETWEEN ? AND ?", start, end)
		}
		if filter.Search != "" {
			dbCtx = dbCtx.Where("bill_number LIKE ?", "%"+filter.Search+"%")
		}
	}
	var purchases []*Purchase
	if err := dbCtx.Find(&purchases).Error; err != nil {
		return nil, err
	}
	return purchases, nil
}

func RecordPurchasePayment(ctx context.Context, id int, amount decimal.Decimal, paymentMode string) (*Purchase, error) {
	if !amount.IsPositive() {
		return nil, errors.New("payment amount must be positive")
	}
	purchase, err := utils.FetchModel[Purchase](ctx, id)
	if err != nil {
		return nil, err
	}
	if amount.GreaterThan(purchase.PendingAmount) {
		return nil, errors.New("payment exceeds pending amount")
	}

	paid := purchase.PaidAmount.Add(amount)
	pending := purchase.TotalAmount.Sub(paid)
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
	if err := db.WithContext(ctx).Model(&Purchase{ID: id}).Updates(update).Error; err != nil {
		return nil, err
	}
	return utils.FetchModel[Purchase](ctx, id, "Items", "Supplier")
}
