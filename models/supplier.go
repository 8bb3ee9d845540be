package models

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vyaparlabs/gstbooks_backend/config"
	"github.com/vyaparlabs/gstbooks_backend/utils"
)

type Supplier struct {
	ID        int       `gorm:"primary_key" json:"id"`
	Name      string    `gorm:"size:255;not null;index" json:"name" binding:"required"`
	Email     string    `gorm:"size:100" json:"email"`
	Phone     string    `gorm:"size:20" json:"phone"`
	Gstin     string    `gorm:"size:20;index" json:"gstin"`
	State     string    `gorm:"size:64" json:"state"`
	Address   string    `gorm:"type:text" json:"address"`
	Notes     string    `gorm:"type:text" json:"notes"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewSupplier struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"omitempty,email"`
	Phone   string `json:"phone"`
	Gstin   string `json:"gstin" binding:"omitempty,gstin"`
	State   string `json:"state"`
	Address string `json:"address"`
	Notes   string `json:"notes"`
}

func (input *NewSupplier) validate() error {
	if input.Gstin != "" && !IsValidGstin(input.Gstin) {
		return errors.New("invalid gstin")
	}
	return nil
}

func CreateSupplier(ctx context.Context, input *NewSupplier) (*Supplier, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	supplier := Supplier{
		Name:    input.Name,
		Email:   input.Email,
		Phone:   utils.NormalizePhone(input.Phone),
		Gstin:   input.Gstin,
		State:   input.State,
		Address: input.Address,
		Notes:   input.Notes,
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&supplier).Error; err != nil {
		return nil, err
	}
	return &supplier, nil
}

func UpdateSupplier(ctx context.Context, id int, input *NewSupplier) (*Supplier, error) {
	if _, err := utils.FetchModel[Supplier](ctx, id); err != nil {
		return nil, err
	}
	if err := input.validate(); err != nil {
		return nil, err
	}

	update := Supplier{ID: id}
	db := config.GetDB()
	err := db.WithContext(ctx).Model(&update).Updates(map[string]interface{}{
		"Name":    input.Name,
		"Email":   input.Email,
		"Phone":   utils.NormalizePhone(input.Phone),
		"Gstin":   input.Gstin,
		"State":   input.State,
		"Address": input.Address,
		"Notes":   input.Notes,
	}).Error
	if err != nil {
		return nil, err
	}
	return utils.FetchModel[Supplier](ctx, id)
}

func DeleteSupplier(ctx context.Context, id int) (*Supplier, error) {
	result, err := utils.FetchModel[Supplier](ctx, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Delete(&result).Error; err != nil {
		return nil, err
	}
	return result, nil
}

func GetSupplier(ctx context.Context, id int) (*Supplier, error) {
	return utils.FetchModel[Supplier](ctx, id)
}

func ListSuppliers(ctx context.Context, search string) ([]*Supplier, error) {
	db := config.GetDB()
	dbCtx := db.WithContext(ctx).Model(&Supplier{}).Order("name ASC")
	if search != "" {
		dbCtx = dbCtx.Where("name LIKE ? OR gstin LIKE ?", "%"+search+"%", "%"+search+"%")
	}
	var suppliers []*Supplier
	if err := dbCtx.Find(&suppliers).Error; err != nil {
		return nil, err
	}
	return suppliers, nil
}

// GetSupplierLedger mirrors the client ledger for purchase bills.
func GetSupplierLedger(ctx context.Context, id int) (*Ledger, error) {
	supplier, err := utils.FetchModel[Supplier](ctx, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	var purchases []*Purchase
	if err := db.WithContext(ctx).Model(&Purchase{}).
		Where("supplier_id = ?", id).
		Order("bill_date ASC, id ASC").
		Find(&purchases).Error; err != nil {
		return nil, err
	}

	ledger := Ledger{
		PartyName:    supplier.Name,
		Entries:      make([]LedgerEntry, 0, len(purchases)),
		TotalBilled:  decimal.Zero,
		TotalPending: decimal.Zero,
	}
	balance := decimal.Zero
	for _, p := range purchases {
		balance = balance.Add(p.PendingAmount)
		ledger.TotalBilled = ledger.TotalBilled.Add(p.TotalAmount)
		ledger.TotalPending = ledger.TotalPending.Add(p.PendingAmount)
		ledger.Entries = append(ledger.Entries, LedgerEntry{
			Date:          p.BillDate,
			Number:        p.BillNumber,
			TotalAmount:   utils.Round2(p.TotalAmount),
			PaidAmount:    utils.Round2(p.PaidAmount),
			PendingAmount: utils.Round2(p.PendingAmount),
			Balance:       utils.Round2(balance),
		})
	}
	ledger.TotalBilled = utils.Round2(ledger.TotalBilled)
	ledger.TotalPending = utils.Round2(ledger.TotalPending)
	return &ledger, nil
}
