package models

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vyaparlabs/gstbooks_backend/config"
	"github.com/vyaparlabs/gstbooks_backend/utils"
)

type Client struct {
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

type NewClient struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"omitempty,email"`
	Phone   string `json:"phone"`
	Gstin   string `json:"gstin" binding:"omitempty,gstin"`
	State   string `json:"state"`
	Address string `json:"address"`
	Notes   string `json:"notes"`
}

// LedgerEntry is one invoice line in a party statement, with running balance.
type LedgerEntry struct {
	Date          time.Time       `json:"date"`
	Number        string          `json:"number"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	PaidAmount    decimal.Decimal `json:"paid_amount"`
	PendingAmount decimal.Decimal `json:"pending_amount"`
	Balance       decimal.Decimal `json:"balance"`
}

type Ledger struct {
	PartyName    string          `json:"party_name"`
	Entries      []LedgerEntry   `json:"entries"`
	TotalBilled  decimal.Decimal `json:"total_billed"`
	TotalPending decimal.Decimal `json:"total_pending"`
}

func (input *NewClient) validate() error {
	if input.Gstin != "" && !IsValidGstin(input.Gstin) {
		return errors.New("invalid gstin")
	}
	return nil
}

func CreateClient(ctx context.Context, input *NewClient) (*Client, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	client := Client{
		Name:    input.Name,
		Email:   input.Email,
		Phone:   utils.NormalizePhone(input.Phone),
		Gstin:   input.Gstin,
		State:   input.State,
		Address: input.Address,
		Notes:   input.Notes,
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&client).Error; err != nil {
		return nil, err
	}
	return &client, nil
}

func UpdateClient(ctx context.Context, id int, input *NewClient) (*Client, error) {
	if _, err := utils.FetchModel[Client](ctx, id); err != nil {
		return nil, err
	}
	if err := input.validate(); err != nil {
		return nil, err
	}

	update := Client{ID: id}
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
	return utils.FetchModel[Client](ctx, id)
}

func DeleteClient(ctx context.Context, id int) (*Client, error) {
	result, err := utils.FetchModel[Client](ctx, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Delete(&result).Error; err != nil {
		return nil, err
	}
	return result, nil
}

func GetClient(ctx context.Context, id int) (*Client, error) {
	return utils.FetchModel[Client](ctx, id)
}

func ListClients(ctx context.Context, search string) ([]*Client, error) {
	db := config.GetDB()
	dbCtx := db.WithContext(ctx).Model(&Client{}).Order("name ASC")
	if search != "" {
		dbCtx = dbCtx.Where("name LIKE ? OR gstin LIKE ?", "%"+search+"%", "%"+search+"%")
	}
	var clients []*Client
	if err := dbCtx.Find(&clients).Error; err != nil {
		return nil, err
	}
	return clients, nil
}

// GetClientLedger lists the client's invoices oldest-first with a running
// outstanding balance.
func GetClientLedger(ctx context.Context, id int) (*Ledger, error) {
	client, err := utils.FetchModel[Client](ctx, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	var sales []*Sale
	if err := db.WithContext(ctx).Model(&Sale{}).
		Where("client_id = ?", id).
		Order("invoice_date ASC, id ASC").
		Find(&sales).Error; err != nil {
		return nil, err
	}

	ledger := Ledger{
		PartyName:    client.Name,
		Entries:      make([]LedgerEntry, 0, len(sales)),
		TotalBilled:  decimal.Zero,
		TotalPending: decimal.Zero,
	}
	balance := decimal.Zero
	for _, s := range sales {
		balance = balance.Add(s.PendingAmount)
		ledger.TotalBilled = ledger.TotalBilled.Add(s.TotalAmount)
		ledger.TotalPending = ledger.TotalPending.Add(s.PendingAmount)
		ledger.Entries = append(ledger.Entries, LedgerEntry{
			Date:          s.InvoiceDate,
			Number:        s.InvoiceNumber,
			TotalAmount:   utils.Round2(s.TotalAmount),
			PaidAmount:    utils.Round2(s.PaidAmount),
			PendingAmount: utils.Round2(s.PendingAmount),
			Balance:       utils.Round2(balance),
		})
	}
	ledger.TotalBilled = utils.Round2(ledger.TotalBilled)
	ledger.TotalPending = utils.Round2(ledger.TotalPending)
	return &ledger, nil
}
