package models

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vyaparlabs/gstbooks_backend/config"
	"github.com/vyaparlabs/gstbooks_backend/utils"
)

type Expense struct {
	ID          int             `gorm:"primary_key" json:"id"`
	Category    string          `gorm:"size:64;not null;index" json:"category"`
	Description string          `gorm:"size:512" json:"description"`
	Amount      decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"amount"`
	ExpenseDate time.Time       `gorm:"not null;index" json:"expense_date"`
	PaymentMode string          `gorm:"size:32" json:"payment_mode"`
	Reference   string          `gorm:"size:128" json:"reference"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewExpense struct {
	Category    string          `json:"category" binding:"required"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	ExpenseDate time.Time       `json:"expense_date"`
	PaymentMode string          `json:"payment_mode"`
	Reference   string          `json:"reference"`
}

func (input *NewExpense) validate() error {
	if !input.Amount.IsPositive() {
		return errors.New("amount must be positive")
	}
	return nil
}

func CreateExpense(ctx context.Context, input *NewExpense) (*Expense, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	expenseDate := input.ExpenseDate
	if expenseDate.IsZero() {
		expenseDate = time.Now()
	}
	expense := Expense{
		Category:    input.Category,
		Description: input.Description,
		Amount:      input.Amount,
		ExpenseDate: expenseDate,
		PaymentMode: input.PaymentMode,
		Reference:   input.Reference,
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&expense).Error; err != nil {
		return nil, err
	}
	return &expense, nil
}

func UpdateExpense(ctx context.Context, id int, input *NewExpense) (*Expense, error) {
	if _, err := utils.FetchModel[Expense](ctx, id); err != nil {
		return nil, err
	}
	if err := input.validate(); err != nil {
		return nil, err
	}

	update := map[string]interface{}{
		"Category":    input.Category,
		"Description": input.Description,
		"Amount":      input.Amount,
		"PaymentMode": input.PaymentMode,
		"Reference":   input.Reference,
	}
	if !input.ExpenseDate.IsZero() {
		update["ExpenseDate"] = input.ExpenseDate
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Model(&Expense{ID: id}).Updates(update).Error; err != nil {
		return nil, err
	}
	return utils.FetchModel[Expense](ctx, id)
}

func DeleteExpense(ctx context.Context, id int) (*Expense, error) {
	result, err := utils.FetchModel[Expense](ctx, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Delete(&result).Error; err != nil {
		return nil, err
	}
	return result, nil
}

func GetExpense(ctx context.Context, id int) (*Expense, error) {
	return utils.FetchModel[Expense](ctx, id)
}

type ExpenseFilter struct {
	Category  string
	StartDate string
	EndDate   string
	Search    string
}

func ListExpenses(ctx context.Context, filter *ExpenseFilter) ([]*Expense, error) {
	db := config.GetDB()
	dbCtx := db.WithContext(ctx).Model(&Expense{}).Order("expense_date DESC, id DESC")
	if filter != nil {
		if filter.Category != "" {
			dbCtx = dbCtx.Where("category = ?", filter.Category)
		}
		if filter.StartDate != "" || filter.EndDate != "" {
			start, end, err := ParseDateRange(filter.StartDate, filter.EndDate)
			if err != nil {
				return nil, err
			}
			dbCtx = dbCtx.Where("expense_date BETWEEN ? AND ?", start, end)
		}
		if filter.Search != "" {
			dbCtx = dbCtx.Where("description LIKE ? OR reference LIKE ?",
				"%"+filter.Search+"%", "%"+filter.Search+"%")
		}
	}
	var expenses []*Expense
	if err := dbCtx.Find(&expenses).Error; err != nil {
		return nil, err
	}
	return expenses, nil
}
