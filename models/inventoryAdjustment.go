package models

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/vyaparlabs/gstbooks_backend/config"
	"github.com/vyaparlabs/gstbooks_backend/utils"
)

// InventoryAdjustment is the audit trail for manual stock corrections.
// Sales and purchases move stock on their own and are not recorded here.
type InventoryAdjustment struct {
	ID        int              `gorm:"primary_key" json:"id"`
	ProductId int              `gorm:"not null;index" json:"product_id"`
	Product   *Product         `json:"product,omitempty"`
	Quantity  decimal.Decimal  `gorm:"type:decimal(20,4);not null" json:"quantity"`
	Reason    AdjustmentReason `gorm:"type:enum('Recount','Damage','Loss','Correction','Other');default:'Correction'" json:"reason"`
	Notes     string           `gorm:"size:512" json:"notes"`
	CreatedBy int              `json:"created_by"`
	CreatedAt time.Time        `gorm:"autoCreateTime" json:"created_at"`
}

type NewInventoryAdjustment struct {
	ProductId int              `json:"product_id" binding:"required"`
	Quantity  decimal.Decimal  `json:"quantity"`
	Reason    AdjustmentReason `json:"reason"`
	Notes     string           `json:"notes"`
}

// AdjustStock posts a manual stock delta and records the adjustment in the
// same transaction, so the audit row and the stock level cannot diverge.
func AdjustStock(ctx context.Context, input *NewInventoryAdjustment) (*InventoryAdjustment, error) {
	if input.Quantity.IsZero() {
		return nil, errors.New("quantity cannot be zero")
	}
	if err := utils.ValidateResourceId[Product](ctx, input.ProductId); err != nil {
		return nil, errors.New("product not found")
	}

	reason := input.Reason
	if reason == "" {
		reason = AdjustmentReasonCorrection
	}

	adjustment := InventoryAdjustment{
		ProductId: input.ProductId,
		Quantity:  input.Quantity,
		Reason:    reason,
		Notes:     input.Notes,
		CreatedBy: createdByFromContext(ctx),
	}

	lock := obtainStockLock(ctx)
	defer releaseStockLock(ctx, lock)

	db := config.GetDB()
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := applyStockDelta(tx, ctx, input.ProductId, input.Quantity); err != nil {
			return err
		}
		return tx.WithContext(ctx).Create(&adjustment).Error
	})
	if err != nil {
		return nil, err
	}
	return utils.FetchModel[InventoryAdjustment](ctx, adjustment.ID, "Product")
}

func createdByFromContext(ctx context.Context) int {
	userId, _ := utils.GetUserIdFromContext(ctx)
	return userId
}

func ListInventoryAdjustments(ctx context.Context, productId int) ([]*InventoryAdjustment, error) {
	db := config.GetDB()
	dbCtx := db.WithContext(ctx).Model(&InventoryAdjustment{}).
		Preload("Product").Order("id DESC")
	if productId != 0 {
		dbCtx = dbCtx.Where("product_id = ?", productId)
	}
	var adjustments []*InventoryAdjustment
	if err := dbCtx.Find(&adjustments).Error; err != nil {
		return nil, err
	}
	return adjustments, nil
}
