package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/vyaparlabs/gstbooks_backend/config"
	"github.com/vyaparlabs/gstbooks_backend/utils"
)

type Product struct {
	ID                int             `gorm:"primary_key" json:"id"`
	Name              string          `gorm:"size:255;not null;index" json:"name" binding:"required"`
	Sku               string          `gorm:"size:64;index" json:"sku"`
	HsnCode           string          `gorm:"size:16;index" json:"hsn_code"`
	Unit              string          `gorm:"size:32;default:'pcs'" json:"unit"`
	Price             decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"price"`
	TaxPercent        decimal.Decimal `gorm:"type:decimal(5,2);default:0" json:"tax_percent"`
	Stock             decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"stock"`
	LowStockThreshold decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"low_stock_threshold"`
	CreatedAt         time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewProduct struct {
	Name              string          `json:"name" binding:"required"`
	Sku               string          `json:"sku"`
	HsnCode           string          `json:"hsn_code"`
	Unit              string          `json:"unit"`
	Price             decimal.Decimal `json:"price"`
	TaxPercent        decimal.Decimal `json:"tax_percent"`
	Stock             decimal.Decimal `json:"stock"`
	LowStockThreshold decimal.Decimal `json:"low_stock_threshold"`
}

func (input *NewProduct) validate(ctx context.Context, exceptId int) error {
	if input.Price.IsNegative() {
		return errors.New("price cannot be negative")
	}
	if input.TaxPercent.IsNegative() || input.TaxPercent.GreaterThan(decimal.NewFromInt(100)) {
		return errors.New("tax percent must be between 0 and 100")
	}
	if input.Sku != "" {
		if err := utils.ValidateUnique[Product](ctx, "sku", input.Sku, exceptId); err != nil {
			return err
		}
	}
	return nil
}

func CreateProduct(ctx context.Context, input *NewProduct) (*Product, error) {
	if err := input.validate(ctx, 0); err != nil {
		return nil, err
	}
	if input.Stock.IsNegative() {
		return nil, errors.New("stock cannot be negative")
	}

	unit := input.Unit
	if unit == "" {
		unit = "pcs"
	}
	product := Product{
		Name:              input.Name,
		Sku:               input.Sku,
		HsnCode:           input.HsnCode,
		Unit:              unit,
		Price:             input.Price,
		TaxPercent:        input.TaxPercent,
		Stock:             input.Stock,
		LowStockThreshold: input.LowStockThreshold,
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// UpdateProduct never touches stock; stock moves only through sales,
// purchases and explicit adjustments.
func UpdateProduct(ctx context.Context, id int, input *NewProduct) (*Product, error) {
	if _, err := utils.FetchModel[Product](ctx, id); err != nil {
		return nil, err
	}
	if err := input.validate(ctx, id); err != nil {
		return nil, err
	}

	unit := input.Unit
	if unit == "" {
		unit = "pcs"
	}
	update := Product{ID: id}
	db := config.GetDB()
	err := db.WithContext(ctx).Model(&update).Updates(map[string]interface{}{
		"Name":              input.Name,
		"Sku":               input.Sku,
		"HsnCode":           input.HsnCode,
		"Unit":              unit,
		"Price":             input.Price,
		"TaxPercent":        input.TaxPercent,
		"LowStockThreshold": input.LowStockThreshold,
	}).Error
	if err != nil {
		return nil, err
	}
	return utils.FetchModel[Product](ctx, id)
}

func DeleteProduct(ctx context.Context, id int) (*Product, error) {
	result, err := utils.FetchModel[Product](ctx, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Delete(&result).Error; err != nil {
		return nil, err
	}
	return result, nil
}

func GetProduct(ctx context.Context, id int) (*Product, error) {
	return utils.FetchModel[Product](ctx, id)
}

func ListProducts(ctx context.Context, search string) ([]*Product, error) {
	db := config.GetDB()
	dbCtx := db.WithContext(ctx).Model(&Product{}).Order("name ASC")
	if search != "" {
		dbCtx = dbCtx.Where("name LIKE ? OR sku LIKE ? OR hsn_code LIKE ?",
			"%"+search+"%", "%"+search+"%", "%"+search+"%")
	}
	var products []*Product
	if err := dbCtx.Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

/* stock posting */

// applyStockDelta mutates product stock inside the caller's transaction,
// guarded by a FOR UPDATE row lock so concurrent postings serialize on the
// product row instead of racing a read-modify-write.
func applyStockDelta(tx *gorm.DB, ctx context.Context, productId int, delta decimal.Decimal) error {
	var product Product
	if err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&product, productId).Error; err != nil {
		return fmt.Errorf("product %d not found", productId)
	}

	newStock := product.Stock.Add(delta)
	if newStock.IsNegative() {
		return fmt.Errorf("insufficient stock for %q (on hand %s, requested %s)",
			product.Name, product.Stock.String(), delta.Neg().String())
	}

	return tx.WithContext(ctx).Model(&Product{ID: productId}).
		Update("stock", newStock).Error
}

// obtainStockLock is a best-effort optimization.
// Reliability must not depend on Redis: postings also serialize via the
// FOR UPDATE row locks in applyStockDelta.
func obtainStockLock(ctx context.Context) *redislock.Lock {
	logger := config.GetLogger()
	redisLock := config.GetRedisLock()
	if redisLock == nil {
		return nil
	}
	lock, err := redisLock.Obtain(ctx, "lock:stock-posting", 10*time.Second, nil)
	if err == redislock.ErrNotObtained {
		logger.WithFields(logrus.Fields{
			"field": "obtainStockLock",
		}).Warn("could not obtain redis lock; proceeding with row locks only")
		return nil
	} else if err != nil {
		logger.WithFields(logrus.Fields{
			"field": "obtainStockLock",
		}).Warn("error obtaining redis lock; proceeding with row locks only: " + err.Error())
		return nil
	}
	return lock
}

func releaseStockLock(ctx context.Context, lock *redislock.Lock) {
	if lock == nil {
		return
	}
	if err := lock.Release(ctx); err != nil {
		logger := config.GetLogger()
		logger.WithFields(logrus.Fields{
			"field": "releaseStockLock",
		}).Warn("failed to release redis lock: " + err.Error())
	}
}
