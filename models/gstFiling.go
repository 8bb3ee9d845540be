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

// GstFiling is the reconciled monthly snapshot used to track return filing.
// Recalculating refreshes the amounts but never demotes a Filed period back
// to Pending.
type GstFiling struct {
	ID             int             `gorm:"primary_key" json:"id"`
	Month          int             `gorm:"not null;uniqueIndex:idx_filing_period" json:"month"`
	Year           int             `gorm:"not null;uniqueIndex:idx_filing_period" json:"year"`
	TotalSales     decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"total_sales"`
	TotalPurchases decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"total_purchases"`
	CgstCollected  decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"cgst_collected"`
	SgstCollected  decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"sgst_collected"`
	IgstCollected  decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"igst_collected"`
	CgstPaid       decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"cgst_paid"`
	SgstPaid       decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"sgst_paid"`
	IgstPaid       decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"igst_paid"`
	GstPayable     decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"gst_payable"`
	Status         FilingStatus    `gorm:"type:enum('Pending','Filed');default:'Pending'" json:"status"`
	FiledAt        *time.Time      `json:"filed_at"`
	CreatedAt      time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

// periodTaxTotals aggregates one month of invoices into the three GST
// buckets, splitting each invoice's tax by the intra/inter-state rule.
type periodTaxTotals struct {
	totalSales     decimal.Decimal
	totalPurchases decimal.Decimal
	collected      utils.TaxSplit
	paid           utils.TaxSplit
}

func calculatePeriodTax(ctx context.Context, month, year int) (*periodTaxTotals, error) {
	start, end, err := MonthRange(month, year)
	if err != nil {
		return nil, err
	}
	companyState, err := GetCompanyState(ctx)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	var sales []*Sale
	err = db.WithContext(ctx).Model(&Sale{}).
		Where("invoice_date BETWEEN ? AND ?", start, end).
		Find(&sales).Error
	if err != nil {
		return nil, err
	}
	var purchases []*Purchase
	err = db.WithContext(ctx).Model(&Purchase{}).
		Where("bill_date BETWEEN ? AND ?", start, end).
		Find(&purchases).Error
	if err != nil {
		return nil, err
	}

	totals := periodTaxTotals{}
	for _, sale := range sales {
		totals.totalSales = totals.totalSales.Add(sale.TotalAmount)
		totals.collected = totals.collected.Add(
			utils.SplitTax(companyState, sale.CustomerState, sale.TaxTotal))
	}
	for _, purchase := range purchases {
		totals.totalPurchases = totals.totalPurchases.Add(purchase.TotalAmount)
		if !utils.DereferencePtr(purchase.ItcEligible) {
			continue
		}
		totals.paid = totals.paid.Add(
			utils.SplitTax(companyState, purchase.SupplierState, purchase.TaxTotal))
	}
	return &totals, nil
}

// payableFor nets the period's input credit against collections. A credit
// surplus goes negative, which closes the filing as nothing is owed. The
// per-bucket floor applies only to the GSTR-3B presentation.
func payableFor(collected, paid utils.TaxSplit) decimal.Decimal {
	return collected.Total().Sub(paid.Total())
}

// CalculateFiling recomputes the snapshot for a period and upserts it.
// The Filed status is sticky: a recalculation updates amounts only.
func CalculateFiling(ctx context.Context, month, year int) (*GstFiling, error) {
	totals, err := calculatePeriodTax(ctx, month, year)
	if err != nil {
		return nil, err
	}

	filing := GstFiling{
		Month:          month,
		Year:           year,
		TotalSales:     totals.totalSales,
		TotalPurchases: totals.totalPurchases,
		CgstCollected:  totals.collected.Cgst,
		SgstCollected:  totals.collected.Sgst,
		IgstCollected:  totals.collected.Igst,
		CgstPaid:       totals.paid.Cgst,
		SgstPaid:       totals.paid.Sgst,
		IgstPaid:       totals.paid.Igst,
		GstPayable:     payableFor(totals.collected, totals.paid),
	}
	// nothing owed means nothing left to file for the period
	if filing.GstPayable.IsPositive() {
		filing.Status = FilingStatusPending
	} else {
		filing.Status = FilingStatusFiled
	}

	db := config.GetDB()
	var existing GstFiling
	err = db.WithContext(ctx).
		Where("month = ? AND year = ?", month, year).
		First(&existing).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		if err := db.WithContext(ctx).Create(&filing).Error; err != nil {
			return nil, err
		}
		return &filing, nil
	}

	// a period once marked Filed stays Filed
	if existing.Status == FilingStatusFiled {
		filing.Status = FilingStatusFiled
	}
	err = db.WithContext(ctx).Model(&GstFiling{ID: existing.ID}).Updates(map[string]interface{}{
		"TotalSales":     filing.TotalSales,
		"TotalPurchases": filing.TotalPurchases,
		"CgstCollected":  filing.CgstCollected,
		"SgstCollected":  filing.SgstCollected,
		"IgstCollected":  filing.IgstCollected,
		"CgstPaid":       filing.CgstPaid,
		"SgstPaid":       filing.SgstPaid,
		"IgstPaid":       filing.IgstPaid,
		"GstPayable":     filing.GstPayable,
		"Status":         filing.Status,
	}).Error
	if err != nil {
		return nil, err
	}
	return GetFiling(ctx, month, year)
}

// MarkFiled promotes a period to Filed. The transition is one-way.
func MarkFiled(ctx context.Context, id int) (*GstFiling, error) {
	filing, err := utils.FetchModel[GstFiling](ctx, id)
	if err != nil {
		return nil, err
	}
	if filing.Status == FilingStatusFiled {
		return filing, nil
	}

	now := time.Now()
	db := config.GetDB()
	err = db.WithContext(ctx).Model(&GstFiling{ID: filing.ID}).Updates(map[string]interface{}{
		"Status":  FilingStatusFiled,
		"FiledAt": &now,
	}).Error
	if err != nil {
		return nil, err
	}
	filing.Status = FilingStatusFiled
	filing.FiledAt = &now
	return filing, nil
}

func GetFiling(ctx context.Context, month, year int) (*GstFiling, error) {
	if _, _, err := MonthRange(month, year); err != nil {
		return nil, err
	}

	db := config.GetDB()
	var filing GstFiling
	err := db.WithContext(ctx).
		Where("month = ? AND year = ?", month, year).
		First(&filing).Error
	if err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	return &filing, nil
}

func ListFilings(ctx context.Context, year int) ([]*GstFiling, error) {
	db := config.GetDB()
	dbCtx := db.WithContext(ctx).Model(&GstFiling{}).
		Order("year DESC, month DESC")
	if year != 0 {
		dbCtx = dbCtx.Where("year = ?", year)
	}
	var filings []*GstFiling
	if err := dbCtx.Find(&filings).Error; err != nil {
		return nil, err
	}
	return filings, nil
}

// DeleteFiling exists for cleaning up mistaken periods; Filed snapshots are
// immutable and cannot be deleted.
func DeleteFiling(ctx context.Context, id int) (*GstFiling, error) {
	result, err := utils.FetchModel[GstFiling](ctx, id)
	if err != nil {
		return nil, err
	}
	if result.Status == FilingStatusFiled {
		return nil, errors.New("filed periods cannot be deleted")
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Delete(&result).Error; err != nil {
		return nil, err
	}
	return result, nil
}
