package models

import (
	"context"
	"errors"
	"strings"

	"github.com/vyaparlabs/gstbooks_backend/config"
)

type SearchResult struct {
	Clients   []*Client   `json:"clients"`
	Suppliers []*Supplier `json:"suppliers"`
	Products  []*Product  `json:"products"`
	Sales     []*Sale     `json:"sales"`
}

// GlobalSearch runs the quick-search box: names and GSTINs for parties,
// name/SKU for products, invoice number for sales. Each bucket is capped
// so the response stays small.
func GlobalSearch(ctx context.Context, query string) (*SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.New("search query is required")
	}
	like := "%" + query + "%"

	db := config.GetDB()
	result := SearchResult{}

	err := db.WithContext(ctx).Model(&Client{}).
		Where("name LIKE ? OR gstin LIKE ?", like, like).
		Limit(config.SearchLimit).Find(&result.Clients).Error
	if err != nil {
		return nil, err
	}
	err = db.WithContext(ctx).Model(&Supplier{}).
		Where("name LIKE ? OR gstin LIKE ?", like, like).
		Limit(config.SearchLimit).Find(&result.Suppliers).Error
	if err != nil {
		return nil, err
	}
	err = db.WithContext(ctx).Model(&Product{}).
		Where("name LIKE ? OR sku LIKE ?", like, like).
		Limit(config.SearchLimit).Find(&result.Products).Error
	if err != nil {
		return nil, err
	}
	err = db.WithContext(ctx).Model(&Sale{}).
		Where("invoice_number LIKE ? OR customer_name LIKE ?", like, like).
		Limit(config.SearchLimit).Find(&result.Sales).Error
	if err != nil {
		return nil, err
	}
	return &result, nil
}
