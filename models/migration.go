package models

import (
	"github.com/sirupsen/logrus"

	"github.com/vyaparlabs/gstbooks_backend/config"
)

// MigrateTable runs AutoMigrate for every collection.
// AutoMigrate can run DDL that blocks tables; startup allows skipping it
// via SKIP_MIGRATIONS (run as a separate job instead).
func MigrateTable() {
	db := config.GetDB()
	logger := config.GetLogger()

	err := db.AutoMigrate(
		&User{},
		&Settings{},
		&Client{},
		&Supplier{},
		&Product{},
		&InventoryAdjustment{},
		&Sale{},
		&SaleItem{},
		&Purchase{},
		&PurchaseItem{},
		&Expense{},
		&Document{},
		&GstFiling{},
	)
	if err != nil {
		logger.WithFields(logrus.Fields{
			"field": "migration",
		}).Panic(err.Error())
	}
}
