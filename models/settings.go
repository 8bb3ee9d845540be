package models

import (
	"context"
	"errors"
	"time"

	"github.com/vyaparlabs/gstbooks_backend/config"
	"github.com/vyaparlabs/gstbooks_backend/utils"
)

// Settings is the singleton company profile. It is lazily created with
// defaults on first read so fresh installs work without a setup step.
type Settings struct {
	ID              int       `gorm:"primary_key" json:"id"`
	CompanyName     string    `gorm:"size:255;not null" json:"company_name"`
	Address         string    `gorm:"type:text" json:"address"`
	State           string    `gorm:"size:64;not null" json:"state"`
	Gstin           string    `gorm:"size:20" json:"gstin"`
	Phone           string    `gorm:"size:20" json:"phone"`
	Email           string    `gorm:"size:100" json:"email"`
	BankName        string    `gorm:"size:255" json:"bank_name"`
	BankAccountNo   string    `gorm:"size:34" json:"bank_account_no"`
	BankIfsc        string    `gorm:"size:11" json:"bank_ifsc"`
	InvoiceTerms    string    `gorm:"type:text" json:"invoice_terms"`
	InvoicePrefix   string    `gorm:"size:16;not null;default:'INV-'" json:"invoice_prefix"`
	DigitalTurnover *bool     `gorm:"not null;default:false" json:"digital_turnover"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type UpdateSettingsInput struct {
	CompanyName     string `json:"company_name" binding:"required"`
	Address         string `json:"address"`
	State           string `json:"state" binding:"required"`
	Gstin           string `json:"gstin" binding:"omitempty,gstin"`
	Phone           string `json:"phone"`
	Email           string `json:"email"`
	BankName        string `json:"bank_name"`
	BankAccountNo   string `json:"bank_account_no"`
	BankIfsc        string `json:"bank_ifsc"`
	InvoiceTerms    string `json:"invoice_terms"`
	InvoicePrefix   string `json:"invoice_prefix"`
	DigitalTurnover *bool  `json:"digital_turnover"`
}

/*
caches:
	Settings
*/

const settingsCacheKey = "Settings"

func defaultSettings() Settings {
	return Settings{
		ID:            1,
		CompanyName:   "My Company",
		State:         "Rajasthan",
		InvoicePrefix: "INV-",
		DigitalTurnover: utils.Ptr(false),
	}
}

// GetSettings returns the singleton profile, creating it with defaults if missing.
func GetSettings(ctx context.Context) (*Settings, error) {
	var settings Settings
	exists, err := config.GetRedisObject(settingsCacheKey, &settings)
	if err != nil {
		return nil, err
	}
	if exists {
		return &settings, nil
	}

	db := config.GetDB()
	settings = defaultSettings()
	if err := db.WithContext(ctx).Where(Settings{ID: 1}).FirstOrCreate(&settings).Error; err != nil {
		return nil, err
	}
	if err := config.SetRedisObject(settingsCacheKey, &settings, 0); err != nil {
		return nil, err
	}
	return &settings, nil
}

func UpdateSettings(ctx context.Context, input *UpdateSettingsInput) (*Settings, error) {
	if input.Gstin != "" && !IsValidGstin(input.Gstin) {
		return nil, errors.New("invalid gstin")
	}

	settings, err := GetSettings(ctx)
	if err != nil {
		return nil, err
	}

	prefix := input.InvoicePrefix
	if prefix == "" {
		prefix = settings.InvoicePrefix
	}
	digital := settings.DigitalTurnover
	if input.DigitalTurnover != nil {
		digital = input.DigitalTurnover
	}

	db := config.GetDB()
	err = db.WithContext(ctx).Model(&settings).Updates(map[string]interface{}{
		"CompanyName":     input.CompanyName,
		"Address":         input.Address,
		"State":           input.State,
		"Gstin":           input.Gstin,
		"Phone":           utils.NormalizePhone(input.Phone),
		"Email":           input.Email,
		"BankName":        input.BankName,
		"BankAccountNo":   input.BankAccountNo,
		"BankIfsc":        input.BankIfsc,
		"InvoiceTerms":    input.InvoiceTerms,
		"InvoicePrefix":   prefix,
		"DigitalTurnover": digital,
	}).Error
	if err != nil {
		return nil, err
	}

	if err := config.RemoveRedisKey(settingsCacheKey); err != nil {
		return nil, err
	}
	return GetSettings(ctx)
}

// GetCompanyState is the one fallback point for the intra/inter-state rule.
func GetCompanyState(ctx context.Context) (string, error) {
	settings, err := GetSettings(ctx)
	if err != nil {
		return "", err
	}
	return settings.State, nil
}
