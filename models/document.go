package models

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/vyaparlabs/gstbooks_backend/config"
	"github.com/vyaparlabs/gstbooks_backend/utils"
)

// Document is the metadata record for an uploaded file. The bytes live on
// local disk or in GCS depending on the configured storage provider.
type Document struct {
	ID            int       `gorm:"primary_key" json:"id"`
	Name          string    `gorm:"size:255;not null" json:"name"`
	Category      string    `gorm:"size:64;index" json:"category"`
	ContentType   string    `gorm:"size:128" json:"content_type"`
	Size          int64     `json:"size"`
	StoragePath   string    `gorm:"size:512;not null" json:"-"`
	ThumbnailPath string    `gorm:"size:512" json:"-"`
	Url           string    `gorm:"size:1024" json:"url"`
	ThumbnailUrl  string    `gorm:"size:1024" json:"thumbnail_url"`
	Provider      string    `gorm:"size:16;not null" json:"provider"`
	UploadedBy    int       `json:"uploaded_by"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func CreateDocument(ctx context.Context, document *Document) (*Document, error) {
	db := config.GetDB()
	if err := db.WithContext(ctx).Create(document).Error; err != nil {
		return nil, err
	}
	return document, nil
}

// SetDocumentUrls fills the serve URLs once the record id is known; the
// local provider's links route back through the download endpoint.
func SetDocumentUrls(ctx context.Context, id int, url string, thumbnailUrl string) (*Document, error) {
	db := config.GetDB()
	err := db.WithContext(ctx).Model(&Document{ID: id}).Updates(map[string]interface{}{
		"Url":          url,
		"ThumbnailUrl": thumbnailUrl,
	}).Error
	if err != nil {
		return nil, err
	}
	return GetDocument(ctx, id)
}

func GetDocument(ctx context.Context, id int) (*Document, error) {
	return utils.FetchModel[Document](ctx, id)
}

func ListDocuments(ctx context.Context, category string, search string) ([]*Document, error) {
	db := config.GetDB()
	dbCtx := db.WithContext(ctx).Model(&Document{}).Order("id DESC")
	if category != "" {
		dbCtx = dbCtx.Where("category = ?", category)
	}
	if search != "" {
		dbCtx = dbCtx.Where("name LIKE ?", "%"+search+"%")
	}
	var documents []*Document
	if err := dbCtx.Find(&documents).Error; err != nil {
		return nil, err
	}
	return documents, nil
}

// DeleteDocument removes the record first, then best-effort deletes the
// stored bytes. An orphaned blob is preferable to a record pointing at a
// missing file.
func DeleteDocument(ctx context.Context, id int) (*Document, error) {
	result, err := utils.FetchModel[Document](ctx, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Delete(&result).Error; err != nil {
		return nil, err
	}

	logger := config.GetLogger()
	paths := []string{result.StoragePath}
	if result.ThumbnailPath != "" {
		paths = append(paths, result.ThumbnailPath)
	}
	for _, path := range paths {
		var err error
		if result.Provider == utils.StorageProviderGCS {
			err = utils.DeleteObjectFromGCS(ctx, path)
		} else {
			err = os.Remove(filepath.Clean(path))
		}
		if err != nil && !os.IsNotExist(err) {
			logger.WithFields(logrus.Fields{
				"field": "DeleteDocument",
				"path":  path,
			}).Warn("failed to delete stored file: " + err.Error())
		}
	}
	return result, nil
}
