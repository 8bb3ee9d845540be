package handlers

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/vyaparlabs/gstbooks_backend/config"
	"github.com/vyaparlabs/gstbooks_backend/models"
	"github.com/vyaparlabs/gstbooks_backend/utils"
)

const maxUploadSizeBytes int64 = 5 * 1024 * 1024

var imageMimeTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
}

var attachmentMimeTypes = map[string]bool{
	"application/pdf":          true,
	"application/msword":       true,
	"application/vnd.ms-excel": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":       true,
	"image/jpeg": true,
	"image/png":  true,
}

// UploadDocumentHandler accepts a multipart file and stores it on the
// configured provider. Images additionally get a 200px JPEG thumbnail.
func UploadDocumentHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		fileHeader, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
			return
		}
		if fileHeader.Size > maxUploadSizeBytes {
			c.JSON(http.StatusBadRequest, gin.H{"error": "file size exceeds 5MB limit"})
			return
		}

		contentType := fileHeader.Header.Get("Content-Type")
		if !attachmentMimeTypes[contentType] {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported file type"})
			return
		}

		src, err := fileHeader.Open()
		if err != nil {
			respondInternalError(c, "documentController.go", "UploadDocumentHandler", err)
			return
		}
		defer src.Close()

		data, err := io.ReadAll(io.LimitReader(src, maxUploadSizeBytes+1))
		if err != nil {
			respondInternalError(c, "documentController.go", "UploadDocumentHandler", err)
			return
		}
		if int64(len(data)) > maxUploadSizeBytes {
			c.JSON(http.StatusBadRequest, gin.H{"error": "file size exceeds 5MB limit"})
			return
		}

		ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
		category := c.PostForm("category")
		if category == "" {
			category = "general"
		}
		objectKey := path.Join("documents", category, uuid.New().String()+ext)

		provider := utils.GetStorageProvider()
		document := models.Document{
			Name:        fileHeader.Filename,
			Category:    category,
			ContentType: contentType,
			Size:        int64(len(data)),
			Provider:    provider,
		}
		if userId, ok := utils.GetUserIdFromContext(ctx); ok {
			document.UploadedBy = userId
		}

		if provider == utils.StorageProviderGCS {
			url, err := utils.SaveObjectToGCS(ctx, objectKey, contentType, bytes.NewReader(data))
			if err != nil {
				respondInternalError(c, "documentController.go", "UploadDocumentHandler", err)
				return
			}
			document.StoragePath = objectKey
			document.Url = url
		} else {
			diskPath, err := saveToDisk(objectKey, data)
			if err != nil {
				respondInternalError(c, "documentController.go", "UploadDocumentHandler", err)
				return
			}
			document.StoragePath = diskPath
		}

		if imageMimeTypes[contentType] {
			thumbPath, thumbUrl, err := createThumbnail(ctx, provider, objectKey, data)
			if err != nil {
				// thumbnail failure must not lose the upload
				logger := config.GetLogger()
				logger.WithFields(logrus.Fields{
					"field": "UploadDocumentHandler",
				}).Warn("failed to generate thumbnail: " + err.Error())
			} else {
				document.ThumbnailPath = thumbPath
				document.ThumbnailUrl = thumbUrl
			}
		}

		created, err := models.CreateDocument(ctx, &document)
		if err != nil {
			respondInternalError(c, "documentController.go", "UploadDocumentHandler", err)
			return
		}

		// Local links need the record id, so they are filled in after the
		// insert.
		if provider != utils.StorageProviderGCS {
			thumbUrl := ""
			if created.ThumbnailPath != "" {
				thumbUrl = documentDownloadUrl(created.ID, true)
			}
			created, err = models.SetDocumentUrls(ctx, created.ID, documentDownloadUrl(created.ID, false), thumbUrl)
			if err != nil {
				respondInternalError(c, "documentController.go", "UploadDocumentHandler", err)
				return
			}
		}
		c.JSON(http.StatusCreated, created)
	}
}

func saveToDisk(objectKey string, data []byte) (string, error) {
	diskPath := filepath.Join(utils.GetUploadDir(), filepath.FromSlash(objectKey))
	if err := os.MkdirAll(filepath.Dir(diskPath), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(diskPath, data, 0o644); err != nil {
		return "", err
	}
	return diskPath, nil
}

func createThumbnail(ctx context.Context, provider string, objectKey string, data []byte) (string, string, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return "", "", err
	}
	thumbnail := imaging.Resize(img, 200, 0, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumbnail, imaging.JPEG); err != nil {
		return "", "", err
	}

	thumbKey := thumbnailObjectKey(objectKey)
	if provider == utils.StorageProviderGCS {
		url, err := utils.SaveObjectToGCS(ctx, thumbKey, "image/jpeg", bytes.NewReader(buf.Bytes()))
		if err != nil {
			return "", "", err
		}
		return thumbKey, url, nil
	}

	diskPath, err := saveToDisk(thumbKey, buf.Bytes())
	if err != nil {
		return "", "", err
	}
	return diskPath, "", nil
}

// documentDownloadUrl builds the link matching the registered download
// route.
func documentDownloadUrl(id int, thumbnail bool) string {
	url := fmt.Sprintf("/api/documents/%d/download", id)
	if thumbnail {
		url += "?thumbnail=true"
	}
	return url
}

func thumbnailObjectKey(objectKey string) string {
	dir := path.Dir(objectKey)
	filename := path.Base(objectKey)
	return path.Join(dir, "thumbnails", filename)
}

func ListDocumentsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		documents, err := models.ListDocuments(c.Request.Context(), c.Query("category"), c.Query("search"))
		if err != nil {
			respondInternalError(c, "documentController.go", "ListDocumentsHandler", err)
			return
		}
		c.JSON(http.StatusOK, documents)
	}
}

func DeleteDocumentHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramId(c)
		if !ok {
			return
		}
		document, err := models.DeleteDocument(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, document)
	}
}

// DownloadDocumentHandler streams locally stored files and redirects to the
// public URL for GCS-backed ones.
func DownloadDocumentHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramId(c)
		if !ok {
			return
		}
		document, err := models.GetDocument(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}

		wantThumbnail := c.Query("thumbnail") == "true"
		if wantThumbnail && document.ThumbnailPath == "" && document.ThumbnailUrl == "" {
			c.JSON(http.StatusNotFound, gin.H{"error": "document has no thumbnail"})
			return
		}

		if document.Provider == utils.StorageProviderGCS {
			if wantThumbnail {
				c.Redirect(http.StatusFound, document.ThumbnailUrl)
				return
			}
			c.Redirect(http.StatusFound, document.Url)
			return
		}

		if wantThumbnail {
			c.File(document.ThumbnailPath)
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", document.Name))
		c.File(document.StoragePath)
	}
}
