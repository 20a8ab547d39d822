// Package media handles article cover uploads.
package media

import (
	"errors"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log"
	"mime/multipart"
	"strings"

	"github.com/Kyz7/lingopress/internal/middleware"
	"github.com/Kyz7/lingopress/internal/models"
	"github.com/Kyz7/lingopress/internal/response"
	"github.com/Kyz7/lingopress/internal/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

const maxImageSize = 10 * 1024 * 1024

type Handler struct {
	db      *gorm.DB
	storage *utils.Storage
}

func NewHandler(db *gorm.DB, storage *utils.Storage) *Handler {
	return &Handler{db: db, storage: storage}
}

// Upload stores an image and records it. When articleId is given the image
// becomes that article's cover.
func (h *Handler) Upload(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return response.BadRequest(c, "File is required", nil)
	}
	contentType := file.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return response.BadRequest(c, "Only images can be uploaded", map[string]string{"type": contentType})
	}
	if file.Size > maxImageSize {
		return response.BadRequest(c, "File too large", map[string]interface{}{
			"max_size_mb":  maxImageSize / (1024 * 1024),
			"file_size_mb": file.Size / (1024 * 1024),
		})
	}

	articleID := c.FormValue("articleId")
	if articleID != "" {
		var count int64
		if err := h.db.WithContext(c.UserContext()).Model(&models.Article{}).Where("id = ?", articleID).Count(&count).Error; err != nil {
			return response.InternalError(c, "Failed to look up article")
		}
		if count == 0 {
			return response.NotFound(c, "Article")
		}
	}

	width, height, err := imageDimensions(file)
	if err != nil {
		return response.BadRequest(c, "File is not a readable image", map[string]string{"type": contentType})
	}

	url, err := h.storage.Upload(file)
	if err != nil {
		log.Printf("❌ Upload failed: %v", err)
		return response.InternalError(c, "Failed to upload file")
	}

	media := models.MediaFile{
		FileName:   file.Filename,
		URL:        url,
		Type:       contentType,
		Size:       file.Size,
		Alt:        utils.SanitizeText(c.FormValue("alt")),
		Width:      &width,
		Height:     &height,
		UploadedBy: string(middleware.RoleFromCtx(c)),
	}

	err = h.db.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&media).Error; err != nil {
			return err
		}
		if articleID == "" {
			return nil
		}
		return tx.Model(&models.Article{}).Where("id = ?", articleID).Update("cover_url", url).Error
	})
	if err != nil {
		if delErr := h.storage.Delete(url); delErr != nil {
			log.Printf("⚠️  Orphaned upload %s: %v", url, delErr)
		}
		return response.InternalError(c, "Failed to save media metadata")
	}

	return response.Created(c, media, "Media uploaded successfully")
}

func (h *Handler) List(c *fiber.Ctx) error {
	var files []models.MediaFile
	if err := h.db.WithContext(c.UserContext()).Order("created_at DESC").Find(&files).Error; err != nil {
		return response.InternalError(c, "Failed to fetch media")
	}
	return response.Success(c, files, "")
}

func (h *Handler) Delete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return response.BadRequest(c, "Invalid media ID", nil)
	}

	var media models.MediaFile
	err = h.db.WithContext(c.UserContext()).First(&media, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return response.NotFound(c, "Media")
	}
	if err != nil {
		return response.InternalError(c, "Failed to fetch media")
	}

	if err := h.db.WithContext(c.UserContext()).Delete(&media).Error; err != nil {
		return response.InternalError(c, "Failed to delete media")
	}
	if err := h.storage.Delete(media.URL); err != nil {
		log.Printf("⚠️  Media %d deleted but %s remains in storage: %v", media.ID, media.URL, err)
		c.Append("X-Warning", "File deleted from database but may still exist in storage")
	}
	return response.NoContent(c)
}

func imageDimensions(file *multipart.FileHeader) (int, int, error) {
	src, err := file.Open()
	if err != nil {
		return 0, 0, err
	}
	defer src.Close()

	img, _, err := image.DecodeConfig(src)
	if err != nil {
		return 0, 0, err
	}
	return img.Width, img.Height, nil
}
