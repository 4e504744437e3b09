package controllers

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/voloskyi/saffron-shop/models"
	"github.com/voloskyi/saffron-shop/utils"
)

const maxDocumentBytes = 10 << 20

// DocumentController serves downloadable files (certificates, spec sheets).
type DocumentController struct {
	db *gorm.DB
}

// NewDocumentController creates a DocumentController.
func NewDocumentController(db *gorm.DB) *DocumentController {
	return &DocumentController{db: db}
}

// List returns document metadata without file bytes.
func (d *DocumentController) List(ctx *gin.Context) {
	var docs []models.Document
	if err := d.db.Select("id", "title", "description", "file_name", "file_mimetype", "uploaded_at").
		Order("uploaded_at DESC").Find(&docs).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50030, "failed to retrieve documents")
		return
	}
	utils.Success(ctx, docs)
}

// Download streams a stored file as an attachment.
func (d *DocumentController) Download(ctx *gin.Context) {
	var doc models.Document
	if err := d.db.First(&doc, ctx.Param("id")).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40430, "document not found")
		return
	}

	ctx.Header("Content-Disposition", `attachment; filename="`+doc.FileName+`"`)
	ctx.Data(http.StatusOK, doc.FileMimetype, doc.FileData)
}

// Upload stores a new document from a multipart form.
func (d *DocumentController) Upload(ctx *gin.Context) {
	file, header, err := ctx.Request.FormFile("file")
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40040, "a file upload is required")
		return
	}
	defer file.Close()

	if header.Size > maxDocumentBytes {
		utils.Error(ctx, http.StatusBadRequest, 40041, "file exceeds the 10MB limit")
		return
	}
	data, err := io.ReadAll(io.LimitReader(file, maxDocumentBytes+1))
	if err != nil || len(data) > maxDocumentBytes {
		utils.Error(ctx, http.StatusBadRequest, 40041, "file exceeds the 10MB limit")
		return
	}

	title, _ := formValue(ctx, "title")
	if strings.TrimSpace(title) == "" {
		title = header.Filename
	}
	description, _ := formValue(ctx, "description")

	mimetype := header.Header.Get("Content-Type")
	if mimetype == "" {
		mimetype = "application/octet-stream"
	}

	doc := models.Document{
		Title:        strings.TrimSpace(title),
		Description:  strings.TrimSpace(description),
		FileName:     header.Filename,
		FileMimetype: mimetype,
		FileData:     data,
	}
	if err := d.db.Create(&doc).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50031, "failed to store document")
		return
	}

	utils.Success(ctx, gin.H{
		"id":            doc.ID,
		"title":         doc.Title,
		"file_name":     doc.FileName,
		"file_mimetype": doc.FileMimetype,
		"uploaded_at":   doc.UploadedAt,
	})
}

// Delete removes a document.
func (d *DocumentController) Delete(ctx *gin.Context) {
	var doc models.Document
	if err := d.db.First(&doc, ctx.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40430, "document not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50032, "failed to load document")
		return
	}

	if err := d.db.Delete(&doc).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50033, "failed to delete document")
		return
	}

	utils.Success(ctx, gin.H{"message": "document deleted"})
}
