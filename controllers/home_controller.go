package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/voloskyi/saffron-shop/models"
	"github.com/voloskyi/saffron-shop/utils"
)

// HomeController aggregates the landing page payload.
type HomeController struct {
	db *gorm.DB
}

// NewHomeController creates a HomeController.
func NewHomeController(db *gorm.DB) *HomeController {
	return &HomeController{db: db}
}

// Index returns the three newest posts and four newest available products.
func (h *HomeController) Index(ctx *gin.Context) {
	var posts []models.BlogPost
	if err := h.db.Select("id", "title", "content", "image_mimetype", "created_at").
		Order("created_at DESC, id DESC").Limit(3).Find(&posts).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50050, "failed to load posts")
		return
	}

	var products []models.Product
	if err := h.db.Where("is_available = ?", true).
		Order("created_at DESC").Limit(4).Find(&products).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50051, "failed to load products")
		return
	}

	postItems := make([]gin.H, 0, len(posts))
	for i := range posts {
		postItems = append(postItems, gin.H{
			"id":         posts[i].ID,
			"title":      posts[i].Title,
			"excerpt":    utils.Excerpt(posts[i].Content, excerptRunes),
			"has_image":  posts[i].ImageMimetype != "",
			"created_at": posts[i].CreatedAt,
		})
	}

	utils.Success(ctx, gin.H{"posts": postItems, "products": products})
}
