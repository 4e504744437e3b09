package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/voloskyi/saffron-shop/models"
	"github.com/voloskyi/saffron-shop/utils"
)

// StatsController powers the admin dashboard overview.
type StatsController struct {
	db *gorm.DB
}

// NewStatsController creates a StatsController.
func NewStatsController(db *gorm.DB) *StatsController {
	return &StatsController{db: db}
}

// Overview returns entity counts and the five most recent products.
func (s *StatsController) Overview(ctx *gin.Context) {
	var productCount, categoryCount, postCount, documentCount int64

	counts := []struct {
		model interface{}
		dest  *int64
	}{
		{&models.Product{}, &productCount},
		{&models.Category{}, &categoryCount},
		{&models.BlogPost{}, &postCount},
		{&models.Document{}, &documentCount},
	}
	for _, c := range counts {
		if err := s.db.Model(c.model).Count(c.dest).Error; err != nil {
			utils.Error(ctx, http.StatusInternalServerError, 50040, "failed to compute stats")
			return
		}
	}

	var latest []models.Product
	if err := s.db.Order("created_at DESC").Limit(5).Find(&latest).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50041, "failed to load latest products")
		return
	}

	utils.Success(ctx, gin.H{
		"products":        productCount,
		"categories":      categoryCount,
		"blog_posts":      postCount,
		"documents":       documentCount,
		"latest_products": latest,
	})
}
