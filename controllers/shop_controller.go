package controllers

import (
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/checkout/session"
	"gorm.io/gorm"

	"github.com/voloskyi/saffron-shop/config"
	"github.com/voloskyi/saffron-shop/models"
	"github.com/voloskyi/saffron-shop/utils"
)

const (
	maxProductImageBytes = 3 << 20
	shopCachePrefix      = "cache:shop:"
)

// ShopController serves the public catalog and the admin product/category CRUD.
type ShopController struct {
	db *gorm.DB
}

// NewShopController creates a ShopController.
func NewShopController(db *gorm.DB) *ShopController {
	return &ShopController{db: db}
}

// ListCategories returns all categories with their products.
func (s *ShopController) ListCategories(ctx *gin.Context) {
	cacheKey := shopCachePrefix + "categories"
	if b, ok := utils.CacheGetBytes(cacheKey); ok {
		ctx.Data(http.StatusOK, "application/json", b)
		return
	}

	var categories []models.Category
	if err := s.db.Preload("Products", "is_available = ?", true).Order("name ASC").Find(&categories).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50010, "failed to retrieve categories")
		return
	}

	utils.CacheSetJSON(cacheKey, utils.JSONResponse{Code: 0, Message: "success", Data: categories}, 10*time.Minute)
	utils.Success(ctx, categories)
}

// GetCategory returns one category including its available products.
func (s *ShopController) GetCategory(ctx *gin.Context) {
	var category models.Category
	err := s.db.Preload("Products", "is_available = ?", true).First(&category, ctx.Param("id")).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40410, "category not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50011, "failed to retrieve category")
		return
	}
	utils.Success(ctx, category)
}

// ListProducts returns available products, newest first.
func (s *ShopController) ListProducts(ctx *gin.Context) {
	cacheKey := shopCachePrefix + "products"
	if b, ok := utils.CacheGetBytes(cacheKey); ok {
		ctx.Data(http.StatusOK, "application/json", b)
		return
	}

	var products []models.Product
	if err := s.db.Where("is_available = ?", true).Order("created_at DESC").Find(&products).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50012, "failed to retrieve products")
		return
	}

	utils.CacheSetJSON(cacheKey, utils.JSONResponse{Code: 0, Message: "success", Data: products}, 10*time.Minute)
	utils.Success(ctx, products)
}

// GetProduct returns one product plus up to three related products from the
// same category.
func (s *ShopController) GetProduct(ctx *gin.Context) {
	var product models.Product
	if err := s.db.First(&product, ctx.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40411, "product not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50013, "failed to retrieve product")
		return
	}

	var related []models.Product
	if product.CategoryID != nil {
		s.db.Where("category_id = ? AND id <> ? AND is_available = ?", *product.CategoryID, product.ID, true).
			Order("created_at DESC").Limit(3).Find(&related)
	}

	utils.Success(ctx, gin.H{"product": product, "related": related})
}

// ProductImage streams the stored product image bytes.
func (s *ShopController) ProductImage(ctx *gin.Context) {
	var product models.Product
	if err := s.db.Select("id", "image_data", "image_mimetype").First(&product, ctx.Param("id")).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40411, "product not found")
		return
	}
	if !product.HasImage() {
		utils.Error(ctx, http.StatusNotFound, 40412, "product has no image")
		return
	}
	ctx.Data(http.StatusOK, product.ImageMimetype, product.ImageData)
}

// Search finds available products whose title contains the query,
// case-insensitively.
func (s *ShopController) Search(ctx *gin.Context) {
	q := strings.TrimSpace(ctx.Query("q"))
	if q == "" {
		utils.Success(ctx, []models.Product{})
		return
	}

	var products []models.Product
	pattern := "%" + strings.ToLower(q) + "%"
	err := s.db.Where("is_available = ? AND LOWER(title) LIKE ?", true, pattern).
		Order("created_at DESC").Find(&products).Error
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50014, "search failed")
		return
	}

	utils.Success(ctx, products)
}

// Checkout creates a Stripe checkout session for one product and returns the
// hosted payment page URL.
func (s *ShopController) Checkout(ctx *gin.Context) {
	cfg := config.Get()
	if cfg.StripeSecretKey == "" {
		utils.Error(ctx, http.StatusServiceUnavailable, 50310, "payments are not configured")
		return
	}

	var product models.Product
	if err := s.db.First(&product, ctx.Param("id")).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40411, "product not found")
		return
	}
	if !product.IsAvailable {
		utils.Error(ctx, http.StatusConflict, 40910, "product is not available")
		return
	}

	var req struct {
		Quantity int64 `json:"quantity"`
	}
	_ = ctx.ShouldBindJSON(&req)
	if req.Quantity < 1 {
		req.Quantity = 1
	}
	if req.Quantity > 10 {
		req.Quantity = 10
	}

	stripe.Key = cfg.StripeSecretKey
	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String("eur"),
				UnitAmount: stripe.Int64(int64(math.Round(product.Price * 100))),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(product.Title),
				},
			},
			Quantity: stripe.Int64(req.Quantity),
		}},
		SuccessURL: stripe.String(cfg.BaseURL + "/checkout/success"),
		CancelURL:  stripe.String(fmt.Sprintf("%s/shop/products/%d", cfg.BaseURL, product.ID)),
	}
	// Retried submits must not open duplicate payment sessions.
	params.SetIdempotencyKey(uuid.NewString())

	sess, err := session.New(params)
	if err != nil {
		if utils.Sugar != nil {
			utils.Sugar.Errorw("stripe checkout session failed", "product_id", product.ID, "err", err)
		}
		utils.Error(ctx, http.StatusBadGateway, 50210, "failed to create checkout session")
		return
	}

	utils.Success(ctx, gin.H{"checkout_url": sess.URL, "session_id": sess.ID})
}

// CreateCategory adds a catalog category.
func (s *ShopController) CreateCategory(ctx *gin.Context) {
	var req struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40010, "invalid request payload")
		return
	}

	category := models.Category{
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
	}
	if category.Name == "" {
		utils.Error(ctx, http.StatusBadRequest, 40011, "category name is required")
		return
	}

	if err := s.db.Create(&category).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50015, "failed to create category")
		return
	}

	utils.InvalidateByPrefix(shopCachePrefix)
	utils.Success(ctx, category)
}

// DeleteCategory removes a category and cascades to its products.
func (s *ShopController) DeleteCategory(ctx *gin.Context) {
	var category models.Category
	if err := s.db.First(&category, ctx.Param("id")).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40410, "category not found")
		return
	}

	if err := s.db.Select("Products").Delete(&category).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50016, "failed to delete category")
		return
	}

	utils.InvalidateByPrefix(shopCachePrefix)
	utils.Success(ctx, gin.H{"message": "category deleted"})
}

// CreateProduct adds a product from a multipart form, optionally with an
// inline image.
func (s *ShopController) CreateProduct(ctx *gin.Context) {
	product := models.Product{}
	if code, msg := s.bindProductForm(ctx, &product, false); code != 0 {
		utils.Error(ctx, http.StatusBadRequest, code, msg)
		return
	}

	if err := s.db.Create(&product).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50017, "failed to create product")
		return
	}

	utils.InvalidateByPrefix(shopCachePrefix)
	utils.Success(ctx, product)
}

// UpdateProduct edits a product. Sending remove_image=true clears the stored
// image; uploading a new file replaces it.
func (s *ShopController) UpdateProduct(ctx *gin.Context) {
	var product models.Product
	if err := s.db.First(&product, ctx.Param("id")).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40411, "product not found")
		return
	}

	if code, msg := s.bindProductForm(ctx, &product, true); code != 0 {
		utils.Error(ctx, http.StatusBadRequest, code, msg)
		return
	}

	if err := s.db.Save(&product).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50018, "failed to update product")
		return
	}

	utils.InvalidateByPrefix(shopCachePrefix)
	utils.Success(ctx, product)
}

// DeleteProduct removes a product.
func (s *ShopController) DeleteProduct(ctx *gin.Context) {
	var product models.Product
	if err := s.db.First(&product, ctx.Param("id")).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40411, "product not found")
		return
	}

	if err := s.db.Delete(&product).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50019, "failed to delete product")
		return
	}

	utils.InvalidateByPrefix(shopCachePrefix)
	utils.Success(ctx, gin.H{"message": "product deleted"})
}

// bindProductForm fills a product from the multipart form. Returns a non-zero
// app code and message on validation failure.
func (s *ShopController) bindProductForm(ctx *gin.Context, product *models.Product, partial bool) (int, string) {
	if v, ok := formValue(ctx, "title"); ok || !partial {
		if strings.TrimSpace(v) == "" {
			return 40020, "title is required"
		}
		product.Title = strings.TrimSpace(v)
	}
	if v, ok := formValue(ctx, "description"); ok || !partial {
		product.Description = strings.TrimSpace(v)
	}
	if v, ok := formValue(ctx, "price"); ok || !partial {
		price, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil || price < 0 {
			return 40021, "price must be a non-negative number"
		}
		product.Price = price
	}
	if v, ok := formValue(ctx, "is_available"); ok {
		product.IsAvailable = v == "true" || v == "1" || v == "on"
	} else if !partial {
		product.IsAvailable = true
	}
	if v, ok := formValue(ctx, "category_id"); ok {
		if strings.TrimSpace(v) == "" {
			product.CategoryID = nil
		} else {
			id, err := strconv.ParseUint(strings.TrimSpace(v), 10, 32)
			if err != nil {
				return 40022, "invalid category id"
			}
			var count int64
			s.db.Model(&models.Category{}).Where("id = ?", id).Count(&count)
			if count == 0 {
				return 40023, "category does not exist"
			}
			cid := uint(id)
			product.CategoryID = &cid
		}
	}

	if v, ok := formValue(ctx, "remove_image"); ok && (v == "true" || v == "1") {
		product.ImageData = nil
		product.ImageMimetype = ""
		product.ImageFilename = ""
	}

	file, header, err := ctx.Request.FormFile("image")
	if err == nil {
		defer file.Close()
		if header.Size > maxProductImageBytes {
			return 40024, "image exceeds the 3MB limit"
		}
		mimetype := header.Header.Get("Content-Type")
		if !strings.HasPrefix(mimetype, "image/") {
			return 40025, "only image uploads are allowed"
		}
		data, err := io.ReadAll(io.LimitReader(file, maxProductImageBytes+1))
		if err != nil || len(data) > maxProductImageBytes {
			return 40024, "image exceeds the 3MB limit"
		}
		product.ImageData = data
		product.ImageMimetype = mimetype
		product.ImageFilename = header.Filename
	}

	return 0, ""
}

func formValue(ctx *gin.Context, key string) (string, bool) {
	if ctx.Request.Form == nil {
		_ = ctx.Request.ParseMultipartForm(32 << 20)
	}
	values, ok := ctx.Request.Form[key]
	if !ok && ctx.Request.MultipartForm != nil {
		values, ok = ctx.Request.MultipartForm.Value[key]
	}
	if !ok || len(values) == 0 {
		return "", false
	}
	return values[0], true
}
