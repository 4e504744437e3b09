package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/feeds"
	"gorm.io/gorm"

	"github.com/voloskyi/saffron-shop/config"
	"github.com/voloskyi/saffron-shop/editorial"
	"github.com/voloskyi/saffron-shop/models"
	"github.com/voloskyi/saffron-shop/utils"
)

const (
	blogCachePrefix = "cache:blog:"
	excerptRunes    = 280
)

// BlogController serves published articles and the admin editorial surface,
// including the manual trigger for the daily generation pipeline.
type BlogController struct {
	db        *gorm.DB
	scheduler *editorial.Scheduler
}

// NewBlogController creates a BlogController. The scheduler may be nil when
// generation is disabled; the manual trigger then reports it as unavailable.
func NewBlogController(db *gorm.DB, scheduler *editorial.Scheduler) *BlogController {
	return &BlogController{db: db, scheduler: scheduler}
}

// ListPosts returns published posts, newest first, with plain-text excerpts
// instead of full article bodies.
func (b *BlogController) ListPosts(ctx *gin.Context) {
	cacheKey := blogCachePrefix + "posts"
	if raw, ok := utils.CacheGetBytes(cacheKey); ok {
		ctx.Data(http.StatusOK, "application/json", raw)
		return
	}

	var posts []models.BlogPost
	if err := b.db.Order("created_at DESC, id DESC").Find(&posts).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50020, "failed to retrieve posts")
		return
	}

	items := make([]gin.H, 0, len(posts))
	for i := range posts {
		items = append(items, gin.H{
			"id":         posts[i].ID,
			"title":      posts[i].Title,
			"excerpt":    utils.Excerpt(posts[i].Content, excerptRunes),
			"has_image":  posts[i].HasImage(),
			"created_at": posts[i].CreatedAt,
		})
	}

	utils.CacheSetJSON(cacheKey, utils.JSONResponse{Code: 0, Message: "success", Data: items}, 10*time.Minute)
	utils.Success(ctx, items)
}

// GetPost returns one post with its full content.
func (b *BlogController) GetPost(ctx *gin.Context) {
	var post models.BlogPost
	if err := b.db.First(&post, ctx.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40420, "post not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50021, "failed to retrieve post")
		return
	}

	utils.Success(ctx, gin.H{
		"id":               post.ID,
		"title":            post.Title,
		"content":          post.Content,
		"meta_description": utils.MetaDescription(post.Content),
		"has_image":        post.HasImage(),
		"created_at":       post.CreatedAt,
	})
}

// PostImage streams the stored illustration bytes.
func (b *BlogController) PostImage(ctx *gin.Context) {
	var post models.BlogPost
	if err := b.db.Select("id", "image_data", "image_mimetype").First(&post, ctx.Param("id")).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40420, "post not found")
		return
	}
	if !post.HasImage() {
		utils.Error(ctx, http.StatusNotFound, 40421, "post has no image")
		return
	}
	ctx.Data(http.StatusOK, post.ImageMimetype, post.ImageData)
}

// Feed renders the blog as RSS.
func (b *BlogController) Feed(ctx *gin.Context) {
	cfg := config.Get()

	var posts []models.BlogPost
	if err := b.db.Order("created_at DESC, id DESC").Limit(30).Find(&posts).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50022, "failed to retrieve posts")
		return
	}

	feed := &feeds.Feed{
		Title:       cfg.ShopName + " Blog",
		Link:        &feeds.Link{Href: cfg.BaseURL + "/blog"},
		Description: "Saffron health, culinary and provenance articles from " + cfg.ShopName,
		Created:     time.Now(),
	}
	for i := range posts {
		description := utils.MetaDescription(posts[i].Content)
		if description == "" {
			description = utils.Excerpt(posts[i].Content, excerptRunes)
		}
		feed.Items = append(feed.Items, &feeds.Item{
			Id:          cfg.BaseURL + "/blog/posts/" + itoa(posts[i].ID),
			Title:       posts[i].Title,
			Link:        &feeds.Link{Href: cfg.BaseURL + "/blog/posts/" + itoa(posts[i].ID)},
			Description: description,
			Created:     posts[i].CreatedAt,
		})
	}

	rss, err := feed.ToRss()
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50023, "failed to render feed")
		return
	}
	ctx.Data(http.StatusOK, "application/rss+xml; charset=utf-8", []byte(rss))
}

type postRequest struct {
	Title   string `json:"title" binding:"required"`
	Content string `json:"content" binding:"required"`
}

// CreatePost publishes an admin-written article. Content passes the same
// sanitizer as generated articles.
func (b *BlogController) CreatePost(ctx *gin.Context) {
	var req postRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40030, "invalid request payload")
		return
	}

	post := models.BlogPost{
		Title:   strings.TrimSpace(req.Title),
		Content: utils.Sanitize(req.Content),
	}
	if err := b.db.Create(&post).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50024, "failed to create post")
		return
	}

	utils.InvalidateByPrefix(blogCachePrefix)
	utils.Success(ctx, post)
}

// UpdatePost edits an existing article.
func (b *BlogController) UpdatePost(ctx *gin.Context) {
	var post models.BlogPost
	if err := b.db.First(&post, ctx.Param("id")).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40420, "post not found")
		return
	}

	var req postRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40030, "invalid request payload")
		return
	}

	post.Title = strings.TrimSpace(req.Title)
	post.Content = utils.Sanitize(req.Content)
	if err := b.db.Save(&post).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50025, "failed to update post")
		return
	}

	utils.InvalidateByPrefix(blogCachePrefix)
	utils.Success(ctx, post)
}

// DeletePost removes an article and its inline image.
func (b *BlogController) DeletePost(ctx *gin.Context) {
	var post models.BlogPost
	if err := b.db.First(&post, ctx.Param("id")).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40420, "post not found")
		return
	}

	if err := b.db.Delete(&post).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50026, "failed to delete post")
		return
	}

	utils.InvalidateByPrefix(blogCachePrefix)
	utils.Success(ctx, gin.H{"message": "post deleted"})
}

// GenerateNow runs one editorial cycle synchronously. A busy pipeline maps to
// 409 so the admin UI can tell "try later" apart from a real failure.
func (b *BlogController) GenerateNow(ctx *gin.Context) {
	if b.scheduler == nil {
		utils.Error(ctx, http.StatusServiceUnavailable, 50320, "blog generation is not configured")
		return
	}

	if err := b.scheduler.TriggerNow(); err != nil {
		if errors.Is(err, editorial.ErrBusy) {
			utils.Error(ctx, http.StatusConflict, 40920, "generation already in progress")
			return
		}
		if utils.Sugar != nil {
			utils.Sugar.Errorw("manual blog generation failed", "err", err)
		}
		utils.Error(ctx, http.StatusBadGateway, 50220, "AI blog generation failed. Check logs and API key.")
		return
	}

	utils.Success(ctx, gin.H{"message": "AI-generated blog post published."})
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
