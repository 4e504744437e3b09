package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/voloskyi/saffron-shop/config"
	"github.com/voloskyi/saffron-shop/controllers"
	"github.com/voloskyi/saffron-shop/editorial"
	"github.com/voloskyi/saffron-shop/middleware"
	"github.com/voloskyi/saffron-shop/utils"
)

// SetupRouter wires routes, middlewares, and controllers. The scheduler and
// assistant client may be nil; their endpoints then report unavailable.
func SetupRouter(db *gorm.DB, scheduler *editorial.Scheduler, assistant *editorial.OpenAIClient) *gin.Engine {
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	// Replace default console logger with file-based zap logger
	gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress)
	if err == nil {
		r.Use(utils.Ginzap(gl, time.RFC3339, true))
		r.Use(utils.RecoveryWithZap(gl, false))
	} else {
		r.Use(gin.Recovery())
	}

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	r.Static("/static", "./static")

	r.GET("/", func(c *gin.Context) {
		c.File("./static/index.html")
	})

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})

	r.GET("/robots.txt", func(ctx *gin.Context) {
		ctx.String(http.StatusOK, "User-agent: *\nAllow: /\nSitemap: %s/sitemap.xml\n", cfg.BaseURL)
	})

	homeController := controllers.NewHomeController(db)
	authController := controllers.NewAuthController(db)
	shopController := controllers.NewShopController(db)
	blogController := controllers.NewBlogController(db, scheduler)
	documentController := controllers.NewDocumentController(db)
	assistantController := controllers.NewAssistantController(db, assistant)
	statsController := controllers.NewStatsController(db)

	api := r.Group("/api/v1")

	api.GET("/home", homeController.Index)

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware())
	authGroup.POST("/setup", authController.Setup)
	authGroup.POST("/login", authController.Login)
	authGroup.POST("/logout", middleware.AuthRequired(), authController.Logout)
	authGroup.GET("/me", middleware.AuthRequired(), authController.Me)

	shopGroup := api.Group("/shop")
	shopGroup.GET("/categories", shopController.ListCategories)
	shopGroup.GET("/categories/:id", shopController.GetCategory)
	shopGroup.GET("/products", shopController.ListProducts)
	shopGroup.GET("/products/:id", shopController.GetProduct)
	shopGroup.GET("/products/:id/image", shopController.ProductImage)
	shopGroup.GET("/search", shopController.Search)
	shopGroup.POST("/checkout/:id", middleware.RateLimitMiddleware(), shopController.Checkout)

	blogGroup := api.Group("/blog")
	blogGroup.GET("/posts", blogController.ListPosts)
	blogGroup.GET("/posts/:id", blogController.GetPost)
	blogGroup.GET("/posts/:id/image", blogController.PostImage)
	blogGroup.GET("/feed", blogController.Feed)

	api.GET("/documents", documentController.List)
	api.GET("/documents/:id/download", documentController.Download)

	api.POST("/assistant/ask", middleware.RateLimitMiddleware(), assistantController.Ask)

	admin := api.Group("/admin")
	admin.Use(middleware.AuthRequired(), middleware.RateLimitMiddleware())
	admin.GET("/stats", statsController.Overview)

	admin.POST("/categories", shopController.CreateCategory)
	admin.DELETE("/categories/:id", shopController.DeleteCategory)
	admin.POST("/products", shopController.CreateProduct)
	admin.PUT("/products/:id", shopController.UpdateProduct)
	admin.DELETE("/products/:id", shopController.DeleteProduct)

	admin.POST("/blog/posts", blogController.CreatePost)
	admin.PUT("/blog/posts/:id", blogController.UpdatePost)
	admin.DELETE("/blog/posts/:id", blogController.DeletePost)
	admin.POST("/blog/generate", blogController.GenerateNow)

	admin.POST("/documents", documentController.Upload)
	admin.DELETE("/documents/:id", documentController.Delete)

	r.NoRoute(func(ctx *gin.Context) {
		path := ctx.Request.URL.Path
		if strings.HasPrefix(path, "/api/") {
			utils.Error(ctx, http.StatusNotFound, 40400, "api route not found")
			return
		}
		if strings.HasPrefix(path, "/static/") {
			ctx.JSON(http.StatusNotFound, gin.H{"message": "static asset not found"})
			return
		}
		// Everything else falls back to the SPA entry.
		ctx.Status(http.StatusOK)
		ctx.File("./static/index.html")
	})

	return r
}
