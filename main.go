package main

import (
	"time"

	"github.com/voloskyi/saffron-shop/config"
	"github.com/voloskyi/saffron-shop/editorial"
	"github.com/voloskyi/saffron-shop/models"
	"github.com/voloskyi/saffron-shop/routes"
	"github.com/voloskyi/saffron-shop/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	db := config.InitDatabase(&models.User{}, &models.Category{}, &models.Product{}, &models.BlogPost{}, &models.Document{})

	calendar := editorial.DefaultCalendar(cfg.EditorialEpoch())
	generator := editorial.NewOpenAIGenerator(cfg.OpenAIAPIKey, calendar)
	scheduler := editorial.New(calendar, generator, editorial.NewGormPostStore(db), editorial.Options{
		Interval: time.Duration(cfg.EditorialIntervalDays) * 24 * time.Hour,
		MaxPosts: cfg.EditorialMaxPosts,
		Logger:   utils.Sugar,
		OnPublish: func() {
			utils.InvalidateByPrefix("cache:blog:")
		},
	})

	// Only the primary worker of a deployment arms the daily timer, and never
	// on an ephemeral testing instance. Manual triggers stay available either way.
	if !cfg.TestingMode && cfg.EditorialPrimaryWorker {
		scheduler.Start()
		utils.Sugar.Infof("editorial timer armed: every %d day(s), keeping %d posts", cfg.EditorialIntervalDays, cfg.EditorialMaxPosts)
	} else {
		utils.Sugar.Info("editorial timer disabled on this instance")
	}

	assistant := editorial.NewOpenAIClient(cfg.OpenAIAPIKey)

	r := routes.SetupRouter(db, scheduler, assistant)

	srv := utils.NewServer(":"+cfg.AppPort, r)
	srv.OnShutdown(scheduler.Stop)

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := srv.ListenAndServe(); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
