package main

import (
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"collections-backend/config"
	"collections-backend/database"
	"collections-backend/export"
	"collections-backend/handlers"
	"collections-backend/logging"
	"collections-backend/middleware"
	"collections-backend/models"
	"collections-backend/store"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := cfg.EnsureDirs(); err != nil {
		log.Fatalf("prepare directories: %v", err)
	}

	logger := logging.New(cfg)

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("connect database: %v", err)
	}
	if err := database.Seed(db, logger); err != nil {
		log.Fatalf("seed database: %v", err)
	}

	st := store.New(db, cfg.PageSize)
	engine := export.NewEngine(st, cfg.ExportDir, logger)
	h := handlers.New(cfg, logger, st, engine)

	r := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	r.Use(cors.New(corsConfig))

	// Public routes
	r.POST("/login", h.Login)
	r.POST("/register", h.Register)

	// Everything else requires a valid session token.
	api := r.Group("/api")
	api.Use(middleware.JWTAuth([]byte(cfg.SecretKey)))
	{
		api.POST("/logout", h.Logout)
		api.GET("/me", h.Me)

		// Proof viewing is shared by both roles.
		api.GET("/proofs/:id", h.DownloadProof)
		api.GET("/records/:id/proofs", h.RecordProofs)

		tl := api.Group("/team-leader")
		tl.Use(middleware.RequireRole(models.RoleTeamLeader))
		{
			tl.POST("/entries", h.CreateEntry)
			tl.GET("/entries", h.SearchEntries)
			tl.GET("/entries/stats", h.EntryStats)
			tl.DELETE("/entries/:id", h.DeleteEntry)

			tl.POST("/disputes", h.CreateDispute)
			tl.GET("/disputes/pending", h.PendingDisputes)
			tl.POST("/disputes/:id/action", h.ActOnDispute)
		}

		da := api.Group("/data-analyst")
		da.Use(middleware.RequireRole(models.RoleDataAnalyst))
		{
			da.GET("/records", h.FilterRecords)

			da.GET("/disputes/review", h.ReviewQueue)
			da.POST("/disputes/:id/action", h.ActOnDispute)

			da.POST("/exports", h.RunExport)
			da.GET("/exports", h.ExportHistoryList)
			da.GET("/exports/download/:filename", h.DownloadExport)
		}
	}

	logger.Info("server starting", "addr", cfg.ServerAddr)
	if err := r.Run(cfg.ServerAddr); err != nil {
		log.Fatalf("server: %v", err)
	}
}
