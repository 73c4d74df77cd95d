package main

import (
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/Learning-is-key/LegalLite/config"
	"github.com/Learning-is-key/LegalLite/controllers"
	"github.com/Learning-is-key/LegalLite/database"
	"github.com/Learning-is-key/LegalLite/services"
	"github.com/Learning-is-key/LegalLite/session"
	"github.com/Learning-is-key/LegalLite/store"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg := config.Load()

	db, err := database.Connect(cfg.DBPath)
	if err != nil {
		logger.Error("database init failed", "error", err)
		os.Exit(1)
	}
	logger.Info("database connection established", "path", cfg.DBPath)

	var archive *services.Archive
	if cfg.MinioHost != "" {
		archive, err = services.NewArchive(cfg.MinioHost, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL, logger)
		if err != nil {
			logger.Error("artifact archive init failed", "error", err)
			os.Exit(1)
		}
		logger.Info("artifact archive enabled", "endpoint", cfg.MinioHost, "bucket", cfg.MinioBucket)
	}

	sessions := session.NewStore()
	users := store.New(db)
	hosted := services.NewHuggingFaceProvider(cfg.HFToken, cfg.HFAPIURL, services.NewMemoCache())

	opts := []session.Option{}
	if archive != nil {
		opts = append(opts, session.WithArchive(archive))
	}
	flow := session.New(sessions, users, hosted, cfg.OpenAIBaseURL, logger, opts...)

	h := &controllers.Handlers{Sessions: sessions, Flow: flow}

	r := gin.Default()

	r.POST("/auth/signup", h.Signup)
	r.POST("/auth/login", h.Login)
	r.GET("/help", h.Help)

	authed := r.Group("/", h.RequireSession(), controllers.RequireLogin())
	{
		authed.GET("/session", h.SessionState)
		authed.POST("/session/mode", h.SelectMode)
		authed.POST("/session/key", h.SubmitKey)
		authed.POST("/session/back", h.Back)
		authed.POST("/auth/logout", h.Logout)
	}

	workspace := r.Group("/workspace", h.RequireSession(), controllers.RequireLogin(), controllers.RequireReady())
	{
		workspace.POST("/simplify", h.Simplify)
		workspace.POST("/risky", h.RiskyTerms)
		workspace.GET("/summary.pdf", h.SummaryPDF)
		workspace.GET("/summary.mp3", h.SummaryVoice)
		workspace.GET("/history", h.History)
		workspace.GET("/profile", h.Profile)
	}

	logger.Info("server starting", "addr", cfg.Addr)
	if err := r.Run(cfg.Addr); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
