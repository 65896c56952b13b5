package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"gtmdash/internal/alert"
	"gtmdash/internal/config"
	cronrunner "gtmdash/internal/cron"
	"gtmdash/internal/db"
	"gtmdash/internal/engine"
	"gtmdash/internal/handler"
	"gtmdash/internal/httpmw"
	"gtmdash/internal/logger"
	gormrepository "gtmdash/internal/repository/gorm"
	"gtmdash/internal/service"
	"gtmdash/internal/stream"

	_ "gtmdash/docs"
)

func main() {
	cfgPath := os.Getenv("GTM_CONFIG")
	if cfgPath == "" {
		cfgPath = "config/config.yaml"
	}

	envOnly := false
	if envOnlyRaw := os.Getenv("GTM_ENV_ONLY"); envOnlyRaw != "" {
		envOnly = strings.EqualFold(envOnlyRaw, "true") || envOnlyRaw == "1"
	}

	cfg, err := config.Load(cfgPath, envOnly)
	if err != nil {
		panic(err)
	}

	logger, err := logger.New(cfg.Log)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	dbConn, err := db.Open(cfg.DB)
	if err != nil {
		logger.Fatal("db open failed", zap.Error(err))
	}
	defer db.Close(dbConn)

	if err := db.SetTimezone(dbConn, cfg.DB.Timezone); err != nil {
		logger.Warn("failed to set timezone", zap.Error(err))
	}
	if err := db.AutoMigrate(dbConn); err != nil {
		logger.Fatal("auto-migrate failed", zap.Error(err))
	}

	store := gormrepository.New(dbConn.Gorm)
	settingsSvc := &service.SystemSettingsService{Repo: store}
	if err := settingsSvc.EnsureDefaultSwitches(context.Background()); err != nil {
		logger.Warn("init default system switches failed", zap.Error(err))
	}

	hub := stream.NewHub(logger, cfg.Stream.SubscriberBuffer)
	alertMgr := &alert.Manager{Config: cfg.Alerts, Logger: logger}
	evaluator := &service.EvaluationService{
		Repo:   store,
		Logger: logger,
		Memo:   engine.NewMemoizer(cfg.Engine.MemoMaxEntries),
		Hub:    hub,
		Alerts: alertMgr,
		Flags:  settingsSvc,
	}
	historySvc := &service.SnapshotHistoryService{
		Repo:      store,
		Logger:    logger,
		Flags:     settingsSvc,
		Evaluator: evaluator,
		Config:    cfg.History,
	}

	if strings.EqualFold(cfg.App.Env, "dev") {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	engineHTTP := gin.New()
	engineHTTP.Use(gin.Recovery())
	engineHTTP.Use(httpmw.CORSMiddleware())
	engineHTTP.Use(httpmw.RequireBearerMiddleware())
	engineHTTP.Use(httpmw.WriteAuditMiddleware(logger))

	healthHandler := &handler.HealthHandler{DB: dbConn.Gorm}
	healthHandler.Register(engineHTTP)
	httpmw.RegisterDocs(engineHTTP)

	scenarioHandler := &handler.ScenarioHandler{
		Repo:      store,
		Evaluator: evaluator,
		Logger:    logger,
	}
	scenarioHandler.Register(engineHTTP)
	evaluateHandler := &handler.EvaluateHandler{Evaluator: evaluator}
	evaluateHandler.Register(engineHTTP)
	streamHandler := &handler.StreamHandler{
		Hub:       hub,
		Evaluator: evaluator,
		Config:    cfg.Stream,
		Logger:    logger,
	}
	streamHandler.Register(engineHTTP)
	settingsHandler := &handler.SettingsHandler{Repo: store, Settings: settingsSvc}
	settingsHandler.Register(engineHTTP)

	engineHTTP.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:    cfg.Server.HTTPAddr,
		Handler: engineHTTP,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Cron.Enabled {
		cronRunner := cronrunner.New(logger, ctx)
		if _, err := cronRunner.AddJob("snapshot_history", cfg.Cron.SnapshotHistory, historySvc.RunOnce); err != nil {
			logger.Warn("cron register snapshot history failed", zap.Error(err))
		}
		if _, err := cronRunner.AddJob("snapshot_cleanup", cfg.Cron.SnapshotCleanup, historySvc.CleanupOnce); err != nil {
			logger.Warn("cron register snapshot cleanup failed", zap.Error(err))
		}
		cronRunner.Start()
		defer cronRunner.Stop()
	}

	errCh := make(chan error, 2)

	go func() {
		logger.Info("http server starting", zap.String("addr", cfg.Server.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown requested")
	case err := <-errCh:
		logger.Error("server error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}
