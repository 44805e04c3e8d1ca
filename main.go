package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"biolab_backend/internals/configs"
	database "biolab_backend/internals/databases"
	contentController "biolab_backend/internals/features/content/controller"
	"biolab_backend/internals/features/content/form"
	contentRepo "biolab_backend/internals/features/content/repository"
	contentRoute "biolab_backend/internals/features/content/route"
	contentService "biolab_backend/internals/features/content/service"
	placeholderController "biolab_backend/internals/features/placeholder/controller"
	authController "biolab_backend/internals/features/users/auth/controller"
	"biolab_backend/internals/features/users/auth/scheduler"
	authService "biolab_backend/internals/features/users/auth/service"
	helper "biolab_backend/internals/helpers"
	"biolab_backend/internals/helpers/logger"
	"biolab_backend/internals/helpers/metrics"
	"biolab_backend/internals/helpers/storage"
	"biolab_backend/internals/middlewares"
	authMiddleware "biolab_backend/internals/middlewares/auth"
	httpLogger "biolab_backend/internals/middlewares/logger"
	routes "biolab_backend/internals/route"
)

func main() {
	configs.LoadEnv()
	cfg := configs.Load()

	appLog, err := logger.New(cfg.LogMode)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer appLog.Sync()
	if err := cfg.Validate(); err != nil {
		appLog.Fatal("config", "error", err)
	}

	// Cancelled on shutdown; background uploads and schedulers hang off it.
	baseCtx, stop := context.WithCancel(context.Background())
	defer stop()

	db, err := database.ConnectDB(baseCtx, cfg, appLog)
	if err != nil {
		appLog.Fatal("database", "error", err)
	}

	blob, err := newBlobService(baseCtx, cfg)
	if err != nil {
		appLog.Fatal("storage", "error", err)
	}

	var m *metrics.Metrics
	if cfg.MetricsEnabled {
		m = metrics.New()
	}

	// ===================== AUTH =====================
	tokens, err := authService.NewTokenService(cfg.JWTSecret, cfg.JWTTTL)
	if err != nil {
		appLog.Fatal("token service", "error", err)
	}
	auth := authService.NewAuthService(db, tokens)

	var resolver authMiddleware.ProfileResolver = authMiddleware.GormResolver{DB: db}
	if cfg.RedisURL != "" {
		rdb, err := authMiddleware.NewRedisClient(baseCtx, cfg.RedisURL)
		if err != nil {
			appLog.Warn("redis unavailable, role cache disabled", "error", err)
		} else {
			defer rdb.Close()
			cached := authMiddleware.NewCachedResolver(resolver, rdb, cfg.RoleCacheTTL, appLog)
			auth.OnProfileChange = func(ctx context.Context, id uuid.UUID) { cached.Invalidate(ctx, id) }
			resolver = cached
		}
	}
	authn := &authMiddleware.Authenticator{Tokens: tokens, Revoked: auth, Profiles: resolver, Log: appLog}

	// ===================== CONTENT =====================
	ledger := contentRepo.NewUploadRepository(db)
	content := contentService.NewContentService(contentService.Deps{
		Repo:    contentRepo.NewContentRepository(db, cfg.InsertTimeout),
		Ledger:  ledger,
		Blob:    blob,
		Log:     appLog.With("component", "content"),
		Metrics: m,
	})
	uploader := &contentService.StorageUploader{
		Blob:        blob,
		Ledger:      ledger,
		Log:         appLog.With("component", "uploader"),
		Metrics:     m,
		ConvertWebP: cfg.ImageWebP,
		WebP:        storage.DefaultWebPOptions(),
	}
	if stats, err := content.Stats(baseCtx); err != nil {
		appLog.Warn("content warm-up failed", "error", err)
	} else {
		for kind, st := range stats {
			appLog.Debug("content table ready", "kind", kind, "rows", st.Total)
		}
	}
	drafts := form.NewRegistry(cfg.DraftTTL)
	forms := contentController.NewFormController(drafts, content, uploader, baseCtx, appLog)
	forms.BlockWhileUploading = cfg.BlockWhileUploading

	// ===================== SCHEDULERS =====================
	reaper := contentService.NewReaper(contentService.ReaperConfig{
		Schedule:  cfg.UploadReaperSchedule,
		Retention: cfg.UploadRetention,
		DryRun:    cfg.UploadReaperDryRun,
	}, ledger, blob, drafts, content, appLog.With("component", "reaper"), m)
	var reaperCron *cron.Cron
	if cfg.UploadReaperSchedule != "" {
		if reaperCron, err = reaper.Start(); err != nil {
			appLog.Fatal("reaper", "error", err)
		}
	}
	scheduler.StartBlacklistCleanupScheduler(baseCtx, db, appLog, 24*time.Hour, cfg.BlacklistTTL)

	// ===================== HTTP =====================
	app := fiber.New(fiber.Config{
		JSONEncoder:             sonic.Marshal,
		JSONDecoder:             sonic.Unmarshal,
		ErrorHandler:            helper.ErrorHandler,
		DisableStartupMessage:   true,
		BodyLimit:               64 << 20,
		ProxyHeader:             fiber.HeaderXForwardedFor,
		EnableTrustedProxyCheck: true,
		TrustedProxies:          []string{"0.0.0.0/0"},
		ReadTimeout:             30 * time.Second,
		WriteTimeout:            60 * time.Second,
		IdleTimeout:             90 * time.Second,
	})

	app.Use(middlewares.RecoveryMiddleware(appLog))
	app.Use(requestid.New())
	app.Use(requestTimeout(cfg.InsertTimeout + 5*time.Second))
	app.Use(middlewares.CorsMiddleware(cfg.Origins()))
	app.Use(compress.New(compress.Config{Level: compress.LevelDefault}))
	app.Use(etag.New())
	if cfg.IsProduction() {
		app.Use(httpLogger.Structured(appLog))
	} else {
		app.Use(httpLogger.LoggerMiddleware())
	}
	if m != nil {
		app.Use(m.Middleware())
	}
	app.Use("/api", middlewares.GlobalRateLimiter())
	app.Use(authn.Middleware())

	routes.SetupRoutes(app, routes.Deps{
		DB:      db,
		Env:     cfg.AppEnv,
		Log:     appLog,
		Metrics: m,
		Auth:    authController.NewAuthController(auth, appLog, cfg.IsProduction()),
		Content: contentRoute.Controllers{
			Content: contentController.NewContentController(content, appLog),
			Forms:   forms,
			Storage: contentController.NewStorageController(uploader, appLog),
		},
		Placeholder: placeholderController.NewPlaceholderController(appLog),
	})

	go func() {
		appLog.Info("listening", "port", cfg.Port, "env", cfg.AppEnv)
		if err := app.Listen("0.0.0.0:" + cfg.Port); err != nil {
			appLog.Fatal("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLog.Info("shutting down")

	shutdown(app, db, reaperCron, stop, appLog)
}

func newBlobService(ctx context.Context, cfg configs.Config) (storage.BlobService, error) {
	if cfg.StorageDriver == "memory" {
		return storage.NewMemoryStore("http://localhost:"+cfg.Port, cfg.StorageBucket), nil
	}
	return storage.NewS3Store(ctx, storage.S3Config{
		Endpoint:        cfg.S3Endpoint,
		Region:          cfg.S3Region,
		Bucket:          cfg.StorageBucket,
		AccessKeyID:     cfg.S3AccessKeyID,
		SecretAccessKey: cfg.S3SecretAccessKey,
		PublicBaseURL:   cfg.SupabaseURL,
	})
}

// requestTimeout bounds the request's UserContext, which repositories pass to gorm.
func requestTimeout(d time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), d)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}

func shutdown(app *fiber.App, db *gorm.DB, reaperCron *cron.Cron, stop context.CancelFunc, log *logger.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Warn("http shutdown", "error", err)
	}
	if reaperCron != nil {
		<-reaperCron.Stop().Done()
	}
	stop()
	database.Close(db)
}
