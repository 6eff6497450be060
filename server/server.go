package server

import (
	"context"
	"fmt"
	"time"

	"bot-companion-web/config"
	"bot-companion-web/handlers"
	"bot-companion-web/models"
	"bot-companion-web/services"
	"bot-companion-web/utils"
	"bot-companion-web/workers"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/go-co-op/gocron/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
)

// Server is the companion web surface: one fiber app plus the services its
// handlers share.
type Server struct {
	Config   *config.Config
	App      *fiber.App
	Store    services.CodeStore
	Rewards  *services.RewardService
	BotStats *services.BotStats
	Metrics  *services.Metrics

	scheduler gocron.Scheduler
}

// OpenCodeStore picks the Postgres store when DATABASE_URL is set and the
// JSON file otherwise.
func OpenCodeStore(cfg *config.Config) (services.CodeStore, error) {
	if cfg.DatabaseURL != "" {
		log.Println("🐘 [STORE] Using Postgres code store")
		return services.OpenPostgresCodeStore(cfg.DatabaseURL)
	}
	if err := utils.EnsureParentDir(cfg.CodeDBFile); err != nil {
		return nil, fmt.Errorf("failed to ensure code file dir: %w", err)
	}
	log.Printf("📄 [STORE] Using JSON code store at %s", cfg.CodeDBFile)
	return services.NewJSONFileStore(cfg.CodeDBFile), nil
}

// NewGenerator builds the reward generator from cfg.
func NewGenerator(cfg *config.Config) (*services.RewardGenerator, error) {
	return services.NewRewardGenerator(cfg.CodePrefix, cfg.CodeLength, cfg.CodeGroupSize, models.DefaultRewardTiers, nil)
}

// New wires services and routes and reconciles the index from store.
// reg receives both HTTP and reward metrics.
func New(cfg *config.Config, store services.CodeStore, reg prometheus.Registerer) (*Server, error) {
	generator, err := NewGenerator(cfg)
	if err != nil {
		return nil, fmt.Errorf("invalid code settings: %w", err)
	}

	commandService, err := services.LoadCommandCatalog(cfg.CommandsFile)
	if err != nil {
		return nil, err
	}

	metrics := services.NewMetrics(reg)
	rewardService := services.NewRewardService(store, generator, metrics)
	rewardService.Reload()

	botStats := services.NewBotStats()
	statsService := services.NewStatsService(botStats)

	app := fiber.New(fiber.Config{
		AppName:      "bot-companion-web",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	})

	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{
		Header:    fiber.HeaderXRequestID,
		Generator: uuid.NewString,
	}))
	app.Use(logger.New(logger.Config{
		Format: "${time} ${status} - ${latency} ${method} ${path} [${locals:requestid}]\n",
	}))

	prom := fiberprometheus.NewWithRegistry(reg, "bot-companion-web", "http", "", nil)
	prom.RegisterAt(app, "/metrics")
	app.Use(prom.Middleware)

	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.AllowedOrigins,
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Request-ID",
	}))

	handlers.SetupRewardRoutes(app, rewardService, cfg.GenerateRateLimit)
	handlers.SetupStatsRoutes(app, statsService, commandService, cfg.BotServiceToken)
	handlers.SetupPageRoutes(app, cfg.TemplatesDir, cfg.StaticDir)

	return &Server{
		Config:   cfg,
		App:      app,
		Store:    store,
		Rewards:  rewardService,
		BotStats: botStats,
		Metrics:  metrics,
	}, nil
}

// Start seeds the bot counters, launches the background jobs and the listener,
// and returns. Everything stops once ctx is done.
func (s *Server) Start(ctx context.Context, bot services.Bot) error {
	s.BotStats.Seed(bot)

	if s.Config.ReconcileInterval > 0 {
		sched, err := s.Rewards.StartReconcileScheduler(s.Config.ReconcileInterval)
		if err != nil {
			return err
		}
		s.scheduler = sched
	}

	if s.Config.BackupEnabled() {
		r2, err := utils.NewR2Client(ctx, s.Config.CloudflareAccountID, s.Config.R2AccessKeyID, s.Config.R2AccessKeySecret, s.Config.R2BucketName)
		if err != nil {
			return fmt.Errorf("failed to initialize R2 client: %w", err)
		}
		workers.NewCodeBackupWorker(s.Store, r2, s.Config.BackupInterval).Start(ctx)
	}

	go func() {
		if err := s.App.Listen(":" + s.Config.Port); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	go func() {
		<-ctx.Done()
		s.shutdown()
	}()

	log.Printf("✅ Server running on http://localhost:%s", s.Config.Port)
	return nil
}

func (s *Server) shutdown() {
	log.Println("Shutting down server...")
	if s.scheduler != nil {
		if err := s.scheduler.Shutdown(); err != nil {
			log.Printf("⚠️  Scheduler shutdown: %v", err)
		}
	}
	if err := s.App.ShutdownWithTimeout(5 * time.Second); err != nil {
		log.Printf("⚠️  HTTP shutdown: %v", err)
	}
}
