// Package main provides the main entry point for the RecordFlow allocation ledger service
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/recordflow/allocation-ledger/app/handlers"
	"github.com/recordflow/allocation-ledger/app/middleware"
	"github.com/recordflow/allocation-ledger/app/router"
	"github.com/recordflow/allocation-ledger/app/services"
	businessflow "github.com/recordflow/allocation-ledger/business_flow"
	"github.com/recordflow/allocation-ledger/config"
	"github.com/recordflow/allocation-ledger/models"
	"github.com/recordflow/allocation-ledger/repository"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"gopkg.in/natefinch/lumberjack.v2"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Application represents the main application structure
type Application struct {
	router    *router.FiberRouter
	config    *config.ProductionConfig
	stopFuncs []func()
}

func main() {
	log.Println("Starting allocation ledger service...")

	// Load production configuration
	cfg, err := config.LoadProductionConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	setupLogging(cfg.Logging)

	// Initialize application
	app, err := initializeApplication(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	// Setup routes
	app.router.SetupRoutes()

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Start server in goroutine
	go func() {
		address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		log.Printf("Server starting on %s", address)

		if err := app.router.Start(address); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for shutdown signal
	<-sigChan
	log.Println("Shutting down gracefully...")

	// Stop background workers
	for _, fn := range app.stopFuncs {
		fn()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := app.router.GetApp().ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}

	log.Println("Server stopped")
}

// setupLogging routes the standard logger through a rotating file writer when
// file output is configured
func setupLogging(cfg config.LoggingConfig) {
	if cfg.Output == "stdout" || cfg.FilePath == "" {
		return
	}

	rotator := &lumberjack.Logger{
		Filename:   cfg.FilePath,
		MaxSize:    cfg.MaxSize,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAge,
		Compress:   cfg.Compress,
	}

	if cfg.Output == "both" {
		log.SetOutput(io.MultiWriter(os.Stdout, rotator))
	} else {
		log.SetOutput(rotator)
	}
}

// initializeDatabase initializes the database connection with connection pooling
func initializeDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, cfg.SSLMode)

	gormCfg := &gorm.Config{}
	if cfg.SlowQueryLog {
		gormCfg.Logger = gormlogger.New(log.Default(), gormlogger.Config{
			SlowThreshold:             cfg.SlowQueryTime,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		})
	}

	db, err := gorm.Open(postgres.Open(dsn), gormCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying sql.DB for connection pooling configuration
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Configure connection pooling
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	// Test the connection
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Printf("Database connection established with %d max open connections, %d max idle connections",
		cfg.MaxOpenConns, cfg.MaxIdleConns)

	return db, nil
}

// runMigrations keeps the ledger schema current
func runMigrations(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Process{},
		&models.BillingRate{},
		&models.AllocationEntry{},
		&models.EditHistoryRecord{},
		&models.DeleteRequest{},
		&models.ActionLog{},
	)
}

// initializeCache initializes the Cache client and verifies connectivity
func initializeCache(cfg config.CacheConfig, password string) (*redis.Client, error) {
	if !cfg.Enabled || cfg.Provider != "redis" {
		return nil, nil
	}

	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	// Override DB if provided in config
	opt.DB = cfg.RedisDB
	if password != "" {
		opt.Password = password
	}

	rc := redis.NewClient(opt)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rc.Ping(ctx).Err(); err != nil {
		_ = rc.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	log.Printf("Redis connection established to %s (db=%d)", cfg.RedisURL, cfg.RedisDB)
	return rc, nil
}

// startCacheHealthMonitor starts a background goroutine that periodically pings Redis
// to detect connectivity issues. The returned cancel function stops the monitor.
func startCacheHealthMonitor(parent context.Context, client *redis.Client, interval time.Duration) func() {
	monitorCtx, cancel := context.WithCancel(parent)
	if interval <= 0 {
		interval = 30 * time.Second
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-monitorCtx.Done():
				return
			case <-ticker.C:
				ctx, c := context.WithTimeout(context.Background(), 3*time.Second)
				if err := client.Ping(ctx).Err(); err != nil {
					log.Printf("Redis healthcheck failed: %v", err)
				}
				c()
			}
		}
	}()
	return cancel
}

// parsePayoutConfig translates the raw payout settings into the typed slab
// table consumed by the payout engine
func parsePayoutConfig(cfg config.PayoutConfig) (models.PayoutConfig, error) {
	var slabs []models.PayoutSlab
	for _, part := range strings.Split(cfg.SlabTable, ",") {
		fields := strings.Split(strings.TrimSpace(part), ":")
		if len(fields) != 3 {
			return models.PayoutConfig{}, fmt.Errorf("malformed slab %q, want min:max:rate", part)
		}

		min, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return models.PayoutConfig{}, fmt.Errorf("malformed slab min %q: %w", fields[0], err)
		}

		// An empty max marks the open-ended top slab
		max := math.Inf(1)
		if fields[1] != "" {
			max, err = strconv.ParseFloat(fields[1], 64)
			if err != nil {
				return models.PayoutConfig{}, fmt.Errorf("malformed slab max %q: %w", fields[1], err)
			}
		}

		rate, err := decimal.NewFromString(fields[2])
		if err != nil {
			return models.PayoutConfig{}, fmt.Errorf("malformed slab rate %q: %w", fields[2], err)
		}

		slabs = append(slabs, models.PayoutSlab{Min: min, Max: max, Rate: rate})
	}

	topRate, err := decimal.NewFromString(cfg.TopRate)
	if err != nil {
		return models.PayoutConfig{}, fmt.Errorf("malformed top rate %q: %w", cfg.TopRate, err)
	}

	var targets []float64
	for _, part := range strings.Split(cfg.Targets, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		target, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return models.PayoutConfig{}, fmt.Errorf("malformed target %q: %w", part, err)
		}
		targets = append(targets, target)
	}

	payoutCfg := models.PayoutConfig{
		Slabs:   slabs,
		TopRate: topRate,
		Targets: targets,
	}
	if err := payoutCfg.Validate(); err != nil {
		return models.PayoutConfig{}, fmt.Errorf("invalid payout configuration: %w", err)
	}

	return payoutCfg, nil
}

// initializeApplication initializes the main application components
func initializeApplication(cfg *config.ProductionConfig) (*Application, error) {
	var stopFuncs []func()

	// Initialize database
	db, err := initializeDatabase(cfg.Database)
	if err != nil {
		return nil, err
	}

	if err := runMigrations(db); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	rc, err := initializeCache(cfg.Cache, cfg.Deployment.RedisPassword)
	if err != nil {
		return nil, err
	}
	if rc != nil {
		cancel := startCacheHealthMonitor(context.Background(), rc, cfg.Cache.CleanupInterval)
		stopFuncs = append(stopFuncs, cancel)
	}

	// Parse payout settings before anything depends on them
	payoutCfg, err := parsePayoutConfig(cfg.Payout)
	if err != nil {
		return nil, err
	}

	// Ensure reference data exists
	if err := ensureReferenceData(db); err != nil {
		return nil, err
	}

	// Initialize repositories
	entryRepo := repository.NewAllocationEntryRepository(db)
	historyRepo := repository.NewEditHistoryRepository(db)
	processRepo := repository.NewProcessRepository(db)
	rateRepo := repository.NewBillingRateRepository(db)
	actionRepo := repository.NewActionLogRepository(db)
	deleteRequestRepo := repository.NewDeleteRequestRepository(db)

	// Initialize token service
	tokenService, err := services.NewTokenService(
		cfg.JWT.AccessTokenTTL,
		cfg.JWT.RefreshTokenTTL,
		cfg.JWT.Issuer,
		cfg.JWT.Audience,
		cfg.JWT.UseRSAKeys,
		cfg.JWT.PrivateKey,
		cfg.JWT.PublicKey,
		cfg.JWT.SecretKey,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token service: %w", err)
	}

	log.Printf("Token service initialized with issuer: %s, audience: %s", cfg.JWT.Issuer, cfg.JWT.Audience)

	// Initialize flows
	ledgerFlow := businessflow.NewLedgerFlow(
		entryRepo,
		historyRepo,
		processRepo,
		rateRepo,
		actionRepo,
		db,
	)

	deleteRequestFlow := businessflow.NewDeleteRequestFlow(
		entryRepo,
		deleteRequestRepo,
		actionRepo,
		db,
	)

	payoutFlow := businessflow.NewPayoutFlow(
		entryRepo,
		processRepo,
		actionRepo,
		payoutCfg,
		cfg.Payout.HoursPerDay,
		&cfg.Cache,
		rc,
	)

	// Initialize handlers
	ledgerHandler := handlers.NewLedgerHandler(ledgerFlow)
	deleteRequestHandler := handlers.NewDeleteRequestHandler(deleteRequestFlow)
	payoutHandler := handlers.NewPayoutHandler(payoutFlow)

	// Initialize auth middleware
	authMiddleware := middleware.NewAuthMiddleware(tokenService)

	// Initialize router
	appRouter := router.NewFiberRouter(
		ledgerHandler,
		deleteRequestHandler,
		payoutHandler,
		authMiddleware,
	)

	// Create application struct from FiberRouter
	fiberRouter := appRouter.(*router.FiberRouter)
	application := &Application{
		router:    fiberRouter,
		config:    cfg,
		stopFuncs: stopFuncs,
	}

	return application, nil
}

// seedProcessNames is the per-client process catalog installed on first boot.
// Operators own the rows afterwards; new deployments start from these.
var seedProcessNames = map[models.ClientType][]string{
	models.ClientTypeMRO:      {"Logging", "Complete Logging", "Correspondence", "Quality Review"},
	models.ClientTypeVerisma:  {"Logging", "Complete Logging", "Scanning"},
	models.ClientTypeDatavant: {"Logging", "Complete Logging", "Indexing"},
}

// seedRates maps request types to the default per-case billing rate used when
// the rate table is empty for a client
var seedRates = map[models.RequestType]string{
	models.RequestTypeNewRequest: "1.00",
	models.RequestTypeDuplicate:  "0.50",
	models.RequestTypeKey:        "0.75",
	models.RequestTypeFollowUp:   "0.25",
	models.RequestTypeBatch:      "0.40",
}

// ensureReferenceData seeds the process catalog and billing rate table for
// clients that have none yet
func ensureReferenceData(db *gorm.DB) error {
	ctx := context.Background()
	processRepo := repository.NewProcessRepository(db)
	rateRepo := repository.NewBillingRateRepository(db)

	for _, clientType := range models.AllClientTypes() {
		ct := clientType
		count, err := processRepo.Count(ctx, models.ProcessFilter{ClientType: &ct})
		if err != nil {
			return fmt.Errorf("failed to count processes for %s: %w", ct, err)
		}
		if count > 0 {
			continue
		}

		profile, ok := models.ProfileFor(ct)
		if !ok {
			continue
		}

		var processes []*models.Process
		for _, name := range seedProcessNames[ct] {
			isLogging, isCompleteLogging := models.ClassifyProcessName(name)
			processes = append(processes, &models.Process{
				ClientType:        ct,
				Name:              name,
				IsLogging:         isLogging,
				IsCompleteLogging: isCompleteLogging,
			})
		}
		if err := processRepo.SaveBatch(ctx, processes); err != nil {
			return fmt.Errorf("failed to seed processes for %s: %w", ct, err)
		}

		var rates []*models.BillingRate
		for _, process := range processes {
			for _, requestType := range profile.RequestTypes {
				raw, ok := seedRates[requestType]
				if !ok {
					continue
				}
				rates = append(rates, &models.BillingRate{
					ClientType:  ct,
					ProcessID:   process.ID,
					RequestType: requestType,
					Rate:        decimal.RequireFromString(raw),
				})
			}
		}
		if err := rateRepo.SaveBatch(ctx, rates); err != nil {
			return fmt.Errorf("failed to seed billing rates for %s: %w", ct, err)
		}

		log.Printf("Seeded %d processes and %d billing rates for client %s", len(processes), len(rates), ct)
	}

	return nil
}
