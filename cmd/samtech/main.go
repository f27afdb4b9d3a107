package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"

	"samtech/internal/assets"
	"samtech/internal/config"
	"samtech/internal/http/handlers"
	applog "samtech/internal/log"
	"samtech/internal/pubsub"
	"samtech/internal/repos"
	"samtech/internal/repos/mongostore"
	"samtech/internal/services"
)

func main() {
	cfg := config.Load()

	// Optional file logging
	var out io.Writer = os.Stdout
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			defer f.Close()
			out = io.MultiWriter(os.Stdout, f)
		}
	}
	applog.Init(cfg.LogLevel, out)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stores, closeStores, err := openStores(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer closeStores()

	assetStore, media, err := openAssets(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}

	broker, closeBroker, err := openBroker(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer closeBroker()

	// Services
	tokens := services.NewTokens(cfg.JWTSecret)
	images := services.NewImageManager(assetStore)
	svc := handlers.Services{
		Catalog:  services.NewCatalogService(stores.Products, stores.Carts, images),
		Events:   services.NewEventService(stores.Events, images),
		Blogs:    services.NewBlogService(stores.Blogs),
		Careers:  services.NewCareerService(stores.Careers, images),
		Messages: services.NewMessageService(stores.Messages, broker),
		Carts:    services.NewCartService(stores.Carts, stores.Products, cfg.CartTTL),
		Orders:   services.NewOrderService(stores.Carts, stores.Orders),
		Auth:     services.NewAuthService(stores.Customers, tokens),
		Admins:   services.NewAdminService(stores.Admins, tokens),
	}
	if err := svc.Admins.EnsureSeed(ctx, cfg.AdminUsername, cfg.AdminPassword); err != nil {
		log.Fatalf("seed admin: %v", err)
	}

	app := fiber.New(fiber.Config{
		BodyLimit:    cfg.BodyLimit,
		ErrorHandler: handlers.ErrorHandler,
	})

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(logger.New(logger.Config{Output: out}))
	app.Use(helmet.New(helmet.Config{CrossOriginResourcePolicy: "cross-origin"}))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowCredentials: cfg.AllowedOrigins != "*",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(limiter.New(limiter.Config{
		Max:        300,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			p := string(c.Request().URI().Path())
			return strings.HasPrefix(p, "/media/") || strings.HasSuffix(p, "/stream/updates")
		},
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.global.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "rate limit exceeded, retry soon"})
		},
	}))

	deps := handlers.NewDeps(svc, media, cfg.Production())
	deps.MessageHandler.Lifetime = cfg.StreamLifetime
	handlers.Mount(app, deps, handlers.RouteOptions{LoginMax: 5, LoginWindow: 10 * time.Minute})

	// ---------- Background ----------
	var wg sync.WaitGroup
	sweeper := services.NewCartSweeper(stores.Carts, cfg.SweepInterval)
	wg.Add(1)
	go func() {
		defer wg.Done()
		sweeper.Run(ctx)
	}()

	go func() {
		<-ctx.Done()
		applog.Info(nil, "server.shutdown", nil)
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			applog.Error(nil, "server.shutdown.fail", err, nil)
		}
	}()

	applog.Info(nil, "server.start", map[string]any{"port": cfg.Port, "db": cfg.DBDriver, "assets": cfg.AssetStore})
	if err := app.Listen(":" + cfg.Port); err != nil {
		applog.Error(nil, "server.listen.fail", err, nil)
	}
	stop()
	wg.Wait()
}

func openStores(ctx context.Context, cfg config.Config) (services.Stores, func(), error) {
	switch cfg.DBDriver {
	case "mongo":
		client, db, err := mongostore.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return services.Stores{}, nil, err
		}
		closer := func() {
			sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = client.Disconnect(sctx)
		}
		return services.Stores{
			Products:  mongostore.NewProductStore(db),
			Carts:     mongostore.NewCartStore(db),
			Orders:    mongostore.NewOrderStore(db),
			Events:    mongostore.NewEventStore(db),
			Blogs:     mongostore.NewBlogStore(db),
			Careers:   mongostore.NewCareerStore(db),
			Messages:  mongostore.NewMessageStore(db),
			Customers: mongostore.NewCustomerStore(db),
			Admins:    mongostore.NewAdminStore(db),
		}, closer, nil
	case "sqlite", "":
		db, err := repos.OpenDB(cfg.DBDSN)
		if err != nil {
			return services.Stores{}, nil, err
		}
		return services.Stores{
			Products:  repos.NewProductRepo(db),
			Carts:     repos.NewCartRepo(db),
			Orders:    repos.NewOrderRepo(db),
			Events:    repos.NewEventRepo(db),
			Blogs:     repos.NewBlogRepo(db),
			Careers:   repos.NewCareerRepo(db),
			Messages:  repos.NewMessageRepo(db),
			Customers: repos.NewCustomerRepo(db),
			Admins:    repos.NewAdminRepo(db),
		}, func() { _ = db.Close() }, nil
	default:
		return services.Stores{}, nil, fmt.Errorf("unknown DB_DRIVER %q", cfg.DBDriver)
	}
}

// openAssets returns the asset store and, for local storage, the same store
// so /media can serve it.
func openAssets(ctx context.Context, cfg config.Config) (assets.Store, *assets.Local, error) {
	switch cfg.AssetStore {
	case "s3":
		s, err := assets.NewS3(ctx, assets.S3Config{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			PublicURL: cfg.S3PublicURL,
		})
		return s, nil, err
	case "local", "":
		mediaDir := cfg.MediaDir
		if !filepath.IsAbs(mediaDir) {
			if abs, err := filepath.Abs(mediaDir); err == nil {
				mediaDir = abs
			}
		}
		log.Printf("[static] /media -> %s", mediaDir)
		local, err := assets.NewLocal(mediaDir, "/media")
		return local, local, err
	default:
		return nil, nil, fmt.Errorf("unknown ASSET_STORE %q", cfg.AssetStore)
	}
}

func openBroker(ctx context.Context, cfg config.Config) (pubsub.Broker, func(), error) {
	if cfg.RedisAddr == "" {
		return pubsub.NewMemory(), func() {}, nil
	}
	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("redis %s: %w", cfg.RedisAddr, err)
	}
	return pubsub.NewRedis(client), func() { _ = client.Close() }, nil
}
