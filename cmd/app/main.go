package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	jwtware "github.com/gofiber/jwt/v2"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"

	"github.com/wichananm65/estote-backend/internal/auth"
	"github.com/wichananm65/estote-backend/internal/cart"
	"github.com/wichananm65/estote-backend/internal/config"
	"github.com/wichananm65/estote-backend/internal/good"
	"github.com/wichananm65/estote-backend/internal/infrastructure/database"
	"github.com/wichananm65/estote-backend/internal/infrastructure/database/inmemory"
	"github.com/wichananm65/estote-backend/internal/infrastructure/database/postgres"
	"github.com/wichananm65/estote-backend/internal/logger"
	"github.com/wichananm65/estote-backend/internal/metrics"
	"github.com/wichananm65/estote-backend/internal/order"
	"github.com/wichananm65/estote-backend/internal/user"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	log, err := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, File: cfg.LogFile})
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	if err := run(cfg, log); err != nil {
		log.Error("shop stopped", "error", err)
		os.Exit(1)
	}
}

type stores struct {
	goods  good.Repository
	users  user.Repository
	carts  cart.Repository
	orders order.Repository
	tx     database.Transactor
}

func run(cfg config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, closeDB, err := openStores(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeDB()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	cartOpts := []cart.Option{
		cart.WithMetrics(m),
		cart.WithMissingGoodPolicy(cart.ParseMissingGoodPolicy(cfg.MissingGoodPolicy)),
	}
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Warn("redis unreachable, cart views are not cached", "addr", cfg.RedisAddr, "error", err)
		} else {
			cartOpts = append(cartOpts, cart.WithCache(cart.NewRedisViewCache(rdb, cfg.CartCacheTTL)))
		}
	}

	var publisher order.Publisher = order.NopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		kp := order.NewKafkaPublisher(cfg.KafkaOrderTopic, cfg.KafkaBrokers...)
		defer kp.Close()
		publisher = kp
	}

	userService := user.NewService(st.users)
	details := auth.NewDetailService(userService)
	goodService := good.NewService(st.goods)
	cartService := cart.NewService(st.carts, goodService, userService, cartOpts...)
	orderService := order.NewService(st.orders, cartService, userService, st.tx, publisher, m)

	authHandler := auth.NewHandler(auth.NewAuthenticator(details, m), auth.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL), userService)
	goodHandler := good.NewHandler(goodService)
	cartHandler := cart.NewHandler(cartService)
	orderHandler := order.NewHandler(orderService)

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New())
	setupCORS(app)

	app.Get("/metrics", metrics.Handler(reg))
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.SendString("ok") })

	authHandler.RegisterPublicRoutes(app)
	goodHandler.RegisterPublicRoutes(app)

	app.Use(jwtware.New(jwtware.Config{
		SigningKey: []byte(cfg.JWTSecret),
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
		},
	}))
	app.Use(auth.LoadPrincipal(details))

	authHandler.RegisterProtectedRoutes(app)
	goodHandler.RegisterProtectedRoutes(app, auth.RequireAuthority(user.RoleAdmin))
	cartHandler.RegisterProtectedRoutes(app)
	orderHandler.RegisterProtectedRoutes(app)

	errCh := make(chan error, 1)
	go func() {
		log.Info("shop listening", "addr", cfg.Addr)
		errCh <- app.Listen(cfg.Addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	log.Info("shutting down")
	return app.ShutdownWithContext(shutdownCtx)
}

// openStores connects to Postgres when DATABASE_URL is set and falls back to
// in-memory stores otherwise.
func openStores(ctx context.Context, cfg config.Config, log *slog.Logger) (stores, func(), error) {
	if cfg.DatabaseURL == "" {
		log.Warn("DATABASE_URL is not set, using in-memory stores")
		return stores{
			goods:  good.NewInMemoryRepository(demoGoods()),
			users:  user.NewInMemoryRepository(nil),
			carts:  cart.NewInMemoryRepository(nil),
			orders: order.NewInMemoryRepository(),
			tx:     inmemory.NewTransactor(),
		}, func() {}, nil
	}

	db, err := postgres.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return stores{}, nil, err
	}
	if err := postgres.Migrate(db); err != nil {
		db.Close()
		return stores{}, nil, err
	}
	return postgresStores(db), func() {
		if err := db.Close(); err != nil && !errors.Is(err, sql.ErrConnDone) {
			log.Error("close database", "error", err)
		}
	}, nil
}

func postgresStores(db *sql.DB) stores {
	return stores{
		goods:  good.NewPostgresRepository(db),
		users:  user.NewPostgresRepository(db),
		carts:  cart.NewPostgresRepository(db),
		orders: order.NewPostgresRepository(db),
		tx:     postgres.NewTransactor(db),
	}
}

func demoGoods() []good.Good {
	return []good.Good{
		{ID: 1, Name: "Notebook", CostBeforeSale: 120, Sale: 100},
		{ID: 2, Name: "Fountain pen", CostBeforeSale: 900, Sale: 80},
		{ID: 3, Name: "Desk lamp", CostBeforeSale: 1500, Sale: 50},
	}
}

func setupCORS(app *fiber.App) {
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
}
