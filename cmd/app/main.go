package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	jsoniter "github.com/json-iterator/go"
	"github.com/shopspring/decimal"
	"github.com/wichananm65/storefront/internal/address"
	"github.com/wichananm65/storefront/internal/cart"
	"github.com/wichananm65/storefront/internal/category"
	"github.com/wichananm65/storefront/internal/config"
	"github.com/wichananm65/storefront/internal/copywriter"
	"github.com/wichananm65/storefront/internal/database"
	"github.com/wichananm65/storefront/internal/jobs"
	"github.com/wichananm65/storefront/internal/logger"
	"github.com/wichananm65/storefront/internal/navigation"
	"github.com/wichananm65/storefront/internal/order"
	"github.com/wichananm65/storefront/internal/payment"
	"github.com/wichananm65/storefront/internal/product"
	"github.com/wichananm65/storefront/internal/recommended"
	"github.com/wichananm65/storefront/internal/review"
	"github.com/wichananm65/storefront/internal/session"
	"github.com/wichananm65/storefront/internal/user"
	"github.com/wichananm65/storefront/internal/wishlist"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const uploadDir = "./uploads"

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	log, err := logger.Init(cfg.LogMode, cfg.LogFile)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is not set")
	}
	decimal.MarshalJSONWithoutQuotes = true

	db := mustOpenDB(cfg.DatabaseURL)
	defer db.Close()

	revocations, err := session.OpenBoltRevocations(cfg.SessionStorePath)
	if err != nil {
		log.Fatal("open session store", zap.Error(err))
	}
	defer revocations.Close()

	json := jsoniter.ConfigCompatibleWithStandardLibrary
	app := fiber.New(fiber.Config{
		JSONEncoder: json.Marshal,
		JSONDecoder: json.Unmarshal,
	})
	app.Use(logger.Middleware(log))
	setupCORS(app, cfg.CORSOrigins)

	issuer := session.NewIssuer(cfg.JWTSecret, cfg.JWTTTL)

	productService := product.NewService(product.NewPostgresRepository(db))
	seedCatalog(productService)
	productHandler := product.NewHandler(productService, cfg.AllowResetProducts)

	categoryHandler := category.NewHandler(category.NewService(category.NewPostgresRepository(db)))

	addressService := address.NewService(address.NewPostgresRepository(db))
	addressHandler := address.NewHandler(addressService)

	cartService := cart.NewService(cart.NewPostgresRepository(db), productService)
	cartHandler := cart.NewHandler(cartService)

	wishlistHandler := wishlist.NewHandler(wishlist.NewService(wishlist.NewPostgresRepository(db), productService))

	gateway := payment.NewSimulatedGateway(cfg.PaymentDelay, cfg.PaymentDeclineAbove)
	orderService := order.NewService(order.NewPostgresRepository(db), cartService, gateway, cfg.TaxRate, cfg.CheckoutTimeout)
	orderHandler := order.NewHandler(orderService)

	router := navigation.NewRouter(productService)
	navigationHandler := navigation.NewHandler(router, session.Optional(issuer, revocations))

	resets := user.NewPostgresResetStore(db)
	userService := user.NewService(user.NewPostgresRepository(db), addressService, issuer, revocations, resets, cfg.ResetTokenTTL)
	if err := userService.EnsureAdmin(cfg.AdminName, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		log.Fatal("bootstrap admin", zap.Error(err))
	}
	userHandler := user.NewHandler(userService, router, uploadDir)

	ledger := review.NewLedger(review.NewPostgresRepository(db), orderService, userService)
	reviewHandler := review.NewHandler(ledger)
	recommendedHandler := recommended.NewHandler(recommended.NewService(productService, ledger))

	copyHandler := copywriter.NewHandler(copywriter.New(copywriter.Config{
		APIKey:   cfg.AIAPIKey,
		Endpoint: cfg.AIEndpoint,
		Model:    cfg.AIModel,
		Timeout:  cfg.AITimeout,
	}))

	// public routes must be registered before the jwt middleware
	app.Static("/uploads", uploadDir)
	userHandler.RegisterPublicRoutes(app)
	recommendedHandler.RegisterPublicRoutes(app)
	categoryHandler.RegisterPublicRoutes(app)
	productHandler.RegisterPublicRoutes(app)
	reviewHandler.RegisterPublicRoutes(app)
	navigationHandler.RegisterPublicRoutes(app)

	app.Use(session.Protect(issuer, nil), session.RequireActive(revocations))

	userHandler.RegisterProtectedRoutes(app)
	cartHandler.RegisterProtectedRoutes(app)
	wishlistHandler.RegisterProtectedRoutes(app)
	addressHandler.RegisterProtectedRoutes(app)
	orderHandler.RegisterProtectedRoutes(app)
	reviewHandler.RegisterProtectedRoutes(app)

	admin := app.Group("/api/v1/admin", session.RequireAdmin())
	productHandler.RegisterAdminRoutes(admin)
	copyHandler.RegisterAdminRoutes(admin)
	orderHandler.RegisterAdminRoutes(admin)
	userHandler.RegisterAdminRoutes(admin)

	scheduler := jobs.New()
	if err := scheduler.AddPurge("revocations", "@every 10m", revocations); err != nil {
		log.Fatal("schedule revocation purge", zap.Error(err))
	}
	if err := scheduler.AddPurge("password-resets", "@hourly", resets); err != nil {
		log.Fatal("schedule reset purge", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("storefront listening", zap.String("addr", cfg.Addr))
		return app.Listen(cfg.Addr)
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		return app.ShutdownWithTimeout(10 * time.Second)
	})
	g.Go(func() error {
		return scheduler.Run(gctx)
	})
	if err := g.Wait(); err != nil {
		log.Error("server stopped", zap.Error(err))
	}
}

func setupCORS(app *fiber.App, origins string) {
	app.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
}

func mustOpenDB(url string) *sql.DB {
	db, err := database.Open(url)
	if err != nil {
		zap.L().Fatal("open database", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		zap.L().Fatal("migrate database", zap.Error(err))
	}
	return db
}

// seedCatalog loads the demo products into an empty catalog.
func seedCatalog(products *product.Service) {
	existing, err := products.List(product.Filter{})
	if err != nil {
		zap.L().Warn("check catalog", zap.Error(err))
		return
	}
	if len(existing) > 0 {
		return
	}
	if _, err := products.ResetProducts(product.SeedProducts()); err != nil {
		zap.L().Warn("seed catalog", zap.Error(err))
		return
	}
	zap.L().Info("seeded demo catalog", zap.Int("products", len(product.SeedProducts())))
}
