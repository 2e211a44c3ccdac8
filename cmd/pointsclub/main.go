package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rookgm/pointsclub/config"
	"github.com/rookgm/pointsclub/internal/auth"
	"github.com/rookgm/pointsclub/internal/catalog"
	handler "github.com/rookgm/pointsclub/internal/handler/http"
	"github.com/rookgm/pointsclub/internal/logger"
	"github.com/rookgm/pointsclub/internal/middleware"
	"github.com/rookgm/pointsclub/internal/models"
	"github.com/rookgm/pointsclub/internal/repository"
	"github.com/rookgm/pointsclub/internal/repository/memory"
	"github.com/rookgm/pointsclub/internal/repository/postgres"
	"github.com/rookgm/pointsclub/internal/service"
	"github.com/rookgm/pointsclub/internal/worker"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

type storage struct {
	loyalty service.LoyaltyRepository
	orders  service.OrderRepository
	close   func()
}

// newStorage opens postgres storage, in-memory one if dsn is empty
func newStorage(ctx context.Context, dsn string) (*storage, error) {
	if dsn == "" {
		logger.Log.Warn("database DSN is empty, data is kept in memory only")
		store := memory.New()
		return &storage{loyalty: store, orders: store, close: func() {}}, nil
	}

	// initialize database
	db, err := postgres.New(ctx, dsn)
	if err != nil {
		return nil, err
	}

	// migrate database
	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, err
	}

	return &storage{
		loyalty: repository.NewLoyaltyRepository(db),
		orders:  repository.NewOrderRepository(db),
		close:   db.Close,
	}, nil
}

func main() {

	// create new config
	cfg, err := config.New()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	// initialize logger
	if err := logger.Initialize(cfg.LogLevel); err != nil {
		log.Fatalf("Error initializing logger: %v", err)
	}
	defer logger.Log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	products, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		logger.Log.Fatal("Error loading catalog", zap.String("path", cfg.CatalogPath), zap.Error(err))
	}

	store, err := newStorage(ctx, cfg.DatabaseDSN)
	if err != nil {
		logger.Log.Fatal("Error initializing database", zap.Error(err))
	}
	defer store.close()

	tokenKey, generated, err := auth.SigningKey(cfg.AuthTokenKey)
	if err != nil {
		logger.Log.Fatal("Error extracting token key", zap.Error(err))
	}
	if generated {
		logger.Log.Warn("auth token key is not set, using a random key, admin sessions end on restart")
	}
	token := auth.NewAuthToken(tokenKey)

	// admin routes accept tokens of this login only, none if login is disabled
	adminLogin := cfg.AdminLogin
	if cfg.AdminPasswordHash == "" {
		logger.Log.Warn("admin password hash is not set, admin login is disabled")
		adminLogin = ""
	}

	// dependency injection
	// auth
	authService := service.NewAuthService(models.Admin{
		Login:        cfg.AdminLogin,
		PasswordHash: cfg.AdminPasswordHash,
	}, token)
	authHandler := handler.NewAuthHandler(authService)

	// loyalty
	loyaltyService := service.NewLoyaltyService(store.loyalty, time.Now)
	loyaltyHandler := handler.NewLoyaltyHandler(loyaltyService)

	// order
	orderService := service.NewOrderService(store.orders, loyaltyService, products, service.CheckoutOptions{
		WhatsAppNumber: cfg.WhatsAppNumber,
		DeliveryFee:    cfg.DeliveryFee,
	})
	orderHandler := handler.NewOrderHandler(orderService)

	// products
	productHandler := handler.NewProductHandler(products)

	router := chi.NewRouter()

	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logging(logger.Log))

	router.Get("/api/products", productHandler.ListProducts())
	router.Post("/api/orders", orderHandler.Checkout())
	router.Get("/api/loyalty/{phone}", loyaltyHandler.LookupAccount())
	router.Post("/api/admin/login", authHandler.LoginAdmin())

	// routes that require authentication
	router.Group(func(group chi.Router) {
		group.Use(handler.AuthMiddleware(token, adminLogin))
		group.Get("/api/admin/orders", orderHandler.ListOrders())
		group.Post("/api/admin/orders/{id}/approve", orderHandler.ApproveOrder())
		group.Post("/api/admin/orders/{id}/loyalty", orderHandler.RecordOrderLoyalty())
		group.Post("/api/admin/orders/{id}/reject", orderHandler.RejectOrder())
		group.Delete("/api/admin/orders/{id}", orderHandler.DeleteOrder())
		group.Get("/api/admin/loyalty", loyaltyHandler.ListAccounts())
		group.Get("/api/admin/loyalty/closures", loyaltyHandler.ListClosures())
		group.Post("/api/admin/loyalty/{phone}/redeem", loyaltyHandler.RedeemReward())
		group.Post("/api/admin/loyalty/{phone}/reset", loyaltyHandler.ResetCycle())
	})

	server := &http.Server{
		Addr:    cfg.ServerAddr,
		Handler: router,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Log.Info("Running server", zap.String("addr", cfg.ServerAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		worker.NewExpiryReporter(loyaltyService, cfg.ExpiryReportInterval).Run(gctx)
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Log.Info("Shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Log.Error("Server stopped with error", zap.Error(err))
	}
}
