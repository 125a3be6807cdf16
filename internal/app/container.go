package app

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/parkorbit/parking-spot-backend/internal/api"
	"github.com/parkorbit/parking-spot-backend/internal/auth"
	"github.com/parkorbit/parking-spot-backend/internal/booking"
	"github.com/parkorbit/parking-spot-backend/internal/payment"
	"github.com/parkorbit/parking-spot-backend/internal/pkg/metrics"
	"github.com/parkorbit/parking-spot-backend/internal/pkg/storage"
	"github.com/parkorbit/parking-spot-backend/internal/reconcile"
	"github.com/parkorbit/parking-spot-backend/internal/spot"
	"github.com/parkorbit/parking-spot-backend/internal/user"
)

// Config holds the dependencies and settings required to start the application.
type Config struct {
	IsProduction      bool
	ProdOrigins       string
	DBPool            *pgxpool.Pool
	JWTSecret         string
	JWTTTL            time.Duration
	BcryptCost        int
	UploadDir         string
	PublicBaseURL     string
	RateLimitRPS      float64
	RateLimitBurst    int
	ReconcileInterval time.Duration
	CheckoutURL       string
	CheckoutAPIKey    string
	Logger            zerolog.Logger
	Registry          prometheus.Registerer
}

// Container holds the initialized components that are needed externally.
type Container struct {
	Router     *gin.Engine
	JWTManager *auth.JWTManager
	Sweeper    *reconcile.Sweeper
}

// NewContainer initializes all modules and returns the container.
func NewContainer(cfg Config) (*Container, error) {
	// Init Components
	passwordHasher := auth.NewBcryptPasswordHasherWithCost(cfg.BcryptCost)
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)

	registry := cfg.Registry
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}
	appMetrics := metrics.New(registry)

	store, err := storage.NewLocalStorage(cfg.UploadDir)
	if err != nil {
		return nil, err
	}
	images := storage.NewImageProcessor()

	// User Module
	userRepo := user.NewPgxRepository(cfg.DBPool)
	userService := user.NewService(userRepo, passwordHasher)

	// Spot Module
	spotRepo := spot.NewPgxRepository(cfg.DBPool)
	spotService := spot.NewService(spotRepo)

	// Booking Module
	bookingRepo := booking.NewPgxRepository(cfg.DBPool)
	bookingService := booking.NewService(bookingRepo, spotService, cfg.Logger, appMetrics)

	// Payment Module
	checkout := payment.NewHTTPCheckoutClient(cfg.CheckoutURL, cfg.CheckoutAPIKey)

	// Reconciliation sweep
	sweeper := reconcile.NewSweeper(
		reconcile.NewPgxSource(cfg.DBPool),
		cfg.ReconcileInterval,
		cfg.Logger,
		appMetrics,
	)

	router := api.NewRouter(api.Config{
		IsProduction:   cfg.IsProduction,
		ProdOrigins:    cfg.ProdOrigins,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
		UploadDir:      cfg.UploadDir,
		PublicBaseURL:  cfg.PublicBaseURL,
		UserService:    userService,
		SpotService:    spotService,
		BookingService: bookingService,
		Checkout:       checkout,
		Store:          store,
		Images:         images,
		JWTManager:     jwtManager,
		Logger:         cfg.Logger,
	})

	return &Container{
		Router:     router,
		JWTManager: jwtManager,
		Sweeper:    sweeper,
	}, nil
}
