package api

import (
	"net/http"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/parkorbit/parking-spot-backend/internal/auth"
	"github.com/parkorbit/parking-spot-backend/internal/booking"
	bookingHttp "github.com/parkorbit/parking-spot-backend/internal/booking/http"
	"github.com/parkorbit/parking-spot-backend/internal/payment"
	paymentHttp "github.com/parkorbit/parking-spot-backend/internal/payment/http"
	"github.com/parkorbit/parking-spot-backend/internal/pkg/storage"
	"github.com/parkorbit/parking-spot-backend/internal/spot"
	spotHttp "github.com/parkorbit/parking-spot-backend/internal/spot/http"
	"github.com/parkorbit/parking-spot-backend/internal/user"
	userHttp "github.com/parkorbit/parking-spot-backend/internal/user/http"
)

// Config carries everything the router needs to assemble middleware and
// register the module routes.
type Config struct {
	IsProduction   bool
	ProdOrigins    string
	RateLimitRPS   float64
	RateLimitBurst int
	UploadDir      string
	PublicBaseURL  string

	UserService    user.Service
	SpotService    spot.Service
	BookingService booking.Service
	Checkout       payment.CheckoutClient
	Store          storage.Storage
	Images         *storage.ImageProcessor
	JWTManager     *auth.JWTManager
	Logger         zerolog.Logger
}

// NewRouter initializes the HTTP router engine.
// It assembles middleware (logging, recovery, CORS, rate limiting) and
// registers routes for the modules.
func NewRouter(cfg Config) *gin.Engine {
	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(RequestLogger(cfg.Logger), gin.Recovery())

	// Configure CORS (Cross-Origin Resource Sharing).
	corsConfig := cors.DefaultConfig()
	if cfg.IsProduction && cfg.ProdOrigins != "" {
		corsConfig.AllowOrigins = strings.Split(cfg.ProdOrigins, ",")
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	r.Use(cors.New(corsConfig))

	r.Use(RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst))

	// Operational endpoints.
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Uploaded spot photos are served straight from local storage.
	if cfg.UploadDir != "" {
		r.Static("/uploads", cfg.UploadDir)
	}

	// authMiddleware: validates the bearer token.
	authMiddleware := auth.AuthRequired(cfg.JWTManager)
	// adminMiddleware: further requires the admin role claim.
	adminMiddleware := auth.RequireAdmin()

	userHandler := userHttp.NewHandler(cfg.UserService, cfg.JWTManager, cfg.Logger)
	spotHandler := spotHttp.NewHandler(cfg.SpotService, cfg.Store, cfg.Images, cfg.PublicBaseURL, cfg.Logger)
	bookingHandler := bookingHttp.NewHandler(cfg.BookingService, cfg.Logger)
	paymentHandler := paymentHttp.NewHandler(cfg.BookingService, cfg.SpotService, cfg.Checkout, cfg.Logger)

	// Register API routes under /v1
	v1 := r.Group("/v1")
	{
		userHttp.RegisterRoutes(v1, userHandler, authMiddleware)
		spotHttp.RegisterRoutes(v1, spotHandler, authMiddleware, adminMiddleware)
		bookingHttp.RegisterRoutes(v1, bookingHandler, authMiddleware, adminMiddleware)
		paymentHttp.RegisterRoutes(v1, paymentHandler, authMiddleware)
	}

	return r
}
