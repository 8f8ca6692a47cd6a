package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/nekogravitycat/spot-booking-backend/internal/auth"
	"github.com/nekogravitycat/spot-booking-backend/internal/booking"
	bookingHttp "github.com/nekogravitycat/spot-booking-backend/internal/booking/http"
	"github.com/nekogravitycat/spot-booking-backend/internal/file"
	fileHttp "github.com/nekogravitycat/spot-booking-backend/internal/file/http"
	"github.com/nekogravitycat/spot-booking-backend/internal/pkg/ratelimit"
	"github.com/nekogravitycat/spot-booking-backend/internal/pkg/request"
	"github.com/nekogravitycat/spot-booking-backend/internal/review"
	reviewHttp "github.com/nekogravitycat/spot-booking-backend/internal/review/http"
	"github.com/nekogravitycat/spot-booking-backend/internal/spot"
	spotHttp "github.com/nekogravitycat/spot-booking-backend/internal/spot/http"
	"github.com/nekogravitycat/spot-booking-backend/internal/user"
	userHttp "github.com/nekogravitycat/spot-booking-backend/internal/user/http"
)

// Pinger reports whether a backing service is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Config holds the services and settings the router is assembled from.
type Config struct {
	IsProduction   bool
	ProdOrigins    []string
	MaxUploadBytes int64

	UserService    user.Service
	SpotService    spot.Service
	ReviewService  review.Service
	BookingService booking.Service
	FileService    file.Service
	JWTManager     *auth.JWTManager

	// Limiter is optional; nil disables rate limiting.
	Limiter ratelimit.Limiter
	// DB is pinged by /healthz.
	DB Pinger
	// Logger is optional and defaults to slog.Default().
	Logger *slog.Logger
}

// NewRouter initializes the HTTP router engine.
// It is responsible for assembling middleware (CORS, Logger, Auth) and registering routes for various modules.
func NewRouter(cfg Config) *gin.Engine {
	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	request.UseJSONFieldNames()

	r := gin.New()

	// Global Middleware:
	// - RequestLogger: one structured line per request.
	// - Recovery: Captures panics to prevent server crashes and returns a 500 error.
	r.Use(RequestLogger(logger), Recovery(logger))
	r.Use(cors.New(corsConfig(cfg)))

	// The caller is recorded before rate limiting so that authenticated
	// clients are limited per user rather than per address.
	r.Use(auth.OptionalAuth(cfg.JWTManager), ratelimit.Middleware(cfg.Limiter))

	r.GET("/healthz", healthz(cfg.DB))

	// authMiddleware: Validates if the request contains a valid JWT.
	authMiddleware := auth.AuthRequired(cfg.JWTManager)

	// Initialize HTTP Handlers for each module (injecting Service dependencies).
	userHandler := userHttp.NewHandler(cfg.UserService, cfg.JWTManager)
	spotHandler := spotHttp.NewHandler(cfg.SpotService)
	reviewHandler := reviewHttp.NewHandler(cfg.ReviewService)
	bookingHandler := bookingHttp.NewHandler(cfg.BookingService)
	fileHandler := fileHttp.NewHandler(cfg.FileService, cfg.MaxUploadBytes)

	api := r.Group("")
	{
		userHttp.RegisterRoutes(api, userHandler, authMiddleware)
		spotHttp.RegisterRoutes(api, spotHandler, authMiddleware)
		reviewHttp.RegisterRoutes(api, reviewHandler, authMiddleware)
		bookingHttp.RegisterRoutes(api, bookingHandler, authMiddleware)
		fileHttp.RegisterRoutes(api, fileHandler, authMiddleware)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"message": "The requested resource couldn't be found."})
	})

	return r
}

// corsConfig is open in development and limited to ProdOrigins in production.
func corsConfig(cfg Config) cors.Config {
	config := cors.DefaultConfig()
	if cfg.IsProduction {
		config.AllowOrigins = cfg.ProdOrigins
	} else {
		config.AllowAllOrigins = true
	}
	config.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	config.ExposeHeaders = []string{"Retry-After", "X-RateLimit-Limit", "X-RateLimit-Remaining"}
	config.MaxAge = 12 * time.Hour
	return config
}

func healthz(db Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if db != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := db.Ping(ctx); err != nil {
				slog.WarnContext(ctx, "health check failed", "error", err)
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
