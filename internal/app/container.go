package app

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nekogravitycat/spot-booking-backend/internal/api"
	"github.com/nekogravitycat/spot-booking-backend/internal/auth"
	"github.com/nekogravitycat/spot-booking-backend/internal/booking"
	"github.com/nekogravitycat/spot-booking-backend/internal/file"
	"github.com/nekogravitycat/spot-booking-backend/internal/pkg/ratelimit"
	"github.com/nekogravitycat/spot-booking-backend/internal/pkg/storage"
	"github.com/nekogravitycat/spot-booking-backend/internal/review"
	"github.com/nekogravitycat/spot-booking-backend/internal/spot"
	"github.com/nekogravitycat/spot-booking-backend/internal/user"
	"github.com/redis/go-redis/v9"
)

// Config holds the dependencies and settings required to start the application.
type Config struct {
	IsProduction   bool
	ProdOrigins    []string
	DBPool         *pgxpool.Pool
	JWTSecret      string
	JWTTTL         time.Duration
	BcryptCost     int
	StoragePath    string
	MaxUploadBytes int64

	// Redis is optional; nil disables rate limiting.
	Redis           *redis.Client
	RateLimit       int
	RateLimitWindow time.Duration

	Logger *slog.Logger
}

// Container holds the initialized components that are needed externally.
type Container struct {
	Router     *gin.Engine
	JWTManager *auth.JWTManager
}

// NewContainer initializes all modules and returns the container.
func NewContainer(cfg Config) (*Container, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	// Init Components
	passwordHasher := auth.NewBcryptPasswordHasher(cfg.BcryptCost)
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)

	store, err := storage.NewLocalStorage(cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}

	// User Module
	userRepo := user.NewPgxRepository(cfg.DBPool)
	userService := user.NewService(userRepo, passwordHasher, logger)

	// Spot Module
	spotRepo := spot.NewPgxRepository(cfg.DBPool)
	spotService := spot.NewService(spotRepo, logger)

	// Review Module
	reviewRepo := review.NewPgxRepository(cfg.DBPool)
	reviewService := review.NewService(reviewRepo, logger)

	// Booking Module
	bookingRepo := booking.NewPgxRepository(cfg.DBPool)
	bookingService := booking.NewService(bookingRepo, logger)

	// File Module
	fileRepo := file.NewRepository(cfg.DBPool)
	fileService := file.NewService(fileRepo, store, cfg.MaxUploadBytes, logger)

	var limiter ratelimit.Limiter
	if cfg.Redis != nil && cfg.RateLimit > 0 {
		limiter = ratelimit.NewRedisLimiter(cfg.Redis, cfg.RateLimit, cfg.RateLimitWindow)
	}

	// API Router Config
	routerParams := api.Config{
		IsProduction:   cfg.IsProduction,
		ProdOrigins:    cfg.ProdOrigins,
		MaxUploadBytes: cfg.MaxUploadBytes,
		UserService:    userService,
		SpotService:    spotService,
		ReviewService:  reviewService,
		BookingService: bookingService,
		FileService:    fileService,
		JWTManager:     jwtManager,
		Limiter:        limiter,
		Logger:         logger,
	}
	if cfg.DBPool != nil {
		routerParams.DB = cfg.DBPool
	}

	return &Container{
		Router:     api.NewRouter(routerParams),
		JWTManager: jwtManager,
	}, nil
}
