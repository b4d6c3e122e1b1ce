package main

import (
	"context"
	"expvar"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"time"

	"backoffice/internal/auth"
	"backoffice/internal/db"
	"backoffice/internal/domain/orders"
	"backoffice/internal/domain/storage"
	"backoffice/internal/mailer"
	"backoffice/internal/media"
	"backoffice/internal/notifications"
	"backoffice/internal/pricing"
	"backoffice/internal/ratelimiter"
	"backoffice/internal/sku"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
		fmt.Printf("Invalid %s, defaulting to %d\n", key, fallback)
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			return parsed
		}
		fmt.Printf("Invalid %s, defaulting to %t\n", key, fallback)
	}
	return fallback
}

// LoadRateLimiterConfig retrieves rate limiter settings from environment variables
func LoadRateLimiterConfig() ratelimiter.Config {
	return ratelimiter.Config{
		RequestsPerTimeFrame: getEnvInt("RATELIMITER_REQUESTS_COUNT", 20),
		TimeFrame:            time.Minute,
		Enabled:              getEnvBool("RATE_LIMITER_ENABLED", true),
	}
}

func loadConfig() config {
	return config{
		addr:        getEnv("ADDR", ":8080"),
		env:         getEnv("ENV", "development"),
		apiURL:      getEnv("EXTERNAL_URL", "localhost:8080"),
		frontendURL: getEnv("FRONTEND_URL", "http://localhost:5173"),
		db: dbConfig{
			host:         os.Getenv("DB_HOST"),
			port:         os.Getenv("DB_PORT"),
			user:         os.Getenv("DB_USER"),
			password:     os.Getenv("DB_PASSWORD"),
			name:         os.Getenv("DB_NAME"),
			sslMode:      os.Getenv("DB_SSLMODE"),
			maxOpenConns: getEnvInt("DB_MAX_OPEN_CONNS", 30),
			maxIdleTime:  getEnv("DB_MAX_IDLE_TIME", "15m"),
		},
		mail: mailConfig{
			host:      os.Getenv("SMTP_HOST"),
			port:      getEnvInt("SMTP_PORT", 587),
			user:      os.Getenv("SMTP_USER"),
			password:  os.Getenv("SMTP_PASSWORD"),
			fromEmail: os.Getenv("MAIL_FROM"),
		},
		auth: authConfig{
			basic: basicConfig{
				user: os.Getenv("AUTH_BASIC_USER"),
				pass: os.Getenv("AUTH_BASIC_PASS"),
			},
			token: tokenConfig{
				secret:          os.Getenv("AUTH_TOKEN_SECRET"),
				refreshSecret:   os.Getenv("AUTH_TOKEN_REFRESH_SECRET"),
				accessTokenExp:  time.Hour * 12,
				refreshTokenExp: time.Hour * 24 * 7,
				iss:             "backoffice",
			},
		},
		uploads: uploadConfig{
			dir:           getEnv("UPLOAD_DIR", "./uploads"),
			backend:       getEnv("IMAGE_BACKEND", "local"),
			cloudinaryURL: os.Getenv("CLOUDINARY_URL"),
		},
		shop: shopConfig{
			vatRate:         getEnv("VAT_RATE", "0.07"),
			skuPadWidth:     getEnvInt("SKU_PAD_WIDTH", sku.DefaultWidth),
			orderNumberSalt: getEnv("ORDER_NUMBER_SALT", "backoffice"),
		},
		rateLimiter: LoadRateLimiterConfig(),
	}
}

// NewLogger creates a new zap logger with color.
func NewLogger() (*zap.SugaredLogger, error) {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder

	consoleEncoder := zapcore.NewConsoleEncoder(encoderCfg)
	core := zapcore.NewCore(consoleEncoder, zapcore.AddSync(os.Stdout), zapcore.InfoLevel)

	return zap.New(core).Sugar(), nil
}

// newImageStore picks the image backend. Local disk is the default and
// matches the /uploads/products/{SKU}.{ext} convention.
func newImageStore(cfg uploadConfig) (media.ImageStore, error) {
	switch cfg.backend {
	case "cloudinary":
		cld, err := cloudinary.NewFromURL(cfg.cloudinaryURL)
		if err != nil {
			return nil, fmt.Errorf("cloudinary: %w", err)
		}
		return media.NewCloudinaryStore(cld), nil
	case "local", "":
		return media.NewLocalStore(cfg.dir, "/uploads"), nil
	default:
		return nil, fmt.Errorf("unknown IMAGE_BACKEND %q", cfg.backend)
	}
}

func newMailer(cfg mailConfig, logger *zap.SugaredLogger) mailer.Client {
	if cfg.host == "" {
		logger.Warn("SMTP_HOST not set, outgoing mail is disabled")
		return mailer.NoopMailer{}
	}
	m, err := mailer.NewSMTP(cfg.host, cfg.port, cfg.user, cfg.password, cfg.fromEmail)
	if err != nil {
		logger.Warnw("smtp mailer disabled", "error", err)
		return mailer.NoopMailer{}
	}
	return m
}

var version = "1.0.0"

//	@title			Shop Back Office API
//	@description	Back office API for a Thai online shop: catalogue, orders, payment slips and vouchers.

//	@contact.name	API Support

//	@BasePath					/api
//	@securityDefinitions.apikey	ApiKeyAuth
//	@in							header
//	@name						Authorization
//	@description

func main() {
	// a missing .env is fine in containers
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Println("Error loading .env file:", err)
	}

	cfg := loadConfig()

	logger, err := NewLogger()
	if err != nil {
		fmt.Println("Error creating logger:", err)
		return
	}
	defer logger.Sync()

	if cfg.auth.token.secret == "" || cfg.auth.token.refreshSecret == "" {
		logger.Fatal("AUTH_TOKEN_SECRET and AUTH_TOKEN_REFRESH_SECRET must be set")
	}

	// Database
	dsn := db.DSN(db.DSNParts{
		Host:     cfg.db.host,
		Port:     cfg.db.port,
		User:     cfg.db.user,
		Password: cfg.db.password,
		Name:     cfg.db.name,
		SSLMode:  cfg.db.sslMode,
	})
	pool, err := db.New(dsn, int32(cfg.db.maxOpenConns), cfg.db.maxIdleTime)
	if err != nil {
		logger.Fatal(err)
	}
	defer pool.Close()
	logger.Info("database connection pool established")

	// Domain collaborators
	rate, err := decimal.NewFromString(cfg.shop.vatRate)
	if err != nil {
		logger.Fatalw("invalid VAT_RATE", "value", cfg.shop.vatRate, "error", err)
	}
	calc, err := pricing.NewCalculator(rate)
	if err != nil {
		logger.Fatal(err)
	}
	orderNumbers, err := orders.NewNumberGenerator(cfg.shop.orderNumberSalt)
	if err != nil {
		logger.Fatal(err)
	}

	store := storage.NewContainer(pool, storage.Deps{
		SKU:         sku.NewGenerator(cfg.shop.skuPadWidth),
		OrderNumber: orderNumbers,
		Pricing:     calc,
	})

	imageStore, err := newImageStore(cfg.uploads)
	if err != nil {
		logger.Fatal(err)
	}

	rateLimiter := ratelimiter.NewFixedWindowLimiter(
		cfg.rateLimiter.RequestsPerTimeFrame,
		cfg.rateLimiter.TimeFrame,
	)

	jwtAuthenticator := auth.NewJWTAuthenticator(
		cfg.auth.token.secret,
		cfg.auth.token.refreshSecret,
		cfg.auth.token.iss,
		cfg.auth.token.iss,
		cfg.auth.token.accessTokenExp,
		cfg.auth.token.refreshTokenExp,
	)

	app := &application{
		config:        cfg,
		logger:        logger,
		store:         store,
		images:        media.NewPipeline(imageStore, logger),
		notifier:      notifications.NewSender(newMailer(cfg.mail, logger), logger),
		authenticator: jwtAuthenticator,
		rateLimiter:   rateLimiter,
		pricing:       calc,
	}

	//Metrics collected http://localhost:8080/api/debug/vars
	expvar.NewString("version").Set(version)
	expvar.Publish("database", expvar.Func(func() any {
		s := pool.Stat()
		return map[string]any{
			"total_conns":    s.TotalConns(),
			"idle_conns":     s.IdleConns(),
			"acquired_conns": s.AcquiredConns(),
			"max_conns":      s.MaxConns(),
		}
	}))
	expvar.Publish("goroutines", expvar.Func(func() any {
		return runtime.NumGoroutine()
	}))

	bgCtx, stopBackground := context.WithCancel(context.Background())
	defer stopBackground()
	app.expireVouchersEvery(bgCtx, 30*time.Minute)

	mux := app.mount()

	logger.Fatal(app.run(mux))
}
