package main

import (
	"context"
	"errors"
	"expvar"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"backoffice/docs" //this is required to generate swagger docs
	"backoffice/internal/auth"
	"backoffice/internal/domain/storage"
	"backoffice/internal/domain/users"
	"backoffice/internal/media"
	"backoffice/internal/notifications"
	"backoffice/internal/pricing"
	"backoffice/internal/ratelimiter"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
)

type application struct {
	config        config
	store         *storage.Container
	logger        *zap.SugaredLogger
	images        *media.Pipeline
	notifier      *notifications.Sender
	authenticator auth.Authenticator
	rateLimiter   ratelimiter.Limiter
	pricing       *pricing.Calculator
}

type config struct {
	addr        string
	db          dbConfig
	env         string
	apiURL      string
	mail        mailConfig
	frontendURL string
	auth        authConfig
	uploads     uploadConfig
	shop        shopConfig
	rateLimiter ratelimiter.Config
}

type authConfig struct {
	basic basicConfig
	token tokenConfig
}

type tokenConfig struct {
	refreshSecret   string
	secret          string
	accessTokenExp  time.Duration
	refreshTokenExp time.Duration
	iss             string
}

type basicConfig struct {
	user string
	pass string
}

type mailConfig struct {
	host      string
	port      int
	user      string
	password  string
	fromEmail string
}

type dbConfig struct {
	host         string
	port         string
	user         string
	password     string
	name         string
	sslMode      string
	maxOpenConns int
	maxIdleTime  string
}

type uploadConfig struct {
	dir           string
	backend       string
	cloudinaryURL string
}

type shopConfig struct {
	vatRate         string
	skuPadWidth     int
	orderNumberSalt string
}

func (app *application) mount() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{app.config.frontendURL},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}))

	r.Use(middleware.Timeout(60 * time.Second))

	// product images and slips written by the local backend
	if app.config.uploads.backend == "local" || app.config.uploads.backend == "" {
		fs := http.StripPrefix("/uploads/", http.FileServer(http.Dir(app.config.uploads.dir)))
		r.Get("/uploads/*", fs.ServeHTTP)
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", app.healthCheckHandler)
		docsURL := fmt.Sprintf("%s/api/swagger/doc.json", app.config.apiURL)
		r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL(docsURL)))

		r.With(app.BasicAuthMiddleware()).Get("/debug/vars", expvar.Handler().ServeHTTP)

		// Public routes
		r.Route("/auth", func(r chi.Router) {
			r.With(app.RateLimiterMiddleware).Post("/login", app.loginHandler)
			r.With(app.RateLimiterMiddleware).Post("/refresh", app.refreshTokenHandler)

			r.Group(func(r chi.Router) {
				r.Use(app.AuthTokenMiddleware)
				r.Post("/logout", app.logoutHandler)
				r.Get("/me", app.getCurrentUserHandler)
			})
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", app.listCategoriesHandler)
			r.Get("/{categoryID}", app.getCategoryHandler)

			r.Group(func(r chi.Router) {
				r.Use(app.AuthTokenMiddleware, app.requireRole(users.RoleAdmin, users.RoleStaff))
				r.Post("/", app.createCategoryHandler)
				r.Patch("/{categoryID}", app.updateCategoryHandler)
				r.Delete("/{categoryID}", app.deleteCategoryHandler)
				r.With(app.requireRole(users.RoleAdmin)).Post("/seed", app.seedCategoriesHandler)
			})
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", app.listProductsHandler)
			r.Get("/sku/{sku}", app.getProductBySKUHandler)
			r.Get("/{productID}", app.getProductHandler)

			r.Group(func(r chi.Router) {
				r.Use(app.AuthTokenMiddleware, app.requireRole(users.RoleAdmin, users.RoleStaff))
				r.Get("/next-sku", app.nextSKUHandler)
				r.Post("/", app.createProductHandler)
				r.Patch("/{productID}", app.updateProductHandler)
				r.Delete("/{productID}", app.deleteProductHandler)
				r.Patch("/{productID}/stock", app.adjustStockHandler)
				r.Put("/{productID}/image", app.uploadProductImageHandler)
				r.Delete("/{productID}/image", app.deleteProductImageHandler)
			})
		})

		r.Route("/orders", func(r chi.Router) {
			r.Use(app.AuthTokenMiddleware)
			r.Post("/", app.createOrderHandler)
			r.Get("/{orderID}", app.getOrderHandler)

			r.Group(func(r chi.Router) {
				r.Use(app.requireRole(users.RoleAdmin, users.RoleStaff))
				r.Get("/", app.listOrdersHandler)
				r.Get("/number/{number}", app.getOrderByNumberHandler)
				r.Patch("/{orderID}/status", app.updateOrderStatusHandler)
			})
		})

		r.Route("/payments", func(r chi.Router) {
			r.Use(app.AuthTokenMiddleware)
			r.Post("/", app.createPaymentHandler)
			r.Get("/{paymentID}", app.getPaymentHandler)
			r.Put("/{paymentID}/slip", app.uploadSlipHandler)

			r.Group(func(r chi.Router) {
				r.Use(app.requireRole(users.RoleAdmin, users.RoleStaff))
				r.Get("/", app.listPaymentsHandler)
				r.Get("/{paymentID}/logs", app.listPaymentLogsHandler)
				r.Post("/{paymentID}/verify", app.verifyPaymentHandler)
				r.Post("/{paymentID}/reject", app.rejectPaymentHandler)
			})
		})

		r.Route("/vouchers", func(r chi.Router) {
			r.Use(app.AuthTokenMiddleware)
			r.Post("/validate", app.validateVoucherHandler)

			r.Group(func(r chi.Router) {
				r.Use(app.requireRole(users.RoleAdmin, users.RoleStaff))
				r.Get("/", app.listVouchersHandler)
				r.Post("/", app.createVoucherHandler)
				r.Get("/{voucherID}", app.getVoucherHandler)
				r.Put("/{voucherID}", app.updateVoucherHandler)
				r.Delete("/{voucherID}", app.deleteVoucherHandler)
			})
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(app.AuthTokenMiddleware, app.requireRole(users.RoleAdmin))
			r.Get("/", app.listUsersHandler)
			r.Post("/", app.createUserHandler)
			r.Patch("/{userID}/status", app.updateUserStatusHandler)
			r.Patch("/{userID}/role", app.updateUserRoleHandler)
		})

		r.Route("/dashboard", func(r chi.Router) {
			r.Use(app.AuthTokenMiddleware, app.requireRole(users.RoleAdmin, users.RoleStaff))
			r.Get("/overview", app.dashboardOverviewHandler)
			r.Get("/sales", app.salesByDayHandler)
		})
	})
	return r
}

func (app *application) run(mux http.Handler) error {
	// Docs
	docs.SwaggerInfo.Version = version
	docs.SwaggerInfo.Host = app.config.apiURL
	docs.SwaggerInfo.BasePath = "/api"

	srv := &http.Server{
		Addr:         app.config.addr,
		Handler:      mux,
		WriteTimeout: time.Second * 30,
		ReadTimeout:  time.Second * 10,
		IdleTimeout:  time.Minute,
	}

	shutdown := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)

		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		app.logger.Infow("signal caught", "signal", s.String())

		shutdown <- srv.Shutdown(ctx)
	}()

	app.logger.Infow("server has started", "addr", app.config.addr, "env", app.config.env)

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	err = <-shutdown
	if err != nil {
		return err
	}

	app.logger.Infow("server has stopped", "addr", app.config.addr, "env", app.config.env)

	return nil
}
