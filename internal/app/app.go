package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"github.com/chesterOps/salem-server/internal/config"
	"github.com/chesterOps/salem-server/internal/domain"
	"github.com/chesterOps/salem-server/internal/dto"
	"github.com/chesterOps/salem-server/internal/handler"
	"github.com/chesterOps/salem-server/internal/repository"
	"github.com/chesterOps/salem-server/internal/service"
	"github.com/chesterOps/salem-server/internal/utils"
	"github.com/chesterOps/salem-server/pkg/observability"
)

const shutdownTimeout = 5 * time.Second

type App struct {
	infra  Infrastructure
	config *config.Config
	router *gin.Engine
	server *http.Server
}

func NewApp(infra Infrastructure, cfg *config.Config) *App {
	repos := repository.NewRepositories(infra.Postgres())
	logger := infra.Logger()

	jwtManager := utils.NewJWTManager(
		cfg.JWT.AccessTokenSecret,
		cfg.JWT.RefreshTokenSecret,
		cfg.JWT.AccessTokenExpiry.Duration,
		cfg.JWT.RefreshTokenExpiry.Duration,
	)

	rateLimiter := service.NewRateLimiter(infra.Redis())
	healthChecker := NewHealthChecker(infra)

	authService := service.NewAuthService(repos.User, jwtManager, cfg.Security.BCryptCost, logger)
	userService := service.NewUserService(repos.User, logger)
	categoryService := service.NewCategoryService(repos.Category, repos.Product, logger)
	productService := service.NewProductService(repos.Product, repos.Category, infra.Media(), logger)

	production := cfg.Env == "production"
	authHandler := handler.NewAuthHandler(authService, cfg.JWT.RefreshCookieAge.Duration, production, logger)
	userHandler := handler.NewUserHandler(userService, logger)
	categoryHandler := handler.NewCategoryHandler(categoryService, logger)
	productHandler := handler.NewProductHandler(productService, logger)

	if production {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware("salem-server"))
	router.Use(handler.LoggerMiddleware(logger))
	router.Use(handler.CORSMiddleware(cfg.CORS.AllowedOrigins, cfg.CORS.AllowedMethods, cfg.CORS.AllowedHeaders))

	setupRoutes(router, cfg, logger, authService, rateLimiter, healthChecker, infra.MetricsHandler(),
		authHandler, userHandler, categoryHandler, productHandler)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout.Duration,
		WriteTimeout: cfg.Server.WriteTimeout.Duration,
	}

	return &App{
		infra:  infra,
		config: cfg,
		router: router,
		server: srv,
	}
}

func (a *App) Router() *gin.Engine {
	return a.router
}

func setupRoutes(
	router *gin.Engine,
	cfg *config.Config,
	logger *zap.Logger,
	authService service.AuthService,
	rateLimiter *service.RateLimiter,
	healthChecker *HealthChecker,
	metricsHandler http.Handler,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	categoryHandler *handler.CategoryHandler,
	productHandler *handler.ProductHandler,
) {
	router.GET("/metrics", observability.PrometheusHandler(metricsHandler))
	router.GET("/health", healthChecker.Handler)

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{
			Status:  "fail",
			Message: fmt.Sprintf("cannot find %s on this server", c.Request.URL.Path),
		})
	})

	protect := handler.Protect(authService, logger)
	adminOnly := handler.Authorize(logger, domain.RoleAdmin)

	api := router.Group("/api/v1")
	api.Use(handler.RateLimitMiddleware(
		rateLimiter,
		cfg.Security.RateLimitRequests,
		cfg.Security.RateLimitWindow.Duration,
		handler.IPBasedKey,
		logger,
	))
	{
		auth := api.Group("/auth")
		{
			auth.POST("/signup", authHandler.Signup)
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh-token", authHandler.Refresh)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/get-profile", protect, authHandler.GetProfile)
		}

		categories := api.Group("/categories")
		{
			categories.GET("", categoryHandler.List)
			categories.GET("/:id", categoryHandler.Get)
			categories.POST("", protect, adminOnly, categoryHandler.Create)
			categories.PATCH("/:id", protect, adminOnly, categoryHandler.Update)
			categories.DELETE("/:id", protect, adminOnly, categoryHandler.Delete)
		}

		products := api.Group("/products")
		{
			products.GET("", productHandler.List)
			products.GET("/:id", productHandler.Get)
			products.GET("/category/:slug", productHandler.ByCategory)
			products.GET("/:id/related", productHandler.Related)
			products.POST("", protect, adminOnly, productHandler.Create)
			products.PATCH("/:id", protect, adminOnly, productHandler.Update)
			products.DELETE("/:id", protect, adminOnly, productHandler.Delete)
		}

		users := api.Group("/users", protect, adminOnly)
		{
			users.GET("", userHandler.List)
			users.GET("/:id", userHandler.Get)
			users.PATCH("/:id", userHandler.Update)
			users.DELETE("/:id", userHandler.Delete)
		}
	}
}

func (a *App) Run(ctx context.Context) error {
	errChan := make(chan error, 1)

	go func() {
		a.infra.Logger().Info("Application starting",
			zap.String("host", a.config.Server.Host),
			zap.String("port", a.config.Server.Port),
		)

		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.infra.Logger().Error("Server error", zap.Error(err))
			errChan <- err
		}
	}()

	var serverErr error
	select {
	case err := <-errChan:
		a.infra.Logger().Error("Application failed to start", zap.Error(err))
		serverErr = err
	case <-ctx.Done():
		a.infra.Logger().Info("Application stopped by context")
	}

	if err := a.Shutdown(); err != nil {
		a.infra.Logger().Error("Shutdown error", zap.Error(err))
		if serverErr != nil {
			return errors.Join(serverErr, err)
		}
		return err
	}

	return serverErr
}

func (a *App) Shutdown() error {
	a.infra.Logger().Info("Application shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	errs := make(chan error, 2)

	go func() {
		errs <- a.server.Shutdown(ctx)
	}()

	go func() {
		errs <- a.infra.Shutdown(ctx)
	}()

	err := errors.Join(<-errs, <-errs)
	if err != nil {
		a.infra.Logger().Error("Shutdown failed", zap.Error(err))
		return err
	}

	a.infra.Logger().Info("Application exited successfully")
	return nil
}
