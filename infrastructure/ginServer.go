package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	apperrors "facegate.io/application/appErrors"
	"facegate.io/infrastructure/env"
	"facegate.io/infrastructure/logger"
	middlewares "facegate.io/infrastructure/middleware"
	ratelimit "facegate.io/infrastructure/ratelimit"
	webRoutev1 "facegate.io/infrastructure/routes/ginRouter/web/v1"
	server_response "facegate.io/infrastructure/serverResponse"
	startup "facegate.io/infrastructure/startUp"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// maxBodyBytes bounds request bodies; base64 images dominate the size.
const maxBodyBytes = 15 << 20

type ginServer struct {
	config *env.Config
}

func (s *ginServer) Start() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	services, err := startup.StartServices(ctx, s.config)
	if err != nil {
		return err
	}
	defer services.CleanUpServices()

	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", s.config.Port),
		Handler:           NewRouter(s.config, services),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info(fmt.Sprintf("Server starting on PORT %s", s.config.Port))
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// NewRouter builds the gin engine over an already wired service graph.
func NewRouter(config *env.Config, services *startup.Services) *gin.Engine {
	gin.SetMode(config.GinMode)
	server := gin.New()
	server.Use(gin.Recovery())
	if config.GinMode != gin.TestMode {
		server.Use(gin.Logger())
	}

	origins := config.CORSOrigins
	if len(origins) == 0 && config.GinMode == gin.DebugMode {
		origins = []string{"http://localhost:5173", "http://localhost:3000"}
	}
	if len(origins) > 0 {
		server.Use(cors.New(cors.Config{
			AllowOrigins:     origins,
			AllowMethods:     []string{"GET", "POST"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "User-Agent"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}
	if config.RateLimit > 0 {
		server.Use(ratelimit.TokenBucketPerIP(config.RateLimit, config.TrustProxy, http.MethodPost))
	}
	server.Use(func(ctx *gin.Context) {
		ctx.Request.Body = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, maxBodyBytes)
		ctx.Next()
	})

	v1 := server.Group("/api")
	v1.Use(middlewares.UserAgentMiddleware())

	routerV1 := v1.Group("/v1")
	{
		webRoutev1.AuthRouter(routerV1, services.AuthController)
	}

	server.GET("/ping", func(ctx *gin.Context) {
		server_response.Responder.Respond(ctx, http.StatusOK, map[string]string{"message": "pong!"})
	})

	server.NoRoute(func(ctx *gin.Context) {
		apperrors.NotFoundError(ctx, fmt.Sprintf("%s %s does not exist", ctx.Request.Method, ctx.Request.URL))
	})

	return server
}
