package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Kozeke/marketplace-chatwidget/cmd/chat-service/internal/classifier"
	"github.com/Kozeke/marketplace-chatwidget/cmd/chat-service/internal/conn"
	"github.com/Kozeke/marketplace-chatwidget/cmd/chat-service/internal/handler"
	"github.com/Kozeke/marketplace-chatwidget/cmd/chat-service/internal/middleware"
	"github.com/Kozeke/marketplace-chatwidget/cmd/chat-service/internal/router"
	"github.com/Kozeke/marketplace-chatwidget/cmd/chat-service/internal/security"
	"github.com/Kozeke/marketplace-chatwidget/cmd/chat-service/internal/store"
	"github.com/Kozeke/marketplace-chatwidget/config"
	"github.com/Kozeke/marketplace-chatwidget/infra/cache"
	"github.com/Kozeke/marketplace-chatwidget/infra/database"
	"github.com/Kozeke/marketplace-chatwidget/pkg/registry"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if cfg.Environment == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgresConn(&cfg.Postgres)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect postgres")
	}
	defer db.Close()
	if err := db.Migrate(
		&store.SessionModel{},
		&store.MessageModel{},
		&store.HumanAgentModel{},
		&store.WidgetSettingsModel{},
		&store.BotAgentModel{},
		&store.ChainModel{},
	); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}

	redisClient, err := cache.NewRedisClient(&cfg.Redis)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect redis")
	}
	defer redisClient.Close()

	sessions := store.NewSessionRepository(db)
	agents := store.NewAgentRepository(db)
	widgets := store.NewWidgetRepository(db)
	bots := store.NewBotRepository(db)
	intents := classifier.NewClient(&cfg.Classifier)
	connRegistry := conn.NewRegistry()

	sessionRouter := router.NewRouter(
		sessions, agents, intents, connRegistry,
		cfg.Chat.EscalationTrigger, cfg.Classifier.ConfidenceThreshold,
	)

	jwtService := security.NewJWTService(cfg.Auth.JwtSecret, cfg.Auth.ExpireH)
	h := handler.NewHandler(sessionRouter, sessions, agents, widgets, bots, intents, jwtService, cfg.Auth.APIKey)

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.RateLimit(redisClient, cfg.Redis.RateLimitQPS))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"service":   cfg.ServerName,
			"timestamp": time.Now(),
		})
	})
	h.RegisterRoutes(r)

	var service *registry.ServiceManager
	if cfg.Consul.Address != "" {
		service = registerConsul(cfg)
		defer service.Stop()
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: r,
	}
	go func() {
		log.Info().Int("port", cfg.Port).Str("service", cfg.ServerName).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Info().Msg("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("shutdown failed")
	}
}

func registerConsul(cfg *config.AppConfig) *registry.ServiceManager {
	localIP, err := registry.GetLocalIP()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to resolve local IP")
	}
	serviceCfg := &registry.ServiceConfig{
		ID:      registry.GenerateServiceID(cfg.ServerName, cfg.Port),
		Name:    cfg.ServerName,
		Tags:    []string{cfg.ServerName, "api", "v1"},
		Address: localIP,
		Port:    cfg.Port,
		HealthCheck: &registry.HealthCheck{
			HTTP:                           fmt.Sprintf("http://%s:%d/health", localIP, cfg.Port),
			Interval:                       10 * time.Second,
			Timeout:                        3 * time.Second,
			DeregisterCriticalServiceAfter: 30 * time.Second,
		},
	}
	service, err := registry.NewServiceManager(&registry.ConsulConfig{
		Address:    cfg.Consul.Address,
		Scheme:     cfg.Consul.Scheme,
		Datacenter: cfg.Consul.Datacenter,
	}, serviceCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to init consul client")
	}
	if err := service.Start(); err != nil {
		log.Fatal().Err(err).Msg("failed to register service")
	}
	return service
}
