package bootstrap

import (
	"context"
	"log"
	"time"

	"ai-coding-assistant-be/internal/config"
	"ai-coding-assistant-be/internal/controller"
	"ai-coding-assistant-be/internal/handler"
	"ai-coding-assistant-be/internal/pkg/clock"
	"ai-coding-assistant-be/internal/pkg/logger"
	"ai-coding-assistant-be/internal/pkg/mailer"
	"ai-coding-assistant-be/internal/pkg/serverutils"
	"ai-coding-assistant-be/internal/repository/memory"
	"ai-coding-assistant-be/internal/repository/unitofwork"
	"ai-coding-assistant-be/internal/service"
	"ai-coding-assistant-be/internal/websocket"
	"ai-coding-assistant-be/pkg/events"
	"ai-coding-assistant-be/pkg/llm/factory"

	pktNats "ai-coding-assistant-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AuthController         controller.IAuthController
	ConversationController controller.IConversationController
	UserController         controller.IUserController
	AdminController        controller.IAdminController

	// Background Services (Exposed for main.go to run)
	ConsumerService     service.IConsumerService
	NotificationService *service.NotificationService

	// WebSockets
	LiveHandler  *handler.LiveHandler
	WebSocketHub *websocket.Hub

	Logger logger.ILogger

	closers []func()
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	clk := clock.New()
	serverutils.SetJwtSecret(cfg.Auth.JwtSecret)

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
		sysLogger,
	)

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	c := &Container{Logger: sysLogger}
	c.closers = append(c.closers, func() { _ = pubSub.Close() })

	// 3. LLM Provider
	llmProvider, err := factory.NewLLMProvider(llmConfig(cfg.Ai))
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// 4. Infrastructure
	// NATS. A missing broker only disables domain events.
	var eventPublisher events.Publisher
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	} else {
		eventPublisher = natsPub
		c.closers = append(c.closers, natsPub.Close)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	} else {
		c.closers = append(c.closers, natsSub.Close)
	}

	// Redis
	var rdb *redis.Client
	if cfg.App.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
			opt = &redis.Options{
				Addr: cfg.App.RedisURL,
			}
		}
		rdb = redis.NewClient(opt)
		if _, err := rdb.Ping(context.Background()).Result(); err != nil {
			log.Printf("[WARN] Failed to connect to Redis: %v (live updates stay local)", err)
			_ = rdb.Close()
			rdb = nil
		} else {
			c.closers = append(c.closers, func() { _ = rdb.Close() })
		}
	}

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger(cfg.App.LiveLogFilePath)
	wsHub := websocket.NewHub(rdb, wsLogger)

	// 5. Services
	roleCache := memory.NewRoleCache(time.Duration(cfg.Auth.AdminGateCacheTTLSeconds) * time.Second)
	adminGate := service.NewAdminGate(uowFactory, cfg.Auth.AdminEmails, roleCache)

	publisherService := service.NewPublisherService(cfg.App.MessageTopic, pubSub)
	consumerService := service.NewConsumerService(pubSub, cfg.App.MessageTopic, wsHub, wsLogger)

	conversationService := service.NewConversationService(uowFactory, clk, eventPublisher, publisherService, sysLogger)
	assistantService := service.NewAssistantService(
		conversationService,
		uowFactory,
		llmProvider,
		service.AssistantOptions{
			Provider:    cfg.Ai.LLMProvider,
			Model:       cfg.Ai.LLMModel,
			MaxTokens:   cfg.Ai.LLMMaxTokens,
			Temperature: cfg.Ai.LLMTemperature,
		},
		sysLogger,
	)
	userService := service.NewUserService(uowFactory, adminGate, eventPublisher, wsHub, sysLogger)
	adminService := service.NewAdminService(uowFactory, adminGate)
	authService := service.NewAuthService(
		uowFactory,
		time.Duration(cfg.Auth.AccessTokenTTLMinutes)*time.Minute,
		time.Duration(cfg.Auth.RefreshTokenTTLHours)*time.Hour,
		sysLogger,
	)

	if natsSub != nil {
		c.NotificationService = service.NewNotificationService(natsSub, emailService, sysLogger)
	}

	// 6. Controllers
	c.AuthController = controller.NewAuthController(authService)
	c.ConversationController = controller.NewConversationController(conversationService, assistantService)
	c.UserController = controller.NewUserController(userService)
	c.AdminController = controller.NewAdminController(adminService, adminGate)
	c.LiveHandler = handler.NewLiveHandler(wsHub, wsLogger)
	c.WebSocketHub = wsHub
	c.ConsumerService = consumerService

	return c
}

// Close releases broker connections in reverse order of acquisition.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	_ = c.Logger.Sync()
}

func llmConfig(ai config.AIConfig) factory.Config {
	cfg := factory.Config{
		Provider: ai.LLMProvider,
		Model:    ai.LLMModel,
	}
	switch ai.LLMProvider {
	case "ollama":
		cfg.BaseURL = ai.OllamaBaseURL
	case "huggingface":
		cfg.APIKey = ai.HuggingFaceAPIKey
		cfg.BaseURL = ai.HuggingFaceBaseURL
	default:
		cfg.APIKey = ai.OpenAIAPIKey
		cfg.BaseURL = ai.OpenAIBaseURL
	}
	return cfg
}
