package http

import (
	"time"

	"github.com/gin-gonic/gin"

	"jogai-backend/internal/ai"
	appsvc "jogai-backend/internal/app"
	"jogai-backend/internal/bootstrap"
	"jogai-backend/internal/cache"
	"jogai-backend/internal/platform/rabbitmq"
	"jogai-backend/internal/prompt"
	"jogai-backend/internal/repository"
	"jogai-backend/internal/transport/http/handler"
	"jogai-backend/internal/transport/http/middleware"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(
		middleware.RequestID(),
		middleware.RequestLogger(app.Logger),
		gin.Recovery(),
	)

	healthHandler := handler.NewHealthHandler(app)
	router.GET("/", func(c *gin.Context) {
		c.String(200, "Hello, JogAI!")
	})
	router.GET("/healthz", healthHandler.Check)

	userRepo := repository.NewUserRepository(app.MySQL)
	chatRepo := repository.NewChatRepository(app.MySQL)
	messageRepo := repository.NewMessageRepository(app.MySQL)

	historyCache := cache.NewHistoryCache(
		app.Redis,
		time.Duration(app.Config.Redis.HistoryTTLSeconds)*time.Second,
		time.Duration(app.Config.Redis.HistoryDirtyTTLSeconds)*time.Second,
	)
	eventPublisher := rabbitmq.NewEventPublisher(app.MQConn, app.Config.RabbitMQ.ChatEventQueue)

	// A nil generator keeps the API up with chat turns disabled.
	var generator appsvc.Generator
	if app.Config.GeminiEnabled() {
		generator = ai.NewGeminiClient(ai.ClientConfig{
			BaseURL: app.Config.Gemini.BaseURL,
			APIKey:  app.Config.Gemini.APIKey,
			Model:   app.Config.Gemini.Model,
		})
	}

	composer := prompt.NewComposer(app.Config.Prompt.ScenarioTemplatePath)
	machine := appsvc.NewStatusMachine()

	authService := appsvc.NewAuthService(
		userRepo,
		chatRepo,
		historyCache,
		eventPublisher,
		app.Config.Auth.JWTSecret,
		time.Duration(app.Config.Auth.JWTExpireMinute)*time.Minute,
		app.Logger,
	)
	titleService := appsvc.NewTitleService(generator, app.Logger)
	conversationService := appsvc.NewConversationService(
		chatRepo,
		messageRepo,
		generator,
		composer,
		machine,
		historyCache,
		eventPublisher,
		app.Logger,
	)
	chatService := appsvc.NewChatService(
		userRepo,
		chatRepo,
		messageRepo,
		titleService,
		conversationService,
		machine,
		historyCache,
		eventPublisher,
		app.Logger,
	)

	authHandler := handler.NewAuthHandler(authService)
	chatHandler := handler.NewChatHandler(chatService)

	api := router.Group("/api")
	api.Use(middleware.AuthOptional(app.Config.Auth.JWTSecret))

	api.POST("/register", authHandler.Register)
	api.POST("/login", authHandler.Login)

	api.POST("/chats", chatHandler.CreateChat)
	api.GET("/chats/:user_id", chatHandler.ListChats)

	api.GET("/chat/:chat_id", chatHandler.GetChat)
	api.PUT("/chat/:chat_id/title", chatHandler.UpdateTitle)
	api.POST("/chat/:chat_id/message", chatHandler.SendMessage)
	api.PUT("/chat/:chat_id/status", chatHandler.UpdateStatus)
	api.PUT("/chat/:chat_id/observations", chatHandler.UpdateObservations)
	api.PUT("/chat/:chat_id/color", chatHandler.UpdateColor)
	api.DELETE("/chat/:chat_id", chatHandler.DeleteChat)

	api.PUT("/user/change-password", authHandler.ChangePassword)
	api.GET("/user/:user_id/last_used_age", chatHandler.LastUsedAge)
	api.DELETE("/user/:user_id", authHandler.DeleteUser)

	return router
}
