package router

import (
	"context"
	"strings"

	"github.com/FastFix-SF/west-peak-roofing-app/internal/config"
	"github.com/FastFix-SF/west-peak-roofing-app/internal/gateway"
	"github.com/FastFix-SF/west-peak-roofing-app/internal/handler"
	"github.com/FastFix-SF/west-peak-roofing-app/internal/middleware"
	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/hertz-contrib/websocket"
)

// SetupRouter sets up all routes
func SetupRouter(h *server.Hertz, handlers *Handlers, wsServer *gateway.WsServer) {
	cfg := config.GlobalConfig

	h.Use(middleware.CORS(cfg.Server.AllowedOrigins))

	// Health check
	h.GET("/health", func(ctx context.Context, c *app.RequestContext) {
		c.JSON(consts.StatusOK, map[string]string{"status": "ok"})
	})

	// Public marketing site routes (no auth, rate limited)
	contactLimiter := middleware.NewRateLimiter(cfg.Server.ContactRPS)
	contactLimiter.Cleanup()
	h.POST("/contact", middleware.RateLimit(contactLimiter), handlers.Lead.SubmitLead)
	h.POST("/webhook/sms", handlers.Lead.SmsWebhook)

	// Auth routes (no auth required)
	authGroup := h.Group("/auth")
	{
		authGroup.POST("/register", handlers.Auth.Register)
		authGroup.POST("/login", handlers.Auth.Login)
		authGroup.POST("/logout", middleware.JWTAuth(), handlers.Auth.Logout)
	}

	// Roster routes (auth required)
	userGroup := h.Group("/user", middleware.JWTAuth())
	{
		userGroup.GET("/me", handlers.User.GetMe)
		userGroup.GET("/info", handlers.User.GetUser)
		userGroup.GET("/roster", handlers.User.GetRoster)
		userGroup.PUT("/update", handlers.User.UpdateMe)
	}

	// Conversation list and lifecycle routes (auth required)
	chatGroup := h.Group("/chat", middleware.JWTAuth())
	{
		chatGroup.GET("/conversations", handlers.Chat.GetConversations)
		chatGroup.POST("/mark_read", handlers.Chat.MarkRead)
		chatGroup.POST("/mark_unread", handlers.Chat.MarkUnread)
		chatGroup.POST("/mute", handlers.Chat.SetMuted)
		chatGroup.POST("/pin", handlers.Chat.SetPinned)
		chatGroup.POST("/archive", handlers.Chat.SetArchived)
		chatGroup.POST("/delete", handlers.Chat.DeleteConversation)
	}

	// Message routes (auth required)
	msgGroup := h.Group("/msg", middleware.JWTAuth())
	{
		msgGroup.POST("/direct/send", handlers.Message.SendDirect)
		msgGroup.GET("/direct/list", handlers.Message.ListDirect)
		msgGroup.POST("/channel/send", handlers.Message.SendChannel)
		msgGroup.GET("/channel/list", handlers.Message.ListChannel)
	}

	// Project and gallery routes (auth required)
	projectGroup := h.Group("/project", middleware.JWTAuth())
	{
		projectGroup.GET("/list", handlers.Project.ListProjects)
		projectGroup.GET("/info", handlers.Project.GetProject)
		projectGroup.POST("/create", handlers.Project.CreateProject)
		projectGroup.PUT("/update", handlers.Project.UpdateProject)
		projectGroup.GET("/photos", handlers.Project.ListPhotos)
		projectGroup.POST("/photos/upload", handlers.Project.UploadPhoto)
		projectGroup.DELETE("/photos/delete", handlers.Project.DeletePhoto)
	}

	// Agent hub routes (auth required)
	agentGroup := h.Group("/agent", middleware.JWTAuth())
	{
		agentGroup.GET("/conversations", handlers.Agent.ListConversations)
		agentGroup.POST("/conversations", handlers.Agent.CreateConversation)
		agentGroup.GET("/messages", handlers.Agent.ListMessages)
		agentGroup.POST("/messages", handlers.Agent.AppendMessage)
		agentGroup.DELETE("/conversations/delete", handlers.Agent.DeleteConversation)
	}

	// Lead dashboard (auth required)
	leadGroup := h.Group("/lead", middleware.JWTAuth())
	{
		leadGroup.GET("/list", handlers.Lead.ListLeads)
	}

	// WebSocket route with origin validation
	allowedOrigins := cfg.Server.AllowedOrigins
	upgrader := &websocket.HertzUpgrader{
		CheckOrigin: func(ctx *app.RequestContext) bool {
			return checkOrigin(ctx, allowedOrigins)
		},
	}

	h.GET("/ws", func(ctx context.Context, c *app.RequestContext) {
		wsServer.HandleHertzConnection(ctx, c, upgrader)
	})
}

// checkOrigin validates the Origin header against allowed origins
func checkOrigin(ctx *app.RequestContext, allowedOrigins []string) bool {
	origin := string(ctx.Request.Header.Peek("Origin"))

	// No origin header: same-origin request or non-browser client
	if origin == "" {
		return true
	}

	if len(allowedOrigins) == 0 {
		return false
	}

	for _, allowed := range allowedOrigins {
		if allowed == "*" {
			return true
		}
		if strings.EqualFold(origin, allowed) {
			return true
		}
	}

	return false
}

// Handlers holds all HTTP handlers
type Handlers struct {
	Auth    *handler.AuthHandler
	User    *handler.UserHandler
	Chat    *handler.ChatHandler
	Message *handler.MessageHandler
	Project *handler.ProjectHandler
	Agent   *handler.AgentHandler
	Lead    *handler.LeadHandler
}
