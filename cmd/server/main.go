package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/FastFix-SF/west-peak-roofing-app/internal/config"
	"github.com/FastFix-SF/west-peak-roofing-app/internal/email"
	"github.com/FastFix-SF/west-peak-roofing-app/internal/gateway"
	"github.com/FastFix-SF/west-peak-roofing-app/internal/handler"
	"github.com/FastFix-SF/west-peak-roofing-app/internal/repository"
	"github.com/FastFix-SF/west-peak-roofing-app/internal/router"
	"github.com/FastFix-SF/west-peak-roofing-app/internal/service"
	"github.com/FastFix-SF/west-peak-roofing-app/internal/storage"
	"github.com/FastFix-SF/west-peak-roofing-app/pkg/constant"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/mbeoliero/kit/log"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load("config/config.yaml")
	if err != nil {
		log.CtxError(ctx, "failed to load config: %v", err)
		panic(err)
	}

	log.CtxInfo(ctx, "config loaded: mode=%s", cfg.Server.Mode)

	constant.InitRedisKeyPrefix(cfg.Redis.KeyPrefix)
	log.CtxInfo(ctx, "redis key prefix: %s", constant.GetRedisKeyPrefix())

	repos, err := repository.NewRepositories(cfg)
	if err != nil {
		log.CtxError(ctx, "failed to initialize repositories: %v", err)
		panic(err)
	}
	defer repos.Close()

	if err := repos.CheckConnection(ctx); err != nil {
		log.CtxError(ctx, "database connection check failed: %v", err)
		panic(err)
	}
	log.CtxInfo(ctx, "database connection established")

	// Supporting infrastructure
	objectStore := storage.NewSupabaseStorage(cfg.Storage.URL, cfg.Storage.ServiceRoleKey, cfg.Storage.Bucket)
	mailSender := email.NewSender(&cfg.SMTP)

	// Services
	authService := service.NewAuthService(repos.User, cfg, repos.Redis)
	userService := service.NewUserService(repos.User)
	readStateService := service.NewReadStateService(repos.ChatState)
	chatService := service.NewChatService(
		repos.Conversation,
		repos.Message,
		repos.Channel,
		repos.User,
		repos.Project,
		repos.ChatState,
		readStateService,
		repos,
		cfg.Chat.DefaultChannels,
	)
	msgService := service.NewMessageService(repos, readStateService)
	projectService := service.NewProjectService(repos.Project)
	mediaService := service.NewMediaService(repos.Project, objectStore, cfg.Storage.DeleteTimeout)
	agentService := service.NewAgentService(repos.Agent)
	leadService := service.NewLeadService(repos.Lead, mailSender)

	// WebSocket gateway and realtime invalidator
	wsServer := gateway.NewWsServer(cfg, repos.Redis, msgService, chatService, userService)
	wsServer.Run(ctx)
	log.CtxInfo(ctx, "websocket gateway started")

	invalidator := gateway.NewInvalidator(repos.ChatState, repos.ChatState, wsServer)
	go invalidator.Run(ctx)
	log.CtxInfo(ctx, "chat invalidator started")

	handlers := &router.Handlers{
		Auth:    handler.NewAuthHandler(authService),
		User:    handler.NewUserHandler(userService),
		Chat:    handler.NewChatHandler(chatService),
		Message: handler.NewMessageHandler(msgService, userService),
		Project: handler.NewProjectHandler(projectService, mediaService),
		Agent:   handler.NewAgentHandler(agentService),
		Lead:    handler.NewLeadHandler(leadService),
	}

	h := server.Default(
		server.WithHostPorts(fmt.Sprintf(":%d", cfg.Server.HTTPPort)),
	)

	router.SetupRouter(h, handlers, wsServer)

	log.CtxInfo(ctx, "server starting on port %d", cfg.Server.HTTPPort)

	go func() {
		h.Spin()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.CtxInfo(ctx, "shutting down server...")

	cancel()
	if err := h.Shutdown(context.Background()); err != nil {
		log.CtxError(ctx, "server shutdown error: %v", err)
	}

	log.CtxInfo(ctx, "server stopped")
}
