package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"sync/atomic"

	"github.com/FastFix-SF/west-peak-roofing-app/internal/config"
	"github.com/FastFix-SF/west-peak-roofing-app/internal/entity"
	"github.com/FastFix-SF/west-peak-roofing-app/internal/service"
	"github.com/FastFix-SF/west-peak-roofing-app/pkg/constant"
	"github.com/FastFix-SF/west-peak-roofing-app/pkg/errcode"
	"github.com/FastFix-SF/west-peak-roofing-app/pkg/jwt"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/mbeoliero/kit/log"
	"github.com/redis/go-redis/v9"
)

// Push task kinds
const (
	pushKindMessage = 1 // deliver a new message
	pushKindStale   = 2 // tell clients to refetch the conversation list
)

// PushTask is a queued outbound push
type PushTask struct {
	Kind          int
	Msg           *PushMessageData
	SenderId      string
	PeerId        string // set for direct messages
	StaleConvId   string
	TargetIds     []string
	Broadcast     bool
	ExcludeConnId string
}

// WsServer is the WebSocket gateway: it authenticates connections, routes
// chat operations to the services, and fans pushes out to live clients.
type WsServer struct {
	upgrader       *websocket.Upgrader
	cfg            *config.Config
	userMap        *UserMap
	registerChan   chan *Client
	unregisterChan chan *Client
	pushChan       chan *PushTask
	msgService     *service.MessageService
	chatService    *service.ChatService
	userService    *service.UserService
	onlineUserNum  atomic.Int64
	onlineConnNum  atomic.Int64
	maxConnNum     int64
}

// NewWsServer creates a new WebSocket gateway
func NewWsServer(cfg *config.Config, rdb *redis.Client, msgService *service.MessageService, chatService *service.ChatService, userService *service.UserService) *WsServer {
	upgrader := &websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     func(r *http.Request) bool { return true },
	}

	server := &WsServer{
		upgrader:       upgrader,
		cfg:            cfg,
		userMap:        NewUserMap(rdb),
		registerChan:   make(chan *Client, 1000),
		unregisterChan: make(chan *Client, 1000),
		pushChan:       make(chan *PushTask, cfg.WebSocket.PushChannelSize),
		msgService:     msgService,
		chatService:    chatService,
		userService:    userService,
		maxConnNum:     cfg.WebSocket.MaxConnNum,
	}

	return server
}

// Run starts the gateway loops
func (s *WsServer) Run(ctx context.Context) {
	go s.eventLoop(ctx)

	workerNum := s.cfg.WebSocket.PushWorkerNum
	if workerNum <= 0 {
		workerNum = 10
	}
	for i := 0; i < workerNum; i++ {
		go s.pushLoop(ctx)
	}
	log.Info("started %d push workers", workerNum)
}

// eventLoop handles client registration and unregistration
func (s *WsServer) eventLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case client := <-s.registerChan:
			s.registerClient(ctx, client)
		case client := <-s.unregisterChan:
			s.unregisterClient(ctx, client)
		}
	}
}

// pushLoop handles async pushing
func (s *WsServer) pushLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case task := <-s.pushChan:
			s.processPushTask(ctx, task)
		}
	}
}

// processPushTask fans one task out to the matching live clients
func (s *WsServer) processPushTask(ctx context.Context, task *PushTask) {
	targetIds := task.TargetIds
	if task.Broadcast {
		targetIds = s.userMap.GetAllOnlineUserIds()
	}

	for _, userId := range targetIds {
		clients, ok := s.userMap.GetAll(userId)
		if !ok {
			continue
		}

		for _, client := range clients {
			if task.ExcludeConnId != "" && client.ConnId == task.ExcludeConnId {
				continue
			}

			var err error
			switch task.Kind {
			case pushKindMessage:
				err = client.PushMessage(ctx, s.messageForViewer(task, userId))
			case pushKindStale:
				err = client.PushStale(ctx, task.StaleConvId)
			}
			if err != nil {
				log.CtxDebug(ctx, "push to client failed: user_id=%s, conn_id=%s, error=%v", userId, client.ConnId, err)
			}
		}
	}
}

// messageForViewer rewrites the conversation id per recipient. A direct
// message lives under "dm-<peer>" where the peer differs for each side.
func (s *WsServer) messageForViewer(task *PushTask, viewerId string) *PushMessageData {
	if task.Msg.Kind != constant.ConvKindDirect || task.PeerId == "" {
		return task.Msg
	}

	other := task.SenderId
	if viewerId == task.SenderId {
		other = task.PeerId
	}
	msg := *task.Msg
	msg.ConversationId = entity.DirectViewId(other)
	return &msg
}

// registerClient registers a client
func (s *WsServer) registerClient(ctx context.Context, client *Client) {
	existingClients, exists := s.userMap.GetAll(client.UserId)
	if !exists {
		s.onlineUserNum.Add(1)
	}

	s.userMap.Register(ctx, client)
	s.onlineConnNum.Add(1)

	log.CtxInfo(ctx, "client registered: user_id=%s, platform_id=%d, conn_id=%s, existing_conns=%d, online_users=%d, online_conns=%d",
		client.UserId, client.PlatformId, client.ConnId, len(existingClients), s.onlineUserNum.Load(), s.onlineConnNum.Load())
}

// unregisterClient unregisters a client
func (s *WsServer) unregisterClient(ctx context.Context, client *Client) {
	isUserOffline := s.userMap.Unregister(ctx, client)
	s.onlineConnNum.Add(-1)

	if isUserOffline {
		s.onlineUserNum.Add(-1)
	}

	log.CtxInfo(ctx, "client unregistered: user_id=%s, platform_id=%d, conn_id=%s, user_offline=%v, online_users=%d, online_conns=%d",
		client.UserId, client.PlatformId, client.ConnId, isUserOffline, s.onlineUserNum.Load(), s.onlineConnNum.Load())
}

// UnregisterClient queues client for unregistration
func (s *WsServer) UnregisterClient(client *Client) {
	select {
	case s.unregisterChan <- client:
	default:
		log.Warn("unregister channel full: user_id=%s", client.UserId)
	}
}

// HandleConnection handles a WebSocket connection on a plain net/http
// listener (gorilla upgrader)
func (s *WsServer) HandleConnection(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	if s.onlineConnNum.Load() >= s.maxConnNum {
		http.Error(w, "connection limit exceeded", http.StatusServiceUnavailable)
		return
	}

	token := r.URL.Query().Get(QueryToken)
	sendId := r.URL.Query().Get(QuerySendId)
	platformIdStr := r.URL.Query().Get(QueryPlatformId)

	if token == "" || sendId == "" {
		http.Error(w, "missing required parameters", http.StatusBadRequest)
		return
	}

	platformId := 0
	if platformIdStr != "" {
		platformId, _ = strconv.Atoi(platformIdStr)
	}

	claims, err := jwt.ValidateToken(token, s.cfg.JWT.Secret, sendId, platformId)
	if err != nil {
		log.CtxDebug(ctx, "token validation failed: send_id=%s, error=%v", sendId, err)
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.CtxWarn(ctx, "websocket upgrade failed: %v", err)
		return
	}

	connId := uuid.New().String()
	wsConn := NewWebSocketClientConn(conn, s.cfg.WebSocket.MaxMessageSize, PongWait, PingPeriod)
	client := NewClient(wsConn, claims.UserId, claims.PlatformId, token, connId, s)

	s.registerChan <- client
	client.Start()
}

// enqueue queues a push task, dropping when the queue is full. A dropped
// push only delays the client until its next refetch.
func (s *WsServer) enqueue(task *PushTask) {
	select {
	case s.pushChan <- task:
	default:
		log.Warn("push channel full, push dropped: kind=%d", task.Kind)
	}
}

// NotifyUsers pushes a list-stale notice to specific users
func (s *WsServer) NotifyUsers(ctx context.Context, userIds []string, conversationId string) {
	s.enqueue(&PushTask{
		Kind:        pushKindStale,
		StaleConvId: conversationId,
		TargetIds:   userIds,
	})
}

// NotifyAll pushes a list-stale notice to every connected user
func (s *WsServer) NotifyAll(ctx context.Context, conversationId string) {
	s.enqueue(&PushTask{
		Kind:        pushKindStale,
		StaleConvId: conversationId,
		Broadcast:   true,
	})
}

// GetOnlineUserCount returns online user count
func (s *WsServer) GetOnlineUserCount() int64 {
	return s.onlineUserNum.Load()
}

// GetOnlineConnCount returns online connection count
func (s *WsServer) GetOnlineConnCount() int64 {
	return s.onlineConnNum.Load()
}

// IsOnline reports whether a user is connected anywhere
func (s *WsServer) IsOnline(ctx context.Context, userId string) bool {
	return s.userMap.IsOnline(ctx, userId)
}

// ========== Chat operation handlers ==========

// HandleSendDirect handles a direct message send over the socket
func (s *WsServer) HandleSendDirect(ctx context.Context, client *Client, req *WSRequest) ([]byte, error) {
	var sendReq SendDirectMsgReq
	if err := json.Unmarshal(req.Data, &sendReq); err != nil {
		return nil, errcode.ErrInvalidParam
	}

	msg, err := s.msgService.SendDirect(ctx, client.UserId, sendReq.PeerId, sendReq.Text, sendReq.AttachmentURL, sendReq.AttachmentType)
	if err != nil {
		return nil, err
	}

	s.enqueue(&PushTask{
		Kind: pushKindMessage,
		Msg: &PushMessageData{
			MsgId:          msg.Id,
			ConversationId: entity.DirectViewId(client.UserId),
			Kind:           constant.ConvKindDirect,
			SenderId:       msg.SenderId,
			Text:           msg.Text,
			AttachmentURL:  msg.AttachmentURL,
			AttachmentType: msg.AttachmentType,
			SentAt:         msg.CreatedAt,
		},
		SenderId:      client.UserId,
		PeerId:        sendReq.PeerId,
		TargetIds:     []string{client.UserId, sendReq.PeerId},
		ExcludeConnId: client.ConnId,
	})

	return json.Marshal(SendMsgResp{
		MsgId:          msg.Id,
		ConversationId: entity.DirectViewId(sendReq.PeerId),
		SentAt:         msg.CreatedAt,
	})
}

// HandleSendChannel handles a channel post over the socket
func (s *WsServer) HandleSendChannel(ctx context.Context, client *Client, req *WSRequest) ([]byte, error) {
	var sendReq SendChannelMsgReq
	if err := json.Unmarshal(req.Data, &sendReq); err != nil {
		return nil, errcode.ErrInvalidParam
	}

	sender, err := s.userService.GetUserInfo(ctx, client.UserId)
	if err != nil {
		return nil, err
	}

	msg, err := s.msgService.SendChannel(ctx, &entity.User{Id: sender.Id, Name: sender.Name}, sendReq.Channel, sendReq.Text)
	if err != nil {
		return nil, err
	}

	s.enqueue(&PushTask{
		Kind: pushKindMessage,
		Msg: &PushMessageData{
			MsgId:          msg.Id,
			ConversationId: msg.Channel,
			Kind:           constant.ConvKindChannel,
			SenderId:       msg.SenderId,
			SenderName:     msg.SenderName,
			Text:           msg.Text,
			SentAt:         msg.CreatedAt,
		},
		SenderId:      client.UserId,
		Broadcast:     true,
		ExcludeConnId: client.ConnId,
	})

	return json.Marshal(SendMsgResp{
		MsgId:          msg.Id,
		ConversationId: msg.Channel,
		SentAt:         msg.CreatedAt,
	})
}

// HandleMarkRead handles a mark-read over the socket
func (s *WsServer) HandleMarkRead(ctx context.Context, client *Client, req *WSRequest) ([]byte, error) {
	var markReq MarkReadReq
	if err := json.Unmarshal(req.Data, &markReq); err != nil {
		return nil, errcode.ErrInvalidParam
	}

	if err := s.chatService.MarkRead(ctx, client.UserId, markReq.ConversationId); err != nil {
		return nil, err
	}
	return nil, nil
}

// HandleMarkUnread handles a mark-unread over the socket
func (s *WsServer) HandleMarkUnread(ctx context.Context, client *Client, req *WSRequest) ([]byte, error) {
	var markReq MarkReadReq
	if err := json.Unmarshal(req.Data, &markReq); err != nil {
		return nil, errcode.ErrInvalidParam
	}

	if err := s.chatService.MarkUnread(ctx, client.UserId, markReq.ConversationId); err != nil {
		return nil, err
	}
	return nil, nil
}
