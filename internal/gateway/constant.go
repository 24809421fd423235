package gateway

import "time"

// WebSocket request identifiers
const (
	WSSendDirectMsg  = 1001 // Send a direct message
	WSSendChannelMsg = 1002 // Post to a channel
	WSMarkRead       = 1003 // Move last-read marker to now
	WSMarkUnread     = 1004 // Re-flag conversation for follow-up

	// Server push identifiers
	WSPushNewMessage         = 2001 // New message delivered
	WSPushConversationsStale = 2002 // Conversation list must be refetched
	WSKickOnlineMsg          = 2003 // Kick user offline
	WSDataError              = 3001 // Data error
)

// Timeout constants
const (
	// WriteWait is time allowed to write a message to the peer
	WriteWait = 10 * time.Second

	// PongWait is time allowed to read the next pong message from the peer
	PongWait = 30 * time.Second

	// PingPeriod is period between pings. Must be less than PongWait
	PingPeriod = (PongWait * 9) / 10

	// MaxMessageSize is maximum message size allowed from peer
	MaxMessageSize = 51200
)

// Query parameter keys
const (
	QueryToken      = "token"
	QuerySendId     = "send_id"
	QueryPlatformId = "platform_id"
)
