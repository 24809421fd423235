package entity

// DirectConversation represents a stored one-to-one conversation.
// One row per pair; both participants see the same row.
type DirectConversation struct {
	Id        string `json:"id" gorm:"column:id;primaryKey"`
	UserA     string `json:"user_a" gorm:"column:user_a"`
	UserB     string `json:"user_b" gorm:"column:user_b"`
	CreatedAt int64  `json:"created_at" gorm:"column:created_at"`
	UpdatedAt int64  `json:"updated_at" gorm:"column:updated_at"`
}

// TableName returns the table name for DirectConversation
func (DirectConversation) TableName() string {
	return "direct_conversations"
}

// Peer returns the other participant for a given viewer.
func (c *DirectConversation) Peer(userId string) string {
	if c.UserA == userId {
		return c.UserB
	}
	return c.UserA
}

// MessageSummary is the most recent message of a conversation, shaped for
// the list view. Unread counting also runs over these.
type MessageSummary struct {
	SenderId   string `json:"sender_id"`
	SenderName string `json:"sender_name,omitempty"`
	Text       string `json:"text"`
	SentAt     int64  `json:"sent_at"`
}

// Conversation is the unified list view-model merging direct conversations
// and channels. Constructed fresh on every fetch cycle, never persisted.
type Conversation struct {
	Id           string      `json:"id"` // "dm-<peerId>" or channel slug
	Name         string      `json:"name"`
	Kind         int32       `json:"kind"` // constant.ConvKindDirect / ConvKindChannel
	ChannelKind  ChannelKind `json:"channel_kind,omitempty"`
	ProjectId    string      `json:"project_id,omitempty"`
	LastMessage  string      `json:"last_message"`
	LastSender   string      `json:"last_sender,omitempty"`
	Timestamp    int64       `json:"timestamp"` // newest message, or creation time
	UnreadCount  int         `json:"unread_count"`
	Participants []string    `json:"participants,omitempty"`
	Avatar       string      `json:"avatar,omitempty"`
	Thumbnail    string      `json:"thumbnail,omitempty"`
	Muted        bool        `json:"muted"`
	Pinned       bool        `json:"pinned"`
}

// NoMessagesPlaceholder is shown for conversations that exist but have no
// messages yet.
const NoMessagesPlaceholder = "No messages yet"
