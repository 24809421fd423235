package entity

// DirectMessage represents a message inside a direct conversation
type DirectMessage struct {
	Id             string `json:"id" gorm:"column:id;primaryKey"`
	ConversationId string `json:"conversation_id" gorm:"column:conversation_id;index"`
	SenderId       string `json:"sender_id" gorm:"column:sender_id"`
	Text           string `json:"text" gorm:"column:text"`
	AttachmentURL  string `json:"attachment_url,omitempty" gorm:"column:attachment_url"`
	AttachmentType string `json:"attachment_type,omitempty" gorm:"column:attachment_type"`
	CreatedAt      int64  `json:"created_at" gorm:"column:created_at"`
}

// TableName returns the table name for DirectMessage
func (DirectMessage) TableName() string {
	return "direct_messages"
}

// Summary shapes the message for the conversation list
func (m *DirectMessage) Summary() MessageSummary {
	text := m.Text
	if text == "" && m.AttachmentURL != "" {
		text = "[attachment]"
	}
	return MessageSummary{
		SenderId: m.SenderId,
		Text:     text,
		SentAt:   m.CreatedAt,
	}
}

// ChannelMessage represents a message posted to a named channel.
// Channels have no membership rows; the channel name on the message is
// the only grouping key.
type ChannelMessage struct {
	Id         string `json:"id" gorm:"column:id;primaryKey"`
	Channel    string `json:"channel" gorm:"column:channel;index"`
	SenderId   string `json:"sender_id" gorm:"column:sender_id"`
	SenderName string `json:"sender_name" gorm:"column:sender_name"`
	Text       string `json:"text" gorm:"column:text"`
	CreatedAt  int64  `json:"created_at" gorm:"column:created_at"`
}

// TableName returns the table name for ChannelMessage
func (ChannelMessage) TableName() string {
	return "channel_messages"
}

// Summary shapes the message for the conversation list
func (m *ChannelMessage) Summary() MessageSummary {
	return MessageSummary{
		SenderId:   m.SenderId,
		SenderName: m.SenderName,
		Text:       m.Text,
		SentAt:     m.CreatedAt,
	}
}
