package entity

// AgentConversation represents a thread in the AI agent hub
type AgentConversation struct {
	Id           string `json:"id" gorm:"column:id;primaryKey"`
	UserId       string `json:"user_id" gorm:"column:user_id;index"`
	Category     string `json:"category" gorm:"column:category"`
	Title        string `json:"title" gorm:"column:title"`
	LastMessage  string `json:"last_message" gorm:"column:last_message"`
	MessageCount int    `json:"message_count" gorm:"column:message_count"`
	CreatedAt    int64  `json:"created_at" gorm:"column:created_at;autoCreateTime:milli"`
	UpdatedAt    int64  `json:"updated_at" gorm:"column:updated_at;autoUpdateTime:milli"`
}

// TableName returns the table name for AgentConversation
func (AgentConversation) TableName() string {
	return "agent_conversations"
}

// AgentMessage represents a single turn in an agent conversation.
// Payload carries optional structured blocks (cards, estimates, checklists)
// rendered by the hub UI; stored and returned verbatim.
type AgentMessage struct {
	Id             string  `json:"id" gorm:"column:id;primaryKey"`
	ConversationId string  `json:"conversation_id" gorm:"column:conversation_id;index"`
	Role           string  `json:"role" gorm:"column:role"`
	Content        string  `json:"content" gorm:"column:content"`
	Payload        *string `json:"payload,omitempty" gorm:"column:payload;type:json"`
	CreatedAt      int64   `json:"created_at" gorm:"column:created_at;autoCreateTime:milli"`
}

// TableName returns the table name for AgentMessage
func (AgentMessage) TableName() string {
	return "agent_messages"
}
