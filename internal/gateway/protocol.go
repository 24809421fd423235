package gateway

import "encoding/json"

// WSRequest represents a WebSocket request frame
type WSRequest struct {
	ReqIdentifier int32  `json:"req_identifier"` // Request type
	MsgIncr       string `json:"msg_incr"`       // Client message counter/trace Id
	OperationId   string `json:"operation_id"`   // Operation Id
	SendId        string `json:"send_id"`        // Sender user Id
	Data          []byte `json:"data"`           // Business data
}

// WSResponse represents a WebSocket response or push frame
type WSResponse struct {
	ReqIdentifier int32  `json:"req_identifier"` // Request type (echo back, or push type)
	MsgIncr       string `json:"msg_incr"`       // Message counter (echo back)
	OperationId   string `json:"operation_id"`   // Operation Id (echo back)
	ErrCode       int    `json:"err_code"`       // Error code, 0 = success
	ErrMsg        string `json:"err_msg"`        // Error message
	Data          []byte `json:"data"`           // Response data
}

// SendDirectMsgReq represents a direct message send over the socket
type SendDirectMsgReq struct {
	PeerId         string `json:"peer_id"`
	Text           string `json:"text,omitempty"`
	AttachmentURL  string `json:"attachment_url,omitempty"`
	AttachmentType string `json:"attachment_type,omitempty"`
}

// SendChannelMsgReq represents a channel post over the socket
type SendChannelMsgReq struct {
	Channel string `json:"channel"`
	Text    string `json:"text"`
}

// SendMsgResp acknowledges a stored message
type SendMsgResp struct {
	MsgId          string `json:"msg_id"`
	ConversationId string `json:"conversation_id"`
	SentAt         int64  `json:"sent_at"`
}

// MarkReadReq moves or rewinds the last-read marker for one conversation
type MarkReadReq struct {
	ConversationId string `json:"conversation_id"`
}

// PushMessageData is a delivered message as pushed to clients
type PushMessageData struct {
	MsgId          string `json:"msg_id"`
	ConversationId string `json:"conversation_id"`
	Kind           int32  `json:"kind"` // constant.ConvKindDirect / ConvKindChannel
	SenderId       string `json:"sender_id"`
	SenderName     string `json:"sender_name,omitempty"`
	Text           string `json:"text"`
	AttachmentURL  string `json:"attachment_url,omitempty"`
	AttachmentType string `json:"attachment_type,omitempty"`
	SentAt         int64  `json:"sent_at"`
}

// StalePushData tells clients their conversation list is stale and must
// be refetched. Clients never patch the list locally; they refetch.
type StalePushData struct {
	ConversationId string `json:"conversation_id,omitempty"`
	Reason         string `json:"reason"`
}

// Stale push reasons
const (
	StaleReasonNewMessage = "new_message"
)

// Encode encodes data to JSON bytes
func Encode(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

// Decode decodes JSON bytes to struct
func Decode(data []byte, v interface{}) error {
	return json.Unmarshal(data, v)
}
