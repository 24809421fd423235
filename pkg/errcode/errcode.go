package errcode

import "fmt"

// Error represents a business error
type Error struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("errcode: %d, msg: %s", e.Code, e.Msg)
}

// New creates a new error with code and message
func New(code int, msg string) *Error {
	return &Error{Code: code, Msg: msg}
}

// Wrap wraps an error with additional context
func (e *Error) Wrap(err error) *Error {
	if err == nil {
		return e
	}
	return &Error{
		Code: e.Code,
		Msg:  fmt.Sprintf("%s: %v", e.Msg, err),
	}
}

// Common error codes
var (
	// Success
	ErrSuccess = New(0, "success")

	// Common errors (1xxx)
	ErrInvalidParam    = New(1001, "invalid parameter")
	ErrInternalServer  = New(1002, "internal server error")
	ErrUnauthorized    = New(1003, "unauthorized")
	ErrForbidden       = New(1004, "forbidden")
	ErrNotFound        = New(1005, "not found")
	ErrTooManyRequests = New(1006, "too many requests")

	// Auth errors (2xxx)
	ErrTokenInvalid  = New(2001, "token invalid")
	ErrTokenExpired  = New(2002, "token expired")
	ErrTokenMissing  = New(2003, "token missing")
	ErrTokenMismatch = New(2004, "token user mismatch")
	ErrLoginFailed   = New(2005, "login failed")
	ErrUserNotFound  = New(2006, "user not found")
	ErrUserExists    = New(2007, "user already exists")
	ErrPasswordWrong = New(2008, "password wrong")

	// Chat errors (3xxx)
	ErrConvNotFound             = New(3001, "conversation not found")
	ErrConvListFailed           = New(3002, "conversation list fetch failed")
	ErrMessageEmpty             = New(3003, "message has no content")
	ErrMessageNotFound          = New(3004, "message not found")
	ErrSendFailed               = New(3005, "message send failed")
	ErrDeleteFailed             = New(3006, "conversation delete failed")
	ErrChannelDeleteUnsupported = New(3007, "channel conversations cannot be deleted")
	ErrReadStateFailed          = New(3008, "read state update failed")

	// Project and media errors (4xxx)
	ErrProjectNotFound = New(4001, "project not found")
	ErrPhotoNotFound   = New(4002, "photo not found")
	ErrUploadFailed    = New(4003, "media upload failed")
	ErrStorageTimeout  = New(4004, "storage operation is taking too long")
	ErrDeleteMedia     = New(4005, "media delete failed")

	// Agent hub errors (5xxx)
	ErrAgentConvNotFound = New(5001, "agent conversation not found")
	ErrAgentSaveFailed   = New(5002, "agent message save failed")

	// Lead errors (6xxx)
	ErrLeadInvalid    = New(6001, "lead is missing required fields")
	ErrLeadSaveFailed = New(6002, "lead save failed")

	// WebSocket errors (7xxx)
	ErrConnOverLimit   = New(7001, "connection over max limit")
	ErrConnClosed      = New(7002, "connection closed")
	ErrInvalidProtocol = New(7003, "invalid protocol")
	ErrPushFailed      = New(7004, "push message failed")
)
