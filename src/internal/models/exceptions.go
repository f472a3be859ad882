package models

import "errors"

var (
	ErrRedisConnection = errors.New("redis connection error")
	ErrRedisGet        = errors.New("redis get error")
	ErrRedisSet        = errors.New("redis set error")
	ErrRedisDelete     = errors.New("redis delete error")
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session expired")
	ErrSessionInactive = errors.New("session inactive")
	ErrSessionInvalid  = errors.New("session invalid")
)

var (
	ErrDatabaseConnection = errors.New("database connection error")
	ErrDatabaseQuery      = errors.New("database query error")
	ErrDatabaseInsert     = errors.New("database insert error")
	ErrDatabaseUpdate     = errors.New("database update error")
	ErrRecordNotFound     = errors.New("record not found")
)

var (
	ErrConnectionClosed = errors.New("connection closed")
	ErrSendBufferFull   = errors.New("connection send buffer full")
)

var (
	ErrMessageNotFound     = errors.New("message not found")
	ErrEmptyMessageContent = errors.New("message content is empty")
	ErrMessageTooLong      = errors.New("message content exceeds limit")
	ErrMissingParticipant  = errors.New("message requires sender and receiver")
	ErrInvalidMessageID    = errors.New("invalid message id")
	ErrReplyNotFound       = errors.New("replied-to message not found")
	ErrNotMessageSender    = errors.New("only the sender may unsend a message")
	ErrMessageUnsent       = errors.New("message already unsent")
)
