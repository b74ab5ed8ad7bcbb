package errors

import "fmt"

var (
	ErrNotAuthenticated     = fmt.Errorf("authentication required")
	ErrAlreadyAuthenticated = fmt.Errorf("socket already authenticated")
	ErrEmptyMessage         = fmt.Errorf("message needs content or an image")
	ErrContentTooLong       = fmt.Errorf("message content too long")
	ErrUnknownFrameType     = fmt.Errorf("unknown frame type")
	ErrTokenMismatch        = fmt.Errorf("token subject does not match user id")
	ErrSlowClient           = fmt.Errorf("client send buffer full")
	ErrConnectionClosed     = fmt.Errorf("connection closed")
	ErrWorkerPanic          = fmt.Errorf("worker panic")
	ErrEmptyWordList        = fmt.Errorf("no banned words have been found")
)
