package domain

// CreateMessageCommand is the intent of an authenticated user to send a
// direct message. The sender id comes from the socket binding, never from
// the frame itself.
type CreateMessageCommand struct {
	SenderID   int64  `validate:"required,gt=0"`
	ReceiverID int64  `validate:"required,gt=0"`
	Content    string
	ImageData  *string
}

// MarkReadCommand flips the read flag on every message sent by SenderID to
// ReceiverID, as a single batch.
type MarkReadCommand struct {
	ReceiverID int64 `validate:"required,gt=0"`
	SenderID   int64 `validate:"required,gt=0"`
}
