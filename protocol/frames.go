// Package protocol defines the JSON frames exchanged over a client socket.
// Every frame is one discrete JSON object carrying a "type" discriminator;
// the remaining fields depend on the type.
package protocol

import (
	"encoding/json"

	"versefeed/domain"
)

const (
	// Client to server.
	TypeAuth     = "auth"
	TypeMessage  = "message"
	TypeMarkRead = "mark_read"

	// Server to client. TypeMessage is shared: inbound it is a sending
	// intent, outbound it is the push to the receiver.
	TypeMessageSent  = "message_sent"
	TypeMessagesRead = "messages_read"
	TypeError        = "error"
)

// Envelope is the first-pass decoding of any inbound frame.
// Raw keeps the original bytes for the second, type-specific pass.
type Envelope struct {
	Type string          `json:"type"`
	Raw  json.RawMessage `json:"-"`
}

func DecodeEnvelope(data []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Envelope{}, err
	}
	env.Raw = data
	return env, nil
}

type AuthFrame struct {
	UserID int64  `json:"user_id" validate:"required,gt=0"`
	Token  string `json:"token,omitempty"`
}

type MessageFrame struct {
	ReceiverID int64   `json:"receiver_id" validate:"required,gt=0"`
	Content    string  `json:"content"`
	ImageData  *string `json:"image_data,omitempty"`
}

type MarkReadFrame struct {
	SenderID int64 `json:"sender_id" validate:"required,gt=0"`
}

// Outbound frames. They marshal to the exact shapes the client expects, so
// they carry their own type tag instead of relying on the writer.

type MessagePush struct {
	Type    string         `json:"type"`
	Message domain.Message `json:"message"`
}

func NewMessagePush(m domain.Message) MessagePush {
	return MessagePush{Type: TypeMessage, Message: m}
}

// NewMessageSent confirms to the sender that its message is durably stored,
// independently of whether the receiver was online for live delivery.
func NewMessageSent(m domain.Message) MessagePush {
	return MessagePush{Type: TypeMessageSent, Message: m}
}

type MessagesRead struct {
	Type string `json:"type"`
	By   int64  `json:"by"`
}

func NewMessagesRead(by int64) MessagesRead {
	return MessagesRead{Type: TypeMessagesRead, By: by}
}

type ErrorFrame struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func NewError(msg string) ErrorFrame {
	return ErrorFrame{Type: TypeError, Message: msg}
}
