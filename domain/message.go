// Package domain contains the core concepts of the messaging layer.
// A direct message is immutable once persisted: only its read flag mutates.
package domain

import "time"

// Message is the durable unit of a conversation between two users.
// The ID is assigned by the store and is strictly increasing, so it is
// also the authoritative ordering of a conversation.
type Message struct {
	ID         int64     `json:"id"`
	SenderID   int64     `json:"sender_id"`
	ReceiverID int64     `json:"receiver_id"`
	Content    string    `json:"content"`
	ImageData  *string   `json:"image_data"`
	CreatedAt  time.Time `json:"created_at"`
	IsRead     bool      `json:"is_read"`
}

// ConversationKey normalizes an unordered user pair. A conversation has no
// entity of its own: it is the pair plus the messages filtered by it.
func ConversationKey(userA, userB int64) (int64, int64) {
	if userA > userB {
		return userB, userA
	}
	return userA, userB
}
