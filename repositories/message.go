//go:generate go run go.uber.org/mock/mockgen -source=message.go -destination=../mocks/mock_message_repository.go -package=mocks
package repositories

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"

	"versefeed/domain"
)

const sequenceBandwidth = 64

type MessageRepository struct {
	db  *badger.DB
	seq *badger.Sequence
	log *slog.Logger
}

// NewMessageRepository opens the message id sequence on top of an already
// opened BadgerDB. The caller owns the DB; the repository owns the sequence
// and must be closed to return unused ids.
func NewMessageRepository(db *badger.DB, log *slog.Logger) (*MessageRepository, error) {
	seq, err := db.GetSequence([]byte("seq:message"), sequenceBandwidth)
	if err != nil {
		return nil, fmt.Errorf("message id sequence: %w", err)
	}
	return &MessageRepository{db: db, seq: seq, log: log}, nil
}

func (r *MessageRepository) Close() error {
	return r.seq.Release()
}

// conversationKey builds a message key under the normalized pair prefix.
// The key is formatted as "dm:{low}:{high}:{id_padded}" to:
//  1. Make a conversation one contiguous prefix scan regardless of direction.
//  2. Ensure chronological sorting using 20-digit zero padding, since ids
//     are strictly increasing (lexicographical order equals insertion order).
func conversationKey(userA, userB, id int64) []byte {
	low, high := domain.ConversationKey(userA, userB)
	return []byte(fmt.Sprintf("dm:%020d:%020d:%020d", low, high, id))
}

func conversationPrefix(userA, userB int64) []byte {
	low, high := domain.ConversationKey(userA, userB)
	return []byte(fmt.Sprintf("dm:%020d:%020d:", low, high))
}

// StoreMessage assigns the id and creation timestamp, then persists the
// message with read=false. The id comes from a Badger sequence, so it is
// unique and strictly increasing across the whole store.
func (r *MessageRepository) StoreMessage(cmd domain.CreateMessageCommand) (domain.Message, error) {
	next, err := r.seq.Next()
	if err != nil {
		return domain.Message{}, fmt.Errorf("next message id: %w", err)
	}
	message := domain.Message{
		ID:         int64(next) + 1,
		SenderID:   cmd.SenderID,
		ReceiverID: cmd.ReceiverID,
		Content:    cmd.Content,
		ImageData:  cmd.ImageData,
		CreatedAt:  time.Now().UTC(),
		IsRead:     false,
	}
	bytes, err := json.Marshal(message)
	if err != nil {
		return domain.Message{}, err
	}
	key := conversationKey(message.SenderID, message.ReceiverID, message.ID)
	err = r.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, bytes)
	})
	if err != nil {
		return domain.Message{}, err
	}
	return message, nil
}

// GetConversation returns every message exchanged between the two users,
// oldest first. Direction does not matter: both (a,b) and (b,a) resolve to
// the same prefix.
func (r *MessageRepository) GetConversation(userA, userB int64) ([]domain.Message, error) {
	var messages []domain.Message
	err := r.db.View(func(txn *badger.Txn) error {
		prefix := conversationPrefix(userA, userB)
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(value []byte) error {
				var message domain.Message
				if err := json.Unmarshal(value, &message); err != nil {
					return err
				}
				messages = append(messages, message)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	return messages, err
}

// MarkConversationRead flips read=false to true on every message sent by
// senderID to receiverID, in a single transaction. Returns whether at least
// one message was flipped; flipping zero messages is not an error, so the
// operation is idempotent.
func (r *MessageRepository) MarkConversationRead(receiverID, senderID int64) (bool, error) {
	flipped := 0
	err := r.db.Update(func(txn *badger.Txn) error {
		prefix := conversationPrefix(receiverID, senderID)
		updates := make(map[string][]byte)

		it := txn.NewIterator(badger.DefaultIteratorOptions)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			var message domain.Message
			err := item.Value(func(value []byte) error {
				return json.Unmarshal(value, &message)
			})
			if err != nil {
				it.Close()
				return err
			}
			// The prefix covers both directions of the pair; only the
			// senderID -> receiverID half is being read.
			if message.SenderID != senderID || message.ReceiverID != receiverID || message.IsRead {
				continue
			}
			message.IsRead = true
			bytes, err := json.Marshal(message)
			if err != nil {
				it.Close()
				return err
			}
			updates[string(item.KeyCopy(nil))] = bytes
		}
		it.Close()

		for key, value := range updates {
			if err := txn.Set([]byte(key), value); err != nil {
				return err
			}
		}
		flipped = len(updates)
		return nil
	})
	if err != nil {
		return false, err
	}
	if flipped > 0 {
		r.log.Debug("Marked conversation as read",
			"receiver_id", receiverID,
			"sender_id", senderID,
			"flipped", flipped)
	}
	return flipped > 0, nil
}
