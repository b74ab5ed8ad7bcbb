package repositories

import (
	"fmt"
	"log/slog"
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"

	"versefeed/domain"
)

func newTestRepository(t *testing.T) *MessageRepository {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions("").
		WithInMemory(true).
		WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repository, err := NewMessageRepository(db, slog.Default())
	require.NoError(t, err)
	t.Cleanup(func() { _ = repository.Close() })
	return repository
}

func TestMessageRepository_Ids_Strictly_Increase(t *testing.T) {
	req := require.New(t)
	repository := newTestRepository(t)

	// When storing messages in order m1, m2, m3 from one sender
	var stored []domain.Message
	for i := 1; i <= 3; i++ {
		message, err := repository.StoreMessage(domain.CreateMessageCommand{
			SenderID: 1, ReceiverID: 2, Content: fmt.Sprintf("poem draft %d", i),
		})
		req.NoError(err)
		stored = append(stored, message)
	}

	// Then ids and timestamps never decrease and read starts false
	for i := 1; i < len(stored); i++ {
		req.Greater(stored[i].ID, stored[i-1].ID)
		req.False(stored[i].CreatedAt.Before(stored[i-1].CreatedAt))
	}
	req.False(stored[0].IsRead)
}

func TestMessageRepository_Conversation_Is_Direction_Agnostic(t *testing.T) {
	req := require.New(t)
	repository := newTestRepository(t)

	// Given an exchange in both directions
	_, err := repository.StoreMessage(domain.CreateMessageCommand{
		SenderID: 1, ReceiverID: 2, Content: "did you read my haiku?"})
	req.NoError(err)
	_, err = repository.StoreMessage(domain.CreateMessageCommand{
		SenderID: 2, ReceiverID: 1, Content: "yes, loved the last line"})
	req.NoError(err)

	// When fetching from either side
	forward, err := repository.GetConversation(1, 2)
	req.NoError(err)
	backward, err := repository.GetConversation(2, 1)
	req.NoError(err)

	// Then both see the full history, oldest first
	req.Len(forward, 2)
	req.Equal(forward, backward)
	req.Equal("did you read my haiku?", forward[0].Content)
	req.Equal("yes, loved the last line", forward[1].Content)
}

func TestMessageRepository_Conversations_Are_Isolated(t *testing.T) {
	req := require.New(t)
	repository := newTestRepository(t)

	_, err := repository.StoreMessage(domain.CreateMessageCommand{
		SenderID: 1, ReceiverID: 2, Content: "for you"})
	req.NoError(err)
	_, err = repository.StoreMessage(domain.CreateMessageCommand{
		SenderID: 1, ReceiverID: 3, Content: "for someone else"})
	req.NoError(err)

	messages, err := repository.GetConversation(1, 2)
	req.NoError(err)
	req.Len(messages, 1)
	req.Equal("for you", messages[0].Content)
}

func TestMessageRepository_Image_Only_Message_Round_Trips(t *testing.T) {
	req := require.New(t)
	repository := newTestRepository(t)
	image := "aGFuZHdyaXR0ZW4gcG9lbQ=="

	stored, err := repository.StoreMessage(domain.CreateMessageCommand{
		SenderID: 1, ReceiverID: 2, Content: "", ImageData: &image,
	})
	req.NoError(err)

	messages, err := repository.GetConversation(1, 2)
	req.NoError(err)
	req.Len(messages, 1)
	req.NotNil(messages[0].ImageData)
	req.Equal(image, *messages[0].ImageData)
	req.Equal(stored.ID, messages[0].ID)
}

func TestMessageRepository_MarkConversationRead_Flips_One_Direction(t *testing.T) {
	req := require.New(t)
	repository := newTestRepository(t)

	// Given two messages from 1 to 2 and one from 2 to 1
	for i := 0; i < 2; i++ {
		_, err := repository.StoreMessage(domain.CreateMessageCommand{
			SenderID: 1, ReceiverID: 2, Content: "unread"})
		req.NoError(err)
	}
	_, err := repository.StoreMessage(domain.CreateMessageCommand{
		SenderID: 2, ReceiverID: 1, Content: "also unread"})
	req.NoError(err)

	// When user 2 marks messages from user 1 as read
	flipped, err := repository.MarkConversationRead(2, 1)
	req.NoError(err)
	req.True(flipped)

	// Then only the 1 -> 2 half of the conversation is read
	messages, err := repository.GetConversation(1, 2)
	req.NoError(err)
	readBySender := lo.GroupBy(messages, func(m domain.Message) int64 { return m.SenderID })
	for _, m := range readBySender[1] {
		req.True(m.IsRead)
	}
	for _, m := range readBySender[2] {
		req.False(m.IsRead)
	}
}

func TestMessageRepository_MarkConversationRead_Is_Idempotent(t *testing.T) {
	req := require.New(t)
	repository := newTestRepository(t)
	_, err := repository.StoreMessage(domain.CreateMessageCommand{
		SenderID: 1, ReceiverID: 2, Content: "one"})
	req.NoError(err)

	// When flipping the same batch twice
	flipped, err := repository.MarkConversationRead(2, 1)
	req.NoError(err)
	req.True(flipped)

	flipped, err = repository.MarkConversationRead(2, 1)
	req.NoError(err)

	// Then the second pass flips zero records and is not an error
	req.False(flipped)
}
