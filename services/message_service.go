package services

import (
	"context"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"

	"versefeed/contract"
	"versefeed/domain"
	"versefeed/errors"
	"versefeed/moderation"
)

var validate = validator.New()

// MessageService validates and moderates sending intents before they reach
// the store. The store stays a dumb durable log; every rule lives here.
type MessageService struct {
	store            contract.IMessageStore
	censor           *moderation.Censor
	log              *slog.Logger
	maxContentLength int
}

func NewMessageService(store contract.IMessageStore, censor *moderation.Censor,
	log *slog.Logger, maxContentLength int) *MessageService {
	return &MessageService{
		store:            store,
		censor:           censor,
		log:              log,
		maxContentLength: maxContentLength,
	}
}

// CreateMessage persists a direct message and returns it with its assigned
// id and timestamp. A message needs text or an image; an image-only message
// with empty content is valid.
func (s *MessageService) CreateMessage(_ context.Context, cmd domain.CreateMessageCommand) (domain.Message, error) {
	if err := validate.Struct(cmd); err != nil {
		return domain.Message{}, err
	}
	if strings.TrimSpace(cmd.Content) == "" && cmd.ImageData == nil {
		return domain.Message{}, errors.ErrEmptyMessage
	}
	if len(cmd.Content) > s.maxContentLength {
		return domain.Message{}, errors.ErrContentTooLong
	}
	if s.censor != nil {
		cmd.Content = s.censor.Apply(cmd.Content)
	}
	return s.store.StoreMessage(cmd)
}

func (s *MessageService) GetConversation(userA, userB int64) ([]domain.Message, error) {
	return s.store.GetConversation(userA, userB)
}

// MarkConversationRead flips the whole unread batch from cmd.SenderID to
// cmd.ReceiverID. The bool reports whether anything was flipped; callers
// decide whether that matters.
func (s *MessageService) MarkConversationRead(cmd domain.MarkReadCommand) (bool, error) {
	if err := validate.Struct(cmd); err != nil {
		return false, err
	}
	return s.store.MarkConversationRead(cmd.ReceiverID, cmd.SenderID)
}
