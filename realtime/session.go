package realtime

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"versefeed/auth"
	"versefeed/contract"
	"versefeed/domain"
	"versefeed/errors"
	"versefeed/observability"
	"versefeed/protocol"
)

var validate = validator.New()

// sessionState is the explicit per-connection state. Keeping it a tagged
// value instead of a nullable user id makes illegal transitions (a message
// frame while unauthenticated) a representable, testable case.
type sessionState int

const (
	stateUnauthenticated sessionState = iota
	stateAuthenticated
	stateClosed
)

// Session is the per-connection protocol handler. One Session is owned by
// exactly one socket read loop; HandleFrame and Close are never called
// concurrently. Cross-connection traffic only ever reaches a Session
// through its FrameWriter.
type Session struct {
	id       uuid.UUID
	log      *slog.Logger
	registry contract.IRegistry
	messages contract.IMessageService
	router   contract.IRouter
	verifier *auth.Verifier
	writer   contract.FrameWriter
	stats    *observability.DeliveryStats
	state    sessionState
	userID   int64
}

func NewSession(
	log *slog.Logger,
	registry contract.IRegistry,
	messages contract.IMessageService,
	router contract.IRouter,
	verifier *auth.Verifier,
	writer contract.FrameWriter,
	stats *observability.DeliveryStats,
) *Session {
	id := uuid.New()
	return &Session{
		id:       id,
		log:      log.With("session_id", id.String()),
		registry: registry,
		messages: messages,
		router:   router,
		verifier: verifier,
		writer:   writer,
		stats:    stats,
		state:    stateUnauthenticated,
	}
}

// HandleFrame processes one inbound frame. Every failure is contained at
// the frame boundary: the client gets an error frame and the connection
// stays open in its current state. A single bad frame must not terminate
// the session.
func (s *Session) HandleFrame(ctx context.Context, data []byte) {
	if s.state == stateClosed {
		return
	}
	env, err := protocol.DecodeEnvelope(data)
	if err != nil {
		s.reject(ctx, "malformed frame: invalid json")
		return
	}
	if err := s.dispatch(ctx, env); err != nil {
		s.reject(ctx, err.Error())
	}
}

// dispatch is the state x frame-type transition table.
func (s *Session) dispatch(ctx context.Context, env protocol.Envelope) error {
	switch s.state {
	case stateUnauthenticated:
		switch env.Type {
		case protocol.TypeAuth:
			return s.handleAuth(env.Raw)
		case protocol.TypeMessage, protocol.TypeMarkRead:
			return errors.ErrNotAuthenticated
		default:
			return errors.ErrUnknownFrameType
		}
	case stateAuthenticated:
		switch env.Type {
		case protocol.TypeAuth:
			return errors.ErrAlreadyAuthenticated
		case protocol.TypeMessage:
			return s.handleMessage(ctx, env.Raw)
		case protocol.TypeMarkRead:
			return s.handleMarkRead(ctx, env.Raw)
		default:
			return errors.ErrUnknownFrameType
		}
	}
	return nil
}

// handleAuth binds this socket to a user identity. When the frame carries a
// token it must verify and name the same user; without one the identity is
// trusted, since session authentication lives upstream.
func (s *Session) handleAuth(raw json.RawMessage) error {
	var frame protocol.AuthFrame
	if err := json.Unmarshal(raw, &frame); err != nil {
		return err
	}
	if err := validate.Struct(frame); err != nil {
		return err
	}
	if frame.Token != "" && s.verifier != nil {
		claims, err := s.verifier.Verify(frame.Token)
		if err != nil {
			return err
		}
		if claims.UserID != frame.UserID {
			return errors.ErrTokenMismatch
		}
	}
	s.registry.Bind(frame.UserID, s.writer)
	s.userID = frame.UserID
	s.state = stateAuthenticated
	s.log.Info("Socket authenticated", "user_id", s.userID)
	return nil
}

// handleMessage persists first, then attempts live delivery, then confirms
// to the sender. Persistence before delivery means a message is never lost
// just because the receiver is momentarily offline; the confirmation is
// unconditional because durability, not live delivery, is the contract.
func (s *Session) handleMessage(ctx context.Context, raw json.RawMessage) error {
	var frame protocol.MessageFrame
	if err := json.Unmarshal(raw, &frame); err != nil {
		return err
	}
	persisted, err := s.messages.CreateMessage(ctx, domain.CreateMessageCommand{
		SenderID:   s.userID,
		ReceiverID: frame.ReceiverID,
		Content:    frame.Content,
		ImageData:  frame.ImageData,
	})
	if err != nil {
		return err
	}
	s.stats.IncrMessagesPersisted()

	s.router.Route(ctx, frame.ReceiverID, protocol.NewMessagePush(persisted))

	if err := s.writer.WriteFrame(ctx, protocol.NewMessageSent(persisted)); err != nil {
		// The sender's own socket failed mid-frame; nothing to report to.
		s.log.Warn("Could not confirm persisted message to sender",
			"user_id", s.userID,
			"message_id", persisted.ID,
			"error", err)
	}
	return nil
}

// handleMarkRead flips the unread batch from the given sender, then pushes
// a read receipt to the sender if still online. The receipt fires even when
// zero messages were flipped, so repeating the frame is harmless.
func (s *Session) handleMarkRead(ctx context.Context, raw json.RawMessage) error {
	var frame protocol.MarkReadFrame
	if err := json.Unmarshal(raw, &frame); err != nil {
		return err
	}
	if _, err := s.messages.MarkConversationRead(domain.MarkReadCommand{
		ReceiverID: s.userID,
		SenderID:   frame.SenderID,
	}); err != nil {
		return err
	}
	s.stats.IncrReadReceipts()
	s.router.Route(ctx, frame.SenderID, protocol.NewMessagesRead(s.userID))
	return nil
}

// Close releases the registry binding, if this socket still owns it, and
// makes the session inert. Safe to call once the read loop ends for any
// reason: client disconnect, network failure, server shutdown.
func (s *Session) Close() {
	if s.state == stateAuthenticated {
		s.registry.Release(s.userID, s.writer)
		s.log.Info("Socket closed", "user_id", s.userID)
	}
	s.state = stateClosed
}

func (s *Session) reject(ctx context.Context, reason string) {
	s.stats.IncrFramesRejected()
	if err := s.writer.WriteFrame(ctx, protocol.NewError(reason)); err != nil {
		s.log.Debug("Could not deliver error frame", "error", err)
	}
}
