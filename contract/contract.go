//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"
	"reflect"

	"versefeed/domain"
)

// FrameWriter is the server-side handle of one live client socket.
// WriteFrame marshals and pushes a single outbound frame; it must be safe
// to call from any connection's handler, since delivery crosses sessions.
type FrameWriter interface {
	WriteFrame(ctx context.Context, frame any) error
}

// IRegistry tracks which authenticated users currently have an open,
// writable socket. Pure in-memory map operations, none of them fail.
type IRegistry interface {
	Bind(userID int64, w FrameWriter)
	Unbind(userID int64)
	Release(userID int64, w FrameWriter)
	Lookup(userID int64) (FrameWriter, bool)
}

// IMessageStore is the durable log of direct messages.
type IMessageStore interface {
	StoreMessage(cmd domain.CreateMessageCommand) (domain.Message, error)
	GetConversation(userA, userB int64) ([]domain.Message, error)
	MarkConversationRead(receiverID, senderID int64) (bool, error)
}

// IMessageService sits between the protocol handler and the store:
// validation and moderation happen here, before anything is persisted.
type IMessageService interface {
	CreateMessage(ctx context.Context, cmd domain.CreateMessageCommand) (domain.Message, error)
	GetConversation(userA, userB int64) ([]domain.Message, error)
	MarkConversationRead(cmd domain.MarkReadCommand) (bool, error)
}

// IRouter pushes a frame to a user's live socket if one is bound.
// Fire and forget: no queuing, no retry, never raises.
type IRouter interface {
	Route(ctx context.Context, userID int64, frame any)
}

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes during worker initialization
// or lifecycle events, avoiding the need for manual naming in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}
