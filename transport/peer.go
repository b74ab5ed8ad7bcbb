package transport

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"versefeed/errors"
)

// peer is the FrameWriter over one websocket connection. Frames are queued
// on a buffered channel and drained by a single writePump goroutine, so any
// session may push to this socket without racing on the underlying conn.
type peer struct {
	conn         *websocket.Conn
	send         chan []byte
	log          *slog.Logger
	writeTimeout time.Duration

	mu     sync.Mutex
	closed bool
}

func newPeer(conn *websocket.Conn, log *slog.Logger, bufferSize int, writeTimeout time.Duration) *peer {
	return &peer{
		conn:         conn,
		send:         make(chan []byte, bufferSize),
		log:          log,
		writeTimeout: writeTimeout,
	}
}

// WriteFrame marshals and queues one outbound frame. It never blocks the
// caller: a full buffer means the client is too slow and the frame is
// refused, leaving the store as the durable fallback.
func (p *peer) WriteFrame(ctx context.Context, frame any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(frame)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return errors.ErrConnectionClosed
	}
	select {
	case p.send <- data:
		return nil
	default:
		return errors.ErrSlowClient
	}
}

func (p *peer) writePump() {
	for data := range p.send {
		_ = p.conn.SetWriteDeadline(time.Now().Add(p.writeTimeout))
		if err := p.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			p.log.Debug("Write pump stopped", "error", err)
			return
		}
	}
	_ = p.conn.WriteMessage(websocket.CloseMessage, []byte{})
}

// shutdown closes the send channel exactly once; late WriteFrame calls get
// ErrConnectionClosed instead of a panic on a closed channel.
func (p *peer) shutdown() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.closed {
		p.closed = true
		close(p.send)
	}
}
