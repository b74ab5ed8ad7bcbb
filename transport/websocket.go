// Package transport carries protocol frames over gorilla websockets. Each
// client holds one persistent connection; everything the messaging core
// does is multiplexed over it.
package transport

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"versefeed/auth"
	"versefeed/contract"
	"versefeed/observability"
	"versefeed/realtime"
)

type Server struct {
	log            *slog.Logger
	registry       contract.IRegistry
	messages       contract.IMessageService
	router         contract.IRouter
	verifier       *auth.Verifier
	stats          *observability.DeliveryStats
	sendBufferSize int
	writeTimeout   time.Duration
	upgrader       websocket.Upgrader
}

func NewServer(
	log *slog.Logger,
	registry contract.IRegistry,
	messages contract.IMessageService,
	router contract.IRouter,
	verifier *auth.Verifier,
	stats *observability.DeliveryStats,
	sendBufferSize int,
	writeTimeout time.Duration,
) *Server {
	return &Server{
		log:            log,
		registry:       registry,
		messages:       messages,
		router:         router,
		verifier:       verifier,
		stats:          stats,
		sendBufferSize: sendBufferSize,
		writeTimeout:   writeTimeout,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The browser client is served from another origin in dev.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleSocket)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ok")
	})
	return mux
}

// handleSocket owns the whole life of one connection: upgrade, session
// creation, the read loop, and cleanup. This method blocks until the client
// disconnects or a network error occurs; deferred cleanup guarantees the
// registry never keeps a binding for a dead socket of ours.
func (s *Server) handleSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Error("Websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	peer := newPeer(conn, s.log, s.sendBufferSize, s.writeTimeout)
	go peer.writePump()
	defer peer.shutdown()

	session := realtime.NewSession(
		s.log, s.registry, s.messages, s.router, s.verifier, peer, s.stats)
	defer session.Close()

	ctx := r.Context()
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			s.log.Debug("Read loop ended", "error", err)
			return
		}
		session.HandleFrame(ctx, data)
	}
}
