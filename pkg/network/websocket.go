package network

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/cbodonnell/bullseye/pkg/log"
	"github.com/cbodonnell/bullseye/pkg/messages"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
	"nhooyr.io/websocket"
)

// MessageHandler handles a decoded inbound message. It is called from the
// connection's read loop, so messages of one connection are handled in order.
type MessageHandler func(ctx context.Context, client *Client, message *messages.Message)

// WSServer accepts WebSocket connections and runs their read, write and ping loops.
type WSServer struct {
	clientManager     *ClientManager
	messageHandler    MessageHandler
	originPatterns    []string
	readLimit         int64
	writeTimeout      time.Duration
	heartbeatInterval time.Duration
	outboxSize        int
	messagesPerSecond float64
	messageBurst      int
}

type NewWSServerOptions struct {
	ClientManager  *ClientManager
	MessageHandler MessageHandler
	// OriginPatterns are the cross origin hosts allowed to connect
	OriginPatterns    []string
	ReadLimit         int64
	WriteTimeout      time.Duration
	HeartbeatInterval time.Duration
	OutboxSize        int
	// MessagesPerSecond limits inbound messages per connection. Zero disables the limit.
	MessagesPerSecond float64
	MessageBurst      int
}

// NewWSServer creates a new WebSocket server.
func NewWSServer(opts NewWSServerOptions) *WSServer {
	if opts.ReadLimit <= 0 {
		opts.ReadLimit = messages.MessageBufferSize
	}
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = 5 * time.Second
	}
	if opts.MessageBurst < 1 {
		opts.MessageBurst = 1
	}
	return &WSServer{
		clientManager:     opts.ClientManager,
		messageHandler:    opts.MessageHandler,
		originPatterns:    opts.OriginPatterns,
		readLimit:         opts.ReadLimit,
		writeTimeout:      opts.WriteTimeout,
		heartbeatInterval: opts.HeartbeatInterval,
		outboxSize:        opts.OutboxSize,
		messagesPerSecond: opts.MessagesPerSecond,
		messageBurst:      opts.MessageBurst,
	}
}

// ServeHTTP upgrades the request and serves the connection until it closes.
func (s *WSServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: s.originPatterns,
	})
	if err != nil {
		log.Error("Failed to accept WebSocket connection: %v", err)
		return
	}
	conn.SetReadLimit(s.readLimit)

	var limiter *rate.Limiter
	if s.messagesPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(s.messagesPerSecond), s.messageBurst)
	}
	client := NewClient(uuid.NewString(), r.RemoteAddr, conn, NewOutbox(s.outboxSize), limiter)
	if err := s.clientManager.AddClient(client); err != nil {
		log.Error("Failed to add client: %v", err)
		conn.Close(websocket.StatusInternalError, "")
		return
	}
	log.Debug("New WebSocket connection %s from %s", client.ID, client.RemoteAddr)

	s.handleWSConnection(r.Context(), client)
}

// handleWSConnection handles a WebSocket connection.
func (s *WSServer) handleWSConnection(ctx context.Context, client *Client) {
	ctx, cancel := context.WithCancel(ctx)
	defer func() {
		cancel()
		s.clientManager.DisconnectClient(client.ID)
		client.conn.Close(websocket.StatusNormalClosure, "")
		log.Info("Client %s disconnected", client.ID)
	}()

	go s.writeLoop(ctx, cancel, client)
	if s.heartbeatInterval > 0 {
		go s.pingLoop(ctx, cancel, client)
	}

	for {
		typ, data, err := client.conn.Read(ctx)
		if err != nil {
			switch websocket.CloseStatus(err) {
			case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				log.Trace("Connection closed for %s", client.ID)
			default:
				if !errors.Is(err, context.Canceled) {
					log.Debug("Error reading WebSocket message from %s: %v", client.ID, err)
				}
			}
			return
		}
		if typ != websocket.MessageText && typ != websocket.MessageBinary {
			continue
		}

		if !client.Allow() {
			log.Warn("Rate limit exceeded for client %s, discarding message", client.ID)
			continue
		}

		message, err := messages.DeserializeMessage(data)
		if err != nil {
			log.Warn("Discarding malformed message from client %s: %v", client.ID, err)
			continue
		}
		message.ClientID = client.ID

		s.messageHandler(ctx, client, message)
	}
}

// writeLoop writes queued frames in order until the connection is done.
// A failed or timed out write closes the connection.
func (s *WSServer) writeLoop(ctx context.Context, cancel context.CancelFunc, client *Client) {
	defer cancel()
	for {
		frame, err := client.outbox.Pop(ctx)
		if err != nil {
			return
		}

		writeCtx, writeCancel := context.WithTimeout(ctx, s.writeTimeout)
		err = client.conn.Write(writeCtx, websocket.MessageText, frame)
		writeCancel()
		if err != nil {
			log.Debug("Failed to write to client %s: %v", client.ID, err)
			return
		}
	}
}

// pingLoop closes connections whose peer stops answering pings.
func (s *WSServer) pingLoop(ctx context.Context, cancel context.CancelFunc, client *Client) {
	ticker := time.NewTicker(s.heartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			pingCtx, pingCancel := context.WithTimeout(ctx, s.heartbeatInterval)
			err := client.conn.Ping(pingCtx)
			pingCancel()
			if err != nil {
				log.Debug("Ping to client %s failed: %v", client.ID, err)
				cancel()
				return
			}
		}
	}
}
