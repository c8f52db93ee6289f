package workers

import (
	"context"
	"fmt"

	"github.com/cbodonnell/bullseye/pkg/log"
	"github.com/cbodonnell/bullseye/pkg/messages"
)

// MessageSender delivers an encoded frame to connections without blocking.
type MessageSender interface {
	SendToClients(clientIDs []string, frame []byte)
}

type ServerMessageWorker struct {
	sender            MessageSender
	serverMessageChan <-chan ServerMessage
}

// ServerMessage is a message from the game loop to a set of sessions.
type ServerMessage struct {
	// Recipients are the connection ids the message is delivered to
	Recipients []string
	Type       messages.MessageType
	Message    interface{}
}

type NewServerMessageWorkerOptions struct {
	Sender            MessageSender
	ServerMessageChan <-chan ServerMessage
}

// NewServerMessageWorker creates a new ServerMessageWorker.
// The worker encodes each message once and fans it out to its recipients,
// in the order the game loop produced them.
func NewServerMessageWorker(opts NewServerMessageWorkerOptions) *ServerMessageWorker {
	return &ServerMessageWorker{
		sender:            opts.Sender,
		serverMessageChan: opts.ServerMessageChan,
	}
}

func (w *ServerMessageWorker) Start(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-w.serverMessageChan:
			if err := w.handleServerMessage(msg); err != nil {
				log.Error("Failed to handle server %s message: %v", msg.Type, err)
			}
		}
	}
}

func (w *ServerMessageWorker) handleServerMessage(msg ServerMessage) error {
	if err := checkServerMessage(msg); err != nil {
		return err
	}
	if len(msg.Recipients) == 0 {
		return nil
	}

	frame, err := messages.Encode(msg.Type, msg.Message)
	if err != nil {
		return fmt.Errorf("failed to encode message: %v", err)
	}

	w.sender.SendToClients(msg.Recipients, frame)
	return nil
}

// checkServerMessage verifies the payload matches the message type
func checkServerMessage(msg ServerMessage) error {
	ok := false
	switch msg.Type {
	case messages.MessageTypeServerInitTargets:
		_, ok = msg.Message.(*messages.ServerInitTargets)
	case messages.MessageTypeServerNewTarget:
		_, ok = msg.Message.(*messages.ServerNewTarget)
	case messages.MessageTypeServerUpdateTargets:
		_, ok = msg.Message.(*messages.ServerUpdateTargets)
	case messages.MessageTypeServerTargetHit:
		_, ok = msg.Message.(*messages.ServerTargetHit)
	case messages.MessageTypeServerHitRejected:
		_, ok = msg.Message.(*messages.ServerHitRejected)
	case messages.MessageTypeServerLeaderboard:
		_, ok = msg.Message.(*messages.ServerLeaderboard)
	default:
		return fmt.Errorf("unknown server message type: %v", msg.Type)
	}
	if !ok {
		return fmt.Errorf("failed to cast %s message, got %T", msg.Type, msg.Message)
	}
	return nil
}
