package network

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cbodonnell/bullseye/pkg/log"
	"github.com/cbodonnell/bullseye/pkg/messages"
	"github.com/gorilla/websocket"
)

// WSClient is a headless game client.
type WSClient struct {
	serverAddr string
	username   string
	tracker    *TargetTracker
	conn       *websocket.Conn
	writeMu    sync.Mutex
	score      atomic.Int64
	hits       atomic.Int64
	rejected   atomic.Int64
}

// NewWSClient creates a new WebSocket client.
func NewWSClient(serverAddr string, username string, tracker *TargetTracker) *WSClient {
	return &WSClient{
		serverAddr: serverAddr,
		username:   username,
		tracker:    tracker,
	}
}

// Connect establishes a connection to the WebSocket server.
func (c *WSClient) Connect(ctx context.Context) error {
	log.Debug("Connecting to WebSocket server at %s", c.serverAddr)
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.serverAddr, nil)
	if err != nil {
		return fmt.Errorf("failed to connect to server: %v", err)
	}
	c.conn = conn
	return nil
}

// Login sends a login and waits for the server's answer. It must be called
// before HandleMessages.
func (c *WSClient) Login(token string, timeout time.Duration) (string, error) {
	if err := c.SendMessage(messages.MessageTypeClientLogin, &messages.ClientLogin{
		Username: c.username,
		Token:    token,
	}); err != nil {
		return "", err
	}

	if err := c.conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
		return "", fmt.Errorf("failed to set read deadline: %v", err)
	}
	defer c.conn.SetReadDeadline(time.Time{})

	for {
		_, b, err := c.conn.ReadMessage()
		if err != nil {
			return "", fmt.Errorf("failed to read login response: %v", err)
		}
		msg, err := messages.DeserializeMessage(b)
		if err != nil {
			return "", fmt.Errorf("failed to deserialize message: %v", err)
		}
		switch msg.Type {
		case messages.MessageTypeServerLoginSuccess:
			loginSuccess := &messages.ServerLoginSuccess{}
			if err := json.Unmarshal(msg.Payload, loginSuccess); err != nil {
				return "", fmt.Errorf("failed to deserialize server login success message: %v", err)
			}
			c.username = loginSuccess.Username
			return loginSuccess.Username, nil
		case messages.MessageTypeServerLoginFailure:
			loginFailure := &messages.ServerLoginFailure{}
			if err := json.Unmarshal(msg.Payload, loginFailure); err != nil {
				return "", fmt.Errorf("failed to deserialize server login failure message: %v", err)
			}
			return "", fmt.Errorf("server login failure: %s", loginFailure.Reason)
		default:
			log.Trace("Ignoring %s before login", msg.Type)
		}
	}
}

// HandleMessages reads messages from the server until the connection closes.
func (c *WSClient) HandleMessages(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		c.conn.Close()
	}()
	for {
		_, b, err := c.conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				return fmt.Errorf("failed to read message: %v", err)
			}
			log.Trace("Connection closed for %s", c.username)
			return nil
		}
		if err := c.handleMessage(b); err != nil {
			log.Error("Failed to handle message: %v", err)
		}
	}
}

func (c *WSClient) handleMessage(b []byte) error {
	msg, err := messages.DeserializeMessage(b)
	if err != nil {
		return fmt.Errorf("failed to deserialize message: %v", err)
	}

	switch msg.Type {
	case messages.MessageTypeServerInitTargets:
		initTargets := &messages.ServerInitTargets{}
		if err := json.Unmarshal(msg.Payload, initTargets); err != nil {
			return fmt.Errorf("failed to deserialize init targets message: %v", err)
		}
		c.tracker.Reset(initTargets.Targets)
	case messages.MessageTypeServerUpdateTargets:
		updateTargets := &messages.ServerUpdateTargets{}
		if err := json.Unmarshal(msg.Payload, updateTargets); err != nil {
			return fmt.Errorf("failed to deserialize update targets message: %v", err)
		}
		c.tracker.Reset(updateTargets.Targets)
	case messages.MessageTypeServerNewTarget:
		newTarget := &messages.ServerNewTarget{}
		if err := json.Unmarshal(msg.Payload, newTarget); err != nil {
			return fmt.Errorf("failed to deserialize new target message: %v", err)
		}
		c.tracker.Add(newTarget.Target)
	case messages.MessageTypeServerTargetHit:
		targetHit := &messages.ServerTargetHit{}
		if err := json.Unmarshal(msg.Payload, targetHit); err != nil {
			return fmt.Errorf("failed to deserialize target hit message: %v", err)
		}
		c.tracker.Remove(targetHit.TargetID)
		if targetHit.Username == c.username {
			c.score.Add(int64(targetHit.Points))
			c.hits.Add(1)
		}
	case messages.MessageTypeServerHitRejected:
		hitRejected := &messages.ServerHitRejected{}
		if err := json.Unmarshal(msg.Payload, hitRejected); err != nil {
			return fmt.Errorf("failed to deserialize hit rejected message: %v", err)
		}
		c.tracker.Remove(hitRejected.TargetID)
		c.rejected.Add(1)
	case messages.MessageTypeServerLeaderboard, messages.MessageTypeServerLoginSuccess:
		log.Trace("Received %s", msg.Type)
	default:
		return fmt.Errorf("received unexpected message type from WebSocket server: %s", msg.Type)
	}
	return nil
}

// Hit claims a target.
func (c *WSClient) Hit(targetID uint64) error {
	return c.SendMessage(messages.MessageTypeClientHit, &messages.ClientHit{TargetID: targetID})
}

// SendMessage sends a message to the WebSocket server. Safe for concurrent use.
func (c *WSClient) SendMessage(t messages.MessageType, payload interface{}) error {
	b, err := messages.Encode(t, payload)
	if err != nil {
		return fmt.Errorf("failed to serialize message: %v", err)
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if err := c.conn.WriteMessage(websocket.TextMessage, b); err != nil {
		return fmt.Errorf("failed to write message to WebSocket connection: %v", err)
	}
	return nil
}

// Stats returns the score, accepted hits and rejected hits seen so far.
func (c *WSClient) Stats() (score int, hits int, rejected int) {
	return int(c.score.Load()), int(c.hits.Load()), int(c.rejected.Load())
}

// Targets returns the tracker of live targets.
func (c *WSClient) Targets() *TargetTracker {
	return c.tracker
}

func (c *WSClient) Username() string {
	return c.username
}

// Close closes the WebSocket connection.
func (c *WSClient) Close() error {
	if c.conn == nil {
		log.Warn("WebSocket connection is already closed")
		return nil
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = c.conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
	return c.conn.Close()
}
