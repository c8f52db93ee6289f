package network

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	authproviders "github.com/cbodonnell/bullseye/pkg/auth/providers"
	"github.com/cbodonnell/bullseye/pkg/game/constants"
	"github.com/cbodonnell/bullseye/pkg/log"
	"github.com/cbodonnell/bullseye/pkg/messages"
	"github.com/cbodonnell/bullseye/pkg/queue"
)

// NetworkManager authenticates logins and forwards game messages of logged in
// clients to the game loop.
type NetworkManager struct {
	AuthProvider  authproviders.AuthProvider
	ClientManager *ClientManager
	MessageQueue  queue.Queue
	WSServer      *WSServer
}

type NewNetworkManagerOptions struct {
	AuthProvider  authproviders.AuthProvider
	ClientManager *ClientManager
	MessageQueue  queue.Queue
	WSServer      NewWSServerOptions
}

func NewNetworkManager(options NewNetworkManagerOptions) *NetworkManager {
	n := &NetworkManager{
		AuthProvider:  options.AuthProvider,
		ClientManager: options.ClientManager,
		MessageQueue:  options.MessageQueue,
	}
	wsOptions := options.WSServer
	wsOptions.ClientManager = options.ClientManager
	wsOptions.MessageHandler = n.handleMessage
	n.WSServer = NewWSServer(wsOptions)
	return n
}

func (n *NetworkManager) handleMessage(ctx context.Context, client *Client, message *messages.Message) {
	if message.Type == messages.MessageTypeClientLogin {
		username, err := n.handleClientLogin(ctx, client, message)
		if err != nil {
			log.Warn("Failed to handle login for client %s: %v", client.ID, err)
			if err := n.sendServerLoginFailure(client, err.Error()); err != nil {
				log.Error("Failed to send server login failure: %v", err)
			}
			return
		}
		log.Info("Client %s logged in as %s", client.ID, username)
		return
	}

	if !client.LoggedIn() {
		log.Debug("Dropping %s message from client %s that is not logged in", message.Type, client.ID)
		return
	}

	switch message.Type {
	case messages.MessageTypeClientHit, messages.MessageTypeClientGetLeaderboard, messages.MessageTypeClientGameEnd:
		if err := n.MessageQueue.Enqueue(message); err != nil {
			log.Error("Failed to enqueue %s message from client %s: %v", message.Type, client.ID, err)
		}
	default:
		log.Warn("Discarding message of unknown type %q from client %s", message.Type, client.ID)
	}
}

// handleClientLogin verifies the client's identity, confirms the login to the
// client and then announces it to the game.
func (n *NetworkManager) handleClientLogin(ctx context.Context, client *Client, message *messages.Message) (string, error) {
	clientLogin := &messages.ClientLogin{}
	if err := json.Unmarshal(message.Payload, clientLogin); err != nil {
		return "", fmt.Errorf("failed to unmarshal client login: %v", err)
	}

	claims, err := n.AuthProvider.VerifyToken(ctx, clientLogin.Token)
	if err != nil {
		return "", fmt.Errorf("failed to verify token: %v", err)
	}

	username := strings.TrimSpace(clientLogin.Username)
	if claims.Username != "" {
		username = claims.Username
	}
	if err := ValidateUsername(username); err != nil {
		return "", err
	}

	if err := n.sendServerLoginSuccess(client, username); err != nil {
		return "", err
	}
	if err := n.ClientManager.Login(client.ID, username); err != nil {
		return "", fmt.Errorf("failed to log in client: %v", err)
	}

	return username, nil
}

// ValidateUsername checks the length rules for player names.
func ValidateUsername(username string) error {
	length := utf8.RuneCountInString(username)
	if length < constants.UsernameMinLength || length > constants.UsernameMaxLength {
		return fmt.Errorf("username must be between %d and %d characters", constants.UsernameMinLength, constants.UsernameMaxLength)
	}
	return nil
}

func (n *NetworkManager) sendServerLoginSuccess(client *Client, username string) error {
	b, err := messages.Encode(messages.MessageTypeServerLoginSuccess, &messages.ServerLoginSuccess{
		Username: username,
	})
	if err != nil {
		return fmt.Errorf("failed to encode server login success: %v", err)
	}
	client.Send(b)
	return nil
}

func (n *NetworkManager) sendServerLoginFailure(client *Client, reason string) error {
	b, err := messages.Encode(messages.MessageTypeServerLoginFailure, &messages.ServerLoginFailure{
		Reason: reason,
	})
	if err != nil {
		return fmt.Errorf("failed to encode server login failure: %v", err)
	}
	client.Send(b)
	return nil
}

// SendToClients queues a frame for each listed client.
func (n *NetworkManager) SendToClients(clientIDs []string, frame []byte) {
	n.ClientManager.SendToClients(clientIDs, frame)
}
