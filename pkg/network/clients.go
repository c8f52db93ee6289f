package network

import (
	"fmt"
	"sort"
	"sync"

	"github.com/cbodonnell/bullseye/pkg/log"
	"golang.org/x/time/rate"
	"nhooyr.io/websocket"
)

const (
	// ConnectionEventChannelSize represents the size of the connection event channel
	ConnectionEventChannelSize = 1024
)

// Client represents a connected client
type Client struct {
	ID         string
	RemoteAddr string
	conn       *websocket.Conn
	outbox     *Outbox
	limiter    *rate.Limiter

	mu       sync.RWMutex
	username string
}

func NewClient(id string, remoteAddr string, conn *websocket.Conn, outbox *Outbox, limiter *rate.Limiter) *Client {
	return &Client{
		ID:         id,
		RemoteAddr: remoteAddr,
		conn:       conn,
		outbox:     outbox,
		limiter:    limiter,
	}
}

// Username returns the name the client logged in with, empty before login.
func (c *Client) Username() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.username
}

func (c *Client) LoggedIn() bool {
	return c.Username() != ""
}

// Send queues a frame for the client's writer. Frames for closed clients are dropped.
func (c *Client) Send(frame []byte) bool {
	return c.outbox.Push(frame)
}

// Allow reports whether the client may send another message now.
func (c *Client) Allow() bool {
	if c.limiter == nil {
		return true
	}
	return c.limiter.Allow()
}

func (c *Client) setUsername(username string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.username = username
}

// ConnectionEvent represents an event that happened to a client
type ConnectionEvent struct {
	ClientID string
	Type     ConnectionEventType
	Data     interface{}
}

// ConnectionEventType represents the type of a connection event
type ConnectionEventType int

const (
	ConnectionEventTypeConnect ConnectionEventType = iota
	ConnectionEventTypeDisconnect
)

type ClientConnectData struct {
	Username string
}

// ClientManager manages connected clients
type ClientManager struct {
	clients             map[string]*Client
	clientsLock         sync.RWMutex
	connectionEventChan chan ConnectionEvent
}

// NewClientManager creates a new ClientManager
func NewClientManager() *ClientManager {
	return &ClientManager{
		clients:             make(map[string]*Client),
		connectionEventChan: make(chan ConnectionEvent, ConnectionEventChannelSize),
	}
}

// GetConnectionEventChan returns a one-way channel for receiving connection events
func (cm *ClientManager) GetConnectionEventChan() <-chan ConnectionEvent {
	return cm.connectionEventChan
}

// AddClient registers a new, not yet logged in, client.
func (cm *ClientManager) AddClient(client *Client) error {
	cm.clientsLock.Lock()
	defer cm.clientsLock.Unlock()
	if _, ok := cm.clients[client.ID]; ok {
		return fmt.Errorf("client %s already exists", client.ID)
	}
	cm.clients[client.ID] = client
	return nil
}

// GetClient returns a connected client by ID
func (cm *ClientManager) GetClient(clientID string) (*Client, error) {
	cm.clientsLock.RLock()
	defer cm.clientsLock.RUnlock()
	client, ok := cm.clients[clientID]
	if !ok {
		return nil, fmt.Errorf("client %s not found", clientID)
	}
	return client, nil
}

// GetClients returns all connected clients ordered by ID.
func (cm *ClientManager) GetClients() []*Client {
	cm.clientsLock.RLock()
	defer cm.clientsLock.RUnlock()
	clients := make([]*Client, 0, len(cm.clients))
	for _, client := range cm.clients {
		clients = append(clients, client)
	}
	sort.Slice(clients, func(i, j int) bool {
		return clients[i].ID < clients[j].ID
	})
	return clients
}

// Count returns the number of connected clients.
func (cm *ClientManager) Count() int {
	cm.clientsLock.RLock()
	defer cm.clientsLock.RUnlock()
	return len(cm.clients)
}

// Login marks a client as logged in and emits a connect event.
// Logging in again replaces the previous identity.
func (cm *ClientManager) Login(clientID string, username string) error {
	client, err := cm.GetClient(clientID)
	if err != nil {
		return err
	}
	client.setUsername(username)

	cm.connectionEventChan <- ConnectionEvent{
		ClientID: clientID,
		Type:     ConnectionEventTypeConnect,
		Data: ClientConnectData{
			Username: username,
		},
	}
	return nil
}

// DisconnectClient removes a client from the manager and closes its outbox.
// A disconnect event is emitted if the client had logged in.
func (cm *ClientManager) DisconnectClient(clientID string) {
	cm.clientsLock.Lock()
	client, ok := cm.clients[clientID]
	if ok {
		delete(cm.clients, clientID)
	}
	cm.clientsLock.Unlock()
	if !ok {
		return
	}

	client.outbox.Close()
	if dropped := client.outbox.Dropped(); dropped > 0 {
		log.Debug("Client %s dropped %d frames from a full outbox", clientID, dropped)
	}
	if !client.LoggedIn() {
		return
	}

	cm.connectionEventChan <- ConnectionEvent{
		ClientID: clientID,
		Type:     ConnectionEventTypeDisconnect,
	}
}

// SendToClients queues a frame for each listed client. Unknown or closed
// clients are skipped.
func (cm *ClientManager) SendToClients(clientIDs []string, frame []byte) {
	cm.clientsLock.RLock()
	defer cm.clientsLock.RUnlock()
	for _, id := range clientIDs {
		client, ok := cm.clients[id]
		if !ok {
			log.Trace("Dropping frame for disconnected client %s", id)
			continue
		}
		client.Send(frame)
	}
}
