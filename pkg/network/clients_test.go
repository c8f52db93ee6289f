package network

import (
	"bytes"
	"context"
	"os"
	"testing"

	"github.com/cbodonnell/bullseye/pkg/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(id string) *Client {
	return NewClient(id, "127.0.0.1:1234", nil, NewOutbox(8), nil)
}

func TestClientManagerLoginAndDisconnect(t *testing.T) {
	cm := NewClientManager()
	client := newTestClient("c1")
	require.NoError(t, cm.AddClient(client))
	assert.Error(t, cm.AddClient(client))
	assert.False(t, client.LoggedIn())

	require.NoError(t, cm.Login("c1", "alice"))
	assert.Equal(t, "alice", client.Username())
	event := <-cm.GetConnectionEventChan()
	assert.Equal(t, ConnectionEventTypeConnect, event.Type)
	assert.Equal(t, "c1", event.ClientID)
	assert.Equal(t, ClientConnectData{Username: "alice"}, event.Data)

	cm.DisconnectClient("c1")
	event = <-cm.GetConnectionEventChan()
	assert.Equal(t, ConnectionEventTypeDisconnect, event.Type)
	assert.Equal(t, 0, cm.Count())
	assert.False(t, client.Send([]byte("x")), "sends to a disconnected client are dropped")

	cm.DisconnectClient("c1")
	assert.Error(t, cm.Login("c1", "alice"))
}

func TestClientManagerDisconnectBeforeLogin(t *testing.T) {
	cm := NewClientManager()
	require.NoError(t, cm.AddClient(newTestClient("c1")))
	cm.DisconnectClient("c1")

	select {
	case event := <-cm.GetConnectionEventChan():
		t.Fatalf("unexpected event %v", event)
	default:
	}
}

func TestClientManagerSendToClients(t *testing.T) {
	cm := NewClientManager()
	a := newTestClient("a")
	b := newTestClient("b")
	require.NoError(t, cm.AddClient(a))
	require.NoError(t, cm.AddClient(b))

	cm.SendToClients([]string{"a", "missing"}, []byte("frame"))

	assert.Equal(t, 1, a.outbox.Len())
	assert.Equal(t, 0, b.outbox.Len())
	got, err := a.outbox.Pop(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "frame", string(got))

	clients := cm.GetClients()
	require.Len(t, clients, 2)
	assert.Equal(t, "a", clients[0].ID)
}

func TestClientManagerDisconnectLogsDroppedFrames(t *testing.T) {
	buf := &bytes.Buffer{}
	log.SetDefaultLogger(log.New(buf, "", 0, log.LogLevelDebug))
	defer log.SetDefaultLogger(log.New(os.Stdout, "", log.DefaultLoggerFlag, log.LogLevelDebug))

	cm := NewClientManager()
	client := NewClient("slow", "127.0.0.1:1234", nil, NewOutbox(1), nil)
	require.NoError(t, cm.AddClient(client))
	cm.SendToClients([]string{"slow"}, []byte("a"))
	cm.SendToClients([]string{"slow"}, []byte("b"))
	cm.SendToClients([]string{"slow"}, []byte("c"))
	require.Equal(t, uint64(2), client.outbox.Dropped())

	cm.DisconnectClient("slow")

	assert.Contains(t, buf.String(), "Client slow dropped 2 frames from a full outbox")
}

func TestValidateUsername(t *testing.T) {
	assert.Error(t, ValidateUsername("a"))
	assert.NoError(t, ValidateUsername("al"))
	assert.NoError(t, ValidateUsername("玩家"))
	assert.Error(t, ValidateUsername("abcdefghijklmnopqrstu"))
}
