package network

import (
	"context"
	"math/rand"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	authproviders "github.com/cbodonnell/bullseye/pkg/auth/providers"
	"github.com/cbodonnell/bullseye/pkg/messages"
	servernetwork "github.com/cbodonnell/bullseye/pkg/network"
	"github.com/cbodonnell/bullseye/pkg/queue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTargetTracker(t *testing.T) {
	tracker := NewTargetTracker()
	r := rand.New(rand.NewSource(1))

	_, ok := tracker.Random(r)
	assert.False(t, ok)

	tracker.Reset([]messages.Target{{ID: 1}, {ID: 2}})
	tracker.Add(messages.Target{ID: 3})
	tracker.Remove(2)
	assert.Equal(t, 2, tracker.Count())

	for i := 0; i < 20; i++ {
		target, ok := tracker.Random(r)
		require.True(t, ok)
		assert.Contains(t, []uint64{1, 3}, target.ID)
	}

	tracker.Reset(nil)
	assert.Equal(t, 0, tracker.Count())
}

func TestHandleMessage(t *testing.T) {
	c := NewWSClient("", "alice", NewTargetTracker())

	frames := []string{
		`{"type":"initTargets","targets":[{"id":1,"x":10,"y":10,"vx":0,"vy":0,"radius":25,"color":"hsl(1, 70%, 50%)"},{"id":2,"radius":30}]}`,
		`{"type":"newTarget","target":{"id":3,"radius":20}}`,
		`{"type":"targetHit","targetId":1,"username":"alice","points":4}`,
		`{"type":"targetHit","targetId":3,"username":"bob","points":5}`,
		`{"type":"hitRejected","targetId":2}`,
		`{"type":"leaderboard","data":[{"username":"alice","score":4}]}`,
	}
	for _, frame := range frames {
		require.NoError(t, c.handleMessage([]byte(frame)), frame)
	}

	assert.Equal(t, 0, c.tracker.Count())
	score, hits, rejected := c.Stats()
	assert.Equal(t, 4, score)
	assert.Equal(t, 1, hits)
	assert.Equal(t, 1, rejected)

	assert.Error(t, c.handleMessage([]byte(`{"type":"teleport"}`)))
	assert.Error(t, c.handleMessage([]byte(`{"type":"newTarget","target":"x"}`)))
}

func TestWSClientAgainstServer(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	q := queue.NewInMemoryQueue(16)
	nm := servernetwork.NewNetworkManager(servernetwork.NewNetworkManagerOptions{
		AuthProvider:  authproviders.NewNoAuthProvider(),
		ClientManager: servernetwork.NewClientManager(),
		MessageQueue:  q,
		WSServer: servernetwork.NewWSServerOptions{
			OutboxSize:   16,
			WriteTimeout: time.Second,
		},
	})
	srv := httptest.NewServer(nm.WSServer)
	defer srv.Close()

	c := NewWSClient("ws"+strings.TrimPrefix(srv.URL, "http"), "bot-1", NewTargetTracker())
	require.NoError(t, c.Connect(ctx))
	defer c.Close()

	username, err := c.Login("", time.Second)
	require.NoError(t, err)
	assert.Equal(t, "bot-1", username)

	require.NoError(t, c.Hit(9))
	require.Eventually(t, func() bool { return q.Size() == 1 }, time.Second, 10*time.Millisecond)
	items, err := q.ReadAllMessages()
	require.NoError(t, err)
	msg := items[0].(*messages.Message)
	assert.Equal(t, messages.MessageTypeClientHit, msg.Type)
	assert.JSONEq(t, `{"type":"hit","targetId":9}`, string(msg.Payload))
}

func TestWSClientLoginFailure(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	nm := servernetwork.NewNetworkManager(servernetwork.NewNetworkManagerOptions{
		AuthProvider:  authproviders.NewLocalAuthProvider(time.Hour),
		ClientManager: servernetwork.NewClientManager(),
		MessageQueue:  queue.NewInMemoryQueue(16),
		WSServer: servernetwork.NewWSServerOptions{
			OutboxSize:   16,
			WriteTimeout: time.Second,
		},
	})
	srv := httptest.NewServer(nm.WSServer)
	defer srv.Close()

	c := NewWSClient("ws"+strings.TrimPrefix(srv.URL, "http"), "bot-1", NewTargetTracker())
	require.NoError(t, c.Connect(ctx))
	defer c.Close()

	_, err := c.Login("bogus", time.Second)
	assert.ErrorContains(t, err, "server login failure")
}
