package workers

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	queuemocks "github.com/cbodonnell/bullseye/mocks/github.com/cbodonnell/bullseye/pkg/queue"
	repositorymocks "github.com/cbodonnell/bullseye/mocks/github.com/cbodonnell/bullseye/pkg/repositories"
	gametypes "github.com/cbodonnell/bullseye/pkg/game/types"
	"github.com/cbodonnell/bullseye/pkg/messages"
	"github.com/cbodonnell/bullseye/pkg/network"
	"github.com/cbodonnell/bullseye/pkg/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestConnectionEventWorker_handleClientConnect(t *testing.T) {
	tests := []struct {
		name      string
		setup     func(repo *repositorymocks.Repository)
		wantEvent *gametypes.ConnectPlayerEvent
	}{
		{
			name: "registered player",
			setup: func(repo *repositorymocks.Repository) {
				repo.EXPECT().RecordGamePlayed(mock.Anything, "alice").Return(nil).Once()
				repo.EXPECT().BestScore(mock.Anything, "alice").Return(12, nil).Once()
			},
			wantEvent: &gametypes.ConnectPlayerEvent{ClientID: "c1", Username: "alice", BestScore: 12},
		},
		{
			name: "guest player",
			setup: func(repo *repositorymocks.Repository) {
				repo.EXPECT().RecordGamePlayed(mock.Anything, "alice").Return(&repositories.ErrNotFound{}).Once()
				repo.EXPECT().BestScore(mock.Anything, "alice").Return(0, &repositories.ErrNotFound{}).Once()
			},
			wantEvent: &gametypes.ConnectPlayerEvent{ClientID: "c1", Username: "alice"},
		},
		{
			name: "repository failure still joins",
			setup: func(repo *repositorymocks.Repository) {
				repo.EXPECT().RecordGamePlayed(mock.Anything, "alice").Return(assert.AnError).Once()
				repo.EXPECT().BestScore(mock.Anything, "alice").Return(0, assert.AnError).Once()
			},
			wantEvent: &gametypes.ConnectPlayerEvent{ClientID: "c1", Username: "alice"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := repositorymocks.NewRepository(t)
			q := queuemocks.NewQueue(t)
			tt.setup(repo)
			q.EXPECT().Enqueue(tt.wantEvent).Return(nil).Once()

			w := NewConnectionEventWorker(NewConnectionEventWorkerOptions{
				Repository:       repo,
				ServerEventQueue: q,
			})
			w.handleClientConnect(context.Background(), network.ConnectionEvent{
				ClientID: "c1",
				Type:     network.ConnectionEventTypeConnect,
				Data:     network.ClientConnectData{Username: "alice"},
			})
		})
	}
}

func TestConnectionEventWorker_Start(t *testing.T) {
	repo := repositorymocks.NewRepository(t)
	q := queuemocks.NewQueue(t)
	events := make(chan network.ConnectionEvent, 1)

	done := make(chan struct{})
	q.EXPECT().Enqueue(&gametypes.DisconnectPlayerEvent{ClientID: "c1"}).
		Run(func(item interface{}) { close(done) }).
		Return(nil).Once()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w := NewConnectionEventWorker(NewConnectionEventWorkerOptions{
		ConnectionEventChan: events,
		Repository:          repo,
		ServerEventQueue:    q,
	})
	go w.Start(ctx)

	events <- network.ConnectionEvent{ClientID: "c1", Type: network.ConnectionEventTypeDisconnect}
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("disconnect event was not enqueued")
	}
}

func TestSaveBestScoreWorker_flush(t *testing.T) {
	repo := repositorymocks.NewRepository(t)
	repo.EXPECT().RecordBestScore(mock.Anything, "alice", 9).Return(true, nil).Once()
	repo.EXPECT().RecordBestScore(mock.Anything, "guest", 3).Return(false, &repositories.ErrNotFound{}).Once()

	w := NewSaveBestScoreWorker(NewSaveBestScoreWorkerOptions{
		Repository: repo,
		Interval:   time.Hour,
	})
	w.add(SaveBestScoreRequest{Username: "alice", Score: 4})
	w.add(SaveBestScoreRequest{Username: "alice", Score: 9})
	w.add(SaveBestScoreRequest{Username: "alice", Score: 6})
	w.add(SaveBestScoreRequest{Username: "guest", Score: 3})

	w.flush(context.Background())
	assert.Empty(t, w.pending)

	// nothing pending, nothing written
	w.flush(context.Background())
}

func TestSaveBestScoreWorker_FlushesOnShutdown(t *testing.T) {
	repo := repositorymocks.NewRepository(t)
	repo.EXPECT().RecordBestScore(mock.Anything, "alice", 20).Return(true, nil).Once()

	requests := make(chan SaveBestScoreRequest, 4)
	requests <- SaveBestScoreRequest{Username: "alice", Score: 10}
	requests <- SaveBestScoreRequest{Username: "alice", Score: 20}

	w := NewSaveBestScoreWorker(NewSaveBestScoreWorkerOptions{
		Repository:        repo,
		SaveBestScoreChan: requests,
		Interval:          time.Hour,
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	w.Start(ctx)
}

type recordingSender struct {
	mu     sync.Mutex
	frames map[string][]string
}

func (s *recordingSender) SendToClients(clientIDs []string, frame []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.frames == nil {
		s.frames = map[string][]string{}
	}
	for _, id := range clientIDs {
		s.frames[id] = append(s.frames[id], string(frame))
	}
}

func TestServerMessageWorker_handleServerMessage(t *testing.T) {
	sender := &recordingSender{}
	w := NewServerMessageWorker(NewServerMessageWorkerOptions{Sender: sender})

	err := w.handleServerMessage(ServerMessage{
		Recipients: []string{"a", "b"},
		Type:       messages.MessageTypeServerTargetHit,
		Message:    &messages.ServerTargetHit{TargetID: 7, Username: "alice", Points: 4},
	})
	require.NoError(t, err)
	require.Len(t, sender.frames["a"], 1)
	assert.Equal(t, sender.frames["a"], sender.frames["b"])

	decoded := map[string]interface{}{}
	require.NoError(t, json.Unmarshal([]byte(sender.frames["a"][0]), &decoded))
	assert.Equal(t, "targetHit", decoded["type"])
	assert.Equal(t, float64(7), decoded["targetId"])

	assert.Error(t, w.handleServerMessage(ServerMessage{
		Recipients: []string{"a"},
		Type:       messages.MessageTypeServerTargetHit,
		Message:    &messages.ServerHitRejected{TargetID: 7},
	}))
	assert.Error(t, w.handleServerMessage(ServerMessage{
		Recipients: []string{"a"},
		Type:       "bogus",
	}))
	assert.NoError(t, w.handleServerMessage(ServerMessage{
		Type:    messages.MessageTypeServerHitRejected,
		Message: &messages.ServerHitRejected{TargetID: 7},
	}))
	assert.Len(t, sender.frames["a"], 1)
}

func TestServerMessageWorker_PreservesOrder(t *testing.T) {
	sender := &recordingSender{}
	ch := make(chan ServerMessage, 10)
	w := NewServerMessageWorker(NewServerMessageWorkerOptions{Sender: sender, ServerMessageChan: ch})

	ch <- ServerMessage{Recipients: []string{"a"}, Type: messages.MessageTypeServerNewTarget, Message: &messages.ServerNewTarget{Target: messages.Target{ID: 5}}}
	ch <- ServerMessage{Recipients: []string{"a"}, Type: messages.MessageTypeServerTargetHit, Message: &messages.ServerTargetHit{TargetID: 5}}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Start(ctx)

	require.Eventually(t, func() bool {
		sender.mu.Lock()
		defer sender.mu.Unlock()
		return len(sender.frames["a"]) == 2
	}, time.Second, 10*time.Millisecond)

	sender.mu.Lock()
	defer sender.mu.Unlock()
	assert.Contains(t, sender.frames["a"][0], `"newTarget"`)
	assert.Contains(t, sender.frames["a"][1], `"targetHit"`)
}
