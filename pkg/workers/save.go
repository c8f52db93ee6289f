package workers

import (
	"context"
	"time"

	"github.com/cbodonnell/bullseye/pkg/log"
	"github.com/cbodonnell/bullseye/pkg/repositories"
)

// flushTimeout bounds the final flush on shutdown
const flushTimeout = 5 * time.Second

type SaveBestScoreWorker struct {
	repository        repositories.Repository
	saveBestScoreChan <-chan SaveBestScoreRequest
	interval          time.Duration
	pending           map[string]int
}

type NewSaveBestScoreWorkerOptions struct {
	Repository        repositories.Repository
	SaveBestScoreChan <-chan SaveBestScoreRequest
	Interval          time.Duration
}

type SaveBestScoreRequest struct {
	Username string
	Score    int
}

// NewSaveBestScoreWorker creates a new SaveBestScoreWorker.
// The worker collects best score requests from the game loop, keeps the highest
// score per player and periodically writes them to the repository.
func NewSaveBestScoreWorker(opts NewSaveBestScoreWorkerOptions) *SaveBestScoreWorker {
	return &SaveBestScoreWorker{
		repository:        opts.Repository,
		saveBestScoreChan: opts.SaveBestScoreChan,
		interval:          opts.Interval,
		pending:           make(map[string]int),
	}
}

func (w *SaveBestScoreWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.drain()
			flushCtx, cancel := context.WithTimeout(context.Background(), flushTimeout)
			w.flush(flushCtx)
			cancel()
			return
		case req := <-w.saveBestScoreChan:
			w.add(req)
		case <-ticker.C:
			w.flush(ctx)
		}
	}
}

func (w *SaveBestScoreWorker) add(req SaveBestScoreRequest) {
	if score, ok := w.pending[req.Username]; !ok || req.Score > score {
		w.pending[req.Username] = req.Score
	}
}

// drain collects requests already buffered in the channel
func (w *SaveBestScoreWorker) drain() {
	for {
		select {
		case req := <-w.saveBestScoreChan:
			w.add(req)
		default:
			return
		}
	}
}

func (w *SaveBestScoreWorker) flush(ctx context.Context) {
	for username, score := range w.pending {
		delete(w.pending, username)
		changed, err := w.repository.RecordBestScore(ctx, username, score)
		if err != nil {
			if repositories.IsNotFound(err) {
				log.Trace("Skipping best score for %s without an account", username)
				continue
			}
			log.Error("Failed to save best score for %s: %v", username, err)
			continue
		}
		if changed {
			log.Debug("Saved best score %d for %s", score, username)
		}
	}
}
