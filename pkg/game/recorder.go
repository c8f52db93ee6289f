package game

import (
	"github.com/cbodonnell/bullseye/pkg/log"
	"github.com/cbodonnell/bullseye/pkg/workers"
)

var _ BestScoreRecorder = &ChanBestScoreRecorder{}

// ChanBestScoreRecorder hands best scores to the SaveBestScoreWorker.
// Scores are dropped with a warning when the channel is full.
type ChanBestScoreRecorder struct {
	ch chan<- workers.SaveBestScoreRequest
}

func NewChanBestScoreRecorder(ch chan<- workers.SaveBestScoreRequest) *ChanBestScoreRecorder {
	return &ChanBestScoreRecorder{ch: ch}
}

func (r *ChanBestScoreRecorder) RecordBestScore(username string, score int) {
	select {
	case r.ch <- workers.SaveBestScoreRequest{Username: username, Score: score}:
	default:
		log.Warn("Best score channel is full, dropping score %d for %s", score, username)
	}
}
