package network

import (
	"context"
	"errors"
	"sync"
)

// ErrOutboxClosed is returned by Pop once the outbox is closed.
var ErrOutboxClosed = errors.New("outbox closed")

// Outbox is a bounded FIFO of encoded frames for one connection.
// When full, pushing drops the oldest frame so producers never block.
type Outbox struct {
	mu      sync.Mutex
	frames  [][]byte
	size    int
	notify  chan struct{}
	closed  bool
	dropped uint64
}

func NewOutbox(size int) *Outbox {
	if size < 1 {
		size = 1
	}
	return &Outbox{
		frames: make([][]byte, 0, size),
		size:   size,
		notify: make(chan struct{}, 1),
	}
}

// Push appends a frame. It returns false if the outbox is closed.
func (o *Outbox) Push(frame []byte) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return false
	}
	if len(o.frames) == o.size {
		o.frames[0] = nil
		o.frames = o.frames[1:]
		o.dropped++
	}
	o.frames = append(o.frames, frame)

	select {
	case o.notify <- struct{}{}:
	default:
	}
	return true
}

// Pop blocks until a frame is available, the outbox is closed or ctx is done.
func (o *Outbox) Pop(ctx context.Context) ([]byte, error) {
	for {
		o.mu.Lock()
		if o.closed {
			o.mu.Unlock()
			return nil, ErrOutboxClosed
		}
		if len(o.frames) > 0 {
			frame := o.frames[0]
			o.frames[0] = nil
			o.frames = o.frames[1:]
			o.mu.Unlock()
			return frame, nil
		}
		o.mu.Unlock()

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-o.notify:
		}
	}
}

// Close discards pending frames and wakes any waiting Pop.
func (o *Outbox) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return
	}
	o.closed = true
	o.frames = nil
	close(o.notify)
}

// Len returns the number of pending frames.
func (o *Outbox) Len() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.frames)
}

// Dropped returns how many frames were discarded because the outbox was full.
func (o *Outbox) Dropped() uint64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.dropped
}
