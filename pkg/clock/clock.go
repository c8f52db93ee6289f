package clock

import (
	"sort"
	"sync"
	"time"
)

// Clock is a simulation clock that advances in fixed, nominal ticks and runs the
// tasks that fall due. It never measures wall time itself: the owner decides when
// to call Advance, typically from a time.Ticker.
type Clock struct {
	mu      sync.Mutex
	tick    time.Duration
	now     time.Duration
	seq     uint64
	tasks   []*task
	stopped bool
}

type task struct {
	seq      uint64
	due      time.Duration
	interval time.Duration
	fn       func()
	canceled bool
	fired    bool
}

// Handle cancels a scheduled task.
type Handle struct {
	clock *Clock
	task  *task
}

// Cancel stops the task from running again. It returns false if the task had
// already been canceled or, for a one-shot task, had already run.
func (h *Handle) Cancel() bool {
	if h == nil || h.task == nil {
		return false
	}
	h.clock.mu.Lock()
	defer h.clock.mu.Unlock()
	if h.task.canceled || h.task.fired {
		return false
	}
	h.task.canceled = true
	for i, t := range h.clock.tasks {
		if t == h.task {
			h.clock.tasks = append(h.clock.tasks[:i], h.clock.tasks[i+1:]...)
			break
		}
	}
	return true
}

// New returns a clock advancing by tick on every call to Advance.
func New(tick time.Duration) *Clock {
	if tick <= 0 {
		tick = time.Millisecond
	}
	return &Clock{tick: tick}
}

// Tick returns the nominal tick interval.
func (c *Clock) Tick() time.Duration {
	return c.tick
}

// Now returns the simulated time elapsed since the clock was created.
func (c *Clock) Now() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Every schedules fn to run every interval, starting one interval from now.
// An interval shorter than the tick is rounded up to the tick.
func (c *Clock) Every(interval time.Duration, fn func()) *Handle {
	if interval < c.tick {
		interval = c.tick
	}
	return c.schedule(interval, interval, fn)
}

// After schedules fn to run once, delay from now.
func (c *Clock) After(delay time.Duration, fn func()) *Handle {
	if delay < 0 {
		delay = 0
	}
	return c.schedule(delay, 0, fn)
}

func (c *Clock) schedule(delay, interval time.Duration, fn func()) *Handle {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	t := &task{
		seq:      c.seq,
		due:      c.now + delay,
		interval: interval,
		fn:       fn,
	}
	if c.stopped {
		t.canceled = true
		return &Handle{clock: c, task: t}
	}
	c.tasks = append(c.tasks, t)
	return &Handle{clock: c, task: t}
}

type run struct {
	due  time.Duration
	task *task
}

// Advance moves the clock forward by one tick and runs every task that is due,
// ordered by due time and then by scheduling order. Tasks run on the caller's
// goroutine without the clock lock held, so they may schedule or cancel tasks.
// It returns the number of task invocations.
func (c *Clock) Advance() int {
	c.mu.Lock()
	if c.stopped {
		c.mu.Unlock()
		return 0
	}
	c.now += c.tick
	runs := []run{}
	pending := c.tasks[:0]
	for _, t := range c.tasks {
		if t.interval == 0 {
			if t.due <= c.now {
				runs = append(runs, run{due: t.due, task: t})
				continue
			}
		} else {
			for t.due <= c.now {
				runs = append(runs, run{due: t.due, task: t})
				t.due += t.interval
			}
		}
		pending = append(pending, t)
	}
	c.tasks = pending
	c.mu.Unlock()

	sort.SliceStable(runs, func(i, j int) bool {
		if runs[i].due != runs[j].due {
			return runs[i].due < runs[j].due
		}
		return runs[i].task.seq < runs[j].task.seq
	})

	ran := 0
	for _, r := range runs {
		c.mu.Lock()
		skip := r.task.canceled
		if r.task.interval == 0 {
			r.task.fired = true
		}
		c.mu.Unlock()
		if skip {
			continue
		}
		r.task.fn()
		ran++
	}
	return ran
}

// Pending returns the number of scheduled tasks.
func (c *Clock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.tasks)
}

// Stop cancels every scheduled task. Tasks scheduled after Stop never run.
func (c *Clock) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, t := range c.tasks {
		t.canceled = true
	}
	c.tasks = nil
	c.stopped = true
}
