package fastdom

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrReentrantFlush is returned when Flush is called from within a task.
var ErrReentrantFlush = errors.New("fastdom: flush called from within a task")

// Task is a deferred callback queued on a stage.
type Task func() error

// Stage identifies one of the two ordered queues of a tick.
type Stage uint8

const (
	StageRead Stage = iota + 1
	StageWrite
)

// String returns the stage name.
func (s Stage) String() string {
	switch s {
	case StageRead:
		return "read"
	case StageWrite:
		return "write"
	default:
		return "unknown"
	}
}

// Handle identifies a queued task. The zero Handle refers to no task.
type Handle struct {
	stage Stage
	id    uint64
}

// IsZero reports whether h refers to no task.
func (h Handle) IsZero() bool {
	return h.id == 0
}

// Stage returns the stage the task was queued on.
func (h Handle) Stage() Stage {
	return h.stage
}

type entry struct {
	id        uint64
	task      Task
	cancelled bool
}

// Scheduler batches read and write tasks into ticks.
type Scheduler struct {
	mu sync.Mutex

	nextID uint64
	frame  uint64

	reads  []*entry
	writes []*entry

	// inflight is the write batch of the running tick, kept so that
	// Cancel can still reach writes that were snapshotted.
	inflight []*entry

	flushing bool

	observers []Observer
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithObserver registers an observer notified after every tick that ran work.
func WithObserver(o Observer) Option {
	return func(s *Scheduler) {
		if o != nil {
			s.observers = append(s.observers, o)
		}
	}
}

// New creates an empty Scheduler.
func New(opts ...Option) *Scheduler {
	s := &Scheduler{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var defaultScheduler = New()

// Default returns the process-wide scheduler.
func Default() *Scheduler {
	return defaultScheduler
}

// AddObserver registers an observer after construction.
func (s *Scheduler) AddObserver(o Observer) {
	if o == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, o)
}

// Read queues task on the read stage.
func (s *Scheduler) Read(task Task) Handle {
	return s.enqueue(StageRead, task)
}

// Write queues task on the write stage.
func (s *Scheduler) Write(task Task) Handle {
	return s.enqueue(StageWrite, task)
}

func (s *Scheduler) enqueue(stage Stage, task Task) Handle {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	e := &entry{id: s.nextID, task: task}
	if stage == StageRead {
		s.reads = append(s.reads, e)
	} else {
		s.writes = append(s.writes, e)
	}
	return Handle{stage: stage, id: e.id}
}

// Cancel removes a task that has not run yet.
// It reports whether a pending task was found.
func (s *Scheduler) Cancel(h Handle) bool {
	if h.IsZero() {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	switch h.stage {
	case StageRead:
		return cancelIn(&s.reads, h.id, true)
	case StageWrite:
		if cancelIn(&s.writes, h.id, true) {
			return true
		}
		return cancelIn(&s.inflight, h.id, false)
	}
	return false
}

func cancelIn(queue *[]*entry, id uint64, remove bool) bool {
	for i, e := range *queue {
		if e.id != id || e.cancelled {
			continue
		}
		e.cancelled = true
		if remove {
			*queue = append((*queue)[:i], (*queue)[i+1:]...)
		}
		return true
	}
	return false
}

// Pending returns the number of queued reads and writes.
func (s *Scheduler) Pending() (reads, writes int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.reads), len(s.writes)
}

// Frame returns the number of ticks flushed so far.
func (s *Scheduler) Frame() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frame
}

// Flush runs one tick with a background context.
func (s *Scheduler) Flush() error {
	return s.FlushContext(context.Background())
}

// FlushContext runs one tick: the read stage to exhaustion, then the writes
// queued so far. The context is handed to observers.
func (s *Scheduler) FlushContext(ctx context.Context) error {
	s.mu.Lock()
	if s.flushing {
		s.mu.Unlock()
		return ErrReentrantFlush
	}
	s.flushing = true
	s.frame++
	stats := FlushStats{Frame: s.frame, Start: time.Now()}
	s.mu.Unlock()

	var errs []error

	for {
		e := s.popRead()
		if e == nil {
			break
		}
		stats.Reads++
		if err := runTask(StageRead, e.task); err != nil {
			errs = append(errs, err)
		}
	}

	s.mu.Lock()
	s.inflight = s.writes
	s.writes = nil
	batch := s.inflight
	s.mu.Unlock()

	for _, e := range batch {
		// Claim the entry so a later Cancel reports it as already run.
		s.mu.Lock()
		cancelled := e.cancelled
		e.cancelled = true
		s.mu.Unlock()
		if cancelled {
			continue
		}
		stats.Writes++
		if err := runTask(StageWrite, e.task); err != nil {
			errs = append(errs, err)
		}
	}

	s.mu.Lock()
	s.inflight = nil
	s.flushing = false
	observers := append([]Observer(nil), s.observers...)
	s.mu.Unlock()

	stats.Duration = time.Since(stats.Start)
	stats.Errors = len(errs)

	if stats.Reads+stats.Writes > 0 {
		for _, o := range observers {
			o.ObserveFlush(ctx, stats)
		}
	}

	return errors.Join(errs...)
}

func (s *Scheduler) popRead() *entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.reads) == 0 {
		return nil
	}
	e := s.reads[0]
	s.reads[0] = nil
	s.reads = s.reads[1:]
	return e
}

// runTask runs a single task, converting a panic into a *PanicError.
func runTask(stage Stage, task Task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = newPanicError(stage, r)
		}
	}()
	return task()
}

// Read queues task on the default scheduler's read stage.
func Read(task Task) Handle {
	return defaultScheduler.Read(task)
}

// Write queues task on the default scheduler's write stage.
func Write(task Task) Handle {
	return defaultScheduler.Write(task)
}

// Flush runs one tick of the default scheduler.
func Flush() error {
	return defaultScheduler.Flush()
}
