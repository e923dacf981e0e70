package fastdom

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestFlushRunsReadsBeforeWrites(t *testing.T) {
	s := New()
	var order []string

	s.Write(func() error { order = append(order, "w1"); return nil })
	s.Read(func() error { order = append(order, "r1"); return nil })
	s.Write(func() error { order = append(order, "w2"); return nil })
	s.Read(func() error { order = append(order, "r2"); return nil })

	if err := s.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}

	want := []string{"r1", "r2", "w1", "w2"}
	if diff := cmp.Diff(want, order); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestFlushNestedScheduling(t *testing.T) {
	s := New()
	var order []string

	s.Read(func() error {
		order = append(order, "r1")
		s.Read(func() error { order = append(order, "r1.read"); return nil })
		s.Write(func() error {
			order = append(order, "r1.write")
			s.Read(func() error { order = append(order, "next.read"); return nil })
			s.Write(func() error { order = append(order, "next.write"); return nil })
			return nil
		})
		return nil
	})

	if err := s.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}

	want := []string{"r1", "r1.read", "r1.write"}
	if diff := cmp.Diff(want, order); diff != "" {
		t.Errorf("first tick mismatch (-want +got):\n%s", diff)
	}

	if r, w := s.Pending(); r != 1 || w != 1 {
		t.Errorf("Pending() = (%d, %d), want (1, 1)", r, w)
	}

	if err := s.Flush(); err != nil {
		t.Fatalf("second Flush() error = %v", err)
	}
	want = append(want, "next.read", "next.write")
	if diff := cmp.Diff(want, order); diff != "" {
		t.Errorf("second tick mismatch (-want +got):\n%s", diff)
	}
}

func TestCancel(t *testing.T) {
	s := New()
	ran := 0

	h := s.Read(func() error { ran++; return nil })
	if h.IsZero() {
		t.Fatal("expected non-zero handle")
	}
	if h.Stage() != StageRead {
		t.Errorf("Stage() = %v, want read", h.Stage())
	}
	if !s.Cancel(h) {
		t.Error("Cancel() = false for a queued task")
	}
	if s.Cancel(h) {
		t.Error("Cancel() = true for an already cancelled task")
	}

	_ = s.Flush()
	if ran != 0 {
		t.Errorf("cancelled task ran %d times", ran)
	}

	if s.Cancel(Handle{}) {
		t.Error("Cancel(zero) should be false")
	}
}

func TestCancelWriteFromRead(t *testing.T) {
	s := New()
	ran := false

	var h Handle
	s.Read(func() error {
		s.Cancel(h)
		return nil
	})
	h = s.Write(func() error { ran = true; return nil })

	_ = s.Flush()
	if ran {
		t.Error("write cancelled during the read stage still ran")
	}
}

func TestCancelInflightWrite(t *testing.T) {
	s := New()
	ran := false

	var second Handle
	s.Write(func() error {
		if !s.Cancel(second) {
			t.Error("Cancel() = false for an inflight write")
		}
		return nil
	})
	second = s.Write(func() error { ran = true; return nil })

	_ = s.Flush()
	if ran {
		t.Error("write cancelled by an earlier write still ran")
	}
}

func TestFlushCollectsErrors(t *testing.T) {
	s := New()
	errA := errors.New("a")
	errB := errors.New("b")
	after := false

	s.Read(func() error { return errA })
	s.Read(func() error { after = true; return nil })
	s.Write(func() error { return errB })

	err := s.Flush()
	if !errors.Is(err, errA) || !errors.Is(err, errB) {
		t.Errorf("Flush() error = %v, want both errors joined", err)
	}
	if !after {
		t.Error("a failing task must not stop the rest of the tick")
	}
}

func TestFlushRecoversPanics(t *testing.T) {
	s := New()
	s.Write(func() error { panic("kaboom") })

	err := s.Flush()
	var pe *PanicError
	if !errors.As(err, &pe) {
		t.Fatalf("Flush() error = %v, want *PanicError", err)
	}
	if pe.Stage != StageWrite {
		t.Errorf("Stage = %v, want write", pe.Stage)
	}
	if !strings.Contains(pe.Error(), "kaboom") {
		t.Errorf("Error() = %q", pe.Error())
	}
	if pe.StackTrace == "" {
		t.Error("expected a stack trace")
	}
}

func TestFlushReentrant(t *testing.T) {
	s := New()
	var inner error
	s.Read(func() error {
		inner = s.Flush()
		return nil
	})

	if err := s.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
	if !errors.Is(inner, ErrReentrantFlush) {
		t.Errorf("nested Flush() = %v, want ErrReentrantFlush", inner)
	}
}

func TestObserver(t *testing.T) {
	var got []FlushStats
	s := New(WithObserver(ObserverFunc(func(_ context.Context, stats FlushStats) {
		got = append(got, stats)
	})))

	_ = s.Flush()
	if len(got) != 0 {
		t.Fatalf("empty tick notified observers: %+v", got)
	}

	s.Read(func() error { return nil })
	s.Read(func() error { return errors.New("x") })
	s.Write(func() error { return nil })
	_ = s.Flush()

	if len(got) != 1 {
		t.Fatalf("observer calls = %d, want 1", len(got))
	}
	stats := got[0]
	if stats.Reads != 2 || stats.Writes != 1 || stats.Errors != 1 {
		t.Errorf("stats = %+v", stats)
	}
	if stats.Frame != 2 {
		t.Errorf("Frame = %d, want 2", stats.Frame)
	}
	if stats.Start.IsZero() || stats.Duration < 0 {
		t.Errorf("timing not recorded: %+v", stats)
	}
}

func TestStageString(t *testing.T) {
	tests := map[Stage]string{
		StageRead:  "read",
		StageWrite: "write",
		Stage(9):   "unknown",
	}
	for stage, want := range tests {
		if got := stage.String(); got != want {
			t.Errorf("Stage(%d).String() = %q, want %q", stage, got, want)
		}
	}
}

func TestLoopTick(t *testing.T) {
	s := New()
	var frames []uint64
	ran := 0

	l := NewLoop(s, WithTickFunc(func(frame uint64) {
		frames = append(frames, frame)
		s.Read(func() error { ran++; return nil })
	}))

	for i := 0; i < 3; i++ {
		if err := l.Tick(context.Background()); err != nil {
			t.Fatalf("Tick() error = %v", err)
		}
	}

	if diff := cmp.Diff([]uint64{1, 2, 3}, frames); diff != "" {
		t.Errorf("frames mismatch (-want +got):\n%s", diff)
	}
	if ran != 3 {
		t.Errorf("ran = %d, want 3", ran)
	}
}

func TestLoopRunStopsOnCancel(t *testing.T) {
	s := New()
	ctx, cancel := context.WithCancel(context.Background())

	ticks := make(chan struct{}, 16)
	l := NewLoop(s, WithInterval(time.Millisecond), WithTickFunc(func(uint64) {
		select {
		case ticks <- struct{}{}:
		default:
		}
	}))

	done := make(chan error, 1)
	go func() { done <- l.Run(ctx) }()

	select {
	case <-ticks:
	case <-time.After(2 * time.Second):
		t.Fatal("loop never ticked")
	}
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run() = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("loop did not stop")
	}
}

func TestDefaultScheduler(t *testing.T) {
	if Default() == nil {
		t.Fatal("Default() returned nil")
	}
	ran := false
	Read(func() error { ran = true; return nil })
	if err := Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
	if !ran {
		t.Error("default scheduler did not run the task")
	}
}
