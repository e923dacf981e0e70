package component

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/vango-dev/widgetkit/pkg/fastdom"
)

// watchFixture is a component with one watched computed value read from
// the "value" prop.
type watchFixture struct {
	sched   *fastdom.Scheduler
	c       *Instance
	changes []Change
	gets    int
}

func newWatchFixture(t *testing.T, immediate bool) *watchFixture {
	t.Helper()
	f := &watchFixture{sched: fastdom.New()}
	typ := MustDefine(Options{
		Name:  "watched",
		Props: Props{"value": []int{1}},
		Computed: []ComputedDescriptor{{
			Key: "value",
			Get: func(_ *Instance, props Props, _ any) any {
				f.gets++
				return props["value"]
			},
			Watch: func(_ *Instance, change Change) error {
				f.changes = append(f.changes, change)
				return nil
			},
			Immediate: immediate,
		}},
	})
	f.c = typ.New(nil, nil, WithScheduler(f.sched))
	return f
}

func TestWatchImmediateInitial(t *testing.T) {
	f := newWatchFixture(t, true)
	_ = f.c.Connect()
	flush(t, f.sched)

	want := []Change{{Key: "value", Value: []int{1}}}
	if diff := cmp.Diff(want, f.changes); diff != "" {
		t.Fatalf("initial change mismatch (-want +got):\n%s", diff)
	}
	if f.changes[0].HasPrevious {
		t.Error("initial firing must report no previous value")
	}

	// Unchanged value: no firing.
	f.c.Emit()
	flush(t, f.sched)
	if len(f.changes) != 1 {
		t.Fatalf("changes = %d after unchanged pass, want 1", len(f.changes))
	}

	// Deep-equal replacement: still no firing.
	f.c.SetProps(Props{"value": []int{1}})
	flush(t, f.sched)
	if len(f.changes) != 1 {
		t.Fatalf("changes = %d after deep-equal replacement, want 1", len(f.changes))
	}

	f.c.SetProps(Props{"value": []int{2}})
	flush(t, f.sched)

	want = append(want, Change{Key: "value", Value: []int{2}, Previous: []int{1}, HasPrevious: true})
	if diff := cmp.Diff(want, f.changes); diff != "" {
		t.Errorf("changes mismatch (-want +got):\n%s", diff)
	}
}

func TestWatchNotImmediate(t *testing.T) {
	f := newWatchFixture(t, false)
	_ = f.c.Connect()
	flush(t, f.sched)

	if len(f.changes) != 0 {
		t.Fatalf("non-immediate watch fired initially: %+v", f.changes)
	}

	// Never read, never cached: a change goes unnoticed.
	f.c.SetProps(Props{"value": []int{2}})
	flush(t, f.sched)
	if len(f.changes) != 0 {
		t.Fatalf("watch fired for an uncached value: %+v", f.changes)
	}

	// Once read, changes are detected.
	_ = f.c.Computed("value")
	f.c.SetProps(Props{"value": []int{3}})
	flush(t, f.sched)

	want := []Change{{Key: "value", Value: []int{3}, Previous: []int{2}, HasPrevious: true}}
	if diff := cmp.Diff(want, f.changes); diff != "" {
		t.Errorf("changes mismatch (-want +got):\n%s", diff)
	}
}

func TestComputedMemoized(t *testing.T) {
	f := newWatchFixture(t, false)
	_ = f.c.Connect()

	for i := 0; i < 3; i++ {
		_ = f.c.Computed("value")
	}
	if f.gets != 1 {
		t.Errorf("getter ran %d times, want 1", f.gets)
	}

	flush(t, f.sched)
	_ = f.c.Computed("value")
	// Change detection recomputed the value and cached it again.
	if f.gets != 2 {
		t.Errorf("getter ran %d times, want 2", f.gets)
	}

	if f.c.Computed("missing") != nil {
		t.Error("unknown computed key should be nil")
	}
}

func TestWatchReentrancyGuard(t *testing.T) {
	f := newWatchFixture(t, true)
	_ = f.c.Connect()

	before := pendingReads(f.sched)
	f.c.requestWatch()
	f.c.SetProps(Props{"value": []int{5}})
	f.c.RequestUpdate(EventResize)
	if got := pendingReads(f.sched); got != before {
		t.Errorf("pending reads = %d, want %d (one watch pass at a time)", got, before)
	}

	flush(t, f.sched)
	if len(f.changes) != 1 {
		t.Errorf("changes = %d, want 1", len(f.changes))
	}
}

func TestWatchTriggeredOnlyByUpdateAndResize(t *testing.T) {
	f := newWatchFixture(t, false)
	_ = f.c.Connect()
	flush(t, f.sched)

	_ = f.c.Computed("value")
	f.c.inputs["value"] = []int{9}
	f.c.resolveProps()

	f.c.RequestUpdate("scroll")
	flush(t, f.sched)
	if len(f.changes) != 0 {
		t.Fatalf("custom event kind triggered a watch pass: %+v", f.changes)
	}

	f.c.RequestUpdate(EventResize)
	flush(t, f.sched)
	if len(f.changes) != 1 {
		t.Errorf("changes = %d after resize, want 1", len(f.changes))
	}
}

func TestDisconnectClearsWatchHistory(t *testing.T) {
	f := newWatchFixture(t, true)
	_ = f.c.Connect()
	flush(t, f.sched)

	if len(f.changes) != 1 || f.changes[0].HasPrevious {
		t.Fatalf("first connect changes = %+v", f.changes)
	}

	_ = f.c.Disconnect()
	_ = f.c.Connect()
	flush(t, f.sched)

	if len(f.changes) != 2 {
		t.Fatalf("changes = %d after reconnect, want 2", len(f.changes))
	}
	if f.changes[1].HasPrevious {
		t.Error("first pass after reconnect must be initial")
	}
}

func TestDisconnectCancelsArmedWatch(t *testing.T) {
	f := newWatchFixture(t, true)
	_ = f.c.Connect()
	_ = f.c.Disconnect()

	if got := pendingReads(f.sched); got != 0 {
		t.Errorf("pending reads = %d, want 0 (no update descriptors, watch cancelled)", got)
	}

	_ = f.c.Connect()
	flush(t, f.sched)
	if len(f.changes) != 1 || f.changes[0].HasPrevious {
		t.Errorf("changes = %+v, want one initial firing", f.changes)
	}
}

func TestDisconnectDuringWatchPass(t *testing.T) {
	s := fastdom.New()
	var initial []bool
	typ := MustDefine(Options{Computed: []ComputedDescriptor{{
		Key: "k",
		Get: func(*Instance, Props, any) any { return 1 },
		Watch: func(c *Instance, change Change) error {
			initial = append(initial, !change.HasPrevious)
			return c.Disconnect()
		},
		Immediate: true,
	}}})
	c := typ.New(nil, nil, WithScheduler(s))
	_ = c.Connect()
	flush(t, s)

	_ = c.Connect()
	flush(t, s)

	if diff := cmp.Diff([]bool{true, true}, initial); diff != "" {
		t.Errorf("initial flags mismatch (-want +got):\n%s", diff)
	}
}

func TestWatchOrderAndErrors(t *testing.T) {
	s := fastdom.New()
	boom := errors.New("boom")
	var fired []string
	watch := func(key string, err error) ComputedDescriptor {
		return ComputedDescriptor{
			Key: key,
			Get: func(*Instance, Props, any) any { return key },
			Watch: func(*Instance, Change) error {
				fired = append(fired, key)
				return err
			},
			Immediate: true,
		}
	}
	typ := MustDefine(Options{
		Name:     "ordered",
		Computed: []ComputedDescriptor{watch("a", nil), watch("b", boom), watch("c", nil)},
	})
	c := typ.New(nil, nil, WithScheduler(s))
	_ = c.Connect()

	err := s.Flush()
	if !errors.Is(err, boom) {
		t.Fatalf("Flush() error = %v, want boom", err)
	}
	if diff := cmp.Diff([]string{"a", "b"}, fired); diff != "" {
		t.Errorf("fired mismatch (-want +got):\n%s", diff)
	}

	// The failing pass still left the watch idle, not initial and not armed.
	c.Emit()
	if got := pendingReads(s); got != 1 {
		t.Errorf("pending reads = %d, want 1", got)
	}
	flush(t, s)
	if len(fired) != 2 {
		t.Errorf("non-initial pass with unchanged values fired: %v", fired)
	}
}

func TestDeepEqual(t *testing.T) {
	type node struct {
		id       string
		children []*node
		onClick  func()
	}
	a := &node{id: "a", children: []*node{{id: "b"}}}
	b := &node{id: "a", children: []*node{{id: "b"}}}
	c := &node{id: "a", children: []*node{{id: "c"}}}
	withFunc := &node{id: "d", onClick: func() {}}

	tests := []struct {
		name string
		x, y any
		want bool
	}{
		{"nil", nil, nil, true},
		{"ints", 1, 1, true},
		{"different types", 1, "1", false},
		{"slices", []string{"x"}, []string{"x"}, true},
		{"maps", map[string]int{"a": 1}, map[string]int{"a": 2}, false},
		{"unexported fields equal", a, b, true},
		{"unexported fields differ", a, c, false},
		{"same pointer holding a func", []*node{withFunc}, []*node{withFunc}, true},
		{"distinct pointers holding funcs", withFunc, &node{id: "d", onClick: func() {}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := deepEqual(tt.x, tt.y); got != tt.want {
				t.Errorf("deepEqual() = %v, want %v", got, tt.want)
			}
		})
	}
}
