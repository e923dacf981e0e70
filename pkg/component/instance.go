package component

import (
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/vango-dev/widgetkit/pkg/fastdom"
)

// watchState tracks the watch scheduler of an instance.
type watchState uint8

const (
	// watchNeverRun means no watch pass completed since the last connect;
	// the next pass is initial.
	watchNeverRun watchState = iota

	// watchIdle means a pass completed and none is armed.
	watchIdle

	// watchArmed means a pass is queued on the read stage.
	watchArmed
)

// Instance is the per-widget state of a component type.
type Instance struct {
	id   string
	typ  *Type
	root any

	// inputs are the props supplied by the host, overlaid on the type
	// defaults at connect.
	inputs Props
	props  Props

	connected bool

	data     Data
	computed map[string]any

	// updates is non-nil while an update pass is armed.
	updates *EventSet

	watch       watchState
	watchHandle fastdom.Handle

	// watchGen invalidates an armed watch pass across a disconnect.
	watchGen uint64

	unbinders []func()
	observers []func()

	scheduler *fastdom.Scheduler
	logger    *slog.Logger
	reporter  Reporter
}

// InstanceOption configures an Instance.
type InstanceOption func(*Instance)

// WithScheduler sets the scheduler passes are queued on.
// The default is fastdom.Default().
func WithScheduler(s *fastdom.Scheduler) InstanceOption {
	return func(c *Instance) {
		if s != nil {
			c.scheduler = s
		}
	}
}

// WithLogger sets the instance logger.
func WithLogger(logger *slog.Logger) InstanceOption {
	return func(c *Instance) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithReporter sets the reporter notified of passes and hook runs.
func WithReporter(r Reporter) InstanceOption {
	return func(c *Instance) {
		c.reporter = r
	}
}

var instanceIDCounter atomic.Uint64

func generateInstanceID() string {
	return fmt.Sprintf("w%d", instanceIDCounter.Add(1))
}

// New creates a disconnected instance of t attached to root.
// props are the instance inputs; missing keys fall back to the type defaults.
func (t *Type) New(root any, props Props, opts ...InstanceOption) *Instance {
	c := &Instance{
		id:        generateInstanceID(),
		typ:       t,
		root:      root,
		inputs:    Props{},
		data:      Data{},
		computed:  make(map[string]any),
		scheduler: fastdom.Default(),
	}
	for k, v := range props {
		c.inputs[k] = v
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default().With("component", t.name, "instance", c.id)
	}
	c.resolveProps()
	return c
}

// ID returns the unique instance identifier.
func (c *Instance) ID() string {
	return c.id
}

// Type returns the component type.
func (c *Instance) Type() *Type {
	return c.typ
}

// Root returns the root the instance is attached to.
func (c *Instance) Root() any {
	return c.root
}

// IsConnected reports whether the instance is connected.
func (c *Instance) IsConnected() bool {
	return c.connected
}

// Data returns the instance scratch space.
func (c *Instance) Data() Data {
	return c.data
}

// Props returns the resolved props.
func (c *Instance) Props() Props {
	return c.props
}

// Scheduler returns the scheduler the instance queues passes on.
func (c *Instance) Scheduler() *fastdom.Scheduler {
	return c.scheduler
}

// Logger returns the instance logger.
func (c *Instance) Logger() *slog.Logger {
	return c.logger
}

// resolveProps overlays the instance inputs on the type defaults.
func (c *Instance) resolveProps() {
	props := make(Props, len(c.typ.props)+len(c.inputs))
	for k, v := range c.typ.props {
		props[k] = v
	}
	for k, v := range c.inputs {
		props[k] = v
	}
	c.props = props
}

// SetProps replaces inputs. On a connected instance this re-evaluates the
// computed values on the next tick.
func (c *Instance) SetProps(values Props) {
	for k, v := range values {
		c.inputs[k] = v
	}
	c.resolveProps()
	if c.connected {
		c.requestWatch()
	}
}

// RegisterObserver records a disconnect function to run on Disconnect.
func (c *Instance) RegisterObserver(disconnect func()) {
	if disconnect != nil {
		c.observers = append(c.observers, disconnect)
	}
}

// RegisterBinding records an unbind function to run on Disconnect.
func (c *Instance) RegisterBinding(unbind func()) {
	if unbind != nil {
		c.unbinders = append(c.unbinders, unbind)
	}
}
