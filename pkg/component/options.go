package component

import (
	"fmt"

	"github.com/vango-dev/widgetkit/internal/errors"
)

// HookName names a lifecycle hook.
type HookName string

const (
	BeforeConnect    HookName = "beforeConnect"
	Connected        HookName = "connected"
	BeforeDisconnect HookName = "beforeDisconnect"
	Disconnected     HookName = "disconnected"
)

// String returns the hook name.
func (h HookName) String() string {
	return string(h)
}

func (h HookName) valid() bool {
	switch h {
	case BeforeConnect, Connected, BeforeDisconnect, Disconnected:
		return true
	}
	return false
}

// Hook is a lifecycle callback bound to the instance.
type Hook func(c *Instance) error

// ReadFunc measures state. Its outcome decides what is merged into data and
// whether the paired write runs.
type ReadFunc func(c *Instance, data Data, events EventSet) (ReadOutcome, error)

// WriteFunc mutates state using what the read stage measured.
type WriteFunc func(c *Instance, data Data, events EventSet) error

// UpdateDescriptor pairs a read step with an optional write step.
// A descriptor without Events only runs on generic update requests.
type UpdateDescriptor struct {
	Read   ReadFunc
	Write  WriteFunc
	Events []string
}

// Change describes a computed value change passed to a watch callback.
type Change struct {
	Key   string
	Value any

	// Previous is the last observed value. It is only meaningful when
	// HasPrevious is true; initial firings never have one.
	Previous    any
	HasPrevious bool
}

// ComputedDescriptor declares a lazily evaluated, memoized derived value.
type ComputedDescriptor struct {
	Key       string
	Get       func(c *Instance, props Props, root any) any
	Watch     func(c *Instance, change Change) error
	Immediate bool
}

// Binding attaches event listeners on connect and returns the function
// that detaches them.
type Binding func(c *Instance) (unbind func())

// ObserveFunc registers an observer on connect and returns the function
// that disconnects it.
type ObserveFunc func(c *Instance) (disconnect func())

// Options is the declaration of a component type.
type Options struct {
	// Name identifies the type in logs, errors and metrics.
	Name string

	// Props are the default values of the declared inputs.
	Props Props

	Hooks    map[HookName][]Hook
	Update   []UpdateDescriptor
	Computed []ComputedDescriptor

	Bindings  []Binding
	Observers []ObserveFunc

	// Mixins are flattened before the type's own declarations.
	Mixins []Options
}

// Type is a compiled, immutable option set shared by all its instances.
type Type struct {
	name      string
	props     Props
	hooks     map[HookName][]Hook
	update    []UpdateDescriptor
	computed  []ComputedDescriptor
	index     map[string]int
	bindings  []Binding
	observers []ObserveFunc
}

// Define validates opts and compiles it into a Type.
func Define(opts Options) (*Type, error) {
	t := &Type{
		name:  opts.Name,
		props: Props{},
		hooks: make(map[HookName][]Hook),
		index: make(map[string]int),
	}
	if err := t.flatten(opts); err != nil {
		return nil, err
	}
	if t.name == "" {
		t.name = "component"
	}
	return t, nil
}

// MustDefine is like Define but panics on an invalid declaration.
// It is intended for package-level type declarations.
func MustDefine(opts Options) *Type {
	t, err := Define(opts)
	if err != nil {
		panic(err)
	}
	return t
}

// flatten merges mixins depth-first, then opts itself.
func (t *Type) flatten(opts Options) error {
	for _, mixin := range opts.Mixins {
		if err := t.flatten(mixin); err != nil {
			return err
		}
	}

	for k, v := range opts.Props {
		t.props[k] = v
	}

	for name, hooks := range opts.Hooks {
		if !name.valid() {
			return errors.New("W014").WithComponent(opts.Name).WithOp(string(name))
		}
		t.hooks[name] = append(t.hooks[name], hooks...)
	}

	for i, d := range opts.Update {
		if d.Read == nil && d.Write == nil {
			return errors.New("W011").WithComponent(opts.Name).WithOp(fmt.Sprintf("update[%d]", i))
		}
		d.Events = append([]string(nil), d.Events...)
		t.update = append(t.update, d)
	}

	seen := make(map[string]bool, len(opts.Computed))
	for _, d := range opts.Computed {
		if d.Key == "" || d.Get == nil {
			return errors.New("W012").WithComponent(opts.Name).WithOp(d.Key)
		}
		if seen[d.Key] {
			return errors.New("W013").WithComponent(opts.Name).WithOp(d.Key)
		}
		seen[d.Key] = true

		// A later declaration overrides a mixin's but keeps its position.
		if i, ok := t.index[d.Key]; ok {
			t.computed[i] = d
			continue
		}
		t.index[d.Key] = len(t.computed)
		t.computed = append(t.computed, d)
	}

	t.bindings = append(t.bindings, opts.Bindings...)
	t.observers = append(t.observers, opts.Observers...)
	return nil
}

// Name returns the type name.
func (t *Type) Name() string {
	return t.name
}

// HasUpdates reports whether the type declares any update descriptor.
func (t *Type) HasUpdates() bool {
	return len(t.update) > 0
}

// ComputedKeys returns the computed keys in declaration order.
func (t *Type) ComputedKeys() []string {
	keys := make([]string, len(t.computed))
	for i, d := range t.computed {
		keys[i] = d.Key
	}
	return keys
}

// Hooks returns the number of hooks registered under name.
func (t *Type) Hooks(name HookName) int {
	return len(t.hooks[name])
}
