package component

import (
	"github.com/vango-dev/widgetkit/internal/errors"
)

// Connect attaches the instance. It is a no-op when already connected.
//
// Data and the computed cache start empty, props are resolved, the
// beforeConnect hooks run, bindings and observers are set up, the connected
// hooks run and an initial generic update is requested.
//
// A failing hook stops the sequence and its error is returned; the instance
// may be left partially connected.
func (c *Instance) Connect() error {
	if c.connected {
		return nil
	}

	c.data = Data{}
	c.computed = make(map[string]any)
	c.resolveProps()

	if err := c.callHook(BeforeConnect); err != nil {
		return err
	}

	c.connected = true

	c.initBindings()
	c.initObservers()

	if err := c.callHook(Connected); err != nil {
		return err
	}

	c.logger.Debug("connected")
	c.RequestUpdate(EventUpdate)
	return nil
}

// Disconnect detaches the instance. It is a no-op when not connected.
// Passes already queued become no-ops; the next connect starts with fresh
// watch history.
func (c *Instance) Disconnect() error {
	if !c.connected {
		return nil
	}

	if err := c.callHook(BeforeDisconnect); err != nil {
		return err
	}

	c.disconnectObservers()
	c.unbindEvents()

	if err := c.callHook(Disconnected); err != nil {
		return err
	}

	c.connected = false
	c.resetWatch()

	c.logger.Debug("disconnected")
	return nil
}

// callHook runs the hooks registered under name in declaration order.
func (c *Instance) callHook(name HookName) error {
	hooks := c.typ.hooks[name]
	if len(hooks) == 0 {
		return nil
	}

	var err error
	for _, hook := range hooks {
		if herr := hook(c); herr != nil {
			err = errors.New("W001").
				WithComponent(c.typ.name).
				WithOp(string(name)).
				Wrap(herr)
			break
		}
	}

	if c.reporter != nil {
		c.reporter.ReportHook(c.typ.name, name, err)
	}
	return err
}

func (c *Instance) initBindings() {
	for _, bind := range c.typ.bindings {
		c.RegisterBinding(bind(c))
	}
}

func (c *Instance) initObservers() {
	for _, observe := range c.typ.observers {
		c.RegisterObserver(observe(c))
	}
}

func (c *Instance) disconnectObservers() {
	observers := c.observers
	c.observers = nil
	for _, disconnect := range observers {
		disconnect()
	}
}

func (c *Instance) unbindEvents() {
	unbinders := c.unbinders
	c.unbinders = nil
	for _, unbind := range unbinders {
		unbind()
	}
}
