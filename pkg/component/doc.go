// Package component implements the lifecycle and update scheduling core of
// widgetkit components.
//
// A component type is declared once with Options and compiled by Define into
// an immutable *Type. Each live widget is an *Instance of that type:
//
//	counter := component.MustDefine(component.Options{
//	    Name: "counter",
//	    Update: []component.UpdateDescriptor{{
//	        Read: func(c *component.Instance, data component.Data, _ component.EventSet) (component.ReadOutcome, error) {
//	            return component.Values(map[string]any{"n": data.Int("n") + 1}), nil
//	        },
//	        Write: func(c *component.Instance, data component.Data, _ component.EventSet) error {
//	            render(data.Int("n"))
//	            return nil
//	        },
//	    }},
//	})
//
//	c := counter.New(root, nil, component.WithScheduler(sched))
//	c.Connect()
//	sched.Flush()
//
// # Update Passes
//
// RequestUpdate arms at most one pass per instance and tick. Event names
// requested before the pass drains are coalesced into one EventSet. The pass
// runs every eligible descriptor's Read on the scheduler's read stage, in
// declaration order, and queues each Write on the write stage, so all
// measurements of a tick happen before any mutation.
//
// # Watches
//
// Computed values are memoized lazily and change-detected once per tick.
// Generic "update" and "resize" requests arm a watch pass, which compares the
// cached values against freshly computed ones and fires Watch callbacks.
//
// # Threading
//
// An Instance is not safe for concurrent use. It must only be touched from the
// goroutine that flushes its scheduler.
package component
