package component

import (
	"fmt"
	"time"

	"github.com/vango-dev/widgetkit/internal/errors"
	"github.com/vango-dev/widgetkit/pkg/fastdom"
)

// Computed returns the value of the computed property key, evaluating and
// memoizing it on first access. Unknown keys yield nil.
func (c *Instance) Computed(key string) any {
	if v, ok := c.computed[key]; ok {
		return v
	}
	i, ok := c.typ.index[key]
	if !ok {
		return nil
	}
	v := c.typ.computed[i].Get(c, c.props, c.root)
	c.computed[key] = v
	return v
}

// requestWatch arms a watch pass unless one is already armed.
func (c *Instance) requestWatch() {
	if c.watch == watchArmed {
		return
	}

	initial := c.watch == watchNeverRun
	gen := c.watchGen

	c.watch = watchArmed
	c.watchHandle = c.scheduler.Read(func() error {
		defer func() {
			if c.watchGen == gen {
				c.watch = watchIdle
				c.watchHandle = fastdom.Handle{}
			}
		}()

		if !c.connected {
			return nil
		}
		return c.runWatches(initial)
	})
}

// resetWatch forgets the watch history and cancels an armed pass.
func (c *Instance) resetWatch() {
	if c.watch == watchArmed {
		c.scheduler.Cancel(c.watchHandle)
	}
	c.watchGen++
	c.watch = watchNeverRun
	c.watchHandle = fastdom.Handle{}
}

// runWatches drains one watch pass.
func (c *Instance) runWatches(initial bool) (err error) {
	start := time.Now()
	report := PassReport{
		Component: c.typ.name,
		Instance:  c.id,
		Kind:      PassWatch,
		Initial:   initial,
	}
	defer func() {
		report.Duration = time.Since(start)
		report.Err = err
		c.logger.Debug("watch pass", "initial", initial, "fired", report.Ran)
		if c.reporter != nil {
			c.reporter.ReportPass(report)
		}
	}()

	previous := c.computed
	c.computed = make(map[string]any, len(previous))

	for _, d := range c.typ.computed {
		if d.Watch == nil {
			continue
		}

		old, cached := previous[d.Key]

		var fire bool
		if initial && d.Immediate {
			fire = true
		} else if cached {
			fire = !deepEqual(old, c.Computed(d.Key))
		}
		if !fire {
			continue
		}

		change := Change{Key: d.Key, Value: c.Computed(d.Key)}
		if !initial {
			change.Previous = old
			change.HasPrevious = cached
		}

		report.Ran++
		if werr := d.Watch(c, change); werr != nil {
			return errors.New("W004").
				WithComponent(c.typ.name).
				WithOp(fmt.Sprintf("watch(%s)", d.Key)).
				Wrap(werr)
		}
	}
	return nil
}
