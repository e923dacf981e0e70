package component

import (
	"fmt"
	"time"

	"github.com/vango-dev/widgetkit/internal/errors"
)

// RequestUpdate asks for an update pass on the next tick.
// An empty event means EventUpdate.
//
// Requests on a disconnected instance are dropped. EventUpdate and
// EventResize also arm a watch pass. Requests made before the pass drains
// are coalesced into a single pass seeing all of their events.
func (c *Instance) RequestUpdate(event string) {
	if event == "" {
		event = EventUpdate
	}

	if !c.connected {
		return
	}

	if event == EventUpdate || event == EventResize {
		c.requestWatch()
	}

	if !c.typ.HasUpdates() {
		return
	}

	if c.updates == nil {
		c.updates = &EventSet{}
		c.scheduler.Read(func() error {
			events := c.updates
			var missed []string
			defer func() {
				c.updates = nil
				for _, e := range missed {
					c.RequestUpdate(e)
				}
			}()

			if !c.connected {
				return nil
			}
			var err error
			missed, err = c.runUpdates(events)
			return err
		})
	}

	c.updates.add(event)
}

// Emit requests a generic update.
func (c *Instance) Emit() {
	c.RequestUpdate(EventUpdate)
}

// runUpdates drains one update pass. events is the live set: requests made
// while the pass runs are seen by the descriptors that follow. It returns
// the events that arrived too late for a descriptor that was already
// skipped, so the caller can arm another pass for them.
func (c *Instance) runUpdates(events *EventSet) (missed []string, err error) {
	start := time.Now()
	initial := events.Len()
	report := PassReport{
		Component: c.typ.name,
		Instance:  c.id,
		Kind:      PassUpdate,
	}

	var skipped, writes []int
	defer func() {
		// Writes see every event of the pass, including late ones.
		snapshot := NewEventSet(events.Names()...)
		for _, i := range writes {
			c.queueWrite(i, c.typ.update[i].Write, snapshot)
		}

		report.Events = snapshot.Names()
		report.Writes = len(writes)
		report.Duration = time.Since(start)
		report.Err = err
		c.logger.Debug("update pass", "events", report.Events, "ran", report.Ran, "writes", report.Writes)
		if c.reporter != nil {
			c.reporter.ReportPass(report)
		}
	}()

	for i, d := range c.typ.update {
		if !events.matches(d.Events) {
			skipped = append(skipped, i)
			continue
		}
		report.Ran++

		outcome := NoChange
		if d.Read != nil {
			outcome, err = d.Read(c, c.data, *events)
			if err != nil {
				return nil, errors.New("W002").
					WithComponent(c.typ.name).
					WithOp(fmt.Sprintf("update[%d].read", i)).
					Wrap(err)
			}
			if outcome.kind == outcomeValues {
				c.data.Merge(outcome.values)
			}
		}

		if d.Write != nil && !outcome.IsSkip() {
			writes = append(writes, i)
		}
	}

	late := NewEventSet(events.Names()[initial:]...)
	if late.Len() == 0 {
		return nil, nil
	}
	for _, i := range skipped {
		if late.matches(c.typ.update[i].Events) {
			return late.Names(), nil
		}
	}
	return nil, nil
}

func (c *Instance) queueWrite(index int, write WriteFunc, events EventSet) {
	c.scheduler.Write(func() error {
		if !c.connected {
			return nil
		}
		if err := write(c, c.data, events); err != nil {
			return errors.New("W003").
				WithComponent(c.typ.name).
				WithOp(fmt.Sprintf("update[%d].write", index)).
				Wrap(err)
		}
		return nil
	})
}
