package widgets

// Intersection reports whether a target is inside the viewport.
type Intersection struct {
	Target       *Element
	Intersecting bool
}

type intersectionObserver struct {
	targets []*Element
	fn      func([]Intersection)
}

// Intersector tracks which elements are visible and notifies observers of
// changes. It stands in for the host's viewport intersection source.
type Intersector struct {
	visible   map[*Element]bool
	observers []*intersectionObserver
}

// NewIntersector creates an Intersector with nothing visible.
func NewIntersector() *Intersector {
	return &Intersector{visible: make(map[*Element]bool)}
}

// Observe watches targets. fn receives the current state of every target
// immediately, then a record for each later change.
func (x *Intersector) Observe(targets []*Element, fn func([]Intersection)) (disconnect func()) {
	o := &intersectionObserver{targets: append([]*Element(nil), targets...), fn: fn}
	x.observers = append(x.observers, o)

	records := make([]Intersection, len(o.targets))
	for i, t := range o.targets {
		records[i] = Intersection{Target: t, Intersecting: x.visible[t]}
	}
	if len(records) > 0 {
		fn(records)
	}

	return func() {
		for i, other := range x.observers {
			if other == o {
				x.observers = append(x.observers[:i], x.observers[i+1:]...)
				return
			}
		}
	}
}

// Observers returns the number of active observers.
func (x *Intersector) Observers() int {
	return len(x.observers)
}

// IsVisible reports the last known state of el.
func (x *Intersector) IsVisible(el *Element) bool {
	return x.visible[el]
}

// SetVisible updates el and notifies the observers watching it when the
// state changed.
func (x *Intersector) SetVisible(el *Element, visible bool) {
	if x.visible[el] == visible {
		return
	}
	x.visible[el] = visible

	for _, o := range append([]*intersectionObserver(nil), x.observers...) {
		for _, t := range o.targets {
			if t == el {
				o.fn([]Intersection{{Target: el, Intersecting: visible}})
				break
			}
		}
	}
}
