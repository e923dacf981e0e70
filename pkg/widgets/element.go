package widgets

import "slices"

// Element is a node of the in-memory widget tree.
type Element struct {
	ID  string
	Tag string

	Hidden   bool
	Children []*Element

	classes   []string
	attrs     map[string]string
	listeners map[string][]*listener
}

type listener struct {
	fn func(e *Element, event string)
}

// NewElement creates an element with the given tag and classes.
func NewElement(tag string, classes ...string) *Element {
	el := &Element{Tag: tag}
	for _, cls := range classes {
		el.AddClass(cls)
	}
	return el
}

// Append adds children and returns the element.
func (e *Element) Append(children ...*Element) *Element {
	e.Children = append(e.Children, children...)
	return e
}

// Child returns the first direct child carrying cls, or nil.
func (e *Element) Child(cls string) *Element {
	for _, c := range e.Children {
		if c.HasClass(cls) {
			return c
		}
	}
	return nil
}

// Classes returns a copy of the class list.
func (e *Element) Classes() []string {
	return slices.Clone(e.classes)
}

// HasClass reports whether cls is set.
func (e *Element) HasClass(cls string) bool {
	return slices.Contains(e.classes, cls)
}

// AddClass sets cls.
func (e *Element) AddClass(cls string) {
	if cls != "" && !e.HasClass(cls) {
		e.classes = append(e.classes, cls)
	}
}

// RemoveClass clears cls.
func (e *Element) RemoveClass(cls string) {
	if i := slices.Index(e.classes, cls); i >= 0 {
		e.classes = slices.Delete(e.classes, i, i+1)
	}
}

// ToggleClass sets cls when on is true and clears it otherwise.
func (e *Element) ToggleClass(cls string, on bool) {
	if on {
		e.AddClass(cls)
	} else {
		e.RemoveClass(cls)
	}
}

// Attr returns the attribute value, or "" when unset.
func (e *Element) Attr(name string) string {
	return e.attrs[name]
}

// SetAttr sets an attribute. An empty value removes it.
func (e *Element) SetAttr(name, value string) {
	if value == "" {
		delete(e.attrs, name)
		return
	}
	if e.attrs == nil {
		e.attrs = make(map[string]string)
	}
	e.attrs[name] = value
}

// On registers fn for event and returns the function removing it.
func (e *Element) On(event string, fn func(e *Element, event string)) (off func()) {
	if e.listeners == nil {
		e.listeners = make(map[string][]*listener)
	}
	l := &listener{fn: fn}
	e.listeners[event] = append(e.listeners[event], l)

	return func() {
		ls := e.listeners[event]
		if i := slices.Index(ls, l); i >= 0 {
			e.listeners[event] = slices.Delete(ls, i, i+1)
		}
	}
}

// Listeners returns the number of listeners registered for event.
func (e *Element) Listeners(event string) int {
	return len(e.listeners[event])
}

// Trigger calls the listeners registered for event.
func (e *Element) Trigger(event string) {
	for _, l := range slices.Clone(e.listeners[event]) {
		l.fn(e, event)
	}
}
