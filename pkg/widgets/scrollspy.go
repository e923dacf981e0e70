package widgets

import (
	"strings"

	"github.com/vango-dev/widgetkit/pkg/component"
)

const (
	propIntersector = "intersector"
	dataElements    = "elements"
)

// spyState is the per-element state kept in the scrollspy data.
type spyState struct {
	cls    string
	show   bool
	inview bool
}

// ScrollspyType is the scrollspy component type.
//
// Props:
//   - cls: classes added to an element once it is in view
//   - target: class of the children to spy on; empty spies on the root
//   - hidden: hide elements until they first come into view
//   - repeat: remove the classes again when an element leaves the view
//   - inViewClass: marker class of elements in view
var ScrollspyType = component.MustDefine(component.Options{
	Name: "scrollspy",
	Props: component.Props{
		"cls":         "",
		"target":      "",
		"hidden":      true,
		"repeat":      false,
		"inViewClass": "uk-scrollspy-inview",
	},
	Computed: []component.ComputedDescriptor{{
		Key: "elements",
		Get: func(_ *component.Instance, props component.Props, root any) any {
			el := root.(*Element)
			target := props.String("target")
			if target == "" {
				return []*Element{el}
			}
			var out []*Element
			for _, child := range el.Children {
				if child.HasClass(target) {
					out = append(out, child)
				}
			}
			return out
		},
		Watch:     hideElements,
		Immediate: true,
	}},
	Hooks: map[component.HookName][]component.Hook{
		component.Connected:    {observeElements},
		component.Disconnected: {clearElements},
	},
	Update: []component.UpdateDescriptor{{
		Write: writeInView,
	}},
})

// Scrollspy toggles classes on elements as they enter the viewport.
type Scrollspy struct {
	*component.Instance
}

// NewScrollspy creates a scrollspy over root, fed by x.
func NewScrollspy(root *Element, x *Intersector, props component.Props, opts ...component.InstanceOption) *Scrollspy {
	merged := component.Props{propIntersector: x}
	for k, v := range props {
		merged[k] = v
	}
	return &Scrollspy{Instance: ScrollspyType.New(root, merged, opts...)}
}

// Elements returns the spied elements.
func (s *Scrollspy) Elements() []*Element {
	return spiedElements(s.Instance)
}

func spiedElements(c *component.Instance) []*Element {
	els, _ := c.Computed("elements").([]*Element)
	return els
}

func elementStates(data component.Data) map[*Element]*spyState {
	states, _ := data.Get(dataElements).(map[*Element]*spyState)
	return states
}

func hideElements(c *component.Instance, change component.Change) error {
	els, _ := change.Value.([]*Element)
	props := c.Props()
	if props.Bool("hidden") {
		inView := props.String("inViewClass")
		for _, el := range els {
			if !el.HasClass(inView) {
				el.SetAttr("style", "opacity:0")
			}
		}
	}

	// A new set of elements needs a fresh observer.
	if change.HasPrevious {
		if err := c.Disconnect(); err != nil {
			return err
		}
		return c.Connect()
	}
	return nil
}

func observeElements(c *component.Instance) error {
	states := make(map[*Element]*spyState)
	c.Data()[dataElements] = states

	x, _ := c.Props()[propIntersector].(*Intersector)
	if x == nil {
		return nil
	}

	props := c.Props()
	c.RegisterObserver(x.Observe(spiedElements(c), func(records []Intersection) {
		for _, r := range records {
			state, ok := states[r.Target]
			if !ok {
				cls := r.Target.Attr("data-scrollspy-class")
				if cls == "" {
					cls = props.String("cls")
				}
				state = &spyState{cls: cls}
				states[r.Target] = state
			}
			if !props.Bool("repeat") && state.show {
				continue
			}
			state.show = r.Intersecting
		}
		c.Emit()
	}))
	return nil
}

func clearElements(c *component.Instance) error {
	inView := c.Props().String("inViewClass")
	for el, state := range elementStates(c.Data()) {
		el.RemoveClass(inView)
		for _, cls := range strings.Fields(state.cls) {
			el.RemoveClass(cls)
		}
	}
	return nil
}

func writeInView(c *component.Instance, data component.Data, _ component.EventSet) error {
	repeat := c.Props().Bool("repeat")
	for el, state := range elementStates(data) {
		switch {
		case state.show && !state.inview:
			toggleInView(c, el, state, true)
		case !state.show && state.inview && repeat:
			toggleInView(c, el, state, false)
		}
	}
	return nil
}

func toggleInView(c *component.Instance, el *Element, state *spyState, inview bool) {
	props := c.Props()

	if !inview && props.Bool("hidden") {
		el.SetAttr("style", "opacity:0")
	} else {
		el.SetAttr("style", "")
	}

	el.ToggleClass(props.String("inViewClass"), inview)
	for _, cls := range strings.Fields(state.cls) {
		el.ToggleClass(cls, inview)
	}

	if inview {
		el.Trigger("inview")
	} else {
		el.Trigger("outview")
	}
	state.inview = inview
}
