package widgets

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/vango-dev/widgetkit/pkg/component"
)

const (
	clsAccordionTitle   = "uk-accordion-title"
	clsAccordionContent = "uk-accordion-content"
)

// AccordionType is the accordion component type.
//
// Props:
//   - active: index of the item opened on first connect, -1 for none
//   - collapsible: whether every item may be closed at once
//   - multiple: whether several items may be open at once
var AccordionType = component.MustDefine(component.Options{
	Name:   "accordion",
	Mixins: []component.Options{Togglable},
	Props: component.Props{
		"active":      -1,
		"collapsible": true,
		"multiple":    false,
	},
	Computed: []component.ComputedDescriptor{
		{
			Key: "items",
			Get: func(_ *component.Instance, _ component.Props, root any) any {
				return slices.Clone(root.(*Element).Children)
			},
			Watch:     openInitialItem,
			Immediate: true,
		},
		{
			Key: "toggles",
			Get: func(c *component.Instance, _ component.Props, _ any) any {
				return mapItems(c, clsAccordionTitle)
			},
			Watch: func(c *component.Instance, _ component.Change) error {
				c.Emit()
				return nil
			},
			Immediate: true,
		},
		{
			Key: "contents",
			Get: func(c *component.Instance, _ component.Props, _ any) any {
				return mapItems(c, clsAccordionContent)
			},
			Watch:     syncContents,
			Immediate: true,
		},
	},
	Bindings: []component.Binding{bindToggles},
	Update: []component.UpdateDescriptor{{
		Read: func(c *component.Instance, _ component.Data, _ component.EventSet) (component.ReadOutcome, error) {
			return component.Values(map[string]any{"active": activeIndexes(c)}), nil
		},
		Write: writeAria,
	}},
})

// Accordion is a connected-or-not accordion instance.
type Accordion struct {
	*component.Instance
}

// NewAccordion creates an accordion over root. Every child of root is an
// item holding a title and a content element.
func NewAccordion(root *Element, props component.Props, opts ...component.InstanceOption) *Accordion {
	return &Accordion{Instance: AccordionType.New(root, props, opts...)}
}

// Items returns the accordion items.
func (a *Accordion) Items() []*Element {
	return items(a.Instance)
}

// Toggle opens or closes the item at index.
func (a *Accordion) Toggle(index int) {
	toggleItem(a.Instance, index)
}

func items(c *component.Instance) []*Element {
	els, _ := c.Computed("items").([]*Element)
	return els
}

func mapItems(c *component.Instance, cls string) []*Element {
	its := items(c)
	out := make([]*Element, len(its))
	for i, item := range its {
		out[i] = item.Child(cls)
	}
	return out
}

func activeIndexes(c *component.Instance) []int {
	clsOpen := c.Props().String("clsOpen")
	var active []int
	for i, item := range items(c) {
		if item.HasClass(clsOpen) {
			active = append(active, i)
		}
	}
	return active
}

// openInitialItem opens the configured item the first time items are seen,
// unless the markup already has an open one.
func openInitialItem(c *component.Instance, change component.Change) error {
	its, _ := change.Value.([]*Element)
	if change.HasPrevious || len(activeIndexes(c)) > 0 || len(its) == 0 {
		return nil
	}

	props := c.Props()
	index := -1
	if active := props.Int("active"); active >= 0 && active < len(its) {
		index = active
	} else if !props.Bool("collapsible") {
		index = 0
	}
	if index >= 0 {
		toggleItem(c, index)
	}
	return nil
}

func syncContents(c *component.Instance, change component.Change) error {
	contents, _ := change.Value.([]*Element)
	clsOpen := c.Props().String("clsOpen")
	for i, item := range items(c) {
		if i < len(contents) && contents[i] != nil {
			contents[i].Hidden = !item.HasClass(clsOpen)
		}
	}
	c.Emit()
	return nil
}

func bindToggles(c *component.Instance) func() {
	var offs []func()
	for i, toggle := range mapItems(c, clsAccordionTitle) {
		if toggle == nil {
			continue
		}
		index := i
		offs = append(offs, toggle.On("click", func(*Element, string) {
			toggleItem(c, index)
		}))
	}
	return func() {
		for _, off := range offs {
			off()
		}
	}
}

// toggleItem flips the item at index, closing the other open items unless
// multiple is set. The last open item of a non-collapsible accordion stays
// open.
func toggleItem(c *component.Instance, index int) {
	its := items(c)
	if index < 0 || index >= len(its) {
		return
	}

	props := c.Props()
	active := activeIndexes(c)
	isActive := slices.Contains(active, index)

	targets := []int{index}
	if !props.Bool("multiple") && !isActive {
		targets = append(targets, active...)
	}

	if !props.Bool("collapsible") && len(active) < 2 && isActive {
		return
	}

	for _, i := range targets {
		item := its[i]
		toggleElement(c, item, item.Child(clsAccordionContent), !slices.Contains(active, i))
	}
	c.Emit()
}

// writeAria stamps ids and aria attributes on every title/content pair.
func writeAria(c *component.Instance, data component.Data, _ component.EventSet) error {
	active, _ := data.Get("active").([]int)
	collapsible := c.Props().Bool("collapsible")

	toggles := mapItems(c, clsAccordionTitle)
	contents := mapItems(c, clsAccordionContent)

	for i := range items(c) {
		toggle, content := toggles[i], contents[i]
		if toggle == nil || content == nil {
			continue
		}

		toggle.ID = generateID(c, toggle, fmt.Sprintf("-title-%d", i))
		content.ID = generateID(c, content, fmt.Sprintf("-content-%d", i))

		isActive := slices.Contains(active, i)
		if toggle.Tag == "a" {
			toggle.SetAttr("role", "button")
		}
		toggle.SetAttr("aria-controls", content.ID)
		toggle.SetAttr("aria-expanded", strconv.FormatBool(isActive))
		toggle.SetAttr("aria-disabled", strconv.FormatBool(!collapsible && len(active) < 2 && isActive))

		content.SetAttr("role", "region")
		content.SetAttr("aria-labelledby", toggle.ID)
	}
	return nil
}

func generateID(c *component.Instance, el *Element, suffix string) string {
	if el.ID != "" {
		return el.ID
	}
	return c.Type().Name() + "-" + c.ID() + suffix
}
