package widgets

import "github.com/vango-dev/widgetkit/pkg/component"

// Togglable is the mixin shared by widgets that show and hide elements.
var Togglable = component.Options{
	Name: "togglable",
	Props: component.Props{
		"clsOpen": "uk-open",
	},
}

// toggleElement shows or hides el by its open class and the hidden flag of
// content, then triggers "shown" or "hidden" on el. The change is
// immediate.
func toggleElement(c *component.Instance, el, content *Element, show bool) {
	el.ToggleClass(c.Props().String("clsOpen"), show)
	if content != nil {
		content.Hidden = !show
	}
	if show {
		el.Trigger("shown")
	} else {
		el.Trigger("hidden")
	}
}
