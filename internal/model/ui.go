package model

// UiComponent is a node in a UI component tree. Trees are built strictly
// top-down from the parse tree, so they cannot contain cycles; depth is
// bounded only by source nesting.
type UiComponent struct {
	ComponentType string           `json:"component_type"`
	Category      string           `json:"category,omitempty"`
	Parameters    []Parameter      `json:"parameters"`
	Layout        []LayoutProperty `json:"layout,omitempty"`
	Children      []UiComponent    `json:"children,omitempty"`
	Navigation    []NavigationRule `json:"navigation,omitempty"`
	Description   string           `json:"description,omitempty"`
}

// LayoutProperty is one entry in a component's loosely-typed layout bag
// (direction, gap, align, justify, spacing and so on — the names are not
// interpreted by the core).
type LayoutProperty struct {
	Name  string `json:"name"`
	Value Value  `json:"value"`
}

// NavigationRule binds a UI event to a navigation target with an ordered
// parameter bag.
type NavigationRule struct {
	Event  string     `json:"event"`
	Target string     `json:"target"`
	Params []NavParam `json:"params,omitempty"`
}

// NavParam is one named argument of a navigation rule.
type NavParam struct {
	Name  string `json:"name"`
	Value Value  `json:"value"`
}

// HasChildren reports whether the component has nested components.
func (c UiComponent) HasChildren() bool { return len(c.Children) > 0 }

// HasNavigation reports whether the component declares navigation rules.
func (c UiComponent) HasNavigation() bool { return len(c.Navigation) > 0 }

// LayoutValue looks up a layout property by name. The second return is
// false when the bag has no entry with that name.
func (c UiComponent) LayoutValue(name string) (Value, bool) {
	for _, p := range c.Layout {
		if p.Name == name {
			return p.Value, true
		}
	}
	return Value{}, false
}
