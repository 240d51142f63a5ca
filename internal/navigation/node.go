// Package navigation holds the console's menu trees and the operations the
// gateway and CLI run over them: permission filtering, expression
// filtering, route-binding checks and JSON overrides.
package navigation

// Icon names a tabler icon.
type Icon struct {
	Icon string `json:"icon"`
}

// Node is one menu entry. A node with only Heading set is a section
// heading; a node with Children is a group; a node with To links to a named
// route. Title-only leaves are placeholders for screens that do not exist
// yet.
type Node struct {
	Heading    string `json:"heading,omitempty"`
	Title      string `json:"title,omitempty"`
	Icon       *Icon  `json:"icon,omitempty"`
	To         string `json:"to,omitempty"`
	BadgeClass string `json:"badgeClass,omitempty"`
	Children   []Node `json:"children,omitempty"`
}

// IsHeading reports whether n is a section heading.
func (n Node) IsHeading() bool {
	return n.Heading != "" && n.Title == ""
}

// IsGroup reports whether n has children.
func (n Node) IsGroup() bool {
	return len(n.Children) > 0
}

// Label is the display text of the node.
func (n Node) Label() string {
	if n.IsHeading() {
		return n.Heading
	}
	return n.Title
}

// Menus are the two layouts the console renders.
type Menus struct {
	Vertical   []Node `json:"vertical"`
	Horizontal []Node `json:"horizontal"`
}

// Layout returns the tree for name ("vertical" or "horizontal").
func (m *Menus) Layout(name string) ([]Node, bool) {
	switch name {
	case "", "vertical":
		return m.Vertical, true
	case "horizontal":
		return m.Horizontal, true
	default:
		return nil, false
	}
}

// Walk calls fn for every node depth-first with the titles of its
// ancestors.
func Walk(nodes []Node, fn func(n Node, parents []string)) {
	walk(nodes, nil, fn)
}

func walk(nodes []Node, parents []string, fn func(Node, []string)) {
	for _, n := range nodes {
		fn(n, parents)
		if len(n.Children) > 0 {
			walk(n.Children, append(parents[:len(parents):len(parents)], n.Label()), fn)
		}
	}
}

func icon(name string) *Icon {
	return &Icon{Icon: name}
}
