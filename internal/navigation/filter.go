package navigation

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-bexpr"
)

// Filter keeps the nodes matching a go-bexpr expression, e.g.
//
//	to matches "^vendors-"
//	title == "Users" or parent == "Settings"
//
// Fields available to the expression: title, heading, to, icon, badge,
// parent (title of the enclosing group) and depth. A matching group keeps
// all of its children; a non-matching group survives when one of its
// descendants matches. An empty expression returns nodes unchanged.
func Filter(nodes []Node, expr string) ([]Node, error) {
	if strings.TrimSpace(expr) == "" {
		return nodes, nil
	}

	evaluator, err := bexpr.CreateEvaluator(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid navigation filter: %w", err)
	}

	f := &filter{evaluator: evaluator}
	out := f.level(nodes, "", 0)
	if f.err != nil {
		return nil, fmt.Errorf("evaluate navigation filter: %w", f.err)
	}
	return out, nil
}

type filter struct {
	evaluator *bexpr.Evaluator
	err       error
}

func (f *filter) level(nodes []Node, parent string, depth int) []Node {
	var s section
	for _, n := range nodes {
		switch {
		case n.IsHeading():
			s.heading(n)
			if f.match(n, parent, depth) {
				s.used = true
			}
		case f.match(n, parent, depth):
			s.add(n)
		case n.IsGroup():
			if children := f.level(n.Children, n.Label(), depth+1); len(children) > 0 {
				n.Children = children
				s.add(n)
			}
		}
	}
	return s.nodes()
}

func (f *filter) match(n Node, parent string, depth int) bool {
	ok, err := f.evaluator.Evaluate(fields(n, parent, depth))
	if err != nil {
		if f.err == nil {
			f.err = err
		}
		return false
	}
	return ok
}

func fields(n Node, parent string, depth int) map[string]any {
	iconName := ""
	if n.Icon != nil {
		iconName = n.Icon.Icon
	}
	return map[string]any{
		"title":   n.Title,
		"heading": n.Heading,
		"to":      n.To,
		"icon":    iconName,
		"badge":   n.BadgeClass,
		"parent":  parent,
		"depth":   depth,
	}
}
