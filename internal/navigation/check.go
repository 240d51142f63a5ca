package navigation

import (
	"fmt"
	"strings"
)

// Problem is a menu link bound to a route name the router does not know.
type Problem struct {
	// Path is the chain of labels leading to the link.
	Path []string `json:"path"`
	To   string   `json:"to"`
}

func (p Problem) String() string {
	return fmt.Sprintf("%s -> %q: unknown route", strings.Join(p.Path, " / "), p.To)
}

// Check reports every link whose route name is rejected by known.
func Check(nodes []Node, known func(route string) bool) []Problem {
	var problems []Problem
	Walk(nodes, func(n Node, parents []string) {
		if n.To == "" || known(n.To) {
			return
		}
		path := append(append([]string(nil), parents...), n.Label())
		problems = append(problems, Problem{Path: path, To: n.To})
	})
	return problems
}

// Routes lists the distinct route names linked from nodes, in tree order.
func Routes(nodes []Node) []string {
	seen := map[string]bool{}
	var names []string
	Walk(nodes, func(n Node, _ []string) {
		if n.To != "" && !seen[n.To] {
			seen[n.To] = true
			names = append(names, n.To)
		}
	})
	return names
}
