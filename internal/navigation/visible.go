package navigation

// Visible returns the part of the tree the user may see. canView decides
// for each link by route name; placeholders are asked about the empty name,
// which only wildcard abilities grant. Groups left without children
// disappear, and a heading disappears when nothing below it (up to the next
// heading) survives.
func Visible(nodes []Node, canView func(route string) bool) []Node {
	var b section
	for _, n := range nodes {
		switch {
		case n.IsHeading():
			b.heading(n)
		case n.IsGroup():
			if children := Visible(n.Children, canView); len(children) > 0 {
				n.Children = children
				b.add(n)
			}
		case canView(n.To):
			b.add(n)
		}
	}
	return b.nodes()
}

// section accumulates a pruned level, dropping headings that end up with
// no items under them.
type section struct {
	out     []Node
	pending int // index of the current heading in out
	used    bool
	started bool
}

func (s *section) heading(n Node) {
	s.closeHeading()
	s.out = append(s.out, n)
	s.pending = len(s.out) - 1
	s.used = false
	s.started = true
}

func (s *section) add(n Node) {
	s.out = append(s.out, n)
	s.used = true
}

func (s *section) closeHeading() {
	if s.started && !s.used {
		s.out = append(s.out[:s.pending], s.out[s.pending+1:]...)
	}
}

func (s *section) nodes() []Node {
	s.closeHeading()
	s.started = false
	if s.out == nil {
		return []Node{}
	}
	return s.out
}
