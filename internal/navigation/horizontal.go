package navigation

// Horizontal is the top-bar menu.
func Horizontal() []Node {
	return []Node{
		{
			Title: "Dashboards",
			Icon:  icon("tabler-smart-home"),
			Children: []Node{
				{Title: "Waiting Approval", To: "dashboards-waiting-approval", Icon: icon("tabler-chart-pie-2")},
				// the reviews and weddings screens are not routed yet; Check reports both
				{Title: "Reviews", To: "dashboards-reviewsssssss", Icon: icon("tabler-atom-2")},
				{Title: "Weddings", To: "dashboards-wedding", Icon: icon("tabler-3d-cube-sphere")},
			},
		},
	}
}

// Default returns fresh copies of both built-in layouts.
func Default() *Menus {
	return &Menus{Vertical: Vertical(), Horizontal: Horizontal()}
}
