package navigation

// Vertical is the sidebar menu.
func Vertical() []Node {
	var nodes []Node
	nodes = append(nodes, dashboards()...)
	nodes = append(nodes, webApps()...)
	nodes = append(nodes, loyaltySystem()...)
	nodes = append(nodes, settings()...)
	return nodes
}

func dashboards() []Node {
	return []Node{
		{
			Title: "Dashboards",
			Icon:  icon("tabler-smart-home"),
			Children: []Node{
				{Title: "Waiting Approval", To: "dashboards-waiting-approval"},
				{Title: "Reviews"},
				{Title: "Weddings"},
			},
			BadgeClass: "bg-primary",
		},
	}
}

func webApps() []Node {
	return []Node{
		{Heading: "Web Apps"},
		{
			Title: "Leads",
			Icon:  icon("tabler-headset"),
			Children: []Node{
				{Title: "Priority"},
				{Title: "Grade A"},
				{Title: "Grade B"},
				{Title: "Grade C"},
				{Title: "No Grade"},
				{Title: "Catering"},
				{Title: "WO & EO"},
			},
		},
		{
			Title: "Vendors",
			Icon:  icon("tabler-clipboard-check"),
			Children: []Node{
				{Title: "Vendor List", To: "vendors-list"},
				{Title: "Limit Settings", To: "vendors-limit"},
				{Title: "Grade Settings", To: "vendors-grade"},
			},
		},
		{
			Title: "Products",
			Icon:  icon("tabler-box"),
			Children: []Node{
				{Title: "List", To: "products-list"},
				{Title: "Add-on", To: "products-add-on"},
				{Title: "Checklist Item", To: "products-checklist-item"},
			},
		},
		{
			Title: "Employee",
			Icon:  icon("tabler-users"),
			Children: []Node{
				{Title: "List", To: "employee-list"},
				{Title: "Department", To: "employee-department"},
				{Title: "Position", To: "employee-position"},
				{Title: "Teams", To: "employee-team"},
				{Title: "Allowance", To: "employee-allowance"},
			},
		},
		{
			Title: "Attendance",
			Icon:  icon("tabler-alarm"),
			Children: []Node{
				{Title: "Summary", To: "attendance-summary"},
				{Title: "Attendance", To: "attendance-form"},
			},
		},
		{
			Title: "Loan Management",
			Icon:  icon("tabler-wallet"),
			Children: []Node{
				{Title: "Request Loan"},
				{Title: "Personal Loan"},
				{Title: "Team Loan"},
			},
		},
		{
			Title: "Payroll",
			Icon:  icon("tabler-brand-cashapp"),
			Children: []Node{
				{Title: "Summary"},
				{Title: "Allowance"},
				{Title: "Office Dept"},
				{Title: "Operational Dept"},
			},
		},
		{
			Title:    "Users",
			Icon:     icon("tabler-users"),
			Children: []Node{{Title: "List", To: "users-list"}},
		},
		{
			Title:    "Roles & Permissions",
			Icon:     icon("tabler-settings"),
			Children: []Node{{Title: "List", To: "roles-permissions-list"}},
		},
	}
}

func loyaltySystem() []Node {
	return []Node{
		{Heading: "Loyalty System"},
		{
			Title: "Vendor Membership",
			Icon:  icon("tabler-award"),
			Children: []Node{
				{Title: "Level Settings", To: "vendor-membership-level-settings"},
				{Title: "Membership Benefit"},
			},
		},
		{
			Title: "Employee Rank",
			Icon:  icon("tabler-medal"),
			Children: []Node{
				{Title: "Benefit", To: "employee-rank-rank-settings"},
			},
		},
		{
			Title: "Rewards & Redeem",
			Icon:  icon("tabler-gift"),
			Children: []Node{
				{Title: "Vendor Rewards"},
				{Title: "Vendor Redemption"},
				{Title: "Employee Rewards"},
				{Title: "Employee Redemption"},
			},
		},
	}
}

func settings() []Node {
	return []Node{
		{Heading: "Settings"},
		{
			Title: "Settings",
			Icon:  icon("tabler-adjustments"),
			Children: []Node{
				{Title: "Bank Account", To: "settings-bank-account"},
				{Title: "Installment", To: "settings-installment"},
				{Title: "Sales", To: "settings-sales"},
				{Title: "Vehicle", To: "settings-vehicle"},
			},
		},
	}
}
