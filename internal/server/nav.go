package server

// NavItem is one drawer menu entry. Icon is a Material icon name.
type NavItem struct {
	Label  string
	Icon   string
	Path   string
	Active bool
}

var menu = []NavItem{
	{Label: "Seasonality", Icon: "analytics", Path: "/seasonality"},
	{Label: "Markets", Icon: "trending_up", Path: "/markets"},
	{Label: "Analysis", Icon: "show_chart", Path: "/analysis"},
	{Label: "Settings", Icon: "settings", Path: "/settings"},
}

// Menu returns the drawer entries with the one matching path marked active.
// The root path counts as the seasonality view.
func Menu(path string) []NavItem {
	if path == "/" {
		path = "/seasonality"
	}
	items := make([]NavItem, len(menu))
	for i, it := range menu {
		it.Active = it.Path == path
		items[i] = it
	}
	return items
}
