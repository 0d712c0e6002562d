package domain

// MenuDisplayNode is one entry of the navigation menu rendered by the UI.
type MenuDisplayNode struct {
	Name          string            `json:"name"`
	Icon          string            `json:"icon,omitempty"`
	ActiveIcon    string            `json:"activeIcon,omitempty"`
	Badge         string            `json:"badge,omitempty"`
	BadgeType     string            `json:"badgeType,omitempty"`
	BadgeVariants string            `json:"badgeVariants,omitempty"`
	Order         *int              `json:"order,omitempty"`
	Parent        string            `json:"parent,omitempty"`
	Parents       []string          `json:"parents,omitempty"` // ancestor paths, root first
	Path          string            `json:"path"`
	Show          bool              `json:"show"`
	Children      []MenuDisplayNode `json:"children"`
}

func (m MenuDisplayNode) GetChildren() []MenuDisplayNode {
	return m.Children
}

func (m MenuDisplayNode) WithChildren(children []MenuDisplayNode) MenuDisplayNode {
	m.Children = children
	return m
}

// Access is the outcome of one access-generation cycle.
type Access struct {
	Menus  []MenuDisplayNode `json:"accessibleMenus"`
	Routes []RouteNode       `json:"accessibleRoutes"`
}

// EmptyAccess returns an Access with non-nil, empty trees.
func EmptyAccess() *Access {
	return &Access{
		Menus:  []MenuDisplayNode{},
		Routes: []RouteNode{},
	}
}
