package domain

// MenuNode is a menu descriptor as delivered by a menu source (backend API,
// database or a static routes file). Component is either a layout tag or a
// page module path.
type MenuNode struct {
	Name      string     `json:"name" yaml:"name"`
	Path      string     `json:"path" yaml:"path"`
	Component string     `json:"component,omitempty" yaml:"component,omitempty"`
	Redirect  string     `json:"redirect,omitempty" yaml:"redirect,omitempty"`
	Meta      Meta       `json:"meta" yaml:"meta"`
	Children  []MenuNode `json:"children,omitempty" yaml:"children,omitempty"`
}

func (n MenuNode) GetChildren() []MenuNode {
	return n.Children
}

func (n MenuNode) WithChildren(children []MenuNode) MenuNode {
	n.Children = children
	return n
}

// Meta holds the route meta shared by menu nodes and routes.
type Meta struct {
	Title         string `json:"title,omitempty" yaml:"title,omitempty"`
	Icon          string `json:"icon,omitempty" yaml:"icon,omitempty"`
	ActiveIcon    string `json:"activeIcon,omitempty" yaml:"activeIcon,omitempty"`
	Badge         string `json:"badge,omitempty" yaml:"badge,omitempty"`
	BadgeType     string `json:"badgeType,omitempty" yaml:"badgeType,omitempty"`         // dot | normal
	BadgeVariants string `json:"badgeVariants,omitempty" yaml:"badgeVariants,omitempty"` // color variant
	Link          string `json:"link,omitempty" yaml:"link,omitempty"`                   // external link opened instead of path
	Order         *int   `json:"order,omitempty" yaml:"order,omitempty"`                 // nil sorts as DefaultMenuOrder

	HideChildrenInMenu bool `json:"hideChildrenInMenu,omitempty" yaml:"hideChildrenInMenu,omitempty"`
	HideInMenu         bool `json:"hideInMenu,omitempty" yaml:"hideInMenu,omitempty"`
	HideInBreadcrumb   bool `json:"hideInBreadcrumb,omitempty" yaml:"hideInBreadcrumb,omitempty"`
	HideInTab          bool `json:"hideInTab,omitempty" yaml:"hideInTab,omitempty"`

	// Authority lists the roles allowed to open the route. nil means the
	// route is public; an empty non-nil list admits nobody.
	Authority                []string `json:"authority" yaml:"authority,omitempty"`
	MenuVisibleWithForbidden bool     `json:"menuVisibleWithForbidden,omitempty" yaml:"menuVisibleWithForbidden,omitempty"`

	KeepAlive       bool `json:"keepAlive,omitempty" yaml:"keepAlive,omitempty"`
	AffixTab        bool `json:"affixTab,omitempty" yaml:"affixTab,omitempty"`
	MaxNumOfOpenTab int  `json:"maxNumOfOpenTab,omitempty" yaml:"maxNumOfOpenTab,omitempty"`
}

// DefaultMenuOrder is the sort weight of menu entries without an explicit order.
const DefaultMenuOrder = 999

// SortOrder returns the explicit order or DefaultMenuOrder.
func (m Meta) SortOrder() int {
	if m.Order == nil {
		return DefaultMenuOrder
	}
	return *m.Order
}

// HasAuthority reports whether the meta declares an authority requirement.
func (m Meta) HasAuthority() bool {
	return m.Authority != nil
}

// IntPtr is a small helper for building metas with an explicit order.
func IntPtr(v int) *int {
	return &v
}
