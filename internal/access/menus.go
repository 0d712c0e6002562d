package access

import (
	"admin/access/internal/domain"
	"admin/access/internal/tree"
)

// RouteTable exposes the routes registered with a router.
type RouteTable interface {
	GetRoutes() []domain.RouteRecord
}

// GenerateMenus derives the display menu from routes that have already been
// registered with router, so menu paths follow the router's nested path
// resolution. Siblings are ordered by meta order (missing order sorts as
// domain.DefaultMenuOrder) and hidden entries without visible descendants
// are dropped.
func GenerateMenus(routes []domain.RouteNode, router RouteTable) []domain.MenuDisplayNode {
	finalPaths := make(map[string]string)
	for _, rec := range router.GetRoutes() {
		if rec.Name != "" {
			finalPaths[rec.Name] = rec.Path
		}
	}

	menus := buildMenus(routes, finalPaths, "", nil)
	menus = tree.SortStable(menus, func(a, b domain.MenuDisplayNode) bool {
		return menuOrder(a) < menuOrder(b)
	})

	return tree.Filter(menus, func(menu domain.MenuDisplayNode) bool {
		return menu.Show
	})
}

func buildMenus(routes []domain.RouteNode, finalPaths map[string]string, parent string, parents []string) []domain.MenuDisplayNode {
	menus := make([]domain.MenuDisplayNode, 0, len(routes))
	for _, route := range routes {
		menus = append(menus, buildMenu(route, finalPaths, parent, parents))
	}
	return menus
}

func buildMenu(route domain.RouteNode, finalPaths map[string]string, parent string, parents []string) domain.MenuDisplayNode {
	meta := route.Meta

	path, ok := finalPaths[route.Name]
	if !ok {
		path = route.Path
	}

	name := meta.Title
	if name == "" {
		name = route.Name
	}

	menu := domain.MenuDisplayNode{
		Name:          name,
		Icon:          meta.Icon,
		ActiveIcon:    meta.ActiveIcon,
		Badge:         meta.Badge,
		BadgeType:     meta.BadgeType,
		BadgeVariants: meta.BadgeVariants,
		Order:         meta.Order,
		Parent:        parent,
		Parents:       parents,
		Show:          !meta.HideInMenu,
		Children:      []domain.MenuDisplayNode{},
	}

	if meta.HideChildrenInMenu {
		menu.Path = firstNonEmpty(route.Redirect, path)
		return menu
	}

	menu.Path = firstNonEmpty(meta.Link, path)
	if len(route.Children) > 0 {
		chain := make([]string, 0, len(parents)+1)
		chain = append(chain, parents...)
		chain = append(chain, path)
		menu.Children = buildMenus(route.Children, finalPaths, path, chain)
	}
	return menu
}

// FindMenuByPath returns the first menu entry, in pre-order, whose path is path.
func FindMenuByPath(menus []domain.MenuDisplayNode, path string) (domain.MenuDisplayNode, bool) {
	return tree.Find(menus, func(menu domain.MenuDisplayNode) bool {
		return menu.Path == path
	})
}

func menuOrder(menu domain.MenuDisplayNode) int {
	if menu.Order == nil {
		return domain.DefaultMenuOrder
	}
	return *menu.Order
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
