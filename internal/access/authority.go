package access

import (
	"admin/access/internal/domain"
	"admin/access/internal/tree"
)

// HasAnyRole reports whether granted shares at least one role with required.
func HasAnyRole(required, granted []string) bool {
	set := make(map[string]struct{}, len(granted))
	for _, role := range granted {
		set[role] = struct{}{}
	}
	for _, role := range required {
		if _, ok := set[role]; ok {
			return true
		}
	}
	return false
}

// HasAnyCode is HasAnyRole for permission codes.
func HasAnyCode(required, granted []string) bool {
	return HasAnyRole(required, granted)
}

// HasAuthority reports whether roles may open route. Routes without an
// authority requirement are open to everyone.
func HasAuthority(route domain.RouteNode, roles []string) bool {
	if !route.Meta.HasAuthority() {
		return true
	}
	return HasAnyRole(route.Meta.Authority, roles)
}

// MenuVisibleWithForbidden reports whether route stays in the menu for users
// lacking its authority. Only routes with an authority requirement qualify.
func MenuVisibleWithForbidden(route domain.RouteNode) bool {
	return route.Meta.HasAuthority() && route.Meta.MenuVisibleWithForbidden
}

// FilterByRoles prunes routes the roles cannot access. A route flagged
// menuVisibleWithForbidden is kept with its component replaced by forbidden;
// with a zero forbidden component such routes are pruned like any other.
// Branches survive when any descendant does.
func FilterByRoles(routes []domain.RouteNode, roles []string, forbidden domain.ComponentRef) []domain.RouteNode {
	canShowForbidden := !forbidden.IsZero()

	filtered := tree.Filter(routes, func(route domain.RouteNode) bool {
		if HasAuthority(route, roles) {
			return true
		}
		return canShowForbidden && MenuVisibleWithForbidden(route)
	})

	if !canShowForbidden {
		return filtered
	}

	return tree.Map(filtered, func(route domain.RouteNode) domain.RouteNode {
		if !HasAuthority(route, roles) && MenuVisibleWithForbidden(route) {
			route.Component = forbidden
		}
		return route
	})
}
