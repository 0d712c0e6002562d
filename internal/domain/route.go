package domain

// RouteNode is the router-facing representation of a menu node, with its
// component resolved against the registries.
type RouteNode struct {
	Name      string       `json:"name"`
	Path      string       `json:"path"`
	Component ComponentRef `json:"component"`
	Redirect  string       `json:"redirect,omitempty"`
	Meta      Meta         `json:"meta"`
	Children  []RouteNode  `json:"children,omitempty"`
}

func (r RouteNode) GetChildren() []RouteNode {
	return r.Children
}

func (r RouteNode) WithChildren(children []RouteNode) RouteNode {
	r.Children = children
	return r
}

// RouteRecord is a flattened route as registered in the router, with the
// final path after nested path resolution.
type RouteRecord struct {
	Name string `json:"name"`
	Path string `json:"path"`
}
