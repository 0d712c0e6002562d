package router

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"admin/access/internal/domain"
)

func TestJoinPath(t *testing.T) {
	tests := []struct {
		parent, path, expected string
	}{
		{"", "/demo", "/demo"},
		{"", "demo", "/demo"},
		{"/demo", "index", "/demo/index"},
		{"/demo/", "index", "/demo/index"},
		{"/", "center", "/center"},
		{"/demo", "/experimental/table", "/experimental/table"},
		{"/demo", "", "/demo"},
	}

	for _, tt := range tests {
		t.Run(tt.parent+"|"+tt.path, func(t *testing.T) {
			assert.Equal(t, tt.expected, JoinPath(tt.parent, tt.path))
		})
	}
}

func TestRouter_AddRouteResolvesNestedPaths(t *testing.T) {
	r := New(domain.RouteNode{Name: "Login", Path: "/login"})
	r.AddRoute(domain.RouteNode{
		Name: "Demos",
		Path: "/demo",
		Children: []domain.RouteNode{
			{Name: "Demo", Path: "index"},
			{Name: "Table", Path: "/experimental/table"},
		},
	})

	assert.Equal(t, []domain.RouteRecord{
		{Name: "Login", Path: "/login"},
		{Name: "Demos", Path: "/demo"},
		{Name: "Demo", Path: "/demo/index"},
		{Name: "Table", Path: "/experimental/table"},
	}, r.GetRoutes())
}

func TestRouter_ReAddReplaces(t *testing.T) {
	r := New()
	r.AddRoute(domain.RouteNode{Name: "Demos", Path: "/demo", Children: []domain.RouteNode{{Name: "Old", Path: "old"}}})
	r.AddRoute(domain.RouteNode{Name: "Demos", Path: "/demos", Children: []domain.RouteNode{{Name: "New", Path: "new"}}})

	assert.Equal(t, []domain.RouteRecord{
		{Name: "Demos", Path: "/demos"},
		{Name: "New", Path: "/demos/new"},
	}, r.GetRoutes())
	assert.False(t, r.HasRoute("Old"))
}

func TestRouter_RemoveAndReset(t *testing.T) {
	r := New(domain.RouteNode{Name: "Login", Path: "/login"})
	r.AddRoute(domain.RouteNode{Name: "Demos", Path: "/demo", Children: []domain.RouteNode{{Name: "Demo", Path: "index"}}})

	assert.True(t, r.HasRoute("Demo"))
	assert.True(t, r.removeRoute("Demos"))
	assert.False(t, r.HasRoute("Demo"))
	assert.False(t, r.removeRoute("Demos"))
	assert.False(t, r.removeRoute(""))

	r.AddRoute(domain.RouteNode{Name: "Other", Path: "/other"})
	r.Reset()
	assert.Equal(t, []domain.RouteRecord{{Name: "Login", Path: "/login"}}, r.GetRoutes())
}

func TestRouter_UnnamedRoutes(t *testing.T) {
	r := New(domain.RouteNode{Path: "/", Redirect: "/demo"})
	r.AddRoute(domain.RouteNode{Path: "/x"})

	assert.Equal(t, []domain.RouteRecord{{Path: "/"}, {Path: "/x"}}, r.GetRoutes())
}
