package access

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"admin/access/internal/domain"
	"admin/access/internal/metric"
	"admin/access/internal/tree"
)

// Router is the routing engine the generator registers routes with.
type Router interface {
	RouteTable
	HasRoute(name string) bool
	AddRoute(route domain.RouteNode)
}

// MenuFetcher supplies the menu tree in backend mode.
type MenuFetcher interface {
	FetchMenus(ctx context.Context) ([]domain.MenuNode, error)
}

// MenuFetcherFunc adapts a function to MenuFetcher.
type MenuFetcherFunc func(ctx context.Context) ([]domain.MenuNode, error)

func (f MenuFetcherFunc) FetchMenus(ctx context.Context) ([]domain.MenuNode, error) {
	return f(ctx)
}

// StaticMenus is a MenuFetcher serving a fixed menu tree.
type StaticMenus []domain.MenuNode

func (s StaticMenus) FetchMenus(context.Context) ([]domain.MenuNode, error) {
	return s, nil
}

// Options configures a Generator.
type Options struct {
	Converter *Converter
	Fetcher   MenuFetcher        // backend mode menu source
	Routes    []domain.RouteNode // frontend mode static route tree
	Forbidden domain.ComponentRef
	Logger    log.FieldLogger
	Metrics   *metric.Metrics
}

// Generator owns everything one access-generation cycle needs except the
// router, which belongs to the session being served.
type Generator struct {
	converter *Converter
	fetcher   MenuFetcher
	routes    []domain.RouteNode
	forbidden domain.ComponentRef
	logger    log.FieldLogger
	metrics   *metric.Metrics
}

func NewGenerator(opts Options) *Generator {
	logger := opts.Logger
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &Generator{
		converter: opts.Converter,
		fetcher:   opts.Fetcher,
		routes:    opts.Routes,
		forbidden: opts.Forbidden,
		logger:    logger,
		metrics:   opts.Metrics,
	}
}

// Generate builds the accessible routes for mode, registers each top-level
// route with router and derives the menus from the registered table.
//
// A failing menu fetch is returned wrapped in domain.ErrMenuFetch and nothing
// is registered. An empty menu result is not an error.
func (g *Generator) Generate(ctx context.Context, router Router, mode domain.AccessMode, roles []string) (*domain.Access, error) {
	logger := g.logger.WithFields(log.Fields{
		"cycle_id": uuid.NewString(),
		"mode":     mode.String(),
	})

	routes, err := g.generateRoutes(ctx, mode, roles)
	if err != nil {
		logger.WithError(err).Error("❌ Failed to generate routes")
		g.metrics.Generation(mode.String(), metric.ResultError)
		return nil, err
	}

	if len(routes) == 0 {
		logger.Warn("⚠️ No accessible routes generated")
		g.metrics.Generation(mode.String(), metric.ResultEmpty)
		return domain.EmptyAccess(), nil
	}

	routes = tree.Map(routes, redirectToFirstChild)

	for _, route := range routes {
		if route.Name != "" && router.HasRoute(route.Name) {
			logger.WithField("route", route.Name).Warn("⚠️ Generated route replaces a registered route")
		}
		router.AddRoute(route)
	}

	menus := GenerateMenus(routes, router)

	logger.WithFields(log.Fields{
		"routes": len(tree.Flatten(routes)),
		"menus":  len(tree.Flatten(menus)),
	}).Info("✅ Access generated")
	g.metrics.Generation(mode.String(), metric.ResultSuccess)

	return &domain.Access{
		Menus:  menus,
		Routes: routes,
	}, nil
}

func (g *Generator) generateRoutes(ctx context.Context, mode domain.AccessMode, roles []string) ([]domain.RouteNode, error) {
	switch mode {
	case domain.AccessModeBackend:
		if g.fetcher == nil {
			return nil, fmt.Errorf("%w: no menu source configured", domain.ErrMenuFetch)
		}
		if g.converter == nil {
			return nil, fmt.Errorf("backend mode requires a route converter")
		}

		menus, err := g.fetcher.FetchMenus(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrMenuFetch, err)
		}
		if len(menus) == 0 {
			return nil, nil
		}
		return g.converter.ConvertRoutes(menus), nil

	case domain.AccessModeFrontend:
		return FilterByRoles(g.routes, roles, g.forbidden), nil

	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownAccessMode, mode)
	}
}

// redirectToFirstChild points a route without a redirect at its first child
// when that child declares an absolute path. Relative child paths would need
// every ancestor's path to resolve and are left alone.
func redirectToFirstChild(route domain.RouteNode) domain.RouteNode {
	if route.Redirect != "" || len(route.Children) == 0 {
		return route
	}

	first := route.Children[0]
	if !strings.HasPrefix(first.Path, "/") {
		return route
	}

	route.Redirect = first.Path
	return route
}
