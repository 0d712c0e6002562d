package access

import (
	"errors"

	log "github.com/sirupsen/logrus"

	"admin/access/internal/domain"
	"admin/access/internal/metric"
	"admin/access/internal/tree"
)

// Converter turns menu descriptors into routes. Conversion never fails as a
// whole: nameless routes are reported and kept, unresolved pages are
// reported and replaced by the fallback page.
type Converter struct {
	registries *Registries
	logger     log.FieldLogger
	metrics    *metric.Metrics
}

func NewConverter(registries *Registries, logger log.FieldLogger, metrics *metric.Metrics) *Converter {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &Converter{
		registries: registries,
		logger:     logger,
		metrics:    metrics,
	}
}

// ConvertRoutes converts a menu tree into a route tree, preserving order.
func (c *Converter) ConvertRoutes(menus []domain.MenuNode) []domain.RouteNode {
	return tree.Transform(menus, func(node domain.MenuNode, _ *domain.RouteNode) (domain.RouteNode, bool) {
		return c.convert(node), true
	})
}

func (c *Converter) convert(node domain.MenuNode) domain.RouteNode {
	fields := log.Fields{
		"name": node.Name,
		"path": node.Path,
	}

	if node.Name == "" {
		c.logger.WithError(domain.ErrMissingRouteName).WithFields(fields).Error("route name is required")
		c.metrics.ConversionFailure(metric.ReasonMissingName)
	}

	component, err := c.registries.Resolve(node.Component)
	if err != nil {
		var resolveErr *domain.ResolutionError
		if errors.As(err, &resolveErr) {
			fields["page_key"] = resolveErr.Key
		}
		c.logger.WithError(err).WithFields(fields).Error("route component is invalid, using fallback page")
		c.metrics.ConversionFailure(metric.ReasonUnresolvedComponent)
		component = c.registries.Fallback()
	}

	return domain.RouteNode{
		Name:      node.Name,
		Path:      node.Path,
		Component: component,
		Redirect:  node.Redirect,
		Meta:      node.Meta,
	}
}
