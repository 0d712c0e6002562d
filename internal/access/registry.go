package access

import (
	"fmt"
	"io/fs"
	"path"
	"regexp"
	"sort"
	"strings"

	"admin/access/internal/domain"
)

const (
	// LayoutTag is the component tag menu sources use for the basic layout.
	LayoutTag = "LAYOUT"

	DefaultLayout        = "BasicLayout"
	DefaultFallbackPage  = "/_core/fallback/not-found.vue"
	DefaultForbiddenPage = "/_core/fallback/forbidden.vue"

	pageSuffix = ".vue"
)

var relativePrefix = regexp.MustCompile(`^(\./|\.\./)+`)

// Registries resolves component references declared on menu nodes.
type Registries struct {
	layouts  map[string]domain.ComponentRef
	pages    map[string]domain.ComponentRef
	fallback domain.ComponentRef
}

// NewRegistries builds the layout registry from tag → layout name pairs and
// the page registry from page module paths. Page paths are normalized the
// same way component references are, so "../views/demo/index.vue" and
// "/demo/index.vue" name the same page.
func NewRegistries(layouts map[string]string, pages []string, fallbackPage string) *Registries {
	r := &Registries{
		layouts: make(map[string]domain.ComponentRef, len(layouts)),
		pages:   make(map[string]domain.ComponentRef, len(pages)),
	}

	for tag, name := range layouts {
		r.layouts[tag] = domain.Layout(name)
	}

	for _, page := range pages {
		key := pageKey(page)
		r.pages[key] = domain.Page(key)
	}

	if fallbackPage == "" {
		fallbackPage = DefaultFallbackPage
	}
	r.fallback = domain.Fallback(pageKey(fallbackPage))

	return r
}

// DefaultLayouts maps LayoutTag to DefaultLayout.
func DefaultLayouts() map[string]string {
	return map[string]string{LayoutTag: DefaultLayout}
}

// Fallback is the page substituted for unresolved references.
func (r *Registries) Fallback() domain.ComponentRef {
	return r.fallback
}

// Pages lists the normalized page registry keys, sorted.
func (r *Registries) Pages() []string {
	keys := make([]string, 0, len(r.pages))
	for key := range r.pages {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Resolve maps a declared component reference to a component. An empty
// reference resolves to the zero ComponentRef.
func (r *Registries) Resolve(component string) (domain.ComponentRef, error) {
	if component == "" {
		return domain.ComponentRef{}, nil
	}

	if layout, ok := r.layouts[component]; ok {
		return layout, nil
	}

	key := pageKey(component)
	if page, ok := r.pages[key]; ok {
		return page, nil
	}

	return domain.ComponentRef{}, &domain.ResolutionError{Component: component, Key: key}
}

// NormalizeViewPath strips leading relative markers, forces a leading slash
// and drops the views root directory.
func NormalizeViewPath(p string) string {
	p = relativePrefix.ReplaceAllString(p, "")
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if p == "/views" {
		return "/"
	}
	if strings.HasPrefix(p, "/views/") {
		return p[len("/views"):]
	}
	return p
}

func pageKey(component string) string {
	key := NormalizeViewPath(component)
	if !strings.HasSuffix(key, pageSuffix) {
		key += pageSuffix
	}
	return key
}

// ScanPages lists every page module below root in fsys, as paths relative
// to root.
func ScanPages(fsys fs.FS, root string) ([]string, error) {
	if root == "" {
		root = "."
	}

	var pages []string
	err := fs.WalkDir(fsys, root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || path.Ext(p) != pageSuffix {
			return nil
		}
		rel := p
		if root != "." {
			rel = strings.TrimPrefix(p, root+"/")
		}
		pages = append(pages, "/"+rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan pages in %s: %w", root, err)
	}

	sort.Strings(pages)
	return pages, nil
}

// ForbiddenPage builds the component shown in place of routes the user may
// see in the menu but not open. An empty page uses DefaultForbiddenPage.
func ForbiddenPage(page string) domain.ComponentRef {
	if page == "" {
		page = DefaultForbiddenPage
	}
	return domain.Forbidden(pageKey(page))
}
