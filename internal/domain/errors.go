package domain

import (
	"errors"
	"fmt"
)

var (
	ErrMissingRouteName    = errors.New("route name is required")
	ErrUnresolvedComponent = errors.New("route component is invalid")
	ErrMenuFetch           = errors.New("failed to fetch menus")
	ErrUnknownAccessMode   = errors.New("unknown access mode")
	ErrSessionNotFound     = errors.New("session access not found")
)

// ResolutionError reports a component reference that matched neither the
// layout nor the page registry.
type ResolutionError struct {
	Component string // reference as declared on the menu node
	Key       string // normalized page registry key that was looked up
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("route component is invalid: %s (declared %q)", e.Key, e.Component)
}

func (e *ResolutionError) Unwrap() error {
	return ErrUnresolvedComponent
}
