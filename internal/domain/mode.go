package domain

import (
	"fmt"
	"strings"
)

type AccessMode string

func (m AccessMode) String() string {
	return string(m)
}

const (
	AccessModeBackend  AccessMode = "backend"  // server returns authorized menus only
	AccessModeFrontend AccessMode = "frontend" // static routes filtered by roles client-side
)

func ParseAccessMode(s string) (AccessMode, error) {
	switch AccessMode(strings.ToLower(strings.TrimSpace(s))) {
	case AccessModeBackend:
		return AccessModeBackend, nil
	case AccessModeFrontend:
		return AccessModeFrontend, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownAccessMode, s)
	}
}
