package domain

import (
	"encoding/json"
	"fmt"
)

type ComponentKind uint8

const (
	ComponentNone ComponentKind = iota
	ComponentLayout
	ComponentPage
	ComponentFallback
	ComponentForbidden
)

var componentKindNames = map[ComponentKind]string{
	ComponentNone:      "",
	ComponentLayout:    "layout",
	ComponentPage:      "page",
	ComponentFallback:  "fallback",
	ComponentForbidden: "forbidden",
}

func (k ComponentKind) String() string {
	return componentKindNames[k]
}

func (k ComponentKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *ComponentKind) UnmarshalText(text []byte) error {
	for kind, name := range componentKindNames {
		if name == string(text) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown component kind %q", string(text))
}

// ComponentRef identifies the component a route renders. The zero value
// means the route has no component of its own (e.g. a pure redirect).
type ComponentRef struct {
	Kind ComponentKind `json:"kind"`
	Name string        `json:"name"` // layout name or normalized page path
}

func Layout(name string) ComponentRef {
	return ComponentRef{Kind: ComponentLayout, Name: name}
}

func Page(path string) ComponentRef {
	return ComponentRef{Kind: ComponentPage, Name: path}
}

func Fallback(path string) ComponentRef {
	return ComponentRef{Kind: ComponentFallback, Name: path}
}

func Forbidden(path string) ComponentRef {
	return ComponentRef{Kind: ComponentForbidden, Name: path}
}

func (c ComponentRef) IsZero() bool {
	return c.Kind == ComponentNone
}

func (c ComponentRef) String() string {
	if c.IsZero() {
		return "<none>"
	}
	return c.Kind.String() + ":" + c.Name
}

// MarshalJSON renders a missing component as null.
func (c ComponentRef) MarshalJSON() ([]byte, error) {
	if c.IsZero() {
		return []byte("null"), nil
	}
	type plain ComponentRef
	return json.Marshal(plain(c))
}

func (c *ComponentRef) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*c = ComponentRef{}
		return nil
	}
	type plain ComponentRef
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*c = ComponentRef(p)
	return nil
}
