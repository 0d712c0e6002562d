package access

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"admin/access/internal/domain"
)

// LoadMenuFile reads a statically declared menu tree from a YAML file.
func LoadMenuFile(path string) ([]domain.MenuNode, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read routes file: %w", err)
	}

	menus, err := ParseMenus(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse routes file %s: %w", path, err)
	}
	return menus, nil
}

// ParseMenus decodes a YAML list of menu nodes. Unknown fields are rejected
// so typos in meta keys do not silently disable a flag.
func ParseMenus(data []byte) ([]domain.MenuNode, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var menus []domain.MenuNode
	if err := dec.Decode(&menus); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return menus, nil
}
