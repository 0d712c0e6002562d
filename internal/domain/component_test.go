package domain

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComponentRef_JSON(t *testing.T) {
	data, err := json.Marshal(RouteNode{Name: "Demo", Path: "/demo", Component: Page("/demo/index.vue")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Demo","path":"/demo","component":{"kind":"page","name":"/demo/index.vue"},"meta":{"authority":null}}`, string(data))

	var back RouteNode
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, Page("/demo/index.vue"), back.Component)

	data, err = json.Marshal(RouteNode{Path: "/", Redirect: "/demo"})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"component":null`)

	require.NoError(t, json.Unmarshal(data, &back))
	assert.True(t, back.Component.IsZero())
}

func TestComponentKind_UnmarshalUnknown(t *testing.T) {
	var k ComponentKind
	assert.Error(t, k.UnmarshalText([]byte("widget")))
}

func TestMeta_SortOrder(t *testing.T) {
	assert.Equal(t, DefaultMenuOrder, Meta{}.SortOrder())
	assert.Equal(t, 0, Meta{Order: IntPtr(0)}.SortOrder())
}

func TestParseAccessMode(t *testing.T) {
	mode, err := ParseAccessMode(" Frontend ")
	require.NoError(t, err)
	assert.Equal(t, AccessModeFrontend, mode)

	_, err = ParseAccessMode("mixed")
	assert.True(t, errors.Is(err, ErrUnknownAccessMode))
}

func TestResolutionError_Unwrap(t *testing.T) {
	err := &ResolutionError{Component: "foo", Key: "/foo.vue"}
	assert.ErrorIs(t, err, ErrUnresolvedComponent)
	assert.Contains(t, err.Error(), "/foo.vue")
}
