package data

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePropertyName(t *testing.T) {
	vars := map[string]string{"geometryUuid": "42", "light": "sun"}

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"no placeholder", "material.diffuseColor", "material.diffuseColor"},
		{"single", "geometry[${geometryUuid}].indices", "geometry[42].indices"},
		{"multiple", "${light}.${geometryUuid}", "sun.42"},
		{"unknown kept", "geometry[${other}].indices", "geometry[${other}].indices"},
		{"unterminated", "geometry[${geometryUuid", "geometry[${geometryUuid"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolvePropertyName(tt.in, vars))
		})
	}

	assert.Equal(t, "a.${b}", ResolvePropertyName("a.${b}", nil))
}

func TestBindingMapOptions(t *testing.T) {
	m := NewBindingMap(
		WithBinding("diffuseColor", "material.diffuseColor", ScopeTarget),
		WithDefault("diffuseColor", [4]float32{1, 1, 1, 1}),
	)

	b, ok := m.Binding("diffuseColor")
	require.True(t, ok)
	assert.Equal(t, Binding{PropertyName: "material.diffuseColor", Scope: ScopeTarget}, b)
	assert.True(t, m.HasDefault("diffuseColor"))
	assert.False(t, m.HasDefault("other"))

	var nilMap *BindingMap
	_, ok = nilMap.Binding("diffuseColor")
	assert.False(t, ok)
	assert.False(t, nilMap.HasDefault("diffuseColor"))
}

func TestScopes(t *testing.T) {
	target, renderer, root := NewStore(), NewStore(), NewStore()
	scopes := Scopes{Target: target, Renderer: renderer, Root: root}

	assert.Same(t, target, scopes.Store(ScopeTarget))
	assert.Same(t, renderer, scopes.Store(ScopeRenderer))
	assert.Same(t, root, scopes.Store(ScopeRoot))
	assert.Nil(t, scopes.Store(Scope(9)))

	for _, s := range []Scope{ScopeTarget, ScopeRenderer, ScopeRoot} {
		parsed, err := ParseScope(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, parsed)
	}
	_, err := ParseScope("world")
	assert.Error(t, err)
}
