package program

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreProcessorBranches(t *testing.T) {
	src := `a
#ifdef FOG
fog
#else
nofog
#endif
#ifndef SKIN
noskin
#endif
#if NUM_LIGHTS
lights NUM_LIGHTS
#elif defined(FALLBACK)
fallback
#else
dark
#endif
#if 0
never
#endif
z`

	tests := []struct {
		name    string
		defines string
		want    string
	}{
		{"none", "", "a\nnofog\nnoskin\ndark\nz"},
		{"fog and lights", "#define FOG\n#define NUM_LIGHTS 3\n", "a\nfog\nnoskin\nlights 3\nz"},
		{"zero lights falls through", "#define NUM_LIGHTS 0\n#define FALLBACK\n#define SKIN\n", "a\nnofog\nfallback\nz"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := NewPreProcessor().Process(tt.defines, src)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestPreProcessorNesting(t *testing.T) {
	src := `#ifdef A
#ifdef B
ab
#else
a
#endif
#else
#ifdef B
b
#endif
#endif`

	pp := NewPreProcessor()
	out, err := pp.Process("#define A\n", src)
	require.NoError(t, err)
	assert.Equal(t, "a", out)

	out, err = pp.Process("#define B\n", src)
	require.NoError(t, err)
	assert.Equal(t, "b", out)
	assert.Equal(t, map[string]string{"B": ""}, pp.Macros())
}

func TestPreProcessorDefineAndUndef(t *testing.T) {
	src := `#define SIZE 4
#undef DEBUG
#ifdef DEBUG
debug
#endif
array<f32, SIZE>`

	out, err := NewPreProcessor().Process("#define DEBUG\n", src)
	require.NoError(t, err)
	assert.Equal(t, "array<f32, 4>", out)
}

func TestPreProcessorErrors(t *testing.T) {
	for name, src := range map[string]string{
		"unterminated":    "#ifdef A\nx",
		"stray endif":     "#endif",
		"stray else":      "#else",
		"else twice":      "#ifdef A\n#else\n#else\n#endif",
		"elif after else": "#ifdef A\n#else\n#elif B\n#endif",
		"unknown":         "#pragma once",
		"bad if value":    "#define A x\n#if A\n#endif",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := NewPreProcessor().Process("", src)
			assert.ErrorIs(t, err, ErrPreProcess)
		})
	}
}
