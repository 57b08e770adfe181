package effect

import (
	"github.com/Carmen-Shannon/oxy-bind/common"
	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/pass"
)

// loader holds the options of one Load or Parse call.
type loader struct {
	baseDir       string
	textureLoader func(common.Image) (uint32, error)
	passOptions   []pass.PassBuilderOption
}

// LoaderOption is a functional option for Load and Parse.
type LoaderOption func(l *loader)

// WithBaseDir sets the directory shader paths and texture paths are resolved against. Load
// defaults it to the directory of the effect file.
//
// Parameters:
//   - dir: the base directory
//
// Returns:
//   - LoaderOption: option function to apply
func WithBaseDir(dir string) LoaderOption {
	return func(l *loader) {
		l.baseDir = dir
	}
}

// WithTextureLoader lets texture defaults name an image file. The decoded image is handed to fn,
// typically the renderer's texture creation, and the returned id becomes the default value.
//
// Parameters:
//   - fn: creates a texture from decoded pixels
//
// Returns:
//   - LoaderOption: option function to apply
func WithTextureLoader(fn func(common.Image) (uint32, error)) LoaderOption {
	return func(l *loader) {
		l.textureLoader = fn
	}
}

// WithPassOptions appends options applied to every pass after the options read from the file.
//
// Parameters:
//   - options: the pass options
//
// Returns:
//   - LoaderOption: option function to apply
func WithPassOptions(options ...pass.PassBuilderOption) LoaderOption {
	return func(l *loader) {
		l.passOptions = append(l.passOptions, options...)
	}
}
