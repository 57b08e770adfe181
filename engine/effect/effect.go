package effect

import (
	"errors"

	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/pass"
)

// ErrInvalidEffect is wrapped by every effect decoding and validation failure.
var ErrInvalidEffect = errors.New("invalid effect")

// effect is the implementation of the Effect interface.
type effect struct {
	name   string
	path   string
	files  []string
	passes []pass.Pass
}

// Effect is a named, ordered list of passes loaded from an effect file.
type Effect interface {
	// Name returns the effect name.
	//
	// Returns:
	//   - string: the effect name
	Name() string

	// Path returns the file the effect was loaded from, empty for a parsed effect.
	//
	// Returns:
	//   - string: the effect file path
	Path() string

	// Files returns the effect file and every shader file it references.
	//
	// Returns:
	//   - []string: the files the effect depends on
	Files() []string

	// Passes returns the passes in declaration order.
	//
	// Returns:
	//   - []pass.Pass: the passes
	Passes() []pass.Pass

	// Pass returns the pass with the given name.
	//
	// Parameters:
	//   - name: the pass name
	//
	// Returns:
	//   - pass.Pass: the pass
	//   - bool: true if the effect has such a pass
	Pass(name string) (pass.Pass, bool)
}

var _ Effect = &effect{}

func (e *effect) Name() string {
	return e.name
}

func (e *effect) Path() string {
	return e.path
}

func (e *effect) Files() []string {
	return e.files
}

func (e *effect) Passes() []pass.Pass {
	return e.passes
}

func (e *effect) Pass(name string) (pass.Pass, bool) {
	for _, p := range e.passes {
		if p.Name() == name {
			return p, true
		}
	}
	return nil, false
}
