package effect

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/Carmen-Shannon/oxy-bind/common"
	"github.com/Carmen-Shannon/oxy-bind/engine/data"
	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/drawcall"
	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/pass"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format selects the decoder of an effect file.
type Format int

const (
	FormatYAML Format = iota
	FormatTOML
)

// FormatOf returns the format matching the extension of path.
//
// Parameters:
//   - path: the effect file path
//
// Returns:
//   - Format: the decoder to use
//   - error: ErrInvalidEffect for an unknown extension
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	}
	return 0, fmt.Errorf("%w: %s: unknown extension", ErrInvalidEffect, path)
}

type effectFile struct {
	Name   string     `yaml:"name" toml:"name"`
	Passes []passFile `yaml:"passes" toml:"passes"`
}

type passFile struct {
	Name           string                 `yaml:"name" toml:"name"`
	Vertex         string                 `yaml:"vertex" toml:"vertex"`
	Fragment       string                 `yaml:"fragment" toml:"fragment"`
	VertexSource   string                 `yaml:"vertexSource" toml:"vertexSource"`
	FragmentSource string                 `yaml:"fragmentSource" toml:"fragmentSource"`
	Strict         bool                   `yaml:"strict" toml:"strict"`
	Macros         []macroFile            `yaml:"macros" toml:"macros"`
	Defines        map[string]int         `yaml:"defines" toml:"defines"`
	Undefines      []string               `yaml:"undefines" toml:"undefines"`
	Attributes     map[string]bindingFile `yaml:"attributes" toml:"attributes"`
	Uniforms       map[string]bindingFile `yaml:"uniforms" toml:"uniforms"`
	States         map[string]bindingFile `yaml:"states" toml:"states"`
	Defaults       map[string]defaultFile `yaml:"defaults" toml:"defaults"`
}

type macroFile struct {
	Name     string `yaml:"name" toml:"name"`
	Property string `yaml:"property" toml:"property"`
	Scope    string `yaml:"scope" toml:"scope"`
	Default  string `yaml:"default" toml:"default"`
	Value    int    `yaml:"value" toml:"value"`
	Min      *int   `yaml:"min" toml:"min"`
	Max      *int   `yaml:"max" toml:"max"`
}

type bindingFile struct {
	Property string `yaml:"property" toml:"property"`
	Scope    string `yaml:"scope" toml:"scope"`
}

type defaultFile struct {
	Type  string `yaml:"type" toml:"type"`
	Value any    `yaml:"value" toml:"value"`
}

// Load reads and builds the effect file at path. Shader and texture paths are relative to the
// directory of the file unless WithBaseDir says otherwise.
//
// Parameters:
//   - path: the .yaml, .yml or .toml effect file
//   - options: functional options configuring the load
//
// Returns:
//   - Effect: the loaded effect
//   - error: a read error or an error wrapping ErrInvalidEffect
func Load(path string, options ...LoaderOption) (Effect, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read effect %s: %w", path, err)
	}

	opts := append([]LoaderOption{WithBaseDir(filepath.Dir(path))}, options...)
	e, err := parse(raw, format, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	e.path = path
	e.files = append([]string{path}, e.files...)
	common.Logger().Debug("effect loaded", "path", path, "name", e.name, "passes", len(e.passes))
	return e, nil
}

// Parse builds an effect from an in-memory document.
//
// Parameters:
//   - raw: the encoded effect
//   - format: the decoder to use
//   - options: functional options configuring the load
//
// Returns:
//   - Effect: the parsed effect
//   - error: an error wrapping ErrInvalidEffect
func Parse(raw []byte, format Format, options ...LoaderOption) (Effect, error) {
	return parse(raw, format, options...)
}

func parse(raw []byte, format Format, options ...LoaderOption) (*effect, error) {
	l := &loader{}
	for _, opt := range options {
		opt(l)
	}

	var f effectFile
	var err error
	switch format {
	case FormatTOML:
		err = toml.NewDecoder(bytes.NewReader(raw)).DisallowUnknownFields().Decode(&f)
	default:
		dec := yaml.NewDecoder(bytes.NewReader(raw))
		dec.KnownFields(true)
		err = dec.Decode(&f)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEffect, err)
	}

	if f.Name == "" {
		return nil, fmt.Errorf("%w: missing name", ErrInvalidEffect)
	}
	if len(f.Passes) == 0 {
		return nil, fmt.Errorf("%w: effect %q has no passes", ErrInvalidEffect, f.Name)
	}

	e := &effect{name: f.Name}
	for i := range f.Passes {
		p, files, err := l.buildPass(&f.Passes[i])
		if err != nil {
			return nil, fmt.Errorf("effect %q: %w", f.Name, err)
		}
		for _, file := range files {
			if !slices.Contains(e.files, file) {
				e.files = append(e.files, file)
			}
		}
		e.passes = append(e.passes, p)
	}
	return e, nil
}

func (l *loader) buildPass(pf *passFile) (pass.Pass, []string, error) {
	if pf.Name == "" {
		return nil, nil, fmt.Errorf("%w: pass without a name", ErrInvalidEffect)
	}
	invalid := func(field string, err error) error {
		return fmt.Errorf("%w: pass %q: %s: %v", ErrInvalidEffect, pf.Name, field, err)
	}

	var files []string
	vs, err := l.source(pf.VertexSource, pf.Vertex, &files)
	if err != nil {
		return nil, nil, invalid("vertex", err)
	}
	fs, err := l.source(pf.FragmentSource, pf.Fragment, &files)
	if err != nil {
		return nil, nil, invalid("fragment", err)
	}

	macros := make([]data.MacroBinding, 0, len(pf.Macros))
	for _, mf := range pf.Macros {
		mb, err := macroBinding(mf)
		if err != nil {
			return nil, nil, invalid("macros", err)
		}
		macros = append(macros, mb)
	}

	attributes, err := bindingMap(pf.Attributes)
	if err != nil {
		return nil, nil, invalid("attributes", err)
	}
	uniforms, err := bindingMap(pf.Uniforms)
	if err != nil {
		return nil, nil, invalid("uniforms", err)
	}
	states, err := bindingMap(pf.States)
	if err != nil {
		return nil, nil, invalid("states", err)
	}

	stateNames := drawcall.StateNames()
	for _, name := range sortedKeys(pf.Defaults) {
		v, err := l.value(pf.Defaults[name])
		if err != nil {
			return nil, nil, invalid("defaults."+name, err)
		}
		_, isAttribute := attributes.Binding(name)
		switch {
		case isAttribute:
			attributes.Defaults.Set(name, v)
		case slices.Contains(stateNames, name):
			states.Defaults.Set(name, v)
		default:
			uniforms.Defaults.Set(name, v)
		}
	}

	opts := []pass.PassBuilderOption{
		pass.WithMacros(macros...),
		pass.WithStrict(pf.Strict),
		pass.WithUndefined(pf.Undefines...),
		pass.WithAttributeBindings(attributes),
		pass.WithUniformBindings(uniforms),
		pass.WithStateBindings(states),
	}
	for _, name := range sortedKeys(pf.Defines) {
		opts = append(opts, pass.WithDefinition(name, data.MacroDefault{Semantic: data.MacroDefaultValue, Value: pf.Defines[name]}))
	}
	opts = append(opts, l.passOptions...)

	return pass.NewPass(pf.Name, vs, fs, opts...), files, nil
}

// source returns the inline source or reads the file at path.
func (l *loader) source(inline, path string, files *[]string) (string, error) {
	if inline != "" {
		return inline, nil
	}
	if path == "" {
		return "", fmt.Errorf("no source")
	}
	full := l.resolve(path)
	raw, err := os.ReadFile(full)
	if err != nil {
		return "", err
	}
	*files = append(*files, full)
	return string(raw), nil
}

func (l *loader) resolve(path string) string {
	if filepath.IsAbs(path) || l.baseDir == "" {
		return path
	}
	return filepath.Join(l.baseDir, path)
}

func macroBinding(mf macroFile) (data.MacroBinding, error) {
	if mf.Name == "" {
		return data.MacroBinding{}, fmt.Errorf("macro without a name")
	}
	scope, err := data.ParseScope(mf.Scope)
	if err != nil {
		return data.MacroBinding{}, fmt.Errorf("%s: %w", mf.Name, err)
	}

	mb := data.MacroBinding{
		Name:         mf.Name,
		PropertyName: mf.Property,
		Scope:        scope,
		Min:          math.MinInt32,
		Max:          math.MaxInt32,
	}
	switch strings.ToLower(mf.Default) {
	case "", "none":
		mb.Default.Semantic = data.MacroDefaultNone
	case "exists", "property_exists":
		mb.Default.Semantic = data.MacroDefaultPropertyExists
	case "value":
		mb.Default = data.MacroDefault{Semantic: data.MacroDefaultValue, Value: mf.Value}
	default:
		return data.MacroBinding{}, fmt.Errorf("%s: unknown default %q", mf.Name, mf.Default)
	}
	if mf.Min != nil {
		mb.Min = *mf.Min
	}
	if mf.Max != nil {
		mb.Max = *mf.Max
	}
	if mb.Min > mb.Max {
		return data.MacroBinding{}, fmt.Errorf("%s: min %d above max %d", mf.Name, mb.Min, mb.Max)
	}
	return mb, nil
}

func bindingMap(files map[string]bindingFile) (*data.BindingMap, error) {
	m := data.NewBindingMap()
	for _, input := range sortedKeys(files) {
		bf := files[input]
		if bf.Property == "" {
			return nil, fmt.Errorf("%s: missing property", input)
		}
		scope, err := data.ParseScope(bf.Scope)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", input, err)
		}
		data.WithBinding(input, bf.Property, scope)(m)
	}
	return m, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
