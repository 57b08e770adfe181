package pass

import (
	"github.com/Carmen-Shannon/oxy-bind/common"
	"github.com/Carmen-Shannon/oxy-bind/engine/data"
	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/drawcall"
	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/program"
)

// DrawCallBinding is the live association of a draw call with the pass that bound it. It listens to
// every macro property the pass evaluates and marks the program selection stale when one is added,
// removed or changed.
type DrawCallBinding struct {
	pass     *pass
	drawCall drawcall.DrawCall
	program  program.Program
	subs     data.Subscriptions
	stale    bool
}

// DrawCall returns the bound draw call.
func (b *DrawCallBinding) DrawCall() drawcall.DrawCall {
	return b.drawCall
}

// Program returns the program the draw call is currently bound with.
func (b *DrawCallBinding) Program() program.Program {
	return b.program
}

// Stale reports whether a macro property changed since the last selection.
func (b *DrawCallBinding) Stale() bool {
	return b.stale
}

// Prepare re-selects the program of a stale binding. When the selected variant differs from the
// current one the draw call is rebound wholesale with the new program.
//
// Returns:
//   - bool: true if the draw call was rebound
//   - error: a program selection or binding error; the binding stays stale and, after a binding
//     error, the draw call stays unbound until a later Prepare succeeds
func (b *DrawCallBinding) Prepare() (bool, error) {
	if !b.stale {
		return false, nil
	}
	prog, err := b.pass.SelectProgram(b.drawCall.Scopes(), b.drawCall.Variables())
	if err != nil {
		return false, err
	}
	if prog == b.program && b.drawCall.Program() == prog {
		b.stale = false
		return false, nil
	}
	if err := b.drawCall.Bind(prog, b.pass.attributes, b.pass.uniforms, b.pass.states); err != nil {
		// Bind resets the draw call, so nothing is bound until a later Prepare succeeds.
		b.program = nil
		return false, err
	}
	var from uint32
	if b.program != nil {
		from = b.program.ID()
	}
	common.Logger().Debug("draw call rebuilt", "pass", b.pass.name, "from", from, "to", prog.ID())
	b.program = prog
	b.stale = false
	return true, nil
}

// Close stops listening to macro properties. The draw call itself is not closed.
func (b *DrawCallBinding) Close() {
	b.subs.DisconnectAll()
}

func (b *DrawCallBinding) watchMacros() {
	scopes := b.drawCall.Scopes()
	vars := b.drawCall.Variables()
	mark := func(data.PropertyEvent) { b.stale = true }

	for _, mb := range b.pass.macros {
		store := scopes.Store(mb.Scope)
		if store == nil {
			continue
		}
		name := data.ResolvePropertyName(mb.PropertyName, vars)
		b.subs.Add(store.PropertyAdded(name).Connect(mark))
		b.subs.Add(store.PropertyRemoved(name).Connect(mark))
		b.subs.Add(store.PropertyChanged(name).Connect(mark))
	}
}
