// Package delegate wires callbacks to targets without keeping the targets
// alive.
package delegate

import "weak"

// Delegate forwards a call to an action bound to a target. The target is held
// weakly: once it has been collected, calls do nothing.
type Delegate[In, Out any] struct {
	call func(In) (Out, bool)
}

// Bind registers action to be called with target. Any earlier binding is
// replaced.
func Bind[T, In, Out any](d *Delegate[In, Out], target *T, action func(*T, In) Out) {
	ref := weak.Make(target)
	d.call = func(in In) (Out, bool) {
		t := ref.Value()
		if t == nil {
			var zero Out
			return zero, false
		}
		return action(t, in), true
	}
}

// Call invokes the bound action. It reports false, with the zero Out, if
// nothing is bound or the target no longer exists.
func (d *Delegate[In, Out]) Call(in In) (Out, bool) {
	if d == nil || d.call == nil {
		var zero Out
		return zero, false
	}
	return d.call(in)
}

// Reset removes the binding.
func (d *Delegate[In, Out]) Reset() {
	d.call = nil
}
