// Package app wires the controller together and drives one quantum: the
// task executor first, then the session state machine, then whichever of
// the dispatcher or the finalizer the decision calls for. It owns the
// application config, the logger setup, and the quantum's informational
// outputs.
package app
