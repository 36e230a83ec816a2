// Package assert provides internal-consistency checks that fail loudly in
// development builds and are free in release builds. Callers are expected
// to pair every check with a conservative fallback, so a violated invariant
// degrades to a safe answer instead of a crash in production.
package assert

import "fmt"

// Failf reports an invariant violation. Under the `assertions` build tag it
// panics with the formatted message; otherwise it is a no-op and the caller
// proceeds with its fallback.
func Failf(format string, args ...any) {
	if Enabled {
		panic("assertion failed: " + fmt.Sprintf(format, args...))
	}
}

// Truef checks cond and reports a violation when it is false. Returns cond
// so call sites can branch into their fallback without re-evaluating.
func Truef(cond bool, format string, args ...any) bool {
	if !cond {
		Failf(format, args...)
	}
	return cond
}
