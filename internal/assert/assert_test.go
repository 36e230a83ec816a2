package assert

import "testing"

func TestTruefReturnsCondition(t *testing.T) {
	if !Truef(true, "should not fire") {
		t.Error("Truef(true) = false, want true")
	}
	if Enabled {
		t.Skip("remaining cases exercise the release path")
	}
	// Without the assertions tag a failed check must not panic; the caller
	// handles the fallback.
	if Truef(false, "invariant %d", 1) {
		t.Error("Truef(false) = true, want false")
	}
	Failf("no-op in release builds")
}
