//go:build assertions

package assert

// Enabled is true in builds tagged `assertions`.
const Enabled = true
