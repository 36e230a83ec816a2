//go:build !assertions

package assert

// Enabled is false in release builds.
const Enabled = false
