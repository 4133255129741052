//go:build invariants

package invariants

// Enabled is true when built with the invariants tag. Mutating tree operations
// then verify the whole structure before returning.
const Enabled = true
