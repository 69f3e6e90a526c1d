// Package provider holds a process-wide snapshot of one Earth orientation
// table so unrelated subsystems can share a single load without explicit
// wiring. The snapshot is an atomically swapped immutable pointer: readers
// always observe a fully constructed table, never a partially initialized
// one. Code that can pass a *eop.Table explicitly should do so and skip
// this package entirely.
package provider

import (
	"errors"
	"sync/atomic"

	"github.com/orbitdet/eopkit/eop"
)

// ErrNotInitialized is returned by Current before any table has been set.
var ErrNotInitialized = errors.New("provider: no eop table initialized")

var current atomic.Pointer[eop.Table]

// Set replaces the process-wide snapshot. The previous table stays valid
// for readers that already hold it.
func Set(table *eop.Table) {
	current.Store(table)
}

// Current returns the process-wide table.
func Current() (*eop.Table, error) {
	table := current.Load()
	if table == nil {
		return nil, ErrNotInitialized
	}
	return table, nil
}

// Reset clears the snapshot. Mainly useful in tests.
func Reset() {
	current.Store(nil)
}

// InitFromFile loads the file and swaps it into the snapshot.
func InitFromFile(path string, src eop.SourceType, policy eop.ExtrapolationPolicy, interpolate bool, opts ...eop.Option) error {
	table, err := eop.Load(path, src, policy, interpolate, opts...)
	if err != nil {
		return err
	}
	Set(table)
	return nil
}

// InitFromDefaults swaps in a table built from the packaged dataset.
func InitFromDefaults(policy eop.ExtrapolationPolicy, interpolate bool, opts ...eop.Option) {
	Set(eop.FromDefaults(policy, interpolate, opts...))
}

// InitFromValues swaps in a one-entry always-hold table.
func InitFromValues(v eop.Values) {
	Set(eop.FromValues(v))
}

// InitZero swaps in the degenerate all-zero table.
func InitZero() {
	Set(eop.Zero())
}
