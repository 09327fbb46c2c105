// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package parallax

// Opt is a value that may be unset. The zero Opt is unset, so numeric zero
// stays a valid value.
type Opt[T any] struct {
	v  T
	ok bool
}

// Some returns a set Opt holding v.
func Some[T any](v T) Opt[T] {
	return Opt[T]{v: v, ok: true}
}

// None returns an unset Opt.
func None[T any]() Opt[T] {
	return Opt[T]{}
}

// Get returns the value and whether it is set.
func (o Opt[T]) Get() (T, bool) {
	return o.v, o.ok
}

// IsSet reports whether the value is set.
func (o Opt[T]) IsSet() bool {
	return o.ok
}

// Or returns the value, or def when unset.
func (o Opt[T]) Or(def T) T {
	if o.ok {
		return o.v
	}
	return def
}

// assign copies the value into dst when set.
func (o Opt[T]) assign(dst *T) {
	if o.ok {
		*dst = o.v
	}
}
