// Copyright 2026 The Lattice Authors
// SPDX-License-Identifier: Apache-2.0

package keyexpr

import (
	"fmt"
	"strings"
)

// Key is a validated key expression (e.g., "demo/sensor/temperature").
//
// Key is an immutable value type. The zero value is not valid; use
// IsZero to check. Equality, ordering, and hashing are defined over
// the canonical string only, so Key works directly as a map key and
// compares with ==.
type Key struct {
	expr string
}

// Parse validates and wraps a raw key-expression string. Returns a
// *InvalidError describing the first grammar violation found.
func Parse(raw string) (Key, error) {
	if err := validate(raw); err != nil {
		return Key{}, err
	}
	return Key{expr: raw}, nil
}

// MustParse is like Parse but panics on error. Use in tests and static
// initialization where the input is known-valid.
func MustParse(raw string) Key {
	k, err := Parse(raw)
	if err != nil {
		panic(fmt.Sprintf("keyexpr.MustParse(%q): %v", raw, err))
	}
	return k
}

// Trusted wraps a raw string without validation.
//
// The caller attests that the string already satisfies the grammar —
// typically because it arrived pre-validated over the wire, or was
// assembled from parts that are individually validated. Passing a
// malformed string here is a logic error: the mesh silently drops
// messages addressed with an invalid key expression, so the failure
// mode is lost traffic, not a local fault. Prefer Parse anywhere the
// input's provenance is not airtight.
func Trusted(raw string) Key {
	return Key{expr: raw}
}

// String returns the canonical key-expression string.
func (k Key) String() string { return k.expr }

// IsZero reports whether the Key is the zero value (uninitialized).
func (k Key) IsZero() bool { return k.expr == "" }

// IsWild reports whether the expression contains a wildcard segment
// ("*" or "**"). Non-wild expressions address exactly one key.
func (k Key) IsWild() bool {
	return strings.Contains(k.expr, "*")
}

// Segments returns the /-separated segments of the expression.
func (k Key) Segments() []string {
	if k.expr == "" {
		return nil
	}
	return strings.Split(k.expr, "/")
}

// Clone returns a Key whose backing string is freshly allocated.
//
// A Key parsed out of a larger buffer (a network frame, a config file)
// aliases that buffer and keeps it reachable. Clone detaches the Key so
// it can outlive its source without pinning it.
func (k Key) Clone() Key {
	return Key{expr: strings.Clone(k.expr)}
}

// MarshalText implements encoding.TextMarshaler. A zero Key marshals
// as the empty string.
func (k Key) MarshalText() ([]byte, error) {
	return []byte(k.expr), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Validates the
// expression; empty input produces the zero value.
func (k *Key) UnmarshalText(data []byte) error {
	if len(data) == 0 {
		*k = Key{}
		return nil
	}
	parsed, err := Parse(string(data))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// InvalidError reports a key-expression grammar violation. Callers can
// use errors.As to distinguish grammar failures from other errors:
//
//	var invalid *keyexpr.InvalidError
//	if errors.As(err, &invalid) { ... }
type InvalidError struct {
	// Expr is the rejected input string.
	Expr string
	// Reason describes the first violation found.
	Reason string
}

func (e *InvalidError) Error() string {
	return fmt.Sprintf("invalid key expression %q: %s", e.Expr, e.Reason)
}
