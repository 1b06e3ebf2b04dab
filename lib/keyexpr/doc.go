// Copyright 2026 The Lattice Authors
// SPDX-License-Identifier: Apache-2.0

// Package keyexpr defines the key-expression grammar: the hierarchical,
// slash-delimited string identifiers that address publish/subscribe
// traffic on a Lattice mesh.
//
// A key expression is a non-empty sequence of /-separated segments,
// e.g. "demo/sensor/temperature". A "*" segment stands for exactly
// one segment during routing and a "**" segment for one or more;
// within a segment, '*' is a sub-segment wildcard ("demo/temp*").
//
// [Key] is the validated value type. All constructors except [Trusted]
// validate their input and return errors for malformed expressions.
// Once constructed, a Key is immutable; accessor methods return the
// canonical string at zero allocation cost.
//
// This package defines the grammar only. Wildcard matching and
// intersection live with the routing tables that consume them, and the
// wire-level prefix substitution for key expressions lives in the
// messaging package.
package keyexpr
