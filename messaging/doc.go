// Copyright 2026 The Lattice Authors
// SPDX-License-Identifier: Apache-2.0

// Package messaging implements the addressing layer of the Lattice
// publish/subscribe protocol: key expressions as they are held by
// applications and as they travel on the wire.
//
// [Expr] wraps a validated [keyexpr.Key] and optionally carries a wire
// annotation: a numeric substitution for one of its prefixes that a
// specific peer session has acknowledged. At send time,
// [Expr.ToWire] turns the expression into a [WireExpr] — either the
// compact (scope, suffix) form when the annotation belongs to the
// destination session, or the full string form otherwise. The compact
// form is never used across sessions: numeric IDs are a private
// per-connection namespace, and an annotation registered with peer A
// is meaningless (and dangerous) on the wire to peer B.
//
// [Session] holds the per-peer prefix registry in both directions:
// prefixes this side has declared to the peer (used by
// [Session.OptimizeExpr] to annotate outgoing expressions) and
// prefixes the peer has declared to us (used by [Session.ResolveWire]
// to reconstruct incoming ones).
//
// Exprs are immutable values. Join and Concat return new expressions;
// nothing in this package mutates shared state except the Session
// registry, which is guarded internally.
package messaging
