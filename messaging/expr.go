// Copyright 2026 The Lattice Authors
// SPDX-License-Identifier: Apache-2.0

package messaging

import (
	"fmt"
	"strings"

	"github.com/lattice-foundation/lattice/lib/keyexpr"
)

// Expr is a key expression as held by application and protocol code: a
// validated [keyexpr.Key] plus two orthogonal pieces of bookkeeping.
//
// Ownership: an Expr either owns its text (the string is a private
// allocation) or borrows it (the string may alias a larger buffer such
// as a network frame or a caller's composite string). Both behave
// identically; the distinction only matters for lifetime hygiene —
// use [Expr.IntoOwned] before stashing an Expr that was parsed out of
// a transient buffer, so the buffer can be released.
//
// Wire annotation: an Expr may record that some session knows a prefix
// of its text under a numeric ID. The annotation is a pure send-time
// optimization — it never affects the text, equality, or display, and
// it is only honored for the one session that registered it.
//
// The zero value is not a valid expression; use IsZero to check.
// Exprs are immutable: every operation returns a new value.
type Expr struct {
	key   keyexpr.Key
	owned bool

	// Wire annotation. hasWire marks structural presence; an
	// annotation with exprID == 0 is present but unusable.
	hasWire   bool
	exprID    uint64
	prefixLen int
	sessionID SessionID
}

// ParseExpr validates raw and returns a borrowing Expr: the result
// aliases raw's backing storage. Returns *keyexpr.InvalidError when
// raw violates the grammar.
func ParseExpr(raw string) (Expr, error) {
	k, err := keyexpr.Parse(raw)
	if err != nil {
		return Expr{}, err
	}
	return Expr{key: k}, nil
}

// NewExpr validates raw and returns an owning Expr, detached from
// raw's backing storage.
func NewExpr(raw string) (Expr, error) {
	e, err := ParseExpr(raw)
	if err != nil {
		return Expr{}, err
	}
	return e.IntoOwned(), nil
}

// MustExpr is like NewExpr but panics on error. Use in tests and
// static initialization where the input is known-valid.
func MustExpr(raw string) Expr {
	e, err := NewExpr(raw)
	if err != nil {
		panic(fmt.Sprintf("messaging.MustExpr(%q): %v", raw, err))
	}
	return e
}

// FromKey wraps an already-validated key in a borrowing Expr.
func FromKey(k keyexpr.Key) Expr {
	return Expr{key: k}
}

// FromKeyOwned wraps an already-validated key in an owning Expr,
// cloning the key's text.
func FromKeyOwned(k keyexpr.Key) Expr {
	return Expr{key: k.Clone(), owned: true}
}

// TrustedExpr wraps raw in a borrowing Expr without grammar
// validation. See [keyexpr.Trusted] for the caller's obligation and
// the failure mode: a malformed expression is silently dropped by the
// mesh, it does not fault locally.
func TrustedExpr(raw string) Expr {
	return Expr{key: keyexpr.Trusted(raw)}
}

// TrustedExprOwned is TrustedExpr with an owned copy of raw.
func TrustedExprOwned(raw string) Expr {
	return Expr{key: keyexpr.Trusted(strings.Clone(raw)), owned: true}
}

// String returns the key-expression text. Shape and annotation never
// affect it.
func (e Expr) String() string { return e.key.String() }

// Key returns the validated key. Two Exprs are interchangeable for
// routing purposes exactly when their Keys are equal; use Key as a
// map key where expressions index state.
func (e Expr) Key() keyexpr.Key { return e.key }

// IsZero reports whether the Expr is the zero value.
func (e Expr) IsZero() bool { return e.key.IsZero() }

// Equal reports whether both expressions have identical text. Shapes
// and wire annotations are ignored: a borrowed plain Expr equals an
// owned annotated one over the same string.
func (e Expr) Equal(other Expr) bool {
	return e.key == other.key
}

// BorrowingClone returns an Expr sharing this one's text and
// annotation without copying. The result is marked borrowing even
// when the source owns its text — the clone must not be assumed to
// keep the text alive on its own.
func (e Expr) BorrowingClone() Expr {
	e.owned = false
	return e
}

// IntoOwned returns an Expr that owns its text, cloning it if the
// source was borrowing. The annotation carries over unchanged.
func (e Expr) IntoOwned() Expr {
	if e.owned {
		return e
	}
	e.key = e.key.Clone()
	e.owned = true
	return e
}

// Join appends suffix to the expression with a '/' separator and
// validates the result, returning a new owning Expr.
//
// This is the preferred way to extend a key expression: the inserted
// separator keeps segment boundaries intact, so Join can never create
// an ambiguous wildcard seam. A wire annotation on the receiver is
// propagated unchanged — appending below a prefix does not invalidate
// what the peer knows about that prefix.
func (e Expr) Join(suffix string) (Expr, error) {
	k, err := keyexpr.Parse(e.key.String() + "/" + suffix)
	if err != nil {
		return Expr{}, err
	}
	return e.derive(k), nil
}

// Concat appends suffix with no separator and validates the result,
// returning a new owning Expr. Prefer [Expr.Join]; Concat exists for
// callers completing a partial final segment.
//
// Concat rejects the one shape known to silently change match
// semantics: a '*' at the seam on both sides (e.g. "demo/**" +
// "**/log" would collapse two multi-segment wildcards into an
// expression that matches differently than either part suggests).
// Such calls fail with *AmbiguousConcatError. Annotation propagation
// is the same as Join's.
func (e Expr) Concat(suffix string) (Expr, error) {
	text := e.key.String()
	if strings.HasSuffix(text, "*") && strings.HasPrefix(suffix, "*") {
		return Expr{}, &AmbiguousConcatError{Left: text, Right: suffix}
	}
	k, err := keyexpr.Parse(text + suffix)
	if err != nil {
		return Expr{}, err
	}
	return e.derive(k), nil
}

// derive builds the result of a composition: a new owning Expr over k
// that inherits e's wire annotation verbatim. The composed string is
// a fresh allocation, so the result is owned by construction.
func (e Expr) derive(k keyexpr.Key) Expr {
	return Expr{
		key:       k,
		owned:     true,
		hasWire:   e.hasWire,
		exprID:    e.exprID,
		prefixLen: e.prefixLen,
		sessionID: e.sessionID,
	}
}

// AmbiguousConcatError reports a rejected Concat: the left expression
// ends with '*' and the right fragment starts with '*'. Callers
// should use Join, or assemble the full string and Parse it if the
// concatenation is genuinely intended.
type AmbiguousConcatError struct {
	// Left is the text of the expression Concat was called on.
	Left string
	// Right is the fragment passed to Concat.
	Right string
}

func (e *AmbiguousConcatError) Error() string {
	return fmt.Sprintf("ambiguous concatenation of %q (ends with '*') and %q (starts with '*'): adjacent wildcards would change match semantics; use Join or parse the assembled string explicitly", e.Left, e.Right)
}
