// Copyright 2026 The Lattice Authors
// SPDX-License-Identifier: Apache-2.0

package messaging

// WireExpr is the wire form of a key expression, as embedded in
// protocol messages (declarations, pushes, queries).
//
// Scope 0 means "no substitution": Suffix is the complete expression.
// A non-zero Scope names a prefix the receiving peer has cached for
// this connection; the receiver reconstructs the full expression by
// concatenating that prefix with Suffix. Scopes are meaningful only
// within the session that negotiated them.
//
// Integer CBOR keys keep the framing overhead small — compactness is
// the entire reason this form exists.
type WireExpr struct {
	Scope  uint64 `json:"scope,omitempty" cbor:"1,keyasint,omitempty"`
	Suffix string `json:"suffix,omitempty" cbor:"2,keyasint,omitempty"`
}

// ToWire encodes the expression for transmission to the given
// session's peer.
//
// When the Expr carries a usable annotation owned by this session
// (non-zero expr ID, matching session ID), the compact form is
// emitted: the annotated prefix is replaced by its numeric scope and
// only the remainder of the string travels. In every other case —
// no annotation, an unusable annotation, or an annotation belonging
// to a different session — the full text is emitted under scope 0.
//
// ToWire never fails. The full form is always correct, merely not
// compact; degrading to it is what keeps one session's private
// numeric namespace from ever leaking into another's traffic.
func (e Expr) ToWire(session *Session) WireExpr {
	if e.usableFor(session) {
		return WireExpr{
			Scope:  e.exprID,
			Suffix: e.key.String()[e.prefixLen:],
		}
	}
	return WireExpr{Scope: 0, Suffix: e.key.String()}
}

// IsOptimizedFor reports whether ToWire would emit the compact form
// for this session: the Expr carries an annotation with a non-zero
// expr ID that was registered by exactly this session.
func (e Expr) IsOptimizedFor(session *Session) bool {
	return e.usableFor(session)
}

func (e Expr) usableFor(session *Session) bool {
	return e.hasWire && e.exprID != 0 && e.sessionID == session.ID()
}
