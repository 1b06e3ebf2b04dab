// Copyright 2026 The Lattice Authors
// SPDX-License-Identifier: Apache-2.0

package messaging

import (
	"github.com/lattice-foundation/lattice/lib/keyexpr"
)

// Declaration announces a prefix-to-ID mapping to a peer. The sender
// obtains one from [Session.DeclarePrefix]; the receiver feeds it to
// [Session.ApplyDeclaration]. Until the peer has processed the
// declaration, compact wire forms using its ID are unresolvable, so a
// sender must not emit them before the declaration itself is on the
// wire.
//
// Serialized as CBOR via lib/codec; Prefix travels as its canonical
// text string (keyexpr.Key implements encoding.TextMarshaler).
type Declaration struct {
	// ID is the numeric reference being bound. Never 0.
	ID uint64 `json:"id" cbor:"1,keyasint"`
	// Prefix is the key-expression prefix the ID will stand for.
	Prefix keyexpr.Key `json:"prefix" cbor:"2,keyasint"`
}

// Push carries a published payload to a key expression. This is the
// minimal data-plane message: the addressed key in wire form plus the
// opaque payload bytes.
type Push struct {
	Key     WireExpr `json:"key" cbor:"1,keyasint"`
	Payload []byte   `json:"payload,omitempty" cbor:"2,keyasint,omitempty"`
}

// Query asks peers for data matching a key expression. Carried here
// for the addressing fields only; consolidation and reply routing
// live with the query engine.
type Query struct {
	Key WireExpr `json:"key" cbor:"1,keyasint"`
	// Parameters is the free-form query parameter string (contents
	// are opaque to the addressing layer).
	Parameters string `json:"parameters,omitempty" cbor:"2,keyasint,omitempty"`
}
