// Copyright 2026 The Lattice Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides Lattice's standard CBOR encoding configuration.
//
// All Lattice protocol messages (declarations, pushes, queries) are
// CBOR on the wire; JSON appears only at tooling boundaries (CLI
// --json output, debug dumps). This package provides the shared
// encoding and decoding modes so that every package encodes
// identically without duplicating configuration. The encoder uses
// Core Deterministic Encoding (RFC 8949 §4.2): sorted map keys,
// smallest integer encoding, no indefinite-length items. Same logical
// data always produces identical bytes.
//
// For buffer-oriented operations:
//
//	data, err := codec.Marshal(value)
//	err = codec.Unmarshal(data, &value)
//
// For stream-oriented operations (link framing):
//
//	encoder := codec.NewEncoder(conn)
//	decoder := codec.NewDecoder(conn)
//
// # Struct Tag Rules
//
// Wire message types carry both tags per field: a `json` tag with a
// readable name for tooling output, and a `cbor:"N,keyasint"` tag
// assigning the field's integer key on the wire. Integer keys are
// part of the protocol — once assigned, a number is never reused for
// a different field. Types that never touch the wire (config files,
// CLI-only structures) use `json` tags alone; fxamacker/cbor reads
// them as a fallback when no `cbor` tag is present.
package codec
