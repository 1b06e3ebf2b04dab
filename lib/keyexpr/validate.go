// Copyright 2026 The Lattice Authors
// SPDX-License-Identifier: Apache-2.0

package keyexpr

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Wildcard segment tokens.
const (
	// SingleWild matches exactly one segment during routing.
	SingleWild = "*"
	// MultiWild matches one or more segments during routing.
	MultiWild = "**"
)

// reservedChars are bytes that can never appear in a key expression.
// '#' and '?' are reserved for future selector syntax, '$' for future
// sub-segment wildcards. Rejecting them now keeps those extensions
// backward compatible.
var reservedChars [256]bool

func init() {
	reservedChars['#'] = true
	reservedChars['?'] = true
	reservedChars['$'] = true
}

// validate enforces the key-expression grammar: non-empty valid
// UTF-8; no leading, trailing, or doubled '/'; no whitespace,
// control, or reserved
// characters; no two adjacent "**" segments (the canonical form
// collapses them into one). '*' is otherwise unrestricted; "temp*"
// is a legal sub-segment wildcard.
func validate(expr string) error {
	if expr == "" {
		return &InvalidError{Expr: expr, Reason: "empty string"}
	}
	// Keys travel as CBOR text strings, which require valid UTF-8; a
	// key that fails this here would be rejected by every receiver.
	if !utf8.ValidString(expr) {
		return &InvalidError{Expr: expr, Reason: "not valid UTF-8"}
	}

	for i := 0; i < len(expr); i++ {
		c := expr[i]
		if c <= ' ' || c == 0x7f {
			return &InvalidError{Expr: expr, Reason: fmt.Sprintf("whitespace or control character at position %d", i)}
		}
		if reservedChars[c] {
			return &InvalidError{Expr: expr, Reason: fmt.Sprintf("reserved character %q at position %d", c, i)}
		}
	}

	if expr[0] == '/' {
		return &InvalidError{Expr: expr, Reason: "must not start with '/'"}
	}
	if expr[len(expr)-1] == '/' {
		return &InvalidError{Expr: expr, Reason: "must not end with '/'"}
	}

	previous := ""
	for _, segment := range strings.Split(expr, "/") {
		if segment == "" {
			return &InvalidError{Expr: expr, Reason: "empty segment (double slash)"}
		}
		if segment == MultiWild && previous == MultiWild {
			return &InvalidError{Expr: expr, Reason: "adjacent '**' segments (write a single '**')"}
		}
		previous = segment
	}

	return nil
}
