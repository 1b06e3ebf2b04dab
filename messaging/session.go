// Copyright 2026 The Lattice Authors
// SPDX-License-Identifier: Apache-2.0

package messaging

import (
	"fmt"
	"strings"
	"sync"

	"github.com/lattice-foundation/lattice/lib/keyexpr"
)

// SessionID identifies one logical peer connection. IDs are assigned
// by the runtime when a session is opened and stay stable for the
// session's lifetime; wire annotations are authenticated against them
// on every use.
type SessionID uint16

// Session is a single logical connection to a peer, carrying the
// prefix registry negotiated on that connection.
//
// The registry has two independent directions. Local declarations are
// prefixes this side has registered with the peer: DeclarePrefix
// assigns them IDs and OptimizeExpr uses them to annotate outgoing
// expressions. Remote declarations are prefixes the peer has
// registered with us: ApplyDeclaration records them and ResolveWire
// uses them to reconstruct incoming compact forms.
//
// All methods are safe for concurrent use.
type Session struct {
	id SessionID

	mu         sync.RWMutex
	nextExprID uint64
	localByID  map[uint64]keyexpr.Key
	localByKey map[keyexpr.Key]uint64
	remote     map[uint64]keyexpr.Key
}

// NewSession creates a session with the given runtime-assigned ID and
// an empty registry.
func NewSession(id SessionID) *Session {
	return &Session{
		id:         id,
		localByID:  make(map[uint64]keyexpr.Key),
		localByKey: make(map[keyexpr.Key]uint64),
		remote:     make(map[uint64]keyexpr.Key),
	}
}

// ID returns the session's stable identifier.
func (s *Session) ID() SessionID { return s.id }

// DeclarePrefix registers a prefix with this session's peer,
// assigning it the next free expression ID, and returns the
// Declaration to transmit. Declaring the same prefix again is
// idempotent and returns the existing mapping.
//
// The returned expression ID is never 0 — 0 is the reserved "no
// substitution" scope.
func (s *Session) DeclarePrefix(prefix keyexpr.Key) (Declaration, error) {
	if prefix.IsZero() {
		return Declaration{}, fmt.Errorf("declare prefix: zero-value key")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if id, ok := s.localByKey[prefix]; ok {
		return Declaration{ID: id, Prefix: prefix}, nil
	}

	s.nextExprID++
	id := s.nextExprID
	owned := prefix.Clone()
	s.localByID[id] = owned
	s.localByKey[owned] = id
	return Declaration{ID: id, Prefix: owned}, nil
}

// OptimizeExpr attaches a wire annotation for the longest declared
// prefix of the expression, scoped to this session. The expression
// must either equal a declared prefix or extend it below a segment
// boundary; "demo/s" does not count as covered by a declaration of
// "demo/sensor". When no declared prefix applies, the expression is
// returned unchanged.
//
// The returned Expr produces the compact wire form from ToWire on
// this session, and the full form everywhere else.
func (s *Session) OptimizeExpr(e Expr) Expr {
	text := e.String()

	s.mu.RLock()
	defer s.mu.RUnlock()

	bestID := uint64(0)
	bestLen := -1
	for id, prefix := range s.localByID {
		p := prefix.String()
		if len(p) <= bestLen {
			continue
		}
		if text == p || strings.HasPrefix(text, p+"/") {
			bestID = id
			bestLen = len(p)
		}
	}
	if bestID == 0 {
		return e
	}

	e.hasWire = true
	e.exprID = bestID
	e.prefixLen = bestLen
	e.sessionID = s.id
	return e
}

// ApplyDeclaration records a prefix the peer has declared, making the
// corresponding scope resolvable by ResolveWire. Re-declaring an
// existing ID with the same prefix is idempotent; re-declaring it
// with a different prefix is a protocol violation and fails.
func (s *Session) ApplyDeclaration(d Declaration) error {
	if d.ID == 0 {
		return fmt.Errorf("apply declaration: expression ID 0 is reserved")
	}
	if d.Prefix.IsZero() {
		return fmt.Errorf("apply declaration: zero-value prefix for ID %d", d.ID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.remote[d.ID]; ok {
		if existing == d.Prefix {
			return nil
		}
		return fmt.Errorf("apply declaration: ID %d already bound to %q, peer redeclared it as %q", d.ID, existing, d.Prefix)
	}
	s.remote[d.ID] = d.Prefix.Clone()
	return nil
}

// ResolveWire reconstructs a received wire form into a full, owning
// expression.
//
// Scope 0 carries the complete expression in Suffix; it is validated
// like any untrusted input. A non-zero scope is looked up among the
// peer's declarations — the cached prefix and the suffix concatenate
// to the full text, which is validated as a whole. An unknown scope
// fails with *UnknownScopeError; it means the peer used a mapping we
// never acknowledged (or the declaration was lost), and the message
// cannot be addressed.
func (s *Session) ResolveWire(w WireExpr) (Expr, error) {
	if w.Scope == 0 {
		k, err := keyexpr.Parse(w.Suffix)
		if err != nil {
			return Expr{}, err
		}
		return FromKeyOwned(k), nil
	}

	s.mu.RLock()
	prefix, ok := s.remote[w.Scope]
	s.mu.RUnlock()
	if !ok {
		return Expr{}, &UnknownScopeError{Scope: w.Scope}
	}

	k, err := keyexpr.Parse(prefix.String() + w.Suffix)
	if err != nil {
		return Expr{}, err
	}
	// The concatenation above is a fresh allocation already.
	return Expr{key: k, owned: true}, nil
}

// UnknownScopeError reports a wire form whose scope has no recorded
// declaration on this session.
type UnknownScopeError struct {
	// Scope is the unresolvable numeric reference.
	Scope uint64
}

func (e *UnknownScopeError) Error() string {
	return fmt.Sprintf("unknown key-expression scope %d: no matching declaration on this session", e.Scope)
}
