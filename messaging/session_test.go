// Copyright 2026 The Lattice Authors
// SPDX-License-Identifier: Apache-2.0

package messaging

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/lattice-foundation/lattice/lib/keyexpr"
)

func TestDeclarePrefix(t *testing.T) {
	session := NewSession(1)

	first, err := session.DeclarePrefix(keyexpr.MustParse("demo/sensor"))
	if err != nil {
		t.Fatalf("DeclarePrefix: %v", err)
	}
	if first.ID == 0 {
		t.Fatal("DeclarePrefix assigned the reserved ID 0")
	}
	if first.Prefix.String() != "demo/sensor" {
		t.Errorf("Prefix = %q", first.Prefix)
	}

	// Redeclaring the same prefix is idempotent.
	again, err := session.DeclarePrefix(keyexpr.MustParse("demo/sensor"))
	if err != nil {
		t.Fatalf("DeclarePrefix (again): %v", err)
	}
	if again.ID != first.ID {
		t.Errorf("redeclaration assigned ID %d, want %d", again.ID, first.ID)
	}

	// A different prefix gets a different ID.
	other, err := session.DeclarePrefix(keyexpr.MustParse("demo/actuator"))
	if err != nil {
		t.Fatalf("DeclarePrefix (other): %v", err)
	}
	if other.ID == first.ID {
		t.Error("distinct prefixes share an ID")
	}

	if _, err := session.DeclarePrefix(keyexpr.Key{}); err == nil {
		t.Error("DeclarePrefix accepted a zero-value key")
	}
}

func TestOptimizeExpr(t *testing.T) {
	session := NewSession(3)
	shortDecl, err := session.DeclarePrefix(keyexpr.MustParse("demo"))
	if err != nil {
		t.Fatalf("DeclarePrefix: %v", err)
	}
	longDecl, err := session.DeclarePrefix(keyexpr.MustParse("demo/sensor"))
	if err != nil {
		t.Fatalf("DeclarePrefix: %v", err)
	}

	tests := []struct {
		name     string
		expr     string
		wantID   uint64
		wantWire WireExpr
	}{
		{
			name:     "longest-prefix-wins",
			expr:     "demo/sensor/temperature",
			wantID:   longDecl.ID,
			wantWire: WireExpr{Scope: longDecl.ID, Suffix: "/temperature"},
		},
		{
			name:     "exact-prefix-match",
			expr:     "demo/sensor",
			wantID:   longDecl.ID,
			wantWire: WireExpr{Scope: longDecl.ID, Suffix: ""},
		},
		{
			name:     "shorter-prefix-applies",
			expr:     "demo/actuator/valve",
			wantID:   shortDecl.ID,
			wantWire: WireExpr{Scope: shortDecl.ID, Suffix: "/actuator/valve"},
		},
		{
			name:     "segment-boundary-respected",
			expr:     "demo/sensors",
			wantID:   shortDecl.ID,
			wantWire: WireExpr{Scope: shortDecl.ID, Suffix: "/sensors"},
		},
		{
			name:     "no-declared-prefix",
			expr:     "other/tree",
			wantID:   0,
			wantWire: WireExpr{Scope: 0, Suffix: "other/tree"},
		},
		{
			name:     "prefix-of-declaration-not-covered",
			expr:     "dem",
			wantID:   0,
			wantWire: WireExpr{Scope: 0, Suffix: "dem"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			optimized := session.OptimizeExpr(MustExpr(tt.expr))
			if optimized.String() != tt.expr {
				t.Errorf("OptimizeExpr changed text to %q", optimized.String())
			}
			if got := optimized.IsOptimizedFor(session); got != (tt.wantID != 0) {
				t.Errorf("IsOptimizedFor = %v", got)
			}
			if w := optimized.ToWire(session); w != tt.wantWire {
				t.Errorf("ToWire = %+v, want %+v", w, tt.wantWire)
			}
		})
	}
}

func TestApplyDeclaration(t *testing.T) {
	session := NewSession(8)
	prefix := keyexpr.MustParse("demo/sensor")

	if err := session.ApplyDeclaration(Declaration{ID: 5, Prefix: prefix}); err != nil {
		t.Fatalf("ApplyDeclaration: %v", err)
	}
	// Idempotent re-declaration.
	if err := session.ApplyDeclaration(Declaration{ID: 5, Prefix: prefix}); err != nil {
		t.Errorf("idempotent re-declaration failed: %v", err)
	}
	// Conflicting re-declaration is a protocol violation.
	if err := session.ApplyDeclaration(Declaration{ID: 5, Prefix: keyexpr.MustParse("demo/actuator")}); err == nil {
		t.Error("conflicting re-declaration accepted")
	}
	// Reserved and malformed declarations.
	if err := session.ApplyDeclaration(Declaration{ID: 0, Prefix: prefix}); err == nil {
		t.Error("declaration with ID 0 accepted")
	}
	if err := session.ApplyDeclaration(Declaration{ID: 9}); err == nil {
		t.Error("declaration with zero prefix accepted")
	}
}

func TestResolveWire(t *testing.T) {
	session := NewSession(8)
	if err := session.ApplyDeclaration(Declaration{ID: 5, Prefix: keyexpr.MustParse("demo/sensor")}); err != nil {
		t.Fatalf("ApplyDeclaration: %v", err)
	}

	tests := []struct {
		name    string
		wire    WireExpr
		want    string
		wantErr bool
	}{
		{name: "full-form", wire: WireExpr{Scope: 0, Suffix: "demo/sensor/temperature"}, want: "demo/sensor/temperature"},
		{name: "compact-form", wire: WireExpr{Scope: 5, Suffix: "/temperature"}, want: "demo/sensor/temperature"},
		{name: "compact-empty-suffix", wire: WireExpr{Scope: 5, Suffix: ""}, want: "demo/sensor"},
		{name: "unknown-scope", wire: WireExpr{Scope: 9, Suffix: "/temperature"}, wantErr: true},
		{name: "invalid-full-form", wire: WireExpr{Scope: 0, Suffix: "demo//bad"}, wantErr: true},
		{name: "invalid-reconstruction", wire: WireExpr{Scope: 5, Suffix: "//bad"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := session.ResolveWire(tt.wire)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ResolveWire(%+v): expected error, got %q", tt.wire, e)
				}
				return
			}
			if err != nil {
				t.Fatalf("ResolveWire: %v", err)
			}
			if e.String() != tt.want {
				t.Errorf("ResolveWire = %q, want %q", e.String(), tt.want)
			}
			if !e.owned {
				t.Error("resolved expression should own its text (wire buffers are transient)")
			}
		})
	}

	var unknown *UnknownScopeError
	_, err := session.ResolveWire(WireExpr{Scope: 9, Suffix: "/x"})
	if !errors.As(err, &unknown) {
		t.Fatalf("error %v is not *UnknownScopeError", err)
	}
	if unknown.Scope != 9 {
		t.Errorf("UnknownScopeError.Scope = %d", unknown.Scope)
	}
}

func TestSessionEndToEnd(t *testing.T) {
	// Sender side: session 1's view of the connection. Receiver side:
	// the peer's view. The declaration travels first, then compact
	// pushes resolve back to the original text.
	sender := NewSession(1)
	receiver := NewSession(1)

	declaration, err := sender.DeclarePrefix(keyexpr.MustParse("fleet/vehicle-7"))
	if err != nil {
		t.Fatalf("DeclarePrefix: %v", err)
	}
	if err := receiver.ApplyDeclaration(declaration); err != nil {
		t.Fatalf("ApplyDeclaration: %v", err)
	}

	for _, text := range []string{"fleet/vehicle-7/speed", "fleet/vehicle-7", "fleet/vehicle-9/speed"} {
		wire := sender.OptimizeExpr(MustExpr(text)).ToWire(sender)
		resolved, err := receiver.ResolveWire(wire)
		if err != nil {
			t.Fatalf("ResolveWire(%+v): %v", wire, err)
		}
		if resolved.String() != text {
			t.Errorf("round-trip of %q produced %q", text, resolved.String())
		}
	}
}

func TestSessionConcurrentUse(t *testing.T) {
	session := NewSession(2)
	var group sync.WaitGroup
	for worker := 0; worker < 8; worker++ {
		group.Add(1)
		go func(worker int) {
			defer group.Done()
			for i := 0; i < 50; i++ {
				prefix := keyexpr.MustParse(fmt.Sprintf("worker-%d/topic-%d", worker, i%5))
				if _, err := session.DeclarePrefix(prefix); err != nil {
					t.Errorf("DeclarePrefix: %v", err)
					return
				}
				e := session.OptimizeExpr(FromKey(prefix))
				if !e.IsOptimizedFor(session) {
					t.Errorf("declared prefix %q not optimizable", prefix)
					return
				}
				e.ToWire(session)
			}
		}(worker)
	}
	group.Wait()
}
