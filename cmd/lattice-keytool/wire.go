// Copyright 2026 The Lattice Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/lattice-foundation/lattice/lib/codec"
	"github.com/lattice-foundation/lattice/lib/keyexpr"
	"github.com/lattice-foundation/lattice/messaging"
)

// sessionFile is the YAML description of a session's declared
// prefixes. IDs are assigned in listing order, starting at 1 —
// the same order a live session would assign them when declaring
// the prefixes one by one.
type sessionFile struct {
	// Session is the numeric session identifier.
	Session uint16 `yaml:"session"`
	// Prefixes lists the key-expression prefixes declared to the
	// peer, in declaration order.
	Prefixes []string `yaml:"prefixes"`
}

// runWire loads a session declaration file, optimizes each expression
// against the session, and prints the wire form each would be sent
// with.
func runWire(args []string) error {
	flags := pflag.NewFlagSet("wire", pflag.ContinueOnError)
	declarationsPath := flags.String("declarations", "", "YAML file describing the session's declared prefixes")
	showCBOR := flags.Bool("cbor", false, "also print the CBOR diagnostic notation of a Push carrying each expression")
	verbose := flags.Bool("verbose", false, "enable debug logging")
	flags.Usage = func() {
		fmt.Fprintln(flags.Output(), "Usage: lattice-keytool wire [flags] <key-expression>...")
		flags.PrintDefaults()
	}
	if err := flags.Parse(args); err != nil {
		return err
	}
	setupLogging(*verbose)

	if flags.NArg() == 0 {
		return fmt.Errorf("at least one key expression required")
	}

	session, err := loadSession(*declarationsPath)
	if err != nil {
		return err
	}

	for _, raw := range flags.Args() {
		expr, err := messaging.ParseExpr(raw)
		if err != nil {
			return err
		}
		wire := session.OptimizeExpr(expr).ToWire(session)
		if wire.Scope != 0 {
			fmt.Printf("%-40q scope=%d suffix=%q\n", raw, wire.Scope, wire.Suffix)
		} else {
			fmt.Printf("%-40q full form (no declared prefix applies)\n", raw)
		}

		if *showCBOR {
			frame, err := codec.Marshal(messaging.Push{Key: wire})
			if err != nil {
				return fmt.Errorf("encoding push for %q: %w", raw, err)
			}
			notation, err := codec.Diagnose(frame)
			if err != nil {
				return fmt.Errorf("diagnosing push for %q: %w", raw, err)
			}
			fmt.Printf("%-40s %d bytes: %s\n", "", len(frame), notation)
		}
	}
	return nil
}

// loadSession builds a Session from a declaration file. An empty path
// yields a session with no declarations: every expression encodes in
// full form.
func loadSession(path string) (*messaging.Session, error) {
	if path == "" {
		return messaging.NewSession(0), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading declarations: %w", err)
	}
	var file sessionFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing declarations %s: %w", path, err)
	}

	session := messaging.NewSession(messaging.SessionID(file.Session))
	for _, raw := range file.Prefixes {
		prefix, err := keyexpr.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("declarations %s: %w", path, err)
		}
		declaration, err := session.DeclarePrefix(prefix)
		if err != nil {
			return nil, fmt.Errorf("declarations %s: declaring %q: %w", path, raw, err)
		}
		slog.Debug("declared prefix", "id", declaration.ID, "prefix", declaration.Prefix.String(), "session", file.Session)
	}
	return session, nil
}
