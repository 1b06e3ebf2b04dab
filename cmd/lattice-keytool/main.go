// Copyright 2026 The Lattice Authors
// SPDX-License-Identifier: Apache-2.0

// lattice-keytool validates, composes, and wire-encodes key
// expressions. It is a development and debugging aid: the same
// grammar and encoding rules the mesh applies at runtime, exposed at
// the command line.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"github.com/lattice-foundation/lattice/lib/version"
)

func main() {
	err := run()
	if errors.Is(err, pflag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if len(os.Args) < 2 {
		printUsage()
		return fmt.Errorf("subcommand required")
	}

	switch subcommand := os.Args[1]; subcommand {
	case "check":
		return runCheck(os.Args[2:])
	case "join":
		return runCompose(os.Args[2:], composeJoin)
	case "concat":
		return runCompose(os.Args[2:], composeConcat)
	case "wire":
		return runWire(os.Args[2:])
	case "version":
		fmt.Printf("lattice-keytool %s\n", version.Info())
		return nil
	case "-h", "--help", "help":
		printUsage()
		return nil
	default:
		printUsage()
		return fmt.Errorf("unknown subcommand: %q", subcommand)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `Usage: lattice-keytool <subcommand> [flags]

Subcommands:
  check     Validate key expressions against the grammar
  join      Join two key expressions with a '/' separator
  concat    Concatenate two key-expression fragments without a separator
  wire      Show the wire encoding of expressions against a session
  version   Print version information

Run 'lattice-keytool <subcommand> --help' for subcommand flags.
`)
}

// setupLogging installs a text slog handler on stderr. Subcommand
// output goes to stdout; the logger carries only diagnostics.
func setupLogging(verbose bool) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}
