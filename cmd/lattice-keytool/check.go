// Copyright 2026 The Lattice Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"errors"
	"fmt"

	"github.com/spf13/pflag"

	"github.com/lattice-foundation/lattice/lib/keyexpr"
	"github.com/lattice-foundation/lattice/messaging"
)

// runCheck validates each argument against the key-expression grammar
// and reports per-expression results. Exits non-zero when any
// expression is invalid, so the command works in scripts and CI.
func runCheck(args []string) error {
	flags := pflag.NewFlagSet("check", pflag.ContinueOnError)
	quiet := flags.Bool("quiet", false, "suppress per-expression output, report via exit code only")
	verbose := flags.Bool("verbose", false, "enable debug logging")
	flags.Usage = func() {
		fmt.Fprintln(flags.Output(), "Usage: lattice-keytool check [flags] <key-expression>...")
		flags.PrintDefaults()
	}
	if err := flags.Parse(args); err != nil {
		return err
	}
	setupLogging(*verbose)

	expressions := flags.Args()
	if len(expressions) == 0 {
		return fmt.Errorf("at least one key expression required")
	}

	invalid := 0
	for _, raw := range expressions {
		key, err := keyexpr.Parse(raw)
		if err != nil {
			invalid++
			if !*quiet {
				fmt.Printf("invalid  %q: %v\n", raw, reason(err))
			}
			continue
		}
		if !*quiet {
			kind := "key"
			if key.IsWild() {
				kind = "wild"
			}
			fmt.Printf("ok       %q (%s, %d segments)\n", raw, kind, len(key.Segments()))
		}
	}
	if invalid > 0 {
		return fmt.Errorf("%d of %d expressions invalid", invalid, len(expressions))
	}
	return nil
}

// composeJoin and composeConcat adapt the two composition operators
// to a common shape for runCompose.
func composeJoin(base messaging.Expr, suffix string) (messaging.Expr, error) {
	return base.Join(suffix)
}

func composeConcat(base messaging.Expr, suffix string) (messaging.Expr, error) {
	return base.Concat(suffix)
}

// runCompose parses the base expression, applies the composition
// operator, and prints the resulting expression.
func runCompose(args []string, compose func(messaging.Expr, string) (messaging.Expr, error)) error {
	flags := pflag.NewFlagSet("compose", pflag.ContinueOnError)
	verbose := flags.Bool("verbose", false, "enable debug logging")
	flags.Usage = func() {
		fmt.Fprintln(flags.Output(), "Usage: lattice-keytool join|concat [flags] <base> <suffix>")
		flags.PrintDefaults()
	}
	if err := flags.Parse(args); err != nil {
		return err
	}
	setupLogging(*verbose)

	if flags.NArg() != 2 {
		return fmt.Errorf("expected 2 positional arguments (base, suffix), got %d", flags.NArg())
	}

	base, err := messaging.ParseExpr(flags.Arg(0))
	if err != nil {
		return fmt.Errorf("base expression: %w", err)
	}
	result, err := compose(base, flags.Arg(1))
	if err != nil {
		var ambiguous *messaging.AmbiguousConcatError
		if errors.As(err, &ambiguous) {
			return fmt.Errorf("refusing ambiguous concatenation: %w", err)
		}
		return err
	}
	fmt.Println(result)
	return nil
}

// reason strips the "invalid key expression %q:" prefix from an
// InvalidError when the expression is already being printed, to avoid
// repeating it on the same line.
func reason(err error) string {
	var invalid *keyexpr.InvalidError
	if errors.As(err, &invalid) {
		return invalid.Reason
	}
	return err.Error()
}
