// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Rootproof - Rootproof audits whether a git repository's inception commit establishes a valid cryptographic root of trust.
It verifies the first commit's structure and signature, cross-checks the signer's identity, and derives the repository's did:repo identifier following the Progressive Trust model.

Copyright (C) 2025  Bartek Kus

This program is free software licensed under the terms of the GNU AGPL v3 or later.

See https://www.gnu.org/licenses/ for license details.

*/

// Package commands contains the Cobra subcommands for the rootproof CLI.
package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd constructs the rootproof root Cobra command.
func NewRootCmd() *cobra.Command {
	version := os.Getenv("ROOTPROOF_VERSION")
	if version == "" {
		version = "0.0.0-dev"
	}

	cmd := &cobra.Command{
		Use:           "rootproof",
		Short:         "Rootproof - inception commit trust audits",
		Long:          "Rootproof audits a repository's first commit as a cryptographic root of trust and derives its did:repo identifier.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("verbose", "v", false, "enable verbose output")
	cmd.PersistentFlags().BoolP("quiet", "q", false, "suppress diagnostics")

	// Version command
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number of rootproof",
		Run: func(cmd *cobra.Command, args []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "rootproof version %s\n", version)
		},
	})

	cmd.AddCommand(NewAuditCommand())
	cmd.AddCommand(NewDIDCommand())

	return cmd
}
