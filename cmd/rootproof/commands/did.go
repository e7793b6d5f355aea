// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bartekus/rootproof/cmd/rootproof/internal/clierr"
	"github.com/bartekus/rootproof/internal/audit"
	"github.com/bartekus/rootproof/internal/gitrepo"
)

// NewDIDCommand returns the `rootproof did` command, which prints only the
// repository's did:repo identifier for scripting.
func NewDIDCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "did [path]",
		Short: "Print the repository's did:repo identifier",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "."
			if len(args) == 1 {
				path = args[0]
			}

			repo, err := gitrepo.Locate(path)
			if err != nil {
				if errors.Is(err, gitrepo.ErrNotRepository) {
					return clierr.Repository("not a repository", err)
				}
				return clierr.IO("locating repository", err)
			}

			roots, err := repo.Roots()
			if err != nil {
				return clierr.Repository("finding inception commit", err)
			}
			if len(roots) != 1 {
				return clierr.Newf(clierr.CodeRepository,
					"expected exactly one root commit, found %d", len(roots))
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), audit.FormatDID(roots[0]))
			return err
		},
	}
}
