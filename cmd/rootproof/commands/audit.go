// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/bartekus/rootproof/cmd/rootproof/internal/clierr"
	"github.com/bartekus/rootproof/internal/audit"
	"github.com/bartekus/rootproof/internal/config"
	"github.com/bartekus/rootproof/internal/gitrun"
	"github.com/bartekus/rootproof/internal/logging"
	"github.com/bartekus/rootproof/internal/platform"
	"github.com/bartekus/rootproof/internal/report"
)

var (
	auditAllowedSigners string
	auditFormat         string
	auditColor          string
	auditInteractive    bool
)

// NewAuditCommand returns the `rootproof audit` command.
func NewAuditCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit [path]",
		Short: "Audit a repository's inception commit as a root of trust",
		Long: `Audit runs the progressive-trust phases against a repository's first
commit: structure (single empty root), signature verification, identity
cross-check, and an optional advisory platform-standards query. The full
phase-by-phase record is reported and the process exit code classifies the
outcome.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runAudit,
	}

	cmd.Flags().StringVar(&auditAllowedSigners, "allowed-signers", "",
		"verify against this allowed-signers file instead of the repository's configured one")
	cmd.Flags().StringVar(&auditFormat, "format", "text", "output format: text, json or yaml")
	cmd.Flags().StringVar(&auditColor, "color", "auto", "color output: auto, always or never")
	cmd.Flags().BoolVarP(&auditInteractive, "interactive", "i", false,
		"allow interactive prompts (enables the advisory platform check)")

	return cmd
}

func runAudit(cmd *cobra.Command, args []string) error {
	path := "."
	if len(args) == 1 {
		path = args[0]
	}

	format, err := report.ParseFormat(auditFormat)
	if err != nil {
		return clierr.Usage(err.Error())
	}

	log := logging.New(cmd.ErrOrStderr(), verbosityLevel(cmd))

	cfg, err := config.Load(path)
	if err != nil {
		return clierr.Config("loading configuration", err)
	}

	allowedSigners := auditAllowedSigners
	if allowedSigners == "" {
		allowedSigners = cfg.AllowedSigners
	}

	engine := &audit.Engine{
		Runner:         gitrun.Exec{},
		Log:            log,
		AllowedSigners: allowedSigners,
		Platform: &platform.Client{
			BaseURL: cfg.GitHubAPIURL,
			Token:   cfg.GitHubToken,
			Log:     log,
		},
	}

	// The advisory phase prompts before touching the network, and only when
	// a human is actually on the other end. Non-interactive runs skip it.
	if auditInteractive && isatty.IsTerminal(os.Stdin.Fd()) {
		engine.Confirm = confirmPlatformQuery
	}

	rec := engine.Audit(cmd.Context(), path)

	renderer := report.Renderer{Color: useColor(cfg)}
	if err := renderer.Render(cmd.OutOrStdout(), rec, format); err != nil {
		return err
	}

	return exitErrorFor(rec)
}

func confirmPlatformQuery() bool {
	ok := false
	form := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title("Query GitHub for community-standard artifacts?").
			Value(&ok),
	))
	if err := form.Run(); err != nil {
		return false
	}
	return ok
}

func verbosityLevel(cmd *cobra.Command) logging.Level {
	if quiet, _ := cmd.Flags().GetBool("quiet"); quiet {
		return logging.LevelQuiet
	}
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		return logging.LevelVerbose
	}
	return logging.LevelNormal
}

func useColor(cfg config.Config) bool {
	switch auditColor {
	case "always":
		return true
	case "never":
		return false
	}
	if cfg.NoColor {
		return false
	}
	return isatty.IsTerminal(os.Stdout.Fd())
}

// exitErrorFor translates the aggregated record into the process exit
// classification. This is the single place that mapping happens; everything
// below returns typed results.
func exitErrorFor(rec *audit.Record) error {
	if rec.ExitClass == audit.ExitSuccess {
		return nil
	}

	msg := failureMessage(rec)
	switch rec.ExitClass {
	case audit.ExitUsageError:
		return clierr.Usage(msg)
	case audit.ExitIOError:
		return clierr.New(clierr.CodeIO, msg)
	case audit.ExitConfigError:
		return clierr.New(clierr.CodeConfig, msg)
	case audit.ExitDependencyMissing:
		return clierr.New(clierr.CodeDependencyMissing, msg)
	default:
		return clierr.New(clierr.CodeRepository, msg)
	}
}

// failureMessage names the specific reason the audit failed; the remediation
// for "unsigned" differs from "principal not allowed", so a generic failure
// string would not do.
func failureMessage(rec *audit.Record) string {
	for _, p := range rec.Phases {
		if p.Outcome == audit.OutcomeFail {
			return fmt.Sprintf("%s: %s", p.Phase.Title(), p.Detail)
		}
	}
	return "audit failed"
}
