// Package sigverify verifies the inception commit's signature by shelling
// out to git and classifying the transcript it prints. The textual parsing
// lives entirely in transcript.go; this file only orchestrates the
// subprocess and the trust-list override.
package sigverify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/bartekus/rootproof/internal/gitrepo"
	"github.com/bartekus/rootproof/internal/gitrun"
)

// ErrMissingConfig means git refused to verify because the repository has no
// usable signing configuration (for SSH signing, no allowedSignersFile).
var ErrMissingConfig = errors.New("signing configuration absent")

// Verifier checks one commit's signature against a trust list.
type Verifier struct {
	Runner gitrun.Runner
	Log    *slog.Logger

	// AllowedSigners, when non-empty, substitutes the trust list for this
	// run only via `-c gpg.ssh.allowedSignersFile=...`. The repository's
	// persistent configuration is never touched, and the engine itself
	// never injects a list the user did not ask for: a commit that only
	// verifies under a substituted list is still a failing commit under the
	// repository's own configuration.
	AllowedSigners string
}

// Verify runs signature verification for commit inside repoPath.
//
// An unsigned commit is answered locally without a subprocess: the commit
// object either carries a signature block or it does not.
func (v *Verifier) Verify(ctx context.Context, repoPath string, commit *gitrepo.Commit) (Result, error) {
	if !commit.Signed {
		return Result{Outcome: OutcomeUnsigned}, nil
	}

	args := []string{}
	if v.AllowedSigners != "" {
		args = append(args, "-c", "gpg.ssh.allowedSignersFile="+v.AllowedSigners)
	}
	args = append(args, "verify-commit", commit.Hash)

	transcript, exitCode, err := v.Runner.Run(ctx, repoPath, args...)
	if err != nil {
		return Result{Outcome: OutcomeError, Transcript: transcript},
			fmt.Errorf("running git verify-commit: %w", err)
	}

	if v.Log != nil {
		v.Log.Debug("verify-commit finished", "commit", commit.Hash, "exit", exitCode)
	}

	if MissingConfig(transcript) {
		return Result{Outcome: OutcomeError, Transcript: transcript}, ErrMissingConfig
	}

	return ParseTranscript(transcript, exitCode), nil
}

// Describe renders an outcome as the short human phrase used in reports.
// Each outcome names its specific reason; remediation differs per case.
func Describe(r Result) string {
	switch r.Outcome {
	case OutcomeValid:
		if r.Principal != "" {
			return fmt.Sprintf("valid signature by %s (%s)", r.Principal, r.Fingerprint)
		}
		return fmt.Sprintf("valid signature (%s)", r.Fingerprint)
	case OutcomePrincipalNotAllowed:
		if r.Fingerprint != "" {
			return fmt.Sprintf("signing key %s is not in the allowed signers list", r.Fingerprint)
		}
		return "signing key is not in the allowed signers list"
	case OutcomeUnsigned:
		return "commit is not signed"
	case OutcomeInvalid:
		return "signature did not verify"
	default:
		return "verification tool error"
	}
}
