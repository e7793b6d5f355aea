// Package audit drives the progressive-trust assessment of a repository's
// inception commit and aggregates phase outcomes into one record.
//
// The engine collects before it decides: every phase runs to completion even
// when an earlier one failed, so one invocation yields the full diagnostic
// picture. The single exception is the locate phase: without a repository
// no later phase has valid input, so its failure goes straight to the
// terminal state.
package audit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bartekus/rootproof/internal/gitrepo"
	"github.com/bartekus/rootproof/internal/gitrun"
	"github.com/bartekus/rootproof/internal/identity"
	"github.com/bartekus/rootproof/internal/platform"
	"github.com/bartekus/rootproof/internal/sigverify"
)

// state tracks the engine's position in the phase sequence. Transitions are
// strictly forward; there is no retry or re-entry.
type state int

const (
	stateInit state = iota
	stateLocate
	stateStructure
	stateSignature
	stateIdentity
	stateCompliance
	stateAggregate
	stateTerminal
)

// Engine audits one repository per invocation. It is stateless across runs:
// every Audit call builds a fresh Record and touches nothing on disk.
type Engine struct {
	Runner gitrun.Runner
	Log    *slog.Logger

	// AllowedSigners substitutes the signature trust list for this run.
	AllowedSigners string

	// Platform performs the advisory compliance query; nil disables it.
	Platform *platform.Client

	// Confirm gates the advisory phase. nil (non-interactive) means skip,
	// never block.
	Confirm func() bool
}

// installChecker is implemented by runners that can probe for the git
// binary. Stub runners in tests don't need to.
type installChecker interface {
	CheckInstalled() bool
}

// Audit runs every phase against path and returns the completed record. It
// always returns a record, never an error: failures are phase outcomes, and
// the caller derives the process exit from Record.ExitClass.
func (e *Engine) Audit(ctx context.Context, path string) *Record {
	rec := &Record{Path: path, Verdict: VerdictFailure, ExitClass: ExitRepositoryError}

	st := stateInit
	var (
		repo      *gitrepo.Repository
		inception *gitrepo.Commit
		sig       sigverify.Result
	)

	for st != stateTerminal {
		switch st {
		case stateInit:
			st = stateLocate

		case stateLocate:
			var err error
			repo, err = gitrepo.Locate(path)
			if err != nil {
				rec.append(PhaseLocate, OutcomeFail, err.Error())
				rec.ExitClass = locateExitClass(err)
				st = stateTerminal
				continue
			}
			rec.Path = repo.Path
			rec.append(PhaseLocate, OutcomePass, repo.Path)
			st = stateStructure

		case stateStructure:
			inception = e.assessStructure(rec, repo)
			st = stateSignature

		case stateSignature:
			sig = e.verifySignature(ctx, rec, repo, inception)
			st = stateIdentity

		case stateIdentity:
			e.affirmIdentity(rec, inception, sig)
			st = stateCompliance

		case stateCompliance:
			e.checkCompliance(ctx, rec, repo)
			st = stateAggregate

		case stateAggregate:
			e.aggregate(rec)
			st = stateTerminal
		}
	}

	return rec
}

// locateExitClass maps a locate failure: a readable directory without git
// metadata is a repository problem, everything else is an IO problem.
func locateExitClass(err error) ExitClass {
	if errors.Is(err, gitrepo.ErrNotRepository) {
		return ExitRepositoryError
	}
	return ExitIOError
}

// assessStructure enumerates root commits and checks the inception commit's
// shape. It returns the inception commit for the later phases, or nil when
// none could be pinned down.
func (e *Engine) assessStructure(rec *Record, repo *gitrepo.Repository) *gitrepo.Commit {
	roots, err := repo.Roots()
	if err != nil {
		rec.append(PhaseStructure, OutcomeFail, err.Error())
		return nil
	}

	// Exactly one root is conformant. More than one means the history was
	// grafted or merged from unrelated lines, so no single root of trust
	// exists; this hard-fails the phase.
	if len(roots) != 1 {
		rec.append(PhaseStructure, OutcomeFail,
			fmt.Sprintf("expected exactly one root commit, found %d: %s",
				len(roots), strings.Join(roots, ", ")))
		return nil
	}

	commit, err := repo.ReadCommit(roots[0])
	if err != nil {
		rec.append(PhaseStructure, OutcomeFail,
			fmt.Sprintf("reading inception commit %s: %v", roots[0], err))
		return nil
	}

	rec.InceptionHash = commit.Hash
	rec.DID = FormatDID(commit.Hash)

	entries, err := repo.TreeEntryCount(commit)
	if err != nil {
		rec.append(PhaseStructure, OutcomeFail,
			fmt.Sprintf("reading inception tree %s: %v", commit.TreeHash, err))
		return commit
	}
	if entries != 0 {
		rec.append(PhaseStructure, OutcomeFail, fmt.Sprintf(
			"inception commit must carry no files, tree has %d entr%s",
			entries, plural(entries, "y", "ies")))
		return commit
	}

	rec.append(PhaseStructure, OutcomePass,
		fmt.Sprintf("single empty root commit %s", commit.Hash))
	return commit
}

func (e *Engine) verifySignature(ctx context.Context, rec *Record, repo *gitrepo.Repository, inception *gitrepo.Commit) sigverify.Result {
	if inception == nil {
		rec.append(PhaseSignature, OutcomeSkipped, "no inception commit to verify")
		return sigverify.Result{}
	}

	if chk, ok := e.Runner.(installChecker); ok && !chk.CheckInstalled() {
		rec.append(PhaseSignature, OutcomeFail, "git is not installed")
		rec.ExitClass = ExitDependencyMissing
		return sigverify.Result{}
	}

	verifier := &sigverify.Verifier{
		Runner:         e.Runner,
		Log:            e.Log,
		AllowedSigners: e.AllowedSigners,
	}
	res, err := verifier.Verify(ctx, repo.Path, inception)
	if err != nil {
		if errors.Is(err, sigverify.ErrMissingConfig) {
			rec.append(PhaseSignature, OutcomeFail,
				"signing configuration absent: gpg.ssh.allowedSignersFile is not set")
			rec.ExitClass = ExitConfigError
			return res
		}
		rec.append(PhaseSignature, OutcomeFail, err.Error())
		return res
	}

	detail := sigverify.Describe(res)
	if note := e.signersNote(); note != "" {
		detail += " (" + note + ")"
	}

	if res.Outcome == sigverify.OutcomeValid {
		rec.Fingerprint = res.Fingerprint
		rec.append(PhaseSignature, OutcomePass, detail)
	} else {
		rec.append(PhaseSignature, OutcomeFail, detail)
	}
	return res
}

// signersNote summarizes an explicit trust-list override for the report.
func (e *Engine) signersNote() string {
	if e.AllowedSigners == "" {
		return ""
	}
	entries, err := sigverify.LoadAllowedSigners(e.AllowedSigners)
	if err != nil {
		return fmt.Sprintf("allowed signers override unreadable: %v", err)
	}
	if len(entries) == 0 {
		return "allowed signers override is empty"
	}
	return fmt.Sprintf("checked against %d allowed signer%s", len(entries), plural(len(entries), "", "s"))
}

// affirmIdentity runs the References phase. Identity mismatches are
// advisory: they warn but never alter the verdict or exit class.
func (e *Engine) affirmIdentity(rec *Record, inception *gitrepo.Commit, sig sigverify.Result) {
	if inception == nil {
		rec.append(PhaseIdentity, OutcomeSkipped, "no inception commit to check")
		return
	}

	assertion := identity.Affirm(inception, sig.Fingerprint)
	detail := strings.Join(assertion.Details, "; ")
	if assertion.OK() {
		rec.append(PhaseIdentity, OutcomePass, detail)
	} else {
		rec.append(PhaseIdentity, OutcomeWarn, detail)
	}
}

// checkCompliance runs the advisory Requirements phase. Every path out of
// here is Pass, Warn or Skipped, never Fail.
func (e *Engine) checkCompliance(ctx context.Context, rec *Record, repo *gitrepo.Repository) {
	if e.Platform == nil {
		rec.append(PhaseCompliance, OutcomeSkipped, "platform check disabled")
		return
	}
	if e.Confirm == nil {
		rec.append(PhaseCompliance, OutcomeSkipped, "non-interactive run, platform check skipped")
		return
	}
	if !e.Confirm() {
		rec.append(PhaseCompliance, OutcomeSkipped, "platform check declined")
		return
	}

	origin := repo.OriginURL()
	if origin == "" {
		rec.append(PhaseCompliance, OutcomeSkipped, "repository has no origin remote")
		return
	}
	owner, name, ok := platform.ParseSlug(origin)
	if !ok {
		rec.append(PhaseCompliance, OutcomeSkipped,
			fmt.Sprintf("origin %s is not a GitHub remote", origin))
		return
	}

	profile, err := e.Platform.CommunityProfile(ctx, owner, name)
	if err != nil {
		rec.append(PhaseCompliance, OutcomeWarn,
			fmt.Sprintf("platform unreachable: %v", err))
		return
	}

	if len(profile.MissingFiles) > 0 {
		rec.append(PhaseCompliance, OutcomeWarn, fmt.Sprintf(
			"community standards %d%% complete, missing: %s",
			profile.HealthPercentage, strings.Join(profile.MissingFiles, ", ")))
		return
	}
	rec.append(PhaseCompliance, OutcomePass,
		fmt.Sprintf("community standards %d%% complete", profile.HealthPercentage))
}

// aggregate derives the verdict and exit classification from the collected
// phases. Success requires the two critical phases, structure and
// signature, to pass; identity and compliance inform but do not gate, and
// the advisory phase can never downgrade the classification.
func (e *Engine) aggregate(rec *Record) {
	structure := rec.Phase(PhaseStructure)
	signature := rec.Phase(PhaseSignature)

	if structure != nil && structure.Outcome == OutcomePass &&
		signature != nil && signature.Outcome == OutcomePass {
		rec.Verdict = VerdictSuccess
		rec.ExitClass = ExitSuccess
		return
	}

	rec.Verdict = VerdictFailure
	// Signature-phase setup failures (missing tool, missing config) set a
	// more specific class while running; everything else is a repository
	// failure.
	if rec.ExitClass == ExitSuccess || rec.ExitClass == "" {
		rec.ExitClass = ExitRepositoryError
	}
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
