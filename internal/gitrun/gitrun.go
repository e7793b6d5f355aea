// Package gitrun runs git subprocesses and captures their combined output.
//
// Signature verification has to shell out: the transcript git prints is the
// only complete record of what the crypto layer decided, and no library
// reimplements the allowed-signers checks faithfully. Everything else in
// rootproof reads the object database directly, so this package stays small
// on purpose.
package gitrun

import (
	"context"
	"os/exec"
	"strings"
)

// Runner executes git with the given arguments in a repository directory and
// returns the combined stdout+stderr along with the process exit code.
type Runner interface {
	Run(ctx context.Context, dir string, args ...string) (output string, exitCode int, err error)
}

// Exec is the production Runner backed by the system git binary.
type Exec struct{}

// CheckInstalled reports whether git is available on PATH.
func (Exec) CheckInstalled() bool {
	_, err := exec.LookPath("git")
	return err == nil
}

// Run invokes git. A non-zero exit is not an error here; callers classify the
// transcript themselves. err is non-nil only when the process could not be
// started at all.
func (Exec) Run(ctx context.Context, dir string, args ...string) (string, int, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir

	out, err := cmd.CombinedOutput()
	output := strings.TrimRight(string(out), "\n")

	if err == nil {
		return output, 0, nil
	}
	if exitErr, ok := err.(*exec.ExitError); ok {
		return output, exitErr.ExitCode(), nil
	}
	return output, -1, err
}
