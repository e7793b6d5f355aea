package commands

import (
	"bytes"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bartekus/rootproof/cmd/rootproof/internal/clierr"
)

func execRoot(t *testing.T, args ...string) (stdout string, err error) {
	t.Helper()
	cmd := NewRootCmd()
	out := bytes.NewBufferString("")
	cmd.SetOut(out)
	cmd.SetErr(bytes.NewBufferString(""))
	cmd.SetArgs(args)
	err = cmd.Execute()
	return out.String(), err
}

func TestAuditCommandNotARepository(t *testing.T) {
	dir := t.TempDir()

	out, err := execRoot(t, "audit", "--color", "never", dir)
	require.Error(t, err)
	assert.Equal(t, clierr.CodeRepository, clierr.ExitCodeOf(err))
	assert.Contains(t, err.Error(), "not a git repository")
	assert.Contains(t, out, "Verdict: FAILURE")
}

func TestAuditCommandMissingPath(t *testing.T) {
	_, err := execRoot(t, "audit", filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	assert.Equal(t, clierr.CodeIO, clierr.ExitCodeOf(err))
}

func TestAuditCommandUnsignedRepository(t *testing.T) {
	dir := initTestRepo(t)
	gitIn(t, dir, "commit", "--allow-empty", "-m", "Initialize repository")

	out, err := execRoot(t, "audit", "--color", "never", dir)
	require.Error(t, err)
	assert.Equal(t, clierr.CodeRepository, clierr.ExitCodeOf(err))
	assert.Contains(t, err.Error(), "not signed")
	assert.Contains(t, out, "did:repo:")
}

func TestAuditCommandJSONFormat(t *testing.T) {
	dir := initTestRepo(t)
	gitIn(t, dir, "commit", "--allow-empty", "-m", "Initialize repository")

	out, err := execRoot(t, "audit", "--format", "json", dir)
	require.Error(t, err) // unsigned, so the audit fails
	assert.Contains(t, out, `"verdict": "failure"`)
	assert.Contains(t, out, `"phase": "signature"`)
}

func TestAuditCommandRejectsUnknownFormat(t *testing.T) {
	_, err := execRoot(t, "audit", "--format", "xml", t.TempDir())
	require.Error(t, err)
	assert.Equal(t, clierr.CodeUsage, clierr.ExitCodeOf(err))
}

func TestDIDCommand(t *testing.T) {
	dir := initTestRepo(t)
	gitIn(t, dir, "commit", "--allow-empty", "-m", "Initialize repository")

	out, err := execRoot(t, "did", dir)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "did:repo:"), "got %q", out)

	// Amending the root leaves the old object loose; the DID must follow
	// the reachable root, not fail on the leftover.
	gitIn(t, dir, "commit", "--amend", "--allow-empty", "-m", "Initialize repository, reworded")
	amended, err := execRoot(t, "did", dir)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(amended, "did:repo:"), "got %q", amended)
	assert.NotEqual(t, out, amended)

	_, err = execRoot(t, "did", t.TempDir())
	require.Error(t, err)
	assert.Equal(t, clierr.CodeRepository, clierr.ExitCodeOf(err))
}

func initTestRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	gitIn(t, dir, "init")
	gitIn(t, dir, "config", "user.email", "test@example.com")
	gitIn(t, dir, "config", "user.name", "Test User")
	gitIn(t, dir, "config", "commit.gpgsign", "false")
	return dir
}

func gitIn(t *testing.T, dir string, args ...string) {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("git %v failed: %v\nOutput: %s", args, err, out)
	}
}
