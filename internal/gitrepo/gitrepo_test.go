package gitrepo

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocate(t *testing.T) {
	t.Run("valid repository", func(t *testing.T) {
		dir := initRepo(t)
		repo, err := Locate(dir)
		require.NoError(t, err)
		assert.Equal(t, dir, repo.Path)
	})

	t.Run("missing path is an IO error", func(t *testing.T) {
		_, err := Locate(filepath.Join(t.TempDir(), "nope"))
		require.Error(t, err)
		var pathErr *os.PathError
		assert.ErrorAs(t, err, &pathErr)
	})

	t.Run("file is not a directory", func(t *testing.T) {
		dir := t.TempDir()
		file := filepath.Join(dir, "plain.txt")
		require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

		_, err := Locate(file)
		require.Error(t, err)
		var pathErr *os.PathError
		assert.ErrorAs(t, err, &pathErr)
	})

	t.Run("directory without git metadata", func(t *testing.T) {
		_, err := Locate(t.TempDir())
		assert.ErrorIs(t, err, ErrNotRepository)
	})
}

func TestRoots(t *testing.T) {
	t.Run("empty repository has no commits", func(t *testing.T) {
		dir := initRepo(t)
		repo, err := Locate(dir)
		require.NoError(t, err)

		_, err = repo.Roots()
		assert.ErrorIs(t, err, ErrNoCommits)
	})

	t.Run("single root", func(t *testing.T) {
		dir := initRepo(t)
		runGit(t, dir, "commit", "--allow-empty", "-m", "Initialize repository")
		runGit(t, dir, "commit", "--allow-empty", "-m", "second")

		repo, err := Locate(dir)
		require.NoError(t, err)

		roots, err := repo.Roots()
		require.NoError(t, err)
		assert.Len(t, roots, 1)
	})

	t.Run("amended root leaves one reachable root", func(t *testing.T) {
		dir := initRepo(t)
		runGit(t, dir, "commit", "--allow-empty", "-m", "Initialize repository")
		// The superseded root object stays loose until gc; only the
		// reachable one may count.
		runGit(t, dir, "commit", "--amend", "--allow-empty", "-m", "Initialize repository, reworded")

		repo, err := Locate(dir)
		require.NoError(t, err)

		roots, err := repo.Roots()
		require.NoError(t, err)
		assert.Len(t, roots, 1)
	})

	t.Run("orphan branch creates a second root", func(t *testing.T) {
		dir := initRepo(t)
		runGit(t, dir, "commit", "--allow-empty", "-m", "first root")
		runGit(t, dir, "checkout", "--orphan", "rewrite")
		runGit(t, dir, "commit", "--allow-empty", "-m", "second root")

		repo, err := Locate(dir)
		require.NoError(t, err)

		roots, err := repo.Roots()
		require.NoError(t, err)
		assert.Len(t, roots, 2)
	})
}

func TestReadCommitAndTree(t *testing.T) {
	t.Run("empty inception commit", func(t *testing.T) {
		dir := initRepo(t)
		runGit(t, dir, "commit", "--allow-empty", "-m", "Initialize repository")

		repo, err := Locate(dir)
		require.NoError(t, err)
		roots, err := repo.Roots()
		require.NoError(t, err)
		require.Len(t, roots, 1)

		commit, err := repo.ReadCommit(roots[0])
		require.NoError(t, err)
		assert.Equal(t, roots[0], commit.Hash)
		assert.Empty(t, commit.Parents)
		assert.Equal(t, "Test User", commit.Committer.Name)
		assert.Equal(t, "Initialize repository\n", commit.Message)
		assert.False(t, commit.Signed)

		entries, err := repo.TreeEntryCount(commit)
		require.NoError(t, err)
		assert.Zero(t, entries)
	})

	t.Run("root commit carrying a file", func(t *testing.T) {
		dir := initRepo(t)
		require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("hi\n"), 0644))
		runGit(t, dir, "add", "README.md")
		runGit(t, dir, "commit", "-m", "initial with content")

		repo, err := Locate(dir)
		require.NoError(t, err)
		roots, err := repo.Roots()
		require.NoError(t, err)
		require.Len(t, roots, 1)

		commit, err := repo.ReadCommit(roots[0])
		require.NoError(t, err)

		entries, err := repo.TreeEntryCount(commit)
		require.NoError(t, err)
		assert.Equal(t, 1, entries)
	})
}

func TestOriginURL(t *testing.T) {
	dir := initRepo(t)
	repo, err := Locate(dir)
	require.NoError(t, err)
	assert.Empty(t, repo.OriginURL())

	runGit(t, dir, "remote", "add", "origin", "https://github.com/acme/widgets.git")
	repo, err = Locate(dir)
	require.NoError(t, err)
	assert.Equal(t, "https://github.com/acme/widgets.git", repo.OriginURL())
}

func initRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	runGit(t, dir, "init")
	runGit(t, dir, "config", "user.email", "test@example.com")
	runGit(t, dir, "config", "user.name", "Test User")
	runGit(t, dir, "config", "commit.gpgsign", "false")
	return dir
}

func runGit(t *testing.T, dir string, args ...string) {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("git %v failed: %v\nOutput: %s", args, err, out)
	}
}
