// Package gitrepo locates a git repository and reads the commit objects the
// audit needs. It goes through go-git's object database rather than parsing
// porcelain output; object formats are stable across git versions where the
// textual output is not.
package gitrepo

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-git/go-git/v5"
)

var (
	// ErrNotRepository means the path exists but is not a git repository.
	ErrNotRepository = errors.New("not a git repository")

	// ErrNoCommits means the repository has no commit objects at all.
	ErrNoCommits = errors.New("no commits found")
)

// Identity is a name/email/timestamp triple as recorded on a commit.
type Identity struct {
	Name  string
	Email string
	When  time.Time
}

// Commit is a read-only snapshot of one commit object.
type Commit struct {
	Hash      string
	Parents   []string
	TreeHash  string
	Author    Identity
	Committer Identity
	Message   string
	Signed    bool
}

// Repository is a validated handle on an opened repository.
type Repository struct {
	// Path is the absolute path the repository was opened from.
	Path string

	repo *git.Repository
}

// Locate validates path and opens it as a git repository. The probe is
// cheap: it checks the path is a readable directory and that git metadata is
// present, not that the object store is intact.
//
// A missing or unreadable path returns an *os.PathError; a readable
// directory without git metadata returns ErrNotRepository.
func Locate(path string) (*Repository, error) {
	if path == "" {
		path = "."
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(abs)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, &os.PathError{Op: "open", Path: abs, Err: errors.New("not a directory")}
	}

	repo, err := git.PlainOpenWithOptions(abs, &git.PlainOpenOptions{DetectDotGit: false})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return nil, fmt.Errorf("%s: %w", abs, ErrNotRepository)
		}
		return nil, err
	}

	return &Repository{Path: abs, repo: repo}, nil
}

// OriginURL returns the fetch URL of the "origin" remote, or "" when the
// repository has none.
func (r *Repository) OriginURL() string {
	remote, err := r.repo.Remote("origin")
	if err != nil {
		return ""
	}
	urls := remote.Config().URLs
	if len(urls) == 0 {
		return ""
	}
	return urls[0]
}
