// Package identity cross-checks the inception commit's recorded identities
// against the verified signing key.
//
// The design mandate is self-certification: the committer name field holds
// the signing key's fingerprint, so the commit alone proves who sealed it,
// with no directory lookup. Author and committer may differ only when a
// sign-off trailer names the author, covering commits created on another
// identity's behalf.
package identity

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/bartekus/rootproof/internal/gitrepo"
)

// Assertion is the outcome of the identity cross-check.
type Assertion struct {
	CommitterNameIsFingerprint bool
	AuthorCommitterConsistent  bool
	Details                    []string
}

// OK reports whether every identity check held.
func (a Assertion) OK() bool {
	return a.CommitterNameIsFingerprint && a.AuthorCommitterConsistent
}

var signOffPattern = regexp.MustCompile(`(?m)^Signed-off-by:\s*(.+?)\s*<(.+?)>\s*$`)

// Affirm checks commit against the fingerprint recovered from signature
// verification. fingerprint may be empty when verification failed; the
// committer check then fails with a detail naming the missing input.
func Affirm(commit *gitrepo.Commit, fingerprint string) Assertion {
	var a Assertion

	switch {
	case fingerprint == "":
		a.Details = append(a.Details,
			"no verified fingerprint available to compare against the committer")
	case commit.Committer.Name == fingerprint:
		a.CommitterNameIsFingerprint = true
		a.Details = append(a.Details,
			fmt.Sprintf("committer matches signing key fingerprint %s", fingerprint))
	default:
		a.Details = append(a.Details, fmt.Sprintf(
			"committer %q does not match signing key fingerprint %q",
			commit.Committer.Name, fingerprint))
	}

	a.AuthorCommitterConsistent, a.Details = checkAuthorCommitter(commit, a.Details)
	return a
}

func checkAuthorCommitter(commit *gitrepo.Commit, details []string) (bool, []string) {
	if commit.Author.Name == commit.Committer.Name && commit.Author.Email == commit.Committer.Email {
		return true, append(details, "author and committer identities match")
	}

	// Delegated commit: a sign-off trailer must name the author.
	for _, m := range signOffPattern.FindAllStringSubmatch(commit.Message, -1) {
		name, email := m[1], m[2]
		if name == commit.Author.Name || strings.EqualFold(email, commit.Author.Email) {
			return true, append(details, fmt.Sprintf(
				"author differs from committer but is named by sign-off %q <%s>", name, email))
		}
	}

	return false, append(details, fmt.Sprintf(
		"author %q <%s> differs from committer %q <%s> with no matching sign-off trailer",
		commit.Author.Name, commit.Author.Email,
		commit.Committer.Name, commit.Committer.Email))
}
