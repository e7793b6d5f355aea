package gitrepo

import (
	"sort"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// emptyTreeHash is the well-known hash of the tree with zero entries. Git
// treats it as always present, so check against it before trying to read the
// tree object, which may not exist physically in every repository.
const emptyTreeHash = "4b825dc642cb6eb9a060e54bf8d69288fbee4904"

// Roots returns the hashes of all zero-parent commits reachable from the
// repository's references, sorted lexicographically so repeated runs agree
// on ordering. An inception commit exists iff exactly one root exists.
//
// Reachability matters: the object database also holds superseded objects
// (an amended root commit stays loose until gc), and counting those would
// flip the verdict depending on when garbage collection last ran. Only what
// the refs can reach is part of the repository's history.
func (r *Repository) Roots() ([]string, error) {
	refs, err := r.repo.References()
	if err != nil {
		return nil, err
	}
	defer refs.Close()

	seen := make(map[plumbing.Hash]bool)
	roots := make(map[string]bool)
	reached := 0

	err = refs.ForEach(func(ref *plumbing.Reference) error {
		if ref.Type() != plumbing.HashReference {
			return nil
		}
		start, err := r.repo.CommitObject(ref.Hash())
		if err != nil {
			// Refs to tag objects, blobs or missing targets carry no
			// commit history of their own.
			return nil
		}
		iter := object.NewCommitIterBSF(start, seen, nil)
		defer iter.Close()
		return iter.ForEach(func(c *object.Commit) error {
			// The iterator consults the shared map but does not write to
			// it; marking here keeps later refs from re-walking ancestry.
			if seen[c.Hash] {
				return nil
			}
			seen[c.Hash] = true
			reached++
			if c.NumParents() == 0 {
				roots[c.Hash.String()] = true
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	if reached == 0 {
		return nil, ErrNoCommits
	}

	sorted := make([]string, 0, len(roots))
	for hash := range roots {
		sorted = append(sorted, hash)
	}
	sort.Strings(sorted)
	return sorted, nil
}

// ReadCommit loads one commit object by hex hash.
func (r *Repository) ReadCommit(hash string) (*Commit, error) {
	c, err := r.repo.CommitObject(plumbing.NewHash(hash))
	if err != nil {
		return nil, err
	}

	parents := make([]string, 0, c.NumParents())
	for _, p := range c.ParentHashes {
		parents = append(parents, p.String())
	}

	return &Commit{
		Hash:     c.Hash.String(),
		Parents:  parents,
		TreeHash: c.TreeHash.String(),
		Author: Identity{
			Name:  c.Author.Name,
			Email: c.Author.Email,
			When:  c.Author.When,
		},
		Committer: Identity{
			Name:  c.Committer.Name,
			Email: c.Committer.Email,
			When:  c.Committer.When,
		},
		Message: c.Message,
		Signed:  c.PGPSignature != "",
	}, nil
}

// TreeEntryCount returns how many entries the commit's tree carries. A
// conformant inception commit carries zero: metadata and message only.
func (r *Repository) TreeEntryCount(commit *Commit) (int, error) {
	if commit.TreeHash == emptyTreeHash {
		return 0, nil
	}
	tree, err := r.repo.TreeObject(plumbing.NewHash(commit.TreeHash))
	if err != nil {
		return 0, err
	}
	return len(tree.Entries), nil
}
