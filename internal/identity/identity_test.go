package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bartekus/rootproof/internal/gitrepo"
)

const fp = "SHA256:qeDdvEOWtCO5ivAOq9Q8HCm9bh5E8aHKSV2jJfnVWPA"

func commit(authorName, authorEmail, committerName, committerEmail, message string) *gitrepo.Commit {
	return &gitrepo.Commit{
		Author:    gitrepo.Identity{Name: authorName, Email: authorEmail},
		Committer: gitrepo.Identity{Name: committerName, Email: committerEmail},
		Message:   message,
	}
}

func TestAffirm(t *testing.T) {
	tests := []struct {
		name            string
		commit          *gitrepo.Commit
		fingerprint     string
		wantFingerprint bool
		wantConsistent  bool
	}{
		{
			name:            "self certifying commit",
			commit:          commit(fp, "a@x.test", fp, "a@x.test", "Initialize repository\n"),
			fingerprint:     fp,
			wantFingerprint: true,
			wantConsistent:  true,
		},
		{
			name:            "committer is a plain name, not the fingerprint",
			commit:          commit("Alice", "a@x.test", "Alice", "a@x.test", "init\n"),
			fingerprint:     fp,
			wantFingerprint: false,
			wantConsistent:  true,
		},
		{
			name:            "no fingerprint available",
			commit:          commit(fp, "a@x.test", fp, "a@x.test", "init\n"),
			fingerprint:     "",
			wantFingerprint: false,
			wantConsistent:  true,
		},
		{
			name: "delegated commit with matching sign-off",
			commit: commit("Alice", "alice@x.test", fp, "bot@x.test",
				"Initialize repository\n\nSigned-off-by: Alice <alice@x.test>\n"),
			fingerprint:     fp,
			wantFingerprint: true,
			wantConsistent:  true,
		},
		{
			name: "sign-off email match is case insensitive",
			commit: commit("Alice", "Alice@X.test", fp, "bot@x.test",
				"init\n\nSigned-off-by: Someone Else <alice@x.test>\n"),
			fingerprint:     fp,
			wantFingerprint: true,
			wantConsistent:  true,
		},
		{
			name:            "delegated commit without sign-off",
			commit:          commit("Alice", "alice@x.test", fp, "bot@x.test", "init\n"),
			fingerprint:     fp,
			wantFingerprint: true,
			wantConsistent:  false,
		},
		{
			name: "sign-off names someone else entirely",
			commit: commit("Alice", "alice@x.test", fp, "bot@x.test",
				"init\n\nSigned-off-by: Mallory <mallory@x.test>\n"),
			fingerprint:     fp,
			wantFingerprint: true,
			wantConsistent:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Affirm(tt.commit, tt.fingerprint)
			assert.Equal(t, tt.wantFingerprint, got.CommitterNameIsFingerprint, "fingerprint check")
			assert.Equal(t, tt.wantConsistent, got.AuthorCommitterConsistent, "consistency check")
			assert.Equal(t, tt.wantFingerprint && tt.wantConsistent, got.OK())
			assert.NotEmpty(t, got.Details)
		})
	}
}
