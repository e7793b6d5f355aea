package sigverify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAllowedSigners(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		want    []Entry
		wantErr bool
	}{
		{
			name: "single entry",
			data: "alice@example.com ssh-ed25519 AAAAC3NzaC1lZDI1NTE5AAAAIKj8 alice laptop\n",
			want: []Entry{{
				Principals: []string{"alice@example.com"},
				KeyType:    "ssh-ed25519",
				Key:        "AAAAC3NzaC1lZDI1NTE5AAAAIKj8",
			}},
		},
		{
			name: "namespaces option and multiple principals",
			data: `alice@example.com,bob@example.com namespaces="git" ssh-ed25519 AAAAC3NzaC1lZDI1NTE5AAAAIKj8` + "\n",
			want: []Entry{{
				Principals: []string{"alice@example.com", "bob@example.com"},
				Namespaces: "git",
				KeyType:    "ssh-ed25519",
				Key:        "AAAAC3NzaC1lZDI1NTE5AAAAIKj8",
			}},
		},
		{
			name: "comments and blank lines ignored",
			data: "# trusted signers\n\nalice@example.com ssh-ed25519 AAAA\n",
			want: []Entry{{
				Principals: []string{"alice@example.com"},
				KeyType:    "ssh-ed25519",
				Key:        "AAAA",
			}},
		},
		{
			name: "empty file",
			data: "",
			want: nil,
		},
		{
			name:    "truncated line",
			data:    "alice@example.com ssh-ed25519\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAllowedSigners(tt.data)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHasPrincipal(t *testing.T) {
	entries := []Entry{
		{Principals: []string{"alice@example.com", "bob@example.com"}},
		{Principals: []string{"carol@example.com"}},
	}

	assert.True(t, HasPrincipal(entries, "bob@example.com"))
	assert.True(t, HasPrincipal(entries, "carol@example.com"))
	assert.False(t, HasPrincipal(entries, "mallory@example.com"))
}
