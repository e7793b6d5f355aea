package audit

import (
	"fmt"
	"strings"
)

// DIDPrefix is the method prefix of the did:repo identifier scheme.
const DIDPrefix = "did:repo:"

// FormatDID derives the repository's decentralized identifier from its
// inception commit hash. The DID is always recomputed, never stored.
func FormatDID(inceptionHash string) string {
	return DIDPrefix + inceptionHash
}

// ParseDID extracts the inception commit hash from a did:repo identifier.
func ParseDID(did string) (string, error) {
	hash, ok := strings.CutPrefix(did, DIDPrefix)
	if !ok {
		return "", fmt.Errorf("not a did:repo identifier: %q", did)
	}
	if !isHexHash(hash) {
		return "", fmt.Errorf("malformed commit hash in %q", did)
	}
	return hash, nil
}

// isHexHash accepts SHA-1 and SHA-256 object names.
func isHexHash(s string) bool {
	if len(s) != 40 && len(s) != 64 {
		return false
	}
	for _, r := range s {
		if (r < '0' || r > '9') && (r < 'a' || r > 'f') {
			return false
		}
	}
	return true
}
