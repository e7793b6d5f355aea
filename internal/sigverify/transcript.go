package sigverify

import (
	"regexp"
	"strings"
)

// Outcome classifies a signature-verification transcript.
type Outcome string

const (
	// OutcomeValid: cryptographically sound and the key maps to a trusted
	// principal.
	OutcomeValid Outcome = "valid"

	// OutcomeInvalid: a signature is present but verification rejected it.
	OutcomeInvalid Outcome = "invalid_signature"

	// OutcomePrincipalNotAllowed: the signature is sound but the key is not
	// in the allowed-signers set. Distinct from OutcomeInvalid because the
	// remediation differs: add the key, don't re-sign.
	OutcomePrincipalNotAllowed Outcome = "principal_not_allowed"

	// OutcomeUnsigned: the commit carries no signature at all.
	OutcomeUnsigned Outcome = "unsigned"

	// OutcomeError: the tool itself failed before reaching a verdict.
	OutcomeError Outcome = "verification_error"
)

// Result is the parsed verdict of one verification run.
type Result struct {
	Outcome     Outcome
	Fingerprint string // algorithm-tagged, e.g. "SHA256:qeD..."
	KeyType     string // e.g. "ED25519"
	Principal   string // allowed-signers principal the key matched, if any
	Transcript  string // full combined tool output, verbatim
}

// The patterns below are pinned to git's verify-commit output for SSH and
// GPG signing. They are the single point of coupling to git's textual
// format; when a git release changes wording, this file and its tests are
// the only things to touch.
var (
	sshGoodFor   = regexp.MustCompile(`Good "git" signature for (\S+) with ([A-Z0-9-]+) key (\S+)`)
	sshGoodNoFor = regexp.MustCompile(`Good "git" signature with ([A-Z0-9-]+) key (\S+)`)
	sshKeyOnly   = regexp.MustCompile(`with ([A-Z0-9-]+) key (SHA256:[A-Za-z0-9+/=]+)`)

	gpgGood = regexp.MustCompile(`gpg: Good signature from "([^"]+)"`)
	gpgKey  = regexp.MustCompile(`using ([A-Z0-9]+) key ([0-9A-F]+)`)
)

// missingConfigMarkers indicate verification could not even start because the
// repository has no usable signing configuration. Callers surface this as a
// configuration problem, not as a signature verdict.
var missingConfigMarkers = []string{
	"gpg.ssh.allowedSignersFile needs to be configured",
	"unsupported value for gpg.format",
}

// MissingConfig reports whether the transcript shows absent signing
// configuration rather than a signature verdict.
func MissingConfig(transcript string) bool {
	for _, marker := range missingConfigMarkers {
		if strings.Contains(transcript, marker) {
			return true
		}
	}
	return false
}

// ParseTranscript classifies the combined output of `git verify-commit`.
// exitCode is the tool's process exit status; it breaks ties between a
// negative-but-well-formed verdict and a hard tool error.
func ParseTranscript(transcript string, exitCode int) Result {
	res := Result{Transcript: transcript}

	// SSH signing. The no-principal case still prints a "Good" line, so it
	// must be checked before the general good-signature match.
	if strings.Contains(transcript, "No principal matched") {
		res.Outcome = OutcomePrincipalNotAllowed
		if m := sshKeyOnly.FindStringSubmatch(transcript); m != nil {
			res.KeyType, res.Fingerprint = m[1], m[2]
		} else if m := sshGoodNoFor.FindStringSubmatch(transcript); m != nil {
			res.KeyType, res.Fingerprint = m[1], m[2]
		}
		return res
	}
	if m := sshGoodFor.FindStringSubmatch(transcript); m != nil && exitCode == 0 {
		res.Outcome = OutcomeValid
		res.Principal, res.KeyType, res.Fingerprint = m[1], m[2], m[3]
		return res
	}

	// GPG signing.
	if m := gpgGood.FindStringSubmatch(transcript); m != nil && exitCode == 0 {
		res.Outcome = OutcomeValid
		res.Principal = m[1]
		if k := gpgKey.FindStringSubmatch(transcript); k != nil {
			res.KeyType, res.Fingerprint = k[1], k[2]
		}
		return res
	}
	if strings.Contains(transcript, "gpg: Can't check signature: No public key") {
		res.Outcome = OutcomePrincipalNotAllowed
		return res
	}

	// Negative verdicts that are still well-formed answers.
	for _, marker := range []string{
		"could not be verified",
		"Could not verify signature",
		"incorrect signature",
		"Signature verification failed",
		"gpg: BAD signature",
	} {
		if strings.Contains(transcript, marker) {
			res.Outcome = OutcomeInvalid
			return res
		}
	}

	// No signature metadata in the output at all.
	if strings.TrimSpace(transcript) == "" && exitCode != 0 {
		res.Outcome = OutcomeUnsigned
		return res
	}

	res.Outcome = OutcomeError
	return res
}
