package sigverify

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Entry is one line of an allowed-signers file: the trusted binding between
// principal labels and a public key.
type Entry struct {
	Principals []string
	Namespaces string // from the namespaces="..." option, "" when absent
	KeyType    string // e.g. "ssh-ed25519"
	Key        string // base64 key material
}

// ParseAllowedSigners parses the OpenSSH allowed-signers format: one entry
// per line, `principals [options] key-type key [comment]`, with '#' comments
// and blank lines ignored. Unparseable lines are reported with their line
// number so a bad trust list is loud, not silently shorter.
func ParseAllowedSigners(data string) ([]Entry, error) {
	var entries []Entry

	sc := bufio.NewScanner(strings.NewReader(data))
	lineno := 0
	for sc.Scan() {
		lineno++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := splitSignerLine(line)
		if len(fields) < 3 {
			return nil, fmt.Errorf("allowed signers line %d: expected principals, key type and key", lineno)
		}

		entry := Entry{Principals: strings.Split(fields[0], ",")}

		// Options sit between the principals and the key type. They either
		// contain '=' or are bare flags like cert-authority.
		i := 1
		for i < len(fields)-2 && (strings.Contains(fields[i], "=") || fields[i] == "cert-authority") {
			if v, ok := strings.CutPrefix(fields[i], "namespaces="); ok {
				entry.Namespaces = strings.Trim(v, `"`)
			}
			i++
		}
		if len(fields)-i < 2 {
			return nil, fmt.Errorf("allowed signers line %d: missing key material", lineno)
		}

		entry.KeyType = fields[i]
		entry.Key = fields[i+1]
		entries = append(entries, entry)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}

// LoadAllowedSigners reads and parses an allowed-signers file.
func LoadAllowedSigners(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseAllowedSigners(string(data))
}

// HasPrincipal reports whether any entry names the given principal.
func HasPrincipal(entries []Entry, principal string) bool {
	for _, e := range entries {
		for _, p := range e.Principals {
			if p == principal {
				return true
			}
		}
	}
	return false
}

// splitSignerLine splits on whitespace but keeps double-quoted option values
// (which may contain spaces) in one field.
func splitSignerLine(line string) []string {
	var fields []string
	var cur strings.Builder
	inQuote := false

	for _, r := range line {
		switch {
		case r == '"':
			inQuote = !inQuote
			cur.WriteRune(r)
		case (r == ' ' || r == '\t') && !inQuote:
			if cur.Len() > 0 {
				fields = append(fields, cur.String())
				cur.Reset()
			}
		default:
			cur.WriteRune(r)
		}
	}
	if cur.Len() > 0 {
		fields = append(fields, cur.String())
	}
	return fields
}
