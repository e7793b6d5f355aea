// Package platform performs the advisory hosting-platform query: whether the
// repository's GitHub project carries the community-standard artifacts. It
// is the only networked part of rootproof, and nothing in it may ever
// escalate to a critical failure: the local cryptographic phases are
// authoritative, this one is informative.
package platform

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"time"
)

// Profile summarizes GitHub's community-profile answer for one repository.
type Profile struct {
	HealthPercentage int
	MissingFiles     []string // community artifacts the project lacks, sorted
}

// Client queries the GitHub REST API.
type Client struct {
	BaseURL    string // e.g. "https://api.github.com"
	Token      string // optional; anonymous queries are rate-limited
	HTTPClient *http.Client
	Log        *slog.Logger
}

// ParseSlug extracts "owner/name" from a GitHub remote URL in any of the
// common shapes (https, ssh scheme, scp-like). ok is false for non-GitHub
// remotes.
func ParseSlug(remoteURL string) (owner, name string, ok bool) {
	s := remoteURL
	switch {
	case strings.HasPrefix(s, "git@github.com:"):
		s = strings.TrimPrefix(s, "git@github.com:")
	case strings.HasPrefix(s, "ssh://git@github.com/"):
		s = strings.TrimPrefix(s, "ssh://git@github.com/")
	case strings.HasPrefix(s, "https://github.com/"):
		s = strings.TrimPrefix(s, "https://github.com/")
	case strings.HasPrefix(s, "http://github.com/"):
		s = strings.TrimPrefix(s, "http://github.com/")
	default:
		return "", "", false
	}

	s = strings.TrimSuffix(strings.TrimSuffix(s, "/"), ".git")
	parts := strings.Split(s, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}

type profileResponse struct {
	HealthPercentage int                        `json:"health_percentage"`
	Files            map[string]json.RawMessage `json:"files"`
}

// CommunityProfile fetches the community profile for owner/name.
func (c *Client) CommunityProfile(ctx context.Context, owner, name string) (*Profile, error) {
	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}

	url := fmt.Sprintf("%s/repos/%s/%s/community/profile", strings.TrimSuffix(c.BaseURL, "/"), owner, name)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	if c.Log != nil {
		c.Log.Debug("querying community profile", "repo", owner+"/"+name)
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("community profile query returned %s", resp.Status)
	}

	var body profileResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decoding community profile: %w", err)
	}

	profile := &Profile{HealthPercentage: body.HealthPercentage}
	for artifact, raw := range body.Files {
		if string(raw) == "null" {
			profile.MissingFiles = append(profile.MissingFiles, artifact)
		}
	}
	sort.Strings(profile.MissingFiles)
	return profile, nil
}
