// Package retrieval adapts external search backends into Evidence records
//: the search backend contract, credibility
// inference from a result's URL host, and evidence construction under the
// admission filters in internal/model.
package retrieval

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/veridex-ai/factdebate/internal/model"
)

// Hit is one raw search result: a title, URL, and content excerpt. No
// ranking guarantees are assumed.
type Hit struct {
	Title   string
	URL     string
	Content string
}

// SearchClient is the minimal search backend contract every adapter must
// implement. An empty result slice with a nil error is valid.
type SearchClient interface {
	Search(ctx context.Context, query string) ([]Hit, error)
}

// CredibilityWhitelist holds additional host suffixes treated as High
// credibility, configured externally.
type CredibilityWhitelist struct {
	// Suffixes are matched against the normalized host with strings.HasSuffix,
	// so both an exact host and any subdomain of it match.
	Suffixes []string
}

var builtinHighCredibilityHosts = map[string]bool{
	"who.int":        true,
	"un.org":         true,
	"wikipedia.org":  true,
	"nature.com":     true,
	"science.org":    true,
}

// normalizeHost lower-cases a URL host and strips a leading "www." prefix.
func normalizeHost(rawURL string) string {
	host := rawURL
	if idx := strings.Index(host, "://"); idx >= 0 {
		host = host[idx+3:]
	}
	if idx := strings.IndexAny(host, "/?#"); idx >= 0 {
		host = host[:idx]
	}
	if idx := strings.LastIndex(host, "@"); idx >= 0 {
		host = host[idx+1:]
	}
	if idx := strings.LastIndex(host, ":"); idx >= 0 {
		host = host[:idx]
	}
	host = strings.ToLower(host)
	host = strings.TrimPrefix(host, "www.")
	return host
}

// InferCredibility classifies a result URL's host into a credibility tier.
func InferCredibility(rawURL string, whitelist CredibilityWhitelist) model.Credibility {
	host := normalizeHost(rawURL)
	if host == "" {
		return model.CredibilityLow
	}

	if strings.HasSuffix(host, ".gov") || strings.Contains(host, ".gov.") || strings.HasSuffix(host, ".edu") {
		return model.CredibilityHigh
	}
	for known := range builtinHighCredibilityHosts {
		if host == known || strings.HasSuffix(host, "."+known) {
			return model.CredibilityHigh
		}
	}
	for _, suffix := range whitelist.Suffixes {
		suffix = strings.ToLower(strings.TrimPrefix(suffix, "www."))
		if host == suffix || strings.HasSuffix(host, "."+suffix) {
			return model.CredibilityHigh
		}
	}

	for _, tld := range []string{".com", ".org", ".net"} {
		if strings.HasSuffix(host, tld) {
			return model.CredibilityMedium
		}
	}
	return model.CredibilityLow
}

// normalizeContent lower-cases and collapses whitespace, matching the
// normalization the evidence pool uses for deduplication so both stages
// agree on what counts as "the same content".
func normalizeContent(content string) string {
	fields := strings.Fields(strings.ToLower(content))
	return strings.Join(fields, " ")
}

func contentHash(content string) string {
	sum := sha256.Sum256([]byte(normalizeContent(content)))
	return hex.EncodeToString(sum[:])
}

// BuildEvidence converts one search hit into an Evidence record, inferring
// credibility from the hit's URL and applying the admission filters defined
// on model.NewEvidence. Hits that
// fail admission return model.ErrContentTooShort or model.ErrEmptyURL.
func BuildEvidence(hit Hit, whitelist CredibilityWhitelist, agent model.Agent, round int, query string, now time.Time) (model.Evidence, error) {
	cred := InferCredibility(hit.URL, whitelist)
	source := hit.Title
	if source == "" {
		source = normalizeHost(hit.URL)
	}
	id := uuid.NewString()
	return model.NewEvidence(id, hit.Content, hit.URL, source, cred, agent, round, query, now, contentHash(hit.Content))
}

// searchError wraps a transport-level failure so callers can distinguish
// "search returned nothing" from "search backend is unreachable".
type searchError struct {
	query string
	err   error
}

func (e *searchError) Error() string {
	return fmt.Sprintf("retrieval: search %q: %v", e.query, e.err)
}

func (e *searchError) Unwrap() error { return e.err }
