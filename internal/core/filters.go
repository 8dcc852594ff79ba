package core

import (
	"strings"
)

// domainPattern maps query keywords to the canonical sender domain they imply
type domainPattern struct {
	keywords []string
	domain   string
}

// domainPatterns is scanned in order; the first matching entry wins
var domainPatterns = []domainPattern{
	{keywords: []string{"gmail", "google mail"}, domain: "gmail.com"},
	{keywords: []string{"yahoo"}, domain: "yahoo.com"},
	{keywords: []string{"outlook", "hotmail", "live.com"}, domain: "outlook.com"},
	{keywords: []string{"proton", "protonmail"}, domain: "protonmail.com"},
}

var externalKeywords = []string{"external", "outside", "unknown sender"}

// ParseFilters extracts structured constraints from a free-text query using
// case-insensitive substring matching. No tokenization, no NLP.
//
// A query containing both positive and negative attachment phrases resolves
// to hasAttachment=false: the negative check runs second and overwrites.
// This last-write-wins behavior is intentional and documented, not a bug.
func ParseFilters(query string) QueryFilters {
	filters := QueryFilters{}
	lower := strings.ToLower(query)

	if strings.Contains(lower, "with attachment") ||
		strings.Contains(lower, "has attachment") ||
		strings.Contains(lower, "attached file") {
		filters.HasAttachment = boolPtr(true)
	}

	if strings.Contains(lower, "without attachment") || strings.Contains(lower, "no attachment") {
		filters.HasAttachment = boolPtr(false)
	}

	for _, pattern := range domainPatterns {
		matched := false
		for _, keyword := range pattern.keywords {
			if strings.Contains(lower, keyword) {
				matched = true
				break
			}
		}
		if matched {
			filters.SenderDomain = pattern.domain
			break
		}
	}

	if filters.SenderDomain == "" {
		for _, keyword := range externalKeywords {
			if strings.Contains(lower, keyword) {
				filters.SenderDomain = ExternalDomain
				break
			}
		}
	}

	return filters
}

// StoreFilter reduces the parsed filters to the predicates expressible in the
// vector store's equality-only query language. Sender domains never appear
// here: the store has no substring operator, so domain constraints are
// applied by FilterByDomain after retrieval.
func (f QueryFilters) StoreFilter() EqualityFilter {
	filter := EqualityFilter{}
	if f.HasAttachment != nil {
		filter["hasAttachment"] = *f.HasAttachment
	}
	return filter
}

// HasConcreteDomain reports whether the filters name a real domain rather
// than the external sentinel or nothing
func (f QueryFilters) HasConcreteDomain() bool {
	return f.SenderDomain != "" && f.SenderDomain != ExternalDomain
}

// FilterByDomain retains matches whose sender address ends with "@domain"
// and truncates to topK. The suffix comparison is deliberate: a substring
// match would let user@evilgmail.com through a gmail.com filter. The
// external sentinel and an empty domain pass everything through untouched.
func FilterByDomain(results []SearchResult, domain string, topK int) []SearchResult {
	if domain == "" || domain == ExternalDomain {
		return results
	}

	suffix := "@" + strings.ToLower(domain)
	filtered := make([]SearchResult, 0, len(results))
	for _, result := range results {
		if strings.HasSuffix(strings.ToLower(result.Metadata.Sender), suffix) {
			filtered = append(filtered, result)
		}
	}

	if len(filtered) > topK {
		filtered = filtered[:topK]
	}
	return filtered
}

func boolPtr(b bool) *bool {
	return &b
}
