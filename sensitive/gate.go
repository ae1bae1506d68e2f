package sensitive

import (
	"bytes"
	"strings"

	"github.com/cloudflare/ahocorasick"
)

// gateTokens lists cheap literal tokens a pattern's match must contain.
// A pattern absent from this table cannot be gated and always runs.
var gateTokens = map[string][]string{
	"email":          {"@"},
	"ssn":            {"-"},
	"ip_address":     {"."},
	"api_key":        {"api_key", "api-secret", "access-token"},
	"aws_access_key": {"akia"},
	"jwt_token":      {"eyj"},
	"street_address": {" street", " avenue", " road", " lane", " drive", " st", " ave", " blvd", " rd", " ln", " dr"},
}

// gate decides per pattern whether the regex needs to run at all, based
// on a single Aho-Corasick pass over the lowercased content.
type gate struct {
	allowAll bool
	allowed  map[string]bool
}

func (g gate) allow(pattern string) bool {
	if g.allowAll {
		return true
	}
	return g.allowed[pattern]
}

// buildGate runs the combined token matcher once and marks which
// patterns have at least one token present. Small inputs skip the
// matcher; the regexes are cheaper than building match state.
func buildGate(content []byte, names []string) gate {
	const minGatedSize = 4 * 1024
	if len(content) < minGatedSize {
		return gate{allowAll: true}
	}

	tokenSet := make(map[string]struct{})
	perPattern := make(map[string][]string, len(names))
	for _, name := range names {
		tokens, ok := gateTokens[name]
		if !ok {
			continue
		}
		perPattern[name] = tokens
		for _, t := range tokens {
			tokenSet[t] = struct{}{}
		}
	}
	if len(tokenSet) == 0 {
		return gate{allowAll: true}
	}

	tokens := make([]string, 0, len(tokenSet))
	for t := range tokenSet {
		tokens = append(tokens, t)
	}
	matcher := ahocorasick.NewStringMatcher(tokens)
	lower := bytes.ToLower(content)
	hit := make(map[string]bool, len(tokens))
	for _, idx := range matcher.MatchThreadSafe(lower) {
		if idx >= 0 && idx < len(tokens) {
			hit[tokens[idx]] = true
		}
	}

	allowed := make(map[string]bool, len(names))
	for _, name := range names {
		tokens, gated := perPattern[name]
		if !gated {
			allowed[name] = true
			continue
		}
		for _, t := range tokens {
			if hit[strings.ToLower(t)] {
				allowed[name] = true
				break
			}
		}
	}
	return gate{allowed: allowed}
}
