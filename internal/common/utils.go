package common

import "strings"

// KeywordSeparator joins keyword sets in persisted records and upstream queries.
const KeywordSeparator = ","

// JoinKeywords serializes a keyword set into its stored form, keeping order.
func JoinKeywords(keywords []string) string {
	return strings.Join(keywords, KeywordSeparator)
}

// SplitKeywords reverses JoinKeywords. An empty string yields no keywords.
func SplitKeywords(s string) []string {
	if s == "" {
		return []string{}
	}
	return strings.Split(s, KeywordSeparator)
}

// HasAny returns true if s contains any of the substrings.
func HasAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
