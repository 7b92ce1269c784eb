// Package s1_universe owns the universes this service aggregates over: the
// symbol normalizer, the CSV-backed universe source, and the constituents
// scraper used by the weekly refresh job.
package s1_universe

import "strings"

// Exchange suffixes recognized by the normalizer. Bare tickers default to
// the NSE listing.
const (
	SuffixNSE = ".NS"
	SuffixBSE = ".BO"
)

// Normalize maps a raw ticker string to its canonical exchange-qualified
// form: trimmed, uppercased, with ".NS" appended unless an exchange suffix
// is already present. Empty input normalizes to "".
func Normalize(raw string) string {
	sym := strings.ToUpper(strings.TrimSpace(raw))
	if sym == "" {
		return ""
	}

	if strings.HasSuffix(sym, SuffixNSE) || strings.HasSuffix(sym, SuffixBSE) {
		return sym
	}
	return sym + SuffixNSE
}

// NormalizeAll normalizes a slice of raw tickers, dropping empties and
// duplicates while preserving first-occurrence order.
func NormalizeAll(raw []string) []string {
	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		sym := Normalize(r)
		if sym == "" {
			continue
		}
		if _, dup := seen[sym]; dup {
			continue
		}
		seen[sym] = struct{}{}
		out = append(out, sym)
	}
	return out
}
