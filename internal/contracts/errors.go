package contracts

import (
	"context"
	"errors"
	"net"
)

// Sentinel errors shared across stages.
var (
	// ErrEmptyHistory means the provider answered but had no bars for the symbol.
	ErrEmptyHistory = errors.New("empty history")
	// ErrInsufficientHistory means fewer than 20 qualifying trading days remained
	// after holiday filtering.
	ErrInsufficientHistory = errors.New("insufficient history")
	// ErrUniverseNotFound means the requested universe file does not exist.
	ErrUniverseNotFound = errors.New("universe not found")
	// ErrHardDataNotBuilt means no hard data set has been published for the universe.
	ErrHardDataNotBuilt = errors.New("hard data not built")
	// ErrRefreshNotConfigured means the universe has no constituents page to scrape.
	ErrRefreshNotConfigured = errors.New("no constituents page configured")
)

// FailureKind classifies why a symbol was excluded from a batch build.
type FailureKind string

const (
	FailureEmptyHistory        FailureKind = "empty_history"
	FailureInsufficientHistory FailureKind = "insufficient_history"
	FailureTimeout             FailureKind = "timeout"
	FailureProviderError       FailureKind = "provider_error"
)

// ClassifyFetchError maps a per-symbol build error onto the closed FailureKind
// enumeration so batch counters can be derived mechanically.
func ClassifyFetchError(err error) FailureKind {
	switch {
	case errors.Is(err, ErrEmptyHistory):
		return FailureEmptyHistory
	case errors.Is(err, ErrInsufficientHistory):
		return FailureInsufficientHistory
	case errors.Is(err, context.DeadlineExceeded):
		return FailureTimeout
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return FailureTimeout
	}

	return FailureProviderError
}

// BuildStats reports one batch build run. Counters are deterministic for a
// given input regardless of worker completion order.
type BuildStats struct {
	Universe            string `json:"universe"`
	Attempted           int    `json:"attempted"`
	EmptyHistory        int    `json:"empty_history"`
	InsufficientHistory int    `json:"insufficient_history"`
	Timeout             int    `json:"timeout"`
	ProviderError       int    `json:"provider_error"`
	Built               int    `json:"built"`
}

// RecordFailure tallies one excluded symbol under its failure kind.
func (s *BuildStats) RecordFailure(kind FailureKind) {
	switch kind {
	case FailureEmptyHistory:
		s.EmptyHistory++
	case FailureInsufficientHistory:
		s.InsufficientHistory++
	case FailureTimeout:
		s.Timeout++
	default:
		s.ProviderError++
	}
}

// Failed returns the total number of excluded symbols.
func (s *BuildStats) Failed() int {
	return s.EmptyHistory + s.InsufficientHistory + s.Timeout + s.ProviderError
}
