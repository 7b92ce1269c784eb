package contracts

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

type fakeTimeoutErr struct{}

func (fakeTimeoutErr) Error() string   { return "dial tcp: i/o timeout" }
func (fakeTimeoutErr) Timeout() bool   { return true }
func (fakeTimeoutErr) Temporary() bool { return true }

func TestClassifyFetchError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want FailureKind
	}{
		{"empty history", ErrEmptyHistory, FailureEmptyHistory},
		{"wrapped empty history", fmt.Errorf("fetch RELIANCE.NS: %w", ErrEmptyHistory), FailureEmptyHistory},
		{"insufficient history", ErrInsufficientHistory, FailureInsufficientHistory},
		{"context deadline", context.DeadlineExceeded, FailureTimeout},
		{"wrapped deadline", fmt.Errorf("request: %w", context.DeadlineExceeded), FailureTimeout},
		{"network timeout", fakeTimeoutErr{}, FailureTimeout},
		{"anything else", errors.New("status 502"), FailureProviderError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyFetchError(tt.err); got != tt.want {
				t.Errorf("ClassifyFetchError() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBuildStats_RecordFailure(t *testing.T) {
	stats := BuildStats{Universe: "nifty50", Attempted: 10, Built: 6}

	stats.RecordFailure(FailureEmptyHistory)
	stats.RecordFailure(FailureEmptyHistory)
	stats.RecordFailure(FailureInsufficientHistory)
	stats.RecordFailure(FailureProviderError)

	if stats.EmptyHistory != 2 {
		t.Errorf("EmptyHistory = %d, want 2", stats.EmptyHistory)
	}
	if stats.InsufficientHistory != 1 {
		t.Errorf("InsufficientHistory = %d, want 1", stats.InsufficientHistory)
	}
	if stats.ProviderError != 1 {
		t.Errorf("ProviderError = %d, want 1", stats.ProviderError)
	}
	if stats.Failed() != 4 {
		t.Errorf("Failed() = %d, want 4", stats.Failed())
	}
}
