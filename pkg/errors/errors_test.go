package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestAppErrorUnwrap(t *testing.T) {
	err := New(ErrNilKey, "treemap.Put", "key must not be nil")
	if !errors.Is(err, ErrNilKey) {
		t.Fatalf("expected errors.Is to match ErrNilKey")
	}
	want := "treemap.Put: nil key: key must not be nil"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	bare := Newf(ErrInvalidInput, "", "bad value %d", 3)
	if bare.Error() != "invalid input: bad value 3" {
		t.Errorf("Error() = %q", bare.Error())
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, 0},
		{"invalid input", fmt.Errorf("loading: %w", ErrInvalidInput), ExitInvalidInput},
		{"bucket count", New(ErrInvalidBucketCount, "bucketed.New", "0"), ExitInvalidInput},
		{"store", fmt.Errorf("ping: %w", ErrStoreUnavailable), ExitUnavailable},
		{"timeout", ErrTimeout, ExitUnavailable},
		{"other", errors.New("boom"), ExitFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}
