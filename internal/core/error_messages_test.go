package core

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestMapError(t *testing.T) {
	_, validationErr := LoadInput{}.Validate()
	_, enumErr := ParseTruckStatus("parked")

	tests := []struct {
		name     string
		err      error
		wantCode string
	}{
		{"nil error returns empty", nil, ""},
		{"fetch failure", errors.New("fetch failed: loads http://data/loads-mock.json: 404 Not Found"), "FETCH001"},
		{"duplicate seed id", fmt.Errorf("replace loads: %w", ErrDuplicateID), "FETCH001"},
		{"not a csv", ErrNotCSV, "CSV001"},
		{"too few lines", ErrTooFewLines, "CSV002"},
		{"missing columns", &MissingColumnsError{Fields: []string{FieldDestination}}, "CSV003"},
		{"no valid rows wrapped", fmt.Errorf("%w (3 rows skipped)", ErrNoValidRows), "CSV004"},
		{"file too large", ErrFileTooLarge, "CSV005"},
		{"request body too large", errors.New("http: request body too large"), "CSV005"},
		{"too many imports", ErrTooManyImports, "CSV006"},
		{"validation errors", validationErr, "VAL001"},
		{"invalid enum", enumErr, "VAL002"},
		{"not found", fmt.Errorf("update load 3: %w", ErrNotFound), "ENT001"},
		{"mutation failed", fmt.Errorf("create load: %w", ErrMutationFailed), "ENT002"},
		{"context canceled", context.Canceled, "REQ001"},
		{"deadline exceeded", context.DeadlineExceeded, "REQ002"},
		{"rate limit", errors.New("rate limit exceeded"), "RATE001"},
		{"unknown error returns default", errors.New("some random internal error"), "ERR000"},
		{"case insensitive matching", errors.New("TOO FEW LINES"), "CSV002"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			if got.Code != tt.wantCode {
				t.Errorf("MapError() code = %q, want %q", got.Code, tt.wantCode)
			}
		})
	}
}

func TestFormatUserError(t *testing.T) {
	result := FormatUserError(ErrTooFewLines)

	expected := "CSV file must contain at least a header row and one data row (Code: CSV002). Add a header row and at least one load"
	if result != expected {
		t.Errorf("FormatUserError() = %q, want %q", result, expected)
	}

	if got := FormatUserError(nil); got != "" {
		t.Errorf("FormatUserError(nil) = %q, want empty", got)
	}
}

func TestIsUserFacing(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil error is not user facing", nil, false},
		{"known error is user facing", ErrNoValidRows, true},
		{"unknown error is not user facing", errors.New("random internal error xyz"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsUserFacing(tt.err); got != tt.want {
				t.Errorf("IsUserFacing() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewUserError(t *testing.T) {
	t.Run("nil error returns nil", func(t *testing.T) {
		if got := NewUserError(nil); got != nil {
			t.Errorf("NewUserError(nil) = %v, want nil", got)
		}
	})

	t.Run("wraps technical error with user message", func(t *testing.T) {
		userErr := NewUserError(ErrNotCSV)

		if userErr.Error() != "Please select a valid CSV file" {
			t.Errorf("Error() = %q, want user message", userErr.Error())
		}
		if !errors.Is(userErr, ErrNotCSV) {
			t.Error("Unwrap() should return original error")
		}
	})
}
