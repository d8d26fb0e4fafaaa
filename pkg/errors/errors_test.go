package errors

import (
	"errors"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidInput, "connectivity matrix is not square: %dx%d", 3, 4)

	if err.Code != ErrCodeInvalidInput {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidInput)
	}
	if err.Message != "connectivity matrix is not square: 3x4" {
		t.Errorf("Message = %q", err.Message)
	}
	if want := "INVALID_INPUT: connectivity matrix is not square: 3x4"; err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("file vanished")
	err := Wrap(ErrCodeMissingArtifact, cause, "loading matrix")

	if err.Code != ErrCodeMissingArtifact {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeMissingArtifact)
	}
	if want := "MISSING_ARTIFACT: loading matrix: file vanished"; err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	if errors.Unwrap(err) != cause {
		t.Errorf("Unwrap() = %v, want the original cause", errors.Unwrap(err))
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
}

func TestIs(t *testing.T) {
	wrapped := Wrap(ErrCodeDegenerateTrajectory,
		New(ErrCodeInvalidInput, "inner"), "solving trajectory")

	tests := []struct {
		name string
		err  error
		code Code
		want bool
	}{
		{"matching code", New(ErrCodeInvalidInput, "bad matrix"), ErrCodeInvalidInput, true},
		{"different code", New(ErrCodeInvalidInput, "bad matrix"), ErrCodeMissingArtifact, false},
		{"outermost code wins", wrapped, ErrCodeDegenerateTrajectory, true},
		{"inner code is shadowed", wrapped, ErrCodeInvalidInput, false},
		{"plain error", errors.New("plain"), ErrCodeInvalidInput, false},
		{"nil error", nil, ErrCodeInvalidInput, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.want {
				t.Errorf("Is() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Code
	}{
		{"structured error", New(ErrCodeInvalidSample, "bad name"), ErrCodeInvalidSample},
		{"stdlib wrapping preserved", Wrap(ErrCodeCache, errors.New("disk full"), "writing entry"), ErrCodeCache},
		{"plain error", errors.New("plain"), ""},
		{"nil", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.want {
				t.Errorf("GetCode() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"strips the code prefix", New(ErrCodeInvalidInput, "weights must be non-negative"), "weights must be non-negative"},
		{"plain error passes through", errors.New("plain error"), "plain error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.want {
				t.Errorf("UserMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}
