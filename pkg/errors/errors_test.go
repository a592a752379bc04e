package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidConfig, "cell_size must be positive, got %d", -3)

	if err.Code != ErrCodeInvalidConfig {
		t.Errorf("Code = %q, want %q", err.Code, ErrCodeInvalidConfig)
	}
	if err.Message != "cell_size must be positive, got -3" {
		t.Errorf("Message = %q", err.Message)
	}
	want := "INVALID_CONFIG: cell_size must be positive, got -3"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestWrap(t *testing.T) {
	cause := stderrors.New("unexpected EOF")
	err := Wrap(ErrCodeInvalidImage, cause, "decode %s", "portrait.jpg")

	if !stderrors.Is(err, cause) {
		t.Error("wrapped error should match cause via errors.Is")
	}
	want := "INVALID_IMAGE: decode portrait.jpg: unexpected EOF"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code Code
		want bool
	}{
		{"matching code", New(ErrCodeInvalidStyle, "bad style"), ErrCodeInvalidStyle, true},
		{"different code", New(ErrCodeInvalidStyle, "bad style"), ErrCodeInvalidTheme, false},
		{"wrapped in fmt", fmt.Errorf("context: %w", New(ErrCodeStepLimit, "cap hit")), ErrCodeStepLimit, true},
		{"plain error", stderrors.New("plain"), ErrCodeInternal, false},
		{"nil error", nil, ErrCodeInternal, false},
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
	if got := GetCode(New(ErrCodeDegenerateImage, "flat")); got != ErrCodeDegenerateImage {
		t.Errorf("GetCode() = %q, want %q", got, ErrCodeDegenerateImage)
	}
	if got := GetCode(stderrors.New("plain")); got != "" {
		t.Errorf("GetCode(plain) = %q, want empty", got)
	}
}

func TestUserMessage(t *testing.T) {
	if got := UserMessage(New(ErrCodeInvalidTheme, "unknown theme %q", "neon")); got != `unknown theme "neon"` {
		t.Errorf("UserMessage() = %q", got)
	}
	if got := UserMessage(stderrors.New("plain failure")); got != "plain failure" {
		t.Errorf("UserMessage(plain) = %q", got)
	}
}
