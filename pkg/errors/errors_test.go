package errors

import (
	stderrors "errors"
	"testing"
)

func TestNewAndIs(t *testing.T) {
	err := New(ErrCodeMalformedInput, "line %d: expected two fields", 7)

	if !Is(err, ErrCodeMalformedInput) {
		t.Error("Is should match the code")
	}
	if Is(err, ErrCodeInternal) {
		t.Error("Is matched the wrong code")
	}
	if GetCode(err) != ErrCodeMalformedInput {
		t.Errorf("GetCode = %s", GetCode(err))
	}
	want := "MALFORMED_INPUT: line 7: expected two fields"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := stderrors.New("boom")
	err := Wrap(ErrCodeInvariant, cause, "solve aborted")

	if !stderrors.Is(err, cause) {
		t.Error("wrapped cause not found in chain")
	}
	if GetCode(err) != ErrCodeInvariant {
		t.Errorf("GetCode = %s", GetCode(err))
	}
	if UserMessage(err) != "solve aborted" {
		t.Errorf("UserMessage = %q", UserMessage(err))
	}
}

func TestGetCodePlainError(t *testing.T) {
	if GetCode(stderrors.New("plain")) != "" {
		t.Error("plain errors have no code")
	}
	if UserMessage(stderrors.New("plain")) != "plain" {
		t.Error("UserMessage should pass plain errors through")
	}
}
