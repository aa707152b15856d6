package mpv

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"

	"github.com/wippyai/go-mpv/errors"
)

func TestError_Err(t *testing.T) {
	if err := ErrSuccess.Err(); err != nil {
		t.Fatalf("success should map to nil, got %v", err)
	}
	if err := Error(3).Err(); err != nil {
		t.Fatalf("positive codes are not errors, got %v", err)
	}

	for code := ErrEventQueueFull; code >= ErrGeneric; code-- {
		err := code.Err()
		if err == nil {
			t.Fatalf("code %d: expected error", code)
		}
		if !strings.Contains(err.Error(), "[client]") {
			t.Errorf("code %d: message %q lacks phase", code, err.Error())
		}
		if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseClient, Kind: errors.KindClient}) {
			t.Errorf("code %d: should match client error", code)
		}
	}
}

func TestError_String(t *testing.T) {
	if ErrNomem.String() != "memory allocation failed" {
		t.Errorf("ErrNomem = %q", ErrNomem.String())
	}
	if Error(-99).String() != ErrGeneric.String() {
		t.Errorf("unknown code should fall back to generic, got %q", Error(-99).String())
	}
}

func TestCode(t *testing.T) {
	err := ErrorFromCode(-8)
	code, ok := Code(err)
	if !ok || code != ErrPropertyNotFound {
		t.Fatalf("Code = %v, %v; want %v, true", code, ok, ErrPropertyNotFound)
	}

	wrapped := fmt.Errorf("get volume: %w", Error(-99).Err())
	code, ok = Code(wrapped)
	if !ok || code != -99 {
		t.Fatalf("wrapped Code = %v, %v; want -99, true", code, ok)
	}

	if _, ok := Code(stderrors.New("plain")); ok {
		t.Error("plain error should not carry a code")
	}
	if _, ok := Code(errors.InvalidInput(errors.PhaseAlloc, "x")); ok {
		t.Error("non-client structured error should not carry a code")
	}
}
