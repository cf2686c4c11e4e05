package errors

import (
	"errors"
	"testing"
)

type customError struct {
	Msg string
}

func (e customError) Error() string { return e.Msg }

func TestNew(t *testing.T) {
	err := New("test error")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if err.Error() != "test error" {
		t.Errorf("expected 'test error', got '%s'", err.Error())
	}
}

func TestWrap(t *testing.T) {
	baseErr := errors.New("base error")

	t.Run("wrap non-nil error", func(t *testing.T) {
		wrapped := Wrap(baseErr, "wrapped")
		if wrapped == nil {
			t.Fatal("expected wrapped error, got nil")
		}
		expected := "wrapped: base error"
		if wrapped.Error() != expected {
			t.Errorf("expected '%s', got '%s'", expected, wrapped.Error())
		}
		if !errors.Is(wrapped, baseErr) {
			t.Error("expected wrapped error to wrap baseErr")
		}
	})

	t.Run("wrap nil error", func(t *testing.T) {
		if wrapped := Wrap(nil, "wrapped"); wrapped != nil {
			t.Errorf("expected nil, got %v", wrapped)
		}
	})
}

func TestWrapf(t *testing.T) {
	baseErr := errors.New("base error")

	wrapped := Wrapf(baseErr, "user %d", 7)
	if wrapped.Error() != "user 7: base error" {
		t.Errorf("unexpected message %q", wrapped.Error())
	}
	if !errors.Is(wrapped, baseErr) {
		t.Error("expected wrapped error to wrap baseErr")
	}
	if Wrapf(nil, "user %d", 7) != nil {
		t.Error("expected nil for nil error")
	}
}

func TestIs_DomainSentinels(t *testing.T) {
	sentinels := []error{
		ErrNotFound, ErrConflict, ErrInvalidInput, ErrUnauthorized,
		ErrForbidden, ErrRateLimited, ErrProvider, ErrCrypto,
	}

	for _, sentinel := range sentinels {
		wrapped := Wrap(sentinel, "context")
		if !Is(wrapped, sentinel) {
			t.Errorf("expected %v to match after wrapping", sentinel)
		}
		for _, other := range sentinels {
			if other != sentinel && Is(wrapped, other) {
				t.Errorf("%v must not match %v", wrapped, other)
			}
		}
	}
}

func TestAs(t *testing.T) {
	err := Wrap(customError{Msg: "custom"}, "context")

	var target customError
	if !As(err, &target) {
		t.Fatal("expected As to find customError")
	}
	if target.Msg != "custom" {
		t.Errorf("expected 'custom', got '%s'", target.Msg)
	}
}

func TestJoin(t *testing.T) {
	err := Join(ErrNotFound, nil, ErrProvider)
	if !Is(err, ErrNotFound) || !Is(err, ErrProvider) {
		t.Error("expected joined error to match both sentinels")
	}
	if Join(nil, nil) != nil {
		t.Error("expected nil when all errors are nil")
	}
}
