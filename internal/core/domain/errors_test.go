package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorKinds(t *testing.T) {
	cases := []struct {
		err  error
		kind error
		msg  string
	}{
		{ErrUserNotFound, ErrNotFound, "user not found"},
		{ErrArticleNotFound, ErrNotFound, "article not found"},
		{ErrEmailTaken, ErrConflict, "user with this email already exists"},
		{ErrUsernameTaken, ErrConflict, "username already taken"},
		{ErrStaleUser, ErrConflict, "user was modified concurrently, retry the request"},
		{Validationf("unknown role %q", "owner"), ErrValidation, `unknown role "owner"`},
	}
	for _, tc := range cases {
		if !errors.Is(tc.err, tc.kind) {
			t.Errorf("%v: expected kind %v", tc.err, tc.kind)
		}
		if tc.err.Error() != tc.msg {
			t.Errorf("expected message %q, got %q", tc.msg, tc.err.Error())
		}
		wrapped := fmt.Errorf("op: %w", tc.err)
		if !errors.Is(wrapped, tc.kind) {
			t.Errorf("%v: kind lost through wrapping", wrapped)
		}
	}

	if errors.Is(ErrUserNotFound, ErrConflict) {
		t.Error("not-found must not match conflict")
	}
	if errors.Unwrap(ErrNotFound) != nil {
		t.Error("kinds must not unwrap further")
	}
}
