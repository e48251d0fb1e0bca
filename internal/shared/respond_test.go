package shared

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestRespondErrorStatusMapping(t *testing.T) {
	cases := []struct {
		err     error
		status  int
		message string
	}{
		{ErrNotFound, http.StatusNotFound, "not found"},
		{ErrInvalidCredentials, http.StatusUnauthorized, "invalid credentials"},
		{ErrDuplicateEmail, http.StatusConflict, "email already registered"},
		{ErrTokenMissing, http.StatusUnauthorized, "authentication required"},
		{ErrTokenInvalid, http.StatusUnauthorized, "invalid or expired token"},
		{ErrTokenExpired, http.StatusUnauthorized, "invalid or expired token"},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		RespondError(rec, nil, tc.err)
		if rec.Code != tc.status {
			t.Errorf("%v: expected status %d, got %d", tc.err, tc.status, rec.Code)
		}
		if !strings.Contains(rec.Body.String(), tc.message) {
			t.Errorf("%v: expected message %q in %q", tc.err, tc.message, rec.Body.String())
		}
	}
}

func TestRespondErrorUniformTokenRejection(t *testing.T) {
	expired := httptest.NewRecorder()
	RespondError(expired, nil, ErrTokenExpired)
	invalid := httptest.NewRecorder()
	RespondError(invalid, nil, ErrTokenInvalid)

	if expired.Body.String() != invalid.Body.String() {
		t.Fatalf("expired and invalid tokens must be indistinguishable: %q vs %q",
			expired.Body.String(), invalid.Body.String())
	}
}

func TestRespondErrorHidesInternalDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondError(rec, nil, errors.New("pq: connection refused on 10.0.0.3"))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "10.0.0.3") {
		t.Fatalf("internal detail leaked: %q", rec.Body.String())
	}
}

func TestRespondErrorWrappedSentinel(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondError(rec, nil, errors.Join(errors.New("fetch task"), ErrNotFound))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected wrapped sentinel to map to 404, got %d", rec.Code)
	}
}
