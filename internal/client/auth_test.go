package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateSignUp_Order(t *testing.T) {
	tests := []struct {
		name     string
		username string
		password string
		confirm  string
		want     string
	}{
		{"all empty", "", "", "", msgMissingFields},
		{"missing confirm", "ann", "secret123", "", msgMissingFields},
		{"short username", "ab", "abcdef", "abcdef", msgUsernameTooShort},
		{"short password", "abc", "abc", "abc", msgPasswordTooShort},
		{"mismatch", "abc", "abcdef", "xyzxyz", msgPasswordMismatch},
		// Empty fields win over length problems.
		{"empty beats short", "ab", "", "", msgMissingFields},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSignUp(tt.username, tt.password, tt.confirm)
			require.Error(t, err)
			assert.Equal(t, tt.want, err.Error())
		})
	}

	assert.NoError(t, ValidateSignUp("ann", "secret123", "secret123"))
}

func TestValidateSignIn(t *testing.T) {
	assert.EqualError(t, ValidateSignIn("", "secret123"), msgMissingFields)
	assert.EqualError(t, ValidateSignIn("ann", ""), msgMissingFields)
	// Sign-in has no length rules; the server decides.
	assert.NoError(t, ValidateSignIn("ab", "x"))
}

func TestSignIn_LocalRejectionSkipsNetwork(t *testing.T) {
	var requests atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
	}))
	defer server.Close()

	auth := NewAuth(New(server.URL), NewStoreAt(t.TempDir()))

	_, err := auth.SignIn(context.Background(), "", "")
	require.Error(t, err)

	var vErr ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, int64(0), requests.Load(), "validation failures must not hit the server")
}

func TestSignIn_SavesSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/auth/login", r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "ann", r.PostForm.Get("username"))

		json.NewEncoder(w).Encode(map[string]any{"message": "Login successful", "user_id": 42})
	}))
	defer server.Close()

	store := NewStoreAt(t.TempDir())
	auth := NewAuth(New(server.URL), store)

	session, err := auth.SignIn(context.Background(), "ann", "secret123")
	require.NoError(t, err)
	assert.Equal(t, int64(42), session.UserID)
	assert.Equal(t, "ann", session.Username)

	assert.Equal(t, session, store.Load(), "session must persist")
}

func TestFailureMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		fallback string
		want     string
	}{
		{"validation verbatim", ValidationError(msgPasswordMismatch), "fb", msgPasswordMismatch},
		{"server detail verbatim", &APIError{Status: 400, Detail: "Invalid credentials"}, "fb", "Invalid credentials"},
		{"empty detail uses fallback", &APIError{Status: 500}, "Login failed", "Login failed"},
		{"transport error", context.DeadlineExceeded, "fb", msgConnection},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FailureMessage(tt.err, tt.fallback))
		})
	}
}

func TestSignOut(t *testing.T) {
	store := NewStoreAt(t.TempDir())
	require.NoError(t, store.Save(42, "ann"))

	auth := NewAuth(New("http://localhost:0"), store)
	require.NoError(t, auth.SignOut())
	assert.False(t, store.Load().LoggedIn())
}
