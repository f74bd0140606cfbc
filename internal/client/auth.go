package client

import (
	"context"
	"errors"
)

// User-facing failure text. The server's "detail" field takes priority
// when present; msgConnection covers transport failures.
const (
	msgMissingFields    = "Please enter both username and password"
	msgUsernameTooShort = "Username must be at least 3 characters long"
	msgPasswordTooShort = "Password must be at least 6 characters long"
	msgPasswordMismatch = "Passwords do not match"
	msgConnection       = "Error connecting to server. Please try again."
)

const (
	minUsernameLen = 3
	minPasswordLen = 6
)

// ValidationError is a locally rejected credential problem. It is shown
// to the player as-is and never reaches the network.
type ValidationError string

func (e ValidationError) Error() string {
	return string(e)
}

// ValidateSignIn checks credentials before any request is made.
func ValidateSignIn(username, password string) error {
	if username == "" || password == "" {
		return ValidationError(msgMissingFields)
	}
	return nil
}

// ValidateSignUp checks all three fields in the order the player sees
// them reported.
func ValidateSignUp(username, password, confirm string) error {
	if username == "" || password == "" || confirm == "" {
		return ValidationError(msgMissingFields)
	}
	if len(username) < minUsernameLen {
		return ValidationError(msgUsernameTooShort)
	}
	if len(password) < minPasswordLen {
		return ValidationError(msgPasswordTooShort)
	}
	if password != confirm {
		return ValidationError(msgPasswordMismatch)
	}
	return nil
}

// Auth runs the sign-in and sign-up flows against the server and keeps
// the session store in sync.
type Auth struct {
	api   *Client
	store *Store
}

func NewAuth(api *Client, store *Store) *Auth {
	return &Auth{api: api, store: store}
}

// SignIn validates locally, authenticates, and persists the session.
func (a *Auth) SignIn(ctx context.Context, username, password string) (Session, error) {
	if err := ValidateSignIn(username, password); err != nil {
		return Session{}, err
	}

	userID, err := a.api.Login(ctx, username, password)
	if err != nil {
		return Session{}, err
	}

	if err := a.store.Save(userID, username); err != nil {
		return Session{}, err
	}
	return Session{UserID: userID, Username: username}, nil
}

// SignUp validates locally and registers the account. The player signs
// in afterwards; no session is created here.
func (a *Auth) SignUp(ctx context.Context, username, password, confirm string) error {
	if err := ValidateSignUp(username, password, confirm); err != nil {
		return err
	}
	return a.api.Signup(ctx, username, password)
}

// SignOut clears the persisted session.
func (a *Auth) SignOut() error {
	return a.store.Clear()
}

// FailureMessage maps an auth error to the text shown to the player.
// Validation and server detail text pass through verbatim; anything
// else reads as a connection problem.
func FailureMessage(err error, fallback string) string {
	var vErr ValidationError
	if errors.As(err, &vErr) {
		return vErr.Error()
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if apiErr.Detail != "" {
			return apiErr.Detail
		}
		return fallback
	}

	return msgConnection
}
