package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const sessionFile = "session.json"

// Session is the locally persisted identity. A zero Session means
// logged out.
type Session struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
}

func (s Session) LoggedIn() bool {
	return s.UserID != 0
}

// Store persists the session on disk so a restart resumes the login.
type Store struct {
	dir string
}

// NewStore places the session under $HEARTGAME_HOME, falling back to
// ~/.heartgame.
func NewStore() *Store {
	if dir := os.Getenv("HEARTGAME_HOME"); dir != "" {
		return &Store{dir: dir}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return &Store{dir: ".heartgame"}
	}
	return &Store{dir: filepath.Join(home, ".heartgame")}
}

func NewStoreAt(dir string) *Store {
	return &Store{dir: dir}
}

func (s *Store) Dir() string {
	return s.dir
}

// Load reads the persisted session. A missing or malformed file is a
// logged-out session, never an error.
func (s *Store) Load() Session {
	data, err := os.ReadFile(filepath.Join(s.dir, sessionFile))
	if err != nil {
		return Session{}
	}

	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return Session{}
	}
	return session
}

// Save writes the session to disk.
func (s *Store) Save(userID int64, username string) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	data, err := json.Marshal(Session{UserID: userID, Username: username})
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	if err := os.WriteFile(filepath.Join(s.dir, sessionFile), data, 0600); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}
	return nil
}

// Clear removes the persisted session. An already-missing file is fine.
func (s *Store) Clear() error {
	err := os.Remove(filepath.Join(s.dir, sessionFile))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}
