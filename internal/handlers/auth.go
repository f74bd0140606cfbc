package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strings"

	"github.com/heartlab/heartgame/storage/db"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
)

// maxPasswordBytes is bcrypt's input limit.
const maxPasswordBytes = 72

// AuthHandler handles signup and login
type AuthHandler struct {
	queries *db.Queries
}

func NewAuthHandler(queries *db.Queries) *AuthHandler {
	return &AuthHandler{
		queries: queries,
	}
}

// HandleSignup creates a new user from form-encoded credentials
func (h *AuthHandler) HandleSignup(c echo.Context) error {
	ctx := c.Request().Context()

	username := strings.TrimSpace(c.FormValue("username"))
	password := c.FormValue("password")

	if username == "" || password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Username and password are required")
	}

	_, err := h.queries.GetUserByUsername(ctx, username)
	if err == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Username already exists")
	}
	if err != sql.ErrNoRows {
		slog.Error("failed to look up username", "error", err, "username", username)
		return echo.NewHTTPError(http.StatusInternalServerError, "Database error")
	}

	hash, err := bcrypt.GenerateFromPassword(truncatePassword(password), bcrypt.DefaultCost)
	if err != nil {
		slog.Error("failed to hash password", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create user")
	}

	user, err := h.queries.CreateUser(ctx, db.CreateUserParams{
		Username:     username,
		PasswordHash: string(hash),
	})
	if err != nil {
		slog.Error("failed to create user", "error", err, "username", username)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create user")
	}

	slog.Info("user created", "user_id", user.ID, "username", username)

	return c.JSON(http.StatusOK, map[string]any{
		"message": "User created successfully",
	})
}

// HandleLogin checks form-encoded credentials against the stored hash
func (h *AuthHandler) HandleLogin(c echo.Context) error {
	ctx := c.Request().Context()

	username := strings.TrimSpace(c.FormValue("username"))
	password := c.FormValue("password")

	if username == "" || password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid credentials")
	}

	user, err := h.queries.GetUserByUsername(ctx, username)
	if err == sql.ErrNoRows {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid credentials")
	}
	if err != nil {
		slog.Error("failed to look up user", "error", err, "username", username)
		return echo.NewHTTPError(http.StatusInternalServerError, "Database error")
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), truncatePassword(password)) != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid credentials")
	}

	slog.Info("login successful", "user_id", user.ID, "username", username)

	return c.JSON(http.StatusOK, map[string]any{
		"message": "Login successful",
		"user_id": user.ID,
	})
}

// truncatePassword caps the password at bcrypt's 72-byte limit without
// splitting a multi-byte rune.
func truncatePassword(password string) []byte {
	b := []byte(password)
	if len(b) <= maxPasswordBytes {
		return b
	}
	b = b[:maxPasswordBytes]
	for len(b) > 0 && b[len(b)-1]&0xC0 == 0x80 {
		b = b[:len(b)-1]
	}
	return b
}
