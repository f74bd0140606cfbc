package handlers

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"

	"github.com/heartlab/heartgame/storage"
	"github.com/heartlab/heartgame/storage/db"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
)

// NewTestContext creates a new Echo context with an optional JSON body
func NewTestContext(method, path string, body interface{}) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()

	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath(path)

	return c, rec
}

// NewTestFormContext creates a new Echo context with a form-encoded body
func NewTestFormContext(method, path string, form url.Values) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()

	req := httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)

	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath(path)

	return c, rec
}

// NewTestDB creates a test database with migrations applied
func NewTestDB() (*sql.DB, *db.Queries, func()) {
	database, queries, cleanup, err := storage.NewTestDB()
	if err != nil {
		panic("failed to create test database: " + err.Error())
	}
	return database, queries, cleanup
}

// CreateTestUser creates a user with a bcrypt-hashed password
func CreateTestUser(queries *db.Queries, username, password string) (db.User, error) {
	hash, err := bcrypt.GenerateFromPassword(truncatePassword(password), bcrypt.MinCost)
	if err != nil {
		return db.User{}, err
	}

	return queries.CreateUser(context.Background(), db.CreateUserParams{
		Username:     username,
		PasswordHash: string(hash),
	})
}

// AssertJSONResponse checks if the response is valid JSON and returns the parsed body
func AssertJSONResponse(rec *httptest.ResponseRecorder) (map[string]interface{}, error) {
	var body map[string]interface{}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		return nil, err
	}
	return body, nil
}
