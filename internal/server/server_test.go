package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"inkwell/internal/config"
	"inkwell/internal/database"
	"inkwell/internal/middleware"
	"inkwell/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		Port:      "0",
		Env:       "test",
		JWTSecret: "test-secret-key-for-handler-tests",
		JWTKeyID:  "primary",
	}
}

// setupTestApp builds the full route surface against an in-memory database.
// Redis stays nil, so caching and rate limiting are simply disabled.
func setupTestApp(t *testing.T) *fiber.App {
	t.Helper()

	db, err := database.ConnectSQLite(":memory:")
	require.NoError(t, err)

	srv, err := NewServerWithDeps(testConfig(), db, nil)
	require.NoError(t, err)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return models.RespondWithError(c, err)
		},
	})
	app.Use(middleware.Authenticate(srv.codec))
	srv.SetupRoutes(app)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, bearer string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var decoded map[string]any
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	_ = resp.Body.Close()
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &decoded))
	}
	return resp, decoded
}

func signup(t *testing.T, app *fiber.App, email, name, password string) {
	t.Helper()
	resp, _ := doJSON(t, app, http.MethodPut, "/api/auth/signup", "", fiber.Map{
		"email":    email,
		"name":     name,
		"password": password,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
}

func login(t *testing.T, app *fiber.App, email, password string) string {
	t.Helper()
	resp, body := doJSON(t, app, http.MethodPost, "/api/auth/login", "", fiber.Map{
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	tok, _ := body["token"].(string)
	require.NotEmpty(t, tok)
	return tok
}

func TestAuthAndPostLifecycle(t *testing.T) {
	app := setupTestApp(t)

	// Register, then a wrong password is a 401 with a specific message.
	signup(t, app, "a@x.com", "Ada", "abcde")

	resp, body := doJSON(t, app, http.MethodPost, "/api/auth/login", "", fiber.Map{
		"email":    "a@x.com",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Password is incorrect.", body["message"])

	tok := login(t, app, "a@x.com", "abcde")

	// Creating a post without a token fails with 401.
	resp, body = doJSON(t, app, http.MethodPost, "/api/posts", "", fiber.Map{
		"title":   "A valid title",
		"content": "Valid content here",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Not authenticated.", body["message"])

	// A too-short title fails validation with exactly one message.
	resp, body = doJSON(t, app, http.MethodPost, "/api/posts", tok, fiber.Map{
		"title":   "Hi",
		"content": "Valid content here",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	data, _ := body["data"].([]any)
	require.Len(t, data, 1)
	assert.Equal(t, "Title is missing or too short.", data[0])

	// Valid creation succeeds.
	resp, body = doJSON(t, app, http.MethodPost, "/api/posts", tok, fiber.Map{
		"title":   "A valid title",
		"content": "Valid content here",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	post, _ := body["post"].(map[string]any)
	require.NotNil(t, post)
	assert.Equal(t, "A valid title", post["title"])
}

func TestLoginUnknownEmailRespondsUnauthorized(t *testing.T) {
	app := setupTestApp(t)

	resp, body := doJSON(t, app, http.MethodPost, "/api/auth/login", "", fiber.Map{
		"email":    "nobody@x.com",
		"password": "abcde",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "User Not Found.", body["message"])
}

func TestSignupAggregatesValidationMessages(t *testing.T) {
	app := setupTestApp(t)

	resp, body := doJSON(t, app, http.MethodPut, "/api/auth/signup", "", fiber.Map{
		"email":    "not-an-email",
		"name":     "X",
		"password": "abc",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "Invalid input.", body["message"])
	data, _ := body["data"].([]any)
	require.Len(t, data, 2)
	assert.Equal(t, "Email is invalid.", data[0])
	assert.Equal(t, "Password is missing or too short.", data[1])
}

func TestDuplicateSignupServedAsGenericError(t *testing.T) {
	app := setupTestApp(t)

	signup(t, app, "a@x.com", "Ada", "abcde")

	resp, body := doJSON(t, app, http.MethodPut, "/api/auth/signup", "", fiber.Map{
		"email":    "a@x.com",
		"name":     "Ada again",
		"password": "abcde",
	})
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "User already exists.", body["message"])
}

func TestPostsPagination(t *testing.T) {
	app := setupTestApp(t)

	signup(t, app, "a@x.com", "Ada", "abcde")
	tok := login(t, app, "a@x.com", "abcde")

	titles := []string{
		"The first post here",
		"The second post here",
		"The third post here",
	}
	for _, title := range titles {
		resp, _ := doJSON(t, app, http.MethodPost, "/api/posts", tok, fiber.Map{
			"title":   title,
			"content": "Valid content here",
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	resp, body := doJSON(t, app, http.MethodGet, "/api/posts?page=1", tok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(3), body["totalPosts"])
	posts, _ := body["posts"].([]any)
	require.Len(t, posts, 2)
	first, _ := posts[0].(map[string]any)
	assert.Equal(t, "The third post here", first["title"])

	resp, body = doJSON(t, app, http.MethodGet, "/api/posts?page=2", tok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	posts, _ = body["posts"].([]any)
	require.Len(t, posts, 1)

	// Anonymous listing is rejected by the operation, not the transport.
	resp, body = doJSON(t, app, http.MethodGet, "/api/posts", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Not authenticated.", body["message"])
}

func TestUpdateAndDeleteEnforceOwnership(t *testing.T) {
	app := setupTestApp(t)

	signup(t, app, "owner@x.com", "Owner", "abcde")
	signup(t, app, "other@x.com", "Other", "abcde")
	ownerTok := login(t, app, "owner@x.com", "abcde")
	otherTok := login(t, app, "other@x.com", "abcde")

	resp, body := doJSON(t, app, http.MethodPost, "/api/posts", ownerTok, fiber.Map{
		"title":   "A valid title",
		"content": "Valid content here",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	post, _ := body["post"].(map[string]any)
	postID := int(post["id"].(float64))
	require.NotZero(t, postID)

	path := "/api/posts/" + strconv.Itoa(postID)

	resp, body = doJSON(t, app, http.MethodPut, path, otherTok, fiber.Map{
		"title":   "A hijacked title",
		"content": "Valid content here",
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "Not authorized.", body["message"])

	resp, _ = doJSON(t, app, http.MethodDelete, path, otherTok, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, body = doJSON(t, app, http.MethodPut, path, ownerTok, fiber.Map{
		"title":    "An updated title",
		"content":  "Valid content here",
		"imageUrl": "undefined",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	post, _ = body["post"].(map[string]any)
	assert.Equal(t, "An updated title", post["title"])

	resp, body = doJSON(t, app, http.MethodDelete, path, ownerTok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Deleted post.", body["message"])

	resp, body = doJSON(t, app, http.MethodGet, path, ownerTok, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "No post found.", body["message"])
}

func TestProfileAndStatus(t *testing.T) {
	app := setupTestApp(t)

	signup(t, app, "a@x.com", "Ada", "abcde")
	tok := login(t, app, "a@x.com", "abcde")

	resp, body := doJSON(t, app, http.MethodGet, "/api/users/me", tok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	user, _ := body["user"].(map[string]any)
	require.NotNil(t, user)
	assert.Equal(t, "a@x.com", user["email"])
	assert.Equal(t, "I am new!", user["status"])

	resp, body = doJSON(t, app, http.MethodPut, "/api/users/me/status", tok, fiber.Map{
		"status": "Writing today",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Writing today", body["status"])

	resp, _ = doJSON(t, app, http.MethodGet, "/api/users/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestExpiredTokenTreatedAsAnonymous(t *testing.T) {
	app := setupTestApp(t)

	signup(t, app, "a@x.com", "Ada", "abcde")

	// A structurally invalid token does not block the request; the operation
	// sees an anonymous caller and rejects it itself.
	resp, body := doJSON(t, app, http.MethodGet, "/api/posts", "garbage-token", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Not authenticated.", body["message"])
}
