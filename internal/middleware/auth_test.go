package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"inkwell/internal/authz"
	"inkwell/internal/token"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthTestApp(t *testing.T, codec *token.Codec) *fiber.App {
	t.Helper()

	app := fiber.New()
	app.Use(Authenticate(codec))
	app.Get("/whoami", func(c *fiber.Ctx) error {
		id := IdentityFrom(c)
		return c.JSON(fiber.Map{
			"userId":        id.UserID,
			"authenticated": id.Authenticated,
		})
	})
	return app
}

func TestAuthenticateNeverRejects(t *testing.T) {
	t.Parallel()

	codec := token.NewCodec(token.StaticKeyProvider{KID: "primary", Secret: []byte("test-secret")})
	valid, err := codec.Issue(42, "user@example.com")
	require.NoError(t, err)

	other := token.NewCodec(token.StaticKeyProvider{KID: "primary", Secret: []byte("wrong-secret")})
	forged, err := other.Issue(42, "user@example.com")
	require.NoError(t, err)

	tests := []struct {
		name          string
		header        string
		authenticated bool
	}{
		{
			name:          "no header",
			header:        "",
			authenticated: false,
		},
		{
			name:          "valid bearer token",
			header:        "Bearer " + valid,
			authenticated: true,
		},
		{
			name:          "wrong scheme",
			header:        "Basic " + valid,
			authenticated: false,
		},
		{
			name:          "malformed header",
			header:        "Bearer",
			authenticated: false,
		},
		{
			name:          "garbage token",
			header:        "Bearer not-a-token",
			authenticated: false,
		},
		{
			name:          "forged signature",
			header:        "Bearer " + forged,
			authenticated: false,
		},
	}

	app := newAuthTestApp(t, codec)

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			resp, err := app.Test(req)
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()

			// The extractor must never turn a bad credential into a rejection.
			assert.Equal(t, http.StatusOK, resp.StatusCode)

			var body struct {
				UserID        uint `json:"userId"`
				Authenticated bool `json:"authenticated"`
			}
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tt.authenticated, body.Authenticated)
			if tt.authenticated {
				assert.Equal(t, uint(42), body.UserID)
			}
		})
	}
}

func TestAuthenticateAttachesIdentity(t *testing.T) {
	t.Parallel()

	codec := token.NewCodec(token.StaticKeyProvider{KID: "primary", Secret: []byte("test-secret")})
	raw, err := codec.Issue(7, "user@example.com")
	require.NoError(t, err)

	var captured authz.Identity
	app := fiber.New()
	app.Use(Authenticate(codec))
	app.Get("/", func(c *fiber.Ctx) error {
		captured = IdentityFrom(c)
		return c.SendStatus(fiber.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+raw)

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, authz.Identity{UserID: 7, Authenticated: true}, captured)
}

func TestIdentityFromWithoutMiddleware(t *testing.T) {
	t.Parallel()

	app := fiber.New()
	var captured authz.Identity
	app.Get("/", func(c *fiber.Ctx) error {
		captured = IdentityFrom(c)
		return c.SendStatus(fiber.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.False(t, captured.Authenticated)
	assert.Zero(t, captured.UserID)
}
