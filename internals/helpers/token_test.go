package helper

import (
	"encoding/hex"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSessionToken(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		tok, err := GenerateSessionToken()
		require.NoError(t, err)
		assert.Len(t, tok, 64)
		_, err = hex.DecodeString(tok)
		assert.NoError(t, err)
		assert.False(t, seen[tok], "token kembar")
		seen[tok] = true
	}
}

func TestGetSessionToken(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString(GetSessionToken(c))
	})

	for header, want := range map[string]string{
		"":                "",
		"abc123":          "abc123",
		"  abc123  ":      "abc123",
		"Bearer abc123":   "abc123",
		"bearer   abc123": "abc123",
	} {
		req := httptest.NewRequest("GET", "/", nil)
		if header != "" {
			req.Header.Set(SessionHeader, header)
		}
		resp, err := app.Test(req)
		require.NoError(t, err)
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		require.NoError(t, err)
		assert.Equal(t, want, string(body), "header %q", header)
	}
}
