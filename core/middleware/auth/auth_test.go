package auth_test

import (
	"net/http/httptest"
	"testing"

	"print-exporter/core/middleware/auth"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newApp(cfg auth.Config) *fiber.App {
	app := fiber.New()
	app.Use(auth.New(cfg))
	app.Get("/*", func(c *fiber.Ctx) error { return c.SendString("ok") })
	return app
}

func TestAuth(t *testing.T) {
	tests := []struct {
		name   string
		cfg    auth.Config
		path   string
		header string
		want   int
	}{
		{"Disabled", auth.Config{}, "/export/1", "", 200},
		{"MissingKey", auth.Config{ApiKey: "secret"}, "/export/1", "", 401},
		{"WrongKey", auth.Config{ApiKey: "secret"}, "/export/1", "nope", 401},
		{"ValidKey", auth.Config{ApiKey: "secret"}, "/export/1", "secret", 200},
		{"SkippedPath", auth.Config{ApiKey: "secret", Skip: []string{"/metrics"}}, "/metrics", "", 200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newApp(tt.cfg)
			req := httptest.NewRequest("GET", tt.path, nil)
			if tt.header != "" {
				req.Header.Set("X-API-Key", tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}
