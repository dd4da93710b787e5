package rayid

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// HeaderName is the response header carrying the request identifier.
const HeaderName = "X-Ray-ID"

// New returns a middleware that assigns every request a RayID.
// An incoming X-Ray-ID header is reused so callers can correlate batch jobs.
func New() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(HeaderName)
		if id == "" {
			id = uuid.NewString()
		}
		c.Locals("ray_id", id)
		c.Set(HeaderName, id)
		return c.Next()
	}
}
