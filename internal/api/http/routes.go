package httpapi

import (
	"github.com/gofiber/fiber/v2"

	"clima-etl/internal/pipeline"
)

// RegisterRoutes wires the status endpoints into the Fiber app. The API is a
// read-only observation surface for the external scheduler and operators; it
// never triggers runs.
func RegisterRoutes(app *fiber.App, p *pipeline.Pipeline) {
	v1 := app.Group("/api/v1")

	v1.Get("/runs/latest", func(c *fiber.Ctx) error {
		run, ok := p.LastRun()
		if !ok {
			return fiber.NewError(fiber.StatusNotFound, "no runs recorded yet")
		}
		return c.JSON(run)
	})
}
