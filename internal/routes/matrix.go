package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/amigo-app/amigo-api/internal/matrix"
)

// RegisterMatrixRoutes wires the protected access matrix endpoints.
func RegisterMatrixRoutes(r fiber.Router, h *matrix.Handler) {
	group := r.Group("/matrizaccesos")
	group.Get("/", h.List)
	group.Get("/:id", h.Get)
	group.Post("/", h.Create)
	group.Put("/:id", h.Update)
	group.Patch("/:id", h.Patch)
	group.Delete("/:id", h.Delete)
}
