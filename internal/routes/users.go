package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/amigo-app/amigo-api/internal/identity"
)

// RegisterUserRoutes wires the protected member administration endpoints.
// Self-service registration lives under /auth/registrar.
func RegisterUserRoutes(r fiber.Router, h *identity.Handler) {
	group := r.Group("/usuarios")
	group.Get("/", h.List)
	group.Get("/:id", h.Get)
	group.Post("/", h.Create)
	group.Put("/:id", h.Update)
	group.Patch("/:id", h.Patch)
	group.Delete("/:id", h.Delete)
}
