package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/amigo-app/amigo-api/internal/auth"
)

// RegisterAuthRoutes wires the public authentication endpoints.
func RegisterAuthRoutes(r fiber.Router, h *auth.Handler, rateLimiter fiber.Handler) {
	group := r.Group("/auth")
	group.Post("/registrar", h.Register)
	if rateLimiter != nil {
		group.Post("/iniciar", rateLimiter, h.Login)
	} else {
		group.Post("/iniciar", h.Login)
	}
	group.Post("/abandonar", h.Logout)
	// Public: the registration form loads municipalities before any
	// credential exists.
	group.Get("/municipios/:id_estado", h.MunicipalitiesByState)
}
