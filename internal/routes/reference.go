package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/amigo-app/amigo-api/internal/reference"
)

// RegisterReferenceRoutes wires one protected CRUD surface per reference
// table in the catalog. Every table gets the same verbs; only the descriptor
// varies.
func RegisterReferenceRoutes(r fiber.Router, db *pgxpool.Pool) {
	for _, desc := range reference.Catalog {
		var store reference.Store
		if db != nil {
			store = reference.NewPostgresStore(db, desc)
		} else {
			store = reference.NewMemoryStore()
		}
		h := reference.NewHandler(desc, store)

		group := r.Group("/" + desc.Name)
		group.Get("/", h.List)
		group.Get("/:id", h.Get)
		group.Post("/", h.Create)
		group.Put("/:id", h.Update)
		group.Patch("/:id", h.Update)
		group.Delete("/:id", h.Delete)
	}
}

// RegisterMunicipalityRoutes wires the protected municipality CRUD. The
// public per-state listing lives under /auth.
func RegisterMunicipalityRoutes(r fiber.Router, store reference.MunicipalityStore) {
	h := reference.NewMunicipalityHandler(store)
	group := r.Group("/municipios")
	group.Get("/", h.List)
	group.Get("/:id", h.Get)
	group.Post("/", h.Create)
	group.Put("/:id", h.Update)
	group.Patch("/:id", h.Patch)
	group.Delete("/:id", h.Delete)
}
