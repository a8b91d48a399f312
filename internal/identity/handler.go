package identity

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// Handler exposes the user CRUD endpoints. Registration lives with the
// login flow; everything here requires a verified bearer credential.
type Handler struct {
	svc *Service
}

// NewHandler builds the user CRUD handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// List returns a page of users. The code hash never appears in responses.
func (h *Handler) List(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 20)
	// Clamp here too: the page count below divides by the limit.
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}

	users, total, err := h.svc.List(c.UserContext(), page, limit)
	if err != nil {
		return translateError(err)
	}

	pages := total / limit
	if total%limit != 0 {
		pages++
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"success": true,
		"items":   users,
		"total":   total,
		"page":    page,
		"pages":   pages,
	})
}

// Create registers a member through the administrative surface. Unlike the
// public registration no credential is issued and no email goes out; the
// plaintext code is returned once so the administrator can hand it over.
func (h *Handler) Create(c *fiber.Ctx) error {
	var input RegisterInput
	if err := c.BodyParser(&input); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	user, plain, err := h.svc.Register(c.UserContext(), input)
	if err != nil {
		return translateError(err)
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Usuario creado exitosamente",
		"data":    fiber.Map{"codigoPlain": plain, "user": user},
	})
}

// Get returns a single user by id.
func (h *Handler) Get(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid user id")
	}
	user, err := h.svc.Get(c.UserContext(), id)
	if err != nil {
		return translateError(err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"success": true, "data": user})
}

// Update replaces the user's mutable fields.
func (h *Handler) Update(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid user id")
	}
	var input RegisterInput
	if err := c.BodyParser(&input); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	user, err := h.svc.Update(c.UserContext(), id, input)
	if err != nil {
		return translateError(err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Usuario actualizado correctamente",
		"data":    user,
	})
}

// Patch applies a partial update.
func (h *Handler) Patch(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid user id")
	}
	var patch PatchInput
	if err := c.BodyParser(&patch); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if patch.Empty() {
		return fiber.NewError(http.StatusBadRequest, "No se proporcionaron campos para actualizar")
	}
	user, err := h.svc.Patch(c.UserContext(), id, patch)
	if err != nil {
		return translateError(err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Usuario actualizado parcialmente",
		"data":    user,
	})
}

// Delete removes the user.
func (h *Handler) Delete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid user id")
	}
	if err := h.svc.Delete(c.UserContext(), id); err != nil {
		return translateError(err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Usuario eliminado correctamente",
	})
}

func translateError(err error) error {
	var vErr *ValidationError
	switch {
	case errors.As(err, &vErr):
		return fiber.NewError(http.StatusBadRequest, vErr.Error())
	case errors.Is(err, ErrNotFound):
		return fiber.NewError(http.StatusNotFound, "Usuario no encontrado")
	case errors.Is(err, ErrPhoneTaken), errors.Is(err, ErrEmailTaken):
		return fiber.NewError(http.StatusConflict, "Valores duplicados en la base de datos")
	case errors.Is(err, ErrReferenced):
		return fiber.NewError(http.StatusConflict, "No se puede eliminar: el registro es referenciado por otros datos")
	default:
		return err
	}
}
