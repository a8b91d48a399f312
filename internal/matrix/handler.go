package matrix

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// Handler exposes the access matrix CRUD endpoints.
type Handler struct {
	svc *Service
}

// NewHandler builds the matrix handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

type entryRequest struct {
	UserTypeID *int  `json:"id_tipousuario"`
	ViewID     *int  `json:"id_vista"`
	Allowed    *bool `json:"estatus"`
}

// List returns every entry of the matrix.
func (h *Handler) List(c *fiber.Ctx) error {
	entries, err := h.svc.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(entries)
}

// Get returns one entry by id.
func (h *Handler) Get(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid matrix entry id")
	}
	entry, err := h.svc.Get(c.UserContext(), id)
	if err != nil {
		return translateError(err)
	}
	return c.Status(http.StatusOK).JSON(entry)
}

// Create states a new permission.
func (h *Handler) Create(c *fiber.Ctx) error {
	var req entryRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if req.UserTypeID == nil || req.ViewID == nil || req.Allowed == nil {
		return fiber.NewError(http.StatusBadRequest,
			"Faltan datos obligatorios: id_tipousuario, id_vista, estatus")
	}

	entry, err := h.svc.Create(c.UserContext(), *req.UserTypeID, *req.ViewID, *req.Allowed)
	if err != nil {
		return translateError(err)
	}
	return c.Status(http.StatusCreated).JSON(entry)
}

// Update replaces an entry.
func (h *Handler) Update(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid matrix entry id")
	}
	var req entryRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if req.UserTypeID == nil || req.ViewID == nil || req.Allowed == nil {
		return fiber.NewError(http.StatusBadRequest,
			"Faltan datos obligatorios: id_tipousuario, id_vista, estatus")
	}

	entry, err := h.svc.Update(c.UserContext(), id, *req.UserTypeID, *req.ViewID, *req.Allowed)
	if err != nil {
		return translateError(err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Registro actualizado correctamente",
		"data":    entry,
	})
}

// Patch applies a partial update.
func (h *Handler) Patch(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid matrix entry id")
	}
	var patch PatchInput
	if err := c.BodyParser(&patch); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if patch.Empty() {
		return fiber.NewError(http.StatusBadRequest, "No se proporcionaron campos para actualizar")
	}

	entry, err := h.svc.Patch(c.UserContext(), id, patch)
	if err != nil {
		return translateError(err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Registro actualizado parcialmente",
		"data":    entry,
	})
}

// Delete removes an entry.
func (h *Handler) Delete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid matrix entry id")
	}
	if err := h.svc.Delete(c.UserContext(), id); err != nil {
		return translateError(err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"success":      true,
		"message":      "Registro eliminado correctamente",
		"id_eliminado": id,
	})
}

func translateError(err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return fiber.NewError(http.StatusNotFound, "No existe un registro con ese id_matrizacceso")
	case errors.Is(err, ErrDuplicatePair):
		return fiber.NewError(http.StatusConflict,
			"Ya existe un registro para este tipo de usuario y vista")
	case errors.Is(err, ErrBadReference):
		return fiber.NewError(http.StatusConflict, "El tipo de usuario o la vista no existen")
	default:
		return err
	}
}
