package reference

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// Handler serves the uniform CRUD surface for one reference table. Wire
// field names come from the descriptor so each table keeps its original
// column vocabulary (id_genero/genero, id_vista/vista, ...).
type Handler struct {
	desc  Descriptor
	store Store
}

// NewHandler binds a handler to one descriptor and its store.
func NewHandler(desc Descriptor, store Store) *Handler {
	return &Handler{desc: desc, store: store}
}

func (h *Handler) render(item Item) fiber.Map {
	return fiber.Map{
		h.desc.IDColumn:    item.ID,
		h.desc.LabelColumn: item.Label,
	}
}

// List returns a filtered page of rows.
func (h *Handler) List(c *fiber.Ctx) error {
	params := ListParams{
		Page:  c.QueryInt("page", 1),
		Limit: c.QueryInt("limit", 20),
		Query: c.Query("q"),
		Sort:  c.Query("sort"),
	}
	// Clamp here too: the page count below divides by the limit.
	if params.Page < 1 {
		params.Page = 1
	}
	if params.Limit < 1 {
		params.Limit = 20
	}

	items, total, err := h.store.List(c.UserContext(), params)
	if err != nil {
		return h.translateError(err)
	}

	rendered := make([]fiber.Map, 0, len(items))
	for _, item := range items {
		rendered = append(rendered, h.render(item))
	}
	pages := total / params.Limit
	if total%params.Limit != 0 {
		pages++
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"success": true,
		"items":   rendered,
		"total":   total,
		"page":    params.Page,
		"pages":   pages,
	})
}

// Get returns a single row by id.
func (h *Handler) Get(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid id")
	}
	item, err := h.store.Get(c.UserContext(), id)
	if err != nil {
		return h.translateError(err)
	}
	return c.Status(http.StatusOK).JSON(h.render(item))
}

// Create inserts a new row.
func (h *Handler) Create(c *fiber.Ctx) error {
	label, err := h.parseLabel(c)
	if err != nil {
		return err
	}
	item, err := h.store.Create(c.UserContext(), label)
	if err != nil {
		return h.translateError(err)
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Registro creado exitosamente",
		"data":    h.render(item),
	})
}

// Update rewrites the row's label. For single-label entities a partial
// update is the same operation, so PATCH shares this handler.
func (h *Handler) Update(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid id")
	}
	label, err := h.parseLabel(c)
	if err != nil {
		return err
	}
	item, err := h.store.Update(c.UserContext(), id, label)
	if err != nil {
		return h.translateError(err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Registro actualizado correctamente",
		"data":    h.render(item),
	})
}

// Delete removes the row.
func (h *Handler) Delete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid id")
	}
	if err := h.store.Delete(c.UserContext(), id); err != nil {
		return h.translateError(err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"success":      true,
		"message":      "Registro eliminado correctamente",
		"id_eliminado": id,
	})
}

func (h *Handler) parseLabel(c *fiber.Ctx) (string, error) {
	var body map[string]json.RawMessage
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return "", fiber.NewError(http.StatusBadRequest, "invalid request body")
	}

	raw, ok := body[h.desc.LabelColumn]
	if !ok {
		return "", fiber.NewError(http.StatusBadRequest,
			fmt.Sprintf("El campo %q es obligatorio", h.desc.LabelColumn))
	}
	var label string
	if err := json.Unmarshal(raw, &label); err != nil {
		return "", fiber.NewError(http.StatusBadRequest,
			fmt.Sprintf("El campo %q debe ser una cadena", h.desc.LabelColumn))
	}
	label = strings.TrimSpace(label)
	if label == "" {
		return "", fiber.NewError(http.StatusBadRequest,
			fmt.Sprintf("El campo %q es obligatorio", h.desc.LabelColumn))
	}
	if h.desc.MaxLen > 0 && len(label) > h.desc.MaxLen {
		return "", fiber.NewError(http.StatusBadRequest,
			fmt.Sprintf("El campo %q no puede exceder los %d caracteres", h.desc.LabelColumn, h.desc.MaxLen))
	}
	return label, nil
}

func (h *Handler) translateError(err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return fiber.NewError(http.StatusNotFound, "Registro no encontrado")
	case errors.Is(err, ErrDuplicate):
		return fiber.NewError(http.StatusConflict, "El registro ya existe")
	case errors.Is(err, ErrReferenced):
		return fiber.NewError(http.StatusConflict,
			"No se puede eliminar: el registro es referenciado por otros datos")
	default:
		return err
	}
}
