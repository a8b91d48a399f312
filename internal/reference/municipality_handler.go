package reference

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// MunicipalityHandler serves the protected municipality CRUD surface.
type MunicipalityHandler struct {
	store MunicipalityStore
}

// NewMunicipalityHandler binds the handler to a store.
func NewMunicipalityHandler(store MunicipalityStore) *MunicipalityHandler {
	return &MunicipalityHandler{store: store}
}

// List returns a filtered page of municipalities.
func (h *MunicipalityHandler) List(c *fiber.Ctx) error {
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

	municipalities, total, err := h.store.List(c.UserContext(), params)
	if err != nil {
		return translateMunicipalityError(err)
	}

	pages := total / params.Limit
	if total%params.Limit != 0 {
		pages++
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Municipios obtenidos exitosamente",
		"items":   municipalities,
		"total":   total,
		"page":    params.Page,
		"pages":   pages,
	})
}

// Get returns one municipality.
func (h *MunicipalityHandler) Get(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return fiber.NewError(http.StatusBadRequest, "ID inválido")
	}
	m, err := h.store.Get(c.UserContext(), id)
	if err != nil {
		return translateMunicipalityError(err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"success": true, "data": m})
}

type municipalityRequest struct {
	StateID *int    `json:"id_estado"`
	Number  *int    `json:"num_municipio"`
	Name    *string `json:"municipio"`
}

// Create inserts a municipality.
func (h *MunicipalityHandler) Create(c *fiber.Ctx) error {
	m, err := parseMunicipality(c)
	if err != nil {
		return err
	}

	created, err := h.store.Create(c.UserContext(), m)
	if err != nil {
		return translateMunicipalityError(err)
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Municipio creado exitosamente",
		"data":    created,
	})
}

// Update rewrites every field of a municipality.
func (h *MunicipalityHandler) Update(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return fiber.NewError(http.StatusBadRequest, "ID inválido")
	}
	m, err := parseMunicipality(c)
	if err != nil {
		return err
	}
	m.ID = id

	updated, err := h.store.Update(c.UserContext(), m)
	if err != nil {
		return translateMunicipalityError(err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Municipio actualizado exitosamente",
		"data":    updated,
	})
}

// Patch applies only the provided fields; the merged row goes through the
// same conflict checks as Update.
func (h *MunicipalityHandler) Patch(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return fiber.NewError(http.StatusBadRequest, "ID inválido")
	}
	var req municipalityRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid request body")
	}
	if req.StateID == nil && req.Number == nil && req.Name == nil {
		return fiber.NewError(http.StatusBadRequest, "No se proporcionaron campos para actualizar")
	}

	m, err := h.store.Get(c.UserContext(), id)
	if err != nil {
		return translateMunicipalityError(err)
	}
	if req.StateID != nil {
		m.StateID = *req.StateID
	}
	if req.Number != nil {
		m.Number = *req.Number
	}
	if req.Name != nil {
		m.Name = strings.TrimSpace(*req.Name)
	}
	if err := validateMunicipality(m); err != nil {
		return err
	}

	updated, err := h.store.Update(c.UserContext(), m)
	if err != nil {
		return translateMunicipalityError(err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Municipio actualizado parcialmente",
		"data":    updated,
	})
}

// Delete removes a municipality.
func (h *MunicipalityHandler) Delete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return fiber.NewError(http.StatusBadRequest, "ID inválido")
	}
	if err := h.store.Delete(c.UserContext(), id); err != nil {
		return translateMunicipalityError(err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"success":      true,
		"message":      "Municipio eliminado correctamente",
		"id_eliminado": id,
	})
}

func parseMunicipality(c *fiber.Ctx) (Municipality, error) {
	var req municipalityRequest
	if err := c.BodyParser(&req); err != nil {
		return Municipality{}, fiber.NewError(http.StatusBadRequest, "invalid request body")
	}
	if req.StateID == nil || req.Number == nil || req.Name == nil {
		return Municipality{}, fiber.NewError(http.StatusBadRequest,
			"Se requieren id_estado, num_municipio y municipio")
	}
	m := Municipality{
		StateID: *req.StateID,
		Number:  *req.Number,
		Name:    strings.TrimSpace(*req.Name),
	}
	if err := validateMunicipality(m); err != nil {
		return Municipality{}, err
	}
	return m, nil
}

func validateMunicipality(m Municipality) error {
	if m.StateID <= 0 {
		return fiber.NewError(http.StatusBadRequest, "id_estado inválido")
	}
	if m.Number <= 0 {
		return fiber.NewError(http.StatusBadRequest, "num_municipio inválido")
	}
	if m.Name == "" {
		return fiber.NewError(http.StatusBadRequest, "municipio es obligatorio")
	}
	if len(m.Name) > MunicipalityMaxLen {
		return fiber.NewError(http.StatusBadRequest, "municipio supera la longitud máxima")
	}
	return nil
}

func translateMunicipalityError(err error) error {
	switch {
	case errors.Is(err, ErrMunicipalityNotFound):
		return fiber.NewError(http.StatusNotFound, "Municipio no encontrado")
	case errors.Is(err, ErrMunicipalityTaken):
		return fiber.NewError(http.StatusConflict,
			"Municipio duplicado (número o nombre ya existe en el estado)")
	case errors.Is(err, ErrUnknownState):
		return fiber.NewError(http.StatusNotFound, "id_estado no existe")
	case errors.Is(err, ErrReferenced):
		return fiber.NewError(http.StatusConflict,
			"No se puede eliminar: el registro es referenciado por otros datos")
	default:
		return err
	}
}
