package auth

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/amigo-app/amigo-api/internal/identity"
	"github.com/amigo-app/amigo-api/internal/reference"
	"github.com/amigo-app/amigo-api/internal/session"
)

const (
	// SessionCookie carries the server-side session id.
	SessionCookie = "amigo"
	// MarkerCookie flags a recent first login for the client shell.
	MarkerCookie = "valor"
)

// Handler exposes the authentication endpoints.
type Handler struct {
	svc            *Service
	municipalities reference.MunicipalityStore
	sessionSecret  string
	sessionTTL     time.Duration
	markerTTL      time.Duration
	secure         bool
}

// NewHandler creates the auth HTTP handler. The session cookie value is
// signed with sessionSecret; secure controls the cookie Secure flag and
// should be on outside development.
func NewHandler(svc *Service, municipalities reference.MunicipalityStore, sessionSecret string, sessionTTL, markerTTL time.Duration, secure bool) *Handler {
	return &Handler{
		svc:            svc,
		municipalities: municipalities,
		sessionSecret:  sessionSecret,
		sessionTTL:     sessionTTL,
		markerTTL:      markerTTL,
		secure:         secure,
	}
}

// Register handles POST /auth/registrar.
func (h *Handler) Register(c *fiber.Ctx) error {
	var input identity.RegisterInput
	if err := c.BodyParser(&input); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid request body")
	}

	result, err := h.svc.Register(c.UserContext(), input)
	if err != nil {
		return translateError(err)
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Usuario registrado correctamente. Se ha enviado un código de verificación por email.",
		"data": fiber.Map{
			"token":       result.Token,
			"codigoPlain": result.PlainCode,
			"user":        result.User,
		},
	})
}

type loginRequest struct {
	PersonalPhone string `json:"telefono_personal"`
	Code          string `json:"codigo"`
}

// Login handles POST /auth/iniciar.
func (h *Handler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid request body")
	}
	req.PersonalPhone = strings.TrimSpace(req.PersonalPhone)
	req.Code = strings.TrimSpace(req.Code)
	if req.PersonalPhone == "" || req.Code == "" {
		return fiber.NewError(http.StatusBadRequest, "Faltan datos obligatorios: telefono_personal, codigo")
	}

	result, err := h.svc.Login(c.UserContext(), req.PersonalPhone, req.Code)
	if err != nil {
		return translateError(err)
	}

	c.Cookie(&fiber.Cookie{
		Name:     SessionCookie,
		Value:    session.SignCookie(result.SessionID, h.sessionSecret),
		MaxAge:   int(h.sessionTTL.Seconds()),
		HTTPOnly: true,
		Secure:   h.secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	c.Cookie(&fiber.Cookie{
		Name:     MarkerCookie,
		Value:    "true",
		MaxAge:   int(h.markerTTL.Seconds()),
		HTTPOnly: true,
		Secure:   h.secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	return c.Status(http.StatusOK).JSON(fiber.Map{
		"success":      true,
		"message":      "Inicio de sesión exitoso",
		"token":        result.Token,
		"idSession":    result.SessionID,
		"userSession":  result.User.PersonalPhone,
		"matrizacceso": result.Permissions,
		"user":         result.User,
	})
}

// Logout handles POST /auth/abandonar. The session is destroyed server-side
// and both cookies are expired; a logout without a live session still
// succeeds.
func (h *Handler) Logout(c *fiber.Ctx) error {
	// A missing or badly signed cookie behaves like no session at all.
	sessionID, _ := session.VerifyCookie(c.Cookies(SessionCookie), h.sessionSecret)
	if err := h.svc.Logout(c.UserContext(), sessionID); err != nil {
		return fiber.NewError(http.StatusInternalServerError, "No se pudo cerrar la sesión correctamente.")
	}

	h.expireCookie(c, SessionCookie)
	h.expireCookie(c, MarkerCookie)

	return c.Status(http.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Sesión cerrada correctamente.",
	})
}

// MunicipalitiesByState handles GET /auth/municipios/:id_estado. Public: the
// registration form needs it before any credential exists.
func (h *Handler) MunicipalitiesByState(c *fiber.Ctx) error {
	stateID, err := c.ParamsInt("id_estado")
	if err != nil || stateID <= 0 {
		return fiber.NewError(http.StatusBadRequest, "Debe proporcionar un id_estado")
	}

	municipalities, err := h.municipalities.ListByState(c.UserContext(), stateID)
	if err != nil {
		return err
	}

	return c.Status(http.StatusOK).JSON(fiber.Map{
		"success":         true,
		"message":         "Municipios encontrados",
		"total_registros": len(municipalities),
		"municipios":      municipalities,
	})
}

func (h *Handler) expireCookie(c *fiber.Ctx, name string) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		Secure:   h.secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func translateError(err error) error {
	var validation *identity.ValidationError
	switch {
	case errors.As(err, &validation):
		return fiber.NewError(http.StatusBadRequest, validation.Error())
	case errors.Is(err, identity.ErrPhoneTaken), errors.Is(err, identity.ErrEmailTaken):
		return fiber.NewError(http.StatusConflict, "Valores duplicados en la base de datos")
	case errors.Is(err, ErrUnknownUser):
		return fiber.NewError(http.StatusBadRequest, "Usuario no encontrado")
	case errors.Is(err, ErrBadCode):
		return fiber.NewError(http.StatusBadRequest, "Código de acceso incorrecto")
	default:
		return err
	}
}
