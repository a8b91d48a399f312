package middleware

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/amigo-app/amigo-api/internal/identity"
	"github.com/amigo-app/amigo-api/internal/logging"
	"github.com/amigo-app/amigo-api/internal/token"
)

func setupBearerApp(t *testing.T) (*fiber.App, *token.Issuer) {
	t.Helper()

	users := identity.NewMemoryRepository()
	if _, err := users.Create(context.Background(), identity.User{
		Name:          "Laura",
		PersonalPhone: "5512345678",
		Email:         "laura@example.com",
	}); err != nil {
		t.Fatalf("seed user: %v", err)
	}

	tokens := token.NewIssuer("test-secret-0123456789-0123456789", time.Hour)
	app := fiber.New()
	app.Use(BearerAuth(tokens, users, logging.Discard()))
	app.Get("/protegida", func(c *fiber.Ctx) error {
		user, ok := CurrentUser(c)
		if !ok {
			return fiber.NewError(fiber.StatusInternalServerError, "no user in context")
		}
		return c.JSON(fiber.Map{"telefono_personal": user.PersonalPhone})
	})
	return app, tokens
}

func TestBearerAuthAllowsValidToken(t *testing.T) {
	app, tokens := setupBearerApp(t)

	bearer, err := tokens.Issue("5512345678")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	req := httptest.NewRequest(fiber.MethodGet, "/protegida", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+bearer)

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected %d got %d", fiber.StatusOK, resp.StatusCode)
	}
}

func TestBearerAuthRejectsMissingHeader(t *testing.T) {
	app, _ := setupBearerApp(t)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/protegida", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected %d got %d", fiber.StatusUnauthorized, resp.StatusCode)
	}
}

func TestBearerAuthRejectsUnknownSubject(t *testing.T) {
	app, tokens := setupBearerApp(t)

	bearer, err := tokens.Issue("5599999999")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	req := httptest.NewRequest(fiber.MethodGet, "/protegida", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+bearer)

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected %d got %d", fiber.StatusUnauthorized, resp.StatusCode)
	}
}

func TestBearerAuthRejectsGarbageToken(t *testing.T) {
	app, _ := setupBearerApp(t)

	req := httptest.NewRequest(fiber.MethodGet, "/protegida", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer not-a-token")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected %d got %d", fiber.StatusUnauthorized, resp.StatusCode)
	}
}
