package identity

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func TestListClampsNonPositiveLimit(t *testing.T) {
	repo := NewMemoryRepository()
	if _, err := repo.Create(context.Background(), User{
		Name:          "Laura",
		PersonalPhone: "5512345678",
		Email:         "laura@example.com",
	}); err != nil {
		t.Fatalf("seed user: %v", err)
	}

	h := NewHandler(NewService(repo))
	app := fiber.New()
	app.Get("/usuarios", h.List)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/usuarios?limit=0&page=-1", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected %d for limit=0, got %d", fiber.StatusOK, resp.StatusCode)
	}
}
